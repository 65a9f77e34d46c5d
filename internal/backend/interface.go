package backend

import (
	"context"

	"ventas/internal/sheets"
)

// CleanupFunc represents a cleanup function for resources
type CleanupFunc func() error

// SourceResult contains the default input source and optional cleanup function
type SourceResult struct {
	Source  sheets.TableReader
	Cleanup CleanupFunc
}

// Factory creates the default input source based on configuration
type Factory interface {
	CreateSource(ctx context.Context, config Config) (*SourceResult, error)
}

// Config holds configuration for source creation
type Config struct {
	Type SourceType

	// File specific
	InputFile string
	Encoding  string
	Delimiter rune

	// Google Sheets specific
	GoogleSpreadsheetID      string
	GoogleSheetRange         string
	GoogleServiceAccountJSON string
	GoogleServiceAccountFile string
}

// SourceType represents where the default input comes from
type SourceType string

const (
	FileSource   SourceType = "file"
	SheetsSource SourceType = "sheets"
)

// String implements fmt.Stringer
func (st SourceType) String() string {
	return string(st)
}

// IsValid returns true if the source type is valid
func (st SourceType) IsValid() bool {
	switch st {
	case FileSource, SheetsSource:
		return true
	default:
		return false
	}
}
