package sheets

import (
	"context"

	"ventas/internal/table"
)

// Ports for inbound table sources.
type (
	// TableReader yields the raw sales table of one source. Normalization is
	// left to the caller so every source goes through the same parser.
	TableReader interface {
		// Name identifies the source in logs and load audits.
		Name() string
		ReadTable(ctx context.Context) (table.Table, error)
	}
)
