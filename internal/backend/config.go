package backend

import (
	"fmt"
	"strings"

	"ventas/internal/config"
)

// FromAppConfig converts the application config to source config
func FromAppConfig(appConfig *config.Config) (Config, error) {
	if appConfig == nil {
		return Config{}, fmt.Errorf("app config is nil")
	}

	sourceType := SourceType(appConfig.InputSource)
	if !sourceType.IsValid() {
		return Config{}, fmt.Errorf("invalid input source in config: %s", appConfig.InputSource)
	}

	opts := appConfig.TableOptions()
	return Config{
		Type: sourceType,

		InputFile: appConfig.DefaultInputFile,
		Encoding:  opts.Encoding,
		Delimiter: opts.Delimiter,

		GoogleSpreadsheetID:      appConfig.GoogleSpreadsheetID,
		GoogleSheetRange:         appConfig.GoogleSheetRange,
		GoogleServiceAccountJSON: appConfig.GoogleServiceAccountJSON,
		GoogleServiceAccountFile: appConfig.GoogleServiceAccountFile,
	}, nil
}

// Validate validates the source configuration
func (c Config) Validate() error {
	if !c.Type.IsValid() {
		return fmt.Errorf("invalid source type: %s", c.Type)
	}

	switch c.Type {
	case FileSource:
		if strings.TrimSpace(c.InputFile) == "" {
			return fmt.Errorf("input file path is required for file source")
		}
	case SheetsSource:
		if c.GoogleSpreadsheetID == "" {
			return fmt.Errorf("Google Spreadsheet ID is required for sheets source")
		}
	}

	return nil
}
