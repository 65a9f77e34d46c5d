package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"ventas/internal/core"
	"ventas/internal/table"
)

const (
	SourceFile   = "file"
	SourceSheets = "sheets"
)

type Config struct {
	// HTTP Server
	Port            string
	MaxUploadBytes  int64
	UploadRateLimit int
	ShutdownTimeout time.Duration

	// Logging
	LogLevel  string
	LogFormat string

	// Input
	InputSource      string
	DefaultInputFile string
	InputEncoding    string
	InputDelimiter   string

	// Report
	CategoryOrder string
	Narrative     bool
	Theme         string
	HistogramBins int

	// Load audit (empty path disables it)
	AuditDBPath string

	// AMQP (empty URL disables publishing)
	AMQPURL        string
	AMQPExchange   string
	AMQPRoutingKey string

	// Google Sheets
	GoogleSpreadsheetID      string
	GoogleSheetRange         string
	GoogleServiceAccountJSON string
	GoogleServiceAccountFile string
}

func Load() *Config {
	cfg := &Config{
		Port:            getEnv("PORT", "8081"),
		MaxUploadBytes:  int64(getEnvInt("MAX_UPLOAD_BYTES", 10<<20)),
		UploadRateLimit: getEnvInt("UPLOAD_RATE_LIMIT", 30),
		ShutdownTimeout: getEnvDuration("SHUTDOWN_TIMEOUT", 10*time.Second),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "text"),

		InputSource:      getEnv("INPUT_SOURCE", SourceFile),
		DefaultInputFile: getEnv("DEFAULT_INPUT_FILE", "Ventas_Minoristas.csv"),
		InputEncoding:    getEnv("INPUT_ENCODING", "latin-1"),
		InputDelimiter:   getEnv("INPUT_DELIMITER", ";"),

		CategoryOrder: getEnv("CATEGORY_ORDER", string(core.OrderSorted)),
		Narrative:     getEnvBool("NARRATIVE", true),
		Theme:         getEnv("THEME", "dark"),
		HistogramBins: getEnvInt("HISTOGRAM_BINS", 30),

		AuditDBPath: getEnv("AUDIT_DB_PATH", ""),

		AMQPURL:        getEnv("AMQP_URL", ""),
		AMQPExchange:   getEnv("AMQP_EXCHANGE", "ventas"),
		AMQPRoutingKey: getEnv("AMQP_ROUTING_KEY", "report.generated"),

		GoogleSpreadsheetID:      getEnv("GOOGLE_SPREADSHEET_ID", ""),
		GoogleSheetRange:         getEnv("GOOGLE_SHEET_RANGE", "Ventas!A:Z"),
		GoogleServiceAccountJSON: getEnv("GOOGLE_SERVICE_ACCOUNT_JSON", ""),
		GoogleServiceAccountFile: getEnv("GOOGLE_SERVICE_ACCOUNT_FILE", ""),
	}

	return cfg
}

// TableOptions returns the decoding options for delimited input.
func (c *Config) TableOptions() table.Options {
	r, _ := utf8.DecodeRuneInString(c.InputDelimiter)
	if r == utf8.RuneError {
		r = 0
	}
	return table.Options{Encoding: c.InputEncoding, Delimiter: r}
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	// Validate port
	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		errors = append(errors, fmt.Sprintf("invalid log level '%s': must be one of debug, info, warn, error", c.LogLevel))
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		errors = append(errors, fmt.Sprintf("invalid log format '%s': must be 'text' or 'json'", c.LogFormat))
	}

	if c.MaxUploadBytes < 1 {
		errors = append(errors, fmt.Sprintf("invalid max upload size %d: must be positive", c.MaxUploadBytes))
	}
	if c.UploadRateLimit < 1 {
		errors = append(errors, fmt.Sprintf("invalid upload rate limit %d: must be at least 1 per minute", c.UploadRateLimit))
	}

	// Validate input
	switch c.InputSource {
	case SourceFile:
		if strings.TrimSpace(c.DefaultInputFile) == "" {
			errors = append(errors, "default input file cannot be empty when using file source")
		}
	case SourceSheets:
		if c.GoogleSpreadsheetID == "" {
			errors = append(errors, "Google Spreadsheet ID is required when using sheets source")
		}
		if c.GoogleSheetRange == "" {
			errors = append(errors, "Google sheet range is required when using sheets source")
		}
		if c.GoogleServiceAccountJSON == "" && c.GoogleServiceAccountFile == "" && os.Getenv("GOOGLE_APPLICATION_CREDENTIALS") == "" {
			errors = append(errors, "either GOOGLE_SERVICE_ACCOUNT_JSON or GOOGLE_SERVICE_ACCOUNT_FILE must be provided for sheets source")
		}
		if c.GoogleServiceAccountFile != "" {
			if _, err := os.Stat(c.GoogleServiceAccountFile); os.IsNotExist(err) {
				errors = append(errors, fmt.Sprintf("Google service account file does not exist: %s", c.GoogleServiceAccountFile))
			}
		}
	default:
		errors = append(errors, fmt.Sprintf("invalid input source '%s': must be one of [%s %s]", c.InputSource, SourceFile, SourceSheets))
	}

	if table.CanonicalEncoding(c.InputEncoding) == "" {
		errors = append(errors, fmt.Sprintf("unsupported input encoding '%s'", c.InputEncoding))
	}
	if utf8.RuneCountInString(c.InputDelimiter) != 1 {
		errors = append(errors, fmt.Sprintf("invalid input delimiter '%s': must be a single character", c.InputDelimiter))
	}

	// Validate report
	if !core.CategoryOrder(c.CategoryOrder).Valid() {
		errors = append(errors, fmt.Sprintf("invalid category order '%s': must be 'sorted' or 'insertion'", c.CategoryOrder))
	}
	if c.Theme != "dark" && c.Theme != "light" {
		errors = append(errors, fmt.Sprintf("invalid theme '%s': must be 'dark' or 'light'", c.Theme))
	}
	if c.HistogramBins < 1 || c.HistogramBins > 500 {
		errors = append(errors, fmt.Sprintf("invalid histogram bins %d: must be between 1 and 500", c.HistogramBins))
	}

	// Check if the audit database directory exists or can be created
	if c.AuditDBPath != "" {
		dir := filepath.Dir(c.AuditDBPath)
		if dir != "." && dir != "" {
			if _, err := os.Stat(dir); os.IsNotExist(err) {
				if err := os.MkdirAll(dir, 0755); err != nil {
					errors = append(errors, fmt.Sprintf("cannot create audit database directory '%s': %v", dir, err))
				}
			}
		}
	}

	// Validate AMQP URL if provided
	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}
		if c.AMQPExchange == "" {
			errors = append(errors, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPRoutingKey == "" {
			errors = append(errors, "AMQP routing key cannot be empty when AMQP URL is provided")
		}
	}

	// Return combined errors
	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
