// Package cli provides common initialization shared by cmd/ventas and
// cmd/ventas-report.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"ventas/internal/amqp"
	"ventas/internal/config"
	"ventas/internal/core"
	applog "ventas/internal/log"
	"ventas/internal/report"
	"ventas/internal/storage"
)

// SetupLogger builds the application logger from LOG_LEVEL and LOG_FORMAT
// and installs it as the slog default.
func SetupLogger(cfg *config.Config, out io.Writer) *applog.Logger {
	level, err := applog.ParseLevel(cfg.LogLevel)
	logger := applog.New(applog.Config{
		Level:     level,
		Format:    cfg.LogFormat,
		Component: applog.ComponentApp,
		Output:    out,
	})
	if err != nil {
		logger.Warn("Unknown log level, using info", applog.FieldError, err.Error())
	}
	applog.SetDefault(logger)
	return logger
}

// LoadEnvFile loads .env files for local development. A missing file is not
// an error; production configures the environment directly.
func LoadEnvFile(files ...string) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if _, err := os.Stat(f); err == nil {
			_ = godotenv.Load(f)
		}
	}
}

// LoadAndValidateConfig loads configuration and validates it.
// Exits the process on validation failure.
func LoadAndValidateConfig(logger *applog.Logger) *config.Config {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", applog.FieldError, err.Error())
		os.Exit(1)
	}
	return cfg
}

// ReportOptions translates the report settings of cfg.
func ReportOptions(cfg *config.Config) report.Options {
	opts := report.Detailed()
	opts.CategoryOrder = core.CategoryOrder(cfg.CategoryOrder)
	opts.Narrative = cfg.Narrative
	opts.HistogramBins = cfg.HistogramBins
	return opts
}

// InitAudit opens the load audit store, or returns nil when AUDIT_DB_PATH is
// unset.
func InitAudit(logger *applog.Logger, dbPath string) (*storage.SQLiteRepository, error) {
	if dbPath == "" {
		logger.Info("Load audit disabled")
		return nil, nil
	}
	repo, err := storage.NewSQLiteRepository(dbPath)
	if err != nil {
		return nil, fmt.Errorf("initialize audit store %s: %w", dbPath, err)
	}
	version, _, err := storage.SchemaVersion(dbPath)
	if err != nil {
		logger.Warn("Could not read audit schema version", applog.FieldError, err.Error())
	}
	logger.WithComponent(applog.ComponentStorage).Info("Load audit enabled", "path", dbPath, "schema_version", version)
	return repo, nil
}

// InitPublisher creates the report.generated publisher, or returns nil when
// AMQP_URL is unset. A broker that is down at startup is not fatal: the
// publisher reconnects on the next publish.
func InitPublisher(ctx context.Context, logger *applog.Logger, cfg *config.Config) *amqp.Publisher {
	if cfg.AMQPURL == "" {
		logger.Info("AMQP publishing disabled")
		return nil
	}
	pub := amqp.NewPublisher(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPRoutingKey)
	l := logger.WithComponent(applog.ComponentAMQP)
	if err := pub.ConnectWithRetry(ctx, 3); err != nil {
		l.Warn("AMQP broker unavailable at startup", applog.FieldError, err.Error())
	} else {
		l.Info("AMQP publisher connected", "exchange", cfg.AMQPExchange, "routing_key", cfg.AMQPRoutingKey)
	}
	return pub
}

// SignalContext returns a context cancelled on SIGINT or SIGTERM.
func SignalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}
