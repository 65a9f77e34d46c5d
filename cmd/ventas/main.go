package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"

	"golang.org/x/sync/errgroup"

	"ventas/internal/backend"
	"ventas/internal/cli"
	"ventas/internal/config"
	apphttp "ventas/internal/http"
	applog "ventas/internal/log"
	"ventas/internal/services"
)

func main() {
	cli.LoadEnvFile()

	cfg := cli.LoadAndValidateConfig(applog.New(applog.DefaultConfig()))
	logger := cli.SetupLogger(cfg, os.Stdout)

	if err := run(cfg, logger); err != nil {
		logger.Error("Server error", applog.FieldError, err.Error(), "port", cfg.Port)
		os.Exit(1)
	}
	logger.Info("Server stopped gracefully")
}

func run(cfg *config.Config, logger *applog.Logger) error {
	ctx, stop := cli.SignalContext()
	defer stop()

	audit, err := cli.InitAudit(logger, cfg.AuditDBPath)
	if err != nil {
		return err
	}
	publisher := cli.InitPublisher(ctx, logger, cfg)

	// Typed nils must not reach the service as non-nil interfaces.
	var (
		recorder services.AuditRecorder
		events   services.EventPublisher
		checks   = map[string]func(context.Context) error{}
	)
	if audit != nil {
		recorder = audit
		checks["audit"] = audit.Ping
	}
	if publisher != nil {
		events = publisher
	}

	svc := services.NewReportService(cli.ReportOptions(cfg), cfg.TableOptions(), recorder, events, logger)
	defer func() {
		if err := svc.Close(); err != nil {
			logger.Error("Failed to close side channels", applog.FieldError, err.Error())
		}
	}()

	sourceCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		return err
	}
	source, err := backend.NewFactory(logger.WithComponent(applog.ComponentBackend).Logger).CreateSource(ctx, sourceCfg)
	if err != nil {
		return fmt.Errorf("initialize default input: %w", err)
	}
	if source.Cleanup != nil {
		defer source.Cleanup()
	}

	srv := apphttp.NewServer(apphttp.Options{
		Addr:            ":" + cfg.Port,
		MaxUploadBytes:  cfg.MaxUploadBytes,
		UploadRateLimit: cfg.UploadRateLimit,
		Theme:           cfg.Theme,
		Logger:          logger,
		ReadyChecks:     checks,
	}, svc, source.Source)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Starting ventas server",
			"port", cfg.Port,
			"input_source", cfg.InputSource,
			"default_input", source.Source.Name(),
			"audit", recorder != nil,
			"amqp", events != nil)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down", applog.FieldOperation, applog.OpShutdown)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
