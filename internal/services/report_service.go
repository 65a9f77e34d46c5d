package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"ventas/internal/amqp"
	"ventas/internal/core"
	applog "ventas/internal/log"
	"ventas/internal/report"
	"ventas/internal/sheets"
	"ventas/internal/sheets/local"
	"ventas/internal/table"
)

// SourceUpload is the audit source of tables received over HTTP.
const SourceUpload = "upload"

var ErrAuditDisabled = errors.New("load audit is disabled")

// AuditRecorder persists one entry per load attempt.
type AuditRecorder interface {
	RecordLoad(ctx context.Context, a core.LoadAudit) (int64, error)
}

// AuditReader lists past load attempts, newest first.
type AuditReader interface {
	RecentLoads(ctx context.Context, limit int) ([]core.LoadAudit, error)
}

// EventPublisher announces successful loads.
type EventPublisher interface {
	PublishReportGenerated(ctx context.Context, msg *amqp.ReportGeneratedMessage) error
}

// ReportService turns table sources into reports. Audit and events are side
// channels: their failures are logged and never fail the load.
type ReportService struct {
	reportOpts report.Options
	tableOpts  table.Options
	audit      AuditRecorder
	events     EventPublisher
	logger     *applog.Logger
	now        func() time.Time
}

func NewReportService(reportOpts report.Options, tableOpts table.Options, audit AuditRecorder, events EventPublisher, logger *applog.Logger) *ReportService {
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}
	return &ReportService{
		reportOpts: reportOpts,
		tableOpts:  tableOpts,
		audit:      audit,
		events:     events,
		logger:     logger.WithComponent(applog.ComponentReport),
		now:        time.Now,
	}
}

// WithOptions returns a service sharing the same side channels but building
// reports with opts.
func (s *ReportService) WithOptions(opts report.Options) *ReportService {
	c := *s
	c.reportOpts = opts
	return &c
}

// Options returns the report options in effect.
func (s *ReportService) Options() report.Options {
	return s.reportOpts
}

// FromUpload reads r completely and builds a report from it. The file name
// decides between the CSV and xlsx readers.
func (s *ReportService) FromUpload(ctx context.Context, filename string, r io.Reader) (report.Report, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return report.Report{}, fmt.Errorf("read upload: %w", err)
	}
	return s.build(ctx, SourceUpload, filename, local.NewUpload(filename, data, s.tableOpts))
}

// FromSource builds a report from a configured source such as the default
// input file or a spreadsheet range.
func (s *ReportService) FromSource(ctx context.Context, src sheets.TableReader) (report.Report, error) {
	return s.build(ctx, src.Name(), "", src)
}

func (s *ReportService) build(ctx context.Context, source, filename string, src sheets.TableReader) (report.Report, error) {
	sl := applog.NewStructuredLogger(s.logger)
	name := source
	if filename != "" {
		name = source + ":" + filename
	}

	t, err := src.ReadTable(ctx)
	var rep report.Report
	if err == nil {
		rep, err = report.FromTable(t, s.reportOpts)
	}

	s.record(ctx, core.NewLoadAudit(source, filename, rep.Stats.Count, len(rep.ByCategory), rep.Stats.Total, err, s.now()))
	if err != nil {
		sl.LogLoadFailed(ctx, name, err)
		return report.Report{}, err
	}

	sl.LogLoadSucceeded(ctx, name, rep.Stats.Count, len(rep.ByCategory), len(rep.ByDate), rep.Stats.Total)
	s.publish(ctx, amqp.NewReportGeneratedMessage(name, rep))
	return rep, nil
}

func (s *ReportService) record(ctx context.Context, a core.LoadAudit) {
	if s.audit == nil {
		return
	}
	if _, err := s.audit.RecordLoad(ctx, a); err != nil {
		s.logger.WarnContext(ctx, "Failed to record load audit",
			applog.FieldOperation, applog.OpAudit,
			applog.FieldError, err.Error())
	}
}

func (s *ReportService) publish(ctx context.Context, msg *amqp.ReportGeneratedMessage) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishReportGenerated(ctx, msg); err != nil {
		s.logger.WarnContext(ctx, "Failed to publish report.generated",
			applog.FieldOperation, applog.OpPublish,
			applog.FieldError, err.Error())
	}
}

// AuditEnabled reports whether load attempts are being recorded.
func (s *ReportService) AuditEnabled() bool {
	_, ok := s.audit.(AuditReader)
	return ok
}

// RecentLoads lists the audit trail, or ErrAuditDisabled when there is none.
func (s *ReportService) RecentLoads(ctx context.Context, limit int) ([]core.LoadAudit, error) {
	reader, ok := s.audit.(AuditReader)
	if !ok {
		return nil, ErrAuditDisabled
	}
	return reader.RecentLoads(ctx, limit)
}

// Close closes the side channels that hold connections.
func (s *ReportService) Close() error {
	var errs []error

	if c, ok := s.audit.(io.Closer); ok {
		if err := c.Close(); err != nil {
			errs = append(errs, fmt.Errorf("audit: %w", err))
		}
	}
	if c, ok := s.events.(io.Closer); ok {
		if err := c.Close(); err != nil {
			errs = append(errs, fmt.Errorf("amqp: %w", err))
		}
	}

	return errors.Join(errs...)
}
