package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"ventas/internal/core"

	_ "modernc.org/sqlite"
)

// DefaultRecentLoads is the page size of RecentLoads when limit is not positive.
const DefaultRecentLoads = 50

// SQLiteRepository stores the load audit trail.
type SQLiteRepository struct {
	db      *sql.DB
	queries *Queries
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{
		db:      db,
		queries: New(db),
	}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Ping reports whether the database is reachable.
func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// RecordLoad appends one audit entry.
func (r *SQLiteRepository) RecordLoad(ctx context.Context, a core.LoadAudit) (int64, error) {
	id, err := r.queries.CreateReportLoad(ctx, CreateReportLoadParams{
		Source:       a.Source,
		Filename:     a.Filename,
		Status:       a.Status,
		ErrorKind:    a.ErrorKind,
		ErrorMessage: a.ErrorMessage,
		RowsCount:    int64(a.Rows),
		Categories:   int64(a.Categories),
		TotalVentas:  a.TotalVentas,
		CreatedAt:    a.At.UTC(),
	})
	if err != nil {
		return 0, fmt.Errorf("create report load: %w", err)
	}

	slog.DebugContext(ctx, "Load recorded",
		"id", id,
		"source", a.Source,
		"status", a.Status)

	return id, nil
}

// RecentLoads returns the newest audit entries first.
func (r *SQLiteRepository) RecentLoads(ctx context.Context, limit int) ([]core.LoadAudit, error) {
	if limit <= 0 {
		limit = DefaultRecentLoads
	}
	rows, err := r.queries.ListRecentReportLoads(ctx, int64(limit))
	if err != nil {
		return nil, fmt.Errorf("list report loads: %w", err)
	}

	out := make([]core.LoadAudit, 0, len(rows))
	for _, row := range rows {
		out = append(out, core.LoadAudit{
			ID:           row.ID,
			Source:       row.Source,
			Filename:     row.Filename,
			Status:       row.Status,
			ErrorKind:    row.ErrorKind,
			ErrorMessage: row.ErrorMessage,
			Rows:         int(row.RowsCount),
			Categories:   int(row.Categories),
			TotalVentas:  row.TotalVentas,
			At:           row.CreatedAt,
		})
	}
	return out, nil
}

// CountLoads returns the number of recorded load attempts.
func (r *SQLiteRepository) CountLoads(ctx context.Context) (int64, error) {
	return r.queries.CountReportLoads(ctx)
}
