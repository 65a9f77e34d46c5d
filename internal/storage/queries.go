package storage

import (
	"context"
	"database/sql"
	"time"
)

// DBTX is satisfied by *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(context.Context, string, ...interface{}) (sql.Result, error)
	QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...interface{}) *sql.Row
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

type Queries struct {
	db DBTX
}

type ReportLoad struct {
	ID           int64
	Source       string
	Filename     string
	Status       string
	ErrorKind    string
	ErrorMessage string
	RowsCount    int64
	Categories   int64
	TotalVentas  float64
	CreatedAt    time.Time
}

const createReportLoad = `-- name: CreateReportLoad :execlastid
INSERT INTO report_loads (source, filename, status, error_kind, error_message, rows_count, categories, total_ventas, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
`

type CreateReportLoadParams struct {
	Source       string
	Filename     string
	Status       string
	ErrorKind    string
	ErrorMessage string
	RowsCount    int64
	Categories   int64
	TotalVentas  float64
	CreatedAt    time.Time
}

func (q *Queries) CreateReportLoad(ctx context.Context, arg CreateReportLoadParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, createReportLoad,
		arg.Source,
		arg.Filename,
		arg.Status,
		arg.ErrorKind,
		arg.ErrorMessage,
		arg.RowsCount,
		arg.Categories,
		arg.TotalVentas,
		arg.CreatedAt,
	)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

const listRecentReportLoads = `-- name: ListRecentReportLoads :many
SELECT id, source, filename, status, error_kind, error_message, rows_count, categories, total_ventas, created_at
FROM report_loads
ORDER BY created_at DESC, id DESC
LIMIT ?
`

func (q *Queries) ListRecentReportLoads(ctx context.Context, limit int64) ([]ReportLoad, error) {
	rows, err := q.db.QueryContext(ctx, listRecentReportLoads, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []ReportLoad
	for rows.Next() {
		var i ReportLoad
		if err := rows.Scan(
			&i.ID,
			&i.Source,
			&i.Filename,
			&i.Status,
			&i.ErrorKind,
			&i.ErrorMessage,
			&i.RowsCount,
			&i.Categories,
			&i.TotalVentas,
			&i.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const countReportLoads = `-- name: CountReportLoads :one
SELECT COUNT(*) FROM report_loads
`

func (q *Queries) CountReportLoads(ctx context.Context) (int64, error) {
	row := q.db.QueryRowContext(ctx, countReportLoads)
	var count int64
	err := row.Scan(&count)
	return count, err
}
