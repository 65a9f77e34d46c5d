package core

import (
	"time"
)

const (
	LoadOK     = "ok"
	LoadFailed = "failed"
)

// LoadAudit describes one load attempt. It carries counts only, never the
// records or aggregates themselves.
type LoadAudit struct {
	ID           int64     `json:"id,omitempty"`
	Source       string    `json:"source"`
	Filename     string    `json:"filename,omitempty"`
	Status       string    `json:"status"`
	ErrorKind    string    `json:"error_kind,omitempty"`
	ErrorMessage string    `json:"error_message,omitempty"`
	Rows         int       `json:"rows"`
	Categories   int       `json:"categories"`
	TotalVentas  float64   `json:"total_ventas"`
	At           time.Time `json:"at"`
}

// NewLoadAudit builds the audit entry for a load that ended with err (nil on success).
func NewLoadAudit(source, filename string, rows, categories int, total float64, err error, at time.Time) LoadAudit {
	a := LoadAudit{
		Source:      source,
		Filename:    filename,
		Status:      LoadOK,
		Rows:        rows,
		Categories:  categories,
		TotalVentas: total,
		At:          at.UTC(),
	}
	if err != nil {
		a.Status = LoadFailed
		a.ErrorMessage = err.Error()
		a.ErrorKind = string(KindOf(err))
	}
	return a
}
