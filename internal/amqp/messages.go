package amqp

import (
	"encoding/json"
	"time"

	"ventas/internal/core"
	"ventas/internal/report"
)

// ReportGeneratedMessage summarizes a successful load. It carries headline
// figures only, never the records.
type ReportGeneratedMessage struct {
	Source       string    `json:"source"`
	Rows         int       `json:"rows"`
	Categories   int       `json:"categories"`
	Days         int       `json:"days"`
	TotalVentas  float64   `json:"total_ventas"`
	MeanVentas   float64   `json:"mean_ventas"`
	MedianVentas float64   `json:"median_ventas"`
	TopCategory  string    `json:"top_category,omitempty"`
	PeakDay      string    `json:"peak_day,omitempty"`
	GeneratedAt  time.Time `json:"generated_at"`
}

// NewReportGeneratedMessage builds the event for rep loaded from source.
func NewReportGeneratedMessage(source string, rep report.Report) *ReportGeneratedMessage {
	msg := &ReportGeneratedMessage{
		Source:       source,
		Rows:         rep.Stats.Count,
		Categories:   len(rep.ByCategory),
		Days:         len(rep.ByDate),
		TotalVentas:  rep.Stats.Total,
		MeanVentas:   rep.Stats.Mean,
		MedianVentas: rep.Stats.Median,
		GeneratedAt:  time.Now().UTC(),
	}
	if rep.TopCategory != nil {
		msg.TopCategory = rep.TopCategory.Categoria
	}
	if rep.PeakDay != nil {
		msg.PeakDay = rep.PeakDay.Fecha.ISO()
	}
	return msg
}

// PeakDate parses PeakDay back into a date.
func (m *ReportGeneratedMessage) PeakDate() (core.Date, bool) {
	if m.PeakDay == "" {
		return core.Date{}, false
	}
	t, err := time.Parse("2006-01-02", m.PeakDay)
	if err != nil {
		return core.Date{}, false
	}
	return core.Date{Time: t}, true
}

// ToJSON converts the message to JSON bytes
func (m *ReportGeneratedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// ReportGeneratedMessageFromJSON creates a message from JSON bytes
func ReportGeneratedMessageFromJSON(data []byte) (*ReportGeneratedMessage, error) {
	var msg ReportGeneratedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
