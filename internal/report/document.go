package report

import (
	"ventas/internal/core"
)

type CategoryDoc struct {
	Categoria   string  `json:"categoria"`
	TotalVentas float64 `json:"total_ventas"`
}

type DayDoc struct {
	Fecha       string  `json:"fecha"`
	TotalVentas float64 `json:"total_ventas"`
}

type RecordDoc struct {
	Categoria      string  `json:"categoria"`
	Cantidad       int     `json:"cantidad"`
	PrecioUnitario float64 `json:"precio_unitario"`
	Fecha          string  `json:"fecha"`
	Ventas         float64 `json:"ventas"`
}

type StatsDoc struct {
	Count  int     `json:"count"`
	Total  float64 `json:"total"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
}

type BinDoc struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
	Count int     `json:"count"`
}

type SpreadDoc struct {
	Categoria string  `json:"categoria"`
	Count     int     `json:"count"`
	Min       float64 `json:"min"`
	Max       float64 `json:"max"`
}

// Document is the JSON form of a report shared by the API and the CLI.
type Document struct {
	Source      string        `json:"source"`
	Order       string        `json:"order"`
	Stats       StatsDoc      `json:"stats"`
	ByCategory  []CategoryDoc `json:"by_category"`
	ByDate      []DayDoc      `json:"by_date"`
	TopCategory *CategoryDoc  `json:"top_category"`
	PeakDay     *DayDoc       `json:"peak_day"`
	Histogram   []BinDoc      `json:"histogram"`
	Spread      []SpreadDoc   `json:"spread"`
	Preview     []RecordDoc   `json:"preview"`
	Narrative   []string      `json:"narrative"`
}

// NewDocument flattens a report for JSON output. Dates are ISO formatted and
// slices are never null.
func NewDocument(source string, rep Report) Document {
	out := Document{
		Source: source,
		Order:  string(rep.Options.CategoryOrder),
		Stats: StatsDoc{
			Count:  rep.Stats.Count,
			Total:  rep.Stats.Total,
			Mean:   rep.Stats.Mean,
			Median: rep.Stats.Median,
			Min:    rep.Stats.Min,
			Max:    rep.Stats.Max,
		},
		ByCategory: make([]CategoryDoc, 0, len(rep.ByCategory)),
		ByDate:     make([]DayDoc, 0, len(rep.ByDate)),
		Histogram:  make([]BinDoc, 0, len(rep.Histogram)),
		Spread:     make([]SpreadDoc, 0, len(rep.Spread)),
		Preview:    make([]RecordDoc, 0, len(rep.Preview)),
		Narrative:  rep.Narrative.Sections(),
	}
	if out.Narrative == nil {
		out.Narrative = []string{}
	}
	for _, c := range rep.ByCategory {
		out.ByCategory = append(out.ByCategory, CategoryDoc{Categoria: c.Categoria, TotalVentas: c.TotalVentas})
	}
	for _, d := range rep.ByDate {
		out.ByDate = append(out.ByDate, DayDoc{Fecha: d.Fecha.ISO(), TotalVentas: d.TotalVentas})
	}
	if rep.TopCategory != nil {
		out.TopCategory = &CategoryDoc{Categoria: rep.TopCategory.Categoria, TotalVentas: rep.TopCategory.TotalVentas}
	}
	if rep.PeakDay != nil {
		out.PeakDay = &DayDoc{Fecha: rep.PeakDay.Fecha.ISO(), TotalVentas: rep.PeakDay.TotalVentas}
	}
	for _, b := range rep.Histogram {
		out.Histogram = append(out.Histogram, BinDoc{Lower: b.Lower, Upper: b.Upper, Count: b.Count})
	}
	for _, s := range rep.Spread {
		out.Spread = append(out.Spread, SpreadDoc{Categoria: s.Categoria, Count: len(s.Values), Min: s.Min, Max: s.Max})
	}
	for _, r := range rep.Preview {
		out.Preview = append(out.Preview, newRecordDoc(r))
	}
	return out
}

func newRecordDoc(r core.SalesRecord) RecordDoc {
	return RecordDoc{
		Categoria:      r.Categoria,
		Cantidad:       r.Cantidad,
		PrecioUnitario: r.PrecioUnitario,
		Fecha:          r.Fecha.ISO(),
		Ventas:         r.Ventas,
	}
}
