// Package report turns normalized sales records into everything the dashboard
// shows: aggregates, summary statistics, chart inputs and narrative text.
//
// One Options value replaces the copy-pasted dashboard variants: the detailed
// page sorts categories and writes commentary, the compact pages keep
// first-appearance order and skip it.
package report

import (
	"io"

	"ventas/internal/core"
	"ventas/internal/table"
)

const (
	DefaultHistogramBins = 30
	DefaultPreviewRows   = 5
)

// Options parameterizes a report.
type Options struct {
	CategoryOrder core.CategoryOrder
	Narrative     bool
	HistogramBins int
	PreviewRows   int
}

// Detailed is the richest dashboard variant: categories sorted, commentary on.
func Detailed() Options {
	return Options{
		CategoryOrder: core.OrderSorted,
		Narrative:     true,
		HistogramBins: DefaultHistogramBins,
		PreviewRows:   DefaultPreviewRows,
	}
}

// Compact keeps first-appearance category order and omits commentary.
func Compact() Options {
	return Options{
		CategoryOrder: core.OrderInsertion,
		Narrative:     false,
		HistogramBins: DefaultHistogramBins,
		PreviewRows:   DefaultPreviewRows,
	}
}

func (o Options) withDefaults() Options {
	if !o.CategoryOrder.Valid() {
		o.CategoryOrder = core.OrderSorted
	}
	if o.HistogramBins <= 0 {
		o.HistogramBins = DefaultHistogramBins
	}
	if o.PreviewRows < 0 {
		o.PreviewRows = 0
	}
	return o
}

// Report is the full output of one load: nothing in it outlives the request
// that built it.
type Report struct {
	Options      Options
	Records      []core.SalesRecord
	Preview      []core.SalesRecord
	ByCategory   []core.CategoryTotal
	ByDate       []core.DailyTotal
	Stats        core.Summary
	TopCategory  *core.CategoryTotal
	PeakDay      *core.DailyTotal
	Histogram    []core.HistogramBin
	Spread       []core.CategorySpread
	WidestSpread *core.CategorySpread
	Narrative    Narrative
}

// Empty reports whether the table had no data rows.
func (r Report) Empty() bool {
	return len(r.Records) == 0
}

// Build computes every aggregate over records. It does not modify records.
func Build(records []core.SalesRecord, opts Options) Report {
	opts = opts.withDefaults()
	if records == nil {
		records = []core.SalesRecord{}
	}

	rep := Report{
		Options:    opts,
		Records:    records,
		ByCategory: core.AggregateByCategory(records, opts.CategoryOrder),
		ByDate:     core.AggregateByDate(records),
		Stats:      core.SummaryStatistics(records),
		Histogram:  core.Histogram(records, opts.HistogramBins),
		Spread:     core.Spread(records),
	}

	n := opts.PreviewRows
	if n > len(records) {
		n = len(records)
	}
	rep.Preview = records[:n]

	if top, ok := core.TopCategory(rep.ByCategory); ok {
		rep.TopCategory = &top
	}
	if peak, ok := core.PeakDay(rep.ByDate); ok {
		rep.PeakDay = &peak
	}
	if widest, ok := core.WidestSpread(rep.Spread); ok {
		rep.WidestSpread = &widest
	}
	if opts.Narrative {
		rep.Narrative = Narrate(rep)
	}
	return rep
}

// Prepare loads delimited text and builds the report in one pass.
func Prepare(r io.Reader, load table.Options, opts Options) (Report, error) {
	records, err := table.LoadAndNormalize(r, load)
	if err != nil {
		return Report{}, err
	}
	return Build(records, opts), nil
}

// FromTable normalizes an already-read table and builds the report.
func FromTable(t table.Table, opts Options) (Report, error) {
	records, err := table.Normalize(t)
	if err != nil {
		return Report{}, err
	}
	return Build(records, opts), nil
}
