package http

import (
	"encoding/base64"
	"html/template"
	"strconv"

	"ventas/internal/chart"
	"ventas/internal/core"
	"ventas/internal/report"
)

type formView struct {
	Order     string
	Narrative bool
}

type indexView struct {
	Form        formView
	Error       string
	HasDefault  bool
	DefaultName string
}

type previewRow struct {
	Categoria string
	Cantidad  int
	Precio    string
	Fecha     string
	Ventas    string
}

type sectionView struct {
	Heading string
	Src     template.URL
	Comment string
}

type dashboardView struct {
	Form     formView
	Source   string
	Rows     int
	Total    string
	Mean     string
	Median   string
	Preview  []previewRow
	Sections []sectionView
}

func newFormView(opts report.Options) formView {
	return formView{Order: string(opts.CategoryOrder), Narrative: opts.Narrative}
}

// newDashboardView lays out the report the way the page reads: preview first,
// then one section per chart with its commentary underneath.
func newDashboardView(source string, rep report.Report, charts chart.Charts) dashboardView {
	v := dashboardView{
		Form:   newFormView(rep.Options),
		Source: source,
		Rows:   rep.Stats.Count,
		Total:  report.FormatUSD(rep.Stats.Total),
		Mean:   report.FormatUSD(rep.Stats.Mean),
		Median: report.FormatUSD(rep.Stats.Median),
	}
	for _, r := range rep.Preview {
		v.Preview = append(v.Preview, previewRow{
			Categoria: r.Categoria,
			Cantidad:  r.Cantidad,
			Precio:    report.FormatUSD(r.PrecioUnitario),
			Fecha:     r.Fecha.Format(),
			Ventas:    report.FormatUSD(r.Ventas),
		})
	}

	n := rep.Narrative
	v.Sections = []sectionView{
		{Heading: "📊 1. Ventas Totales por Categoría de Producto", Src: svgDataURI(charts.CategoryBar), Comment: n.Categories},
		{Heading: "📉 2. Histograma: Distribución de Ventas", Src: svgDataURI(charts.Histogram), Comment: n.Distribution},
		{Heading: "📈 3. Evolución de Ventas por Fecha", Src: svgDataURI(charts.Trend), Comment: n.Trend},
		{Heading: "📌 4. Dispersión de Ventas por Categoría", Src: svgDataURI(charts.Strip), Comment: n.Spread},
	}
	return v
}

// svgDataURI embeds a chart as an image source. Browsers never run scripts in
// SVG loaded through <img>, so category names from uploads stay inert.
func svgDataURI(b []byte) template.URL {
	return template.URL("data:image/svg+xml;base64," + base64.StdEncoding.EncodeToString(b))
}

type loadJSON struct {
	Loads []core.LoadAudit `json:"loads"`
	Count int              `json:"count"`
}

func parseLimit(s string, def, max int) int {
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return def
	}
	if n > max {
		return max
	}
	return n
}
