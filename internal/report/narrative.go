package report

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Narrative holds one short commentary paragraph per dashboard view. A field
// is empty when its view has no data.
type Narrative struct {
	Categories   string
	Distribution string
	Trend        string
	Spread       string
}

// Sections returns the non-empty paragraphs in dashboard order.
func (n Narrative) Sections() []string {
	var out []string
	for _, s := range []string{n.Categories, n.Distribution, n.Trend, n.Spread} {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

var usd = message.NewPrinter(language.English)

// FormatUSD renders an amount with thousands separators and two decimals: $1,234.56.
func FormatUSD(v float64) string {
	if v < 0 {
		return "-$" + usd.Sprintf("%.2f", -v)
	}
	return "$" + usd.Sprintf("%.2f", v)
}

// Narrate writes the commentary for a built report.
func Narrate(r Report) Narrative {
	var n Narrative
	if r.TopCategory != nil {
		n.Categories = usd.Sprintf(
			"La categoría con mayores ventas es %s, con aproximadamente %s USD. Esto indica fuerte demanda en esa línea.",
			r.TopCategory.Categoria, FormatUSD(r.TopCategory.TotalVentas))
	}
	if r.Stats.Count > 0 {
		tail := "lo que refleja una distribución simétrica de las ventas."
		if r.Stats.Mean > r.Stats.Median {
			tail = "lo que refleja una concentración en ventas medias-bajas."
		} else if r.Stats.Mean < r.Stats.Median {
			tail = "lo que refleja una concentración en ventas medias-altas."
		}
		n.Distribution = usd.Sprintf(
			"Las ventas individuales tienen una media de %s y una mediana de %s, %s",
			FormatUSD(r.Stats.Mean), FormatUSD(r.Stats.Median), tail)
	}
	if r.PeakDay != nil {
		n.Trend = usd.Sprintf(
			"El día de mayor venta fue %s, con un total de %s. Esto es útil para identificar picos estacionales.",
			r.PeakDay.Fecha.Format(), FormatUSD(r.PeakDay.TotalVentas))
	}
	if r.WidestSpread != nil && len(r.Spread) > 1 {
		n.Spread = usd.Sprintf(
			"La categoría %s muestra la mayor dispersión en montos de venta (de %s a %s), lo que indica variedad de productos con diferentes precios.",
			r.WidestSpread.Categoria, FormatUSD(r.WidestSpread.Min), FormatUSD(r.WidestSpread.Max))
	}
	return n
}
