// Package chart renders the dashboard figures as SVG with go-chart.
package chart

import (
	"bytes"
	"errors"
	"fmt"
	"html"
	"math"
	"time"

	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"ventas/internal/core"
	"ventas/internal/report"
)

// ErrNoData is returned for a view whose input is empty.
var ErrNoData = errors.New("no data to plot")

const (
	ThemeDark  = "dark"
	ThemeLight = "light"

	DefaultWidth  = 1024
	DefaultHeight = 420

	accentHex = "1f77b4"
)

type palette struct {
	background drawing.Color
	foreground drawing.Color
	grid       drawing.Color
	accent     drawing.Color
}

func paletteFor(theme string) palette {
	if theme == ThemeLight {
		return palette{
			background: drawing.ColorWhite,
			foreground: drawing.ColorFromHex("262730"),
			grid:       drawing.ColorFromHex("d0d0d0"),
			accent:     drawing.ColorFromHex(accentHex),
		}
	}
	return palette{
		background: drawing.ColorFromHex("0e1117"),
		foreground: drawing.ColorFromHex("fafafa"),
		grid:       drawing.ColorFromHex("31333f"),
		accent:     drawing.ColorFromHex(accentHex),
	}
}

// Renderer draws the four dashboard views. The zero value renders dark charts
// at the default size.
type Renderer struct {
	Theme  string
	Width  int
	Height int
}

// Charts holds one SVG document per dashboard view.
type Charts struct {
	CategoryBar []byte
	Histogram   []byte
	Trend       []byte
	Strip       []byte
}

func (r Renderer) size() (int, int) {
	w, h := r.Width, r.Height
	if w <= 0 {
		w = DefaultWidth
	}
	if h <= 0 {
		h = DefaultHeight
	}
	return w, h
}

func (r Renderer) axisStyle() gochart.Style {
	p := paletteFor(r.Theme)
	return gochart.Style{
		FontColor:   p.foreground,
		StrokeColor: p.foreground,
		FontSize:    9,
	}
}

func (r Renderer) frame() (gochart.Style, gochart.Style, gochart.Style) {
	p := paletteFor(r.Theme)
	background := gochart.Style{
		FillColor: p.background,
		Padding:   gochart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16},
	}
	canvas := gochart.Style{FillColor: p.background}
	title := gochart.Style{FontColor: p.foreground, FontSize: 12}
	return background, canvas, title
}

// RenderAll draws every view of the report. A view that has no data, or that
// go-chart refuses to draw, gets a placeholder.
func (r Renderer) RenderAll(rep report.Report) Charts {
	return Charts{
		CategoryBar: r.orPlaceholder("Ventas totales por categoría", func() ([]byte, error) { return r.CategoryBar(rep.ByCategory) }),
		Histogram:   r.orPlaceholder("Distribución de ventas individuales", func() ([]byte, error) { return r.Histogram(rep.Histogram) }),
		Trend:       r.orPlaceholder("Tendencia diaria de ventas", func() ([]byte, error) { return r.Trend(rep.ByDate) }),
		Strip:       r.orPlaceholder("Dispersión de ventas por categoría", func() ([]byte, error) { return r.Strip(rep.Spread) }),
	}
}

func (r Renderer) orPlaceholder(title string, render func() ([]byte, error)) []byte {
	out, err := render()
	if err != nil {
		return r.Placeholder(title, "Sin datos para mostrar")
	}
	return out
}

// CategoryBar draws one bar per category total, in the given order.
func (r Renderer) CategoryBar(totals []core.CategoryTotal) ([]byte, error) {
	if len(totals) == 0 {
		return nil, ErrNoData
	}
	p := paletteFor(r.Theme)
	bars := make([]gochart.Value, len(totals))
	values := make([]float64, len(totals))
	for i, t := range totals {
		values[i] = t.TotalVentas
		bars[i] = gochart.Value{
			Label: t.Categoria,
			Value: t.TotalVentas,
			Style: gochart.Style{FillColor: p.accent, StrokeColor: p.accent},
		}
	}
	return r.bars("Ventas totales por categoría", bars, values, usdTick)
}

// Histogram draws the binned Ventas distribution. Only every few bins carry a
// label so that thirty bars stay readable.
func (r Renderer) Histogram(bins []core.HistogramBin) ([]byte, error) {
	if len(bins) == 0 {
		return nil, ErrNoData
	}
	p := paletteFor(r.Theme)
	step := len(bins)/6 + 1
	bars := make([]gochart.Value, len(bins))
	values := make([]float64, len(bins))
	for i, b := range bins {
		values[i] = float64(b.Count)
		label := ""
		if i%step == 0 {
			label = report.FormatUSD(b.Lower)
		}
		bars[i] = gochart.Value{
			Label: label,
			Value: float64(b.Count),
			Style: gochart.Style{FillColor: p.accent, StrokeColor: p.background, StrokeWidth: 1},
		}
	}
	return r.bars("Distribución de ventas individuales", bars, values, countTick)
}

func (r Renderer) bars(title string, bars []gochart.Value, values []float64, ticks gochart.ValueFormatter) ([]byte, error) {
	lo, hi := valueRange(values)
	background, canvas, titleStyle := r.frame()
	w, h := r.size()

	bc := gochart.BarChart{
		Title:      title,
		TitleStyle: titleStyle,
		Background: background,
		Canvas:     canvas,
		Width:      w,
		Height:     h,
		BarWidth:   barWidth(w, len(bars)),
		XAxis:      r.axisStyle(),
		YAxis: gochart.YAxis{
			Style:          r.axisStyle(),
			Range:          &gochart.ContinuousRange{Min: lo, Max: hi},
			ValueFormatter: ticks,
		},
		Bars: bars,
	}

	var buf bytes.Buffer
	if err := bc.Render(gochart.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render %q: %w", title, err)
	}
	return buf.Bytes(), nil
}

// Trend draws daily totals as a line in chronological order.
func (r Renderer) Trend(days []core.DailyTotal) ([]byte, error) {
	if len(days) == 0 {
		return nil, ErrNoData
	}
	p := paletteFor(r.Theme)
	xs := make([]time.Time, len(days))
	ys := make([]float64, len(days))
	for i, d := range days {
		xs[i] = d.Fecha.Time
		ys[i] = d.TotalVentas
	}
	lo, hi := valueRange(ys)
	first := xs[0].Add(-12 * time.Hour)
	last := xs[len(xs)-1].Add(12 * time.Hour)

	background, canvas, titleStyle := r.frame()
	w, h := r.size()
	axis := r.axisStyle()
	ch := gochart.Chart{
		Title:      "Tendencia diaria de ventas",
		TitleStyle: titleStyle,
		Background: background,
		Canvas:     canvas,
		Width:      w,
		Height:     h,
		XAxis: gochart.XAxis{
			Style:          axis,
			ValueFormatter: gochart.TimeValueFormatterWithFormat("02/01/2006"),
			Range:          &gochart.ContinuousRange{Min: gochart.TimeToFloat64(first), Max: gochart.TimeToFloat64(last)},
		},
		YAxis: gochart.YAxis{
			Style:          axis,
			ValueFormatter: usdTick,
			Range:          &gochart.ContinuousRange{Min: lo, Max: hi},
			GridMajorStyle: gochart.Style{StrokeColor: p.grid, StrokeWidth: 1},
		},
		Series: []gochart.Series{
			gochart.TimeSeries{
				Name:    "Ventas",
				XValues: xs,
				YValues: ys,
				Style: gochart.Style{
					StrokeColor: p.accent,
					StrokeWidth: 2,
					DotColor:    p.accent,
					DotWidth:    3,
				},
			},
		},
	}

	var buf bytes.Buffer
	if err := ch.Render(gochart.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render trend: %w", err)
	}
	return buf.Bytes(), nil
}

// Strip draws every sale as a point in its category column. Points are spread
// horizontally by a fixed offset pattern so repeated renders are identical.
func (r Renderer) Strip(spreads []core.CategorySpread) ([]byte, error) {
	if len(spreads) == 0 {
		return nil, ErrNoData
	}
	p := paletteFor(r.Theme)
	var all []float64
	series := make([]gochart.Series, 0, len(spreads))
	ticks := []gochart.Tick{{Value: -0.5, Label: ""}}
	for i, s := range spreads {
		xs := make([]float64, len(s.Values))
		for j := range s.Values {
			xs[j] = float64(i) + jitter(j)
		}
		all = append(all, s.Values...)
		series = append(series, gochart.ContinuousSeries{
			Name:    s.Categoria,
			XValues: xs,
			YValues: s.Values,
			Style: gochart.Style{
				StrokeWidth: gochart.Disabled,
				DotWidth:    4,
				DotColor:    drawing.Color{R: p.accent.R, G: p.accent.G, B: p.accent.B, A: 180},
			},
		})
		ticks = append(ticks, gochart.Tick{Value: float64(i), Label: s.Categoria})
	}
	ticks = append(ticks, gochart.Tick{Value: float64(len(spreads)) - 0.5, Label: ""})
	lo, hi := valueRange(all)

	background, canvas, titleStyle := r.frame()
	w, h := r.size()
	axis := r.axisStyle()
	ch := gochart.Chart{
		Title:      "Dispersión de ventas por categoría",
		TitleStyle: titleStyle,
		Background: background,
		Canvas:     canvas,
		Width:      w,
		Height:     h,
		XAxis: gochart.XAxis{
			Style: axis,
			Ticks: ticks,
			Range: &gochart.ContinuousRange{Min: -0.5, Max: float64(len(spreads)) - 0.5},
		},
		YAxis: gochart.YAxis{
			Style:          axis,
			ValueFormatter: usdTick,
			Range:          &gochart.ContinuousRange{Min: lo, Max: hi},
			GridMajorStyle: gochart.Style{StrokeColor: p.grid, StrokeWidth: 1},
		},
		Series: series,
	}

	var buf bytes.Buffer
	if err := ch.Render(gochart.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render strip: %w", err)
	}
	return buf.Bytes(), nil
}

// Placeholder is a minimal SVG shown in place of a chart that cannot be drawn.
func (r Renderer) Placeholder(title, message string) []byte {
	p := paletteFor(r.Theme)
	w, h := r.size()
	return []byte(fmt.Sprintf(
		`<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">`+
			`<rect width="100%%" height="100%%" fill="%s"/>`+
			`<text x="16" y="28" fill="%s" font-family="sans-serif" font-size="14">%s</text>`+
			`<text x="50%%" y="50%%" fill="%s" font-family="sans-serif" font-size="13" text-anchor="middle">%s</text>`+
			`</svg>`,
		w, h, w, h,
		hex(p.background),
		hex(p.foreground), html.EscapeString(title),
		hex(p.grid), html.EscapeString(message),
	))
}

// valueRange pads [min, max] so the axis never collapses and always shows zero
// for non-negative data.
func valueRange(values []float64) (float64, float64) {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range values {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if lo > 0 {
		lo = 0
	}
	if hi < 0 {
		hi = 0
	}
	if hi == lo {
		hi = lo + 1
	}
	pad := (hi - lo) * 0.05
	if lo < 0 {
		lo -= pad
	}
	return lo, hi + pad
}

func barWidth(width, n int) int {
	bw := (width - 120) / (n * 2)
	switch {
	case bw < 4:
		return 4
	case bw > 60:
		return 60
	default:
		return bw
	}
}

func jitter(i int) float64 {
	return float64((i*37)%21-10) / 50
}

func usdTick(v interface{}) string {
	if f, ok := v.(float64); ok {
		return report.FormatUSD(f)
	}
	return fmt.Sprint(v)
}

func countTick(v interface{}) string {
	if f, ok := v.(float64); ok {
		return fmt.Sprintf("%.0f", f)
	}
	return fmt.Sprint(v)
}

func hex(c drawing.Color) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
