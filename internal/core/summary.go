package core

import (
	"sort"
)

// Summary holds the statistics of Ventas quoted in the narrative.
// Count is zero for an empty table and every other field is then zero too.
type Summary struct {
	Count  int
	Total  float64
	Mean   float64
	Median float64
	Min    float64
	Max    float64
}

// HistogramBin counts Ventas values in [Lower, Upper). The last bin also
// includes its upper edge.
type HistogramBin struct {
	Lower float64
	Upper float64
	Count int
}

// CategorySpread is the per-record Ventas of one category, for the strip view.
type CategorySpread struct {
	Categoria string
	Values    []float64
	Min       float64
	Max       float64
}

// Range is the distance between the largest and smallest sale of the category.
func (s CategorySpread) Range() float64 {
	return s.Max - s.Min
}

// Ventas extracts the per-record Ventas sequence in row order.
func Ventas(records []SalesRecord) []float64 {
	out := make([]float64, len(records))
	for i, r := range records {
		out[i] = r.Ventas
	}
	return out
}

// SummaryStatistics computes mean and median of Ventas. The median of an even
// count averages the two middle values.
func SummaryStatistics(records []SalesRecord) Summary {
	if len(records) == 0 {
		return Summary{}
	}
	values := Ventas(records)
	sort.Float64s(values)

	var s Summary
	s.Count = len(values)
	for _, v := range values {
		s.Total += v
	}
	s.Mean = s.Total / float64(s.Count)
	mid := s.Count / 2
	if s.Count%2 == 0 {
		s.Median = (values[mid-1] + values[mid]) / 2
	} else {
		s.Median = values[mid]
	}
	s.Min = values[0]
	s.Max = values[s.Count-1]
	return s
}

// Histogram splits Ventas into equal-width bins between the minimum and the
// maximum. When every value is equal the bins span [v-0.5, v+0.5].
func Histogram(records []SalesRecord, bins int) []HistogramBin {
	if len(records) == 0 || bins <= 0 {
		return nil
	}
	values := Ventas(records)
	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	if lo == hi {
		lo, hi = lo-0.5, hi+0.5
	}
	width := (hi - lo) / float64(bins)
	out := make([]HistogramBin, bins)
	for i := range out {
		out[i].Lower = lo + float64(i)*width
		out[i].Upper = lo + float64(i+1)*width
	}
	out[bins-1].Upper = hi
	for _, v := range values {
		i := int((v - lo) / width)
		if i >= bins {
			i = bins - 1
		}
		if i < 0 {
			i = 0
		}
		out[i].Count++
	}
	return out
}

// Spread groups per-record Ventas by category in first-appearance order.
func Spread(records []SalesRecord) []CategorySpread {
	index := make(map[string]int)
	out := make([]CategorySpread, 0)
	for _, r := range records {
		i, ok := index[r.Categoria]
		if !ok {
			i = len(out)
			index[r.Categoria] = i
			out = append(out, CategorySpread{Categoria: r.Categoria, Min: r.Ventas, Max: r.Ventas})
		}
		s := &out[i]
		s.Values = append(s.Values, r.Ventas)
		if r.Ventas < s.Min {
			s.Min = r.Ventas
		}
		if r.Ventas > s.Max {
			s.Max = r.Ventas
		}
	}
	return out
}

// WidestSpread returns the first category with the largest Ventas range.
func WidestSpread(spreads []CategorySpread) (CategorySpread, bool) {
	if len(spreads) == 0 {
		return CategorySpread{}, false
	}
	widest := spreads[0]
	for _, s := range spreads[1:] {
		if s.Range() > widest.Range() {
			widest = s
		}
	}
	return widest, true
}
