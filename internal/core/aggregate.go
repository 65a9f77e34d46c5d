package core

import (
	"sort"
)

// AggregateByCategory sums Ventas per categoria (exact, case-sensitive match).
// With OrderSorted the result is ordered by total descending and ties keep
// first-appearance order; any other order keeps first appearance.
func AggregateByCategory(records []SalesRecord, order CategoryOrder) []CategoryTotal {
	index := make(map[string]int)
	totals := make([]CategoryTotal, 0)
	for _, r := range records {
		i, ok := index[r.Categoria]
		if !ok {
			i = len(totals)
			index[r.Categoria] = i
			totals = append(totals, CategoryTotal{Categoria: r.Categoria})
		}
		totals[i].TotalVentas += r.Ventas
	}
	if order == OrderSorted {
		sort.SliceStable(totals, func(a, b int) bool {
			return totals[a].TotalVentas > totals[b].TotalVentas
		})
	}
	return totals
}

// AggregateByDate sums Ventas per calendar date, oldest first.
func AggregateByDate(records []SalesRecord) []DailyTotal {
	index := make(map[Date]int)
	totals := make([]DailyTotal, 0)
	for _, r := range records {
		i, ok := index[r.Fecha]
		if !ok {
			i = len(totals)
			index[r.Fecha] = i
			totals = append(totals, DailyTotal{Fecha: r.Fecha})
		}
		totals[i].TotalVentas += r.Ventas
	}
	sort.Slice(totals, func(a, b int) bool {
		return totals[a].Fecha.Before(totals[b].Fecha.Time)
	})
	return totals
}

// TopCategory returns the first total holding the maximum TotalVentas.
func TopCategory(totals []CategoryTotal) (CategoryTotal, bool) {
	if len(totals) == 0 {
		return CategoryTotal{}, false
	}
	top := totals[0]
	for _, t := range totals[1:] {
		if t.TotalVentas > top.TotalVentas {
			top = t
		}
	}
	return top, true
}

// PeakDay returns the earliest day holding the maximum TotalVentas.
// The input is expected in chronological order, as AggregateByDate returns it.
func PeakDay(totals []DailyTotal) (DailyTotal, bool) {
	if len(totals) == 0 {
		return DailyTotal{}, false
	}
	peak := totals[0]
	for _, t := range totals[1:] {
		if t.TotalVentas > peak.TotalVentas {
			peak = t
		}
	}
	return peak, true
}

// SumVentas totals Ventas across every record.
func SumVentas(records []SalesRecord) float64 {
	var total float64
	for _, r := range records {
		total += r.Ventas
	}
	return total
}
