package core

import "testing"

func ventasRecords(values ...float64) []SalesRecord {
	out := make([]SalesRecord, len(values))
	for i, v := range values {
		out[i] = NewSalesRecord("X", 1, v, NewDate(2024, 1, 1))
	}
	return out
}

func TestSummaryStatistics(t *testing.T) {
	cases := []struct {
		name         string
		values       []float64
		mean, median float64
	}{
		{"odd", []float64{5, 1, 3}, 3, 3},
		{"even", []float64{4, 1, 3, 2}, 2.5, 2.5},
		{"single", []float64{7}, 7, 7},
		{"skewed", []float64{1, 1, 1, 13}, 4, 1},
	}
	for _, tc := range cases {
		s := SummaryStatistics(ventasRecords(tc.values...))
		if s.Count != len(tc.values) || s.Mean != tc.mean || s.Median != tc.median {
			t.Fatalf("%s: got %+v, want mean=%v median=%v", tc.name, s, tc.mean, tc.median)
		}
	}
	if s := SummaryStatistics(nil); s != (Summary{}) {
		t.Fatalf("expected zero summary, got %+v", s)
	}
}

func TestSummaryDoesNotReorderRecords(t *testing.T) {
	records := ventasRecords(3, 1, 2)
	SummaryStatistics(records)
	if records[0].Ventas != 3 || records[1].Ventas != 1 {
		t.Fatalf("records reordered: %+v", records)
	}
}

func TestHistogram(t *testing.T) {
	bins := Histogram(ventasRecords(0, 1, 2, 3, 4, 10), 5)
	if len(bins) != 5 {
		t.Fatalf("expected 5 bins, got %d", len(bins))
	}
	counts := []int{2, 2, 1, 0, 1}
	total := 0
	for i, b := range bins {
		if b.Count != counts[i] {
			t.Fatalf("bin %d count=%d want %d (%+v)", i, b.Count, counts[i], bins)
		}
		total += b.Count
	}
	if total != 6 || bins[4].Upper != 10 || bins[0].Lower != 0 {
		t.Fatalf("unexpected edges: %+v", bins)
	}

	constant := Histogram(ventasRecords(5, 5, 5), 2)
	if constant[0].Lower != 4.5 || constant[1].Upper != 5.5 || constant[0].Count+constant[1].Count != 3 {
		t.Fatalf("unexpected constant bins: %+v", constant)
	}

	if Histogram(nil, 30) != nil {
		t.Fatalf("expected nil bins for empty input")
	}
}

func TestSpreadAndWidest(t *testing.T) {
	d := NewDate(2024, 1, 1)
	records := []SalesRecord{
		rec("Ropa", 10, d),
		rec("Electrónica", 100, d),
		rec("Ropa", 30, d),
		rec("Electrónica", 900, d),
		rec("Hogar", 5, d),
	}
	spreads := Spread(records)
	if len(spreads) != 3 || spreads[0].Categoria != "Ropa" || len(spreads[1].Values) != 2 {
		t.Fatalf("unexpected spreads: %+v", spreads)
	}
	w, ok := WidestSpread(spreads)
	if !ok || w.Categoria != "Electrónica" || w.Range() != 800 {
		t.Fatalf("unexpected widest: %+v", w)
	}
}
