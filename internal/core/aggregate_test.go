package core

import (
	"testing"
)

func rec(cat string, ventas float64, d Date) SalesRecord {
	return NewSalesRecord(cat, 1, ventas, d)
}

func TestAggregateByCategoryOrders(t *testing.T) {
	d := NewDate(2024, 1, 1)
	records := []SalesRecord{
		rec("A", 100, d),
		rec("B", 200, d),
		rec("C", 250, d),
		rec("B", 50, d),
	}

	insertion := AggregateByCategory(records, OrderInsertion)
	wantIns := []CategoryTotal{{"A", 100}, {"B", 250}, {"C", 250}}
	if len(insertion) != len(wantIns) {
		t.Fatalf("unexpected totals: %+v", insertion)
	}
	for i := range wantIns {
		if insertion[i] != wantIns[i] {
			t.Fatalf("insertion[%d] = %+v, want %+v", i, insertion[i], wantIns[i])
		}
	}

	sorted := AggregateByCategory(records, OrderSorted)
	wantSorted := []CategoryTotal{{"B", 250}, {"C", 250}, {"A", 100}}
	for i := range wantSorted {
		if sorted[i] != wantSorted[i] {
			t.Fatalf("sorted[%d] = %+v, want %+v", i, sorted[i], wantSorted[i])
		}
	}

	if AggregateByCategory(records, OrderSorted)[0].Categoria != "B" {
		t.Fatalf("tie must keep first appearance")
	}
}

func TestAggregateCaseSensitive(t *testing.T) {
	d := NewDate(2024, 1, 1)
	totals := AggregateByCategory([]SalesRecord{rec("hogar", 1, d), rec("Hogar", 2, d)}, OrderInsertion)
	if len(totals) != 2 {
		t.Fatalf("expected 2 categories, got %+v", totals)
	}
}

func TestTopCategoryFirstMax(t *testing.T) {
	totals := []CategoryTotal{{"A", 100}, {"B", 250}, {"C", 250}}
	top, ok := TopCategory(totals)
	if !ok || top.Categoria != "B" {
		t.Fatalf("expected B, got %+v", top)
	}
	if _, ok := TopCategory(nil); ok {
		t.Fatalf("expected no top category for empty input")
	}
}

func TestAggregateByDateChronological(t *testing.T) {
	d1, d2, d3 := NewDate(2024, 3, 1), NewDate(2024, 3, 2), NewDate(2024, 3, 10)
	records := []SalesRecord{
		rec("A", 10, d3),
		rec("A", 500, d1),
		rec("B", 300, d2),
		rec("B", 200, d2),
	}
	days := AggregateByDate(records)
	want := []DailyTotal{{d1, 500}, {d2, 500}, {d3, 10}}
	if len(days) != len(want) {
		t.Fatalf("unexpected days: %+v", days)
	}
	for i := range want {
		if days[i] != want[i] {
			t.Fatalf("days[%d] = %+v, want %+v", i, days[i], want[i])
		}
	}
	peak, ok := PeakDay(days)
	if !ok || peak.Fecha != d1 {
		t.Fatalf("expected earliest peak %v, got %v", d1.ISO(), peak.Fecha.ISO())
	}
}

func TestAggregatesPartitionRecords(t *testing.T) {
	records := []SalesRecord{
		NewSalesRecord("Electrónica", 3, 1200.5, NewDate(2024, 3, 5)),
		NewSalesRecord("Hogar", 2, 45.25, NewDate(2024, 3, 5)),
		NewSalesRecord("Ropa", 5, 19.75, NewDate(2024, 3, 6)),
		NewSalesRecord("Hogar", 1, 300, NewDate(2024, 3, 7)),
		NewSalesRecord("Electrónica", 1, 899.5, NewDate(2024, 3, 6)),
	}
	total := SumVentas(records)

	var byCat float64
	for _, c := range AggregateByCategory(records, OrderSorted) {
		byCat += c.TotalVentas
	}
	var byDay float64
	for _, d := range AggregateByDate(records) {
		byDay += d.TotalVentas
	}
	if byCat != total || byDay != total {
		t.Fatalf("partition mismatch: categories=%v days=%v records=%v", byCat, byDay, total)
	}
}

func TestAggregatesEmpty(t *testing.T) {
	if got := AggregateByCategory(nil, OrderSorted); len(got) != 0 {
		t.Fatalf("expected empty, got %+v", got)
	}
	if got := AggregateByDate(nil); len(got) != 0 {
		t.Fatalf("expected empty, got %+v", got)
	}
	if _, ok := PeakDay(nil); ok {
		t.Fatalf("expected no peak day")
	}
}
