package core

import (
	"errors"
	"testing"
)

func TestParseDayFirst(t *testing.T) {
	cases := []struct {
		in   string
		want Date
		ok   bool
	}{
		{"05/03/2024", NewDate(2024, 3, 5), true},
		{"03/04/2024", NewDate(2024, 4, 3), true},
		{"5/3/2024", NewDate(2024, 3, 5), true},
		{"31-12-2023", NewDate(2023, 12, 31), true},
		{"01.02.2024", NewDate(2024, 2, 1), true},
		{"2024-03-05", NewDate(2024, 3, 5), true},
		{"05/03/24", NewDate(2024, 3, 5), true},
		{"05/03/2024 14:30", NewDate(2024, 3, 5), true},
		{"05/03/2024 14:30:59", NewDate(2024, 3, 5), true},
		{" 15/06/2024 ", NewDate(2024, 6, 15), true},
		{"31/02/2024", Date{}, false},
		{"13/13/2024", Date{}, false},
		{"ayer", Date{}, false},
		{"", Date{}, false},
	}
	for _, tc := range cases {
		got, err := ParseDayFirst(tc.in)
		if tc.ok {
			if err != nil || !got.Equal(tc.want.Time) {
				t.Fatalf("%q expected %v, got %v (err=%v)", tc.in, tc.want.ISO(), got.ISO(), err)
			}
		} else if err == nil {
			t.Fatalf("%q expected error, got %v", tc.in, got.ISO())
		}
	}
}

func TestRawRecordNormalize(t *testing.T) {
	rec, err := RawRecord{Row: 1, Categoria: "Hogar", Cantidad: "3", Precio: "$1,200.50", Fecha: "05/03/2024"}.Normalize()
	if err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if rec.PrecioUnitario != 1200.50 || rec.Ventas != 3601.50 {
		t.Fatalf("unexpected record: %+v", rec)
	}
	if rec.Fecha != NewDate(2024, 3, 5) {
		t.Fatalf("unexpected date: %v", rec.Fecha.ISO())
	}

	for _, tc := range []struct {
		raw    RawRecord
		column string
	}{
		{RawRecord{Row: 2, Categoria: "A", Cantidad: "x", Precio: "1", Fecha: "01/01/2024"}, ColCantidad},
		{RawRecord{Row: 3, Categoria: "A", Cantidad: "1", Precio: "$abc", Fecha: "01/01/2024"}, ColPrecio},
		{RawRecord{Row: 4, Categoria: "A", Cantidad: "1", Precio: "1", Fecha: "30/02/2024"}, ColFecha},
		{RawRecord{Row: 5, Categoria: "A", Cantidad: "10", Precio: "1e308", Fecha: "01/01/2024"}, ColPrecio},
	} {
		_, err := tc.raw.Normalize()
		if !errors.Is(err, ErrFieldParse) {
			t.Fatalf("row %d expected field parse error, got %v", tc.raw.Row, err)
		}
		var le *LoadError
		if !errors.As(err, &le) || le.Row != tc.raw.Row || le.Column != tc.column {
			t.Fatalf("row %d unexpected error detail: %+v", tc.raw.Row, le)
		}
		if errors.Is(err, ErrMalformedInput) {
			t.Fatalf("field error must not match malformed input")
		}
	}
}

func TestVentasIsExactProduct(t *testing.T) {
	cases := []struct {
		cantidad int
		precio   string
	}{
		{3, "$1,200.50"},
		{7, "19.99"},
		{11, "$0.333"},
		{0, "$5.00"},
		{-2, "4.125"},
	}
	for _, tc := range cases {
		p, err := ParsePrice(tc.precio)
		if err != nil {
			t.Fatalf("%q: %v", tc.precio, err)
		}
		r := NewSalesRecord("X", tc.cantidad, p, NewDate(2024, 1, 1))
		if r.Ventas != float64(tc.cantidad)*p {
			t.Fatalf("ventas %v != %d * %v", r.Ventas, tc.cantidad, p)
		}
	}
}

func TestLoadErrorMessage(t *testing.T) {
	err := fieldError(4, ColFecha, "ayer", ErrInvalidDate)
	want := `field parse error: row 4, column "Fecha", value "ayer": unrecognized date`
	if err.Error() != want {
		t.Fatalf("got %q, want %q", err.Error(), want)
	}
	m := Malformed("missing required columns: %s", "Fecha")
	if m.Error() != "malformed input: missing required columns: Fecha" {
		t.Fatalf("unexpected message %q", m.Error())
	}
	if KindOf(m) != MalformedInput || KindOf(errors.New("x")) != "" {
		t.Fatalf("unexpected kinds")
	}
}
