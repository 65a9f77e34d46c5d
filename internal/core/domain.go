package core

import (
	"math"
	"time"
)

// Column names of the uploaded sales table. Matching is exact and case-sensitive.
const (
	ColCategoria = "categoria"
	ColCantidad  = "Cantidad"
	ColPrecio    = "Precio_unitario(USD)"
	ColFecha     = "Fecha"
)

// RequiredColumns lists the header names every sales table must carry.
var RequiredColumns = []string{ColCategoria, ColCantidad, ColPrecio, ColFecha}

const (
	// OrderSorted sorts category totals by total descending, ties by first appearance.
	OrderSorted CategoryOrder = "sorted"
	// OrderInsertion keeps categories in order of first appearance.
	OrderInsertion CategoryOrder = "insertion"
)

type (
	CategoryOrder string

	Date struct {
		time.Time
	}

	// RawRecord is one data row as read from the table, before normalization.
	RawRecord struct {
		Row       int // 1-based data row, header excluded
		Categoria string
		Cantidad  string
		Precio    string
		Fecha     string
	}

	// SalesRecord is a normalized row. Ventas is always Cantidad * PrecioUnitario.
	SalesRecord struct {
		Categoria      string
		Cantidad       int
		PrecioUnitario float64
		Fecha          Date
		Ventas         float64
	}

	CategoryTotal struct {
		Categoria   string
		TotalVentas float64
	}

	DailyTotal struct {
		Fecha       Date
		TotalVentas float64
	}
)

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// Format renders the date day-first, as shown in the dashboard narrative.
func (d Date) Format() string {
	return d.Time.Format("02/01/2006")
}

// ISO renders the date as YYYY-MM-DD.
func (d Date) ISO() string {
	return d.Time.Format("2006-01-02")
}

// Valid reports whether the order is one of the known category orderings.
func (o CategoryOrder) Valid() bool {
	switch o {
	case OrderSorted, OrderInsertion:
		return true
	default:
		return false
	}
}

// NewSalesRecord derives Ventas from quantity and unit price.
func NewSalesRecord(categoria string, cantidad int, precio float64, fecha Date) SalesRecord {
	return SalesRecord{
		Categoria:      categoria,
		Cantidad:       cantidad,
		PrecioUnitario: precio,
		Fecha:          fecha,
		Ventas:         float64(cantidad) * precio,
	}
}

// Normalize parses the raw fields of a row. The first failing field aborts with a
// FieldParse LoadError pointing at the row and column.
func (r RawRecord) Normalize() (SalesRecord, error) {
	cantidad, err := ParseQuantity(r.Cantidad)
	if err != nil {
		return SalesRecord{}, fieldError(r.Row, ColCantidad, r.Cantidad, err)
	}
	precio, err := ParsePrice(r.Precio)
	if err != nil {
		return SalesRecord{}, fieldError(r.Row, ColPrecio, r.Precio, err)
	}
	fecha, err := ParseDayFirst(r.Fecha)
	if err != nil {
		return SalesRecord{}, fieldError(r.Row, ColFecha, r.Fecha, err)
	}
	rec := NewSalesRecord(r.Categoria, cantidad, precio, fecha)
	if math.IsInf(rec.Ventas, 0) {
		return SalesRecord{}, fieldError(r.Row, ColPrecio, r.Precio, ErrVentasOverflow)
	}
	return rec, nil
}
