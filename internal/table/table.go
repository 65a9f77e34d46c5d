// Package table reads uploaded sales tables into raw rows and normalizes them
// into core.SalesRecord values.
package table

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"ventas/internal/core"
)

// Table is a parsed but not yet normalized sheet: a header and data rows of text.
type Table struct {
	Header []string
	Rows   [][]string
}

// Options controls how delimited text is decoded.
type Options struct {
	Encoding  string // latin-1 (default), windows-1252, utf-8
	Delimiter rune   // ';' by default
}

// DefaultOptions matches the layout of the retail export: Latin-1, semicolon separated.
func DefaultOptions() Options {
	return Options{Encoding: "latin-1", Delimiter: ';'}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if strings.TrimSpace(o.Encoding) == "" {
		o.Encoding = d.Encoding
	}
	if o.Delimiter == 0 {
		o.Delimiter = d.Delimiter
	}
	return o
}

// IsSpreadsheet reports whether a filename should be read as an xlsx workbook.
func IsSpreadsheet(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ".xlsx")
}

// Read parses r as an xlsx workbook or delimited text depending on the file name.
func Read(name string, r io.Reader, opts Options) (Table, error) {
	if IsSpreadsheet(name) {
		return ReadXLSX(r)
	}
	return ReadDelimited(r, opts)
}

// Load reads and normalizes a table, choosing the reader from the file name.
func Load(name string, r io.Reader, opts Options) ([]core.SalesRecord, error) {
	t, err := Read(name, r, opts)
	if err != nil {
		return nil, err
	}
	return Normalize(t)
}

// LoadAndNormalize reads delimited text and returns the normalized records in
// row order. Any failure aborts the load and no records are returned.
func LoadAndNormalize(r io.Reader, opts Options) ([]core.SalesRecord, error) {
	t, err := ReadDelimited(r, opts)
	if err != nil {
		return nil, err
	}
	return Normalize(t)
}

// Normalize locates the required columns and parses every row. The first row
// that fails aborts the whole table.
func Normalize(t Table) ([]core.SalesRecord, error) {
	cols, err := locateColumns(t.Header)
	if err != nil {
		return nil, err
	}
	records := make([]core.SalesRecord, 0, len(t.Rows))
	for i, row := range t.Rows {
		raw := core.RawRecord{
			Row:       i + 1,
			Categoria: field(row, cols[core.ColCategoria]),
			Cantidad:  field(row, cols[core.ColCantidad]),
			Precio:    field(row, cols[core.ColPrecio]),
			Fecha:     field(row, cols[core.ColFecha]),
		}
		rec, err := raw.Normalize()
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

func locateColumns(header []string) (map[string]int, error) {
	if len(header) == 0 {
		return nil, core.Malformed("missing header row")
	}
	cols := make(map[string]int, len(core.RequiredColumns))
	for i, h := range header {
		name := strings.TrimSpace(h)
		if _, dup := cols[name]; !dup {
			cols[name] = i
		}
	}
	var missing []string
	for _, c := range core.RequiredColumns {
		if _, ok := cols[c]; !ok {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return nil, core.Malformed("missing required columns: %s (header: %s)",
			strings.Join(missing, ", "), strings.Join(header, " | "))
	}
	return cols, nil
}

func field(row []string, idx int) string {
	if idx < len(row) {
		return row[idx]
	}
	return ""
}

// checkWidth rejects rows wider than the header, which usually means the
// delimiter does not match the file.
func checkWidth(header []string, row []string, n int) error {
	if len(row) > len(header) {
		return core.MalformedRow(n, fmt.Errorf("expected %d fields, saw %d", len(header), len(row)))
	}
	return nil
}
