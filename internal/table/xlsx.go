package table

import (
	"io"

	"github.com/xuri/excelize/v2"

	"ventas/internal/core"
)

// ReadXLSX reads the first sheet of a workbook. Cells come back as their
// formatted text, so dates must be stored as day-first text or an ISO date
// format for Normalize to accept them.
func ReadXLSX(r io.Reader) (Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return Table{}, core.Malformed("open workbook: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return Table{}, core.Malformed("workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return Table{}, core.Malformed("read sheet %q: %v", sheets[0], err)
	}

	var t Table
	n := 0
	for _, row := range rows {
		if len(row) == 0 {
			continue
		}
		if t.Header == nil {
			t.Header = row
			continue
		}
		n++
		if err := checkWidth(t.Header, row, n); err != nil {
			return Table{}, err
		}
		t.Rows = append(t.Rows, row)
	}
	if t.Header == nil {
		return Table{}, core.Malformed("missing header row")
	}
	return t, nil
}
