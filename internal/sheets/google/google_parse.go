package google

import (
	"fmt"
	"strings"

	"ventas/internal/core"
	"ventas/internal/table"
)

// valuesToTable converts a values matrix (as returned by the Sheets API) into a
// table. Leading blank rows are skipped and the first non-blank row is the
// header. The API drops trailing empty cells, so short rows are expected.
func valuesToTable(values [][]interface{}) (table.Table, error) {
	var t table.Table
	n := 0
	for _, raw := range values {
		row := toStrings(raw)
		if t.Header == nil {
			if blank(row) {
				continue
			}
			t.Header = row
			continue
		}
		n++
		if blank(row) {
			continue
		}
		if len(row) > len(t.Header) {
			return table.Table{}, core.MalformedRow(n, fmt.Errorf("expected %d fields, saw %d", len(t.Header), len(row)))
		}
		t.Rows = append(t.Rows, row)
	}
	if t.Header == nil {
		return table.Table{}, core.Malformed("missing header row")
	}
	return t, nil
}

func toStrings(in []interface{}) []string {
	out := make([]string, len(in))
	for i, v := range in {
		out[i] = strings.TrimSpace(fmt.Sprint(v))
	}
	return out
}

func blank(row []string) bool {
	for _, v := range row {
		if v != "" {
			return false
		}
	}
	return true
}
