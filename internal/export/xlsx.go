// Package export writes a prepared report as an Excel workbook.
package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"ventas/internal/report"
)

const (
	SheetSummary    = "Resumen"
	SheetCategories = "Categorias"
	SheetDays       = "Dias"
	SheetRecords    = "Registros"

	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	headerColor = "#1F77B4"
	usdFormat   = `"$"#,##0.00`
)

type styles struct {
	title  int
	header int
	money  int
	date   int
}

func newStyles(f *excelize.File) (styles, error) {
	var s styles
	var err error
	if s.title, err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 14},
	}); err != nil {
		return s, err
	}
	if s.header, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{headerColor}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	}); err != nil {
		return s, err
	}
	fmtCode := usdFormat
	if s.money, err = f.NewStyle(&excelize.Style{CustomNumFmt: &fmtCode}); err != nil {
		return s, err
	}
	dateCode := "dd/mm/yyyy"
	if s.date, err = f.NewStyle(&excelize.Style{CustomNumFmt: &dateCode}); err != nil {
		return s, err
	}
	return s, nil
}

// Workbook builds a four-sheet workbook: summary, category totals, daily
// totals and the normalized records. The caller closes the returned file.
func Workbook(rep report.Report) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", SheetSummary); err != nil {
		f.Close()
		return nil, err
	}
	for _, name := range []string{SheetCategories, SheetDays, SheetRecords} {
		if _, err := f.NewSheet(name); err != nil {
			f.Close()
			return nil, err
		}
	}
	st, err := newStyles(f)
	if err != nil {
		f.Close()
		return nil, err
	}

	steps := []func(*excelize.File, styles, report.Report) error{
		writeSummary,
		writeCategories,
		writeDays,
		writeRecords,
	}
	for _, step := range steps {
		if err := step(f, st, rep); err != nil {
			f.Close()
			return nil, fmt.Errorf("build workbook: %w", err)
		}
	}
	f.SetActiveSheet(0)
	return f, nil
}

// Write streams the workbook for rep to w.
func Write(w io.Writer, rep report.Report) error {
	f, err := Workbook(rep)
	if err != nil {
		return err
	}
	defer f.Close()
	return f.Write(w)
}

func writeSummary(f *excelize.File, st styles, rep report.Report) error {
	sh := SheetSummary
	if err := f.SetCellValue(sh, "A1", "Resumen de ventas"); err != nil {
		return err
	}
	if err := f.SetCellStyle(sh, "A1", "A1", st.title); err != nil {
		return err
	}

	rows := [][]interface{}{
		{"Registros", rep.Stats.Count},
		{"Ventas totales", rep.Stats.Total},
		{"Media", rep.Stats.Mean},
		{"Mediana", rep.Stats.Median},
		{"Mínimo", rep.Stats.Min},
		{"Máximo", rep.Stats.Max},
	}
	if rep.TopCategory != nil {
		rows = append(rows, []interface{}{"Categoría principal", rep.TopCategory.Categoria})
		rows = append(rows, []interface{}{"Ventas categoría principal", rep.TopCategory.TotalVentas})
	}
	if rep.PeakDay != nil {
		rows = append(rows, []interface{}{"Día de mayor venta", rep.PeakDay.Fecha.Format()})
		rows = append(rows, []interface{}{"Ventas día de mayor venta", rep.PeakDay.TotalVentas})
	}

	row := 3
	for _, r := range rows {
		if err := setRow(f, sh, row, r); err != nil {
			return err
		}
		if _, ok := r[1].(float64); ok {
			cell := fmt.Sprintf("B%d", row)
			if err := f.SetCellStyle(sh, cell, cell, st.money); err != nil {
				return err
			}
		}
		row++
	}

	row++
	for _, text := range rep.Narrative.Sections() {
		if err := f.SetCellValue(sh, fmt.Sprintf("A%d", row), text); err != nil {
			return err
		}
		row++
	}
	return f.SetColWidth(sh, "A", "A", 30)
}

func writeCategories(f *excelize.File, st styles, rep report.Report) error {
	sh := SheetCategories
	if err := header(f, st, sh, "Categoría", "Ventas totales"); err != nil {
		return err
	}
	for i, c := range rep.ByCategory {
		if err := setRow(f, sh, i+2, []interface{}{c.Categoria, c.TotalVentas}); err != nil {
			return err
		}
	}
	if n := len(rep.ByCategory); n > 0 {
		if err := f.SetCellStyle(sh, "B2", fmt.Sprintf("B%d", n+1), st.money); err != nil {
			return err
		}
	}
	return f.SetColWidth(sh, "A", "B", 22)
}

func writeDays(f *excelize.File, st styles, rep report.Report) error {
	sh := SheetDays
	if err := header(f, st, sh, "Fecha", "Ventas totales"); err != nil {
		return err
	}
	for i, d := range rep.ByDate {
		if err := setRow(f, sh, i+2, []interface{}{d.Fecha.Time, d.TotalVentas}); err != nil {
			return err
		}
	}
	if n := len(rep.ByDate); n > 0 {
		if err := f.SetCellStyle(sh, "A2", fmt.Sprintf("A%d", n+1), st.date); err != nil {
			return err
		}
		if err := f.SetCellStyle(sh, "B2", fmt.Sprintf("B%d", n+1), st.money); err != nil {
			return err
		}
	}
	return f.SetColWidth(sh, "A", "B", 18)
}

func writeRecords(f *excelize.File, st styles, rep report.Report) error {
	sh := SheetRecords
	if err := header(f, st, sh, "categoria", "Cantidad", "Precio_unitario(USD)", "Fecha", "Ventas"); err != nil {
		return err
	}
	for i, r := range rep.Records {
		row := []interface{}{r.Categoria, r.Cantidad, r.PrecioUnitario, r.Fecha.Time, r.Ventas}
		if err := setRow(f, sh, i+2, row); err != nil {
			return err
		}
	}
	if n := len(rep.Records); n > 0 {
		last := n + 1
		if err := f.SetCellStyle(sh, "C2", fmt.Sprintf("C%d", last), st.money); err != nil {
			return err
		}
		if err := f.SetCellStyle(sh, "D2", fmt.Sprintf("D%d", last), st.date); err != nil {
			return err
		}
		if err := f.SetCellStyle(sh, "E2", fmt.Sprintf("E%d", last), st.money); err != nil {
			return err
		}
	}
	return f.SetColWidth(sh, "A", "E", 20)
}

func header(f *excelize.File, st styles, sheet string, names ...string) error {
	row := make([]interface{}, len(names))
	for i, n := range names {
		row[i] = n
	}
	if err := setRow(f, sheet, 1, row); err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(len(names), 1)
	if err != nil {
		return err
	}
	return f.SetCellStyle(sheet, "A1", last, st.header)
}

func setRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &values)
}
