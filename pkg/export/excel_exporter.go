package export

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

const defaultSheet = "Horario"

// ExcelExporter renders datasets into a single-sheet XLSX workbook.
type ExcelExporter struct {
	sheet string
}

// NewExcelExporter constructs an XLSX exporter.
func NewExcelExporter() *ExcelExporter {
	return &ExcelExporter{sheet: defaultSheet}
}

// Render writes an optional merged title row followed by the header row and data.
func (e *ExcelExporter) Render(data Dataset) ([]byte, error) {
	if err := data.validate("xlsx"); err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	idx, err := f.NewSheet(e.sheet)
	if err != nil {
		return nil, fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(idx)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("drop default sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#DCE6F1"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}

	lastCol := colName(len(data.Headers))
	row := 1
	if data.Title != "" {
		_ = f.SetCellValue(e.sheet, cell("A", row), data.Title)
		_ = f.MergeCell(e.sheet, cell("A", row), cell(lastCol, row))
		_ = f.SetCellStyle(e.sheet, cell("A", row), cell("A", row), headerStyle)
		row++
	}

	for i, header := range data.Headers {
		_ = f.SetCellValue(e.sheet, cell(colName(i+1), row), header)
	}
	_ = f.SetCellStyle(e.sheet, cell("A", row), cell(lastCol, row), headerStyle)
	_ = f.SetColWidth(e.sheet, "A", lastCol, 18)
	row++

	for _, values := range data.Rows {
		for i, value := range data.record(values) {
			_ = f.SetCellValue(e.sheet, cell(colName(i+1), row), value)
		}
		row++
	}

	buf := &bytes.Buffer{}
	if err := f.Write(buf); err != nil {
		return nil, fmt.Errorf("render xlsx: %w", err)
	}
	return buf.Bytes(), nil
}

func colName(n int) string {
	name, _ := excelize.ColumnNumberToName(n)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
