package spreadsheet

import (
	"fmt"
	"io"
	"time"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"

	"hrrecords/internal/domain/core"
)

const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Filename stamps an export with the time it was produced.
func Filename(now time.Time) string {
	return "employees_data_" + now.Format("20060102_150405") + ".xlsx"
}

// Export writes one workbook with a header row followed by one row per
// employee, in the fixed column order.
func Export(w io.Writer, employees []core.Employee) error {
	file := excelize.NewFile()
	defer func() { _ = file.Close() }()

	if err := file.SetSheetName(file.GetSheetName(0), SheetName); err != nil {
		return err
	}
	rtl := true
	if err := file.SetSheetView(SheetName, 0, &excelize.ViewOptions{RightToLeft: &rtl}); err != nil {
		return err
	}

	widths := make([]int, len(columns))
	header := make([]any, len(columns))
	for i, col := range columns {
		header[i] = col.Label
		widths[i] = renderedLen(col.Label)
	}
	if err := file.SetSheetRow(SheetName, "A1", &header); err != nil {
		return err
	}

	for r := range employees {
		row := make([]any, len(columns))
		for i, col := range columns {
			value := col.Field.Value(&employees[r])
			row[i] = value
			if n := renderedLen(value); n > widths[i] {
				widths[i] = n
			}
		}
		cell, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return err
		}
		if err := file.SetSheetRow(SheetName, cell, &row); err != nil {
			return err
		}
	}

	style, err := file.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return err
	}
	last, err := excelize.ColumnNumberToName(len(columns))
	if err != nil {
		return err
	}
	if err := file.SetCellStyle(SheetName, "A1", last+"1", style); err != nil {
		return err
	}

	for i, width := range widths {
		name, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := file.SetColWidth(SheetName, name, name, columnWidth(width)); err != nil {
			return err
		}
	}

	return file.Write(w)
}

func columnWidth(maxLen int) float64 {
	return float64(maxLen+2) * 1.2
}

// renderedLen counts runes of the text a cell displays; blank cells count 0.
func renderedLen(value any) int {
	if value == nil {
		return 0
	}
	return utf8.RuneCountInString(fmt.Sprint(value))
}
