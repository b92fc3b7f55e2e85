package spreadsheet

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"

	"hrrecords/internal/domain/core"
)

const maxLegacyRows = 100000

// Cell is one value read from a worksheet. Time is set when the workbook
// stores the cell as a native date; Text always carries the raw text.
type Cell struct {
	Text string
	Time *time.Time
}

// Raw returns the value handed to field coercion: nil for a blank cell, the
// native date when present, otherwise the trimmed text.
func (c Cell) Raw() any {
	if c.Time != nil {
		return *c.Time
	}
	text := strings.TrimSpace(c.Text)
	if text == "" {
		return nil
	}
	return text
}

func (c Cell) Blank() bool {
	return c.Time == nil && strings.TrimSpace(c.Text) == ""
}

// CheckExtension accepts .xlsx and .xls uploads only.
func CheckExtension(filename string) error {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx", ".xls":
		return nil
	default:
		return core.Invalid("file", "must be an Excel workbook (.xlsx or .xls)")
	}
}

// Read loads the active worksheet of an uploaded workbook.
func Read(r io.Reader, filename string) ([][]Cell, error) {
	if err := CheckExtension(filename); err != nil {
		return nil, err
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	var rows [][]Cell
	if strings.ToLower(filepath.Ext(filename)) == ".xls" {
		rows, err = readLegacy(data)
	} else {
		rows, err = readWorkbook(data)
	}
	if err != nil {
		return nil, core.Invalid("file", "could not be read: "+err.Error())
	}
	if len(rows) == 0 {
		return nil, core.Invalid("file", "has no rows")
	}
	return rows, nil
}

func readLegacy(data []byte) ([][]Cell, error) {
	workbook, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return nil, err
	}
	if workbook.NumSheets() == 0 {
		return nil, fmt.Errorf("no worksheet found")
	}
	raw := workbook.ReadAllCells(maxLegacyRows)
	rows := make([][]Cell, len(raw))
	for i, row := range raw {
		rows[i] = make([]Cell, len(row))
		for j, text := range row {
			rows[i][j] = Cell{Text: text}
		}
	}
	return rows, nil
}

func readWorkbook(data []byte) ([][]Cell, error) {
	file, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer func() { _ = file.Close() }()

	sheet := file.GetSheetName(file.GetActiveSheetIndex())
	if sheet == "" {
		return nil, fmt.Errorf("no worksheet found")
	}
	raw, err := file.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, err
	}

	dates := dateStyles{file: file, known: make(map[int]bool)}
	rows := make([][]Cell, len(raw))
	for i, row := range raw {
		rows[i] = make([]Cell, len(row))
		for j, text := range row {
			cell := Cell{Text: text}
			if serial, err := strconv.ParseFloat(strings.TrimSpace(text), 64); err == nil && i > 0 {
				name, _ := excelize.CoordinatesToCellName(j+1, i+1)
				if dates.isDate(sheet, name) {
					if t, err := excelize.ExcelDateToTime(serial, false); err == nil {
						cell.Time = &t
					}
				}
			}
			rows[i][j] = cell
		}
	}
	return rows, nil
}

// dateStyles memoises which cell styles carry a date number format.
type dateStyles struct {
	file  *excelize.File
	known map[int]bool
}

func (d dateStyles) isDate(sheet, cell string) bool {
	styleID, err := d.file.GetCellStyle(sheet, cell)
	if err != nil || styleID == 0 {
		return false
	}
	if isDate, ok := d.known[styleID]; ok {
		return isDate
	}
	isDate := false
	if style, err := d.file.GetStyle(styleID); err == nil && style != nil {
		isDate = isDateFormat(style.NumFmt, style.CustomNumFmt)
	}
	d.known[styleID] = isDate
	return isDate
}

func isDateFormat(numFmt int, custom *string) bool {
	switch {
	case numFmt >= 14 && numFmt <= 22, numFmt >= 45 && numFmt <= 47:
		return true
	case custom != nil:
		code := strings.ToLower(*custom)
		// Quoted literals and colour tags can contain date letters.
		var b strings.Builder
		inQuote, inBracket := false, false
		for _, r := range code {
			switch {
			case r == '"':
				inQuote = !inQuote
			case r == '[' && !inQuote:
				inBracket = true
			case r == ']' && !inQuote:
				inBracket = false
			case !inQuote && !inBracket:
				b.WriteRune(r)
			}
		}
		return strings.ContainsAny(b.String(), "ymd")
	default:
		return false
	}
}
