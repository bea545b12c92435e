// Package workbook turns an uploaded spreadsheet into a team set: one team
// per sheet, one player row per data row, field names from the header row.
package workbook

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/ipl-fantasy/roster/internal/team"
)

// ErrInvalidWorkbook is returned when the input is not a readable workbook.
var ErrInvalidWorkbook = errors.New("invalid workbook")

// emptyHeader names columns whose header cell is blank.
const emptyHeader = "__EMPTY"

// oleSignature opens every OLE2 compound file, which is how legacy .xls
// workbooks are stored. Anything else is handed to the .xlsx reader.
var oleSignature = []byte{0xD0, 0xCF, 0x11, 0xE0}

// cellFunc types the raw text of the cell at zero-based (row, col).
type cellFunc func(row, col int, raw string) (any, error)

// ParseWorkbook reads an .xlsx or .xls workbook. Sheets are returned in
// workbook order; a sheet without data rows is omitted, so the result may be
// empty.
func ParseWorkbook(r io.Reader) (team.Set, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidWorkbook, err)
	}
	if bytes.HasPrefix(data, oleSignature) {
		return parseXLS(data)
	}
	return parseXLSX(data)
}

func parseXLSX(data []byte) (team.Set, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidWorkbook, err)
	}
	defer f.Close()

	set := team.Set{}
	for _, sheet := range f.GetSheetList() {
		cells, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
		if err != nil {
			return nil, fmt.Errorf("%w: sheet %q: %v", ErrInvalidWorkbook, sheet, err)
		}
		rows, err := buildRows(cells, func(row, col int, raw string) (any, error) {
			return cellValue(f, sheet, col+1, row+1, raw)
		})
		if err != nil {
			return nil, fmt.Errorf("%w: sheet %q: %v", ErrInvalidWorkbook, sheet, err)
		}
		if len(rows) == 0 {
			continue
		}
		set = append(set, team.Entry{Name: sheet, Players: rows})
	}

	return set, nil
}

// ParseFile opens path and parses it with ParseWorkbook.
func ParseFile(path string) (team.Set, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening workbook: %w", err)
	}
	defer file.Close()

	return ParseWorkbook(file)
}

// buildRows applies the header rules to a sheet's cell grid: the first
// non-blank row names the fields, blank rows are skipped and blank cells are
// left out of their row.
func buildRows(cells [][]string, value cellFunc) ([]team.Row, error) {
	headerIdx := -1
	for i, cols := range cells {
		if !isBlank(cols) {
			headerIdx = i
			break
		}
	}
	if headerIdx < 0 {
		return nil, nil
	}

	width := 0
	for _, cols := range cells[headerIdx:] {
		width = max(width, len(cols))
	}
	header := headerNames(cells[headerIdx], width)

	var rows []team.Row
	for i := headerIdx + 1; i < len(cells); i++ {
		cols := cells[i]
		if isBlank(cols) {
			continue
		}

		row := make(team.Row, 0, len(cols))
		for c, raw := range cols {
			if raw == "" {
				continue
			}
			v, err := value(i, c, raw)
			if err != nil {
				return nil, err
			}
			row = append(row, team.Field{Name: header[c], Value: v})
		}
		rows = append(rows, row)
	}

	return rows, nil
}

// headerNames derives unique field names: blank headers become __EMPTY and
// repeats get a _1, _2, ... suffix.
func headerNames(cols []string, width int) []string {
	names := make([]string, width)
	seen := make(map[string]bool, width)
	for c := 0; c < width; c++ {
		base := ""
		if c < len(cols) {
			base = cols[c]
		}
		if strings.TrimSpace(base) == "" {
			base = emptyHeader
		}

		name := base
		for n := 1; seen[name]; n++ {
			name = base + "_" + strconv.Itoa(n)
		}
		seen[name] = true
		names[c] = name
	}
	return names
}

// cellValue types a raw cell: numbers become float64, booleans bool, and
// everything else stays a string.
func cellValue(f *excelize.File, sheet string, col, row int, raw string) (any, error) {
	axis, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return nil, err
	}
	typ, err := f.GetCellType(sheet, axis)
	if err != nil {
		return nil, err
	}

	switch typ {
	case excelize.CellTypeUnset, excelize.CellTypeNumber:
		// OOXML cells without an explicit type are numeric.
		if n, err := strconv.ParseFloat(raw, 64); err == nil {
			return n, nil
		}
	case excelize.CellTypeBool:
		switch strings.ToUpper(raw) {
		case "1", "TRUE":
			return true, nil
		case "0", "FALSE":
			return false, nil
		}
	}
	return raw, nil
}

func isBlank(cols []string) bool {
	for _, c := range cols {
		if c != "" {
			return false
		}
	}
	return true
}
