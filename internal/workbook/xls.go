package workbook

import (
	"bytes"
	"fmt"
	"math"
	"strconv"

	"github.com/extrame/xls"

	"github.com/ipl-fantasy/roster/internal/team"
)

// parseXLS reads a BIFF (.xls) workbook. The reader only exposes cell text,
// so numbers are recovered by parsing it back.
func parseXLS(data []byte) (set team.Set, err error) {
	// The BIFF reader indexes records without bounds checks.
	defer func() {
		if r := recover(); r != nil {
			set, err = nil, fmt.Errorf("%w: %v", ErrInvalidWorkbook, r)
		}
	}()

	wb, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidWorkbook, err)
	}
	if wb == nil {
		return nil, fmt.Errorf("%w: no workbook stream", ErrInvalidWorkbook)
	}

	set = team.Set{}
	for i := 0; i < wb.NumSheets(); i++ {
		sheet := wb.GetSheet(i)
		if sheet == nil {
			continue
		}
		rows, err := buildRows(sheetCells(sheet), xlsValue)
		if err != nil {
			return nil, fmt.Errorf("%w: sheet %q: %v", ErrInvalidWorkbook, sheet.Name, err)
		}
		if len(rows) == 0 {
			continue
		}
		set = append(set, team.Entry{Name: sheet.Name, Players: rows})
	}

	return set, nil
}

// sheetCells lays a sheet out as a grid. Missing rows stay nil and trailing
// blank cells are trimmed.
func sheetCells(sheet *xls.WorkSheet) [][]string {
	cells := make([][]string, int(sheet.MaxRow)+1)
	for i := range cells {
		row := sheetRow(sheet, i)
		if row == nil {
			continue
		}

		cols := make([]string, 0, row.LastCol()+1)
		for c := 0; c <= row.LastCol(); c++ {
			cols = append(cols, row.Col(c))
		}
		for len(cols) > 0 && cols[len(cols)-1] == "" {
			cols = cols[:len(cols)-1]
		}
		cells[i] = cols
	}
	return cells
}

// sheetRow returns nil for rows the sheet has no record of; WorkSheet.Row
// panics on those.
func sheetRow(sheet *xls.WorkSheet, i int) (row *xls.Row) {
	defer func() {
		if recover() != nil {
			row = nil
		}
	}()
	return sheet.Row(i)
}

func xlsValue(_, _ int, raw string) (any, error) {
	if n, err := strconv.ParseFloat(raw, 64); err == nil && !math.IsNaN(n) && !math.IsInf(n, 0) {
		return n, nil
	}
	return raw, nil
}
