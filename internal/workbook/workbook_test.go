package workbook_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/ipl-fantasy/roster/internal/team"
	"github.com/ipl-fantasy/roster/internal/workbook"
)

// sheet is one worksheet to write: name and rows starting at A1.
type sheet struct {
	name string
	rows [][]any
}

func buildWorkbook(t *testing.T, sheets ...sheet) []byte {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	for i, s := range sheets {
		if i == 0 {
			require.NoError(t, f.SetSheetName("Sheet1", s.name))
		} else {
			_, err := f.NewSheet(s.name)
			require.NoError(t, err)
		}
		for r, cols := range s.rows {
			cell, err := excelize.CoordinatesToCellName(1, r+1)
			require.NoError(t, err)
			row := cols
			require.NoError(t, f.SetSheetRow(s.name, cell, &row))
		}
	}

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func TestParseWorkbook_SheetsBecomeTeams(t *testing.T) {
	data := buildWorkbook(t,
		sheet{name: "Mumbai Indians", rows: [][]any{
			{"Player", "Role", "Credits"},
			{"Rohit Sharma", "Batter", 10.5},
			{"Jasprit Bumrah", "Bowler", 9},
		}},
		sheet{name: "Chennai Super Kings", rows: [][]any{
			{"Player", "Role", "Credits"},
			{"MS Dhoni", "Keeper", 8.5},
			{"Ravindra Jadeja", "All-rounder", 9},
			{"Ruturaj Gaikwad", "Batter", 8},
		}},
	)

	set, err := workbook.ParseWorkbook(bytes.NewReader(data))
	require.NoError(t, err)

	assert.Equal(t, []string{"Mumbai Indians", "Chennai Super Kings"}, set.Names())

	mi, _ := set.Get("Mumbai Indians")
	csk, _ := set.Get("Chennai Super Kings")
	require.Len(t, mi, 2)
	assert.Len(t, csk, 3)

	assert.Equal(t, team.Row{
		{Name: "Player", Value: "Rohit Sharma"},
		{Name: "Role", Value: "Batter"},
		{Name: "Credits", Value: 10.5},
	}, mi[0])
	assert.Equal(t, float64(9), mi[1][2].Value)
}

func TestParseWorkbook_EmptySheetsOmitted(t *testing.T) {
	data := buildWorkbook(t,
		sheet{name: "Blank"},
		sheet{name: "HeaderOnly", rows: [][]any{{"Player", "Role"}}},
		sheet{name: "RCB", rows: [][]any{{"Player"}, {"Virat Kohli"}}},
	)

	set, err := workbook.ParseWorkbook(bytes.NewReader(data))
	require.NoError(t, err)

	assert.Equal(t, []string{"RCB"}, set.Names())
}

func TestParseWorkbook_NoDataAnywhere(t *testing.T) {
	data := buildWorkbook(t, sheet{name: "Blank"})

	set, err := workbook.ParseWorkbook(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Empty(t, set)
}

func TestParseWorkbook_EmptyCellsOmittedAndBlankRowsSkipped(t *testing.T) {
	data := buildWorkbook(t, sheet{name: "KKR", rows: [][]any{
		{"Player", "Role", "Credits"},
		{"Andre Russell", nil, 9},
		{nil, nil, nil},
		{"Sunil Narine", "All-rounder"},
	}})

	set, err := workbook.ParseWorkbook(bytes.NewReader(data))
	require.NoError(t, err)

	kkr, _ := set.Get("KKR")
	require.Len(t, kkr, 2)
	assert.Equal(t, team.Row{
		{Name: "Player", Value: "Andre Russell"},
		{Name: "Credits", Value: float64(9)},
	}, kkr[0])
	assert.Equal(t, team.Row{
		{Name: "Player", Value: "Sunil Narine"},
		{Name: "Role", Value: "All-rounder"},
	}, kkr[1])
}

func TestParseWorkbook_HeaderNaming(t *testing.T) {
	data := buildWorkbook(t, sheet{name: "DC", rows: [][]any{
		{"Player", nil, "Player", nil},
		{"Rishabh Pant", "x", "dup", "y"},
	}})

	set, err := workbook.ParseWorkbook(bytes.NewReader(data))
	require.NoError(t, err)

	dc, _ := set.Get("DC")
	require.Len(t, dc, 1)

	names := make([]string, 0, len(dc[0]))
	for _, f := range dc[0] {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{"Player", "__EMPTY", "Player_1", "__EMPTY_1"}, names)
}

func TestParseWorkbook_TypedCells(t *testing.T) {
	data := buildWorkbook(t, sheet{name: "GT", rows: [][]any{
		{"Player", "Captain", "Jersey"},
		{"Shubman Gill", true, "007"},
	}})

	set, err := workbook.ParseWorkbook(bytes.NewReader(data))
	require.NoError(t, err)

	gt, _ := set.Get("GT")
	require.Len(t, gt, 1)

	captain, _ := gt[0].Get("Captain")
	assert.Equal(t, true, captain)
	jersey, _ := gt[0].Get("Jersey")
	assert.Equal(t, "007", jersey)
}

func TestParseWorkbook_InvalidBytes(t *testing.T) {
	_, err := workbook.ParseWorkbook(strings.NewReader("this is not a spreadsheet"))
	assert.ErrorIs(t, err, workbook.ErrInvalidWorkbook)
}

func TestParseWorkbook_EmptyInput(t *testing.T) {
	_, err := workbook.ParseWorkbook(bytes.NewReader(nil))
	assert.ErrorIs(t, err, workbook.ErrInvalidWorkbook)
}

func TestParseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "teams.xlsx")
	data := buildWorkbook(t, sheet{name: "PBKS", rows: [][]any{{"Player"}, {"Arshdeep Singh"}}})
	require.NoError(t, os.WriteFile(path, data, 0o644))

	set, err := workbook.ParseFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"PBKS"}, set.Names())
}

func TestParseFile_Missing(t *testing.T) {
	_, err := workbook.ParseFile(filepath.Join(t.TempDir(), "nope.xlsx"))
	require.Error(t, err)
	assert.NotErrorIs(t, err, workbook.ErrInvalidWorkbook)
}

func TestParseFile_LegacyXLS(t *testing.T) {
	set, err := workbook.ParseFile(filepath.Join("testdata", "squads.xls"))
	require.NoError(t, err)

	assert.Equal(t, []string{"Mumbai Indians", "Chennai Super Kings"}, set.Names())

	mi, _ := set.Get("Mumbai Indians")
	require.Len(t, mi, 2)
	assert.Equal(t, team.Row{
		{Name: "Player", Value: "Rohit Sharma"},
		{Name: "Role", Value: "Batter"},
		{Name: "Credits", Value: 10.5},
		{Name: "__EMPTY", Value: "Captain"},
		{Name: "Role_1", Value: "Opener"},
	}, mi[0])
	assert.Equal(t, team.Row{
		{Name: "Player", Value: "Jasprit Bumrah"},
		{Name: "Role", Value: "Bowler"},
		{Name: "Credits", Value: float64(9)},
	}, mi[1])

	csk, _ := set.Get("Chennai Super Kings")
	assert.Equal(t, []team.Row{{
		{Name: "Player", Value: "MS Dhoni"},
		{Name: "Credits", Value: 8.5},
	}}, csk)
}

func TestParseWorkbook_CorruptXLS(t *testing.T) {
	data := append([]byte{0xD0, 0xCF, 0x11, 0xE0}, "not a compound file"...)

	_, err := workbook.ParseWorkbook(bytes.NewReader(data))
	assert.ErrorIs(t, err, workbook.ErrInvalidWorkbook)
}
