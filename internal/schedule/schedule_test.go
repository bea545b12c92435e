package schedule_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ipl-fantasy/roster/internal/schedule"
)

const sampleSchedule = `Team1,Team2,Date,Venue
MI,CSK,5/4/2025,Wankhede
RCB,KKR,6/4/2025,Chinnaswamy
`

func writeSchedule(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ipl-schedule.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func fixedClock(year int, month time.Month, day, hour int) func() time.Time {
	return func() time.Time {
		return time.Date(year, month, day, hour, 30, 0, 0, time.Local)
	}
}

func TestTodayMatches_MatchOnDate(t *testing.T) {
	path := writeSchedule(t, sampleSchedule)
	lookup := schedule.NewLookup(path, schedule.WithClock(fixedClock(2025, time.April, 5, 19)))

	matches := lookup.TodayMatches()

	require.Len(t, matches, 1)
	assert.Equal(t, schedule.Entry{Team1: "MI", Team2: "CSK", Date: "5/4/2025", Venue: "Wankhede"}, matches[0])
}

func TestTodayMatches_NextDay(t *testing.T) {
	path := writeSchedule(t, sampleSchedule)
	lookup := schedule.NewLookup(path, schedule.WithClock(fixedClock(2025, time.April, 6, 9)))

	matches := lookup.TodayMatches()

	require.Len(t, matches, 1)
	assert.Equal(t, "RCB", matches[0].Team1)
}

func TestTodayMatches_NoMatchToday(t *testing.T) {
	path := writeSchedule(t, sampleSchedule)
	lookup := schedule.NewLookup(path, schedule.WithClock(fixedClock(2025, time.April, 7, 12)))

	matches := lookup.TodayMatches()

	assert.NotNil(t, matches)
	assert.Empty(t, matches)
}

func TestTodayMatches_CappedToFirstTwo(t *testing.T) {
	path := writeSchedule(t, `Team1,Team2,Date,Venue
MI,CSK,5/4/2025,Wankhede
RCB,KKR,05/04/2025,Chinnaswamy
DC,SRH,5/4/2025,Kotla
`)
	lookup := schedule.NewLookup(path, schedule.WithClock(fixedClock(2025, time.April, 5, 0)))

	matches := lookup.TodayMatches()

	require.Len(t, matches, schedule.MaxTodayMatches)
	assert.Equal(t, "MI", matches[0].Team1)
	assert.Equal(t, "RCB", matches[1].Team1)
}

func TestTodayMatches_MissingFile(t *testing.T) {
	lookup := schedule.NewLookup(filepath.Join(t.TempDir(), "missing.csv"))

	matches := lookup.TodayMatches()

	assert.NotNil(t, matches)
	assert.Empty(t, matches)
}

func TestTodayMatches_MalformedFile(t *testing.T) {
	for name, content := range map[string]string{
		"empty":          "",
		"missing column": "Team1,Team2,Venue\nMI,CSK,Wankhede\n",
		"bad quoting":    "Team1,Team2,Date,Venue\n\"MI,CSK,5/4/2025,Wankhede\n",
	} {
		t.Run(name, func(t *testing.T) {
			path := writeSchedule(t, content)
			lookup := schedule.NewLookup(path, schedule.WithClock(fixedClock(2025, time.April, 5, 12)))

			matches := lookup.TodayMatches()

			assert.NotNil(t, matches)
			assert.Empty(t, matches)
		})
	}
}

func TestParse_ExtraColumnsAndBlankLines(t *testing.T) {
	entries, err := schedule.Parse(strings.NewReader("Match,Team1,Team2,Date,Venue,Time\n\n1,GT,PBKS,25/3/2025,Ahmedabad,19:30\n"))
	require.NoError(t, err)

	require.Len(t, entries, 1)
	assert.Equal(t, schedule.Entry{Team1: "GT", Team2: "PBKS", Date: "25/3/2025", Venue: "Ahmedabad"}, entries[0])
}

func TestParse_MissingColumn(t *testing.T) {
	_, err := schedule.Parse(strings.NewReader("Team1,Team2,Date\nMI,CSK,5/4/2025\n"))
	assert.ErrorIs(t, err, schedule.ErrMalformedSource)
}

func TestMatchesOn_DateNormalization(t *testing.T) {
	day := time.Date(2025, time.April, 5, 23, 59, 0, 0, time.UTC)
	entries := []schedule.Entry{
		{Team1: "padded", Date: "05/04/2025"},
		{Team1: "plain", Date: " 5/4/2025 "},
		{Team1: "garbage", Date: "tomorrow"},
		{Team1: "short", Date: "5/4"},
		{Team1: "rollover", Date: "36/3/2025"},
		{Team1: "wrong year", Date: "5/4/2024"},
	}

	matches := schedule.MatchesOn(entries, day)

	names := make([]string, 0, len(matches))
	for _, m := range matches {
		names = append(names, m.Team1)
	}
	assert.Equal(t, []string{"padded", "plain"}, names)

	// Rollover entries still match their normalized date.
	later := schedule.MatchesOn(entries[4:], day)
	require.Len(t, later, 1)
	assert.Equal(t, "rollover", later[0].Team1)
}

func TestMatchesOn_TrailingTextAfterDateParts(t *testing.T) {
	day := time.Date(2025, time.April, 5, 9, 0, 0, 0, time.UTC)
	entries := []schedule.Entry{
		{Team1: "with time", Date: "5/4/2025 19:30"},
		{Team1: "suffixed", Date: "5th/4/2025"},
		{Team1: "no digits", Date: "x5/4/2025"},
	}

	matches := schedule.MatchesOn(entries, day)

	names := make([]string, 0, len(matches))
	for _, m := range matches {
		names = append(names, m.Team1)
	}
	assert.Equal(t, []string{"with time", "suffixed"}, names)
}
