// Package schedule answers "which matches are on today" from a static CSV
// schedule with Team1, Team2, Date (D/M/YYYY) and Venue columns.
package schedule

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// MaxTodayMatches caps how many of today's matches are reported.
const MaxTodayMatches = 2

// ErrMalformedSource is returned when the schedule table cannot be read as
// a CSV with the expected columns.
var ErrMalformedSource = errors.New("malformed schedule source")

var requiredColumns = []string{"Team1", "Team2", "Date", "Venue"}

// Entry is one scheduled match.
type Entry struct {
	Team1 string `json:"team1"`
	Team2 string `json:"team2"`
	Date  string `json:"date"`
	Venue string `json:"venue"`
}

// Lookup reads the schedule at Path on every call; the file is small and
// may be replaced while the process runs.
type Lookup struct {
	path string
	now  func() time.Time
}

// Option configures a Lookup.
type Option func(*Lookup)

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(l *Lookup) {
		l.now = now
	}
}

// NewLookup creates a Lookup for the CSV file at path.
func NewLookup(path string, opts ...Option) *Lookup {
	l := &Lookup{path: path, now: time.Now}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// TodayMatches returns up to MaxTodayMatches entries whose date is today in
// the local time zone, in file order. A missing or malformed file yields an
// empty list; the failure is logged, never returned.
func (l *Lookup) TodayMatches() []Entry {
	f, err := os.Open(l.path)
	if err != nil {
		slog.Error("failed to open schedule", "error", err, "path", l.path)
		return []Entry{}
	}
	defer f.Close()

	entries, err := Parse(f)
	if err != nil {
		slog.Error("failed to read schedule", "error", err, "path", l.path)
		return []Entry{}
	}

	return MatchesOn(entries, l.now())
}

// MatchesOn keeps entries scheduled on day's calendar date (in day's
// location), capped at MaxTodayMatches. Dates are compared as normalized
// D/M/YYYY strings only; no time-of-day or zone offset is considered.
func MatchesOn(entries []Entry, day time.Time) []Entry {
	want := formatDate(day)

	matches := []Entry{}
	for _, e := range entries {
		d, ok := parseDate(e.Date, day.Location())
		if !ok || formatDate(d) != want {
			continue
		}
		matches = append(matches, e)
		if len(matches) == MaxTodayMatches {
			break
		}
	}
	return matches
}

// Parse reads a schedule CSV. The first record is the header and must name
// Team1, Team2, Date and Venue; other columns are ignored. Empty lines are
// skipped.
func Parse(r io.Reader) ([]Entry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty file", ErrMalformedSource)
		}
		return nil, fmt.Errorf("%w: %v", ErrMalformedSource, err)
	}

	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))] = i
	}
	for _, col := range requiredColumns {
		if _, ok := idx[col]; !ok {
			return nil, fmt.Errorf("%w: missing column %q", ErrMalformedSource, col)
		}
	}

	var entries []Entry
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedSource, err)
		}

		field := func(col string) string {
			if i := idx[col]; i < len(rec) {
				return rec[i]
			}
			return ""
		}
		entries = append(entries, Entry{
			Team1: field("Team1"),
			Team2: field("Team2"),
			Date:  field("Date"),
			Venue: field("Venue"),
		})
	}

	return entries, nil
}

// parseDate reads D/M/YYYY (no zero padding required). Out-of-range parts
// roll over the way a calendar constructor does, so 32/1/2025 is 1/2/2025.
func parseDate(s string, loc *time.Location) (time.Time, bool) {
	parts := strings.Split(strings.TrimSpace(s), "/")
	if len(parts) < 3 {
		return time.Time{}, false
	}

	var nums [3]int
	for i := range nums {
		n, ok := leadingInt(parts[i])
		if !ok {
			return time.Time{}, false
		}
		nums[i] = n
	}

	return time.Date(nums[2], time.Month(nums[1]), nums[0], 0, 0, 0, 0, loc), true
}

// leadingInt reads an optionally signed integer from the start of s and
// ignores whatever follows it, so "2025 19:30" is 2025.
func leadingInt(s string) (int, bool) {
	s = strings.TrimSpace(s)
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0, false
	}

	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0, false
	}
	return n, true
}

func formatDate(t time.Time) string {
	return fmt.Sprintf("%d/%d/%d", t.Day(), int(t.Month()), t.Year())
}
