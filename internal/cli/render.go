package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ipl-fantasy/roster/internal/schedule"
	"github.com/ipl-fantasy/roster/internal/team"
)

var (
	primary = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#1D4ED8", Dark: "#60A5FA"})
	border  = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#D1D5DB", Dark: "#4B5563"})
	success = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#059669", Dark: "#10B981"})
	muted   = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#9CA3AF"})
)

func cardStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border.GetForeground()).
		Padding(0, 2)
}

// success renders a headline with optional detail lines.
func (a *app) success(title string, details ...string) string {
	if !a.styled {
		if len(details) == 0 {
			return title
		}
		return title + "\n  " + strings.Join(details, "\n  ")
	}

	body := success.Render("\u2713") + " " + title
	if len(details) > 0 {
		body += "\n\n" + strings.Join(details, "\n")
	}
	return cardStyle().Render(body)
}

// teamCard renders one team with each player row in column order. A non-empty
// columns list picks and orders the fields shown instead.
func (a *app) teamCard(name string, players []team.Row, columns []string) string {
	title := fmt.Sprintf("%s (%d players)", name, len(players))

	lines := make([]string, 0, len(players))
	for _, row := range players {
		lines = append(lines, formatRow(row, columns))
	}

	if !a.styled {
		var b strings.Builder
		b.WriteString(title)
		for _, l := range lines {
			b.WriteString("\n  ")
			b.WriteString(l)
		}
		return b.String()
	}

	body := primary.Bold(true).Render(title)
	if len(lines) > 0 {
		body += "\n\n" + strings.Join(lines, "\n")
	} else {
		body += "\n\n" + muted.Render("no players")
	}
	return cardStyle().Render(body)
}

func (a *app) matchLine(m schedule.Entry) string {
	line := fmt.Sprintf("%s vs %s", m.Team1, m.Team2)
	venue := fmt.Sprintf("%s, %s", m.Venue, m.Date)
	if !a.styled {
		return line + " at " + venue
	}
	return primary.Bold(true).Render(line) + " " + muted.Render(venue)
}

func formatRow(row team.Row, columns []string) string {
	if len(columns) == 0 {
		parts := make([]string, 0, len(row))
		for _, f := range row {
			parts = append(parts, f.Name+": "+formatValue(f.Value))
		}
		return strings.Join(parts, ", ")
	}

	parts := make([]string, 0, len(columns))
	for _, name := range columns {
		if v, ok := row.Get(name); ok {
			parts = append(parts, name+": "+formatValue(v))
		}
	}
	return strings.Join(parts, ", ")
}

func formatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		return fmt.Sprint(val)
	}
}
