package tui

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/mattn/go-runewidth"

	"github.com/piedpiper/teamboard/internal/board"
	"github.com/piedpiper/teamboard/internal/leaderboard"
	"github.com/piedpiper/teamboard/internal/server"
)

// chartHours is how many trailing hour buckets the overview chart shows.
const chartHours = 24

func overviewRows(agents []server.AgentPayload) []table.Row {
	rows := make([]table.Row, 0, len(agents))
	for _, a := range agents {
		rows = append(rows, table.Row{
			a.Name,
			a.Status,
			strconv.Itoa(a.TotalMessages),
			formatTokens(a.TotalTokens),
			fmt.Sprintf("$%.2f", a.TotalCost),
			fmt.Sprintf("%.1f", a.HumanEquivHours),
			fmt.Sprintf("%s/%s", formatTokens(a.ContextUsed), formatTokens(a.ContextMax)),
		})
	}
	return rows
}

func leaderboardRows(entries []leaderboard.Entry) []table.Row {
	rows := make([]table.Row, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, table.Row{
			strconv.Itoa(e.Rank),
			e.Badge,
			e.Agent,
			strconv.Itoa(e.Score),
			strconv.Itoa(e.Done),
			strconv.Itoa(e.InProgress),
			strconv.Itoa(e.Blocked),
			fmt.Sprintf("$%.2f", e.TotalCost),
		})
	}
	return rows
}

// formatTokens renders token counts compactly: 1234 -> "1.2k",
// 5000000 -> "5.0M".
func formatTokens(n int) string {
	switch {
	case n >= 1_000_000:
		return fmt.Sprintf("%.1fM", float64(n)/1_000_000)
	case n >= 1_000:
		return fmt.Sprintf("%.1fk", float64(n)/1_000)
	default:
		return strconv.Itoa(n)
	}
}

// hourlySeries merges every agent's time series into one token-per-hour
// series over the trailing chartHours buckets, ordered oldest first.
// Hours with no traffic plot as zero.
func hourlySeries(agents []server.AgentPayload) []float64 {
	totals := map[string]float64{}
	for _, a := range agents {
		for hour, bucket := range a.TimeSeries {
			totals[hour] += float64(bucket.Tokens)
		}
	}
	if len(totals) == 0 {
		return nil
	}

	hours := make([]string, 0, len(totals))
	for h := range totals {
		hours = append(hours, h)
	}
	sort.Strings(hours)
	if len(hours) > chartHours {
		hours = hours[len(hours)-chartHours:]
	}

	series := make([]float64, len(hours))
	for i, h := range hours {
		series[i] = totals[h]
	}
	return series
}

func (m *Model) viewOverview() string {
	var b strings.Builder

	team := m.data.Team
	summary := fmt.Sprintf("Team: %s msgs · %s tokens · $%.2f · %.1f human-hours",
		formatTokens(team.TotalMessages), formatTokens(team.TotalTokens),
		team.TotalCost, team.HumanEquivHours)
	b.WriteString(m.styles.Title.Render(summary))
	b.WriteString("\n\n")
	b.WriteString(m.overview.View())

	if series := hourlySeries(m.data.Agents); len(series) > 1 {
		width := max(20, m.width-12)
		b.WriteString("\n\n")
		b.WriteString(m.styles.Subtle.Render("tokens/hour"))
		b.WriteString("\n")
		b.WriteString(asciigraph.Plot(series,
			asciigraph.Height(6),
			asciigraph.Width(width),
		))
	}
	return m.styles.Content.Render(b.String())
}

func (m *Model) viewActivity() string {
	if len(m.data.Activity) == 0 {
		return m.styles.Content.Render(m.styles.Subtle.Render("No recent activity."))
	}

	width := max(40, m.width-6)
	var lines []string
	for _, entry := range m.data.Activity {
		ts := entry.Timestamp
		if len(ts) >= 16 {
			ts = ts[11:16]
		}
		line := fmt.Sprintf("%s  %-18s %-9s %s",
			m.styles.Subtle.Render(ts), entry.Name, entry.Role, entry.ContentPreview)
		lines = append(lines, runewidth.Truncate(line, width, "…"))
	}
	return m.styles.Content.Render(strings.Join(lines, "\n"))
}

var boardColumns = []struct {
	status string
	title  string
}{
	{board.StatusBacklog, "Backlog"},
	{board.StatusInProgress, "In Progress"},
	{board.StatusBlocked, "Blocked"},
	{board.StatusDone, "Done"},
}

// tasksByStatus groups the board into display columns, preserving task
// order within each column.
func tasksByStatus(tasks []board.Task) map[string][]board.Task {
	grouped := make(map[string][]board.Task, len(boardColumns))
	for _, t := range tasks {
		grouped[t.Status] = append(grouped[t.Status], t)
	}
	return grouped
}

func (m *Model) viewBoard() string {
	grouped := tasksByStatus(m.tasks)
	colWidth := max(18, (m.width-12)/len(boardColumns))

	var cols []string
	for _, col := range boardColumns {
		var b strings.Builder
		b.WriteString(m.styles.ColumnTitle.Render(
			fmt.Sprintf("%s (%d)", col.title, len(grouped[col.status]))))
		for _, t := range grouped[col.status] {
			b.WriteString("\n")
			card := fmt.Sprintf("#%d %s", t.ID, t.Title)
			if t.Assignee != "" {
				card += " @" + t.Assignee
			}
			b.WriteString(m.styles.Card.Render(runewidth.Truncate(card, colWidth-2, "…")))
		}
		cols = append(cols, m.styles.Column.Width(colWidth).Render(b.String()))
	}
	return m.styles.Content.Render(lipgloss.JoinHorizontal(lipgloss.Top, cols...))
}

func (m *Model) viewLeaderboard() string {
	if len(m.data.Leaderboard) == 0 {
		return m.styles.Content.Render(m.styles.Subtle.Render("No leaderboard data."))
	}
	return m.styles.Content.Render(m.leaderboard.View())
}
