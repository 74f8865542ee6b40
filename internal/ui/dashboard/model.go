package dashboard

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nvidal/jobtrack/internal/api"
	"github.com/nvidal/jobtrack/internal/model"
	"github.com/nvidal/jobtrack/internal/theme"
)

// statsLoadedMsg carries the fetched aggregates.
type statsLoadedMsg struct {
	stats model.DashboardStats
	err   error
}

// barWidth is the maximum block length of a status bar.
const barWidth = 24

// Model renders the server-computed dashboard aggregates. No counts are
// derived client-side.
type Model struct {
	client  *api.Client
	stats   *model.DashboardStats
	loading bool
	failed  bool
	spin    spinner.Model
	width   int
	height  int
}

// New creates the dashboard model.
func New(client *api.Client, width, height int) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return Model{
		client: client,
		spin:   sp,
		width:  width,
		height: height,
	}
}

// Enter kicks off a stats fetch.
func (m *Model) Enter() tea.Cmd {
	m.loading = true
	m.failed = false
	client := m.client
	return tea.Batch(m.spin.Tick, func() tea.Msg {
		stats, err := client.Dashboard(context.Background())
		return statsLoadedMsg{stats: stats, err: err}
	})
}

// Update handles messages for the dashboard.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case statsLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.failed = true
			return m, nil
		}
		stats := msg.stats
		m.stats = &stats
		return m, nil

	case spinner.TickMsg:
		if m.loading {
			var cmd tea.Cmd
			m.spin, cmd = m.spin.Update(msg)
			return m, cmd
		}
	}
	return m, nil
}

// View renders the dashboard.
func (m Model) View() string {
	if m.loading {
		return lipgloss.Place(
			m.width, m.height,
			lipgloss.Center, lipgloss.Center,
			m.spin.View()+" loading dashboard...",
		)
	}
	if m.failed || m.stats == nil {
		return lipgloss.Place(
			m.width, m.height,
			lipgloss.Center, lipgloss.Center,
			theme.HelpStyle.Render("Failed to load dashboard."),
		)
	}

	stats := *m.stats

	parts := []string{
		theme.TitleStyle.Render("Dashboard"),
		theme.HelpStyle.Render("Your job search at a glance"),
		"",
		m.renderCards(stats),
	}

	// Both charts are omitted entirely when there is nothing to chart.
	if stats.Total > 0 {
		parts = append(parts,
			"",
			m.renderDistribution(stats),
			"",
			m.renderBars(stats),
		)
	}

	parts = append(parts, "", m.renderRecent(stats), "", m.renderActivity(stats))

	return lipgloss.NewStyle().Padding(0, 1).Render(
		lipgloss.JoinVertical(lipgloss.Left, parts...),
	)
}

func (m Model) renderCards(stats model.DashboardStats) string {
	cards := []struct {
		label string
		value string
		color lipgloss.AdaptiveColor
	}{
		{"Total", strconv.Itoa(stats.Total), theme.ColorAccent},
		{"Applied", strconv.Itoa(stats.Applied), theme.ColorBlue},
		{"Interview", strconv.Itoa(stats.Interview), theme.ColorYellow},
		{"Offers", strconv.Itoa(stats.Offer), theme.ColorGreen},
		{"Rejected", strconv.Itoa(stats.Rejected), theme.ColorRed},
		{"Conversion", FormatRate(stats.ConversionRate), theme.ColorAccent},
	}

	rendered := make([]string, 0, len(cards))
	for _, c := range cards {
		value := lipgloss.NewStyle().
			Bold(true).
			Foreground(c.color).
			Render(c.value)
		label := theme.HelpStyle.Render(c.label)
		rendered = append(rendered, theme.CardStyle.Render(
			lipgloss.JoinVertical(lipgloss.Center, value, label),
		))
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

// renderDistribution shows nonzero statuses as share-of-total lines.
func (m Model) renderDistribution(stats model.DashboardStats) string {
	lines := []string{theme.TitleStyle.Render("Status Distribution")}

	for _, s := range model.Statuses {
		count := stats.Count(s)
		if count == 0 {
			continue
		}
		pct := float64(count) / float64(stats.Total) * 100
		lines = append(lines, fmt.Sprintf(
			"%s %s",
			theme.StatusBadge(s),
			theme.HelpStyle.Render(fmt.Sprintf("%.0f%%", pct)),
		))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// renderBars draws a per-status bar chart scaled to the largest count.
func (m Model) renderBars(stats model.DashboardStats) string {
	maxCount := 0
	for _, s := range model.Statuses {
		if c := stats.Count(s); c > maxCount {
			maxCount = c
		}
	}

	lines := []string{theme.TitleStyle.Render("By Status")}
	for _, s := range model.Statuses {
		count := stats.Count(s)
		blocks := 0
		if maxCount > 0 {
			blocks = count * barWidth / maxCount
		}
		bar := lipgloss.NewStyle().
			Foreground(theme.StatusColor(s)).
			Render(strings.Repeat("█", blocks))
		lines = append(lines, fmt.Sprintf(
			"%-10s %s %d", s, bar, count,
		))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (m Model) renderRecent(stats model.DashboardStats) string {
	lines := []string{theme.TitleStyle.Render("Recent Applications")}

	if len(stats.Recent) == 0 {
		lines = append(lines, theme.HelpStyle.Render(
			"No applications yet.\nAdd your first application to get started.",
		))
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	for _, app := range stats.Recent {
		lines = append(lines, fmt.Sprintf(
			"  %-30s %-18s %s",
			truncate(app.JobTitle, 30),
			truncate(app.Company.Name, 18),
			theme.StatusBadge(app.Status),
		))
	}

	if stats.Total > len(stats.Recent) {
		lines = append(lines, theme.HelpStyle.Render(
			"  press a to view all →",
		))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (m Model) renderActivity(stats model.DashboardStats) string {
	lines := []string{theme.TitleStyle.Render("Activity Log")}

	if len(stats.RecentActivity) == 0 {
		lines = append(lines, theme.HelpStyle.Render(
			"No activity yet.\nStatus changes will appear here.",
		))
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	for _, entry := range stats.RecentActivity {
		lines = append(lines, fmt.Sprintf(
			"  %s at %s  %s → %s  %s",
			truncate(entry.JobTitle, 24),
			truncate(entry.CompanyName, 16),
			theme.StatusBadge(entry.OldStatus),
			theme.StatusBadge(entry.NewStatus),
			theme.HelpStyle.Render(RelativeTime(entry.ChangedAt.Time, time.Now())),
		))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// SetSize updates the dashboard dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// RelativeTime buckets elapsed minutes: under a minute is "now", then
// minutes, hours, and days.
func RelativeTime(t time.Time, now time.Time) string {
	mins := int(now.Sub(t).Minutes())
	switch {
	case mins < 1:
		return "now"
	case mins < 60:
		return fmt.Sprintf("%dm", mins)
	case mins < 1440:
		return fmt.Sprintf("%dh", mins/60)
	default:
		return fmt.Sprintf("%dd", mins/1440)
	}
}

// FormatRate renders the conversion percentage without trailing zeros,
// e.g. 33.3 → "33.3%" and 0 → "0%".
func FormatRate(rate float64) string {
	return strconv.FormatFloat(rate, 'f', -1, 64) + "%"
}

// truncate shortens to n runes, never splitting a multi-byte character.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}
