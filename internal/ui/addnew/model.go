package addnew

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nvidal/jobtrack/internal/api"
	"github.com/nvidal/jobtrack/internal/model"
	"github.com/nvidal/jobtrack/internal/theme"
	"github.com/nvidal/jobtrack/internal/ui/appform"
	"github.com/nvidal/jobtrack/internal/ui/companyform"
)

// companiesLoadedMsg carries the fetched company list.
type companiesLoadedMsg struct {
	companies []model.Company
	err       error
}

const (
	focusCompany = iota
	focusApplication
)

// Model is the Add New page: the company form and the application form
// side by side, plus a strip of already-created companies.
type Model struct {
	client      *api.Client
	company     companyform.Model
	application appform.Model
	companies   []model.Company
	focus       int
	width       int
	height      int
}

// New creates the Add New page.
func New(client *api.Client, width, height int) Model {
	half := cardWidth(width)
	m := Model{
		client:      client,
		company:     companyform.New(client, half),
		application: appform.New(client, half),
		focus:       focusApplication,
		width:       width,
		height:      height,
	}
	m.syncFocus()
	return m
}

// Enter prepares the page: fetch companies and reset both forms.
func (m *Model) Enter() tea.Cmd {
	m.focus = focusApplication
	m.syncFocus()
	return tea.Batch(
		m.company.Start(),
		m.application.Start(),
		m.loadCompanies(),
	)
}

// Update handles messages for the Add New page.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case companiesLoadedMsg:
		if msg.err != nil {
			// Keep whatever list we had; the forms stay usable.
			return m, nil
		}
		m.companies = msg.companies
		rebuild := m.application.SetCompanies(msg.companies)
		return m, rebuild

	case companyform.CreatedMsg:
		// Refetch so the new company shows up in the select and strip.
		var cmd tea.Cmd
		m.company, cmd = m.company.Update(msg)
		return m, tea.Batch(cmd, m.loadCompanies())

	case tea.KeyMsg:
		if msg.String() == "ctrl+o" {
			if m.focus == focusCompany {
				m.focus = focusApplication
			} else {
				m.focus = focusCompany
			}
			m.syncFocus()
			return m, nil
		}
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.company, cmd = m.company.Update(msg)
	cmds = append(cmds, cmd)
	m.application, cmd = m.application.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

// loadCompanies returns a command that fetches the company list.
func (m Model) loadCompanies() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		companies, err := client.ListCompanies(context.Background())
		return companiesLoadedMsg{companies: companies, err: err}
	}
}

// View renders the two form cards and the company strip.
func (m Model) View() string {
	header := theme.TitleStyle.Render("Add New")
	subtitle := theme.HelpStyle.Render(
		"Add a company first, then create an application",
	)

	cards := lipgloss.JoinHorizontal(
		lipgloss.Top,
		m.company.View(),
		" ",
		m.application.View(),
	)

	parts := []string{header, subtitle, "", cards}

	if len(m.companies) > 0 {
		parts = append(parts, "", m.renderCompanyStrip())
	}

	return lipgloss.NewStyle().Padding(0, 1).Render(
		lipgloss.JoinVertical(lipgloss.Left, parts...),
	)
}

func (m Model) renderCompanyStrip() string {
	title := theme.TitleStyle.Render(
		fmt.Sprintf("Your Companies (%d)", len(m.companies)),
	)

	badge := lipgloss.NewStyle().
		Padding(0, 1).
		Foreground(theme.ColorAccent)

	names := make([]string, 0, len(m.companies))
	for _, c := range m.companies {
		names = append(names, badge.Render(c.Name))
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		title,
		strings.Join(names, " "),
	)
}

// SetSize updates the page dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	half := cardWidth(width)
	m.company.SetSize(half)
	m.application.SetSize(half)
}

func (m *Model) syncFocus() {
	m.company.SetFocused(m.focus == focusCompany)
	m.application.SetFocused(m.focus == focusApplication)
}

func cardWidth(w int) int {
	half := w/2 - 3
	if half < 34 {
		half = 34
	}
	return half
}
