package appform

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nvidal/jobtrack/internal/api"
	"github.com/nvidal/jobtrack/internal/model"
	"github.com/nvidal/jobtrack/internal/theme"
	"github.com/nvidal/jobtrack/internal/ui/toast"
)

// CreatedMsg is dispatched when an application was created. The shell
// navigates to the applications list, which refetches.
type CreatedMsg struct {
	Application model.Application
}

// CancelMsg is dispatched when the user backs out of the form.
type CancelMsg struct{}

// resultMsg carries the create outcome back into the form.
type resultMsg struct {
	app model.Application
	err error
}

// bindings holds form values on the heap for huh.
type bindings struct {
	jobTitle  string
	companyID int
	status    model.Status
	notes     string
}

// Model is the application creation form.
type Model struct {
	client     *api.Client
	fb         *bindings
	form       *huh.Form
	companies  []model.Company
	submitting bool
	focused    bool
	width      int
}

// New creates the application form.
func New(client *api.Client, width int) Model {
	m := Model{
		client: client,
		fb:     &bindings{status: model.StatusApplied},
		width:  width,
	}
	m.form = m.build()
	return m
}

// SetCompanies replaces the selectable companies and rebuilds the form.
func (m *Model) SetCompanies(companies []model.Company) tea.Cmd {
	m.companies = companies
	m.form = m.build()
	return m.form.Init()
}

// Start resets and focuses the form.
func (m *Model) Start() tea.Cmd {
	m.fb.jobTitle = ""
	m.fb.companyID = 0
	m.fb.status = model.StatusApplied
	m.fb.notes = ""
	m.submitting = false
	m.form = m.build()
	return m.form.Init()
}

// SetFocused marks whether this card currently receives input.
func (m *Model) SetFocused(focused bool) {
	m.focused = focused
}

// Update handles messages for the application form.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if res, ok := msg.(resultMsg); ok {
		m.submitting = false
		if res.err != nil {
			// Field values are preserved so the user can retry.
			m.form = m.build()
			return m, tea.Batch(
				m.form.Init(),
				toast.Show("Failed to add application", toast.KindError),
			)
		}
		m.fb.jobTitle = ""
		m.fb.companyID = 0
		m.fb.status = model.StatusApplied
		m.fb.notes = ""
		m.form = m.build()
		app := res.app
		return m, tea.Batch(
			m.form.Init(),
			toast.Show("Application added!", toast.KindSuccess),
			func() tea.Msg { return CreatedMsg{Application: app} },
		)
	}

	if !m.focused {
		return m, nil
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted && !m.submitting {
		if m.fb.companyID == 0 || strings.TrimSpace(m.fb.jobTitle) == "" {
			// Required fields missing; no request is sent.
			m.form = m.build()
			return m, m.form.Init()
		}
		m.submitting = true
		return m, m.submitCmd()
	}
	if m.form.State == huh.StateAborted {
		return m, func() tea.Msg { return CancelMsg{} }
	}

	return m, cmd
}

// submitCmd issues the single creation request.
func (m Model) submitCmd() tea.Cmd {
	client := m.client
	create := model.ApplicationCreate{
		JobTitle:  strings.TrimSpace(m.fb.jobTitle),
		CompanyID: m.fb.companyID,
		Status:    m.fb.status,
		Notes:     m.fb.notes,
	}
	return func() tea.Msg {
		app, err := client.CreateApplication(context.Background(), create)
		return resultMsg{app: app, err: err}
	}
}

// View renders the application card.
func (m Model) View() string {
	title := theme.TitleStyle.Render("Add Application")

	var body string
	switch {
	case m.submitting:
		body = theme.HelpStyle.Render("Adding...")
	case len(m.companies) == 0:
		body = theme.HelpStyle.Render("Add a company first.")
	default:
		body = m.form.View()
	}

	style := theme.CardStyle
	if m.focused {
		style = style.BorderForeground(theme.ColorAccent)
	}

	return style.Render(
		lipgloss.JoinVertical(lipgloss.Left, title, body),
	)
}

// SetSize updates the card width.
func (m *Model) SetSize(width int) {
	m.width = width
	m.form = m.build()
}

func (m *Model) build() *huh.Form {
	companyOpts := make([]huh.Option[int], 0, len(m.companies))
	for _, c := range m.companies {
		companyOpts = append(companyOpts, huh.NewOption(c.Name, c.ID))
	}

	statusOpts := make([]huh.Option[model.Status], 0, len(model.Statuses))
	for _, s := range model.Statuses {
		statusOpts = append(statusOpts, huh.NewOption(string(s), s))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Job Title").
				Placeholder("e.g. Frontend Engineer").
				Value(&m.fb.jobTitle).
				Validate(validateRequired("Job title")),
			huh.NewSelect[int]().
				Title("Company").
				Options(companyOpts...).
				Value(&m.fb.companyID),
			huh.NewSelect[model.Status]().
				Title("Status").
				Options(statusOpts...).
				Value(&m.fb.status),
			huh.NewText().
				Title("Notes").
				Placeholder("Any notes about this application...").
				Lines(3).
				Value(&m.fb.notes),
		),
	).WithWidth(cardWidth(m.width)).WithShowHelp(false)
}

func cardWidth(w int) int {
	cw := w - 6
	if cw < 30 {
		cw = 30
	}
	return cw
}

func validateRequired(fieldName string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", fieldName)
		}
		return nil
	}
}
