package companyform

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

// CreatedMsg is dispatched when a company was created. The parent
// refetches its company list.
type CreatedMsg struct {
	Company model.Company
}

// CancelMsg is dispatched when the user backs out of the form.
type CancelMsg struct{}

// resultMsg carries the create outcome back into the form.
type resultMsg struct {
	company model.Company
	err     error
}

// bindings holds form values on the heap for huh.
type bindings struct {
	name string
}

// Model is the company creation form.
type Model struct {
	client     *api.Client
	fb         *bindings
	form       *huh.Form
	submitting bool
	focused    bool
	width      int
}

// New creates the company form.
func New(client *api.Client, width int) Model {
	m := Model{
		client: client,
		fb:     &bindings{},
		width:  width,
	}
	m.form = m.build()
	return m
}

// Start resets and focuses the form.
func (m *Model) Start() tea.Cmd {
	m.fb.name = ""
	m.submitting = false
	m.form = m.build()
	return m.form.Init()
}

// SetFocused marks whether this card currently receives input.
func (m *Model) SetFocused(focused bool) {
	m.focused = focused
}

// Update handles messages for the company form.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if res, ok := msg.(resultMsg); ok {
		m.submitting = false
		if res.err != nil {
			// Keep the entered name so the user can retry.
			m.form = m.build()
			return m, tea.Batch(
				m.form.Init(),
				toast.Show("Failed to add company", toast.KindError),
			)
		}
		m.fb.name = ""
		m.form = m.build()
		company := res.company
		return m, tea.Batch(
			m.form.Init(),
			toast.Show("Company added", toast.KindSuccess),
			func() tea.Msg { return CreatedMsg{Company: company} },
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
	name := strings.TrimSpace(m.fb.name)
	return func() tea.Msg {
		company, err := client.CreateCompany(context.Background(), name)
		return resultMsg{company: company, err: err}
	}
}

// View renders the company card.
func (m Model) View() string {
	title := theme.TitleStyle.Render("Add Company")

	var body string
	if m.submitting {
		body = theme.HelpStyle.Render("Adding...")
	} else {
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
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Company Name").
				Placeholder("e.g. Google, Amazon...").
				Value(&m.fb.name).
				Validate(validateRequired("Company name")),
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
