package authform

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nvidal/jobtrack/internal/api"
	"github.com/nvidal/jobtrack/internal/theme"
)

// Mode selects between the sign-in and sign-up forms.
type Mode int

const (
	ModeLogin Mode = iota
	ModeRegister
)

// SuccessMsg is dispatched when authentication succeeds. The shell
// persists the token and switches to the authenticated view tree.
type SuccessMsg struct {
	Token   string
	Message string
}

// resultMsg carries the outcome of a submit back into the form.
type resultMsg struct {
	token   string
	message string
	err     error
}

// bindings holds form field values on the heap so that huh's Value()
// pointers remain valid across Bubble Tea model copies.
type bindings struct {
	email    string
	password string
}

// Model is the unauthenticated login/register view.
type Model struct {
	client     *api.Client
	mode       Mode
	fb         *bindings
	form       *huh.Form
	errText    string
	submitting bool
	width      int
	height     int
}

// New creates the auth form in login mode.
func New(client *api.Client, width, height int) Model {
	m := Model{
		client: client,
		mode:   ModeLogin,
		fb:     &bindings{},
		width:  width,
		height: height,
	}
	m.form = m.build()
	return m
}

// Init returns the initial command for the active form.
func (m Model) Init() tea.Cmd {
	return m.form.Init()
}

// Mode returns the active form mode.
func (m Model) Mode() Mode {
	return m.mode
}

// Reset returns the view to a fresh login form. Used after sign-out.
func (m *Model) Reset() tea.Cmd {
	m.mode = ModeLogin
	m.fb.email = ""
	m.fb.password = ""
	m.errText = ""
	m.submitting = false
	m.form = m.build()
	return m.form.Init()
}

// Update handles messages for the auth view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		// Switch between sign-in and sign-up.
		if msg.String() == "ctrl+t" && !m.submitting {
			if m.mode == ModeLogin {
				m.mode = ModeRegister
			} else {
				m.mode = ModeLogin
			}
			m.errText = ""
			m.fb.email = ""
			m.fb.password = ""
			m.form = m.build()
			return m, m.form.Init()
		}

	case resultMsg:
		m.submitting = false
		if msg.err != nil {
			m.errText = detailText(msg.err, m.mode)
			// Rebuild with field values preserved so the user can retry.
			m.form = m.build()
			return m, m.form.Init()
		}
		token := msg.token
		message := msg.message
		return m, func() tea.Msg {
			return SuccessMsg{Token: token, Message: message}
		}
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
		// Nowhere to go below the auth gate; restart the form.
		m.form = m.build()
		return m, m.form.Init()
	}

	return m, cmd
}

// submitCmd issues the authentication requests. Registration chains a
// login with the same credentials so a new account lands signed in.
func (m Model) submitCmd() tea.Cmd {
	client := m.client
	mode := m.mode
	email := strings.TrimSpace(m.fb.email)
	password := m.fb.password

	return func() tea.Msg {
		ctx := context.Background()

		if mode == ModeRegister {
			if err := client.Register(ctx, email, password); err != nil {
				return resultMsg{err: err}
			}
			token, err := client.Login(ctx, email, password)
			if err != nil {
				return resultMsg{err: err}
			}
			return resultMsg{token: token, message: "Account created!"}
		}

		token, err := client.Login(ctx, email, password)
		if err != nil {
			return resultMsg{err: err}
		}
		return resultMsg{token: token, message: "Welcome back!"}
	}
}

// View renders the centered auth card.
func (m Model) View() string {
	title := "Welcome back"
	subtitle := "Sign in to your JobTrack account"
	footer := "enter submit | ctrl+t create account"
	if m.mode == ModeRegister {
		title = "Create account"
		subtitle = "Start tracking your job applications"
		footer = "enter submit | ctrl+t sign in instead"
	}

	parts := []string{
		theme.TitleStyle.Render(title),
		theme.HelpStyle.Render(subtitle),
		"",
	}
	if m.errText != "" {
		parts = append(parts, theme.ErrorStyle.Render(m.errText), "")
	}
	if m.submitting {
		parts = append(parts, theme.HelpStyle.Render("Signing in..."))
	} else {
		parts = append(parts, m.form.View())
	}
	parts = append(parts, "", theme.HelpStyle.Render(footer))

	card := theme.CardStyle.Render(
		lipgloss.JoinVertical(lipgloss.Left, parts...),
	)

	return lipgloss.Place(
		m.width, m.height,
		lipgloss.Center, lipgloss.Center,
		card,
	)
}

// SetSize updates the view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m *Model) build() *huh.Form {
	passwordValidate := validateRequired("Password")
	if m.mode == ModeRegister {
		passwordValidate = validateMinLength("Password", 6)
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Email").
				Placeholder("you@example.com").
				Value(&m.fb.email).
				Validate(validateRequired("Email")),
			huh.NewInput().
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Value(&m.fb.password).
				Validate(passwordValidate),
		),
	).WithWidth(formWidth(m.width)).WithShowHelp(false)
}

// detailText picks the inline error to show near the form: the server's
// detail message when present, a mode-appropriate fallback otherwise.
func detailText(err error, mode Mode) string {
	var apiErr *api.Error
	if errors.As(err, &apiErr) && apiErr.Detail != "" {
		return apiErr.Detail
	}
	if mode == ModeRegister {
		return "Registration failed"
	}
	return "Login failed"
}

func formWidth(w int) int {
	fw := w - 8
	if fw < 36 {
		fw = 36
	}
	if fw > 60 {
		fw = 60
	}
	return fw
}

func validateRequired(fieldName string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", fieldName)
		}
		return nil
	}
}

func validateMinLength(fieldName string, n int) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", fieldName)
		}
		if len(s) < n {
			return fmt.Errorf("%s must be at least %d characters", fieldName, n)
		}
		return nil
	}
}
