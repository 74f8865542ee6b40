package settings

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nvidal/jobtrack/internal/config"
	"github.com/nvidal/jobtrack/internal/theme"
	"github.com/nvidal/jobtrack/internal/ui/toast"
)

// SavedMsg is dispatched after the configuration was written. A changed
// server URL takes effect on the next start.
type SavedMsg struct {
	Config config.Config
}

// DoneMsg is dispatched when the user leaves settings without saving.
type DoneMsg struct{}

// bindings holds form values on the heap for huh.
type bindings struct {
	serverURL   string
	downloadDir string
}

// Model edits the persisted client configuration.
type Model struct {
	cfg     *config.Config
	cfgPath string
	fb      *bindings
	form    *huh.Form
	width   int
	height  int
}

// New creates the settings view.
func New(cfg *config.Config, cfgPath string, width, height int) Model {
	m := Model{
		cfg:     cfg,
		cfgPath: cfgPath,
		fb:      &bindings{},
		width:   width,
		height:  height,
	}
	return m
}

// Enter loads current values into a fresh form.
func (m *Model) Enter() tea.Cmd {
	m.fb.serverURL = m.cfg.ServerURL
	m.fb.downloadDir = m.cfg.DownloadDir
	m.form = m.build()
	return m.form.Init()
}

// Update handles messages for the settings view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil {
		return m, nil
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		m.cfg.ServerURL = strings.TrimRight(strings.TrimSpace(m.fb.serverURL), "/")
		m.cfg.DownloadDir = strings.TrimSpace(m.fb.downloadDir)
		cfg := *m.cfg
		path := m.cfgPath
		m.form = nil
		return m, func() tea.Msg {
			if err := config.Save(path, &cfg); err != nil {
				return toast.ShowMsg{
					Message: "Failed to save settings",
					Kind:    toast.KindError,
				}
			}
			return SavedMsg{Config: cfg}
		}
	}
	if m.form.State == huh.StateAborted {
		m.form = nil
		return m, func() tea.Msg { return DoneMsg{} }
	}

	return m, cmd
}

// View renders the settings form.
func (m Model) View() string {
	if m.form == nil {
		return ""
	}

	content := lipgloss.JoinVertical(
		lipgloss.Left,
		theme.TitleStyle.Render("Settings"),
		theme.HelpStyle.Render("Server URL changes apply on next start"),
		"",
		m.form.View(),
	)

	return lipgloss.NewStyle().Padding(1, 2).Render(content)
}

// SetSize updates the settings view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m *Model) build() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("API Server URL").
				Placeholder("http://localhost:8000").
				Value(&m.fb.serverURL).
				Validate(validateURL),
			huh.NewInput().
				Title("Download Directory").
				Value(&m.fb.downloadDir),
		),
	).WithWidth(formWidth(m.width)).WithShowHelp(false)
}

func validateURL(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return fmt.Errorf("server URL is required")
	}
	if !strings.HasPrefix(s, "http://") && !strings.HasPrefix(s, "https://") {
		return fmt.Errorf("server URL must start with http:// or https://")
	}
	return nil
}

func formWidth(w int) int {
	fw := w - 8
	if fw < 40 {
		fw = 40
	}
	if fw > 80 {
		fw = 80
	}
	return fw
}
