package toast

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/nvidal/jobtrack/internal/theme"
)

// Kind classifies a toast for icon and color selection.
type Kind int

const (
	KindSuccess Kind = iota
	KindError
	KindInfo
)

// DefaultTTL is how long a toast stays visible.
const DefaultTTL = 3000 * time.Millisecond

// Toast is one transient, self-dismissing banner.
type Toast struct {
	ID      string
	Message string
	Kind    Kind
}

// ShowMsg asks the shell to display a toast. Any component may return it
// from a command.
type ShowMsg struct {
	Message string
	Kind    Kind
}

// expiredMsg fires when a toast's removal timer elapses. It removes only
// the identified toast, so concurrent expirations cannot interfere.
type expiredMsg struct {
	id string
}

// Show returns a command that surfaces a toast via the shell.
func Show(message string, kind Kind) tea.Cmd {
	return func() tea.Msg {
		return ShowMsg{Message: message, Kind: kind}
	}
}

// Model is the stack of currently visible toasts.
type Model struct {
	toasts []Toast
	ttl    time.Duration
	width  int
}

// New creates a toast stack with the given time-to-live per toast.
// A non-positive ttl falls back to DefaultTTL.
func New(ttl time.Duration) Model {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return Model{ttl: ttl}
}

// Push appends a toast and schedules its removal. Each toast gets an
// independent, non-cancelable timer.
func (m Model) Push(message string, kind Kind) (Model, tea.Cmd) {
	t := Toast{
		ID:      uuid.NewString(),
		Message: message,
		Kind:    kind,
	}
	m.toasts = append(m.toasts, t)

	id := t.ID
	return m, tea.Tick(m.ttl, func(time.Time) tea.Msg {
		return expiredMsg{id: id}
	})
}

// Update removes expired toasts by identity.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if exp, ok := msg.(expiredMsg); ok {
		kept := m.toasts[:0]
		for _, t := range m.toasts {
			if t.ID != exp.id {
				kept = append(kept, t)
			}
		}
		m.toasts = kept
	}
	return m, nil
}

// Active reports whether any toasts are visible.
func (m Model) Active() bool {
	return len(m.toasts) > 0
}

// Len returns the number of visible toasts.
func (m Model) Len() int {
	return len(m.toasts)
}

// SetWidth updates the rendering width.
func (m *Model) SetWidth(width int) {
	m.width = width
}

// View renders the toast stack, newest last.
func (m Model) View() string {
	if len(m.toasts) == 0 {
		return ""
	}

	lines := make([]string, 0, len(m.toasts))
	for _, t := range m.toasts {
		lines = append(lines, renderToast(t))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func renderToast(t Toast) string {
	var icon string
	var color lipgloss.AdaptiveColor

	switch t.Kind {
	case KindSuccess:
		icon = "✓"
		color = theme.ColorGreen
	case KindError:
		icon = "✕"
		color = theme.ColorRed
	default:
		icon = "ℹ"
		color = theme.ColorBlue
	}

	return lipgloss.NewStyle().
		Bold(true).
		Padding(0, 1).
		Foreground(color).
		Render(icon + " " + t.Message)
}
