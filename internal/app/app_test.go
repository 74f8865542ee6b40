package app

import (
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nvidal/jobtrack/internal/config"
	"github.com/nvidal/jobtrack/internal/session"
	"github.com/nvidal/jobtrack/internal/ui/authform"
	"github.com/nvidal/jobtrack/internal/ui/command"
	"github.com/nvidal/jobtrack/tests/testutil"
)

func newTestApp(t *testing.T, authenticated bool) (Model, *testutil.Server, *session.Store) {
	t.Helper()

	srv := testutil.NewServer(t)
	client, sess := srv.Client(t)

	if authenticated {
		if err := sess.Login("tok-test"); err != nil {
			t.Fatalf("seeding session: %v", err)
		}
	}

	cfg := &config.Config{
		ServerURL:   srv.URL(),
		DownloadDir: t.TempDir(),
		ToastTTLMs:  3000,
	}
	cfgPath := filepath.Join(t.TempDir(), "config.yaml")

	return New(cfg, cfgPath, sess, client), srv, sess
}

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestStartsUnauthenticatedWithoutToken(t *testing.T) {
	m, _, _ := newTestApp(t, false)

	if m.authState != StateUnauthenticated {
		t.Error("fresh session should start unauthenticated")
	}
	if m.currentView != ViewAuth {
		t.Errorf("currentView = %d, want ViewAuth", m.currentView)
	}
}

func TestStartsAuthenticatedWithStoredToken(t *testing.T) {
	m, _, _ := newTestApp(t, true)

	if m.authState != StateAuthenticated {
		t.Error("stored token should start authenticated")
	}
	if m.currentView != ViewDashboard {
		t.Errorf("currentView = %d, want ViewDashboard", m.currentView)
	}
}

func TestAuthSuccessSwitchesToDashboard(t *testing.T) {
	m, _, sess := newTestApp(t, false)

	updated, cmd := m.Update(authform.SuccessMsg{
		Token:   "tok-abc",
		Message: "Welcome back!",
	})
	am := updated.(Model)

	if am.authState != StateAuthenticated {
		t.Error("model not authenticated after auth success")
	}
	if am.currentView != ViewDashboard {
		t.Errorf("currentView = %d, want ViewDashboard", am.currentView)
	}
	if token, ok := sess.Token(); !ok || token != "tok-abc" {
		t.Errorf("session token = %q, %v", token, ok)
	}
	if am.toasts.Len() != 1 {
		t.Errorf("toast count = %d, want 1", am.toasts.Len())
	}
	if cmd == nil {
		t.Error("auth success should start the dashboard fetch")
	}
}

func TestLogoutCommandClearsSession(t *testing.T) {
	m, _, sess := newTestApp(t, true)

	updated, _ := m.Update(command.CommandMsg("logout"))
	am := updated.(Model)

	if am.authState != StateUnauthenticated {
		t.Error("model still authenticated after logout")
	}
	if am.currentView != ViewAuth {
		t.Errorf("currentView = %d, want ViewAuth", am.currentView)
	}
	if _, ok := sess.Token(); ok {
		t.Error("session token survived logout")
	}
}

func TestCommandNavigation(t *testing.T) {
	tests := []struct {
		command string
		want    ViewState
	}{
		{"applications", ViewApplications},
		{"apps", ViewApplications},
		{"dashboard", ViewDashboard},
		{"add", ViewAddNew},
		{"settings", ViewSettings},
	}

	for _, tt := range tests {
		m, _, _ := newTestApp(t, true)

		// Open the palette from the dashboard, then execute.
		updated, _ := m.Update(runeKey(':'))
		updated, _ = updated.(Model).Update(command.CommandMsg(tt.command))
		am := updated.(Model)

		if am.currentView != tt.want {
			t.Errorf("command %q landed on view %d, want %d",
				tt.command, am.currentView, tt.want)
		}
	}
}

func TestUnknownCommandIsNoop(t *testing.T) {
	m, _, _ := newTestApp(t, true)

	updated, _ := m.Update(runeKey(':'))
	updated, cmd := updated.(Model).Update(command.CommandMsg("frobnicate"))
	am := updated.(Model)

	if am.currentView != ViewDashboard {
		t.Errorf("unknown command moved the view to %d", am.currentView)
	}
	if cmd != nil {
		t.Error("unknown command produced a command")
	}
}

func TestFirstWindowSizeStartsInitialFetch(t *testing.T) {
	m, _, _ := newTestApp(t, true)

	updated, cmd := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	am := updated.(Model)

	if !am.ready {
		t.Error("model not ready after the first window size")
	}
	if cmd == nil {
		t.Error("first window size should start the dashboard fetch")
	}
}

func TestHelpOverlayTogglesBack(t *testing.T) {
	m, _, _ := newTestApp(t, true)

	updated, _ := m.Update(runeKey('?'))
	am := updated.(Model)
	if am.currentView != ViewHelp {
		t.Fatalf("currentView = %d, want ViewHelp", am.currentView)
	}

	updated, _ = am.Update(runeKey('?'))
	am = updated.(Model)
	if am.currentView != ViewDashboard {
		t.Errorf("help did not return to the previous view, got %d", am.currentView)
	}
}

func TestGlobalKeysIgnoredWhileUnauthenticated(t *testing.T) {
	m, _, _ := newTestApp(t, false)

	updated, _ := m.Update(runeKey('a'))
	am := updated.(Model)

	if am.currentView != ViewAuth {
		t.Errorf("shortcut escaped the auth gate, view = %d", am.currentView)
	}
}

func TestNavigationKeys(t *testing.T) {
	m, _, _ := newTestApp(t, true)

	updated, _ := m.Update(runeKey('a'))
	am := updated.(Model)
	if am.currentView != ViewApplications {
		t.Fatalf("a landed on view %d, want ViewApplications", am.currentView)
	}

	updated, _ = am.Update(runeKey('g'))
	am = updated.(Model)
	if am.currentView != ViewDashboard {
		t.Errorf("g landed on view %d, want ViewDashboard", am.currentView)
	}

	updated, _ = am.Update(runeKey('n'))
	am = updated.(Model)
	if am.currentView != ViewAddNew {
		t.Errorf("n landed on view %d, want ViewAddNew", am.currentView)
	}
}
