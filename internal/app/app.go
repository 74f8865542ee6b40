package app

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nvidal/jobtrack/internal/api"
	"github.com/nvidal/jobtrack/internal/config"
	"github.com/nvidal/jobtrack/internal/keys"
	"github.com/nvidal/jobtrack/internal/session"
	"github.com/nvidal/jobtrack/internal/ui"
	"github.com/nvidal/jobtrack/internal/ui/addnew"
	"github.com/nvidal/jobtrack/internal/ui/appform"
	"github.com/nvidal/jobtrack/internal/ui/applist"
	"github.com/nvidal/jobtrack/internal/ui/authform"
	"github.com/nvidal/jobtrack/internal/ui/command"
	"github.com/nvidal/jobtrack/internal/ui/companyform"
	"github.com/nvidal/jobtrack/internal/ui/dashboard"
	helpview "github.com/nvidal/jobtrack/internal/ui/help"
	"github.com/nvidal/jobtrack/internal/ui/settings"
	"github.com/nvidal/jobtrack/internal/ui/toast"
)

// AuthState is the top-level state of the router: which view tree
// renders is decided solely by the presence of a session token.
type AuthState int

const (
	StateUnauthenticated AuthState = iota
	StateAuthenticated
)

// ViewState represents the current active view in the application.
type ViewState int

const (
	// ViewAuth covers the login and register routes; the auth form
	// switches between them internally.
	ViewAuth ViewState = iota
	ViewDashboard
	ViewApplications
	ViewAddNew
	ViewSettings
	ViewHelp
	ViewCommand
)

// Model is the root Bubble Tea model that manages auth state, view
// routing, layout, and the toast stack.
type Model struct {
	cfg     *config.Config
	cfgPath string
	session *session.Store
	client  *api.Client
	keys    *keys.KeyMap
	layout  ui.Layout

	authState    AuthState
	currentView  ViewState
	previousView ViewState

	authView     authform.Model
	dashView     dashboard.Model
	appList      applist.Model
	addNewView   addnew.Model
	settingsView settings.Model
	commandView  command.Model
	helpView     helpview.Model
	toasts       toast.Model

	ready bool
}

// New creates the root application model. The initial auth state comes
// from whatever token was last persisted.
func New(
	cfg *config.Config,
	cfgPath string,
	sess *session.Store,
	client *api.Client,
) Model {
	k := keys.DefaultKeyMap()

	m := Model{
		cfg:          cfg,
		cfgPath:      cfgPath,
		session:      sess,
		client:       client,
		keys:         k,
		authView:     authform.New(client, 80, 24),
		dashView:     dashboard.New(client, 80, 24),
		appList:      applist.New(client, k, cfg.DownloadDir, 80, 24),
		addNewView:   addnew.New(client, 80, 24),
		settingsView: settings.New(cfg, cfgPath, 80, 24),
		commandView:  command.New(80, 24),
		helpView:     helpview.New(k, 80, 24),
		toasts:       toast.New(cfg.ToastTTL()),
	}

	if _, ok := sess.Token(); ok {
		m.authState = StateAuthenticated
		m.currentView = ViewDashboard
	} else {
		m.authState = StateUnauthenticated
		m.currentView = ViewAuth
	}

	return m
}

// Init returns the initial command. The first fetch is issued once the
// terminal size is known.
func (m Model) Init() tea.Cmd {
	if m.authState == StateUnauthenticated {
		return m.authView.Init()
	}
	return nil
}

// Update handles messages and dispatches to the active view.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Toast expirations are identity-keyed and safe to process in any
	// view; each timer removes only its own entry.
	var toastCmd tea.Cmd
	m.toasts, toastCmd = m.toasts.Update(msg)

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		first := !m.ready
		m.ready = true
		m.layout = ui.NewLayout(msg.Width, msg.Height)
		m.resize()
		if first {
			enter := m.enterView(m.currentView)
			return m, tea.Batch(toastCmd, enter)
		}
		return m.updateActiveView(msg)

	case toast.ShowMsg:
		var cmd tea.Cmd
		m.toasts, cmd = m.toasts.Push(msg.Message, msg.Kind)
		return m, tea.Batch(toastCmd, cmd)

	case authform.SuccessMsg:
		if err := m.session.Login(msg.Token); err != nil {
			var cmd tea.Cmd
			m.toasts, cmd = m.toasts.Push(
				"Failed to store session", toast.KindError,
			)
			return m, cmd
		}
		m.authState = StateAuthenticated
		m.currentView = ViewDashboard
		var cmd tea.Cmd
		m.toasts, cmd = m.toasts.Push(msg.Message, toast.KindSuccess)
		enter := m.enterView(ViewDashboard)
		return m, tea.Batch(cmd, enter)

	case appform.CreatedMsg:
		// Creation confirmed; the list page refetches on entry.
		m.currentView = ViewApplications
		enter := m.enterView(ViewApplications)
		return m, enter

	case appform.CancelMsg, companyform.CancelMsg:
		m.currentView = ViewApplications
		enter := m.enterView(ViewApplications)
		return m, enter

	case settings.SavedMsg:
		// The download directory applies immediately; the server URL
		// needs a restart since the client is built around it.
		m.appList.SetDownloadDir(msg.Config.DownloadDir)
		m.currentView = ViewDashboard
		var cmd tea.Cmd
		m.toasts, cmd = m.toasts.Push("Settings saved", toast.KindSuccess)
		enter := m.enterView(ViewDashboard)
		return m, tea.Batch(cmd, enter)

	case settings.DoneMsg:
		m.currentView = ViewDashboard
		enter := m.enterView(ViewDashboard)
		return m, enter

	case command.CommandMsg:
		m.currentView = m.previousView
		cmd := m.executeCommand(string(msg))
		return m, cmd

	case tea.KeyMsg:
		if handled, model, cmd := m.handleGlobalKeys(msg); handled {
			return model, cmd
		}
	}

	model, cmd := m.updateActiveView(msg)
	return model, tea.Batch(toastCmd, cmd)
}

// handleGlobalKeys processes shortcuts that work across views. Views
// that capture text input are left alone.
func (m Model) handleGlobalKeys(msg tea.KeyMsg) (bool, tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return true, m, tea.Quit
	}

	if m.authState == StateUnauthenticated {
		return false, m, nil
	}

	switch m.currentView {
	case ViewHelp:
		if msg.String() == "?" || msg.String() == "esc" {
			m.currentView = m.previousView
			return true, m, nil
		}

	case ViewCommand:
		if msg.String() == "esc" {
			m.currentView = m.previousView
			return true, m, nil
		}

	case ViewDashboard:
		switch msg.String() {
		case "q":
			return true, m, tea.Quit
		case "a":
			m.currentView = ViewApplications
			enter := m.enterView(ViewApplications)
			return true, m, enter
		case "n":
			m.currentView = ViewAddNew
			enter := m.enterView(ViewAddNew)
			return true, m, enter
		case "r":
			enter := m.enterView(ViewDashboard)
			return true, m, enter
		case "?":
			m.previousView = m.currentView
			m.currentView = ViewHelp
			return true, m, nil
		case ":":
			m.previousView = m.currentView
			m.currentView = ViewCommand
			focus := m.commandView.Focus()
			return true, m, focus
		}

	case ViewApplications:
		if m.appList.Capturing() {
			return false, m, nil
		}
		switch msg.String() {
		case "q":
			return true, m, tea.Quit
		case "g":
			m.currentView = ViewDashboard
			enter := m.enterView(ViewDashboard)
			return true, m, enter
		case "n":
			m.currentView = ViewAddNew
			enter := m.enterView(ViewAddNew)
			return true, m, enter
		case "?":
			m.previousView = m.currentView
			m.currentView = ViewHelp
			return true, m, nil
		case ":":
			m.previousView = m.currentView
			m.currentView = ViewCommand
			focus := m.commandView.Focus()
			return true, m, focus
		}
	}

	return false, m, nil
}

// executeCommand handles a command string from the command palette.
func (m *Model) executeCommand(cmd string) tea.Cmd {
	switch cmd {
	case "dashboard", "home":
		m.currentView = ViewDashboard
		return m.enterView(ViewDashboard)
	case "applications", "apps", "list":
		m.currentView = ViewApplications
		return m.enterView(ViewApplications)
	case "add", "new":
		m.currentView = ViewAddNew
		return m.enterView(ViewAddNew)
	case "settings", "config":
		m.currentView = ViewSettings
		return m.enterView(ViewSettings)
	case "export":
		return m.appList.ExportCmd()
	case "refresh":
		return m.enterView(m.currentView)
	case "logout", "signout":
		return m.logout()
	case "quit", "q":
		return tea.Quit
	default:
		return nil
	}
}

// logout tears the session down and returns to the login route.
func (m *Model) logout() tea.Cmd {
	if err := m.session.Logout(); err != nil {
		var cmd tea.Cmd
		m.toasts, cmd = m.toasts.Push("Failed to sign out", toast.KindError)
		return cmd
	}

	m.authState = StateUnauthenticated
	m.currentView = ViewAuth

	var cmd tea.Cmd
	m.toasts, cmd = m.toasts.Push("Signed out", toast.KindInfo)
	return tea.Batch(cmd, m.authView.Reset())
}

// enterView runs a view's entry command (its mount-time fetch).
func (m *Model) enterView(v ViewState) tea.Cmd {
	switch v {
	case ViewAuth:
		return m.authView.Init()
	case ViewDashboard:
		return m.dashView.Enter()
	case ViewApplications:
		return m.appList.Enter()
	case ViewAddNew:
		return m.addNewView.Enter()
	case ViewSettings:
		return m.settingsView.Enter()
	}
	return nil
}

// updateActiveView dispatches the message to the currently active view.
func (m Model) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	if m.authState == StateUnauthenticated {
		m.authView, cmd = m.authView.Update(msg)
		return m, cmd
	}

	switch m.currentView {
	case ViewDashboard:
		m.dashView, cmd = m.dashView.Update(msg)
	case ViewApplications:
		m.appList, cmd = m.appList.Update(msg)
	case ViewAddNew:
		m.addNewView, cmd = m.addNewView.Update(msg)
	case ViewSettings:
		m.settingsView, cmd = m.settingsView.Update(msg)
	case ViewCommand:
		m.commandView, cmd = m.commandView.Update(msg)
	case ViewHelp:
		m.helpView, cmd = m.helpView.Update(msg)
	}

	return m, cmd
}

// View renders the full terminal UI using the layout manager.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	header := m.layout.RenderHeader("JobTrack", m.pageName())
	content := m.renderContent()
	statusBar := m.layout.RenderStatusBar(m.keyHints())

	if m.toasts.Active() {
		content = m.toasts.View() + "\n" + content
	}

	return m.layout.RenderWithFrame(header, content, statusBar)
}

// renderContent returns the rendered string for the current active view.
func (m Model) renderContent() string {
	if m.authState == StateUnauthenticated {
		return m.authView.View()
	}

	switch m.currentView {
	case ViewDashboard:
		return m.dashView.View()
	case ViewApplications:
		return m.appList.View()
	case ViewAddNew:
		return m.addNewView.View()
	case ViewSettings:
		return m.settingsView.View()
	case ViewCommand:
		return m.commandView.View()
	case ViewHelp:
		return m.helpView.View()
	default:
		return ""
	}
}

// pageName returns the right-aligned header label for the active page.
func (m Model) pageName() string {
	if m.authState == StateUnauthenticated {
		if m.authView.Mode() == authform.ModeRegister {
			return "register"
		}
		return "login"
	}

	switch m.currentView {
	case ViewDashboard:
		return "dashboard"
	case ViewApplications:
		return "applications"
	case ViewAddNew:
		return "add new"
	case ViewSettings:
		return "settings"
	case ViewCommand:
		return "command"
	case ViewHelp:
		return "help"
	default:
		return ""
	}
}

// keyHints returns keyboard shortcut hints for the status bar.
func (m Model) keyHints() string {
	if m.authState == StateUnauthenticated {
		return "enter submit | ctrl+t switch mode | ctrl+c quit"
	}

	switch m.currentView {
	case ViewHelp:
		return "? close help | esc back"
	case ViewCommand:
		return ": close palette | enter execute | esc back"
	case ViewAddNew:
		return "ctrl+o switch card | enter submit | esc back"
	case ViewSettings:
		return "enter save | esc back"
	case ViewApplications:
		summary := m.appList.FilterSummary()
		if summary != "" {
			return summary + " | 3 clear"
		}
		return "/ search | 1 status | 2 company | t change | d delete | e export | g dashboard"
	default:
		return "a applications | n add new | r refresh | : command | ? help | q quit"
	}
}

// resize propagates the new terminal dimensions to every view.
func (m *Model) resize() {
	w := m.layout.ContentWidth()
	h := m.layout.ContentHeight()

	m.authView.SetSize(w, h)
	m.dashView.SetSize(w, h)
	m.appList.SetSize(w, h)
	m.addNewView.SetSize(w, h)
	m.settingsView.SetSize(w, h)
	m.commandView.SetSize(w, h)
	m.helpView.SetSize(w, h)
	m.toasts.SetWidth(w)
}
