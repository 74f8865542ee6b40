package applist

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nvidal/jobtrack/internal/api"
	"github.com/nvidal/jobtrack/internal/export"
	"github.com/nvidal/jobtrack/internal/keys"
	"github.com/nvidal/jobtrack/internal/model"
	"github.com/nvidal/jobtrack/internal/theme"
	"github.com/nvidal/jobtrack/internal/ui/toast"
)

// loadedMsg carries a completed collection fetch. seq identifies the
// load generation; results from a superseded load are discarded.
type loadedMsg struct {
	seq       int
	apps      []model.Application
	companies []model.Company
	err       error
}

// statusSavedMsg carries the outcome of an inline status update.
type statusSavedMsg struct {
	err error
}

// deletedMsg carries the outcome of a confirmed deletion.
type deletedMsg struct {
	err error
}

// exportedMsg carries the outcome of a CSV export download.
type exportedMsg struct {
	path string
	err  error
}

// Model is the applications list view: client-side filtering, search,
// fixed-size pagination, inline status mutation, confirmed deletion,
// and CSV export over a wholesale-fetched collection.
type Model struct {
	client      *api.Client
	keys        *keys.KeyMap
	downloadDir string

	apps      []model.Application
	companies []model.Company

	filters Filters
	page    int
	cursor  int

	loading bool
	loaded  bool
	loadSeq int
	spin    spinner.Model

	searchMode  bool
	searchInput textinput.Model

	picker       *huh.Form
	pickerStatus *model.Status
	pickerID     int

	confirmID int

	width  int
	height int
}

// New creates the applications list model.
func New(client *api.Client, k *keys.KeyMap, downloadDir string, width, height int) Model {
	si := textinput.New()
	si.Placeholder = "search jobs or notes..."
	si.Prompt = "/ "
	si.Width = width - 4

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return Model{
		client:       client,
		keys:         k,
		downloadDir:  downloadDir,
		page:         1,
		spin:         sp,
		searchInput:  si,
		pickerStatus: new(model.Status),
		width:        width,
		height:       height,
	}
}

// Enter prepares the page and kicks off a full reload.
func (m *Model) Enter() tea.Cmd {
	m.loading = true
	return tea.Batch(m.spin.Tick, m.Load())
}

// Load returns a command that refetches applications and companies
// wholesale. The collection is replaced, never patched in place.
func (m *Model) Load() tea.Cmd {
	m.loadSeq++
	seq := m.loadSeq
	client := m.client
	return func() tea.Msg {
		ctx := context.Background()
		apps, err := client.ListApplications(ctx)
		if err != nil {
			return loadedMsg{seq: seq, err: err}
		}
		companies, err := client.ListCompanies(ctx)
		if err != nil {
			return loadedMsg{seq: seq, err: err}
		}
		return loadedMsg{seq: seq, apps: apps, companies: companies}
	}
}

// Capturing reports whether the view is consuming raw key input, in
// which case the shell must not act on global shortcuts.
func (m Model) Capturing() bool {
	return m.searchMode || m.picker != nil || m.confirmID != 0
}

// Update handles messages for the list view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		if msg.seq != m.loadSeq {
			// A newer load is in flight; this result is stale.
			return m, nil
		}
		m.loading = false
		if msg.err != nil {
			// Keep the previously rendered collection.
			return m, toast.Show("Failed to load applications", toast.KindError)
		}
		m.loaded = true
		m.apps = msg.apps
		m.companies = msg.companies
		m.clamp()
		return m, nil

	case statusSavedMsg:
		if msg.err != nil {
			return m, toast.Show("Failed to update", toast.KindError)
		}
		reload := m.Load()
		return m, tea.Batch(
			toast.Show("Status updated", toast.KindSuccess),
			reload,
		)

	case deletedMsg:
		if msg.err != nil {
			return m, toast.Show("Failed to delete", toast.KindError)
		}
		reload := m.Load()
		return m, tea.Batch(
			toast.Show("Application deleted", toast.KindInfo),
			reload,
		)

	case exportedMsg:
		if msg.err != nil {
			return m, toast.Show("Export failed", toast.KindError)
		}
		return m, toast.Show("CSV exported to "+msg.path, toast.KindSuccess)

	case spinner.TickMsg:
		if m.loading {
			var cmd tea.Cmd
			m.spin, cmd = m.spin.Update(msg)
			return m, cmd
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKeys(msg)
	}

	if m.picker != nil {
		return m.updatePicker(msg)
	}
	return m, nil
}

func (m Model) handleKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	if m.searchMode {
		return m.handleSearchKeys(msg)
	}
	if m.confirmID != 0 {
		return m.handleConfirmKeys(msg)
	}
	if m.picker != nil {
		return m.updatePicker(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.visible())-1 {
			m.cursor++
		}
		return m, nil

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil

	case key.Matches(msg, m.keys.PrevPage):
		if m.page > 1 {
			m.page--
			m.cursor = 0
		}
		return m, nil

	case key.Matches(msg, m.keys.NextPage):
		if m.page < TotalPages(len(m.filtered())) {
			m.page++
			m.cursor = 0
		}
		return m, nil

	case key.Matches(msg, m.keys.Search):
		m.searchMode = true
		m.searchInput.SetValue(m.filters.Search)
		focus := m.searchInput.Focus()
		return m, focus

	case key.Matches(msg, m.keys.FilterStatus):
		m.filters.Status = nextStatus(m.filters.Status)
		m.resetPage()
		return m, nil

	case key.Matches(msg, m.keys.FilterCompany):
		m.filters.Company = m.nextCompany(m.filters.Company)
		m.resetPage()
		return m, nil

	case key.Matches(msg, m.keys.ClearFilters):
		m.filters = Filters{}
		m.searchInput.Reset()
		m.resetPage()
		return m, nil

	case key.Matches(msg, m.keys.ChangeStatus):
		if app, ok := m.selected(); ok {
			m.openPicker(app)
			return m, m.picker.Init()
		}
		return m, nil

	case key.Matches(msg, m.keys.Delete):
		if app, ok := m.selected(); ok {
			// First step of the two-step confirmation. No request yet.
			m.confirmID = app.ID
		}
		return m, nil

	case key.Matches(msg, m.keys.Export):
		if len(m.apps) > 0 {
			return m, m.ExportCmd()
		}
		return m, nil

	case key.Matches(msg, m.keys.Refresh):
		m.loading = true
		reload := m.Load()
		return m, tea.Batch(m.spin.Tick, reload)
	}

	return m, nil
}

func (m Model) handleSearchKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.searchMode = false
		m.filters.Search = strings.TrimSpace(m.searchInput.Value())
		m.resetPage()
		return m, nil

	case "esc":
		m.searchMode = false
		m.searchInput.Reset()
		m.filters.Search = ""
		m.resetPage()
		return m, nil
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	return m, cmd
}

func (m Model) handleConfirmKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "y", "enter":
		id := m.confirmID
		m.confirmID = 0
		return m, m.deleteCmd(id)

	case "n", "esc":
		// Canceling leaves state untouched.
		m.confirmID = 0
		return m, nil
	}
	return m, nil
}

func (m Model) updatePicker(msg tea.Msg) (Model, tea.Cmd) {
	mdl, cmd := m.picker.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.picker = f
	}

	if m.picker.State == huh.StateCompleted {
		id := m.pickerID
		status := *m.pickerStatus
		m.picker = nil
		return m, m.updateStatusCmd(id, status)
	}
	if m.picker.State == huh.StateAborted {
		m.picker = nil
		return m, nil
	}

	return m, cmd
}

// openPicker builds the status select overlay for one row.
func (m *Model) openPicker(app model.Application) {
	m.pickerID = app.ID
	*m.pickerStatus = app.Status

	opts := make([]huh.Option[model.Status], 0, len(model.Statuses))
	for _, s := range model.Statuses {
		opts = append(opts, huh.NewOption(string(s), s))
	}

	m.picker = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[model.Status]().
				Title(fmt.Sprintf("Status for %q", app.JobTitle)).
				Options(opts...).
				Value(m.pickerStatus),
		),
	).WithWidth(formWidth(m.width)).WithShowHelp(false)
}

// updateStatusCmd issues one update for one row. The UI reflects only
// confirmed server state: the reload happens after the response.
func (m Model) updateStatusCmd(id int, status model.Status) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		_, err := client.UpdateApplication(
			context.Background(),
			id,
			model.ApplicationPatch{Status: &status},
		)
		return statusSavedMsg{err: err}
	}
}

// deleteCmd issues the delete for a confirmed row.
func (m Model) deleteCmd(id int) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		err := client.DeleteApplication(context.Background(), id)
		return deletedMsg{err: err}
	}
}

// ExportCmd downloads the server-generated CSV into the download
// directory. Also invoked from the command palette.
func (m Model) ExportCmd() tea.Cmd {
	client := m.client
	dir := m.downloadDir
	return func() tea.Msg {
		data, err := client.ExportCSV(context.Background())
		if err != nil {
			return exportedMsg{err: err}
		}
		path, err := export.WriteCSV(dir, data)
		return exportedMsg{path: path, err: err}
	}
}

// filtered returns the collection after applying the active predicates.
func (m Model) filtered() []model.Application {
	return Apply(m.apps, m.filters)
}

// visible returns the rows on the current page.
func (m Model) visible() []model.Application {
	return PageSlice(m.filtered(), m.page)
}

// selected returns the row under the cursor.
func (m Model) selected() (model.Application, bool) {
	rows := m.visible()
	if m.cursor < 0 || m.cursor >= len(rows) {
		return model.Application{}, false
	}
	return rows[m.cursor], true
}

// resetPage returns to the first page after a filter change.
func (m *Model) resetPage() {
	m.page = 1
	m.cursor = 0
}

// clamp keeps the page and cursor inside the available range whenever
// the filtered set changes size.
func (m *Model) clamp() {
	m.page = ClampPage(m.page, TotalPages(len(m.filtered())))
	if n := len(m.visible()); m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// FilterSummary describes the active filters for the status bar.
func (m Model) FilterSummary() string {
	var parts []string
	if m.filters.Status != "" {
		parts = append(parts, "status: "+string(m.filters.Status))
	}
	if m.filters.Company != "" {
		parts = append(parts, "company: "+m.companyName(m.filters.Company))
	}
	if m.filters.Search != "" {
		parts = append(parts, "search: "+m.filters.Search)
	}
	return strings.Join(parts, " | ")
}

// nextStatus cycles the status filter through all stages and back to off.
func nextStatus(current model.Status) model.Status {
	if current == "" {
		return model.Statuses[0]
	}
	for i, s := range model.Statuses {
		if s == current {
			if i == len(model.Statuses)-1 {
				return ""
			}
			return model.Statuses[i+1]
		}
	}
	return ""
}

// nextCompany cycles the company filter through the fetched companies.
func (m Model) nextCompany(current string) string {
	if len(m.companies) == 0 {
		return ""
	}
	if current == "" {
		return strconv.Itoa(m.companies[0].ID)
	}
	for i, c := range m.companies {
		if strconv.Itoa(c.ID) == current {
			if i == len(m.companies)-1 {
				return ""
			}
			return strconv.Itoa(m.companies[i+1].ID)
		}
	}
	return ""
}

func (m Model) companyName(idStr string) string {
	for _, c := range m.companies {
		if strconv.Itoa(c.ID) == idStr {
			return c.Name
		}
	}
	return idStr
}

// View renders the list view.
func (m Model) View() string {
	if m.loading && !m.loaded {
		return lipgloss.Place(
			m.width, m.height,
			lipgloss.Center, lipgloss.Center,
			m.spin.View()+" loading applications...",
		)
	}

	if m.confirmID != 0 {
		return m.renderConfirm()
	}
	if m.picker != nil {
		return lipgloss.NewStyle().Padding(1, 2).Render(m.picker.View())
	}

	filtered := m.filtered()

	header := theme.TitleStyle.Render(
		fmt.Sprintf("Applications (%d)", len(filtered)),
	)
	subtitle := theme.HelpStyle.Render(
		fmt.Sprintf("%d total %s",
			len(m.apps), plural(len(m.apps), "application", "applications")),
	)

	parts := []string{header, subtitle}

	if m.searchMode {
		parts = append(parts, lipgloss.NewStyle().
			Foreground(theme.ColorWhite).
			Padding(0, 1).
			Render(m.searchInput.View()))
	}

	if len(m.apps) == 0 {
		parts = append(parts, "", m.renderEmptyState(false))
	} else if len(filtered) == 0 {
		parts = append(parts, "", m.renderEmptyState(true))
	} else {
		parts = append(parts, "", m.renderTable(filtered))
	}

	return lipgloss.NewStyle().Padding(0, 1).Render(
		lipgloss.JoinVertical(lipgloss.Left, parts...),
	)
}

func (m Model) renderTable(filtered []model.Application) string {
	headerStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorGray).
		PaddingLeft(2)

	headerLine := headerStyle.Render(fmt.Sprintf(
		"%-28s %-18s %-11s %-11s %s",
		"POSITION", "COMPANY", "STATUS", "APPLIED", "NOTES",
	))

	rows := []string{headerLine}
	for i, app := range PageSlice(filtered, m.page) {
		rows = append(rows, m.renderRow(app, i == m.cursor))
	}

	totalPages := TotalPages(len(filtered))
	if totalPages > 1 {
		rows = append(rows, "", theme.HelpStyle.Render(fmt.Sprintf(
			"  page %d / %d  (h/l to change)", m.page, totalPages,
		)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (m Model) renderRow(app model.Application, selected bool) string {
	notes := app.Notes
	if notes == "" {
		notes = "—"
	}

	applied := ""
	if !app.AppliedDate.IsZero() {
		applied = app.AppliedDate.Format("2006-01-02")
	}

	line := fmt.Sprintf(
		"%-28s %-18s %s %-11s %s",
		truncate(app.JobTitle, 28),
		truncate(app.Company.Name, 18),
		theme.StatusBadge(app.Status),
		applied,
		truncate(notes, 30),
	)

	if selected {
		return theme.SelectedItemStyle.Render(line)
	}
	return theme.ListItemStyle.Render(line)
}

func (m Model) renderConfirm() string {
	box := theme.ModalStyle.Render(lipgloss.JoinVertical(
		lipgloss.Left,
		theme.TitleStyle.Render("Delete Application"),
		"Are you sure? This action cannot be undone.",
		"",
		theme.HelpStyle.Render("y/enter delete | n/esc cancel"),
	))

	return lipgloss.Place(
		m.width, m.height,
		lipgloss.Center, lipgloss.Center,
		box,
	)
}

func (m Model) renderEmptyState(hasFilters bool) string {
	style := lipgloss.NewStyle().
		Width(m.width - 4).
		Align(lipgloss.Center).
		Foreground(theme.ColorGray)

	if hasFilters {
		return style.Render(
			"No matches found.\nTry adjusting your filters (3 clears them).",
		)
	}
	return style.Render(
		"No applications yet.\nPress n to add your first application.",
	)
}

// SetDownloadDir points future exports at a new directory. Called when
// the settings view saves a changed configuration.
func (m *Model) SetDownloadDir(dir string) {
	m.downloadDir = dir
}

// SetSize updates the list dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.searchInput.Width = width - 4
}

func formWidth(w int) int {
	fw := w - 8
	if fw < 36 {
		fw = 36
	}
	if fw > 72 {
		fw = 72
	}
	return fw
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

func plural(n int, singular, pluralForm string) string {
	if n == 1 {
		return singular
	}
	return pluralForm
}
