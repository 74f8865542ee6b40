package applist

import (
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nvidal/jobtrack/internal/keys"
	"github.com/nvidal/jobtrack/internal/model"
	"github.com/nvidal/jobtrack/tests/testutil"
)

func newTestModel(t *testing.T, srv *testutil.Server) Model {
	t.Helper()

	client, _ := srv.Client(t)
	return New(client, keys.DefaultKeyMap(), t.TempDir(), 80, 24)
}

func loadModel(t *testing.T, srv *testutil.Server) Model {
	t.Helper()

	m := newTestModel(t, srv)
	cmd := m.Load()
	m, _ = m.Update(cmd())
	if !m.loaded {
		t.Fatal("model did not load")
	}
	return m
}

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestLoadPopulatesCollection(t *testing.T) {
	srv := testutil.NewServer(t)
	company := srv.AddCompany("Initech")
	srv.AddApplication("Engineer", company, model.StatusApplied, "")
	srv.AddApplication("Manager", company, model.StatusOffer, "")

	m := loadModel(t, srv)

	if len(m.apps) != 2 {
		t.Errorf("loaded %d applications, want 2", len(m.apps))
	}
	if len(m.companies) != 1 {
		t.Errorf("loaded %d companies, want 1", len(m.companies))
	}
}

func TestStaleLoadDiscarded(t *testing.T) {
	srv := testutil.NewServer(t)
	company := srv.AddCompany("Initech")
	srv.AddApplication("Engineer", company, model.StatusApplied, "")

	m := newTestModel(t, srv)

	stale := m.Load()
	staleMsg := stale()

	srv.AddApplication("Manager", company, model.StatusOffer, "")
	fresh := m.Load()
	freshMsg := fresh()

	// The superseded result must not replace anything.
	m, _ = m.Update(staleMsg)
	if m.loaded {
		t.Fatal("stale load result was applied")
	}

	m, _ = m.Update(freshMsg)
	if !m.loaded || len(m.apps) != 2 {
		t.Errorf("fresh load gave %d applications, want 2", len(m.apps))
	}
}

func TestDeleteRequiresConfirmation(t *testing.T) {
	srv := testutil.NewServer(t)
	company := srv.AddCompany("Initech")
	srv.AddApplication("Engineer", company, model.StatusApplied, "")

	m := loadModel(t, srv)

	// First press only opens the confirmation.
	m, _ = m.Update(runeKey('d'))
	if !m.Capturing() {
		t.Fatal("confirmation dialog did not open")
	}
	if srv.Count("DELETE /applications/1") != 0 {
		t.Fatal("delete was issued before confirmation")
	}

	// Declining leaves the row untouched.
	m, _ = m.Update(runeKey('n'))
	if m.Capturing() {
		t.Error("dialog still open after decline")
	}
	if srv.Count("DELETE /applications/1") != 0 {
		t.Error("delete was issued after decline")
	}

	// Confirming issues exactly one request.
	m, _ = m.Update(runeKey('d'))
	m, cmd := m.Update(runeKey('y'))
	if cmd == nil {
		t.Fatal("confirming produced no command")
	}
	msg := cmd()
	if _, ok := msg.(deletedMsg); !ok {
		t.Fatalf("command produced %T, want deletedMsg", msg)
	}
	if srv.Count("DELETE /applications/1") != 1 {
		t.Errorf("delete issued %d times", srv.Count("DELETE /applications/1"))
	}
}

func TestStatusUpdateIssuesPatchThenReloads(t *testing.T) {
	srv := testutil.NewServer(t)
	company := srv.AddCompany("Initech")
	app := srv.AddApplication("Engineer", company, model.StatusApplied, "notes stay")

	m := loadModel(t, srv)

	cmd := m.updateStatusCmd(app.ID, model.StatusInterview)
	msg := cmd()
	if _, ok := msg.(statusSavedMsg); !ok {
		t.Fatalf("command produced %T, want statusSavedMsg", msg)
	}

	if srv.Count("PUT /applications/1") != 1 {
		t.Errorf("PUT issued %d times", srv.Count("PUT /applications/1"))
	}
	got := srv.Applications()[0]
	if got.Status != model.StatusInterview {
		t.Errorf("server status = %s, want Interview", got.Status)
	}
	if got.Notes != "notes stay" {
		t.Errorf("partial update clobbered notes: %q", got.Notes)
	}

	// A successful save triggers a wholesale reload, not an in-place patch.
	before := m.loadSeq
	m, cmd = m.Update(msg)
	if cmd == nil {
		t.Fatal("save produced no follow-up command")
	}
	if m.loadSeq != before+1 {
		t.Error("save did not start a reload")
	}
}

func TestFilterChangeResetsPage(t *testing.T) {
	srv := testutil.NewServer(t)
	m := newTestModel(t, srv)

	for i := 0; i < 25; i++ {
		m.apps = append(m.apps, model.Application{
			ID:       i + 1,
			JobTitle: "Role",
			Status:   model.StatusApplied,
		})
	}
	m.page = 3

	m, _ = m.Update(runeKey('1'))
	if m.filters.Status != model.StatusApplied {
		t.Errorf("status filter = %q", m.filters.Status)
	}
	if m.page != 1 {
		t.Errorf("page = %d, want 1 after filter change", m.page)
	}
}

func TestSearchApplyAndClear(t *testing.T) {
	srv := testutil.NewServer(t)
	m := newTestModel(t, srv)
	m.apps = []model.Application{
		{ID: 1, JobTitle: "Backend Engineer", Status: model.StatusApplied},
		{ID: 2, JobTitle: "Designer", Status: model.StatusApplied},
	}

	m, _ = m.Update(runeKey('/'))
	if !m.Capturing() {
		t.Fatal("search mode did not open")
	}

	m.searchInput.SetValue("engineer")
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if m.Capturing() {
		t.Error("search mode still open after enter")
	}
	if m.filters.Search != "engineer" {
		t.Errorf("search filter = %q", m.filters.Search)
	}
	if len(m.filtered()) != 1 {
		t.Errorf("filtered %d rows, want 1", len(m.filtered()))
	}

	// Escape clears the query entirely.
	m, _ = m.Update(runeKey('/'))
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if m.filters.Search != "" {
		t.Errorf("search filter = %q after esc, want empty", m.filters.Search)
	}
}

func TestClearFiltersKey(t *testing.T) {
	srv := testutil.NewServer(t)
	m := newTestModel(t, srv)
	m.filters = Filters{
		Status:  model.StatusApplied,
		Company: "2",
		Search:  "engineer",
	}
	m.page = 2

	m, _ = m.Update(runeKey('3'))
	if m.filters.Active() {
		t.Errorf("filters still active: %+v", m.filters)
	}
	if m.page != 1 {
		t.Errorf("page = %d, want 1", m.page)
	}
}

func TestNextStatusCycles(t *testing.T) {
	got := nextStatus("")
	order := []model.Status{}
	for i := 0; i < len(model.Statuses)+1; i++ {
		order = append(order, got)
		got = nextStatus(got)
	}

	want := append(append([]model.Status{}, model.Statuses...), "")
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("cycle position %d = %q, want %q", i, order[i], want[i])
		}
	}
}

func TestSetDownloadDirRedirectsExports(t *testing.T) {
	srv := testutil.NewServer(t)
	srv.CSV = []byte("id,job_title\n")
	m := newTestModel(t, srv)

	newDir := filepath.Join(t.TempDir(), "elsewhere")
	m.SetDownloadDir(newDir)

	msg := m.ExportCmd()()
	res, ok := msg.(exportedMsg)
	if !ok {
		t.Fatalf("got %T, want exportedMsg", msg)
	}
	if res.err != nil {
		t.Fatalf("exporting: %v", res.err)
	}
	if filepath.Dir(res.path) != newDir {
		t.Errorf("export written to %s, want %s", res.path, newDir)
	}
}

func TestTruncateIsRuneSafe(t *testing.T) {
	tests := []struct {
		in   string
		n    int
		want string
	}{
		{"Engineer", 8, "Engineer"},
		{"Engineering", 8, "Enginee…"},
		{"Señor Engineer", 6, "Señor…"},
		{"日本語のタイトル", 4, "日本語…"},
		{"日本語", 1, "日"},
	}

	for _, tt := range tests {
		if got := truncate(tt.in, tt.n); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.n, got, tt.want)
		}
	}
}

func TestCapturingStates(t *testing.T) {
	srv := testutil.NewServer(t)
	m := newTestModel(t, srv)

	if m.Capturing() {
		t.Error("fresh model should not capture input")
	}

	m.searchMode = true
	if !m.Capturing() {
		t.Error("search mode should capture input")
	}
	m.searchMode = false

	m.confirmID = 7
	if !m.Capturing() {
		t.Error("pending confirmation should capture input")
	}
}
