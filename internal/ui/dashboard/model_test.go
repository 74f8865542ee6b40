package dashboard

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/nvidal/jobtrack/internal/model"
	"github.com/nvidal/jobtrack/tests/testutil"
)

func TestRelativeTime(t *testing.T) {
	now := time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		ago  time.Duration
		want string
	}{
		{30 * time.Second, "now"},
		{time.Minute, "1m"},
		{59 * time.Minute, "59m"},
		{time.Hour, "1h"},
		{23 * time.Hour, "23h"},
		{24 * time.Hour, "1d"},
		{72 * time.Hour, "3d"},
	}

	for _, tt := range tests {
		got := RelativeTime(now.Add(-tt.ago), now)
		if got != tt.want {
			t.Errorf("RelativeTime(-%v) = %q, want %q", tt.ago, got, tt.want)
		}
	}
}

func TestFormatRate(t *testing.T) {
	tests := []struct {
		rate float64
		want string
	}{
		{0, "0%"},
		{50, "50%"},
		{33.3, "33.3%"},
		{100, "100%"},
	}

	for _, tt := range tests {
		if got := FormatRate(tt.rate); got != tt.want {
			t.Errorf("FormatRate(%v) = %q, want %q", tt.rate, got, tt.want)
		}
	}
}

func TestEnterLoadsStats(t *testing.T) {
	srv := testutil.NewServer(t)
	company := srv.AddCompany("Initech")
	srv.AddApplication("Engineer", company, model.StatusApplied, "")
	client, _ := srv.Client(t)

	m := New(client, 80, 24)
	if cmd := m.Enter(); cmd == nil {
		t.Fatal("Enter returned no command")
	}
	if !m.loading {
		t.Error("Enter should mark the model loading")
	}

	stats, err := client.Dashboard(context.Background())
	if err != nil {
		t.Fatalf("fetching dashboard: %v", err)
	}

	m, _ = m.Update(statsLoadedMsg{stats: stats})
	if m.loading {
		t.Error("model still loading after stats arrived")
	}
	if m.stats == nil || m.stats.Total != 1 {
		t.Errorf("stats = %+v, want Total 1", m.stats)
	}
}

func TestViewEmptyStates(t *testing.T) {
	m := New(nil, 80, 24)
	m.stats = &model.DashboardStats{}

	view := m.View()
	if !strings.Contains(view, "No applications yet") {
		t.Error("missing empty-state message for applications")
	}
	if !strings.Contains(view, "No activity yet") {
		t.Error("missing empty-state message for activity")
	}

	// With nothing to chart, neither chart section renders.
	if strings.Contains(view, "Status Distribution") {
		t.Error("distribution chart rendered with zero applications")
	}
	if strings.Contains(view, "By Status") {
		t.Error("bar chart rendered with zero applications")
	}
}

func TestViewChartsRenderWithData(t *testing.T) {
	m := New(nil, 80, 24)
	m.stats = &model.DashboardStats{
		Total:   3,
		Applied: 2,
		Offer:   1,
	}

	view := m.View()
	if !strings.Contains(view, "Status Distribution") {
		t.Error("distribution chart missing with applications present")
	}
	if !strings.Contains(view, "By Status") {
		t.Error("bar chart missing with applications present")
	}
}

func TestTruncateIsRuneSafe(t *testing.T) {
	if got := truncate("Señor Engineer", 6); got != "Señor…" {
		t.Errorf("truncate = %q, want Señor…", got)
	}
	if got := truncate("short", 10); got != "short" {
		t.Errorf("truncate = %q, want unchanged", got)
	}
}

func TestViewFailedState(t *testing.T) {
	m := New(nil, 80, 24)
	m.failed = true

	if !strings.Contains(m.View(), "Failed to load dashboard.") {
		t.Error("missing failure message")
	}
}
