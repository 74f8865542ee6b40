package model

import "testing"

func TestStatusValid(t *testing.T) {
	for _, s := range Statuses {
		if !s.Valid() {
			t.Errorf("%s should be valid", s)
		}
	}

	for _, s := range []Status{"", "applied", "Hired", "Withdrawn"} {
		if s.Valid() {
			t.Errorf("%q should not be valid", s)
		}
	}
}

func TestDashboardStatsCount(t *testing.T) {
	stats := DashboardStats{
		Applied:   4,
		Interview: 3,
		Offer:     2,
		Rejected:  1,
	}

	tests := []struct {
		status Status
		want   int
	}{
		{StatusApplied, 4},
		{StatusInterview, 3},
		{StatusOffer, 2},
		{StatusRejected, 1},
		{"Unknown", 0},
	}

	for _, tt := range tests {
		if got := stats.Count(tt.status); got != tt.want {
			t.Errorf("Count(%s) = %d, want %d", tt.status, got, tt.want)
		}
	}
}
