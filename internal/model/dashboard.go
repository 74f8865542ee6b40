package model

// DashboardStats is the server-computed aggregate view of a user's
// applications. The client never derives any of these numbers itself.
type DashboardStats struct {
	// Total is the number of applications across all stages.
	Total int `json:"total"`

	// Per-status counts.
	Applied   int `json:"applied"`
	Interview int `json:"interview"`
	Offer     int `json:"offer"`
	Rejected  int `json:"rejected"`

	// ConversionRate is offers as a percentage of total, one decimal.
	ConversionRate float64 `json:"conversion_rate"`

	// Recent holds the most recently applied applications (at most 5).
	Recent []Application `json:"recent"`

	// RecentActivity holds the latest status transitions.
	RecentActivity []ActivityEntry `json:"recent_activity"`
}

// Count returns the count for the given status.
func (d DashboardStats) Count(s Status) int {
	switch s {
	case StatusApplied:
		return d.Applied
	case StatusInterview:
		return d.Interview
	case StatusOffer:
		return d.Offer
	case StatusRejected:
		return d.Rejected
	}
	return 0
}
