package model

// ActivityEntry is a server-recorded status transition, produced whenever
// an application's status changes. Display only.
type ActivityEntry struct {
	ID          int       `json:"id"`
	JobTitle    string    `json:"job_title"`
	CompanyName string    `json:"company_name"`
	OldStatus   Status    `json:"old_status"`
	NewStatus   Status    `json:"new_status"`
	ChangedAt   Timestamp `json:"changed_at"`
}
