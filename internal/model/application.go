package model

// Application is one tracked job application.
type Application struct {
	// ID is the server-assigned identifier.
	ID int `json:"id"`

	// JobTitle is the position applied for.
	JobTitle string `json:"job_title"`

	// CompanyID references the owning Company.
	CompanyID int `json:"company_id"`

	// Company is the denormalized employer record embedded in list
	// responses. Read-only.
	Company Company `json:"company"`

	// Status is the current pipeline stage.
	Status Status `json:"status"`

	// Notes holds free-form text about the application.
	Notes string `json:"notes"`

	// AppliedDate is when the application was recorded.
	AppliedDate Timestamp `json:"applied_date"`
}

// ApplicationCreate is the request body for creating an application.
type ApplicationCreate struct {
	JobTitle  string `json:"job_title"`
	CompanyID int    `json:"company_id"`
	Status    Status `json:"status"`
	Notes     string `json:"notes"`
}

// ApplicationPatch is a partial update body. Only set fields are sent;
// in practice the client only ever sends Status.
type ApplicationPatch struct {
	JobTitle  *string `json:"job_title,omitempty"`
	CompanyID *int    `json:"company_id,omitempty"`
	Status    *Status `json:"status,omitempty"`
	Notes     *string `json:"notes,omitempty"`
}
