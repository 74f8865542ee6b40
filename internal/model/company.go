package model

// Company is an employer an application can be attached to.
type Company struct {
	// ID is the server-assigned identifier.
	ID int `json:"id"`

	// Name is the employer's display name.
	Name string `json:"name"`
}
