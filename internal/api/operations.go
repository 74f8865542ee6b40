package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/nvidal/jobtrack/internal/model"
)

// credentials is the request body for register and login.
type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// tokenResponse is the login response envelope.
type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Register creates a new account.
func (c *Client) Register(ctx context.Context, email, password string) error {
	return c.do(ctx, http.MethodPost, "/users/register",
		credentials{Email: email, Password: password}, nil)
}

// Login authenticates and returns the access token.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	var tok tokenResponse
	err := c.do(ctx, http.MethodPost, "/users/login",
		credentials{Email: email, Password: password}, &tok)
	if err != nil {
		return "", err
	}
	return tok.AccessToken, nil
}

// ListCompanies returns the user's companies.
func (c *Client) ListCompanies(ctx context.Context) ([]model.Company, error) {
	var companies []model.Company
	if err := c.do(ctx, http.MethodGet, "/companies/", nil, &companies); err != nil {
		return nil, err
	}
	return companies, nil
}

// CreateCompany creates a company with the given name.
func (c *Client) CreateCompany(ctx context.Context, name string) (model.Company, error) {
	var company model.Company
	body := struct {
		Name string `json:"name"`
	}{Name: name}
	if err := c.do(ctx, http.MethodPost, "/companies/", body, &company); err != nil {
		return model.Company{}, err
	}
	return company, nil
}

// applicationPage is the paginated list envelope some server versions
// return instead of a bare array.
type applicationPage struct {
	Items []model.Application `json:"items"`
}

// ListApplications returns all applications. The endpoint returns either
// a bare array or an {items: [...]} envelope; both are accepted.
func (c *Client) ListApplications(ctx context.Context) ([]model.Application, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, "/applications/", nil, &raw); err != nil {
		return nil, err
	}

	var apps []model.Application
	if err := json.Unmarshal(raw, &apps); err == nil {
		return apps, nil
	}

	var page applicationPage
	if err := json.Unmarshal(raw, &page); err != nil {
		return nil, fmt.Errorf("unmarshaling applications list: %w", err)
	}
	return page.Items, nil
}

// CreateApplication creates an application.
func (c *Client) CreateApplication(
	ctx context.Context,
	create model.ApplicationCreate,
) (model.Application, error) {
	var app model.Application
	if err := c.do(ctx, http.MethodPost, "/applications/", create, &app); err != nil {
		return model.Application{}, err
	}
	return app, nil
}

// UpdateApplication applies a partial update to one application.
func (c *Client) UpdateApplication(
	ctx context.Context,
	id int,
	patch model.ApplicationPatch,
) (model.Application, error) {
	var app model.Application
	path := fmt.Sprintf("/applications/%d", id)
	if err := c.do(ctx, http.MethodPut, path, patch, &app); err != nil {
		return model.Application{}, err
	}
	return app, nil
}

// DeleteApplication deletes one application.
func (c *Client) DeleteApplication(ctx context.Context, id int) error {
	path := fmt.Sprintf("/applications/%d", id)
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

// ExportCSV fetches the server-generated CSV export as raw bytes. The
// client never builds CSV itself.
func (c *Client) ExportCSV(ctx context.Context) ([]byte, error) {
	return c.getRaw(ctx, "/applications/export")
}

// Dashboard returns the server-computed aggregate stats.
func (c *Client) Dashboard(ctx context.Context) (model.DashboardStats, error) {
	var stats model.DashboardStats
	if err := c.do(ctx, http.MethodGet, "/dashboard/", nil, &stats); err != nil {
		return model.DashboardStats{}, err
	}
	return stats, nil
}
