package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/99designs/keyring"

	"github.com/nvidal/jobtrack/internal/api"
	"github.com/nvidal/jobtrack/internal/model"
	"github.com/nvidal/jobtrack/internal/session"
)

// Server is an in-memory stand-in for the JobTrack API. It records every
// request so tests can assert on exactly which calls the client issued.
type Server struct {
	mu sync.Mutex

	users          map[string]string // email -> password
	companies      []model.Company
	applications   []model.Application
	activity       []model.ActivityEntry
	nextCompanyID  int
	nextAppID      int
	nextActivityID int

	counts   map[string]int
	lastAuth string

	// WrapItems makes the list endpoint respond with an
	// {items: [...]} envelope instead of a bare array.
	WrapItems bool

	// CSV is the body served by the export endpoint.
	CSV []byte

	httpServer *httptest.Server
}

// NewServer starts a fake API server and shuts it down when the test
// completes.
func NewServer(t *testing.T) *Server {
	t.Helper()

	s := &Server{
		users:          make(map[string]string),
		counts:         make(map[string]int),
		nextCompanyID:  1,
		nextAppID:      1,
		nextActivityID: 1,
		CSV:            []byte("id,job_title,company,status\n"),
	}
	s.httpServer = httptest.NewServer(http.HandlerFunc(s.handle))
	t.Cleanup(s.httpServer.Close)

	return s
}

// URL returns the base URL of the fake server.
func (s *Server) URL() string {
	return s.httpServer.URL
}

// Client returns an api.Client pointed at the fake server, backed by an
// in-memory credential store.
func (s *Server) Client(t *testing.T) (*api.Client, *session.Store) {
	t.Helper()

	sess := session.NewWithRing(keyring.NewArrayKeyring(nil))
	return api.NewClient(s.URL(), sess), sess
}

// Count returns how many requests matched the given "METHOD /path" key.
func (s *Server) Count(key string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.counts[key]
}

// LastAuth returns the Authorization header of the most recent request.
func (s *Server) LastAuth() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastAuth
}

// AddUser registers an account directly, bypassing the HTTP endpoint.
func (s *Server) AddUser(email, password string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[email] = password
}

// AddCompany seeds a company and returns it.
func (s *Server) AddCompany(name string) model.Company {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := model.Company{ID: s.nextCompanyID, Name: name}
	s.nextCompanyID++
	s.companies = append(s.companies, c)
	return c
}

// AddApplication seeds an application attached to the given company.
func (s *Server) AddApplication(
	jobTitle string,
	company model.Company,
	status model.Status,
	notes string,
) model.Application {
	s.mu.Lock()
	defer s.mu.Unlock()

	app := model.Application{
		ID:          s.nextAppID,
		JobTitle:    jobTitle,
		CompanyID:   company.ID,
		Company:     company,
		Status:      status,
		Notes:       notes,
		AppliedDate: model.Timestamp{Time: time.Now().UTC()},
	}
	s.nextAppID++
	s.applications = append(s.applications, app)
	return app
}

// Applications returns a copy of the current application table.
func (s *Server) Applications() []model.Application {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.Application, len(s.applications))
	copy(out, s.applications)
	return out
}

func (s *Server) handle(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.counts[r.Method+" "+r.URL.Path]++
	s.lastAuth = r.Header.Get("Authorization")
	s.mu.Unlock()

	path := r.URL.Path
	switch {
	case r.Method == http.MethodPost && path == "/users/register":
		s.handleRegister(w, r)
	case r.Method == http.MethodPost && path == "/users/login":
		s.handleLogin(w, r)
	case r.Method == http.MethodGet && path == "/companies/":
		s.handleListCompanies(w)
	case r.Method == http.MethodPost && path == "/companies/":
		s.handleCreateCompany(w, r)
	case r.Method == http.MethodGet && path == "/applications/":
		s.handleListApplications(w)
	case r.Method == http.MethodPost && path == "/applications/":
		s.handleCreateApplication(w, r)
	case r.Method == http.MethodGet && path == "/applications/export":
		w.Header().Set("Content-Type", "text/csv")
		_, _ = w.Write(s.CSV)
	case r.Method == http.MethodPut && strings.HasPrefix(path, "/applications/"):
		s.handleUpdateApplication(w, r)
	case r.Method == http.MethodDelete && strings.HasPrefix(path, "/applications/"):
		s.handleDeleteApplication(w, r)
	case r.Method == http.MethodGet && path == "/dashboard/":
		s.handleDashboard(w)
	default:
		writeDetail(w, http.StatusNotFound, "Not found")
	}
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var creds struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		writeDetail(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.users[creds.Email]; exists {
		writeDetail(w, http.StatusBadRequest, "Email already registered")
		return
	}
	s.users[creds.Email] = creds.Password
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(map[string]string{"email": creds.Email})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var creds struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		writeDetail(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if pw, ok := s.users[creds.Email]; !ok || pw != creds.Password {
		writeDetail(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]string{
		"access_token": "token-" + creds.Email,
		"token_type":   "bearer",
	})
}

func (s *Server) handleListCompanies(w http.ResponseWriter) {
	s.mu.Lock()
	defer s.mu.Unlock()

	companies := s.companies
	if companies == nil {
		companies = []model.Company{}
	}
	_ = json.NewEncoder(w).Encode(companies)
}

func (s *Server) handleCreateCompany(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeDetail(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c := model.Company{ID: s.nextCompanyID, Name: body.Name}
	s.nextCompanyID++
	s.companies = append(s.companies, c)

	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(c)
}

func (s *Server) handleListApplications(w http.ResponseWriter) {
	s.mu.Lock()
	defer s.mu.Unlock()

	apps := s.applications
	if apps == nil {
		apps = []model.Application{}
	}
	if s.WrapItems {
		_ = json.NewEncoder(w).Encode(map[string]any{"items": apps})
		return
	}
	_ = json.NewEncoder(w).Encode(apps)
}

func (s *Server) handleCreateApplication(w http.ResponseWriter, r *http.Request) {
	var create model.ApplicationCreate
	if err := json.NewDecoder(r.Body).Decode(&create); err != nil {
		writeDetail(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var company model.Company
	for _, c := range s.companies {
		if c.ID == create.CompanyID {
			company = c
			break
		}
	}
	if company.ID == 0 {
		writeDetail(w, http.StatusBadRequest, "Company not found")
		return
	}

	app := model.Application{
		ID:          s.nextAppID,
		JobTitle:    create.JobTitle,
		CompanyID:   create.CompanyID,
		Company:     company,
		Status:      create.Status,
		Notes:       create.Notes,
		AppliedDate: model.Timestamp{Time: time.Now().UTC()},
	}
	s.nextAppID++
	s.applications = append(s.applications, app)

	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(app)
}

func (s *Server) handleUpdateApplication(w http.ResponseWriter, r *http.Request) {
	id, ok := applicationID(r.URL.Path)
	if !ok {
		writeDetail(w, http.StatusNotFound, "Application not found")
		return
	}

	var patch model.ApplicationPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeDetail(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.applications {
		if s.applications[i].ID != id {
			continue
		}
		app := &s.applications[i]
		if patch.JobTitle != nil {
			app.JobTitle = *patch.JobTitle
		}
		if patch.Notes != nil {
			app.Notes = *patch.Notes
		}
		if patch.Status != nil && *patch.Status != app.Status {
			s.activity = append(s.activity, model.ActivityEntry{
				ID:          s.nextActivityID,
				JobTitle:    app.JobTitle,
				CompanyName: app.Company.Name,
				OldStatus:   app.Status,
				NewStatus:   *patch.Status,
				ChangedAt:   model.Timestamp{Time: time.Now().UTC()},
			})
			s.nextActivityID++
			app.Status = *patch.Status
		}
		_ = json.NewEncoder(w).Encode(*app)
		return
	}

	writeDetail(w, http.StatusNotFound, "Application not found")
}

func (s *Server) handleDeleteApplication(w http.ResponseWriter, r *http.Request) {
	id, ok := applicationID(r.URL.Path)
	if !ok {
		writeDetail(w, http.StatusNotFound, "Application not found")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.applications {
		if s.applications[i].ID == id {
			s.applications = append(
				s.applications[:i], s.applications[i+1:]...,
			)
			w.WriteHeader(http.StatusNoContent)
			return
		}
	}

	writeDetail(w, http.StatusNotFound, "Application not found")
}

func (s *Server) handleDashboard(w http.ResponseWriter) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats := model.DashboardStats{Total: len(s.applications)}
	for _, app := range s.applications {
		switch app.Status {
		case model.StatusApplied:
			stats.Applied++
		case model.StatusInterview:
			stats.Interview++
		case model.StatusOffer:
			stats.Offer++
		case model.StatusRejected:
			stats.Rejected++
		}
	}
	if stats.Total > 0 {
		rate := float64(stats.Offer) / float64(stats.Total) * 100
		stats.ConversionRate = float64(int(rate*10+0.5)) / 10
	}

	recent := len(s.applications)
	if recent > 5 {
		recent = 5
	}
	stats.Recent = append(stats.Recent, s.applications[len(s.applications)-recent:]...)
	stats.RecentActivity = append(stats.RecentActivity, s.activity...)

	_ = json.NewEncoder(w).Encode(stats)
}

func applicationID(path string) (int, bool) {
	raw := strings.TrimPrefix(path, "/applications/")
	id, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return id, true
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	fmt.Fprintf(w, `{"detail":%q}`, detail)
}
