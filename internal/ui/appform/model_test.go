package appform

import (
	"testing"

	"github.com/charmbracelet/huh"

	"github.com/nvidal/jobtrack/internal/model"
	"github.com/nvidal/jobtrack/tests/testutil"
)

func TestSubmitCreatesApplication(t *testing.T) {
	srv := testutil.NewServer(t)
	company := srv.AddCompany("Initech")
	client, _ := srv.Client(t)

	m := New(client, 60)
	m.fb.jobTitle = " Backend Engineer "
	m.fb.companyID = company.ID
	m.fb.status = model.StatusInterview
	m.fb.notes = "phone screen done"

	msg := m.submitCmd()()
	res, ok := msg.(resultMsg)
	if !ok {
		t.Fatalf("got %T, want resultMsg", msg)
	}
	if res.err != nil {
		t.Fatalf("creating application: %v", res.err)
	}

	if res.app.JobTitle != "Backend Engineer" {
		t.Errorf("title = %q, want trimmed", res.app.JobTitle)
	}
	if res.app.Status != model.StatusInterview {
		t.Errorf("status = %s", res.app.Status)
	}
	if res.app.Company.Name != "Initech" {
		t.Errorf("embedded company = %q", res.app.Company.Name)
	}
}

func TestSuccessResetsFields(t *testing.T) {
	srv := testutil.NewServer(t)
	company := srv.AddCompany("Initech")
	client, _ := srv.Client(t)

	m := New(client, 60)
	m.fb.jobTitle = "Engineer"
	m.fb.companyID = company.ID
	m.fb.status = model.StatusOffer
	m.fb.notes = "notes"

	m, cmd := m.Update(resultMsg{app: model.Application{ID: 1}})

	if m.fb.jobTitle != "" || m.fb.notes != "" || m.fb.companyID != 0 {
		t.Errorf("fields not reset: %+v", m.fb)
	}
	if m.fb.status != model.StatusApplied {
		t.Errorf("status = %s, want the Applied default", m.fb.status)
	}
	if cmd == nil {
		t.Fatal("success produced no follow-up command")
	}
}

func TestCompletedFormWithMissingFieldsSendsNothing(t *testing.T) {
	tests := []struct {
		name     string
		jobTitle string
		company  int
	}{
		{"empty job title", "   ", 1},
		{"no company selected", "Engineer", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := testutil.NewServer(t)
			srv.AddCompany("Initech")
			client, _ := srv.Client(t)

			m := New(client, 60)
			m.SetFocused(true)
			m.fb.jobTitle = tt.jobTitle
			m.fb.companyID = tt.company
			m.form.State = huh.StateCompleted

			m, cmd := m.Update(struct{}{})

			if m.submitting {
				t.Error("form marked submitting despite missing fields")
			}
			if cmd != nil {
				cmd()
			}
			if got := srv.Count("POST /applications/"); got != 0 {
				t.Errorf("POST issued %d times, want 0", got)
			}
		})
	}
}

func TestSetCompaniesRebuildsForm(t *testing.T) {
	srv := testutil.NewServer(t)
	client, _ := srv.Client(t)

	m := New(client, 60)
	before := m.form

	cmd := m.SetCompanies([]model.Company{{ID: 1, Name: "Initech"}})
	if cmd == nil {
		t.Fatal("SetCompanies returned no init command")
	}
	if m.form == before {
		t.Error("form was not rebuilt with the new options")
	}
	if len(m.companies) != 1 {
		t.Errorf("companies = %d, want 1", len(m.companies))
	}
}
