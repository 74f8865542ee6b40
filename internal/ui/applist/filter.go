package applist

import (
	"strconv"
	"strings"

	"github.com/nvidal/jobtrack/internal/model"
)

// PerPage is the fixed page size.
const PerPage = 10

// Filters holds the independent, AND-composed list predicates. Zero
// values mean "no filter".
type Filters struct {
	// Status keeps rows whose status equals this value.
	Status model.Status

	// Company keeps rows whose numeric company id, rendered as a
	// string, equals this value.
	Company string

	// Search keeps rows whose job title or notes contain this text,
	// case-insensitively.
	Search string
}

// Active reports whether any predicate is set.
func (f Filters) Active() bool {
	return f.Status != "" || f.Company != "" || f.Search != ""
}

// Apply returns the applications satisfying every active predicate.
func Apply(apps []model.Application, f Filters) []model.Application {
	if !f.Active() {
		return apps
	}

	needle := strings.ToLower(f.Search)
	out := make([]model.Application, 0, len(apps))
	for _, a := range apps {
		if f.Status != "" && a.Status != f.Status {
			continue
		}
		if f.Company != "" && strconv.Itoa(a.CompanyID) != f.Company {
			continue
		}
		if needle != "" &&
			!strings.Contains(strings.ToLower(a.JobTitle), needle) &&
			!strings.Contains(strings.ToLower(a.Notes), needle) {
			continue
		}
		out = append(out, a)
	}
	return out
}

// TotalPages returns max(ceil(n/PerPage), 1).
func TotalPages(n int) int {
	pages := (n + PerPage - 1) / PerPage
	if pages < 1 {
		pages = 1
	}
	return pages
}

// ClampPage forces page into [1, totalPages].
func ClampPage(page, totalPages int) int {
	if page < 1 {
		return 1
	}
	if page > totalPages {
		return totalPages
	}
	return page
}

// PageSlice returns the rows visible on the given 1-based page.
func PageSlice(apps []model.Application, page int) []model.Application {
	start := (page - 1) * PerPage
	if start >= len(apps) {
		return nil
	}
	end := start + PerPage
	if end > len(apps) {
		end = len(apps)
	}
	return apps[start:end]
}
