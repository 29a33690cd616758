package query

import (
	"strings"

	"github.com/spec-kit/fleet-dashboard/internal/domain"
)

// Status selectors that are not stored statuses.
const (
	StatusAll        = "All"
	StatusAllLoads   = "All Loads"
	StatusUnassigned = "Unassigned"
)

// DriverQuery narrows and orders the driver list.
type DriverQuery struct {
	Search string
	Status string
	Sort   SortState
}

// DispatcherQuery narrows and orders the dispatcher list.
type DispatcherQuery struct {
	Search string
	Team   string
	Sort   SortState
}

// LoadQuery narrows and orders the load list.
type LoadQuery struct {
	Search string
	Status string
	Sort   SortState
}

// Drivers applies search, then status, then sort.
func Drivers(items []domain.Driver, q DriverQuery) ([]domain.Driver, error) {
	needle := normalize(q.Search)
	status := strings.TrimSpace(q.Status)
	out := make([]domain.Driver, 0, len(items))
	for _, d := range items {
		if !contains(needle, string(d.Name)) {
			continue
		}
		if !matchAll(status) && string(d.Status) != status {
			continue
		}
		out = append(out, d)
	}
	return Sort(out, DriverFields, q.Sort)
}

// Dispatchers applies search, then team, then sort.
func Dispatchers(items []domain.Dispatcher, q DispatcherQuery) ([]domain.Dispatcher, error) {
	needle := normalize(q.Search)
	team := strings.TrimSpace(q.Team)
	out := make([]domain.Dispatcher, 0, len(items))
	for _, d := range items {
		if !contains(needle, string(d.Name)) {
			continue
		}
		if team != "" && !d.InTeam(team) {
			continue
		}
		out = append(out, d)
	}
	return Sort(out, DispatcherFields, q.Sort)
}

// Loads applies search, then status, then sort. The Unassigned selector matches
// loads without drivers whatever their stored status.
func Loads(items []domain.Load, q LoadQuery) ([]domain.Load, error) {
	needle := normalize(q.Search)
	status := strings.TrimSpace(q.Status)
	out := make([]domain.Load, 0, len(items))
	for _, l := range items {
		if !contains(needle, string(l.LoadID), string(l.City), string(l.Destination)) {
			continue
		}
		if !MatchLoadStatus(l, status) {
			continue
		}
		out = append(out, l)
	}
	return Sort(out, LoadFields, q.Sort)
}

// MatchLoadStatus reports whether a load passes a status selector.
func MatchLoadStatus(l domain.Load, selector string) bool {
	switch {
	case matchAll(selector):
		return true
	case selector == StatusUnassigned:
		return l.Unassigned()
	default:
		return string(l.Status) == selector
	}
}

func matchAll(selector string) bool {
	return selector == "" || selector == StatusAll || selector == StatusAllLoads
}

func normalize(search string) string {
	return strings.ToLower(strings.TrimSpace(search))
}

// contains is a case-insensitive substring match over any of the fields. An
// empty needle matches everything.
func contains(needle string, fields ...string) bool {
	if needle == "" {
		return true
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), needle) {
			return true
		}
	}
	return false
}
