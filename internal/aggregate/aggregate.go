// Package aggregate derives the dashboard figures from collection snapshots.
// Everything here is a pure function of its inputs.
package aggregate

import (
	"math"

	"github.com/spec-kit/fleet-dashboard/internal/domain"
	"github.com/spec-kit/fleet-dashboard/internal/query"
)

// DefaultRecentLoads is how many loads the dashboard previews.
const DefaultRecentLoads = 3

// DriverActivity is the per-driver bar of the activity chart.
type DriverActivity struct {
	Name      string `json:"name"`
	Active    int    `json:"active"`
	Completed int    `json:"completed"`
}

// StatusCount is one slice of the load status chart.
type StatusCount struct {
	Status domain.LoadStatus `json:"status"`
	Count  int               `json:"count"`
}

// Summary holds the headline cards.
type Summary struct {
	Drivers          int     `json:"drivers"`
	ReadyDrivers     int     `json:"readyDrivers"`
	ReadyPercent     int     `json:"readyPercent"`
	Dispatchers      int     `json:"dispatchers"`
	OnDuty           int     `json:"onDuty"`
	OnDutyPercent    int     `json:"onDutyPercent"`
	Loads            int     `json:"loads"`
	InTransit        int     `json:"inTransit"`
	Delivered        int     `json:"delivered"`
	DeliveredPercent int     `json:"deliveredPercent"`
	TotalRevenue     float64 `json:"totalRevenue"`
}

// RecentLoad is a load with its name references resolved.
type RecentLoad struct {
	Load       domain.Load        `json:"load"`
	Drivers    []domain.Driver    `json:"drivers"`
	Dispatcher *domain.Dispatcher `json:"dispatcher,omitempty"`
}

// Input is one consistent view of the collections plus session state.
type Input struct {
	Drivers     []domain.Driver
	Dispatchers []domain.Dispatcher
	Loads       []domain.Load
	Unread      int
	RecentLimit int
}

// Dashboard is everything the overview screen renders.
type Dashboard struct {
	Summary       Summary          `json:"summary"`
	Activity      []DriverActivity `json:"activity"`
	Distribution  []StatusCount    `json:"distribution"`
	RecentLoads   []RecentLoad     `json:"recentLoads"`
	Notifications int              `json:"unreadNotifications"`
}

// Build computes the full dashboard.
func Build(in Input) Dashboard {
	limit := in.RecentLimit
	if limit <= 0 {
		limit = DefaultRecentLoads
	}
	return Dashboard{
		Summary:       Summarize(in.Drivers, in.Dispatchers, in.Loads),
		Activity:      Activity(in.Drivers),
		Distribution:  StatusDistribution(in.Loads),
		RecentLoads:   RecentLoads(in.Loads, in.Drivers, in.Dispatchers, limit),
		Notifications: in.Unread,
	}
}

// Activity lists active and completed load counts per driver, in input order.
func Activity(drivers []domain.Driver) []DriverActivity {
	out := make([]DriverActivity, len(drivers))
	for i, d := range drivers {
		out[i] = DriverActivity{
			Name:      string(d.Name),
			Active:    d.ActiveLoads(),
			Completed: d.CompletedLoads(),
		}
	}
	return out
}

// StatusDistribution counts loads per status. Unassigned counts loads without
// drivers, so a load can land in two buckets.
func StatusDistribution(loads []domain.Load) []StatusCount {
	out := []StatusCount{
		{Status: domain.LoadStatusInTransit},
		{Status: domain.LoadStatusPending},
		{Status: domain.LoadStatusDelivered},
		{Status: domain.LoadStatusUnassigned},
	}
	for _, l := range loads {
		for i := range out[:3] {
			if l.Status == out[i].Status {
				out[i].Count++
			}
		}
		if l.Unassigned() {
			out[3].Count++
		}
	}
	return out
}

// ParseRate reads a rate such as "$1200". Malformed rates count as zero.
func ParseRate(rate domain.Text) float64 {
	v, ok := rate.Amount()
	if !ok || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// TotalRevenue sums the parsed rates of all loads.
func TotalRevenue(loads []domain.Load) float64 {
	var total float64
	for _, l := range loads {
		total += ParseRate(l.Rate)
	}
	return total
}

// Percent is part/total as a rounded percentage, zero when total is zero.
func Percent(part, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(part) / float64(total) * 100))
}

// Summarize computes the headline cards.
func Summarize(drivers []domain.Driver, dispatchers []domain.Dispatcher, loads []domain.Load) Summary {
	s := Summary{
		Drivers:     len(drivers),
		Dispatchers: len(dispatchers),
		Loads:       len(loads),
	}
	for _, d := range drivers {
		if d.Status == domain.DriverStatusReady {
			s.ReadyDrivers++
		}
	}
	for _, d := range dispatchers {
		if d.OnDuty {
			s.OnDuty++
		}
	}
	for _, l := range loads {
		switch l.Status {
		case domain.LoadStatusInTransit:
			s.InTransit++
		case domain.LoadStatusDelivered:
			s.Delivered++
		}
	}
	s.ReadyPercent = Percent(s.ReadyDrivers, s.Drivers)
	s.OnDutyPercent = Percent(s.OnDuty, s.Dispatchers)
	s.DeliveredPercent = Percent(s.Delivered, s.Loads)
	s.TotalRevenue = TotalRevenue(loads)
	return s
}

// RecentLoads previews the first n loads with their drivers and dispatcher.
func RecentLoads(loads []domain.Load, drivers []domain.Driver, dispatchers []domain.Dispatcher, n int) []RecentLoad {
	if n > len(loads) {
		n = len(loads)
	}
	if n < 0 {
		n = 0
	}
	out := make([]RecentLoad, n)
	for i, l := range loads[:n] {
		out[i] = RecentLoad{Load: l.Clone(), Drivers: query.ResolveDrivers(l, drivers)}
		if d, ok := query.ResolveDispatcher(l, dispatchers); ok {
			out[i].Dispatcher = &d
		}
	}
	return out
}
