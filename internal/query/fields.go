package query

import (
	"strings"

	"github.com/spec-kit/fleet-dashboard/internal/domain"
)

// DriverFields are the sortable driver columns.
var DriverFields = Fields[domain.Driver]{
	"name":           func(d domain.Driver) Value { return String(string(d.Name)) },
	"truckNumber":    func(d domain.Driver) Value { return String(string(d.TruckNumber)) },
	"totalGross":     func(d domain.Driver) Value { return Number(float64(d.TotalGross)) },
	"status":         func(d domain.Driver) Value { return String(string(d.Status)) },
	"completedLoads": func(d domain.Driver) Value { return Number(float64(d.CompletedLoads())) },
	"loads":          func(d domain.Driver) Value { return Number(float64(d.ActiveLoads())) },
}

// DispatcherFields are the sortable dispatcher columns.
var DispatcherFields = Fields[domain.Dispatcher]{
	"name": func(d domain.Dispatcher) Value { return String(string(d.Name)) },
	"onDuty": func(d domain.Dispatcher) Value {
		if d.OnDuty {
			return Number(1)
		}
		return Number(0)
	},
	"loads": func(d domain.Dispatcher) Value { return Number(float64(len(d.Loads))) },
	"teams": func(d domain.Dispatcher) Value { return String(strings.Join(d.Teams, ", ")) },
}

// LoadFields are the sortable load columns.
var LoadFields = Fields[domain.Load]{
	"load_id":     func(l domain.Load) Value { return String(string(l.LoadID)) },
	"city":        func(l domain.Load) Value { return String(string(l.City)) },
	"destination": func(l domain.Load) Value { return String(string(l.Destination)) },
	"totalMiles":  func(l domain.Load) Value { return amount(l.TotalMiles) },
	"rate":        func(l domain.Load) Value { return amount(l.Rate) },
	"rpm":         func(l domain.Load) Value { return amount(l.RPM) },
	"dispatcher":  func(l domain.Load) Value { return String(string(l.Dispatcher)) },
	"date":        func(l domain.Load) Value { return String(string(l.Date)) },
	"status":      func(l domain.Load) Value { return String(string(l.Status)) },
}

// amount sorts numeric text by value and falls back to the raw text.
func amount(t domain.Text) Value {
	if v, ok := t.Amount(); ok {
		return Number(v)
	}
	return String(string(t))
}
