package query

import "github.com/spec-kit/fleet-dashboard/internal/domain"

// ResolveDrivers finds the drivers a load is assigned to. Loads reference
// drivers by name, so a renamed driver simply stops resolving.
func ResolveDrivers(load domain.Load, drivers []domain.Driver) []domain.Driver {
	out := make([]domain.Driver, 0, len(load.AssignedTo))
	for _, name := range load.AssignedTo {
		for _, d := range drivers {
			if string(d.Name) == name {
				out = append(out, d.Clone())
				break
			}
		}
	}
	return out
}

// ResolveDispatcher finds the dispatcher named on a load.
func ResolveDispatcher(load domain.Load, dispatchers []domain.Dispatcher) (domain.Dispatcher, bool) {
	if load.Dispatcher == "" {
		return domain.Dispatcher{}, false
	}
	for _, d := range dispatchers {
		if d.Name == load.Dispatcher {
			return d.Clone(), true
		}
	}
	return domain.Dispatcher{}, false
}
