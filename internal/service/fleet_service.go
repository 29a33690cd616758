package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/fleet-dashboard/internal/aggregate"
	"github.com/spec-kit/fleet-dashboard/internal/appstate"
	"github.com/spec-kit/fleet-dashboard/internal/domain"
	"github.com/spec-kit/fleet-dashboard/internal/query"
	"github.com/spec-kit/fleet-dashboard/internal/repository"
)

// FleetService is the read and write surface used by the HTTP handlers. Reads
// run the query engine over repository snapshots; writes go straight to the
// repository.
type FleetService struct {
	repo   *repository.EntityRepository
	state  *appstate.State
	logger *zap.Logger
}

// NewFleetService creates the service.
func NewFleetService(repo *repository.EntityRepository, state *appstate.State, logger *zap.Logger) *FleetService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FleetService{repo: repo, state: state, logger: logger}
}

// ListDrivers filters and sorts the driver snapshot.
func (s *FleetService) ListDrivers(q query.DriverQuery) ([]domain.Driver, error) {
	return query.Drivers(s.repo.Drivers(), q)
}

// ListDispatchers filters and sorts the dispatcher snapshot.
func (s *FleetService) ListDispatchers(q query.DispatcherQuery) ([]domain.Dispatcher, error) {
	return query.Dispatchers(s.repo.Dispatchers(), q)
}

// ListLoads filters and sorts the load snapshot.
func (s *FleetService) ListLoads(q query.LoadQuery) ([]domain.Load, error) {
	return query.Loads(s.repo.Loads(), q)
}

// DispatcherDetail is a dispatcher with the loads that name it.
type DispatcherDetail struct {
	Dispatcher domain.Dispatcher
	Loads      []domain.Load
}

// Dispatcher returns one dispatcher and its loads.
func (s *FleetService) Dispatcher(id string) (DispatcherDetail, error) {
	d, err := s.repo.Dispatcher(id)
	if err != nil {
		return DispatcherDetail{}, err
	}
	loads := []domain.Load{}
	for _, l := range s.repo.Loads() {
		if l.Dispatcher == d.Name {
			loads = append(loads, l)
		}
	}
	return DispatcherDetail{Dispatcher: d, Loads: loads}, nil
}

// Dashboard aggregates one consistent snapshot.
func (s *FleetService) Dashboard(recent int) aggregate.Dashboard {
	snap := s.repo.Snapshot()
	unread := 0
	if s.state != nil {
		unread = s.state.UnreadCount()
	}
	return aggregate.Build(aggregate.Input{
		Drivers:     snap.Drivers,
		Dispatchers: snap.Dispatchers,
		Loads:       snap.Loads,
		Unread:      unread,
		RecentLimit: recent,
	})
}

func (s *FleetService) AddDriver(ctx context.Context, d domain.Driver) (repository.Result[domain.Driver], error) {
	return s.repo.AddDriver(ctx, d)
}

func (s *FleetService) UpdateDriver(ctx context.Context, d domain.Driver) (repository.Result[domain.Driver], error) {
	return s.repo.UpdateDriver(ctx, d)
}

func (s *FleetService) DeleteDriver(ctx context.Context, id string) (repository.Result[domain.Driver], error) {
	return s.repo.DeleteDriver(ctx, id)
}

func (s *FleetService) AddDispatcher(ctx context.Context, d domain.Dispatcher) (repository.Result[domain.Dispatcher], error) {
	return s.repo.AddDispatcher(ctx, d)
}

func (s *FleetService) UpdateDispatcher(ctx context.Context, d domain.Dispatcher) (repository.Result[domain.Dispatcher], error) {
	return s.repo.UpdateDispatcher(ctx, d)
}

func (s *FleetService) DeleteDispatcher(ctx context.Context, id string) (repository.Result[domain.Dispatcher], error) {
	return s.repo.DeleteDispatcher(ctx, id)
}

// UpsertLoad creates, replaces or deletes depending on the input's shape.
func (s *FleetService) UpsertLoad(ctx context.Context, l domain.Load) (repository.Result[domain.Load], error) {
	return s.repo.UpsertLoad(ctx, l)
}

func (s *FleetService) DeleteLoad(ctx context.Context, id string) (repository.Result[domain.Load], error) {
	return s.repo.DeleteLoad(ctx, id)
}

// Refresh refetches one collection on demand.
func (s *FleetService) Refresh(ctx context.Context, collection string) error {
	if err := s.repo.Refresh(ctx, collection); err != nil {
		return err
	}
	s.logger.Info("collection refreshed on request", zap.String("collection", collection))
	return nil
}

// Status reports the initial load outcome.
func (s *FleetService) Status() repository.Status {
	return s.repo.Status()
}
