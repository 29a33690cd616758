package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/fleet-dashboard/internal/appstate"
	"github.com/spec-kit/fleet-dashboard/internal/events"
	"github.com/spec-kit/fleet-dashboard/internal/store"
)

// NotificationService turns repository events into feed entries.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	state      *appstate.State
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger, state *appstate.State) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationService{
		dispatcher: dispatcher,
		logger:     logger,
		state:      state,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil || n.state == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventEntityCreated, n.handleEntityChanged)
	n.dispatcher.Subscribe(events.EventEntityUpdated, n.handleEntityChanged)
	n.dispatcher.Subscribe(events.EventEntityDeleted, n.handleEntityChanged)
	n.dispatcher.Subscribe(events.EventWriteFailed, n.handleFailure)
	n.dispatcher.Subscribe(events.EventReconcileFailed, n.handleFailure)
	n.dispatcher.Subscribe(events.EventLoadAllFailed, n.handleFailure)
}

func (n *NotificationService) handleEntityChanged(ctx context.Context, event events.Event) error {
	label := event.EntityID
	if p, ok := event.Payload.(events.EntityPayload); ok && strings.TrimSpace(p.Label) != "" {
		label = p.Label
	}
	verb := map[events.EventType]string{
		events.EventEntityCreated: "created",
		events.EventEntityUpdated: "updated",
		events.EventEntityDeleted: "deleted",
	}[event.Type]

	msg := fmt.Sprintf("%s %s %s", entityNoun(event.Collection), label, verb)
	n.notify(event, msg)
	return nil
}

func (n *NotificationService) handleFailure(ctx context.Context, event events.Event) error {
	p, _ := event.Payload.(events.FailurePayload)
	var msg string
	switch event.Type {
	case events.EventWriteFailed:
		msg = fmt.Sprintf("Saving %s failed: %s", event.Collection, p.Error)
	case events.EventReconcileFailed:
		msg = fmt.Sprintf("Could not refresh %s: %s", event.Collection, p.Error)
	default:
		msg = fmt.Sprintf("Could not load data: %s", p.Error)
	}
	n.logger.Warn("failure notification", zap.String("event_type", string(event.Type)), zap.String("collection", event.Collection))
	n.notify(event, msg)
	return nil
}

func (n *NotificationService) notify(event events.Event, msg string) {
	created := n.state.Notify(appstate.Notification{
		Message:    msg,
		Collection: event.Collection,
		EntityID:   event.EntityID,
		CreatedAt:  event.Timestamp,
	})
	n.logger.Debug("notification added",
		zap.String("notification_id", created.ID),
		zap.String("event_type", string(event.Type)))
}

func entityNoun(collection string) string {
	switch collection {
	case store.Drivers:
		return "Driver"
	case store.Dispatchers:
		return "Dispatcher"
	case store.Loads:
		return "Load"
	default:
		return "Record"
	}
}
