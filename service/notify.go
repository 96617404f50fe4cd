package service

import (
	"context"

	"taxifleet/pkg/auth"
)

const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)

// Event describes one committed fleet change.
type Event struct {
	Action string
	Kind   string
	ID     int64
	Label  string
	By     string
}

// Notifier is told about committed changes. Delivery failures are the
// notifier's concern; they never undo the change.
type Notifier interface {
	Notify(ctx context.Context, e Event)
}

type noopNotifier struct{}

func (noopNotifier) Notify(context.Context, Event) {}

func notify(ctx context.Context, n Notifier, action, kind string, id int64, label string) {
	e := Event{Action: action, Kind: kind, ID: id, Label: label}
	if d := auth.DriverFrom(ctx); d != nil {
		e.By = d.Username
	}
	n.Notify(ctx, e)
}
