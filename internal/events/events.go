// Package events carries committed lifecycle facts from the transition
// coordinator to the reactions that derive side effects from them.
package events

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/applyflow-backend/internal/domain/applications"
)

// TransitionOccurred is published once per committed status change.
type TransitionOccurred struct {
	EventID        uuid.UUID           `json:"eventId"`
	ApplicationID  uuid.UUID           `json:"applicationId"`
	Company        string              `json:"company"`
	Position       string              `json:"position"`
	PreviousStatus applications.Status `json:"previousStatus"`
	NewStatus      applications.Status `json:"newStatus"`
	Comment        string              `json:"comment,omitempty"`
	OccurredAt     time.Time           `json:"occurredAt"`
}

// NewTransitionOccurred builds the notification for a committed event.
func NewTransitionOccurred(app *applications.Application, ev applications.TransitionEvent) TransitionOccurred {
	return TransitionOccurred{
		EventID:        ev.ID,
		ApplicationID:  app.ID(),
		Company:        app.Company(),
		Position:       app.Position(),
		PreviousStatus: ev.PreviousStatus,
		NewStatus:      ev.NewStatus,
		Comment:        ev.Comment,
		OccurredAt:     ev.Timestamp,
	}
}

// Reaction derives one side effect from a committed transition.
type Reaction interface {
	Name() string
	Handle(ctx context.Context, ev TransitionOccurred) error
}

// Publisher is what the coordinator needs from a dispatcher.
type Publisher interface {
	Dispatch(ctx context.Context, ev TransitionOccurred) Report
}
