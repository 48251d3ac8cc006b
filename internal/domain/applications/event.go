package applications

import (
	"time"

	"github.com/google/uuid"
)

// TransitionEvent is the immutable audit record of one committed status change.
// Sequence is the application version the event was appended at; it orders
// the history independently of wall-clock time.
type TransitionEvent struct {
	ID             uuid.UUID `json:"id"`
	ApplicationID  uuid.UUID `json:"applicationId"`
	Sequence       int       `json:"sequence"`
	PreviousStatus Status    `json:"previousStatus"`
	NewStatus      Status    `json:"newStatus"`
	Timestamp      time.Time `json:"timestamp"`
	Comment        string    `json:"comment,omitempty"`
}
