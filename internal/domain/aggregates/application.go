package aggregates

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/applyflow-backend/internal/domain/applications"
)

var ApplicationAggregateContract = Contract{
	Name:             "Applications.ApplicationAggregate",
	WriteTxOwnership: WriteTxOwnedByAggregate,
	ReadPolicy:       ReadPolicyInvariantScoped,
	Notes: "Owns the job_applications row and its application_events history. A status change " +
		"and its event are written in one transaction guarded by the row version.",
}

// ApplicationAggregate persists the application lifecycle.
//
// Write method failures return *aggregates.Error with codes:
// CodeValidation, CodeNotFound, CodeConflict, CodeRetryable, CodeInternal.
type ApplicationAggregate interface {
	Aggregate

	// LoadApplication reads the application together with its full history, newest first.
	LoadApplication(ctx context.Context, id uuid.UUID) (*applications.Application, error)

	// CreateApplication inserts a new application at version 1.
	CreateApplication(ctx context.Context, app *applications.Application) error

	// SaveApplicationAndEvent writes the new status and the event atomically.
	// It fails with CodeConflict when the stored version moved since load.
	SaveApplicationAndEvent(ctx context.Context, in SaveTransitionInput) (SaveTransitionResult, error)

	// DeleteApplication removes the application and its events atomically.
	DeleteApplication(ctx context.Context, id uuid.UUID) (DeleteApplicationResult, error)
}

type SaveTransitionInput struct {
	Application *applications.Application
	Event       applications.TransitionEvent
}

type SaveTransitionResult struct {
	ApplicationID uuid.UUID
	Version       int
	TransitionAt  time.Time
}

type DeleteApplicationResult struct {
	ApplicationID uuid.UUID
	Status        applications.Status
	EventsDeleted int64
}

// Classify maps domain failures onto aggregate codes.
func Classify(op string, err error) error {
	if err == nil {
		return nil
	}
	if CodeOf(err) != "" {
		return err
	}
	var ite *applications.InvalidTransitionError
	if errors.As(err, &ite) {
		return Wrap(CodeInvalidTransition, op, err)
	}
	var ve *applications.ValidationError
	if errors.As(err, &ve) {
		return Wrap(CodeValidation, op, err)
	}
	return Wrap(CodeInternal, op, err)
}
