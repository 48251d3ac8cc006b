package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	dataagg "github.com/yungbote/applyflow-backend/internal/data/aggregates"
	domainagg "github.com/yungbote/applyflow-backend/internal/domain/aggregates"
	"github.com/yungbote/applyflow-backend/internal/domain/applications"
	"github.com/yungbote/applyflow-backend/internal/events"
	"github.com/yungbote/applyflow-backend/internal/observability"
	"github.com/yungbote/applyflow-backend/internal/platform/clock"
	"github.com/yungbote/applyflow-backend/internal/platform/ctxutil"
	"github.com/yungbote/applyflow-backend/internal/platform/logger"
)

const outcomeCommitted = "committed"

// TransitionCoordinator is the single write path for status changes.
type TransitionCoordinator interface {
	// ApplyTransition moves the application to target and returns it at its
	// new version. Failures carry aggregate codes: not_found,
	// invalid_transition, validation, conflict, retryable or internal.
	// Reactions run after the commit and never affect the result.
	ApplyTransition(ctx context.Context, id uuid.UUID, target applications.Status, comment string) (*applications.Application, error)
}

type TransitionCoordinatorDeps struct {
	Aggregate domainagg.ApplicationAggregate
	Publisher events.Publisher
	Clock     clock.Clock
	Metrics   *observability.Metrics
	Tracer    trace.Tracer
}

type transitionCoordinator struct {
	log  *logger.Logger
	deps TransitionCoordinatorDeps
}

func NewTransitionCoordinator(log *logger.Logger, deps TransitionCoordinatorDeps) TransitionCoordinator {
	if deps.Clock == nil {
		deps.Clock = clock.System()
	}
	if deps.Tracer == nil {
		deps.Tracer = observability.Tracer()
	}
	return &transitionCoordinator{
		log:  log.With("service", "TransitionCoordinator"),
		deps: deps,
	}
}

func (c *transitionCoordinator) ApplyTransition(ctx context.Context, id uuid.UUID, target applications.Status, comment string) (*applications.Application, error) {
	const op = "applications.apply_transition"
	ctx, span := c.deps.Tracer.Start(ctx, "TransitionCoordinator.ApplyTransition",
		trace.WithAttributes(
			attribute.String("application.id", id.String()),
			attribute.String("application.target_status", target.String()),
		),
	)
	defer span.End()

	from := applications.Status("")
	fail := func(err error) (*applications.Application, error) {
		code := string(domainagg.CodeOf(err))
		if code == "" {
			code = string(domainagg.CodeInternal)
		}
		c.deps.Metrics.IncTransition(from.String(), target.String(), code)
		span.RecordError(err)
		span.SetStatus(codes.Error, code)
		c.log.Debug("transition rejected",
			append(ctxutil.LogFields(ctx),
				"application_id", id,
				"from", from,
				"to", target,
				"code", code,
				"error", err,
			)...,
		)
		return nil, err
	}

	if !target.Valid() {
		return fail(domainagg.Classify(op, &applications.ValidationError{Field: "newStatus", Reason: "unknown status " + string(target)}))
	}
	if err := applications.ValidateComment(comment); err != nil {
		return fail(domainagg.Classify(op, err))
	}

	app, err := c.deps.Aggregate.LoadApplication(ctx, id)
	if err != nil {
		return fail(err)
	}
	from = app.Status()
	span.SetAttributes(attribute.String("application.previous_status", from.String()))

	ev, err := app.Transition(target, comment, c.deps.Clock.Now())
	if err != nil {
		return fail(domainagg.Classify(op, err))
	}

	if _, err := c.deps.Aggregate.SaveApplicationAndEvent(ctx, domainagg.SaveTransitionInput{
		Application: app,
		Event:       ev,
	}); err != nil {
		return fail(dataagg.MapError(op, err))
	}
	app.MarkCommitted()
	c.deps.Metrics.IncTransition(from.String(), target.String(), outcomeCommitted)
	c.log.Info("application transitioned",
		append(ctxutil.LogFields(ctx),
			"application_id", app.ID(),
			"from", from,
			"to", target,
			"version", app.Version(),
		)...,
	)

	if c.deps.Publisher != nil {
		start := time.Now()
		report := c.deps.Publisher.Dispatch(ctx, events.NewTransitionOccurred(app, ev))
		span.SetAttributes(
			attribute.Int("reactions.succeeded", len(report.Succeeded)),
			attribute.Int("reactions.failed", len(report.Failed)),
			attribute.Int64("reactions.duration_ms", time.Since(start).Milliseconds()),
		)
	}
	return app, nil
}
