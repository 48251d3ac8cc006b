package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	dataagg "github.com/yungbote/applyflow-backend/internal/data/aggregates"
	"github.com/yungbote/applyflow-backend/internal/data/repos"
	domainagg "github.com/yungbote/applyflow-backend/internal/domain/aggregates"
	"github.com/yungbote/applyflow-backend/internal/domain/applications"
	"github.com/yungbote/applyflow-backend/internal/platform/clock"
	"github.com/yungbote/applyflow-backend/internal/platform/ctxutil"
	"github.com/yungbote/applyflow-backend/internal/platform/dbctx"
	"github.com/yungbote/applyflow-backend/internal/platform/logger"
	"github.com/yungbote/applyflow-backend/internal/realtime"
)

type CreateApplicationInput struct {
	Company           string
	Position          string
	Notes             string
	Location          string
	SalaryExpectation *int
	JobURL            string
}

// StatusCounter receives application lifecycle changes that happen outside
// of transitions.
type StatusCounter interface {
	RecordCreated(status applications.Status)
	RecordDeleted(status applications.Status)
}

type ApplicationService interface {
	Create(ctx context.Context, in CreateApplicationInput) (*applications.Application, error)
	Get(ctx context.Context, id uuid.UUID) (*applications.Application, error)
	List(ctx context.Context) ([]*applications.Application, error)
	ListByStatus(ctx context.Context, status applications.Status) ([]*applications.Application, error)
	// Timeline returns the application's events, newest first.
	Timeline(ctx context.Context, id uuid.UUID) ([]applications.TransitionEvent, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type ApplicationServiceDeps struct {
	Aggregate    domainagg.ApplicationAggregate
	Applications repos.ApplicationRepo
	Counters     StatusCounter
	Emitter      SSEEmitter
	Clock        clock.Clock
}

type applicationService struct {
	log  *logger.Logger
	deps ApplicationServiceDeps
}

func NewApplicationService(log *logger.Logger, deps ApplicationServiceDeps) ApplicationService {
	if deps.Clock == nil {
		deps.Clock = clock.System()
	}
	deps.Emitter = emitterOrNop(deps.Emitter)
	return &applicationService{
		log:  log.With("service", "ApplicationService"),
		deps: deps,
	}
}

func (s *applicationService) Create(ctx context.Context, in CreateApplicationInput) (*applications.Application, error) {
	const op = "applications.create"
	app, err := applications.New(uuid.New(), in.Company, in.Position, applications.Details{
		Notes:             in.Notes,
		Location:          in.Location,
		SalaryExpectation: in.SalaryExpectation,
		JobURL:            in.JobURL,
	}, s.deps.Clock.Now())
	if err != nil {
		return nil, domainagg.Classify(op, err)
	}
	if err := s.deps.Aggregate.CreateApplication(ctx, app); err != nil {
		return nil, err
	}
	if s.deps.Counters != nil {
		s.deps.Counters.RecordCreated(app.Status())
	}
	s.log.Info("application created",
		append(ctxutil.LogFields(ctx), "application_id", app.ID(), "company", app.Company(), "position", app.Position())...,
	)
	s.deps.Emitter.Emit(ctx, realtime.SSEMessage{
		Channel: realtime.ChannelApplications,
		Event:   realtime.SSEEventApplicationCreated,
		Data:    map[string]any{"applicationId": app.ID().String(), "status": app.Status()},
	})
	return app, nil
}

func (s *applicationService) Get(ctx context.Context, id uuid.UUID) (*applications.Application, error) {
	return s.deps.Aggregate.LoadApplication(ctx, id)
}

func (s *applicationService) List(ctx context.Context) ([]*applications.Application, error) {
	const op = "applications.list"
	rows, err := s.deps.Applications.List(dbctx.Context{Ctx: ctx})
	if err != nil {
		return nil, dataagg.MapError(op, err)
	}
	return rehydrateRows(op, rows)
}

func (s *applicationService) ListByStatus(ctx context.Context, status applications.Status) ([]*applications.Application, error) {
	const op = "applications.list_by_status"
	if !status.Valid() {
		return nil, domainagg.Classify(op, &applications.ValidationError{Field: "status", Reason: fmt.Sprintf("unknown application status %q", status)})
	}
	rows, err := s.deps.Applications.ListByStatus(dbctx.Context{Ctx: ctx}, status.String())
	if err != nil {
		return nil, dataagg.MapError(op, err)
	}
	return rehydrateRows(op, rows)
}

func (s *applicationService) Timeline(ctx context.Context, id uuid.UUID) ([]applications.TransitionEvent, error) {
	app, err := s.deps.Aggregate.LoadApplication(ctx, id)
	if err != nil {
		return nil, err
	}
	return app.Events(), nil
}

func (s *applicationService) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := s.deps.Aggregate.DeleteApplication(ctx, id)
	if err != nil {
		return err
	}
	if s.deps.Counters != nil {
		s.deps.Counters.RecordDeleted(res.Status)
	}
	s.log.Info("application deleted",
		append(ctxutil.LogFields(ctx), "application_id", id, "status", res.Status, "events_deleted", res.EventsDeleted)...,
	)
	s.deps.Emitter.Emit(ctx, realtime.SSEMessage{
		Channel: realtime.ChannelApplications,
		Event:   realtime.SSEEventApplicationDeleted,
		Data:    map[string]any{"applicationId": id.String()},
	})
	return nil
}
