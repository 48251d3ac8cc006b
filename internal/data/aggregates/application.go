package aggregates

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/yungbote/applyflow-backend/internal/data/models"
	"github.com/yungbote/applyflow-backend/internal/data/repos"
	domainagg "github.com/yungbote/applyflow-backend/internal/domain/aggregates"
	"github.com/yungbote/applyflow-backend/internal/domain/applications"
	"github.com/yungbote/applyflow-backend/internal/platform/dbctx"
)

const applicationsTable = "job_applications"

type ApplicationAggregateDeps struct {
	Base         BaseDeps
	Applications repos.ApplicationRepo
	Events       repos.TransitionEventRepo
}

type applicationAggregate struct {
	deps ApplicationAggregateDeps
}

func NewApplicationAggregate(deps ApplicationAggregateDeps) domainagg.ApplicationAggregate {
	deps.Base = deps.Base.withDefaults()
	return &applicationAggregate{deps: deps}
}

func (a *applicationAggregate) Contract() domainagg.Contract {
	return domainagg.ApplicationAggregateContract
}

func (a *applicationAggregate) LoadApplication(ctx context.Context, id uuid.UUID) (*applications.Application, error) {
	const op = "applications.load"
	if id == uuid.Nil {
		return nil, MapError(op, ValidationError("application id is required"))
	}
	var out *applications.Application
	err := a.deps.Base.Runner.InTx(ctx, func(dbc dbctx.Context) error {
		row, err := a.deps.Applications.GetByIDForShare(dbc, id)
		if err != nil {
			return err
		}
		if row == nil {
			return NotFoundError(fmt.Sprintf("application %s not found", id))
		}
		events, err := a.deps.Events.ListByApplication(dbc, id)
		if err != nil {
			return err
		}
		app, err := applications.Rehydrate(row.Snapshot(events))
		if err != nil {
			return InvariantError(err.Error())
		}
		out = app
		return nil
	})
	if err != nil {
		return nil, MapError(op, err)
	}
	return out, nil
}

func (a *applicationAggregate) CreateApplication(ctx context.Context, app *applications.Application) error {
	const op = "applications.create"
	if app == nil {
		return MapError(op, ValidationError("application is required"))
	}
	return executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		return a.deps.Applications.Create(dbc, models.ApplicationRowFromDomain(app))
	})
}

func (a *applicationAggregate) SaveApplicationAndEvent(ctx context.Context, in domainagg.SaveTransitionInput) (domainagg.SaveTransitionResult, error) {
	const op = "applications.save_transition"
	var out domainagg.SaveTransitionResult
	if err := validateSaveInput(in); err != nil {
		return out, MapError(op, err)
	}
	app := in.Application
	err := executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		ok, err := a.deps.Base.CASGuard.UpdateByVersion(dbc, applicationsTable, app.ID(), app.Version(), map[string]any{
			"current_status": string(app.Status()),
			"updated_at":     app.UpdatedAt().UTC(),
		})
		if err != nil {
			return err
		}
		if !ok {
			exists, err := a.deps.Applications.Exists(dbc, app.ID())
			if err != nil {
				return err
			}
			if !exists {
				return NotFoundError(fmt.Sprintf("application %s not found", app.ID()))
			}
			return RequireCASSuccess(false, fmt.Sprintf("application %s was modified concurrently (expected version %d)", app.ID(), app.Version()))
		}
		if err := a.deps.Events.Create(dbc, models.EventRowFromDomain(in.Event)); err != nil {
			return err
		}
		out = domainagg.SaveTransitionResult{
			ApplicationID: app.ID(),
			Version:       app.Version() + 1,
			TransitionAt:  in.Event.Timestamp,
		}
		return nil
	})
	if err != nil {
		return domainagg.SaveTransitionResult{}, err
	}
	return out, nil
}

func validateSaveInput(in domainagg.SaveTransitionInput) error {
	if in.Application == nil {
		return ValidationError("application is required")
	}
	ev := in.Event
	if ev.ID == uuid.Nil {
		return ValidationError("event id is required")
	}
	if ev.ApplicationID != in.Application.ID() {
		return InvariantError("event belongs to a different application")
	}
	if ev.NewStatus != in.Application.Status() {
		return InvariantError(fmt.Sprintf("event status %s does not match application status %s", ev.NewStatus, in.Application.Status()))
	}
	if ev.Timestamp.IsZero() {
		return ValidationError("event timestamp is required")
	}
	if ev.Sequence != in.Application.Version() {
		return InvariantError(fmt.Sprintf("event sequence %d does not match application version %d", ev.Sequence, in.Application.Version()))
	}
	return nil
}

func (a *applicationAggregate) DeleteApplication(ctx context.Context, id uuid.UUID) (domainagg.DeleteApplicationResult, error) {
	const op = "applications.delete"
	var out domainagg.DeleteApplicationResult
	if id == uuid.Nil {
		return out, MapError(op, ValidationError("application id is required"))
	}
	err := executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		row, err := a.deps.Applications.GetByID(dbc, id)
		if err != nil {
			return err
		}
		if row == nil {
			return NotFoundError(fmt.Sprintf("application %s not found", id))
		}
		removed, err := a.deps.Events.DeleteByApplication(dbc, id)
		if err != nil {
			return err
		}
		n, err := a.deps.Applications.DeleteByID(dbc, id)
		if err != nil {
			return err
		}
		if n == 0 {
			return ConflictError(fmt.Sprintf("application %s was deleted concurrently", id))
		}
		out = domainagg.DeleteApplicationResult{
			ApplicationID: id,
			Status:        applications.Status(row.CurrentStatus),
			EventsDeleted: removed,
		}
		return nil
	})
	if err != nil {
		return domainagg.DeleteApplicationResult{}, err
	}
	return out, nil
}
