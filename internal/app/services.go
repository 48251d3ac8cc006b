package app

import (
	"fmt"

	"gorm.io/gorm"

	dataagg "github.com/yungbote/applyflow-backend/internal/data/aggregates"
	domainagg "github.com/yungbote/applyflow-backend/internal/domain/aggregates"
	"github.com/yungbote/applyflow-backend/internal/events"
	"github.com/yungbote/applyflow-backend/internal/observability"
	"github.com/yungbote/applyflow-backend/internal/platform/clock"
	"github.com/yungbote/applyflow-backend/internal/platform/logger"
	"github.com/yungbote/applyflow-backend/internal/reactions"
	"github.com/yungbote/applyflow-backend/internal/realtime"
	"github.com/yungbote/applyflow-backend/internal/services"
)

type Services struct {
	Emitter       services.SSEEmitter
	Aggregate     domainagg.ApplicationAggregate
	Counters      *reactions.AnalyticsCounters
	Dispatcher    *events.Dispatcher
	Transitions   services.TransitionCoordinator
	Applications  services.ApplicationService
	Notifications services.NotificationService
	Analytics     services.AnalyticsService
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, repoSet Repos, clients Clients, hub *realtime.SSEHub, metrics *observability.Metrics) (Services, error) {
	log.Info("Wiring services...")
	clk := clock.System()

	var emitter services.SSEEmitter = &services.HubEmitter{Hub: hub}
	if clients.SSEBus != nil {
		emitter = &services.RedisEmitter{Bus: clients.SSEBus, Log: log}
	}

	templates, err := reactions.LoadMessageTemplates(cfg.NotificationTemplates)
	if err != nil {
		return Services{}, fmt.Errorf("load notification templates: %w", err)
	}

	aggregate := dataagg.NewApplicationAggregate(dataagg.ApplicationAggregateDeps{
		Base: dataagg.BaseDeps{
			DB:    db,
			Log:   log,
			Hooks: dataagg.NewMetricsHooks(metrics),
		},
		Applications: repoSet.Applications,
		Events:       repoSet.Events,
	})

	counters := reactions.NewAnalyticsCounters(log, metrics)
	notifications := services.NewNotificationService(log, repoSet.Notifications, emitter)

	dispatcher := events.NewDispatcher(log, metrics, cfg.ReactionsParallel,
		counters,
		reactions.NewAuditLogger(log),
		reactions.NewNotificationGenerator(log, templates, notifications, clk, emitter),
		reactions.NewRealtimeBroadcaster(emitter, templates),
	)

	return Services{
		Emitter:       emitter,
		Aggregate:     aggregate,
		Counters:      counters,
		Dispatcher:    dispatcher,
		Notifications: notifications,
		Transitions: services.NewTransitionCoordinator(log, services.TransitionCoordinatorDeps{
			Aggregate: aggregate,
			Publisher: dispatcher,
			Clock:     clk,
			Metrics:   metrics,
		}),
		Applications: services.NewApplicationService(log, services.ApplicationServiceDeps{
			Aggregate:    aggregate,
			Applications: repoSet.Applications,
			Counters:     counters,
			Emitter:      emitter,
			Clock:        clk,
		}),
		Analytics: services.NewAnalyticsService(log, repoSet.Applications, repoSet.Events, counters),
	}, nil
}
