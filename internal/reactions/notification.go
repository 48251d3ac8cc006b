package reactions

import (
	"context"
	"fmt"

	"github.com/yungbote/applyflow-backend/internal/domain/applications"
	"github.com/yungbote/applyflow-backend/internal/events"
	"github.com/yungbote/applyflow-backend/internal/platform/clock"
	"github.com/yungbote/applyflow-backend/internal/platform/logger"
	"github.com/yungbote/applyflow-backend/internal/realtime"
)

const ReactionNotification = "notification"

type NotificationSaver interface {
	Save(ctx context.Context, n *applications.Notification) error
}

// Emitter publishes a realtime message. It never reports delivery.
type Emitter interface {
	Emit(ctx context.Context, msg realtime.SSEMessage)
}

type NotificationGenerator struct {
	log       *logger.Logger
	templates *MessageTemplates
	store     NotificationSaver
	clock     clock.Clock
	emit      Emitter
}

// NewNotificationGenerator persists one STATUS_CHANGE notification per
// transition. emit may be nil.
func NewNotificationGenerator(log *logger.Logger, templates *MessageTemplates, store NotificationSaver, clk clock.Clock, emit Emitter) *NotificationGenerator {
	if templates == nil {
		templates = DefaultMessageTemplates()
	}
	if clk == nil {
		clk = clock.System()
	}
	return &NotificationGenerator{
		log:       log.With("reaction", ReactionNotification),
		templates: templates,
		store:     store,
		clock:     clk,
		emit:      emit,
	}
}

func (g *NotificationGenerator) Name() string { return ReactionNotification }

func (g *NotificationGenerator) Handle(ctx context.Context, ev events.TransitionOccurred) error {
	msg, err := g.templates.Render(ev)
	if err != nil {
		return err
	}
	appID := ev.ApplicationID
	n, err := applications.NewNotification(&appID, msg, applications.NotificationStatusChange, map[string]any{
		"eventId":        ev.EventID.String(),
		"applicationId":  ev.ApplicationID.String(),
		"previousStatus": ev.PreviousStatus.String(),
		"newStatus":      ev.NewStatus.String(),
	}, g.clock.Now())
	if err != nil {
		return err
	}
	if err := g.store.Save(ctx, n); err != nil {
		return fmt.Errorf("save notification: %w", err)
	}
	g.log.Debug("notification created", "notification_id", n.ID, "application_id", ev.ApplicationID)
	if g.emit != nil {
		g.emit.Emit(ctx, realtime.SSEMessage{
			Channel: realtime.ChannelNotifications,
			Event:   realtime.SSEEventNotificationCreated,
			Data:    map[string]any{"notification": n},
		})
	}
	return nil
}
