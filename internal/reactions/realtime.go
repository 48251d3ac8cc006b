package reactions

import (
	"context"

	"github.com/yungbote/applyflow-backend/internal/events"
	"github.com/yungbote/applyflow-backend/internal/realtime"
)

const ReactionRealtime = "realtime"

// RealtimeBroadcaster pushes every committed transition to stream subscribers.
type RealtimeBroadcaster struct {
	emit      Emitter
	templates *MessageTemplates
}

func NewRealtimeBroadcaster(emit Emitter, templates *MessageTemplates) *RealtimeBroadcaster {
	if templates == nil {
		templates = DefaultMessageTemplates()
	}
	return &RealtimeBroadcaster{emit: emit, templates: templates}
}

func (r *RealtimeBroadcaster) Name() string { return ReactionRealtime }

func (r *RealtimeBroadcaster) Handle(ctx context.Context, ev events.TransitionOccurred) error {
	if r.emit == nil {
		return nil
	}
	data := map[string]any{"transition": ev}
	if msg, err := r.templates.Render(ev); err == nil {
		data["message"] = msg
	}
	r.emit.Emit(ctx, realtime.SSEMessage{
		Channel: realtime.ChannelApplications,
		Event:   realtime.SSEEventApplicationTransitioned,
		Data:    data,
	})
	return nil
}
