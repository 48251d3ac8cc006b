package reactions

import (
	"context"

	"github.com/yungbote/applyflow-backend/internal/events"
	"github.com/yungbote/applyflow-backend/internal/platform/ctxutil"
	"github.com/yungbote/applyflow-backend/internal/platform/logger"
)

const ReactionAudit = "audit"

type AuditLogger struct {
	log *logger.Logger
}

func NewAuditLogger(log *logger.Logger) *AuditLogger {
	return &AuditLogger{log: log.With("reaction", ReactionAudit)}
}

func (a *AuditLogger) Name() string { return ReactionAudit }

func (a *AuditLogger) Handle(ctx context.Context, ev events.TransitionOccurred) error {
	a.log.Info("AUDIT application transitioned",
		append(ctxutil.LogFields(ctx),
			"event_id", ev.EventID,
			"application_id", ev.ApplicationID,
			"company", ev.Company,
			"position", ev.Position,
			"previous_status", ev.PreviousStatus,
			"new_status", ev.NewStatus,
			"comment", ev.Comment,
			"occurred_at", ev.OccurredAt,
		)...,
	)
	return nil
}
