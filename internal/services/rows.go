package services

import (
	"github.com/yungbote/applyflow-backend/internal/data/models"
	domainagg "github.com/yungbote/applyflow-backend/internal/domain/aggregates"
	"github.com/yungbote/applyflow-backend/internal/domain/applications"
)

// rehydrateRows converts list rows without their histories.
func rehydrateRows(op string, rows []*models.JobApplication) ([]*applications.Application, error) {
	out := make([]*applications.Application, 0, len(rows))
	for _, r := range rows {
		if r == nil {
			continue
		}
		app, err := applications.Rehydrate(r.Snapshot(nil))
		if err != nil {
			return nil, domainagg.Wrap(domainagg.CodeInvariantViolation, op, err)
		}
		out = append(out, app)
	}
	return out, nil
}

func notificationsToDomain(rows []*models.Notification) []*applications.Notification {
	out := make([]*applications.Notification, 0, len(rows))
	for _, r := range rows {
		if r != nil {
			out = append(out, r.ToDomain())
		}
	}
	return out
}
