package applications

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yungbote/applyflow-backend/internal/data/models"
	"github.com/yungbote/applyflow-backend/internal/platform/dbctx"
	"github.com/yungbote/applyflow-backend/internal/platform/logger"
)

// TransitionEventRepo stores the append-only application_events history.
type TransitionEventRepo interface {
	Create(dbc dbctx.Context, row *models.ApplicationEvent) error
	ListByApplication(dbc dbctx.Context, applicationID uuid.UUID) ([]*models.ApplicationEvent, error)
	CountByApplication(dbc dbctx.Context, applicationID uuid.UUID) (int64, error)
	Count(dbc dbctx.Context) (int64, error)
	DeleteByApplication(dbc dbctx.Context, applicationID uuid.UUID) (int64, error)
}

type transitionEventRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTransitionEventRepo(db *gorm.DB, baseLog *logger.Logger) TransitionEventRepo {
	return &transitionEventRepo{
		db:  db,
		log: baseLog.With("repo", "TransitionEventRepo"),
	}
}

func (r *transitionEventRepo) Create(dbc dbctx.Context, row *models.ApplicationEvent) error {
	if row == nil {
		return nil
	}
	return dbc.Or(r.db).Create(row).Error
}

// ListByApplication returns events in reverse append order.
func (r *transitionEventRepo) ListByApplication(dbc dbctx.Context, applicationID uuid.UUID) ([]*models.ApplicationEvent, error) {
	var out []*models.ApplicationEvent
	if applicationID == uuid.Nil {
		return out, nil
	}
	if err := dbc.Or(r.db).
		Where("application_id = ?", applicationID).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "seq"}, Desc: true}).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "timestamp"}, Desc: true}).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *transitionEventRepo) CountByApplication(dbc dbctx.Context, applicationID uuid.UUID) (int64, error) {
	var n int64
	if err := dbc.Or(r.db).
		Model(&models.ApplicationEvent{}).
		Where("application_id = ?", applicationID).
		Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

func (r *transitionEventRepo) Count(dbc dbctx.Context) (int64, error) {
	var n int64
	if err := dbc.Or(r.db).Model(&models.ApplicationEvent{}).Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

func (r *transitionEventRepo) DeleteByApplication(dbc dbctx.Context, applicationID uuid.UUID) (int64, error) {
	if applicationID == uuid.Nil {
		return 0, nil
	}
	res := dbc.Or(r.db).Where("application_id = ?", applicationID).Delete(&models.ApplicationEvent{})
	return res.RowsAffected, res.Error
}
