package notifications

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/applyflow-backend/internal/data/models"
	"github.com/yungbote/applyflow-backend/internal/platform/dbctx"
	"github.com/yungbote/applyflow-backend/internal/platform/logger"
)

type NotificationRepo interface {
	Create(dbc dbctx.Context, row *models.Notification) error
	GetByID(dbc dbctx.Context, id uuid.UUID) (*models.Notification, error)
	List(dbc dbctx.Context, limit int) ([]*models.Notification, error)
	ListUnread(dbc dbctx.Context) ([]*models.Notification, error)
	ListByApplication(dbc dbctx.Context, applicationID uuid.UUID) ([]*models.Notification, error)
	CountUnread(dbc dbctx.Context) (int64, error)
	MarkRead(dbc dbctx.Context, id uuid.UUID) (bool, error)
	MarkAllRead(dbc dbctx.Context) (int64, error)
}

type notificationRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewNotificationRepo(db *gorm.DB, baseLog *logger.Logger) NotificationRepo {
	return &notificationRepo{
		db:  db,
		log: baseLog.With("repo", "NotificationRepo"),
	}
}

func (r *notificationRepo) Create(dbc dbctx.Context, row *models.Notification) error {
	if row == nil {
		return nil
	}
	return dbc.Or(r.db).Create(row).Error
}

func (r *notificationRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*models.Notification, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	var out []*models.Notification
	if err := dbc.Or(r.db).Where("id = ?", id).Limit(1).Find(&out).Error; err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}

// List returns notifications newest first. A non-positive limit means no limit.
func (r *notificationRepo) List(dbc dbctx.Context, limit int) ([]*models.Notification, error) {
	var out []*models.Notification
	q := dbc.Or(r.db).Order("created_at DESC").Order("id ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *notificationRepo) ListUnread(dbc dbctx.Context) ([]*models.Notification, error) {
	var out []*models.Notification
	if err := dbc.Or(r.db).
		Where(map[string]any{"read": false}).
		Order("created_at DESC").
		Order("id ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *notificationRepo) ListByApplication(dbc dbctx.Context, applicationID uuid.UUID) ([]*models.Notification, error) {
	var out []*models.Notification
	if applicationID == uuid.Nil {
		return out, nil
	}
	if err := dbc.Or(r.db).
		Where("application_id = ?", applicationID).
		Order("created_at DESC").
		Order("id ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *notificationRepo) CountUnread(dbc dbctx.Context) (int64, error) {
	var n int64
	if err := dbc.Or(r.db).
		Model(&models.Notification{}).
		Where(map[string]any{"read": false}).
		Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

// MarkRead reports false when no notification has the given id.
func (r *notificationRepo) MarkRead(dbc dbctx.Context, id uuid.UUID) (bool, error) {
	if id == uuid.Nil {
		return false, nil
	}
	res := dbc.Or(r.db).
		Model(&models.Notification{}).
		Where("id = ?", id).
		Update("read", true)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *notificationRepo) MarkAllRead(dbc dbctx.Context) (int64, error) {
	res := dbc.Or(r.db).
		Model(&models.Notification{}).
		Where(map[string]any{"read": false}).
		Update("read", true)
	return res.RowsAffected, res.Error
}
