package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	dataagg "github.com/yungbote/applyflow-backend/internal/data/aggregates"
	"github.com/yungbote/applyflow-backend/internal/data/models"
	"github.com/yungbote/applyflow-backend/internal/data/repos"
	domainagg "github.com/yungbote/applyflow-backend/internal/domain/aggregates"
	"github.com/yungbote/applyflow-backend/internal/domain/applications"
	"github.com/yungbote/applyflow-backend/internal/platform/dbctx"
	"github.com/yungbote/applyflow-backend/internal/platform/logger"
	"github.com/yungbote/applyflow-backend/internal/realtime"
)

type NotificationService interface {
	Save(ctx context.Context, n *applications.Notification) error
	Get(ctx context.Context, id uuid.UUID) (*applications.Notification, error)
	List(ctx context.Context) ([]*applications.Notification, error)
	ListUnread(ctx context.Context) ([]*applications.Notification, error)
	ListByApplication(ctx context.Context, applicationID uuid.UUID) ([]*applications.Notification, error)
	CountUnread(ctx context.Context) (int64, error)
	// MarkRead is idempotent; it fails with not_found for unknown ids.
	MarkRead(ctx context.Context, id uuid.UUID) (*applications.Notification, error)
	// MarkAllRead returns how many notifications flipped to read.
	MarkAllRead(ctx context.Context) (int64, error)
}

type notificationService struct {
	log     *logger.Logger
	repo    repos.NotificationRepo
	emitter SSEEmitter
}

func NewNotificationService(log *logger.Logger, repo repos.NotificationRepo, emitter SSEEmitter) NotificationService {
	return &notificationService{
		log:     log.With("service", "NotificationService"),
		repo:    repo,
		emitter: emitterOrNop(emitter),
	}
}

func (s *notificationService) Save(ctx context.Context, n *applications.Notification) error {
	const op = "notifications.save"
	if n == nil {
		return domainagg.NewError(domainagg.CodeValidation, op, "notification is required", nil)
	}
	row, err := models.NotificationRowFromDomain(n)
	if err != nil {
		return domainagg.Wrap(domainagg.CodeValidation, op, err)
	}
	if err := s.repo.Create(dbctx.Context{Ctx: ctx}, row); err != nil {
		return dataagg.MapError(op, err)
	}
	return nil
}

func (s *notificationService) Get(ctx context.Context, id uuid.UUID) (*applications.Notification, error) {
	const op = "notifications.get"
	row, err := s.repo.GetByID(dbctx.Context{Ctx: ctx}, id)
	if err != nil {
		return nil, dataagg.MapError(op, err)
	}
	if row == nil {
		return nil, domainagg.NewError(domainagg.CodeNotFound, op, fmt.Sprintf("notification %s not found", id), nil)
	}
	return row.ToDomain(), nil
}

func (s *notificationService) List(ctx context.Context) ([]*applications.Notification, error) {
	rows, err := s.repo.List(dbctx.Context{Ctx: ctx}, 0)
	if err != nil {
		return nil, dataagg.MapError("notifications.list", err)
	}
	return notificationsToDomain(rows), nil
}

func (s *notificationService) ListUnread(ctx context.Context) ([]*applications.Notification, error) {
	rows, err := s.repo.ListUnread(dbctx.Context{Ctx: ctx})
	if err != nil {
		return nil, dataagg.MapError("notifications.list_unread", err)
	}
	return notificationsToDomain(rows), nil
}

func (s *notificationService) ListByApplication(ctx context.Context, applicationID uuid.UUID) ([]*applications.Notification, error) {
	rows, err := s.repo.ListByApplication(dbctx.Context{Ctx: ctx}, applicationID)
	if err != nil {
		return nil, dataagg.MapError("notifications.list_by_application", err)
	}
	return notificationsToDomain(rows), nil
}

func (s *notificationService) CountUnread(ctx context.Context) (int64, error) {
	n, err := s.repo.CountUnread(dbctx.Context{Ctx: ctx})
	if err != nil {
		return 0, dataagg.MapError("notifications.count_unread", err)
	}
	return n, nil
}

func (s *notificationService) MarkRead(ctx context.Context, id uuid.UUID) (*applications.Notification, error) {
	const op = "notifications.mark_read"
	found, err := s.repo.MarkRead(dbctx.Context{Ctx: ctx}, id)
	if err != nil {
		return nil, dataagg.MapError(op, err)
	}
	if !found {
		return nil, domainagg.NewError(domainagg.CodeNotFound, op, fmt.Sprintf("notification %s not found", id), nil)
	}
	n, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	s.emitter.Emit(ctx, realtime.SSEMessage{
		Channel: realtime.ChannelNotifications,
		Event:   realtime.SSEEventNotificationsRead,
		Data:    map[string]any{"ids": []string{id.String()}},
	})
	return n, nil
}

func (s *notificationService) MarkAllRead(ctx context.Context) (int64, error) {
	n, err := s.repo.MarkAllRead(dbctx.Context{Ctx: ctx})
	if err != nil {
		return 0, dataagg.MapError("notifications.mark_all_read", err)
	}
	if n > 0 {
		s.log.Debug("notifications marked read", "count", n)
		s.emitter.Emit(ctx, realtime.SSEMessage{
			Channel: realtime.ChannelNotifications,
			Event:   realtime.SSEEventNotificationsRead,
			Data:    map[string]any{"all": true, "count": n},
		})
	}
	return n, nil
}
