package repos

import (
	"gorm.io/gorm"

	"github.com/yungbote/applyflow-backend/internal/data/repos/applications"
	"github.com/yungbote/applyflow-backend/internal/data/repos/notifications"
	"github.com/yungbote/applyflow-backend/internal/platform/logger"
)

type ApplicationRepo = applications.ApplicationRepo
type TransitionEventRepo = applications.TransitionEventRepo
type NotificationRepo = notifications.NotificationRepo

func NewApplicationRepo(db *gorm.DB, baseLog *logger.Logger) ApplicationRepo {
	return applications.NewApplicationRepo(db, baseLog)
}
func NewTransitionEventRepo(db *gorm.DB, baseLog *logger.Logger) TransitionEventRepo {
	return applications.NewTransitionEventRepo(db, baseLog)
}

func NewNotificationRepo(db *gorm.DB, baseLog *logger.Logger) NotificationRepo {
	return notifications.NewNotificationRepo(db, baseLog)
}
