package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/applyflow-backend/internal/data/repos"
	"github.com/yungbote/applyflow-backend/internal/platform/logger"
)

type Repos struct {
	Applications  repos.ApplicationRepo
	Events        repos.TransitionEventRepo
	Notifications repos.NotificationRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		Applications:  repos.NewApplicationRepo(db, log),
		Events:        repos.NewTransitionEventRepo(db, log),
		Notifications: repos.NewNotificationRepo(db, log),
	}
}
