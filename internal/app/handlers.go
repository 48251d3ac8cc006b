package app

import (
	"gorm.io/gorm"

	httpH "github.com/yungbote/applyflow-backend/internal/http/handlers"
	"github.com/yungbote/applyflow-backend/internal/platform/logger"
	"github.com/yungbote/applyflow-backend/internal/realtime"
)

type Handlers struct {
	Health        *httpH.HealthHandler
	Applications  *httpH.ApplicationHandler
	Notifications *httpH.NotificationHandler
	Analytics     *httpH.AnalyticsHandler
	Realtime      *httpH.RealtimeHandler
}

func wireHandlers(db *gorm.DB, log *logger.Logger, services Services, sseHub *realtime.SSEHub) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:        httpH.NewHealthHandler(db),
		Applications:  httpH.NewApplicationHandler(services.Applications, services.Transitions),
		Notifications: httpH.NewNotificationHandler(services.Notifications),
		Analytics:     httpH.NewAnalyticsHandler(services.Analytics),
		Realtime:      httpH.NewRealtimeHandler(log, sseHub),
	}
}
