package app

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/applyflow-backend/internal/http"
	"github.com/yungbote/applyflow-backend/internal/observability"
	"github.com/yungbote/applyflow-backend/internal/platform/logger"
)

func wireRouter(log *logger.Logger, cfg Config, metrics *observability.Metrics, handlers Handlers) *gin.Engine {
	serviceName := ""
	if cfg.Otel.Enabled {
		serviceName = cfg.Otel.ServiceName
	}
	return http.NewRouter(http.RouterConfig{
		Log:                 log,
		Metrics:             metrics,
		ServiceName:         serviceName,
		CORSOrigins:         cfg.CORSOrigins,
		HealthHandler:       handlers.Health,
		ApplicationHandler:  handlers.Applications,
		NotificationHandler: handlers.Notifications,
		AnalyticsHandler:    handlers.Analytics,
		RealtimeHandler:     handlers.Realtime,
	})
}
