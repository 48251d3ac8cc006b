package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/applyflow-backend/internal/http/handlers"
	httpMW "github.com/yungbote/applyflow-backend/internal/http/middleware"
	"github.com/yungbote/applyflow-backend/internal/observability"
	"github.com/yungbote/applyflow-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log         *logger.Logger
	Metrics     *observability.Metrics
	ServiceName string
	CORSOrigins []string

	ApplicationHandler  *httpH.ApplicationHandler
	NotificationHandler *httpH.NotificationHandler
	AnalyticsHandler    *httpH.AnalyticsHandler
	RealtimeHandler     *httpH.RealtimeHandler

	HealthHandler *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.ServiceName != "" {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.Metrics(cfg.Metrics))
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.CORS(cfg.CORSOrigins...))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}

	api := r.Group("/api")
	{
		api.GET("/statuses", httpH.Statuses)

		// Applications
		if h := cfg.ApplicationHandler; h != nil {
			api.GET("/applications", h.List)
			api.POST("/applications", h.Create)
			api.GET("/applications/status/:status", h.ListByStatus)
			api.GET("/applications/:id", h.Get)
			api.DELETE("/applications/:id", h.Delete)
			api.POST("/applications/:id/transition", h.Transition)
			api.GET("/applications/:id/timeline", h.Timeline)
		}

		// Notifications
		if h := cfg.NotificationHandler; h != nil {
			api.GET("/notifications", h.List)
			api.GET("/notifications/unread", h.ListUnread)
			api.GET("/notifications/unread/count", h.CountUnread)
			api.PATCH("/notifications/:id/read", h.MarkRead)
			api.POST("/notifications/mark-all-read", h.MarkAllRead)
		}

		// Analytics
		if h := cfg.AnalyticsHandler; h != nil {
			api.GET("/analytics/summary", h.Summary)
			api.POST("/analytics/resync", h.Resync)
		}

		// Realtime (SSE)
		if cfg.RealtimeHandler != nil {
			api.GET("/stream", cfg.RealtimeHandler.SSEStream)
		}
	}

	return r
}
