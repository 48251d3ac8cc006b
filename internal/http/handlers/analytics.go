package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/applyflow-backend/internal/domain/applications"
	"github.com/yungbote/applyflow-backend/internal/http/response"
	"github.com/yungbote/applyflow-backend/internal/services"
)

type AnalyticsHandler struct {
	analytics services.AnalyticsService
}

func NewAnalyticsHandler(analytics services.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analytics: analytics}
}

// GET /api/analytics/summary
func (h *AnalyticsHandler) Summary(c *gin.Context) {
	s, err := h.analytics.Summary(c.Request.Context())
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.RespondOK(c, s)
}

// POST /api/analytics/resync
func (h *AnalyticsHandler) Resync(c *gin.Context) {
	snap, err := h.analytics.Resync(c.Request.Context())
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.RespondOK(c, snap)
}

// GET /api/statuses
func Statuses(c *gin.Context) {
	all := applications.AllStatuses()
	out := make([]StatusView, 0, len(all))
	for _, s := range all {
		out = append(out, StatusView{
			Value:    s,
			Label:    s.Label(),
			Terminal: s.IsTerminal(),
			Targets:  applications.AllowedTargets(s),
		})
	}
	response.RespondOK(c, out)
}
