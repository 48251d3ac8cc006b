package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/applyflow-backend/internal/domain/applications"
	"github.com/yungbote/applyflow-backend/internal/http/response"
	"github.com/yungbote/applyflow-backend/internal/services"
)

type ApplicationHandler struct {
	apps        services.ApplicationService
	transitions services.TransitionCoordinator
}

func NewApplicationHandler(apps services.ApplicationService, transitions services.TransitionCoordinator) *ApplicationHandler {
	return &ApplicationHandler{apps: apps, transitions: transitions}
}

type createApplicationRequest struct {
	Company           string `json:"company"`
	Position          string `json:"position"`
	Notes             string `json:"notes"`
	Location          string `json:"location"`
	SalaryExpectation *int   `json:"salaryExpectation"`
	JobURL            string `json:"jobUrl"`
}

type transitionRequest struct {
	NewStatus string `json:"newStatus"`
	Comment   string `json:"comment"`
}

// GET /api/applications
func (h *ApplicationHandler) List(c *gin.Context) {
	apps, err := h.apps.List(c.Request.Context())
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.RespondOK(c, applicationViews(apps))
}

// GET /api/applications/:id
func (h *ApplicationHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "invalid_application_id")
	if !ok {
		return
	}
	app, err := h.apps.Get(c.Request.Context(), id)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.RespondOK(c, applicationView(app, false))
}

// POST /api/applications
func (h *ApplicationHandler) Create(c *gin.Context) {
	var req createApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	app, err := h.apps.Create(c.Request.Context(), services.CreateApplicationInput{
		Company:           req.Company,
		Position:          req.Position,
		Notes:             req.Notes,
		Location:          req.Location,
		SalaryExpectation: req.SalaryExpectation,
		JobURL:            req.JobURL,
	})
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.RespondCreated(c, applicationView(app, false))
}

// DELETE /api/applications/:id
func (h *ApplicationHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "invalid_application_id")
	if !ok {
		return
	}
	if err := h.apps.Delete(c.Request.Context(), id); err != nil {
		response.Fail(c, err)
		return
	}
	response.RespondNoContent(c)
}

// POST /api/applications/:id/transition
func (h *ApplicationHandler) Transition(c *gin.Context) {
	id, ok := parseID(c, "invalid_application_id")
	if !ok {
		return
	}
	var req transitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	target, err := applications.ParseStatus(req.NewStatus)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_status", err)
		return
	}
	app, err := h.transitions.ApplyTransition(c.Request.Context(), id, target, strings.TrimSpace(req.Comment))
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.RespondOK(c, applicationView(app, false))
}

// GET /api/applications/:id/timeline
func (h *ApplicationHandler) Timeline(c *gin.Context) {
	id, ok := parseID(c, "invalid_application_id")
	if !ok {
		return
	}
	events, err := h.apps.Timeline(c.Request.Context(), id)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.RespondOK(c, events)
}

// GET /api/applications/status/:status
func (h *ApplicationHandler) ListByStatus(c *gin.Context) {
	status, err := applications.ParseStatus(c.Param("status"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_status", err)
		return
	}
	apps, err := h.apps.ListByStatus(c.Request.Context(), status)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.RespondOK(c, applicationViews(apps))
}

func parseID(c *gin.Context, code string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, code, err)
		return uuid.Nil, false
	}
	return id, true
}
