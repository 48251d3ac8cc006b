package handlers

import (
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/applyflow-backend/internal/domain/applications"
)

type ApplicationView struct {
	ID                 uuid.UUID                      `json:"id"`
	Company            string                         `json:"company"`
	Position           string                         `json:"position"`
	CurrentStatus      applications.Status            `json:"currentStatus"`
	CurrentStatusLabel string                         `json:"currentStatusLabel"`
	AppliedDate        time.Time                      `json:"appliedDate"`
	Notes              string                         `json:"notes,omitempty"`
	Location           string                         `json:"location,omitempty"`
	SalaryExpectation  *int                           `json:"salaryExpectation,omitempty"`
	JobURL             string                         `json:"jobUrl,omitempty"`
	Version            int                            `json:"version"`
	CreatedAt          time.Time                      `json:"createdAt"`
	UpdatedAt          time.Time                      `json:"updatedAt"`
	Events             []applications.TransitionEvent `json:"events,omitempty"`
}

func applicationView(app *applications.Application, withEvents bool) ApplicationView {
	d := app.Details()
	v := ApplicationView{
		ID:                 app.ID(),
		Company:            app.Company(),
		Position:           app.Position(),
		CurrentStatus:      app.Status(),
		CurrentStatusLabel: app.Status().Label(),
		AppliedDate:        app.AppliedDate(),
		Notes:              d.Notes,
		Location:           d.Location,
		SalaryExpectation:  d.SalaryExpectation,
		JobURL:             d.JobURL,
		Version:            app.Version(),
		CreatedAt:          app.CreatedAt(),
		UpdatedAt:          app.UpdatedAt(),
	}
	if withEvents {
		v.Events = app.Events()
	}
	return v
}

func applicationViews(apps []*applications.Application) []ApplicationView {
	out := make([]ApplicationView, 0, len(apps))
	for _, a := range apps {
		out = append(out, applicationView(a, false))
	}
	return out
}

type StatusView struct {
	Value    applications.Status   `json:"value"`
	Label    string                `json:"label"`
	Terminal bool                  `json:"terminal"`
	Targets  []applications.Status `json:"targets"`
}
