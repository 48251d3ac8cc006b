// Package models holds the GORM row types for the applyflow tables and the
// mapping between rows and domain values.
package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/yungbote/applyflow-backend/internal/domain/applications"
)

// ── job_applications ─────────────────────────────────────────────

type JobApplication struct {
	ID                uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Company           string    `gorm:"size:255;not null" json:"company"`
	Position          string    `gorm:"size:255;not null" json:"position"`
	CurrentStatus     string    `gorm:"size:32;not null;index" json:"currentStatus"`
	AppliedDate       time.Time `gorm:"not null" json:"appliedDate"`
	Notes             string    `gorm:"type:text" json:"notes,omitempty"`
	Location          string    `gorm:"size:255" json:"location,omitempty"`
	SalaryExpectation *int      `json:"salaryExpectation,omitempty"`
	JobURL            string    `gorm:"column:job_url;size:2048" json:"jobUrl,omitempty"`
	Version           int       `gorm:"not null;default:1" json:"version"`
	CreatedAt         time.Time `gorm:"not null;autoCreateTime:false" json:"createdAt"`
	UpdatedAt         time.Time `gorm:"not null;index;autoUpdateTime:false" json:"updatedAt"`
}

func (JobApplication) TableName() string { return "job_applications" }

func ApplicationRowFromDomain(app *applications.Application) *JobApplication {
	if app == nil {
		return nil
	}
	d := app.Details()
	return &JobApplication{
		ID:                app.ID(),
		Company:           app.Company(),
		Position:          app.Position(),
		CurrentStatus:     string(app.Status()),
		AppliedDate:       app.AppliedDate().UTC(),
		Notes:             d.Notes,
		Location:          d.Location,
		SalaryExpectation: d.SalaryExpectation,
		JobURL:            d.JobURL,
		Version:           app.Version(),
		CreatedAt:         app.CreatedAt().UTC(),
		UpdatedAt:         app.UpdatedAt().UTC(),
	}
}

// Snapshot converts the row plus its events (newest first) into the
// aggregate's persisted form.
func (r *JobApplication) Snapshot(events []*ApplicationEvent) applications.Snapshot {
	evs := make([]applications.TransitionEvent, 0, len(events))
	for _, e := range events {
		if e != nil {
			evs = append(evs, e.ToDomain())
		}
	}
	return applications.Snapshot{
		ID:          r.ID,
		Company:     r.Company,
		Position:    r.Position,
		Status:      applications.Status(r.CurrentStatus),
		AppliedDate: r.AppliedDate.UTC(),
		Details: applications.Details{
			Notes:             r.Notes,
			Location:          r.Location,
			SalaryExpectation: r.SalaryExpectation,
			JobURL:            r.JobURL,
		},
		CreatedAt: r.CreatedAt.UTC(),
		UpdatedAt: r.UpdatedAt.UTC(),
		Version:   r.Version,
		Events:    evs,
	}
}

// ── application_events ───────────────────────────────────────────

type ApplicationEvent struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ApplicationID  uuid.UUID `gorm:"type:uuid;not null;index:idx_application_events_app_ts,priority:1;uniqueIndex:idx_application_events_app_seq,priority:1" json:"applicationId"`
	Seq            int       `gorm:"column:seq;not null;uniqueIndex:idx_application_events_app_seq,priority:2" json:"sequence"`
	PreviousStatus string    `gorm:"size:32;not null" json:"previousStatus"`
	NewStatus      string    `gorm:"size:32;not null" json:"newStatus"`
	Timestamp      time.Time `gorm:"column:timestamp;not null;index:idx_application_events_app_ts,priority:2" json:"timestamp"`
	Comment        string    `gorm:"size:500" json:"comment,omitempty"`
}

func (ApplicationEvent) TableName() string { return "application_events" }

func EventRowFromDomain(ev applications.TransitionEvent) *ApplicationEvent {
	return &ApplicationEvent{
		ID:             ev.ID,
		ApplicationID:  ev.ApplicationID,
		Seq:            ev.Sequence,
		PreviousStatus: string(ev.PreviousStatus),
		NewStatus:      string(ev.NewStatus),
		Timestamp:      ev.Timestamp.UTC(),
		Comment:        ev.Comment,
	}
}

func (r *ApplicationEvent) ToDomain() applications.TransitionEvent {
	return applications.TransitionEvent{
		ID:             r.ID,
		ApplicationID:  r.ApplicationID,
		Sequence:       r.Seq,
		PreviousStatus: applications.Status(r.PreviousStatus),
		NewStatus:      applications.Status(r.NewStatus),
		Timestamp:      r.Timestamp.UTC(),
		Comment:        r.Comment,
	}
}

// ── notifications ────────────────────────────────────────────────

type Notification struct {
	ID            uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	ApplicationID *uuid.UUID     `gorm:"type:uuid;index" json:"applicationId,omitempty"`
	Message       string         `gorm:"size:500;not null" json:"message"`
	Type          string         `gorm:"size:32;not null" json:"type"`
	Read          bool           `gorm:"column:read;not null;default:false;index" json:"read"`
	Data          datatypes.JSON `json:"data,omitempty"`
	CreatedAt     time.Time      `gorm:"not null;index;autoCreateTime:false" json:"createdAt"`
}

func (Notification) TableName() string { return "notifications" }

func NotificationRowFromDomain(n *applications.Notification) (*Notification, error) {
	if n == nil {
		return nil, nil
	}
	var data datatypes.JSON
	if len(n.Data) > 0 {
		raw, err := json.Marshal(n.Data)
		if err != nil {
			return nil, err
		}
		data = datatypes.JSON(raw)
	}
	return &Notification{
		ID:            n.ID,
		ApplicationID: n.ApplicationID,
		Message:       n.Message,
		Type:          string(n.Type),
		Read:          n.Read,
		Data:          data,
		CreatedAt:     n.CreatedAt.UTC(),
	}, nil
}

func (r *Notification) ToDomain() *applications.Notification {
	var data map[string]any
	if len(r.Data) > 0 {
		_ = json.Unmarshal(r.Data, &data)
	}
	return &applications.Notification{
		ID:            r.ID,
		ApplicationID: r.ApplicationID,
		Message:       r.Message,
		Type:          applications.NotificationType(r.Type),
		Read:          r.Read,
		Data:          data,
		CreatedAt:     r.CreatedAt.UTC(),
	}
}
