package applications

import (
	"fmt"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

const (
	MaxCommentLength  = 500
	MaxNotesLength    = 1000
	MaxCompanyLength  = 255
	MaxPositionLength = 255
)

// Details are the free-form descriptive fields of an application.
type Details struct {
	Notes             string `json:"notes,omitempty"`
	Location          string `json:"location,omitempty"`
	SalaryExpectation *int   `json:"salaryExpectation,omitempty"`
	JobURL            string `json:"jobUrl,omitempty"`
}

// Application is the aggregate root. Its status only changes through
// Transition, and every committed change leaves a TransitionEvent behind.
type Application struct {
	id          uuid.UUID
	company     string
	position    string
	status      Status
	appliedDate time.Time
	details     Details
	createdAt   time.Time
	updatedAt   time.Time
	version     int
	events      []TransitionEvent // newest first
}

// New starts a fresh application in the Applied status.
func New(id uuid.UUID, company, position string, details Details, now time.Time) (*Application, error) {
	if id == uuid.Nil {
		id = uuid.New()
	}
	company = strings.TrimSpace(company)
	position = strings.TrimSpace(position)
	if err := validateFields(company, position, details); err != nil {
		return nil, err
	}
	now = now.UTC()
	return &Application{
		id:          id,
		company:     company,
		position:    position,
		status:      StatusApplied,
		appliedDate: now,
		details:     details,
		createdAt:   now,
		updatedAt:   now,
		version:     1,
	}, nil
}

func validateFields(company, position string, d Details) error {
	if company == "" {
		return &ValidationError{Field: "company", Reason: "is required"}
	}
	if utf8.RuneCountInString(company) > MaxCompanyLength {
		return &ValidationError{Field: "company", Reason: fmt.Sprintf("must be at most %d characters", MaxCompanyLength)}
	}
	if position == "" {
		return &ValidationError{Field: "position", Reason: "is required"}
	}
	if utf8.RuneCountInString(position) > MaxPositionLength {
		return &ValidationError{Field: "position", Reason: fmt.Sprintf("must be at most %d characters", MaxPositionLength)}
	}
	if utf8.RuneCountInString(d.Notes) > MaxNotesLength {
		return &ValidationError{Field: "notes", Reason: fmt.Sprintf("must be at most %d characters", MaxNotesLength)}
	}
	if d.SalaryExpectation != nil && *d.SalaryExpectation < 0 {
		return &ValidationError{Field: "salaryExpectation", Reason: "must not be negative"}
	}
	if d.JobURL != "" {
		u, err := url.Parse(d.JobURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return &ValidationError{Field: "jobUrl", Reason: "must be an absolute URL"}
		}
	}
	return nil
}

// ValidateComment checks a transition comment without touching any state.
func ValidateComment(comment string) error {
	if utf8.RuneCountInString(comment) > MaxCommentLength {
		return &ValidationError{Field: "comment", Reason: fmt.Sprintf("must be at most %d characters", MaxCommentLength)}
	}
	return nil
}

func (a *Application) ID() uuid.UUID          { return a.id }
func (a *Application) Company() string        { return a.company }
func (a *Application) Position() string       { return a.position }
func (a *Application) Status() Status         { return a.status }
func (a *Application) AppliedDate() time.Time { return a.appliedDate }
func (a *Application) Details() Details       { return a.details }
func (a *Application) CreatedAt() time.Time   { return a.createdAt }
func (a *Application) UpdatedAt() time.Time   { return a.updatedAt }
func (a *Application) Version() int           { return a.version }

// Events returns the loaded transition history, newest first.
func (a *Application) Events() []TransitionEvent {
	out := make([]TransitionEvent, len(a.events))
	copy(out, a.events)
	return out
}

// Transition moves the application to target and records the event.
// On rejection the aggregate is left untouched. A clock that stepped back
// is clamped to the last update so timestamps never run against the history.
func (a *Application) Transition(target Status, comment string, now time.Time) (TransitionEvent, error) {
	if err := ValidateComment(comment); err != nil {
		return TransitionEvent{}, err
	}
	if !CanTransition(a.status, target) {
		return TransitionEvent{}, &InvalidTransitionError{From: a.status, To: target}
	}
	now = now.UTC()
	if now.Before(a.updatedAt) {
		now = a.updatedAt
	}
	ev := TransitionEvent{
		ID:             uuid.New(),
		ApplicationID:  a.id,
		Sequence:       a.version,
		PreviousStatus: a.status,
		NewStatus:      target,
		Timestamp:      now,
		Comment:        comment,
	}
	a.status = target
	a.updatedAt = now
	a.events = append([]TransitionEvent{ev}, a.events...)
	return ev, nil
}

// MarkCommitted advances the version after the store has persisted a change.
func (a *Application) MarkCommitted() {
	a.version++
}

// Snapshot is the flat persisted form of the aggregate.
type Snapshot struct {
	ID          uuid.UUID
	Company     string
	Position    string
	Status      Status
	AppliedDate time.Time
	Details     Details
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Version     int
	Events      []TransitionEvent
}

func (a *Application) Snapshot() Snapshot {
	return Snapshot{
		ID:          a.id,
		Company:     a.company,
		Position:    a.position,
		Status:      a.status,
		AppliedDate: a.appliedDate,
		Details:     a.details,
		CreatedAt:   a.createdAt,
		UpdatedAt:   a.updatedAt,
		Version:     a.version,
		Events:      a.Events(),
	}
}

// Rehydrate rebuilds an aggregate from storage. Events must be newest first
// and the newest one must agree with the stored status.
func Rehydrate(s Snapshot) (*Application, error) {
	if s.ID == uuid.Nil {
		return nil, &ValidationError{Field: "id", Reason: "is required"}
	}
	if !s.Status.Valid() {
		return nil, &ValidationError{Field: "status", Reason: fmt.Sprintf("unknown application status %q", s.Status)}
	}
	if len(s.Events) > 0 && s.Events[0].NewStatus != s.Status {
		return nil, fmt.Errorf("application %s: status %s disagrees with latest event %s", s.ID, s.Status, s.Events[0].NewStatus)
	}
	events := make([]TransitionEvent, len(s.Events))
	copy(events, s.Events)
	return &Application{
		id:          s.ID,
		company:     s.Company,
		position:    s.Position,
		status:      s.Status,
		appliedDate: s.AppliedDate.UTC(),
		details:     s.Details,
		createdAt:   s.CreatedAt.UTC(),
		updatedAt:   s.UpdatedAt.UTC(),
		version:     s.Version,
		events:      events,
	}, nil
}
