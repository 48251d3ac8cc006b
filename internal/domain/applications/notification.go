package applications

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type NotificationType string

const (
	NotificationStatusChange NotificationType = "STATUS_CHANGE"
	NotificationReminder     NotificationType = "REMINDER"
	NotificationSystem       NotificationType = "SYSTEM"
)

const MaxNotificationMessageLength = 500

func (t NotificationType) Valid() bool {
	switch t {
	case NotificationStatusChange, NotificationReminder, NotificationSystem:
		return true
	}
	return false
}

// Notification is a user-facing message, optionally tied to an application.
type Notification struct {
	ID            uuid.UUID        `json:"id"`
	ApplicationID *uuid.UUID       `json:"applicationId,omitempty"`
	Message       string           `json:"message"`
	Type          NotificationType `json:"type"`
	Read          bool             `json:"read"`
	Data          map[string]any   `json:"data,omitempty"`
	CreatedAt     time.Time        `json:"createdAt"`
}

// NewNotification builds an unread notification. Messages longer than the
// column limit are truncated.
func NewNotification(applicationID *uuid.UUID, message string, typ NotificationType, data map[string]any, now time.Time) (*Notification, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, &ValidationError{Field: "message", Reason: "is required"}
	}
	if !typ.Valid() {
		return nil, &ValidationError{Field: "type", Reason: fmt.Sprintf("unknown notification type %q", typ)}
	}
	if r := []rune(message); len(r) > MaxNotificationMessageLength {
		message = string(r[:MaxNotificationMessageLength])
	}
	return &Notification{
		ID:            uuid.New(),
		ApplicationID: applicationID,
		Message:       message,
		Type:          typ,
		Data:          data,
		CreatedAt:     now.UTC(),
	}, nil
}

// MarkRead flips the read flag and reports whether anything changed.
func (n *Notification) MarkRead() bool {
	if n.Read {
		return false
	}
	n.Read = true
	return true
}
