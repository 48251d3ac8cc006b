package realtime

type SSEEvent string

const (
	SSEEventApplicationCreated      SSEEvent = "ApplicationCreated"
	SSEEventApplicationTransitioned SSEEvent = "ApplicationTransitioned"
	SSEEventApplicationDeleted      SSEEvent = "ApplicationDeleted"
	SSEEventNotificationCreated     SSEEvent = "NotificationCreated"
	SSEEventNotificationsRead       SSEEvent = "NotificationsRead"
)

// Channels every stream subscribes to unless the client asks otherwise.
const (
	ChannelApplications  = "applications"
	ChannelNotifications = "notifications"
)

func DefaultChannels() []string {
	return []string{ChannelApplications, ChannelNotifications}
}

type SSEMessage struct {
	Channel string   `json:"channel"`
	Event   SSEEvent `json:"event"`
	Data    any      `json:"data,omitempty"`
}
