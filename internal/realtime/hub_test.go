package realtime

import (
	"testing"
	"time"

	"github.com/yungbote/applyflow-backend/internal/observability"
	"github.com/yungbote/applyflow-backend/internal/platform/logger"
)

func mustTestLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("logger.New: %v", err)
	}
	t.Cleanup(log.Sync)
	return log
}

func recvMessage(t *testing.T, ch <-chan SSEMessage, timeout time.Duration) SSEMessage {
	t.Helper()
	select {
	case msg := <-ch:
		return msg
	case <-time.After(timeout):
		t.Fatalf("timed out waiting for SSE message")
	}
	return SSEMessage{}
}

func TestSSEHubOrderingAndReconnect(t *testing.T) {
	hub := NewSSEHub(mustTestLogger(t), nil, HubConfig{})

	clientA := hub.NewSSEClient()
	hub.AddChannel(clientA, ChannelApplications)

	hub.Broadcast(SSEMessage{Channel: ChannelApplications, Event: SSEEventApplicationCreated, Data: map[string]any{"seq": 1}})
	hub.Broadcast(SSEMessage{Channel: ChannelApplications, Event: SSEEventApplicationTransitioned, Data: map[string]any{"seq": 2}})

	if got := recvMessage(t, clientA.Outbound, time.Second); got.Event != SSEEventApplicationCreated {
		t.Fatalf("first event: got=%s", got.Event)
	}
	if got := recvMessage(t, clientA.Outbound, time.Second); got.Event != SSEEventApplicationTransitioned {
		t.Fatalf("second event: got=%s", got.Event)
	}

	hub.CloseClient(clientA)
	hub.CloseClient(clientA)
	if _, ok := <-clientA.Outbound; ok {
		t.Fatalf("clientA outbound should be closed after disconnect")
	}
	if n := hub.Subscribers(ChannelApplications); n != 0 {
		t.Fatalf("subscribers after close: %d", n)
	}

	clientB := hub.NewSSEClient()
	hub.AddChannel(clientB, ChannelApplications)
	hub.Broadcast(SSEMessage{Channel: ChannelApplications, Event: SSEEventApplicationDeleted})
	if got := recvMessage(t, clientB.Outbound, time.Second); got.Event != SSEEventApplicationDeleted {
		t.Fatalf("reconnect event: got=%s", got.Event)
	}
}

func TestSSEHubDropsWhenBufferFull(t *testing.T) {
	metrics := observability.New(time.Second)
	hub := NewSSEHub(mustTestLogger(t), metrics, HubConfig{ClientBuffer: 1})
	client := hub.NewSSEClient()
	hub.AddChannel(client, ChannelNotifications)

	done := make(chan struct{})
	go func() {
		for i := 0; i < 5; i++ {
			hub.Broadcast(SSEMessage{Channel: ChannelNotifications, Event: SSEEventNotificationCreated})
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("Broadcast blocked on a full client buffer")
	}
	if len(client.Outbound) != 1 {
		t.Fatalf("buffered=%d want 1", len(client.Outbound))
	}
}

func TestSSEHubIgnoresOtherChannels(t *testing.T) {
	hub := NewSSEHub(mustTestLogger(t), nil, HubConfig{})
	client := hub.NewSSEClient()
	hub.AddChannel(client, ChannelNotifications)
	hub.Broadcast(SSEMessage{Channel: ChannelApplications, Event: SSEEventApplicationCreated})
	hub.RemoveChannel(client, ChannelNotifications)
	hub.Broadcast(SSEMessage{Channel: ChannelNotifications, Event: SSEEventNotificationCreated})
	if len(client.Outbound) != 0 {
		t.Fatalf("client received %d unexpected messages", len(client.Outbound))
	}
}
