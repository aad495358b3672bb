package mqtt

import (
	"context"
	"errors"
	"testing"
)

// These tests exercise the parts of the client that do not need a broker.
// Broker-backed behaviour lives in integration_test.go behind the
// "integration" build tag.

func TestCloseNil(t *testing.T) {
	client := &Client{}
	err := client.Close()
	if err != nil {
		t.Errorf("Close() on nil client error = %v, want nil", err)
	}
}

func TestIsConnected_InitialState(t *testing.T) {
	client := &Client{}

	if client.IsConnected() {
		t.Error("IsConnected() should be false for uninitialised client")
	}
}

func TestHealthCheckDisconnected(t *testing.T) {
	client := &Client{}

	err := client.HealthCheck(context.Background())
	if !errors.Is(err, ErrNotConnected) {
		t.Errorf("HealthCheck() error = %v, want ErrNotConnected", err)
	}
}

func TestHealthCheckCancelled(t *testing.T) {
	client := &Client{}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := client.HealthCheck(ctx)
	if err == nil {
		t.Error("HealthCheck() expected error for cancelled context")
	}
}

func TestPublishValidation(t *testing.T) {
	client := &Client{}

	if err := client.Publish("", []byte("test"), 1, false); !errors.Is(err, ErrInvalidTopic) {
		t.Errorf("Publish() empty topic error = %v, want ErrInvalidTopic", err)
	}

	if err := client.Publish("test/topic", []byte("test"), 3, false); !errors.Is(err, ErrInvalidQoS) {
		t.Errorf("Publish() QoS 3 error = %v, want ErrInvalidQoS", err)
	}

	if err := client.Publish("test/topic", []byte("test"), 1, false); !errors.Is(err, ErrNotConnected) {
		t.Errorf("Publish() disconnected error = %v, want ErrNotConnected", err)
	}

	oversized := make([]byte, maxPayloadSize+1)
	if err := client.Publish("test/topic", oversized, 1, false); !errors.Is(err, ErrPublishFailed) {
		t.Errorf("Publish() oversized payload error = %v, want ErrPublishFailed", err)
	}
}

func TestSubscribeValidation(t *testing.T) {
	client := &Client{subscriptions: make(map[string]subscription)}
	handler := func(string, []byte) error { return nil }

	if err := client.Subscribe("", 1, handler); !errors.Is(err, ErrInvalidTopic) {
		t.Errorf("Subscribe() empty topic error = %v, want ErrInvalidTopic", err)
	}

	if err := client.Subscribe("test/topic", 3, handler); !errors.Is(err, ErrInvalidQoS) {
		t.Errorf("Subscribe() QoS 3 error = %v, want ErrInvalidQoS", err)
	}

	if err := client.Subscribe("test/topic", 1, nil); !errors.Is(err, ErrSubscribeFailed) {
		t.Errorf("Subscribe() nil handler error = %v, want ErrSubscribeFailed", err)
	}

	if err := client.Subscribe("test/topic", 1, handler); !errors.Is(err, ErrNotConnected) {
		t.Errorf("Subscribe() disconnected error = %v, want ErrNotConnected", err)
	}

	if client.SubscriptionCount() != 0 {
		t.Errorf("SubscriptionCount() = %d after failed subscribes, want 0", client.SubscriptionCount())
	}
}

func TestUnsubscribeValidation(t *testing.T) {
	client := &Client{subscriptions: make(map[string]subscription)}

	if err := client.Unsubscribe(""); !errors.Is(err, ErrInvalidTopic) {
		t.Errorf("Unsubscribe() empty topic error = %v, want ErrInvalidTopic", err)
	}

	if err := client.Unsubscribe("test/topic"); !errors.Is(err, ErrNotConnected) {
		t.Errorf("Unsubscribe() disconnected error = %v, want ErrNotConnected", err)
	}
}

func TestHasSubscription_NotSubscribed(t *testing.T) {
	client := &Client{subscriptions: make(map[string]subscription)}

	if client.HasSubscription("nonexistent/topic") {
		t.Error("HasSubscription() should be false for unsubscribed topic")
	}
}

func TestTopicBuilders(t *testing.T) {
	tests := []struct {
		name     string
		builder  func() string
		expected string
	}{
		{
			name:     "EventMotion",
			builder:  Topics{}.EventMotion,
			expected: "sentrygate/event/motion",
		},
		{
			name:     "EventDecision",
			builder:  Topics{}.EventDecision,
			expected: "sentrygate/event/decision",
		},
		{
			name:     "SystemStatus",
			builder:  Topics{}.SystemStatus,
			expected: "sentrygate/system/status",
		},
		{
			name:     "AllEvents",
			builder:  Topics{}.AllEvents,
			expected: "sentrygate/event/+",
		},
		{
			name:     "AllTopics",
			builder:  Topics{}.AllTopics,
			expected: "sentrygate/#",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.builder()
			if result != tt.expected {
				t.Errorf("%s() = %q, want %q", tt.name, result, tt.expected)
			}
		})
	}
}
