package mq

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestRouteFor(t *testing.T) {
	tests := []struct {
		msgType MessageType
		key     RoutingKey
	}{
		{MessageTypePostScheduled, RoutingKeyScheduled},
		{MessageTypePostPublished, RoutingKeyPublished},
		{MessageTypePostFailed, RoutingKeyFailed},
	}

	for _, tt := range tests {
		t.Run(string(tt.msgType), func(t *testing.T) {
			ex, key, err := RouteFor(tt.msgType)
			if err != nil {
				t.Fatalf("RouteFor() error = %v", err)
			}
			if ex != ExchangePosts || key != tt.key {
				t.Errorf("RouteFor() = %s/%s, want %s/%s", ex, key, ExchangePosts, tt.key)
			}
		})
	}

	if _, _, err := RouteFor("post.unknown"); err == nil {
		t.Error("RouteFor(unknown) expected error")
	}
}

func TestBindings_EveryRouteHasQueue(t *testing.T) {
	bound := make(map[RoutingKey]Queue)
	for _, b := range Bindings() {
		if b.Exchange == ExchangePosts {
			bound[b.RoutingKey] = b.Queue
		}
	}

	for _, mt := range []MessageType{MessageTypePostScheduled, MessageTypePostPublished, MessageTypePostFailed} {
		_, key, _ := RouteFor(mt)
		if _, ok := bound[key]; !ok {
			t.Errorf("routing key %s of %s has no bound queue", key, mt)
		}
	}
}

func TestParsePayload(t *testing.T) {
	at := time.Date(2024, 1, 2, 12, 0, 0, 0, time.UTC)

	// Payload после json-декодирования приходит как map[string]any
	msg := &Message{
		Type: MessageTypePostScheduled,
		Payload: map[string]any{
			"post_id":    float64(7),
			"channel_id": float64(3),
			"publish_at": at.Format(time.RFC3339),
		},
	}

	got, err := ParsePayload[PostScheduledPayload](msg)
	if err != nil {
		t.Fatalf("ParsePayload() error = %v", err)
	}
	if got.PostID != 7 || got.ChannelID != 3 || !got.PublishAt.Equal(at) {
		t.Errorf("ParsePayload() = %+v", got)
	}

	msg.Payload = map[string]any{"post_id": "seven"}
	if _, err := ParsePayload[PostScheduledPayload](msg); err == nil {
		t.Error("ParsePayload(bad) expected error")
	}
}

func TestNewMessage(t *testing.T) {
	a := NewMessage(MessageTypePostFailed, PostFailedPayload{PostID: 1})
	b := NewMessage(MessageTypePostFailed, PostFailedPayload{PostID: 1})

	if a.ID == "" || a.ID == b.ID {
		t.Errorf("message IDs must be unique and non-empty: %q %q", a.ID, b.ID)
	}
	if a.Timestamp.IsZero() {
		t.Error("Timestamp is not set")
	}
}

func TestPermanent(t *testing.T) {
	cause := errors.New("bad payload")
	err := Permanent(cause)

	if !errors.Is(err, ErrPermanent) {
		t.Error("Permanent() does not wrap ErrPermanent")
	}
	if !errors.Is(err, cause) {
		t.Error("Permanent() does not wrap the cause")
	}
}

func TestConnection_CheckWithoutConnection(t *testing.T) {
	c := &Connection{}

	if err := c.Check(context.Background()); !errors.Is(err, ErrNotConnected) {
		t.Errorf("Check() = %v, want ErrNotConnected", err)
	}
	if err := c.WithChannel(context.Background(), nil); !errors.Is(err, ErrNotConnected) {
		t.Errorf("WithChannel() = %v, want ErrNotConnected", err)
	}
}

func TestTopologyInfo_ListsEveryQueue(t *testing.T) {
	info := TopologyInfo()
	for _, b := range Bindings() {
		if !strings.Contains(info, string(b.Queue)) {
			t.Errorf("TopologyInfo() does not mention %s", b.Queue)
		}
	}
}
