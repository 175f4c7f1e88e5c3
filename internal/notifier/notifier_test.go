package notifier

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shaiso/Ghostwriter/internal/delivery"
	"github.com/shaiso/Ghostwriter/internal/domain"
	"github.com/shaiso/Ghostwriter/internal/mq"
	"github.com/shaiso/Ghostwriter/internal/repo"
)

type channels map[int64]*domain.Channel

func (c channels) GetByID(_ context.Context, id int64) (*domain.Channel, error) {
	ch, ok := c[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return ch, nil
}

type dm struct {
	chatID string
	text   string
	mode   delivery.ParseMode
}

type fakeSink struct {
	sent []dm
	err  error
}

func (s *fakeSink) SendText(_ context.Context, chatID, text string, mode delivery.ParseMode) error {
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, dm{chatID, text, mode})
	return nil
}

func (s *fakeSink) SendPhoto(context.Context, string, string, string, delivery.ParseMode) error {
	return errors.New("unexpected photo")
}

func (s *fakeSink) SendVideo(context.Context, string, string, string, delivery.ParseMode) error {
	return errors.New("unexpected video")
}

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func setup() (*Notifier, *fakeSink, *clock) {
	sink := &fakeSink{}
	clk := &clock{t: time.Date(2024, 1, 2, 12, 0, 0, 0, time.UTC)}
	n := New(Config{
		Channels: channels{1: {ID: 1, OwnerID: 777, ExternalID: "@blog", Title: "My Blog"}},
		Sink:     sink,
		Location: time.UTC,
		Now:      clk.now,
	})
	return n, sink, clk
}

func event(msgType mq.MessageType, payload any) *mq.Delivery {
	return &mq.Delivery{Message: *mq.NewMessage(msgType, payload)}
}

func TestHandle_Published(t *testing.T) {
	n, sink, _ := setup()

	err := n.Handle(context.Background(), event(mq.MessageTypePostPublished,
		mq.PostPublishedPayload{PostID: 5, ChannelID: 1, Marked: true}))
	require.NoError(t, err)

	require.Len(t, sink.sent, 1)
	assert.Equal(t, "777", sink.sent[0].chatID)
	assert.Equal(t, delivery.ParseModePlain, sink.sent[0].mode)
	assert.Equal(t, "Post #5 published to My Blog (@blog).", sink.sent[0].text)
}

func TestHandle_PublishedWithFallbackAndUnmarked(t *testing.T) {
	n, sink, _ := setup()

	err := n.Handle(context.Background(), event(mq.MessageTypePostPublished,
		mq.PostPublishedPayload{PostID: 5, ChannelID: 1, PlainFallback: true, Marked: false}))
	require.NoError(t, err)

	require.Len(t, sink.sent, 1)
	assert.Contains(t, sink.sent[0].text, "sent as plain text")
	assert.Contains(t, sink.sent[0].text, "may be sent again")
}

func TestHandle_Scheduled(t *testing.T) {
	n, sink, _ := setup()

	err := n.Handle(context.Background(), event(mq.MessageTypePostScheduled, mq.PostScheduledPayload{
		PostID: 8, ChannelID: 1, PublishAt: time.Date(2024, 1, 3, 12, 0, 0, 0, time.UTC),
	}))
	require.NoError(t, err)

	require.Len(t, sink.sent, 1)
	assert.Equal(t, "Post #8 for My Blog (@blog) is queued for 2024-01-03 12:00.", sink.sent[0].text)
}

func TestHandle_FailedIsThrottled(t *testing.T) {
	n, sink, clk := setup()
	failed := mq.PostFailedPayload{PostID: 9, ChannelID: 1, Error: "chat not found"}

	for i := 0; i < 3; i++ {
		require.NoError(t, n.Handle(context.Background(), event(mq.MessageTypePostFailed, failed)))
		clk.t = clk.t.Add(time.Minute)
	}
	require.Len(t, sink.sent, 1)
	assert.Contains(t, sink.sent[0].text, "chat not found")
	assert.Contains(t, sink.sent[0].text, "stays queued")

	// После cooldown — снова уведомляем
	clk.t = clk.t.Add(DefaultFailureCooldown)
	require.NoError(t, n.Handle(context.Background(), event(mq.MessageTypePostFailed, failed)))
	assert.Len(t, sink.sent, 2)
}

func TestHandle_PublishedResetsFailureThrottle(t *testing.T) {
	n, sink, _ := setup()
	failed := mq.PostFailedPayload{PostID: 9, ChannelID: 1, Error: "boom"}

	require.NoError(t, n.Handle(context.Background(), event(mq.MessageTypePostFailed, failed)))
	require.NoError(t, n.Handle(context.Background(), event(mq.MessageTypePostPublished,
		mq.PostPublishedPayload{PostID: 9, ChannelID: 1, Marked: true})))
	require.NoError(t, n.Handle(context.Background(), event(mq.MessageTypePostFailed, failed)))

	assert.Len(t, sink.sent, 3)
}

func TestHandle_FailedSendIsRetried(t *testing.T) {
	n, sink, _ := setup()
	failed := mq.PostFailedPayload{PostID: 9, ChannelID: 1, Error: "boom"}

	sink.err = delivery.ErrDeliveryFailed
	err := n.Handle(context.Background(), event(mq.MessageTypePostFailed, failed))
	require.Error(t, err)
	assert.False(t, errors.Is(err, mq.ErrPermanent))

	// Повторная доставка того же события не должна подавляться
	sink.err = nil
	require.NoError(t, n.Handle(context.Background(), event(mq.MessageTypePostFailed, failed)))
	assert.Len(t, sink.sent, 1)
}

func TestHandle_PermanentErrors(t *testing.T) {
	n, _, _ := setup()

	tests := []struct {
		name string
		d    *mq.Delivery
	}{
		{"unknown channel", event(mq.MessageTypePostPublished, mq.PostPublishedPayload{PostID: 1, ChannelID: 404})},
		{"unknown type", event("post.exploded", map[string]any{})},
		{"bad payload", event(mq.MessageTypePostFailed, map[string]any{"post_id": "not a number"})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := n.Handle(context.Background(), tt.d)
			assert.ErrorIs(t, err, mq.ErrPermanent)
		})
	}
}

func TestHandle_FailureThrottleEvictsExpired(t *testing.T) {
	n, _, clk := setup()

	for _, id := range []int64{1, 2, 3} {
		require.NoError(t, n.Handle(context.Background(), event(mq.MessageTypePostFailed,
			mq.PostFailedPayload{PostID: id, ChannelID: 1, Error: "boom"})))
	}
	assert.Len(t, n.lastFailed, 3)

	// Посты 1–3 удалены из очереди и больше не падают
	clk.t = clk.t.Add(DefaultFailureCooldown)
	require.NoError(t, n.Handle(context.Background(), event(mq.MessageTypePostFailed,
		mq.PostFailedPayload{PostID: 4, ChannelID: 1, Error: "boom"})))

	assert.Len(t, n.lastFailed, 1)
	assert.Contains(t, n.lastFailed, int64(4))
}
