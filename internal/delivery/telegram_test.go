package delivery

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shaiso/Ghostwriter/internal/domain"
)

func newTestTelegram(t *testing.T, handler http.HandlerFunc) *Telegram {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewTelegram(TelegramConfig{
		Token:             "TEST-TOKEN",
		BaseURL:           server.URL,
		Timeout:           time.Second,
		MessagesPerMinute: 6000,
	})
}

func TestTelegram_SendText(t *testing.T) {
	var gotPath string
	var gotBody map[string]any

	tg := newTestTelegram(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.Write([]byte(`{"ok":true,"result":{}}`))
	})

	if err := tg.SendText(context.Background(), "@chan", "*hi*", ParseModeMarkdown); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotPath != "/botTEST-TOKEN/sendMessage" {
		t.Errorf("unexpected path %s", gotPath)
	}
	if gotBody["chat_id"] != "@chan" || gotBody["text"] != "*hi*" {
		t.Errorf("unexpected body %v", gotBody)
	}
	if gotBody["parse_mode"] != "Markdown" {
		t.Errorf("expected Markdown parse mode, got %v", gotBody["parse_mode"])
	}
}

func TestTelegram_PlainModeOmitsParseMode(t *testing.T) {
	var gotBody map[string]any
	tg := newTestTelegram(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.Write([]byte(`{"ok":true}`))
	})

	if err := tg.SendPhoto(context.Background(), "@chan", "file-1", "caption", ParseModePlain); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := gotBody["parse_mode"]; ok {
		t.Errorf("parse_mode should be omitted in plain mode, got %v", gotBody["parse_mode"])
	}
	if gotBody["photo"] != "file-1" {
		t.Errorf("expected photo file id, got %v", gotBody["photo"])
	}
}

func TestTelegram_FormatRejected(t *testing.T) {
	tg := newTestTelegram(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"ok":false,"error_code":400,"description":"Bad Request: can't parse entities: Can't find end of the entity starting at byte offset 3"}`))
	})

	err := tg.SendText(context.Background(), "@chan", "*broken", ParseModeMarkdown)
	if !errors.Is(err, ErrFormatRejected) {
		t.Fatalf("expected ErrFormatRejected, got %v", err)
	}
	if errors.Is(err, ErrDeliveryFailed) {
		t.Error("format rejection must not be classified as generic failure")
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Method != "sendMessage" {
		t.Errorf("expected APIError for sendMessage, got %v", err)
	}
}

func TestTelegram_ForbiddenIsDeliveryFailure(t *testing.T) {
	tg := newTestTelegram(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"ok":false,"error_code":403,"description":"Forbidden: bot is not a member of the channel chat"}`))
	})

	err := tg.SendVideo(context.Background(), "@chan", "vid", "c", ParseModeMarkdown)
	if !errors.Is(err, ErrDeliveryFailed) {
		t.Fatalf("expected ErrDeliveryFailed, got %v", err)
	}
	if IsFormatRejected(err) {
		t.Error("403 must not trigger plain fallback")
	}
}

func TestTelegram_TooManyRequests(t *testing.T) {
	tg := newTestTelegram(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"ok":false,"error_code":429,"description":"Too Many Requests","parameters":{"retry_after":15}}`))
	})

	err := tg.SendText(context.Background(), "@chan", "x", ParseModePlain)
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.RetryAfter != 15 {
		t.Errorf("expected retry_after=15, got %d", apiErr.RetryAfter)
	}
}

func TestTelegram_NetworkErrorHidesToken(t *testing.T) {
	tg := NewTelegram(TelegramConfig{
		Token:   "SECRET",
		BaseURL: "http://127.0.0.1:1",
		Timeout: 200 * time.Millisecond,
	})

	err := tg.SendText(context.Background(), "@chan", "x", ParseModePlain)
	if !errors.Is(err, ErrDeliveryFailed) {
		t.Fatalf("expected ErrDeliveryFailed, got %v", err)
	}
	if strings.Contains(err.Error(), "SECRET") {
		t.Errorf("token leaked into error: %v", err)
	}
}

// recordingSink запоминает, каким методом отправлен пост.
type recordingSink struct {
	calls []string
}

func (s *recordingSink) SendText(_ context.Context, _, _ string, _ ParseMode) error {
	s.calls = append(s.calls, "text")
	return nil
}

func (s *recordingSink) SendPhoto(_ context.Context, _, _, _ string, _ ParseMode) error {
	s.calls = append(s.calls, "photo")
	return nil
}

func (s *recordingSink) SendVideo(_ context.Context, _, _, _ string, _ ParseMode) error {
	s.calls = append(s.calls, "video")
	return nil
}

func TestSendPost_BranchesOnMediaKind(t *testing.T) {
	sink := &recordingSink{}
	ctx := context.Background()

	posts := []domain.ScheduledPost{
		{Body: "text"},
		{Body: "photo", Media: &domain.Media{ID: "p", Kind: domain.MediaKindPhoto}},
		{Body: "video", Media: &domain.Media{ID: "v", Kind: domain.MediaKindVideo}},
	}
	for i := range posts {
		if err := SendPost(ctx, sink, "@chan", &posts[i], ParseModeMarkdown); err != nil {
			t.Fatalf("post %d: %v", i, err)
		}
	}

	want := []string{"text", "photo", "video"}
	for i := range want {
		if sink.calls[i] != want[i] {
			t.Errorf("call %d: expected %s, got %s", i, want[i], sink.calls[i])
		}
	}
}

func TestSendPost_UnknownMediaKind(t *testing.T) {
	post := &domain.ScheduledPost{Body: "x", Media: &domain.Media{ID: "a", Kind: "audio"}}

	err := SendPost(context.Background(), &recordingSink{}, "@chan", post, ParseModeMarkdown)
	if !errors.Is(err, ErrUnsupportedMedia) || !errors.Is(err, ErrDeliveryFailed) {
		t.Fatalf("expected unsupported media delivery failure, got %v", err)
	}
}

func TestNewSink(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	if _, err := NewSink(TelegramConfig{}, false, logger); !errors.Is(err, ErrNoToken) {
		t.Errorf("NewSink(no token) error = %v, want ErrNoToken", err)
	}

	sink, err := NewSink(TelegramConfig{}, true, logger)
	if err != nil {
		t.Fatalf("NewSink(dry run) error = %v", err)
	}
	if _, ok := sink.(*LogSink); !ok {
		t.Errorf("NewSink(dry run) = %T, want *LogSink", sink)
	}

	sink, err = NewSink(TelegramConfig{Token: "123:abc"}, false, logger)
	if err != nil {
		t.Fatalf("NewSink(token) error = %v", err)
	}
	if _, ok := sink.(*Telegram); !ok {
		t.Errorf("NewSink(token) = %T, want *Telegram", sink)
	}
}
