package delivery

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// DefaultTelegramURL — адрес Bot API.
const DefaultTelegramURL = "https://api.telegram.org"

// formatErrorMarkers — фрагменты описания ошибки Bot API, означающие отказ разметки.
var formatErrorMarkers = []string{
	"can't parse entities",
	"can't find end of the entity",
	"unsupported start tag",
}

// APIError — ошибка, возвращённая Bot API.
type APIError struct {
	Method      string
	Code        int
	Description string
	RetryAfter  int
}

func (e *APIError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("telegram %s: %d %s (retry after %ds)", e.Method, e.Code, e.Description, e.RetryAfter)
	}
	return fmt.Sprintf("telegram %s: %d %s", e.Method, e.Code, e.Description)
}

// Unwrap относит ошибку к классу ErrFormatRejected или ErrDeliveryFailed.
func (e *APIError) Unwrap() error {
	if e.Code == http.StatusBadRequest {
		desc := strings.ToLower(e.Description)
		for _, marker := range formatErrorMarkers {
			if strings.Contains(desc, marker) {
				return ErrFormatRejected
			}
		}
	}
	return ErrDeliveryFailed
}

// Telegram — Sink поверх Telegram Bot API.
type Telegram struct {
	baseURL    string
	token      string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// TelegramConfig — конфигурация Telegram.
type TelegramConfig struct {
	Token   string
	BaseURL string        // default: https://api.telegram.org
	Timeout time.Duration // default: 30s

	// MessagesPerMinute — ограничение частоты отправки (default: 20,
	// лимит Bot API для одного канала).
	MessagesPerMinute int
}

// NewTelegram создаёт клиент Bot API.
func NewTelegram(cfg TelegramConfig) *Telegram {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultTelegramURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	perMinute := cfg.MessagesPerMinute
	if perMinute <= 0 {
		perMinute = 20
	}

	return &Telegram{
		baseURL:    baseURL,
		token:      cfg.Token,
		httpClient: &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), 1),
	}
}

// SendText отправляет текстовое сообщение.
func (t *Telegram) SendText(ctx context.Context, chatID, text string, mode ParseMode) error {
	return t.call(ctx, "sendMessage", map[string]any{
		"chat_id":    chatID,
		"text":       text,
		"parse_mode": string(mode),
	})
}

// SendPhoto отправляет фото по file_id с подписью.
func (t *Telegram) SendPhoto(ctx context.Context, chatID, mediaID, caption string, mode ParseMode) error {
	return t.call(ctx, "sendPhoto", map[string]any{
		"chat_id":    chatID,
		"photo":      mediaID,
		"caption":    caption,
		"parse_mode": string(mode),
	})
}

// SendVideo отправляет видео по file_id с подписью.
func (t *Telegram) SendVideo(ctx context.Context, chatID, mediaID, caption string, mode ParseMode) error {
	return t.call(ctx, "sendVideo", map[string]any{
		"chat_id":    chatID,
		"video":      mediaID,
		"caption":    caption,
		"parse_mode": string(mode),
	})
}

type apiResponse struct {
	OK          bool   `json:"ok"`
	ErrorCode   int    `json:"error_code"`
	Description string `json:"description"`
	Parameters  struct {
		RetryAfter int `json:"retry_after"`
	} `json:"parameters"`
}

// call выполняет метод Bot API.
func (t *Telegram) call(ctx context.Context, method string, params map[string]any) error {
	if mode, _ := params["parse_mode"].(string); mode == "" {
		delete(params, "parse_mode")
	}

	if err := t.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%w: rate limiter: %w", ErrDeliveryFailed, err)
	}

	body, err := json.Marshal(params)
	if err != nil {
		return fmt.Errorf("marshal %s request: %w", method, err)
	}

	url := fmt.Sprintf("%s/bot%s/%s", t.baseURL, t.token, method)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create %s request: %w", method, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.httpClient.Do(req)
	if err != nil {
		// Токен входит в URL — в ошибку его не пропускаем
		return fmt.Errorf("%w: telegram %s: %s", ErrDeliveryFailed, method, redact(err.Error(), t.token))
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("%w: read %s response: %w", ErrDeliveryFailed, method, err)
	}

	var ar apiResponse
	if err := json.Unmarshal(raw, &ar); err != nil {
		return &APIError{Method: method, Code: resp.StatusCode, Description: strings.TrimSpace(string(raw))}
	}
	if !ar.OK {
		code := ar.ErrorCode
		if code == 0 {
			code = resp.StatusCode
		}
		return &APIError{
			Method:      method,
			Code:        code,
			Description: ar.Description,
			RetryAfter:  ar.Parameters.RetryAfter,
		}
	}
	return nil
}

func redact(s, secret string) string {
	if secret == "" {
		return s
	}
	return strings.ReplaceAll(s, secret, "***")
}
