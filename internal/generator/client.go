package generator

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"

	"github.com/shaiso/Ghostwriter/internal/domain"
	"github.com/shaiso/Ghostwriter/internal/telemetry"
)

// Значения по умолчанию.
const (
	DefaultBaseURL  = "https://api.groq.com/openai/v1"
	DefaultModel    = "llama-3.3-70b-versatile"
	DefaultStyle    = "Style: lively author blog."
	DefaultLanguage = "Russian"

	// StyleSampleSize — сколько примеров стиля попадает в промпт.
	StyleSampleSize = 7

	// HistorySize — сколько последних постов попадает в промпт.
	HistorySize = 3

	historyExcerpt     = 200
	defaultTemperature = 0.7
	defaultTimeout     = 120 * time.Second
	defaultMaxAttempts = 3
	defaultRetryDelay  = 500 * time.Millisecond
)

// Ошибки генерации.
var (
	// ErrEmptyInput — пустая тема или текст.
	ErrEmptyInput = errors.New("generation input is empty")

	// ErrUpstream — модель недоступна или ответила ошибкой.
	ErrUpstream = errors.New("language model request failed")

	// ErrMalformedResponse — ответ модели не удалось разобрать.
	ErrMalformedResponse = errors.New("malformed language model response")
)

// StyleSource — источник примеров стиля.
type StyleSource interface {
	Sample(ctx context.Context, channelID int64, n int) ([]domain.StyleExample, error)
}

// HistorySource — источник последних постов канала.
type HistorySource interface {
	RecentBodies(ctx context.Context, channelID int64, limit int) ([]string, error)
}

// Config — конфигурация Client.
type Config struct {
	APIKey      string
	BaseURL     string // default: DefaultBaseURL
	Model       string // default: DefaultModel
	Language    string // default: DefaultLanguage
	Timeout     time.Duration
	MaxAttempts int           // default: 3
	RetryDelay  time.Duration // начальная задержка между попытками
	Styles      StyleSource
	History     HistorySource // опционально
	Logger      *slog.Logger
	HTTPClient  *http.Client
}

// Client — клиент OpenAI-совместимого chat completions API.
type Client struct {
	apiKey      string
	baseURL     string
	model       string
	language    string
	maxAttempts int
	retryDelay  time.Duration
	styles      StyleSource
	history     HistorySource
	logger      *slog.Logger
	http        *http.Client
}

// New создаёт Client.
func New(cfg Config) *Client {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}
	language := cfg.Language
	if language == "" {
		language = DefaultLanguage
	}
	attempts := cfg.MaxAttempts
	if attempts <= 0 {
		attempts = defaultMaxAttempts
	}
	delay := cfg.RetryDelay
	if delay <= 0 {
		delay = defaultRetryDelay
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	return &Client{
		apiKey:      cfg.APIKey,
		baseURL:     baseURL,
		model:       model,
		language:    language,
		maxAttempts: attempts,
		retryDelay:  delay,
		styles:      cfg.Styles,
		history:     cfg.History,
		logger:      logger.With("component", "generator"),
		http:        httpClient,
	}
}

// SplitIntoPosts генерирует черновики постов по теме.
func (c *Client) SplitIntoPosts(ctx context.Context, channelID int64, topic string) ([]string, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return nil, ErrEmptyInput
	}

	examples, err := c.styleExamples(ctx, channelID)
	if err != nil {
		return nil, err
	}

	// История — только подсказка модели, её недоступность не мешает генерации
	var recent []string
	if c.history != nil {
		recent, err = c.history.RecentBodies(ctx, channelID, HistorySize)
		if err != nil {
			telemetry.WithChannelID(c.logger, channelID).Warn("failed to load recent posts", "error", err)
			recent = nil
		}
	}

	messages := splitMessages(
		StyleText(examples),
		LengthGuide(styleBodies(examples)),
		HistoryText(recent),
		c.language,
		topic,
	)

	content, err := c.complete(ctx, messages, true)
	if err != nil {
		return nil, err
	}

	posts, err := ParsePosts(content)
	if err != nil {
		return nil, err
	}

	telemetry.WithChannelID(c.logger, channelID).Info("drafts generated", "count", len(posts))
	return posts, nil
}

// Rewrite переписывает текст в стиле канала.
func (c *Client) Rewrite(ctx context.Context, channelID int64, text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyInput
	}

	examples, err := c.styleExamples(ctx, channelID)
	if err != nil {
		return "", err
	}

	content, err := c.complete(ctx, rewriteMessages(StyleText(examples), text), false)
	if err != nil {
		return "", err
	}

	content = strings.TrimSpace(content)
	if content == "" {
		return "", fmt.Errorf("%w: empty rewrite", ErrMalformedResponse)
	}
	return content, nil
}

func (c *Client) styleExamples(ctx context.Context, channelID int64) ([]domain.StyleExample, error) {
	if c.styles == nil {
		return nil, nil
	}
	examples, err := c.styles.Sample(ctx, channelID, StyleSampleSize)
	if err != nil {
		return nil, fmt.Errorf("load style examples: %w", err)
	}
	return examples, nil
}

// ParsePosts разбирает JSON-ответ модели.
//
// Ожидается {"posts": [...]}. Если ключа нет, берётся первый
// ключ (в алфавитном порядке) со списком.
func ParsePosts(content string) ([]string, error) {
	var data map[string]json.RawMessage
	if err := json.Unmarshal([]byte(strings.TrimSpace(content)), &data); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}

	if raw, ok := data["posts"]; ok {
		if posts, ok := decodeList(raw); ok {
			return posts, nil
		}
	}

	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		if posts, ok := decodeList(data[k]); ok {
			return posts, nil
		}
	}

	return nil, fmt.Errorf("%w: no list of posts in response", ErrMalformedResponse)
}

// decodeList декодирует JSON-массив, приводя элементы к строкам.
func decodeList(raw json.RawMessage) ([]string, bool) {
	var items []any
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, false
	}

	posts := make([]string, 0, len(items))
	for _, item := range items {
		switch v := item.(type) {
		case string:
			posts = append(posts, v)
		default:
			b, _ := json.Marshal(v)
			posts = append(posts, string(b))
		}
	}
	return posts, true
}

// ============================================================================
// HTTP
// ============================================================================

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	Temperature    float64         `json:"temperature"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// retryableError — временная ошибка, попытку можно повторить.
type retryableError struct {
	err error
}

func (e *retryableError) Error() string { return e.err.Error() }
func (e *retryableError) Unwrap() error { return e.err }

// complete вызывает /chat/completions, повторяя временные ошибки.
func (c *Client) complete(ctx context.Context, messages []chatMessage, jsonMode bool) (string, error) {
	req := chatRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: defaultTemperature,
	}
	if jsonMode {
		req.ResponseFormat = &responseFormat{Type: "json_object"}
	}

	body, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("marshal chat request: %w", err)
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = c.retryDelay
	bo.MaxInterval = 10 * c.retryDelay
	bo.Multiplier = 2

	var lastErr error
	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		content, err := c.do(ctx, body)
		if err == nil {
			return content, nil
		}
		lastErr = err

		var retryable *retryableError
		if !errors.As(err, &retryable) || attempt == c.maxAttempts {
			break
		}

		delay := bo.NextBackOff()
		c.logger.Warn("language model request failed, retrying",
			"attempt", attempt,
			"retry_in", delay,
			"error", err,
		)

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}

	return "", lastErr
}

// do выполняет один HTTP-запрос.
func (c *Client) do(ctx context.Context, body []byte) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", &retryableError{err: fmt.Errorf("%w: %w", ErrUpstream, err)}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &retryableError{err: fmt.Errorf("%w: read response: %w", ErrUpstream, err)}
	}

	var parsed chatResponse
	decodeErr := json.Unmarshal(raw, &parsed)

	if resp.StatusCode != http.StatusOK {
		msg := http.StatusText(resp.StatusCode)
		if decodeErr == nil && parsed.Error != nil && parsed.Error.Message != "" {
			msg = parsed.Error.Message
		}
		err := fmt.Errorf("%w: status %d: %s", ErrUpstream, resp.StatusCode, msg)
		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			return "", &retryableError{err: err}
		}
		return "", err
	}

	if decodeErr != nil {
		return "", fmt.Errorf("%w: %w", ErrMalformedResponse, decodeErr)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("%w: no choices", ErrMalformedResponse)
	}

	return parsed.Choices[0].Message.Content, nil
}
