package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// --- Response types (дублируются из api/dto.go, CLI не импортирует internal/api) ---

// ChannelResponse — канал из API.
type ChannelResponse struct {
	ID         int64  `json:"id"`
	OwnerID    int64  `json:"owner_id"`
	ExternalID string `json:"external_id"`
	Title      string `json:"title"`
	CreatedAt  string `json:"created_at"`
}

// MediaResponse — вложение поста.
type MediaResponse struct {
	ID   string `json:"id"`
	Kind string `json:"kind"`
}

// PostResponse — пост из API.
type PostResponse struct {
	ID        int64          `json:"id"`
	ChannelID int64          `json:"channel_id"`
	Text      string         `json:"text"`
	Media     *MediaResponse `json:"media,omitempty"`
	PublishAt string         `json:"publish_at"`
	Published bool           `json:"published"`
}

// QueuedResponse — результат постановки в очередь.
type QueuedResponse struct {
	ID        int64  `json:"id"`
	ChannelID int64  `json:"channel_id"`
	PublishAt string `json:"publish_at"`
}

// DraftsResponse — сгенерированные черновики.
type DraftsResponse struct {
	ChannelID int64    `json:"channel_id"`
	Drafts    []string `json:"drafts"`
}

// RewriteResponse — результат рерайта.
type RewriteResponse struct {
	ChannelID int64  `json:"channel_id"`
	Text      string `json:"text"`
}

// StyleResponse — сохранённый пример стиля.
type StyleResponse struct {
	ID        int64 `json:"id"`
	ChannelID int64 `json:"channel_id"`
}

// ResetStyleResponse — результат очистки стиля.
type ResetStyleResponse struct {
	ChannelID int64 `json:"channel_id"`
	Removed   int64 `json:"removed"`
}

// --- Request types ---

// CreateChannelRequest — регистрация канала.
type CreateChannelRequest struct {
	OwnerID    int64  `json:"owner_id"`
	ExternalID string `json:"external_id"`
	Title      string `json:"title,omitempty"`
}

// QueuePostRequest — пост для очереди.
type QueuePostRequest struct {
	Text      string `json:"text"`
	MediaID   string `json:"media_id,omitempty"`
	MediaKind string `json:"media_kind,omitempty"`
}

// MediaRequest — вложение поста. Пустые поля убирают вложение.
type MediaRequest struct {
	MediaID   string `json:"media_id"`
	MediaKind string `json:"media_kind"`
}

// --- API response wrappers ---

type dataResponse struct {
	Data json.RawMessage `json:"data"`
}

type listResponse struct {
	Data  json.RawMessage `json:"data"`
	Total int             `json:"total"`
}

type errorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// APIError — ошибка, которую вернул API.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("API error: HTTP %d", e.Status)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// --- Client ---

// Client — HTTP-клиент для Ghostwriter API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient создаёт клиент для API.
// Генерация черновиков может идти долго, поэтому таймаут с запасом.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 3 * time.Minute,
		},
	}
}

func id(v int64) string {
	return strconv.FormatInt(v, 10)
}

// --- Channels ---

// ListChannels возвращает каналы оператора.
func (c *Client) ListChannels(ctx context.Context, ownerID int64) ([]ChannelResponse, error) {
	params := url.Values{}
	params.Set("owner_id", id(ownerID))

	var channels []ChannelResponse
	err := c.list(ctx, "/api/v1/channels", params, &channels)
	return channels, err
}

// CreateChannel регистрирует канал.
func (c *Client) CreateChannel(ctx context.Context, req CreateChannelRequest) (*ChannelResponse, error) {
	var channel ChannelResponse
	err := c.post(ctx, "/api/v1/channels", req, &channel)
	return &channel, err
}

// GetChannel возвращает канал по ID.
func (c *Client) GetChannel(ctx context.Context, channelID int64) (*ChannelResponse, error) {
	var channel ChannelResponse
	err := c.get(ctx, "/api/v1/channels/"+id(channelID), &channel)
	return &channel, err
}

// --- Posts ---

// QueuePost ставит пост в очередь канала.
func (c *Client) QueuePost(ctx context.Context, channelID int64, req QueuePostRequest) (*QueuedResponse, error) {
	var queued QueuedResponse
	err := c.post(ctx, "/api/v1/channels/"+id(channelID)+"/posts", req, &queued)
	return &queued, err
}

// ListPending возвращает очередь канала.
func (c *Client) ListPending(ctx context.Context, channelID int64) ([]PostResponse, error) {
	var posts []PostResponse
	err := c.list(ctx, "/api/v1/channels/"+id(channelID)+"/posts", nil, &posts)
	return posts, err
}

// GetPost возвращает пост по ID.
func (c *Client) GetPost(ctx context.Context, postID int64) (*PostResponse, error) {
	var post PostResponse
	err := c.get(ctx, "/api/v1/posts/"+id(postID), &post)
	return &post, err
}

// UpdatePostText меняет текст поста.
func (c *Client) UpdatePostText(ctx context.Context, postID int64, text string) (*PostResponse, error) {
	var post PostResponse
	err := c.put(ctx, "/api/v1/posts/"+id(postID)+"/text", map[string]string{"text": text}, &post)
	return &post, err
}

// UpdatePostMedia меняет вложение поста.
func (c *Client) UpdatePostMedia(ctx context.Context, postID int64, req MediaRequest) (*PostResponse, error) {
	var post PostResponse
	err := c.put(ctx, "/api/v1/posts/"+id(postID)+"/media", req, &post)
	return &post, err
}

// DeletePost удаляет пост из очереди.
func (c *Client) DeletePost(ctx context.Context, postID int64) error {
	return c.delete(ctx, "/api/v1/posts/"+id(postID))
}

// --- Drafts ---

// GenerateDrafts генерирует черновики по теме.
func (c *Client) GenerateDrafts(ctx context.Context, channelID int64, topic string) (*DraftsResponse, error) {
	var drafts DraftsResponse
	err := c.post(ctx, "/api/v1/channels/"+id(channelID)+"/drafts", map[string]string{"topic": topic}, &drafts)
	return &drafts, err
}

// Rewrite переписывает текст в стиле канала.
func (c *Client) Rewrite(ctx context.Context, channelID int64, text string) (*RewriteResponse, error) {
	body := map[string]any{"channel_id": channelID, "text": text}
	var rewritten RewriteResponse
	err := c.post(ctx, "/api/v1/drafts/rewrite", body, &rewritten)
	return &rewritten, err
}

// --- Style ---

// AddStyle сохраняет пример стиля.
func (c *Client) AddStyle(ctx context.Context, channelID int64, text string) (*StyleResponse, error) {
	var style StyleResponse
	err := c.post(ctx, "/api/v1/channels/"+id(channelID)+"/style", map[string]string{"text": text}, &style)
	return &style, err
}

// ResetStyle удаляет примеры стиля канала.
func (c *Client) ResetStyle(ctx context.Context, channelID int64) (*ResetStyleResponse, error) {
	var reset ResetStyleResponse
	err := c.doData(ctx, http.MethodDelete, "/api/v1/channels/"+id(channelID)+"/style", nil, &reset)
	return &reset, err
}

// --- HTTP helpers ---

func (c *Client) get(ctx context.Context, path string, result any) error {
	return c.doData(ctx, http.MethodGet, path, nil, result)
}

func (c *Client) post(ctx context.Context, path string, body any, result any) error {
	return c.doData(ctx, http.MethodPost, path, body, result)
}

func (c *Client) put(ctx context.Context, path string, body any, result any) error {
	return c.doData(ctx, http.MethodPut, path, body, result)
}

func (c *Client) delete(ctx context.Context, path string) error {
	resp, err := c.do(ctx, http.MethodDelete, path, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return c.checkError(resp)
}

func (c *Client) list(ctx context.Context, path string, params url.Values, result any) error {
	if len(params) > 0 {
		path = path + "?" + params.Encode()
	}

	resp, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := c.checkError(resp); err != nil {
		return err
	}

	var lr listResponse
	if err := json.NewDecoder(resp.Body).Decode(&lr); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return json.Unmarshal(lr.Data, result)
}

func (c *Client) doData(ctx context.Context, method, path string, body any, result any) error {
	resp, err := c.do(ctx, method, path, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := c.checkError(resp); err != nil {
		return err
	}

	// 204 No Content
	if resp.StatusCode == http.StatusNoContent {
		return nil
	}

	var dr dataResponse
	if err := json.NewDecoder(resp.Body).Decode(&dr); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	if result != nil {
		return json.Unmarshal(dr.Data, result)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, body any) (*http.Response, error) {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.httpClient.Do(req)
}

func (c *Client) checkError(resp *http.Response) error {
	if resp.StatusCode < 400 {
		return nil
	}

	var er errorResponse
	if err := json.NewDecoder(resp.Body).Decode(&er); err != nil {
		return &APIError{Status: resp.StatusCode}
	}

	return &APIError{Status: resp.StatusCode, Code: er.Error.Code, Message: er.Error.Message}
}
