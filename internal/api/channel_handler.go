package api

import (
	"net/http"
	"strconv"
	"strings"
)

// ListChannels возвращает каналы оператора.
// GET /api/v1/channels?owner_id=...
func (h *Handler) ListChannels(w http.ResponseWriter, r *http.Request) {
	ownerID, err := strconv.ParseInt(r.URL.Query().Get("owner_id"), 10, 64)
	if err != nil {
		BadRequest(w, "owner_id is required")
		return
	}

	channels, err := h.channels.ListByOwner(r.Context(), ownerID)
	if HandleRepoError(w, h.logger, err, "") {
		return
	}

	result := make([]ChannelResponse, len(channels))
	for i := range channels {
		result[i] = ChannelFromDomain(&channels[i])
	}

	List(w, result, len(result))
}

// CreateChannel регистрирует канал.
// POST /api/v1/channels
func (h *Handler) CreateChannel(w http.ResponseWriter, r *http.Request) {
	var req CreateChannelRequest
	if err := decode(r, &req); err != nil {
		BadRequest(w, "invalid request body")
		return
	}

	req.ExternalID = strings.TrimSpace(req.ExternalID)
	req.Title = strings.TrimSpace(req.Title)

	// Валидация
	if req.OwnerID == 0 {
		BadRequest(w, "owner_id is required")
		return
	}
	if req.ExternalID == "" {
		BadRequest(w, "external_id is required")
		return
	}
	if req.Title == "" {
		req.Title = req.ExternalID
	}

	id, err := h.channels.Create(r.Context(), req.OwnerID, req.ExternalID, req.Title)
	if HandleRepoError(w, h.logger, err, "") {
		return
	}

	channel, err := h.channels.GetByID(r.Context(), id)
	if HandleRepoError(w, h.logger, err, "channel not found") {
		return
	}

	Created(w, ChannelFromDomain(channel))
}

// GetChannel возвращает канал по ID.
// GET /api/v1/channels/{id}
func (h *Handler) GetChannel(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		BadRequest(w, "invalid channel id")
		return
	}

	channel, err := h.channels.GetByID(r.Context(), id)
	if HandleRepoError(w, h.logger, err, "channel not found") {
		return
	}

	Success(w, ChannelFromDomain(channel))
}
