package api

import (
	"errors"
	"net/http"
)

var errNoGenerator = errors.New("draft generation is not configured")

// GenerateDrafts генерирует черновики по теме в стиле канала.
// POST /api/v1/channels/{id}/drafts
func (h *Handler) GenerateDrafts(w http.ResponseWriter, r *http.Request) {
	channelID, ok := pathID(r, "id")
	if !ok {
		BadRequest(w, "invalid channel id")
		return
	}

	var req GenerateDraftsRequest
	if err := decode(r, &req); err != nil {
		BadRequest(w, "invalid request body")
		return
	}

	if h.generator == nil {
		Unavailable(w, h.logger, errNoGenerator)
		return
	}

	// Проверяем, что канал существует
	_, err := h.channels.GetByID(r.Context(), channelID)
	if HandleRepoError(w, h.logger, err, "channel not found") {
		return
	}

	drafts, err := h.generator.SplitIntoPosts(r.Context(), channelID, req.Topic)
	if HandleRepoError(w, h.logger, err, "") {
		return
	}

	Success(w, DraftsResponse{ChannelID: channelID, Drafts: drafts})
}

// RewriteDraft переписывает текст в стиле канала.
// POST /api/v1/drafts/rewrite
func (h *Handler) RewriteDraft(w http.ResponseWriter, r *http.Request) {
	var req RewriteRequest
	if err := decode(r, &req); err != nil {
		BadRequest(w, "invalid request body")
		return
	}
	if req.ChannelID <= 0 {
		BadRequest(w, "channel_id is required")
		return
	}

	if h.generator == nil {
		Unavailable(w, h.logger, errNoGenerator)
		return
	}

	_, err := h.channels.GetByID(r.Context(), req.ChannelID)
	if HandleRepoError(w, h.logger, err, "channel not found") {
		return
	}

	text, err := h.generator.Rewrite(r.Context(), req.ChannelID, req.Text)
	if HandleRepoError(w, h.logger, err, "") {
		return
	}

	Success(w, RewriteResponse{ChannelID: req.ChannelID, Text: text})
}
