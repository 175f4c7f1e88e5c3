package api

import (
	"net/http"
	"strings"
)

// AddStyleExample сохраняет пример стиля канала.
// POST /api/v1/channels/{id}/style
func (h *Handler) AddStyleExample(w http.ResponseWriter, r *http.Request) {
	channelID, ok := pathID(r, "id")
	if !ok {
		BadRequest(w, "invalid channel id")
		return
	}

	var req AddStyleRequest
	if err := decode(r, &req); err != nil {
		BadRequest(w, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		BadRequest(w, "text is required")
		return
	}

	_, err := h.channels.GetByID(r.Context(), channelID)
	if HandleRepoError(w, h.logger, err, "channel not found") {
		return
	}

	id, err := h.styles.Add(r.Context(), channelID, req.Text)
	if HandleRepoError(w, h.logger, err, "") {
		return
	}

	Created(w, AddStyleResponse{ID: id, ChannelID: channelID})
}

// ResetStyle удаляет все примеры стиля канала.
// DELETE /api/v1/channels/{id}/style
func (h *Handler) ResetStyle(w http.ResponseWriter, r *http.Request) {
	channelID, ok := pathID(r, "id")
	if !ok {
		BadRequest(w, "invalid channel id")
		return
	}

	removed, err := h.styles.Clear(r.Context(), channelID)
	if HandleRepoError(w, h.logger, err, "") {
		return
	}

	Success(w, ResetStyleResponse{ChannelID: channelID, Removed: removed})
}
