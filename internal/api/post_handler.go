package api

import (
	"net/http"

	"github.com/shaiso/Ghostwriter/internal/domain"
	"github.com/shaiso/Ghostwriter/internal/queue"
)

// QueuePost ставит одобренный пост в очередь канала.
// POST /api/v1/channels/{id}/posts
func (h *Handler) QueuePost(w http.ResponseWriter, r *http.Request) {
	channelID, ok := pathID(r, "id")
	if !ok {
		BadRequest(w, "invalid channel id")
		return
	}

	var req QueuePostRequest
	if err := decode(r, &req); err != nil {
		BadRequest(w, "invalid request body")
		return
	}

	media, err := domain.NewMedia(req.MediaID, req.MediaKind)
	if err != nil {
		BadRequest(w, err.Error())
		return
	}

	adm, err := h.admitter.Admit(r.Context(), queue.Request{
		ChannelID: channelID,
		Text:      req.Text,
		Media:     media,
	})
	if HandleRepoError(w, h.logger, err, "channel not found") {
		return
	}

	Created(w, QueuePostResponse{
		ID:        adm.PostID,
		ChannelID: adm.ChannelID,
		PublishAt: adm.PublishAt,
	})
}

// ListPendingPosts возвращает очередь канала по возрастанию времени публикации.
// GET /api/v1/channels/{id}/posts
func (h *Handler) ListPendingPosts(w http.ResponseWriter, r *http.Request) {
	channelID, ok := pathID(r, "id")
	if !ok {
		BadRequest(w, "invalid channel id")
		return
	}

	posts, err := h.posts.ListPending(r.Context(), channelID)
	if HandleRepoError(w, h.logger, err, "") {
		return
	}

	result := make([]PostResponse, len(posts))
	for i := range posts {
		result[i] = PostFromDomain(&posts[i])
	}

	List(w, result, len(result))
}

// GetPost возвращает пост по ID.
// GET /api/v1/posts/{id}
func (h *Handler) GetPost(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		BadRequest(w, "invalid post id")
		return
	}

	post, err := h.posts.GetByID(r.Context(), id)
	if HandleRepoError(w, h.logger, err, "post not found") {
		return
	}

	Success(w, PostFromDomain(post))
}

// UpdatePostText меняет текст поста.
// PUT /api/v1/posts/{id}/text
func (h *Handler) UpdatePostText(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		BadRequest(w, "invalid post id")
		return
	}

	var req UpdatePostTextRequest
	if err := decode(r, &req); err != nil {
		BadRequest(w, "invalid request body")
		return
	}
	if req.Text == "" {
		BadRequest(w, "text is required")
		return
	}

	if HandleRepoError(w, h.logger, h.posts.UpdateText(r.Context(), id, req.Text), "post not found") {
		return
	}

	h.respondPost(w, r, id)
}

// UpdatePostMedia меняет или убирает вложение поста.
// PUT /api/v1/posts/{id}/media
func (h *Handler) UpdatePostMedia(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		BadRequest(w, "invalid post id")
		return
	}

	var req UpdatePostMediaRequest
	if err := decode(r, &req); err != nil {
		BadRequest(w, "invalid request body")
		return
	}

	media, err := domain.NewMedia(req.MediaID, req.MediaKind)
	if err != nil {
		BadRequest(w, err.Error())
		return
	}

	if HandleRepoError(w, h.logger, h.posts.UpdateMedia(r.Context(), id, media), "post not found") {
		return
	}

	h.respondPost(w, r, id)
}

// DeletePost удаляет пост из очереди. Отсутствующий пост — не ошибка.
// DELETE /api/v1/posts/{id}
func (h *Handler) DeletePost(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		BadRequest(w, "invalid post id")
		return
	}

	if HandleRepoError(w, h.logger, h.posts.Delete(r.Context(), id), "") {
		return
	}

	NoContent(w)
}

func (h *Handler) respondPost(w http.ResponseWriter, r *http.Request, id int64) {
	post, err := h.posts.GetByID(r.Context(), id)
	if HandleRepoError(w, h.logger, err, "post not found") {
		return
	}
	Success(w, PostFromDomain(post))
}
