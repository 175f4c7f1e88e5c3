package api

import (
	"net/http"
)

// RegisterRoutes регистрирует все маршруты API.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	// Middleware chain
	chain := Chain(
		Recovery(h.logger),
		Metrics(h.metrics),
		Logging(h.logger),
	)

	// Channels
	mux.Handle("GET /api/v1/channels", chain(http.HandlerFunc(h.ListChannels)))
	mux.Handle("POST /api/v1/channels", chain(http.HandlerFunc(h.CreateChannel)))
	mux.Handle("GET /api/v1/channels/{id}", chain(http.HandlerFunc(h.GetChannel)))

	// Queue
	mux.Handle("GET /api/v1/channels/{id}/posts", chain(http.HandlerFunc(h.ListPendingPosts)))
	mux.Handle("POST /api/v1/channels/{id}/posts", chain(http.HandlerFunc(h.QueuePost)))

	// Posts
	mux.Handle("GET /api/v1/posts/{id}", chain(http.HandlerFunc(h.GetPost)))
	mux.Handle("PUT /api/v1/posts/{id}/text", chain(http.HandlerFunc(h.UpdatePostText)))
	mux.Handle("PUT /api/v1/posts/{id}/media", chain(http.HandlerFunc(h.UpdatePostMedia)))
	mux.Handle("DELETE /api/v1/posts/{id}", chain(http.HandlerFunc(h.DeletePost)))

	// Drafts
	mux.Handle("POST /api/v1/channels/{id}/drafts", chain(http.HandlerFunc(h.GenerateDrafts)))
	mux.Handle("POST /api/v1/drafts/rewrite", chain(http.HandlerFunc(h.RewriteDraft)))

	// Style
	mux.Handle("POST /api/v1/channels/{id}/style", chain(http.HandlerFunc(h.AddStyleExample)))
	mux.Handle("DELETE /api/v1/channels/{id}/style", chain(http.HandlerFunc(h.ResetStyle)))
}
