// internal/server/handlers/posts.go

package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"autopress/internal/adapter/storage"
)

// PostHandler handles post HTTP requests
type PostHandler struct {
	store *storage.ContentStore
}

// NewPostHandler creates a new post handler
func NewPostHandler(store *storage.ContentStore) *PostHandler {
	return &PostHandler{
		store: store,
	}
}

// ListPosts returns published posts, newest first
func (h *PostHandler) ListPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := h.store.Posts(r.Context())
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to load posts", err)
		return
	}

	// Optional limit
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if limit, err := strconv.Atoi(limitStr); err == nil && limit >= 0 && limit < len(posts) {
			posts = posts[:limit]
		}
	}

	respondWithJSON(w, http.StatusOK, posts)
}

// GetPost returns a specific post by slug
func (h *PostHandler) GetPost(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	if slug == "" {
		respondWithError(w, http.StatusBadRequest, "Missing post slug", nil)
		return
	}

	posts, err := h.store.Posts(r.Context())
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to load posts", err)
		return
	}

	for _, p := range posts {
		if p.Slug == slug {
			respondWithJSON(w, http.StatusOK, p)
			return
		}
	}

	respondWithError(w, http.StatusNotFound, "Post not found", ErrNotFound)
}
