package api

import (
	"fmt"
	"net/http"
	"slices"

	"github.com/ashureev/mathlab/internal/content"
	"github.com/ashureev/mathlab/internal/shared"
	"github.com/go-chi/chi/v5"
)

// PostsHandler serves blog posts.
type PostsHandler struct {
	*Handler
}

// NewPostsHandler creates a new posts handler.
func NewPostsHandler(base *Handler) *PostsHandler {
	return &PostsHandler{Handler: base}
}

// RegisterRoutes registers post routes.
func (h *PostsHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api/posts", func(r chi.Router) {
		r.Get("/", h.List)
		r.Get("/{slug}", h.Get)
	})
}

// List returns post summaries, newest first. ?game= keeps posts about one
// simulation and ?limit= caps the count.
func (h *PostsHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, err := intParam(r, "limit", -1)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var posts []content.Post
	if game := r.URL.Query().Get("game"); game != "" {
		if !slices.Contains(content.KnownGames, game) {
			writeError(w, r, fmt.Errorf("unknown game %q: %w", game, shared.ErrInvalidArgument))
			return
		}
		posts = h.posts.Related(game)
		if limit >= 0 && limit < len(posts) {
			posts = posts[:limit]
		}
	} else {
		posts = h.posts.Recent(limit)
	}

	JSON(w, http.StatusOK, map[string]interface{}{
		"posts": posts,
		"total": len(posts),
	})
}

// Get returns one post with its rendered HTML.
func (h *PostsHandler) Get(w http.ResponseWriter, r *http.Request) {
	post, err := h.posts.Get(chi.URLParam(r, "slug"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	JSON(w, http.StatusOK, post)
}
