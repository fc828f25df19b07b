// Package api provides HTTP handlers for the mathlab API.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/ashureev/mathlab/internal/config"
	"github.com/ashureev/mathlab/internal/content"
	"github.com/ashureev/mathlab/internal/session"
	"github.com/ashureev/mathlab/internal/shared"
	"github.com/ashureev/mathlab/internal/store"
)

// maxBodyBytes bounds JSON request bodies; every request body is a single
// small object.
const maxBodyBytes = 4 << 10

// Handler provides common handler utilities.
type Handler struct {
	repo  store.Repository
	posts *content.Store
	games *session.Manager
	cfg   *config.Config
}

// NewHandler creates a new Handler with common dependencies.
func NewHandler(repo store.Repository, posts *content.Store, games *session.Manager, cfg *config.Config) *Handler {
	return &Handler{
		repo:  repo,
		posts: posts,
		games: games,
		cfg:   cfg,
	}
}

// JSON writes a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, `{"error": "failed to encode response"}`, http.StatusInternalServerError)
	}
}

// Error writes a JSON error response.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, map[string]string{"error": message})
}

// writeError maps domain errors to status codes. Internal errors are logged
// and hidden from the client.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, shared.ErrInvalidArgument):
		Error(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, content.ErrNotFound):
		Error(w, http.StatusNotFound, err.Error())
	default:
		slog.Error("Request failed", "error", err, "method", r.Method, "path", r.URL.Path)
		Error(w, http.StatusInternalServerError, "internal error")
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("decode request body: %v: %w", err, shared.ErrInvalidArgument)
	}
	return nil
}

// intParam reads an integer query parameter. A missing parameter yields def.
func intParam(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("query parameter %s=%q is not an integer: %w", name, raw, shared.ErrInvalidArgument)
	}
	return v, nil
}
