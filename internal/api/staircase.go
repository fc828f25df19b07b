package api

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/ashureev/mathlab/internal/shared"
	"github.com/ashureev/mathlab/internal/staircase"
	"github.com/go-chi/chi/v5"
)

// StaircaseHandler serves the staircase path enumerator.
type StaircaseHandler struct {
	*Handler
}

// NewStaircaseHandler creates a new staircase handler.
func NewStaircaseHandler(base *Handler) *StaircaseHandler {
	return &StaircaseHandler{Handler: base}
}

// RegisterRoutes registers staircase routes, including the animation
// stream.
func (h *StaircaseHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api/staircase", func(r chi.Router) {
		r.Get("/", h.Paths)
		r.Get("/count", h.Count)
		r.Get("/scene", h.Scene)
	})
	r.Get("/ws/staircase", h.Animate)
}

type pathsResponse struct {
	N          int                     `json:"n"`
	Count      uint64                  `json:"count"`
	Label      string                  `json:"label"`
	Recurrence staircase.Recurrence    `json:"recurrence"`
	Paths      []staircase.Composition `json:"paths,omitempty"`
	Labels     []string                `json:"labels,omitempty"`
	Truncated  bool                    `json:"truncated"`
}

// Paths returns the count, recurrence and, when there are few enough, the
// paths themselves for ?n= steps.
func (h *StaircaseHandler) Paths(w http.ResponseWriter, r *http.Request) {
	n, err := h.steps(r, h.cfg.Staircase.MaxSteps)
	if err != nil {
		writeError(w, r, err)
		return
	}

	count, err := staircase.Count(n)
	if err != nil {
		writeError(w, r, err)
		return
	}
	label, err := staircase.FibonacciLabel(n)
	if err != nil {
		writeError(w, r, err)
		return
	}
	rec, err := staircase.Explain(n)
	if err != nil {
		writeError(w, r, err)
		return
	}

	resp := pathsResponse{N: n, Count: count, Label: label, Recurrence: rec}
	if count <= uint64(h.cfg.Staircase.MaxDisplayPaths) {
		paths, err := staircase.Enumerate(n)
		if err != nil {
			writeError(w, r, err)
			return
		}
		resp.Paths = paths
		resp.Labels = make([]string, len(paths))
		for i, p := range paths {
			resp.Labels[i] = p.String()
		}
	} else {
		resp.Truncated = true
	}

	JSON(w, http.StatusOK, resp)
}

// Count returns only the number of paths, which is cheap for any height
// whose count fits in 64 bits.
func (h *StaircaseHandler) Count(w http.ResponseWriter, r *http.Request) {
	n, err := h.steps(r, staircase.MaxCountSteps)
	if err != nil {
		writeError(w, r, err)
		return
	}
	count, err := staircase.Count(n)
	if err != nil {
		writeError(w, r, err)
		return
	}
	label, _ := staircase.FibonacciLabel(n)

	JSON(w, http.StatusOK, map[string]interface{}{
		"n":     n,
		"count": strconv.FormatUint(count, 10),
		"label": label,
	})
}

// Scene returns drawing primitives for ?n= steps and an optional ?path=
// such as "1,2,1".
func (h *StaircaseHandler) Scene(w http.ResponseWriter, r *http.Request) {
	n, err := h.steps(r, h.cfg.Staircase.MaxSteps)
	if err != nil {
		writeError(w, r, err)
		return
	}
	path, err := parsePath(r.URL.Query().Get("path"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	prims, err := staircase.Scene(staircase.DefaultCanvas, n, path)
	if err != nil {
		writeError(w, r, err)
		return
	}

	JSON(w, http.StatusOK, map[string]interface{}{
		"n":          n,
		"canvas":     staircase.DefaultCanvas,
		"primitives": prims,
	})
}

func (h *StaircaseHandler) steps(r *http.Request, limit int) (int, error) {
	if r.URL.Query().Get("n") == "" {
		return 0, fmt.Errorf("query parameter n is required: %w", shared.ErrInvalidArgument)
	}
	n, err := intParam(r, "n", 0)
	if err != nil {
		return 0, err
	}
	if n < 0 || n > limit {
		return 0, fmt.Errorf("n must be between 0 and %d, got %d: %w", limit, n, shared.ErrInvalidArgument)
	}
	return n, nil
}

// parsePath accepts steps separated by commas, spaces or plus signs, so
// both "1,2,1" and "+1 +2 +1" work. An empty string means no path.
func parsePath(raw string) (staircase.Composition, error) {
	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == ' ' || r == '+'
	})
	if len(fields) == 0 {
		return nil, nil
	}

	path := make(staircase.Composition, len(fields))
	for i, f := range fields {
		step, err := strconv.Atoi(f)
		if err != nil || (step != 1 && step != 2) {
			return nil, fmt.Errorf("path step %q must be 1 or 2: %w", f, shared.ErrInvalidArgument)
		}
		path[i] = step
	}
	return path, nil
}
