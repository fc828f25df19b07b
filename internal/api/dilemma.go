package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/ashureev/mathlab/internal/dilemma"
	"github.com/ashureev/mathlab/internal/domain"
	"github.com/ashureev/mathlab/internal/identity"
	"github.com/go-chi/chi/v5"
)

const recordTimeout = 5 * time.Second

// DilemmaHandler serves the iterated Prisoner's Dilemma. Each visitor tab
// has its own game, identified by the identity middleware.
type DilemmaHandler struct {
	*Handler
}

// NewDilemmaHandler creates a new dilemma handler.
func NewDilemmaHandler(base *Handler) *DilemmaHandler {
	return &DilemmaHandler{Handler: base}
}

// RegisterRoutes registers dilemma routes.
func (h *DilemmaHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api/dilemma", func(r chi.Router) {
		r.Get("/", h.GetSession)
		r.Get("/policies", h.ListPolicies)
		r.Get("/lifetime", h.Lifetime)
		r.Post("/rounds", h.PlayRound)
		r.Post("/reset", h.Reset)
		r.Put("/policy", h.SetPolicy)
	})
}

// gameState is the session view returned by every dilemma endpoint.
type gameState struct {
	Session dilemma.Snapshot   `json:"session"`
	Stats   dilemma.Stats      `json:"stats"`
	Policy  dilemma.PolicyInfo `json:"policy"`
}

func newGameState(snap dilemma.Snapshot) gameState {
	info, err := dilemma.Lookup(snap.Policy)
	if err != nil {
		info = dilemma.PolicyInfo{Name: snap.Policy, DisplayName: snap.Policy}
	}
	return gameState{Session: snap, Stats: dilemma.ComputeStats(snap), Policy: info}
}

// GetSession returns the caller's current game, starting one if needed.
func (h *DilemmaHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	visitorID := identity.VisitorIDFromContext(r.Context())
	snap, err := h.games.Snapshot(visitorID, identity.SessionIDFromContext(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	JSON(w, http.StatusOK, newGameState(snap))
}

// ListPolicies returns every registered opponent strategy.
func (h *DilemmaHandler) ListPolicies(w http.ResponseWriter, _ *http.Request) {
	JSON(w, http.StatusOK, map[string]interface{}{
		"policies": dilemma.Policies(),
		"default":  dilemma.DefaultPolicy,
	})
}

type playRoundRequest struct {
	Move string `json:"move"`
}

// PlayRound plays one round with the caller's move.
func (h *DilemmaHandler) PlayRound(w http.ResponseWriter, r *http.Request) {
	var req playRoundRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	move, err := dilemma.ParseMove(req.Move)
	if err != nil {
		writeError(w, r, err)
		return
	}

	visitorID := identity.VisitorIDFromContext(r.Context())
	var (
		outcome dilemma.RoundOutcome
		snap    dilemma.Snapshot
	)
	err = h.games.With(visitorID, identity.SessionIDFromContext(r.Context()), func(g *dilemma.Session) error {
		var playErr error
		outcome, playErr = g.PlayRound(move)
		snap = g.Snapshot()
		return playErr
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	JSON(w, http.StatusOK, map[string]interface{}{
		"outcome": outcome,
		"verdict": outcome.Verdict(),
		"state":   newGameState(snap),
	})
}

// Reset ends the current game, keeping the opponent, and records it.
func (h *DilemmaHandler) Reset(w http.ResponseWriter, r *http.Request) {
	visitorID := identity.VisitorIDFromContext(r.Context())
	var (
		ended dilemma.Summary
		snap  dilemma.Snapshot
	)
	err := h.games.With(visitorID, identity.SessionIDFromContext(r.Context()), func(g *dilemma.Session) error {
		ended = g.Reset()
		snap = g.Snapshot()
		return nil
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	JSON(w, http.StatusOK, map[string]interface{}{
		"ended":    ended,
		"lifetime": h.record(r.Context(), visitorID, ended),
		"state":    newGameState(snap),
	})
}

type setPolicyRequest struct {
	Policy string `json:"policy"`
}

// SetPolicy switches the opponent. Switching also resets the game; the game
// that ended is recorded like an explicit reset.
func (h *DilemmaHandler) SetPolicy(w http.ResponseWriter, r *http.Request) {
	var req setPolicyRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	policy, err := dilemma.PolicyByName(req.Policy, nil)
	if err != nil {
		writeError(w, r, err)
		return
	}

	visitorID := identity.VisitorIDFromContext(r.Context())
	var (
		ended dilemma.Summary
		snap  dilemma.Snapshot
	)
	err = h.games.With(visitorID, identity.SessionIDFromContext(r.Context()), func(g *dilemma.Session) error {
		var setErr error
		ended, setErr = g.SetPolicy(policy)
		snap = g.Snapshot()
		return setErr
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	JSON(w, http.StatusOK, map[string]interface{}{
		"ended":    ended,
		"lifetime": h.record(r.Context(), visitorID, ended),
		"state":    newGameState(snap),
	})
}

// Lifetime returns the caller's cumulative results against every policy.
// Policies never played read as zeros.
func (h *DilemmaHandler) Lifetime(w http.ResponseWriter, r *http.Request) {
	visitorID := identity.VisitorIDFromContext(r.Context())
	stored, err := h.repo.ListDilemmaStats(r.Context(), visitorID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	byPolicy := make(map[string]domain.PolicyStats, len(stored))
	for _, s := range stored {
		byPolicy[s.Policy] = s
	}

	infos := dilemma.Policies()
	out := make([]domain.PolicyStats, 0, len(infos))
	for _, info := range infos {
		s, ok := byPolicy[info.Name]
		if !ok {
			s = domain.PolicyStats{Policy: info.Name}
		}
		out = append(out, s)
	}

	JSON(w, http.StatusOK, map[string]interface{}{"policies": out})
}

// record persists a finished game. A storage failure is logged and does not
// fail the request; the game itself has already been reset. It returns nil
// when nothing was recorded.
func (h *DilemmaHandler) record(ctx context.Context, visitorID string, ended dilemma.Summary) *domain.PolicyStats {
	if !ended.Played() || visitorID == "" {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), recordTimeout)
	defer cancel()

	totals, err := h.repo.RecordDilemmaGame(ctx, visitorID, ended)
	if err != nil {
		slog.Error("Failed to record dilemma game", "error", err, "visitor_id", visitorID, "policy", ended.Policy)
		return nil
	}
	return &totals
}
