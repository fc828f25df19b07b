package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"time"

	"github.com/ashureev/mathlab/internal/identity"
	"github.com/ashureev/mathlab/internal/shared"
	"github.com/ashureev/mathlab/internal/staircase"
	"github.com/coder/websocket"
	"github.com/google/uuid"
)

const wsWriteTimeout = 5 * time.Second

// wsMessage is the envelope for every message on the animation stream.
type wsMessage struct {
	Type       string                `json:"type"`
	StreamID   string                `json:"stream_id,omitempty"`
	N          int                   `json:"n,omitempty"`
	Total      int                   `json:"total,omitempty"`
	IntervalMS int64                 `json:"interval_ms,omitempty"`
	Canvas     *staircase.Canvas     `json:"canvas,omitempty"`
	Frame      *staircase.Frame      `json:"frame,omitempty"`
	Primitives []staircase.Primitive `json:"primitives,omitempty"`
	Error      string                `json:"error,omitempty"`
}

// Animate streams every path for ?n= steps over a WebSocket, one frame per
// interval. The client may send {"type":"stop"} to halt the animation or
// {"type":"ping"} to receive a pong.
func (h *StaircaseHandler) Animate(w http.ResponseWriter, r *http.Request) {
	visitorID := identity.VisitorIDFromContext(r.Context())

	n, err := h.steps(r, h.cfg.Staircase.MaxSteps)
	if err != nil {
		writeError(w, r, err)
		return
	}
	interval, err := h.animationInterval(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	paths, err := staircase.Enumerate(n)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if !h.checkOrigin(r) {
		http.Error(w, "origin not allowed", http.StatusForbidden)
		return
	}

	ws, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		slog.Error("Failed to accept WebSocket", "error", err, "visitor_id", visitorID)
		return
	}
	defer func() {
		if closeErr := ws.Close(websocket.StatusNormalClosure, "animation ended"); closeErr != nil {
			slog.Debug("Failed to close websocket", "error", closeErr, "visitor_id", visitorID)
		}
	}()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	streamID := uuid.NewString()
	animator := staircase.NewAnimator(paths, interval)
	slog.Info("Staircase animation started", "stream_id", streamID, "visitor_id", visitorID, "n", n, "paths", len(paths))

	go h.controlLoop(ctx, cancel, ws, animator, streamID)

	canvas := staircase.DefaultCanvas
	if err := writeWS(ctx, ws, wsMessage{
		Type:       "start",
		StreamID:   streamID,
		N:          n,
		Total:      len(paths),
		IntervalMS: interval.Milliseconds(),
		Canvas:     &canvas,
	}); err != nil {
		slog.Debug("Failed to send start message", "error", err, "stream_id", streamID)
		return
	}

	err = animator.Run(ctx, func(f staircase.Frame) error {
		prims, err := staircase.Scene(canvas, n, f.Path)
		if err != nil {
			return err
		}
		return writeWS(ctx, ws, wsMessage{
			Type:       "frame",
			StreamID:   streamID,
			Frame:      &f,
			Primitives: prims,
		})
	})

	end := "done"
	switch {
	case err != nil && ctx.Err() != nil:
		slog.Info("Staircase animation cancelled", "stream_id", streamID, "reason", ctx.Err())
		return
	case err != nil:
		slog.Warn("Staircase animation failed", "error", err, "stream_id", streamID)
		return
	case animator.Stopped():
		end = "stopped"
	}

	if err := writeWS(ctx, ws, wsMessage{Type: end, StreamID: streamID}); err != nil {
		slog.Debug("Failed to send end message", "error", err, "stream_id", streamID)
	}
	slog.Info("Staircase animation ended", "stream_id", streamID, "state", end)
}

// controlLoop reads client messages until the connection closes. A read
// error cancels the stream.
func (h *StaircaseHandler) controlLoop(ctx context.Context, cancel context.CancelFunc, ws *websocket.Conn, animator *staircase.Animator, streamID string) {
	defer cancel()
	for {
		_, data, err := ws.Read(ctx)
		if err != nil {
			if websocket.CloseStatus(err) != -1 || errors.Is(err, context.Canceled) {
				slog.Debug("WebSocket closed", "stream_id", streamID)
			} else {
				slog.Debug("WebSocket read error", "error", err, "stream_id", streamID)
			}
			return
		}

		var msg wsMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			slog.Debug("Ignoring malformed control message", "error", err, "stream_id", streamID)
			continue
		}

		switch msg.Type {
		case "stop":
			slog.Info("Staircase animation stop requested", "stream_id", streamID)
			animator.Stop()
		case "ping":
			if err := writeWS(ctx, ws, wsMessage{Type: "pong", StreamID: streamID}); err != nil {
				slog.Debug("Failed to send pong", "error", err)
			}
		}
	}
}

func (h *StaircaseHandler) animationInterval(r *http.Request) (time.Duration, error) {
	sc := h.cfg.Staircase
	ms, err := intParam(r, "interval_ms", int(sc.AnimationInterval.Milliseconds()))
	if err != nil {
		return 0, err
	}
	interval := time.Duration(ms) * time.Millisecond
	if interval < sc.MinAnimationInterval {
		return 0, fmt.Errorf("interval_ms must be at least %d: %w", sc.MinAnimationInterval.Milliseconds(), shared.ErrInvalidArgument)
	}
	return interval, nil
}

func (h *StaircaseHandler) checkOrigin(r *http.Request) bool {
	if h.cfg.IsDevelopment() {
		return true
	}
	origin := r.Header.Get("Origin")
	if origin == "" || slices.Contains(h.cfg.AllowedOrigins, "*") || slices.Contains(h.cfg.AllowedOrigins, origin) {
		return true
	}
	slog.Warn("WebSocket origin rejected", "origin", origin, "allowed", h.cfg.AllowedOrigins)
	return false
}

func writeWS(ctx context.Context, ws *websocket.Conn, msg wsMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, wsWriteTimeout)
	defer cancel()
	return ws.Write(ctx, websocket.MessageText, data)
}
