// Package session keeps each visitor's Prisoner's Dilemma games in memory,
// one per browser tab.
package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/ashureev/mathlab/internal/dilemma"
)

// PolicyFactory builds the opponent for a newly created game.
type PolicyFactory func() (dilemma.Policy, error)

// EvictCallback receives the summary of a game dropped for inactivity.
type EvictCallback func(visitorID, sessionID string, summary dilemma.Summary)

type entry struct {
	mu       sync.Mutex
	game     *dilemma.Session
	lastSeen time.Time
}

// Manager maps visitor and tab session IDs to games. Access to a single game
// is serialized; different games proceed in parallel.
type Manager struct {
	mu        sync.RWMutex
	active    map[string]map[string]*entry
	newPolicy PolicyFactory
	onEvict   EvictCallback
	now       func() time.Time
}

// NewManager creates a manager whose new games start with the default
// policy.
func NewManager(onEvict EvictCallback) *Manager {
	return &Manager{
		active: make(map[string]map[string]*entry),
		newPolicy: func() (dilemma.Policy, error) {
			return dilemma.PolicyByName(dilemma.DefaultPolicy, nil)
		},
		onEvict: onEvict,
		now:     time.Now,
	}
}

// SetPolicyFactory overrides how new games pick their opponent.
func (m *Manager) SetPolicyFactory(f PolicyFactory) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.newPolicy = f
}

func (m *Manager) getOrCreate(visitorID, sessionID string) (*entry, error) {
	m.mu.RLock()
	if e, ok := m.active[visitorID][sessionID]; ok {
		m.mu.RUnlock()
		return e, nil
	}
	m.mu.RUnlock()

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.active[visitorID]; !exists {
		m.active[visitorID] = make(map[string]*entry)
	}
	if e, ok := m.active[visitorID][sessionID]; ok {
		return e, nil
	}

	policy, err := m.newPolicy()
	if err != nil {
		return nil, err
	}
	game, err := dilemma.NewSession(policy)
	if err != nil {
		return nil, err
	}

	e := &entry{game: game, lastSeen: m.now()}
	m.active[visitorID][sessionID] = e
	slog.Info("Game session created", "visitor_id", visitorID, "session_id", sessionID, "policy", policy.Name())
	return e, nil
}

// With runs fn with exclusive access to the visitor's game for this tab,
// creating the game on first use.
func (m *Manager) With(visitorID, sessionID string, fn func(*dilemma.Session) error) error {
	e, err := m.getOrCreate(visitorID, sessionID)
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.lastSeen = m.now()
	return fn(e.game)
}

// Snapshot returns the current state of the game, creating it if needed.
func (m *Manager) Snapshot(visitorID, sessionID string) (dilemma.Snapshot, error) {
	var snap dilemma.Snapshot
	err := m.With(visitorID, sessionID, func(g *dilemma.Session) error {
		snap = g.Snapshot()
		return nil
	})
	return snap, err
}

// Count returns the number of live games.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	n := 0
	for _, sessions := range m.active {
		n += len(sessions)
	}
	return n
}

// CloseVisitor drops every game the visitor has open.
func (m *Manager) CloseVisitor(visitorID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if sessions, ok := m.active[visitorID]; ok {
		slog.Info("Game sessions closed", "visitor_id", visitorID, "count", len(sessions))
		delete(m.active, visitorID)
	}
}

// Sweep evicts games idle for longer than ttl and returns how many were
// removed. Each eviction ends the game, so played games are reported to the
// evict callback.
func (m *Manager) Sweep(ttl time.Duration) int {
	type evicted struct {
		visitorID, sessionID string
		summary              dilemma.Summary
	}

	cutoff := m.now().Add(-ttl)
	var gone []evicted

	m.mu.Lock()
	for visitorID, sessions := range m.active {
		for sessionID, e := range sessions {
			e.mu.Lock()
			idle := e.lastSeen.Before(cutoff)
			var summary dilemma.Summary
			if idle {
				summary = e.game.Reset()
			}
			e.mu.Unlock()

			if idle {
				delete(sessions, sessionID)
				gone = append(gone, evicted{visitorID, sessionID, summary})
			}
		}
		if len(sessions) == 0 {
			delete(m.active, visitorID)
		}
	}
	m.mu.Unlock()

	for _, g := range gone {
		if m.onEvict != nil && g.summary.Played() {
			m.onEvict(g.visitorID, g.sessionID, g.summary)
		}
	}
	return len(gone)
}

// StartSweeper runs Sweep every interval until ctx is done.
func StartSweeper(ctx context.Context, m *Manager, ttl, interval time.Duration) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		slog.Info("Session sweeper started", "interval", interval, "ttl", ttl)

		for {
			select {
			case <-ticker.C:
				if n := m.Sweep(ttl); n > 0 {
					slog.Info("Session sweeper evicted idle games", "count", n)
				}
			case <-ctx.Done():
				slog.Info("Session sweeper shutting down", "reason", ctx.Err())
				return
			}
		}
	}()
}
