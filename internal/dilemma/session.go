package dilemma

import (
	"fmt"
	"slices"
	"time"

	"github.com/ashureev/mathlab/internal/shared"
	"github.com/google/uuid"
)

// Session is one player's running game against a single opponent policy.
// It is not safe for concurrent use; callers serialize access.
type Session struct {
	id            string
	policy        Policy
	selfScore     int
	opponentScore int
	rounds        int
	history       []RoundOutcome
	startedAt     time.Time
}

// NewSession starts an empty session against policy.
func NewSession(policy Policy) (*Session, error) {
	if policy == nil {
		return nil, fmt.Errorf("new session: nil policy: %w", shared.ErrInvalidArgument)
	}
	return &Session{
		id:        uuid.NewString(),
		policy:    policy,
		startedAt: time.Now(),
	}, nil
}

// ID identifies the current game. It changes on every reset.
func (s *Session) ID() string { return s.id }

// Policy returns the active opponent policy.
func (s *Session) Policy() Policy { return s.policy }

// PlayRound asks the opponent for its move given the history so far,
// scores the round, appends it to the history and returns it.
func (s *Session) PlayRound(self Move) (RoundOutcome, error) {
	if !self.Valid() {
		return RoundOutcome{}, fmt.Errorf("play round with %v: %w", self, shared.ErrInvalidArgument)
	}

	opponent := s.policy.Next(s.history)
	selfPoints, opponentPoints := Payoff(self, opponent)

	outcome := RoundOutcome{
		SelfMove:       self,
		OpponentMove:   opponent,
		SelfPayoff:     selfPoints,
		OpponentPayoff: opponentPoints,
	}
	s.history = append(s.history, outcome)
	s.selfScore += selfPoints
	s.opponentScore += opponentPoints
	s.rounds++

	return outcome, nil
}

// Reset ends the current game, keeping the policy, and returns a summary of
// the game that ended.
func (s *Session) Reset() Summary {
	summary := s.summary()

	s.id = uuid.NewString()
	s.selfScore = 0
	s.opponentScore = 0
	s.rounds = 0
	s.history = nil
	s.startedAt = time.Now()

	return summary
}

// SetPolicy switches the opponent strategy. Switching always resets the
// session: a game is never scored against a mix of strategies. The summary
// of the game that ended is returned.
func (s *Session) SetPolicy(policy Policy) (Summary, error) {
	if policy == nil {
		return Summary{}, fmt.Errorf("set policy: nil policy: %w", shared.ErrInvalidArgument)
	}
	summary := s.Reset()
	s.policy = policy
	return summary, nil
}

// Snapshot is a copy of the session state safe to hand to other goroutines.
type Snapshot struct {
	ID            string         `json:"id"`
	Policy        string         `json:"policy"`
	SelfScore     int            `json:"self_score"`
	OpponentScore int            `json:"opponent_score"`
	Rounds        int            `json:"rounds"`
	History       []RoundOutcome `json:"history"`
	StartedAt     time.Time      `json:"started_at"`
}

// Snapshot copies the current state. The history is cloned.
func (s *Session) Snapshot() Snapshot {
	history := slices.Clone(s.history)
	if history == nil {
		history = []RoundOutcome{}
	}
	return Snapshot{
		ID:            s.id,
		Policy:        s.policy.Name(),
		SelfScore:     s.selfScore,
		OpponentScore: s.opponentScore,
		Rounds:        s.rounds,
		History:       history,
		StartedAt:     s.startedAt,
	}
}

// Result is how a finished game went for the player.
type Result string

const (
	ResultWin  Result = "win"
	ResultLoss Result = "loss"
	ResultTie  Result = "tie"
)

// Summary is the record of a finished game.
type Summary struct {
	SessionID     string `json:"session_id"`
	Policy        string `json:"policy"`
	Rounds        int    `json:"rounds"`
	SelfScore     int    `json:"self_score"`
	OpponentScore int    `json:"opponent_score"`
	Result        Result `json:"result"`
}

// Played reports whether any round was played before the game ended.
func (m Summary) Played() bool { return m.Rounds > 0 }

func (s *Session) summary() Summary {
	result := ResultTie
	switch {
	case s.selfScore > s.opponentScore:
		result = ResultWin
	case s.selfScore < s.opponentScore:
		result = ResultLoss
	}
	return Summary{
		SessionID:     s.id,
		Policy:        s.policy.Name(),
		Rounds:        s.rounds,
		SelfScore:     s.selfScore,
		OpponentScore: s.opponentScore,
		Result:        result,
	}
}
