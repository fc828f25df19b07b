// Package dilemma simulates an iterated Prisoner's Dilemma between a player
// and a computer opponent following a named strategy.
package dilemma

import (
	"fmt"
	"strings"

	"github.com/ashureev/mathlab/internal/shared"
)

// Move is a player's choice in a round. The zero value is not a valid move.
type Move int

const (
	Cooperate Move = iota + 1
	Defect
)

// ParseMove accepts "cooperate" or "defect", case-insensitively.
func ParseMove(s string) (Move, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "cooperate":
		return Cooperate, nil
	case "defect":
		return Defect, nil
	default:
		return 0, fmt.Errorf("parse move %q: %w", s, shared.ErrInvalidArgument)
	}
}

// Valid reports whether m is Cooperate or Defect.
func (m Move) Valid() bool {
	return m == Cooperate || m == Defect
}

func (m Move) String() string {
	switch m {
	case Cooperate:
		return "cooperate"
	case Defect:
		return "defect"
	default:
		return fmt.Sprintf("Move(%d)", int(m))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (m Move) MarshalText() ([]byte, error) {
	if !m.Valid() {
		return nil, fmt.Errorf("marshal move %d: %w", int(m), shared.ErrInvalidArgument)
	}
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Move) UnmarshalText(b []byte) error {
	parsed, err := ParseMove(string(b))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// Payoff returns the points earned by self and opponent for a round.
//
//	self \ opp   Cooperate  Defect
//	Cooperate    (3, 3)     (0, 5)
//	Defect       (5, 0)     (1, 1)
func Payoff(self, opponent Move) (selfPoints, opponentPoints int) {
	switch {
	case self == Cooperate && opponent == Cooperate:
		return 3, 3
	case self == Cooperate && opponent == Defect:
		return 0, 5
	case self == Defect && opponent == Cooperate:
		return 5, 0
	default:
		return 1, 1
	}
}

// BestResponse returns the most a player could have scored against the
// opponent's move: 5 by exploiting a cooperator, 1 against a defector.
func BestResponse(opponent Move) int {
	if opponent == Cooperate {
		return 5
	}
	return 1
}

// RoundOutcome records one round of play.
type RoundOutcome struct {
	SelfMove       Move `json:"self_move"`
	OpponentMove   Move `json:"opponent_move"`
	SelfPayoff     int  `json:"self_payoff"`
	OpponentPayoff int  `json:"opponent_payoff"`
}

// Verdict describes the round from the player's point of view.
func (o RoundOutcome) Verdict() string {
	switch {
	case o.SelfMove == Cooperate && o.OpponentMove == Cooperate:
		return "Mutual cooperation! Both benefit."
	case o.SelfMove == Defect && o.OpponentMove == Defect:
		return "Mutual defection! Both lose out."
	case o.SelfMove == Cooperate && o.OpponentMove == Defect:
		return "You were betrayed! The sucker's payoff."
	default:
		return "You exploited their cooperation!"
	}
}
