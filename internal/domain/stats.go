package domain

import (
	"strings"
	"time"

	"github.com/ashureev/mathlab/internal/dilemma"
)

const dilemmaStatsPrefix = "dilemma:"

// DilemmaStatsKey is the key-value key for cumulative results against a
// policy.
func DilemmaStatsKey(policy string) string {
	return dilemmaStatsPrefix + policy
}

// PolicyFromStatsKey reverses DilemmaStatsKey.
func PolicyFromStatsKey(key string) (string, bool) {
	return strings.CutPrefix(key, dilemmaStatsPrefix)
}

// PolicyStats accumulates finished Prisoner's Dilemma games against one
// policy. A visitor with no record reads as all zeros.
type PolicyStats struct {
	Policy         string    `json:"policy"`
	Games          int       `json:"games"`
	Rounds         int       `json:"rounds"`
	Wins           int       `json:"wins"`
	Losses         int       `json:"losses"`
	Ties           int       `json:"ties"`
	SelfPoints     int       `json:"self_points"`
	OpponentPoints int       `json:"opponent_points"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Record adds a finished game. Games with no rounds are ignored.
func (p *PolicyStats) Record(s dilemma.Summary, at time.Time) {
	if !s.Played() {
		return
	}
	p.Policy = s.Policy
	p.Games++
	p.Rounds += s.Rounds
	p.SelfPoints += s.SelfScore
	p.OpponentPoints += s.OpponentScore
	switch s.Result {
	case dilemma.ResultWin:
		p.Wins++
	case dilemma.ResultLoss:
		p.Losses++
	default:
		p.Ties++
	}
	p.UpdatedAt = at
}

// AveragePayoff is points per round across every recorded game.
func (p PolicyStats) AveragePayoff() float64 {
	if p.Rounds == 0 {
		return 0
	}
	return float64(p.SelfPoints) / float64(p.Rounds)
}
