package domain

import (
	"testing"
	"time"

	"github.com/ashureev/mathlab/internal/dilemma"
)

func TestPolicyStats_Record(t *testing.T) {
	var p PolicyStats
	now := time.Now()

	p.Record(dilemma.Summary{Policy: "grudger", Rounds: 4, SelfScore: 12, OpponentScore: 9, Result: dilemma.ResultWin}, now)
	p.Record(dilemma.Summary{Policy: "grudger", Rounds: 2, SelfScore: 1, OpponentScore: 6, Result: dilemma.ResultLoss}, now)
	p.Record(dilemma.Summary{Policy: "grudger"}, now)

	if p.Games != 2 || p.Rounds != 6 || p.Wins != 1 || p.Losses != 1 || p.Ties != 0 {
		t.Errorf("Unexpected stats: %+v", p)
	}
	if p.AveragePayoff() != 13.0/6.0 {
		t.Errorf("AveragePayoff = %v", p.AveragePayoff())
	}
}

func TestDilemmaStatsKey(t *testing.T) {
	key := DilemmaStatsKey("tit-for-tat")
	if key != "dilemma:tit-for-tat" {
		t.Errorf("Unexpected key %q", key)
	}
	policy, ok := PolicyFromStatsKey(key)
	if !ok || policy != "tit-for-tat" {
		t.Errorf("PolicyFromStatsKey = %q, %v", policy, ok)
	}
	if _, ok := PolicyFromStatsKey("monty:wins"); ok {
		t.Error("Expected foreign key to be rejected")
	}
}

func TestVisitor_IdleFor(t *testing.T) {
	now := time.Now()
	v := Visitor{LastSeenAt: now.Add(-5 * time.Minute)}
	if got := v.IdleFor(now); got != 5*time.Minute {
		t.Errorf("IdleFor = %v", got)
	}
	if got := (&Visitor{}).IdleFor(now); got != 0 {
		t.Errorf("Zero visitor IdleFor = %v", got)
	}
}
