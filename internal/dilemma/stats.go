package dilemma

// Stats are figures derived from a snapshot. Computing them never mutates
// the session.
type Stats struct {
	AveragePayoff  float64 `json:"average_payoff"`
	OptimalAverage float64 `json:"optimal_average"`
	// Efficiency is AveragePayoff as a percentage of OptimalAverage. It is
	// not clamped; DisplayEfficiency is.
	Efficiency        float64 `json:"efficiency"`
	DisplayEfficiency float64 `json:"display_efficiency"`
	PerfectPlayScore  int     `json:"perfect_play_score"`
}

// AveragePayoff is the player's points per round, 0 before the first round.
func AveragePayoff(s Snapshot) float64 {
	if s.Rounds == 0 {
		return 0
	}
	return float64(s.SelfScore) / float64(s.Rounds)
}

// OptimalAverage returns the best sustainable average against the named
// policy, or 0 if the policy is not registered.
func OptimalAverage(policy string) float64 {
	info, err := Lookup(policy)
	if err != nil {
		return 0
	}
	return info.OptimalAverage
}

// Efficiency is actual over optimal average as a percentage.
func Efficiency(actual, optimal float64) float64 {
	if optimal == 0 {
		return 0
	}
	return actual / optimal * 100
}

// ClampEfficiency bounds an efficiency to 0..100 for display.
func ClampEfficiency(e float64) float64 {
	return min(max(e, 0), 100)
}

// PerfectPlayScore sums, over the history, the best payoff the player could
// have earned against the move the opponent actually made.
func PerfectPlayScore(history []RoundOutcome) int {
	total := 0
	for _, o := range history {
		total += BestResponse(o.OpponentMove)
	}
	return total
}

// ComputeStats derives every statistic for s.
func ComputeStats(s Snapshot) Stats {
	avg := AveragePayoff(s)
	optimal := OptimalAverage(s.Policy)
	eff := Efficiency(avg, optimal)
	return Stats{
		AveragePayoff:     avg,
		OptimalAverage:    optimal,
		Efficiency:        eff,
		DisplayEfficiency: ClampEfficiency(eff),
		PerfectPlayScore:  PerfectPlayScore(s.History),
	}
}
