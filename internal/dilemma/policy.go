package dilemma

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math/rand/v2"
	"slices"
	"sync"

	"github.com/ashureev/mathlab/internal/shared"
)

// Policy decides the opponent's next move from the rounds played so far.
// History is read-only; a policy must not retain or modify it.
type Policy interface {
	Name() string
	Next(history []RoundOutcome) Move
}

// PolicyInfo describes a registered strategy.
type PolicyInfo struct {
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
	Description string `json:"description"`
	// OptimalAverage is the best average payoff per round a player can
	// sustain against this strategy.
	OptimalAverage float64 `json:"optimal_average"`
	// New builds the policy; stochastic policies draw from rng.
	New func(rng *rand.Rand) Policy `json:"-"`
}

// Strategy names.
const (
	NameRandom          = "random"
	NameAlwaysCooperate = "always-cooperate"
	NameAlwaysDefect    = "always-defect"
	NameTitForTat       = "tit-for-tat"
	NameGrudger         = "grudger"
)

// DefaultPolicy is the strategy a new session starts with.
const DefaultPolicy = NameTitForTat

var (
	registryMu sync.RWMutex
	registry   = map[string]PolicyInfo{}
	order      []string
)

// Register adds a strategy. It panics on an empty or duplicate name, which
// only happens at init time.
func Register(info PolicyInfo) {
	registryMu.Lock()
	defer registryMu.Unlock()

	if info.Name == "" || info.New == nil {
		panic("dilemma: Register requires a name and constructor")
	}
	if _, dup := registry[info.Name]; dup {
		panic("dilemma: duplicate policy " + info.Name)
	}
	registry[info.Name] = info
	order = append(order, info.Name)
}

// Lookup returns the registered strategy with the given name.
func Lookup(name string) (PolicyInfo, error) {
	registryMu.RLock()
	defer registryMu.RUnlock()

	info, ok := registry[name]
	if !ok {
		return PolicyInfo{}, fmt.Errorf("unknown policy %q: %w", name, shared.ErrInvalidArgument)
	}
	return info, nil
}

// Policies lists registered strategies in registration order.
func Policies() []PolicyInfo {
	registryMu.RLock()
	defer registryMu.RUnlock()

	infos := make([]PolicyInfo, 0, len(order))
	for _, name := range order {
		infos = append(infos, registry[name])
	}
	return infos
}

// PolicyByName builds the named strategy. rng may be nil, in which case a
// freshly seeded source is used.
func PolicyByName(name string, rng *rand.Rand) (Policy, error) {
	info, err := Lookup(name)
	if err != nil {
		return nil, err
	}
	if rng == nil {
		rng = NewRand()
	}
	return info.New(rng), nil
}

// NewRand returns a PCG source seeded from crypto/rand.
func NewRand() *rand.Rand {
	var b [16]byte
	if _, err := crand.Read(b[:]); err != nil {
		// crypto/rand does not fail on supported platforms.
		panic("dilemma: read random seed: " + err.Error())
	}
	return rand.New(rand.NewPCG(binary.LittleEndian.Uint64(b[:8]), binary.LittleEndian.Uint64(b[8:])))
}

// RandomPolicy cooperates or defects with equal probability each round.
type RandomPolicy struct {
	rng *rand.Rand
}

func (RandomPolicy) Name() string { return NameRandom }

func (p RandomPolicy) Next([]RoundOutcome) Move {
	if p.rng.Float64() < 0.5 {
		return Cooperate
	}
	return Defect
}

// AlwaysCooperate never defects.
type AlwaysCooperate struct{}

func (AlwaysCooperate) Name() string             { return NameAlwaysCooperate }
func (AlwaysCooperate) Next([]RoundOutcome) Move { return Cooperate }

// AlwaysDefect never cooperates.
type AlwaysDefect struct{}

func (AlwaysDefect) Name() string             { return NameAlwaysDefect }
func (AlwaysDefect) Next([]RoundOutcome) Move { return Defect }

// TitForTat cooperates first, then repeats the player's previous move.
type TitForTat struct{}

func (TitForTat) Name() string { return NameTitForTat }

func (TitForTat) Next(history []RoundOutcome) Move {
	if len(history) == 0 {
		return Cooperate
	}
	return history[len(history)-1].SelfMove
}

// Grudger cooperates until the player defects once, then defects for the
// rest of the session.
type Grudger struct{}

func (Grudger) Name() string { return NameGrudger }

func (Grudger) Next(history []RoundOutcome) Move {
	betrayed := slices.ContainsFunc(history, func(o RoundOutcome) bool {
		return o.SelfMove == Defect
	})
	if betrayed {
		return Defect
	}
	return Cooperate
}

func init() {
	Register(PolicyInfo{
		Name:           NameRandom,
		DisplayName:    "Random",
		Description:    "Flips a coin every round.",
		OptimalAverage: 3.0,
		New:            func(rng *rand.Rand) Policy { return RandomPolicy{rng: rng} },
	})
	Register(PolicyInfo{
		Name:           NameAlwaysCooperate,
		DisplayName:    "Always Cooperate",
		Description:    "Never defects, so it can be exploited every round.",
		OptimalAverage: 5.0,
		New:            func(*rand.Rand) Policy { return AlwaysCooperate{} },
	})
	Register(PolicyInfo{
		Name:           NameAlwaysDefect,
		DisplayName:    "Always Defect",
		Description:    "Never cooperates.",
		OptimalAverage: 1.0,
		New:            func(*rand.Rand) Policy { return AlwaysDefect{} },
	})
	Register(PolicyInfo{
		Name:           NameTitForTat,
		DisplayName:    "Tit-for-Tat",
		Description:    "Cooperates first, then copies your previous move.",
		OptimalAverage: 3.0,
		New:            func(*rand.Rand) Policy { return TitForTat{} },
	})
	Register(PolicyInfo{
		Name:           NameGrudger,
		DisplayName:    "Grudger",
		Description:    "Cooperates until you defect once, then defects forever.",
		OptimalAverage: 3.0,
		New:            func(*rand.Rand) Policy { return Grudger{} },
	})
}
