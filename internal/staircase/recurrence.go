package staircase

import (
	"fmt"

	"github.com/ashureev/mathlab/internal/shared"
)

// Term is the number of ways to climb a staircase of N steps.
type Term struct {
	N    int    `json:"n"`
	Ways uint64 `json:"ways"`
}

// Recurrence explains ways(N) in terms of the two smaller staircases: every
// path to N ends with a single step from N-1 or a double step from N-2.
type Recurrence struct {
	N        int    `json:"n"`
	Ways     uint64 `json:"ways"`
	Previous []Term `json:"previous,omitempty"`
	Equation string `json:"equation"`
	Note     string `json:"note,omitempty"`
}

// Explain builds the recurrence breakdown for n. Heights 0 and 1 are base
// cases with no smaller terms.
func Explain(n int) (Recurrence, error) {
	if n < 0 {
		return Recurrence{}, fmt.Errorf("explain staircase of %d steps: %w", n, shared.ErrInvalidArgument)
	}

	ways, err := Count(n)
	if err != nil {
		return Recurrence{}, err
	}

	r := Recurrence{N: n, Ways: ways}
	switch n {
	case 0:
		r.Equation = "ways(0) = 1"
		r.Note = "Base case: standing still is the only way to climb 0 steps"
		return r, nil
	case 1:
		r.Equation = "ways(1) = 1"
		r.Note = "Base case: only one way to climb 1 step"
		return r, nil
	}

	// Both lookups are below n, which Count already accepted.
	twoBack, _ := Count(n - 2)
	oneBack, _ := Count(n - 1)
	r.Previous = []Term{
		{N: n - 2, Ways: twoBack},
		{N: n - 1, Ways: oneBack},
	}
	r.Equation = fmt.Sprintf("%d + %d = %d", twoBack, oneBack, ways)
	if n == 2 {
		r.Note = "N-2 = 0, so we use 1 as the base"
	}
	return r, nil
}
