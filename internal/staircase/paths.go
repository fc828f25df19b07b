// Package staircase enumerates the ways to climb a staircase taking one or
// two steps at a time and lays them out for drawing.
//
// The number of ways to climb n steps is F(n+1) with F(1) = F(2) = 1, so
// Enumerate doubles as a check on the Fibonacci recurrence: its length must
// always agree with Count.
package staircase

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/ashureev/mathlab/internal/shared"
)

// MaxCountSteps is the largest n whose path count fits in a uint64.
const MaxCountSteps = 92

// Composition is one path up the staircase: an ordered sequence of 1s and
// 2s summing to the staircase height.
type Composition []int

// Sum returns the total height climbed by the composition.
func (c Composition) Sum() int {
	total := 0
	for _, s := range c {
		total += s
	}
	return total
}

// String renders the composition as "+1 +2 +1".
func (c Composition) String() string {
	parts := make([]string, len(c))
	for i, s := range c {
		parts[i] = "+" + strconv.Itoa(s)
	}
	return strings.Join(parts, " ")
}

// Enumerate returns every composition of n into parts of 1 and 2.
//
// Paths come out in depth-first order trying a step of 1 before a step of
// 2, so Enumerate(3) is [[1 1 1] [1 2] [2 1]]. Enumerate(0) yields a single
// empty composition. The work is proportional to the output, F(n+1) paths;
// callers that only need the total should use Count.
func Enumerate(n int) ([]Composition, error) {
	if n < 0 {
		return nil, fmt.Errorf("enumerate staircase of %d steps: %w", n, shared.ErrInvalidArgument)
	}

	capacity := 0
	if n <= MaxCountSteps {
		if c, err := Count(n); err == nil && c <= 1<<20 {
			capacity = int(c)
		}
	}

	paths := make([]Composition, 0, capacity)
	prefix := make(Composition, 0, n)

	var climb func(remaining int)
	climb = func(remaining int) {
		if remaining == 0 {
			paths = append(paths, slices.Clone(prefix))
			return
		}

		prefix = append(prefix, 1)
		climb(remaining - 1)
		prefix = prefix[:len(prefix)-1]

		// A two-step from the last stair would overshoot.
		if remaining >= 2 {
			prefix = append(prefix, 2)
			climb(remaining - 2)
			prefix = prefix[:len(prefix)-1]
		}
	}
	climb(n)

	return paths, nil
}

// Count returns the number of compositions of n without materializing them,
// using count(0) = count(1) = 1 and count(n) = count(n-1) + count(n-2).
func Count(n int) (uint64, error) {
	if n < 0 {
		return 0, fmt.Errorf("count staircase of %d steps: %w", n, shared.ErrInvalidArgument)
	}
	if n > MaxCountSteps {
		return 0, fmt.Errorf("count staircase of %d steps exceeds %d: %w", n, MaxCountSteps, shared.ErrInvalidArgument)
	}

	var prev, cur uint64 = 1, 1
	for i := 2; i <= n; i++ {
		prev, cur = cur, prev+cur
	}
	return cur, nil
}

// FibonacciLabel formats the count of n as its Fibonacci term, "F(6) = 8".
func FibonacciLabel(n int) (string, error) {
	c, err := Count(n)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("F(%d) = %d", n+1, c), nil
}
