package staircase

import (
	"errors"
	"reflect"
	"testing"

	"github.com/ashureev/mathlab/internal/shared"
)

func TestEnumerate_Counts(t *testing.T) {
	want := map[int]int{0: 1, 1: 1, 2: 2, 3: 3, 4: 5, 5: 8, 10: 89}
	for n, expected := range want {
		paths, err := Enumerate(n)
		if err != nil {
			t.Fatalf("Enumerate(%d) failed: %v", n, err)
		}
		if len(paths) != expected {
			t.Errorf("Enumerate(%d) returned %d paths, want %d", n, len(paths), expected)
		}
	}
}

func TestEnumerate_Order(t *testing.T) {
	paths, err := Enumerate(3)
	if err != nil {
		t.Fatalf("Enumerate(3) failed: %v", err)
	}

	want := []Composition{{1, 1, 1}, {1, 2}, {2, 1}}
	if !reflect.DeepEqual(paths, want) {
		t.Errorf("Enumerate(3) = %v, want %v", paths, want)
	}

	paths, _ = Enumerate(4)
	want = []Composition{{1, 1, 1, 1}, {1, 1, 2}, {1, 2, 1}, {2, 1, 1}, {2, 2}}
	if !reflect.DeepEqual(paths, want) {
		t.Errorf("Enumerate(4) = %v, want %v", paths, want)
	}
}

func TestEnumerate_Zero(t *testing.T) {
	paths, err := Enumerate(0)
	if err != nil {
		t.Fatalf("Enumerate(0) failed: %v", err)
	}
	if len(paths) != 1 || len(paths[0]) != 0 {
		t.Errorf("Expected a single empty composition, got %v", paths)
	}
}

func TestEnumerate_One(t *testing.T) {
	paths, _ := Enumerate(1)
	if !reflect.DeepEqual(paths, []Composition{{1}}) {
		t.Errorf("Enumerate(1) = %v, want [[1]]", paths)
	}
}

func TestEnumerate_Negative(t *testing.T) {
	_, err := Enumerate(-1)
	if !errors.Is(err, shared.ErrInvalidArgument) {
		t.Errorf("Expected ErrInvalidArgument, got %v", err)
	}
}

func TestEnumerate_PathsAreValid(t *testing.T) {
	for n := 0; n <= 12; n++ {
		paths, err := Enumerate(n)
		if err != nil {
			t.Fatalf("Enumerate(%d) failed: %v", n, err)
		}
		seen := make(map[string]bool, len(paths))
		for _, p := range paths {
			if p.Sum() != n {
				t.Errorf("n=%d: path %v sums to %d", n, p, p.Sum())
			}
			for _, s := range p {
				if s != 1 && s != 2 {
					t.Errorf("n=%d: path %v has step %d", n, p, s)
				}
			}
			key := p.String()
			if seen[key] {
				t.Errorf("n=%d: duplicate path %v", n, p)
			}
			seen[key] = true
		}
	}
}

func TestEnumerate_PathsDoNotShareStorage(t *testing.T) {
	paths, _ := Enumerate(4)
	paths[0][0] = 9
	if paths[1][0] != 1 {
		t.Errorf("Mutating one path changed another: %v", paths)
	}

	again, _ := Enumerate(4)
	if again[0][0] != 1 {
		t.Errorf("Mutation leaked into a later enumeration: %v", again)
	}
}

func TestCount_MatchesEnumerate(t *testing.T) {
	for n := 0; n <= 20; n++ {
		paths, _ := Enumerate(n)
		c, err := Count(n)
		if err != nil {
			t.Fatalf("Count(%d) failed: %v", n, err)
		}
		if c != uint64(len(paths)) {
			t.Errorf("Count(%d) = %d, Enumerate returned %d", n, c, len(paths))
		}
	}
}

func TestCount_Bounds(t *testing.T) {
	c, err := Count(MaxCountSteps)
	if err != nil {
		t.Fatalf("Count(%d) failed: %v", MaxCountSteps, err)
	}
	if c != 12200160415121876738 {
		t.Errorf("Count(%d) = %d, want F(93)", MaxCountSteps, c)
	}

	if _, err := Count(MaxCountSteps + 1); !errors.Is(err, shared.ErrInvalidArgument) {
		t.Errorf("Expected overflow to be rejected, got %v", err)
	}
	if _, err := Count(-3); !errors.Is(err, shared.ErrInvalidArgument) {
		t.Errorf("Expected negative n to be rejected, got %v", err)
	}
}

func TestFibonacciLabel(t *testing.T) {
	got, err := FibonacciLabel(5)
	if err != nil {
		t.Fatalf("FibonacciLabel failed: %v", err)
	}
	if got != "F(6) = 8" {
		t.Errorf("FibonacciLabel(5) = %q", got)
	}
}

func TestComposition_String(t *testing.T) {
	if got := (Composition{1, 2, 1}).String(); got != "+1 +2 +1" {
		t.Errorf("String() = %q", got)
	}
	if got := (Composition{}).String(); got != "" {
		t.Errorf("Empty String() = %q", got)
	}
}

func BenchmarkEnumerate20(b *testing.B) {
	for i := 0; i < b.N; i++ {
		if _, err := Enumerate(20); err != nil {
			b.Fatal(err)
		}
	}
}
