package staircase

import (
	"errors"
	"testing"

	"github.com/ashureev/mathlab/internal/shared"
)

func countKinds(prims []Primitive) map[Kind]int {
	counts := make(map[Kind]int)
	for _, p := range prims {
		counts[p.Kind]++
	}
	return counts
}

func TestScene_StaircaseOnly(t *testing.T) {
	prims, err := Scene(DefaultCanvas, 3, nil)
	if err != nil {
		t.Fatalf("Scene failed: %v", err)
	}

	counts := countKinds(prims)
	// Ground plus one block per stair, 0 through 3.
	if counts[KindRect] != 5 {
		t.Errorf("Expected 5 rects, got %d", counts[KindRect])
	}
	if counts[KindText] != 4 {
		t.Errorf("Expected 4 stair labels, got %d", counts[KindText])
	}
	if counts[KindLine] != 0 || counts[KindArc] != 0 {
		t.Errorf("Expected no path primitives, got %v", counts)
	}

	ground := prims[0]
	if ground.Y != DefaultCanvas.Height-50 || ground.Width != DefaultCanvas.Width {
		t.Errorf("Unexpected ground rect: %+v", ground)
	}
}

func TestScene_WithPath(t *testing.T) {
	prims, err := Scene(DefaultCanvas, 3, Composition{1, 2})
	if err != nil {
		t.Fatalf("Scene failed: %v", err)
	}

	counts := countKinds(prims)
	if counts[KindLine] != 2 {
		t.Errorf("Expected 2 segments, got %d", counts[KindLine])
	}
	if counts[KindArc] != 2 {
		t.Errorf("Expected start and finish markers, got %d", counts[KindArc])
	}

	var lines []Primitive
	for _, p := range prims {
		if p.Kind == KindLine {
			lines = append(lines, p)
		}
	}
	if lines[0].Stroke != colorSingle || lines[1].Stroke != colorDouble {
		t.Errorf("Unexpected segment colors: %s, %s", lines[0].Stroke, lines[1].Stroke)
	}
	// The double step starts where the single step ended.
	if lines[1].X != lines[0].X2 || lines[1].Y != lines[0].Y2 {
		t.Errorf("Segments are not contiguous: %+v then %+v", lines[0], lines[1])
	}

	finish := prims[len(prims)-1]
	if finish.Kind != KindArc || finish.X != lines[1].X2 {
		t.Errorf("Finish marker not at path end: %+v", finish)
	}
}

func TestScene_RejectsMismatchedPath(t *testing.T) {
	if _, err := Scene(DefaultCanvas, 4, Composition{1, 2}); !errors.Is(err, shared.ErrInvalidArgument) {
		t.Errorf("Expected ErrInvalidArgument, got %v", err)
	}
	if _, err := Scene(DefaultCanvas, 3, Composition{3}); !errors.Is(err, shared.ErrInvalidArgument) {
		t.Errorf("Expected ErrInvalidArgument for step 3, got %v", err)
	}
	if _, err := Scene(DefaultCanvas, -1, nil); !errors.Is(err, shared.ErrInvalidArgument) {
		t.Errorf("Expected ErrInvalidArgument for negative n, got %v", err)
	}
}
