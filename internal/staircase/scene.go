package staircase

import (
	"fmt"
	"math"
	"strconv"

	"github.com/ashureev/mathlab/internal/shared"
)

// Kind names a drawing primitive understood by the frontend canvas.
type Kind string

const (
	KindRect Kind = "rect"
	KindLine Kind = "line"
	KindArc  Kind = "arc"
	KindText Kind = "text"
)

// Primitive is a single drawing command. Fields that do not apply to the
// kind are left zero and omitted from JSON.
type Primitive struct {
	Kind      Kind    `json:"kind"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	X2        float64 `json:"x2,omitempty"`
	Y2        float64 `json:"y2,omitempty"`
	Width     float64 `json:"w,omitempty"`
	Height    float64 `json:"h,omitempty"`
	Radius    float64 `json:"r,omitempty"`
	EndAngle  float64 `json:"end_angle,omitempty"`
	Text      string  `json:"text,omitempty"`
	Font      string  `json:"font,omitempty"`
	Fill      string  `json:"fill,omitempty"`
	Stroke    string  `json:"stroke,omitempty"`
	LineWidth float64 `json:"line_width,omitempty"`
}

// Canvas is the size of the drawing surface in pixels.
type Canvas struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// DefaultCanvas matches the staircase canvas on the simulation page.
var DefaultCanvas = Canvas{Width: 800, Height: 500}

const (
	stepWidth   = 60.0
	stepHeight  = 40.0
	originX     = 50.0
	groundDepth = 50.0
	markerSize  = 12.0

	colorGround    = "#e5e7eb"
	colorStep      = "#8b5cf6"
	colorStepEdge  = "#5b21b6"
	colorSingle    = "#3b82f6"
	colorDouble    = "#ef4444"
	colorStart     = "#10b981"
	colorFinish    = "#ef4444"
	colorStepLabel = "white"
)

// Scene lays out a staircase of n steps and, when path is non-nil, the
// route it takes. The path must climb exactly n steps.
func Scene(canvas Canvas, n int, path Composition) ([]Primitive, error) {
	if n < 0 {
		return nil, fmt.Errorf("scene for %d steps: %w", n, shared.ErrInvalidArgument)
	}
	if path != nil && path.Sum() != n {
		return nil, fmt.Errorf("scene path %q climbs %d of %d steps: %w", path.String(), path.Sum(), n, shared.ErrInvalidArgument)
	}
	for _, s := range path {
		if s != 1 && s != 2 {
			return nil, fmt.Errorf("scene path step %d: %w", s, shared.ErrInvalidArgument)
		}
	}

	baseY := canvas.Height - groundDepth
	prims := make([]Primitive, 0, 2*(n+1)+1+3*len(path)+2)

	prims = append(prims, Primitive{
		Kind: KindRect, X: 0, Y: baseY, Width: canvas.Width, Height: groundDepth,
		Fill: colorGround,
	})

	for i := 0; i <= n; i++ {
		x := originX + float64(i)*stepWidth
		y := baseY - float64(i)*stepHeight
		prims = append(prims,
			Primitive{
				Kind: KindRect, X: x, Y: y, Width: stepWidth, Height: stepHeight,
				Fill: colorStep, Stroke: colorStepEdge, LineWidth: 3,
			},
			Primitive{
				Kind: KindText, X: x + stepWidth/2, Y: y + stepHeight/2,
				Text: strconv.Itoa(i), Font: "bold 20px Arial", Fill: colorStepLabel,
			},
		)
	}

	if path == nil {
		return prims, nil
	}

	center := func(step int) (float64, float64) {
		return originX + float64(step)*stepWidth + stepWidth/2,
			baseY - float64(step)*stepHeight + stepHeight/2
	}

	x, y := center(0)
	prims = append(prims, Primitive{
		Kind: KindArc, X: x, Y: y, Radius: markerSize, EndAngle: 2 * math.Pi, Fill: colorStart,
	})

	current := 0
	for _, size := range path {
		prevX, prevY := center(current)
		current += size
		x, y = center(current)

		color := colorSingle
		if size == 2 {
			color = colorDouble
		}
		prims = append(prims,
			Primitive{
				Kind: KindLine, X: prevX, Y: prevY, X2: x, Y2: y,
				Stroke: color, LineWidth: 4,
			},
			Primitive{
				Kind: KindText, X: (prevX + x) / 2, Y: (prevY+y)/2 - 15,
				Text: "+" + strconv.Itoa(size), Font: "bold 16px Arial", Fill: color,
			},
		)
	}

	prims = append(prims, Primitive{
		Kind: KindArc, X: x, Y: y, Radius: markerSize, EndAngle: 2 * math.Pi, Fill: colorFinish,
	})
	return prims, nil
}
