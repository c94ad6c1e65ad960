package systems

import (
	"errors"
	"fmt"
	"math/rand"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/lightseeker/components"
)

// IntensityFalloff controls how quickly light fades with squared distance.
const IntensityFalloff = 1000.0

// DefaultLightMargin keeps the light source away from the grid edges.
const DefaultLightMargin = 20

var (
	// ErrWorldTooSmall is returned when the grid cannot fit the light placement range.
	ErrWorldTooSmall = errors.New("world too small for light placement")
	// ErrLightOutOfBounds is returned when an explicit light position is off the grid.
	ErrLightOutOfBounds = errors.New("light source out of bounds")
)

// Environment is a bounded grid with a single static light source.
// It is never mutated after construction.
type Environment struct {
	Width  int
	Height int
	Light  components.Position
}

// NewEnvironment creates an environment with the light drawn uniformly from
// [DefaultLightMargin, dim-DefaultLightMargin] on each axis.
func NewEnvironment(width, height int, rng *rand.Rand) (*Environment, error) {
	return NewEnvironmentWithMargin(width, height, DefaultLightMargin, rng)
}

// NewEnvironmentWithMargin is NewEnvironment with an explicit light margin.
// Both bounds of the placement range are inclusive, so the margin must be at
// least 1 to keep the upper bound on the grid.
func NewEnvironmentWithMargin(width, height, margin int, rng *rand.Rand) (*Environment, error) {
	if margin < 1 || width < 2*margin || height < 2*margin {
		return nil, fmt.Errorf("%dx%d with margin %d: %w", width, height, margin, ErrWorldTooSmall)
	}
	light := components.Position{
		X: margin + rng.Intn(width-2*margin+1),
		Y: margin + rng.Intn(height-2*margin+1),
	}
	return &Environment{Width: width, Height: height, Light: light}, nil
}

// NewEnvironmentWithLight creates an environment with a fixed light position.
func NewEnvironmentWithLight(width, height int, light components.Position) (*Environment, error) {
	if width < 1 || height < 1 {
		return nil, fmt.Errorf("%dx%d: %w", width, height, ErrWorldTooSmall)
	}
	env := &Environment{Width: width, Height: height, Light: light}
	if !env.InBounds(light.X, light.Y) {
		return nil, fmt.Errorf("light at %s in %dx%d world: %w", light, width, height, ErrLightOutOfBounds)
	}
	return env, nil
}

// Intensity returns the light level at (x, y): 1 / (1 + d²/IntensityFalloff).
// It is defined everywhere, including off the grid, and lies in (0, 1].
func (e *Environment) Intensity(x, y float64) float64 {
	d := r2.Sub(r2.Vec{X: x, Y: y}, e.lightVec())
	return 1 / (1 + r2.Norm2(d)/IntensityFalloff)
}

// IntensityAt is Intensity for a grid position.
func (e *Environment) IntensityAt(p components.Position) float64 {
	return e.Intensity(float64(p.X), float64(p.Y))
}

// InBounds reports whether (x, y) is a cell of the grid.
func (e *Environment) InBounds(x, y int) bool {
	return x >= 0 && x < e.Width && y >= 0 && y < e.Height
}

// DistanceToLight returns the Euclidean distance from p to the light source.
func (e *Environment) DistanceToLight(p components.Position) float64 {
	return r2.Norm(r2.Sub(r2.Vec{X: float64(p.X), Y: float64(p.Y)}, e.lightVec()))
}

func (e *Environment) lightVec() r2.Vec {
	return r2.Vec{X: float64(e.Light.X), Y: float64(e.Light.Y)}
}
