package orbitsim

import (
	"image/color"
	"time"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/spatial/r2"
)

// RandSource is the random number source used by BodyFactory.
// *rand.Rand from golang.org/x/exp/rand satisfies it.
type RandSource interface {
	Intn(n int) int
	Float64() float64
}

// NewRand returns a generator seeded with seed. A zero seed is replaced by
// the current time.
func NewRand(seed uint64) *rand.Rand {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return rand.New(rand.NewSource(seed))
}

// CentralColor is the render hint of the central body.
var CentralColor = color.RGBA{R: 200, A: 255}

// BodyFactory generates the initial population of a run.
type BodyFactory struct {
	cfg     PopulationConfig
	display Display
	rng     RandSource
}

// NewBodyFactory validates the population ranges and display bounds.
func NewBodyFactory(cfg PopulationConfig, display Display, rng RandSource) (*BodyFactory, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := display.Validate(); err != nil {
		return nil, err
	}
	return &BodyFactory{cfg: cfg, display: display, rng: rng}, nil
}

// Generate draws a body count from the configured range and generates that
// many bodies.
func (f *BodyFactory) Generate() ([]Body, error) {
	return f.GenerateN(f.draw(f.cfg.Count))
}

// GenerateN generates exactly n bodies in index order.
func (f *BodyFactory) GenerateN(n int) ([]Body, error) {
	if n < 0 {
		return nil, configErr("population.count", ReasonNegative, n)
	}
	if n > MaxBodies {
		return nil, configErr("population.count", ReasonTooLarge, n)
	}
	bodies := make([]Body, n)
	for i := range bodies {
		mass := float64(f.draw(f.cfg.Mass))
		x := float64(f.display.Width) / float64(f.draw(f.cfg.PositionDivisor))
		y := float64(f.display.Height) / float64(f.draw(f.cfg.PositionDivisor))
		ecc := float64(f.draw(f.cfg.Eccentricity)) / eccentricityScale

		// offset decorrelates bodies of the same batch
		offset := float64(i) / offsetScale
		pos := r2.Vec{X: x, Y: y}

		bodies[i] = Body{
			Mass:         mass,
			Radius:       mass,
			Position:     pos,
			Distance:     r2.Norm(pos) + f.rng.Float64()*f.cfg.DistanceJitter,
			Theta:        ecc + offset,
			Phi:          ecc + offset,
			Eccentricity: ecc,
			Color:        f.color(),
		}
	}
	return bodies, nil
}

// draw returns a uniform integer in the inclusive range r. Validate keeps
// every lower bound non-negative, so the span cannot overflow.
func (f *BodyFactory) draw(r IntRange) int {
	return r.Min + f.rng.Intn(r.Max-r.Min+1)
}

func (f *BodyFactory) color() color.RGBA {
	return color.RGBA{
		R: uint8(55 + f.rng.Intn(201)),
		G: uint8(55 + f.rng.Intn(201)),
		B: uint8(55 + f.rng.Intn(201)),
		A: 255,
	}
}

// NewCentralBody places the central body in the middle of the display.
func NewCentralBody(cfg Config) Body {
	return Body{
		Mass:     cfg.Central.Mass,
		Radius:   cfg.Central.Radius,
		Position: r2.Vec{X: float64(cfg.Display.Width / 2), Y: float64(cfg.Display.Height / 2)},
		Color:    CentralColor,
	}
}

// NewFromConfig builds a ready-to-run Mechanics: it validates cfg, generates
// the population from rng and places the central body.
func NewFromConfig(cfg Config, rng RandSource, opts ...Option) (*Mechanics, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	factory, err := NewBodyFactory(cfg.Population, cfg.Display, rng)
	if err != nil {
		return nil, err
	}
	bodies, err := factory.Generate()
	if err != nil {
		return nil, err
	}
	if cfg.PreserveAcceleration {
		opts = append(opts, WithPreservedAcceleration())
	}
	return NewMechanics(cfg.Orbit, NewCentralBody(cfg), bodies, opts...)
}
