package orbitsim

import "math"

// Physical and display constants
const (
	twoPi = 2 * math.Pi

	// G is the Newtonian gravitational constant (m^3 kg^-1 s^-2, CODATA 2018)
	G = 6.67430e-11

	// DisplayOffset is added to both axes when mapping orbit-plane
	// coordinates into display space.
	DisplayOffset = 500.0

	// NudgeStep is the angle (rad) applied by one Advance command.
	NudgeStep = 0.2

	eccentricityScale = 1000.0 // eccentricity ranges are given in thousandths
	offsetScale       = 100.0  // per-index angle stagger divisor
)

// Defaults mirroring the reference scene: one 1200x800 window, a 400x200
// ellipse and a heavy star in the middle of the screen.
const (
	DefaultDisplayWidth  = 1200
	DefaultDisplayHeight = 800
	DefaultSemiMajorAxis = 400.0
	DefaultSemiMinorAxis = 200.0
	DefaultFocusOffset   = 175.0
	DefaultCentralMass   = 100.0
	DefaultCentralRadius = 45.0
	DefaultTickRate      = 100.0 // ticks per second
	DefaultHistory       = 2000  // frames kept by a Recorder

	// MaxBodies bounds the population a BodyFactory will generate.
	MaxBodies = 10000
)
