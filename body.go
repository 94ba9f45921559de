package orbitsim

import (
	"image/color"
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Body is a point mass that experiences state changes in relation to the
// central body.
type Body struct {
	Mass     float64 // Mass of the body
	Radius   float64 // Drawing size, not coupled to Mass by the physics
	Position r2.Vec  // Cartesian position in orbit-plane units

	// Distance is the radial distance fed to the force law. It is set at
	// creation and never recomputed from Position.
	Distance float64

	Omega        float64 // Angular velocity (rad/tick)
	Alpha        float64 // Angular acceleration slot, see UpdateState
	Theta        float64 // Angle between radius vector and reference axis (rad)
	Phi          float64 // Angle between radius vector from the focus and reference axis (rad)
	Eccentricity float64 // In [0, 1), fixed at creation

	Color color.RGBA // Render hint, assigned once at setup
}

// UpdateState stores the result of a radial vector computation. The third
// argument lands in Alpha: the integrator passes the current angle there.
func (b *Body) UpdateState(x, y, alpha, omega float64) {
	b.Position = r2.Vec{X: x, Y: y}
	b.Alpha = alpha
	b.Omega = omega
}

// CheckAngle keeps Theta and Phi within [0, 2pi] by resetting an angle that
// ran past 2pi back to 0. It does not wrap modulo 2pi.
func (b *Body) CheckAngle() {
	if b.Phi > twoPi {
		b.Phi = 0
	}
	if b.Theta > twoPi {
		b.Theta = 0
	}
}

// validate reports the first static invariant the body breaks. field
// prefixes the reported field name, e.g. "bodies[2]".
func (b *Body) validate(field string) error {
	switch {
	case !(b.Mass > 0):
		return configErr(field+".mass", ReasonNonPositive, b.Mass)
	case !(b.Radius > 0):
		return configErr(field+".radius", ReasonNonPositive, b.Radius)
	case !(b.Distance > 0) || math.IsInf(b.Distance, 0):
		return configErr(field+".distance", ReasonNonPositive, b.Distance)
	case b.Eccentricity < 0:
		return configErr(field+".eccentricity", ReasonEccentricityNegative, b.Eccentricity)
	case !(b.Eccentricity < 1):
		return configErr(field+".eccentricity", ReasonEccentricityTooHigh, b.Eccentricity)
	}
	return nil
}
