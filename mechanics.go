package orbitsim

import (
	"io"
	"log/slog"
	"math"
)

// Mechanics integrates the orbits of a set of bodies around a fixed central
// body. All bodies share one ellipse shape and differ only in angle,
// eccentricity and distance. Bodies never attract each other.
//
// A Mechanics is owned by a single goroutine; none of its methods are safe
// for concurrent use.
type Mechanics struct {
	SemiMajorAxis float64 // The semi-major axis
	SemiMinorAxis float64 // The semi-minor axis
	FocusOffset   float64 // Focus of the ellipse

	Central Body   // Attracting mass, never moves
	Bodies  []Body // Generation order, fixed membership

	preserveAcceleration bool
	ticks                uint64
	logger               *slog.Logger
}

// Option configures a Mechanics.
type Option func(*Mechanics)

// WithLogger sets the logger used for per-body debug output.
func WithLogger(l *slog.Logger) Option {
	return func(m *Mechanics) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithPreservedAcceleration keeps the alpha computed by ComputeForce after
// the radial vector update instead of overwriting it with the angle.
func WithPreservedAcceleration() Option {
	return func(m *Mechanics) { m.preserveAcceleration = true }
}

// NewMechanics validates the orbit geometry, the central body and every
// orbiting body, then returns an integrator owning a copy of bodies.
func NewMechanics(orbit OrbitConfig, central Body, bodies []Body, opts ...Option) (*Mechanics, error) {
	if err := orbit.Validate(); err != nil {
		return nil, err
	}
	if !(central.Mass > 0) {
		return nil, configErr("central.mass", ReasonNonPositive, central.Mass)
	}
	if !(central.Radius > 0) {
		return nil, configErr("central.radius", ReasonNonPositive, central.Radius)
	}
	for i := range bodies {
		if err := bodies[i].validate(bodyField(i)); err != nil {
			return nil, err
		}
	}

	m := &Mechanics{
		SemiMajorAxis: orbit.SemiMajorAxis,
		SemiMinorAxis: orbit.SemiMinorAxis,
		FocusOffset:   orbit.FocusOffset,
		Central:       central,
		Bodies:        append([]Body(nil), bodies...),
		logger:        slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// Ticks returns the number of completed ticks.
func (m *Mechanics) Ticks() uint64 {
	return m.ticks
}

// ComputeForce updates alpha of body i with the angular acceleration
// G * M / r^2, where r is the body's fixed Distance.
func (m *Mechanics) ComputeForce(i int) error {
	b := &m.Bodies[i]
	if !(b.Distance > 0) {
		return &DomainError{Op: "force", Body: i, Reason: ReasonNonPositiveDistance, Value: b.Distance}
	}
	b.Alpha = G * m.Central.Mass / (b.Distance * b.Distance)
	return nil
}

// ComputeAngularVelocity derives omega of body i from its current alpha.
func (m *Mechanics) ComputeAngularVelocity(i int) error {
	b := &m.Bodies[i]
	if !(b.Alpha >= 0) {
		return &DomainError{Op: "angular velocity", Body: i, Reason: ReasonNegativeAcceleration, Value: b.Alpha}
	}
	den := b.Mass * math.Pow(m.SemiMajorAxis, 3)
	if !(den > 0) {
		return &DomainError{Op: "angular velocity", Body: i, Reason: ReasonNonPositiveDenominator, Value: den}
	}
	b.Omega = math.Sqrt(b.Alpha / den)
	return nil
}

// ComputeRadialVector places body i on the shared ellipse at its current
// theta, following Kepler's laws.
func (m *Mechanics) ComputeRadialVector(i int) {
	b := &m.Bodies[i]
	e := b.Eccentricity
	x := m.SemiMajorAxis*math.Cos(b.Theta) - e
	y := m.SemiMajorAxis * math.Sin(b.Theta) * (1 - e*e)

	alpha := b.Theta
	if m.preserveAcceleration {
		alpha = b.Alpha
	}
	b.UpdateState(x, y, alpha, b.Omega)
	m.logger.Debug("body state", "body", i, "x", x, "y", y)
}

// checkFinite fails when body i carries a NaN or infinite angle, which
// CheckAngle cannot bring back into range.
func (m *Mechanics) checkFinite(i int) error {
	b := &m.Bodies[i]
	if !isFinite(b.Phi) {
		return &DomainError{Op: "angle check", Body: i, Reason: ReasonNonFiniteAngle, Value: b.Phi}
	}
	if !isFinite(b.Theta) {
		return &DomainError{Op: "angle check", Body: i, Reason: ReasonNonFiniteAngle, Value: b.Theta}
	}
	return nil
}

// UpdateAngle advances theta of body i by the true anomaly corresponding to
// half its phi.
func (m *Mechanics) UpdateAngle(i int) error {
	if err := m.checkFinite(i); err != nil {
		return err
	}
	b := &m.Bodies[i]
	e := b.Eccentricity
	if e < 0 || !(e < 1) {
		return &DomainError{Op: "angle", Body: i, Reason: ReasonEccentricityOutOfRange, Value: e}
	}
	b.Theta += math.Atan(math.Tan(b.Phi/2) / math.Sqrt((1+e)/(1-e)))
	return nil
}

// Tick advances every body by one step, in collection order. The first
// error aborts the tick and should end the run. State is then partial:
// bodies before the failing one have advanced, the rest have not, and
// Ticks is not incremented.
func (m *Mechanics) Tick() error {
	for i := range m.Bodies {
		m.Bodies[i].CheckAngle()
		if err := m.checkFinite(i); err != nil {
			return err
		}
		if err := m.ComputeForce(i); err != nil {
			return err
		}
		if err := m.ComputeAngularVelocity(i); err != nil {
			return err
		}
		m.ComputeRadialVector(i)
		if err := m.UpdateAngle(i); err != nil {
			return err
		}
	}
	m.ticks++
	return nil
}

// Step runs one Tick and returns the resulting frame.
func (m *Mechanics) Step() (Frame, error) {
	if err := m.Tick(); err != nil {
		return Frame{}, err
	}
	return m.Frame(), nil
}
