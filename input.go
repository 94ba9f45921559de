package orbitsim

import (
	"fmt"
	"math"
)

// Command nudges the angles of one body between ticks.
type Command struct {
	Body       int     `json:"body"`
	DeltaTheta float64 `json:"delta_theta"`
	DeltaPhi   float64 `json:"delta_phi"`
}

// Advance moves body i forward along its orbit by one NudgeStep on both angles.
func Advance(i int) Command {
	return Command{Body: i, DeltaTheta: NudgeStep, DeltaPhi: NudgeStep}
}

// Rewind moves body i back by two NudgeSteps on theta and leaves phi alone.
func Rewind(i int) Command {
	return Command{Body: i, DeltaTheta: -2 * NudgeStep}
}

// InputSource yields the commands queued since the previous call. Poll must
// not block.
type InputSource interface {
	Poll() []Command
}

// Apply adds the command deltas to the target body. The next tick's angle
// check handles any angle pushed past 2pi. A command that would leave either
// angle NaN or infinite is rejected and changes nothing.
func (m *Mechanics) Apply(cmd Command) error {
	if cmd.Body < 0 || cmd.Body >= len(m.Bodies) {
		return fmt.Errorf("%w: %d (have %d)", ErrUnknownBody, cmd.Body, len(m.Bodies))
	}
	b := &m.Bodies[cmd.Body]
	theta, phi := b.Theta+cmd.DeltaTheta, b.Phi+cmd.DeltaPhi
	if !isFinite(theta) || !isFinite(phi) {
		return fmt.Errorf("%w: body %d theta %v phi %v", ErrNonFiniteAngle, cmd.Body, theta, phi)
	}
	b.Theta, b.Phi = theta, phi
	return nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
