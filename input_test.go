package orbitsim

import (
	"errors"
	"math"
	"testing"
)

func TestAdvanceRewind(t *testing.T) {
	m := newTestMechanics(t, nil, testBody(), testBody())

	if err := m.Apply(Advance(1)); err != nil {
		t.Fatalf("Apply(Advance) failed: %v", err)
	}
	b := m.Bodies[1]
	if !closeTo(b.Theta, 0.21) || !closeTo(b.Phi, 0.21) {
		t.Errorf("after advance: theta %v phi %v, want 0.21 both", b.Theta, b.Phi)
	}

	if err := m.Apply(Rewind(1)); err != nil {
		t.Fatalf("Apply(Rewind) failed: %v", err)
	}
	b = m.Bodies[1]
	if !closeTo(b.Theta, -0.19) || !closeTo(b.Phi, 0.21) {
		t.Errorf("after rewind: theta %v phi %v, want -0.19 / 0.21", b.Theta, b.Phi)
	}

	if m.Bodies[0] != testBody() {
		t.Errorf("command leaked into body 0: %+v", m.Bodies[0])
	}
}

func TestApplyUnknownBody(t *testing.T) {
	m := newTestMechanics(t, nil, testBody())
	for _, i := range []int{-1, 1, 42} {
		if err := m.Apply(Advance(i)); !errors.Is(err, ErrUnknownBody) {
			t.Errorf("Apply(Advance(%d)): expected ErrUnknownBody, got %v", i, err)
		}
	}
}

func TestAdvancePastTwoPiResetsOnTick(t *testing.T) {
	b := testBody()
	b.Theta = twoPi - 0.1
	m := newTestMechanics(t, nil, b)
	if err := m.Apply(Advance(0)); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if err := m.Tick(); err != nil {
		t.Fatalf("Tick failed: %v", err)
	}
	if got := m.Bodies[0].Alpha; got != 0 {
		t.Errorf("angle used by the tick: got %v, want 0 after reset", got)
	}
}

func TestApplyRejectsNonFiniteAngle(t *testing.T) {
	m := newTestMechanics(t, nil, testBody())
	if err := m.Apply(Command{DeltaPhi: -1e308}); err != nil {
		t.Fatalf("finite result rejected: %v", err)
	}
	before := m.Bodies[0]

	tests := []struct {
		name string
		cmd  Command
	}{
		{"phi overflows to -Inf", Command{DeltaPhi: -1e308}},
		{"NaN theta delta", Command{DeltaTheta: math.NaN()}},
		{"infinite theta delta", Command{DeltaTheta: math.Inf(1)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := m.Apply(tt.cmd); !errors.Is(err, ErrNonFiniteAngle) {
				t.Errorf("expected ErrNonFiniteAngle, got %v", err)
			}
			if m.Bodies[0] != before {
				t.Errorf("rejected command changed the body: %+v", m.Bodies[0])
			}
		})
	}

	for i := 0; i < 3; i++ {
		if err := m.Tick(); err != nil {
			t.Fatalf("Tick failed: %v", err)
		}
	}
	f := m.Frame()
	if !isFinite(m.Bodies[0].Theta) || !isFinite(m.Bodies[0].Position.X) {
		t.Errorf("state left the finite range: %+v", m.Bodies[0])
	}
	if f.Bodies[0].X < -1e6 || f.Bodies[0].X > 1e6 {
		t.Errorf("frame coordinate out of range: %+v", f.Bodies[0])
	}
}
