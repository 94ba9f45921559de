package orbitsim

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

// queuedInput hands out its commands on the first Poll only.
type queuedInput struct {
	cmds  []Command
	polls int
}

func (q *queuedInput) Poll() []Command {
	q.polls++
	cmds := q.cmds
	q.cmds = nil
	return cmds
}

func TestRunnerMaxTicks(t *testing.T) {
	m := newTestMechanics(t, nil, testBody(), testBody())
	rec := NewRecorder(0)
	r := NewRunner(m, WithMaxTicks(25), WithRenderer(rec))
	if err := r.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if m.Ticks() != 25 || rec.Len() != 25 {
		t.Fatalf("ticks %d, frames %d, want 25 each", m.Ticks(), rec.Len())
	}
	for i, f := range rec.Frames() {
		if f.Tick != uint64(i+1) {
			t.Errorf("frame %d has tick %d", i, f.Tick)
		}
		if len(f.Bodies) != 2 {
			t.Errorf("frame %d has %d bodies", i, len(f.Bodies))
		}
	}
}

func TestRunnerStopsOnCancel(t *testing.T) {
	m := newTestMechanics(t, nil, testBody())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stopAt := RendererFunc(func(f Frame) error {
		if f.Tick == 3 {
			cancel()
		}
		return nil
	})
	if err := NewRunner(m, WithRenderer(stopAt)).Run(ctx); err != nil {
		t.Fatalf("cancellation should be a normal stop, got %v", err)
	}
	if m.Ticks() != 3 {
		t.Errorf("ticks: got %d, want 3", m.Ticks())
	}
}

func TestRunnerTickRate(t *testing.T) {
	m := newTestMechanics(t, nil, testBody())
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	start := time.Now()
	// burst 1 at 50Hz: the first tick is immediate, the next four wait 20ms each
	if err := NewRunner(m, WithTickRate(50), WithMaxTicks(5)).Run(ctx); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if elapsed := time.Since(start); elapsed < 60*time.Millisecond {
		t.Errorf("5 ticks at 50Hz took only %v", elapsed)
	}
	if m.Ticks() != 5 {
		t.Errorf("ticks: got %d, want 5", m.Ticks())
	}
}

func TestRunnerAppliesInputBeforeTick(t *testing.T) {
	m := newTestMechanics(t, nil, testBody())
	in := &queuedInput{cmds: []Command{Advance(0)}}
	if err := NewRunner(m, WithInput(in), WithMaxTicks(1)).Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if in.polls != 1 {
		t.Errorf("polls: got %d, want 1", in.polls)
	}
	// alpha holds the angle the tick started from
	if got := m.Bodies[0].Alpha; !closeTo(got, 0.21) {
		t.Errorf("tick started from theta %v, want 0.21", got)
	}
}

func TestRunnerDomainError(t *testing.T) {
	m := newTestMechanics(t, nil, testBody(), testBody())
	m.Bodies[1].Eccentricity = 1

	metrics := NewMetrics(prometheus.NewRegistry())
	rec := NewRecorder(0)
	err := NewRunner(m, WithMetrics(metrics), WithRenderer(rec), WithMaxTicks(10)).Run(context.Background())

	var de *DomainError
	if !errors.As(err, &de) {
		t.Fatalf("expected *DomainError, got %v", err)
	}
	if de.Body != 1 || de.Op != "angle" {
		t.Errorf("got %+v, want body 1 op angle", de)
	}
	if rec.Len() != 0 {
		t.Errorf("a failed tick was rendered")
	}
	if got := testutil.ToFloat64(metrics.domainErrors.WithLabelValues("angle")); got != 1 {
		t.Errorf("domain errors: got %v, want 1", got)
	}
	if got := testutil.ToFloat64(metrics.ticksTotal); got != 0 {
		t.Errorf("ticks recorded: got %v, want 0", got)
	}
}

func TestRunnerRendererError(t *testing.T) {
	m := newTestMechanics(t, nil, testBody())
	boom := errors.New("display lost")
	failing := RendererFunc(func(Frame) error { return boom })
	after := 0
	counting := RendererFunc(func(Frame) error { after++; return nil })

	err := NewRunner(m, WithRenderer(failing), WithRenderer(counting)).Run(context.Background())
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped renderer error, got %v", err)
	}
	if !strings.Contains(err.Error(), "rendering tick 1") {
		t.Errorf("error does not name the tick: %v", err)
	}
	if after != 0 {
		t.Errorf("renderers after the failing one were called")
	}
}

func TestRunnerMetrics(t *testing.T) {
	m := newTestMechanics(t, nil, testBody(), testBody())
	metrics := NewMetrics(prometheus.NewRegistry())
	in := &queuedInput{cmds: []Command{Advance(0), Rewind(5)}}

	r := NewRunner(m, WithMetrics(metrics), WithInput(in), WithMaxTicks(7))
	if err := r.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	checks := []struct {
		name string
		got  float64
		want float64
	}{
		{"ticks", testutil.ToFloat64(metrics.ticksTotal), 7},
		{"bodies", testutil.ToFloat64(metrics.bodies), 2},
		{"applied", testutil.ToFloat64(metrics.commandsTotal.WithLabelValues("applied")), 1},
		{"rejected", testutil.ToFloat64(metrics.commandsTotal.WithLabelValues("rejected")), 1},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s: got %v, want %v", c.name, c.got, c.want)
		}
	}
	if n := testutil.CollectAndCount(metrics.tickDuration); n != 1 {
		t.Errorf("tick duration collectors: got %d, want 1", n)
	}
}
