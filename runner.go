package orbitsim

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"golang.org/x/time/rate"
)

// Renderer consumes frames. Render is called once per tick, after the tick
// completes, from the goroutine running the Runner.
type Renderer interface {
	Render(Frame) error
}

// RendererFunc adapts a function to Renderer.
type RendererFunc func(Frame) error

// Render calls fn(f).
func (fn RendererFunc) Render(f Frame) error { return fn(f) }

// Runner drives a Mechanics: it paces ticks, applies queued input commands
// before each tick and hands every resulting frame to its renderers.
type Runner struct {
	mech      *Mechanics
	limiter   *rate.Limiter
	renderers []Renderer
	inputs    []InputSource
	metrics   *Metrics
	logger    *slog.Logger
	maxTicks  uint64
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithTickRate paces the loop at hz ticks per second. hz <= 0 runs unpaced.
func WithTickRate(hz float64) RunnerOption {
	return func(r *Runner) {
		if hz <= 0 {
			r.limiter = rate.NewLimiter(rate.Inf, 1)
			return
		}
		r.limiter = rate.NewLimiter(rate.Limit(hz), 1)
	}
}

// WithRenderer adds a frame consumer. Renderers are called in the order added.
func WithRenderer(rd Renderer) RunnerOption {
	return func(r *Runner) { r.renderers = append(r.renderers, rd) }
}

// WithInput adds a command source polled before every tick.
func WithInput(src InputSource) RunnerOption {
	return func(r *Runner) { r.inputs = append(r.inputs, src) }
}

// WithMetrics records tick statistics into m.
func WithMetrics(m *Metrics) RunnerOption {
	return func(r *Runner) { r.metrics = m }
}

// WithRunnerLogger sets the logger for run lifecycle messages.
func WithRunnerLogger(l *slog.Logger) RunnerOption {
	return func(r *Runner) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithMaxTicks stops the run after n ticks. Zero means no limit.
func WithMaxTicks(n uint64) RunnerOption {
	return func(r *Runner) { r.maxTicks = n }
}

// NewRunner returns an unpaced Runner for m unless WithTickRate is given.
func NewRunner(m *Mechanics, opts ...RunnerOption) *Runner {
	r := &Runner{
		mech:    m,
		limiter: rate.NewLimiter(rate.Inf, 1),
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run steps the simulation until ctx is done, the tick limit is reached or
// a tick or renderer fails. Cancellation and deadlines are a normal stop
// and return nil.
func (r *Runner) Run(ctx context.Context) error {
	if r.metrics != nil {
		r.metrics.bodies.Set(float64(len(r.mech.Bodies)))
	}
	r.logger.Info("simulation started", "bodies", len(r.mech.Bodies), "max_ticks", r.maxTicks)

	var done uint64
	for r.maxTicks == 0 || done < r.maxTicks {
		// Wait only fails once ctx is done or its deadline falls before
		// the next tick slot.
		if err := r.limiter.Wait(ctx); err != nil {
			break
		}

		r.applyInput()

		start := time.Now()
		frame, err := r.mech.Step()
		if err != nil {
			if r.metrics != nil {
				r.metrics.RecordError(err)
			}
			r.logger.Error("tick failed", "tick", r.mech.Ticks()+1, "err", err)
			return err
		}
		if r.metrics != nil {
			r.metrics.RecordTick(len(frame.Bodies), time.Since(start))
		}

		for _, rd := range r.renderers {
			if err := rd.Render(frame); err != nil {
				return fmt.Errorf("rendering tick %d: %w", frame.Tick, err)
			}
		}
		done++
	}

	r.logger.Info("simulation stopped", "ticks", r.mech.Ticks())
	return nil
}

func (r *Runner) applyInput() {
	for _, src := range r.inputs {
		for _, cmd := range src.Poll() {
			err := r.mech.Apply(cmd)
			if r.metrics != nil {
				r.metrics.RecordCommand(err)
			}
			if err != nil {
				r.logger.Warn("command rejected", "body", cmd.Body, "err", err)
			}
		}
	}
}
