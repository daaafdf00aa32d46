// Package driver schedules a Life simulation and forwards its changes to a
// renderer.
package driver

import (
	"context"
	"sync"
	"time"

	"torus-life/internal/core"
	"torus-life/internal/sims/life"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

// Option customises a Driver.
type Option func(*Driver)

// WithLogger routes driver events to logger.
func WithLogger(logger log.Logger) Option {
	return func(d *Driver) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// Driver owns a Life simulation, advances it on a timer and keeps a renderer
// in sync. All methods are safe for concurrent use.
type Driver struct {
	mu       sync.Mutex
	cfg      life.Config
	sim      *life.Life
	renderer core.Renderer
	logger   log.Logger
	updates  []core.CellUpdate

	// loop state; parent is kept so Configure can resume under the caller's
	// context.
	parent context.Context
	cancel context.CancelFunc
	done   chan struct{}
}

// New validates cfg, builds the simulation and draws the initial board.
func New(cfg life.Config, renderer core.Renderer, opts ...Option) (*Driver, error) {
	sim, err := life.NewWithConfig(cfg)
	if err != nil {
		return nil, err
	}
	d := &Driver{cfg: cfg, sim: sim, renderer: renderer, logger: log.NewNopLogger()}
	for _, opt := range opts {
		opt(d)
	}
	d.mu.Lock()
	d.redrawLocked()
	d.mu.Unlock()
	return d, nil
}

// Config returns the active configuration.
func (d *Driver) Config() life.Config {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.cfg
}

// Name reports the simulation name.
func (d *Driver) Name() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.sim.Name()
}

// Generation returns the current generation number.
func (d *Driver) Generation() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.sim.Generation()
}

// Population returns the number of live cells.
func (d *Driver) Population() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.sim.Population()
}

// Cells returns a copy of the current board.
func (d *Driver) Cells() []uint8 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]uint8(nil), d.sim.Cells()...)
}

// Configure applies cfg. Invalid configurations are rejected without touching
// the current state. A running loop is stopped while the change is applied and
// resumed afterwards.
func (d *Driver) Configure(cfg life.Config) error {
	if err := cfg.Validate(); err != nil {
		level.Warn(d.logger).Log("msg", "configuration rejected", "err", err)
		return err
	}

	ctx, wasRunning := d.stop()

	d.mu.Lock()
	prev := d.cfg
	reseed := cfg.Width != prev.Width || cfg.Height != prev.Height || cfg.LiveProbability != prev.LiveProbability
	if cfg.Width != prev.Width || cfg.Height != prev.Height {
		if err := d.sim.Resize(cfg.Width, cfg.Height); err != nil {
			d.mu.Unlock()
			return err
		}
	}
	if cfg.LiveProbability != prev.LiveProbability {
		if err := d.sim.SetLiveProbability(cfg.LiveProbability); err != nil {
			d.mu.Unlock()
			return err
		}
	}
	if cfg.Seed != prev.Seed {
		d.sim.Reset(cfg.Seed)
		reseed = true
	}
	d.sim.SetWorkers(cfg.Workers)
	d.cfg = cfg
	if reseed || cfg.CellSize != prev.CellSize {
		d.redrawLocked()
	}
	d.mu.Unlock()

	level.Info(d.logger).Log(
		"msg", "configured",
		"width", cfg.Width, "height", cfg.Height,
		"cell", cfg.CellSize, "prob", cfg.LiveProbability,
		"interval", cfg.TickInterval, "reseed", reseed,
	)

	if wasRunning {
		d.Start(ctx)
	}
	return nil
}

// Start begins advancing the simulation once per tick interval until ctx is
// cancelled or Stop is called. The next tick is armed only after the previous
// advance and render have completed. Calling Start while running is a no-op.
func (d *Driver) Start(ctx context.Context) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.runningLocked() {
		return
	}
	if d.cancel != nil {
		d.cancel()
	}
	loopCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	d.parent = ctx
	d.cancel = cancel
	d.done = done
	level.Debug(d.logger).Log("msg", "started", "interval", d.cfg.TickInterval)
	go d.loop(loopCtx, done)
}

func (d *Driver) loop(ctx context.Context, done chan struct{}) {
	defer close(done)
	timer := time.NewTimer(d.interval())
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}
		d.Advance()
		timer.Reset(d.interval())
	}
}

func (d *Driver) interval() time.Duration {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.cfg.TickInterval
}

// Stop halts the loop and waits for an in-flight advance to finish. It is safe
// to call when not running.
func (d *Driver) Stop() { d.stop() }

func (d *Driver) stop() (context.Context, bool) {
	d.mu.Lock()
	parent, cancel, done := d.parent, d.cancel, d.done
	running := d.runningLocked()
	d.parent, d.cancel, d.done = nil, nil, nil
	d.mu.Unlock()
	if cancel == nil {
		return nil, false
	}
	cancel()
	<-done
	if running {
		level.Debug(d.logger).Log("msg", "stopped")
	}
	return parent, running
}

// Running reports whether the loop is active.
func (d *Driver) Running() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.runningLocked()
}

func (d *Driver) runningLocked() bool {
	if d.done == nil {
		return false
	}
	select {
	case <-d.done:
		return false
	default:
		return true
	}
}

// Reset stops the loop, zeroes the generation, reseeds the board and redraws
// it in full.
func (d *Driver) Reset() {
	d.stop()
	d.mu.Lock()
	d.sim.Reseed()
	d.redrawLocked()
	d.mu.Unlock()
	level.Info(d.logger).Log("msg", "reset")
}

// Advance performs exactly one generation step and renders the cells that
// flipped. The returned change list is a copy owned by the caller.
func (d *Driver) Advance() ([]core.Change, int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	changes, gen := d.sim.Advance()
	if d.renderer != nil {
		d.updates = d.sim.Size().Updates(d.updates, changes)
		d.renderer.RedrawChanges(d.cfg.CellSize, d.updates)
	}
	level.Debug(d.logger).Log("msg", "advanced", "generation", gen, "changes", len(changes))
	return append([]core.Change(nil), changes...), gen
}

// Redraw asks the renderer for a full repaint.
func (d *Driver) Redraw() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.redrawLocked()
}

func (d *Driver) redrawLocked() {
	if d.renderer == nil {
		return
	}
	d.renderer.Redraw(d.sim.Size(), d.cfg.CellSize, d.sim.Cells())
}
