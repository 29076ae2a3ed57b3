package snowflake

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/aquilax/go-perlin"

	"snow-ca/internal/core"
)

// ErrInvalidCommand is returned for lifecycle commands the current status
// does not accept.
var ErrInvalidCommand = errors.New("invalid command")

// massLogInterval is how often, in ticks, the total mass is logged at debug level.
const massLogInterval = 100

// Controller owns a lattice, its growth rule and the parallel executor. It
// sequences ticks, buffers reset-only parameter changes and publishes an
// immutable snapshot after every completed tick.
//
// Commands may be issued from any goroutine. Ticks are serialised; a command
// that changes the lattice waits for the tick in progress to finish.
type Controller struct {
	cfg  Config
	rule GrowthRule
	lat  *Lattice
	exec *Executor
	log  *slog.Logger

	// tickMu serialises ticks and lattice resets.
	tickMu sync.Mutex
	tick   uint64

	mu      sync.Mutex
	status  core.Status
	params  Params
	pending map[string]float64
	wake    chan struct{}

	snap atomic.Pointer[Snapshot]
}

// NewController builds a controller for cfg.Model on a freshly reset lattice.
// A nil logger selects slog.Default().
func NewController(cfg Config, logger *slog.Logger) (*Controller, error) {
	rule, err := NewRule(cfg.Model)
	if err != nil {
		return nil, err
	}
	return newController(cfg, rule, logger)
}

func newController(cfg Config, rule GrowthRule, logger *slog.Logger) (*Controller, error) {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("invalid lattice size %dx%d", cfg.Width, cfg.Height)
	}
	for _, spec := range rule.parameters() {
		if err := spec.validate(spec.get(cfg.Params)); err != nil {
			return nil, err
		}
	}
	if logger == nil {
		logger = slog.Default()
	}
	c := &Controller{
		cfg:     cfg,
		rule:    rule,
		lat:     NewLattice(cfg.Width, cfg.Height, cfg.Boundary),
		exec:    NewExecutor(cfg.Workers, cfg.Width, cfg.Height),
		log:     logger.With("model", string(rule.Model())),
		params:  cfg.Params,
		pending: map[string]float64{},
		wake:    make(chan struct{}, 1),
	}
	c.resetLattice()
	c.log.Info("controller ready",
		"w", cfg.Width, "h", cfg.Height,
		"boundary", cfg.Boundary.String(),
		"workers", c.exec.Workers())
	return c, nil
}

// Name returns the model identifier.
func (c *Controller) Name() string { return string(c.rule.Model()) }

// Model returns the growth model chosen at construction.
func (c *Controller) Model() Model { return c.rule.Model() }

// Size returns the lattice dimensions.
func (c *Controller) Size() core.Size { return c.lat.Size() }

// Workers returns the number of parallel bands used per pass.
func (c *Controller) Workers() int { return c.exec.Workers() }

// Status reports the lifecycle state.
func (c *Controller) Status() core.Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// Snapshot returns the latest published generation. It never blocks on a
// running tick.
func (c *Controller) Snapshot() *Snapshot { return c.snap.Load() }

// Cells returns the state bytes of the latest published generation.
func (c *Controller) Cells() []uint8 { return c.Snapshot().Cells() }

// Start moves an idle simulation to running.
func (c *Controller) Start() error {
	return c.transition("start", core.StatusIdle, core.StatusRunning)
}

// Pause stops a running simulation. It waits for the tick in progress.
func (c *Controller) Pause() error {
	return c.transition("pause", core.StatusRunning, core.StatusPaused)
}

// Resume continues a paused simulation.
func (c *Controller) Resume() error {
	return c.transition("resume", core.StatusPaused, core.StatusRunning)
}

func (c *Controller) transition(cmd string, from, to core.Status) error {
	c.tickMu.Lock()
	defer c.tickMu.Unlock()
	c.mu.Lock()
	if c.status != from {
		st := c.status
		c.mu.Unlock()
		return fmt.Errorf("%w: %s while %s", ErrInvalidCommand, cmd, st)
	}
	c.status = to
	c.mu.Unlock()
	if s := c.snap.Load(); s != nil {
		c.snap.Store(s.withStatus(to))
	}
	c.notify()
	c.log.Info("status changed", "cmd", cmd, "from", from.String(), "to", to.String())
	return nil
}

func (c *Controller) notify() {
	select {
	case c.wake <- struct{}{}:
	default:
	}
}

// Step advances a paused simulation by exactly one tick.
func (c *Controller) Step() error {
	c.tickMu.Lock()
	defer c.tickMu.Unlock()
	c.mu.Lock()
	if c.status != core.StatusPaused {
		st := c.status
		c.mu.Unlock()
		return fmt.Errorf("%w: step while %s", ErrInvalidCommand, st)
	}
	p := c.params
	c.mu.Unlock()
	return c.advance(p)
}

// Tick advances one generation when running and reports whether it did.
// Loops that own frame pacing call it once per frame.
func (c *Controller) Tick() (bool, error) {
	c.tickMu.Lock()
	defer c.tickMu.Unlock()
	c.mu.Lock()
	if c.status != core.StatusRunning {
		c.mu.Unlock()
		return false, nil
	}
	p := c.params
	c.mu.Unlock()
	if err := c.advance(p); err != nil {
		return false, err
	}
	return true, nil
}

// advance runs one tick with the parameter copy p. tickMu must be held.
func (c *Controller) advance(p Params) error {
	passes := c.rule.Passes(c.lat, p, c.cfg.Seed, c.tick)
	if err := c.exec.Run(passes); err != nil {
		c.mu.Lock()
		c.status = core.StatusIdle
		c.mu.Unlock()
		if s := c.snap.Load(); s != nil {
			c.snap.Store(s.withStatus(core.StatusIdle))
		}
		c.log.Error("tick failed", "tick", c.tick+1, "err", err)
		return fmt.Errorf("tick %d: %w", c.tick+1, err)
	}
	c.lat.Swap()
	c.tick++
	snap := newSnapshot(c.lat, c.rule.Model(), c.Status(), c.tick)
	c.snap.Store(snap)
	if c.tick%massLogInterval == 0 {
		c.log.Debug("tick", "tick", c.tick, "total_mass", snap.TotalMass(), "ice", snap.IceCount())
	}
	return nil
}

// Reset discards the generation in progress, applies queued reset-only
// parameters, reinitialises the lattice and leaves the simulation idle.
func (c *Controller) Reset() error {
	c.tickMu.Lock()
	defer c.tickMu.Unlock()
	c.mu.Lock()
	from := c.status
	c.status = core.StatusIdle
	for key, v := range c.pending {
		spec, _ := findSpec(c.rule.parameters(), key)
		*spec.field(&c.params) = v
		c.log.Info("deferred parameter applied", "key", key, "value", v)
	}
	clear(c.pending)
	c.mu.Unlock()
	c.resetLattice()
	c.notify()
	c.log.Info("reset", "from", from.String())
	return nil
}

// resetLattice reinitialises the lattice from the active parameters. tickMu
// must be held or the controller not yet shared.
func (c *Controller) resetLattice() {
	c.mu.Lock()
	ambient := c.rule.Ambient(c.params)
	status := c.status
	c.mu.Unlock()
	c.lat.Reset(Center(c.lat.Grid()), ambient, c.perturbation())
	c.tick = 0
	c.snap.Store(newSnapshot(c.lat, c.rule.Model(), status, 0))
}

func (c *Controller) perturbation() func(i int) float64 {
	if c.cfg.NoiseAmplitude <= 0 {
		return nil
	}
	noise := perlin.NewPerlin(2, 2, 3, c.cfg.Seed)
	grid := c.lat.Grid()
	amp, scale := c.cfg.NoiseAmplitude, c.cfg.NoiseScale
	return func(i int) float64 {
		p := grid.Coord(i)
		return amp * noise.Noise2D(float64(p.Q)*scale, float64(p.R)*scale)
	}
}

// SetParameter updates a model parameter. Reset-only parameters are queued
// and take effect on the next Reset; the rest apply from the next tick.
func (c *Controller) SetParameter(key string, value float64) error {
	spec, ok := findSpec(c.rule.parameters(), key)
	if !ok {
		return fmt.Errorf("%w: %q for model %s", ErrUnknownParameter, key, c.rule.Model())
	}
	if err := spec.validate(value); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if spec.resetOnly {
		c.pending[key] = value
		c.log.Info("parameter deferred until reset", "key", key, "value", value)
		return nil
	}
	*spec.field(&c.params) = value
	c.log.Info("parameter changed", "key", key, "value", value)
	return nil
}

// SetFloatParameter adapts SetParameter to the HUD setter interface.
func (c *Controller) SetFloatParameter(key string, value float64) bool {
	return c.SetParameter(key, value) == nil
}

// Params returns a copy of the active parameters.
func (c *Controller) Params() Params {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.params
}

// PendingParameters returns the reset-only values queued for the next reset.
func (c *Controller) PendingParameters() map[string]float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[string]float64, len(c.pending))
	for k, v := range c.pending {
		out[k] = v
	}
	return out
}

// Run ticks while the simulation is running until ctx is done or a tick
// fails. tps > 0 paces ticks; otherwise they run back to back. Run waits
// for Start or Resume while idle or paused.
func (c *Controller) Run(ctx context.Context, tps int) error {
	pacer := core.NewFixedStep(tps)
	for {
		if c.Status() != core.StatusRunning {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-c.wake:
			}
			pacer.Restart()
			continue
		}
		n := pacer.Due(time.Now())
		for ; n > 0; n-- {
			if _, err := c.Tick(); err != nil {
				return err
			}
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if pacer.Unpaced() {
			continue
		}
		timer := time.NewTimer(pacer.Wait())
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

func init() {
	for _, m := range Models() {
		m := m
		core.Register(string(m), func(cfg map[string]string) (core.Sim, error) {
			withModel := map[string]string{"model": string(m)}
			for k, v := range cfg {
				if k != "model" {
					withModel[k] = v
				}
			}
			return NewController(FromMap(withModel), nil)
		})
	}
}
