//go:build ebiten

package app

import (
	"fmt"
	"log/slog"

	"snow-ca/internal/core"
	"snow-ca/internal/render"
	"snow-ca/internal/sims/snowflake"
	"snow-ca/internal/ui"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

const hudWidth = 280

// Simulation is a sim that publishes lattice snapshots.
type Simulation interface {
	core.Sim
	Snapshot() *snowflake.Snapshot
}

// Game adapts a snowflake simulation to the ebiten.Game interface.
type Game struct {
	sim     Simulation
	painter *render.Painter
	hud     *ui.HUD
	log     *slog.Logger

	mode  render.Mode
	scale int
}

// New constructs a Game for the provided simulation.
func New(sim Simulation, scale int, logger *slog.Logger) *Game {
	if scale <= 0 {
		scale = 1
	}
	if logger == nil {
		logger = slog.Default()
	}
	size := sim.Size()
	return &Game{
		sim:     sim,
		painter: render.NewPainter(size.W, size.H),
		hud:     ui.NewHUD(sim, hudWidth),
		log:     logger,
		scale:   scale,
	}
}

// Update handles per-frame input and advances the simulation by one tick
// while it is running. ebiten's TPS paces the calls.
func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.command("toggle", g.toggle)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyN) {
		g.command("step", g.sim.Step)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.command("reset", g.sim.Reset)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyM) {
		g.mode = g.mode.Next()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyP) {
		g.command("export png", g.exportPNG)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyV) {
		g.command("export svg", g.exportSVG)
	}

	g.hud.Update(g.viewWidth())

	if _, err := g.sim.Tick(); err != nil {
		g.log.Error("simulation stopped", "err", err)
	}
	return nil
}

func (g *Game) toggle() error {
	switch g.sim.Status() {
	case core.StatusRunning:
		return g.sim.Pause()
	case core.StatusPaused:
		return g.sim.Resume()
	default:
		return g.sim.Start()
	}
}

func (g *Game) command(name string, fn func() error) {
	if err := fn(); err != nil {
		g.log.Warn("command rejected", "cmd", name, "err", err)
	}
}

func (g *Game) exportPNG() error {
	s := g.sim.Snapshot()
	path := fmt.Sprintf("%s-%06d.png", s.Model, s.Tick)
	opts := render.DefaultPNGOptions()
	opts.Mode = g.mode
	if err := render.ExportPNG(path, s, opts); err != nil {
		return err
	}
	g.log.Info("exported", "path", path)
	return nil
}

func (g *Game) exportSVG() error {
	s := g.sim.Snapshot()
	path := fmt.Sprintf("%s-%06d.svg", s.Model, s.Tick)
	if err := render.SaveSVG(path, s, 8); err != nil {
		return err
	}
	g.log.Info("exported", "path", path)
	return nil
}

// Draw renders the latest published snapshot and the HUD.
func (g *Game) Draw(screen *ebiten.Image) {
	g.painter.Draw(screen, g.sim.Snapshot(), g.mode, g.scale)
	_, h := g.Layout(0, 0)
	g.hud.Draw(screen, g.viewWidth(), h)
}

func (g *Game) viewWidth() int {
	size := g.sim.Size()
	w, _ := render.ViewSize(size.W, size.H, g.scale)
	return w
}

// Layout returns the logical screen size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	size := g.sim.Size()
	w, h := render.ViewSize(size.W, size.H, g.scale)
	return w + g.hud.Width(), max(h, g.hud.MinHeight())
}
