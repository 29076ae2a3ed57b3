//go:build ebiten

package main

import (
	"errors"
	"flag"
	"log"
	"log/slog"

	"snow-ca/internal/app"
	"snow-ca/internal/core"
	_ "snow-ca/internal/sims/snowflake"

	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	cfg := app.NewConfig()
	cfg.Bind(flag.CommandLine)
	flag.Parse()

	logger := cfg.Logger()
	slog.SetDefault(logger)

	factory, ok := core.Sims()[cfg.Sim]
	if !ok {
		log.Fatalf("unknown sim %q (have %v)", cfg.Sim, core.SimNames())
	}
	m, err := cfg.Map()
	if err != nil {
		log.Fatal(err)
	}
	sim, err := factory(m)
	if err != nil {
		log.Fatal(err)
	}
	ctrl, ok := sim.(app.Simulation)
	if !ok {
		log.Fatalf("sim %q does not publish snapshots", cfg.Sim)
	}

	game := app.New(ctrl, cfg.Scale, logger)
	w, h := game.Layout(0, 0)
	size := sim.Size()
	logger.Info("starting viewer", "sim", sim.Name(), "w", size.W, "h", size.H)

	ebiten.SetWindowTitle("snow-ca - " + sim.Name())
	if cfg.TPS > 0 {
		ebiten.SetTPS(cfg.TPS)
	} else {
		ebiten.SetTPS(ebiten.SyncWithFPS)
	}
	ebiten.SetWindowSize(w, h)

	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, ebiten.Termination) {
		log.Fatal(err)
	}
}
