package main

import (
	"flag"
	"log"
	"time"

	"snow-ca/internal/app"
	"snow-ca/internal/render"
	"snow-ca/internal/sims/snowflake"
)

func main() {
	cfg := app.NewConfig()
	cfg.Bind(flag.CommandLine)
	ticks := flag.Int("ticks", 2000, "ticks to simulate")
	out := flag.String("out", "snowflake", "output path prefix")
	pngOut := flag.Bool("png", true, "write a PNG rendering")
	svgOut := flag.Bool("svg", true, "write an SVG outline of the crystal")
	mode := flag.String("mode", "mass", "PNG shading (mass, states, ice)")
	video := flag.String("mjpeg", "", "write a Motion-JPEG AVI time-lapse to this path")
	every := flag.Int("every", 10, "ticks between time-lapse frames")
	fps := flag.Int("fps", 25, "time-lapse frame rate")
	flag.Parse()

	if *video != "" && *every <= 0 {
		log.Fatalf("-every must be positive, got %d", *every)
	}
	shading, err := render.ParseMode(*mode)
	if err != nil {
		log.Fatal(err)
	}

	logger := cfg.Logger()
	m, err := cfg.Map()
	if err != nil {
		log.Fatal(err)
	}
	if _, err := snowflake.ParseModel(cfg.Sim); err != nil {
		log.Fatal(err)
	}
	m["model"] = cfg.Sim
	simCfg := snowflake.FromMap(m)
	ctrl, err := snowflake.NewController(simCfg, logger)
	if err != nil {
		log.Fatal(err)
	}
	if err := ctrl.Start(); err != nil {
		log.Fatal(err)
	}

	opts := render.DefaultPNGOptions()
	opts.Scale = cfg.Scale
	opts.Mode = shading

	var rec *render.Recorder
	if *video != "" {
		rec = render.NewRecorder(*video, *fps, opts)
		if err := rec.AddFrame(ctrl.Snapshot()); err != nil {
			log.Fatal(err)
		}
	}

	start := time.Now()
	for i := 1; i <= *ticks; i++ {
		if _, err := ctrl.Tick(); err != nil {
			log.Fatal(err)
		}
		if rec != nil && (i%*every == 0 || i == *ticks) {
			if err := rec.AddFrame(ctrl.Snapshot()); err != nil {
				log.Fatal(err)
			}
		}
	}
	if err := ctrl.Pause(); err != nil {
		log.Fatal(err)
	}
	s := ctrl.Snapshot()
	logger.Info("simulation finished",
		"model", string(s.Model),
		"ticks", s.Tick,
		"elapsed", time.Since(start).Round(time.Millisecond),
		"ice", s.IceCount(),
		"radius", s.CrystalRadius(),
		"total_mass", s.TotalMass())

	if rec != nil {
		if err := rec.Close(); err != nil {
			log.Fatal(err)
		}
		logger.Info("wrote", "path", *video, "frames", rec.Frames())
	}
	if *pngOut {
		path := *out + ".png"
		if err := render.ExportPNG(path, s, opts); err != nil {
			log.Fatal(err)
		}
		logger.Info("wrote", "path", path)
	}
	if *svgOut {
		path := *out + ".svg"
		if err := render.SaveSVG(path, s, float64(4*cfg.Scale)); err != nil {
			log.Fatal(err)
		}
		logger.Info("wrote", "path", path)
	}
}
