package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	"golang.org/x/sync/errgroup"

	"snow-ca/internal/app"
	"snow-ca/internal/sims/snowflake"
	"snow-ca/internal/stream"
)

func main() {
	cfg := app.NewConfig()
	cfg.Bind(flag.CommandLine)
	addr := flag.String("addr", ":8080", "listen address")
	interval := flag.Duration("interval", 100*time.Millisecond, "minimum time between broadcast frames")
	autostart := flag.Bool("start", false, "start the simulation immediately")
	flag.Parse()

	logger := cfg.Logger()
	m, err := cfg.Map()
	if err != nil {
		log.Fatal(err)
	}
	if _, err := snowflake.ParseModel(cfg.Sim); err != nil {
		log.Fatal(err)
	}
	m["model"] = cfg.Sim
	ctrl, err := snowflake.NewController(snowflake.FromMap(m), logger)
	if err != nil {
		log.Fatal(err)
	}
	if *autostart {
		if err := ctrl.Start(); err != nil {
			log.Fatal(err)
		}
	}

	hub := stream.NewHub(ctrl, logger)
	srv := &http.Server{Addr: *addr, Handler: hub.Handler()}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return ctrl.Run(ctx, cfg.TPS) })
	g.Go(func() error { return hub.Run(ctx, *interval) })
	g.Go(func() error {
		logger.Info("listening", "addr", *addr)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatal(err)
	}
	logger.Info("stopped", "tick", ctrl.Snapshot().Tick)
}
