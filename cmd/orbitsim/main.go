package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/akhenakh/orbitsim"
)

func main() {
	configPath := flag.String("config", "", "path to a JSON config file (defaults to the built-in scene)")
	ticks := flag.Uint64("ticks", 1000, "number of ticks to run, 0 runs until interrupted")
	seed := flag.Uint64("seed", 0, "random seed, overrides the config seed when non-zero")
	svgPath := flag.String("svg", "trajectory.svg", "write the recorded trajectory to this file, empty to skip")
	listen := flag.String("listen", "", "serve /metrics and /frames (websocket) on this address, e.g. :9090")
	verbose := flag.Bool("v", false, "log every body update")
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	cfg := orbitsim.DefaultConfig()
	if *configPath != "" {
		loaded, err := orbitsim.LoadConfig(*configPath)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
		cfg = *loaded
	}
	if *seed != 0 {
		cfg.Seed = *seed
	}

	mech, err := orbitsim.NewFromConfig(cfg, orbitsim.NewRand(cfg.Seed), orbitsim.WithLogger(logger))
	if err != nil {
		log.Fatalf("Failed to build simulation: %v", err)
	}

	recorder := orbitsim.NewRecorder(orbitsim.DefaultHistory)
	opts := []orbitsim.RunnerOption{
		orbitsim.WithTickRate(cfg.TickRate),
		orbitsim.WithMaxTicks(*ticks),
		orbitsim.WithRenderer(recorder),
		orbitsim.WithRunnerLogger(logger),
	}

	var server *http.Server
	if *listen != "" {
		metrics := orbitsim.NewMetrics(prometheus.NewRegistry())
		streamer := orbitsim.NewFrameStreamer(logger)
		defer streamer.Close()

		mux := http.NewServeMux()
		mux.Handle("/metrics", metrics.Handler())
		mux.Handle("/frames", streamer)
		server = &http.Server{Addr: *listen, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
		go func() {
			logger.Info("serving metrics and frames", "addr", *listen)
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("http server failed", "err", err)
			}
		}()

		opts = append(opts,
			orbitsim.WithMetrics(metrics),
			orbitsim.WithRenderer(streamer),
			orbitsim.WithInput(streamer),
		)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := orbitsim.NewRunner(mech, opts...).Run(ctx); err != nil {
		log.Fatalf("Simulation failed: %v", err)
	}

	fmt.Printf("Ran %d ticks with %d bodies\n", mech.Ticks(), len(mech.Bodies))
	for i, b := range mech.Bodies {
		fmt.Printf("Body %d: mass %.0f, e %.3f, theta %.4f rad, position (%.1f, %.1f)\n",
			i, b.Mass, b.Eccentricity, b.Theta, b.Position.X, b.Position.Y)
	}

	if *svgPath != "" {
		if err := os.WriteFile(*svgPath, []byte(recorder.TrajectorySVG(cfg.Display)), 0644); err != nil {
			log.Printf("Error writing SVG to file: %v", err)
		} else {
			fmt.Printf("Trajectory plot saved to %s\n", *svgPath)
		}
	}

	if server != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("HTTP server shutdown error: %v", err)
		}
	}
}
