// Command evacsim runs one live evacuation simulation with the
// observation API and an optional frame log.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/gridlab/evacsim/internal/api"
	"github.com/gridlab/evacsim/internal/config"
	"github.com/gridlab/evacsim/internal/engine"
	"github.com/gridlab/evacsim/internal/runlog"
)

func main() {
	configPath := flag.String("config", "", "YAML config file (defaults used when empty)")
	seed := flag.Int64("seed", 0, "override the config seed when non-zero")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg := config.DefaultSim()
	if *configPath != "" {
		var err error
		cfg, err = config.LoadSim(*configPath)
		if err != nil {
			slog.Error("failed to load config", "path", *configPath, "error", err)
			os.Exit(1)
		}
	}
	if *seed != 0 {
		cfg.Seed = *seed
	}

	sim, err := engine.New(cfg.EngineConfig())
	if err != nil {
		slog.Error("failed to build simulation", "error", err)
		os.Exit(1)
	}
	slog.Info("simulation ready",
		"grid_size", cfg.GridSize,
		"agents", sim.ActiveCount(),
		"exits", len(sim.Exits.All()),
		"seed", cfg.Seed,
		"emergency_seconds", cfg.EmergencySeconds,
	)

	runID := uuid.NewString()

	var frameLog *runlog.Writer
	if cfg.LogDir != "" {
		frameLog, err = runlog.NewWriter(cfg.LogDir, runID)
		if err != nil {
			slog.Error("failed to open run log", "error", err)
			os.Exit(1)
		}
		defer frameLog.Close()
		slog.Info("run log opened", "path", frameLog.Path())
	}

	server := api.NewServer(cfg.APIPort)
	server.Start()

	loop := engine.NewLoop(sim, time.Duration(cfg.TickMs)*time.Millisecond)
	loop.OnTick = func(s *engine.Simulation) {
		frame := s.Snapshot()
		server.Publish(frame)
		if frameLog != nil {
			if err := frameLog.Write(frame); err != nil {
				slog.Warn("run log write failed", "error", err)
			}
		}
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("received signal, shutting down", "signal", sig)
		loop.Stop()
	}()

	fmt.Printf("Evacuation run %s: %d evacuees on a %d×%d grid.\n",
		runID, sim.ActiveCount(), cfg.GridSize, cfg.GridSize)
	fmt.Printf("API: http://localhost:%d/api/v1/status\n", cfg.APIPort)

	loop.Run()
	server.Close()

	if steps, ok := sim.EvacuationSteps(); ok {
		fmt.Printf("Everyone out in %d steps.\n", steps)
	} else {
		fmt.Printf("Run ended at tick %d with %d evacuees remaining.\n",
			sim.Tick, sim.ActiveCount())
	}
}
