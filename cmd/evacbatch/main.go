// Command evacbatch runs the exit-placement experiment matrix and prints
// per-placement evacuation statistics.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"text/tabwriter"

	"github.com/gridlab/evacsim/internal/config"
	"github.com/gridlab/evacsim/internal/experiments"
	"github.com/gridlab/evacsim/internal/persistence"
)

func main() {
	configPath := flag.String("config", "", "YAML experiment config (defaults used when empty)")
	dbPath := flag.String("db", "", "override the results database path")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg := config.DefaultExperiment()
	if *configPath != "" {
		var err error
		cfg, err = config.LoadExperiment(*configPath)
		if err != nil {
			slog.Error("failed to load config", "path", *configPath, "error", err)
			os.Exit(1)
		}
	}
	if *dbPath != "" {
		cfg.DBPath = *dbPath
	}

	var db *persistence.DB
	if cfg.DBPath != "" {
		var err error
		db, err = persistence.Open(cfg.DBPath)
		if err != nil {
			slog.Error("failed to open database", "path", cfg.DBPath, "error", err)
			os.Exit(1)
		}
		defer db.Close()
		slog.Info("results database opened", "path", cfg.DBPath)
	}

	runner := experiments.NewRunner(cfg, db)
	slog.Info("evaluating exit placements",
		"placements", len(cfg.Placements),
		"runs_each", cfg.Runs,
		"base_seed", cfg.BaseSeed,
	)

	summaries, err := runner.Evaluate(cfg.Placements)
	if err != nil {
		slog.Error("experiment failed", "error", err)
		os.Exit(1)
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "placement\truns\tfinished\tmean\tmin\tmax\tstd")
	for _, s := range summaries {
		if s.Finished == 0 {
			fmt.Fprintf(tw, "%s\t%d\t%d\t-\t-\t-\t-\n", s.Placement, s.Runs, s.Finished)
			continue
		}
		fmt.Fprintf(tw, "%s\t%d\t%d\t%.1f\t%d\t%d\t%.1f\n",
			s.Placement, s.Runs, s.Finished, s.MeanSteps, s.MinSteps, s.MaxSteps, s.StdSteps)
	}
	tw.Flush()
}
