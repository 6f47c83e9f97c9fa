// Package experiments drives batches of independent simulation runs
// across exit placements and seeds, and aggregates evacuation times.
package experiments

import (
	"fmt"
	"log/slog"
	"math"
	"sort"

	"github.com/google/uuid"

	"github.com/gridlab/evacsim/internal/config"
	"github.com/gridlab/evacsim/internal/engine"
	"github.com/gridlab/evacsim/internal/persistence"
)

// Runner executes an experiment matrix. Every run gets a fresh
// orchestrator instance, so runs are independent and could be parallelized
// across seeds if it ever mattered at these sizes.
type Runner struct {
	GridSize         int
	NumAgents        int
	MaxSteps         uint64
	EmergencySeconds float64
	SecondsPerTick   float64
	Runs             int
	BaseSeed         int64

	// DB, when set, receives one record per run.
	DB *persistence.DB
}

// NewRunner builds a runner from experiment configuration.
func NewRunner(cfg config.Experiment, db *persistence.DB) *Runner {
	spt := cfg.SecondsPerTick
	if spt <= 0 {
		// Batch runs must be reproducible; never couple them to the host
		// clock.
		spt = 1
	}
	return &Runner{
		GridSize:         cfg.GridSize,
		NumAgents:        cfg.NumAgents,
		MaxSteps:         cfg.MaxSteps,
		EmergencySeconds: cfg.EmergencySeconds,
		SecondsPerTick:   spt,
		Runs:             cfg.Runs,
		BaseSeed:         cfg.BaseSeed,
		DB:               db,
	}
}

// Result is the outcome of one run.
type Result struct {
	Placement string
	Seed      int64
	Steps     uint64
	Finished  bool
}

// Summary aggregates one placement's runs.
type Summary struct {
	Placement string  `json:"placement"`
	Runs      int     `json:"runs"`
	Finished  int     `json:"finished_runs"`
	MeanSteps float64 `json:"mean_steps"`
	MinSteps  uint64  `json:"min_steps"`
	MaxSteps  uint64  `json:"max_steps"`
	StdSteps  float64 `json:"std_steps"`
}

// RunOne executes a single simulation to completion or cap.
func (r *Runner) RunOne(p config.Placement, seed int64) (Result, error) {
	sim, err := engine.New(engine.Config{
		GridSize:         r.GridSize,
		NumAgents:        r.NumAgents,
		Seed:             seed,
		EmergencySeconds: r.EmergencySeconds,
		ExitPositions:    p.ExitPositions(),
		MaxSteps:         r.MaxSteps,
		SecondsPerTick:   r.SecondsPerTick,
	})
	if err != nil {
		return Result{}, fmt.Errorf("placement %q seed %d: %w", p.Name, seed, err)
	}

	for sim.Running() {
		sim.Step()
	}

	steps, finished := sim.EvacuationSteps()
	return Result{Placement: p.Name, Seed: seed, Steps: steps, Finished: finished}, nil
}

// Evaluate runs the full matrix and returns per-placement summaries
// sorted by mean evacuation steps, fastest first. Placements with no
// finished runs sort last.
func (r *Runner) Evaluate(placements []config.Placement) ([]Summary, error) {
	summaries := make([]Summary, 0, len(placements))

	for _, p := range placements {
		results := make([]Result, 0, r.Runs)
		for i := 0; i < r.Runs; i++ {
			seed := r.BaseSeed + int64(i)
			res, err := r.RunOne(p, seed)
			if err != nil {
				return nil, err
			}
			results = append(results, res)

			if r.DB != nil {
				if err := r.saveResult(res); err != nil {
					return nil, err
				}
			}
		}

		s := summarize(p.Name, results)
		slog.Info("placement evaluated",
			"placement", p.Name,
			"runs", s.Runs,
			"finished", s.Finished,
			"mean_steps", s.MeanSteps,
		)
		summaries = append(summaries, s)
	}

	sort.SliceStable(summaries, func(i, j int) bool {
		mi, mj := summaries[i].MeanSteps, summaries[j].MeanSteps
		if summaries[i].Finished == 0 {
			mi = math.Inf(1)
		}
		if summaries[j].Finished == 0 {
			mj = math.Inf(1)
		}
		return mi < mj
	})
	return summaries, nil
}

func (r *Runner) saveResult(res Result) error {
	rec := persistence.RunRecord{
		ID:               uuid.NewString(),
		Placement:        res.Placement,
		Seed:             res.Seed,
		GridSize:         r.GridSize,
		NumAgents:        r.NumAgents,
		EmergencySeconds: r.EmergencySeconds,
		Finished:         res.Finished,
	}
	if res.Finished {
		steps := int64(res.Steps)
		rec.EvacSteps = &steps
	}
	return r.DB.SaveRun(rec)
}

// summarize computes finished-run statistics: mean, min, max, and sample
// standard deviation (n-1 denominator, matching the usual reporting).
func summarize(placement string, results []Result) Summary {
	s := Summary{Placement: placement, Runs: len(results)}

	var finished []uint64
	for _, r := range results {
		if r.Finished {
			finished = append(finished, r.Steps)
		}
	}
	s.Finished = len(finished)
	if len(finished) == 0 {
		return s
	}

	var sum uint64
	s.MinSteps = finished[0]
	s.MaxSteps = finished[0]
	for _, v := range finished {
		sum += v
		if v < s.MinSteps {
			s.MinSteps = v
		}
		if v > s.MaxSteps {
			s.MaxSteps = v
		}
	}
	s.MeanSteps = float64(sum) / float64(len(finished))

	if len(finished) > 1 {
		var sq float64
		for _, v := range finished {
			d := float64(v) - s.MeanSteps
			sq += d * d
		}
		s.StdSteps = math.Sqrt(sq / float64(len(finished)-1))
	}
	return s
}
