package experiments

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridlab/evacsim/internal/config"
	"github.com/gridlab/evacsim/internal/persistence"
)

func smallExperiment() config.Experiment {
	return config.Experiment{
		GridSize:       8,
		NumAgents:      6,
		MaxSteps:       2000,
		SecondsPerTick: 1,
		Runs:           3,
		BaseSeed:       500,
		Placements: []config.Placement{
			{Name: "Opposite corners", Exits: [][2]int{{0, 0}, {7, 7}}},
			{Name: "Single center exit", Exits: [][2]int{{4, 4}}},
		},
	}
}

func TestRunOneFinishesSmallScenario(t *testing.T) {
	r := NewRunner(smallExperiment(), nil)

	res, err := r.RunOne(config.Placement{
		Name:  "Opposite corners",
		Exits: [][2]int{{0, 0}, {7, 7}},
	}, 500)
	require.NoError(t, err)

	assert.Equal(t, "Opposite corners", res.Placement)
	assert.Equal(t, int64(500), res.Seed)
	assert.True(t, res.Finished)
	assert.Greater(t, res.Steps, uint64(0))
	assert.LessOrEqual(t, res.Steps, uint64(2000))
}

func TestRunOneIsDeterministic(t *testing.T) {
	r := NewRunner(smallExperiment(), nil)
	p := config.Placement{Name: "p", Exits: [][2]int{{0, 0}}}

	a, err := r.RunOne(p, 123)
	require.NoError(t, err)
	b, err := r.RunOne(p, 123)
	require.NoError(t, err)

	assert.Equal(t, a, b)
}

func TestEvaluateSummariesSortedByMean(t *testing.T) {
	cfg := smallExperiment()
	r := NewRunner(cfg, nil)

	summaries, err := r.Evaluate(cfg.Placements)
	require.NoError(t, err)
	require.Len(t, summaries, 2)

	for _, s := range summaries {
		assert.Equal(t, cfg.Runs, s.Runs)
		if s.Finished > 0 {
			assert.LessOrEqual(t, float64(s.MinSteps), s.MeanSteps)
			assert.LessOrEqual(t, s.MeanSteps, float64(s.MaxSteps))
		}
	}
	if summaries[0].Finished > 0 && summaries[1].Finished > 0 {
		assert.LessOrEqual(t, summaries[0].MeanSteps, summaries[1].MeanSteps)
	}
}

func TestEvaluatePersistsEveryRun(t *testing.T) {
	cfg := smallExperiment()
	cfg.Runs = 2

	db, err := persistence.Open(filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	defer db.Close()

	r := NewRunner(cfg, db)
	_, err = r.Evaluate(cfg.Placements)
	require.NoError(t, err)

	n, err := db.RunCount()
	require.NoError(t, err)
	assert.Equal(t, cfg.Runs*len(cfg.Placements), n)

	runs, err := db.RunsForPlacement("Single center exit")
	require.NoError(t, err)
	require.Len(t, runs, cfg.Runs)
	for _, rec := range runs {
		assert.Equal(t, cfg.GridSize, rec.GridSize)
		assert.Equal(t, cfg.NumAgents, rec.NumAgents)
		if rec.Finished {
			assert.NotNil(t, rec.EvacSteps)
		} else {
			assert.Nil(t, rec.EvacSteps)
		}
	}
}

func TestNewRunnerForcesSteppedTime(t *testing.T) {
	cfg := smallExperiment()
	cfg.SecondsPerTick = 0

	r := NewRunner(cfg, nil)
	assert.Equal(t, 1.0, r.SecondsPerTick)
}

func TestSummarizeStats(t *testing.T) {
	results := []Result{
		{Steps: 10, Finished: true},
		{Steps: 20, Finished: true},
		{Steps: 30, Finished: true},
		{Steps: 2000, Finished: false},
	}

	s := summarize("p", results)
	assert.Equal(t, 4, s.Runs)
	assert.Equal(t, 3, s.Finished)
	assert.Equal(t, 20.0, s.MeanSteps)
	assert.Equal(t, uint64(10), s.MinSteps)
	assert.Equal(t, uint64(30), s.MaxSteps)
	assert.InDelta(t, 10.0, s.StdSteps, 1e-9)
}

func TestSummarizeNoFinishedRuns(t *testing.T) {
	s := summarize("p", []Result{{Steps: 100, Finished: false}})
	assert.Equal(t, 1, s.Runs)
	assert.Zero(t, s.Finished)
	assert.Zero(t, s.MeanSteps)
}
