package persistence

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTemp(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestSaveAndQueryRuns(t *testing.T) {
	db := openTemp(t)

	steps := int64(42)
	require.NoError(t, db.SaveRun(RunRecord{
		ID:               "run-1",
		Placement:        "Opposite corners",
		Seed:             1000,
		GridSize:         10,
		NumAgents:        10,
		EmergencySeconds: 0,
		EvacSteps:        &steps,
		Finished:         true,
		CreatedAt:        "2026-01-01T00:00:00Z",
	}))
	require.NoError(t, db.SaveRun(RunRecord{
		ID:        "run-2",
		Placement: "Opposite corners",
		Seed:      1001,
		GridSize:  10,
		NumAgents: 10,
		Finished:  false,
		CreatedAt: "2026-01-01T00:00:01Z",
	}))
	require.NoError(t, db.SaveRun(RunRecord{
		ID:        "run-3",
		Placement: "Single center exit",
		Seed:      1000,
		GridSize:  10,
		NumAgents: 10,
		Finished:  true,
		EvacSteps: &steps,
		CreatedAt: "2026-01-01T00:00:02Z",
	}))

	runs, err := db.RunsForPlacement("Opposite corners")
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "run-1", runs[0].ID)
	require.NotNil(t, runs[0].EvacSteps)
	assert.Equal(t, int64(42), *runs[0].EvacSteps)
	assert.True(t, runs[0].Finished)

	// Capped run: no evacuation step count.
	assert.Equal(t, "run-2", runs[1].ID)
	assert.Nil(t, runs[1].EvacSteps)
	assert.False(t, runs[1].Finished)

	n, err := db.RunCount()
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestDuplicateRunIDRejected(t *testing.T) {
	db := openTemp(t)

	rec := RunRecord{ID: "dup", Placement: "p", Seed: 1, GridSize: 10, NumAgents: 1}
	require.NoError(t, db.SaveRun(rec))
	assert.Error(t, db.SaveRun(rec))
}

func TestOpenIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs.db")

	db, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, db.SaveRun(RunRecord{ID: "a", Placement: "p", Seed: 1, GridSize: 10, NumAgents: 1}))
	require.NoError(t, db.Close())

	// Reopening migrates against the existing schema and keeps the data.
	db, err = Open(path)
	require.NoError(t, err)
	defer db.Close()

	n, err := db.RunCount()
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}
