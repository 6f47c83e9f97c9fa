package agents

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridlab/evacsim/internal/entropy"
	"github.com/gridlab/evacsim/internal/world"
)

func TestSpawnPopulationPlacesOnDistinctEmptyCells(t *testing.T) {
	grid, err := world.NewGrid(10)
	require.NoError(t, err)
	exit := world.Position{X: 0, Y: 0}
	require.NoError(t, grid.Place(1, exit))

	s := NewSpawner(entropy.NewSource(42), 2)
	evacuees := s.SpawnPopulation(grid, 10)
	require.Len(t, evacuees, 10)

	seen := map[world.Position]bool{}
	for _, e := range evacuees {
		assert.False(t, seen[e.Position], "cell reused: %v", e.Position)
		seen[e.Position] = true
		assert.NotEqual(t, exit, e.Position, "spawned on an exit cell")
		assert.False(t, grid.OutOfBounds(e.Position))
		assert.False(t, e.EmergencyTriggered)
		assert.Equal(t, StateHelp, e.State)
	}
}

func TestSpawnRegistersEvacueesOnGrid(t *testing.T) {
	grid, err := world.NewGrid(6)
	require.NoError(t, err)

	s := NewSpawner(entropy.NewSource(3), 1)
	for _, e := range s.SpawnPopulation(grid, 5) {
		got, ok := grid.PositionOf(e.ID)
		require.True(t, ok, "evacuee %d not on the grid", e.ID)
		assert.Equal(t, e.Position, got)
	}
}

func TestSpawnPopulationStopsWhenFull(t *testing.T) {
	grid, _ := world.NewGrid(2)
	s := NewSpawner(entropy.NewSource(1), 1)
	evacuees := s.SpawnPopulation(grid, 10)
	assert.Len(t, evacuees, 4)
}

func TestSpawnPopulationDeterministic(t *testing.T) {
	positions := func(seed int64) []world.Position {
		grid, _ := world.NewGrid(8)
		s := NewSpawner(entropy.NewSource(seed), 1)
		var out []world.Position
		for _, e := range s.SpawnPopulation(grid, 6) {
			out = append(out, e.Position)
		}
		return out
	}

	assert.Equal(t, positions(42), positions(42))
}

func TestSpawnClusteredStaysOnDistinctEmptyCells(t *testing.T) {
	grid, _ := world.NewGrid(10)
	require.NoError(t, grid.Place(1, world.Position{X: 9, Y: 9}))

	s := NewSpawner(entropy.NewSource(7), 2)
	evacuees := s.SpawnClustered(grid, 12, 7)
	require.Len(t, evacuees, 12)

	seen := map[world.Position]bool{}
	for _, e := range evacuees {
		assert.False(t, seen[e.Position])
		seen[e.Position] = true
		assert.False(t, grid.OutOfBounds(e.Position))
		assert.NotEqual(t, world.Position{X: 9, Y: 9}, e.Position)
	}
}
