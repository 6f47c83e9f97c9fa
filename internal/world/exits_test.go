package world

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func exitsAt(positions ...Position) *ExitRegistry {
	markers := make([]ExitMarker, len(positions))
	for i, p := range positions {
		markers[i] = ExitMarker{ID: OccupantID(i + 1), Pos: p}
	}
	return NewExitRegistry(markers)
}

func TestVisibleFromIsBoundingBox(t *testing.T) {
	r := exitsAt(Position{X: 0, Y: 0})

	// (3,3) is inside the box even though its straight-line distance
	// exceeds 3.
	assert.Len(t, r.VisibleFrom(Position{X: 3, Y: 3}, 3), 1)
	assert.Len(t, r.VisibleFrom(Position{X: 3, Y: 4}, 3), 0)
	assert.Len(t, r.VisibleFrom(Position{X: 4, Y: 0}, 3), 0)
	assert.Len(t, r.VisibleFrom(Position{X: 0, Y: 0}, 3), 1)
}

func TestVisibleFromMultiple(t *testing.T) {
	r := exitsAt(Position{X: 0, Y: 0}, Position{X: 9, Y: 9}, Position{X: 0, Y: 5})

	visible := r.VisibleFrom(Position{X: 1, Y: 3}, 3)
	assert.Len(t, visible, 2)
	assert.Equal(t, Position{X: 0, Y: 0}, visible[0].Pos)
	assert.Equal(t, Position{X: 0, Y: 5}, visible[1].Pos)
}

func TestClosestExitManhattanWithFirstTieBreak(t *testing.T) {
	near := ExitMarker{ID: 1, Pos: Position{X: 2, Y: 0}}
	far := ExitMarker{ID: 2, Pos: Position{X: 5, Y: 5}}
	assert.Equal(t, near, ClosestExit(Position{X: 0, Y: 0}, []ExitMarker{far, near}))

	// Equal distances: the first candidate in sequence order wins.
	a := ExitMarker{ID: 1, Pos: Position{X: 2, Y: 0}}
	b := ExitMarker{ID: 2, Pos: Position{X: 0, Y: 2}}
	assert.Equal(t, a, ClosestExit(Position{X: 0, Y: 0}, []ExitMarker{a, b}))
	assert.Equal(t, b, ClosestExit(Position{X: 0, Y: 0}, []ExitMarker{b, a}))
}

func TestIsExitCellExactMatch(t *testing.T) {
	r := exitsAt(Position{X: 4, Y: 4})
	assert.True(t, r.IsExitCell(Position{X: 4, Y: 4}))
	assert.False(t, r.IsExitCell(Position{X: 4, Y: 3}))
	assert.False(t, r.IsExitCell(Position{X: 3, Y: 4}))
}

func TestEmptyRegistry(t *testing.T) {
	r := NewExitRegistry(nil)
	assert.Empty(t, r.All())
	assert.Empty(t, r.VisibleFrom(Position{X: 0, Y: 0}, 3))
	assert.False(t, r.IsExitCell(Position{X: 0, Y: 0}))
}
