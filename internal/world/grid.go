// Package world provides the bounded occupancy grid and the exit registry.
// The grid is the single authority mapping positions to occupants: an
// occupant holds exactly one cell, a cell may hold several occupants.
package world

import (
	"errors"
	"fmt"
)

// Position is a cell coordinate. Valid positions satisfy 0 <= X,Y < size
// for the owning grid.
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// ManhattanDist returns |dx| + |dy| between two positions.
func ManhattanDist(a, b Position) int {
	dx := a.X - b.X
	if dx < 0 {
		dx = -dx
	}
	dy := a.Y - b.Y
	if dy < 0 {
		dy = -dy
	}
	return dx + dy
}

// OccupantID identifies an entity placed on the grid.
type OccupantID uint64

// Neighborhood selects which cells count as adjacent.
type Neighborhood uint8

const (
	VonNeumann Neighborhood = iota // axis-aligned cells within Manhattan radius
	Moore                          // full square, diagonals included
)

// ErrOutOfBounds is returned when a placement or move targets a cell
// outside the grid. Correctly guarded callers never trigger it.
var ErrOutOfBounds = errors.New("position out of bounds")

// Grid is a bounded square multi-occupancy grid.
type Grid struct {
	size      int
	cells     map[Position][]OccupantID
	positions map[OccupantID]Position
}

// NewGrid creates an empty size×size grid.
func NewGrid(size int) (*Grid, error) {
	if size < 1 {
		return nil, fmt.Errorf("grid size must be positive, got %d", size)
	}
	return &Grid{
		size:      size,
		cells:     make(map[Position][]OccupantID),
		positions: make(map[OccupantID]Position),
	}, nil
}

// Size returns the grid edge length.
func (g *Grid) Size() int {
	return g.size
}

// OutOfBounds reports whether p lies outside the grid.
func (g *Grid) OutOfBounds(p Position) bool {
	return p.X < 0 || p.Y < 0 || p.X >= g.size || p.Y >= g.size
}

// Place puts an occupant onto the grid at p. The occupant must not already
// be on the grid.
func (g *Grid) Place(id OccupantID, p Position) error {
	if g.OutOfBounds(p) {
		return fmt.Errorf("place %d at (%d,%d): %w", id, p.X, p.Y, ErrOutOfBounds)
	}
	if old, ok := g.positions[id]; ok {
		return fmt.Errorf("occupant %d already placed at (%d,%d)", id, old.X, old.Y)
	}
	g.cells[p] = append(g.cells[p], id)
	g.positions[id] = p
	return nil
}

// Move relocates an occupant to p, vacating its old cell atomically with
// occupying the new one.
func (g *Grid) Move(id OccupantID, p Position) error {
	old, ok := g.positions[id]
	if !ok {
		return fmt.Errorf("occupant %d is not on the grid", id)
	}
	if g.OutOfBounds(p) {
		return fmt.Errorf("move %d to (%d,%d): %w", id, p.X, p.Y, ErrOutOfBounds)
	}
	g.vacate(id, old)
	g.cells[p] = append(g.cells[p], id)
	g.positions[id] = p
	return nil
}

// Remove takes an occupant off the grid. Removing an absent occupant is a
// no-op.
func (g *Grid) Remove(id OccupantID) {
	p, ok := g.positions[id]
	if !ok {
		return
	}
	g.vacate(id, p)
	delete(g.positions, id)
}

func (g *Grid) vacate(id OccupantID, p Position) {
	ids := g.cells[p]
	for i, other := range ids {
		if other == id {
			ids = append(ids[:i], ids[i+1:]...)
			break
		}
	}
	if len(ids) == 0 {
		delete(g.cells, p)
	} else {
		g.cells[p] = ids
	}
}

// CellContents returns the occupants of a cell in placement order.
func (g *Grid) CellContents(p Position) []OccupantID {
	return g.cells[p]
}

// Empty reports whether a cell holds no occupants.
func (g *Grid) Empty(p Position) bool {
	return len(g.cells[p]) == 0
}

// PositionOf returns the cell an occupant holds.
func (g *Grid) PositionOf(id OccupantID) (Position, bool) {
	p, ok := g.positions[id]
	return p, ok
}

// Neighborhood returns the in-bounds cells around p in row-major scan
// order. VonNeumann keeps cells within Manhattan radius; Moore keeps the
// full square.
func (g *Grid) Neighborhood(p Position, shape Neighborhood, radius int, includeCenter bool) []Position {
	var cells []Position
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			if dx == 0 && dy == 0 && !includeCenter {
				continue
			}
			if shape == VonNeumann {
				adx, ady := dx, dy
				if adx < 0 {
					adx = -adx
				}
				if ady < 0 {
					ady = -ady
				}
				if adx+ady > radius {
					continue
				}
			}
			n := Position{X: p.X + dx, Y: p.Y + dy}
			if g.OutOfBounds(n) {
				continue
			}
			cells = append(cells, n)
		}
	}
	return cells
}

// EmptyCells returns every unoccupied cell in row-major scan order.
func (g *Grid) EmptyCells() []Position {
	var cells []Position
	for y := 0; y < g.size; y++ {
		for x := 0; x < g.size; x++ {
			p := Position{X: x, Y: y}
			if g.Empty(p) {
				cells = append(cells, p)
			}
		}
	}
	return cells
}
