package world

// ExitMarker is a static exit cell. Markers never move and are never
// removed during a run.
type ExitMarker struct {
	ID  OccupantID `json:"id"`
	Pos Position   `json:"pos"`
}

// ExitRegistry holds the fixed exit set for one run.
type ExitRegistry struct {
	exits []ExitMarker
}

// NewExitRegistry creates a registry over the given markers. An empty set
// is valid; no evacuee will ever evacuate.
func NewExitRegistry(exits []ExitMarker) *ExitRegistry {
	return &ExitRegistry{exits: exits}
}

// All returns every exit marker in registration order.
func (r *ExitRegistry) All() []ExitMarker {
	return r.exits
}

// VisibleFrom returns the exits within a square radius of p: both axis
// distances must be <= radius independently. A bounding-box test, not a
// circle.
func (r *ExitRegistry) VisibleFrom(p Position, radius int) []ExitMarker {
	var visible []ExitMarker
	for _, e := range r.exits {
		dx := e.Pos.X - p.X
		if dx < 0 {
			dx = -dx
		}
		dy := e.Pos.Y - p.Y
		if dy < 0 {
			dy = -dy
		}
		if dx <= radius && dy <= radius {
			visible = append(visible, e)
		}
	}
	return visible
}

// IsExitCell reports whether p exactly matches any exit position.
func (r *ExitRegistry) IsExitCell(p Position) bool {
	for _, e := range r.exits {
		if e.Pos == p {
			return true
		}
	}
	return false
}

// ClosestExit returns the candidate with the smallest Manhattan distance
// to p. Ties go to the first minimal candidate. Candidates must be
// non-empty.
func ClosestExit(p Position, candidates []ExitMarker) ExitMarker {
	best := candidates[0]
	bestDist := ManhattanDist(p, best.Pos)
	for _, e := range candidates[1:] {
		if d := ManhattanDist(p, e.Pos); d < bestDist {
			best = e
			bestDist = d
		}
	}
	return best
}
