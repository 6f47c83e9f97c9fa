// Movement heuristics: greedy local steps only, no path planning.
package agents

import "github.com/gridlab/evacsim/internal/world"

// moveTowards takes one greedy step toward target: at most one step per
// axis produces up to two candidates, x-candidate first. The first
// candidate that is in-bounds and either empty or an exit cell wins.
// Reports whether a move happened.
func (e *Evacuee) moveTowards(env *Env, target world.Position) bool {
	dx := target.X - e.Position.X
	dy := target.Y - e.Position.Y

	var candidates []world.Position
	if dx != 0 {
		step := 1
		if dx < 0 {
			step = -1
		}
		candidates = append(candidates, world.Position{X: e.Position.X + step, Y: e.Position.Y})
	}
	if dy != 0 {
		step := 1
		if dy < 0 {
			step = -1
		}
		candidates = append(candidates, world.Position{X: e.Position.X, Y: e.Position.Y + step})
	}

	for _, c := range candidates {
		if env.Grid.OutOfBounds(c) {
			continue
		}
		if env.Grid.Empty(c) || env.Exits.IsExitCell(c) {
			e.moveTo(env, c)
			e.checkExit(env)
			return true
		}
	}
	return false
}

// bestFreeStepTowards picks the orthogonal neighbor that is in-bounds,
// strictly empty, and closest to target by Manhattan distance. Exit cells
// hold their marker and so are never "free" here. Reports false when every
// neighbor is blocked.
func (e *Evacuee) bestFreeStepTowards(env *Env, target world.Position) (world.Position, bool) {
	neighbors := []world.Position{
		{X: e.Position.X + 1, Y: e.Position.Y},
		{X: e.Position.X - 1, Y: e.Position.Y},
		{X: e.Position.X, Y: e.Position.Y + 1},
		{X: e.Position.X, Y: e.Position.Y - 1},
	}

	var best world.Position
	bestDist := -1
	for _, n := range neighbors {
		if env.Grid.OutOfBounds(n) || !env.Grid.Empty(n) {
			continue
		}
		d := world.ManhattanDist(n, target)
		if bestDist < 0 || d < bestDist {
			best = n
			bestDist = d
		}
	}
	return best, bestDist >= 0
}

// moveTo relocates the evacuee on the grid. Callers guard bounds and
// occupancy, so a failed move is a contract violation and leaves the
// evacuee where it was.
func (e *Evacuee) moveTo(env *Env, p world.Position) {
	if err := env.Grid.Move(e.ID, p); err == nil {
		e.Position = p
	}
}

// checkExit marks the evacuee for removal when it stands on an exit cell.
// The orchestrator applies the removal after the tick completes.
func (e *Evacuee) checkExit(env *Env) bool {
	if env.Exits.IsExitCell(e.Position) {
		e.Exited = true
		return true
	}
	return false
}
