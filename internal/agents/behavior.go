// Evacuee state machine: one decision per tick.
// Pre-trigger: unbiased wandering over free neighbor cells.
// Post-trigger: exit visibility overrides everything, then the
// HELP/FOLLOWING/EVACUATING dispatch.
package agents

import (
	"github.com/gridlab/evacsim/internal/entropy"
	"github.com/gridlab/evacsim/internal/world"
)

// Step runs one decision tick for the evacuee.
func (e *Evacuee) Step(env *Env) {
	if !e.EmergencyTriggered {
		e.wanderFree(env)
		return
	}

	// Already standing on an exit: leave immediately, no decision needed.
	if env.Exits.IsExitCell(e.Position) {
		e.Exited = true
		return
	}

	visible := env.Exits.VisibleFrom(e.Position, ExitVisionRadius)

	// Exit visibility always wins: drop any following relationship.
	if len(visible) > 0 {
		e.State = StateEvacuating
		e.Following = 0
	}

	if e.State == StateFollowing {
		guide := env.Lookup(e.Following)
		if env.Now-e.FollowStart > FollowTimeoutSecs || guide == nil {
			e.State = StateHelp
			e.Following = 0
		}
	}

	switch e.State {
	case StateEvacuating:
		e.stepEvacuating(env, visible)
	case StateFollowing:
		e.stepFollowing(env)
	default:
		e.stepHelp(env)
	}
}

func (e *Evacuee) stepEvacuating(env *Env, visible []world.ExitMarker) {
	if len(visible) == 0 {
		// Shoved out of visual range by a fallback step. No target this
		// tick; stay put and keep state.
		return
	}
	target := world.ClosestExit(e.Position, visible)
	if e.moveTowards(env, target.Pos) {
		return
	}
	// Direct candidates blocked: take the best free orthogonal step, or
	// stand still. A deadlock is a valid, silent outcome.
	if next, ok := e.bestFreeStepTowards(env, target.Pos); ok {
		e.moveTo(env, next)
		e.checkExit(env)
	}
}

func (e *Evacuee) stepFollowing(env *Env) {
	guide := env.Lookup(e.Following)
	if guide == nil {
		return
	}
	if world.ManhattanDist(guide.Position, e.Position) <= FollowRange {
		e.moveTowards(env, guide.Position)
	} else {
		// Lost contact. The stale target id is never read in HELP and is
		// overwritten on the next FOLLOWING transition.
		e.State = StateHelp
	}
}

func (e *Evacuee) stepHelp(env *Env) {
	if guide := e.askNeighbors(env); guide != nil {
		e.State = StateFollowing
		e.Following = guide.ID
		e.FollowStart = env.Now
		return
	}
	e.wanderConstant(env)
}

// askNeighbors scans the Moore neighborhood for an active evacuee that can
// see an exit. Candidates are taken in the grid's scan order; the first
// qualifying match wins, not the closest. Every candidate whose cooldown
// has lapsed is marked asked, whether or not it turns out to be a guide.
func (e *Evacuee) askNeighbors(env *Env) *Evacuee {
	for _, cell := range env.Grid.Neighborhood(e.Position, world.Moore, AskRadius, false) {
		for _, id := range env.Grid.CellContents(cell) {
			n := env.Lookup(id)
			if n == nil {
				continue
			}
			if last, asked := e.AskedAt[n.ID]; asked && env.Now-last <= AskCooldownSecs {
				continue
			}
			e.AskedAt[n.ID] = env.Now
			if len(env.Exits.VisibleFrom(n.Position, ExitVisionRadius)) > 0 {
				return n
			}
		}
	}
	return nil
}

// wanderFree is the pre-trigger walk: move to a uniformly chosen empty
// Von Neumann neighbor, or stand still when boxed in.
func (e *Evacuee) wanderFree(env *Env) {
	var free []world.Position
	for _, cell := range env.Grid.Neighborhood(e.Position, world.VonNeumann, 1, false) {
		if env.Grid.Empty(cell) {
			free = append(free, cell)
		}
	}
	if len(free) == 0 {
		return
	}
	e.moveTo(env, entropy.Pick(env.Rng, free))
}

// wanderConstant is the post-trigger walk for evacuees with no exit and no
// guide: keep a heading until blocked, then pick a fresh random one for
// the next tick. A biased random walk, unlike wanderFree.
func (e *Evacuee) wanderConstant(env *Env) {
	if e.Wander == nil {
		e.pickDirection(env)
	}
	target := world.Position{X: e.Position.X + e.Wander.DX, Y: e.Position.Y + e.Wander.DY}
	if !env.Grid.OutOfBounds(target) && env.Grid.Empty(target) {
		e.moveTo(env, target)
		return
	}
	e.pickDirection(env)
}

func (e *Evacuee) pickDirection(env *Env) {
	d := entropy.Pick(env.Rng, orthogonalDirs)
	e.Wander = &d
}
