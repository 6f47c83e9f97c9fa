// Package agents implements the evacuee decision engine: the per-tick
// state machine, movement heuristics, and the ask-and-follow rule that
// diffuses exit knowledge through the crowd.
package agents

import (
	"github.com/gridlab/evacsim/internal/entropy"
	"github.com/gridlab/evacsim/internal/world"
)

// State enumerates the post-trigger behavior modes. Before the emergency
// trigger an evacuee wanders freely and holds no meaningful state.
type State uint8

const (
	StateHelp       State = iota // no exit in sight, looking for a guide
	StateFollowing               // tailing a guide who claimed exit visibility
	StateEvacuating              // exit in sight, heading for it
)

// String returns the state name used by portrayal consumers.
func (s State) String() string {
	switch s {
	case StateFollowing:
		return "FOLLOWING"
	case StateEvacuating:
		return "EVACUATING"
	default:
		return "HELP"
	}
}

// Interaction ranges in cells and timers in sim-seconds.
const (
	ExitVisionRadius  = 3    // bounding-box exit visibility
	AskRadius         = 5    // Moore radius for the ask-neighbors scan
	FollowRange       = 5    // Manhattan distance before a guide counts as lost
	AskCooldownSecs   = 3.0  // per-pair cooldown between asks
	FollowTimeoutSecs = 10.0 // give up following after this long
)

// Direction is a unit step on the grid.
type Direction struct {
	DX, DY int
}

var orthogonalDirs = []Direction{{0, 1}, {0, -1}, {1, 0}, {-1, 0}}

// Evacuee is one mobile individual seeking to leave the grid.
type Evacuee struct {
	ID       world.OccupantID
	Position world.Position

	// EmergencyTriggered is set exactly once by the monitor sweep and
	// never reverts.
	EmergencyTriggered bool

	State State

	// Wander persists across ticks until the step in that direction is
	// blocked.
	Wander *Direction

	// Following is the guide's id, zero when not following. A weak
	// reference: the guide may exit independently, so it is re-resolved
	// against the active pool every tick before use.
	Following   world.OccupantID
	FollowStart float64

	// AskedAt records when each neighbor was last asked. Grows
	// monotonically, never cleared.
	AskedAt map[world.OccupantID]float64

	// Exited marks the evacuee for deferred removal at the end of the
	// tick it reached an exit cell.
	Exited bool
}

// NewEvacuee creates an evacuee at the given cell. The caller places it on
// the grid.
func NewEvacuee(id world.OccupantID, pos world.Position) *Evacuee {
	return &Evacuee{
		ID:       id,
		Position: pos,
		State:    StateHelp,
		AskedAt:  make(map[world.OccupantID]float64),
	}
}

// Env is the per-tick view an evacuee steps against. The orchestrator owns
// the underlying structures; evacuees only query them and request moves.
type Env struct {
	Grid  *world.Grid
	Exits *world.ExitRegistry

	// Now is the simulation time in seconds since the run began.
	Now float64

	Rng *entropy.Source

	// Lookup resolves an occupant id to an evacuee in the active pool.
	// Returns nil for exit markers and for evacuees already removed.
	Lookup func(world.OccupantID) *Evacuee
}
