package engine

import "github.com/gridlab/evacsim/internal/agents"

// Entity is the portrayal of one grid occupant. Render consumers get the
// kind, position, state, and emergency flag, nothing else.
type Entity struct {
	Kind               string `json:"kind"` // "exit" or "evacuee"
	X                  int    `json:"x"`
	Y                  int    `json:"y"`
	State              string `json:"state,omitempty"`
	EmergencyTriggered bool   `json:"emergency_triggered,omitempty"`
	Color              string `json:"color"`
}

// Frame is a read-only snapshot of one tick, for viewers and run logs.
type Frame struct {
	Tick      uint64   `json:"tick"`
	Emergency bool     `json:"emergency"`
	Active    int      `json:"active"`
	GridSize  int      `json:"grid_size"`
	Entities  []Entity `json:"entities"`
}

// Snapshot captures the current portrayal: exits first in registration
// order, then active evacuees in creation order.
func (s *Simulation) Snapshot() Frame {
	f := Frame{
		Tick:      s.Tick,
		Emergency: s.Emergency,
		Active:    len(s.active),
		GridSize:  s.Grid.Size(),
		Entities:  make([]Entity, 0, len(s.Exits.All())+len(s.active)),
	}
	for _, e := range s.Exits.All() {
		f.Entities = append(f.Entities, Entity{
			Kind:  "exit",
			X:     e.Pos.X,
			Y:     e.Pos.Y,
			Color: "green",
		})
	}
	for _, e := range s.active {
		f.Entities = append(f.Entities, Entity{
			Kind:               "evacuee",
			X:                  e.Position.X,
			Y:                  e.Position.Y,
			State:              e.State.String(),
			EmergencyTriggered: e.EmergencyTriggered,
			Color:              evacueeColor(e),
		})
	}
	return f
}

// evacueeColor is blue until the emergency, then orange/yellow/red by
// state.
func evacueeColor(e *agents.Evacuee) string {
	if !e.EmergencyTriggered {
		return "blue"
	}
	switch e.State {
	case agents.StateFollowing:
		return "yellow"
	case agents.StateEvacuating:
		return "red"
	default:
		return "orange"
	}
}
