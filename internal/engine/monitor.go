package engine

import "github.com/gridlab/evacsim/internal/agents"

// Monitor fires the one-time emergency notification once enough simulated
// seconds have elapsed since run start.
type Monitor struct {
	EmergencySecs float64
	Triggered     bool
}

// NewMonitor creates a monitor that fires after emergencySecs.
func NewMonitor(emergencySecs float64) *Monitor {
	return &Monitor{EmergencySecs: emergencySecs}
}

// Step checks the elapsed time and, on the first crossing, flags every
// active evacuee in one synchronous sweep. Fires at most once per run;
// reports whether it fired this call.
func (m *Monitor) Step(now float64, active []*agents.Evacuee) bool {
	if m.Triggered || now < m.EmergencySecs {
		return false
	}
	m.Triggered = true
	for _, e := range active {
		e.EmergencyTriggered = true
	}
	return true
}
