// Paced loop for live runs. Steps the simulation at a configurable
// real-time interval and speed.
package engine

import (
	"log/slog"
	"time"
)

// Loop drives a simulation forward in real time.
type Loop struct {
	Sim      *Simulation
	Speed    float64       // Multiplier: 1.0 = real-time, 0 = paused
	Interval time.Duration // Base tick interval
	Running  bool

	// OnTick runs after every completed step (frame publication, logging).
	OnTick func(*Simulation)
}

// NewLoop creates a loop stepping sim once per interval at speed 1.
func NewLoop(sim *Simulation, interval time.Duration) *Loop {
	return &Loop{
		Sim:      sim,
		Speed:    1.0,
		Interval: interval,
	}
}

// Run steps the simulation until it terminates or Stop is called. Blocks.
func (l *Loop) Run() {
	l.Running = true
	slog.Info("simulation loop started", "interval", l.Interval, "speed", l.Speed)

	for l.Running && l.Sim.Running() {
		if l.Speed <= 0 {
			// Paused: sleep briefly and check again.
			time.Sleep(100 * time.Millisecond)
			continue
		}

		start := time.Now()

		l.Sim.Step()
		if l.OnTick != nil {
			l.OnTick(l.Sim)
		}

		// Sleep for the remainder of the tick interval, adjusted for speed.
		elapsed := time.Since(start)
		target := time.Duration(float64(l.Interval) / l.Speed)
		if elapsed < target {
			time.Sleep(target - elapsed)
		}
	}

	l.Running = false
	slog.Info("simulation loop stopped", "tick", l.Sim.Tick, "active", l.Sim.ActiveCount())
}

// Stop halts the loop after the current tick.
func (l *Loop) Stop() {
	l.Running = false
}
