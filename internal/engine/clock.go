package engine

import "time"

// Clock supplies the simulation timeline in seconds since run start. The
// orchestrator reads Now at the top of each tick and calls Advance once
// the tick completes.
type Clock interface {
	Now() float64
	Advance()
}

// StepClock advances a fixed number of seconds per tick, making every
// timer (emergency delay, ask cooldown, follow timeout) a pure function of
// the tick count regardless of host speed.
type StepClock struct {
	PerTick float64
	elapsed float64
}

// NewStepClock creates a stepped clock. The first tick observes time zero.
func NewStepClock(secondsPerTick float64) *StepClock {
	return &StepClock{PerTick: secondsPerTick}
}

func (c *StepClock) Now() float64 { return c.elapsed }

func (c *StepClock) Advance() { c.elapsed += c.PerTick }

// WallClock reads the host clock, coupling timers to real execution speed:
// the number of ticks before the emergency fires depends on how fast the
// host steps. Interactive viewing wants this; batch runs never do.
type WallClock struct {
	start time.Time
}

// NewWallClock creates a wall clock anchored at the moment of creation.
func NewWallClock() *WallClock {
	return &WallClock{start: time.Now()}
}

func (c *WallClock) Now() float64 { return time.Since(c.start).Seconds() }

func (c *WallClock) Advance() {}
