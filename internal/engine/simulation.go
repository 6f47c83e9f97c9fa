// Package engine ties the grid, exits, monitor, and evacuee pool together
// and advances them one synchronous tick at a time.
package engine

import (
	"fmt"
	"log/slog"

	"github.com/gridlab/evacsim/internal/agents"
	"github.com/gridlab/evacsim/internal/entropy"
	"github.com/gridlab/evacsim/internal/world"
)

// Config describes one simulation run.
type Config struct {
	GridSize  int
	NumAgents int
	Seed      int64

	// EmergencySeconds is the simulated delay before the emergency fires.
	// Zero fires on the first tick.
	EmergencySeconds float64

	// ExitPositions is the fixed exit set. Empty means no evacuation ever
	// completes. Nil selects the default opposite-corner pair.
	ExitPositions []world.Position

	// MaxSteps caps the run; a simulation that has not emptied by then is
	// reported unfinished.
	MaxSteps uint64

	// SecondsPerTick selects the stepped clock. Values <= 0 select the
	// wall clock and couple timers to host speed.
	SecondsPerTick float64

	// ClusteredSpawn weights initial placement by a noise field instead
	// of uniform scatter.
	ClusteredSpawn bool
}

// DefaultConfig mirrors the canonical scenario: 10×10 grid, 10 evacuees,
// opposite-corner exits, 10-second emergency delay.
func DefaultConfig() Config {
	return Config{
		GridSize:         10,
		NumAgents:        10,
		Seed:             42,
		EmergencySeconds: 10,
		MaxSteps:         10000,
		SecondsPerTick:   1,
	}
}

// DefaultExits returns the opposite-corner exit pair for a grid size.
func DefaultExits(gridSize int) []world.Position {
	return []world.Position{{X: 0, Y: 0}, {X: gridSize - 1, Y: gridSize - 1}}
}

// Validate rejects malformed configuration at construction time.
func (c Config) Validate() error {
	if c.GridSize < 1 {
		return fmt.Errorf("grid size must be positive, got %d", c.GridSize)
	}
	if c.NumAgents < 0 {
		return fmt.Errorf("agent count must be non-negative, got %d", c.NumAgents)
	}
	if c.EmergencySeconds < 0 {
		return fmt.Errorf("emergency time must be non-negative, got %g", c.EmergencySeconds)
	}
	if c.MaxSteps == 0 {
		return fmt.Errorf("step cap must be positive")
	}
	seen := make(map[world.Position]bool, len(c.ExitPositions))
	for _, p := range c.ExitPositions {
		if p.X < 0 || p.Y < 0 || p.X >= c.GridSize || p.Y >= c.GridSize {
			return fmt.Errorf("exit (%d,%d): %w", p.X, p.Y, world.ErrOutOfBounds)
		}
		if seen[p] {
			return fmt.Errorf("duplicate exit (%d,%d)", p.X, p.Y)
		}
		seen[p] = true
	}
	return nil
}

// Simulation is one independent run. Batch drivers create a fresh instance
// per run; nothing is shared between instances.
type Simulation struct {
	Grid    *world.Grid
	Exits   *world.ExitRegistry
	Monitor *Monitor
	Clock   Clock
	Rng     *entropy.Source

	// Emergency is the run-wide flag set when the monitor fires.
	Emergency bool

	// Tick counts completed Step calls.
	Tick uint64

	active   []*agents.Evacuee // insertion order = creation order
	index    map[world.OccupantID]*agents.Evacuee
	maxSteps uint64

	finished bool
	evacTick uint64
}

// New builds a simulation from cfg. Deterministic for a given seed when
// the stepped clock is selected.
func New(cfg Config) (*Simulation, error) {
	if cfg.ExitPositions == nil {
		cfg.ExitPositions = DefaultExits(cfg.GridSize)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("simulation config: %w", err)
	}

	grid, err := world.NewGrid(cfg.GridSize)
	if err != nil {
		return nil, err
	}

	// Exit markers occupy their cells, so wandering never enters them and
	// spawning never lands on them.
	exitMarkers := make([]world.ExitMarker, 0, len(cfg.ExitPositions))
	var nextID world.OccupantID = 1
	for _, p := range cfg.ExitPositions {
		if err := grid.Place(nextID, p); err != nil {
			return nil, err
		}
		exitMarkers = append(exitMarkers, world.ExitMarker{ID: nextID, Pos: p})
		nextID++
	}

	var clock Clock
	if cfg.SecondsPerTick > 0 {
		clock = NewStepClock(cfg.SecondsPerTick)
	} else {
		clock = NewWallClock()
	}

	s := &Simulation{
		Grid:     grid,
		Exits:    world.NewExitRegistry(exitMarkers),
		Monitor:  NewMonitor(cfg.EmergencySeconds),
		Clock:    clock,
		Rng:      entropy.NewSource(cfg.Seed),
		index:    make(map[world.OccupantID]*agents.Evacuee),
		maxSteps: cfg.MaxSteps,
	}

	spawner := agents.NewSpawner(s.Rng, nextID)
	var pool []*agents.Evacuee
	if cfg.ClusteredSpawn {
		pool = spawner.SpawnClustered(grid, cfg.NumAgents, cfg.Seed)
	} else {
		pool = spawner.SpawnPopulation(grid, cfg.NumAgents)
	}
	for _, e := range pool {
		s.active = append(s.active, e)
		s.index[e.ID] = e
	}

	if len(pool) == 0 {
		// Nothing to evacuate; the run is already complete.
		s.finished = true
	}

	return s, nil
}

// Running reports whether the run should continue: evacuees remain and the
// step cap has not been reached.
func (s *Simulation) Running() bool {
	return !s.finished && s.Tick < s.maxSteps
}

// EvacuationSteps returns the tick count at which the active pool first
// became empty. ok is false while evacuees remain or when the cap was hit
// first.
func (s *Simulation) EvacuationSteps() (uint64, bool) {
	if !s.finished {
		return 0, false
	}
	return s.evacTick, true
}

// ActiveCount returns the number of evacuees still on the grid.
func (s *Simulation) ActiveCount() int {
	return len(s.active)
}

// lookup resolves an id to an evacuee still in the active pool.
func (s *Simulation) lookup(id world.OccupantID) *agents.Evacuee {
	return s.index[id]
}

// Step advances one tick: monitor sweep, then every active evacuee over a
// snapshot of the pool, then deferred removals.
func (s *Simulation) Step() {
	now := s.Clock.Now()

	if s.Monitor.Step(now, s.active) {
		s.Emergency = true
		slog.Info("emergency triggered",
			"tick", s.Tick,
			"sim_seconds", now,
			"active", len(s.active),
		)
	}

	env := &agents.Env{
		Grid:   s.Grid,
		Exits:  s.Exits,
		Now:    now,
		Rng:    s.Rng,
		Lookup: s.lookup,
	}

	// Snapshot: removals collected during the tick must not skip or
	// duplicate anyone's step.
	snapshot := append([]*agents.Evacuee(nil), s.active...)
	for _, e := range snapshot {
		if e.Exited {
			continue
		}
		e.Step(env)
	}

	s.applyRemovals()

	s.Tick++
	s.Clock.Advance()

	if len(s.active) == 0 && !s.finished {
		s.finished = true
		s.evacTick = s.Tick
		slog.Info("evacuation complete", "steps", s.evacTick)
	}
}

// applyRemovals detaches every evacuee that reached an exit this tick from
// the grid and the active pool. Deferred so that mid-tick neighbor scans
// iterate a stable pool.
func (s *Simulation) applyRemovals() {
	remaining := s.active[:0]
	for _, e := range s.active {
		if e.Exited {
			s.Grid.Remove(e.ID)
			delete(s.index, e.ID)
			continue
		}
		remaining = append(remaining, e)
	}
	s.active = remaining
}
