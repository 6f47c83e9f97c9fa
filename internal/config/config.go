// Package config loads run and experiment configuration from YAML.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/gridlab/evacsim/internal/engine"
	"github.com/gridlab/evacsim/internal/world"
)

// Sim configures a single live run.
type Sim struct {
	GridSize         int     `yaml:"grid_size"`
	NumAgents        int     `yaml:"num_agents"`
	Seed             int64   `yaml:"seed"`
	EmergencySeconds float64 `yaml:"emergency_seconds"`

	// SecondsPerTick selects stepped time; zero or negative uses the
	// wall clock.
	SecondsPerTick float64 `yaml:"seconds_per_tick"`

	MaxSteps       uint64   `yaml:"max_steps"`
	Exits          [][2]int `yaml:"exits"`
	ClusteredSpawn bool     `yaml:"clustered_spawn"`

	// Live-run surroundings.
	TickMs  int    `yaml:"tick_ms"`
	APIPort int    `yaml:"api_port"`
	LogDir  string `yaml:"log_dir"`
}

// DefaultSim mirrors the canonical interactive scenario.
func DefaultSim() Sim {
	return Sim{
		GridSize:         10,
		NumAgents:        10,
		Seed:             42,
		EmergencySeconds: 10,
		SecondsPerTick:   0, // interactive runs use the wall clock
		MaxSteps:         10000,
		TickMs:           250,
		APIPort:          8080,
	}
}

// LoadSim reads a Sim config from a YAML file, applying defaults for
// omitted fields.
func LoadSim(path string) (Sim, error) {
	s := DefaultSim()
	raw, err := os.ReadFile(path)
	if err != nil {
		return s, err
	}
	if err := yaml.Unmarshal(raw, &s); err != nil {
		return s, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// EngineConfig converts to the orchestrator's constructor input.
func (s Sim) EngineConfig() engine.Config {
	return engine.Config{
		GridSize:         s.GridSize,
		NumAgents:        s.NumAgents,
		Seed:             s.Seed,
		EmergencySeconds: s.EmergencySeconds,
		ExitPositions:    toPositions(s.Exits),
		MaxSteps:         s.MaxSteps,
		SecondsPerTick:   s.SecondsPerTick,
		ClusteredSpawn:   s.ClusteredSpawn,
	}
}

// Placement is one named exit layout in an experiment matrix.
type Placement struct {
	Name  string   `yaml:"name"`
	Exits [][2]int `yaml:"exits"`
}

// Experiment configures a batch run over placements × seeds.
type Experiment struct {
	GridSize  int    `yaml:"grid_size"`
	NumAgents int    `yaml:"num_agents"`
	MaxSteps  uint64 `yaml:"max_steps"`

	// EmergencySeconds is usually zero in batch mode so every run skips
	// the wandering phase.
	EmergencySeconds float64 `yaml:"emergency_seconds"`
	SecondsPerTick   float64 `yaml:"seconds_per_tick"`

	Runs       int         `yaml:"runs"`
	BaseSeed   int64       `yaml:"base_seed"`
	Placements []Placement `yaml:"placements"`

	DBPath string `yaml:"db_path"`
}

// DefaultExperiment reproduces the standard placement study: four layouts,
// 30 runs each.
func DefaultExperiment() Experiment {
	n := 10
	return Experiment{
		GridSize:       n,
		NumAgents:      10,
		MaxSteps:       10000,
		SecondsPerTick: 1,
		Runs:           30,
		BaseSeed:       1000,
		Placements: []Placement{
			{Name: "Opposite corners", Exits: [][2]int{{0, 0}, {n - 1, n - 1}}},
			{Name: "Middle left/right", Exits: [][2]int{{0, n / 2}, {n - 1, n / 2}}},
			{Name: "Adjacent corners bottom", Exits: [][2]int{{0, 0}, {n - 1, 0}}},
			{Name: "Single center exit", Exits: [][2]int{{n / 2, n / 2}}},
		},
	}
}

// LoadExperiment reads an Experiment config from a YAML file, applying
// defaults for omitted fields. A placements list in the file replaces the
// default matrix entirely.
func LoadExperiment(path string) (Experiment, error) {
	e := DefaultExperiment()
	raw, err := os.ReadFile(path)
	if err != nil {
		return e, err
	}
	if err := yaml.Unmarshal(raw, &e); err != nil {
		return e, fmt.Errorf("%s: %w", path, err)
	}
	return e, nil
}

// ExitPositions converts a placement's pairs to world positions.
func (p Placement) ExitPositions() []world.Position {
	return toPositions(p.Exits)
}

func toPositions(pairs [][2]int) []world.Position {
	if pairs == nil {
		return nil
	}
	positions := make([]world.Position, len(pairs))
	for i, xy := range pairs {
		positions[i] = world.Position{X: xy[0], Y: xy[1]}
	}
	return positions
}
