// Evacuee spawning: places the initial population on empty cells.
package agents

import (
	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/gridlab/evacsim/internal/entropy"
	"github.com/gridlab/evacsim/internal/world"
)

// Spawner creates evacuees for a simulation run.
type Spawner struct {
	rng    *entropy.Source
	nextID world.OccupantID
}

// NewSpawner creates a spawner issuing ids from first upward, drawing
// placements from the run's randomness source.
func NewSpawner(rng *entropy.Source, first world.OccupantID) *Spawner {
	return &Spawner{rng: rng, nextID: first}
}

// SpawnPopulation places count evacuees on uniformly chosen empty cells,
// one at a time so later spawns see earlier ones. Stops short when the
// grid runs out of room.
func (s *Spawner) SpawnPopulation(g *world.Grid, count int) []*Evacuee {
	evacuees := make([]*Evacuee, 0, count)
	for i := 0; i < count; i++ {
		empty := g.EmptyCells()
		if len(empty) == 0 {
			break
		}
		pos := entropy.Pick(s.rng, empty)
		evacuees = append(evacuees, s.spawnAt(g, pos))
	}
	return evacuees
}

// SpawnClustered places count evacuees with placement probability weighted
// by a smooth noise field, so the crowd starts in pockets rather than
// uniform scatter. Deterministic for a given noise seed.
func (s *Spawner) SpawnClustered(g *world.Grid, count int, noiseSeed int64) []*Evacuee {
	noise := opensimplex.NewNormalized(noiseSeed)

	// Coarse frequency: pockets a few cells wide on small grids.
	freq := 3.0 / float64(g.Size())

	evacuees := make([]*Evacuee, 0, count)
	for i := 0; i < count; i++ {
		empty := g.EmptyCells()
		if len(empty) == 0 {
			break
		}

		total := 0.0
		weights := make([]float64, len(empty))
		for j, p := range empty {
			w := noise.Eval2(float64(p.X)*freq, float64(p.Y)*freq)
			// Square sharpens the pockets; the epsilon keeps every cell
			// reachable.
			w = w*w + 0.01
			weights[j] = w
			total += w
		}

		r := s.rng.Float64() * total
		pos := empty[len(empty)-1]
		for j, w := range weights {
			r -= w
			if r < 0 {
				pos = empty[j]
				break
			}
		}
		evacuees = append(evacuees, s.spawnAt(g, pos))
	}
	return evacuees
}

func (s *Spawner) spawnAt(g *world.Grid, pos world.Position) *Evacuee {
	id := s.nextID
	s.nextID++
	e := NewEvacuee(id, pos)
	// pos comes from EmptyCells and the id is fresh, so Place cannot fail.
	_ = g.Place(id, pos)
	return e
}
