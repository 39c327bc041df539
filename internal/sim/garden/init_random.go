package garden

import (
	"fmt"
	"math/rand"

	"gardeners.ai/internal/sim/catalogs"
)

// RandomConfig drives random grid generation.
type RandomConfig struct {
	Width         int
	Height        int
	ObstacleRatio float64
	WaterRatio    float64
	AgentCount    int
}

// NewRandomGrid places obstacles, water and agents on distinct cells
// drawn without replacement from a seeded permutation, so the same rng
// seed reproduces the same layout.
func NewRandomGrid(cfg Config, catalog *catalogs.FlowerCatalog, rng *rand.Rand) (*Grid, []*Agent, error) {
	rc := cfg.Random
	if rc.Width <= 0 || rc.Height <= 0 {
		return nil, nil, fmt.Errorf("random init: grid dimensions must be positive, got %dx%d", rc.Width, rc.Height)
	}
	if rc.ObstacleRatio < 0 || rc.ObstacleRatio > 1 || rc.WaterRatio < 0 || rc.WaterRatio > 1 {
		return nil, nil, fmt.Errorf("random init: ratios must be within [0,1]")
	}
	if rc.AgentCount <= 0 {
		return nil, nil, fmt.Errorf("random init: at least one agent is required")
	}

	total := rc.Width * rc.Height
	numObstacles := int(rc.ObstacleRatio * float64(total))
	numWater := int(rc.WaterRatio * float64(total))
	if numObstacles+numWater+rc.AgentCount > total {
		return nil, nil, &InsufficientSpaceError{
			Requested: numObstacles + numWater + rc.AgentCount,
			Available: total,
		}
	}

	g := NewGrid(rc.Width, rc.Height, cfg.MinPollution, cfg.MaxPollution,
		cfg.PollutionIncrement, cfg.StartPollution, cfg.CollisionsOn, catalog)

	perm := rng.Perm(total)
	at := func(i int) Position {
		return Position{Row: perm[i] / rc.Width, Col: perm[i] % rc.Width}
	}

	idx := 0
	for i := 0; i < numObstacles; i++ {
		_ = g.SetCellType(at(idx), CellObstacle, 0)
		idx++
	}
	for i := 0; i < numWater; i++ {
		_ = g.SetCellType(at(idx), CellWater, 0)
		idx++
	}

	agents := make([]*Agent, 0, rc.AgentCount)
	for i := 0; i < rc.AgentCount; i++ {
		pos := at(idx)
		idx++
		a := NewAgent(i, pos, cfg.StartMoney, defaultSeeds(cfg, catalog.NumTypes()), catalog.NumTypes())
		g.cellAt(pos).AgentID = a.ID
		agents = append(agents, a)
	}

	return g, agents, nil
}

func defaultSeeds(cfg Config, numTypes int) map[int]int {
	seeds := make(map[int]int, numTypes)
	for t := 0; t < numTypes; t++ {
		seeds[t] = cfg.StartSeeds
	}
	return seeds
}
