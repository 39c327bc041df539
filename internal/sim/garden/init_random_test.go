package garden

import (
	"errors"
	"math/rand"
	"testing"

	"gardeners.ai/internal/sim/catalogs"
)

func TestRandomGrid_PlacementCounts(t *testing.T) {
	cat := catalogs.Default()
	cfg := DefaultConfig()
	cfg.Random = RandomConfig{Width: 6, Height: 5, ObstacleRatio: 0.2, WaterRatio: 0.1, AgentCount: 3}

	g, agents, err := NewRandomGrid(cfg, cat, rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatalf("random init: %v", err)
	}

	var obstacles, water, occupied int
	for row := 0; row < g.Height; row++ {
		for col := 0; col < g.Width; col++ {
			c, _ := g.CellAt(Position{Row: row, Col: col})
			switch c.Type {
			case CellObstacle:
				obstacles++
			case CellWater:
				water++
			}
			if c.HasAgent() {
				occupied++
			}
		}
	}
	if obstacles != 6 { // int(0.2 * 30)
		t.Fatalf("obstacles: want 6, got %d", obstacles)
	}
	if water != 3 { // int(0.1 * 30)
		t.Fatalf("water: want 3, got %d", water)
	}
	if occupied != 3 || len(agents) != 3 {
		t.Fatalf("agents: want 3 placed, got %d cells / %d agents", occupied, len(agents))
	}
	for _, a := range agents {
		c, _ := g.CellAt(a.Pos)
		if !c.CanWalkOn() || c.AgentID != a.ID {
			t.Fatalf("agent %d placed on a bad cell: %+v", a.ID, c)
		}
		if a.Seeds[0] != cfg.StartSeeds {
			t.Fatalf("agent %d seeds: want %d, got %v", a.ID, cfg.StartSeeds, a.Seeds)
		}
	}
}

func TestRandomGrid_SameSeedSameLayout(t *testing.T) {
	cat := catalogs.Default()
	cfg := DefaultConfig()

	g1, a1, err := NewRandomGrid(cfg, cat, rand.New(rand.NewSource(99)))
	if err != nil {
		t.Fatalf("grid 1: %v", err)
	}
	g2, a2, err := NewRandomGrid(cfg, cat, rand.New(rand.NewSource(99)))
	if err != nil {
		t.Fatalf("grid 2: %v", err)
	}

	for row := 0; row < g1.Height; row++ {
		for col := 0; col < g1.Width; col++ {
			p := Position{Row: row, Col: col}
			c1, _ := g1.CellAt(p)
			c2, _ := g2.CellAt(p)
			if c1.Type != c2.Type || c1.AgentID != c2.AgentID {
				t.Fatalf("layouts diverge at %+v", p)
			}
		}
	}
	for i := range a1 {
		if a1[i].Pos != a2[i].Pos {
			t.Fatalf("agent %d at %+v then %+v", i, a1[i].Pos, a2[i].Pos)
		}
	}
}

func TestRandomGrid_InsufficientSpace(t *testing.T) {
	cat := catalogs.Default()
	cfg := DefaultConfig()
	cfg.Random = RandomConfig{Width: 2, Height: 2, ObstacleRatio: 1, AgentCount: 1}

	_, _, err := NewRandomGrid(cfg, cat, rand.New(rand.NewSource(1)))
	var space *InsufficientSpaceError
	if !errors.As(err, &space) {
		t.Fatalf("want InsufficientSpaceError, got %v", err)
	}
	if space.Requested != 5 || space.Available != 4 {
		t.Fatalf("space detail: %+v", space)
	}
}
