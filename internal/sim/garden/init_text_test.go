package garden

import (
	"errors"
	"testing"
)

const sampleGrid = `3 3
G O G
G A0 W
G F0_0_1 G
0,20.5,2|-1
0,10,0|0|5
1,5,1|2
`

func TestParseGrid_FullDescription(t *testing.T) {
	cfg := DefaultConfig()
	g, agents, err := ParseGrid(sampleGrid, cfg)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	if g.Width != 3 || g.Height != 3 {
		t.Fatalf("dimensions: got %dx%d", g.Width, g.Height)
	}
	checks := []struct {
		pos  Position
		want CellType
	}{
		{Position{Row: 0, Col: 1}, CellObstacle},
		{Position{Row: 1, Col: 2}, CellWater},
		{Position{Row: 0, Col: 0}, CellGround},
		{Position{Row: 1, Col: 1}, CellGround},
	}
	for _, c := range checks {
		cell, err := g.CellAt(c.pos)
		if err != nil {
			t.Fatalf("cell %+v: %v", c.pos, err)
		}
		if cell.Type != c.want {
			t.Fatalf("cell %+v: want %s, got %s", c.pos, c.want, cell.Type)
		}
	}

	if len(agents) != 1 {
		t.Fatalf("want 1 agent, got %d", len(agents))
	}
	a := agents[0]
	if a.ID != 0 || a.Pos != (Position{Row: 1, Col: 1}) || a.Money != 20.5 {
		t.Fatalf("agent: %+v", a)
	}
	if a.Seeds[0] != 2 || a.Seeds[1] != InfiniteSeeds {
		t.Fatalf("seeds: %v", a.Seeds)
	}

	cell, _ := g.CellAt(Position{Row: 2, Col: 1})
	if !cell.HasFlower() || cell.Flower.Type != 0 || cell.Flower.Owner != 0 || cell.Flower.Stage != 1 {
		t.Fatalf("flower: %+v", cell.Flower)
	}

	cat := g.Catalog()
	if cat.NumTypes() != 2 {
		t.Fatalf("catalog: want 2 types, got %d", cat.NumTypes())
	}
	def, _ := cat.Def(0)
	if def.Price != 10 || def.MaxStage() != 2 {
		t.Fatalf("type 0: %+v", def)
	}
	def, _ = cat.Def(1)
	if def.Price != 5 || def.TotalReduction() != 3 {
		t.Fatalf("type 1: %+v", def)
	}
}

func TestParseGrid_WidthMismatch(t *testing.T) {
	_, _, err := ParseGrid("3 2\nG G G\nG G\n0,0,1|1\n0,10,1\n1,5,1\n", DefaultConfig())
	var dim *DimensionMismatchError
	if !errors.As(err, &dim) {
		t.Fatalf("want DimensionMismatchError, got %v", err)
	}
	if dim.Axis != "width" || dim.Want != 3 || dim.Got != 2 || dim.Line != 3 {
		t.Fatalf("mismatch detail: %+v", dim)
	}
}

func TestParseGrid_HeightMismatch(t *testing.T) {
	_, _, err := ParseGrid("2 3\nG G\nG G", DefaultConfig())
	var dim *DimensionMismatchError
	if !errors.As(err, &dim) {
		t.Fatalf("want DimensionMismatchError, got %v", err)
	}
	if dim.Axis != "height" || dim.Want != 3 {
		t.Fatalf("mismatch detail: %+v", dim)
	}
}

func TestParseGrid_Malformed(t *testing.T) {
	cases := map[string]string{
		"unknown token":       "1 1\nX\n0,10,1\n",
		"bad header":          "three 3\nG\n",
		"duplicate agent":     "2 1\nA0 A0\n0,0,1\n0,10,1\n",
		"undefined agent":     "2 1\nA0 G\n1,0,1\n0,10,1\n",
		"seed count mismatch": "1 1\nA0\n0,0,1\n0,10,1\n1,5,1\n",
		"flower unknown type": "2 1\nA0 F3_0_0\n0,0,1\n0,10,1\n",
		"flower bad stage":    "2 1\nA0 F0_0_5\n0,0,1\n0,10,1\n",
		"flower bad owner":    "2 1\nA0 F0_7_0\n0,0,1\n0,10,1\n",
	}
	for name, text := range cases {
		var parse *ParseError
		if _, _, err := ParseGrid(text, DefaultConfig()); !errors.As(err, &parse) {
			t.Fatalf("%s: want ParseError, got %v", name, err)
		}
	}
}

func TestEngine_TextInitCarriesItsOwnCatalog(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Init = InitText
	cfg.GridText = sampleGrid

	e, err := New(cfg, nil)
	if err != nil {
		t.Fatalf("engine: %v", err)
	}
	if e.Catalog().NumTypes() != 2 {
		t.Fatalf("catalog: want 2 types, got %d", e.Catalog().NumTypes())
	}
	if want := 6 + 2; e.Actions().Size() != want {
		t.Fatalf("action space: want %d, got %d", want, e.Actions().Size())
	}

	// The pre-placed flower matures in one step and is harvestable.
	mustStep(t, e, map[int]Action{0: ActDown})
	mask, _ := e.ActionMask(0)
	if !mask[ActHarvest] {
		t.Fatalf("flower under the agent should be fully grown")
	}
	mustStep(t, e, map[int]Action{0: ActHarvest})
	if got := mustAgent(t, e, 0).Money; got != 30.5 {
		t.Fatalf("money after harvest: want 30.5, got %v", got)
	}
}
