package garden

import (
	"errors"
	"testing"
)

func TestDeclaredGrid_Defaults(t *testing.T) {
	cat := singleTypeCatalog(t)
	cfg := DefaultConfig()
	cfg.StartSeeds = 4
	cfg.StartMoney = 0

	g, agents, err := NewDeclaredGrid(&GridSpec{
		Width: 2, Height: 2,
		Agents: []AgentSpec{{Position: Position{Row: 0, Col: 1}, Money: 3}},
	}, cfg, cat)
	if err != nil {
		t.Fatalf("declared init: %v", err)
	}

	c, _ := g.CellAt(Position{Row: 1, Col: 1})
	if c.Type != CellGround || c.Pollution != cfg.StartPollution {
		t.Fatalf("unlisted cell must default to ground at start pollution, got %+v", c)
	}

	a := agents[0]
	if a.Money != 3 {
		t.Fatalf("money: want 3, got %v", a.Money)
	}
	if a.Seeds[0] != 4 {
		t.Fatalf("nil seeds must apply the default inventory, got %v", a.Seeds)
	}
	c, _ = g.CellAt(a.Pos)
	if c.AgentID != 0 {
		t.Fatalf("occupancy not recorded: %+v", c)
	}
}

func TestDeclaredGrid_Rejections(t *testing.T) {
	cat := singleTypeCatalog(t)
	cfg := DefaultConfig()

	cases := map[string]*GridSpec{
		"no agents": {Width: 2, Height: 2},
		"agent on obstacle": {
			Width: 2, Height: 2,
			Cells:  []CellSpec{{Position: Position{Row: 0, Col: 0}, Type: "OBSTACLE"}},
			Agents: []AgentSpec{{Position: Position{Row: 0, Col: 0}}},
		},
		"agent out of bounds": {
			Width: 2, Height: 2,
			Agents: []AgentSpec{{Position: Position{Row: 5, Col: 0}}},
		},
		"overlapping agents": {
			Width: 2, Height: 2,
			Agents: []AgentSpec{
				{Position: Position{Row: 0, Col: 0}},
				{Position: Position{Row: 0, Col: 0}},
			},
		},
		"seed count mismatch": {
			Width: 2, Height: 2,
			Agents: []AgentSpec{{Position: Position{Row: 0, Col: 0}, Seeds: []int{1, 2}}},
		},
		"unknown cell type": {
			Width: 2, Height: 2,
			Cells:  []CellSpec{{Position: Position{Row: 0, Col: 0}, Type: "LAVA"}},
			Agents: []AgentSpec{{Position: Position{Row: 1, Col: 1}}},
		},
		"flower stage out of range": {
			Width: 2, Height: 2,
			Agents:  []AgentSpec{{Position: Position{Row: 0, Col: 0}}},
			Flowers: []FlowerSpec{{Position: Position{Row: 1, Col: 1}, Type: 0, Owner: 0, Stage: 9}},
		},
		"flower on water": {
			Width: 2, Height: 2,
			Cells:   []CellSpec{{Position: Position{Row: 1, Col: 1}, Type: "WATER"}},
			Agents:  []AgentSpec{{Position: Position{Row: 0, Col: 0}}},
			Flowers: []FlowerSpec{{Position: Position{Row: 1, Col: 1}, Type: 0, Owner: 0}},
		},
		"flower owner unknown": {
			Width: 2, Height: 2,
			Agents:  []AgentSpec{{Position: Position{Row: 0, Col: 0}}},
			Flowers: []FlowerSpec{{Position: Position{Row: 1, Col: 1}, Type: 0, Owner: 4}},
		},
	}

	for name, spec := range cases {
		_, _, err := NewDeclaredGrid(spec, cfg, cat)
		var parse *ParseError
		if !errors.As(err, &parse) {
			t.Fatalf("%s: want ParseError, got %v", name, err)
		}
	}
}

func TestDeclaredGrid_PrePlacedFlowersDoNotCountAsPlanted(t *testing.T) {
	cat := singleTypeCatalog(t)
	_, agents, err := NewDeclaredGrid(&GridSpec{
		Width: 2, Height: 2,
		Agents:  []AgentSpec{{Position: Position{Row: 0, Col: 0}}},
		Flowers: []FlowerSpec{{Position: Position{Row: 1, Col: 1}, Type: 0, Owner: 0, Stage: 1}},
	}, DefaultConfig(), cat)
	if err != nil {
		t.Fatalf("declared init: %v", err)
	}
	if n := agents[0].FlowersPlanted[0]; n != 0 {
		t.Fatalf("pre-placed flowers must not count toward the planting stats, got %d", n)
	}
}
