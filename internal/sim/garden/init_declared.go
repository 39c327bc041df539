package garden

import (
	"fmt"
	"strings"

	"gardeners.ai/internal/sim/catalogs"
)

// GridSpec is the declarative initialization input: explicit non-default
// cells, agents and pre-planted flowers. Unlisted cells default to GROUND
// at the configured starting pollution. Agent IDs are the list indices.
type GridSpec struct {
	Width  int `json:"width"`
	Height int `json:"height"`

	Cells   []CellSpec   `json:"cells,omitempty"`
	Agents  []AgentSpec  `json:"agents"`
	Flowers []FlowerSpec `json:"flowers,omitempty"`
}

type CellSpec struct {
	Position Position `json:"position"`
	Type     string   `json:"type"`
}

type AgentSpec struct {
	Position Position `json:"position"`
	Money    float64  `json:"money"`
	// Seed counts per flower type in ascending type order; nil applies
	// the configured default inventory.
	Seeds []int `json:"seeds,omitempty"`
}

type FlowerSpec struct {
	Position Position `json:"position"`
	Type     int      `json:"type"`
	Owner    int      `json:"owner"`
	Stage    int      `json:"stage,omitempty"`
}

// NewDeclaredGrid builds a grid from an explicit layout. Malformed input
// fails with ParseError.
func NewDeclaredGrid(spec *GridSpec, cfg Config, catalog *catalogs.FlowerCatalog) (*Grid, []*Agent, error) {
	if spec == nil {
		return nil, nil, &ParseError{Msg: "nil grid spec"}
	}
	if spec.Width <= 0 || spec.Height <= 0 {
		return nil, nil, &ParseError{Msg: fmt.Sprintf("grid dimensions must be positive, got %dx%d", spec.Width, spec.Height)}
	}
	if len(spec.Agents) == 0 {
		return nil, nil, &ParseError{Msg: "at least one agent is required"}
	}

	g := NewGrid(spec.Width, spec.Height, cfg.MinPollution, cfg.MaxPollution,
		cfg.PollutionIncrement, cfg.StartPollution, cfg.CollisionsOn, catalog)

	for _, cs := range spec.Cells {
		if !g.InBounds(cs.Position) {
			return nil, nil, &ParseError{Msg: fmt.Sprintf("cell (%d,%d) outside the grid", cs.Position.Row, cs.Position.Col)}
		}
		t, err := parseCellType(cs.Type)
		if err != nil {
			return nil, nil, err
		}
		_ = g.SetCellType(cs.Position, t, cfg.StartPollution)
	}

	numTypes := catalog.NumTypes()
	agents := make([]*Agent, 0, len(spec.Agents))
	for i, as := range spec.Agents {
		if !g.InBounds(as.Position) || !g.cellAt(as.Position).CanWalkOn() {
			return nil, nil, &ParseError{Msg: fmt.Sprintf("agent %d placed on an unwalkable cell (%d,%d)", i, as.Position.Row, as.Position.Col)}
		}
		cell := g.cellAt(as.Position)
		if cell.HasAgent() && cfg.CollisionsOn {
			return nil, nil, &ParseError{Msg: fmt.Sprintf("agent %d placed on an occupied cell (%d,%d)", i, as.Position.Row, as.Position.Col)}
		}
		seeds := defaultSeeds(cfg, numTypes)
		if as.Seeds != nil {
			if len(as.Seeds) != numTypes {
				return nil, nil, &ParseError{Msg: fmt.Sprintf("agent %d: %d seed counts for %d flower types", i, len(as.Seeds), numTypes)}
			}
			for t, n := range as.Seeds {
				if n < InfiniteSeeds {
					return nil, nil, &ParseError{Msg: fmt.Sprintf("agent %d: invalid seed count %d", i, n)}
				}
				seeds[t] = n
			}
		}
		a := NewAgent(i, as.Position, as.Money, seeds, numTypes)
		cell.AgentID = a.ID
		agents = append(agents, a)
	}

	for _, fs := range spec.Flowers {
		def, ok := catalog.Def(fs.Type)
		if !ok {
			return nil, nil, &ParseError{Msg: fmt.Sprintf("flower references unknown type %d", fs.Type)}
		}
		if fs.Owner < 0 || fs.Owner >= len(agents) {
			return nil, nil, &ParseError{Msg: fmt.Sprintf("flower references unknown agent %d", fs.Owner)}
		}
		if fs.Stage < 0 || fs.Stage > def.MaxStage() {
			return nil, nil, &ParseError{Msg: fmt.Sprintf("flower stage %d outside [0,%d]", fs.Stage, def.MaxStage())}
		}
		if !g.InBounds(fs.Position) {
			return nil, nil, &ParseError{Msg: fmt.Sprintf("flower (%d,%d) outside the grid", fs.Position.Row, fs.Position.Col)}
		}
		cell := g.cellAt(fs.Position)
		if !cell.CanPlantOn() {
			return nil, nil, &ParseError{Msg: fmt.Sprintf("flower placed on a cell that cannot hold one (%d,%d)", fs.Position.Row, fs.Position.Col)}
		}
		cell.Flower = &Flower{Type: fs.Type, Owner: fs.Owner, Stage: fs.Stage}
	}

	return g, agents, nil
}

func parseCellType(s string) (CellType, error) {
	switch strings.ToUpper(s) {
	case "GROUND":
		return CellGround, nil
	case "OBSTACLE":
		return CellObstacle, nil
	case "WATER":
		return CellWater, nil
	}
	return 0, &ParseError{Msg: fmt.Sprintf("unknown cell type %q", s)}
}
