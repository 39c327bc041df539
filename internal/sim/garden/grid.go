// Package garden implements the grid-world simulation core: the cell,
// flower and agent data model, per-step action resolution, the pollution
// and growth dynamics, and the multi-objective reward calculator.
//
// All state is owned by a single Engine and mutated from one goroutine;
// simultaneity within a step is resolved deterministically by agent ID.
package garden

import (
	"gardeners.ai/internal/sim/catalogs"
)

// Position is a (row, col) grid coordinate. Row 0 is the top row.
type Position struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

type CellType uint8

const (
	CellGround CellType = iota
	CellObstacle
	CellWater
)

func (t CellType) String() string {
	switch t {
	case CellGround:
		return "GROUND"
	case CellObstacle:
		return "OBSTACLE"
	case CellWater:
		return "WATER"
	}
	return "UNKNOWN"
}

// NoAgent marks an unoccupied cell.
const NoAgent = -1

// Cell is one grid square. Pollution is meaningful only for GROUND cells;
// obstacle and water cells carry no pollution value, no flower and no
// occupant. AgentID is a non-owning occupancy index, never a reference.
type Cell struct {
	Type      CellType
	Pollution float64
	Flower    *Flower
	AgentID   int
}

func (c *Cell) CanWalkOn() bool  { return c.Type == CellGround }
func (c *Cell) CanPlantOn() bool { return c.Type == CellGround && c.Flower == nil }
func (c *Cell) HasFlower() bool  { return c.Flower != nil }
func (c *Cell) HasAgent() bool   { return c.AgentID != NoAgent }

// Flower is an owned plant occupying a ground cell. Stage runs from 0 to
// the max stage of its type; the owner index attributes harvest proceeds.
type Flower struct {
	Type  int
	Owner int
	Stage int
}

// Grid owns the cell layout, the pollution bounds and the flower catalog.
type Grid struct {
	Width  int
	Height int

	MinPollution       float64
	MaxPollution       float64
	PollutionIncrement float64

	CollisionsOn bool

	cells   []Cell
	catalog *catalogs.FlowerCatalog
}

// NewGrid allocates a width x height grid of ground cells at the given
// starting pollution.
func NewGrid(width, height int, minPollution, maxPollution, increment, startPollution float64, collisionsOn bool, catalog *catalogs.FlowerCatalog) *Grid {
	g := &Grid{
		Width:              width,
		Height:             height,
		MinPollution:       minPollution,
		MaxPollution:       maxPollution,
		PollutionIncrement: increment,
		CollisionsOn:       collisionsOn,
		cells:              make([]Cell, width*height),
		catalog:            catalog,
	}
	for i := range g.cells {
		g.cells[i] = Cell{Type: CellGround, Pollution: startPollution, AgentID: NoAgent}
	}
	return g
}

func (g *Grid) Catalog() *catalogs.FlowerCatalog { return g.catalog }

func (g *Grid) InBounds(p Position) bool {
	return p.Row >= 0 && p.Row < g.Height && p.Col >= 0 && p.Col < g.Width
}

// CellAt returns the cell at p, or OutOfBoundsError.
func (g *Grid) CellAt(p Position) (*Cell, error) {
	if !g.InBounds(p) {
		return nil, &OutOfBoundsError{Pos: p}
	}
	return &g.cells[p.Row*g.Width+p.Col], nil
}

// cellAt is CellAt for positions already known to be in bounds.
func (g *Grid) cellAt(p Position) *Cell {
	return &g.cells[p.Row*g.Width+p.Col]
}

// SetCellType replaces the cell at p, clearing pollution, flower and
// occupant for non-ground types.
func (g *Grid) SetCellType(p Position, t CellType, pollution float64) error {
	c, err := g.CellAt(p)
	if err != nil {
		return err
	}
	c.Type = t
	c.Flower = nil
	c.AgentID = NoAgent
	if t == CellGround {
		c.Pollution = pollution
	} else {
		c.Pollution = 0
	}
	return nil
}

// ValidMove reports whether an agent may enter p: in bounds, walkable, and
// unoccupied when collisions are on.
func (g *Grid) ValidMove(p Position) bool {
	if !g.InBounds(p) {
		return false
	}
	c := g.cellAt(p)
	if !c.CanWalkOn() {
		return false
	}
	if g.CollisionsOn && c.HasAgent() {
		return false
	}
	return true
}

// AveragePollution aggregates the pollution of all ground cells. It
// returns 0 for a grid with no ground cells.
func (g *Grid) AveragePollution() float64 {
	var sum float64
	var n int
	for i := range g.cells {
		if g.cells[i].Type != CellGround {
			continue
		}
		sum += g.cells[i].Pollution
		n++
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// FlowerCount returns the number of planted flowers per type.
func (g *Grid) FlowerCount() map[int]int {
	counts := map[int]int{}
	for i := range g.cells {
		if f := g.cells[i].Flower; f != nil {
			counts[f.Type]++
		}
	}
	return counts
}

// Clone deep-copies the grid. The catalog is shared: it is immutable.
func (g *Grid) Clone() *Grid {
	cp := *g
	cp.cells = make([]Cell, len(g.cells))
	copy(cp.cells, g.cells)
	for i := range cp.cells {
		if f := cp.cells[i].Flower; f != nil {
			fc := *f
			cp.cells[i].Flower = &fc
		}
	}
	return &cp
}
