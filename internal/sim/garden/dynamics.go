package garden

import "math"

// UpdateCells advances the non-agent-driven state once per step: every
// ground cell's pollution moves (down by the flower's stage reduction,
// floored at the minimum; up by the increment, capped at the maximum when
// empty), then flowers below their final stage grow by one. Each cell is
// touched exactly once and cells are independent, so iteration order does
// not matter.
func (g *Grid) UpdateCells() {
	for i := range g.cells {
		c := &g.cells[i]
		if c.Type != CellGround {
			continue
		}
		if f := c.Flower; f != nil {
			def, ok := g.catalog.Def(f.Type)
			if !ok {
				continue
			}
			c.Pollution = math.Max(c.Pollution-def.PollutionReduction[f.Stage], g.MinPollution)
			if f.Stage < def.MaxStage() {
				f.Stage++
			}
		} else {
			c.Pollution = math.Min(c.Pollution+g.PollutionIncrement, g.MaxPollution)
		}
	}
}
