package garden

// ComputeMask returns the legality vector over the full action space for
// one agent against the current grid state. Callers must recompute it
// whenever the agent or its surroundings change; the resolver uses the
// same predicates, so an action the mask allows never errors.
func ComputeMask(g *Grid, a *Agent, set ActionSet) []bool {
	mask := make([]bool, set.Size())

	for act := ActUp; act <= ActRight; act++ {
		target, _ := moveTarget(a.Pos, act)
		mask[act] = g.ValidMove(target)
	}

	cell := g.cellAt(a.Pos)

	harvestable := false
	if f := cell.Flower; f != nil {
		if def, ok := g.catalog.Def(f.Type); ok {
			harvestable = f.Stage == def.MaxStage()
		}
	}
	mask[ActHarvest] = harvestable

	mask[ActWait] = true

	for t := 0; t < set.NumFlowerTypes(); t++ {
		mask[set.Plant(t)] = cell.CanPlantOn() && a.CanPlant(t)
	}

	return mask
}
