package garden

// applyAll applies one action per agent in ascending agent-ID order, the
// fixed resolution order that makes same-step conflicts deterministic:
// the lowest ID claims a contested cell first and later movers are
// blocked. Agents missing from the map wait.
func (e *Engine) applyAll(actions map[int]Action) error {
	for _, id := range e.agentOrder {
		act, ok := actions[id]
		if !ok {
			act = ActWait
		}
		if err := e.applyOne(e.agents[id], act); err != nil {
			return err
		}
	}
	return nil
}

func (e *Engine) applyOne(a *Agent, act Action) error {
	if !e.actions.Contains(act) {
		return &IllegalActionError{AgentID: a.ID, Action: act, Reason: "action outside the action space"}
	}
	switch {
	case e.actions.IsMove(act):
		e.moveAgent(a, act)
		return nil
	case act == ActHarvest:
		return e.harvest(a)
	case act == ActWait:
		a.TurnsWithoutIncome++
		return nil
	}
	flowerType, _ := e.actions.PlantType(act)
	return e.plant(a, flowerType)
}

// moveAgent walks the agent one cell. Blocked moves (out of bounds,
// unwalkable target, or occupied under collisions) fail silently: the
// agent stays in place and the mask already marked the direction illegal.
func (e *Engine) moveAgent(a *Agent, act Action) {
	target, _ := moveTarget(a.Pos, act)
	if !e.grid.ValidMove(target) {
		return
	}
	e.grid.cellAt(a.Pos).AgentID = NoAgent
	a.Pos = target
	e.grid.cellAt(target).AgentID = a.ID
	a.TurnsWithoutIncome++
}

func (e *Engine) harvest(a *Agent) error {
	cell := e.grid.cellAt(a.Pos)
	f := cell.Flower
	if f == nil {
		return &IllegalActionError{AgentID: a.ID, Action: ActHarvest, Reason: "no flower at the agent's cell"}
	}
	def, ok := e.grid.catalog.Def(f.Type)
	if !ok {
		return &IllegalActionError{AgentID: a.ID, Action: ActHarvest, Reason: "flower type missing from catalog"}
	}
	if f.Stage != def.MaxStage() {
		return &IllegalActionError{AgentID: a.ID, Action: ActHarvest, Reason: "flower is not fully grown"}
	}

	cell.Flower = nil
	if n, granted := e.seedsReturned(); granted {
		a.AddSeeds(f.Type, n)
	}
	a.AddMoney(def.Price)
	a.FlowersHarvested[f.Type]++
	a.TurnsWithoutIncome = 0
	return nil
}

func (e *Engine) plant(a *Agent, flowerType int) error {
	act := e.actions.Plant(flowerType)
	if _, ok := e.grid.catalog.Def(flowerType); !ok {
		return &IllegalActionError{AgentID: a.ID, Action: act, Reason: "unknown flower type"}
	}
	cell := e.grid.cellAt(a.Pos)
	if !cell.CanPlantOn() {
		return &IllegalActionError{AgentID: a.ID, Action: act, Reason: "cell cannot hold a flower"}
	}
	if !a.CanPlant(flowerType) {
		return &IllegalActionError{AgentID: a.ID, Action: act, Reason: "no seeds of this type"}
	}

	a.UseSeed(flowerType)
	cell.Flower = &Flower{Type: flowerType, Owner: a.ID, Stage: 0}
	a.TurnsWithoutIncome++
	return nil
}
