package garden

import "math"

// maxPenaltyTurns caps the well-being penalty: an agent with this many
// turns without income receives the full -1.
const maxPenaltyTurns = 10

// Reward is one agent's per-step reward, decomposed by component.
type Reward struct {
	Components map[string]float64 `json:"components"`
	Total      float64            `json:"total"`
}

// RewardComponent scores one objective from the pre- and post-step
// snapshots. Implementations must be pure: identical snapshots and action
// yield identical values.
type RewardComponent interface {
	Name() string
	Compute(before, after *Snapshot, agentID int, act Action) float64
}

// Calculator aggregates reward components. The aggregate is the unweighted
// mean of the registered components, each clamped to [-1, 1]; adding a
// component only changes the divisor.
type Calculator struct {
	set        ActionSet
	components []RewardComponent
}

// NewCalculator builds a calculator with the ecology, well-being and
// biodiversity components.
func NewCalculator(set ActionSet) *Calculator {
	return &Calculator{
		set: set,
		components: []RewardComponent{
			ecologyComponent{set: set},
			wellbeingComponent{set: set},
			biodiversityComponent{set: set},
		},
	}
}

// Register appends a component to the aggregate.
func (c *Calculator) Register(rc RewardComponent) {
	c.components = append(c.components, rc)
}

func (c *Calculator) Compute(before, after *Snapshot, agentID int, act Action) Reward {
	r := Reward{Components: make(map[string]float64, len(c.components))}
	if len(c.components) == 0 {
		return r
	}
	for _, comp := range c.components {
		v := clamp1(comp.Compute(before, after, agentID, act))
		r.Components[comp.Name()] = v
		r.Total += v
	}
	r.Total /= float64(len(c.components))
	return r
}

// ecologyComponent scores the pollution impact of the agent's action. A
// successful plant is scored by the planted type's total reduction scaled
// by how polluted the cell already is; a successful harvest by the final
// reduction lost, scaled by the cell's remaining headroom; anything else
// by the negated change of the grid-average pollution.
type ecologyComponent struct{ set ActionSet }

func (ecologyComponent) Name() string { return "ecology" }

func (ec ecologyComponent) Compute(before, after *Snapshot, agentID int, act Action) float64 {
	g := after.Grid
	agent := after.Agents[agentID]
	span := g.MaxPollution - g.MinPollution
	if agent == nil || span <= 0 {
		return 0
	}

	if t, ok := ec.set.PlantType(act); ok {
		cell, err := g.CellAt(agent.Pos)
		if err == nil && cell.HasFlower() && cell.Flower.Type == t {
			def, ok := g.Catalog().Def(t)
			if !ok {
				return 0
			}
			r := def.TotalReduction() * (1 / (cell.Pollution - g.MaxPollution + 0.01))
			rMax := span * (1 / 0.01)
			return r / rMax
		}
	}

	if act == ActHarvest {
		cellAfter, errA := g.CellAt(agent.Pos)
		cellBefore, errB := before.Grid.CellAt(agent.Pos)
		if errA == nil && errB == nil && cellBefore.HasFlower() && !cellAfter.HasFlower() {
			def, ok := g.Catalog().Def(cellBefore.Flower.Type)
			if !ok {
				return 0
			}
			return def.FinalReduction() * (cellAfter.Pollution - g.MinPollution) / span
		}
	}

	return -(g.AveragePollution() - before.Grid.AveragePollution()) / span
}

// wellbeingComponent rewards income: a successful harvest scores the
// price relative to the priciest catalog type, everything else a penalty
// growing with the agent's turns without income.
type wellbeingComponent struct{ set ActionSet }

func (wellbeingComponent) Name() string { return "wellbeing" }

func (wc wellbeingComponent) Compute(before, after *Snapshot, agentID int, act Action) float64 {
	agent := after.Agents[agentID]
	if agent == nil {
		return 0
	}

	if act == ActHarvest {
		cellAfter, errA := after.Grid.CellAt(agent.Pos)
		cellBefore, errB := before.Grid.CellAt(agent.Pos)
		if errA == nil && errB == nil && cellBefore.HasFlower() && !cellAfter.HasFlower() {
			maxPrice := after.Grid.Catalog().MaxPrice()
			if maxPrice <= 0 {
				return 0
			}
			def, ok := after.Grid.Catalog().Def(cellBefore.Flower.Type)
			if !ok {
				return 0
			}
			return def.Price / maxPrice
		}
	}

	return -math.Min(float64(agent.TurnsWithoutIncome)/maxPenaltyTurns, 1)
}

// biodiversityComponent scores how a successful plant shifts the
// Shannon-Wiener index over all flowers planted so far, normalized by the
// index of a perfectly even distribution. Non-plant actions score 0.
type biodiversityComponent struct{ set ActionSet }

func (biodiversityComponent) Name() string { return "biodiversity" }

func (bc biodiversityComponent) Compute(before, after *Snapshot, agentID int, act Action) float64 {
	t, ok := bc.set.PlantType(act)
	if !ok {
		return 0
	}
	agent := after.Agents[agentID]
	if agent == nil {
		return 0
	}
	cell, err := after.Grid.CellAt(agent.Pos)
	if err != nil || !cell.HasFlower() || cell.Flower.Type != t {
		return 0 // the plant did not happen
	}
	numTypes := after.Grid.Catalog().NumTypes()
	if numTypes < 2 {
		return 0
	}

	counts := map[int]int{}
	for _, a := range after.Agents {
		for ft, n := range a.FlowersPlanted {
			counts[ft] += n
		}
	}
	hAfter := shannonIndex(counts)
	counts[t]--
	hBefore := shannonIndex(counts)

	return (hAfter - hBefore) / math.Log(float64(numTypes))
}

func shannonIndex(counts map[int]int) float64 {
	total := 0
	for _, n := range counts {
		if n > 0 {
			total += n
		}
	}
	if total == 0 {
		return 0
	}
	var h float64
	for _, n := range counts {
		if n <= 0 {
			continue
		}
		p := float64(n) / float64(total)
		h -= p * math.Log(p)
	}
	return h
}

func clamp1(v float64) float64 {
	if v > 1 {
		return 1
	}
	if v < -1 {
		return -1
	}
	return v
}
