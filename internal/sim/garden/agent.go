package garden

// InfiniteSeeds in a seed slot disables consumption for that type.
const InfiniteSeeds = -1

// Agent is the mutable per-gardener state. Agents are owned by the Engine
// and referenced from cells only by ID.
type Agent struct {
	ID    int
	Pos   Position
	Money float64

	// Seeds maps flower type to remaining seed count (InfiniteSeeds for
	// an unlimited slot).
	Seeds map[int]int

	FlowersPlanted   map[int]int
	FlowersHarvested map[int]int

	// Steps since the agent last earned money; feeds the well-being
	// penalty.
	TurnsWithoutIncome int
}

// NewAgent creates an agent with the given starting inventory. A nil seeds
// map yields empty inventories for numTypes flower types.
func NewAgent(id int, pos Position, money float64, seeds map[int]int, numTypes int) *Agent {
	a := &Agent{
		ID:               id,
		Pos:              pos,
		Money:            money,
		Seeds:            map[int]int{},
		FlowersPlanted:   map[int]int{},
		FlowersHarvested: map[int]int{},
	}
	for t := 0; t < numTypes; t++ {
		a.Seeds[t] = 0
	}
	for t, n := range seeds {
		a.Seeds[t] = n
	}
	return a
}

// CanPlant reports whether the agent holds a seed of the given type.
func (a *Agent) CanPlant(flowerType int) bool {
	n, ok := a.Seeds[flowerType]
	if !ok {
		return false
	}
	return n == InfiniteSeeds || n > 0
}

// UseSeed consumes one seed of the given type. Infinite slots are not
// decremented.
func (a *Agent) UseSeed(flowerType int) bool {
	if !a.CanPlant(flowerType) {
		return false
	}
	if a.Seeds[flowerType] != InfiniteSeeds {
		a.Seeds[flowerType]--
	}
	a.FlowersPlanted[flowerType]++
	return true
}

// AddSeeds grants seeds of a type. Infinite slots stay infinite.
func (a *Agent) AddSeeds(flowerType, n int) {
	if a.Seeds[flowerType] == InfiniteSeeds {
		return
	}
	a.Seeds[flowerType] += n
}

func (a *Agent) AddMoney(amount float64) {
	a.Money += amount
}

// Clone deep-copies the agent.
func (a *Agent) Clone() *Agent {
	cp := *a
	cp.Seeds = make(map[int]int, len(a.Seeds))
	for k, v := range a.Seeds {
		cp.Seeds[k] = v
	}
	cp.FlowersPlanted = make(map[int]int, len(a.FlowersPlanted))
	for k, v := range a.FlowersPlanted {
		cp.FlowersPlanted[k] = v
	}
	cp.FlowersHarvested = make(map[int]int, len(a.FlowersHarvested))
	for k, v := range a.FlowersHarvested {
		cp.FlowersHarvested[k] = v
	}
	return &cp
}
