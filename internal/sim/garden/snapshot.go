package garden

// Snapshot is a deep copy of the grid and agent state at one instant. The
// engine takes one before each step; the reward calculator compares it
// against the post-step state, and a failed step is restored from it so
// no partial agent mutations survive an error.
type Snapshot struct {
	Grid   *Grid
	Agents map[int]*Agent
}

func (e *Engine) snapshot() *Snapshot {
	s := &Snapshot{
		Grid:   e.grid.Clone(),
		Agents: make(map[int]*Agent, len(e.agents)),
	}
	for id, a := range e.agents {
		s.Agents[id] = a.Clone()
	}
	return s
}

func (e *Engine) restore(s *Snapshot) {
	e.grid = s.Grid.Clone()
	e.agents = make(map[int]*Agent, len(s.Agents))
	for id, a := range s.Agents {
		e.agents[id] = a.Clone()
	}
}
