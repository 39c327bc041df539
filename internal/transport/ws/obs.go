package ws

import (
	"strconv"

	"gardeners.ai/internal/protocol"
	"gardeners.ai/internal/sim/garden"
)

// buildObs serializes the full session state. The grid is small enough
// that every OBS carries all cells; trainers need no delta tracking.
func (sess *session) buildObs() protocol.ObsMsg {
	e := sess.engine
	obs := protocol.ObsMsg{
		Type:            protocol.TypeObs,
		ProtocolVersion: protocol.Version,
		Episode:         e.Episode(),
		Step:            e.Step(),
		State:           buildState(e),
		Masks:           make(map[string][]bool, len(e.Agents())),
	}
	for _, a := range e.Agents() {
		mask, err := e.ActionMask(a.ID)
		if err != nil {
			continue
		}
		obs.Masks[strconv.Itoa(a.ID)] = mask
	}
	return obs
}

func buildState(e *garden.Engine) protocol.State {
	g := e.Grid()
	st := protocol.State{
		Width:            g.Width,
		Height:           g.Height,
		AveragePollution: g.AveragePollution(),
		Cells:            make([]protocol.CellState, 0, g.Width*g.Height),
	}

	for row := 0; row < g.Height; row++ {
		for col := 0; col < g.Width; col++ {
			cell, err := e.GetCell(garden.Position{Row: row, Col: col})
			if err != nil {
				continue
			}
			cs := protocol.CellState{
				Row:       row,
				Col:       col,
				Type:      cell.Type.String(),
				Pollution: cell.Pollution,
			}
			if f := cell.Flower; f != nil {
				cs.Flower = &protocol.FlowerState{Type: f.Type, Owner: f.Owner, Stage: f.Stage}
			}
			st.Cells = append(st.Cells, cs)
		}
	}

	numTypes := e.Catalog().NumTypes()
	for _, a := range e.Agents() {
		as := protocol.AgentState{
			ID:                 a.ID,
			Row:                a.Pos.Row,
			Col:                a.Pos.Col,
			Money:              a.Money,
			Seeds:              make([]int, numTypes),
			FlowersPlanted:     make([]int, numTypes),
			FlowersHarvested:   make([]int, numTypes),
			TurnsWithoutIncome: a.TurnsWithoutIncome,
		}
		for t := 0; t < numTypes; t++ {
			as.Seeds[t] = a.Seeds[t]
			as.FlowersPlanted[t] = a.FlowersPlanted[t]
			as.FlowersHarvested[t] = a.FlowersHarvested[t]
		}
		st.Agents = append(st.Agents, as)
	}
	return st
}
