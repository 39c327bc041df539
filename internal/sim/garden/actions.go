package garden

import "fmt"

// Action is an index into the episode's discrete action space. The first
// six indices are fixed; one plant action per catalog flower type follows.
type Action int

const (
	ActUp Action = iota
	ActDown
	ActLeft
	ActRight
	ActHarvest
	ActWait

	// plantBase is the index of PLANT for flower type 0.
	plantBase
)

// ActionSet is the discrete action space for one episode. It is built once
// from the flower catalog at session initialization and immutable after.
type ActionSet struct {
	numFlowerTypes int
}

func NewActionSet(numFlowerTypes int) ActionSet {
	return ActionSet{numFlowerTypes: numFlowerTypes}
}

// Size is the total number of discrete actions.
func (s ActionSet) Size() int { return int(plantBase) + s.numFlowerTypes }

func (s ActionSet) NumFlowerTypes() int { return s.numFlowerTypes }

// Plant returns the PLANT action for a flower type.
func (s ActionSet) Plant(flowerType int) Action {
	return plantBase + Action(flowerType)
}

// PlantType reports whether a is a plant action and for which type.
func (s ActionSet) PlantType(a Action) (int, bool) {
	if a < plantBase || a >= Action(s.Size()) {
		return 0, false
	}
	return int(a - plantBase), true
}

// Contains reports whether a is within this action space.
func (s ActionSet) Contains(a Action) bool {
	return a >= 0 && int(a) < s.Size()
}

// IsMove reports whether a is one of the four directions.
func (s ActionSet) IsMove(a Action) bool {
	return a >= ActUp && a <= ActRight
}

func (s ActionSet) String(a Action) string {
	switch a {
	case ActUp:
		return "UP"
	case ActDown:
		return "DOWN"
	case ActLeft:
		return "LEFT"
	case ActRight:
		return "RIGHT"
	case ActHarvest:
		return "HARVEST"
	case ActWait:
		return "WAIT"
	}
	if t, ok := s.PlantType(a); ok {
		return fmt.Sprintf("PLANT_TYPE_%d", t)
	}
	return fmt.Sprintf("ACTION_%d", int(a))
}

// moveTarget is the cell one step from p in the direction of a move
// action. ok is false for non-move actions.
func moveTarget(p Position, a Action) (Position, bool) {
	switch a {
	case ActUp:
		return Position{Row: p.Row - 1, Col: p.Col}, true
	case ActDown:
		return Position{Row: p.Row + 1, Col: p.Col}, true
	case ActLeft:
		return Position{Row: p.Row, Col: p.Col - 1}, true
	case ActRight:
		return Position{Row: p.Row, Col: p.Col + 1}, true
	}
	return p, false
}
