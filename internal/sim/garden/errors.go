package garden

import "fmt"

// OutOfBoundsError is returned by spatial queries outside the grid.
type OutOfBoundsError struct {
	Pos Position
}

func (e *OutOfBoundsError) Error() string {
	return fmt.Sprintf("position (%d,%d) is outside the grid", e.Pos.Row, e.Pos.Col)
}

// ParseError reports malformed textual or declarative grid input. Line is
// 1-based for textual input and 0 for declarative input.
type ParseError struct {
	Line int
	Msg  string
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("grid parse: line %d: %s", e.Line, e.Msg)
	}
	return "grid spec: " + e.Msg
}

// DimensionMismatchError reports a declared width/height that disagrees
// with the actual row or column count of a textual grid.
type DimensionMismatchError struct {
	Line int
	Want int
	Got  int
	Axis string // "width" or "height"
}

func (e *DimensionMismatchError) Error() string {
	return fmt.Sprintf("grid parse: line %d: declared %s %d but found %d", e.Line, e.Axis, e.Want, e.Got)
}

// InsufficientSpaceError is returned when random initialization cannot
// place the requested obstacles, water and agents on distinct cells.
type InsufficientSpaceError struct {
	Requested int
	Available int
}

func (e *InsufficientSpaceError) Error() string {
	return fmt.Sprintf("random init: %d placements requested but only %d cells available", e.Requested, e.Available)
}

// IllegalActionError is returned when an action violating its
// preconditions is applied with masking bypassed. The step it belongs to
// is rolled back as a whole.
type IllegalActionError struct {
	AgentID int
	Action  Action
	Reason  string
}

func (e *IllegalActionError) Error() string {
	return fmt.Sprintf("agent %d: illegal action %d: %s", e.AgentID, int(e.Action), e.Reason)
}
