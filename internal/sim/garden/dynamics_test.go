package garden

import (
	"math"
	"testing"
)

func TestUpdateCells_EmptyGroundAccumulates(t *testing.T) {
	cat := singleTypeCatalog(t)
	g := NewGrid(2, 2, 0, 100, 1, 99.5, true, cat)

	g.UpdateCells()
	c, _ := g.CellAt(Position{Row: 0, Col: 0})
	if c.Pollution != 100 {
		t.Fatalf("pollution must cap at the maximum, got %v", c.Pollution)
	}

	g.UpdateCells()
	if c.Pollution != 100 {
		t.Fatalf("pollution must stay at the maximum, got %v", c.Pollution)
	}
}

func TestUpdateCells_FlowerReducesThenGrows(t *testing.T) {
	cat := singleTypeCatalog(t) // reductions 0, 0, 5
	g := NewGrid(1, 1, 0, 100, 1, 3, true, cat)
	cell := g.cellAt(Position{})
	cell.Flower = &Flower{Type: 0, Owner: 0, Stage: 0}

	g.UpdateCells()
	if cell.Pollution != 3 || cell.Flower.Stage != 1 {
		t.Fatalf("after step 1: pollution %v stage %d", cell.Pollution, cell.Flower.Stage)
	}

	g.UpdateCells()
	if cell.Pollution != 3 || cell.Flower.Stage != 2 {
		t.Fatalf("after step 2: pollution %v stage %d", cell.Pollution, cell.Flower.Stage)
	}

	// Final stage: full reduction applies, floored at the minimum, and
	// the stage stops advancing.
	g.UpdateCells()
	if cell.Pollution != 0 {
		t.Fatalf("pollution must floor at the minimum, got %v", cell.Pollution)
	}
	if cell.Flower.Stage != 2 {
		t.Fatalf("stage must not exceed the final stage, got %d", cell.Flower.Stage)
	}
}

func TestUpdateCells_SkipsNonGround(t *testing.T) {
	cat := singleTypeCatalog(t)
	g := NewGrid(3, 1, 0, 100, 1, 50, true, cat)
	_ = g.SetCellType(Position{Row: 0, Col: 0}, CellObstacle, 0)
	_ = g.SetCellType(Position{Row: 0, Col: 1}, CellWater, 0)

	g.UpdateCells()

	for col := 0; col < 2; col++ {
		c, _ := g.CellAt(Position{Row: 0, Col: col})
		if c.Pollution != 0 {
			t.Fatalf("non-ground cell %d must carry no pollution, got %v", col, c.Pollution)
		}
	}
	c, _ := g.CellAt(Position{Row: 0, Col: 2})
	if c.Pollution != 51 {
		t.Fatalf("ground cell: want 51, got %v", c.Pollution)
	}

	// Non-ground cells are excluded from the average.
	if got := g.AveragePollution(); math.Abs(got-51) > 1e-9 {
		t.Fatalf("average over ground cells: want 51, got %v", got)
	}
}
