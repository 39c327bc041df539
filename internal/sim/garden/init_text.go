package garden

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"gardeners.ai/internal/sim/catalogs"
)

// ParseGrid parses the textual grid format:
//
//	width height
//	<height rows of space-separated cell tokens>
//	<one line per agent:        id,money,seeds0|seeds1|...>
//	<one line per flower type:  type,price,reduction0|reduction1|...>
//
// Cell tokens are G (ground), O (obstacle), W (water), A<id> (ground with
// agent) and F<type>_<owner>_<stage> (ground with flower). Parsing is
// strict: unknown tokens, bad counts and dangling references fail with
// ParseError; a row or column count disagreeing with the declared
// dimensions fails with DimensionMismatchError.
func ParseGrid(description string, cfg Config) (*Grid, []*Agent, error) {
	lines := strings.Split(strings.ReplaceAll(description, "\r\n", "\n"), "\n")
	if len(lines) == 0 || strings.TrimSpace(lines[0]) == "" {
		return nil, nil, &ParseError{Line: 1, Msg: "missing width/height header"}
	}

	header := strings.Fields(lines[0])
	if len(header) != 2 {
		return nil, nil, &ParseError{Line: 1, Msg: "header must be: width height"}
	}
	width, err1 := strconv.Atoi(header[0])
	height, err2 := strconv.Atoi(header[1])
	if err1 != nil || err2 != nil || width <= 0 || height <= 0 {
		return nil, nil, &ParseError{Line: 1, Msg: "width and height must be positive integers"}
	}

	type flowerRef struct {
		typ, owner, stage int
	}

	cellTypes := make([]CellType, width*height)
	agentPos := map[int]Position{}
	flowerCells := map[Position]flowerRef{}

	if len(lines) < 1+height {
		return nil, nil, &DimensionMismatchError{Line: len(lines), Axis: "height", Want: height, Got: len(lines) - 1}
	}
	for row := 0; row < height; row++ {
		lineNo := row + 2
		tokens := strings.Fields(lines[row+1])
		if len(tokens) != width {
			return nil, nil, &DimensionMismatchError{Line: lineNo, Axis: "width", Want: width, Got: len(tokens)}
		}
		for col, tok := range tokens {
			pos := Position{Row: row, Col: col}
			switch {
			case tok == "G":
				cellTypes[row*width+col] = CellGround
			case tok == "O":
				cellTypes[row*width+col] = CellObstacle
			case tok == "W":
				cellTypes[row*width+col] = CellWater
			case strings.HasPrefix(tok, "A"):
				id, err := strconv.Atoi(tok[1:])
				if err != nil || id < 0 {
					return nil, nil, &ParseError{Line: lineNo, Msg: fmt.Sprintf("bad agent token %q", tok)}
				}
				if _, dup := agentPos[id]; dup {
					return nil, nil, &ParseError{Line: lineNo, Msg: fmt.Sprintf("agent %d appears twice", id)}
				}
				cellTypes[row*width+col] = CellGround
				agentPos[id] = pos
			case strings.HasPrefix(tok, "F"):
				parts := strings.Split(tok[1:], "_")
				if len(parts) != 3 {
					return nil, nil, &ParseError{Line: lineNo, Msg: fmt.Sprintf("flower token %q must be F<type>_<owner>_<stage>", tok)}
				}
				typ, errT := strconv.Atoi(parts[0])
				owner, errO := strconv.Atoi(parts[1])
				stage, errS := strconv.Atoi(parts[2])
				if errT != nil || errO != nil || errS != nil || typ < 0 || owner < 0 || stage < 0 {
					return nil, nil, &ParseError{Line: lineNo, Msg: fmt.Sprintf("bad flower token %q", tok)}
				}
				cellTypes[row*width+col] = CellGround
				flowerCells[pos] = flowerRef{typ: typ, owner: owner, stage: stage}
			default:
				return nil, nil, &ParseError{Line: lineNo, Msg: fmt.Sprintf("unknown cell code %q", tok)}
			}
		}
	}

	// Remaining non-blank lines: one per agent, then one per flower type.
	type numberedLine struct {
		no   int
		text string
	}
	var tail []numberedLine
	for i := 1 + height; i < len(lines); i++ {
		if s := strings.TrimSpace(lines[i]); s != "" {
			tail = append(tail, numberedLine{no: i + 1, text: s})
		}
	}
	if len(tail) < len(agentPos) {
		return nil, nil, &ParseError{Line: len(lines), Msg: fmt.Sprintf("%d agents on the grid but only %d definition lines", len(agentPos), len(tail))}
	}

	type agentDef struct {
		money float64
		seeds []int
	}
	agentDefs := map[int]agentDef{}
	for _, ln := range tail[:len(agentPos)] {
		parts := strings.Split(ln.text, ",")
		if len(parts) != 3 {
			return nil, nil, &ParseError{Line: ln.no, Msg: "agent line must be: id,money,seeds"}
		}
		id, err := strconv.Atoi(parts[0])
		if err != nil {
			return nil, nil, &ParseError{Line: ln.no, Msg: fmt.Sprintf("bad agent id %q", parts[0])}
		}
		if _, onGrid := agentPos[id]; !onGrid {
			return nil, nil, &ParseError{Line: ln.no, Msg: fmt.Sprintf("agent %d is not on the grid", id)}
		}
		if _, dup := agentDefs[id]; dup {
			return nil, nil, &ParseError{Line: ln.no, Msg: fmt.Sprintf("agent %d defined twice", id)}
		}
		money, err := strconv.ParseFloat(parts[1], 64)
		if err != nil {
			return nil, nil, &ParseError{Line: ln.no, Msg: fmt.Sprintf("bad money value %q", parts[1])}
		}
		var seeds []int
		for _, s := range strings.Split(parts[2], "|") {
			n, err := strconv.Atoi(s)
			if err != nil || n < InfiniteSeeds {
				return nil, nil, &ParseError{Line: ln.no, Msg: fmt.Sprintf("bad seed count %q", s)}
			}
			seeds = append(seeds, n)
		}
		agentDefs[id] = agentDef{money: money, seeds: seeds}
	}

	var defs []catalogs.FlowerDef
	for _, ln := range tail[len(agentPos):] {
		parts := strings.Split(ln.text, ",")
		if len(parts) != 3 {
			return nil, nil, &ParseError{Line: ln.no, Msg: "flower type line must be: type,price,reductions"}
		}
		typ, errT := strconv.Atoi(parts[0])
		price, errP := strconv.ParseFloat(parts[1], 64)
		if errT != nil || errP != nil {
			return nil, nil, &ParseError{Line: ln.no, Msg: "bad flower type or price"}
		}
		var reductions []float64
		for _, s := range strings.Split(parts[2], "|") {
			r, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return nil, nil, &ParseError{Line: ln.no, Msg: fmt.Sprintf("bad pollution reduction %q", s)}
			}
			reductions = append(reductions, r)
		}
		defs = append(defs, catalogs.FlowerDef{ID: typ, Price: price, PollutionReduction: reductions})
	}
	catalog, err := catalogs.FromDefs(defs)
	if err != nil {
		return nil, nil, &ParseError{Line: len(lines), Msg: err.Error()}
	}
	numTypes := catalog.NumTypes()

	for id, def := range agentDefs {
		if len(def.seeds) != numTypes {
			return nil, nil, &ParseError{Msg: fmt.Sprintf("agent %d: %d seed counts for %d flower types", id, len(def.seeds), numTypes)}
		}
	}
	for pos, ref := range flowerCells {
		def, ok := catalog.Def(ref.typ)
		if !ok {
			return nil, nil, &ParseError{Msg: fmt.Sprintf("flower at (%d,%d) references unknown type %d", pos.Row, pos.Col, ref.typ)}
		}
		if _, ok := agentPos[ref.owner]; !ok {
			return nil, nil, &ParseError{Msg: fmt.Sprintf("flower at (%d,%d) references unknown agent %d", pos.Row, pos.Col, ref.owner)}
		}
		if ref.stage > def.MaxStage() {
			return nil, nil, &ParseError{Msg: fmt.Sprintf("flower at (%d,%d): stage %d outside [0,%d]", pos.Row, pos.Col, ref.stage, def.MaxStage())}
		}
	}

	g := NewGrid(width, height, cfg.MinPollution, cfg.MaxPollution,
		cfg.PollutionIncrement, cfg.StartPollution, cfg.CollisionsOn, catalog)
	for i, t := range cellTypes {
		if t != CellGround {
			_ = g.SetCellType(Position{Row: i / width, Col: i % width}, t, 0)
		}
	}
	for pos, ref := range flowerCells {
		g.cellAt(pos).Flower = &Flower{Type: ref.typ, Owner: ref.owner, Stage: ref.stage}
	}

	ids := make([]int, 0, len(agentDefs))
	for id := range agentDefs {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	agents := make([]*Agent, 0, len(ids))
	for _, id := range ids {
		def := agentDefs[id]
		seeds := make(map[int]int, numTypes)
		for t, n := range def.seeds {
			seeds[t] = n
		}
		a := NewAgent(id, agentPos[id], def.money, seeds, numTypes)
		g.cellAt(a.Pos).AgentID = a.ID
		agents = append(agents, a)
	}

	return g, agents, nil
}
