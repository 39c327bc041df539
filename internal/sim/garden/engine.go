package garden

import (
	"fmt"
	"math/rand"
	"sort"

	"gardeners.ai/internal/sim/catalogs"
)

// Seed-return policy sentinels for Config.NumSeedsReturned. Any
// non-negative value grants exactly that many seeds per harvest.
const (
	SeedsDisabled        = -1 // no seeds granted on harvest
	SeedsDrawnAtReset    = -2 // one value drawn per episode
	SeedsDrawnPerHarvest = -3 // redrawn on every harvest
)

type InitMode string

const (
	InitRandom   InitMode = "random"
	InitText     InitMode = "text"
	InitDeclared InitMode = "declared"
)

// Config fixes one simulation session. Zero values are not defaulted
// magically; use DefaultConfig as the starting point.
type Config struct {
	MinPollution       float64
	MaxPollution       float64
	PollutionIncrement float64
	StartPollution     float64

	NumSeedsReturned int
	CollisionsOn     bool
	MaxSteps         int

	// Starting inventory for agents created without an explicit one.
	StartMoney float64
	StartSeeds int

	Seed int64

	Init     InitMode
	Random   RandomConfig
	GridText string    // textual grid description for InitText
	Spec     *GridSpec // declarative layout for InitDeclared
}

// DefaultConfig mirrors the historical defaults of the simulation.
func DefaultConfig() Config {
	return Config{
		MinPollution:       0,
		MaxPollution:       100,
		PollutionIncrement: 1,
		StartPollution:     50,
		NumSeedsReturned:   1,
		CollisionsOn:       true,
		MaxSteps:           1000,
		StartMoney:         0,
		StartSeeds:         10,
		Init:               InitRandom,
		Random: RandomConfig{
			Width:         10,
			Height:        10,
			ObstacleRatio: 0.2,
			AgentCount:    2,
		},
	}
}

func (c *Config) validate() error {
	if c.MaxPollution <= c.MinPollution {
		return fmt.Errorf("config: max_pollution (%v) must exceed min_pollution (%v)", c.MaxPollution, c.MinPollution)
	}
	if c.StartPollution < c.MinPollution || c.StartPollution > c.MaxPollution {
		return fmt.Errorf("config: start_pollution %v outside [%v,%v]", c.StartPollution, c.MinPollution, c.MaxPollution)
	}
	if c.PollutionIncrement < 0 {
		return fmt.Errorf("config: negative pollution_increment")
	}
	if c.NumSeedsReturned < SeedsDrawnPerHarvest {
		return fmt.Errorf("config: unknown seed-return policy %d", c.NumSeedsReturned)
	}
	if c.MaxSteps <= 0 {
		return fmt.Errorf("config: max_steps must be positive")
	}
	switch c.Init {
	case InitRandom, InitText, InitDeclared:
	default:
		return fmt.Errorf("config: unknown init mode %q", c.Init)
	}
	return nil
}

// StepLogger receives one entry per completed step. Implementations live
// in internal/persistence; nil disables logging.
type StepLogger interface {
	WriteStep(entry StepLogEntry) error
}

type StepLogEntry struct {
	Episode uint64          `json:"episode"`
	Step    uint64          `json:"step"`
	Actions map[int]int     `json:"actions,omitempty"`
	Rewards map[int]float64 `json:"rewards,omitempty"`
	Digest  string          `json:"digest"`
}

// StepInfo is the per-step metadata returned alongside rewards.
type StepInfo struct {
	Step             uint64      `json:"step"`
	Truncated        bool        `json:"truncated"`
	AveragePollution float64     `json:"average_pollution"`
	Flowers          map[int]int `json:"flowers"`
}

// Engine is a single-threaded simulation session: callers collect one
// action per agent and hand the whole batch to ApplyActions. All state is
// owned by the engine and must be accessed from one goroutine.
type Engine struct {
	cfg     Config
	catalog *catalogs.FlowerCatalog

	actions ActionSet
	calc    *Calculator

	grid       *Grid
	agents     map[int]*Agent
	agentOrder []int

	rng             *rand.Rand
	seedsPerHarvest int

	episode uint64
	step    uint64
	seed    int64

	stepLogger StepLogger
}

// New validates the configuration and starts the first episode with
// cfg.Seed. catalog may be nil for InitText, where the textual grid
// carries its own flower definitions.
func New(cfg Config, catalog *catalogs.FlowerCatalog) (*Engine, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if catalog == nil && cfg.Init != InitText {
		return nil, fmt.Errorf("config: flower catalog is required for %s init", cfg.Init)
	}
	e := &Engine{cfg: cfg, catalog: catalog}
	if _, _, err := e.Reset(cfg.Seed); err != nil {
		return nil, err
	}
	return e, nil
}

// Reset discards all episode state and builds a fresh grid and agent set
// from the configured initialization strategy. The same seed always
// produces the same episode.
func (e *Engine) Reset(seed int64) (*Grid, []*Agent, error) {
	rng := rand.New(rand.NewSource(seed))

	var (
		grid   *Grid
		agents []*Agent
		err    error
	)
	switch e.cfg.Init {
	case InitRandom:
		grid, agents, err = NewRandomGrid(e.cfg, e.catalog, rng)
	case InitText:
		grid, agents, err = ParseGrid(e.cfg.GridText, e.cfg)
	case InitDeclared:
		grid, agents, err = NewDeclaredGrid(e.cfg.Spec, e.cfg, e.catalog)
	default:
		err = fmt.Errorf("unknown init mode %q", e.cfg.Init)
	}
	if err != nil {
		return nil, nil, err
	}

	e.rng = rng
	e.seed = seed
	e.grid = grid
	e.agents = make(map[int]*Agent, len(agents))
	e.agentOrder = e.agentOrder[:0]
	for _, a := range agents {
		e.agents[a.ID] = a
		e.agentOrder = append(e.agentOrder, a.ID)
	}
	sort.Ints(e.agentOrder)

	e.actions = NewActionSet(grid.catalog.NumTypes())
	e.calc = NewCalculator(e.actions)
	e.step = 0
	e.episode++

	e.seedsPerHarvest = e.cfg.NumSeedsReturned
	if e.cfg.NumSeedsReturned == SeedsDrawnAtReset {
		e.seedsPerHarvest = rng.Intn(5)
	}

	return grid, agents, nil
}

// seedsReturned resolves the seed-return policy for one harvest.
func (e *Engine) seedsReturned() (n int, granted bool) {
	switch e.cfg.NumSeedsReturned {
	case SeedsDisabled:
		return 0, false
	case SeedsDrawnPerHarvest:
		return 1 + e.rng.Intn(4), true
	default:
		return e.seedsPerHarvest, true
	}
}

// ApplyActions resolves one synchronous step: every agent's action is
// applied in ascending ID order, the dynamics advance, and rewards are
// computed against the pre-step snapshot. On an IllegalActionError the
// snapshot is restored, so the step never partially applies.
func (e *Engine) ApplyActions(actions map[int]Action) (map[int]Reward, StepInfo, error) {
	for id := range actions {
		if _, ok := e.agents[id]; !ok {
			return nil, StepInfo{}, fmt.Errorf("unknown agent id %d", id)
		}
	}

	before := e.snapshot()
	if err := e.applyAll(actions); err != nil {
		e.restore(before)
		return nil, StepInfo{}, err
	}

	e.grid.UpdateCells()

	after := &Snapshot{Grid: e.grid, Agents: e.agents}
	rewards := make(map[int]Reward, len(e.agentOrder))
	for _, id := range e.agentOrder {
		act, ok := actions[id]
		if !ok {
			act = ActWait
		}
		rewards[id] = e.calc.Compute(before, after, id, act)
	}

	e.step++
	info := StepInfo{
		Step:             e.step,
		Truncated:        e.step >= uint64(e.cfg.MaxSteps),
		AveragePollution: e.grid.AveragePollution(),
		Flowers:          e.grid.FlowerCount(),
	}

	if e.stepLogger != nil {
		entry := StepLogEntry{
			Episode: e.episode,
			Step:    e.step,
			Actions: make(map[int]int, len(actions)),
			Rewards: make(map[int]float64, len(rewards)),
			Digest:  e.StateDigest(),
		}
		for id, a := range actions {
			entry.Actions[id] = int(a)
		}
		for id, r := range rewards {
			entry.Rewards[id] = r.Total
		}
		_ = e.stepLogger.WriteStep(entry)
	}

	return rewards, info, nil
}

// ActionMask returns the legality vector for one agent against the
// current state.
func (e *Engine) ActionMask(agentID int) ([]bool, error) {
	a, ok := e.agents[agentID]
	if !ok {
		return nil, fmt.Errorf("unknown agent id %d", agentID)
	}
	return ComputeMask(e.grid, a, e.actions), nil
}

// GetCell returns a read-only copy of the cell at p.
func (e *Engine) GetCell(p Position) (Cell, error) {
	c, err := e.grid.CellAt(p)
	if err != nil {
		return Cell{}, err
	}
	cp := *c
	if c.Flower != nil {
		f := *c.Flower
		cp.Flower = &f
	}
	return cp, nil
}

func (e *Engine) SetStepLogger(l StepLogger) { e.stepLogger = l }

// RegisterReward adds a reward component for the current episode.
func (e *Engine) RegisterReward(rc RewardComponent) { e.calc.Register(rc) }

func (e *Engine) Grid() *Grid                       { return e.grid }
func (e *Engine) Catalog() *catalogs.FlowerCatalog  { return e.grid.catalog }
func (e *Engine) Actions() ActionSet                { return e.actions }
func (e *Engine) Width() int                        { return e.grid.Width }
func (e *Engine) Height() int                       { return e.grid.Height }
func (e *Engine) PollutionBounds() (min, max float64) {
	return e.grid.MinPollution, e.grid.MaxPollution
}
func (e *Engine) Step() uint64    { return e.step }
func (e *Engine) Episode() uint64 { return e.episode }
func (e *Engine) Seed() int64     { return e.seed }
func (e *Engine) MaxSteps() int   { return e.cfg.MaxSteps }

// Agent returns the live agent with the given ID.
func (e *Engine) Agent(id int) (*Agent, bool) {
	a, ok := e.agents[id]
	return a, ok
}

// Agents returns the agents in ascending ID order.
func (e *Engine) Agents() []*Agent {
	out := make([]*Agent, 0, len(e.agentOrder))
	for _, id := range e.agentOrder {
		out = append(out, e.agents[id])
	}
	return out
}
