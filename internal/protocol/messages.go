package protocol

// HELLO (client -> server)
type HelloMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	ClientName      string `json:"client_name"`
}

// WELCOME (server -> client)
type WelcomeMsg struct {
	Type            string        `json:"type"`
	ProtocolVersion string        `json:"protocol_version"`
	SessionID       string        `json:"session_id"`
	SessionParams   SessionParams `json:"session_params"`
	Catalog         CatalogRef    `json:"catalog"`
}

type SessionParams struct {
	TickRateHz      int     `json:"tick_rate_hz"`
	Width           int     `json:"width"`
	Height          int     `json:"height"`
	NumAgents       int     `json:"num_agents"`
	ActionSpaceSize int     `json:"action_space_size"`
	MaxSteps        int     `json:"max_steps"`
	MinPollution    float64 `json:"min_pollution"`
	MaxPollution    float64 `json:"max_pollution"`
	Seed            int64   `json:"seed"`
}

type CatalogRef struct {
	Digest string `json:"digest"`
	Count  int    `json:"count"`
}

// RESET (client -> server): start a new episode. A zero seed reuses the
// session seed.
type ResetMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	Seed            int64  `json:"seed,omitempty"`
	// Grid optionally replaces the configured layout with a textual
	// description for the rest of the session.
	Grid string `json:"grid,omitempty"`
}

// OBS (server -> client): full state after a reset or step. Agent IDs are
// decimal strings in the mask map; JSON objects cannot carry int keys.
type ObsMsg struct {
	Type            string            `json:"type"`
	ProtocolVersion string            `json:"protocol_version"`
	Episode         uint64            `json:"episode"`
	Step            uint64            `json:"step"`
	State           State             `json:"state"`
	Masks           map[string][]bool `json:"masks"`
}

// ACT (client -> server): one action per agent for the next step.
type ActMsg struct {
	Type            string         `json:"type"`
	ProtocolVersion string         `json:"protocol_version"`
	Step            uint64         `json:"step"`
	Actions         map[string]int `json:"actions"`
}

// STEP (server -> client): the outcome of one applied action batch. The
// matching OBS follows immediately.
type StepMsg struct {
	Type            string                     `json:"type"`
	ProtocolVersion string                     `json:"protocol_version"`
	Step            uint64                     `json:"step"`
	Rewards         map[string]RewardBreakdown `json:"rewards"`
	Truncated       bool                       `json:"truncated"`
	Info            StepInfo                   `json:"info"`
}

type RewardBreakdown struct {
	Components map[string]float64 `json:"components"`
	Total      float64            `json:"total"`
}

type StepInfo struct {
	AveragePollution float64        `json:"average_pollution"`
	Flowers          map[string]int `json:"flowers,omitempty"`
}

// ERROR (server -> client)
type ErrorMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	Code            string `json:"code"`
	Message         string `json:"message"`
}

// State is the full grid and agent snapshot carried by OBS.
type State struct {
	Width            int          `json:"width"`
	Height           int          `json:"height"`
	AveragePollution float64      `json:"average_pollution"`
	Cells            []CellState  `json:"cells"`
	Agents           []AgentState `json:"agents"`
}

// CellState is one grid square in row-major order. Pollution is omitted
// for non-ground cells.
type CellState struct {
	Row       int          `json:"row"`
	Col       int          `json:"col"`
	Type      string       `json:"cell_type"`
	Pollution float64      `json:"pollution"`
	Flower    *FlowerState `json:"flower,omitempty"`
}

type FlowerState struct {
	Type  int `json:"flower_type"`
	Owner int `json:"owner"`
	Stage int `json:"stage"`
}

type AgentState struct {
	ID                 int     `json:"id"`
	Row                int     `json:"row"`
	Col                int     `json:"col"`
	Money              float64 `json:"money"`
	Seeds              []int   `json:"seeds"`
	FlowersPlanted     []int   `json:"flowers_planted"`
	FlowersHarvested   []int   `json:"flowers_harvested"`
	TurnsWithoutIncome int     `json:"turns_without_income"`
}
