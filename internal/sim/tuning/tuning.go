// Package tuning loads the server-side simulation parameters from
// tuning.yaml. The file is optional; Defaults covers every field.
package tuning

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"gardeners.ai/internal/sim/garden"
)

type Tuning struct {
	ProtocolVersion string `yaml:"protocol_version"`

	TickRateHz int `yaml:"tick_rate_hz"`
	MaxSteps   int `yaml:"max_steps"`

	MinPollution       float64 `yaml:"min_pollution"`
	MaxPollution       float64 `yaml:"max_pollution"`
	PollutionIncrement float64 `yaml:"pollution_increment"`
	StartPollution     float64 `yaml:"start_pollution"`

	// NumSeedsReturned accepts the policy sentinels -1, -2 and -3 in
	// addition to fixed non-negative grants.
	NumSeedsReturned int   `yaml:"num_seeds_returned"`
	Collisions       *bool `yaml:"collisions"`

	Init InitTuning `yaml:"init"`
}

type InitTuning struct {
	Method string `yaml:"method"` // random or text

	Width         int     `yaml:"width"`
	Height        int     `yaml:"height"`
	ObstacleRatio float64 `yaml:"obstacle_ratio"`
	WaterRatio    float64 `yaml:"water_ratio"`
	AgentCount    int     `yaml:"agent_count"`

	StartMoney float64 `yaml:"start_money"`
	StartSeeds int     `yaml:"start_seeds"`

	// GridFile points at a textual grid description for the text method.
	GridFile string `yaml:"grid_file"`
}

func Defaults() Tuning {
	collisions := true
	return Tuning{
		ProtocolVersion:    "1.0",
		TickRateHz:         10,
		MaxSteps:           1000,
		MinPollution:       0,
		MaxPollution:       100,
		PollutionIncrement: 1,
		StartPollution:     50,
		NumSeedsReturned:   1,
		Collisions:         &collisions,
		Init: InitTuning{
			Method:        "random",
			Width:         10,
			Height:        10,
			ObstacleRatio: 0.2,
			WaterRatio:    0,
			AgentCount:    2,
			StartMoney:    0,
			StartSeeds:    10,
		},
	}
}

// Load reads tuning.yaml over the defaults, so a partial file only
// overrides what it names.
func Load(path string) (Tuning, error) {
	t := Defaults()
	raw, err := os.ReadFile(path)
	if err != nil {
		return t, err
	}
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return t, fmt.Errorf("tuning.yaml: %w", err)
	}
	return t, nil
}

// EngineConfig translates the tuning into a simulation configuration.
// The textual grid description, when configured, is read from disk here.
func (t Tuning) EngineConfig(seed int64) (garden.Config, error) {
	cfg := garden.Config{
		MinPollution:       t.MinPollution,
		MaxPollution:       t.MaxPollution,
		PollutionIncrement: t.PollutionIncrement,
		StartPollution:     t.StartPollution,
		NumSeedsReturned:   t.NumSeedsReturned,
		CollisionsOn:       t.Collisions == nil || *t.Collisions,
		MaxSteps:           t.MaxSteps,
		StartMoney:         t.Init.StartMoney,
		StartSeeds:         t.Init.StartSeeds,
		Seed:               seed,
	}

	switch t.Init.Method {
	case "", "random":
		cfg.Init = garden.InitRandom
		cfg.Random = garden.RandomConfig{
			Width:         t.Init.Width,
			Height:        t.Init.Height,
			ObstacleRatio: t.Init.ObstacleRatio,
			WaterRatio:    t.Init.WaterRatio,
			AgentCount:    t.Init.AgentCount,
		}
	case "text":
		if t.Init.GridFile == "" {
			return cfg, fmt.Errorf("tuning: init.method text requires init.grid_file")
		}
		raw, err := os.ReadFile(t.Init.GridFile)
		if err != nil {
			return cfg, fmt.Errorf("tuning: grid file: %w", err)
		}
		cfg.Init = garden.InitText
		cfg.GridText = string(raw)
	default:
		return cfg, fmt.Errorf("tuning: unknown init.method %q", t.Init.Method)
	}

	return cfg, nil
}
