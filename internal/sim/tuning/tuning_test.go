package tuning

import (
	"os"
	"path/filepath"
	"testing"

	"gardeners.ai/internal/sim/garden"
)

func TestLoad_PartialOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tuning.yaml")
	data := `
max_steps: 200
collisions: false
init:
  method: random
  width: 4
  height: 4
  agent_count: 1
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	tn, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if tn.MaxSteps != 200 {
		t.Fatalf("max_steps: want 200, got %d", tn.MaxSteps)
	}
	if tn.Collisions == nil || *tn.Collisions {
		t.Fatalf("collisions should be overridden to false")
	}
	if tn.MaxPollution != 100 || tn.StartPollution != 50 {
		t.Fatalf("unnamed fields must keep their defaults")
	}

	cfg, err := tn.EngineConfig(7)
	if err != nil {
		t.Fatalf("engine config: %v", err)
	}
	if cfg.Init != garden.InitRandom || cfg.Random.Width != 4 || cfg.CollisionsOn {
		t.Fatalf("config: %+v", cfg)
	}
	if cfg.Seed != 7 {
		t.Fatalf("seed: want 7, got %d", cfg.Seed)
	}
}

func TestEngineConfig_TextMethodReadsGridFile(t *testing.T) {
	dir := t.TempDir()
	gridPath := filepath.Join(dir, "test.grid")
	grid := "1 1\nA0\n0,0,1\n0,10,1\n"
	if err := os.WriteFile(gridPath, []byte(grid), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	tn := Defaults()
	tn.Init.Method = "text"
	tn.Init.GridFile = gridPath

	cfg, err := tn.EngineConfig(0)
	if err != nil {
		t.Fatalf("engine config: %v", err)
	}
	if cfg.Init != garden.InitText || cfg.GridText != grid {
		t.Fatalf("config: %+v", cfg)
	}

	tn.Init.GridFile = ""
	if _, err := tn.EngineConfig(0); err == nil {
		t.Fatalf("text method without grid_file must fail")
	}
}

func TestEngineConfig_UnknownMethod(t *testing.T) {
	tn := Defaults()
	tn.Init.Method = "voronoi"
	if _, err := tn.EngineConfig(0); err == nil {
		t.Fatalf("unknown init method must fail")
	}
}
