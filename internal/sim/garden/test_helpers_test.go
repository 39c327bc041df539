package garden

import (
	"testing"

	"gardeners.ai/internal/sim/catalogs"
)

// singleTypeCatalog has one price-10 type with three growth stages
// (reductions 0, 0, 5), so plant + one wait reaches the final stage.
func singleTypeCatalog(t *testing.T) *catalogs.FlowerCatalog {
	t.Helper()
	c, err := catalogs.FromDefs([]catalogs.FlowerDef{
		{ID: 0, Name: "rose", Price: 10, PollutionReduction: []float64{0, 0, 5}},
	})
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	return c
}

// declaredEngine builds an engine over an explicit layout.
func declaredEngine(t *testing.T, cfg Config, spec *GridSpec, cat *catalogs.FlowerCatalog) *Engine {
	t.Helper()
	cfg.Init = InitDeclared
	cfg.Spec = spec
	e, err := New(cfg, cat)
	if err != nil {
		t.Fatalf("engine: %v", err)
	}
	return e
}

func mustAgent(t *testing.T, e *Engine, id int) *Agent {
	t.Helper()
	a, ok := e.Agent(id)
	if !ok {
		t.Fatalf("missing agent %d", id)
	}
	return a
}

func mustStep(t *testing.T, e *Engine, actions map[int]Action) (map[int]Reward, StepInfo) {
	t.Helper()
	rewards, info, err := e.ApplyActions(actions)
	if err != nil {
		t.Fatalf("step %d: %v", e.Step(), err)
	}
	return rewards, info
}
