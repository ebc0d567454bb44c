package orchestration

import (
	"github.com/agbru/mandelcalc/internal/render"
)

// GetStrategiesToRun resolves a -strategy value. "all" returns every
// registered strategy in name order; an unknown name returns nil.
//
// Parameters:
//   - name: The strategy name, or "all".
//   - factory: The registry to resolve names from.
//
// Returns:
//   - []render.Strategy: The strategies to run.
func GetStrategiesToRun(name string, factory *render.Factory) []render.Strategy {
	if name == render.StrategyAll {
		return factory.GetAll()
	}
	if s, err := factory.Get(name); err == nil {
		return []render.Strategy{s}
	}
	return nil
}
