package orchestration

import (
	"testing"

	"github.com/agbru/mandelcalc/internal/render"
)

func TestGetStrategiesToRun(t *testing.T) {
	t.Parallel()
	factory := render.NewDefaultFactory()

	t.Run("Single strategy", func(t *testing.T) {
		t.Parallel()
		got := GetStrategiesToRun("locked", factory)
		if len(got) != 1 || got[0].Name() != "locked" {
			t.Errorf("got %v", got)
		}
	})

	t.Run("All strategies in name order", func(t *testing.T) {
		t.Parallel()
		got := GetStrategiesToRun("all", factory)
		if len(got) != 3 {
			t.Fatalf("expected 3 strategies, got %d", len(got))
		}
		if got[0].Name() != "chunked" || got[2].Name() != "locked" {
			t.Errorf("unexpected order %s, %s, %s", got[0].Name(), got[1].Name(), got[2].Name())
		}
	})

	t.Run("Unknown strategy", func(t *testing.T) {
		t.Parallel()
		if got := GetStrategiesToRun("magic", factory); got != nil {
			t.Errorf("expected nil, got %v", got)
		}
	})
}
