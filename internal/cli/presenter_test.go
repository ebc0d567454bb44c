package cli

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	apperrors "github.com/agbru/mandelcalc/internal/errors"
	"github.com/agbru/mandelcalc/internal/orchestration"
	"github.com/agbru/mandelcalc/internal/raster"
	"github.com/agbru/mandelcalc/internal/ui"
)

func init() {
	ui.InitTheme(true)
}

func TestPresentComparisonTable(t *testing.T) {
	t.Parallel()
	results := []orchestration.RenderResult{
		{Name: "locked", Duration: 1500 * time.Millisecond, Checksum: strings.Repeat("ab", 32)},
		{Name: "chunked", Err: errors.New("boom")},
	}
	var out strings.Builder
	CLIResultPresenter{}.PresentComparisonTable(results, &out)
	got := out.String()
	for _, want := range []string{"Strategy Comparison", "locked", "OK abababababab", "chunked", "Failed (boom)"} {
		if !strings.Contains(got, want) {
			t.Errorf("table missing %q:\n%s", want, got)
		}
	}
}

func TestPresentComparisonTable_SingleResultSkipped(t *testing.T) {
	t.Parallel()
	var out strings.Builder
	CLIResultPresenter{}.PresentComparisonTable([]orchestration.RenderResult{{Name: "locked"}}, &out)
	if out.Len() != 0 {
		t.Errorf("expected no table for a single result, got %q", out.String())
	}
}

func TestPresentResult(t *testing.T) {
	t.Parallel()
	result := orchestration.RenderResult{
		Name:     "disjoint",
		Buffer:   raster.New(80, 40),
		Checksum: "deadbeef",
		Duration: time.Second,
	}
	tests := []struct {
		name     string
		opts     orchestration.PresentationOptions
		contains []string
		absent   []string
	}{
		{
			name:     "plain",
			opts:     orchestration.PresentationOptions{Width: 80, Height: 40, Threads: 4},
			contains: []string{"Strategy:   disjoint", "80x40", "3,200 pixels", "3.2 kpx/s"},
			absent:   []string{"Threads:", "SHA-256"},
		},
		{
			name:     "verbose",
			opts:     orchestration.PresentationOptions{Width: 80, Height: 40, Threads: 4, Verbose: true},
			contains: []string{"Threads:    4 (20 columns per band)"},
		},
		{
			name:     "details",
			opts:     orchestration.PresentationOptions{Width: 80, Height: 40, Threads: 4, Details: true},
			contains: []string{"SHA-256:    deadbeef", "Memory Stats", "GC cycles"},
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var out strings.Builder
			CLIResultPresenter{}.PresentResult(result, tt.opts, &out)
			got := out.String()
			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("output missing %q:\n%s", want, got)
				}
			}
			for _, unwanted := range tt.absent {
				if strings.Contains(got, unwanted) {
					t.Errorf("output should not contain %q:\n%s", unwanted, got)
				}
			}
		})
	}
}

func TestHandleError(t *testing.T) {
	t.Parallel()
	var out strings.Builder
	code := CLIResultPresenter{}.HandleError(context.DeadlineExceeded, 3*time.Second, &out)
	if code != apperrors.ExitErrorTimeout {
		t.Errorf("exit code = %d", code)
	}
	if out.Len() == 0 {
		t.Error("expected an error message")
	}
}

func TestShortChecksum(t *testing.T) {
	t.Parallel()
	if got := shortChecksum("0123456789abcdef"); got != "0123456789ab" {
		t.Errorf("shortChecksum = %q", got)
	}
	if got := shortChecksum("abc"); got != "abc" {
		t.Errorf("shortChecksum = %q", got)
	}
}
