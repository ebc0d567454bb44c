package app

import (
	"bytes"
	"context"
	"net"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/agbru/mandelcalc/internal/bmp"
	apperrors "github.com/agbru/mandelcalc/internal/errors"
	"github.com/agbru/mandelcalc/internal/logging"
	"github.com/agbru/mandelcalc/internal/raster"
)

// smallArgs renders a 40x20 image with 4 bands into dir.
func smallArgs(dir string, extra ...string) []string {
	args := []string{"mandelcalc", "-width", "40", "-height", "20", "-threads", "4", "-iter", "50",
		"-no-color", "-o", filepath.Join(dir, "out.bmp")}
	return append(args, extra...)
}

func newTestApp(t *testing.T, args []string) (*Application, *bytes.Buffer) {
	t.Helper()
	var stderr bytes.Buffer
	app, err := New(args, &stderr, WithLogger(logging.Nop()))
	if err != nil {
		t.Fatalf("New: %v (stderr: %s)", err, stderr.String())
	}
	return app, &stderr
}

func TestNew(t *testing.T) {
	app, _ := newTestApp(t, smallArgs(t.TempDir(), "-strategy", "disjoint"))
	if app.Config.Width != 40 || app.Config.Threads != 4 || app.Config.Strategy != "disjoint" {
		t.Errorf("unexpected config %+v", app.Config)
	}
	if app.Factory == nil || len(app.Factory.List()) != 3 {
		t.Error("expected the default factory")
	}
}

func TestNew_Errors(t *testing.T) {
	var stderr bytes.Buffer
	_, err := New([]string{"mandelcalc", "-h"}, &stderr)
	if !IsHelpError(err) {
		t.Errorf("expected help error, got %v", err)
	}

	_, err = New([]string{"mandelcalc", "-width", "10", "-threads", "3"}, &stderr)
	if err == nil || IsHelpError(err) {
		t.Fatalf("expected a configuration error, got %v", err)
	}
	if apperrors.ExitCodeFor(err) != apperrors.ExitErrorConfig {
		t.Errorf("exit code = %d", apperrors.ExitCodeFor(err))
	}
}

func TestRun_WritesBitmap(t *testing.T) {
	dir := t.TempDir()
	app, stderr := newTestApp(t, smallArgs(dir))

	var out bytes.Buffer
	if code := app.Run(context.Background(), &out); code != apperrors.ExitSuccess {
		t.Fatalf("exit code = %d, stderr: %s", code, stderr.String())
	}
	data, err := os.ReadFile(filepath.Join(dir, "out.bmp"))
	if err != nil {
		t.Fatal(err)
	}
	if len(data) != bmp.HeaderSize+raster.SizeOf(40, 20) {
		t.Errorf("file length = %d", len(data))
	}
	for _, want := range []string{"Render Configuration", "Image saved to:", "Render completed in"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output missing %q:\n%s", want, out.String())
		}
	}
}

func TestRun_Details(t *testing.T) {
	app, _ := newTestApp(t, smallArgs(t.TempDir(), "-d"))

	var out bytes.Buffer
	if code := app.Run(context.Background(), &out); code != apperrors.ExitSuccess {
		t.Fatalf("exit code = %d", code)
	}
	for _, want := range []string{"SHA-256:", "Render allocations:", "Memory Stats:"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output missing %q:\n%s", want, out.String())
		}
	}
}

func TestRun_Quiet(t *testing.T) {
	app, _ := newTestApp(t, smallArgs(t.TempDir(), "-q"))

	var out bytes.Buffer
	if code := app.Run(context.Background(), &out); code != apperrors.ExitSuccess {
		t.Fatalf("exit code = %d", code)
	}
	line := strings.TrimSpace(out.String())
	if strings.Contains(line, "\n") {
		t.Fatalf("quiet mode printed more than one line:\n%s", out.String())
	}
	if _, err := time.ParseDuration(line); err != nil {
		t.Errorf("quiet output %q is not a duration: %v", line, err)
	}
}

func TestRun_AllStrategies(t *testing.T) {
	app, _ := newTestApp(t, smallArgs(t.TempDir(), "-strategy", "all"))

	var out bytes.Buffer
	if code := app.Run(context.Background(), &out); code != apperrors.ExitSuccess {
		t.Fatalf("exit code = %d", code)
	}
	for _, name := range []string{"chunked", "disjoint", "locked"} {
		if !strings.Contains(out.String(), name) {
			t.Errorf("comparison is missing %q", name)
		}
	}
}

func TestRun_Timeout(t *testing.T) {
	dir := t.TempDir()
	app, _ := newTestApp(t, smallArgs(dir, "-timeout", "1ns"))

	var out bytes.Buffer
	if code := app.Run(context.Background(), &out); code != apperrors.ExitErrorTimeout {
		t.Fatalf("exit code = %d, want %d", code, apperrors.ExitErrorTimeout)
	}
	if !strings.Contains(out.String(), "Status: Timeout") {
		t.Errorf("output:\n%s", out.String())
	}
	if _, err := os.Stat(filepath.Join(dir, "out.bmp")); !os.IsNotExist(err) {
		t.Error("no bitmap should be written after a timeout")
	}
}

func TestRun_Canceled(t *testing.T) {
	app, _ := newTestApp(t, smallArgs(t.TempDir()))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if code := app.Run(ctx, &bytes.Buffer{}); code != apperrors.ExitErrorCanceled {
		t.Errorf("exit code = %d, want %d", code, apperrors.ExitErrorCanceled)
	}
}

func TestRun_MemoryLimit(t *testing.T) {
	dir := t.TempDir()
	app, stderr := newTestApp(t, smallArgs(dir, "-memory-limit", "1KB"))

	if code := app.Run(context.Background(), &bytes.Buffer{}); code != apperrors.ExitErrorConfig {
		t.Fatalf("exit code = %d, want %d", code, apperrors.ExitErrorConfig)
	}
	if !strings.Contains(stderr.String(), "requested 2400 bytes") {
		t.Errorf("stderr = %q", stderr.String())
	}
	if _, err := os.Stat(filepath.Join(dir, "out.bmp")); !os.IsNotExist(err) {
		t.Error("no bitmap should be written when the budget is exceeded")
	}
}

func TestRun_MemoryLimitCountsEveryStrategy(t *testing.T) {
	// 4KB holds one 40x20 buffer (2400 bytes) but not three.
	single, _ := newTestApp(t, smallArgs(t.TempDir(), "-q", "-memory-limit", "4KB"))
	if code := single.Run(context.Background(), &bytes.Buffer{}); code != apperrors.ExitSuccess {
		t.Fatalf("single strategy exit code = %d", code)
	}

	all, stderr := newTestApp(t, smallArgs(t.TempDir(), "-q", "-memory-limit", "4KB", "-strategy", "all"))
	if code := all.Run(context.Background(), &bytes.Buffer{}); code != apperrors.ExitErrorConfig {
		t.Fatalf("all strategies exit code = %d, want %d", code, apperrors.ExitErrorConfig)
	}
	if !strings.Contains(stderr.String(), "requested 7200 bytes") {
		t.Errorf("stderr = %q", stderr.String())
	}
}

func TestRun_MetricsFile(t *testing.T) {
	dir := t.TempDir()
	metricsPath := filepath.Join(dir, "mandelcalc.prom")
	app, _ := newTestApp(t, smallArgs(dir, "-q", "-metrics-file", metricsPath))

	if code := app.Run(context.Background(), &bytes.Buffer{}); code != apperrors.ExitSuccess {
		t.Fatalf("exit code = %d", code)
	}
	data, err := os.ReadFile(metricsPath)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `mandelcalc_pixels_total{strategy="locked"} 800`) {
		t.Errorf("metrics file:\n%s", data)
	}
}

func TestRun_MetricsServerBindError(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	defer ln.Close()
	app, _ := newTestApp(t, smallArgs(t.TempDir(), "-metrics-addr", ln.Addr().String()))

	if code := app.Run(context.Background(), &bytes.Buffer{}); code != apperrors.ExitErrorGeneric {
		t.Errorf("exit code = %d, want %d", code, apperrors.ExitErrorGeneric)
	}
}

func TestRun_UnwritableOutput(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	if err := os.WriteFile(blocker, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	app, stderr := newTestApp(t, smallArgs(dir, "-o", filepath.Join(blocker, "out.bmp")))

	if code := app.Run(context.Background(), &bytes.Buffer{}); code != apperrors.ExitErrorGeneric {
		t.Fatalf("exit code = %d, want %d", code, apperrors.ExitErrorGeneric)
	}
	if !strings.Contains(stderr.String(), "Error writing") {
		t.Errorf("stderr = %q", stderr.String())
	}
}

func TestRun_Inspect(t *testing.T) {
	path := filepath.Join(t.TempDir(), "in.bmp")
	if err := bmp.WriteFile(path, raster.New(6, 4)); err != nil {
		t.Fatal(err)
	}
	app, _ := newTestApp(t, []string{"mandelcalc", "-inspect", path})

	var out bytes.Buffer
	if code := app.Run(context.Background(), &out); code != apperrors.ExitSuccess {
		t.Fatalf("exit code = %d", code)
	}
	if !strings.Contains(out.String(), "Dimensions:    6x4") {
		t.Errorf("output:\n%s", out.String())
	}

	missing, stderr := newTestApp(t, []string{"mandelcalc", "-inspect", path + ".missing"})
	if code := missing.Run(context.Background(), &bytes.Buffer{}); code != apperrors.ExitErrorGeneric {
		t.Errorf("exit code for missing file = %d", code)
	}
	if !strings.Contains(stderr.String(), "Error inspecting") {
		t.Errorf("stderr = %q", stderr.String())
	}
}

func TestRun_Completion(t *testing.T) {
	app, _ := newTestApp(t, []string{"mandelcalc", "-completion", "bash"})
	var out bytes.Buffer
	if code := app.Run(context.Background(), &out); code != apperrors.ExitSuccess {
		t.Fatalf("exit code = %d", code)
	}
	for _, want := range []string{"-strategy", "seahorse", "locked"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("completion script missing %q", want)
		}
	}

	bad, _ := newTestApp(t, []string{"mandelcalc", "-completion", "tcsh"})
	if code := bad.Run(context.Background(), &bytes.Buffer{}); code != apperrors.ExitErrorConfig {
		t.Errorf("exit code for unsupported shell = %d", code)
	}
}

func TestRun_Calibrate(t *testing.T) {
	app, stderr := newTestApp(t, []string{"mandelcalc", "-calibrate", "-width", "24", "-height", "16",
		"-threads", "4", "-iter", "20", "-no-color", "-strategy", "all"})

	var out bytes.Buffer
	if code := app.Run(context.Background(), &out); code != apperrors.ExitSuccess {
		t.Fatalf("exit code = %d, stderr: %s", code, stderr.String())
	}
	if !strings.Contains(out.String(), "Recommended: -threads") {
		t.Errorf("output:\n%s", out.String())
	}
}

func TestVersion(t *testing.T) {
	t.Parallel()
	if !HasVersionFlag([]string{"-q", "--version"}) || !HasVersionFlag([]string{"-version"}) {
		t.Error("version flag not detected")
	}
	if HasVersionFlag([]string{"-v"}) {
		t.Error("-v is verbose, not version")
	}
	var out bytes.Buffer
	PrintVersion(&out)
	if !strings.HasPrefix(out.String(), "mandelcalc "+Version) || !strings.Contains(out.String(), "go version:") {
		t.Errorf("banner = %q", out.String())
	}
}
