package bridge

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func skipOnWindows(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("test spawns unix utilities")
	}
}

func TestSpawnEnvOverrideHasPriority(t *testing.T) {
	skipOnWindows(t)

	dir := t.TempDir()
	writeEntryPoint(t, dir)

	t.Setenv(OverrideEnv, "cat")

	// The entry point exists but the interpreter is unrunnable: if the
	// resolver honors priority, it never gets that far.
	r := NewResolver(SpawnOptions{
		ProjectDir:  dir,
		Interpreter: "definitely-missing-interpreter-xyz",
	})

	h, err := r.Spawn()
	if err != nil {
		t.Fatalf("expected env override spawn to succeed: %v", err)
	}
	defer h.terminate()

	if !strings.HasPrefix(h.Strategy, "env ") {
		t.Fatalf("expected the env override strategy, got %q", h.Strategy)
	}
	if h.PID <= 0 {
		t.Fatalf("expected a valid pid, got %d", h.PID)
	}
	if h.ID == "" {
		t.Fatal("expected a handle id")
	}
}

func TestSpawnFallsBackToEntryPoint(t *testing.T) {
	skipOnWindows(t)

	dir := t.TempDir()
	writeEntryPoint(t, dir)

	t.Setenv(OverrideEnv, "")

	// cat <entry> exits immediately, but spawn success is judged on process
	// creation alone.
	r := NewResolver(SpawnOptions{
		ProjectDir:  dir,
		Interpreter: "cat",
	})

	h, err := r.Spawn()
	if err != nil {
		t.Fatalf("expected entry point spawn to succeed: %v", err)
	}
	defer h.terminate()

	if !strings.Contains(h.Strategy, "entry point") {
		t.Fatalf("expected the entry point strategy, got %q", h.Strategy)
	}
}

func TestSpawnAllStrategiesExhausted(t *testing.T) {
	dir := t.TempDir()

	t.Setenv(OverrideEnv, "")

	r := NewResolver(SpawnOptions{
		ProjectDir:     dir,
		PackageManager: "definitely-missing-pm-xyz",
	})

	h, err := r.Spawn()
	if err == nil {
		h.terminate()
		t.Fatal("expected spawn to fail with no strategies available")
	}

	var spawnErr *SpawnError
	if !errors.As(err, &spawnErr) {
		t.Fatalf("expected *SpawnError, got %T (%v)", err, err)
	}
	if !strings.Contains(err.Error(), "all bridge launch strategies failed") {
		t.Fatalf("expected aggregated message, got %q", err.Error())
	}
	// Two entry point probes plus two dev task probes; the unset override is
	// not an attempt.
	if len(spawnErr.Attempts) != 4 {
		t.Fatalf("expected 4 recorded attempts, got %d: %v", len(spawnErr.Attempts), spawnErr.Attempts)
	}
}

func TestSpawnOverrideSplitsOnWhitespace(t *testing.T) {
	skipOnWindows(t)

	t.Setenv(OverrideEnv, "  sh   -c   sleep\t30  ")

	r := NewResolver(SpawnOptions{ProjectDir: t.TempDir()})
	h, err := r.Spawn()
	if err != nil {
		t.Fatalf("expected whitespace-split override to spawn: %v", err)
	}
	h.terminate()
}

func TestDevTaskCommand(t *testing.T) {
	program, args := devTaskCommand("npm", "dev")
	if runtime.GOOS == "windows" {
		if program != "cmd" || len(args) != 4 || args[0] != "/C" {
			t.Fatalf("expected cmd /C wrapping on windows, got %s %v", program, args)
		}
		return
	}
	if program != "npm" {
		t.Fatalf("expected direct invocation, got %s %v", program, args)
	}
	if len(args) != 2 || args[0] != "run" || args[1] != "dev" {
		t.Fatalf("unexpected dev task args: %v", args)
	}
}

func writeEntryPoint(t *testing.T, projectDir string) {
	t.Helper()
	entryDir := filepath.Join(projectDir, "bridge", "dist")
	if err := os.MkdirAll(entryDir, 0755); err != nil {
		t.Fatalf("failed to create entry dir: %v", err)
	}
	entry := filepath.Join(entryDir, "index.js")
	if err := os.WriteFile(entry, []byte("// built bridge entry\n"), 0644); err != nil {
		t.Fatalf("failed to write entry point: %v", err)
	}
}
