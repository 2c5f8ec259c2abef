package bridge

import (
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
)

// OverrideEnv is the environment variable that, when set, supplies the full
// bridge command line and short-circuits every other launch strategy. The
// value is split on whitespace; no quoting is supported.
const OverrideEnv = "GANGWAY_BRIDGE_CMD"

const (
	defaultSubproject     = "bridge"
	defaultEntryPoint     = "dist/index.js"
	defaultInterpreter    = "node"
	defaultPackageManager = "npm"
	defaultDevTask        = "dev"
)

// SpawnOptions configures how the resolver looks for the bridge. The zero
// value probes ./bridge and ../bridge relative to the current directory.
type SpawnOptions struct {
	// ProjectDir is the application directory containing the bridge
	// subproject. The sibling layout one level up is probed as well.
	ProjectDir string
	// EntryPoint is the built entry artifact, relative to the subproject dir.
	EntryPoint string
	// Interpreter runs the built entry point.
	Interpreter string
	// PackageManager runs the dev task when no build artifact exists.
	PackageManager string
	// DevTask is the package-manager script to run in dev mode.
	DevTask string
}

func (o *SpawnOptions) fillDefaults() {
	if o.ProjectDir == "" {
		o.ProjectDir = "."
	}
	if o.EntryPoint == "" {
		o.EntryPoint = defaultEntryPoint
	}
	if o.Interpreter == "" {
		o.Interpreter = defaultInterpreter
	}
	if o.PackageManager == "" {
		o.PackageManager = defaultPackageManager
	}
	if o.DevTask == "" {
		o.DevTask = defaultDevTask
	}
}

// Resolver picks one way to launch the bridge by trying candidate strategies
// in a fixed priority order. No resolver state persists across spawns.
type Resolver struct {
	opts SpawnOptions
}

// NewResolver creates a resolver for the given options.
func NewResolver(opts SpawnOptions) *Resolver {
	opts.fillDefaults()
	return &Resolver{opts: opts}
}

// subprojectDirs returns the local bridge checkout and its sibling one
// directory level up, in priority order.
func (r *Resolver) subprojectDirs() []string {
	return []string{
		filepath.Join(r.opts.ProjectDir, defaultSubproject),
		filepath.Join(r.opts.ProjectDir, "..", defaultSubproject),
	}
}

// Spawn tries each launch strategy until one creates a process. Success means
// process creation only: the resolver does not wait to see whether the bridge
// stays up. When every strategy fails, the aggregated *SpawnError lets the
// caller decide whether to continue without a bridge.
func (r *Resolver) Spawn() (*Handle, error) {
	var attempts []SpawnAttempt

	fail := func(strategy string, err error) {
		log.Printf("bridge_event=spawn_attempt_failed strategy=%q err=%v", strategy, err)
		attempts = append(attempts, SpawnAttempt{Strategy: strategy, Err: err})
	}

	// 1. Environment override.
	if cmdline := strings.TrimSpace(os.Getenv(OverrideEnv)); cmdline != "" {
		parts := strings.Fields(cmdline)
		strategy := fmt.Sprintf("env %s", OverrideEnv)
		h, err := r.launch(parts[0], parts[1:], "")
		if err == nil {
			return spawned(h, strategy), nil
		}
		fail(strategy, err)
	}

	// 2–3. Pre-built entry point, local then sibling.
	for _, dir := range r.subprojectDirs() {
		entry := filepath.Join(dir, r.opts.EntryPoint)
		strategy := fmt.Sprintf("entry point %s", entry)
		if _, err := os.Stat(entry); err != nil {
			fail(strategy, err)
			continue
		}
		abs, err := filepath.Abs(entry)
		if err != nil {
			fail(strategy, err)
			continue
		}
		h, err := r.launch(r.opts.Interpreter, []string{abs}, "")
		if err == nil {
			return spawned(h, strategy), nil
		}
		fail(strategy, err)
	}

	// 4. Package-manager dev task, local then sibling.
	for _, dir := range r.subprojectDirs() {
		strategy := fmt.Sprintf("%s run %s in %s", r.opts.PackageManager, r.opts.DevTask, dir)
		if _, err := os.Stat(dir); err != nil {
			fail(strategy, err)
			continue
		}
		program, args := devTaskCommand(r.opts.PackageManager, r.opts.DevTask)
		h, err := r.launch(program, args, dir)
		if err == nil {
			return spawned(h, strategy), nil
		}
		fail(strategy, err)
	}

	return nil, &SpawnError{Attempts: attempts}
}

// devTaskCommand builds the dev-task invocation. Package-manager shims on
// Windows are batch files, so the call must go through the command shell.
func devTaskCommand(packageManager, task string) (string, []string) {
	if runtime.GOOS == "windows" {
		return "cmd", []string{"/C", packageManager, "run", task}
	}
	return packageManager, []string{"run", task}
}

// launch starts one candidate command with all three standard streams piped.
// The streams are never inherited: output must be intercepted and relayed to
// the shell instead of mixing into the supervisor's own console.
func (r *Resolver) launch(program string, args []string, dir string) (*Handle, error) {
	cmd := exec.Command(program, args...)
	if dir != "" {
		cmd.Dir = dir
	}

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to create stdin pipe: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to create stdout pipe: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to create stderr pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start %s: %w", program, err)
	}

	return newHandle(cmd, stdin, stdout, stderr), nil
}

func spawned(h *Handle, strategy string) *Handle {
	h.Strategy = strategy
	log.Printf("bridge_event=spawned handle=%s pid=%d strategy=%q", h.ID, h.PID, strategy)
	return h
}
