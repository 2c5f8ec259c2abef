package bridge

import (
	"fmt"
	"io"
	"log"
	"sync"

	"github.com/sevir/gangway/pkg/models"
)

const defaultEventBuffer = 256

// Supervisor exposes the bridge operations the shell calls: write a line to
// the bridge's stdin, query liveness, restart, and the exit-time teardown.
// Absence of a bridge is a degraded-but-running state, never a fatal one.
type Supervisor struct {
	resolver *Resolver
	registry *Registry
	events   chan models.ConsoleLine

	// lifeMu serializes spawn/teardown transitions so two restarts (or a
	// restart racing the exit hook) cannot install handles past each other.
	lifeMu sync.Mutex
}

// Config holds supervisor configuration.
type Config struct {
	Spawn SpawnOptions
	// EventBuffer caps the in-flight forwarded lines before drops begin.
	EventBuffer int
}

// New creates a supervisor with an empty process slot. Call Start to perform
// the initial spawn.
func New(cfg Config) *Supervisor {
	if cfg.EventBuffer <= 0 {
		cfg.EventBuffer = defaultEventBuffer
	}
	return &Supervisor{
		resolver: NewResolver(cfg.Spawn),
		registry: NewRegistry(),
		events:   make(chan models.ConsoleLine, cfg.EventBuffer),
	}
}

// Events returns the channel carrying forwarded bridge output, one entry per
// line. Delivery is best-effort; consuming slowly drops lines rather than
// blocking the bridge.
func (s *Supervisor) Events() <-chan models.ConsoleLine {
	return s.events
}

// Start performs the initial spawn and begins relaying output. On failure the
// supervisor stays usable: the shell runs without a bridge and Restart can
// try again later.
func (s *Supervisor) Start() error {
	s.lifeMu.Lock()
	defer s.lifeMu.Unlock()
	return s.spawnAndInstall()
}

// Write appends a line terminator and writes text to the bridge's stdin. It
// returns ErrNoProcess when no handle is registered, or the underlying I/O
// error (typically a broken pipe when the bridge already exited). The write
// is not retried; the caller may choose to restart.
func (s *Supervisor) Write(text string) error {
	return s.registry.WithHandle(func(h *Handle) error {
		if _, err := io.WriteString(h.stdin, text+"\n"); err != nil {
			return fmt.Errorf("bridge write failed: %w", err)
		}
		return nil
	})
}

// Alive reports whether a bridge handle is currently registered. It does not
// distinguish "never started" from "started then exited": both are not alive.
func (s *Supervisor) Alive() bool {
	return s.registry.Alive()
}

// Status reports the current slot state, including the pid when present.
func (s *Supervisor) Status() models.BridgeStatus {
	var st models.BridgeStatus
	s.registry.WithHandle(func(h *Handle) error {
		st = models.BridgeStatus{Alive: true, PID: h.PID}
		return nil
	})
	return st
}

// Restart terminates the current bridge (waiting for it to fully exit) and
// spawns a fresh one. On spawn failure the registry is left empty: a process
// that was deliberately killed never lingers as "active" state.
func (s *Supervisor) Restart() error {
	s.lifeMu.Lock()
	defer s.lifeMu.Unlock()

	if h := s.registry.Take(); h != nil {
		log.Printf("bridge_event=terminating handle=%s pid=%d reason=restart", h.ID, h.PID)
		h.terminate()
	}
	return s.spawnAndInstall()
}

// Shutdown kills any live bridge and waits for it to exit so no orphan
// survives application exit. It is called once, from the process exit hook,
// and swallows every error: the application is already tearing down and
// cannot meaningfully recover. Calling it with no handle is a no-op.
func (s *Supervisor) Shutdown() {
	s.lifeMu.Lock()
	defer s.lifeMu.Unlock()

	if h := s.registry.Take(); h != nil {
		log.Printf("bridge_event=terminating handle=%s pid=%d reason=shutdown", h.ID, h.PID)
		h.terminate()
	}
}

func (s *Supervisor) spawnAndInstall() error {
	h, err := s.resolver.Spawn()
	if err != nil {
		return err
	}
	s.registry.Install(h)
	s.attach(h)
	return nil
}

// attach starts the two forwarding goroutines for a new handle. Each stream
// is exclusively consumed by its forwarder for the handle's life; the
// goroutines end on their own when the stream closes.
func (s *Supervisor) attach(h *Handle) {
	go forward(h.stdout, models.SourceStdout, s.events)
	go forward(h.stderr, models.SourceStderr, s.events)
}
