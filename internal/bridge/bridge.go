// Package bridge supervises the companion bridge process: resolving how to
// launch it across development and packaged layouts, relaying its output
// streams to the shell, and tearing it down on restart or application exit.
package bridge

import (
	"io"
	"os/exec"
	"syscall"
	"time"

	"github.com/google/uuid"
)

const terminateGrace = 5 * time.Second

// Handle represents one live bridge process. It is created only by a
// successful spawn and must not be reused after termination: once a handle
// leaves the registry, every operation observes "no process".
type Handle struct {
	ID  string
	PID int
	// Strategy names the launch strategy that produced this process.
	Strategy string

	stdin  io.WriteCloser
	stdout io.ReadCloser
	stderr io.ReadCloser
	cmd    *exec.Cmd
}

func newHandle(cmd *exec.Cmd, stdin io.WriteCloser, stdout, stderr io.ReadCloser) *Handle {
	return &Handle{
		ID:     uuid.New().String(),
		PID:    cmd.Process.Pid,
		stdin:  stdin,
		stdout: stdout,
		stderr: stderr,
		cmd:    cmd,
	}
}

// terminate forcibly stops the process and reaps it. It sends SIGTERM first
// and escalates to a hard kill after a grace period, but never returns while
// the process is still alive. Errors are swallowed: the handle is already
// logically dead and the caller has nothing left to recover.
func (h *Handle) terminate() {
	if h.cmd.Process == nil {
		return
	}

	done := make(chan error, 1)
	go func() { done <- h.cmd.Wait() }()

	h.cmd.Process.Signal(syscall.SIGTERM)

	select {
	case <-done:
	case <-time.After(terminateGrace):
		h.cmd.Process.Kill()
		<-done
	}
}
