package bridge

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNoProcess is returned by operations that need a live bridge while the
// registry holds none.
var ErrNoProcess = errors.New("no bridge process is running")

// SpawnAttempt records one launch strategy that failed to create a process.
type SpawnAttempt struct {
	Strategy string
	Err      error
}

// SpawnError aggregates the failures of every launch strategy. It is returned
// only when no strategy managed to create a process; individual attempt
// failures are recovered locally by trying the next strategy.
type SpawnError struct {
	Attempts []SpawnAttempt
}

func (e *SpawnError) Error() string {
	var b strings.Builder
	b.WriteString("all bridge launch strategies failed; no usable runtime or build artifact was found:")
	for _, a := range e.Attempts {
		fmt.Fprintf(&b, "\n  %s: %v", a.Strategy, a.Err)
	}
	return b.String()
}
