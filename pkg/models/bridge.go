// Package models defines the wire types shared by the bridge supervisor and
// the web shell.
package models

import (
	"time"
)

// StreamSource identifies which of the bridge's output streams a line came from.
type StreamSource string

const (
	// SourceStdout marks lines read from the bridge's standard output.
	SourceStdout StreamSource = "stdout"
	// SourceStderr marks lines read from the bridge's standard error.
	SourceStderr StreamSource = "stderr"
)

// ValidSource checks if a stream source is valid.
func ValidSource(s StreamSource) bool {
	return s == SourceStdout || s == SourceStderr
}

// EventName returns the SSE event name the UI listens for.
func (s StreamSource) EventName() string {
	return "bridge-" + string(s)
}

// ConsoleLine is one forwarded line of bridge output.
type ConsoleLine struct {
	Source StreamSource `json:"source"`
	Line   string       `json:"line"`
	At     time.Time    `json:"at"`
}

// BridgeStatus reports the supervisor's view of the bridge slot.
type BridgeStatus struct {
	Alive bool `json:"alive"`
	PID   int  `json:"pid,omitempty"`
}
