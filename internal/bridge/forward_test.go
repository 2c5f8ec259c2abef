package bridge

import (
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/sevir/gangway/pkg/models"
)

func TestForwardPreservesLineOrder(t *testing.T) {
	events := make(chan models.ConsoleLine, 16)
	forward(strings.NewReader("L1\nL2\nL3\n"), models.SourceStdout, events)
	close(events)

	var lines []string
	for ev := range events {
		if ev.Source != models.SourceStdout {
			t.Errorf("expected stdout source, got %q", ev.Source)
		}
		lines = append(lines, ev.Line)
	}

	want := []string{"L1", "L2", "L3"}
	if len(lines) != len(want) {
		t.Fatalf("expected %d lines, got %d (%v)", len(want), len(lines), lines)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d: expected %q, got %q", i, want[i], lines[i])
		}
	}
}

func TestForwardDropsInvalidUTF8(t *testing.T) {
	events := make(chan models.ConsoleLine, 16)
	forward(strings.NewReader("good\n\xff\xfe\xfd\nalso good\n"), models.SourceStderr, events)
	close(events)

	var lines []string
	for ev := range events {
		lines = append(lines, ev.Line)
	}

	if len(lines) != 2 {
		t.Fatalf("expected malformed line to be dropped, got %v", lines)
	}
	if lines[0] != "good" || lines[1] != "also good" {
		t.Fatalf("unexpected lines: %v", lines)
	}
}

func TestForwardDoesNotBlockWhenSinkFull(t *testing.T) {
	events := make(chan models.ConsoleLine, 1)

	done := make(chan struct{})
	go func() {
		forward(strings.NewReader("a\nb\nc\n"), models.SourceStdout, events)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("forward blocked on a full sink")
	}

	if len(events) != 1 {
		t.Fatalf("expected overflow lines to be dropped, got %d buffered", len(events))
	}
	if ev := <-events; ev.Line != "a" {
		t.Fatalf("expected the first line to be delivered, got %q", ev.Line)
	}
}

func TestForwardReturnsOnStreamError(t *testing.T) {
	pr, pw := io.Pipe()
	events := make(chan models.ConsoleLine, 16)

	done := make(chan struct{})
	go func() {
		forward(pr, models.SourceStdout, events)
		close(done)
	}()

	if _, err := io.WriteString(pw, "before close\n"); err != nil {
		t.Fatalf("pipe write failed: %v", err)
	}
	pw.CloseWithError(errors.New("stream torn down"))

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("forward did not return after stream error")
	}

	if ev := <-events; ev.Line != "before close" {
		t.Fatalf("expected the buffered line, got %q", ev.Line)
	}
}
