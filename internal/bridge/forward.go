package bridge

import (
	"bufio"
	"io"
	"time"
	"unicode/utf8"

	"github.com/sevir/gangway/pkg/models"
)

const maxLineBytes = 1024 * 1024

// forward reads newline-delimited text from r and publishes each line into
// events, tagged with its source stream. It runs for the lifetime of the
// stream and returns silently when the stream closes: a closed stream means
// the process exited or the handle was discarded, which is normal termination
// for a forwarder, not an error.
//
// Publishing is fire-and-forget: a full channel drops the line rather than
// stalling the read loop, so a slow consumer can never deadlock the child on
// a full output buffer. Per-stream line order is preserved for every line
// that is delivered.
func forward(r io.Reader, source models.StreamSource, events chan<- models.ConsoleLine) {
	scanner := bufio.NewScanner(r)
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, maxLineBytes)

	for scanner.Scan() {
		line := scanner.Text()

		// Malformed encoding must not crash the forwarding path.
		if !utf8.ValidString(line) {
			continue
		}

		select {
		case events <- models.ConsoleLine{Source: source, Line: line, At: time.Now()}:
		default:
		}
	}
}
