// Package trace implements the optional diagnostic sink that the CLI installs
// when a trace path is configured. Most callers get Discard, which costs
// nothing; a CLI or HTTP boundary that wants visibility installs a Writer
// sink instead.
package trace

import (
	"fmt"
	"io"
	"sync"

	"github.com/dekarrin/rosed"
)

const wrapWidth = 100

// Sink receives line-oriented diagnostic messages. Implementations must be
// safe for concurrent use.
type Sink interface {
	Tracef(format string, a ...interface{})
}

type discard struct{}

func (discard) Tracef(string, ...interface{}) {}

// Discard is the default Sink: every message is dropped.
var Discard Sink = discard{}

// Writer is a Sink that writes each message as its own line to an
// underlying io.Writer, wrapped with rosed the way engine.go wraps its
// console error messages (at width 100 here).
type Writer struct {
	mu sync.Mutex
	w  io.Writer
}

// NewWriter returns a Sink that writes to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Tracef implements Sink.
func (t *Writer) Tracef(format string, a ...interface{}) {
	line := rosed.Edit(fmt.Sprintf(format, a...)).Wrap(wrapWidth).String()
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintln(t.w, line)
}
