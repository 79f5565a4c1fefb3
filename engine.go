// Package msparse contains a CLI-driven engine for parsing source text
// section by section and reporting results (or errors) continuously until
// the input is exhausted.
package msparse

import (
	"bufio"
	"fmt"
	"io"

	"github.com/dekarrin/rosed"
	"github.com/google/uuid"

	"github.com/AlCramer/msparse/internal/chunk"
	"github.com/AlCramer/msparse/internal/msnode"
	"github.com/AlCramer/msparse/internal/parseerr"
	"github.com/AlCramer/msparse/internal/trace"
	"github.com/AlCramer/msparse/internal/xmlout"
)

const consoleOutputWidth = 80

// Engine drives a Parser over a stream of source text, chunked into
// sections by the chunk package, reporting each section's rendered parse
// (or a human-readable error) to an output stream.
type Engine struct {
	p       *Parser
	out     *bufio.Writer
	withLoc bool
	running bool
	sink    trace.Sink
}

// NewEngine returns an Engine bound to p, writing rendered output to out.
// The Engine's diagnostic sink defaults to trace.Discard; use SetTraceSink
// to install a real one.
func NewEngine(p *Parser, out io.Writer) *Engine {
	return &Engine{p: p, out: bufio.NewWriter(out), sink: trace.Discard}
}

// SetTraceSink installs the sink that per-section diagnostics are written
// to. A nil sink is treated as trace.Discard.
func (en *Engine) SetTraceSink(sink trace.Sink) {
	if sink == nil {
		sink = trace.Discard
	}
	en.sink = sink
}

// SetLocationTracking toggles whether rendered XML includes source-location
// attributes.
func (en *Engine) SetLocationTracking(on bool) { en.withLoc = on }

// Close flushes any buffered output.
func (en *Engine) Close() error { return en.out.Flush() }

// ParseReader reads r section by section (via chunk.Chunker) and writes the
// rendered parse of each section to the Engine's output stream. A section
// that fails to parse is reported in the output stream and parsing goes on.
// A write error stops the run and is returned together with the number of
// sections reached so far; otherwise the count is the number of sections
// read and the error is that of the final flush.
func (en *Engine) ParseReader(r io.Reader) (int, error) {
	en.running = true
	defer func() { en.running = false }()

	ck := chunk.New(r)
	n := 0
	for {
		sec, ok := ck.Next()
		if !ok {
			break
		}
		n++
		if err := en.parseSection(sec); err != nil {
			return n, err
		}
	}
	return n, en.out.Flush()
}

func (en *Engine) parseSection(sec chunk.Section) error {
	id := uuid.NewString()
	en.sink.Tracef("section %s: line %d, %d blank(s) before", id, sec.Line, sec.Blanks)

	nds, err := en.safeParse(sec.Text, sec.Line)
	if err != nil {
		human := fmt.Sprintf("could not parse line %d: %v", sec.Line, parseerr.WrapParse(err, err.Error()))
		wrapped := rosed.Edit(human).Wrap(consoleOutputWidth).String()
		en.sink.Tracef("section %s: %s", id, human)
		_, werr := fmt.Fprintln(en.out, wrapped)
		return werr
	}
	if len(nds) > 0 {
		nds[0].Blank = sec.Blanks
	}
	_, werr := io.WriteString(en.out, xmlout.Render(nds, en.withLoc))
	return werr
}

// safeParse recovers from a panic in the transform pipeline (an
// unanticipated malformed input tripping a node-graph invariant) and
// reports it as an ordinary error instead of crashing the whole run.
func (en *Engine) safeParse(src string, lno int) (nds []*msnode.Node, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("internal parse error: %v", r)
		}
	}()
	return en.p.ParseText(src, lno), nil
}

// Running reports whether a ParseReader call is in progress.
func (en *Engine) Running() bool { return en.running }
