// Package xfrm implements the transform framework: an Xfrm walks the parse
// graph, calling FindRule at each node until one matches, then hands the
// node and rule to ApplyRule, which mutates the graph and returns the node
// at which the walk resumes. A rule-applying error aborts that transform's
// walk without aborting the parse as a whole, mirroring the pipeline's
// per-transform fault containment.
package xfrm

import (
	"fmt"
	"io"

	"github.com/AlCramer/msparse/internal/pgraph"
	"github.com/AlCramer/msparse/internal/seqmap"
)

// TraceParse, when set, makes Run print the graph after every transform.
// It is a dev/test switch, not parse state.
var TraceParse = false

// Xfrm is one named rule (or rule set) that transforms the parse graph.
type Xfrm interface {
	Name() string
	// FindRule inspects e and reports the rule (if any) applying there.
	FindRule(g *pgraph.Graph, e *pgraph.Pn) (rule any, ok bool)
	// ApplyRule performs the graph mutation for rule at e, and returns the
	// node at which the walk should resume. An error aborts the remainder
	// of this transform's walk (but not the parse).
	ApplyRule(g *pgraph.Graph, e *pgraph.Pn, rule any) (*pgraph.Pn, error)
}

// PostHook is implemented by transforms that need a pass after the walk
// completes (e.g. to rebuild Rel from Scope/Sr).
type PostHook interface {
	PostXfrm(g *pgraph.Graph)
}

// Base supplies the Name() method; embed it in concrete transforms.
type Base struct{ name string }

// NewBase returns a Base carrying name.
func NewBase(name string) Base { return Base{name: name} }

func (b Base) Name() string { return b.name }

// Run walks g with x, applying rules until the walk is exhausted or a rule
// application fails. If x implements PostHook, its PostXfrm runs after the
// walk regardless of outcome. If trace is non-nil, the graph is dumped to
// it afterward.
func Run(g *pgraph.Graph, x Xfrm, trace io.Writer) {
	e := g.Root()
	for e != nil {
		rule, ok := x.FindRule(g, e)
		if !ok {
			e = e.Nxt
			continue
		}
		next, err := x.ApplyRule(g, e, rule)
		if err != nil {
			// A rule-application error aborts this transform's walk; the
			// pipeline continues on to the next transform.
			break
		}
		e = next
	}
	if hook, ok := x.(PostHook); ok {
		hook.PostXfrm(g)
	}
	if trace != nil {
		g.Printme(trace, x.Name())
		fmt.Fprintln(trace)
	}
}

// SeqMapBase is embedded by transforms whose rules are represented as a
// sequence map from syntax-class sequences to an index into a per-transform
// value table. LongestMatch implements the common FindRule behavior: take
// the longest left-to-right match starting at e.
type SeqMapBase struct {
	Base
	Rules *seqmap.SeqMap
}

// NewSeqMapBase returns a SeqMapBase with a freshly allocated, empty rule
// table.
func NewSeqMapBase(name string) SeqMapBase {
	return SeqMapBase{Base: NewBase(name), Rules: seqmap.New()}
}

// LongestMatch returns the longest sequence-map match starting at e, or
// false if none matches.
func (s SeqMapBase) LongestMatch(e *pgraph.Pn) (seqmap.Match, bool) {
	matches := s.Rules.GetMatches(e, true)
	if len(matches) == 0 {
		return seqmap.Match{}, false
	}
	return matches[len(matches)-1], true
}
