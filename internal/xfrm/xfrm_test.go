package xfrm

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AlCramer/msparse/internal/defs"
	"github.com/AlCramer/msparse/internal/lex"
	"github.com/AlCramer/msparse/internal/pgraph"
)

func buildChain(t *testing.T, n int) (*lex.Lexicon, *pgraph.Graph) {
	t.Helper()
	lx := lex.New()
	var toks []lex.Key
	var locs []int
	for i := 0; i < n; i++ {
		ix := lx.Define(string(rune('a'+i)), defs.WPNoun|defs.WPRoot, 0)
		lx.AssignSynClass(ix)
		toks = append(toks, ix)
		locs = append(locs, i*2)
	}
	g := pgraph.NewGraph(lx)
	g.BuildGraph(toks, locs)
	return lx, g
}

// recorder is a minimal Xfrm that visits every node once and records it.
type recorder struct {
	Base
	visited  []int
	failAt   int
	postCall int
}

func (r *recorder) FindRule(g *pgraph.Graph, e *pgraph.Pn) (any, bool) {
	return e, true
}

func (r *recorder) ApplyRule(g *pgraph.Graph, e *pgraph.Pn, rule any) (*pgraph.Pn, error) {
	r.visited = append(r.visited, e.Handle())
	if r.failAt != 0 && e.Handle() == r.failAt {
		return nil, errors.New("rule application failed")
	}
	return e.Nxt, nil
}

func (r *recorder) PostXfrm(g *pgraph.Graph) {
	r.postCall++
}

func TestRunWalksEveryNode(t *testing.T) {
	_, g := buildChain(t, 3)
	r := &recorder{Base: NewBase("recorder")}
	Run(g, r, nil)
	assert.Equal(t, []int{0, 1, 2}, r.visited)
	assert.Equal(t, 1, r.postCall)
}

func TestRunAbortsWalkOnRuleError(t *testing.T) {
	_, g := buildChain(t, 3)
	r := &recorder{Base: NewBase("recorder"), failAt: 1}
	Run(g, r, nil)
	assert.Equal(t, []int{0, 1}, r.visited)
	assert.Equal(t, 1, r.postCall, "PostXfrm must still run after an aborted walk")
}

func TestRunSkipsNodesWithNoRule(t *testing.T) {
	_, g := buildChain(t, 3)
	skipFirst := &skipRecorder{recorder: recorder{Base: NewBase("skip")}}
	Run(g, skipFirst, nil)
	assert.Equal(t, []int{1, 2}, skipFirst.visited)
}

type skipRecorder struct{ recorder }

func (r *skipRecorder) FindRule(g *pgraph.Graph, e *pgraph.Pn) (any, bool) {
	if e.Handle() == 0 {
		return nil, false
	}
	return e, true
}

func TestRunWritesTraceWhenRequested(t *testing.T) {
	_, g := buildChain(t, 1)
	r := &recorder{Base: NewBase("traced")}
	var buf bytes.Buffer
	Run(g, r, &buf)
	assert.Contains(t, buf.String(), "traced")
}

func TestSeqMapBaseLongestMatch(t *testing.T) {
	_, g := buildChain(t, 3)
	sb := NewSeqMapBase("rule1")
	sb.Rules.SetDimensions(3, 8)

	first := g.Root()
	second, third := first.Nxt, first.Nxt.Nxt

	short := []int{int(first.Sc)}
	long := []int{int(first.Sc), int(second.Sc), int(third.Sc)}
	require.True(t, sb.Rules.DefineEntry(short, 10))
	require.True(t, sb.Rules.DefineEntry(long, 20))

	match, ok := sb.LongestMatch(first)
	require.True(t, ok)
	assert.Equal(t, 20, match.Value)
	assert.Equal(t, []*pgraph.Pn{first, second, third}, match.Nodes)
}

func TestSeqMapBaseNoMatch(t *testing.T) {
	_, g := buildChain(t, 1)
	sb := NewSeqMapBase("empty")
	sb.Rules.SetDimensions(3, 8)
	_, ok := sb.LongestMatch(g.Root())
	assert.False(t, ok)
}
