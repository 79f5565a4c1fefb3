package relate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AlCramer/msparse/internal/defs"
	"github.com/AlCramer/msparse/internal/lex"
	"github.com/AlCramer/msparse/internal/pgraph"
)

func buildChain(t *testing.T, lx *lex.Lexicon, words []string, props []defs.WProp) (*pgraph.Graph, []*pgraph.Pn) {
	t.Helper()
	require.Equal(t, len(words), len(props))
	toks := make([]lex.Key, len(words))
	locs := make([]int, len(words))
	off := 0
	for i, w := range words {
		ix := lx.Define(w, props[i], 0)
		lx.AssignSynClass(ix)
		toks[i] = ix
		locs[i] = off
		off += len(w) + 1
	}
	g := pgraph.NewGraph(lx)
	g.BuildGraph(toks, locs)
	nodes := make([]*pgraph.Pn, len(words))
	e := g.Root()
	for i := range words {
		nodes[i] = e
		e = e.Nxt
	}
	return g, nodes
}

func TestScSeqToSrXfrmAppliesScopeFromOffset(t *testing.T) {
	lx := lex.New()
	g, nodes := buildChain(t, lx,
		[]string{"dog", "runs"},
		[]defs.WProp{defs.WPNoun | defs.WPRoot, defs.WPVerb | defs.WPRoot})
	dog, verb := nodes[0], nodes[1]

	x := NewScSeqToSrXfrm("sv")
	x.Rules.SetDimensions(2, 32)
	seq := []int{int(dog.Sc), int(verb.Sc)}
	srSeq := []int{(1 << 4) | int(defs.SRAgent), 0}
	require.True(t, x.Define(seq, srSeq))

	m, ok := x.FindRule(g, dog)
	require.True(t, ok)
	next, err := x.ApplyRule(g, dog, m)
	require.NoError(t, err)

	assert.Same(t, verb, dog.Scope)
	assert.Equal(t, defs.SRAgent, dog.Sr)
	require.Len(t, verb.Rel[defs.SRAgent], 1)
	assert.Same(t, dog, verb.Rel[defs.SRAgent][0])
	assert.Nil(t, next)
}

func TestScSeqToSrXfrmOffsetOutOfRangeErrors(t *testing.T) {
	lx := lex.New()
	g, nodes := buildChain(t, lx,
		[]string{"dog", "runs"},
		[]defs.WProp{defs.WPNoun | defs.WPRoot, defs.WPVerb | defs.WPRoot})
	dog, verb := nodes[0], nodes[1]

	x := NewScSeqToSrXfrm("sv")
	x.Rules.SetDimensions(2, 32)
	seq := []int{int(dog.Sc), int(verb.Sc)}
	srSeq := []int{(5 << 4) | int(defs.SRAgent), 0}
	require.True(t, x.Define(seq, srSeq))

	m, ok := x.FindRule(g, dog)
	require.True(t, ok)
	_, err := x.ApplyRule(g, dog, m)
	assert.Error(t, err)
}

func TestSrXfrmFindRuleRequiresAVerb(t *testing.T) {
	lx := lex.New()
	g, nodes := buildChain(t, lx,
		[]string{"dog", "cat"},
		[]defs.WProp{defs.WPNoun | defs.WPRoot, defs.WPNoun | defs.WPRoot})

	x := NewSrXfrm("sr")
	_, ok := x.FindRule(g, nodes[0])
	assert.False(t, ok)
}

func TestSrXfrmApplyRuleAssignsThemeAndResolvesDomain(t *testing.T) {
	lx := lex.New()
	g, nodes := buildChain(t, lx,
		[]string{"go", "there"},
		[]defs.WProp{defs.WPVerb | defs.WPRoot, defs.WPNoun | defs.WPRoot})
	verb, obj := nodes[0], nodes[1]
	obj.SetVProp(defs.VPNVexpr)

	x := NewSrXfrm("sr")
	rule, ok := x.FindRule(g, verb)
	require.True(t, ok)

	next, err := x.ApplyRule(g, verb, rule)
	require.NoError(t, err)

	assert.Same(t, verb, obj.Scope)
	assert.Equal(t, defs.SRTheme, obj.Sr)
	assert.Nil(t, next)
}

func TestSvToQXfrmGerundInSubjectRole(t *testing.T) {
	lx := lex.New()
	g, nodes := buildChain(t, lx,
		[]string{"girl", "sitting", "laughed"},
		[]defs.WProp{defs.WPNoun | defs.WPRoot, defs.WPVerb | defs.WPRoot, defs.WPVerb | defs.WPRoot})
	girl, sitting, laughed := nodes[0], nodes[1], nodes[2]

	sitting.SetVProp(defs.VPGerund)
	sitting.SetScope(laughed, defs.SRAgent)
	girl.SetScope(sitting, defs.SRAgent)

	x := NewSvToQXfrm("svtoq")
	rule, ok := x.FindRule(g, sitting)
	require.True(t, ok)
	assert.Same(t, sitting, rule.(*pgraph.Pn))

	next, err := x.ApplyRule(g, sitting, rule)
	require.NoError(t, err)

	assert.Equal(t, defs.SRIsQby, girl.Sr)
	require.Len(t, sitting.Rel[defs.SRIsQby], 1)
	assert.Same(t, girl, sitting.Rel[defs.SRIsQby][0])
	assert.Empty(t, sitting.Rel[defs.SRAgent])
	assert.Same(t, laughed, next)
}

func TestSvToQXfrmQueryWordInSubjectRole(t *testing.T) {
	lx := lex.New()
	g, nodes := buildChain(t, lx,
		[]string{"who", "ate"},
		[]defs.WProp{defs.WPQuery | defs.WPNoun | defs.WPRoot, defs.WPVerb | defs.WPRoot})
	who, ate := nodes[0], nodes[1]
	who.SetScope(ate, defs.SRAgent)

	x := NewSvToQXfrm("svtoq")
	rule, ok := x.FindRule(g, who)
	require.True(t, ok)
	assert.Same(t, ate, rule.(*pgraph.Pn))

	next, err := x.ApplyRule(g, who, rule)
	require.NoError(t, err)

	assert.Equal(t, defs.SRIsQby, who.Sr)
	require.Len(t, ate.Rel[defs.SRIsQby], 1)
	assert.Same(t, who, ate.Rel[defs.SRIsQby][0])
	assert.Nil(t, next)
}

func TestInvertQXfrmPromotesHeadNoun(t *testing.T) {
	lx := lex.New()
	g, nodes := buildChain(t, lx,
		[]string{"saw", "recommending", "book"},
		[]defs.WProp{defs.WPVerb | defs.WPRoot, defs.WPVerb | defs.WPRoot, defs.WPNoun | defs.WPRoot})
	outer, v, q := nodes[0], nodes[1], nodes[2]

	v.SetScope(outer, defs.SRTheme)
	q.SetScope(v, defs.SRIsQby)

	x := NewInvertQXfrm("invertq")
	rule, ok := x.FindRule(g, q)
	require.True(t, ok)

	next, err := x.ApplyRule(g, q, rule)
	require.NoError(t, err)

	assert.Same(t, outer, q.Scope)
	assert.Equal(t, defs.SRTheme, q.Sr)
	assert.Same(t, q, v.Scope)
	assert.Equal(t, defs.SRModifies, v.Sr)
	assert.Same(t, q.Nxt, next)

	x.PostXfrm(g)
	require.Len(t, outer.Rel[defs.SRTheme], 1)
	assert.Same(t, q, outer.Rel[defs.SRTheme][0])
	require.Len(t, q.Rel[defs.SRModifies], 1)
	assert.Same(t, v, q.Rel[defs.SRModifies][0])
}

func TestVconjXfrmSharesRelationsAndFoldsConjunction(t *testing.T) {
	lx := lex.New()
	g, nodes := buildChain(t, lx,
		[]string{"said", "dog", "ran", "and", "jumped"},
		[]defs.WProp{
			defs.WPVerb | defs.WPRoot,
			defs.WPNoun | defs.WPRoot,
			defs.WPVerb | defs.WPRoot,
			defs.WPConj | defs.WPRoot,
			defs.WPVerb | defs.WPRoot,
		})
	said, dog, ran, and, jumped := nodes[0], nodes[1], nodes[2], nodes[3], nodes[4]

	ran.SetScope(said, defs.SRAgent)
	dog.SetScope(ran, defs.SRAgent)
	jumped.SetScope(ran, defs.SRVconj)

	x := NewVconjXfrm("vconj")
	rule, ok := x.FindRule(g, jumped)
	require.True(t, ok)

	next, err := x.ApplyRule(g, jumped, rule)
	require.NoError(t, err)

	assert.Same(t, said, jumped.Scope)
	assert.Equal(t, defs.SRAgent, jumped.Sr)
	require.Len(t, jumped.Rel[defs.SRAgent], 1)
	assert.Same(t, dog, jumped.Rel[defs.SRAgent][0])

	require.Len(t, said.Rel[defs.SRAgent], 2)
	assert.Same(t, ran, said.Rel[defs.SRAgent][0])
	assert.Same(t, jumped, said.Rel[defs.SRAgent][1])

	assert.Equal(t, and.Wrds, jumped.Head)
	assert.Same(t, said, and.Scope)
	assert.Nil(t, next)
}
