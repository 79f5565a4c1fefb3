package vdom

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AlCramer/msparse/internal/defs"
	"github.com/AlCramer/msparse/internal/lex"
	"github.com/AlCramer/msparse/internal/pgraph"
)

// TestParseReducesVerbFirstObject exercises the plain object-binding path:
// a verb domain list of [verb, object] with no subject term folds the
// trailing NVexpr in as the verb's theme.
func TestParseReducesVerbFirstObject(t *testing.T) {
	lx := lex.New()
	verbIx := lx.Define("go", defs.WPVerb|defs.WPRoot, 0)
	lx.AssignSynClass(verbIx)
	objIx := lx.Define("there", defs.WPNoun|defs.WPRoot, 0)
	lx.AssignSynClass(objIx)

	g := pgraph.NewGraph(lx)
	g.BuildGraph([]lex.Key{verbIx, objIx}, []int{0, 3})
	verb := g.Root()
	obj := verb.Nxt
	obj.SetVProp(defs.VPNVexpr)

	err := Parse(g)
	require.NoError(t, err)
	assert.Same(t, verb, obj.Scope)
	assert.Equal(t, defs.SRTheme, obj.Sr)
}

// TestParseFailsWhenSubjectCandidateIsNotMutable exercises reduceSubObj's
// first unrecognized-construction branch: a verb domain opens as an NVexpr
// (rather than the verb itself), but the candidate that follows isn't a
// mutable-subject verb, so the construction can't be fit to the model.
// A leading prep keeps reduceLeftAdj from absorbing the trailing term first.
func TestParseFailsWhenSubjectCandidateIsNotMutable(t *testing.T) {
	lx := lex.New()
	prepIx := lx.Define("after", defs.WPPrep|defs.WPRoot, 0)
	lx.AssignSynClass(prepIx)
	verbIx := lx.Define("go", defs.WPVerb|defs.WPRoot, 0)
	lx.AssignSynClass(verbIx)
	nounIx := lx.Define("it", defs.WPNoun|defs.WPRoot, 0)
	lx.AssignSynClass(nounIx)

	g := pgraph.NewGraph(lx)
	g.BuildGraph([]lex.Key{prepIx, verbIx, nounIx}, []int{0, 6, 9})
	prep := g.Root()
	verb := prep.Nxt
	noun := verb.Nxt
	verb.SetVProp(defs.VPNVexpr)

	err := Parse(g)
	require.Error(t, err)
	assert.Equal(t, "vdom: failed to set initial scope", err.Error())

	// the failed construction must not have been partially scoped.
	assert.Nil(t, noun.Scope)
	assert.Nil(t, prep.Scope)
}

func TestParseNoVerbIsNoop(t *testing.T) {
	lx := lex.New()
	nounIx := lx.Define("dog", defs.WPNoun|defs.WPRoot, 0)
	lx.AssignSynClass(nounIx)

	g := pgraph.NewGraph(lx)
	g.BuildGraph([]lex.Key{nounIx}, []int{0})

	err := Parse(g)
	assert.NoError(t, err)
}
