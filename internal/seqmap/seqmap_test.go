package seqmap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AlCramer/msparse/internal/defs"
	"github.com/AlCramer/msparse/internal/lex"
	"github.com/AlCramer/msparse/internal/pgraph"
	"github.com/AlCramer/msparse/internal/serial"
)

func TestComputeCks(t *testing.T) {
	got := ComputeCks([]int{1, 2})
	// i=0: x = 1<<8|2 = 258; sum1 = 258; sum2 = 258
	want := (uint32(258) << 16) | uint32(258)
	assert.Equal(t, want, got)
}

func TestComputeCksOddLength(t *testing.T) {
	// trailing unpaired term contributes its value shifted, with no low byte.
	got := ComputeCks([]int{1})
	want := (uint32(1<<8) << 16) | uint32(1<<8)
	assert.Equal(t, want, got)
}

func TestValidatePathSingleTerm(t *testing.T) {
	m := New()
	m.SetDimensions(3, 8)
	assert.Equal(t, 5, m.ValidatePath([]int{5}, false))
}

func TestValidatePathFailsWithoutCreate(t *testing.T) {
	m := New()
	m.SetDimensions(3, 8)
	assert.Equal(t, -1, m.ValidatePath([]int{1, 2}, false))
}

func TestValidatePathCreatesTransitions(t *testing.T) {
	m := New()
	m.SetDimensions(3, 8)
	cell := m.ValidatePath([]int{1, 2}, true)
	require.NotEqual(t, -1, cell)
	// once created, a read-only walk must succeed and land on the same cell
	assert.Equal(t, cell, m.ValidatePath([]int{1, 2}, false))
}

func TestDefineEntryAndGet(t *testing.T) {
	m := New()
	m.SetDimensions(3, 8)
	require.True(t, m.DefineEntry([]int{1, 2, 3}, 42))

	v, ok := m.Get([]int{1, 2, 3})
	require.True(t, ok)
	assert.Equal(t, 42, v)

	_, ok = m.Get([]int{1, 2, 4})
	assert.False(t, ok)
}

// TestDefineEntryRejectsCollision asserts the property named in the review:
// DefineEntry returns false when the (cell, checksum) pair is already
// assigned, rather than silently overwriting the earlier value.
func TestDefineEntryRejectsCollision(t *testing.T) {
	m := New()
	m.SetDimensions(3, 8)
	seq := []int{1, 2, 3}

	require.True(t, m.DefineEntry(seq, 10))
	assert.False(t, m.DefineEntry(seq, 20))

	// the original value must survive the rejected redefinition
	v, ok := m.Get(seq)
	require.True(t, ok)
	assert.Equal(t, 10, v)
}

func TestDefineEntryRejectsEmptySeq(t *testing.T) {
	m := New()
	m.SetDimensions(3, 8)
	assert.False(t, m.DefineEntry(nil, 1))
}

func TestDefineEntryDistinctSequencesCoexistAtDifferentCells(t *testing.T) {
	m := New()
	m.SetDimensions(3, 8)
	// two different single-term sequences land at different cells
	// (colIx == seq[0]), so both must be definable independently.
	require.True(t, m.DefineEntry([]int{1}, 100))
	require.True(t, m.DefineEntry([]int{2}, 200))

	v1, ok := m.Get([]int{1})
	require.True(t, ok)
	assert.Equal(t, 100, v1)

	v2, ok := m.Get([]int{2})
	require.True(t, ok)
	assert.Equal(t, 200, v2)
}

func TestSerializeDeserializeRoundTrip(t *testing.T) {
	m := New()
	m.SetDimensions(3, 8)
	require.True(t, m.DefineEntry([]int{1, 2}, 7))
	require.True(t, m.DefineEntry([]int{1, 3}, 9))

	w := serial.NewWriter()
	m.Serialize(w)

	m2 := New()
	m2.Deserialize(serial.NewReader(w.Bytes()))

	v, ok := m2.Get([]int{1, 2})
	require.True(t, ok)
	assert.Equal(t, 7, v)

	v, ok = m2.Get([]int{1, 3})
	require.True(t, ok)
	assert.Equal(t, 9, v)
}

func TestSerializeEmptyMap(t *testing.T) {
	m := New()
	w := serial.NewWriter()
	m.Serialize(w)

	m2 := New()
	m2.Deserialize(serial.NewReader(w.Bytes()))
	assert.Equal(t, 0, m2.nRows)
}

func buildChainGraph(t *testing.T, lx *lex.Lexicon, n int) *pgraph.Graph {
	t.Helper()
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
	return g
}

func TestGetMatchesLeftToRight(t *testing.T) {
	lx := lex.New()
	g := buildChainGraph(t, lx, 3)
	first := g.Root()
	second, third := first.Nxt, first.Nxt.Nxt

	m := New()
	m.SetDimensions(3, 8)
	require.True(t, m.DefineEntry([]int{int(first.Sc)}, 1))
	require.True(t, m.DefineEntry([]int{int(first.Sc), int(second.Sc), int(third.Sc)}, 2))

	matches := m.GetMatches(first, true)
	require.Len(t, matches, 2)
	assert.Equal(t, []*pgraph.Pn{first}, matches[0].Nodes)
	assert.Equal(t, 1, matches[0].Value)
	assert.Equal(t, []*pgraph.Pn{first, second, third}, matches[1].Nodes)
	assert.Equal(t, 2, matches[1].Value)
}

func TestGetMatchesRightToLeft(t *testing.T) {
	lx := lex.New()
	g := buildChainGraph(t, lx, 2)
	first := g.Root()
	second := first.Nxt

	m := New()
	m.SetDimensions(3, 8)
	require.True(t, m.DefineEntry([]int{int(second.Sc), int(first.Sc)}, 5))

	matches := m.GetMatches(second, false)
	require.Len(t, matches, 1)
	assert.Equal(t, []*pgraph.Pn{second, first}, matches[0].Nodes)
	assert.Equal(t, 5, matches[0].Value)
}

func TestGetMatchesNoMatch(t *testing.T) {
	lx := lex.New()
	g := buildChainGraph(t, lx, 1)
	m := New()
	m.SetDimensions(3, 8)
	assert.Nil(t, m.GetMatches(g.Root(), true))
}
