package remat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// charMatcher matches a re over a byte slice: a single-character variant
// matches that literal byte, and "." matches any byte.
type charMatcher struct {
	src []byte
}

func (m *charMatcher) MatchTerm(state int, term string) ([]byte, bool) {
	if state < 0 || state >= len(m.src) {
		return nil, false
	}
	c := m.src[state]
	if term == "." {
		return []byte{c}, true
	}
	if len(term) == 1 && term[0] == c {
		return []byte{c}, true
	}
	return nil, false
}

func TestMatchLiteralSequence(t *testing.T) {
	e := New[byte](&charMatcher{src: []byte("ab")})
	got, ok := e.Match("a b")
	require.True(t, ok)
	assert.Equal(t, [][]byte{{'a'}, {'b'}}, got)
}

func TestMatchLiteralFails(t *testing.T) {
	e := New[byte](&charMatcher{src: []byte("ac")})
	_, ok := e.Match("a b")
	assert.False(t, ok)
}

func TestMatchAlternation(t *testing.T) {
	e := New[byte](&charMatcher{src: []byte("b")})
	got, ok := e.Match("a|b")
	require.True(t, ok)
	assert.Equal(t, [][]byte{{'b'}}, got)
}

func TestMatchDotMatchesAny(t *testing.T) {
	e := New[byte](&charMatcher{src: []byte("z")})
	got, ok := e.Match(".")
	require.True(t, ok)
	assert.Equal(t, [][]byte{{'z'}}, got)
}

// TestStarIsSemiGreedy exercises the property named in the package comment:
// a "*" quantifier first tries the longest run of matches, then backs off
// one at a time until the remainder of the expression also completes.
func TestStarIsSemiGreedy(t *testing.T) {
	e := New[byte](&charMatcher{src: []byte("aaa")})
	got, ok := e.Match("a* a")
	require.True(t, ok)
	// the greedy 3-a run leaves nothing for the trailing literal "a", so
	// the engine must back off to a 2-a run.
	assert.Equal(t, [][]byte{{'a', 'a'}, {'a'}}, got)
}

func TestStarCanMatchZero(t *testing.T) {
	e := New[byte](&charMatcher{src: []byte("b")})
	got, ok := e.Match("a* b")
	require.True(t, ok)
	assert.Nil(t, got[0])
	assert.Equal(t, []byte{'b'}, got[1])
}

func TestPlusRequiresAtLeastOne(t *testing.T) {
	e := New[byte](&charMatcher{src: []byte("")})
	_, ok := e.Match("a+")
	assert.False(t, ok)
}

func TestPlusIsSemiGreedy(t *testing.T) {
	e := New[byte](&charMatcher{src: []byte("aaa")})
	got, ok := e.Match("a+ a")
	require.True(t, ok)
	assert.Equal(t, [][]byte{{'a', 'a'}, {'a'}}, got)
}

func TestOptionPrefersPresentThenBacksOff(t *testing.T) {
	e := New[byte](&charMatcher{src: []byte("a")})
	got, ok := e.Match("a? a")
	require.True(t, ok)
	// the greedy take (consuming the only "a") leaves nothing for the
	// trailing literal, so the engine backs off to the zero-length match.
	assert.Nil(t, got[0])
	assert.Equal(t, []byte{'a'}, got[1])
}

func TestOptionTakenWhenRestStillCompletes(t *testing.T) {
	e := New[byte](&charMatcher{src: []byte("aa")})
	got, ok := e.Match("a? a")
	require.True(t, ok)
	assert.Equal(t, []byte{'a'}, got[0])
	assert.Equal(t, []byte{'a'}, got[1])
}

func TestDeclReAndBracketSubexpression(t *testing.T) {
	e := New[byte](&charMatcher{src: []byte("ab")})
	got, ok := e.Match("[a b]")
	require.True(t, ok)
	require.Len(t, got, 1)
	assert.Equal(t, []byte{'a', 'b'}, got[0])
}

func TestMatchFromExplicitState(t *testing.T) {
	e := New[byte](&charMatcher{src: []byte("xab")})
	got, ok := e.MatchFrom(1, "a b")
	require.True(t, ok)
	assert.Equal(t, [][]byte{{'a'}, {'b'}}, got)
}
