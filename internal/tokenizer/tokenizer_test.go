package tokenizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AlCramer/msparse/internal/lex"
)

func spellings(t *testing.T, lx *lex.Lexicon, toks []lex.Key) []string {
	t.Helper()
	out := make([]string, len(toks))
	for i, k := range toks {
		out[i] = lx.Spelling(k)
	}
	return out
}

func TestGetParseBlksSimple(t *testing.T) {
	tk := New(lex.New())
	blks := tk.GetParseBlks("hello world", 1)
	require.Len(t, blks, 1)
	assert.Equal(t, 0, blks[0].S)
	assert.Equal(t, len("hello world")-1, blks[0].E)
	assert.Nil(t, blks[0].Sublst)
}

func TestGetParseBlksParens(t *testing.T) {
	tk := New(lex.New())
	src := "a (b c) d"
	blks := tk.GetParseBlks(src, 1)
	require.Len(t, blks, 3)
	assert.Nil(t, blks[0].Sublst)
	require.NotNil(t, blks[1].Sublst)
	require.Len(t, blks[1].Sublst, 1)
	assert.Nil(t, blks[2].Sublst)
}

func TestLexSimpleWords(t *testing.T) {
	lx := lex.New()
	tk := New(lx)
	blks := tk.GetParseBlks("dog runs", 1)
	require.Len(t, blks, 1)
	toks, locs := tk.Lex(blks[0])
	require.Len(t, toks, 2)
	assert.Equal(t, []string{"dog", "runs"}, spellings(t, lx, toks))
	assert.Equal(t, 0, locs[0])
	assert.Equal(t, 4, locs[1])
}

func TestLexHyphenatedWordIsOneToken(t *testing.T) {
	lx := lex.New()
	tk := New(lx)
	blks := tk.GetParseBlks("well-known fact", 1)
	toks, _ := tk.Lex(blks[0])
	require.Len(t, toks, 2)
	assert.Equal(t, "well-known", lx.Spelling(toks[0]))
}

func TestLexSplitsTrailingPunctuation(t *testing.T) {
	lx := lex.New()
	tk := New(lx)
	blks := tk.GetParseBlks("Hi.", 1)
	toks, _ := tk.Lex(blks[0])
	require.Len(t, toks, 2)
	assert.Equal(t, []string{"Hi", "."}, spellings(t, lx, toks))
}

func TestLexNumber(t *testing.T) {
	lx := lex.New()
	tk := New(lx)
	blks := tk.GetParseBlks("42 dogs", 1)
	toks, _ := tk.Lex(blks[0])
	require.Len(t, toks, 2)
	assert.Equal(t, "42", lx.Spelling(toks[0]))
}

func TestLexDecimalNumber(t *testing.T) {
	lx := lex.New()
	tk := New(lx)
	blks := tk.GetParseBlks("3.14 is pi", 1)
	toks, _ := tk.Lex(blks[0])
	require.True(t, len(toks) >= 1)
	assert.Equal(t, "3.14", lx.Spelling(toks[0]))
}

func TestLexEmptyBlock(t *testing.T) {
	tk := New(lex.New())
	toks, locs := tk.Lex(&Block{S: 0, E: -1})
	assert.Nil(t, toks)
	assert.Nil(t, locs)
}
