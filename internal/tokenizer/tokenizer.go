// Package tokenizer breaks source text into parse blocks (regions bounded
// by bracket/quote nesting) and lexes the words and punctuation within a
// block into a sequence of lexicon keys, expanding contractions, applying
// rewrite rules, and merging proper names along the way.
package tokenizer

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/AlCramer/msparse/internal/defs"
	"github.com/AlCramer/msparse/internal/lex"
)

// Block is a region of source text to be lexed and parsed as a unit, or (if
// Sublst is non-nil) a quoted/parenthesized region whose content is itself a
// list of blocks.
type Block struct {
	S, E   int
	Sublst []*Block
}

// Tokenizer holds the per-call state needed to lex a chunk of source text:
// the text itself and its line/column maps. One Tokenizer is built per
// parse call; nothing here is shared across calls.
type Tokenizer struct {
	Lx *lex.Lexicon

	src    string
	lnoMap []int
	colMap []int
}

// New returns a Tokenizer bound to lx.
func New(lx *lex.Lexicon) *Tokenizer { return &Tokenizer{Lx: lx} }

// Src returns the source text GetParseBlks was last called with.
func (t *Tokenizer) Src() string { return t.src }

// LineOf returns the source line number of offset ix.
func (t *Tokenizer) LineOf(ix int) int { return t.lnoMap[ix] }

// ColOf returns the source column number of offset ix.
func (t *Tokenizer) ColOf(ix int) int { return t.colMap[ix] }

func isWrdChar(i, E int, src string) bool {
	if i > E {
		return false
	}
	c := rune(src[i])
	if unicode.IsLetter(c) || unicode.IsDigit(c) || c == '_' || c == '\'' {
		return true
	}
	if c == '-' {
		return i > 0 && isAlnumRune(rune(src[i-1])) && i+1 <= E && isAlnumRune(rune(src[i+1]))
	}
	return false
}

func isAlnumRune(c rune) bool { return unicode.IsLetter(c) || unicode.IsDigit(c) }

func isDotLetterSeq(i, E int, src string) bool {
	if i+2 <= E && src[i] == '.' && isAlnumRune(rune(src[i+1])) {
		return i+2 >= E || !isAlnumRune(rune(src[i+2]))
	}
	return false
}

// lexWrd lexes a word/number/abbreviation starting at src[i], returning the
// index of its last character.
func (t *Tokenizer) lexWrd(i, E int) int {
	src := t.src
	S := i
	if unicode.IsDigit(rune(src[i])) {
		for i+1 < E {
			if unicode.IsDigit(rune(src[i+1])) {
				i++
				continue
			}
			if src[i+1] == '.' || src[i+1] == ',' {
				if unicode.IsDigit(rune(src[i])) && i+2 <= E && unicode.IsDigit(rune(src[i+2])) {
					i += 2
					continue
				}
			}
			break
		}
		for isWrdChar(i+1, E, src) {
			i++
		}
		return i
	}
	if isDotLetterSeq(i+1, E, src) {
		for isDotLetterSeq(i+1, E, src) {
			i += 2
		}
		if i+1 <= E && src[i+1] == '.' {
			i++
		}
		return i
	}
	for isWrdChar(i+1, E, src) {
		i++
	}
	if i+1 <= E && src[i+1] == '.' {
		sp := src[S : i+1]
		tok := t.Lx.Lookup(strings.ToLower(sp), false)
		if t.Lx.CheckProp(tok, defs.WPAbbrev) {
			i++
		}
	}
	return i
}

// appendContract appends the token(s) for word sp (starting at source
// offset S), expanding a contraction if sp contains an apostrophe that
// doesn't resolve via a rewrite rule.
func (t *Tokenizer) appendContract(S int, sp string, toks *[]lex.Key, tokLoc *[]int) {
	key := t.Lx.Lookup(strings.ToLower(sp), false)
	if key != 0 {
		if rule := t.Lx.FindRewrite([]lex.Key{key}, 0); rule != nil {
			rhs := t.Lx.RhsRewrite(rule, unicode.IsUpper(rune(sp[0])))
			for _, e := range rhs {
				*toks = append(*toks, e)
				*tokLoc = append(*tokLoc, S)
			}
			return
		}
	}
	terms := strings.Split(sp, "'")
	if len(terms) == 2 {
		t0, t1 := terms[0], terms[1]
		t0lc, t1lc := strings.ToLower(t0), strings.ToLower(t1)
		l0 := len(t0)
		switch {
		case l0 > 2 && strings.HasSuffix(t0lc, "n") && t1lc == "t":
			*toks = append(*toks, t.Lx.GetVocab(t0[:l0-1]), t.Lx.GetVocab("not"))
			*tokLoc = append(*tokLoc, S, S)
			return
		case l0 >= 1 && t1lc == "re":
			*toks = append(*toks, t.Lx.GetVocab(t0), t.Lx.GetVocab("are"))
			*tokLoc = append(*tokLoc, S, S)
			return
		case l0 >= 1 && t1lc == "ll":
			*toks = append(*toks, t.Lx.GetVocab(t0), t.Lx.GetVocab("will"))
			*tokLoc = append(*tokLoc, S, S)
			return
		case l0 >= 1 && t1lc == "ve":
			*toks = append(*toks, t.Lx.GetVocab(t0), t.Lx.GetVocab("have"))
			*tokLoc = append(*tokLoc, S, S)
			return
		case t1lc == "s" || t1lc == "d":
			*toks = append(*toks, t.Lx.GetVocab(t0), t.Lx.GetVocab("'"+t1))
			*tokLoc = append(*tokLoc, S, S)
			return
		}
	}
	*toks = append(*toks, t.Lx.GetVocab(sp))
	*tokLoc = append(*tokLoc, S)
}

// applyRewriteRules rewrites the token sequence per the lexicon's rewrite
// rules, approximating a multi-token replacement's location as the first
// lhs term's location, except the last rhs term, which takes the last lhs
// term's location.
func (t *Tokenizer) applyRewriteRules(toks []lex.Key, tokLoc []int) ([]lex.Key, []int) {
	var outToks []lex.Key
	var outLoc []int
	i := 0
	for i < len(toks) {
		rule := t.Lx.FindRewrite(toks, i)
		if rule == nil {
			outToks = append(outToks, toks[i])
			outLoc = append(outLoc, tokLoc[i])
			i++
			continue
		}
		nLhs := len(rule.Lhs)
		sFirst, sLast := tokLoc[i], tokLoc[i+nLhs-1]
		wantUpper := isUpperSp(t.Lx.Spelling(toks[i]))
		terms := t.Lx.RhsRewrite(rule, wantUpper)
		for j, term := range terms {
			s := sFirst
			if j == len(terms)-1 {
				s = sLast
			}
			outToks = append(outToks, term)
			outLoc = append(outLoc, s)
		}
		i += nLhs
	}
	return outToks, outLoc
}

func isUpperSp(sp string) bool {
	for _, r := range sp {
		return unicode.IsUpper(r)
	}
	return false
}

func (t *Tokenizer) canBeProperName(i int, toks []lex.Key) bool {
	if i >= len(toks) {
		return false
	}
	sp := t.Lx.Spelling(toks[i])
	r := []rune(sp)
	if len(r) > 1 && unicode.IsUpper(r[0]) && unicode.IsLower(r[1]) {
		props := t.Lx.Props(toks[i])
		if props&defs.WPN != 0 {
			return true
		}
		return props == 0
	}
	return false
}

func (t *Tokenizer) canBeMI(i int, toks []lex.Key) bool {
	if i+1 >= len(toks) {
		return false
	}
	sp := t.Lx.Spelling(toks[i])
	spnxt := t.Lx.Spelling(toks[i+1])
	r := []rune(sp)
	return len(r) == 1 && unicode.IsUpper(r[0]) && spnxt == "."
}

// rewriteProperNames merges adjacent proper-name-shaped tokens ("John F.
// Kennedy") into a single token.
func (t *Tokenizer) rewriteProperNames(toks []lex.Key, tokLoc []int) ([]lex.Key, []int) {
	var outToks []lex.Key
	var outLoc []int
	i := 0
	for i < len(toks) {
		if t.canBeProperName(i, toks) {
			S, E := i, i
			spSeq := []string{t.Lx.Spelling(toks[S])}
			for {
				if t.canBeProperName(E+1, toks) {
					spSeq = append(spSeq, t.Lx.Spelling(toks[E+1]))
					E++
					continue
				}
				if t.canBeMI(E+1, toks) {
					spSeq = append(spSeq, t.Lx.Spelling(toks[E+1])+".")
					E += 2
					continue
				}
				break
			}
			if E > S {
				spAll := strings.Join(spSeq, " ")
				outToks = append(outToks, t.Lx.GetVocab(spAll))
				outLoc = append(outLoc, tokLoc[i])
				i = E + 1
				continue
			}
		}
		outToks = append(outToks, toks[i])
		outLoc = append(outLoc, tokLoc[i])
		i++
	}
	return outToks, outLoc
}

// Lex tokenizes the source text spanned by blk, returning the lexicon-key
// sequence and, for each token, the source offset of its first character.
func (t *Tokenizer) Lex(blk *Block) ([]lex.Key, []int) {
	S, E := blk.S, blk.E
	if t.src == "" || E < S {
		return nil, nil
	}
	var toks []lex.Key
	var tokLoc []int
	src := t.src
	i := S
	for i <= E {
		c := src[i]
		if c == ' ' || c == '\t' || c == '\r' || c == '\n' {
			i++
			continue
		}
		s := i
		if src[i] == '-' {
			for i <= E && src[i] == '-' {
				i++
			}
			toks = append(toks, t.Lx.GetVocab(src[s:i]))
			tokLoc = append(tokLoc, s)
			continue
		}
		if src[i] == '$' && isWrdChar(i+1, E, src) {
			i++
		}
		if isWrdChar(i, E, src) {
			ixE := t.lexWrd(i, E)
			sp := src[s : ixE+1]
			if strings.Count(sp, "'") == 0 {
				toks = append(toks, t.Lx.GetVocab(sp))
				tokLoc = append(tokLoc, s)
			} else {
				t.appendContract(s, sp, &toks, &tokLoc)
			}
			i = ixE + 1
			continue
		}
		toks = append(toks, t.Lx.GetVocab(string(src[i])))
		tokLoc = append(tokLoc, s)
		i++
	}
	toks, tokLoc = t.applyRewriteRules(toks, tokLoc)
	return t.rewriteProperNames(toks, tokLoc)
}

func isOpener(c byte) bool {
	return c == '(' || c == '{' || c == '[' || c == '\'' || c == '"'
}

func findCloser(src string, i, imax int) int {
	opener := src[i]
	closer := opener
	i++
	if i > imax {
		return -1
	}
	switch opener {
	case '{':
		closer = '}'
	case '[':
		closer = ']'
	case '(':
		closer = ')'
	}
	for i <= imax {
		if src[i] == closer {
			return i
		}
		if isOpener(src[i]) {
			e := findCloser(src, i, imax)
			if e == -1 {
				i++
			} else {
				i = e + 1
			}
			continue
		}
		i++
	}
	return -1
}

func getParseBlks(src string, i, imax int) []*Block {
	var lst []*Block
	for i <= imax {
		var e int
		if isOpener(src[i]) {
			e = findCloser(src, i, imax)
			if e == -1 {
				i++
				continue
			}
			content := getParseBlks(src, i+1, e-1)
			if len(content) > 0 {
				lst = append(lst, &Block{S: i + 1, E: e - 1, Sublst: content})
			}
		} else {
			e = i
			for e+1 <= imax {
				if isOpener(src[e+1]) {
					break
				}
				e++
			}
			lst = append(lst, &Block{S: i, E: e})
		}
		i = e + 1
	}
	return lst
}

var (
	contractTick1 = regexp.MustCompile(`(\w+)'(\w+)`)
	contractTick2 = regexp.MustCompile(`''(\w+)`)
	contractTick3 = regexp.MustCompile(`(\w+)''`)
)

// GetParseBlks records src (and its line/column maps, with lno as the first
// line number) and breaks it into a sequence of top-level parse blocks,
// recursing into bracket/quote nesting.
func (t *Tokenizer) GetParseBlks(sourceText string, lno int) []*Block {
	t.src = sourceText
	t.lnoMap = make([]int, len(sourceText))
	t.colMap = make([]int, len(sourceText))
	col := 1
	for i := 0; i < len(sourceText); i++ {
		t.lnoMap[i] = lno
		t.colMap[i] = col
		col++
		if sourceText[i] == '\n' {
			lno++
			col = 1
		}
	}
	rewritten := sourceText
	rewritten = contractTick1.ReplaceAllString(rewritten, "${1}~${2}")
	rewritten = contractTick2.ReplaceAllString(rewritten, "'~${1}")
	rewritten = contractTick3.ReplaceAllString(rewritten, "${1}~'")
	rewritten = strings.ReplaceAll(rewritten, "'em", "~em")
	rewritten = strings.ReplaceAll(rewritten, "'tis", "~tis")
	rewritten = strings.ReplaceAll(rewritten, "'twas", "~twas")
	return getParseBlks(rewritten, 0, len(rewritten)-1)
}
