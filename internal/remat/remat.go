// Package remat implements regular-expression matching over a sequence of
// arbitrary terms (parse-graph nodes, in this package's use): each re term
// matches zero or more source terms, qualifiers ?/*/+ are semi-greedy, bars
// separate variants, and square brackets (or a %name declared in advance)
// nest a sub-expression.
package remat

import (
	"strings"
)

type qualifier int

const (
	qNone qualifier = 0
	qOption qualifier = 0x1
	qZeroOrMore qualifier = 0x2
	qOneOrMore  qualifier = 0x4
)

// reTerm is one position in a compiled expression: a qualifier plus the
// ordered list of variant names/patterns accepted at that position.
type reTerm struct {
	props    qualifier
	variants []string
}

type compiled []reTerm

// Matcher must be implemented by the caller: MatchTerm attempts to match a
// single re atom (a variant string, e.g. a syntax-class name, "!wordProp",
// or ".") against the source at state, returning the consumed terms on
// success.
type Matcher[T any] interface {
	MatchTerm(state int, reTerm string) ([]T, bool)
}

// Engine compiles and runs regular expressions over a Matcher[T]'s source.
// State is a source index: it starts at 0 for Match (or at the given state
// for MatchFrom) and advances by the number of terms each atom consumes.
type Engine[T any] struct {
	m       Matcher[T]
	reDict  map[string]compiled
}

// New returns an Engine driving m.
func New[T any](m Matcher[T]) *Engine[T] {
	return &Engine[T]{m: m, reDict: map[string]compiled{}}
}

// DeclRe declares a named sub-expression (name must start with "%") that can
// then appear as a variant in a larger expression.
func (e *Engine[T]) DeclRe(name, src string) {
	if !strings.HasPrefix(name, "%") {
		panic("remat: declared re name must start with %")
	}
	e.reDict[name] = e.compileRe(src)
}

// Match matches src (via state 0) against re, returning the per-term
// matched-leaves list on success.
func (e *Engine[T]) Match(re string) ([][]T, bool) {
	compiledRe, ok := e.reDict[re]
	if !ok {
		compiledRe = e.compileRe(re)
		e.reDict[re] = compiledRe
	}
	var result [][]T
	if e.matchLst(0, compiledRe, &result) {
		return result, true
	}
	return nil, false
}

// MatchFrom is like Match but starts at an explicit state (source index).
func (e *Engine[T]) MatchFrom(state int, re string) ([][]T, bool) {
	compiledRe, ok := e.reDict[re]
	if !ok {
		compiledRe = e.compileRe(re)
		e.reDict[re] = compiledRe
	}
	var result [][]T
	if e.matchLst(state, compiledRe, &result) {
		return result, true
	}
	return nil, false
}

func (e *Engine[T]) updateState(state int, consumed []T) int { return state + len(consumed) }

func (e *Engine[T]) compileReTerm(variants *[]string, src string, i int) int {
	lsrc := len(src)
	c0 := src[i]
	if c0 == '[' {
		E := findCloser(src, i, lsrc-1)
		if E == -1 {
			panic("remat: malformed regular expression: unclosed [")
		}
		reName := "%" + src[i:E+1]
		e.DeclRe(reName, src[i+1:E])
		*variants = append(*variants, reName)
		return E + 1
	}
	if c0 == '%' || c0 == '_' || isAlnumByte(c0) || c0 == '!' || c0 == ':' {
		E := i
		for E+1 < lsrc && (isAlnumByte(src[E+1]) || src[E+1] == '_' || src[E+1] == ':' || src[E+1] == '!') {
			E++
		}
		*variants = append(*variants, src[i:E+1])
		return E + 1
	}
	if c0 == '.' {
		*variants = append(*variants, ".")
		return i + 1
	}
	panic("remat: malformed regular expression at " + src[i:])
}

func isAlnumByte(c byte) bool {
	return c >= '0' && c <= '9' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

// findCloser locates the bracket matching an opening "[" at src[i], within
// src[0:imax+1], allowing nested brackets.
func findCloser(src string, i, imax int) int {
	depth := 1
	for j := i + 1; j <= imax; j++ {
		switch src[j] {
		case '[':
			depth++
		case ']':
			depth--
			if depth == 0 {
				return j
			}
		}
	}
	return -1
}

func (e *Engine[T]) compileRe(src string) compiled {
	src = strings.TrimSpace(src)
	src = collapseBarSpace(src)
	var reLst compiled
	lsrc := len(src)
	i := 0
	for i < lsrc {
		for i < lsrc && src[i] == ' ' {
			i++
		}
		if i >= lsrc {
			break
		}
		var variants []string
		term := reTerm{}
		reLst = append(reLst, term)
		ixTerm := len(reLst) - 1
		for i < lsrc {
			i = e.compileReTerm(&variants, src, i)
			if i >= lsrc {
				break
			}
			c := src[i]
			i++
			if c == '|' {
				continue
			}
			switch c {
			case '*':
				reLst[ixTerm].props = qZeroOrMore
			case '+':
				reLst[ixTerm].props = qOneOrMore
			case '?':
				reLst[ixTerm].props = qOption
			}
			break
		}
		reLst[ixTerm].variants = variants
	}
	return reLst
}

func collapseBarSpace(src string) string {
	var b strings.Builder
	i := 0
	for i < len(src) {
		if src[i] == ' ' || src[i] == '|' {
			j := i
			sawBar := false
			for j < len(src) && (src[j] == ' ' || src[j] == '|') {
				if src[j] == '|' {
					sawBar = true
				}
				j++
			}
			if sawBar {
				b.WriteByte('|')
			} else {
				b.WriteString(src[i:j])
			}
			i = j
			continue
		}
		b.WriteByte(src[i])
		i++
	}
	return b.String()
}

func (e *Engine[T]) matchLst(state int, reLst compiled, matLst *[][]T) bool {
	ixRe := len(*matLst)
	if ixRe == len(reLst) {
		return true
	}
	for {
		term := reLst[ixRe]
		if term.props != qNone {
			break
		}
		terms, ok := e.matchVariants(state, term.variants)
		if !ok {
			return false
		}
		*matLst = append(*matLst, terms)
		state = e.updateState(state, terms)
		ixRe++
		if ixRe == len(reLst) {
			return true
		}
	}
	term := reLst[ixRe]
	var modes [][]T
	var termsConsumed []T
	if term.props&(qZeroOrMore|qOption) != 0 {
		modes = append(modes, nil)
	}
	statex := state
	for {
		terms, ok := e.matchVariants(statex, term.variants)
		if !ok {
			break
		}
		termsConsumed = append(termsConsumed, terms...)
		cp := append([]T(nil), termsConsumed...)
		modes = append(modes, cp)
		statex = e.updateState(statex, terms)
		if term.props&qOption != 0 {
			break
		}
	}
	if len(modes) == 0 {
		return false
	}
	nMatLst := len(*matLst)
	for i := len(modes) - 1; i >= 0; i-- {
		*matLst = (*matLst)[:nMatLst]
		*matLst = append(*matLst, modes[i])
		newstate := e.updateState(state, modes[i])
		if e.matchLst(newstate, reLst, matLst) {
			return true
		}
	}
	return false
}

func (e *Engine[T]) matchVariant(state int, v string) ([]T, bool) {
	var terms []T
	if strings.HasPrefix(v, "%") {
		var result [][]T
		if !e.matchLst(state, e.reDict[v], &result) {
			return nil, false
		}
		for _, r := range result {
			terms = append(terms, r...)
		}
		return terms, true
	}
	t, ok := e.m.MatchTerm(state, v)
	if !ok {
		return nil, false
	}
	return t, true
}

func (e *Engine[T]) matchVariants(state int, variants []string) ([]T, bool) {
	for _, v := range variants {
		if terms, ok := e.matchVariant(state, v); ok {
			return terms, true
		}
	}
	return nil, false
}

