// Package pgraph implements the parse graph: a doubly linked list of Pn
// nodes representing the words and punctuation of a source block, together
// with the scope/relation edges that express syntax relations between them.
//
// The original implementation kept the graph's current span (eS/eE) as
// module-level globals; here it is a field of Graph so a *Graph can be
// built, parsed, and discarded independently per call, with no shared
// mutable package state between concurrent parses.
package pgraph

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/AlCramer/msparse/internal/defs"
	"github.com/AlCramer/msparse/internal/lex"
)

// Pn is a node of the parse graph: a word, a punctuation mark, or (after
// reduction) a short sequence of nodes collapsed into one.
type Pn struct {
	// span, in source-text byte offsets
	S, E int

	// list structure
	Prv, Nxt *Pn
	// Sublst holds the nodes collapsed into this one by reduction; nil
	// (not empty) for an original, un-reduced node.
	Sublst []*Pn

	// h is a stable handle, assigned in creation order, used in trace
	// output and tests instead of pointer identity.
	h int

	Scope *Pn
	Sr    defs.SR

	Vqual  []lex.Key
	Vprops defs.VProp
	Sc     lex.Key
	Wrds   []lex.Key
	Verbs  []lex.Key
	Head   []lex.Key

	// Rel holds, for i in [0,defs.NWordToVerb), the nodes in relation i
	// to this node (the inverse of Scope/Sr).
	Rel [defs.NWordToVerb][]*Pn

	Vnxt, Vprv *Pn
	VdLeft     *Pn

	// Extent is set to [self,self] when the node is created; nothing in
	// this package changes it afterwards (ValidateSpan widens S/E instead).
	ExtentS, ExtentE *Pn
}

// Handle returns the node's creation-order id.
func (e *Pn) Handle() int { return e.h }

// GetWrd returns word i of the node's word sequence.
func (e *Pn) GetWrd(i int) lex.Key { return e.Wrds[i] }

// TestWrd reports whether the node's first word's definition spells as sp
// (or, if sps has more than one element, as any of them).
func (e *Pn) TestWrd(lx *lex.Lexicon, sps ...string) bool {
	if len(e.Wrds) == 0 {
		return false
	}
	def := lx.Def(e.GetWrd(0))
	spDef := lx.Spelling(def)
	for _, sp := range sps {
		if spDef == sp {
			return true
		}
	}
	return false
}

func (e *Pn) SetVProp(v defs.VProp)        { e.Vprops |= v }
func (e *Pn) CheckVProp(m defs.VProp) bool { return e.Vprops&m != 0 }

// CheckWrdProp checks a word property on the node's first word.
func (e *Pn) CheckWrdProp(lx *lex.Lexicon, m defs.WProp) bool {
	if len(e.Wrds) == 0 {
		return false
	}
	return lx.CheckProp(e.Wrds[0], m)
}

// GetVRoot returns the first verb root associated with the node, or 0.
func (e *Pn) GetVRoot() lex.Key {
	if len(e.Verbs) == 0 {
		return 0
	}
	return e.Verbs[0]
}

// TestVRoot tests the node's verb root's spelling against sps.
func (e *Pn) TestVRoot(lx *lex.Lexicon, sps ...string) bool {
	if len(e.Verbs) == 0 {
		return false
	}
	spRoot := lx.Spelling(e.GetVRoot())
	for _, sp := range sps {
		if sp == spRoot {
			return true
		}
	}
	return false
}

// TestVerbForm tests a word-property form (WPAVGT, WPEVT, WPAVE, WPVPQ) on
// the node's first verb root.
func (e *Pn) TestVerbForm(lx *lex.Lexicon, form defs.WProp) bool {
	return len(e.Verbs) > 0 && lx.CheckProp(e.Verbs[0], form)
}

// IsVerb reports whether the node's syntax class is a verb class.
func (e *Pn) IsVerb(lx *lex.Lexicon) bool { return lx.CheckScProp(e.Sc, defs.WPVerb) }

// IsLeaf reports whether the node has no outgoing relations.
func (e *Pn) IsLeaf() bool {
	for _, lst := range e.Rel {
		if len(lst) > 0 {
			return false
		}
	}
	return true
}

// Linearize appends the node's leaves (in left-right order) to leaves.
func (e *Pn) Linearize(leaves *[]*Pn) {
	if len(e.Sublst) == 0 {
		*leaves = append(*leaves, e)
		return
	}
	for _, s := range e.Sublst {
		s.Linearize(leaves)
	}
}

// CheckSc checks a word-property mask against the node's syntax class.
func (e *Pn) CheckSc(lx *lex.Lexicon, m defs.WProp) bool { return lx.CheckScProp(e.Sc, m) }

// GetRel returns the relation index under which other is related to e, or -1.
func (e *Pn) GetRel(other *Pn) int {
	for i := range e.Rel {
		for _, x := range e.Rel[i] {
			if x == other {
				return i
			}
		}
	}
	return -1
}

// UnsetScope detaches e from its current scope, if any.
func (e *Pn) UnsetScope() {
	if e.Scope != nil {
		for i := range e.Scope.Rel {
			rset := e.Scope.Rel[i]
			for j, x := range rset {
				if x == e {
					e.Scope.Rel[i] = append(rset[:j], rset[j+1:]...)
					break
				}
			}
		}
	}
	e.Scope = nil
	e.Sr = defs.SRUndef
}

// SetScope establishes an edge from v to e under relation i, ordering v's
// relation-i set left to right by S. v == nil just clears any existing
// scope.
func (e *Pn) SetScope(v *Pn, i defs.SR) {
	if e == v {
		panic("pgraph: node cannot scope to itself")
	}
	e.UnsetScope()
	if v != nil {
		rset := v.Rel[i]
		ix := -1
		for j, x := range rset {
			if e.S <= x.S {
				ix = j
				break
			}
		}
		if ix == -1 {
			v.Rel[i] = append(rset, e)
		} else {
			v.Rel[i] = append(rset[:ix], append([]*Pn{e}, rset[ix:]...)...)
		}
		e.Scope = v
		e.Sr = i
	}
}

// ResetRel moves e's oldRel set to newRel, updating the moved nodes' Sr.
func (e *Pn) ResetRel(oldRel, newRel defs.SR) {
	e.Rel[newRel] = e.Rel[oldRel]
	e.Rel[oldRel] = nil
	for _, t := range e.Rel[newRel] {
		t.Sr = newRel
	}
}

func (e *Pn) dumpNdLst(lx *lex.Lexicon, label string, lst []*Pn) string {
	ids := make([]string, len(lst))
	for i, x := range lst {
		ids[i] = strconv.Itoa(x.h)
	}
	return fmt.Sprintf(" %s:%s", label, strings.Join(ids, ","))
}

// DumpAttr renders a one-line trace summary of the node.
func (e *Pn) DumpAttr(lx *lex.Lexicon) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d. [%d.%d]", e.h, e.S, e.E)
	if len(e.Wrds) > 0 {
		fmt.Fprintf(&b, ` "%s"`, lx.SpellWrds(e.Wrds))
	}
	if len(e.Head) > 0 {
		fmt.Fprintf(&b, ` head:"%s"`, lx.SpellWrds(e.Head))
	}
	if e.Vprops != 0 {
		b.WriteString(" VP:" + e.Vprops.Format("|"))
	}
	if int(e.Sc) < lx.ScN() {
		b.WriteString(" sc:" + lx.ScSpelling(e.Sc))
	} else {
		b.WriteString(" sc:" + strconv.Itoa(int(e.Sc)))
	}
	b.WriteString(" sr:" + e.Sr.String())
	if e.Scope != nil {
		b.WriteString(" Scp:" + strconv.Itoa(e.Scope.h))
	}
	return b.String()
}

// Printme writes a trace dump of the node and (at non-negative depth) its
// relation subtrees, to w.
func (e *Pn) Printme(lx *lex.Lexicon, w io.Writer, depth int) {
	if depth == -1 {
		fmt.Fprint(w, e.DumpAttr(lx))
		for i := range e.Rel {
			if len(e.Rel[i]) > 0 {
				fmt.Fprint(w, e.dumpNdLst(lx, defs.SR(i).String(), e.Rel[i]))
			}
		}
		fmt.Fprintln(w)
		return
	}
	indent := strings.Repeat("  ", depth)
	fmt.Fprintln(w, indent+e.DumpAttr(lx))
	for i := range e.Rel {
		if len(e.Rel[i]) > 0 {
			fmt.Fprintf(w, "%s%s", indent+"  ", defs.SR(i).String())
			for _, x := range e.Rel[i] {
				x.Printme(lx, w, depth+1)
			}
		}
	}
}

// Graph is a parse graph under construction or being transformed: the
// doubly linked node list plus the lexicon it was built against.
type Graph struct {
	Lx *lex.Lexicon

	eS, eE *Pn
	hEnum  int
}

// NewGraph returns an empty graph bound to lx.
func NewGraph(lx *lex.Lexicon) *Graph { return &Graph{Lx: lx} }

func (g *Graph) newNode(tokV lex.Key, S, E int) *Pn {
	e := &Pn{S: S, E: E}
	for i := range e.Rel {
		e.Rel[i] = nil
	}
	if tokV != -1 {
		e.Wrds = append(e.Wrds, tokV)
		e.Sc = g.computeSynClass(tokV)
		if g.Lx.CheckScProp(e.Sc, defs.WPVerb) {
			e.Verbs = append(e.Verbs, g.Lx.Def(tokV))
			e.Vprops = g.computeVerbProps(tokV)
		}
	}
	e.ExtentS, e.ExtentE = e, e
	e.h = g.hEnum
	g.hEnum++
	return e
}

func (g *Graph) computeSynClass(tokV lex.Key) lex.Key {
	sp := g.Lx.Spelling(tokV)
	c := sp[0]
	if c == ',' {
		return g.Lx.ScIx("Comma")
	}
	if !(isAlnumByte(c) || c == '_' || c == '\'') {
		return g.Lx.ScIx("Punct")
	}
	return g.Lx.SynClass(tokV)
}

func isAlnumByte(c byte) bool {
	return c >= '0' && c <= '9' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

func (g *Graph) computeVerbProps(tok lex.Key) defs.VProp {
	var p defs.VProp
	lx := g.Lx
	if lx.CheckProp(tok, defs.WPRoot) {
		p |= defs.VPRoot
	} else if lx.CheckProp(tok, defs.WPVNegContraction) {
		p |= defs.VPNeg
	}
	if lx.CheckProp(tok, defs.WPPast|defs.WPParticiple) {
		p |= defs.VPPast
	} else {
		p |= defs.VPPresent
	}
	if lx.CheckProp(tok, defs.WPGerund) {
		p |= defs.VPGerund
	}
	if lx.CheckProp(tok, defs.WPVAdj) {
		p |= defs.VPAdj
	}
	tokDef := lx.Def(tok)
	if lx.CheckProp(tokDef, defs.WPVPQ) {
		p |= defs.VPPrelude
	}
	return p
}

// Connect links lhs->rhs (either may be nil, to terminate the list).
func Connect(lhs, rhs *Pn) {
	if lhs != nil {
		lhs.Nxt = rhs
	}
	if rhs != nil {
		rhs.Prv = lhs
	}
}

// Root returns the first node of the current span.
func (g *Graph) Root() *Pn { return g.eS }

// spanSave captures the restore info for ResetSpan/RestoreSpan.
type spanSave struct {
	savedPrv, savedNxt *Pn
	prevS, prevE       *Pn
}

// ResetSpan narrows the graph's active span to [S,E], detaching it from its
// neighbors, and returns a token to restore the prior span with RestoreSpan.
func (g *Graph) ResetSpan(S, E *Pn) spanSave {
	save := spanSave{S.Prv, E.Nxt, g.eS, g.eE}
	g.eS, g.eE = S, E
	g.eS.Prv = nil
	g.eE.Nxt = nil
	return save
}

// RestoreSpan undoes a prior ResetSpan.
func (g *Graph) RestoreSpan(save spanSave) {
	g.eS.Prv = save.savedPrv
	g.eE.Nxt = save.savedNxt
	g.eS, g.eE = save.prevS, save.prevE
}

// Printme writes a trace dump of the whole graph to w.
func (g *Graph) Printme(w io.Writer, title string) {
	if title != "" {
		fmt.Fprintln(w, title)
	}
	for e := g.eS; e != nil; e = e.Nxt {
		e.Printme(g.Lx, w, -1)
	}
}

// BuildGraph constructs the initial 1:1 node-per-token graph for a block:
// toks is the token sequence, locs[i] the source offset of toks[i].
func (g *Graph) BuildGraph(toks []lex.Key, locs []int) {
	g.hEnum = 0
	g.eS, g.eE = nil, nil
	for i, tok := range toks {
		ixS := locs[i]
		sp := g.Lx.Spelling(tok)
		e := g.newNode(tok, ixS, ixS+len(sp)-1)
		if g.eS == nil {
			g.eS, g.eE = e, e
		} else {
			Connect(g.eE, e)
			g.eE = e
		}
	}
}

// RemoveNode splices e out of the graph.
func (g *Graph) RemoveNode(e *Pn) {
	switch {
	case e == g.eS && e == g.eE:
		g.eS, g.eE = nil, nil
	case e == g.eS:
		g.eS = e.Nxt
	case e == g.eE:
		g.eE = e.Prv
	}
	Connect(e.Prv, e.Nxt)
}

// ReduceTerms replaces nodes S..E (inclusive, following Nxt) with a single
// new node R; S..E become R's Sublst, and R's Wrds/Verbs are the
// concatenation of theirs. If sc is not a verb class, R.Verbs is cleared.
func (g *Graph) ReduceTerms(S, E *Pn, vprops defs.VProp, sc lex.Key) *Pn {
	R := g.newNode(-1, S.S, E.E)
	R.Vprops = vprops
	R.Sc = sc
	for e := S; ; e = e.Nxt {
		R.Sublst = append(R.Sublst, e)
		R.Wrds = append(R.Wrds, e.Wrds...)
		R.Verbs = append(R.Verbs, e.Verbs...)
		if e == E {
			break
		}
	}
	if !g.Lx.CheckScProp(sc, defs.WPVerb) {
		R.Verbs = nil
	}
	left, right := S.Prv, E.Nxt
	Connect(left, R)
	Connect(R, right)
	if R.Prv == nil {
		g.eS = R
	}
	if R.Nxt == nil {
		g.eE = R
	}
	return R
}

// GetRootNodes returns all nodes with no scope (the top-level nodes of the
// current span).
func (g *Graph) GetRootNodes() []*Pn {
	var roots []*Pn
	for e := g.eS; e != nil; e = e.Nxt {
		if e.Scope == nil {
			roots = append(roots, e)
		}
	}
	return roots
}

// ValidateRel clears and rebuilds every node's Rel slices from the
// Scope/Sr attributes of the whole span.
func (g *Graph) ValidateRel() {
	for e := g.eS; e != nil; e = e.Nxt {
		for i := range e.Rel {
			e.Rel[i] = nil
		}
	}
	for e := g.eS; e != nil; e = e.Nxt {
		if e.Scope != nil && int(e.Sr) < defs.NWordToVerb {
			e.Scope.Rel[e.Sr] = append(e.Scope.Rel[e.Sr], e)
		}
	}
}

// ValidateSpan widens each verb ancestor's S/E to cover every node in its
// scope tree.
func (g *Graph) ValidateSpan() {
	for e := g.eS; e != nil; e = e.Nxt {
		for ex := e.Scope; ex != nil; ex = ex.Scope {
			if ex.IsVerb(g.Lx) {
				if e.S < ex.S {
					ex.S = e.S
				}
				if e.E > ex.E {
					ex.E = e.E
				}
			}
		}
	}
}

// Walk invokes fn on each node of the span in order; fn returns the next
// node to visit (usually its argument's Nxt, but a rule may skip ahead).
func (g *Graph) Walk(fn func(*Pn) *Pn) {
	for e := g.eS; e != nil; {
		e = fn(e)
	}
}
