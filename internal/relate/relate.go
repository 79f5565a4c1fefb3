// Package relate implements the transforms that establish syntax relations
// between parse-graph nodes: scope/relation assignment from a recognized
// syntax-class sequence, verb-complex delimiting and verb-domain resolution,
// subject-verb-to-qualified-expression inversion, and verb-conjunction
// relation sharing. Thematic roles (agent/topic/exper/...) are refined later
// by the roles package.
package relate

import (
	"fmt"
	"io"

	"github.com/AlCramer/msparse/internal/defs"
	"github.com/AlCramer/msparse/internal/pgraph"
	"github.com/AlCramer/msparse/internal/seqmap"
	"github.com/AlCramer/msparse/internal/serial"
	"github.com/AlCramer/msparse/internal/vdom"
	"github.com/AlCramer/msparse/internal/xfrm"
)

// ScSeqToSrXfrm maps a recognized syntax-class sequence to a parallel
// sequence of packed (scope-offset, relation) values, and applies those
// scope edges to the matched nodes.
type ScSeqToSrXfrm struct {
	xfrm.SeqMapBase
	srSeq [][]int
}

// NewScSeqToSrXfrm returns a named, empty instance.
func NewScSeqToSrXfrm(name string) *ScSeqToSrXfrm {
	return &ScSeqToSrXfrm{SeqMapBase: xfrm.NewSeqMapBase(name)}
}

// Define adds a rule: seq (syntax-class keys) recognized by Rules maps to
// srSeq, a parallel packed (scope-offset<<4 | relation) sequence.
func (x *ScSeqToSrXfrm) Define(seq []int, srSeq []int) bool {
	vix := len(x.srSeq)
	x.srSeq = append(x.srSeq, srSeq)
	return x.Rules.DefineEntry(seq, vix)
}

// SerializeValues writes the srSeq value table to w.
func (x *ScSeqToSrXfrm) SerializeValues(w *serial.Writer) {
	lsts := make([][]int, len(x.srSeq))
	copy(lsts, x.srSeq)
	w.EncodeLstLst(lsts, 8)
}

// DeserializeValues reads the srSeq value table from r.
func (x *ScSeqToSrXfrm) DeserializeValues(r *serial.Reader) {
	x.srSeq = r.DecodeLstLst(8)
}

// Printme writes a trace dump of the rule set and value table to w.
func (x *ScSeqToSrXfrm) Printme(w io.Writer, scToStr func(int) string, srNames func(int) string) {
	fmt.Fprintf(w, "Xfrm %q\n", x.Name())
	x.Rules.Printme(w, scToStr)
	for i, seq := range x.srSeq {
		fmt.Fprintf(w, "%d. srSeq: %s\n", i, seqmap.SrSeqToStr(srNames, seq))
	}
}

// FindRule implements xfrm.Xfrm.
func (x *ScSeqToSrXfrm) FindRule(g *pgraph.Graph, e *pgraph.Pn) (any, bool) {
	return x.LongestMatch(e)
}

// ApplyRule implements xfrm.Xfrm: for each matched node, the parallel srSeq
// entry's high 4 bits give an offset (in matched nodes) to the node it
// scopes to, and the low 4 bits the relation; an offset of 0 leaves the
// node unscoped.
func (x *ScSeqToSrXfrm) ApplyRule(g *pgraph.Graph, e *pgraph.Pn, rule any) (*pgraph.Pn, error) {
	m := rule.(seqmap.Match)
	ndSeq := m.Nodes
	srSeq := x.srSeq[m.Value]
	for i := 0; i < len(ndSeq); i++ {
		t := srSeq[i]
		offset := 0xf & (t >> 4)
		sr := defs.SR(0xf & t)
		if i+offset >= len(ndSeq) {
			return nil, fmt.Errorf("relate: srSeq offset out of range")
		}
		if offset != 0 {
			ndSeq[i].SetScope(ndSeq[i+offset], sr)
		}
	}
	return ndSeq[len(ndSeq)-1].Nxt, nil
}

// SrXfrm delimits verb complexes (a prelude of non-verb terms followed by
// one or more verb domains) and assigns any remaining unscoped term in the
// complex a theme relation to the nearest preceding verb, then resolves the
// verb domain(s) of the complex.
type SrXfrm struct {
	xfrm.Base
}

// NewSrXfrm returns a named SrXfrm.
func NewSrXfrm(name string) *SrXfrm { return &SrXfrm{Base: xfrm.NewBase(name)} }

// canExtendComplex reports whether e can extend the current verb complex.
func canExtendComplex(g *pgraph.Graph, e *pgraph.Pn) bool {
	if e == nil || e.CheckSc(g.Lx, defs.WPPunct) {
		return false
	}
	// In general a conjunction ends the complex; but not if it joins an
	// action ("and see what was there").
	if e.CheckSc(g.Lx, defs.WPConj) {
		nxt := e.Nxt
		return nxt != nil && nxt.IsVerb(g.Lx) &&
			len(nxt.Rel[defs.SRAgent]) == 0 && len(nxt.Rel[defs.SRIsQby]) == 0
	}
	return true
}

// FindRule implements xfrm.Xfrm.
func (x *SrXfrm) FindRule(g *pgraph.Graph, e *pgraph.Pn) (any, bool) {
	if e.CheckSc(g.Lx, defs.WPPunct|defs.WPConj) {
		return nil, false
	}
	sawVerb := false
	ex := e
	for {
		if ex.IsVerb(g.Lx) {
			sawVerb = true
		}
		if !canExtendComplex(g, ex.Nxt) {
			break
		}
		ex = ex.Nxt
	}
	if !sawVerb {
		return nil, false
	}
	return [2]*pgraph.Pn{e, ex}, true
}

// ApplyRule implements xfrm.Xfrm.
func (x *SrXfrm) ApplyRule(g *pgraph.Graph, e *pgraph.Pn, rule any) (*pgraph.Pn, error) {
	span := rule.([2]*pgraph.Pn)
	S, E := span[0], span[1]
	save := g.ResetSpan(S, E)
	var scope *pgraph.Pn
	for ex := S; ; ex = ex.Nxt {
		if ex.IsVerb(g.Lx) {
			scope = ex
		} else if ex.Scope == nil && scope != nil {
			ex.SetScope(scope, defs.SRTheme)
		}
		if ex == E {
			break
		}
	}
	err := vdom.Parse(g)
	g.RestoreSpan(save)
	if err != nil {
		return nil, err
	}
	return E.Nxt, nil
}

// SvToQXfrm context-dependently rewrites a subject-position verb (gerund, or
// query-word head) into a Q (query-by) relation, so InvertQXfrm can later
// promote it into a qualifying clause.
type SvToQXfrm struct {
	xfrm.Base
}

// NewSvToQXfrm returns a named SvToQXfrm.
func NewSvToQXfrm(name string) *SvToQXfrm { return &SvToQXfrm{Base: xfrm.NewBase(name)} }

func inSubRole(e *pgraph.Pn) bool {
	return e.Sr == defs.SRAgent || e.Sr == defs.SRExper || e.Sr == defs.SRTopic
}

// FindRule implements xfrm.Xfrm.
func (x *SvToQXfrm) FindRule(g *pgraph.Graph, e *pgraph.Pn) (any, bool) {
	switch {
	case e.CheckVProp(defs.VPGerund):
		if inSubRole(e) {
			// "the girl sitting there" in subject role.
			return e, true
		}
		if e.Sr == defs.SRTheme || e.Sr == defs.SRAuxTheme {
			if e.Scope != nil && len(e.Scope.Rel[defs.SRTheme]) > 0 && len(e.Scope.Rel[defs.SRAuxTheme]) > 0 {
				// object term in AGVT context: "I gave the guy sitting
				// there an apple".
				return e, true
			}
		}
	case g.Lx.CheckScProp(e.Sc, defs.WPQuery) && inSubRole(e) && e.Scope != nil && len(e.Scope.Rel[defs.SRIsQby]) == 0:
		// "who ate the cake".
		return e.Scope, true
	}
	return nil, false
}

// ApplyRule implements xfrm.Xfrm.
func (x *SvToQXfrm) ApplyRule(g *pgraph.Graph, e *pgraph.Pn, rule any) (*pgraph.Pn, error) {
	v := rule.(*pgraph.Pn)
	switch {
	case len(v.Rel[defs.SRAgent]) > 0:
		v.ResetRel(defs.SRAgent, defs.SRIsQby)
	case len(v.Rel[defs.SRExper]) > 0:
		v.ResetRel(defs.SRExper, defs.SRIsQby)
	case len(v.Rel[defs.SRTopic]) > 0:
		v.ResetRel(defs.SRTopic, defs.SRIsQby)
	}
	return v.Nxt, nil
}

// PostXfrm implements xfrm.PostHook.
func (x *SvToQXfrm) PostXfrm(g *pgraph.Graph) { g.ValidateRel() }

// InvertQXfrm inverts a Q expression: given "the girl you saw", the head
// noun takes over the verb's (scope, relation), and the verb becomes a
// modifier of the noun.
type InvertQXfrm struct {
	xfrm.Base
}

// NewInvertQXfrm returns a named InvertQXfrm.
func NewInvertQXfrm(name string) *InvertQXfrm { return &InvertQXfrm{Base: xfrm.NewBase(name)} }

// FindRule implements xfrm.Xfrm.
func (x *InvertQXfrm) FindRule(g *pgraph.Graph, e *pgraph.Pn) (any, bool) {
	if e.Sr == defs.SRIsQby {
		return e, true
	}
	return nil, false
}

// ApplyRule implements xfrm.Xfrm.
func (x *InvertQXfrm) ApplyRule(g *pgraph.Graph, e *pgraph.Pn, rule any) (*pgraph.Pn, error) {
	q := rule.(*pgraph.Pn)
	v := q.Scope
	q.Scope = v.Scope
	q.Sr = v.Sr
	v.Sr = defs.SRModifies
	v.Scope = q
	return q.Nxt, nil
}

// PostXfrm implements xfrm.PostHook: once Q expressions are inverted, the
// domain of each verb expression is settled, so spans can be widened to
// cover it.
func (x *InvertQXfrm) PostXfrm(g *pgraph.Graph) {
	g.ValidateRel()
	g.ValidateSpan()
}

// VconjXfrm shares a conjoined verb's relations with its peer, and folds the
// conjunction word into the conjoined verb's head.
type VconjXfrm struct {
	xfrm.Base
}

// NewVconjXfrm returns a named VconjXfrm.
func NewVconjXfrm(name string) *VconjXfrm { return &VconjXfrm{Base: xfrm.NewBase(name)} }

// FindRule implements xfrm.Xfrm.
func (x *VconjXfrm) FindRule(g *pgraph.Graph, e *pgraph.Pn) (any, bool) {
	if e.Sr == defs.SRVconj {
		return e, true
	}
	return nil, false
}

// ApplyRule implements xfrm.Xfrm.
func (x *VconjXfrm) ApplyRule(g *pgraph.Graph, e *pgraph.Pn, rule any) (*pgraph.Pn, error) {
	peer := e.Scope
	scope := peer.Scope
	e.Scope = scope
	e.Sr = peer.Sr
	e.Rel[defs.SRAgent] = append(e.Rel[defs.SRAgent], peer.Rel[defs.SRAgent]...)
	e.Rel[defs.SRExper] = append(e.Rel[defs.SRExper], peer.Rel[defs.SRExper]...)
	if scope != nil {
		if relIx := scope.GetRel(peer); relIx != -1 {
			scope.Rel[relIx] = append(scope.Rel[relIx], e)
		}
	}
	conj := e.Prv
	e.Head = append(e.Head, conj.Wrds...)
	g.RemoveNode(conj)
	conj.Scope = scope
	return e.Nxt, nil
}
