// Package reduct implements the reduction transforms: several passes, each
// collapsing short node sequences into a single node representing a phrase,
// verb group, determiner phrase, conjunction, or action.
package reduct

import (
	"fmt"
	"os"
	"strings"

	"github.com/AlCramer/msparse/internal/defs"
	"github.com/AlCramer/msparse/internal/lex"
	"github.com/AlCramer/msparse/internal/pgraph"
	"github.com/AlCramer/msparse/internal/seqmap"
	"github.com/AlCramer/msparse/internal/serial"
	"github.com/AlCramer/msparse/internal/xfrm"
)

// TraceRules, when set, logs each reduction applied (dev/test switch).
var TraceRules = false

func isVQual(lx *lex.Lexicon, e *pgraph.Pn) bool {
	return e != nil && e.IsVerb(lx) && !e.TestVRoot(lx, "be", "have", "do", "will", "shall")
}

// ReduceTerms reduces S..E into a single node with the given vprops/sc. If
// sc names a verb class, the verb-domain bookkeeping (tense inheritance,
// negation detection, qualifier collection, and the "was beginning to
// understand" look-left merge) runs; otherwise this just calls the graph's
// plain ReduceTerms.
func ReduceTerms(g *pgraph.Graph, S, E *pgraph.Pn, vprops defs.VProp, sc lex.Key) *pgraph.Pn {
	lx := g.Lx
	if !lx.CheckScProp(sc, defs.WPVerb) {
		return g.ReduceTerms(S, E, vprops, sc)
	}
	var terms []*pgraph.Pn
	for e := S; ; e = e.Nxt {
		if len(e.Wrds) > 0 {
			sp := strings.ToLower(lx.Spelling(e.Wrds[0]))
			if sp == "not" || sp == "never" {
				vprops |= defs.VPNeg
			}
		}
		if e.IsVerb(lx) {
			terms = append(terms, e)
		}
		if e == E {
			break
		}
	}
	vS := terms[0]
	vE := terms[len(terms)-1]
	vprops |= vS.Vprops & defs.VPTenseMask
	vprops |= vE.Vprops & defs.VPSemanticMask
	if vprops&defs.VPAtomic != 0 {
		mask := defs.VPGerund | defs.VPRoot | defs.VPSemanticMask
		vprops |= vS.Vprops & mask
	}
	if S.Prv != nil && len(S.Prv.Wrds) > 0 {
		test := strings.ToLower(lx.Spelling(S.Prv.Wrds[0]))
		switch test {
		case "i", "we", "he", "she", "they":
			vprops |= defs.VPImmutableSub
		}
	}
	var scSp string
	switch {
	case vprops&defs.VPInf != 0:
		scSp = "Inf"
	case vprops&defs.VPGerund != 0:
		scSp = "Ger"
	case vprops&defs.VPPassive != 0:
		scSp = "Pas"
	case vE.TestVRoot(lx, "be"):
		scSp = "be"
	default:
		scSp = "V"
	}
	sc = lx.ScIx(scSp)
	R := g.ReduceTerms(S, E, vprops, sc)
	R.Verbs = append([]lex.Key(nil), vE.Verbs...)
	for _, ex := range terms {
		if len(ex.Vqual) > 0 {
			R.Vqual = append(R.Vqual, ex.Vqual...)
		}
		if ex != vE && isVQual(lx, ex) {
			R.Vqual = append(R.Vqual, ex.Verbs[0])
		}
	}
	// Reduce "[was beginning][to understand]" into a single verb node.
	left := R.Prv
	if left != nil && left.IsVerb(lx) && left.TestVerbForm(lx, defs.WPVPQ) {
		vprops = R.Vprops & defs.VPSemanticMask
		R = ReduceTerms(g, left, R, vprops, lx.ScIx("V"))
	}
	return R
}

// action identifies what a reduction-rule value does to the matched node
// sequence.
type action int

const (
	actReduce  action = 0x1
	actSetProp action = 0x2
)

// ruleValue is one entry of a ReductXfrm's value table. offS/offE trim the
// matched sequence from the left/right before the action is applied.
type ruleValue struct {
	offS, offE int
	props      defs.VProp
	sc         lex.Key
	act        action
}

// Xfrm is one reduction pass: a sequence map from syntax-class sequences to
// an index into a table of ruleValues.
type Xfrm struct {
	xfrm.SeqMapBase
	values []ruleValue
}

// New returns a named, empty reduction pass.
func New(name string) *Xfrm {
	return &Xfrm{SeqMapBase: xfrm.NewSeqMapBase(name)}
}

// Define adds a rule: seq (syntax-class keys) recognized by Rules maps to
// the given reduction value. Returns false on a checksum collision (see
// seqmap.SeqMap.DefineEntry).
func (x *Xfrm) Define(seq []lex.Key, offS, offE int, props defs.VProp, sc lex.Key, act int) bool {
	ints := make([]int, len(seq))
	for i, k := range seq {
		ints[i] = int(k)
	}
	vix := len(x.values)
	x.values = append(x.values, ruleValue{offS, offE, props, sc, action(act)})
	return x.Rules.DefineEntry(ints, vix)
}

// SerializeValues writes the value table to w.
func (x *Xfrm) SerializeValues(w *serial.Writer) {
	offS := make([]int, len(x.values))
	offE := make([]int, len(x.values))
	props := make([]int, len(x.values))
	sc := make([]int, len(x.values))
	act := make([]int, len(x.values))
	for i, v := range x.values {
		offS[i], offE[i] = v.offS, v.offE
		props[i] = int(v.props)
		sc[i] = int(v.sc)
		act[i] = int(v.act)
	}
	w.EncodeIntLst(offS, 8)
	w.EncodeIntLst(offE, 8)
	w.EncodeIntLst(props, 32)
	w.EncodeIntLst(sc, 8)
	w.EncodeIntLst(act, 8)
}

// DeserializeValues reads the value table from r.
func (x *Xfrm) DeserializeValues(r *serial.Reader) {
	offS := r.DecodeIntLst(8)
	offE := r.DecodeIntLst(8)
	props := r.DecodeIntLst(32)
	sc := r.DecodeIntLst(8)
	act := r.DecodeIntLst(8)
	x.values = make([]ruleValue, len(offS))
	for i := range x.values {
		x.values[i] = ruleValue{offS[i], offE[i], defs.VProp(props[i]), lex.Key(sc[i]), action(act[i])}
	}
}

// FindRule implements xfrm.Xfrm.
func (x *Xfrm) FindRule(g *pgraph.Graph, e *pgraph.Pn) (any, bool) {
	m, ok := x.LongestMatch(e)
	if !ok {
		return nil, false
	}
	return m, true
}

// ApplyRule implements xfrm.Xfrm. It trims the matched node sequence by
// offS/offE, then either reduces the trimmed span into one node (actReduce)
// or stamps vprops across it in place (actSetProp).
func (x *Xfrm) ApplyRule(g *pgraph.Graph, e *pgraph.Pn, rule any) (*pgraph.Pn, error) {
	m := rule.(seqmap.Match)
	v := x.values[m.Value]
	nodes := m.Nodes
	S := nodes[v.offS]
	E := nodes[len(nodes)-1-v.offE]
	switch v.act {
	case actReduce:
		R := ReduceTerms(g, S, E, v.props, v.sc)
		if TraceRules {
			fmt.Fprintf(os.Stderr, "%s: reduced %d..%d -> %d\n", x.Name(), S.Handle(), E.Handle(), R.Handle())
		}
		return R.Nxt, nil
	case actSetProp:
		for n := S; ; n = n.Nxt {
			n.SetVProp(v.props)
			if n == E {
				break
			}
		}
		return E.Nxt, nil
	default:
		return nil, fmt.Errorf("reduct: unrecognized action %d", v.act)
	}
}
