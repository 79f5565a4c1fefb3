// Package roles assigns thematic roles (agent/topic/experiencer/theme/
// auxTheme) to a verb's subject and object terms, once relate has
// established the raw SRAgent/SRTheme relation pointers. Each rule matches a
// verb's properties and its object-term sequence (via a small regular
// expression engine) and rewrites those generic pointers into the specific
// roles the verb's sense calls for.
package roles

import (
	"fmt"
	"io"

	"github.com/AlCramer/msparse/internal/defs"
	"github.com/AlCramer/msparse/internal/lex"
	"github.com/AlCramer/msparse/internal/pgraph"
	"github.com/AlCramer/msparse/internal/remat"
	"github.com/AlCramer/msparse/internal/serial"
	"github.com/AlCramer/msparse/internal/xfrm"
)

// srNone marks a rule's srSub/srInfo slot as "no role assigned" in the
// packed 8-bit rule tables (distinct from any defs.SR value).
const srNone = 0xff

// objMatcher implements remat.Matcher[*pgraph.Pn] over a verb's object-term
// list, for the regular expressions that classify object clauses.
type objMatcher struct {
	lx   *lex.Lexicon
	verb *pgraph.Pn
	src  []*pgraph.Pn
}

func (m *objMatcher) MatchTerm(state int, reTerm string) ([]*pgraph.Pn, bool) {
	if state >= len(m.src) {
		return nil, false
	}
	term := m.src[state]
	lx := m.lx
	switch {
	case reTerm == ".":
		return []*pgraph.Pn{term}, true
	case len(reTerm) > 1 && reTerm[0] == '_':
		if reTerm[1:] == lx.Spelling(term.GetWrd(0)) {
			return []*pgraph.Pn{term}, true
		}
		return nil, false
	case reTerm == "objTerm":
		if !term.CheckSc(lx, defs.WPPrep) {
			return []*pgraph.Pn{term}, true
		}
		return nil, false
	case reTerm == "objPronoun":
		if term.TestWrd(lx, "me", "you", "us", "him", "her", "them", "it") {
			return []*pgraph.Pn{term}, true
		}
		return nil, false
	case reTerm == "Prep":
		if term.CheckSc(lx, defs.WPPrep) {
			return []*pgraph.Pn{term}, true
		}
		return nil, false
	case reTerm == "qualPrep":
		if term.CheckSc(lx, defs.WPQualPrep) {
			return []*pgraph.Pn{term}, true
		}
		return nil, false
	case reTerm == "Mod":
		if term.CheckSc(lx, defs.WPMod) {
			return []*pgraph.Pn{term}, true
		}
		return nil, false
	case reTerm == "objPrep":
		if lx.PrepVerbFitness(term.GetWrd(0), m.verb.GetVRoot()) != -1 {
			return []*pgraph.Pn{term}, true
		}
		return nil, false
	case reTerm == "X":
		if lx.ScSpelling(term.Sc) == "X" {
			return []*pgraph.Pn{term}, true
		}
		return nil, false
	case reTerm == "V":
		if term.IsVerb(lx) {
			return []*pgraph.Pn{term}, true
		}
		return nil, false
	case reTerm == "SubVerb":
		if len(term.Rel[defs.SRAgent]) > 0 {
			return []*pgraph.Pn{term}, true
		}
		return nil, false
	case reTerm == "vexprTopic":
		if len(term.Rel[defs.SRIsQby]) > 0 {
			return []*pgraph.Pn{term}, true
		}
		if term.CheckVProp(defs.VPInf|defs.VPGerund) && len(term.Rel[defs.SRAgent]) == 0 {
			return []*pgraph.Pn{term}, true
		}
		return nil, false
	default:
		return nil, false
	}
}

// objRe wraps the remat engine with the verb/source context matchTerm
// needs, and the two declared sub-expressions every object clause uses.
type objRe struct {
	m      *objMatcher
	engine *remat.Engine[*pgraph.Pn]
}

func newObjRe(lx *lex.Lexicon) *objRe {
	m := &objMatcher{lx: lx}
	e := remat.New[*pgraph.Pn](m)
	e.DeclRe("%qualObjTerm", "X Prep X")
	e.DeclRe("%immedObjTerm", "[%qualObjTerm|X]")
	return &objRe{m: m, engine: e}
}

func (o *objRe) setSource(verb *pgraph.Pn, src []*pgraph.Pn) {
	o.m.verb = verb
	o.m.src = src
}

// match runs re against the current source, returning the per-term matched
// node lists (matchResult in the original) on success.
func (o *objRe) match(re string) ([][]*pgraph.Pn, bool) {
	return o.engine.Match(re)
}

func checkVSpec(vspec, m defs.VProp) bool { return vspec&m != 0 }

func setRole(e *pgraph.Pn, role defs.SR, terms []*pgraph.Pn) {
	e.Rel[role] = terms
	for _, ex := range terms {
		ex.Sr = role
	}
}

// testVerbForm tests a word-property form (AVGT/EVT/AVE) on e's verb root.
func testVerbForm(lx *lex.Lexicon, e *pgraph.Pn, form defs.WProp) bool {
	return lx.CheckProp(e.Verbs[0], form)
}

// resolveRole remaps SRSub/SRObj to the concrete role appropriate for e's
// verb; any other role passes through unchanged.
func resolveRole(lx *lex.Lexicon, e *pgraph.Pn, role defs.SR) defs.SR {
	switch role {
	case defs.SRSub:
		switch {
		case testVerbForm(lx, e, defs.WPEVT):
			return defs.SRExper
		case e.TestVRoot(lx, "be"):
			return defs.SRTopic
		default:
			return defs.SRAgent
		}
	case defs.SRObj:
		if testVerbForm(lx, e, defs.WPAVE) {
			return defs.SRExper
		}
		return defs.SRTheme
	default:
		return role
	}
}

// matchVerb reports whether v satisfies vspec's verb-side conditions.
func matchVerb(lx *lex.Lexicon, v *pgraph.Pn, vspec defs.VProp, subLst []*pgraph.Pn) bool {
	switch {
	case checkVSpec(vspec, defs.VPIsQ) && len(v.Rel[defs.SRIsQby]) == 0:
		return false
	case checkVSpec(vspec, defs.VPNotModified) && len(v.Rel[defs.SRModifies]) != 0:
		return false
	case checkVSpec(vspec, defs.VPNoSubject) && len(subLst) != 0:
		return false
	case checkVSpec(vspec, defs.VPPassive) && !v.CheckVProp(defs.VPPassive):
		return false
	case checkVSpec(vspec, defs.VPAvgt) && !testVerbForm(lx, v, defs.WPAVGT):
		return false
	case checkVSpec(vspec, defs.VPAve) && !testVerbForm(lx, v, defs.WPAVE):
		return false
	case checkVSpec(vspec, defs.VPEvt) && !testVerbForm(lx, v, defs.WPEVT):
		return false
	case checkVSpec(vspec, defs.VPBeQuery):
		if v.TestVRoot(lx, "be") {
			switch len(subLst) {
			case 0:
				return true
			case 1:
				return subLst[0].CheckWrdProp(lx, defs.WPQuery)
			}
		}
		return false
	case checkVSpec(vspec, defs.VPVAdjQuery):
		if v.CheckVProp(defs.VPAdj) || v.TestVRoot(lx, "be", "have", "do") {
			switch len(subLst) {
			case 0:
				return true
			case 1:
				return subLst[0].CheckWrdProp(lx, defs.WPQuery)
			}
		}
		return false
	}
	return true
}

// rule is one entry of a RoleXfrm's table: vSpec/objSpec describe the
// conditions for the rule to apply, srInfo the roles it assigns. srInfo[0]
// is the verb's own role (normally undef, or SRVAdj for a verb-adjunct
// rule); srInfo[1] the subject role; the rest pair up with objSpec's
// matched terms.
type rule struct {
	vSpec   defs.VProp
	objSpec string
	srInfo  []int
}

// Xfrm assigns thematic roles by matching each verb against an ordered rule
// table; the first matching rule wins.
type Xfrm struct {
	xfrm.Base
	objRe *objRe
	rules []rule
}

// New returns a named, empty role-assignment transform bound to lx.
func New(name string, lx *lex.Lexicon) *Xfrm {
	return &Xfrm{Base: xfrm.NewBase(name), objRe: newObjRe(lx)}
}

// Define appends a rule to the table.
func (x *Xfrm) Define(vSpec defs.VProp, objSpec string, srInfo []int) {
	x.rules = append(x.rules, rule{vSpec, objSpec, srInfo})
}

// SerializeValues writes the rule table to w.
func (x *Xfrm) SerializeValues(w *serial.Writer) {
	vSpec := make([]int, len(x.rules))
	objSpec := make([]string, len(x.rules))
	srInfo := make([][]int, len(x.rules))
	for i, r := range x.rules {
		vSpec[i] = int(r.vSpec)
		objSpec[i] = r.objSpec
		srInfo[i] = r.srInfo
	}
	w.EncodeIntLst(vSpec, 32)
	w.EncodeStrLst(objSpec)
	w.EncodeLstLst(srInfo, 8)
}

// DeserializeValues reads the rule table from r.
func (x *Xfrm) DeserializeValues(r *serial.Reader) {
	vSpec := r.DecodeIntLst(32)
	objSpec := r.DecodeStrLst()
	srInfo := r.DecodeLstLst(8)
	x.rules = make([]rule, len(vSpec))
	for i := range x.rules {
		x.rules[i] = rule{defs.VProp(vSpec[i]), objSpec[i], srInfo[i]}
	}
}

func srToStr(sr int) string {
	if sr == srNone {
		return "(none)"
	}
	return fmt.Sprintf("(%s)", defs.SR(sr))
}

// PrintRule writes a trace dump of rule rix to w.
func (x *Xfrm) PrintRule(w io.Writer, rix int) {
	r := x.rules[rix]
	spSrInfo := make([]string, len(r.srInfo))
	for i, sr := range r.srInfo {
		spSrInfo[i] = srToStr(sr)
	}
	fmt.Fprintf(w, "vSpec: %s srV: %s\n", r.vSpec.Format(":"), spSrInfo[0])
	fmt.Fprintf(w, "objSpec: %s\n", r.objSpec)
	fmt.Fprintf(w, "srObj:")
	for _, s := range spSrInfo[2:] {
		fmt.Fprintf(w, " %s", s)
	}
	fmt.Fprintln(w)
	if r.srInfo[1] != srNone {
		fmt.Fprintf(w, "srSub: %s\n", spSrInfo[1])
	}
	fmt.Fprintln(w)
}

// Printme writes a trace dump of the whole rule table to w.
func (x *Xfrm) Printme(w io.Writer) {
	for i := range x.rules {
		x.PrintRule(w, i)
	}
}

// ruleMatch pairs a matching rule index with its object-clause match.
type ruleMatch struct {
	rix        int
	subLst     []*pgraph.Pn
	objLst     []*pgraph.Pn
	matchResult [][]*pgraph.Pn
}

// FindRule implements xfrm.Xfrm.
func (x *Xfrm) FindRule(g *pgraph.Graph, e *pgraph.Pn) (any, bool) {
	if !e.IsVerb(g.Lx) {
		return nil, false
	}
	subLst := e.Rel[defs.SRAgent]
	objLst := e.Rel[defs.SRTheme]
	x.objRe.setSource(e, objLst)
	for i, r := range x.rules {
		if !matchVerb(g.Lx, e, r.vSpec, subLst) {
			continue
		}
		if result, ok := x.objRe.match(r.objSpec); ok {
			return ruleMatch{rix: i, subLst: subLst, objLst: objLst, matchResult: result}, true
		}
	}
	return nil, false
}

// ApplyRule implements xfrm.Xfrm.
func (x *Xfrm) ApplyRule(g *pgraph.Graph, e *pgraph.Pn, found any) (*pgraph.Pn, error) {
	lx := g.Lx
	m := found.(ruleMatch)
	r := x.rules[m.rix]
	srInfo := r.srInfo
	srV := defs.SR(srInfo[0])
	srSub := srInfo[1]

	// Prior processing placed subject terms on the agent list, object
	// terms on the theme list; save and clear them before reassigning.
	subLst := e.Rel[defs.SRAgent]
	e.Rel[defs.SRAgent] = nil
	objLst := e.Rel[defs.SRTheme]
	e.Rel[defs.SRTheme] = nil
	for _, ex := range subLst {
		ex.Sr = defs.SRUndef
	}
	for _, ex := range objLst {
		ex.Sr = defs.SRUndef
	}

	if srV == defs.SRVAdj {
		// "did she leave": e is a verb-adjunct to objLst[0], which is
		// subject-verb.
		vMain := objLst[0]
		vMain.UnsetScope()
		e.SetScope(vMain, defs.SRVAdj)
		vMain.Vprops = e.Vprops & defs.VPTenseMask
		if !e.TestVRoot(lx, "be", "have", "do", "will", "shall") {
			vMain.Vqual = append(vMain.Vqual, e.GetWrd(0))
		}
	} else {
		for i := 0; i < len(srInfo)-2; i++ {
			role := resolveRole(lx, e, defs.SR(srInfo[i+2]))
			if int(role) != srNone && i < len(m.matchResult) && len(m.matchResult[i]) > 0 {
				setRole(e, role, m.matchResult[i])
			}
		}
		if srSub != srNone {
			if role := resolveRole(lx, e, defs.SR(srSub)); int(role) != srNone {
				setRole(e, role, subLst)
			}
		}
	}

	if checkVSpec(r.vSpec, defs.VPBeQuery) || srV == defs.SRVAdj {
		// "why is she angry", "why did he leave": the main verb becomes
		// a qualifier for "why".
		if len(subLst) == 1 && subLst[0].CheckWrdProp(lx, defs.WPQuery) {
			vMain := e
			if srV == defs.SRVAdj {
				vMain = objLst[0]
			}
			vMain.UnsetScope()
			subLst[0].SetScope(vMain, defs.SRIsQby)
		}
	}
	return e.Nxt, nil
}
