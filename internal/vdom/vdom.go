// Package vdom resolves verb domains: given a verb complex with Q and
// subject relations already set, it assigns object relations, folds
// conjoined actions and subordinate clauses into their governing verb, and
// straightens out predicate queries and left-adjuncts.
//
// A verb domain is a contiguous run of words centered on a verb. To its
// left are Q and subject terms; to its right, object terms. Binding
// priority is subject first, then qualification, then object. The verb
// domain list (vdl) threads the complex's top-level nodes left to right via
// Vnxt/Vprv; Parse owns this list as a local value instead of the package
// global the original implementation used, so multiple parses never share
// mutable state.
package vdom

import (
	"github.com/AlCramer/msparse/internal/defs"
	"github.com/AlCramer/msparse/internal/lex"
	"github.com/AlCramer/msparse/internal/pgraph"
)

func isNVexpr(e *pgraph.Pn) bool      { return e != nil && e.CheckVProp(defs.VPNVexpr) }
func isAgentAction(e *pgraph.Pn) bool { return e != nil && e.CheckVProp(defs.VPAgentAction) }

func hasMutableSub(lx *lex.Lexicon, e *pgraph.Pn) bool {
	return e != nil && e.IsVerb(lx) && !e.CheckVProp(defs.VPImmutableSub)
}

func isSubordCl(v *pgraph.Pn) bool { return v != nil && v.CheckVProp(defs.VPSubordCl) }

// resolver holds the state threaded through a single verb-domain resolution
// pass: the graph, its lexicon, and the local verb-domain list.
type resolver struct {
	g   *pgraph.Graph
	lx  *lex.Lexicon
	vdl *pgraph.Pn
}

func (r *resolver) vdlJoin(left, right *pgraph.Pn) {
	if left != nil {
		left.Vnxt = right
	}
	if right != nil {
		right.Vprv = left
	}
}

// vdlRemove removes v from the vdl; a no-op if v is not in it.
func (r *resolver) vdlRemove(v *pgraph.Pn) {
	if v == r.vdl {
		r.vdl = v.Vnxt
		if r.vdl != nil {
			r.vdl.Vprv = nil
		}
		return
	}
	r.vdlJoin(v.Vprv, v.Vnxt)
}

// vdlInsert inserts e into the vdl immediately before v.
func (r *resolver) vdlInsert(v, e *pgraph.Pn) {
	if v == r.vdl {
		r.vdlJoin(e, v)
		r.vdl = e
		return
	}
	r.vdlJoin(v.Vprv, e)
	r.vdlJoin(e, v)
}

func (r *resolver) getFirstVerb() *pgraph.Pn {
	for e := r.vdl; e != nil; e = e.Vnxt {
		if e.IsVerb(r.lx) {
			return e
		}
	}
	return nil
}

// prv/nxt walk the vdl, not Prv/Nxt, offset positions back/forward.
func prv(e *pgraph.Pn, offset int) *pgraph.Pn {
	for ; offset > 0 && e != nil; offset-- {
		e = e.Vprv
	}
	return e
}

func nxt(e *pgraph.Pn, offset int) *pgraph.Pn {
	for ; offset > 0 && e != nil; offset-- {
		e = e.Vnxt
	}
	return e
}

func (r *resolver) addModifies(v *pgraph.Pn, es ...*pgraph.Pn) {
	for _, e := range es {
		r.vdlRemove(e)
		e.SetScope(v, defs.SRModifies)
	}
}

func (r *resolver) addObj(v *pgraph.Pn, es ...*pgraph.Pn) {
	for _, e := range es {
		r.vdlRemove(e)
		e.SetScope(v, defs.SRTheme)
	}
}

// unreduce undoes a previous reduction: ixrel must be SRAgent, SRIsQby, or
// SRVconj. The unbound nodes are reassigned to v's left domain's object
// list, or reinserted into the vdl if v has no left domain.
func (r *resolver) unreduce(v *pgraph.Pn, ixrel defs.SR) {
	lst := v.Rel[ixrel]
	if len(lst) == 0 {
		return
	}
	v.Rel[ixrel] = nil
	if v.VdLeft != nil {
		r.addObj(v.VdLeft, lst...)
		return
	}
	for _, e := range lst {
		e.UnsetScope()
		r.vdlInsert(v, e)
	}
}

// reduce: ixrel must be SRAgent, SRIsQby, or SRVconj.
func (r *resolver) reduce(v *pgraph.Pn, ixrel defs.SR, es ...*pgraph.Pn) {
	for _, e := range es {
		if ixrel == defs.SRAgent {
			// reducing by subject implicitly undoes any Q relation.
			r.unreduce(v, defs.SRIsQby)
		}
		r.unreduce(v, ixrel)
		e.SetScope(v, ixrel)
		r.vdlRemove(e)
	}
}

func (r *resolver) reduceS(v, e *pgraph.Pn)           { r.reduce(v, defs.SRAgent, e) }
func (r *resolver) reduceQ(v, e *pgraph.Pn)           { r.reduce(v, defs.SRIsQby, e) }
func (r *resolver) reduceConjAction(v, e *pgraph.Pn)  { r.reduce(v, defs.SRVconj, e) }
func (r *resolver) unreduceS(v *pgraph.Pn)            { r.unreduce(v, defs.SRAgent) }
func (r *resolver) unreduceQ(v *pgraph.Pn)            { r.unreduce(v, defs.SRIsQby) }

func findSc(lx *lex.Lexicon, lst []*pgraph.Pn, mask defs.WProp) int {
	for i, e := range lst {
		if e.CheckSc(lx, mask) {
			return i
		}
	}
	return -1
}

func matchSc(lx *lex.Lexicon, lst []*pgraph.Pn, pat []defs.WProp) bool {
	for i, mask := range pat {
		if i >= len(lst) || !lst[i].CheckSc(lx, mask) {
			return false
		}
	}
	return true
}

// reduceLeftAdj reduces left-adjuncts preceding the first verb domain.
func (r *resolver) reduceLeftAdj() {
	v0 := r.getFirstVerb()
	if v0 == nil {
		return
	}
	var prep *pgraph.Pn
	if ex := prv(v0, 1); ex != nil && ex.CheckSc(r.lx, defs.WPPrep|defs.WPClPrep) {
		prep = ex
	}
	if prep != nil {
		if prep.TestWrd(r.lx, "for") || prep.TestWrd(r.lx, "then") {
			return
		}
		if isNVexpr(v0) {
			v1 := nxt(v0, 1)
			if isAgentAction(v1) {
				// "On the day you left we saw mermaids"
				r.unreduceQ(v1)
				r.addModifies(v1, prep, v0)
				return
			}
			// prep clause adjuncts not containing verbs: "on monday we
			// saw mermaids".
			if len(v0.Rel[defs.SRIsQby]) > 0 {
				r.unreduceQ(v0)
				r.addModifies(v0, prep, nxt(prep, 1))
				return
			}
		}
		if isAgentAction(v0) {
			v1 := nxt(v0, 1)
			if isAgentAction(v1) {
				// "After you left the ship we saw mermaids"
				r.unreduceQ(v1)
				r.addModifies(v1, prep, v0)
				return
			}
		}
		// no other cases with an explicit prep are recognized.
		return
	}
	// no explicit prep: "The day you left the ship we saw mermaids"
	v1 := nxt(v0, 1)
	if isNVexpr(v0) {
		if isNVexpr(v1) {
			r.unreduceQ(v1)
			r.addModifies(v1, v0)
			return
		}
		if !hasMutableSub(r.lx, v1) {
			// "The day you left we saw mermaids". The mutable-sub test
			// keeps "The day you left Paris was cold" parsing as [The
			// day you left Paris] was cold.
			r.addModifies(v1, v0)
		}
	}
}

// reduceSubObj reduces subject/object relations across the verb domains.
// Returns an error if the construction lies outside the recognized model.
func (r *resolver) reduceSubObj() error {
	v := r.getFirstVerb()
	if v == nil || nxt(v, 1) == nil {
		return nil
	}
	var scope *pgraph.Pn
	peek := nxt(v, 1)
	if isNVexpr(v) {
		if hasMutableSub(r.lx, peek) {
			r.reduceS(peek, v)
			scope = peek
		} else {
			return defs.NewParseError("vdom: failed to set initial scope")
		}
	} else {
		scope = v
	}
	v = nxt(scope, 1)
	for v != nil {
		peek = nxt(v, 1)
		if isNVexpr(v) {
			if isNVexpr(peek) {
				r.addObj(scope, v, peek)
				scope = peek
				v = nxt(scope, 1)
				continue
			}
			if hasMutableSub(r.lx, peek) {
				r.reduceS(peek, v)
				r.addObj(scope, peek)
				scope = peek
				v = nxt(scope, 1)
				continue
			}
			if peek != nil {
				return defs.NewParseError("vdom: could not handle trailing term")
			}
		}
		r.addObj(scope, v)
		scope = v
		v = peek
	}
	return nil
}

// doPredicateQueries fixes object assignment for predicate queries: "is
// she pretty", "is that man the one you met yesterday". These have
// verb-subject-object form rather than subject-verb-object, and thematic
// role analysis's default object assignment can misfire when a term is an
// NVexpr.
func (r *resolver) doPredicateQueries() {
	v0 := r.getFirstVerb()
	if v0 == nil || !v0.TestVRoot(r.lx, "be") {
		return
	}
	sublst := v0.Rel[defs.SRAgent]
	if len(sublst) > 0 && !sublst[0].CheckWrdProp(r.lx, defs.WPQuery) {
		return
	}
	objlst := v0.Rel[defs.SRTheme]
	var e1, e2 *pgraph.Pn
	if len(objlst) > 0 {
		e1 = objlst[0]
	}
	if len(objlst) > 1 {
		e2 = objlst[1]
	}
	if isNVexpr(e1) {
		if e2 != nil {
			if e2.CheckVProp(defs.VPGerund) {
				// "was the guy you saw today leaving?"
				r.reduceS(e2, e1)
				return
			}
			if isNVexpr(e2) {
				// "is the ring I bought the one you liked?" — no
				// resolution required.
				return
			}
		}
		// "was the guy you saw angry"
		sub := e1.Rel[defs.SRTheme]
		if i := findSc(r.lx, sub, defs.WPMod); i != -1 {
			for _, ex := range sub[i:] {
				ex.SetScope(v0, defs.SRTheme)
			}
		}
	}
}

// resolveObjRelations reassigns object terms of verbs with weak scope:
// they compete with their parent verb for object terms.
func (r *resolver) resolveObjRelations(v *pgraph.Pn) *pgraph.Pn {
	if v.Scope == nil || !isNVexpr(v) {
		return v.Nxt
	}
	objlst := v.Rel[defs.SRTheme]
	owner := v.Scope
	prepMask := defs.WPPrep | defs.WPClPrep | defs.WPQualPrep
	for i, e := range objlst {
		if e.CheckSc(r.lx, prepMask) {
			prep := e.GetWrd(0)
			vFit := r.lx.PrepVerbFitness(prep, v.GetVRoot())
			ownerFit := r.lx.PrepVerbFitness(prep, owner.GetVRoot())
			if ownerFit != -1 && ownerFit > vFit {
				for _, ex := range objlst[i:] {
					ex.SetScope(owner, defs.SRTheme)
				}
				return v.Nxt
			}
		}
	}
	ix := -1
	switch {
	case matchSc(r.lx, objlst, []defs.WProp{prepMask, defs.WPX}):
		ix = 2
	case matchSc(r.lx, objlst, []defs.WProp{defs.WPX}):
		ix = 1
	}
	if ix != -1 {
		for _, ex := range objlst[ix:] {
			ex.SetScope(owner, defs.SRTheme)
		}
	}
	return v.Nxt
}

// Parse resolves verb domains over g's current span: it builds the local
// vdl from g's root nodes, folds conjoined actions and subordinate clauses
// into their governing verb, reduces left-adjuncts and subject/objects, and
// straightens out predicate queries and competing object relations.
func Parse(g *pgraph.Graph) error {
	r := &resolver{g: g, lx: g.Lx}
	var vdlTail *pgraph.Pn
	for e := g.Root(); e != nil; e = e.Nxt {
		if e.Scope == nil {
			e.Vnxt, e.Vprv = nil, nil
			if r.vdl == nil {
				r.vdl, vdlTail = e, e
			} else {
				r.vdlJoin(vdlTail, e)
				vdlTail = e
			}
			// If this verb domain immediately follows another, record
			// it as VdLeft: Vprv/Vnxt change under reduction, but
			// VdLeft is an invariant reference to that left neighbor.
			if left := prv(e, 1); left != nil && left.IsVerb(r.lx) {
				e.VdLeft = left
			}
		}
	}

	// reduce conjoined actions
	for e := r.getFirstVerb(); e != nil && nxt(e, 1) != nil; {
		objlst := e.Rel[defs.SRTheme]
		if n := len(objlst); n > 0 && objlst[n-1].CheckSc(r.lx, defs.WPConj) {
			r.reduceConjAction(e, nxt(e, 1))
			continue
		}
		e = nxt(e, 1)
	}

	// reduce subordinate clauses
	for e := r.getFirstVerb(); e != nil && nxt(e, 1) != nil; e = nxt(e, 1) {
		for ex := nxt(e, 1); isSubordCl(ex); ex = nxt(e, 1) {
			r.addObj(e, ex)
		}
	}

	r.reduceLeftAdj()

	if err := r.reduceSubObj(); err != nil {
		return err
	}

	r.doPredicateQueries()

	g.Walk(r.resolveObjRelations)
	return nil
}
