// Package msparse is a rule-driven parser for English: it recognizes a
// lexicon, tokenizes source text into word/punctuation sequences, builds a
// parse graph over each block, applies reduction and relation transforms to
// resolve phrase structure and thematic roles, and flattens the result into
// a simplified output tree suitable for an external API.
//
// Parsing proceeds in two phases, both implemented as Xfrms: in reduction,
// short node sequences (simple phrases, multi-word verb forms) collapse
// into a single node; in relation, the top-level nodes of the graph are
// walked and syntax relations established between them. After the graph is
// fully resolved, a final top-down walk builds the MSNode tree client code
// actually consumes.
package msparse

import (
	"io"

	"github.com/AlCramer/msparse/internal/defs"
	"github.com/AlCramer/msparse/internal/lex"
	"github.com/AlCramer/msparse/internal/msnode"
	"github.com/AlCramer/msparse/internal/pgraph"
	"github.com/AlCramer/msparse/internal/reduct"
	"github.com/AlCramer/msparse/internal/relate"
	"github.com/AlCramer/msparse/internal/roles"
	"github.com/AlCramer/msparse/internal/serial"
	"github.com/AlCramer/msparse/internal/tokenizer"
	"github.com/AlCramer/msparse/internal/version"
	"github.com/AlCramer/msparse/internal/xfrm"
)

// Version identifies this build's rule tables, for compatibility checks
// against a serialized table file.
const Version = version.Current

// Node kinds: meta-syntactic category for a top-level node, or (for an
// interior node) its relation to its parent.
const (
	KindPunct = "punct"
	KindQuote = "quote"
	KindParen = "paren"
	KindAssert = "assert"
	KindQuery  = "query"
	KindImper  = "imperative"
	KindPhr    = "phr"
)

// Node forms: the syntax form of a leaf or clause node.
const (
	FormX          = "X"
	FormMod        = "mod"
	FormN          = "N"
	FormConjWrd    = "conj"
	FormVerbClause = "verbclause"
	FormQueryClause = "queryclause"
	FormAction     = "action"
)

// Parser holds a lexicon and the ordered pipeline of transforms run over
// every parsed block.
type Parser struct {
	Lx    *lex.Lexicon
	xfrms []xfrm.Xfrm
	Trace io.Writer
}

// New returns a Parser bound to lx, with a freshly built (empty) rule
// pipeline; callers load rule tables via Deserialize or by calling each
// transform's Define methods directly.
func New(lx *lex.Lexicon) *Parser {
	p := &Parser{Lx: lx}
	p.xfrms = []xfrm.Xfrm{
		reduct.New("initReduct"),
		reduct.New("vReduct"),
		reduct.New("detReduct"),
		reduct.New("conjReduct"),
		reduct.New("actReduct"),
		relate.NewScSeqToSrXfrm("leftVdomXfrm"),
		relate.NewSrXfrm("srXfrm"),
		roles.New("roleXfrm", lx),
		relate.NewSvToQXfrm("svToQXfrm"),
		relate.NewInvertQXfrm("invertQXfrm"),
		relate.NewVconjXfrm("vconjXfrm"),
	}
	return p
}

// Xfrm returns the named transform, or nil.
func (p *Parser) Xfrm(name string) xfrm.Xfrm {
	for _, x := range p.xfrms {
		if x.Name() == name {
			return x
		}
	}
	return nil
}

// Serialize writes the version string, the lexicon, and every transform's
// rule table to w.
func (p *Parser) Serialize(w *serial.Writer) {
	w.EncodeStr(Version)
	p.Lx.Serialize(w)
	for _, x := range p.xfrms {
		serializeXfrm(w, nil, x, true)
	}
}

// Deserialize reads a table file written by Serialize, replacing p.Lx's
// contents in place and loading every transform's rule table.
func (p *Parser) Deserialize(r *serial.Reader) {
	r.DecodeStr() // format version; this build only knows how to read its own
	p.Lx.Deserialize(r)
	for _, x := range p.xfrms {
		serializeXfrm(nil, r, x, false)
	}
}

// serializeXfrm dispatches to each concrete transform's own rule-table
// Serialize/Deserialize methods. SrXfrm, SvToQXfrm, InvertQXfrm, and
// VconjXfrm carry no rule table (their behavior is hardcoded) and are
// skipped.
func serializeXfrm(w *serial.Writer, r *serial.Reader, x xfrm.Xfrm, writing bool) {
	switch t := x.(type) {
	case *reduct.Xfrm:
		if writing {
			t.Rules.Serialize(w)
			t.SerializeValues(w)
		} else {
			t.Rules.Deserialize(r)
			t.DeserializeValues(r)
		}
	case *relate.ScSeqToSrXfrm:
		if writing {
			t.Rules.Serialize(w)
			t.SerializeValues(w)
		} else {
			t.Rules.Deserialize(r)
			t.DeserializeValues(r)
		}
	case *roles.Xfrm:
		if writing {
			t.SerializeValues(w)
		} else {
			t.DeserializeValues(r)
		}
	}
}

// ParseText is the main entry point: it tokenizes src (srcLno is the
// 1-based source line src's first line occupies, for location info) and
// returns the resulting output-tree roots.
func (p *Parser) ParseText(src string, srcLno int) []*msnode.Node {
	tok := tokenizer.New(p.Lx)
	blks := tok.GetParseBlks(src, srcLno)
	return p.parseBlkLst(tok, blks, nil)
}

func (p *Parser) parseBlkLst(tok *tokenizer.Tokenizer, blkLst []*tokenizer.Block, parent *msnode.Node) []*msnode.Node {
	var nds []*msnode.Node
	for _, blk := range blkLst {
		if blk.Sublst != nil {
			opener := tok.Src()[blk.S-1]
			kind := KindParen
			if opener == '"' || opener == '\'' {
				kind = KindQuote
			}
			nd := msnode.NewNode(kind, "", "", parent)
			nds = append(nds, nd)
			nd.Subnodes = p.parseBlkLst(tok, blk.Sublst, nd)
			continue
		}
		toks, locs := tok.Lex(blk)
		g := pgraph.NewGraph(p.Lx)
		g.BuildGraph(toks, locs)
		p.parseGraph(g)
		nds = append(nds, p.getParseNodes(tok, g.GetRootNodes(), "", parent)...)
	}
	return nds
}

// parseGraph runs the transform pipeline over g, then merges adjacent
// preposition/word sequences at every scope level.
func (p *Parser) parseGraph(g *pgraph.Graph) {
	if p.Trace != nil {
		g.Printme(p.Trace, "initial graph")
	}
	for _, x := range p.xfrms {
		xfrm.Run(g, x, p.Trace)
	}
	reduceSrClause(g, g.GetRootNodes())
}

// reduceSrClause collapses an srClause (a sequence of nodes sharing scope
// and relation to that scope) by merging runs of adjacent preps into one
// node, binding a leading prep to the word that follows it (as its head),
// and merging runs of adjacent leaf words into a single phrase node. It
// recurses through every relation list first, so nested clauses are
// collapsed before their container.
func reduceSrClause(g *pgraph.Graph, lst []*pgraph.Pn) []*pgraph.Pn {
	if len(lst) == 0 {
		return lst
	}
	for _, e := range lst {
		for i := range e.Rel {
			e.Rel[i] = reduceSrClause(g, e.Rel[i])
		}
	}
	const prepMask = defs.WPPrep | defs.WPQualPrep | defs.WPClPrep
	l1 := []*pgraph.Pn{lst[0]}
	for _, e := range lst[1:] {
		last := l1[len(l1)-1]
		if last.CheckSc(g.Lx, prepMask) && e.CheckSc(g.Lx, prepMask) && e.IsLeaf() {
			last.Wrds = append(last.Wrds, e.Wrds...)
			last.E = e.E
			g.RemoveNode(e)
			continue
		}
		l1 = append(l1, e)
	}
	var out []*pgraph.Pn
	i := 0
	for i < len(l1) {
		e := l1[i]
		i++
		if e.CheckSc(g.Lx, defs.WPPunct) {
			out = append(out, e)
			continue
		}
		S := e
		if S.CheckSc(g.Lx, prepMask) {
			if i < len(l1) && !l1[i].CheckSc(g.Lx, defs.WPPunct) {
				l1[i].Head = append(l1[i].Head, S.Wrds...)
				g.RemoveNode(S)
				S = l1[i]
				i++
			}
		}
		if S.IsLeaf() {
			for i < len(l1) {
				if l1[i].CheckSc(g.Lx, defs.WPPunct) || !l1[i].IsLeaf() {
					break
				}
				S.Wrds = append(S.Wrds, l1[i].Wrds...)
				g.RemoveNode(l1[i])
				i++
			}
		}
		out = append(out, S)
	}
	return out
}

// getMSNodeKind classifies e's top-level (or context-given) node kind.
func getMSNodeKind(lx *lex.Lexicon, e *pgraph.Pn, form string) string {
	if e.CheckSc(lx, defs.WPPunct) {
		return KindPunct
	}
	if form == FormQueryClause || form == KindQuery {
		return KindQuery
	}
	if e.IsVerb(lx) {
		var sub []*pgraph.Pn
		sub = append(sub, e.Rel[defs.SRAgent]...)
		sub = append(sub, e.Rel[defs.SRTopic]...)
		sub = append(sub, e.Rel[defs.SRExper]...)
		switch {
		case len(sub) > 0:
			if sub[0].CheckSc(lx, defs.WPQuery) {
				return KindQuery
			}
			if len(e.Rel[defs.SRVAdj]) > 0 && e.Rel[defs.SRVAdj][0].TestVRoot(lx, "let") {
				return KindImper
			}
			if !e.CheckVProp(defs.VPGerund) {
				return KindAssert
			}
		case e.CheckVProp(defs.VPRoot):
			return KindImper
		case e.CheckVProp(defs.VPPassive) && len(e.Rel[defs.SRTheme]) > 0:
			return KindAssert
		}
	}
	return KindPhr
}

// getMSNodeForm classifies e's syntax form.
func getMSNodeForm(lx *lex.Lexicon, e *pgraph.Pn) string {
	if e.CheckSc(lx, defs.WPPunct) {
		return ""
	}
	if e.IsVerb(lx) {
		var sub []*pgraph.Pn
		sub = append(sub, e.Rel[defs.SRAgent]...)
		sub = append(sub, e.Rel[defs.SRTopic]...)
		sub = append(sub, e.Rel[defs.SRExper]...)
		switch {
		case len(sub) == 0:
			if e.CheckVProp(defs.VPGerund | defs.VPInf | defs.VPRoot) {
				return FormAction
			}
		case len(e.Rel[defs.SRVAdj]) > 0:
			// "did he go": generally a query, but "where can you go"
			// is a verb clause.
			if e.Sr == defs.SRModifies {
				return FormVerbClause
			}
			return FormQueryClause
		case e.E < sub[0].S && !e.CheckVProp(defs.VPPassive):
			// "is she here", "did he?", "have you the time?"
			return FormQueryClause
		}
		return FormVerbClause
	}
	if len(e.Wrds) == 1 {
		wrd := e.GetWrd(0)
		switch {
		case lx.CheckProp(wrd, defs.WPQuery):
			return KindQuery
		case lx.CheckProp(wrd, defs.WPN):
			return FormN
		case lx.CheckProp(wrd, defs.WPConj):
			return FormConjWrd
		case lx.CheckProp(wrd, defs.WPMod):
			return FormMod
		}
		return FormX
	}
	// a phrase: possessive? ("John's cat")
	possContract := lx.Lookup("'s", false)
	for _, w := range e.Wrds {
		if w == possContract {
			return FormN
		}
	}
	// compound modifier? ("very happy", "sad and miserable")
	isMod := true
	for _, w := range e.Wrds {
		if !lx.CheckProp(w, defs.WPMod|defs.WPConj) {
			isMod = false
			break
		}
	}
	if isMod {
		return FormMod
	}
	wrd := e.GetWrd(0)
	switch {
	case lx.CheckProp(wrd, defs.WPQuery):
		return KindQuery
	case lx.CheckProp(wrd, defs.WPDetS|defs.WPDetW):
		return FormN
	}
	return KindPhr
}

// getParseNodes translates a list of parse-graph nodes (siblings sharing a
// scope) into output-tree nodes. relToParent, if non-empty, fixes every
// node's Kind to that relation name instead of classifying it via
// getMSNodeKind (used for non-top-level siblings, whose kind is simply
// their thematic role).
func (p *Parser) getParseNodes(tok *tokenizer.Tokenizer, lst []*pgraph.Pn, relToParent string, parent *msnode.Node) []*msnode.Node {
	lx := p.Lx
	var nds []*msnode.Node
	for _, e := range lst {
		form := getMSNodeForm(lx, e)
		kind := relToParent
		if relToParent == "" {
			kind = getMSNodeKind(lx, e, form)
		}
		var text string
		if e.IsVerb(lx) {
			text = tok.Src()[e.S : e.E+1]
		} else {
			text = lx.SpellWrds(e.Wrds)
		}
		nd := msnode.NewNode(kind, form, text, parent)
		nds = append(nds, nd)
		for i := 0; i < defs.NWordToVerb; i++ {
			sr := defs.SR(i)
			if sr == defs.SRIsQby || sr == defs.SRVconj || sr == defs.SRUndef || sr == defs.SRVAdj {
				// computational relations: skip
				continue
			}
			nd.Subnodes = append(nd.Subnodes, p.getParseNodes(tok, e.Rel[i], sr.String(), nd)...)
		}
		if len(e.Head) > 0 {
			nd.Head = lx.SpellWrds(e.Head)
		}
		if len(e.Verbs) > 0 {
			nd.Vroots = lx.SpellWrds(e.Verbs)
		}
		if len(e.Vqual) > 0 {
			nd.Vqual = lx.SpellWrds(e.Vqual)
		}
		if e.Vprops != 0 && form != FormAction {
			const mask = defs.VPTenseMask | defs.VPNeg | defs.VPPerfect
			nd.Vprops = (e.Vprops & mask).Format(" ")
		}
		nd.LineS = tok.LineOf(e.S)
		nd.ColS = tok.ColOf(e.S)
		nd.LineE = tok.LineOf(e.E)
		nd.ColE = tok.ColOf(e.E)
	}
	return nds
}
