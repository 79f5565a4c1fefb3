// Package lex implements the lexicon: a word dictionary keyed by spelling,
// carrying word properties, a "definition" pointer (the root entry a variant
// resolves to), a syntax-class assignment, rewrite rules, and a
// prep->{verbs} fitness table.
package lex

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/AlCramer/msparse/internal/defs"
	"github.com/AlCramer/msparse/internal/serial"
)

// caser performs locale-aware case folding for unknown-word resolution and
// proper-name capitalization, in place of a byte-wise ASCII flip.
var caser = cases.Lower(language.English)
var titleCaser = cases.Title(language.English)

// Key identifies a lexicon entry. Zero is the reserved "no entry" value,
// matching the original's 0-is-absent convention.
type Key int

// dict is the spelling<->index<->props mapping shared by the word
// dictionary and the syntax-class dictionary.
type dict struct {
	spToIx   map[string]Key
	spelling []string
	props    []defs.WProp
}

func newDict() *dict {
	d := &dict{spToIx: map[string]Key{}}
	// index 0 is reserved; give it an empty placeholder entry so real
	// entries start at 1, matching the "0 means absent" convention.
	d.spelling = append(d.spelling, "")
	d.props = append(d.props, 0)
	return d
}

func (d *dict) n() int { return len(d.spelling) }

func (d *dict) lookup(sp string, createIfMissing bool) Key {
	if ix, ok := d.spToIx[sp]; ok {
		return ix
	}
	if !createIfMissing {
		return 0
	}
	ix := Key(len(d.spelling))
	d.spToIx[sp] = ix
	d.spelling = append(d.spelling, sp)
	d.props = append(d.props, 0)
	return ix
}

func (d *dict) spellingOf(ix Key) string       { return d.spelling[ix] }
func (d *dict) setProp(ix Key, v defs.WProp)    { d.props[ix] |= v }
func (d *dict) checkProp(ix Key, v defs.WProp) bool {
	return ix != 0 && d.props[ix]&v != 0
}

// RewriteRule is a tokenizer-time substitution: recognize lhs in the token
// stream and replace it with rhs, both sequences of lexicon keys.
type RewriteRule struct {
	Lhs []Key
	Rhs []Key
}

// wordVariant records how an unknown word resolves to a known root plus the
// properties it inherits from that resolution.
type wordVariant struct {
	rootKey Key
	props   defs.WProp
}

// Lexicon is the full vocabulary: the word dictionary, its definitions,
// syntax-class assignments, rewrite rules, and the prep->verb fitness table.
type Lexicon struct {
	dct     *dict
	def     []Key
	synCl   []Key
	rwrules [][]RewriteRule
	prepToVerbs [][]Key

	scDct        *dict
	scSingletons []string

	Version string
}

// New returns an empty lexicon, ready to be populated via Define or Load.
func New() *Lexicon {
	return &Lexicon{
		dct:   newDict(),
		def:   []Key{0},
		synCl: []Key{0},
		rwrules:     [][]RewriteRule{nil},
		prepToVerbs: [][]Key{nil},
		scDct: newDict(),
	}
}

// N returns the number of entries in the word dictionary.
func (lx *Lexicon) N() int { return lx.dct.n() }

// Lookup returns the key for sp, creating an entry (with no props, no
// definition) if createIfMissing is set and sp is not yet present.
func (lx *Lexicon) Lookup(sp string, createIfMissing bool) Key {
	ix := lx.dct.lookup(sp, false)
	if ix != 0 {
		return ix
	}
	if !createIfMissing {
		return 0
	}
	ix = lx.dct.lookup(sp, true)
	lx.def = append(lx.def, 0)
	lx.synCl = append(lx.synCl, 0)
	lx.rwrules = append(lx.rwrules, nil)
	lx.prepToVerbs = append(lx.prepToVerbs, nil)
	return ix
}

// Define enters sp into the lexicon with the given properties and
// definition pointer. A zero def means "define to self" if no definition is
// already set; a nonzero def always overrides.
func (lx *Lexicon) Define(sp string, props defs.WProp, def Key) Key {
	ix := lx.Lookup(sp, true)
	lx.SetProp(ix, props)
	if def != 0 {
		lx.SetDef(ix, def)
	} else if lx.Def(ix) == 0 {
		lx.SetDef(ix, ix)
	}
	return ix
}

func (lx *Lexicon) Spelling(ix Key) string        { return lx.dct.spellingOf(ix) }
func (lx *Lexicon) Def(ix Key) Key                { return lx.def[ix] }
func (lx *Lexicon) SetDef(ix Key, v Key)          { lx.def[ix] = v }
func (lx *Lexicon) Props(ix Key) defs.WProp       { return lx.dct.props[ix] }
func (lx *Lexicon) SetProp(ix Key, v defs.WProp)  { lx.dct.setProp(ix, v) }
func (lx *Lexicon) CheckProp(ix Key, v defs.WProp) bool {
	return lx.dct.checkProp(ix, v)
}

// SetRewriteRules installs the rewrite rules whose lhs begins at key ix.
func (lx *Lexicon) SetRewriteRules(ix Key, rules []RewriteRule) {
	lx.rwrules[ix] = rules
}

// SetPrepVerbs installs the {verbs} this prep key is associated with. Order
// matters: PrepVerbFitness returns the position in this slice.
func (lx *Lexicon) SetPrepVerbs(prep Key, verbs []Key) {
	lx.prepToVerbs[prep] = verbs
}

// FindRewrite returns the rewrite rule (if any) applying to toks starting at
// i, by lhs-sequence match against toks[i].
func (lx *Lexicon) FindRewrite(toks []Key, i int) *RewriteRule {
	if i < 0 || i >= len(toks) {
		return nil
	}
	rules := lx.rwrules[toks[i]]
	for ri := range rules {
		r := &rules[ri]
		if testRewrite(r, toks, i) {
			return r
		}
	}
	return nil
}

func testRewrite(r *RewriteRule, toks []Key, i int) bool {
	if i+len(r.Lhs) > len(toks) {
		return false
	}
	for j, k := range r.Lhs {
		if toks[i+j] != k {
			return false
		}
	}
	return true
}

// RhsRewrite returns the rhs token sequence for rule, optionally
// capitalizing the first token's spelling (used when the rule fires at the
// start of a sentence).
func (lx *Lexicon) RhsRewrite(r *RewriteRule, wantUpper bool) []Key {
	rhs := append([]Key(nil), r.Rhs...)
	if wantUpper && len(rhs) > 0 {
		sp := lx.Spelling(rhs[0])
		if sp != "" {
			sp = titleCaser.String(sp)
		}
		rhs[0] = lx.GetVocab(sp)
	}
	return rhs
}

// PrepVerbFitness reports the position of verb in prep's {verbs} list, or -1
// if prep is not associated with verb.
func (lx *Lexicon) PrepVerbFitness(prep, verb Key) int {
	verbs := lx.prepToVerbs[prep]
	for i, v := range verbs {
		if v == verb {
			return i
		}
	}
	return -1
}

// isVerbVariant tests whether the lower-cased spelling wrd is a
// morphological variant of a known verb (gerund, past, 3rd-person-singular,
// or negative contraction) and, if so, fills in v.
func (lx *Lexicon) isVerbVariant(wrd string, v *wordVariant) bool {
	l := len(wrd)
	if l >= 5 && strings.HasSuffix(wrd, "n't") {
		test := wrd[:l-3]
		vKey := lx.Lookup(test, false)
		if vKey != 0 {
			v.props = defs.WPVNegContraction | lx.Props(vKey)
			v.props &^= defs.WPRoot
			v.rootKey = lx.Def(vKey)
			return true
		}
	}
	if l >= 5 && strings.HasSuffix(wrd, "ing") {
		root := wrd[:l-3]
		if key := lx.Lookup(root, false); lx.CheckProp(key, defs.WPRoot) {
			v.rootKey = key
			v.props |= defs.WPVerb | defs.WPGerund
			return true
		}
		if key := lx.Lookup(root+"e", false); lx.CheckProp(key, defs.WPRoot) {
			v.rootKey = key
			v.props |= defs.WPVerb | defs.WPGerund
			return true
		}
		lroot := len(root)
		if lroot >= 2 && root[lroot-1] == root[lroot-2] {
			if key := lx.Lookup(root[:lroot-1], false); lx.CheckProp(key, defs.WPRoot) {
				v.rootKey = key
				v.props |= defs.WPVerb | defs.WPGerund
				return true
			}
		}
	}
	if l >= 4 && strings.HasSuffix(wrd, "ed") {
		root := wrd[:l-2]
		lroot := len(root)
		if key := lx.Lookup(root, false); lx.CheckProp(key, defs.WPRoot) {
			v.rootKey = key
			v.props |= defs.WPVerb | defs.WPParticiple | defs.WPPast
			return true
		}
		if key := lx.Lookup(root+"e", false); lx.CheckProp(key, defs.WPRoot) {
			v.rootKey = key
			v.props |= defs.WPVerb | defs.WPParticiple | defs.WPPast
			return true
		}
		if lroot >= 2 && root[lroot-1] == root[lroot-2] {
			if key := lx.Lookup(root[:lroot-1], false); lx.CheckProp(key, defs.WPRoot) {
				v.rootKey = key
				v.props |= defs.WPVerb | defs.WPParticiple | defs.WPPast
				return true
			}
		}
	}
	if l >= 4 && strings.HasSuffix(wrd, "es") {
		test := wrd[:l-2]
		if test == "be" {
			return false
		}
		if key := lx.Lookup(test, false); lx.CheckProp(key, defs.WPRoot) {
			v.rootKey = key
			v.props |= defs.WPVerb | defs.WPPresent
			return true
		}
	}
	if l >= 3 && strings.HasSuffix(wrd, "s") {
		test := wrd[:l-1]
		if key := lx.Lookup(test, false); lx.CheckProp(key, defs.WPRoot) {
			v.rootKey = key
			v.props |= defs.WPVerb | defs.WPPresent
			return true
		}
	}
	return false
}

// isWordVariant tests verb-variant forms first, then adverb (-ly) and
// simple-plural (-s) forms of known modifiers/nouns.
func (lx *Lexicon) isWordVariant(wrd string, v *wordVariant) bool {
	isVerbVar := lx.isVerbVariant(wrd, v)
	l := len(wrd)
	if l >= 5 && strings.HasSuffix(wrd, "ly") {
		test := wrd[:l-2]
		rootKey := lx.Lookup(test, false)
		if lx.CheckProp(rootKey, defs.WPMod) {
			v.props |= defs.WPMod
			if v.rootKey == 0 {
				v.rootKey = rootKey
			}
			return true
		}
	}
	if l >= 4 && strings.HasSuffix(wrd, "s") {
		test := wrd[:l-1]
		rootKey := lx.Lookup(test, false)
		if lx.CheckProp(rootKey, defs.WPNoun) {
			v.props |= defs.WPNoun
			if v.rootKey == 0 {
				v.rootKey = rootKey
			}
			return true
		}
	}
	return isVerbVar
}

// GetVocab returns the entry for sp, creating one and resolving it (via a
// lower-case alias, then morphological-variant analysis, then "X" fallback)
// if it is not already known.
func (lx *Lexicon) GetVocab(sp string) Key {
	if ix := lx.Lookup(sp, false); ix != 0 {
		return ix
	}
	ix := lx.Lookup(sp, true)
	spLc := caser.String(sp)
	if spLc != sp {
		if ixLc := lx.Lookup(spLc, false); ixLc != 0 {
			lx.SetDef(ix, ixLc)
			lx.SetProp(ix, lx.Props(ixLc))
			lx.synCl[ix] = lx.synCl[ixLc]
			return ix
		}
	}
	var wv wordVariant
	if lx.isWordVariant(spLc, &wv) {
		lx.SetDef(ix, wv.rootKey)
		lx.SetProp(ix, wv.props)
		lx.AssignSynClass(ix)
		return ix
	}
	lx.SetDef(ix, ix)
	lx.synCl[ix] = lx.scDct.lookup("X", true)
	return ix
}

// AssignSynClass buckets entry ix into the syntax class matching its word
// properties (creating that class on first use) and ORs the entry's
// relevant properties into the class, so later CheckScProp queries against
// the class see the union of its members' properties.
func (lx *Lexicon) AssignSynClass(ix Key) Key {
	desc := lx.scDesc(ix)
	scIx := lx.scDct.lookup(desc, true)
	lx.scDct.setProp(scIx, lx.Props(ix)&scRelevantProps)
	lx.synCl[ix] = scIx
	return scIx
}

// scRelevantProps is the subset of word properties meaningful to carry onto
// a syntax class (the class-level mask CheckScProp tests against).
const scRelevantProps = defs.WPConj | defs.WPClPrep | defs.WPQualPrep | defs.WPPrep |
	defs.WPN | defs.WPNoun | defs.WPMod | defs.WPPronoun | defs.WPX | defs.WPVerb |
	defs.WPRoot | defs.WPGerund | defs.WPParticiple | defs.WPPresent | defs.WPPast |
	defs.WPVAdj | defs.WPQuery | defs.WPDetS | defs.WPDetW | defs.WPPunct

// scDesc classifies entry i into the syntax-class spelling used to bucket
// same-behaving words together in the sequence map.
func (lx *Lexicon) scDesc(i Key) string {
	sp := lx.Spelling(i)
	switch {
	case lx.CheckProp(i, defs.WPDetS):
		return "DetS"
	case sp == "and" || sp == "or":
		return "AndOr"
	case lx.CheckProp(i, defs.WPConj):
		return "Conj"
	case lx.CheckProp(i, defs.WPQuery):
		return "Query"
	case lx.CheckProp(i, defs.WPGerund):
		return "Ger"
	}
	var parts []string
	if lx.CheckProp(i, defs.WPDetW) {
		parts = append(parts, "DetW")
	}
	switch {
	case lx.CheckProp(i, defs.WPClPrep):
		parts = append(parts, "ClPrep")
	case lx.CheckProp(i, defs.WPQualPrep):
		parts = append(parts, "QualPrep")
	case lx.CheckProp(i, defs.WPPrep):
		parts = append(parts, "Prep")
	}
	if lx.CheckProp(i, defs.WPNoun) {
		parts = append(parts, "Noun")
	}
	if lx.CheckProp(i, defs.WPN|defs.WPPronoun) {
		parts = append(parts, "N")
	}
	if lx.CheckProp(i, defs.WPMod) {
		parts = append(parts, "Mod")
	}
	if lx.CheckProp(i, defs.WPVerbProps) {
		if lx.CheckProp(i, defs.WPVAdj) {
			parts = append(parts, "VAdj")
		} else {
			parts = append(parts, "V")
		}
	}
	if len(parts) == 0 {
		parts = append(parts, "X")
	}
	return strings.Join(parts, "|")
}

var (
	wantSp1 = regexp.MustCompile(`([.?!;:\-)]+)(\w+)`)
	wantSp2 = regexp.MustCompile(`(\w+)(\$)`)
)

// SpellWrds renders a sequence of lexicon keys back into source text,
// inserting spaces between alnum-adjacent words and after closing
// punctuation.
func (lx *Lexicon) SpellWrds(wrds []Key) string {
	if len(wrds) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(lx.Spelling(wrds[0]))
	for _, w := range wrds[1:] {
		sp := lx.Spelling(w)
		buf := b.String()
		if buf != "" && sp != "" && isAlnum(buf[len(buf)-1]) && isAlnum(sp[0]) {
			b.WriteByte(' ')
		}
		b.WriteString(sp)
	}
	out := wantSp1.ReplaceAllString(b.String(), "$1 $2")
	out = wantSp2.ReplaceAllString(out, "$1 $2")
	return out
}

func isAlnum(c byte) bool {
	return c >= '0' && c <= '9' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

// ScN returns the number of syntax classes.
func (lx *Lexicon) ScN() int { return lx.scDct.n() }

// ScSpelling returns the name of syntax class i.
func (lx *Lexicon) ScSpelling(i Key) string { return lx.scDct.spellingOf(i) }

// ScIx returns the index for a syntax-class spelling, or 0 if unknown.
func (lx *Lexicon) ScIx(sp string) Key { return lx.scDct.lookup(sp, false) }

// DefineSc creates (or updates) a syntax class by name with the given
// property mask, for classes a builder must seed directly rather than
// derive from a member word's properties (e.g. "Comma", "Punct").
func (lx *Lexicon) DefineSc(sp string, props defs.WProp) Key {
	scIx := lx.scDct.lookup(sp, true)
	lx.scDct.setProp(scIx, props)
	return scIx
}

// SynClass returns the syntax class assigned to lexicon entry ix.
func (lx *Lexicon) SynClass(ix Key) Key { return lx.synCl[ix] }

// CheckScProp checks word-properties on a syntax-class entry (the class
// carries the union of its members' relevant properties).
func (lx *Lexicon) CheckScProp(scIx Key, m defs.WProp) bool {
	return lx.scDct.checkProp(scIx, m)
}

// ScSeqToStr renders a sequence of syntax-class keys as space-joined names,
// for trace/debug output.
func (lx *Lexicon) ScSeqToStr(seq []Key) string {
	parts := make([]string, len(seq))
	for i, k := range seq {
		parts[i] = lx.ScSpelling(k)
	}
	return strings.Join(parts, " ")
}

// Serialize writes the whole lexicon (word dictionary, definitions, syntax
// classes, rewrite rules, and prep->verb fitness table) to w.
func (lx *Lexicon) Serialize(w *serial.Writer) {
	w.EncodeStr(lx.Version)
	w.EncodeStrLst(lx.dct.spelling)
	props := make([]int, len(lx.dct.props))
	def := make([]int, len(lx.def))
	synCl := make([]int, len(lx.synCl))
	for i := range lx.dct.props {
		props[i] = int(lx.dct.props[i])
		def[i] = int(lx.def[i])
		synCl[i] = int(lx.synCl[i])
	}
	w.EncodeIntLst(props, 32)
	w.EncodeIntLst(def, 32)
	w.EncodeIntLst(synCl, 32)

	var rwFlat [][]int
	for owner, rules := range lx.rwrules {
		for _, r := range rules {
			row := []int{owner, len(r.Lhs)}
			for _, k := range r.Lhs {
				row = append(row, int(k))
			}
			row = append(row, len(r.Rhs))
			for _, k := range r.Rhs {
				row = append(row, int(k))
			}
			rwFlat = append(rwFlat, row)
		}
	}
	w.EncodeLstLst(rwFlat, 32)

	var pvFlat [][]int
	for prep, verbs := range lx.prepToVerbs {
		if verbs == nil {
			continue
		}
		row := []int{prep}
		for _, v := range verbs {
			row = append(row, int(v))
		}
		pvFlat = append(pvFlat, row)
	}
	w.EncodeLstLst(pvFlat, 32)

	w.EncodeStrLst(lx.scDct.spelling)
	scProps := make([]int, len(lx.scDct.props))
	for i := range lx.scDct.props {
		scProps[i] = int(lx.scDct.props[i])
	}
	w.EncodeIntLst(scProps, 32)
}

// Deserialize reads a lexicon previously written by Serialize, replacing
// the receiver's contents.
func (lx *Lexicon) Deserialize(r *serial.Reader) {
	lx.Version = r.DecodeStr()

	spellings := r.DecodeStrLst()
	d := newDict()
	d.spelling = spellings
	d.props = make([]defs.WProp, len(spellings))
	d.spToIx = make(map[string]Key, len(spellings))
	for i, sp := range spellings {
		d.spToIx[sp] = Key(i)
	}
	lx.dct = d

	props := r.DecodeIntLst(32)
	for i, p := range props {
		lx.dct.props[i] = defs.WProp(p)
	}
	defInts := r.DecodeIntLst(32)
	lx.def = make([]Key, len(defInts))
	for i, v := range defInts {
		lx.def[i] = Key(v)
	}
	synClInts := r.DecodeIntLst(32)
	lx.synCl = make([]Key, len(synClInts))
	for i, v := range synClInts {
		lx.synCl[i] = Key(v)
	}

	lx.rwrules = make([][]RewriteRule, len(spellings))
	for _, row := range r.DecodeLstLst(32) {
		owner := row[0]
		i := 1
		nLhs := row[i]
		i++
		lhs := make([]Key, nLhs)
		for j := 0; j < nLhs; j++ {
			lhs[j] = Key(row[i])
			i++
		}
		nRhs := row[i]
		i++
		rhs := make([]Key, nRhs)
		for j := 0; j < nRhs; j++ {
			rhs[j] = Key(row[i])
			i++
		}
		lx.rwrules[owner] = append(lx.rwrules[owner], RewriteRule{Lhs: lhs, Rhs: rhs})
	}

	lx.prepToVerbs = make([][]Key, len(spellings))
	for _, row := range r.DecodeLstLst(32) {
		prep := row[0]
		verbs := make([]Key, len(row)-1)
		for j, v := range row[1:] {
			verbs[j] = Key(v)
		}
		lx.prepToVerbs[prep] = verbs
	}

	scSpellings := r.DecodeStrLst()
	scd := newDict()
	scd.spelling = scSpellings
	scd.props = make([]defs.WProp, len(scSpellings))
	scd.spToIx = make(map[string]Key, len(scSpellings))
	for i, sp := range scSpellings {
		scd.spToIx[sp] = Key(i)
	}
	scProps := r.DecodeIntLst(32)
	for i, p := range scProps {
		scd.props[i] = defs.WProp(p)
	}
	lx.scDct = scd
}
