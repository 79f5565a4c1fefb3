// Package defs holds the bitmask constants shared across the parser: word
// properties, verb properties, and syntax-relation ids.
package defs

// WProp is a bitmask of word-level properties (part of speech plus a few
// orthogonal tags like contraction/query/abbreviation).
type WProp uint32

const (
	WPConj      WProp = 0x1
	WPClPrep    WProp = 0x2
	WPQualPrep  WProp = 0x4
	WPPrep      WProp = 0x8
	WPN         WProp = 0x10
	WPNoun      WProp = 0x20
	WPMod       WProp = 0x40
	WPPronoun   WProp = 0x80
	WPX         WProp = 0x100
	WPVerb      WProp = 0x200
	WPRoot      WProp = 0x400
	WPGerund    WProp = 0x800
	WPParticiple WProp = 0x1000
	WPPresent   WProp = 0x2000
	WPPast      WProp = 0x4000
	WPVAdj      WProp = 0x8000
	WPAbbrev    WProp = 0x10000
	WPContraction     WProp = 0x20000
	WPVNegContraction WProp = 0x40000
	WPQuery     WProp = 0x80000
	WPDetS      WProp = 0x100000
	WPDetW      WProp = 0x200000
	WPAVGT      WProp = 0x400000
	WPAVE       WProp = 0x800000
	WPEVT       WProp = 0x1000000
	WPVPQ       WProp = 0x2000000
	WPPunct     WProp = 0x4000000
)

// WPVerbProps is the union of properties that mark a word as some verb form.
const WPVerbProps = WPRoot | WPGerund | WPParticiple | WPPresent | WPPast | WPVAdj

var wpNames = []struct {
	bit  WProp
	name string
}{
	{WPConj, "CONJ"}, {WPClPrep, "CLPREP"}, {WPQualPrep, "QUALPREP"},
	{WPPrep, "PREP"}, {WPN, "N"}, {WPNoun, "NOUN"}, {WPMod, "MOD"},
	{WPPronoun, "PRONOUN"}, {WPX, "X"}, {WPVerb, "VERB"}, {WPRoot, "ROOT"},
	{WPGerund, "GERUND"}, {WPParticiple, "PARTICIPLE"}, {WPPresent, "PRESENT"},
	{WPPast, "PAST"}, {WPVAdj, "VADJ"}, {WPAbbrev, "ABBREV"},
	{WPContraction, "CONTRACTION"}, {WPVNegContraction, "VNEG_CONTRACTION"},
	{WPQuery, "QUERY"}, {WPDetS, "DETS"}, {WPDetW, "DETW"}, {WPAVGT, "AVGT"},
	{WPAVE, "AVE"}, {WPEVT, "EVT"}, {WPVPQ, "VPQ"}, {WPPunct, "PUNCT"},
}

// String renders a word-property mask as a space-separated list of names, in
// declaration order, for trace output.
func (m WProp) String() string {
	s := ""
	for _, e := range wpNames {
		if m&e.bit != 0 {
			if s != "" {
				s += " "
			}
			s += e.name
		}
	}
	return s
}

// Has reports whether any bit of mask is set in m.
func (m WProp) Has(mask WProp) bool { return m&mask != 0 }

// VProp is a bitmask of verb-clause properties, set once a verb domain is
// resolved (tense, mood, voice, and a handful of structural flags).
type VProp uint32

const (
	VPNeg           VProp = 0x1
	VPAdj           VProp = 0x2
	VPPast          VProp = 0x4
	VPPresent       VProp = 0x8
	VPFuture        VProp = 0x10
	VPPerfect       VProp = 0x20
	VPSubjunctive   VProp = 0x40
	VPInf           VProp = 0x80
	VPRoot          VProp = 0x100
	VPGerund        VProp = 0x200
	VPPassive       VProp = 0x400
	VPAtomic        VProp = 0x800
	VPPrelude       VProp = 0x1000
	VPActName       VProp = 0x2000
	VPAvgt          VProp = 0x4000
	VPAve           VProp = 0x8000
	VPEvt           VProp = 0x10000
	VPIsQ           VProp = 0x20000
	VPNotModified   VProp = 0x40000
	VPNoSubject     VProp = 0x80000
	VPBeQuery       VProp = 0x100000
	VPVAdjQuery     VProp = 0x200000
	VPSubordCl      VProp = 0x400000
	VPNVexpr        VProp = 0x800000
	VPAgentAction   VProp = 0x1000000
	VPImmutableSub  VProp = 0x2000000
)

// VPTenseMask is the union of mutually-exclusive tense bits.
const VPTenseMask = VPPast | VPPresent | VPFuture | VPSubjunctive

// VPSemanticMask is the union of bits that survive into output rendering.
const VPSemanticMask = VPNeg | VPPrelude

var vpNames = []struct {
	bit  VProp
	name string
}{
	{VPNeg, "not"}, {VPAdj, "adj"}, {VPPast, "past"}, {VPPresent, "present"},
	{VPFuture, "future"}, {VPPerfect, "perfect"}, {VPSubjunctive, "subj"},
	{VPInf, "inf"}, {VPRoot, "root"}, {VPGerund, "ger"}, {VPPassive, "passive"},
	{VPAtomic, "atomic"}, {VPPrelude, "prelude"}, {VPActName, "actname"},
	{VPAvgt, "avgt"}, {VPAve, "ave"}, {VPEvt, "evt"}, {VPIsQ, "isQ"},
	{VPNotModified, "notModified"}, {VPNoSubject, "noSubject"},
	{VPBeQuery, "beQuery"}, {VPVAdjQuery, "vadjQuery"}, {VPSubordCl, "subordCl"},
	{VPNVexpr, "nvExpr"}, {VPAgentAction, "agentAct"},
	{VPImmutableSub, "immutableSub"},
}

// Format renders a verb-property mask as names joined by delim, in
// declaration order.
func (m VProp) Format(delim string) string {
	s := ""
	for _, e := range vpNames {
		if m&e.bit != 0 {
			if s != "" {
				s += delim
			}
			s += e.name
		}
	}
	return s
}

func (m VProp) Has(mask VProp) bool { return m&mask != 0 }

// SR identifies a syntax relation: the role a node plays relative to the
// verb (or other node) it scopes to.
type SR int

const (
	SRAgent SR = iota
	SRTopic
	SRExper
	SRTheme
	SRAuxTheme
	SRModifies
	SRIsQby
	SRVconj // aliases SRHead's slot; only one of the two names is live per node kind
	SRVAdj
	SRUndef
	// nWordToVerb is the count of relations tracked per-node (word->verb).
	nWordToVerb
	// SRSub and SRObj are computational generic roles, not stored per node.
	SRSub
	SRObj
)

// NWordToVerb is the number of per-node relation slots (SRAgent..SRUndef).
const NWordToVerb = int(nWordToVerb)

// SRHead is an alias of SRVconj: the same slot is read as "head" context on
// nodes that are not verbs, and as "vconj" on verb nodes.
const SRHead = SRVconj

var srNames = [...]string{
	"agent", "topic", "exper", "theme", "auxTheme",
	"qual", "isQby", "vconj", "vAdj", "undef",
	"sub", "obj",
}

// String returns the lowercase relation name used in trace output and in the
// rendered output tree's "kind" attribute.
func (r SR) String() string {
	if int(r) < 0 || int(r) >= len(srNames) {
		return "?"
	}
	return srNames[r]
}

// ParseError is raised by a transform's rule application and caught at the
// per-transform boundary; it never escapes a full parse.
type ParseError struct {
	Msg string
}

func (e *ParseError) Error() string { return e.Msg }

// NewParseError builds a ParseError with the given message.
func NewParseError(msg string) *ParseError { return &ParseError{Msg: msg} }
