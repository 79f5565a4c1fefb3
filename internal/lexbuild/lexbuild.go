// Package lexbuild constructs a lexicon from a small set of built-in word
// lists, grouped the way the original lexicon data file grouped them
// (verbs with their irregular forms, prepositions with their fitness-
// ranked verbs, contractions expanded by rewrite rule, and a handful of
// plain word-class lists). It is a build-time concern: a production
// lexicon would instead load a far larger word list from an external
// resource, but the loading mechanics are the same.
package lexbuild

import (
	"strings"

	"github.com/AlCramer/msparse/internal/defs"
	"github.com/AlCramer/msparse/internal/lex"
)

// Build returns a new lexicon seeded with the built-in word lists and a
// handful of rewrite/prep-fitness rules, with every seeded word's syntax
// class assigned. Words that appear only inside a rewrite rule (such as
// "not" and "I") are entered with no properties and no syntax class.
func Build() *lex.Lexicon {
	lx := lex.New()
	lx.Version = "1.0"

	lx.DefineSc("Comma", defs.WPPunct)
	lx.DefineSc("Punct", defs.WPPunct)
	lx.DefineSc("X", defs.WPX)

	seedBe(lx)
	seedVerbs(lx)
	seedContractions(lx)
	seedWordLists(lx)
	seedPrepVerbs(lx)
	seedPunct(lx)

	return lx
}

func defineWords(lx *lex.Lexicon, props defs.WProp, root lex.Key, words string) {
	for _, sp := range strings.Fields(words) {
		ix := lx.Define(sp, props, root)
		lx.AssignSynClass(ix)
	}
}

// seedBe defines the forms of "be": an irregular verb common enough to
// warrant its own entry, exactly as the original lexicon data special-cased
// it ahead of the regular ">>Verbs" table.
func seedBe(lx *lex.Lexicon) {
	root := lx.Define("be", defs.WPVerb|defs.WPRoot|defs.WPPresent, 0)
	lx.AssignSynClass(root)
	gerund := lx.Define("being", defs.WPVerb|defs.WPGerund, root)
	lx.AssignSynClass(gerund)
	defineWords(lx, defs.WPVerb|defs.WPPresent, root, "am are is 's")
	defineWords(lx, defs.WPVerb|defs.WPPast, root, "was were been")
}

// verbEntry is one ">>Verbs" line: root, its irregular present/past/past
// participle/gerund forms (empty for a regular verb, whose forms are
// derived morphologically by isVerbVariant), and its syntax-form tag.
type verbEntry struct {
	root, pres3, past, pastPart, gerund string
	form                                defs.WProp
}

func seedVerbs(lx *lex.Lexicon) {
	verbs := []verbEntry{
		{root: "go", pres3: "goes", past: "went", pastPart: "gone", gerund: "going", form: defs.WPAVGT},
		{root: "do", pres3: "does", past: "did", pastPart: "done", gerund: "doing", form: defs.WPAVGT},
		{root: "have", pres3: "has", past: "had", pastPart: "had", gerund: "having", form: defs.WPAVE},
		{root: "say", pres3: "says", past: "said", pastPart: "said", gerund: "saying", form: defs.WPEVT},
		{root: "make", pres3: "makes", past: "made", pastPart: "made", gerund: "making", form: defs.WPEVT},
		{root: "take", pres3: "takes", past: "took", pastPart: "taken", gerund: "taking", form: defs.WPEVT},
		{root: "think", pres3: "thinks", past: "thought", pastPart: "thought", gerund: "thinking", form: defs.WPAVE},
		{root: "know", pres3: "knows", past: "knew", pastPart: "known", gerund: "knowing", form: defs.WPAVE},
		{root: "see", pres3: "sees", past: "saw", pastPart: "seen", gerund: "seeing", form: defs.WPAVE},
		{root: "want", form: defs.WPVPQ},
		{root: "need", form: defs.WPVPQ},
		{root: "begin", pres3: "begins", past: "began", pastPart: "begun", gerund: "beginning", form: defs.WPVPQ},
		{root: "try", pres3: "tries", past: "tried", pastPart: "tried", gerund: "trying", form: defs.WPVPQ},
		{root: "give", pres3: "gives", past: "gave", pastPart: "given", gerund: "giving"},
		{root: "tell", pres3: "tells", past: "told", pastPart: "told", gerund: "telling"},
		{root: "find", pres3: "finds", past: "found", pastPart: "found", gerund: "finding"},
		{root: "come", pres3: "comes", past: "came", pastPart: "come", gerund: "coming"},
		{root: "look"},
		{root: "ask"},
		{root: "work"},
		{root: "let"},
		{root: "put", pres3: "puts", past: "put", pastPart: "put", gerund: "putting"},
	}
	for _, v := range verbs {
		rootKey := lx.Define(v.root, defs.WPVerb|defs.WPRoot|defs.WPPresent, 0)
		lx.AssignSynClass(rootKey)
		if v.pres3 != "" {
			defineWords(lx, defs.WPVerb|defs.WPPresent, rootKey, v.pres3)
			defineWords(lx, defs.WPVerb|defs.WPPast, rootKey, v.past)
			defineWords(lx, defs.WPVerb|defs.WPPast|defs.WPParticiple, rootKey, v.pastPart)
			defineWords(lx, defs.WPVerb|defs.WPGerund, rootKey, v.gerund)
		}
		if v.form != 0 {
			lx.SetProp(rootKey, v.form)
			lx.AssignSynClass(rootKey)
		}
	}
}

func seedContractions(lx *lex.Lexicon) {
	lx.AssignSynClass(lx.Define("'d", defs.WPVAdj, 0))
	defineWords(lx, defs.WPConj, 0, "and or")
	defineWords(lx, defs.WPVAdj, 0, "will shall would should may might ought")
	can := lx.Define("can", defs.WPVAdj|defs.WPPresent, 0)
	lx.AssignSynClass(can)
	could := lx.Define("could", defs.WPVAdj|defs.WPPast, 0)
	lx.AssignSynClass(could)

	type rewrite struct{ lhs, rhs []string }
	rewrites := []rewrite{
		{[]string{"can't"}, []string{"can", "not"}},
		{[]string{"won't"}, []string{"will", "not"}},
		{[]string{"don't"}, []string{"do", "not"}},
		{[]string{"doesn't"}, []string{"does", "not"}},
		{[]string{"didn't"}, []string{"did", "not"}},
		{[]string{"isn't"}, []string{"is", "not"}},
		{[]string{"aren't"}, []string{"are", "not"}},
		{[]string{"wasn't"}, []string{"was", "not"}},
		{[]string{"weren't"}, []string{"were", "not"}},
		{[]string{"i'm"}, []string{"I", "am"}},
		{[]string{"i've"}, []string{"I", "have"}},
		{[]string{"i'll"}, []string{"I", "will"}},
		{[]string{"i'd"}, []string{"I", "'d"}},
	}
	for _, rw := range rewrites {
		contractKey := lx.Define(rw.lhs[0], defs.WPContraction, 0)
		lx.AssignSynClass(contractKey)
		lhs := make([]lex.Key, len(rw.lhs))
		for i, sp := range rw.lhs {
			lhs[i] = lx.Lookup(sp, true)
		}
		rhs := make([]lex.Key, len(rw.rhs))
		for i, sp := range rw.rhs {
			rhs[i] = lx.Lookup(sp, true)
		}
		lx.SetRewriteRules(lhs[0], append(existingRules(lx, lhs[0]), lex.RewriteRule{Lhs: lhs, Rhs: rhs}))
	}
}

func existingRules(lx *lex.Lexicon, ix lex.Key) []lex.RewriteRule {
	// built fresh each build run, so there is never a prior rule set to
	// preserve; kept as a function for symmetry with a loader that reads
	// an external, appendable rule file.
	return nil
}

func seedWordLists(lx *lex.Lexicon) {
	lists := []struct {
		props defs.WProp
		words string
	}{
		{defs.WPNoun, "dog cat house car book table door window room city street garden tree flower cup chair phone computer letter key"},
		{defs.WPConj, "but nor yet so"},
		{defs.WPDetS, "the this that these those"},
		{defs.WPDetW, "a an some any every each no"},
		{defs.WPN | defs.WPPronoun, "i you he she it we they me him her us them"},
		{defs.WPN, "john mary london paris"},
		{defs.WPAbbrev, "mr mrs dr st"},
		{defs.WPMod, "very quite happy sad angry tall short quick slow loud quiet good bad big small old new"},
		{defs.WPPrep, "in on at by with from to of for"},
		{defs.WPClPrep, "because although while since"},
		{defs.WPQualPrep, "about regarding concerning"},
		{defs.WPQuery, "who what where when why how"},
	}
	for _, l := range lists {
		defineWords(lx, l.props, 0, l.words)
	}
}

func seedPrepVerbs(lx *lex.Lexicon) {
	toKey := lx.Lookup("to", false)
	verbs := []string{"go", "give", "tell", "come"}
	var ranked []lex.Key
	for _, sp := range verbs {
		if k := lx.Lookup(sp, false); k != 0 && lx.CheckProp(k, defs.WPRoot) {
			ranked = append(ranked, k)
		}
	}
	if toKey != 0 {
		lx.SetPrepVerbs(toKey, ranked)
	}
}

func seedPunct(lx *lex.Lexicon) {
	// The comma and end-of-sentence marks are handled by pgraph's
	// computeSynClass, which looks up "Comma"/"Punct" directly, but any
	// punctuation rune still needs a lexicon entry (for Spelling/Wrds) to
	// be tokenized at all.
	defineWords(lx, defs.WPPunct, 0, ". , ! ? ; :")
}
