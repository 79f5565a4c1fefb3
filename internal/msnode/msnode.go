// Package msnode defines the output tree: the shape client code actually
// consumes, once the parse graph's internal Pn/relation structure has been
// flattened into a simple, presentation-oriented tree.
package msnode

import (
	"fmt"
	"strings"
)

// Node is one node of a rendered parse: depending on its parent, Kind names
// either a thematic role, a qualifier relation, or (for a top-level node)
// meta-syntactic info such as "quote" or "punct".
type Node struct {
	// Kind is the node's relation to its parent (or, at the top level,
	// its meta-syntactic category).
	Kind string
	// Form is the node's syntax form: noun, modifier, verb expression.
	Form string
	// Text is the node's source text.
	Text string

	Parent   *Node
	Subnodes []*Node
	// Depth is the node's distance from the tree root.
	Depth int

	// Head holds prepositions etc. immediately preceding the phrase
	// this node represents.
	Head string
	// Vroots, Vqual, and Vprops are defined only for verb expressions:
	// the verb(s)' root form(s), any qualifiers in a complex verb
	// phrase ("couldn't go"), and the resolved tense/voice/negation
	// properties.
	Vroots string
	Vqual  string
	Vprops string

	// Location fields are populated only when the caller asks for
	// source-location tracking; LineS == -1 otherwise.
	LineS, ColS, LineE, ColE int
	// Blank is the number of blank lines preceding this node's source
	// text, or -1 if not tracked.
	Blank int
}

// NewNode returns a node of the given kind/form/text, linked under parent
// (nil for a root), with depth and location fields initialized.
func NewNode(kind, form, text string, parent *Node) *Node {
	n := &Node{
		Kind: kind, Form: form, Text: text, Parent: parent,
		LineS: -1, ColS: -1, LineE: -1, ColE: -1, Blank: -1,
	}
	for e := parent; e != nil; e = e.Parent {
		n.Depth++
	}
	return n
}

// GetSubnode returns the first child of the given kind, or nil.
func (n *Node) GetSubnode(kind string) *Node {
	for _, s := range n.Subnodes {
		if s.Kind == kind {
			return s
		}
	}
	return nil
}

// ToXML renders the subtree rooted at n as XML. When withLoc is set, each
// element carries a loc="lineS colS lineE colE" attribute (and a blank="n"
// attribute, if a blank-line count was recorded).
func (n *Node) ToXML(withLoc bool) string {
	var b strings.Builder
	n.writeXML(&b, withLoc)
	return b.String()
}

func (n *Node) writeXML(b *strings.Builder, withLoc bool) {
	indent := strings.Repeat("  ", n.Depth+1)
	b.WriteString(indent + "<" + n.Kind)
	if n.Form != "" {
		fmt.Fprintf(b, ` form="%s"`, n.Form)
	}
	if n.Vroots != "" {
		fmt.Fprintf(b, ` vroots="%s"`, n.Vroots)
	}
	if n.Vqual != "" {
		fmt.Fprintf(b, ` vqual="%s"`, n.Vqual)
	}
	if n.Vprops != "" {
		fmt.Fprintf(b, ` vprops="%s"`, n.Vprops)
	}
	if n.Head != "" {
		fmt.Fprintf(b, ` head="%s"`, n.Head)
	}
	if withLoc {
		fmt.Fprintf(b, ` loc="%d %d %d %d"`, n.LineS, n.ColS, n.LineE, n.ColE)
		if n.Blank != -1 {
			fmt.Fprintf(b, ` blank="%d"`, n.Blank)
		}
	}
	b.WriteString(">")
	if n.Text == "" {
		b.WriteString("\n")
	}
	closer := "</" + n.Kind + ">\n"
	if len(n.Subnodes) == 0 {
		if n.Text != "" {
			b.WriteString(" " + n.Text + " ")
			b.WriteString(closer)
		}
		return
	}
	if n.Text != "" {
		fmt.Fprintf(b, "\n%s  %s\n", indent, n.Text)
	}
	for _, s := range n.Subnodes {
		s.writeXML(b, withLoc)
	}
	b.WriteString(indent + closer)
}

// Summary renders a dev/test debug dump of the subtree rooted at n: one
// line per node, showing its kind and (for verb expressions) root/qualifier/
// head/prop info, or else its source text. Use ToXML for the full parse.
func (n *Node) Summary() string {
	var b strings.Builder
	n.writeSummary(&b)
	return b.String()
}

func (n *Node) writeSummary(b *strings.Builder) {
	indent := strings.Repeat("  ", n.Depth)
	b.WriteString(indent + n.Kind + ". ")
	if n.Vroots != "" {
		if n.Vprops != "" {
			b.WriteString("[" + n.Vprops + "] ")
		}
		if n.Vqual != "" {
			b.WriteString("[" + n.Vqual + "] ")
		}
		if n.Head != "" {
			b.WriteString("(" + n.Head + ") ")
		}
		fmt.Fprintf(b, " %s\n", n.Vroots)
	} else {
		if n.Head != "" {
			b.WriteString("(" + n.Head + ") ")
		}
		fmt.Fprintf(b, " %s\n", n.Text)
	}
	for _, s := range n.Subnodes {
		s.writeSummary(b)
	}
}
