// Package xmlout renders a parse (a list of output-tree roots, one per
// top-level sentence/fragment) as a single XML document.
package xmlout

import (
	"strings"

	"github.com/AlCramer/msparse/internal/msnode"
)

// Render wraps each node's XML rendering in a <msp> document, optionally
// including source-location attributes.
func Render(nodes []*msnode.Node, withLoc bool) string {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" standalone="yes"?>` + "\n")
	b.WriteString("<msp>\n")
	for _, n := range nodes {
		b.WriteString(n.ToXML(withLoc))
		b.WriteString("\n")
	}
	b.WriteString("</msp>\n")
	return b.String()
}
