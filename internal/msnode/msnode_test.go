package msnode

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewNodeComputesDepthFromParentChain(t *testing.T) {
	root := NewNode("clause", "", "", nil)
	assert.Equal(t, 0, root.Depth)
	assert.Equal(t, -1, root.LineS)
	assert.Equal(t, -1, root.Blank)

	child := NewNode("agent", "noun", "dog", root)
	assert.Equal(t, 1, child.Depth)
	assert.Same(t, root, child.Parent)

	grandchild := NewNode("modifies", "mod", "big", child)
	assert.Equal(t, 2, grandchild.Depth)
}

func TestGetSubnode(t *testing.T) {
	root := NewNode("clause", "", "", nil)
	agent := NewNode("agent", "noun", "dog", root)
	theme := NewNode("theme", "noun", "bone", root)
	root.Subnodes = []*Node{agent, theme}

	require.Same(t, agent, root.GetSubnode("agent"))
	require.Same(t, theme, root.GetSubnode("theme"))
	assert.Nil(t, root.GetSubnode("missing"))
}

func TestToXMLLeafNode(t *testing.T) {
	n := NewNode("agent", "noun", "dog", nil)
	got := n.ToXML(false)
	assert.Equal(t, "  <agent form=\"noun\"> dog </agent>\n", got)
}

func TestToXMLNestedWithLocationAndBlank(t *testing.T) {
	parent := NewNode("clause", "", "", nil)
	parent.LineS, parent.ColS, parent.LineE, parent.ColE = 1, 0, 1, 10
	parent.Blank = 2
	child := NewNode("agent", "noun", "dog", parent)
	parent.Subnodes = []*Node{child}

	got := parent.ToXML(true)
	assert.Contains(t, got, `<clause loc="1 0 1 10" blank="2">`)
	assert.Contains(t, got, `    <agent form="noun"`)
	assert.Contains(t, got, " dog </agent>")
	assert.True(t, got[len(got)-len("  </clause>\n"):] == "  </clause>\n")
}

func TestToXMLOmitsLocWhenNotRequested(t *testing.T) {
	n := NewNode("agent", "noun", "dog", nil)
	got := n.ToXML(false)
	assert.NotContains(t, got, "loc=")
}

func TestToXMLParentWithTextAndSubnodes(t *testing.T) {
	parent := NewNode("clause", "", "intro", nil)
	child := NewNode("agent", "noun", "dog", parent)
	parent.Subnodes = []*Node{child}

	got := parent.ToXML(false)
	assert.Contains(t, got, "intro")
	assert.Contains(t, got, "<agent")
}

func TestSummaryLeafNode(t *testing.T) {
	n := NewNode("agent", "noun", "dog", nil)
	assert.Equal(t, "agent.  dog\n", n.Summary())
}

func TestSummaryVerbExpression(t *testing.T) {
	n := NewNode("V", "vexpr", "", nil)
	n.Vroots = "go"
	n.Vprops = "past"
	n.Vqual = "couldn't"
	n.Head = "to"

	assert.Equal(t, "V. [past] [couldn't] (to)  go\n", n.Summary())
}

func TestSummaryNestsChildren(t *testing.T) {
	root := NewNode("clause", "", "", nil)
	child := NewNode("agent", "noun", "dog", root)
	root.Subnodes = []*Node{child}

	got := root.Summary()
	assert.Contains(t, got, "clause. ")
	assert.Contains(t, got, "  agent.  dog\n")
}
