package defs

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWPropString(t *testing.T) {
	assert.Equal(t, "VERB ROOT", (WPVerb | WPRoot).String())
	assert.Equal(t, "", WProp(0).String())
}

func TestWPropHas(t *testing.T) {
	m := WPVerb | WPPresent
	assert.True(t, m.Has(WPVerb))
	assert.True(t, m.Has(WPPresent|WPPast))
	assert.False(t, m.Has(WPPast))
}

func TestVPropFormat(t *testing.T) {
	m := VPPast | VPNeg
	assert.Equal(t, "not:past", m.Format(":"))
}

func TestSRString(t *testing.T) {
	assert.Equal(t, "agent", SRAgent.String())
	assert.Equal(t, "vconj", SRHead.String())
	assert.Equal(t, "?", SR(-1).String())
}

func TestNewParseError(t *testing.T) {
	err := NewParseError("bad state")
	assert.EqualError(t, err, "bad state")
}
