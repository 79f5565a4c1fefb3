package parseerr

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	err := Parse("unexpected token")
	assert.EqualError(t, err, "unexpected token")
	assert.True(t, IsParse(err))
	assert.False(t, IsLoad(err))
}

func TestParsef(t *testing.T) {
	err := Parsef("unexpected token %q at %d", "foo", 3)
	assert.EqualError(t, err, `unexpected token "foo" at 3`)
}

func TestWrapParse(t *testing.T) {
	cause := errors.New("underlying")
	err := WrapParse(cause, "could not reduce")
	require.Error(t, err)
	assert.EqualError(t, err, "could not reduce")
	assert.ErrorIs(t, err, cause)
}

func TestLoad(t *testing.T) {
	err := Load("missing table file")
	assert.EqualError(t, err, "missing table file")
	assert.True(t, IsLoad(err))
	assert.False(t, IsParse(err))
}

func TestWrapLoad(t *testing.T) {
	cause := errors.New("no such file")
	err := WrapLoad(cause, "could not read msp.dat")
	assert.ErrorIs(t, err, cause)
	assert.True(t, IsLoad(err))
}
