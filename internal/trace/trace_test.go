package trace

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDiscard(t *testing.T) {
	assert.NotPanics(t, func() {
		Discard.Tracef("ignored %d", 1)
	})
}

func TestWriterTracef(t *testing.T) {
	var buf bytes.Buffer
	sink := NewWriter(&buf)
	sink.Tracef("section %s: %d byte(s)", "abc", 42)
	assert.Contains(t, buf.String(), "section abc: 42 byte(s)")
}

func TestWriterWrapsLongLines(t *testing.T) {
	var buf bytes.Buffer
	sink := NewWriter(&buf)
	long := strings.Repeat("word ", 40)
	sink.Tracef("%s", long)
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	assert.Greater(t, len(lines), 1)
}
