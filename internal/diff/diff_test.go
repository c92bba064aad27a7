package diff

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSummarize(t *testing.T) {
	s := Summarize("alpha\nbeta\n", "alpha\ngamma\ndelta\n")

	assert.Equal(t, 2, s.Added)
	assert.Equal(t, 1, s.Removed)
	assert.True(t, s.Changed())
	assert.Equal(t, "+2 -1", s.String())
	assert.Equal(t, Line{Type: LineContext, Text: "alpha", OldLine: 1, NewLine: 1}, s.Lines[0])
	assert.Contains(t, s.Unified(), "- beta\n")
	assert.Contains(t, s.Unified(), "+ gamma\n")
}

func TestSummarizeIdentical(t *testing.T) {
	s := Summarize("exit", "exit")
	assert.False(t, s.Changed())
	assert.Equal(t, "  exit\n", s.Unified())
}

func TestSummarizeFromEmpty(t *testing.T) {
	s := Summarize("", "a\nb")
	assert.Equal(t, 2, s.Added)
	assert.Zero(t, s.Removed)
}
