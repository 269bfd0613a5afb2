package reasoning

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplit(t *testing.T) {
	t.Run("should separate reasoning from the answer", func(t *testing.T) {
		parsed := Split("<think>nulls are in the date column</think>The dataset is clean.")

		assert.True(t, parsed.HasReasoning)
		assert.Equal(t, "nulls are in the date column", parsed.Reasoning)
		assert.Equal(t, "The dataset is clean.", parsed.Answer)
		assert.NotContains(t, parsed.Answer, "<think>")
	})

	t.Run("should leave plain text untouched", func(t *testing.T) {
		parsed := Split("  Just an answer  ")

		assert.False(t, parsed.HasReasoning)
		assert.Empty(t, parsed.Reasoning)
		assert.Equal(t, "Just an answer", parsed.Answer)
	})

	t.Run("should join multiple segments", func(t *testing.T) {
		parsed := Split("<think>first</think>Some text <THINKING>second</THINKING>final")

		assert.Equal(t, "first\n\nsecond", parsed.Reasoning)
		assert.Equal(t, "Some text final", parsed.Answer)
	})

	t.Run("should span lines", func(t *testing.T) {
		parsed := Split("<think>\nstep 1\nstep 2\n</think>\n\n## Summary\nDone")

		assert.Equal(t, "step 1\nstep 2", parsed.Reasoning)
		assert.Equal(t, "## Summary\nDone", parsed.Answer)
		assert.Equal(t, 2, parsed.LineCount())
	})

	t.Run("should treat empty segments as no reasoning", func(t *testing.T) {
		parsed := Split("<think>  </think>Response only")

		assert.False(t, parsed.HasReasoning)
		assert.Equal(t, "Response only", parsed.Answer)
		assert.Zero(t, parsed.LineCount())
	})

	t.Run("should send an unterminated segment to reasoning", func(t *testing.T) {
		parsed := Split("Partial answer <think>still going")

		assert.True(t, parsed.HasReasoning)
		assert.Equal(t, "still going", parsed.Reasoning)
		assert.Equal(t, "Partial answer", parsed.Answer)
	})

	t.Run("should handle closed and unterminated segments together", func(t *testing.T) {
		parsed := Split("<think>a</think>Answer<think>b")

		assert.Equal(t, "a\n\nb", parsed.Reasoning)
		assert.Equal(t, "Answer", parsed.Answer)
	})
}

func TestSplitRequiresMatchingMarkers(t *testing.T) {
	p := Split("<think>a</thinking>answer")
	// the mismatched close never ends the block, so the rest is unterminated reasoning
	assert.True(t, p.HasReasoning)
	assert.Equal(t, "a</thinking>answer", p.Reasoning)
	assert.Empty(t, p.Answer)

	p = Split("<thinking>plan</thinking>ok")
	assert.Equal(t, "plan", p.Reasoning)
	assert.Equal(t, "ok", p.Answer)

	p = Split("<THINK>x</THINK>done")
	assert.Equal(t, "x", p.Reasoning)
	assert.Equal(t, "done", p.Answer)
}
