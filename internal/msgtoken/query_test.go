package msgtoken

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewQuery(t *testing.T) {
	t.Run("tokenizes_message_once", func(t *testing.T) {
		q := NewQuery("error opening file", 1.5)
		require.Equal(t, []string{"error", " ", "opening", " ", "file"}, q.Tokens)
		assert.Equal(t, "error opening file", q.Message)
		assert.Equal(t, 1.5, q.MinScore)
	})

	t.Run("membership_covers_all_tokens", func(t *testing.T) {
		q := NewQuery("a b a", 0)
		assert.True(t, q.Contains("a"))
		assert.True(t, q.Contains("b"))
		assert.True(t, q.Contains(" "))
		assert.False(t, q.Contains("c"))
	})

	t.Run("empty_message", func(t *testing.T) {
		q := NewQuery("", 0)
		assert.Empty(t, q.Tokens)
		assert.False(t, q.Contains(""))
	})
}

func TestQueryIndexFrom(t *testing.T) {
	// Tokens: "a" " " "b" " " "a" " " "c"
	q := NewQuery("a b a c", 0)

	t.Run("first_occurrence_from_start", func(t *testing.T) {
		assert.Equal(t, 0, q.IndexFrom("a", 0))
	})

	t.Run("second_occurrence_after_cursor", func(t *testing.T) {
		assert.Equal(t, 4, q.IndexFrom("a", 1))
	})

	t.Run("absent_token", func(t *testing.T) {
		assert.Equal(t, -1, q.IndexFrom("z", 0))
	})

	t.Run("exhausted_occurrences", func(t *testing.T) {
		assert.Equal(t, -1, q.IndexFrom("a", 5))
	})

	t.Run("negative_start_clamps_to_zero", func(t *testing.T) {
		assert.Equal(t, 0, q.IndexFrom("a", -3))
	})
}
