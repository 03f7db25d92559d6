package score

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/standardbeagle/lml/internal/msgtoken"
)

func TestExplainMatchedTokens(t *testing.T) {
	q := msgtoken.NewQuery("error opening file", 0)
	exp := Explain(q, msgtoken.Tokenize("error file"))

	require.Len(t, exp.Tokens, 3)
	assert.Equal(t, VerdictMatched, exp.Tokens[0].Verdict)
	assert.Equal(t, 0, exp.Tokens[0].MessageIndex)
	assert.Equal(t, VerdictMatched, exp.Tokens[1].Verdict) // the space
	assert.Equal(t, VerdictMatched, exp.Tokens[2].Verdict)
	assert.Equal(t, 4, exp.Tokens[2].MessageIndex)
	assert.InDelta(t, 9.1, exp.Score, 1e-9)
}

func TestExplainOutOfOrder(t *testing.T) {
	q := msgtoken.NewQuery("error opening file", 0)
	exp := Explain(q, []string{"file", "error"})

	require.Len(t, exp.Tokens, 2)
	assert.Equal(t, VerdictMatched, exp.Tokens[0].Verdict)
	assert.Equal(t, 4, exp.Tokens[0].MessageIndex)
	assert.Equal(t, VerdictOutOfOrder, exp.Tokens[1].Verdict)
	assert.Equal(t, 4, exp.Tokens[1].AfterIndex)
	assert.Zero(t, exp.Score)
}

func TestExplainAbsentWithNearMiss(t *testing.T) {
	q := msgtoken.NewQuery("connection refused by host", 0)
	exp := Explain(q, []string{"connectoin"})

	require.Len(t, exp.Tokens, 1)
	diag := exp.Tokens[0]
	assert.Equal(t, VerdictAbsent, diag.Verdict)
	assert.Equal(t, "connection", diag.Nearest)
	assert.Greater(t, diag.Similarity, 0.8)
}

func TestExplainSharedStem(t *testing.T) {
	q := msgtoken.NewQuery("opened database", 0)
	exp := Explain(q, []string{"opening"})

	require.Len(t, exp.Tokens, 1)
	diag := exp.Tokens[0]
	assert.Equal(t, VerdictAbsent, diag.Verdict)
	if diag.Nearest != "" {
		assert.Equal(t, "opened", diag.Nearest)
		assert.True(t, diag.SharesStem)
	}
}

func TestExplainDirectiveToken(t *testing.T) {
	q := msgtoken.NewQuery("count 42", 0)
	exp := Explain(q, []string{"%d", "count"})

	require.Len(t, exp.Tokens, 2)
	assert.Equal(t, VerdictDirective, exp.Tokens[0].Verdict)
	assert.Equal(t, VerdictMatched, exp.Tokens[1].Verdict)
}

func TestExplainNoSuggestionForDistantTokens(t *testing.T) {
	q := msgtoken.NewQuery("disk full", 0)
	exp := Explain(q, []string{"network"})

	require.Len(t, exp.Tokens, 1)
	assert.Equal(t, VerdictAbsent, exp.Tokens[0].Verdict)
	assert.Empty(t, exp.Tokens[0].Nearest)
}
