package score

import (
	"unicode/utf8"

	"github.com/standardbeagle/lml/internal/msgtoken"
)

// Weight constants for the two token classes. Shared words are far stronger
// evidence of provenance than shared spacing or punctuation.
const (
	wordWeight  = 1.0
	otherWeight = 0.1
)

// Candidate rates candTokens against the query message. The score is the sum
// of per-character weights over the candidate tokens that appear in the
// message, provided those tokens embed into the message stream in the same
// relative order. 0 means rejected: no shared token, or shared tokens in an
// order the message cannot have produced.
func Candidate(q *msgtoken.Query, candTokens []string) float64 {
	filtered := sharedTokens(q, candTokens)
	if len(filtered) == 0 {
		return 0
	}
	if !embedsInOrder(q, filtered) {
		return 0
	}

	total := 0.0
	for _, tok := range filtered {
		if msgtoken.IsWordToken(tok) {
			total += float64(utf8.RuneCountInString(tok)) * wordWeight
		} else {
			total += float64(utf8.RuneCountInString(tok)) * otherWeight
		}
	}
	return total
}

// sharedTokens filters candTokens to those present in the message, dropping
// anything that still looks like a format directive the normalizer missed.
func sharedTokens(q *msgtoken.Query, candTokens []string) []string {
	var filtered []string
	for _, tok := range candTokens {
		if q.Contains(tok) && !leftoverDirectivePattern.MatchString(tok) {
			filtered = append(filtered, tok)
		}
	}
	return filtered
}

// embedsInOrder walks tokens and requires each to occur in the message at a
// position strictly after the previous token's match. The cursor greedily
// takes the earliest available occurrence; this is deliberately not a
// globally optimal alignment and must stay that way for score stability.
func embedsInOrder(q *msgtoken.Query, tokens []string) bool {
	prev := -1
	for _, tok := range tokens {
		idx := q.IndexFrom(tok, prev+1)
		if idx < 0 {
			return false
		}
		prev = idx
	}
	return true
}
