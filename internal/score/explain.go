package score

import (
	"strings"

	"github.com/hbollon/go-edlib"
	"github.com/surgebase/porter2"

	"github.com/standardbeagle/lml/internal/msgtoken"
)

// Verdict classifies why a candidate token did or did not contribute.
type Verdict string

const (
	// VerdictMatched: the token was found in the message in order.
	VerdictMatched Verdict = "matched"
	// VerdictAbsent: the token does not occur in the message at all.
	VerdictAbsent Verdict = "absent"
	// VerdictOutOfOrder: the token occurs in the message, but only before
	// the position the ordered walk had already reached.
	VerdictOutOfOrder Verdict = "out_of_order"
	// VerdictDirective: the token looks like a leftover format directive
	// and is excluded from matching.
	VerdictDirective Verdict = "directive"
)

// nearMissThreshold is the minimum Jaro-Winkler similarity for suggesting a
// message token as the probable intended match of an absent token.
const nearMissThreshold = 0.84

// TokenDiagnosis records the disposition of one candidate token.
type TokenDiagnosis struct {
	Token        string  `json:"token"`
	Verdict      Verdict `json:"verdict"`
	MessageIndex int     `json:"message_index"`    // matched position, -1 otherwise
	AfterIndex   int     `json:"after_index"`      // cursor position an out-of-order token needed to beat
	Nearest      string  `json:"nearest,omitempty"` // closest message token for absent word tokens
	Similarity   float64 `json:"similarity,omitempty"`
	SharesStem   bool    `json:"shares_stem,omitempty"`
}

// Explanation is the full per-token diagnostic for one candidate literal.
type Explanation struct {
	Tokens []TokenDiagnosis `json:"tokens"`
	Score  float64          `json:"score"`
}

// Explain reruns the scoring walk over candTokens and records why each token
// was accepted or rejected. Absent word tokens get a nearest-message-token
// suggestion so near-misses (typos, rewordings, tense changes) are visible.
// Diagnostics never influence scores or ranking.
func Explain(q *msgtoken.Query, candTokens []string) *Explanation {
	exp := &Explanation{
		Tokens: make([]TokenDiagnosis, 0, len(candTokens)),
		Score:  Candidate(q, candTokens),
	}

	prev := -1
	for _, tok := range candTokens {
		diag := TokenDiagnosis{Token: tok, MessageIndex: -1, AfterIndex: -1}
		switch {
		case leftoverDirectivePattern.MatchString(tok):
			diag.Verdict = VerdictDirective
		case !q.Contains(tok):
			diag.Verdict = VerdictAbsent
			if msgtoken.IsWordToken(tok) {
				diag.Nearest, diag.Similarity = nearestMessageToken(q, tok)
				diag.SharesStem = diag.Nearest != "" && sharesStem(tok, diag.Nearest)
			}
		default:
			idx := q.IndexFrom(tok, prev+1)
			if idx < 0 {
				diag.Verdict = VerdictOutOfOrder
				diag.AfterIndex = prev
			} else {
				diag.Verdict = VerdictMatched
				diag.MessageIndex = idx
				prev = idx
			}
		}
		exp.Tokens = append(exp.Tokens, diag)
	}
	return exp
}

// nearestMessageToken returns the message word token most similar to tok by
// Jaro-Winkler, or "" when nothing clears the near-miss threshold.
func nearestMessageToken(q *msgtoken.Query, tok string) (string, float64) {
	best := ""
	bestSim := 0.0
	for _, mt := range q.Tokens {
		if !msgtoken.IsWordToken(mt) {
			continue
		}
		sim, err := edlib.StringsSimilarity(tok, mt, edlib.JaroWinkler)
		if err != nil {
			continue
		}
		if float64(sim) > bestSim {
			bestSim = float64(sim)
			best = mt
		}
	}
	if bestSim < nearMissThreshold {
		return "", 0
	}
	return best, bestSim
}

// sharesStem reports whether two words reduce to the same Porter2 stem, so
// "opening" still points at "opened".
func sharesStem(a, b string) bool {
	return porter2.Stem(strings.ToLower(a)) == porter2.Stem(strings.ToLower(b))
}
