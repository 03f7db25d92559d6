package display

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/standardbeagle/lml/internal/msgtoken"
	"github.com/standardbeagle/lml/internal/scan"
	"github.com/standardbeagle/lml/internal/score"
)

// explainLimit caps how many rejected literals get a token-level breakdown.
const explainLimit = 5

// RenderExplanations writes a per-token diagnosis for the best-scoring
// entries in cands, at most explainLimit of them. Callers pass the literals
// that fell short; the input slice is not modified.
func RenderExplanations(out io.Writer, q *msgtoken.Query, cands []scan.Candidate) error {
	if len(cands) == 0 {
		return nil
	}

	ordered := make([]scan.Candidate, len(cands))
	copy(ordered, cands)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Score > ordered[j].Score
	})
	if len(ordered) > explainLimit {
		ordered = ordered[:explainLimit]
	}

	var sb strings.Builder
	for _, cand := range ordered {
		fmt.Fprintf(&sb, "File: %s  Line: %d  Score: %.1f\n", cand.File, cand.Line, cand.Score)
		fmt.Fprintf(&sb, "  Literal: %q\n", cand.Content)
		exp := score.Explain(q, msgtoken.Tokenize(cand.Content))
		for _, diag := range exp.Tokens {
			fmt.Fprintf(&sb, "    %-14s %s\n", strconv.Quote(diag.Token), verdictText(diag))
		}
	}
	_, err := io.WriteString(out, sb.String())
	return err
}

// verdictText renders one diagnosis for human eyes.
func verdictText(d score.TokenDiagnosis) string {
	switch d.Verdict {
	case score.VerdictMatched:
		return fmt.Sprintf("matched at message index %d", d.MessageIndex)
	case score.VerdictOutOfOrder:
		return fmt.Sprintf("out of order, no occurrence after index %d", d.AfterIndex)
	case score.VerdictDirective:
		return "format directive, ignored"
	default:
		if d.Nearest == "" {
			return "absent from message"
		}
		if d.SharesStem {
			return fmt.Sprintf("absent, nearest %q (similarity %.2f, same stem)", d.Nearest, d.Similarity)
		}
		return fmt.Sprintf("absent, nearest %q (similarity %.2f)", d.Nearest, d.Similarity)
	}
}
