package display

import (
	"regexp"

	"github.com/standardbeagle/lml/internal/msgtoken"
	"github.com/standardbeagle/lml/internal/score"
)

const (
	colorRed   = "\x1b[31m"
	colorReset = "\x1b[0m"
)

// candidateLiteralPattern matches one double-quoted literal, escapes
// included, on a source line.
var candidateLiteralPattern = regexp.MustCompile(`"(?:\\.|[^"\\])*"`)

// Highlighter colors occurrences of the target message's tokens in context
// lines.
type Highlighter struct {
	patterns []*regexp.Regexp
}

// NewHighlighter precompiles one pattern per message token, in message
// order. Word tokens get word boundaries so "error" does not light up
// inside "errors". Duplicate and whitespace tokens keep their own entries;
// Message applies the patterns one at a time, so the pass count matters.
func NewHighlighter(tokens []string) *Highlighter {
	h := &Highlighter{patterns: make([]*regexp.Regexp, 0, len(tokens))}
	for _, tok := range tokens {
		if tok == "" {
			continue
		}
		pattern := regexp.QuoteMeta(tok)
		if msgtoken.IsWordToken(tok) {
			pattern = `\b` + pattern + `\b`
		}
		h.patterns = append(h.patterns, regexp.MustCompile(pattern))
	}
	return h
}

// Message colors every occurrence of every message token in text. Patterns
// run sequentially, each over the output of the previous one.
func (h *Highlighter) Message(text string) string {
	for _, re := range h.patterns {
		text = re.ReplaceAllString(text, colorRed+"${0}"+colorReset)
	}
	return text
}

// HighlightCandidate colors the inner text of the first double-quoted
// literal on line, provided its directive-stripped form equals content.
// Only the first literal is considered; a line whose first literal is some
// other string comes back unchanged.
func HighlightCandidate(line, content string) string {
	loc := candidateLiteralPattern.FindStringIndex(line)
	if loc == nil {
		return line
	}
	inner := line[loc[0]+1 : loc[1]-1]
	if score.StripFormatDirectives(inner) != content {
		return line
	}
	return line[:loc[0]] + `"` + colorRed + inner + colorReset + `"` + line[loc[1]:]
}
