package msgtoken

// Query carries the tokenized target message and the minimum score threshold
// for one run. It is built once and shared read-only across all workers, so
// deep pipeline code never reaches for ambient state.
type Query struct {
	// Message is the raw user-supplied log line.
	Message string
	// Tokens is the ordered token stream of Message.
	Tokens []string
	// MinScore is the threshold below which candidates are dropped.
	MinScore float64

	tokenSet map[string]struct{}
}

// NewQuery tokenizes message and builds the membership set used by the
// scorer's fast containment checks.
func NewQuery(message string, minScore float64) *Query {
	tokens := Tokenize(message)
	set := make(map[string]struct{}, len(tokens))
	for _, tok := range tokens {
		set[tok] = struct{}{}
	}
	return &Query{
		Message:  message,
		Tokens:   tokens,
		MinScore: minScore,
		tokenSet: set,
	}
}

// Contains reports whether tok occurs anywhere in the message.
func (q *Query) Contains(tok string) bool {
	_, ok := q.tokenSet[tok]
	return ok
}

// IndexFrom returns the index of the first occurrence of tok in the message
// token stream at or after start, or -1 when there is none. The scorer uses
// it to enforce that candidate tokens advance strictly through the message.
func (q *Query) IndexFrom(tok string, start int) int {
	if start < 0 {
		start = 0
	}
	for i := start; i < len(q.Tokens); i++ {
		if q.Tokens[i] == tok {
			return i
		}
	}
	return -1
}
