// Package msgtoken splits log messages and string literals into the token
// streams the matching engine compares: whitespace runs, identifier-like word
// runs, and single punctuation characters.
package msgtoken

import "regexp"

// tokenPattern splits text into three alternatives, tried in order: a maximal
// whitespace run, a maximal run of word characters (letters, digits,
// underscore, dot), or any single remaining character. Dots count as word
// characters so dotted names like foo.bar stay one token.
var tokenPattern = regexp.MustCompile(`\s+|[\p{L}\p{N}_.]+|[^\s\p{L}\p{N}_.]`)

// wordPattern matches tokens consisting entirely of word characters.
var wordPattern = regexp.MustCompile(`^[\p{L}\p{N}_.]+$`)

// Tokenize splits text into whitespace, word and punctuation tokens.
// Every input character lands in exactly one token, so concatenating the
// result reproduces text unchanged.
func Tokenize(text string) []string {
	return tokenPattern.FindAllString(text, -1)
}

// IsWordToken reports whether tok is an identifier-like word run.
// Word tokens carry full weight in scoring; whitespace and punctuation
// tokens carry a tenth.
func IsWordToken(tok string) bool {
	return wordPattern.MatchString(tok)
}
