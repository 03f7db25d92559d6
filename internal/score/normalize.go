// Package score rates how likely a string literal is to have produced a
// given log message. Literals are normalized (printf-style directives
// removed), tokenized, and checked for ordered textual overlap with the
// message token stream.
package score

import "regexp"

var (
	// formatDirectivePattern matches a printf-style conversion specifier:
	// percent, optional flags, optional width, optional precision, one
	// conversion letter. The letter set is intentionally narrow.
	formatDirectivePattern = regexp.MustCompile(`%[-+0# ]*\d*(?:\.\d+)?[dsf]`)

	// leftoverDirectivePattern matches a whole token that still looks like
	// a conversion specifier after normalization.
	leftoverDirectivePattern = regexp.MustCompile(`^%[-+0# ]*\d*(?:\.\d+)?[dsf]$`)

	// bareStringDirectivePattern matches a lone string placeholder.
	bareStringDirectivePattern = regexp.MustCompile(`^%s$`)
)

// StripFormatDirectives removes printf-style conversion specifiers from
// text. The directives are runtime-substituted, so they must neither
// contribute to nor penalize a match. Removal is plain textual deletion and
// is idempotent.
func StripFormatDirectives(text string) string {
	return formatDirectivePattern.ReplaceAllString(text, "")
}

// Degenerate reports whether a normalized token stream carries no usable
// information: empty, or a single bare string-placeholder token. Such
// literals never become candidates regardless of the message.
func Degenerate(tokens []string) bool {
	if len(tokens) == 0 {
		return true
	}
	return len(tokens) == 1 && bareStringDirectivePattern.MatchString(tokens[0])
}
