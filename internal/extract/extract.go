// Package extract pulls string literals out of source text with per-dialect
// regular expressions. The patterns are a deliberate approximation: they
// recognize the common literal forms without parsing the language, so
// constructs they cannot model (adjacent concatenation, exotic escape rules,
// unterminated literals) are silently skipped rather than reported.
package extract

import (
	"path/filepath"
	"regexp"
	"strings"
)

// Literal is one string constant found in a file: the 1-based physical line
// of its opening delimiter and its text with delimiting quotes and any
// dialect prefix letters removed.
type Literal struct {
	Line int
	Text string
}

// Extractor yields the string literals of one source dialect.
type Extractor interface {
	// Name identifies the dialect in debug output.
	Name() string
	// Extract returns the literals of content in source order.
	Extract(content string) []Literal
}

var (
	// A backslash escapes the following character, so an escaped quote does
	// not terminate the literal.
	cStringPattern = regexp.MustCompile(`"(?:\\.|[^"\\])*"`)

	// Optional string prefix (raw/unicode/formatted, any case, either
	// letter order) followed by a single- or double-quoted body. Longer
	// prefix alternatives come first so two-letter prefixes strip whole.
	scriptStringPattern = regexp.MustCompile(`(?i:ur|ru|fr|rf|r|u|f)?(?:"(?:\\.|[^"\\])*"|'(?:\\.|[^'\\])*')`)
	scriptPrefixPattern = regexp.MustCompile(`^(?i:ur|ru|fr|rf|r|u|f)`)

	// Prefixes that mark a formatted template whose brace spans are
	// runtime-substituted.
	formattedPrefixPattern = regexp.MustCompile(`^(?i:fr|rf|f)`)
	embeddedExprPattern    = regexp.MustCompile(`\{.*?\}`)

	templateStringPattern = regexp.MustCompile(`"(?:\\.|[^"\\])*"|'(?:\\.|[^'\\])*'`)
)

// lineAt returns the 1-based line number of a byte offset in content.
func lineAt(content string, offset int) int {
	return strings.Count(content[:offset], "\n") + 1
}

// stripQuotes removes a symmetric pair of surrounding quote characters.
func stripQuotes(s string) string {
	if len(s) >= 2 {
		if (s[0] == '"' && s[len(s)-1] == '"') || (s[0] == '\'' && s[len(s)-1] == '\'') {
			return s[1 : len(s)-1]
		}
	}
	return s
}

// CFamily extracts double-quoted literals from C and C++ sources.
type CFamily struct{}

func (CFamily) Name() string { return "c" }

func (CFamily) Extract(content string) []Literal {
	var literals []Literal
	for _, loc := range cStringPattern.FindAllStringIndex(content, -1) {
		literals = append(literals, Literal{
			Line: lineAt(content, loc[0]),
			// Drop the surrounding quotes; no unescaping beyond that.
			Text: content[loc[0]+1 : loc[1]-1],
		})
	}
	return literals
}

// ScriptFamily extracts single- and double-quoted literals with optional
// raw/unicode/format prefixes. Formatted templates get their embedded
// expression spans replaced by single spaces: where the interpolated value
// would appear is a wildcard, but the literal text around it still counts.
type ScriptFamily struct{}

func (ScriptFamily) Name() string { return "script" }

func (ScriptFamily) Extract(content string) []Literal {
	var literals []Literal
	for _, loc := range scriptStringPattern.FindAllStringIndex(content, -1) {
		raw := content[loc[0]:loc[1]]
		formatted := formattedPrefixPattern.MatchString(raw)
		text := stripQuotes(scriptPrefixPattern.ReplaceAllString(raw, ""))
		if formatted {
			text = strings.Join(embeddedExprPattern.Split(text, -1), " ")
		}
		literals = append(literals, Literal{
			Line: lineAt(content, loc[0]),
			Text: text,
		})
	}
	return literals
}

// TemplateFamily extracts single- and double-quoted literals without prefix
// handling, as found in curly-brace template dialects.
type TemplateFamily struct{}

func (TemplateFamily) Name() string { return "template" }

func (TemplateFamily) Extract(content string) []Literal {
	var literals []Literal
	for _, loc := range templateStringPattern.FindAllStringIndex(content, -1) {
		literals = append(literals, Literal{
			Line: lineAt(content, loc[0]),
			Text: stripQuotes(content[loc[0]:loc[1]]),
		})
	}
	return literals
}

// registry maps lowercased file extensions to their dialect extractor.
// Adding a dialect means adding an Extractor variant and entries here.
var registry = map[string]Extractor{
	".c":   CFamily{},
	".h":   CFamily{},
	".cpp": CFamily{},
	".cc":  CFamily{},
	".py":  ScriptFamily{},
	".js":  TemplateFamily{},
	".jsx": TemplateFamily{},
}

// ForPath returns the extractor responsible for path's extension, or nil
// when the extension is not recognized.
func ForPath(path string) Extractor {
	return registry[strings.ToLower(filepath.Ext(path))]
}

// Extensions returns the recognized file extensions. The order is not
// significant.
func Extensions() []string {
	exts := make([]string, 0, len(registry))
	for ext := range registry {
		exts = append(exts, ext)
	}
	return exts
}
