// Package display renders located candidates for humans and machines: a
// grep-like context view with optional ANSI highlighting, a JSON envelope,
// and per-token diagnostics for near misses.
package display

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unicode"

	"github.com/standardbeagle/lml/internal/msgtoken"
	"github.com/standardbeagle/lml/internal/scan"
)

// Options controls how candidates are rendered.
type Options struct {
	// LineNumbers prefixes each context line with its 1-based line number.
	LineNumbers bool
	// Before and After are the context line counts around the match line.
	Before int
	After  int
	// ContextGiven records that the user asked for context explicitly, even
	// with a count of zero. It gates the separator line between blocks.
	ContextGiven bool
	// WithFilename prefixes each context line with the file path and
	// suppresses the per-candidate summary line.
	WithFilename bool
	// Color enables ANSI highlighting.
	Color bool
}

// Presenter writes candidates with their surrounding source lines. File
// contents are cached per presenter, so build a fresh one whenever results
// may reflect newer file content (each watch update).
type Presenter struct {
	opts      Options
	out       io.Writer
	root      string
	highlight *Highlighter
	fileLines map[string][]string
}

// NewPresenter builds a presenter writing to out. The query supplies the
// message tokens the highlighter colors on context lines. Candidates carry
// root-relative paths; root is where those paths resolve when reading file
// content.
func NewPresenter(out io.Writer, q *msgtoken.Query, root string, opts Options) *Presenter {
	return &Presenter{
		opts:      opts,
		out:       out,
		root:      root,
		highlight: NewHighlighter(q.Tokens),
		fileLines: make(map[string][]string),
	}
}

// Present writes every candidate in order: an optional summary line, then
// the context block. The first write failure aborts and is returned, so a
// closed pipe stops the run instead of spinning through the remainder.
func (p *Presenter) Present(candidates []scan.Candidate) error {
	for _, cand := range candidates {
		if !p.opts.WithFilename {
			_, err := fmt.Fprintf(p.out, "File: %s  Line: %d  Type: %s  Score: %.1f\n",
				cand.File, cand.Line, cand.Type, cand.Score)
			if err != nil {
				return err
			}
		}
		if err := p.writeContext(cand); err != nil {
			return err
		}
	}
	return nil
}

// writeContext prints the lines around the match. With zero context the
// block is just the match line itself. A file that cannot be read yields an
// empty block.
func (p *Presenter) writeContext(cand scan.Candidate) error {
	lines := p.lines(cand.File)
	matchIdx := cand.Line - 1
	start := matchIdx - p.opts.Before
	if start < 0 {
		start = 0
	}
	end := matchIdx + p.opts.After + 1
	if end > len(lines) {
		end = len(lines)
	}

	for i := start; i < end; i++ {
		text := strings.TrimRightFunc(lines[i], unicode.IsSpace)
		if p.opts.Color {
			if i == matchIdx && cand.Type == "string" {
				text = HighlightCandidate(text, cand.Content)
			} else {
				text = p.highlight.Message(text)
			}
		}

		var prefix string
		switch {
		case p.opts.WithFilename && p.opts.LineNumbers:
			prefix = cand.File + ":" + strconv.Itoa(i+1) + ":"
		case p.opts.WithFilename:
			prefix = cand.File + ":"
		case p.opts.LineNumbers:
			prefix = strconv.Itoa(i+1) + ":"
		}

		marker := ""
		if i == matchIdx {
			marker = " <== match"
		}
		if _, err := fmt.Fprintf(p.out, "%s%s%s\n", prefix, text, marker); err != nil {
			return err
		}
	}

	if p.opts.ContextGiven {
		if _, err := fmt.Fprintln(p.out, strings.Repeat("-", 40)); err != nil {
			return err
		}
	}
	return nil
}

// lines returns the cached line slice for path, reading it on first use.
// Unreadable files cache an empty slice so the failure is paid once.
func (p *Presenter) lines(path string) []string {
	if cached, ok := p.fileLines[path]; ok {
		return cached
	}
	readPath := path
	if !filepath.IsAbs(path) && p.root != "" {
		readPath = filepath.Join(p.root, path)
	}
	var lines []string
	if data, err := os.ReadFile(readPath); err == nil {
		text := strings.ToValidUTF8(string(data), "")
		lines = strings.Split(text, "\n")
		// Split leaves one empty trailing element for newline-terminated
		// files; it is not a source line.
		if n := len(lines); n > 0 && lines[n-1] == "" {
			lines = lines[:n-1]
		}
	}
	p.fileLines[path] = lines
	return lines
}
