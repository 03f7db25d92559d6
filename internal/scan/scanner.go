package scan

import (
	"context"
	"os"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"golang.org/x/sync/errgroup"

	"github.com/standardbeagle/lml/internal/config"
	"github.com/standardbeagle/lml/internal/debug"
	"github.com/standardbeagle/lml/internal/extract"
	"github.com/standardbeagle/lml/internal/msgtoken"
	"github.com/standardbeagle/lml/internal/score"
)

// Scanner runs the locate pipeline over a directory tree: discover files,
// fan the per-file work (read, extract, normalize, score) across a bounded
// pool, collect candidates, and impose a deterministic final order.
type Scanner struct {
	cfg *config.Config

	mu      sync.Mutex
	batches []fileBatch
	stats   Stats
	digests map[uint64]string

	// Per-path content digests from the last run, handed to the watcher so
	// it can skip rescans of files whose bytes did not change.
	pathDigests map[string]uint64
}

// fileBatch keeps one file's candidates together with its discovery rank so
// concurrent completion order never leaks into the output.
type fileBatch struct {
	order      int
	candidates []Candidate
}

// New creates a scanner for the given configuration.
func New(cfg *config.Config) *Scanner {
	return &Scanner{
		cfg:     cfg,
		digests: make(map[uint64]string),
	}
}

// Run scans the tree rooted at root for literals matching the query.
// Individual file failures are recovered silently; only walk-level
// cancellation surfaces as an error.
func (s *Scanner) Run(ctx context.Context, q *msgtoken.Query, root string) (*Result, error) {
	started := time.Now()

	files, err := NewWalker(s.cfg).Discover(ctx, root)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.batches = s.batches[:0]
	s.stats = Stats{FilesDiscovered: len(files)}
	s.digests = make(map[uint64]string, len(files))
	s.pathDigests = make(map[string]uint64, len(files))
	s.mu.Unlock()

	workers := s.cfg.Scan.Workers
	if workers < 1 {
		workers = runtime.NumCPU()
	}

	g, gctx := errgroup.WithContext(ctx)
	sem := make(chan struct{}, workers)

	for i, path := range files {
		i, path := i, path
		g.Go(func() error {
			sem <- struct{}{}
			defer func() { <-sem }()

			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			s.scanFile(q, path, i)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := s.assemble(started)
	debug.LogScan("scan complete: %d/%d files read (%d failures, %d duplicates), %d literals, %d candidates in %s\n",
		result.Stats.FilesRead, result.Stats.FilesDiscovered, result.Stats.ReadFailures,
		result.Stats.DuplicateFiles, result.Stats.Literals, result.Stats.Candidates,
		result.Elapsed.Round(time.Millisecond))
	return result, nil
}

// scanFile runs one file's pipeline and merges its outcome into the
// collector. Failures count but never propagate.
func (s *Scanner) scanFile(q *msgtoken.Query, path string, order int) {
	content, ok := readFileText(path)
	if !ok {
		s.mu.Lock()
		s.stats.ReadFailures++
		s.mu.Unlock()
		return
	}

	extractor := extract.ForPath(path)
	if extractor == nil {
		return
	}

	literals := extractor.Extract(content)
	debug.LogScan("processing %s with %s extractor, %d literals\n", path, extractor.Name(), len(literals))
	candidates := scoreLiterals(q, path, literals)

	digest := xxhash.Sum64String(content)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.stats.FilesRead++
	s.stats.Literals += len(literals)
	s.stats.Candidates += len(candidates)
	s.pathDigests[path] = digest

	if first, seen := s.digests[digest]; seen {
		if first != path {
			s.stats.DuplicateFiles++
		}
	} else {
		s.digests[digest] = path
	}

	if len(candidates) > 0 {
		s.batches = append(s.batches, fileBatch{order: order, candidates: candidates})
	}
}

// assemble flattens collected batches into discovery order and applies the
// optional stable score sort.
func (s *Scanner) assemble(started time.Time) *Result {
	s.mu.Lock()
	defer s.mu.Unlock()

	sort.Slice(s.batches, func(i, j int) bool {
		return s.batches[i].order < s.batches[j].order
	})

	var candidates []Candidate
	for _, batch := range s.batches {
		candidates = append(candidates, batch.candidates...)
	}

	if s.cfg.Match.Sort {
		// Stable: equal scores keep discovery order.
		sort.SliceStable(candidates, func(i, j int) bool {
			return candidates[i].Score > candidates[j].Score
		})
	}

	return &Result{
		Candidates: candidates,
		Stats:      s.stats,
		Elapsed:    time.Since(started),
		Digests:    s.pathDigests,
	}
}

// ScanOne runs the full pipeline for a single file. Unrecognized extensions
// and unreadable files yield no candidates.
func ScanOne(q *msgtoken.Query, path string) []Candidate {
	if extract.ForPath(path) == nil {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		debug.LogScan("read failed for %s: %v\n", path, err)
		return nil
	}

	return ScanBytes(q, path, data)
}

// ScanBytes scores raw content already in memory as if it had been read
// from path, with the same lenient decoding as a scan read. The watch path
// hashes bytes for change detection and rescans from the same buffer
// without a second read.
func ScanBytes(q *msgtoken.Query, path string, data []byte) []Candidate {
	extractor := extract.ForPath(path)
	if extractor == nil {
		return nil
	}
	return scoreLiterals(q, path, extractor.Extract(strings.ToValidUTF8(string(data), "")))
}

// scoreLiterals normalizes, filters, and scores one file's literals.
func scoreLiterals(q *msgtoken.Query, path string, literals []extract.Literal) []Candidate {
	var out []Candidate
	for _, lit := range literals {
		clean := score.StripFormatDirectives(lit.Text)
		tokens := msgtoken.Tokenize(clean)
		if score.Degenerate(tokens) {
			continue
		}

		val := score.Candidate(q, tokens)
		debug.LogMatch("%s:%d scored %.2f\n", path, lit.Line, val)
		if val >= q.MinScore {
			out = append(out, Candidate{
				File:    path,
				Line:    lit.Line,
				Type:    "string",
				Content: clean,
				Score:   val,
			})
		}
	}
	return out
}

// readFileText reads a file leniently: undecodable bytes are dropped and
// any read failure reports ok=false instead of an error.
func readFileText(path string) (string, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		debug.LogScan("read failed for %s: %v\n", path, err)
		return "", false
	}
	return strings.ToValidUTF8(string(data), ""), true
}
