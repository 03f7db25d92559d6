package scan

import "time"

// Candidate is one source string literal that plausibly produced the queried
// message. Content holds the literal after format-directive stripping, which
// is the form the score was computed against. Immutable once collected.
type Candidate struct {
	File    string  `json:"file"`
	Line    int     `json:"line"`
	Type    string  `json:"type"`
	Content string  `json:"content"`
	Score   float64 `json:"score"`
}

// Stats counts what a scan touched.
type Stats struct {
	FilesDiscovered int `json:"files_discovered"`
	FilesRead       int `json:"files_read"`
	ReadFailures    int `json:"read_failures"`
	Literals        int `json:"literals"`
	Candidates      int `json:"candidates"`
	// DuplicateFiles counts files whose content hash matched an earlier
	// file in the same scan (vendored or generated copies).
	DuplicateFiles int `json:"duplicate_files"`
}

// Result is the outcome of one full scan.
type Result struct {
	Candidates []Candidate
	Stats      Stats
	Elapsed    time.Duration

	// Digests maps each read file to the xxhash64 of its raw bytes. Seeds
	// the watch-mode change cache.
	Digests map[string]uint64
}
