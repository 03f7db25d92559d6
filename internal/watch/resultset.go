package watch

import (
	"sort"
	"sync"

	"github.com/standardbeagle/lml/internal/scan"
)

// resultSet holds the current candidates per file. Files keep their
// first-seen position so successive snapshots stay stable; a file whose
// rescan yields nothing keeps its slot in case a later edit matches again.
type resultSet struct {
	mu      sync.Mutex
	order   []string
	index   map[string]int
	perFile map[string][]scan.Candidate
}

func newResultSet() *resultSet {
	return &resultSet{
		index:   make(map[string]int),
		perFile: make(map[string][]scan.Candidate),
	}
}

// seed loads the initial scan's candidates, which arrive already ordered.
func (rs *resultSet) seed(candidates []scan.Candidate) {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	for _, cand := range candidates {
		if _, seen := rs.index[cand.File]; !seen {
			rs.index[cand.File] = len(rs.order)
			rs.order = append(rs.order, cand.File)
		}
		rs.perFile[cand.File] = append(rs.perFile[cand.File], cand)
	}
}

// replace swaps one file's candidates. New files append to the presentation
// order.
func (rs *resultSet) replace(path string, candidates []scan.Candidate) {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	if _, seen := rs.index[path]; !seen {
		rs.index[path] = len(rs.order)
		rs.order = append(rs.order, path)
	}
	rs.perFile[path] = candidates
}

// remove forgets a file's candidates.
func (rs *resultSet) remove(path string) {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	delete(rs.perFile, path)
}

// snapshot flattens the per-file candidates into one list, optionally
// score-sorted the same way a fresh scan would be.
func (rs *resultSet) snapshot(sorted bool) []scan.Candidate {
	rs.mu.Lock()
	var out []scan.Candidate
	for _, file := range rs.order {
		out = append(out, rs.perFile[file]...)
	}
	rs.mu.Unlock()

	if sorted {
		// Stable: equal scores keep presentation order.
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].Score > out[j].Score
		})
	}
	return out
}
