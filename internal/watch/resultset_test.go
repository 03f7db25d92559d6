package watch

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/standardbeagle/lml/internal/scan"
)

func cand(file string, line int, content string, score float64) scan.Candidate {
	return scan.Candidate{File: file, Line: line, Type: "string", Content: content, Score: score}
}

func TestResultSet_SeedAndSnapshot(t *testing.T) {
	rs := newResultSet()
	rs.seed([]scan.Candidate{
		cand("b.c", 2, "queue drained", 0.1),
		cand("a.c", 1, "disk full", 8.1),
		cand("a.c", 9, "disk", 4.0),
	})

	t.Run("unsorted_keeps_seed_order", func(t *testing.T) {
		got := rs.snapshot(false)
		assert.Equal(t, []scan.Candidate{
			cand("b.c", 2, "queue drained", 0.1),
			cand("a.c", 1, "disk full", 8.1),
			cand("a.c", 9, "disk", 4.0),
		}, got)
	})

	t.Run("sorted_descending", func(t *testing.T) {
		got := rs.snapshot(true)
		assert.Equal(t, []scan.Candidate{
			cand("a.c", 1, "disk full", 8.1),
			cand("a.c", 9, "disk", 4.0),
			cand("b.c", 2, "queue drained", 0.1),
		}, got)
	})
}

func TestResultSet_ReplaceKeepsPosition(t *testing.T) {
	rs := newResultSet()
	rs.seed([]scan.Candidate{
		cand("a.c", 1, "disk full", 8.1),
		cand("b.c", 2, "queue drained", 0.1),
	})

	rs.replace("a.c", []scan.Candidate{cand("a.c", 5, "disk nearly full", 4.2)})

	got := rs.snapshot(false)
	assert.Equal(t, []scan.Candidate{
		cand("a.c", 5, "disk nearly full", 4.2),
		cand("b.c", 2, "queue drained", 0.1),
	}, got)
}

func TestResultSet_EmptiedFileKeepsSlot(t *testing.T) {
	rs := newResultSet()
	rs.seed([]scan.Candidate{
		cand("a.c", 1, "disk full", 8.1),
		cand("b.c", 2, "queue drained", 0.1),
	})

	// An edit can remove every matching literal and a later edit can bring
	// one back; the file should not migrate to the end of the output.
	rs.replace("a.c", nil)
	assert.Equal(t, []scan.Candidate{cand("b.c", 2, "queue drained", 0.1)}, rs.snapshot(false))

	rs.replace("a.c", []scan.Candidate{cand("a.c", 3, "disk full", 8.1)})
	assert.Equal(t, []scan.Candidate{
		cand("a.c", 3, "disk full", 8.1),
		cand("b.c", 2, "queue drained", 0.1),
	}, rs.snapshot(false))
}

func TestResultSet_NewFileAppends(t *testing.T) {
	rs := newResultSet()
	rs.seed([]scan.Candidate{cand("a.c", 1, "disk full", 8.1)})

	rs.replace("z.c", []scan.Candidate{cand("z.c", 1, "disk full", 8.1)})

	got := rs.snapshot(false)
	assert.Equal(t, "a.c", got[0].File)
	assert.Equal(t, "z.c", got[1].File)
}

func TestResultSet_Remove(t *testing.T) {
	rs := newResultSet()
	rs.seed([]scan.Candidate{
		cand("a.c", 1, "disk full", 8.1),
		cand("b.c", 2, "queue drained", 0.1),
	})

	rs.remove("a.c")
	assert.Equal(t, []scan.Candidate{cand("b.c", 2, "queue drained", 0.1)}, rs.snapshot(false))

	// Unknown path is a no-op.
	rs.remove("never-seen.c")
	assert.Len(t, rs.snapshot(false), 1)
}
