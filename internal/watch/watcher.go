// Package watch keeps a located-message result set current while source
// files change underneath it. Events are debounced into batches, and a
// content digest cache keeps no-op saves from triggering rescans.
package watch

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/fsnotify/fsnotify"

	"github.com/standardbeagle/lml/internal/config"
	"github.com/standardbeagle/lml/internal/debug"
	lmlerrors "github.com/standardbeagle/lml/internal/errors"
	"github.com/standardbeagle/lml/internal/msgtoken"
	"github.com/standardbeagle/lml/internal/scan"
)

// Watcher monitors a tree for changes and refreshes the candidates of the
// files that actually changed, leaving the rest of the result set intact.
type Watcher struct {
	cfg    *config.Config
	query  *msgtoken.Query
	root   string
	fsw    *fsnotify.Watcher
	filter *scan.Walker

	debouncer *eventDebouncer
	results   *resultSet

	digestMu sync.Mutex
	digests  map[string]uint64

	// Real paths of directories already watched, guards symlink cycles.
	watchedMu   sync.Mutex
	watchedDirs map[string]bool

	// onUpdate receives the full merged candidate list after each batch.
	// Register before Start.
	onUpdate func([]scan.Candidate)

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	statsMu         sync.RWMutex
	eventsProcessed int64
	rescans         int64
	unchangedSkips  int64
	removals        int64
	errorCount      int64
	lastEventTime   time.Time
}

// fileEvent is the debounced event kind. Only the latest event per path
// survives a debounce window.
type fileEvent int

const (
	eventWrite fileEvent = iota
	eventCreate
	eventRemove
)

// New creates a watcher for the tree rooted at root. The query is the same
// one the initial scan ran with.
func New(cfg *config.Config, q *msgtoken.Query, root string) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, lmlerrors.NewWatchError(root, err)
	}

	ctx, cancel := context.WithCancel(context.Background())

	filter := scan.NewWalker(cfg)
	filter.SetRoot(root)

	w := &Watcher{
		cfg:         cfg,
		query:       q,
		root:        root,
		fsw:         fsw,
		filter:      filter,
		debouncer:   newEventDebouncer(time.Duration(cfg.Scan.WatchDebounceMs) * time.Millisecond),
		results:     newResultSet(),
		digests:     make(map[string]uint64),
		watchedDirs: make(map[string]bool),
		ctx:         ctx,
		cancel:      cancel,
	}
	w.debouncer.owner = w

	return w, nil
}

// Seed primes the result set and the change cache from an initial scan, so
// the first update only reflects what actually changed afterwards.
func (w *Watcher) Seed(result *scan.Result) {
	w.results.seed(result.Candidates)

	w.digestMu.Lock()
	for path, digest := range result.Digests {
		w.digests[path] = digest
	}
	w.digestMu.Unlock()
}

// SetOnUpdate registers the callback that presents refreshed results.
func (w *Watcher) SetOnUpdate(fn func([]scan.Candidate)) {
	w.onUpdate = fn
}

// Start adds watches for the whole tree and begins processing events.
func (w *Watcher) Start() error {
	debug.LogWatch("starting watcher for %s\n", w.root)

	if err := w.addWatches(w.root, nil); err != nil {
		return lmlerrors.NewWatchError(w.root, err)
	}

	w.wg.Add(1)
	go w.processEvents()

	w.wg.Add(1)
	go w.debouncer.run(w.ctx, &w.wg)

	return nil
}

// Stop shuts the watcher down and waits for its goroutines. Events pending
// in the debounce window are dropped.
func (w *Watcher) Stop() error {
	debug.LogWatch("stopping watcher\n")

	w.cancel()
	if err := w.fsw.Close(); err != nil {
		debug.LogWatch("error closing fsnotify watcher: %v\n", err)
	}
	w.wg.Wait()

	return nil
}

// addWatches recursively watches dir and its subdirectories, honoring the
// exclusion patterns. When collect is non-nil, eligible files seen along the
// way are appended: a directory can arrive fully populated (mkdir -p, mv)
// without per-file events following.
func (w *Watcher) addWatches(dir string, collect *[]string) error {
	realPath, err := filepath.EvalSymlinks(dir)
	if err != nil {
		debug.LogWatch("skipping unresolvable directory: %s (%v)\n", dir, err)
		return nil
	}

	w.watchedMu.Lock()
	if w.watchedDirs[realPath] {
		w.watchedMu.Unlock()
		return nil
	}
	w.watchedDirs[realPath] = true
	w.watchedMu.Unlock()

	if err := w.fsw.Add(dir); err != nil {
		return err
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		debug.LogWatch("watcher error for %s: %v\n", dir, err)
		return nil
	}

	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())

		info, err := entry.Info()
		if err != nil {
			continue
		}

		isDir := entry.IsDir()
		if info.Mode()&os.ModeSymlink != 0 {
			if !w.cfg.Scan.FollowSymlinks {
				continue
			}
			target, err := os.Stat(path)
			if err != nil {
				continue
			}
			isDir = target.IsDir()
			info = target
		}

		if isDir {
			if w.filter.ExcludedDir(path) {
				continue
			}
			if err := w.addWatches(path, collect); err != nil {
				debug.LogWatch("failed to watch %s: %v\n", path, err)
			}
			continue
		}

		if collect != nil && w.filter.EligibleFile(path, info.Size()) {
			*collect = append(*collect, path)
		}
	}

	return nil
}

// processEvents drains fsnotify until shutdown.
func (w *Watcher) processEvents() {
	defer w.wg.Done()

	for {
		select {
		case <-w.ctx.Done():
			return

		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handleEvent(event)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			debug.LogWatch("watcher error: %v\n", err)
			w.statsMu.Lock()
			w.errorCount++
			w.statsMu.Unlock()
		}
	}
}

// handleEvent classifies one raw event and feeds the debouncer.
func (w *Watcher) handleEvent(event fsnotify.Event) {
	path := event.Name
	debug.LogWatch("event %v for %s\n", event.Op, path)

	info, err := os.Stat(path)
	if err != nil {
		// Already gone: plain removals and rename-away both land here.
		if event.Op&(fsnotify.Remove|fsnotify.Rename) != 0 {
			w.debouncer.addEvent(path, eventRemove)
		}
		return
	}

	if info.IsDir() {
		w.handleDirectoryEvent(event, path)
		return
	}

	if !w.filter.EligibleFile(path, info.Size()) {
		debug.LogWatch("ignoring %s (not an eligible source file)\n", path)
		return
	}

	switch {
	case event.Op&fsnotify.Create != 0:
		w.debouncer.addEvent(path, eventCreate)
	case event.Op&(fsnotify.Write|fsnotify.Rename|fsnotify.Remove) != 0:
		// The path still stats, so whatever happened left a live file
		// behind. Rescan rather than drop.
		w.debouncer.addEvent(path, eventWrite)
	}
}

// handleDirectoryEvent extends the watch graph when new directories appear.
func (w *Watcher) handleDirectoryEvent(event fsnotify.Event, path string) {
	if event.Op&fsnotify.Create == 0 {
		return
	}
	if w.filter.ExcludedDir(path) {
		return
	}

	var found []string
	if err := w.addWatches(path, &found); err != nil {
		debug.LogWatch("failed to watch new directory %s: %v\n", path, err)
		return
	}
	for _, file := range found {
		w.debouncer.addEvent(file, eventCreate)
	}
}

// applyBatch refreshes the result set for one debounced batch and publishes
// the merged candidate list.
func (w *Watcher) applyBatch(events map[string]fileEvent) {
	batchStart := time.Now()

	var removes, updates []string
	for path, ev := range events {
		if ev == eventRemove {
			removes = append(removes, path)
		} else {
			updates = append(updates, path)
		}
	}
	// Map iteration order is random; process deterministically.
	sort.Strings(removes)
	sort.Strings(updates)

	for _, path := range removes {
		w.dropFile(path)
	}

	var rescans, unchanged int64
	for _, path := range updates {
		switch w.refreshFile(path) {
		case refreshRescanned:
			rescans++
		case refreshUnchanged:
			unchanged++
		}
	}

	w.statsMu.Lock()
	w.eventsProcessed += int64(len(events))
	w.rescans += rescans
	w.unchangedSkips += unchanged
	w.removals += int64(len(removes))
	w.lastEventTime = time.Now()
	w.statsMu.Unlock()

	debug.LogWatch("batch: %d events, %d rescanned, %d unchanged, %d removed in %s\n",
		len(events), rescans, unchanged, len(removes),
		time.Since(batchStart).Round(time.Millisecond))

	if w.onUpdate != nil {
		w.onUpdate(w.results.snapshot(w.cfg.Match.Sort))
	}
}

type refreshOutcome int

const (
	refreshRescanned refreshOutcome = iota
	refreshUnchanged
	refreshGone
)

// refreshFile re-reads one file, short-circuits when its digest matches the
// cache, and otherwise replaces its candidates in the result set.
func (w *Watcher) refreshFile(path string) refreshOutcome {
	data, err := os.ReadFile(path)
	if err != nil {
		// Vanished between the event and the flush.
		w.dropFile(path)
		return refreshGone
	}

	digest := xxhash.Sum64(data)
	w.digestMu.Lock()
	cached, seen := w.digests[path]
	if seen && cached == digest {
		w.digestMu.Unlock()
		debug.LogWatch("unchanged content for %s, skipping rescan\n", path)
		return refreshUnchanged
	}
	w.digests[path] = digest
	w.digestMu.Unlock()

	w.results.replace(path, scan.ScanBytes(w.query, path, data))
	return refreshRescanned
}

// dropFile forgets a removed file's candidates and digest.
func (w *Watcher) dropFile(path string) {
	w.results.remove(path)

	w.digestMu.Lock()
	delete(w.digests, path)
	w.digestMu.Unlock()
}

// Stats reports what the watcher has processed so far.
func (w *Watcher) Stats() Stats {
	w.statsMu.RLock()
	defer w.statsMu.RUnlock()

	return Stats{
		EventsProcessed: w.eventsProcessed,
		Rescans:         w.rescans,
		UnchangedSkips:  w.unchangedSkips,
		Removals:        w.removals,
		Errors:          w.errorCount,
		LastEventTime:   w.lastEventTime,
		Active:          w.ctx.Err() == nil,
	}
}

// Stats describes watch activity since Start.
type Stats struct {
	EventsProcessed int64
	Rescans         int64
	UnchangedSkips  int64
	Removals        int64
	Errors          int64
	LastEventTime   time.Time
	Active          bool
}

// eventDebouncer coalesces bursts of file events into one batch per quiet
// window.
type eventDebouncer struct {
	mu       sync.Mutex
	events   map[string]fileEvent
	debounce time.Duration
	timer    *time.Timer
	owner    *Watcher
}

func newEventDebouncer(debounce time.Duration) *eventDebouncer {
	return &eventDebouncer{
		events:   make(map[string]fileEvent),
		debounce: debounce,
	}
}

// addEvent records the latest event for a path and restarts the window.
func (d *eventDebouncer) addEvent(path string, ev fileEvent) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.events[path] = ev

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.debounce, d.flush)
}

// run keeps the debouncer accounted for in the watcher's wait group and
// stops any pending timer on shutdown. Events still in the window are
// dropped; the result set is being torn down anyway.
func (d *eventDebouncer) run(ctx context.Context, wg *sync.WaitGroup) {
	defer wg.Done()
	<-ctx.Done()

	d.mu.Lock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.mu.Unlock()
}

// flush hands the accumulated batch to the watcher.
func (d *eventDebouncer) flush() {
	if d.owner.ctx.Err() != nil {
		return
	}

	d.mu.Lock()
	events := d.events
	d.events = make(map[string]fileEvent)
	d.mu.Unlock()

	if len(events) == 0 {
		return
	}

	d.owner.applyBatch(events)
}
