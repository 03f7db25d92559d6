package scan

import (
	"context"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/standardbeagle/lml/internal/config"
	"github.com/standardbeagle/lml/internal/debug"
	"github.com/standardbeagle/lml/internal/extract"
)

// Walker discovers scannable files under a root directory: recognized
// extensions only, include/exclude globs applied to root-relative paths,
// symlink cycles guarded. Directory entries are visited in name order, so
// discovery order is deterministic for a given tree.
type Walker struct {
	cfg  *config.Config
	root string

	exclusions []string
	inclusions []string

	// Real paths of directories already entered, guards symlink cycles.
	visitedDirs map[string]bool
}

// NewWalker creates a walker for the given configuration.
func NewWalker(cfg *config.Config) *Walker {
	w := &Walker{
		cfg:         cfg,
		visitedDirs: make(map[string]bool),
	}

	w.exclusions = append(w.exclusions, cfg.Scan.Exclude...)
	w.inclusions = append(w.inclusions, cfg.Scan.Include...)

	return w
}

// Discover walks root once, synchronously, and returns every eligible file
// in walk order. Unreadable directories and unresolvable symlinks are
// skipped, never fatal.
func (w *Walker) Discover(ctx context.Context, root string) ([]string, error) {
	w.root = root

	if realRoot, err := filepath.EvalSymlinks(root); err == nil {
		w.visitedDirs[realRoot] = true
	}

	files := make([]string, 0, 64)
	if err := w.walkDir(ctx, root, &files); err != nil {
		return nil, err
	}

	debug.LogScan("discovered %d scannable files under %s\n", len(files), root)
	return files, nil
}

func (w *Walker) walkDir(ctx context.Context, dir string, files *[]string) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	// ReadDir returns entries sorted by name.
	entries, err := os.ReadDir(dir)
	if err != nil {
		debug.LogScan("walker error for %s: %v\n", dir, err)
		return nil
	}

	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())

		info, err := entry.Info()
		if err != nil {
			debug.LogScan("walker error for %s: %v\n", path, err)
			continue
		}

		if info.Mode()&os.ModeSymlink != 0 {
			if err := w.visitSymlink(ctx, path, files); err != nil {
				return err
			}
			continue
		}

		if entry.IsDir() {
			if err := w.visitDir(ctx, path, files); err != nil {
				return err
			}
			continue
		}

		w.addIfEligible(path, info, files)
	}

	return nil
}

// visitDir descends into a directory unless an exclusion pattern prunes it.
func (w *Walker) visitDir(ctx context.Context, path string, files *[]string) error {
	if w.ExcludedDir(path) {
		return nil
	}

	realPath, err := filepath.EvalSymlinks(path)
	if err != nil {
		debug.LogScan("skipping unresolvable directory: %s (%v)\n", path, err)
		return nil
	}
	if w.visitedDirs[realPath] {
		debug.LogScan("cycle detected, skipping already visited: %s -> %s\n", path, realPath)
		return nil
	}
	w.visitedDirs[realPath] = true

	return w.walkDir(ctx, path, files)
}

// visitSymlink resolves a symlinked entry when following is enabled.
// Paths stay under the scan root (the link path), only traversal resolves.
func (w *Walker) visitSymlink(ctx context.Context, path string, files *[]string) error {
	if !w.cfg.Scan.FollowSymlinks {
		return nil
	}

	target, err := os.Stat(path)
	if err != nil {
		debug.LogScan("skipping unresolvable symlink: %s (%v)\n", path, err)
		return nil
	}

	if target.IsDir() {
		return w.visitDir(ctx, path, files)
	}

	w.addIfEligible(path, target, files)
	return nil
}

// addIfEligible applies the extension registry, glob filters, and the size
// limit to a regular file.
func (w *Walker) addIfEligible(path string, info os.FileInfo, files *[]string) {
	if w.EligibleFile(path, info.Size()) {
		*files = append(*files, path)
	}
}

// SetRoot pins the root used for relative pattern matching without running a
// walk. The watcher filters event paths through a rooted walker this way.
func (w *Walker) SetRoot(root string) {
	w.root = root
}

// EligibleFile reports whether a regular file would be collected by a walk:
// recognized extension, include/exclude globs, size limit.
func (w *Walker) EligibleFile(path string, size int64) bool {
	if extract.ForPath(path) == nil {
		return false
	}

	relPath := w.relSlash(path)
	if w.shouldExclude(relPath) {
		return false
	}
	if !w.shouldInclude(relPath) {
		return false
	}

	if w.cfg.Scan.MaxFileSize > 0 && size > w.cfg.Scan.MaxFileSize {
		debug.LogScan("skipping oversized file %s (%d bytes)\n", path, size)
		return false
	}

	return true
}

// ExcludedDir reports whether a directory is pruned by exclusion patterns.
// Patterns are tried against the relative path both bare and with a trailing
// slash, so "build" and "build/" both prune.
func (w *Walker) ExcludedDir(path string) bool {
	relPath := w.relSlash(path)
	return w.shouldExclude(relPath) || w.shouldExclude(relPath+"/")
}

// relSlash converts path to a slash-separated form relative to the scan root
// for pattern matching.
func (w *Walker) relSlash(path string) string {
	relPath, err := filepath.Rel(w.root, path)
	if err != nil {
		relPath = path
	}
	return filepath.ToSlash(relPath)
}

// shouldExclude checks if a path matches any exclusion pattern.
func (w *Walker) shouldExclude(path string) bool {
	for _, pattern := range w.exclusions {
		matched, err := doublestar.Match(pattern, path)
		if err != nil {
			// Bad pattern shouldn't break scanning
			continue
		}
		if matched {
			return true
		}
	}
	return false
}

// shouldInclude checks if a path matches any inclusion pattern.
// No inclusion patterns means include everything.
func (w *Walker) shouldInclude(path string) bool {
	if len(w.inclusions) == 0 {
		return true
	}

	for _, pattern := range w.inclusions {
		matched, err := doublestar.Match(pattern, path)
		if err != nil {
			continue
		}
		if matched {
			return true
		}
	}
	return false
}
