package testhelpers

import (
	"os"
	"path/filepath"
	"testing"
)

// SourceTreeBuilder writes small fixture source trees under a temp directory
// for end-to-end scan tests. Paths use forward slashes regardless of OS.
type SourceTreeBuilder struct {
	t    *testing.T
	root string
}

// NewSourceTree creates a builder rooted in a fresh temp directory that is
// cleaned up with the test.
func NewSourceTree(t *testing.T) *SourceTreeBuilder {
	t.Helper()
	return &SourceTreeBuilder{t: t, root: t.TempDir()}
}

// Root returns the tree's root directory.
func (b *SourceTreeBuilder) Root() string {
	return b.root
}

// AddFile writes content at relPath, creating parent directories as needed.
func (b *SourceTreeBuilder) AddFile(relPath, content string) *SourceTreeBuilder {
	b.t.Helper()

	path := filepath.Join(b.root, filepath.FromSlash(relPath))
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		b.t.Fatalf("failed to create fixture dir for %s: %v", relPath, err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		b.t.Fatalf("failed to write fixture %s: %v", relPath, err)
	}
	return b
}

// AddBytes writes raw bytes at relPath, for fixtures with invalid UTF-8.
func (b *SourceTreeBuilder) AddBytes(relPath string, content []byte) *SourceTreeBuilder {
	b.t.Helper()

	path := filepath.Join(b.root, filepath.FromSlash(relPath))
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		b.t.Fatalf("failed to create fixture dir for %s: %v", relPath, err)
	}
	if err := os.WriteFile(path, content, 0644); err != nil {
		b.t.Fatalf("failed to write fixture %s: %v", relPath, err)
	}
	return b
}

// AddSymlink creates a symlink at relPath pointing to target (relative to
// the tree root). Tests that need symlinks skip on platforms without them.
func (b *SourceTreeBuilder) AddSymlink(relPath, target string) *SourceTreeBuilder {
	b.t.Helper()

	path := filepath.Join(b.root, filepath.FromSlash(relPath))
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		b.t.Fatalf("failed to create fixture dir for %s: %v", relPath, err)
	}
	if err := os.Symlink(filepath.Join(b.root, filepath.FromSlash(target)), path); err != nil {
		b.t.Skipf("symlinks not supported here: %v", err)
	}
	return b
}

// Path returns the absolute path of a file inside the tree.
func (b *SourceTreeBuilder) Path(relPath string) string {
	return filepath.Join(b.root, filepath.FromSlash(relPath))
}
