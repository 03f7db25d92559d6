// Package testhelpers provides shared utilities for testing Log Message Locator
package testhelpers

import (
	"github.com/standardbeagle/lml/internal/config"
)

// TestConfigBuilder provides a fluent API for building test configs with safe defaults
// Usage:
//
//	cfg := testhelpers.NewTestConfigBuilder(root).
//		WithExclusions("generated/**").
//		WithSort().
//		Build()
type TestConfigBuilder struct {
	root       string
	workers    int
	minScore   float64
	sorted     bool
	maxSize    int64
	exclusions []string
	inclusions []string
}

// NewTestConfigBuilder creates a config builder with safe defaults for a scan root
func NewTestConfigBuilder(root string) *TestConfigBuilder {
	return &TestConfigBuilder{
		root:    root,
		workers: 2,               // Limited for predictable behavior
		maxSize: 1 * 1024 * 1024, // 1MB is plenty for fixtures
		exclusions: []string{
			"**/.git/**",
			"**/node_modules/**",
			"**/__pycache__/**",
		},
	}
}

// WithWorkers sets the worker pool size
func (b *TestConfigBuilder) WithWorkers(n int) *TestConfigBuilder {
	b.workers = n
	return b
}

// WithMinScore sets the score threshold
func (b *TestConfigBuilder) WithMinScore(s float64) *TestConfigBuilder {
	b.minScore = s
	return b
}

// WithSort enables descending score ordering
func (b *TestConfigBuilder) WithSort() *TestConfigBuilder {
	b.sorted = true
	return b
}

// WithMaxFileSize sets the per-file size limit
func (b *TestConfigBuilder) WithMaxFileSize(n int64) *TestConfigBuilder {
	b.maxSize = n
	return b
}

// WithExclusions adds additional exclusion patterns
func (b *TestConfigBuilder) WithExclusions(patterns ...string) *TestConfigBuilder {
	b.exclusions = append(b.exclusions, patterns...)
	return b
}

// WithIncludePatterns sets the include patterns (replaces defaults)
func (b *TestConfigBuilder) WithIncludePatterns(patterns ...string) *TestConfigBuilder {
	b.inclusions = patterns
	return b
}

// Build creates the final test config with all settings
func (b *TestConfigBuilder) Build() *config.Config {
	return &config.Config{
		Project: config.Project{
			Root: b.root,
			Name: "test-project",
		},
		Scan: config.Scan{
			Workers:         b.workers,
			MaxFileSize:     b.maxSize,
			FollowSymlinks:  false,
			WatchDebounceMs: 10, // Fast debounce for tests
			Include:         b.inclusions,
			Exclude:         b.exclusions,
		},
		Match: config.Match{
			MinScore: b.minScore,
			Sort:     b.sorted,
		},
		Display: config.Display{
			Context:     0,
			LineNumbers: false,
			Color:       "never",
		},
	}
}
