package config

import (
	"os"
	"path/filepath"
)

// Default limits applied when no config file overrides them.
const (
	DefaultMaxFileSize     = 10 * 1024 * 1024
	DefaultWatchDebounceMs = 300
	DefaultColorMode       = "auto"
)

type Config struct {
	Project Project
	Scan    Scan
	Match   Match
	Display Display
}

type Project struct {
	Root string
	Name string
}

// Scan controls file discovery and the worker pool.
type Scan struct {
	Workers         int   // 0 = auto-detect (NumCPU)
	MaxFileSize     int64 // Files larger than this are skipped
	FollowSymlinks  bool
	WatchDebounceMs int // Debounce time for file change events
	Include         []string
	Exclude         []string
}

// Match controls candidate filtering and ordering.
type Match struct {
	MinScore float64
	Sort     bool
}

// Display controls how candidates are printed.
type Display struct {
	Context     int    // Context lines around the match
	LineNumbers bool   // Prefix context lines with line numbers
	Color       string // "auto", "always", "never"
}

// Defaults returns the built-in configuration for a scan rooted at rootDir.
func Defaults(rootDir string) *Config {
	if rootDir == "" {
		rootDir = "."
	}
	if abs, err := filepath.Abs(rootDir); err == nil {
		rootDir = abs
	}

	return &Config{
		Project: Project{Root: rootDir},
		Scan: Scan{
			Workers:         0, // auto-detect
			MaxFileSize:     DefaultMaxFileSize,
			FollowSymlinks:  false,
			WatchDebounceMs: DefaultWatchDebounceMs,
			Include:         []string{},
			Exclude:         DefaultExclusions(),
		},
		Match: Match{
			MinScore: 0,
			Sort:     false,
		},
		Display: Display{
			Context:     0,
			LineNumbers: false,
			Color:       DefaultColorMode,
		},
	}
}

// DefaultExclusions lists paths that are never worth scanning for message
// origins: VCS metadata, dependency trees, build output, generated bundles.
// A config file with its own exclude node replaces this list entirely.
func DefaultExclusions() []string {
	return []string{
		// VCS metadata
		"**/.git/**",
		"**/.hg/**",
		"**/.svn/**",

		// Dependency trees
		"**/node_modules/**",
		"**/bower_components/**",
		"**/vendor/**",
		"**/.venv/**",
		"**/venv/**",
		"**/site-packages/**",

		// Build output
		"**/dist/**",
		"**/build/**",
		"**/out/**",
		"**/target/**",

		// Generated and minified bundles
		"**/*.min.js",
		"**/*.bundle.js",
		"**/*.chunk.js",

		// Python bytecode caches
		"**/__pycache__/**",
		"**/.pytest_cache/**",
		"**/.mypy_cache/**",
		"**/.tox/**",

		// Coverage and editor droppings
		"**/coverage/**",
		"**/*.swp",
		"**/*~",
	}
}

// Load resolves the configuration for a scan rooted at rootDir.
//
// With an explicit path the named file is loaded over the defaults and no
// discovery happens. Otherwise ~/.lml.kdl (global) and rootDir/.lml.kdl
// (project) are loaded when present; project values override global ones,
// and exclusions from both layers are combined.
func Load(explicitPath, rootDir string) (*Config, error) {
	if rootDir == "" {
		rootDir = "."
	}

	if explicitPath != "" {
		cfg, err := LoadKDLFile(explicitPath, rootDir)
		if err != nil {
			return nil, err
		}
		return cfg, nil
	}

	var base *Config
	if homeDir, err := os.UserHomeDir(); err == nil {
		if globalCfg, err := LoadKDL(homeDir); err == nil && globalCfg != nil {
			base = globalCfg
		}
	}

	var project *Config
	if kdlCfg, err := LoadKDL(rootDir); err == nil && kdlCfg != nil {
		project = kdlCfg
	} else if err != nil {
		return nil, err
	}

	switch {
	case base != nil && project != nil:
		return mergeConfigs(base, project), nil
	case project != nil:
		return project, nil
	case base != nil:
		// Global config applies, but the scan root comes from the caller.
		if abs, err := filepath.Abs(rootDir); err == nil {
			base.Project.Root = abs
		} else {
			base.Project.Root = rootDir
		}
		return base, nil
	}

	cfg := Defaults(rootDir)
	cfg.EnrichExclusions()
	return cfg, nil
}

// mergeConfigs merges a global base config with a project config.
// Project values take precedence, but exclusions accumulate across both.
func mergeConfigs(base, project *Config) *Config {
	merged := *project

	if len(base.Scan.Exclude) > 0 {
		excludeMap := make(map[string]bool)
		for _, pattern := range base.Scan.Exclude {
			excludeMap[pattern] = true
		}
		for _, pattern := range project.Scan.Exclude {
			excludeMap[pattern] = true
		}

		merged.Scan.Exclude = make([]string, 0, len(excludeMap))
		for pattern := range excludeMap {
			merged.Scan.Exclude = append(merged.Scan.Exclude, pattern)
		}
	}

	// Inclusions: project replaces base completely when specified.
	if len(project.Scan.Include) == 0 && len(base.Scan.Include) > 0 {
		merged.Scan.Include = base.Scan.Include
	}

	return &merged
}

// EnrichExclusions adds build output directories declared in the project's
// own build configuration (package.json, tsconfig.json, Cargo.toml,
// pyproject.toml) to the exclusion list.
func (c *Config) EnrichExclusions() {
	if c.Project.Root == "" {
		return
	}

	detector := NewArtifactDetector(c.Project.Root)
	detected := detector.OutputDirPatterns()

	if len(detected) > 0 {
		c.Scan.Exclude = append(c.Scan.Exclude, detected...)
		c.Scan.Exclude = DeduplicatePatterns(c.Scan.Exclude)
	}
}
