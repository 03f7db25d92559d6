// Package pathutil converts between absolute and relative paths.
//
// The scanner works with absolute paths internally for consistency and to
// avoid ambiguity. User-facing output should use relative paths for
// readability and portability. This package provides the conversion layer
// between internal (absolute) and external (relative) representations.
package pathutil

import (
	"path/filepath"
	"strings"

	"github.com/standardbeagle/lml/internal/scan"
)

// ToRelative converts an absolute path to relative based on a root directory.
// Falls back to the original path if conversion fails or path is already relative.
//
// Examples:
//   - ToRelative("/home/user/project/src/main.c", "/home/user/project") -> "src/main.c"
//   - ToRelative("/other/location/file.c", "/home/user/project") -> "/other/location/file.c" (outside root)
//   - ToRelative("src/main.c", "/home/user/project") -> "src/main.c" (already relative)
func ToRelative(absPath, rootDir string) string {
	// Handle empty inputs
	if absPath == "" || rootDir == "" {
		return absPath
	}

	// If path is already relative, return as-is
	if !filepath.IsAbs(absPath) {
		return absPath
	}

	// Clean both paths to normalize separators and remove redundant elements
	absPath = filepath.Clean(absPath)
	rootDir = filepath.Clean(rootDir)

	// Try to make relative
	relPath, err := filepath.Rel(rootDir, absPath)
	if err != nil {
		// Conversion failed (e.g., different drives on Windows) - return absolute
		return absPath
	}

	// If the relative path starts with ".." it means the file is outside the root
	// In this case, return the absolute path as it's clearer
	if strings.HasPrefix(relPath, "..") {
		return absPath
	}

	return relPath
}

// ToRelativeCandidates converts candidate file paths from absolute to
// relative. Creates a new slice without modifying the original results.
//
// This function is designed for use at output boundaries where results are
// displayed to users:
//   - CLI candidate output
//   - JSON serialization
//   - MCP server responses
func ToRelativeCandidates(candidates []scan.Candidate, rootDir string) []scan.Candidate {
	if len(candidates) == 0 {
		return candidates
	}

	// Create a copy to avoid modifying the original
	converted := make([]scan.Candidate, len(candidates))
	copy(converted, candidates)

	// Convert paths
	for i := range converted {
		converted[i].File = ToRelative(converted[i].File, rootDir)
	}

	return converted
}
