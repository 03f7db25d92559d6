package pathutil

import (
	"path/filepath"
	"runtime"
	"testing"

	"github.com/standardbeagle/lml/internal/scan"
)

func TestToRelative(t *testing.T) {
	tests := []struct {
		name     string
		absPath  string
		rootDir  string
		expected string
	}{
		{
			name:     "simple relative path",
			absPath:  "/home/user/project/src/main.c",
			rootDir:  "/home/user/project",
			expected: "src/main.c",
		},
		{
			name:     "nested relative path",
			absPath:  "/home/user/project/api/handlers/report.c",
			rootDir:  "/home/user/project",
			expected: "api/handlers/report.c",
		},
		{
			name:     "root level file",
			absPath:  "/home/user/project/README.md",
			rootDir:  "/home/user/project",
			expected: "README.md",
		},
		{
			name:     "same directory",
			absPath:  "/home/user/project",
			rootDir:  "/home/user/project",
			expected: ".",
		},
		{
			name:     "already relative path",
			absPath:  "src/main.c",
			rootDir:  "/home/user/project",
			expected: "src/main.c", // Should return as-is if already relative
		},
		{
			name:     "path outside root - fallback to absolute",
			absPath:  "/other/location/file.c",
			rootDir:  "/home/user/project",
			expected: "/other/location/file.c", // Should return absolute if outside root
		},
		{
			name:     "empty root directory",
			absPath:  "/home/user/project/file.c",
			rootDir:  "",
			expected: "/home/user/project/file.c", // Fallback to absolute
		},
		{
			name:     "empty absolute path",
			absPath:  "",
			rootDir:  "/home/user/project",
			expected: "", // Empty stays empty
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ToRelative(tt.absPath, tt.rootDir)

			// Normalize separators for cross-platform testing
			if runtime.GOOS == "windows" {
				result = filepath.ToSlash(result)
				expected := filepath.ToSlash(tt.expected)
				if result != expected {
					t.Errorf("ToRelative() = %v, want %v", result, expected)
				}
			} else {
				if result != tt.expected {
					t.Errorf("ToRelative() = %v, want %v", result, tt.expected)
				}
			}
		})
	}
}

func TestToRelativeCandidates(t *testing.T) {
	rootDir := "/home/user/project"

	input := []scan.Candidate{
		{
			File:    "/home/user/project/src/main.c",
			Line:    10,
			Type:    "string",
			Content: "disk full on ",
			Score:   8.1,
		},
		{
			File:    "/home/user/project/api/handlers/report.c",
			Line:    42,
			Type:    "string",
			Content: "min:  swap peak: ",
			Score:   4.0,
		},
		{
			File:    "/home/user/project/README.md",
			Line:    1,
			Type:    "string",
			Content: "disk",
			Score:   0.4,
		},
	}

	results := ToRelativeCandidates(input, rootDir)

	expected := []string{
		"src/main.c",
		"api/handlers/report.c",
		"README.md",
	}

	if len(results) != len(expected) {
		t.Fatalf("Expected %d results, got %d", len(expected), len(results))
	}

	for i, result := range results {
		// Normalize for cross-platform
		gotPath := result.File
		wantPath := expected[i]
		if runtime.GOOS == "windows" {
			gotPath = filepath.ToSlash(gotPath)
			wantPath = filepath.ToSlash(wantPath)
		}

		if gotPath != wantPath {
			t.Errorf("Result %d: File = %v, want %v", i, gotPath, wantPath)
		}

		// Verify other fields are unchanged
		if result.Line != input[i].Line {
			t.Errorf("Result %d: Line changed", i)
		}
		if result.Type != input[i].Type {
			t.Errorf("Result %d: Type changed", i)
		}
		if result.Content != input[i].Content {
			t.Errorf("Result %d: Content changed", i)
		}
		if result.Score != input[i].Score {
			t.Errorf("Result %d: Score changed", i)
		}
	}
}

func TestToRelativeCandidatesDoesNotMutateInput(t *testing.T) {
	rootDir := "/home/user/project"

	input := []scan.Candidate{
		{
			File:    "/home/user/project/src/main.c",
			Line:    10,
			Type:    "string",
			Content: "disk full on ",
			Score:   8.1,
		},
	}

	_ = ToRelativeCandidates(input, rootDir)

	if input[0].File != "/home/user/project/src/main.c" {
		t.Errorf("Input slice was mutated: File = %v", input[0].File)
	}
}

func TestToRelativeCandidatesEmptySlice(t *testing.T) {
	rootDir := "/home/user/project"

	empty := []scan.Candidate{}
	result := ToRelativeCandidates(empty, rootDir)
	if len(result) != 0 {
		t.Errorf("Expected empty slice, got %d elements", len(result))
	}

	result = ToRelativeCandidates(nil, rootDir)
	if result != nil {
		t.Errorf("Expected nil for nil input, got %d elements", len(result))
	}
}
