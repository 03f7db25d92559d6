// Build artifact detection from language-specific configuration files.
// Parses package.json, tsconfig.json, Cargo.toml and pyproject.toml to find
// declared output directories so scans skip generated copies of the source.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// ArtifactDetector finds build output directories declared at a project root
type ArtifactDetector struct {
	root string
}

// NewArtifactDetector creates a detector for the given project root
func NewArtifactDetector(root string) *ArtifactDetector {
	return &ArtifactDetector{root: root}
}

// OutputDirPatterns scans build configuration files and returns glob
// patterns to exclude (e.g., "**/dist/**", "**/target/**")
func (d *ArtifactDetector) OutputDirPatterns() []string {
	var patterns []string

	patterns = append(patterns, d.nodeOutputs()...)
	patterns = append(patterns, d.cargoOutputs()...)
	patterns = append(patterns, d.pythonOutputs()...)

	return DeduplicatePatterns(patterns)
}

// nodeOutputs finds JS/TS build outputs from package.json and tsconfig.json
func (d *ArtifactDetector) nodeOutputs() []string {
	var patterns []string

	if pkg, ok := d.readJSONMap("package.json"); ok {
		// Build scripts carrying an --outDir argument
		if scripts, ok := pkg["scripts"].(map[string]interface{}); ok {
			for _, script := range scripts {
				scriptStr, ok := script.(string)
				if !ok {
					continue
				}
				parts := strings.Fields(scriptStr)
				for i, part := range parts {
					if (part == "--outDir" || part == "-outDir") && i+1 < len(parts) {
						outDir := strings.Trim(parts[i+1], "\"'")
						patterns = append(patterns, dirPattern(outDir))
					}
				}
			}
		}

		// Explicit build configuration block
		if buildConfig, ok := pkg["build"].(map[string]interface{}); ok {
			if outDir, ok := buildConfig["outDir"].(string); ok {
				patterns = append(patterns, dirPattern(outDir))
			}
		}
	}

	if tsconfig, ok := d.readJSONMap("tsconfig.json"); ok {
		if compilerOptions, ok := tsconfig["compilerOptions"].(map[string]interface{}); ok {
			if outDir, ok := compilerOptions["outDir"].(string); ok {
				patterns = append(patterns, dirPattern(outDir))
			}
		}
	}

	return patterns
}

// cargoOutputs finds Rust build outputs from Cargo.toml
func (d *ArtifactDetector) cargoOutputs() []string {
	var patterns []string

	if cargo, ok := d.readTOMLMap("Cargo.toml"); ok {
		// Custom target directory under a profile section. The default
		// target/ directory is already in the standard exclusions.
		if profile, ok := cargo["profile"].(map[string]interface{}); ok {
			if release, ok := profile["release"].(map[string]interface{}); ok {
				if targetDir, ok := release["target-dir"].(string); ok {
					patterns = append(patterns, dirPattern(targetDir))
				}
			}
		}
	}

	return patterns
}

// pythonOutputs finds Python build outputs from pyproject.toml
func (d *ArtifactDetector) pythonOutputs() []string {
	var patterns []string

	if pyproject, ok := d.readTOMLMap("pyproject.toml"); ok {
		if tool, ok := pyproject["tool"].(map[string]interface{}); ok {
			if poetry, ok := tool["poetry"].(map[string]interface{}); ok {
				if build, ok := poetry["build"].(map[string]interface{}); ok {
					if targetDir, ok := build["target-dir"].(string); ok {
						patterns = append(patterns, dirPattern(targetDir))
					}
				}
			}
		}
	}

	return patterns
}

func (d *ArtifactDetector) readJSONMap(name string) (map[string]interface{}, bool) {
	data, err := os.ReadFile(filepath.Join(d.root, name))
	if err != nil {
		return nil, false
	}
	var m map[string]interface{}
	if json.Unmarshal(data, &m) != nil {
		return nil, false
	}
	return m, true
}

func (d *ArtifactDetector) readTOMLMap(name string) (map[string]interface{}, bool) {
	data, err := os.ReadFile(filepath.Join(d.root, name))
	if err != nil {
		return nil, false
	}
	var m map[string]interface{}
	if toml.Unmarshal(data, &m) != nil {
		return nil, false
	}
	return m, true
}

// dirPattern turns a declared output directory into an exclusion glob
func dirPattern(dir string) string {
	dir = strings.Trim(strings.TrimSpace(dir), "/")
	return "**/" + dir + "/**"
}

// DeduplicatePatterns removes duplicate exclusion patterns, preserving order
func DeduplicatePatterns(patterns []string) []string {
	seen := make(map[string]bool)
	result := make([]string, 0, len(patterns))

	for _, pattern := range patterns {
		if !seen[pattern] {
			seen[pattern] = true
			result = append(result, pattern)
		}
	}

	return result
}
