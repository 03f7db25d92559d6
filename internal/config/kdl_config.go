package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	kdl "github.com/sblinch/kdl-go"
	"github.com/sblinch/kdl-go/document"

	"github.com/standardbeagle/lml/internal/debug"
)

// LoadKDL attempts to load configuration from a .lml.kdl file in dir.
// Returns (nil, nil) when no config file exists there.
func LoadKDL(dir string) (*Config, error) {
	kdlPath := filepath.Join(dir, ".lml.kdl")

	if _, err := os.Stat(kdlPath); os.IsNotExist(err) {
		return nil, nil
	}

	return LoadKDLFile(kdlPath, dir)
}

// LoadKDLFile loads configuration from an explicit file path. Relative
// project roots declared inside the file resolve against baseDir.
func LoadKDLFile(path, baseDir string) (*Config, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %v", path, err)
	}

	cfg, err := parseKDL(string(content))
	if err != nil {
		return nil, err
	}

	// Resolve the project root to an absolute path so that path matching
	// and artifact detection behave the same from any working directory.
	if cfg.Project.Root != "" && !filepath.IsAbs(cfg.Project.Root) {
		cfg.Project.Root = filepath.Clean(filepath.Join(baseDir, cfg.Project.Root))
	} else if cfg.Project.Root == "" {
		if abs, err := filepath.Abs(baseDir); err == nil {
			cfg.Project.Root = abs
		} else {
			cfg.Project.Root = baseDir
		}
	}

	cfg.EnrichExclusions()

	return cfg, nil
}

// parseKDL parses KDL config content over the built-in defaults.
//
// Schema:
//
//	project { root "."; name "api" }
//	scan    { workers 8; max-file-size "10MB"; follow-symlinks false
//	          watch-debounce-ms 300; exclude "**/gen/**"; include "src/**" }
//	match   { score 1.5; sort true }
//	display { context 2; line-numbers true; color "never" }
func parseKDL(content string) (*Config, error) {
	cfg := Defaults("")

	doc, err := kdl.Parse(strings.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("failed to parse KDL config: %w", err)
	}

	for _, n := range doc.Nodes {
		switch nodeName(n) {
		case "project":
			for _, cn := range n.Children {
				assignSimpleString(cn, "root", func(v string) { cfg.Project.Root = v })
				assignSimpleString(cn, "name", func(v string) { cfg.Project.Name = v })
			}
		case "scan":
			for _, cn := range n.Children {
				switch nodeName(cn) {
				case "workers":
					if v, ok := firstIntArg(cn); ok {
						cfg.Scan.Workers = v
					}
				case "max-file-size":
					if v, ok := firstIntArg(cn); ok {
						cfg.Scan.MaxFileSize = int64(v)
					}
					if s, ok := firstStringArg(cn); ok {
						if sz, err := parseSize(s); err == nil {
							cfg.Scan.MaxFileSize = sz
						}
					}
				case "follow-symlinks":
					if b, ok := firstBoolArg(cn); ok {
						cfg.Scan.FollowSymlinks = b
					}
				case "watch-debounce-ms":
					if v, ok := firstIntArg(cn); ok {
						cfg.Scan.WatchDebounceMs = v
					}
				case "exclude":
					// An explicit exclude node takes full control of the
					// exclusion list, replacing the built-in defaults.
					cfg.Scan.Exclude = collectStringArgs(cn)
				case "include":
					cfg.Scan.Include = append(cfg.Scan.Include, collectStringArgs(cn)...)
				}
			}
		case "match":
			for _, cn := range n.Children {
				switch nodeName(cn) {
				case "score":
					if v, ok := firstFloatArg(cn); ok {
						cfg.Match.MinScore = v
					}
				case "sort":
					if b, ok := firstBoolArg(cn); ok {
						cfg.Match.Sort = b
					}
				}
			}
		case "display":
			for _, cn := range n.Children {
				switch nodeName(cn) {
				case "context":
					if v, ok := firstIntArg(cn); ok {
						cfg.Display.Context = v
					}
				case "line-numbers":
					if b, ok := firstBoolArg(cn); ok {
						cfg.Display.LineNumbers = b
					}
				case "color":
					if s, ok := firstStringArg(cn); ok {
						cfg.Display.Color = s
					}
				}
			}
		}
	}

	return cfg, nil
}

// Helper functions leveraging the kdl-go document model
func nodeName(n *document.Node) string {
	if n == nil || n.Name == nil {
		return ""
	}
	return n.Name.NodeNameString()
}
func firstIntArg(n *document.Node) (int, bool) {
	if len(n.Arguments) == 0 {
		return 0, false
	}
	switch v := n.Arguments[0].Value.(type) {
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	default:
		return 0, false
	}
}
func firstStringArg(n *document.Node) (string, bool) {
	if len(n.Arguments) == 0 {
		return "", false
	}
	if s, ok := n.Arguments[0].Value.(string); ok {
		return s, true
	}
	return "", false
}
func firstBoolArg(n *document.Node) (bool, bool) {
	if len(n.Arguments) == 0 {
		return false, false
	}
	if b, ok := n.Arguments[0].Value.(bool); ok {
		return b, true
	}
	return false, false
}
func firstFloatArg(n *document.Node) (float64, bool) {
	if len(n.Arguments) == 0 {
		return 0, false
	}
	switch v := n.Arguments[0].Value.(type) {
	case float64:
		return v, true
	case int64:
		return float64(v), true
	default:
		debug.Log("config", "ignoring non-numeric value for %q: got %T\n", nodeName(n), n.Arguments[0].Value)
		return 0, false
	}
}
func collectStringArgs(n *document.Node) []string {
	if n == nil {
		return nil
	}
	// Inline format: exclude "a" "b"
	out := make([]string, 0, len(n.Arguments))
	for _, a := range n.Arguments {
		if s, ok := a.Value.(string); ok {
			out = append(out, s)
		}
	}

	// Block format: exclude { "a"; "b" }. Each string parses as a child
	// node whose name is the string value.
	if len(out) == 0 && len(n.Children) > 0 {
		out = make([]string, 0, len(n.Children))
		for _, child := range n.Children {
			if s, ok := firstStringArg(child); ok {
				out = append(out, s)
			} else if child.Name != nil {
				if s, ok := child.Name.Value.(string); ok {
					out = append(out, s)
				}
			}
		}
	}

	return out
}
func assignSimpleString(n *document.Node, target string, set func(string)) {
	if nodeName(n) == target {
		if s, ok := firstStringArg(n); ok {
			set(s)
		}
	}
}

// parseSize handles size strings like "10MB", "500KB", "1GB"
func parseSize(s string) (int64, error) {
	s = strings.ToUpper(strings.TrimSpace(s))

	var multiplier int64 = 1
	var numStr string

	switch {
	case strings.HasSuffix(s, "GB"):
		multiplier = 1024 * 1024 * 1024
		numStr = strings.TrimSuffix(s, "GB")
	case strings.HasSuffix(s, "MB"):
		multiplier = 1024 * 1024
		numStr = strings.TrimSuffix(s, "MB")
	case strings.HasSuffix(s, "KB"):
		multiplier = 1024
		numStr = strings.TrimSuffix(s, "KB")
	case strings.HasSuffix(s, "B"):
		multiplier = 1
		numStr = strings.TrimSuffix(s, "B")
	default:
		numStr = s
	}

	num, err := strconv.ParseInt(numStr, 10, 64)
	if err != nil {
		return 0, err
	}

	return num * multiplier, nil
}
