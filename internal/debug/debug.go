// Package debug provides component-tagged diagnostic logging, off by
// default and enabled per run by flag, environment, or build tag.
package debug

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// EnableDebug can be flipped at build time:
// go build -ldflags "-X github.com/standardbeagle/lml/internal/debug.EnableDebug=true"
var EnableDebug = "false"

// MCPMode suppresses all debug output so nothing leaks into the stdio
// protocol stream. Set by the mcp command before serving.
var MCPMode = false

var (
	mu             sync.Mutex
	output         io.Writer
	outputSet      bool
	logFile        *os.File
	runtimeEnabled bool
)

// SetMCPMode enables MCP mode, silencing debug output on stdio.
func SetMCPMode(enabled bool) {
	MCPMode = enabled
}

// Enable turns on debug logging for this process, writing to stderr unless
// SetOutput configured something else first. Wired to the --debug flag.
func Enable() {
	mu.Lock()
	defer mu.Unlock()
	runtimeEnabled = true
	if output == nil {
		output = os.Stderr
	}
}

// SetOutput redirects debug output. Pass nil to drop it.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
	outputSet = true
}

// InitLogFile routes debug output to a timestamped file under the system
// temp directory, for modes where stderr is not usable. Call CloseLogFile
// when done.
func InitLogFile() (string, error) {
	mu.Lock()
	defer mu.Unlock()

	logDir := filepath.Join(os.TempDir(), "lml-debug-logs")
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create debug log directory: %w", err)
	}

	logPath := filepath.Join(logDir, fmt.Sprintf("debug-%s.log", time.Now().Format("2006-01-02T150405")))
	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return "", fmt.Errorf("failed to create debug log file: %w", err)
	}

	logFile = file
	output = file
	outputSet = true
	runtimeEnabled = true
	return logPath, nil
}

// CloseLogFile closes the debug log file if one is open.
func CloseLogFile() error {
	mu.Lock()
	defer mu.Unlock()

	if logFile != nil {
		err := logFile.Close()
		logFile = nil
		output = nil
		return err
	}
	return nil
}

// IsEnabled reports whether debug output is active for this process.
func IsEnabled() bool {
	if MCPMode && logFile == nil {
		return false
	}
	if runtimeEnabled || EnableDebug == "true" {
		return true
	}
	if v := os.Getenv("LML_DEBUG"); v == "1" || v == "true" {
		return true
	}
	return false
}

func writer() io.Writer {
	mu.Lock()
	defer mu.Unlock()
	if output == nil && !outputSet {
		// Enabled via environment without an explicit destination.
		return os.Stderr
	}
	return output
}

// Log writes one component-tagged debug message. The format string carries
// its own newline; Log does not add one.
func Log(component, format string, args ...interface{}) {
	if !IsEnabled() {
		return
	}
	w := writer()
	if w == nil {
		return
	}
	fmt.Fprintf(w, "[DEBUG:%s] "+format, append([]interface{}{component}, args...)...)
}

// LogScan logs file discovery and pipeline events.
func LogScan(format string, args ...interface{}) {
	Log("SCAN", format, args...)
}

// LogMatch logs tokenizing and scoring decisions.
func LogMatch(format string, args ...interface{}) {
	Log("MATCH", format, args...)
}

// LogWatch logs filesystem watch events.
func LogWatch(format string, args ...interface{}) {
	Log("WATCH", format, args...)
}

// LogMCP logs MCP request handling.
func LogMCP(format string, args ...interface{}) {
	Log("MCP", format, args...)
}
