package debug

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

// saveAndRestoreState saves the debug package state and returns a cleanup function
func saveAndRestoreState() func() {
	originalDebug := EnableDebug
	originalMode := MCPMode
	originalOutput := output
	originalOutputSet := outputSet
	originalFile := logFile
	originalRuntime := runtimeEnabled
	return func() {
		EnableDebug = originalDebug
		MCPMode = originalMode
		output = originalOutput
		outputSet = originalOutputSet
		logFile = originalFile
		runtimeEnabled = originalRuntime
	}
}

func TestSetMCPMode(t *testing.T) {
	defer saveAndRestoreState()()

	SetMCPMode(true)
	assert.True(t, MCPMode)

	SetMCPMode(false)
	assert.False(t, MCPMode)
}

func TestIsEnabled(t *testing.T) {
	defer saveAndRestoreState()()

	EnableDebug = "false"
	MCPMode = false
	runtimeEnabled = false
	assert.False(t, IsEnabled())

	EnableDebug = "true"
	assert.True(t, IsEnabled())

	// Invalid build value stays off
	EnableDebug = "invalid"
	assert.False(t, IsEnabled())

	// Runtime flag wins regardless of build value
	runtimeEnabled = true
	assert.True(t, IsEnabled())
}

func TestEnable(t *testing.T) {
	defer saveAndRestoreState()()

	EnableDebug = "false"
	MCPMode = false
	runtimeEnabled = false
	output = nil

	Enable()
	assert.True(t, IsEnabled())
}

func TestLog(t *testing.T) {
	defer saveAndRestoreState()()

	var buf bytes.Buffer
	SetOutput(&buf)
	EnableDebug = "true"
	MCPMode = false
	Log("TEST", "hello %s", "world")

	got := buf.String()
	assert.Contains(t, got, "[DEBUG:TEST]")
	assert.Contains(t, got, "hello world")
}

func TestLog_MCPMode(t *testing.T) {
	defer saveAndRestoreState()()

	// MCP mode must keep the stdio stream clean even with debug enabled.
	var buf bytes.Buffer
	SetOutput(&buf)
	EnableDebug = "true"
	MCPMode = true
	Log("TEST", "should not appear")

	assert.Empty(t, buf.String())
}

func TestLogHelpers(t *testing.T) {
	defer saveAndRestoreState()()

	EnableDebug = "true"
	MCPMode = false

	tests := []struct {
		name    string
		logFunc func(string, ...interface{})
		prefix  string
	}{
		{"LogScan", LogScan, "[DEBUG:SCAN]"},
		{"LogMatch", LogMatch, "[DEBUG:MATCH]"},
		{"LogWatch", LogWatch, "[DEBUG:WATCH]"},
		{"LogMCP", LogMCP, "[DEBUG:MCP]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			SetOutput(&buf)

			tt.logFunc("value %d", 7)

			got := buf.String()
			assert.Contains(t, got, tt.prefix)
			assert.Contains(t, got, "value 7")
		})
	}
}

func TestConcurrentLogging(t *testing.T) {
	defer saveAndRestoreState()()

	var buf bytes.Buffer
	SetOutput(&buf)
	EnableDebug = "true"
	MCPMode = false

	done := make(chan bool)
	for i := 0; i < 10; i++ {
		go func(id int) {
			Log("CONCURRENT", "message from goroutine %d", id)
			LogScan("scan from goroutine %d", id)
			done <- true
		}(i)
	}

	for i := 0; i < 10; i++ {
		<-done
	}
}

func TestNoOutputWithNilWriter(t *testing.T) {
	defer saveAndRestoreState()()

	SetOutput(nil)
	EnableDebug = "true"
	MCPMode = false

	// Must not panic, just stay silent.
	Log("TEST", "test %s", "message")
	LogScan("test %s", "message")
	LogMCP("test %s", "message")
}

func TestWriterDefaultsToStderr(t *testing.T) {
	defer saveAndRestoreState()()

	// Enabled through the environment alone, with no SetOutput call.
	output = nil
	outputSet = false
	assert.Equal(t, os.Stderr, writer())

	// An explicit nil still means silent.
	SetOutput(nil)
	assert.Nil(t, writer())
}

func TestInitLogFile(t *testing.T) {
	defer saveAndRestoreState()()

	logPath, err := InitLogFile()
	assert.NoError(t, err)
	assert.NotEmpty(t, logPath)

	_, err = os.Stat(logPath)
	assert.NoError(t, err)

	MCPMode = false
	Log("TEST", "file log message")

	err = CloseLogFile()
	assert.NoError(t, err)

	content, err := os.ReadFile(logPath)
	assert.NoError(t, err)
	assert.Contains(t, string(content), "file log message")

	os.Remove(logPath)
}
