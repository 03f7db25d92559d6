package errors

import (
	"errors"
	"testing"
)

func TestScanError(t *testing.T) {
	underlying := errors.New("underlying error")
	err := NewScanError("read", underlying).
		WithPath("/path/to/file.c").
		WithRecoverable(true)

	if err.Type != ErrorTypeFileAccess {
		t.Errorf("Expected Type to be ErrorTypeFileAccess, got %v", err.Type)
	}

	if err.Path != "/path/to/file.c" {
		t.Errorf("Expected Path to be '/path/to/file.c', got %s", err.Path)
	}

	if err.Operation != "read" {
		t.Errorf("Expected Operation to be 'read', got %s", err.Operation)
	}

	if !errors.Is(err, underlying) {
		t.Errorf("Expected error to unwrap to underlying error")
	}

	if !err.IsRecoverable() {
		t.Errorf("Expected error to be marked as recoverable")
	}

	expectedMsg := "file_access read failed for /path/to/file.c: underlying error"
	if err.Error() != expectedMsg {
		t.Errorf("Expected error message %q, got %q", expectedMsg, err.Error())
	}
}

func TestScanErrorWithoutPath(t *testing.T) {
	underlying := errors.New("walk aborted")
	err := NewScanError("walk", underlying)

	if err.Type != ErrorTypeWalk {
		t.Errorf("Expected Type to be ErrorTypeWalk, got %v", err.Type)
	}

	expectedMsg := "walk walk failed: walk aborted"
	if err.Error() != expectedMsg {
		t.Errorf("Expected error message %q, got %q", expectedMsg, err.Error())
	}
}

func TestConfigError(t *testing.T) {
	underlying := errors.New("not a size")
	err := NewConfigError("max-file-size", "huge", underlying)

	if !errors.Is(err, underlying) {
		t.Errorf("Expected error to unwrap to underlying error")
	}

	expectedMsg := "config error for field max-file-size (value huge): not a size"
	if err.Error() != expectedMsg {
		t.Errorf("Expected error message %q, got %q", expectedMsg, err.Error())
	}
}

func TestWatchError(t *testing.T) {
	underlying := errors.New("too many open files")
	err := NewWatchError("/project", underlying)

	if !errors.Is(err, underlying) {
		t.Errorf("Expected error to unwrap to underlying error")
	}

	expectedMsg := "watch failed for /project: too many open files"
	if err.Error() != expectedMsg {
		t.Errorf("Expected error message %q, got %q", expectedMsg, err.Error())
	}
}

func TestMultiError(t *testing.T) {
	err1 := errors.New("first")
	err2 := errors.New("second")

	multi := NewMultiError([]error{err1, nil, err2})

	if len(multi.Errors) != 2 {
		t.Errorf("Expected 2 errors after nil filtering, got %d", len(multi.Errors))
	}

	if !errors.Is(multi, err1) || !errors.Is(multi, err2) {
		t.Errorf("Expected multi-error to unwrap to both members")
	}

	single := NewMultiError([]error{err1})
	if single.Error() != "first" {
		t.Errorf("Expected single-member message 'first', got %q", single.Error())
	}

	empty := NewMultiError(nil)
	if empty.Error() != "no errors" {
		t.Errorf("Expected 'no errors', got %q", empty.Error())
	}
}
