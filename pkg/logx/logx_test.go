package logx

import (
	"testing"
	"time"
)

func TestLoggerBuffersEntries(t *testing.T) {
	logger := NewLogger("test-component")
	logger.Info("hello %s", "world")

	entries := GetRecentLogEntries("test-component", time.Time{})
	if len(entries) == 0 {
		t.Fatal("expected at least one buffered entry")
	}

	last := entries[len(entries)-1]
	if last.Message != "hello world" {
		t.Errorf("unexpected message: %q", last.Message)
	}
	if last.Level != string(LevelInfo) {
		t.Errorf("unexpected level: %q", last.Level)
	}
}

func TestComponentFilter(t *testing.T) {
	NewLogger("alpha").Info("from alpha")
	NewLogger("beta").Info("from beta")

	entries := GetRecentLogEntries("alpha", time.Time{})
	for i := range entries {
		if entries[i].Component != "alpha" {
			t.Errorf("filter leaked entry from %q", entries[i].Component)
		}
	}
}

func TestDebugSuppressedByDefault(t *testing.T) {
	SetDebug(false)
	defer SetDebug(false)

	logger := NewLogger("debug-test")
	logger.Debug("should not appear")

	entries := GetRecentLogEntries("debug-test", time.Time{})
	if len(entries) != 0 {
		t.Errorf("debug entries should be suppressed, got %d", len(entries))
	}

	SetDebug(true)
	logger.Debug("now visible")
	entries = GetRecentLogEntries("debug-test", time.Time{})
	if len(entries) != 1 {
		t.Errorf("expected 1 debug entry, got %d", len(entries))
	}
}

func TestBufferCap(t *testing.T) {
	buf := &InMemoryLogBuffer{maxSize: 3}
	for i := 0; i < 5; i++ {
		buf.AddLogEntry(&LogEntry{Component: "cap", Message: "m"})
	}
	if got := len(buf.GetLogEntries("", time.Time{})); got != 3 {
		t.Errorf("expected buffer capped at 3, got %d", got)
	}
}

func TestWrapNil(t *testing.T) {
	if Wrap(nil, "context") != nil {
		t.Error("Wrap(nil) should return nil")
	}
}
