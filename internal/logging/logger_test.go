package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewLogger_CreatesDirAndLogger(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	var console bytes.Buffer
	log, err := newLogger(dir, "info", &console)
	if err != nil {
		t.Fatalf("newLogger: %v", err)
	}
	defer func() { _ = log.Sync() }()

	// Directory should exist
	if _, err := os.Stat(dir); err != nil {
		t.Fatalf("log dir missing: %v", err)
	}

	log.Info("test_message_from_logging_test")
	log.Debug("below_level")

	if !strings.Contains(console.String(), "test_message_from_logging_test") {
		t.Fatalf("console copy missing message: %q", console.String())
	}
	if strings.Contains(console.String(), "below_level") {
		t.Fatalf("debug message should be filtered at info level")
	}
}

func TestNewLogger_BadLevel(t *testing.T) {
	if _, err := NewLogger(t.TempDir(), "loud"); err == nil {
		t.Fatalf("expected error for unknown level")
	}
}
