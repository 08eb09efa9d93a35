package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/abhisek/learnloop/internal/config"
)

func TestNew_RejectsUnknownLevel(t *testing.T) {
	if _, err := New(config.LogConfig{Level: "loud", Format: "console"}); err == nil {
		t.Fatal("expected error for unknown level")
	}
}

func TestNew_WritesRotatingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "learnloop.log")

	log, err := New(config.LogConfig{Level: "info", Format: "console", File: path})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	log.Info("event appended")
	log.Debug("filtered out")
	_ = log.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	got := string(data)
	if !strings.Contains(got, `"msg":"event appended"`) {
		t.Errorf("log file = %q, want info entry", got)
	}
	if strings.Contains(got, "filtered out") {
		t.Errorf("debug entry written at info level")
	}
}
