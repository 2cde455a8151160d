package logging

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tessro/crate/internal/config"
)

func TestNewWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "crate.log")

	log, err := New(config.LogConfig{Level: "debug", File: path, Format: "json"})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	log.Debug("scan complete")
	log.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}

	var entry map[string]any
	if err := json.Unmarshal([]byte(strings.TrimSpace(string(data))), &entry); err != nil {
		t.Fatalf("log line is not JSON: %v (%q)", err, data)
	}
	if entry["msg"] != "scan complete" {
		t.Errorf("msg = %v, want %q", entry["msg"], "scan complete")
	}
	if entry["level"] != "debug" {
		t.Errorf("level = %v, want %q", entry["level"], "debug")
	}
}

func TestNewRespectsLevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "crate.log")

	log, err := New(config.LogConfig{Level: "warn", File: path})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	log.Info("hidden")
	log.Warn("shown")
	log.Sync()

	data, _ := os.ReadFile(path)
	if strings.Contains(string(data), "hidden") {
		t.Error("info message logged at warn level")
	}
	if !strings.Contains(string(data), "shown") {
		t.Error("warn message missing")
	}
}

func TestNewInvalidLevel(t *testing.T) {
	if _, err := New(config.LogConfig{Level: "chatty"}); err == nil {
		t.Error("New() expected error for unknown level")
	}
}
