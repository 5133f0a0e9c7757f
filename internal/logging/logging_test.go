package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/mrsinham/consultbench/internal/config"
)

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	log, closeFn, err := New(config.LogConfig{Level: "debug", Format: "json"}, &buf)
	if err != nil {
		t.Fatal(err)
	}
	defer closeFn()

	Component(log, "persist").WithField("key", "k").Debug("draft saved")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, buf.String())
	}
	if entry["message"] != "draft saved" || entry["component"] != "persist" || entry["key"] != "k" {
		t.Errorf("unexpected entry %v", entry)
	}
}

func TestNew_LevelFallback(t *testing.T) {
	log, _, err := New(config.LogConfig{Level: "loud"}, &bytes.Buffer{})
	if err != nil {
		t.Fatal(err)
	}
	if log.GetLevel() != logrus.InfoLevel {
		t.Errorf("Expected info fallback, got %s", log.GetLevel())
	}
}

func TestNew_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "consultbench.log")
	log, closeFn, err := New(config.LogConfig{Level: "info", Format: "text", File: path}, nil)
	if err != nil {
		t.Fatal(err)
	}
	log.Info("workbench mounted")
	if err := closeFn(); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "workbench mounted") {
		t.Errorf("log file missing entry:\n%s", data)
	}
}
