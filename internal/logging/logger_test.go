package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]log.Level{
		"debug":   log.DebugLevel,
		" INFO ":  log.InfoLevel,
		"warn":    log.WarnLevel,
		"warning": log.WarnLevel,
		"error":   log.ErrorLevel,
		"chatty":  log.InfoLevel,
		"":        log.InfoLevel,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Fatalf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestNew_TextRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: "warn", Output: &buf})

	logger.Info("hidden")
	logger.Warn("fetch failed", "epoch", 3)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("info line should be filtered: %q", out)
	}
	if !strings.Contains(out, "fetch failed") || !strings.Contains(out, "epoch=3") {
		t.Fatalf("missing warn line: %q", out)
	}
}

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: "debug", Output: &buf, JSON: true})
	logger.Debug("dispatch", "epoch", 1)

	var entry map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry); err != nil {
		t.Fatalf("unmarshal %q: %v", buf.String(), err)
	}
	if entry["msg"] != "dispatch" {
		t.Fatalf("msg = %v, want dispatch", entry["msg"])
	}
	if entry["epoch"] != float64(1) {
		t.Fatalf("epoch = %v, want 1", entry["epoch"])
	}
}

func TestOpenFile_CreatesDirs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "roster.log")
	file, err := OpenFile(path)
	if err != nil {
		t.Fatalf("OpenFile returned error: %v", err)
	}
	logger := New(Config{Output: file})
	logger.Info("hello")
	if err := file.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !strings.Contains(string(data), "hello") {
		t.Fatalf("log file = %q", data)
	}

	if _, err := OpenFile("  "); err == nil {
		t.Fatal("expected error for empty path")
	}
}
