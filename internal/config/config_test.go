package config

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestLoad_MissingConfigFallsBackToDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg, err := Load(filepath.Join(home, "does-not-exist.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.APIURL != defaultAPIURL {
		t.Fatalf("APIURL = %q, want %q", cfg.APIURL, defaultAPIURL)
	}
	if cfg.PageSize != 8 || cfg.MaxPageSize != 100 || cfg.AssumedTotal != 100 {
		t.Fatalf("unexpected paging defaults: %+v", cfg)
	}
	if !slices.Equal(cfg.PageSizes, []int{8, 20, 50, 100}) {
		t.Fatalf("PageSizes = %v", cfg.PageSizes)
	}
	if cfg.Timeout != 5*time.Second || cfg.RefreshEvery != 0 {
		t.Fatalf("Timeout = %v RefreshEvery = %v", cfg.Timeout, cfg.RefreshEvery)
	}

	wantLog, err := expandPath(defaultLogFile)
	if err != nil {
		t.Fatalf("expandPath(defaultLogFile) returned error: %v", err)
	}
	if cfg.LogFile != wantLog {
		t.Fatalf("LogFile = %q, want %q", cfg.LogFile, wantLog)
	}
	if !strings.HasPrefix(cfg.Serve.DBPath, home) {
		t.Fatalf("DBPath = %q, want it under HOME %q", cfg.Serve.DBPath, home)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
}

func TestLoad_ParsesAndTrimsConfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	path := writeConfig(t, `
api_url = "  http://127.0.0.1:7488/api  "
page_size = 20
page_sizes = [50, 20, 20, 10]
timeout = "750ms"
refresh_every = "30s"
seed = ""
log_file = "  ~/logs/roster.log  "
log_level = "DEBUG"

[serve]
listen = "0.0.0.0:9000"
seed_users = 10
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.APIURL != "http://127.0.0.1:7488/api" {
		t.Fatalf("APIURL = %q", cfg.APIURL)
	}
	if cfg.PageSize != 20 || !slices.Equal(cfg.PageSizes, []int{10, 20, 50}) {
		t.Fatalf("PageSize = %d PageSizes = %v", cfg.PageSize, cfg.PageSizes)
	}
	if cfg.Timeout != 750*time.Millisecond || cfg.RefreshEvery != 30*time.Second {
		t.Fatalf("Timeout = %v RefreshEvery = %v", cfg.Timeout, cfg.RefreshEvery)
	}
	if cfg.Seed != "" {
		t.Fatalf("Seed = %q, want explicit empty", cfg.Seed)
	}
	if cfg.LogFile != filepath.Join(home, "logs", "roster.log") {
		t.Fatalf("LogFile = %q", cfg.LogFile)
	}
	if cfg.LogLevel != "debug" {
		t.Fatalf("LogLevel = %q, want debug", cfg.LogLevel)
	}
	if cfg.Serve.Listen != "0.0.0.0:9000" || cfg.Serve.SeedUsers != 10 {
		t.Fatalf("Serve = %+v", cfg.Serve)
	}
}

func TestLoad_RejectsInvalidValues(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cases := map[string]string{
		"page size above max":  "page_size = 200\n",
		"zero page size":       "page_size = 0\n",
		"page sizes above max": "max_page_size = 20\npage_sizes = [8, 50]\n",
		"bad timeout":          "timeout = \"soon\"\n",
		"negative refresh":     "refresh_every = \"-1s\"\n",
		"bad level":            "log_level = \"chatty\"\n",
		"bad listen":           "[serve]\nlisten = \"nowhere\"\n",
		"bad toml":             "page_size = [\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := Load(writeConfig(t, body)); err == nil {
				t.Fatalf("expected error for %q", body)
			}
		})
	}
}

func TestPageSizeChoices_IncludesConfiguredSize(t *testing.T) {
	cfg := Default()
	cfg.PageSize = 12
	if got := cfg.PageSizeChoices(); !slices.Equal(got, []int{8, 12, 20, 50, 100}) {
		t.Fatalf("PageSizeChoices = %v", got)
	}
	cfg.PageSize = 20
	if got := cfg.PageSizeChoices(); !slices.Equal(got, []int{8, 20, 50, 100}) {
		t.Fatalf("PageSizeChoices = %v", got)
	}
}

func TestExpandPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	got, err := expandPath("~/x/y")
	if err != nil {
		t.Fatalf("expandPath returned error: %v", err)
	}
	if got != filepath.Join(home, "x", "y") {
		t.Fatalf("expandPath = %q", got)
	}
	if _, err := expandPath("   "); err == nil {
		t.Fatal("expected error for empty path")
	}
}
