package app

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/five82/roster/internal/directory"
	"github.com/five82/roster/internal/state"
	"github.com/five82/roster/internal/table"
)

// newDirectory serves n seeded users and returns the store and a config file
// pointing at the server.
func newDirectory(t *testing.T, n int) (*directory.Store, string) {
	t.Helper()
	ctx := context.Background()
	dir := t.TempDir()

	store, err := directory.Open(ctx, filepath.Join(dir, "directory.db"))
	if err != nil {
		t.Fatalf("open directory: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	if _, err := store.SeedIfEmpty(ctx, "app-test", n); err != nil {
		t.Fatalf("seed: %v", err)
	}

	srv := httptest.NewServer(directory.NewServer(store, nil).Handler())
	t.Cleanup(srv.Close)

	cfgPath := writeConfig(t, dir, fmt.Sprintf("api_url = %q\nlog_file = %q\n", srv.URL+"/api", filepath.Join(dir, "roster.log")))
	return store, cfgPath
}

func writeConfig(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestDump_PrintsRequestedPage(t *testing.T) {
	store, cfgPath := newDirectory(t, 60)

	sortSpec := []table.SortField{{Field: "name", Direction: state.Descending}}
	filters := map[string][]string{"gender": {"female"}}
	want, total, err := store.List(context.Background(), table.Query{Page: 2, PageSize: 5, Sort: sortSpec, Filters: filters})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(want) == 0 {
		t.Fatal("seeded directory has no second page of women")
	}

	var out bytes.Buffer
	err = Dump(context.Background(), &out, DumpOptions{
		ConfigPath: cfgPath,
		Page:       2,
		PageSize:   5,
		Sort:       []string{"name:desc"},
		Filters:    []string{"gender=female"},
	})
	if err != nil {
		t.Fatalf("Dump: %v", err)
	}

	text := out.String()
	for _, user := range want {
		if !strings.Contains(text, user.Email) {
			t.Fatalf("output missing %s:\n%s", user.Email, text)
		}
	}
	pages := (total + 4) / 5
	summary := fmt.Sprintf("page 2/%d, %d rows of %d", pages, len(want), total)
	if !strings.Contains(text, summary) {
		t.Fatalf("output missing %q:\n%s", summary, text)
	}
}

func TestDump_RejectsBadFlags(t *testing.T) {
	_, cfgPath := newDirectory(t, 5)

	cases := []DumpOptions{
		{ConfigPath: cfgPath, Sort: []string{"name:up"}},
		{ConfigPath: cfgPath, Filters: []string{"gender"}},
		{ConfigPath: cfgPath, PageSize: 500},
		{ConfigPath: cfgPath, Page: -1},
	}
	for _, opts := range cases {
		var out bytes.Buffer
		if err := Dump(context.Background(), &out, opts); err == nil {
			t.Fatalf("Dump(%+v) succeeded, want error", opts)
		}
		if out.Len() != 0 {
			t.Fatalf("Dump(%+v) wrote output on error", opts)
		}
	}
}

func TestDump_ReportsFetchFailure(t *testing.T) {
	dir := t.TempDir()
	srv := httptest.NewServer(nil)
	url := srv.URL
	srv.Close()
	cfgPath := writeConfig(t, dir, fmt.Sprintf("api_url = %q\nlog_file = %q\n", url+"/api", filepath.Join(dir, "roster.log")))

	var terr *table.TransportError
	err := Dump(context.Background(), &bytes.Buffer{}, DumpOptions{ConfigPath: cfgPath})
	if err == nil {
		t.Fatal("expected fetch error")
	}
	if !errors.As(err, &terr) {
		t.Fatalf("error %v is not a TransportError", err)
	}
}

func TestLogs_Tail(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "roster.log")
	if err := os.WriteFile(logPath, []byte("one\ntwo\nthree\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfgPath := writeConfig(t, dir, fmt.Sprintf("log_file = %q\n", logPath))

	var out bytes.Buffer
	if err := Logs(&out, cfgPath, 2); err != nil {
		t.Fatalf("Logs: %v", err)
	}
	if got := out.String(); got != "two\nthree\n" {
		t.Fatalf("Logs = %q", got)
	}
}

func TestLoadConfig_APIOverride(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeConfig(t, dir, "api_url = \"http://example.test/api\"\n")

	cfg, err := loadConfig(cfgPath, "http://127.0.0.1:7488/api")
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.APIURL != "http://127.0.0.1:7488/api" {
		t.Fatalf("APIURL = %q", cfg.APIURL)
	}
}
