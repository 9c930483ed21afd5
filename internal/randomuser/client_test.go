package randomuser

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/five82/roster/internal/state"
	"github.com/five82/roster/internal/table"
)

func TestParseAPIURL_DefaultsAndNormalizes(t *testing.T) {
	u, path, err := parseAPIURL("")
	if err != nil {
		t.Fatalf("parseAPIURL returned error: %v", err)
	}
	if u.String() != "https://randomuser.me" || path != "/api" {
		t.Fatalf("got %q %q, want https://randomuser.me /api", u.String(), path)
	}

	u, path, err = parseAPIURL("127.0.0.1:7488")
	if err != nil {
		t.Fatalf("parseAPIURL returned error: %v", err)
	}
	if u.Scheme != "http" || u.Host != "127.0.0.1:7488" || path != "/api" {
		t.Fatalf("got %q %q", u.String(), path)
	}

	u, path, err = parseAPIURL("http://example.com:1234/v1/users?x=1#frag")
	if err != nil {
		t.Fatalf("parseAPIURL returned error: %v", err)
	}
	if u.RawQuery != "" || u.Fragment != "" || path != "/v1/users" {
		t.Fatalf("url not normalized: %q %q", u.String(), path)
	}

	if _, _, err := parseAPIURL("http://"); err == nil {
		t.Fatal("expected error for missing host")
	}
}

func TestEncodeQuery(t *testing.T) {
	q := table.Query{
		Page:     2,
		PageSize: 20,
		Sort: []table.SortField{
			{Field: "name", Direction: state.Descending},
			{Field: "email", Direction: state.Ascending},
		},
		Filters: map[string][]string{"gender": {"female", "male"}},
	}
	got := EncodeQuery(q, "roster")

	checks := map[string]string{
		"results":         "20",
		"page":            "2",
		"seed":            "roster",
		"sortField":       "name",
		"sortOrder":       "descend",
		"gender":          "female,male",
		"filters[gender]": "female",
	}
	for key, want := range checks {
		if got.Get(key) != want {
			t.Fatalf("%s = %q, want %q", key, got.Get(key), want)
		}
	}
	if sorts := got["sort"]; len(sorts) != 2 || sorts[0] != "name:desc" || sorts[1] != "email:asc" {
		t.Fatalf("sort = %v", sorts)
	}
	if vals := got["filters[gender]"]; len(vals) != 2 {
		t.Fatalf("filters[gender] = %v, want two values", vals)
	}

	bare := EncodeQuery(table.Query{Page: 1, PageSize: 8}, "")
	for _, key := range []string{"seed", "sort", "sortField", "sortOrder"} {
		if bare.Has(key) {
			t.Fatalf("unexpected %s in %v", key, bare)
		}
	}
}

func TestClient_FetchPage(t *testing.T) {
	t.Parallel()

	var gotQuery url.Values
	var gotUserAgent string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api" {
			http.NotFound(w, r)
			return
		}
		gotQuery = r.URL.Query()
		gotUserAgent = r.Header.Get("User-Agent")
		total := 250
		_ = json.NewEncoder(w).Encode(Response{
			Results: []User{
				{Name: Name{First: "John", Last: "Smithson"}, Email: "john@example.com", Login: Login{UUID: "a"}},
				{Name: Name{First: "Ana", Last: "Lopez"}, Email: "ana@example.com", Login: Login{UUID: "b"}},
			},
			Info: Info{Page: 3, Results: 2, Total: &total},
		})
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL+"/api", Options{Seed: "roster"})
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	t.Cleanup(cancel)

	page, err := c.Fetch(ctx, table.Query{Page: 3, PageSize: 2})
	if err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}
	if page.Total != 250 || len(page.Records) != 2 {
		t.Fatalf("page = %#v, want total=250 with 2 records", page)
	}
	if page.Records[0].RowKey() != "a" || page.Records[0].Value(ColumnName) != "John Smithson" {
		t.Fatalf("unexpected first record %#v", page.Records[0])
	}
	if gotQuery.Get("page") != "3" || gotQuery.Get("results") != "2" || gotQuery.Get("seed") != "roster" {
		t.Fatalf("query = %v", gotQuery)
	}
	if gotUserAgent != defaultUserAgent {
		t.Fatalf("User-Agent = %q, want %q", gotUserAgent, defaultUserAgent)
	}
}

func TestClient_AssumedTotalWhenMissing(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"results":[{"login":{"uuid":"x"}}],"info":{"page":1,"results":1}}`))
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL, Options{})
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	page, err := c.Fetch(context.Background(), table.Query{Page: 1, PageSize: 1})
	if err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}
	if page.Total != defaultAssumedTotal {
		t.Fatalf("total = %d, want %d", page.Total, defaultAssumedTotal)
	}

	c, err = NewClient(server.URL, Options{AssumedTotal: 40})
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	page, err = c.Fetch(context.Background(), table.Query{Page: 1, PageSize: 1})
	if err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}
	if page.Total != 40 {
		t.Fatalf("total = %d, want 40", page.Total)
	}
}

func TestClient_Errors(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		handler http.HandlerFunc
		want    string
	}{
		{
			name: "status",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadRequest)
			},
			want: "returned status 400",
		},
		{
			name: "decode",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte("{not json"))
			},
			want: "decode response",
		},
		{
			name: "payload error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"error":"Uh oh, something has gone wrong."}`))
			},
			want: "api error",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(tc.handler)
			t.Cleanup(server.Close)

			c, err := NewClient(server.URL, Options{})
			if err != nil {
				t.Fatalf("NewClient returned error: %v", err)
			}
			_, err = c.Fetch(context.Background(), table.Query{Page: 1, PageSize: 8})
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("err = %v, want substring %q", err, tc.want)
			}
		})
	}
}

func TestClient_RetriesServerErrors(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"results":[],"info":{"total":0}}`))
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL, Options{Retries: 2})
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	page, err := c.Fetch(context.Background(), table.Query{Page: 1, PageSize: 8})
	if err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}
	if page.Total != 0 || calls.Load() != 2 {
		t.Fatalf("total=%d calls=%d, want 0 and 2", page.Total, calls.Load())
	}
}

func TestClient_ContextCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL, Options{Timeout: time.Second})
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := c.Fetch(ctx, table.Query{Page: 1, PageSize: 8}); err == nil {
		t.Fatal("expected error for cancelled context")
	}
}
