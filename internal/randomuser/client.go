package randomuser

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/five82/roster/internal/state"
	"github.com/five82/roster/internal/table"
)

// Ensure Client implements table.Source at compile time.
var _ table.Source[User] = (*Client)(nil)

const (
	defaultAPIURL       = "https://randomuser.me/api"
	defaultUserAgent    = "roster/0.1"
	defaultTimeout      = 5 * time.Second
	defaultAssumedTotal = 100
)

// Options tune the client. Zero values use defaults.
type Options struct {
	Timeout time.Duration
	Retries int
	// Seed pins randomuser.me output so that pages are repeatable.
	Seed string
	// AssumedTotal is reported when the response carries no total.
	AssumedTotal int
}

// Client talks to a randomuser-compatible users endpoint.
type Client struct {
	http         *resty.Client
	path         string
	seed         string
	assumedTotal int
}

// NewClient builds a Client for apiURL (e.g. https://randomuser.me/api).
func NewClient(apiURL string, opts Options) (*Client, error) {
	base, path, err := parseAPIURL(apiURL)
	if err != nil {
		return nil, err
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	assumed := opts.AssumedTotal
	if assumed <= 0 {
		assumed = defaultAssumedTotal
	}

	httpClient := resty.New().
		SetBaseURL(base.String()).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", defaultUserAgent)
	if opts.Retries > 0 {
		httpClient.
			SetRetryCount(opts.Retries).
			SetRetryWaitTime(100 * time.Millisecond).
			SetRetryMaxWaitTime(2 * time.Second).
			AddRetryCondition(retryCondition)
	}

	return &Client{
		http:         httpClient,
		path:         path,
		seed:         strings.TrimSpace(opts.Seed),
		assumedTotal: assumed,
	}, nil
}

// Fetch retrieves one page of users.
func (c *Client) Fetch(ctx context.Context, q table.Query) (table.Page[User], error) {
	if c == nil {
		return table.Page[User]{}, fmt.Errorf("client is nil")
	}
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParamsFromValues(EncodeQuery(q, c.seed)).
		Get(c.path)
	if err != nil {
		return table.Page[User]{}, fmt.Errorf("execute request: %w", err)
	}
	if resp.StatusCode() >= 400 {
		return table.Page[User]{}, fmt.Errorf("api %s returned status %d", c.path, resp.StatusCode())
	}

	var payload Response
	if err := json.Unmarshal(resp.Body(), &payload); err != nil {
		return table.Page[User]{}, fmt.Errorf("decode response: %w", err)
	}
	if payload.Error != "" {
		return table.Page[User]{}, fmt.Errorf("api error: %s", payload.Error)
	}

	total := c.assumedTotal
	if payload.Info.Total != nil {
		total = *payload.Info.Total
	}
	return table.Page[User]{Records: payload.Results, Total: total}, nil
}

// EncodeQuery renders q in the wire format shared by randomuser.me and the
// directory server.
func EncodeQuery(q table.Query, seed string) url.Values {
	values := url.Values{}
	values.Set("results", strconv.Itoa(q.PageSize))
	values.Set("page", strconv.Itoa(q.Page))
	if seed != "" {
		values.Set("seed", seed)
	}
	for i, s := range q.Sort {
		if i == 0 {
			values.Set("sortField", s.Field)
			values.Set("sortOrder", widgetOrder(s.Direction))
		}
		values.Add("sort", s.Field+":"+string(s.Direction))
	}
	for col, vals := range q.Filters {
		if len(vals) == 0 {
			continue
		}
		for _, v := range vals {
			values.Add("filters["+col+"]", v)
		}
		values.Set(col, strings.Join(vals, ","))
	}
	return values
}

func widgetOrder(d state.Direction) string {
	if d == state.Descending {
		return "descend"
	}
	return "ascend"
}

func retryCondition(r *resty.Response, err error) bool {
	if err != nil {
		return true
	}
	if r == nil {
		return false
	}
	code := r.StatusCode()
	return code >= http.StatusInternalServerError || code == http.StatusTooManyRequests
}

func parseAPIURL(apiURL string) (*url.URL, string, error) {
	trimmed := strings.TrimSpace(apiURL)
	if trimmed == "" {
		trimmed = defaultAPIURL
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, "", fmt.Errorf("parse api_url %q: %w", apiURL, err)
	}
	if u.Host == "" {
		return nil, "", fmt.Errorf("parse api_url %q: missing host", apiURL)
	}
	path := u.Path
	if path == "" || path == "/" {
		path = "/api"
	}
	u.Path = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, path, nil
}
