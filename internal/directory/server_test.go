package directory

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/roster/internal/randomuser"
	"github.com/five82/roster/internal/state"
	"github.com/five82/roster/internal/table"
)

func newTestServer(t *testing.T, n int) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(NewServer(openSeeded(t, n), nil).Handler())
	t.Cleanup(srv.Close)
	return srv
}

func get(t *testing.T, url string) (int, []byte) {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, body
}

func TestServer_UsersPage(t *testing.T) {
	srv := newTestServer(t, 25)

	code, body := get(t, srv.URL+"/api?results=10&page=3")
	require.Equal(t, http.StatusOK, code)

	var payload randomuser.Response
	require.NoError(t, json.Unmarshal(body, &payload))
	assert.Len(t, payload.Results, 5)
	require.NotNil(t, payload.Info.Total)
	assert.Equal(t, 25, *payload.Info.Total)
	assert.Equal(t, 3, payload.Info.Page)
}

func TestServer_BadRequests(t *testing.T) {
	srv := newTestServer(t, 5)

	for _, query := range []string{"results=0", "sort=salary:asc", "filters[email]=x"} {
		code, body := get(t, srv.URL+"/api?"+query)
		assert.Equal(t, http.StatusBadRequest, code, query)
		assert.Contains(t, string(body), `"error"`, query)
	}
}

func TestServer_HealthAndMetrics(t *testing.T) {
	srv := newTestServer(t, 1)

	code, body := get(t, srv.URL+"/healthz")
	assert.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"status":"ok"}`, string(body))

	get(t, srv.URL+"/api")
	code, body = get(t, srv.URL+"/metrics")
	assert.Equal(t, http.StatusOK, code)
	assert.True(t, strings.Contains(string(body), `roster_directory_requests_total{code="200",route="/api"}`), string(body))
}

func TestServer_DrivesTableController(t *testing.T) {
	srv := newTestServer(t, 30)
	client, err := randomuser.NewClient(srv.URL+"/api", randomuser.Options{})
	require.NoError(t, err)

	store, err := state.NewStore(8, 100)
	require.NoError(t, err)
	ctrl := table.NewController[randomuser.User](store, client)
	defer ctrl.Close()

	ctx := context.Background()
	require.Equal(t, table.OutcomeAccepted, ctrl.Complete(ctrl.Start().Do(ctx)))
	assert.Len(t, ctrl.Records(), 8)
	assert.Equal(t, 30, ctrl.Pagination().Total)
	assert.Equal(t, 4, ctrl.Pagination().PageCount())

	req, err := ctrl.UpdateFilter(state.FilterSpec{randomuser.ColumnGender: {"female"}})
	require.NoError(t, err)
	require.NotNil(t, req)
	require.Equal(t, table.OutcomeAccepted, ctrl.Complete(req.Do(ctx)))
	for _, u := range ctrl.Records() {
		assert.Equal(t, "female", u.Gender)
	}
	assert.Less(t, ctrl.Pagination().Total, 30)
}
