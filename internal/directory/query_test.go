package directory

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/roster/internal/randomuser"
	"github.com/five82/roster/internal/state"
	"github.com/five82/roster/internal/table"
)

func TestParseQuery_Defaults(t *testing.T) {
	q, err := ParseQuery(url.Values{})
	require.NoError(t, err)
	assert.Equal(t, table.Query{Page: 1, PageSize: defaultResults}, q)
}

func TestParseQuery_RoundTripsClientEncoding(t *testing.T) {
	want := table.Query{
		Page:     3,
		PageSize: 20,
		Sort: []table.SortField{
			{Field: "email", Direction: state.Descending},
			{Field: "name", Direction: state.Ascending},
		},
		Filters: map[string][]string{"gender": {"female", "male"}, "nat": {"GB"}},
	}
	got, err := ParseQuery(randomuser.EncodeQuery(want, "roster"))
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestParseQuery_WidgetStyleParameters(t *testing.T) {
	values := url.Values{
		"results":   {"8"},
		"page":      {"2"},
		"sortField": {"name"},
		"sortOrder": {"descend"},
		"gender":    {"male, female"},
	}
	q, err := ParseQuery(values)
	require.NoError(t, err)
	assert.Equal(t, []table.SortField{{Field: "name", Direction: state.Descending}}, q.Sort)
	assert.Equal(t, map[string][]string{"gender": {"female", "male"}}, q.Filters)
}

func TestParseQuery_Errors(t *testing.T) {
	cases := map[string]url.Values{
		"zero results":   {"results": {"0"}},
		"huge results":   {"results": {"5001"}},
		"bad page":       {"page": {"first"}},
		"unknown sort":   {"sort": {"salary:asc"}},
		"bad direction":  {"sort": {"name:sideways"}},
		"unknown filter": {"filters[email]": {"x"}},
		"malformed":      {"filters[gender": {"x"}},
	}
	for name, values := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseQuery(values)
			assert.Error(t, err)
		})
	}
}
