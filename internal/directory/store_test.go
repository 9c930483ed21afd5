package directory

import (
	"context"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/roster/internal/randomuser"
	"github.com/five82/roster/internal/state"
	"github.com/five82/roster/internal/table"
)

func openSeeded(t *testing.T, n int) *Store {
	t.Helper()
	ctx := context.Background()
	store, err := Open(ctx, filepath.Join(t.TempDir(), "directory.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	inserted, err := store.SeedIfEmpty(ctx, "test", n)
	require.NoError(t, err)
	require.Equal(t, n, inserted)
	return store
}

func TestGenerate_Deterministic(t *testing.T) {
	a := Generate("roster", 20)
	b := Generate("roster", 20)
	c := Generate("other", 20)

	require.Len(t, a, 20)
	assert.Equal(t, a, b)
	assert.NotEqual(t, a[0].Login.UUID, c[0].Login.UUID)
	assert.Nil(t, Generate("roster", 0))

	ids := map[string]bool{}
	for _, u := range a {
		ids[u.Login.UUID] = true
		assert.Contains(t, []string{"male", "female"}, u.Gender)
		assert.Contains(t, u.Email, "@example.com")
	}
	assert.Len(t, ids, 20)
}

func TestStore_SeedIfEmptyOnlyOnce(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "directory.db")

	store, err := Open(ctx, path)
	require.NoError(t, err)
	n, err := store.SeedIfEmpty(ctx, "test", 30)
	require.NoError(t, err)
	assert.Equal(t, 30, n)
	require.NoError(t, store.Close())

	// Reopening re-runs migrations without touching the data.
	store, err = Open(ctx, path)
	require.NoError(t, err)
	defer store.Close()
	n, err = store.SeedIfEmpty(ctx, "test", 30)
	require.NoError(t, err)
	assert.Zero(t, n)

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 30, count)
}

func TestStore_ListPages(t *testing.T) {
	store := openSeeded(t, 50)
	ctx := context.Background()

	var seen []string
	for page := 1; page <= 7; page++ {
		users, total, err := store.List(ctx, table.Query{Page: page, PageSize: 8})
		require.NoError(t, err)
		assert.Equal(t, 50, total)
		if page < 7 {
			assert.Len(t, users, 8)
		} else {
			assert.Len(t, users, 2)
		}
		for _, u := range users {
			seen = append(seen, u.RowKey())
		}
	}
	slices.Sort(seen)
	assert.Len(t, slices.Compact(seen), 50, "pages must not overlap")

	users, total, err := store.List(ctx, table.Query{Page: 10, PageSize: 8})
	require.NoError(t, err)
	assert.Equal(t, 50, total)
	assert.Empty(t, users)
}

func TestStore_ListSortsByName(t *testing.T) {
	store := openSeeded(t, 40)
	ctx := context.Background()

	users, _, err := store.List(ctx, table.Query{
		Page:     1,
		PageSize: 40,
		Sort:     []table.SortField{{Field: randomuser.ColumnName, Direction: state.Descending}},
	})
	require.NoError(t, err)
	require.Len(t, users, 40)
	for i := 1; i < len(users); i++ {
		prev, cur := users[i-1].Name, users[i].Name
		prevKey := strings.ToLower(prev.Last + "\x00" + prev.First)
		curKey := strings.ToLower(cur.Last + "\x00" + cur.First)
		assert.GreaterOrEqual(t, prevKey, curKey, "row %d out of order", i)
	}
}

func TestStore_ListFilters(t *testing.T) {
	store := openSeeded(t, 60)
	ctx := context.Background()

	all, _, err := store.List(ctx, table.Query{Page: 1, PageSize: 60})
	require.NoError(t, err)
	wantFemale := 0
	for _, u := range all {
		if u.Gender == "female" {
			wantFemale++
		}
	}

	users, total, err := store.List(ctx, table.Query{
		Page:     1,
		PageSize: 60,
		Filters:  map[string][]string{randomuser.ColumnGender: {"FEMALE"}},
	})
	require.NoError(t, err)
	assert.Equal(t, wantFemale, total)
	for _, u := range users {
		assert.Equal(t, "female", u.Gender)
	}

	nat := all[0].Nat
	users, _, err = store.List(ctx, table.Query{
		Page:     1,
		PageSize: 60,
		Filters:  map[string][]string{randomuser.ColumnNat: {strings.ToLower(nat)}},
	})
	require.NoError(t, err)
	require.NotEmpty(t, users)
	for _, u := range users {
		assert.Equal(t, nat, u.Nat)
	}
}

func TestStore_ListRejectsUnknownColumns(t *testing.T) {
	store := openSeeded(t, 5)
	ctx := context.Background()

	_, _, err := store.List(ctx, table.Query{Page: 1, PageSize: 5, Sort: []table.SortField{{Field: "salary", Direction: state.Ascending}}})
	assert.ErrorIs(t, err, ErrUnknownColumn)

	_, _, err = store.List(ctx, table.Query{Page: 1, PageSize: 5, Filters: map[string][]string{"email": {"x"}}})
	assert.ErrorIs(t, err, ErrUnknownColumn)

	_, _, err = store.List(ctx, table.Query{Page: 0, PageSize: 5})
	assert.ErrorIs(t, err, state.ErrInvalidQueryState)
}
