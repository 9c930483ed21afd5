package directory

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/Masterminds/squirrel"
	"github.com/pressly/goose/v3"
	// Register modernc SQLite driver with database/sql.
	_ "modernc.org/sqlite"

	"github.com/five82/roster/internal/randomuser"
	"github.com/five82/roster/internal/state"
	"github.com/five82/roster/internal/table"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

var gooseInitMu sync.Mutex

// ErrUnknownColumn is returned for sort or filter columns the store cannot serve.
var ErrUnknownColumn = errors.New("unknown column")

var userColumns = []string{
	"uuid", "username", "title", "first", "last", "gender",
	"email", "phone", "nat", "thumbnail", "registered",
}

// sortColumns maps sortable API columns onto ORDER BY terms.
var sortColumns = map[string][]string{
	randomuser.ColumnName:   {"last", "first"},
	randomuser.ColumnGender: {"gender"},
	randomuser.ColumnEmail:  {"email"},
	randomuser.ColumnPhone:  {"phone"},
	randomuser.ColumnNat:    {"nat"},
}

// filterColumns lists filterable API columns and how values are normalised.
var filterColumns = map[string]func(string) string{
	randomuser.ColumnGender: strings.ToLower,
	randomuser.ColumnNat:    strings.ToUpper,
}

// Store is the SQLite-backed user directory.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at path and applies migrations.
func Open(ctx context.Context, path string) (*Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("sqlite: database path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("sqlite: create database dir: %w", err)
	}
	db, err := sql.Open("sqlite", buildDSN(path))
	if err != nil {
		return nil, fmt.Errorf("sqlite: open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite: ping database: %w", err)
	}
	if err := applyMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

// buildDSN applies pragmas on every pooled connection.
func buildDSN(path string) string {
	return "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
}

func applyMigrations(ctx context.Context, db *sql.DB) error {
	gooseInitMu.Lock()
	defer func() {
		goose.SetBaseFS(nil)
		gooseInitMu.Unlock()
	}()
	goose.SetBaseFS(migrationsFS)
	goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("sqlite: set goose dialect: %w", err)
	}
	if err := goose.UpContext(ctx, db, "migrations"); err != nil {
		return fmt.Errorf("sqlite: apply migrations: %w", err)
	}
	return nil
}

// Close releases the database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Ping checks the database connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Count returns the number of stored users.
func (s *Store) Count(ctx context.Context) (int, error) {
	return s.count(ctx, squirrel.Select("COUNT(*)").From("users"))
}

// Insert stores users in a single transaction, replacing rows with the same uuid.
func (s *Store) Insert(ctx context.Context, users []randomuser.User) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin insert: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, u := range users {
		query, args, err := squirrel.Insert("users").
			Options("OR REPLACE").
			Columns(userColumns...).
			Values(
				u.Login.UUID, u.Login.Username, u.Name.Title, u.Name.First, u.Name.Last,
				u.Gender, u.Email, u.Phone, u.Nat, u.Picture.Thumbnail, u.Registered.Date,
			).
			ToSql()
		if err != nil {
			return fmt.Errorf("build insert: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("insert user %s: %w", u.Login.UUID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit insert: %w", err)
	}
	return nil
}

// List returns one page of users matching q together with the total number of
// matches.
func (s *Store) List(ctx context.Context, q table.Query) ([]randomuser.User, int, error) {
	if q.Page < 1 || q.PageSize < 1 {
		return nil, 0, fmt.Errorf("%w: page %d size %d", state.ErrInvalidQueryState, q.Page, q.PageSize)
	}
	where, err := filterClause(q.Filters)
	if err != nil {
		return nil, 0, err
	}
	orderBy, err := orderClause(q.Sort)
	if err != nil {
		return nil, 0, err
	}

	countQuery := squirrel.Select("COUNT(*)").From("users")
	selectQuery := squirrel.Select(userColumns...).From("users")
	if where != nil {
		countQuery = countQuery.Where(where)
		selectQuery = selectQuery.Where(where)
	}
	total, err := s.count(ctx, countQuery)
	if err != nil {
		return nil, 0, err
	}

	query, args, err := selectQuery.
		OrderBy(orderBy...).
		Limit(uint64(q.PageSize)).
		Offset(uint64((q.Page - 1) * q.PageSize)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list query: %w", err)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	users := make([]randomuser.User, 0, q.PageSize)
	for rows.Next() {
		var u randomuser.User
		if err := rows.Scan(
			&u.Login.UUID, &u.Login.Username, &u.Name.Title, &u.Name.First, &u.Name.Last,
			&u.Gender, &u.Email, &u.Phone, &u.Nat, &u.Picture.Thumbnail, &u.Registered.Date,
		); err != nil {
			return nil, 0, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate users: %w", err)
	}
	return users, total, nil
}

func (s *Store) count(ctx context.Context, builder squirrel.SelectBuilder) (int, error) {
	query, args, err := builder.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count query: %w", err)
	}
	var n int
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return n, nil
}

func filterClause(filters map[string][]string) (squirrel.Sqlizer, error) {
	if len(filters) == 0 {
		return nil, nil
	}
	and := squirrel.And{}
	for column, values := range filters {
		normalise, ok := filterColumns[column]
		if !ok {
			return nil, fmt.Errorf("%w: filter %q", ErrUnknownColumn, column)
		}
		if len(values) == 0 {
			continue
		}
		in := make([]string, 0, len(values))
		for _, v := range values {
			in = append(in, normalise(strings.TrimSpace(v)))
		}
		and = append(and, squirrel.Eq{column: in})
	}
	if len(and) == 0 {
		return nil, nil
	}
	return and, nil
}

func orderClause(sort []table.SortField) ([]string, error) {
	terms := make([]string, 0, len(sort)+1)
	for _, key := range sort {
		columns, ok := sortColumns[key.Field]
		if !ok {
			return nil, fmt.Errorf("%w: sort %q", ErrUnknownColumn, key.Field)
		}
		dir := "ASC"
		if key.Direction == state.Descending {
			dir = "DESC"
		}
		for _, c := range columns {
			terms = append(terms, c+" COLLATE NOCASE "+dir)
		}
	}
	// Stable paging across equal sort keys.
	return append(terms, "uuid ASC"), nil
}
