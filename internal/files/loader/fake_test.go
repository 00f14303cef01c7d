package loader

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/vvka-141/sparkify/internal/files/filesystem"
	"github.com/vvka-141/sparkify/internal/logging"
	"github.com/vvka-141/sparkify/pkg/sparkify"
)

type execCall struct {
	sql  string
	args []any
}

type lookupKey struct {
	title    string
	artist   string
	duration int64
}

// fakeQuerier records statements and answers song lookups from a fixed catalog.
type fakeQuerier struct {
	execs   []execCall
	catalog map[lookupKey][2]string
	lookups []lookupKey
	failOn  string
}

var _ sparkify.Querier = (*fakeQuerier)(nil)

func newFakeQuerier() *fakeQuerier {
	return &fakeQuerier{catalog: map[lookupKey][2]string{}}
}

func (f *fakeQuerier) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	f.execs = append(f.execs, execCall{sql: sql, args: args})
	if f.failOn != "" && strings.Contains(sql, f.failOn) {
		return pgconn.CommandTag{}, errors.New("duplicate key value violates unique constraint")
	}
	return pgconn.NewCommandTag("INSERT 0 1"), nil
}

func (f *fakeQuerier) QueryRow(_ context.Context, _ string, args ...any) sparkify.Row {
	key := lookupKey{title: args[0].(string), artist: args[1].(string), duration: args[2].(int64)}
	f.lookups = append(f.lookups, key)
	ids, ok := f.catalog[key]
	if !ok {
		return fakeRow{err: pgx.ErrNoRows}
	}
	return fakeRow{values: ids[:]}
}

// execsOf returns the recorded calls of one statement text.
func (f *fakeQuerier) execsOf(sql string) []execCall {
	var out []execCall
	for _, c := range f.execs {
		if c.sql == sql {
			out = append(out, c)
		}
	}
	return out
}

type fakeRow struct {
	values []string
	err    error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	for i, v := range r.values {
		*dest[i].(*pgtype.Text) = pgtype.Text{String: v, Valid: true}
	}
	return nil
}

func newTestFS(files map[string]string) *filesystem.MemoryFileSystem {
	fs := filesystem.NewMemoryFileSystem("/data")
	for p, content := range files {
		fs.AddFile(p, content)
	}
	return fs
}

func nullLogger() sparkify.Logger { return logging.NewNullLogger() }
