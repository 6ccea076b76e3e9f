package postgres

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type execCall struct {
	sql  string
	args []any
}

type fakeRow struct {
	value string
	err   error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	*(dest[0].(*string)) = r.value
	return nil
}

type fakeDB struct {
	execs   []execCall
	execErr error
	row     fakeRow
	queries []execCall
}

func (f *fakeDB) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	f.execs = append(f.execs, execCall{sql: sql, args: args})
	return pgconn.NewCommandTag("OK"), f.execErr
}

func (f *fakeDB) QueryRow(_ context.Context, sql string, args ...any) pgx.Row {
	f.queries = append(f.queries, execCall{sql: sql, args: args})
	return f.row
}

func TestPreferenceRepository_Load(t *testing.T) {
	db := &fakeDB{row: fakeRow{value: "49503"}}
	repo := &PreferenceRepository{db: db}

	zip, ok, err := repo.Load(context.Background(), "v1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "49503", zip)
	require.Len(t, db.queries, 1)
	assert.Equal(t, []any{"v1"}, db.queries[0].args)
}

func TestPreferenceRepository_LoadMissing(t *testing.T) {
	repo := &PreferenceRepository{db: &fakeDB{row: fakeRow{err: pgx.ErrNoRows}}}

	_, ok, err := repo.Load(context.Background(), "v1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPreferenceRepository_LoadError(t *testing.T) {
	boom := errors.New("conn reset")
	repo := &PreferenceRepository{db: &fakeDB{row: fakeRow{err: boom}}}

	_, _, err := repo.Load(context.Background(), "v1")
	require.ErrorIs(t, err, boom)
}

func TestPreferenceRepository_SaveUpserts(t *testing.T) {
	db := &fakeDB{}
	repo := &PreferenceRepository{db: db}

	require.NoError(t, repo.Save(context.Background(), "v1", "49503"))
	require.Len(t, db.execs, 1)
	assert.True(t, strings.Contains(db.execs[0].sql, "ON CONFLICT (visitor_id) DO UPDATE"))
	assert.Equal(t, []any{"v1", "49503"}, db.execs[0].args)
}

func TestPreferenceRepository_Delete(t *testing.T) {
	db := &fakeDB{}
	repo := &PreferenceRepository{db: db}

	require.NoError(t, repo.Delete(context.Background(), "v1"))
	require.Len(t, db.execs, 1)
	assert.Contains(t, db.execs[0].sql, "DELETE FROM user_preferences")
}

func TestPreferenceRepository_ExecErrorWrapped(t *testing.T) {
	boom := errors.New("read-only transaction")
	repo := &PreferenceRepository{db: &fakeDB{execErr: boom}}

	err := repo.Save(context.Background(), "v1", "49503")
	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "upsert preference")

	err = repo.EnsureSchema(context.Background())
	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "create user_preferences")
}
