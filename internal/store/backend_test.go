package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBackend_Contract(t *testing.T) {
	ctx := context.Background()
	for name, open := range backendFactories {
		t.Run(name, func(t *testing.T) {
			b := open(t)
			defer b.Close()

			_, err := b.Get(ctx, "missing")
			assert.ErrorIs(t, err, ErrNotFound)

			require.NoError(t, b.Put(ctx, "k", []byte(`{"a":1}`)))
			got, err := b.Get(ctx, "k")
			require.NoError(t, err)
			assert.Equal(t, `{"a":1}`, string(got))

			require.NoError(t, b.Put(ctx, "k", []byte(`2`)))
			got, err = b.Get(ctx, "k")
			require.NoError(t, err)
			assert.Equal(t, `2`, string(got))

			require.NoError(t, b.Delete(ctx, "k"))
			_, err = b.Get(ctx, "k")
			assert.ErrorIs(t, err, ErrNotFound)

			require.NoError(t, b.Delete(ctx, "never-written"))
		})
	}
}

func TestMemory_CopiesValues(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	v := []byte("abc")
	require.NoError(t, m.Put(ctx, "k", v))
	v[0] = 'x'

	got, err := m.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(got))
}

func TestOpenSQLite_CreatesNewDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	s, err := OpenSQLite(path)
	require.NoError(t, err)
	defer s.Close()

	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestOpenSQLite_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "test.db")

	for i := 0; i < 3; i++ {
		s, err := OpenSQLite(path)
		require.NoError(t, err, "open iteration %d", i)
		if i == 0 {
			require.NoError(t, s.Put(ctx, "coins", []byte("42")))
		}
		require.NoError(t, s.Close())
	}

	s, err := OpenSQLite(path)
	require.NoError(t, err)
	defer s.Close()

	got, err := s.Get(ctx, "coins")
	require.NoError(t, err)
	assert.Equal(t, "42", string(got))

	var version int
	require.NoError(t, s.db.QueryRow("PRAGMA user_version").Scan(&version))
	assert.Equal(t, currentSchemaVersion, version)

	var updated int64
	require.NoError(t, s.db.QueryRow("SELECT updated_at FROM kv WHERE key = 'coins'").Scan(&updated))
	assert.Positive(t, updated)
}

func TestOpenSQLite_Pragmas(t *testing.T) {
	s, err := OpenSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	defer s.Close()

	assert.NoError(t, s.verifyPragma("journal_mode", "wal"))
	assert.NoError(t, s.verifyPragma("synchronous", "1"))
	assert.NoError(t, s.verifyPragma("busy_timeout", "5000"))
}

func TestOpenBadger_Persistent(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "badger")

	cfg := DefaultBadgerConfig(dir)
	b, err := OpenBadger(cfg)
	require.NoError(t, err)
	require.NoError(t, b.Put(ctx, "progress", []byte(`{}`)))
	require.NoError(t, b.Close())

	b, err = OpenBadger(cfg)
	require.NoError(t, err)
	defer b.Close()
	got, err := b.Get(ctx, "progress")
	require.NoError(t, err)
	assert.Equal(t, `{}`, string(got))
}

func TestOpenBadger_RequiresDir(t *testing.T) {
	_, err := OpenBadger(BadgerConfig{})
	assert.Error(t, err)
}
