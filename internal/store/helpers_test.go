package store

import (
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/luminal/internal/puzzle"
	"github.com/roach88/luminal/internal/testutil"
)

// backendFactories opens every backend kind, each cleaned up with t.
var backendFactories = map[string]func(t *testing.T) Backend{
	"sqlite": func(t *testing.T) Backend {
		b, err := OpenSQLite(filepath.Join(t.TempDir(), "luminal.db"))
		require.NoError(t, err)
		return b
	},
	"badger": func(t *testing.T) Backend {
		b, err := OpenBadger(InMemoryBadgerConfig())
		require.NoError(t, err)
		return b
	},
	"memory": func(t *testing.T) Backend {
		return NewMemory()
	},
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// createTestStore wraps backend with deterministic options.
func createTestStore(t *testing.T, backend Backend) (*Store, *testutil.ManualClock) {
	t.Helper()
	clock := testutil.NewManualClock(testutil.Epoch)
	s := New(backend,
		WithNow(clock.Now),
		WithIDs(testutil.NewSequentialIDs("entry")),
		WithGenerator(puzzle.NewSeededGenerator(7)),
		WithLogger(discardLogger()),
	)
	t.Cleanup(func() { s.Close() })
	return s, clock
}

// forEachBackend runs fn against a fresh store on every backend.
func forEachBackend(t *testing.T, fn func(t *testing.T, s *Store, clock *testutil.ManualClock)) {
	for name, open := range backendFactories {
		t.Run(name, func(t *testing.T) {
			s, clock := createTestStore(t, open(t))
			fn(t, s, clock)
		})
	}
}
