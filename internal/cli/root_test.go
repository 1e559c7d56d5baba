package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "luminal", cmd.Use)
	assert.Contains(t, cmd.Long, "path puzzles")
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	commands := [][]string{
		{"generate"}, {"catalog"}, {"play"}, {"test"}, {"progress"},
		{"leaderboard"}, {"themes"}, {"themes", "list"}, {"themes", "buy"},
		{"themes", "select"}, {"daily"}, {"reset"},
	}

	for _, path := range commands {
		name := path[len(path)-1]
		t.Run(name, func(t *testing.T) {
			subCmd, _, err := cmd.Find(path)
			require.NoError(t, err, "command %v should exist", path)
			require.NotNil(t, subCmd)
			assert.Equal(t, name, subCmd.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand()

	verboseFlag := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verboseFlag)
	assert.Equal(t, "v", verboseFlag.Shorthand)
	assert.Equal(t, "false", verboseFlag.DefValue)

	formatFlag := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, formatFlag)
	assert.Equal(t, "text", formatFlag.DefValue)

	for _, name := range []string{"db", "backend", "player"} {
		flag := cmd.PersistentFlags().Lookup(name)
		require.NotNil(t, flag, name)
		assert.Equal(t, "", flag.DefValue, "%s defaults to the environment", name)
	}
	seedFlag := cmd.PersistentFlags().Lookup("seed")
	require.NotNil(t, seedFlag)
	assert.Equal(t, "0", seedFlag.DefValue)
}

func TestPlayCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	playCmd, _, err := cmd.Find([]string{"play"})
	require.NoError(t, err)

	assert.NotNil(t, playCmd.Flags().Lookup("daily"))
	assert.NotNil(t, playCmd.Flags().Lookup("taps"))
	assert.NotNil(t, playCmd.Flags().Lookup("metrics-file"))

	duration := playCmd.Flags().Lookup("duration")
	require.NotNil(t, duration)
	assert.Equal(t, "20s", duration.DefValue)
}

func TestExecute_CommandErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"invalid format", []string{"catalog", "--format", "yaml"}, "invalid format"},
		{"unknown command", []string{"fly"}, "unknown command"},
		{"unknown backend", []string{"catalog", "--backend", "postgres"}, "unknown backend"},
		{"extra argument", []string{"catalog", "extra"}, "unknown command"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := runCLI(t, tt.args...)
			assert.Equal(t, ExitCommandError, res.code)
			assert.Contains(t, res.stderr, "Error [E_COMMAND]")
			assert.Contains(t, res.stderr, tt.want)
		})
	}
}

func TestExecute_JSONErrorResponse(t *testing.T) {
	res := runCLI(t, with(sqliteFlags(t), "play", "99", "--format", "json")...)
	require.Equal(t, ExitCommandError, res.code)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, CodeCommandError, resp.Error.Code)
	assert.Contains(t, resp.Error.Message, "level 99 does not exist")
}

type brokenWriter struct{}

func (brokenWriter) Write([]byte) (int, error) { return 0, errors.New("broken pipe") }

func TestExecute_ErrorFallsBackToStderr(t *testing.T) {
	var errOut bytes.Buffer
	args := with(sqliteFlags(t), "play", "99", "--format", "json")
	code := Execute(context.Background(), args, brokenWriter{}, &errOut)

	assert.Equal(t, ExitCommandError, code)
	assert.Contains(t, errOut.String(), "level 99 does not exist")
}

func TestExecute_BackendsShareBehaviour(t *testing.T) {
	t.Setenv("LUMINAL_BADGER_DIR", filepath.Join(t.TempDir(), "badger"))

	for _, backend := range []string{"sqlite", "badger", "memory"} {
		t.Run(backend, func(t *testing.T) {
			args := []string{
				"catalog", "--format", "json", "--seed", "7",
				"--backend", backend, "--db", filepath.Join(t.TempDir(), "luminal.db"),
			}
			res := runCLI(t, args...)
			require.Equal(t, ExitSuccess, res.code, res.stderr)

			var catalog CatalogResult
			decodeData(t, res.stdout, &catalog)
			assert.Len(t, catalog.Levels, 20)
		})
	}
}
