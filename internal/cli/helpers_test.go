package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

type cliRun struct {
	stdout string
	stderr string
	code   int
}

// runCLI executes the CLI with args and captures both streams.
func runCLI(t *testing.T, args ...string) cliRun {
	t.Helper()
	var out, errOut bytes.Buffer
	code := Execute(context.Background(), args, &out, &errOut)
	return cliRun{stdout: out.String(), stderr: errOut.String(), code: code}
}

// sqliteFlags points the CLI at a fresh SQLite file with a fixed seed.
func sqliteFlags(t *testing.T) []string {
	t.Helper()
	db := filepath.Join(t.TempDir(), "luminal.db")
	return []string{"--backend", "sqlite", "--db", db, "--seed", "7", "--player", "Ada"}
}

// with appends the shared flags to a command line.
func with(flags []string, args ...string) []string {
	return append(args, flags...)
}

// decodeData parses a JSON success response into v.
func decodeData(t *testing.T, stdout string, v any) {
	t.Helper()
	var resp struct {
		Status string          `json:"status"`
		Data   json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp), "stdout: %s", stdout)
	require.Equal(t, "ok", resp.Status)
	require.NoError(t, json.Unmarshal(resp.Data, v))
}
