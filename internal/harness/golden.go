package harness

import (
	"encoding/json"
	"testing"

	"github.com/sebdah/goldie/v2"
)

// TraceSnapshot is the golden-file form of a run.
type TraceSnapshot struct {
	ScriptName   string          `json:"script_name"`
	Trace        []TraceEvent    `json:"trace"`
	Outcome      *OutcomeSummary `json:"outcome,omitempty"`
	InvalidMoves int             `json:"invalid_moves"`
}

// Snapshot renders the canonical golden bytes for a result: indented JSON
// with a trailing newline.
func Snapshot(name string, result *Result) ([]byte, error) {
	data, err := json.MarshalIndent(TraceSnapshot{
		ScriptName:   name,
		Trace:        result.Trace,
		Outcome:      result.Outcome,
		InvalidMoves: result.InvalidMoves,
	}, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// RunWithGolden executes a script and compares the trace against a golden
// file stored in testdata/golden/{script.Name}.golden
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
func RunWithGolden(t *testing.T, script *Script) (*Result, error) {
	t.Helper()

	result, err := Run(script)
	if err != nil {
		return nil, err
	}
	if err := AssertGolden(t, script.Name, result); err != nil {
		return nil, err
	}
	return result, nil
}

// AssertGolden compares an existing result against its golden file.
func AssertGolden(t *testing.T, name string, result *Result) error {
	t.Helper()

	data, err := Snapshot(name, result)
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, data)
	return nil
}
