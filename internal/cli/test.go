package cli

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/luminal/internal/harness"
)

// TestOptions holds flags for the test command.
type TestOptions struct {
	*RootOptions
	Update bool   // regenerate golden files
	Filter string // script filter (glob pattern)
}

// ScriptResult holds the result of a single script execution.
type ScriptResult struct {
	Name   string   `json:"name"`
	Pass   bool     `json:"pass"`
	Errors []string `json:"errors,omitempty"`
}

// TestResult holds the overall test result.
type TestResult struct {
	Scripts []ScriptResult `json:"scripts"`
	Passed  int            `json:"passed"`
	Failed  int            `json:"failed"`
	Total   int            `json:"total"`
}

// NewTestCommand creates the test command.
func NewTestCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TestOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "test <scripts-dir>",
		Short: "Run play scripts",
		Long: `Run YAML play scripts against the traversal engine.

Each script builds a level, feeds its steps to a fresh engine on a manual
clock and checks the expected end state. When golden/<name>.golden exists
next to the script, the event trace must match it byte for byte.

Exit codes:
  0 - All scripts passed
  1 - One or more scripts failed
  2 - Command error (invalid paths, etc.)

Examples:
  luminal test ./scripts
  luminal test ./scripts --filter "combo_*"
  luminal test ./scripts --update
  luminal test ./scripts --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTests(opts, args[0], cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Update, "update", false, "regenerate golden files")
	cmd.Flags().StringVar(&opts.Filter, "filter", "", "filter scripts by glob pattern")

	return cmd
}

func runTests(opts *TestOptions, scriptsDir string, cmd *cobra.Command) error {
	if _, err := os.Stat(scriptsDir); os.IsNotExist(err) {
		return NewExitError(ExitCommandError, fmt.Sprintf("scripts directory not found: %s", scriptsDir))
	}

	files, err := findScriptFiles(scriptsDir, opts.Filter)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to find scripts", err)
	}

	out := opts.formatter(cmd)
	result := TestResult{
		Scripts: make([]ScriptResult, 0, len(files)),
		Total:   len(files),
	}
	if len(files) == 0 {
		if opts.Format == "json" {
			return out.Success(result)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "No scripts found.")
		return nil
	}

	for _, file := range files {
		sr := runScript(file, opts, cmd)
		result.Scripts = append(result.Scripts, sr)
		if sr.Pass {
			result.Passed++
		} else {
			result.Failed++
		}
	}

	if opts.Format == "json" {
		if result.Failed > 0 {
			if err := out.Error(CodeTestFailed, fmt.Sprintf("%d script(s) failed", result.Failed), result); err != nil {
				return err
			}
			return &ExitError{Code: ExitFailure, Message: fmt.Sprintf("%d script(s) failed", result.Failed), reported: true}
		}
		return out.Success(result)
	}
	return outputTestText(cmd, result)
}

// findScriptFiles finds all YAML script files in a directory. The golden
// directory is skipped.
func findScriptFiles(dir, filter string) ([]string, error) {
	var files []string

	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			if path != dir && info.Name() == "golden" {
				return filepath.SkipDir
			}
			return nil
		}

		ext := filepath.Ext(path)
		if ext != ".yaml" && ext != ".yml" {
			return nil
		}

		if filter != "" {
			name := strings.TrimSuffix(filepath.Base(path), ext)
			matched, err := filepath.Match(filter, name)
			if err != nil {
				return fmt.Errorf("invalid filter pattern: %w", err)
			}
			if !matched {
				return nil
			}
		}

		files = append(files, path)
		return nil
	})

	return files, err
}

// runScript executes a single script and returns the result.
func runScript(file string, opts *TestOptions, cmd *cobra.Command) ScriptResult {
	w := cmd.OutOrStdout()
	if opts.Format == "json" {
		w = io.Discard
	}
	fail := func(name string, errs ...string) ScriptResult {
		fmt.Fprintf(w, "✗ %s\n", name)
		for _, e := range errs {
			fmt.Fprintf(w, "  %s\n", e)
		}
		return ScriptResult{Name: name, Pass: false, Errors: errs}
	}

	script, err := harness.LoadScript(file)
	if err != nil {
		return fail(filepath.Base(file), fmt.Sprintf("load error: %v", err))
	}

	result, err := harness.Run(script)
	if err != nil {
		return fail(script.Name, fmt.Sprintf("execution error: %v", err))
	}

	snapshot, err := harness.Snapshot(script.Name, result)
	if err != nil {
		return fail(script.Name, fmt.Sprintf("snapshot error: %v", err))
	}

	goldenPath := goldenFilePath(file)
	if opts.Update {
		if err := writeGoldenFile(goldenPath, snapshot); err != nil {
			return fail(script.Name, fmt.Sprintf("golden update error: %v", err))
		}
		fmt.Fprintf(w, "✓ %s (golden updated)\n", script.Name)
		return ScriptResult{Name: script.Name, Pass: true}
	}

	errs := result.Errors
	golden, err := os.ReadFile(goldenPath)
	switch {
	case os.IsNotExist(err):
		// No golden file: assertions only.
	case err != nil:
		errs = append(errs, fmt.Sprintf("golden read error: %v", err))
	case !bytes.Equal(golden, snapshot):
		errs = append(errs, "trace does not match golden file (run with --update to regenerate)")
	}

	if len(errs) > 0 {
		return fail(script.Name, errs...)
	}
	fmt.Fprintf(w, "✓ %s\n", script.Name)
	return ScriptResult{Name: script.Name, Pass: true}
}

// goldenFilePath returns the path to the golden file for a script.
func goldenFilePath(scriptFile string) string {
	dir := filepath.Dir(scriptFile)
	base := filepath.Base(scriptFile)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(dir, "golden", name+".golden")
}

// writeGoldenFile writes the trace snapshot as the golden file.
func writeGoldenFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create golden directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write golden file: %w", err)
	}
	return nil
}

// outputTestText outputs the test summary as text.
func outputTestText(cmd *cobra.Command, result TestResult) error {
	w := cmd.OutOrStdout()

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Test Summary: %d passed, %d failed, %d total\n", result.Passed, result.Failed, result.Total)

	if result.Failed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d script(s) failed", result.Failed))
	}

	fmt.Fprintln(w, "✓ All scripts passed")
	return nil
}
