package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/luminal/internal/config"
	"github.com/roach88/luminal/internal/puzzle"
	"github.com/roach88/luminal/internal/store"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
	Format  string // "json" | "text"

	// Overrides for the LUMINAL_* environment. Zero values keep the
	// environment setting.
	DBPath  string
	Backend string
	Seed    int64
	Player  string

	// Now is the wall clock. Tests pin it; nil means time.Now.
	Now func() time.Time
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the luminal CLI.
func NewRootCommand() *cobra.Command {
	return newRootCommand(&RootOptions{})
}

func newRootCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "luminal",
		Short: "Luminal - dimensional path puzzles",
		Long: `Luminal generates layered node graphs and plays them as path puzzles.

Players tap a route from the start node to the goal, building combos on
checkpoints and powerups while obstacles wipe the score. Results unlock
campaign levels and pay coins for themes.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return NewExitError(ExitCommandError, fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			return nil
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.DBPath, "db", "", "SQLite database path (overrides LUMINAL_DB_PATH)")
	cmd.PersistentFlags().StringVar(&opts.Backend, "backend", "", "store backend: sqlite, badger or memory (overrides LUMINAL_BACKEND)")
	cmd.PersistentFlags().Int64Var(&opts.Seed, "seed", 0, "generator seed (overrides LUMINAL_SEED; 0 draws one)")
	cmd.PersistentFlags().StringVar(&opts.Player, "player", "", "leaderboard name (overrides LUMINAL_PLAYER_NAME)")

	// Add subcommands
	cmd.AddCommand(NewGenerateCommand(opts))
	cmd.AddCommand(NewCatalogCommand(opts))
	cmd.AddCommand(NewPlayCommand(opts))
	cmd.AddCommand(NewTestCommand(opts))
	cmd.AddCommand(NewProgressCommand(opts))
	cmd.AddCommand(NewLeaderboardCommand(opts))
	cmd.AddCommand(NewThemesCommand(opts))
	cmd.AddCommand(NewDailyCommand(opts))
	cmd.AddCommand(NewResetCommand(opts))

	return cmd
}

// Execute runs the CLI and returns the process exit code. Errors are
// reported on stderr, or as a JSON error response on stdout with
// --format json.
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	opts := &RootOptions{}
	cmd := newRootCommand(opts)
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return ExitSuccess
	}

	// Errors that are not ExitErrors come from cobra itself: unknown
	// commands, bad flags, wrong argument counts.
	code := ExitCommandError
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		code = exitErr.Code
		if exitErr.reported {
			return code
		}
	}
	out := &OutputFormatter{Format: opts.Format, Writer: stdout, ErrWriter: stderr, Verbose: opts.Verbose}
	if out.Format != "json" {
		out.Format = "text"
	}
	if werr := out.Error(errorCode(code), err.Error(), nil); werr != nil {
		fmt.Fprintln(stderr, err)
	}
	return code
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	return slices.Contains(ValidFormats, format)
}

// now returns the configured wall clock.
func (o *RootOptions) now() time.Time {
	if o.Now != nil {
		return o.Now()
	}
	return time.Now()
}

// formatter builds the output formatter for cmd.
func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    o.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   o.Verbose,
	}
}

// loadConfig reads the environment and applies flag overrides.
func (o *RootOptions) loadConfig() (config.Config, error) {
	var cfg config.Config
	if err := config.ParseEnv(&cfg); err != nil {
		return config.Config{}, WrapExitError(ExitCommandError, "failed to load configuration", err)
	}
	if o.DBPath != "" {
		cfg.DBPath = o.DBPath
	}
	if o.Backend != "" {
		cfg.Backend = config.Backend(o.Backend)
	}
	if o.Seed != 0 {
		cfg.Seed = o.Seed
	}
	if o.Player != "" {
		cfg.PlayerName = o.Player
	}
	if o.Verbose {
		cfg.LogLevel = slog.LevelDebug
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, WrapExitError(ExitCommandError, "invalid configuration", err)
	}
	return cfg, nil
}

// env is what a command gets after global setup: configuration, a logger
// on stderr, the seeded generator and the output formatter.
type env struct {
	cfg    config.Config
	logger *slog.Logger
	gen    *puzzle.Generator
	out    *OutputFormatter
	seed   int64
}

func (o *RootOptions) setup(cmd *cobra.Command) (*env, error) {
	cfg, err := o.loadConfig()
	if err != nil {
		return nil, err
	}
	seed, err := cfg.ResolveSeed()
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to seed generator", err)
	}

	handler := slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
		Level: cfg.LogLevel,
	})
	logger := slog.New(handler)
	logger.Debug("configuration loaded", "backend", cfg.Backend, "seed", seed)

	return &env{
		cfg:    cfg,
		logger: logger,
		gen:    puzzle.NewSeededGenerator(seed),
		out:    o.formatter(cmd),
		seed:   seed,
	}, nil
}

// openStore sets up the environment and opens the configured store. The
// caller closes the store.
func (o *RootOptions) openStore(cmd *cobra.Command) (*env, *store.Store, error) {
	e, err := o.setup(cmd)
	if err != nil {
		return nil, nil, err
	}
	backend, err := e.cfg.OpenBackend(e.logger)
	if err != nil {
		return nil, nil, WrapExitError(ExitCommandError, "failed to open store", err)
	}
	e.logger.Debug("store opened", "backend", e.cfg.Backend)

	st := store.New(backend,
		store.WithGenerator(e.gen),
		store.WithLogger(e.logger),
		store.WithNow(o.now),
	)
	return e, st, nil
}

// closeStore closes st and logs a failure.
func (e *env) closeStore(st *store.Store) {
	if err := st.Close(); err != nil {
		e.logger.Error("error closing store", "error", err)
	}
}
