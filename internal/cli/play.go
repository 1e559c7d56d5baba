package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/roach88/luminal/internal/engine"
	"github.com/roach88/luminal/internal/game"
	"github.com/roach88/luminal/internal/metrics"
	"github.com/roach88/luminal/internal/progress"
	"github.com/roach88/luminal/internal/puzzle"
	"github.com/roach88/luminal/internal/store"
)

// PlayOptions holds flags for the play command.
type PlayOptions struct {
	*RootOptions
	Daily       bool
	Taps        []string
	Duration    time.Duration
	MetricsFile string
}

// PlayResult is the play command result.
type PlayResult struct {
	Level        int      `json:"level"`
	Title        string   `json:"title"`
	Daily        bool     `json:"daily,omitempty"`
	Result       string   `json:"result"`
	Reason       string   `json:"reason,omitempty"`
	Score        int      `json:"score"`
	Stars        int      `json:"stars"`
	ElapsedMS    int64    `json:"elapsed_ms"`
	Path         []string `json:"path"`
	InvalidMoves int      `json:"invalid_moves"`
	Coins        int      `json:"coins"`
	Balance      int      `json:"balance"`
	Achievements []string `json:"achievements"`
	CurrentLevel int      `json:"current_level"`
}

// NewPlayCommand creates the play command.
func NewPlayCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &PlayOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "play [level]",
		Short: "Play a level with a scripted route",
		Long: `Play a campaign level (or today's daily challenge) by tapping a route.

The route is given with --taps as node ids or node indexes; by default
every node is tapped in board order, which walks the generated backbone
from start to goal. --duration is the simulated play time, spread evenly
between taps. The outcome is settled into progress, coins and the
leaderboard exactly as in a live game.

Without a level argument the player's current level is played.

Exit codes:
  0 - Level finished (victory or defeat)
  1 - Level locked or not finished by the route
  2 - Command error (unknown level, bad route, store errors)

Examples:
  luminal play
  luminal play 3 --duration 45s
  luminal play 1 --taps 0,1,3,4
  luminal play --daily --format json`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlay(opts, args, cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Daily, "daily", false, "play today's daily challenge")
	cmd.Flags().StringSliceVar(&opts.Taps, "taps", nil, "route as node ids or indexes (default: all nodes in order)")
	cmd.Flags().DurationVar(&opts.Duration, "duration", 20*time.Second, "simulated play time")
	cmd.Flags().StringVar(&opts.MetricsFile, "metrics-file", "", "write session metrics in Prometheus text format to this file")

	return cmd
}

func runPlay(opts *PlayOptions, args []string, cmd *cobra.Command) error {
	if opts.Daily && len(args) > 0 {
		return NewExitError(ExitCommandError, "a level number cannot be combined with --daily")
	}
	if opts.Duration < 0 {
		return NewExitError(ExitCommandError, "duration must not be negative")
	}

	e, st, err := opts.openStore(cmd)
	if err != nil {
		return err
	}
	defer e.closeStore(st)
	ctx := cmd.Context()

	var (
		level puzzle.Level
		daily *puzzle.Challenge
	)
	if opts.Daily {
		ch, err := st.DailyChallenge(ctx, opts.now())
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to load daily challenge", err)
		}
		level, err = ch.Level(e.gen)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to build daily level", err)
		}
		daily = &ch
	} else {
		level, err = campaignLevel(cmd, st, args)
		if err != nil {
			return err
		}
	}

	taps, err := resolveTaps(level, opts.Taps)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid route", err)
	}

	reg := prometheus.NewRegistry()
	recorder := metrics.NewRecorder(reg)
	clock := &simClock{now: opts.now()}
	session := game.NewSession(st,
		game.WithEngine(engine.New(
			engine.WithClock(clock),
			engine.WithListener(recorder),
			engine.WithBoardScale(e.cfg.BoardScale),
			engine.WithLogger(e.logger),
		)),
		game.WithUpdater(progress.NewUpdater(
			progress.WithNow(opts.now),
			progress.WithAchievements(st.Achievements()),
		)),
		game.WithMetrics(recorder),
		game.WithPlayer(e.cfg.PlayerName),
		game.WithLogger(e.logger),
	)

	if daily != nil {
		err = session.StartDaily(ctx, *daily, &level)
	} else {
		err = session.Start(ctx, &level)
	}
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to start level", err)
	}

	invalid, err := playRoute(cmd, session, clock, taps, opts.Duration)
	if err != nil {
		session.Abandon()
		return WrapExitError(ExitCommandError, "route failed", err)
	}

	report, ok := session.Report()
	if !ok {
		state := session.Engine().State()
		session.Abandon()
		return NewExitError(ExitFailure, fmt.Sprintf("level %d not finished after %d taps (state %s)", level.Number, len(taps), state))
	}

	if opts.MetricsFile != "" {
		if err := prometheus.WriteToTextfile(opts.MetricsFile, reg); err != nil {
			return WrapExitError(ExitCommandError, "failed to write metrics", err)
		}
		e.out.VerboseLog("metrics written to %s", opts.MetricsFile)
	}

	return e.out.Success(newPlayResult(level, daily != nil, report, invalid, st.Coins(ctx)))
}

// campaignLevel picks the requested or current campaign level and checks
// that it is unlocked.
func campaignLevel(cmd *cobra.Command, st *store.Store, args []string) (puzzle.Level, error) {
	ctx := cmd.Context()
	levels, err := st.LoadCatalog(ctx)
	if err != nil {
		return puzzle.Level{}, WrapExitError(ExitCommandError, "failed to load catalog", err)
	}
	p := st.LoadProgress(ctx)

	number := p.CurrentLevel
	if len(args) == 1 {
		number, err = strconv.Atoi(args[0])
		if err != nil {
			return puzzle.Level{}, NewExitError(ExitCommandError, fmt.Sprintf("invalid level number %q", args[0]))
		}
	}
	level, ok := puzzle.FindLevel(levels, number)
	if !ok {
		return puzzle.Level{}, NewExitError(ExitCommandError, fmt.Sprintf("level %d does not exist", number))
	}
	if !p.IsUnlocked(number) {
		return puzzle.Level{}, NewExitError(ExitFailure, fmt.Sprintf("level %d is locked (highest unlocked is %d)", number, p.HighestUnlocked))
	}
	return level, nil
}

// resolveTaps turns the route flag into node ids. Integers are node
// indexes; anything else must be a node id of the level.
func resolveTaps(level puzzle.Level, route []string) ([]string, error) {
	if len(route) == 0 {
		ids := make([]string, len(level.Nodes))
		for i, n := range level.Nodes {
			ids[i] = n.ID
		}
		return ids, nil
	}

	g := level.Graph()
	ids := make([]string, 0, len(route))
	for _, tap := range route {
		tap = strings.TrimSpace(tap)
		if i, err := strconv.Atoi(tap); err == nil {
			if i < 0 || i >= len(level.Nodes) {
				return nil, fmt.Errorf("node index %d out of range (%d nodes)", i, len(level.Nodes))
			}
			ids = append(ids, level.Nodes[i].ID)
			continue
		}
		if !g.Has(tap) {
			return nil, fmt.Errorf("node %q is not part of level %d", tap, level.Number)
		}
		ids = append(ids, tap)
	}
	return ids, nil
}

// playRoute taps every node, advancing the simulated clock evenly between
// taps. It stops early once the session has settled and returns the
// number of rejected taps.
func playRoute(cmd *cobra.Command, s *game.Session, clock *simClock, taps []string, total time.Duration) (int, error) {
	ctx := cmd.Context()
	var step time.Duration
	if len(taps) > 1 {
		step = total / time.Duration(len(taps)-1)
	}

	invalid := 0
	for i, id := range taps {
		if i > 0 && step > 0 {
			clock.now = clock.now.Add(step)
			if err := s.Tick(ctx, step); err != nil {
				return invalid, err
			}
		}
		if _, ok := s.Report(); ok {
			break
		}
		res, err := s.Tap(ctx, id)
		if err != nil {
			return invalid, err
		}
		if res == engine.TapRejected {
			invalid++
		}
		if _, ok := s.Report(); ok {
			break
		}
	}
	return invalid, nil
}

func newPlayResult(level puzzle.Level, daily bool, r game.Report, invalid, balance int) PlayResult {
	achievements := make([]string, 0, len(r.Award.Achievements))
	for _, a := range r.Award.Achievements {
		achievements = append(achievements, a.ID)
	}
	return PlayResult{
		Level:        level.Number,
		Title:        level.Title,
		Daily:        daily,
		Result:       string(r.Outcome.Result),
		Reason:       r.Outcome.Reason,
		Score:        r.Outcome.Score,
		Stars:        r.Outcome.Stars,
		ElapsedMS:    r.Outcome.Elapsed.Milliseconds(),
		Path:         r.Outcome.Path,
		InvalidMoves: invalid,
		Coins:        r.Award.Coins,
		Balance:      balance,
		Achievements: achievements,
		CurrentLevel: r.Progress.CurrentLevel,
	}
}

// RenderText prints the outcome summary.
func (r PlayResult) RenderText(w io.Writer) {
	fmt.Fprintf(w, "Level %d: %s\n", r.Level, r.Title)
	if r.Reason != "" {
		fmt.Fprintf(w, "Result: %s (%s)\n", r.Result, r.Reason)
	} else {
		fmt.Fprintf(w, "Result: %s\n", r.Result)
	}
	fmt.Fprintf(w, "Score: %d  Stars: %s  Time: %s\n", r.Score, starsText(r.Stars), time.Duration(r.ElapsedMS)*time.Millisecond)
	if r.InvalidMoves > 0 {
		fmt.Fprintf(w, "Invalid moves: %d\n", r.InvalidMoves)
	}
	fmt.Fprintf(w, "Coins: +%d (balance %d)\n", r.Coins, r.Balance)
	for _, a := range r.Achievements {
		fmt.Fprintf(w, "Achievement unlocked: %s\n", a)
	}
	if !r.Daily {
		fmt.Fprintf(w, "Current level: %d\n", r.CurrentLevel)
	}
}

// simClock is the engine clock for scripted play. It only moves when the
// route advances it.
type simClock struct {
	now time.Time
}

func (c *simClock) Now() time.Time { return c.now }
