package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/luminal/internal/progress"
)

// ProgressResult is the progress command result.
type ProgressResult struct {
	Progress      progress.UserProgress       `json:"progress"`
	Coins         int                         `json:"coins"`
	SelectedTheme string                      `json:"selected_theme"`
	Achievements  []progress.AchievementState `json:"achievements"`
}

// NewProgressCommand creates the progress command.
func NewProgressCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "progress",
		Short: "Show player progress",
		Long: `Show the player's progress: unlocked levels, totals, coins, the
selected theme and the state of every achievement.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProgress(rootOpts, cmd)
		},
	}
	return cmd
}

func runProgress(opts *RootOptions, cmd *cobra.Command) error {
	e, st, err := opts.openStore(cmd)
	if err != nil {
		return err
	}
	defer e.closeStore(st)

	ctx := cmd.Context()
	p := st.LoadProgress(ctx)
	return e.out.Success(ProgressResult{
		Progress:      p,
		Coins:         st.Coins(ctx),
		SelectedTheme: st.SelectedTheme(ctx).ID,
		Achievements:  progress.AchievementStatus(st.Achievements(), p),
	})
}

// RenderText prints the summary and the achievement list.
func (r ProgressResult) RenderText(w io.Writer) {
	p := r.Progress
	fmt.Fprintf(w, "Current level: %d (highest unlocked %d)\n", p.CurrentLevel, p.HighestUnlocked)
	fmt.Fprintf(w, "Completed: %d  Perfect: %d  Games: %d\n", p.CompletedLevels(), p.PerfectLevels(), p.GamesPlayed)
	fmt.Fprintf(w, "Total score: %d  Play time: %s\n", p.TotalScore, p.TotalPlayTime.Round(time.Second))
	if best, ok := p.FastestTime(); ok {
		fmt.Fprintf(w, "Fastest level: %s\n", best.Round(time.Millisecond))
	}
	fmt.Fprintf(w, "Coins: %d  Theme: %s\n", r.Coins, r.SelectedTheme)
	fmt.Fprintln(w, "Achievements:")
	for _, a := range r.Achievements {
		mark := "[ ]"
		if a.Unlocked {
			mark = "[x]"
		}
		fmt.Fprintf(w, "  %s %-18s %s\n", mark, a.Title, a.Description)
	}
}

// NewResetCommand creates the reset command.
func NewResetCommand(rootOpts *RootOptions) *cobra.Command {
	var confirm bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Reset player progress",
		Long: `Reset level progress and achievements to a fresh start.

Coins, purchased themes and the leaderboard are kept. Pass --yes to
confirm.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !confirm {
				return NewExitError(ExitCommandError, "reset needs --yes")
			}
			return runReset(rootOpts, cmd)
		},
	}

	cmd.Flags().BoolVar(&confirm, "yes", false, "confirm the reset")
	return cmd
}

func runReset(opts *RootOptions, cmd *cobra.Command) error {
	e, st, err := opts.openStore(cmd)
	if err != nil {
		return err
	}
	defer e.closeStore(st)

	if err := st.ResetProgress(cmd.Context()); err != nil {
		return WrapExitError(ExitCommandError, "failed to reset progress", err)
	}
	return e.out.Success(progressReset{Progress: progress.New()})
}

type progressReset struct {
	Progress progress.UserProgress `json:"progress"`
}

func (progressReset) RenderText(w io.Writer) {
	fmt.Fprintln(w, "Progress reset.")
}
