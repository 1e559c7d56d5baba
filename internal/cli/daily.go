package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/luminal/internal/puzzle"
)

// NewDailyCommand creates the daily command.
func NewDailyCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "daily",
		Short: "Show today's daily challenge",
		Long: `Show today's daily challenge. A new challenge is drawn on the
first call of each calendar day. Play it with "luminal play --daily";
the reward is paid on the first victory only.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDaily(rootOpts, cmd)
		},
	}
	return cmd
}

func runDaily(opts *RootOptions, cmd *cobra.Command) error {
	e, st, err := opts.openStore(cmd)
	if err != nil {
		return err
	}
	defer e.closeStore(st)

	ch, err := st.DailyChallenge(cmd.Context(), opts.now())
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load daily challenge", err)
	}
	return e.out.Success(DailyResult{Challenge: ch})
}

// DailyResult is the daily command result.
type DailyResult struct {
	puzzle.Challenge
}

// RenderText prints the challenge card.
func (d DailyResult) RenderText(w io.Writer) {
	status := "open"
	if d.Completed {
		status = "completed"
	}
	fmt.Fprintf(w, "Daily challenge %s: %s (%s)\n", d.Day, d.Title, status)
	fmt.Fprintf(w, "%s\n", d.Description)
	fmt.Fprintf(w, "Difficulty: %s  Target: %d  Time: %s  Reward: %d coins\n",
		d.Difficulty, d.TargetScore, d.TimeLimit, d.Reward)
}
