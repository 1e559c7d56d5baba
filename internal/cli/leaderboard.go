package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/luminal/internal/store"
)

// LeaderboardResult is the leaderboard command result.
type LeaderboardResult struct {
	Entries []store.LeaderboardEntry `json:"entries"`
}

// NewLeaderboardCommand creates the leaderboard command.
func NewLeaderboardCommand(rootOpts *RootOptions) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "leaderboard",
		Short: "Show the best scores",
		Long: `Show the leaderboard, highest score first. Only the best
100 victories are kept.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if limit < 1 {
				return NewExitError(ExitCommandError, "limit must be at least 1")
			}
			return runLeaderboard(rootOpts, limit, cmd)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "number of entries to show")
	return cmd
}

func runLeaderboard(opts *RootOptions, limit int, cmd *cobra.Command) error {
	e, st, err := opts.openStore(cmd)
	if err != nil {
		return err
	}
	defer e.closeStore(st)

	entries := st.Leaderboard(cmd.Context())
	if len(entries) > limit {
		entries = entries[:limit]
	}
	return e.out.Success(LeaderboardResult{Entries: entries})
}

// RenderText prints one ranked line per entry.
func (r LeaderboardResult) RenderText(w io.Writer) {
	if len(r.Entries) == 0 {
		fmt.Fprintln(w, "No scores yet.")
		return
	}
	for i, e := range r.Entries {
		fmt.Fprintf(w, "%3d. %-16s %6d  level %-3d %-7s %s\n",
			i+1, e.PlayerName, e.Score, e.Level, e.Difficulty, e.Date.Format(time.DateOnly))
	}
}
