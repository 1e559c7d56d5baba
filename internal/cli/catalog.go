package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
)

// CatalogEntry is one campaign level with the player's standing on it.
type CatalogEntry struct {
	Number      int           `json:"number"`
	Title       string        `json:"title"`
	Difficulty  string        `json:"difficulty"`
	TargetScore int           `json:"target_score"`
	TimeLimit   time.Duration `json:"time_limit,omitempty"`
	Nodes       int           `json:"nodes"`
	Unlocked    bool          `json:"unlocked"`
	Stars       int           `json:"stars"`
	BestScore   int           `json:"best_score,omitempty"`
}

// CatalogResult is the catalog command result.
type CatalogResult struct {
	CurrentLevel int            `json:"current_level"`
	Levels       []CatalogEntry `json:"levels"`
}

// NewCatalogCommand creates the catalog command.
func NewCatalogCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "List campaign levels",
		Long: `List the campaign levels with unlock state, stars and best scores.

The catalog is generated from the seed on first use and stored, so later
runs list the same levels.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCatalog(rootOpts, cmd)
		},
	}
	return cmd
}

func runCatalog(opts *RootOptions, cmd *cobra.Command) error {
	e, st, err := opts.openStore(cmd)
	if err != nil {
		return err
	}
	defer e.closeStore(st)

	ctx := cmd.Context()
	levels, err := st.LoadCatalog(ctx)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load catalog", err)
	}
	p := st.LoadProgress(ctx)

	result := CatalogResult{
		CurrentLevel: p.CurrentLevel,
		Levels:       make([]CatalogEntry, 0, len(levels)),
	}
	for _, l := range levels {
		stats := p.Levels[l.Number]
		result.Levels = append(result.Levels, CatalogEntry{
			Number:      l.Number,
			Title:       l.Title,
			Difficulty:  string(l.Difficulty),
			TargetScore: l.TargetScore,
			TimeLimit:   l.TimeLimit,
			Nodes:       len(l.Nodes),
			Unlocked:    p.IsUnlocked(l.Number),
			Stars:       stats.Stars,
			BestScore:   stats.BestScore,
		})
	}
	return e.out.Success(result)
}

// RenderText prints one line per level.
func (r CatalogResult) RenderText(w io.Writer) {
	for _, l := range r.Levels {
		marker := " "
		switch {
		case l.Number == r.CurrentLevel:
			marker = ">"
		case !l.Unlocked:
			marker = "#"
		}
		limit := "untimed"
		if l.TimeLimit > 0 {
			limit = l.TimeLimit.String()
		}
		fmt.Fprintf(w, "%s %2d  %-16s %-7s target %5d  %-7s %2d nodes  %s\n",
			marker, l.Number, l.Title, l.Difficulty, l.TargetScore, limit, l.Nodes, starsText(l.Stars))
	}
}

func starsText(n int) string {
	s := ""
	for i := range 3 {
		if i < n {
			s += "*"
		} else {
			s += "."
		}
	}
	return s
}
