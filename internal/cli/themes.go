package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/luminal/internal/store"
)

// ThemesResult is the themes list result.
type ThemesResult struct {
	Selected string        `json:"selected"`
	Coins    int           `json:"coins"`
	Themes   []store.Theme `json:"themes"`
}

// ThemeChange is the result of buying or selecting a theme.
type ThemeChange struct {
	Theme   string `json:"theme"`
	Action  string `json:"action"`
	Balance int    `json:"balance"`
}

// NewThemesCommand creates the themes command group.
func NewThemesCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "themes",
		Short: "List, buy and select board themes",
		Long: `Board themes are bought with coins earned from stars and daily
challenges. Midnight is free and selected by default.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runThemesList(rootOpts, cmd)
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:           "list",
		Short:         "List themes with price and ownership",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runThemesList(rootOpts, cmd)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:           "buy <theme>",
		Short:         "Buy a theme with coins",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runThemeBuy(rootOpts, args[0], cmd)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:           "select <theme>",
		Short:         "Select a purchased theme",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runThemeSelect(rootOpts, args[0], cmd)
		},
	})

	return cmd
}

func runThemesList(opts *RootOptions, cmd *cobra.Command) error {
	e, st, err := opts.openStore(cmd)
	if err != nil {
		return err
	}
	defer e.closeStore(st)

	ctx := cmd.Context()
	return e.out.Success(ThemesResult{
		Selected: st.SelectedTheme(ctx).ID,
		Coins:    st.Coins(ctx),
		Themes:   st.Themes(ctx),
	})
}

func runThemeBuy(opts *RootOptions, id string, cmd *cobra.Command) error {
	e, st, err := opts.openStore(cmd)
	if err != nil {
		return err
	}
	defer e.closeStore(st)

	ctx := cmd.Context()
	ok, err := st.PurchaseTheme(ctx, id)
	switch {
	case errors.Is(err, store.ErrUnknownTheme):
		return WrapExitError(ExitCommandError, "cannot buy theme", err)
	case err != nil:
		return WrapExitError(ExitCommandError, "failed to buy theme", err)
	case !ok:
		return NewExitError(ExitFailure, fmt.Sprintf("not enough coins for theme %q (balance %d)", id, st.Coins(ctx)))
	}
	return e.out.Success(ThemeChange{Theme: id, Action: "bought", Balance: st.Coins(ctx)})
}

func runThemeSelect(opts *RootOptions, id string, cmd *cobra.Command) error {
	e, st, err := opts.openStore(cmd)
	if err != nil {
		return err
	}
	defer e.closeStore(st)

	ctx := cmd.Context()
	switch err := st.SelectTheme(ctx, id); {
	case errors.Is(err, store.ErrThemeLocked):
		return WrapExitError(ExitFailure, "cannot select theme", err)
	case err != nil:
		return WrapExitError(ExitCommandError, "cannot select theme", err)
	}
	return e.out.Success(ThemeChange{Theme: id, Action: "selected", Balance: st.Coins(ctx)})
}

// RenderText prints one line per theme.
func (r ThemesResult) RenderText(w io.Writer) {
	fmt.Fprintf(w, "Coins: %d\n", r.Coins)
	for _, t := range r.Themes {
		marker := " "
		if t.ID == r.Selected {
			marker = ">"
		}
		owned := fmt.Sprintf("%d coins", t.Price)
		if t.Purchased {
			owned = "owned"
		}
		fmt.Fprintf(w, "%s %-9s %-9s #%s/#%s  %s\n", marker, t.ID, t.Name, t.Background, t.Accent, owned)
	}
}

// RenderText confirms the change.
func (c ThemeChange) RenderText(w io.Writer) {
	fmt.Fprintf(w, "Theme %s %s (balance %d)\n", c.Theme, c.Action, c.Balance)
}
