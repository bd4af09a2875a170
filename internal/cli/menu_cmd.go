package cli

import (
	"fmt"
	"strconv"

	"github.com/alexanderramin/cmscontent/internal/cli/formatter"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

func newMenuCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "menu",
		Short: "Inspect the navigation menu",
	}

	cmd.AddCommand(
		newMenuTreeCmd(app),
		newMenuResolveCmd(app),
		newMenuBrowseCmd(app),
	)

	return cmd
}

func newMenuTreeCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "tree",
		Short: "Print every menu node as a tree",
		RunE: func(cmd *cobra.Command, args []string) error {
			tree, err := app.Menu.Tree(cmd.Context())
			if err != nil {
				return err
			}
			printf(cmd.OutOrStdout(), "%s", formatter.FormatMenuTree(tree))
			return nil
		},
	}
}

func newMenuResolveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "resolve ID",
		Short: "Show the link a menu node resolves to",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil || id <= 0 {
				return fmt.Errorf("invalid menu node id %q", args[0])
			}
			ctx := cmd.Context()
			node, err := app.Menu.Get(ctx, id)
			if err != nil {
				return err
			}
			entry, err := app.Menu.ResolveEntry(ctx, node)
			if err != nil {
				return err
			}
			printf(cmd.OutOrStdout(), "%s", formatter.FormatMenuEntry(node, entry))
			return nil
		},
	}
}

func newMenuBrowseCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Walk the menu interactively",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !app.interactive() {
				return fmt.Errorf("menu browse requires a terminal; use 'menu tree'")
			}
			p := tea.NewProgram(newMenuBrowseView(cmd.Context(), app),
				tea.WithInput(cmd.InOrStdin()),
				tea.WithOutput(cmd.OutOrStdout()),
				tea.WithContext(cmd.Context()),
			)
			_, err := p.Run()
			return err
		},
	}
}
