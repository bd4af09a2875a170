package cli

import (
	"github.com/alexanderramin/cmscontent/internal/cli/formatter"
	"github.com/alexanderramin/cmscontent/internal/domain"
	"github.com/spf13/cobra"
)

func newSectionCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "section",
		Short: "Manage sections",
	}

	cmd.AddCommand(
		newSectionAddCmd(app),
		newSectionListCmd(app),
		newSectionShowCmd(app),
		newSectionRemoveCmd(app),
	)

	return cmd
}

func newSectionAddCmd(app *App) *cobra.Command {
	var name, slug, description, image string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a section and its root menu node",
		RunE: func(cmd *cobra.Command, args []string) error {
			s := &domain.Section{
				Name:        name,
				Slug:        domain.CoalesceStr(slug, slugify(name)),
				Description: description,
				Image:       image,
			}
			if err := app.Sections.Create(cmd.Context(), s); err != nil {
				return err
			}
			printf(cmd.OutOrStdout(), "Created section %s (menu node #%d)\n", s.Name, s.MenuID)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Section name")
	cmd.Flags().StringVar(&slug, "slug", "", "URL slug (derived from the name when empty)")
	cmd.Flags().StringVar(&description, "description", "", "Section description")
	cmd.Flags().StringVar(&image, "image", "", "Image path")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("description")

	return cmd
}

func newSectionListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List sections",
		RunE: func(cmd *cobra.Command, args []string) error {
			sections, err := app.Sections.List(cmd.Context())
			if err != nil {
				return err
			}
			printf(cmd.OutOrStdout(), "%s", formatter.FormatSectionList(sections, app.RootURL))
			return nil
		},
	}
}

func newSectionShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show SLUG",
		Short: "Show a section and its categories",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := app.Sections.Detail(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printf(cmd.OutOrStdout(), "%s", formatter.FormatSectionDetail(d, app.RootURL))
			return nil
		},
	}
}

func newSectionRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "remove SLUG",
		Short: "Delete a section with its categories, articles and menu nodes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Sections.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			printf(cmd.OutOrStdout(), "Removed section %s\n", args[0])
			return nil
		},
	}
}
