package cli

import (
	"github.com/alexanderramin/cmscontent/internal/cli/formatter"
	"github.com/alexanderramin/cmscontent/internal/domain"
	"github.com/spf13/cobra"
)

func newCategoryCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "category",
		Short: "Manage categories",
	}

	cmd.AddCommand(
		newCategoryAddCmd(app),
		newCategoryListCmd(app),
		newCategoryShowCmd(app),
		newCategoryRemoveCmd(app),
	)

	return cmd
}

func newCategoryAddCmd(app *App) *cobra.Command {
	var section, name, slug, description, image string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a category under a section",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			sec, err := app.Sections.GetBySlug(ctx, section)
			if err != nil {
				return err
			}
			c := &domain.Category{
				Name:        name,
				Slug:        domain.CoalesceStr(slug, slugify(name)),
				SectionID:   sec.ID,
				Description: description,
				Image:       image,
			}
			if err := app.Categories.Create(ctx, c); err != nil {
				return err
			}
			printf(cmd.OutOrStdout(), "Created category %s in %s (menu node #%d under #%d)\n",
				c.Name, sec.Name, c.MenuID, sec.MenuID)
			return nil
		},
	}

	cmd.Flags().StringVar(&section, "section", "", "Parent section slug")
	cmd.Flags().StringVar(&name, "name", "", "Category name")
	cmd.Flags().StringVar(&slug, "slug", "", "URL slug (derived from the name when empty)")
	cmd.Flags().StringVar(&description, "description", "", "Category description")
	cmd.Flags().StringVar(&image, "image", "", "Image path")
	_ = cmd.MarkFlagRequired("section")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("description")

	return cmd
}

func newCategoryListCmd(app *App) *cobra.Command {
	var section string
	var page int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the categories of a section",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := app.Categories.ListBySection(cmd.Context(), section, page)
			if err != nil {
				return err
			}
			printf(cmd.OutOrStdout(), "%s", formatter.FormatCategoryList(p.Categories, &p.Page, app.RootURL))
			return nil
		},
	}

	cmd.Flags().StringVar(&section, "section", "", "Section slug")
	cmd.Flags().IntVar(&page, "page", 1, "Page number")
	_ = cmd.MarkFlagRequired("section")

	return cmd
}

func newCategoryShowCmd(app *App) *cobra.Command {
	var page int

	cmd := &cobra.Command{
		Use:   "show SLUG",
		Short: "Show a category with one page of its articles",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := app.Categories.Detail(cmd.Context(), args[0], page)
			if err != nil {
				return err
			}
			printf(cmd.OutOrStdout(), "%s", formatter.FormatCategoryDetail(d, app.RootURL))
			return nil
		},
	}

	cmd.Flags().IntVar(&page, "page", 1, "Page number (out of range shows the last page)")

	return cmd
}

func newCategoryRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "remove SLUG",
		Short: "Delete a category with its articles and menu nodes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Categories.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			printf(cmd.OutOrStdout(), "Removed category %s\n", args[0])
			return nil
		},
	}
}
