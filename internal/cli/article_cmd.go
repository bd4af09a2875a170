package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/alexanderramin/cmscontent/internal/cli/formatter"
	"github.com/alexanderramin/cmscontent/internal/domain"
	"github.com/alexanderramin/cmscontent/internal/richtext"
	"github.com/alexanderramin/cmscontent/internal/service"
	"github.com/spf13/cobra"
)

func newArticleCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "article",
		Short: "Write and browse articles",
	}

	cmd.AddCommand(
		newArticleAddCmd(app),
		newArticleListCmd(app),
		newArticleShowCmd(app),
		newArticleRemoveCmd(app),
		newArticleTagCmd(app),
	)

	return cmd
}

func newArticleAddCmd(app *App) *cobra.Command {
	var (
		title, slug, category, content, contentFile string
		start, end                                  string
		status                                      pubStatusValue
		tags                                        []string
		interactive                                 bool
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Write an article under a category",
		Long: "Write an article under a category. The article gets its own menu node\n" +
			"below the category's node. Requires --as.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if contentFile != "" {
				data, err := os.ReadFile(contentFile)
				if err != nil {
					return fmt.Errorf("reading content file: %w", err)
				}
				content = string(data)
			}

			vals := articleFormValues{
				Title:    title,
				Slug:     slug,
				Category: category,
				Content:  content,
				Tags:     strings.Join(tags, ", "),
				Status:   status.String(),
			}
			if interactive {
				if !app.interactive() {
					return fmt.Errorf("--interactive requires a terminal")
				}
				if err := articleForm(cmd.Context(), app, &vals).Run(); err != nil {
					return err
				}
			}

			in, err := vals.input(start, end)
			if err != nil {
				return err
			}
			a, err := app.Articles.Create(cmd.Context(), app.caller, in)
			if err != nil {
				return err
			}
			printf(cmd.OutOrStdout(), "Created article %s (menu node #%d)\n%s\n",
				a.Title, a.MenuID, formatter.Dim(a.URL(app.RootURL)))
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "Article title")
	cmd.Flags().StringVar(&slug, "slug", "", "URL slug (derived from the title when empty)")
	cmd.Flags().StringVar(&category, "category", "", "Category slug")
	cmd.Flags().StringVar(&content, "content", "", "HTML content")
	cmd.Flags().StringVar(&contentFile, "content-file", "", "Read HTML content from a file")
	cmd.Flags().StringSliceVar(&tags, "tag", nil, "Tag (repeatable or comma separated)")
	cmd.Flags().Var(&status, "status", "Publish status: published, hidden, draft or deleted")
	cmd.Flags().StringVar(&start, "start", "", "Publish window start (YYYY-MM-DD)")
	cmd.Flags().StringVar(&end, "end", "", "Publish window end (YYYY-MM-DD)")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "Fill the article in a form")
	cmd.MarkFlagsMutuallyExclusive("content", "content-file")

	return cmd
}

func newArticleListCmd(app *App) *cobra.Command {
	var category, tag string
	var page int
	var all bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List articles by category or tag",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()
			switch {
			case tag != "":
				articles, err := app.Articles.ListByTag(ctx, tag)
				if err != nil {
					return err
				}
				printf(out, "%s", formatter.FormatArticleList(articles, app.RootURL))
			case category != "" && all:
				articles, err := app.Articles.ListAll(ctx, category)
				if err != nil {
					return err
				}
				printf(out, "%s", formatter.FormatArticleList(articles, app.RootURL))
			case category != "":
				p, err := app.Articles.ListByCategory(ctx, category, page)
				if err != nil {
					return err
				}
				printf(out, "%s%s", formatter.FormatArticleList(p.Articles, app.RootURL), formatter.FormatPager(p.Page))
			default:
				return fmt.Errorf("one of --category or --tag is required")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&category, "category", "", "Category slug")
	cmd.Flags().StringVar(&tag, "tag", "", "Tag name")
	cmd.Flags().IntVar(&page, "page", 1, "Page number")
	cmd.Flags().BoolVar(&all, "all", false, "Include unpublished articles (with --category)")
	cmd.MarkFlagsMutuallyExclusive("category", "tag")

	return cmd
}

func newArticleShowCmd(app *App) *cobra.Command {
	var preview bool

	cmd := &cobra.Command{
		Use:   "show SLUG",
		Short: "Read an article (counts as a hit)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			if preview {
				a, err := app.Articles.Get(ctx, args[0])
				if err != nil {
					return err
				}
				printf(out, "%s", formatter.FormatArticleDetail(a, nil, articleBody(a), app.RootURL))
				return nil
			}

			d, err := app.Articles.Detail(ctx, args[0])
			if err != nil {
				return err
			}
			a := *d.Article
			a.Hits = d.Hits
			a.Tags = d.Tags
			printf(out, "%s", formatter.FormatArticleDetail(&a, d.Category, articleBody(&a), app.RootURL))
			if nav := formatter.FormatNeighbours(d.Previous, d.Next); nav != "" {
				printf(out, "\n%s", nav)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&preview, "preview", false, "Show any status without counting a hit")

	return cmd
}

// articleBody renders stored HTML as terminal markdown, falling back to
// plain text when conversion fails.
func articleBody(a *domain.Article) string {
	md, err := richtext.ToMarkdown(a.Content)
	if err != nil {
		return richtext.Text(a.Content)
	}
	return md
}

func newArticleRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "remove SLUG",
		Short: "Delete an article and its menu node (superuser only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Articles.Delete(cmd.Context(), app.caller, args[0]); err != nil {
				return err
			}
			printf(cmd.OutOrStdout(), "Removed article %s\n", args[0])
			return nil
		},
	}
}

func newArticleTagCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "tag SLUG [TAG...]",
		Short: "Replace an article's tags; no tags clears them",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := app.Articles.SetTags(ctx, app.caller, args[0], args[1:]); err != nil {
				return err
			}
			a, err := app.Articles.Get(ctx, args[0])
			if err != nil {
				return err
			}
			printf(cmd.OutOrStdout(), "%s", formatter.FormatTags(a.Tags))
			return nil
		},
	}
}

func newIndexCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "index",
		Short: "Show the latest published articles",
		RunE: func(cmd *cobra.Command, args []string) error {
			articles, err := app.Articles.Index(cmd.Context())
			if err != nil {
				return err
			}
			printf(cmd.OutOrStdout(), "%s", formatter.FormatArticleList(articles, app.RootURL))
			return nil
		},
	}
}

// articleFormValues holds article fields as collected from flags or the
// interactive form.
type articleFormValues struct {
	Title    string
	Slug     string
	Category string
	Content  string
	Tags     string
	Status   string
}

func (v articleFormValues) input(start, end string) (service.ArticleInput, error) {
	status, err := parsePubStatus(v.Status)
	if err != nil {
		return service.ArticleInput{}, err
	}
	pubStart, err := parseOptionalDate("start", start)
	if err != nil {
		return service.ArticleInput{}, err
	}
	pubEnd, err := parseOptionalDate("end", end)
	if err != nil {
		return service.ArticleInput{}, err
	}
	slug := domain.CoalesceStr(v.Slug, slugify(v.Title))
	var tags []string
	for _, t := range strings.Split(v.Tags, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return service.ArticleInput{
		Title:        v.Title,
		Slug:         slug,
		Content:      v.Content,
		CategorySlug: v.Category,
		Tags:         tags,
		PubStatus:    status,
		PubStart:     pubStart,
		PubEnd:       pubEnd,
	}, nil
}
