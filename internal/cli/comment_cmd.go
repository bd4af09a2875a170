package cli

import (
	"github.com/alexanderramin/cmscontent/internal/cli/formatter"
	"github.com/alexanderramin/cmscontent/internal/domain"
	"github.com/alexanderramin/cmscontent/internal/service"
	"github.com/spf13/cobra"
)

const cliUserAgent = "cmscontent-cli"

func newCommentCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "comment",
		Short: "Post and read article comments",
	}

	cmd.AddCommand(
		newCommentPostCmd(app),
		newCommentListCmd(app),
	)

	return cmd
}

func newCommentPostCmd(app *App) *cobra.Command {
	var name, body, ip string

	cmd := &cobra.Command{
		Use:   "post ARTICLE_SLUG",
		Short: "Comment on a published article",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := app.Comments.Post(cmd.Context(), service.CommentRequest{
				ArticleSlug: args[0],
				UserName:    domain.CoalesceStr(name, app.caller.Username),
				Body:        body,
				UserIP:      ip,
				UserAgent:   cliUserAgent,
			})
			if err != nil {
				return err
			}
			if c.IsPublic {
				printf(cmd.OutOrStdout(), "Posted comment by %s\n", c.UserName)
			} else {
				printf(cmd.OutOrStdout(), "%s\n", formatter.StyleYellowBold.Render("Comment by "+c.UserName+" was held as spam"))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Author name (defaults to --as)")
	cmd.Flags().StringVar(&body, "body", "", "Comment text")
	cmd.Flags().StringVar(&ip, "ip", "127.0.0.1", "Author IP sent to the spam checker")
	_ = cmd.MarkFlagRequired("body")

	return cmd
}

func newCommentListCmd(app *App) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "list ARTICLE_SLUG",
		Short: "List an article's comments",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			list := app.Comments.ListPublic
			if all {
				list = app.Comments.ListAll
			}
			comments, err := list(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printf(cmd.OutOrStdout(), "%s", formatter.FormatComments(comments))
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Include comments held as spam")

	return cmd
}
