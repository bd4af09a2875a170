package cli

import (
	"context"

	"github.com/alexanderramin/cmscontent/internal/domain"
	"github.com/alexanderramin/cmscontent/internal/service"
	"github.com/spf13/cobra"
)

// App holds references to all service interfaces used by CLI commands.
type App struct {
	Menu       service.MenuService
	Sections   service.SectionService
	Categories service.CategoryService
	Articles   service.ArticleService
	Comments   service.CommentService

	// Serve runs the HTTP surface until ctx is cancelled. Nil disables the
	// serve command.
	Serve func(ctx context.Context) error

	// Actor is the default caller; --as and --superuser override it for
	// one invocation.
	Actor domain.Actor

	// IsInteractive reports whether stdin is a terminal. Nil means no.
	IsInteractive func() bool

	RootURL string

	caller domain.Actor
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

// NewRootCmd creates the top-level "cmscontent" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	if app.RootURL == "" {
		app.RootURL = domain.DefaultRootURL
	}

	root := &cobra.Command{
		Use:           "cmscontent",
		Short:         "Sections, categories and articles behind a shared navigation menu",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	var as string
	var superuser bool
	root.PersistentFlags().StringVar(&as, "as", app.Actor.Username, "Username to act as")
	root.PersistentFlags().BoolVar(&superuser, "superuser", app.Actor.IsSuperuser, "Act with superuser rights")
	root.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		app.caller = domain.Actor{Username: as, IsSuperuser: superuser}
	}

	root.AddCommand(
		newSectionCmd(app),
		newCategoryCmd(app),
		newArticleCmd(app),
		newMenuCmd(app),
		newCommentCmd(app),
		newIndexCmd(app),
		newServeCmd(app),
	)

	return root
}
