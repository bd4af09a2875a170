package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"

	"github.com/alexanderramin/cmscontent/internal/cli"
	"github.com/alexanderramin/cmscontent/internal/config"
	"github.com/alexanderramin/cmscontent/internal/db"
	"github.com/alexanderramin/cmscontent/internal/domain"
	"github.com/alexanderramin/cmscontent/internal/logger"
	"github.com/alexanderramin/cmscontent/internal/metric"
	"github.com/alexanderramin/cmscontent/internal/repository"
	"github.com/alexanderramin/cmscontent/internal/server"
	"github.com/alexanderramin/cmscontent/internal/service"
	"github.com/alexanderramin/cmscontent/internal/spam"
	"github.com/mattn/go-isatty"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const name = "cmscontent"

var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load("")
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	log := logger.SetDefaultLogger(name, version, cfg.LogLevel)

	database, err := db.OpenDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	// Wire repositories
	nodeRepo := repository.NewSQLiteMenuNodeRepo(database)
	sectionRepo := repository.NewSQLiteSectionRepo(database)
	categoryRepo := repository.NewSQLiteCategoryRepo(database)
	articleRepo := repository.NewSQLiteArticleRepo(database)
	tagRepo := repository.NewSQLiteTagRepo(database)
	commentRepo := repository.NewSQLiteCommentRepo(database)

	// Wire unit of work for transactional operations
	uow := db.NewSQLiteUnitOfWork(database)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := metric.NewMetrics(reg)

	var checker spam.Checker
	if cfg.Akismet.Enabled() {
		spamCfg := spam.DefaultConfig()
		spamCfg.APIKey = cfg.Akismet.APIKey
		spamCfg.Endpoint = cfg.Akismet.Endpoint
		spamCfg.BlogURL = cfg.BlogURL()
		spamCfg.TimeoutMs = cfg.Akismet.TimeoutMs
		spamCfg.MaxRetries = cfg.Akismet.MaxRetries
		checker = spam.NewAkismetClient(spamCfg, spam.NewLogObserver(log))
	}

	observer := service.NewLogUseCaseObserver(log)
	app := &cli.App{
		Menu:       service.NewMenuService(nodeRepo, sectionRepo, categoryRepo, articleRepo, uow, cfg.RootURL, metrics, observer),
		Sections:   service.NewSectionService(sectionRepo, categoryRepo, uow, metrics, observer),
		Categories: service.NewCategoryService(sectionRepo, categoryRepo, articleRepo, uow, cfg.CategoryPerPage, cfg.ArticlePerPage, metrics, observer),
		Articles:   service.NewArticleService(sectionRepo, categoryRepo, articleRepo, tagRepo, uow, cfg.ArticlePerPage, metrics, observer),
		Comments:   service.NewCommentService(articleRepo, commentRepo, uow, checker, cfg.RootURL, cfg.BlogURL(), metrics, observer),
		Actor:      domain.Actor{Username: os.Getenv("CMS_CONTENT_USER")},
		RootURL:    cfg.RootURL,
	}

	app.Serve = func(ctx context.Context) error {
		api := &server.API{
			Menu:       app.Menu,
			Sections:   app.Sections,
			Categories: app.Categories,
			Articles:   app.Articles,
			Comments:   app.Comments,
			RootURL:    cfg.RootURL,
			Logger:     log,
		}
		srv := server.New(
			server.WithPort(cfg.ListenPort),
			server.WithLogger(log),
			server.WithHealthCheck(dbHealth{database}),
			server.WithHandler("GET /metrics", metric.GetHandlerForRegistry(reg)),
			server.WithHandler("/api/", api.Handler()),
		)
		log.Info("starting server", slog.Int("port", cfg.ListenPort), slog.String("root_url", cfg.RootURL))
		return srv.Serve(ctx)
	}

	// Detect interactive terminal for forms and the menu browser.
	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	rootCmd := cli.NewRootCmd(app)
	rootCmd.Version = version
	return rootCmd.Execute()
}

// dbHealth reports the database as healthy while it answers pings.
type dbHealth struct {
	db *sql.DB
}

func (h dbHealth) Healthy(ctx context.Context) error {
	return h.db.PingContext(ctx)
}
