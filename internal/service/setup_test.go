package service

import (
	"context"
	"database/sql"
	"sync"
	"testing"
	"time"

	"github.com/alexanderramin/cmscontent/internal/db"
	"github.com/alexanderramin/cmscontent/internal/domain"
	"github.com/alexanderramin/cmscontent/internal/metric"
	"github.com/alexanderramin/cmscontent/internal/repository"
	"github.com/alexanderramin/cmscontent/internal/spam"
	"github.com/alexanderramin/cmscontent/internal/testutil"
	"github.com/stretchr/testify/require"
)

const testRootURL = "/cms/content/"

type testEnv struct {
	db         *sql.DB
	nodes      *repository.SQLiteMenuNodeRepo
	sectRepo   *repository.SQLiteSectionRepo
	catRepo    *repository.SQLiteCategoryRepo
	artRepo    *repository.SQLiteArticleRepo
	tagRepo    *repository.SQLiteTagRepo
	comRepo    *repository.SQLiteCommentRepo
	menu       MenuService
	sections   SectionService
	categories CategoryService
	articles   ArticleService
	comments   CommentService
	observer   *recordingObserver
}

func newTestEnv(t *testing.T, checker spam.Checker) *testEnv {
	t.Helper()
	return newTestEnvWithUoW(t, testutil.NewTestDB(t), nil, checker)
}

// newTestEnvWithUoW wires every service against database. A nil uow uses
// the real SQLite unit of work.
func newTestEnvWithUoW(t *testing.T, database *sql.DB, uow db.UnitOfWork, checker spam.Checker) *testEnv {
	t.Helper()
	if uow == nil {
		uow = testutil.NewTestUoW(database)
	}
	env := &testEnv{
		db:       database,
		nodes:    repository.NewSQLiteMenuNodeRepo(database),
		sectRepo: repository.NewSQLiteSectionRepo(database),
		catRepo:  repository.NewSQLiteCategoryRepo(database),
		artRepo:  repository.NewSQLiteArticleRepo(database),
		tagRepo:  repository.NewSQLiteTagRepo(database),
		comRepo:  repository.NewSQLiteCommentRepo(database),
		observer: &recordingObserver{},
	}
	metrics := metric.NoopMetrics()
	env.menu = NewMenuService(env.nodes, env.sectRepo, env.catRepo, env.artRepo, uow, testRootURL, metrics, env.observer)
	env.sections = NewSectionService(env.sectRepo, env.catRepo, uow, metrics, env.observer)
	env.categories = NewCategoryService(env.sectRepo, env.catRepo, env.artRepo, uow, 2, 2, metrics, env.observer)
	env.articles = NewArticleService(env.sectRepo, env.catRepo, env.artRepo, env.tagRepo, uow, 2, metrics, env.observer)
	env.comments = NewCommentService(env.artRepo, env.comRepo, uow, checker, testRootURL, "http://example.com/", metrics, env.observer)
	return env
}

var editor = domain.Actor{Username: "editor"}
var admin = domain.Actor{Username: "admin", IsSuperuser: true}

// seedTree creates a section, a category in it and one published article.
func (e *testEnv) seedTree(t *testing.T) (*domain.Section, *domain.Category, *domain.Article) {
	t.Helper()
	ctx := context.Background()
	sec := testutil.NewTestSection("News")
	require.NoError(t, e.sections.Create(ctx, sec))
	cat := testutil.NewTestCategory(sec.ID, "Local")
	require.NoError(t, e.categories.Create(ctx, cat))
	art, err := e.articles.Create(ctx, editor, ArticleInput{
		Title:        "Hello",
		Slug:         "hello",
		Content:      "<p>Hello world</p>",
		CategorySlug: cat.Slug,
		PubStart:     yesterday(),
	})
	require.NoError(t, err)
	return sec, cat, art
}

type recordingObserver struct {
	mu     sync.Mutex
	events []UseCaseEvent
}

func (o *recordingObserver) ObserveUseCase(_ context.Context, e UseCaseEvent) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.events = append(o.events, e)
}

func (o *recordingObserver) last(name string) (UseCaseEvent, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	for i := len(o.events) - 1; i >= 0; i-- {
		if o.events[i].Name == name {
			return o.events[i], true
		}
	}
	return UseCaseEvent{}, false
}

func yesterday() time.Time {
	return time.Now().UTC().AddDate(0, 0, -1)
}
