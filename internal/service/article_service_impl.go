package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/cmscontent/internal/db"
	"github.com/alexanderramin/cmscontent/internal/domain"
	"github.com/alexanderramin/cmscontent/internal/metric"
	"github.com/alexanderramin/cmscontent/internal/paginate"
	"github.com/alexanderramin/cmscontent/internal/repository"
	"github.com/alexanderramin/cmscontent/internal/richtext"
	"github.com/google/uuid"
)

// indexSize is the number of articles on the content index.
const indexSize = 10

type articleService struct {
	sections       repository.SectionRepo
	categories     repository.CategoryRepo
	articles       repository.ArticleRepo
	tags           repository.TagRepo
	uow            db.UnitOfWork
	articlePerPage int
	metrics        *metric.Metrics
	observer       UseCaseObserver
}

func NewArticleService(
	sections repository.SectionRepo,
	categories repository.CategoryRepo,
	articles repository.ArticleRepo,
	tags repository.TagRepo,
	uow db.UnitOfWork,
	articlePerPage int,
	metrics *metric.Metrics,
	observers ...UseCaseObserver,
) ArticleService {
	if metrics == nil {
		metrics = metric.NoopMetrics()
	}
	return &articleService{
		sections:       sections,
		categories:     categories,
		articles:       articles,
		tags:           tags,
		uow:            uow,
		articlePerPage: articlePerPage,
		metrics:        metrics,
		observer:       useCaseObserverOrNoop(observers),
	}
}

// Create stores a new article by actor under the category named in in,
// with a menu node whose parent is the category's node.
func (s *articleService) Create(ctx context.Context, actor domain.Actor, in ArticleInput) (a *domain.Article, err error) {
	startedAt := time.Now()
	fields := map[string]any{"slug": in.Slug, "category": in.CategorySlug}
	defer func() {
		if a != nil {
			fields["menu_id"] = a.MenuID
		}
		observe(ctx, s.observer, "article.create", startedAt, fields, &err)
	}()

	if !actor.Authenticated() {
		return nil, ErrUnauthenticated
	}
	content, err := richtext.Sanitize(in.Content)
	if err != nil {
		return nil, fmt.Errorf("sanitizing article content: %w", err)
	}

	now := time.Now().UTC()
	article := &domain.Article{
		ID:             uuid.New().String(),
		Title:          in.Title,
		Slug:           in.Slug,
		Content:        content,
		CreatedBy:      actor.Username,
		CreatedAt:      now,
		LastModifiedBy: actor.Username,
		LastModifiedAt: now,
		PubStatus:      in.PubStatus,
		PubStart:       in.PubStart.UTC(),
		PubEnd:         in.PubEnd.UTC(),
		Tags:           repository.NormalizeTags(in.Tags),
	}
	article.ApplyDefaults(now)

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		cat, err := repository.NewSQLiteCategoryRepo(tx).GetBySlug(ctx, in.CategorySlug)
		if err != nil {
			return fmt.Errorf("article category %q: %w", in.CategorySlug, err)
		}
		article.CategoryID = cat.ID
		if err := article.Validate(); err != nil {
			return err
		}

		node, err := allocateNode(ctx, tx, domain.NodeArticle, &cat.MenuID, now)
		if err != nil {
			return err
		}
		article.MenuID = node.ID

		if err := repository.NewSQLiteArticleRepo(tx).Create(ctx, article); err != nil {
			return err
		}
		return repository.NewSQLiteTagRepo(tx).SetArticleTags(ctx, article.ID, article.Tags)
	})
	if err != nil {
		return nil, err
	}
	s.metrics.MenuNodesAllocated.Increment(string(domain.NodeArticle))
	return article, nil
}

// Update saves the editable fields of a, stamped as modified by actor. A
// non-nil Tags replaces the article's tags.
func (s *articleService) Update(ctx context.Context, actor domain.Actor, a *domain.Article) (err error) {
	startedAt := time.Now()
	defer func() {
		observe(ctx, s.observer, "article.update", startedAt, map[string]any{"slug": a.Slug}, &err)
	}()

	if !actor.Authenticated() {
		return ErrUnauthenticated
	}
	content, err := richtext.Sanitize(a.Content)
	if err != nil {
		return fmt.Errorf("sanitizing article content: %w", err)
	}
	a.Content = content
	a.LastModifiedBy = actor.Username
	a.LastModifiedAt = time.Now().UTC()
	if err := a.Validate(); err != nil {
		return err
	}

	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		if err := repository.NewSQLiteArticleRepo(tx).Update(ctx, a); err != nil {
			return err
		}
		if a.Tags == nil {
			return nil
		}
		a.Tags = repository.NormalizeTags(a.Tags)
		return repository.NewSQLiteTagRepo(tx).SetArticleTags(ctx, a.ID, a.Tags)
	})
}

// Get returns the article regardless of its publish state.
func (s *articleService) Get(ctx context.Context, slug string) (*domain.Article, error) {
	a, err := s.articles.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if a.Tags, err = s.tags.ListByArticle(ctx, a.ID); err != nil {
		return nil, err
	}
	return a, nil
}

// Detail returns a published article and records one view of it.
func (s *articleService) Detail(ctx context.Context, slug string) (d *ArticleDetail, err error) {
	startedAt := time.Now()
	fields := map[string]any{"slug": slug}
	defer func() {
		if d != nil {
			fields["hits"] = d.Hits
		}
		observe(ctx, s.observer, "article.detail", startedAt, fields, &err)
	}()

	now := time.Now().UTC()
	a, err := s.articles.GetPublishedBySlug(ctx, slug, now)
	if err != nil {
		return nil, err
	}
	hits, err := s.articles.IncrementHits(ctx, a.ID)
	if err != nil {
		return nil, err
	}
	s.metrics.ArticleHits.Increment()
	a.Hits = hits

	cat, err := s.categories.GetByID(ctx, a.CategoryID)
	if err != nil {
		return nil, err
	}
	sec, err := s.sections.GetByID(ctx, cat.SectionID)
	if err != nil {
		return nil, err
	}
	if a.Tags, err = s.tags.ListByArticle(ctx, a.ID); err != nil {
		return nil, err
	}
	prev, err := s.Previous(ctx, a)
	if err != nil {
		return nil, err
	}
	next, err := s.Next(ctx, a)
	if err != nil {
		return nil, err
	}
	return &ArticleDetail{
		Article:  a,
		Category: cat,
		Section:  sec,
		Tags:     a.Tags,
		Hits:     hits,
		Previous: prev,
		Next:     next,
	}, nil
}

func (s *articleService) Index(ctx context.Context) ([]*domain.Article, error) {
	return s.articles.ListPublished(ctx, time.Now().UTC(), indexSize)
}

// ListByCategory returns one page of the category's published articles.
// Out of range pages fall back to the last page.
func (s *articleService) ListByCategory(ctx context.Context, categorySlug string, page int) (*ArticlePage, error) {
	cat, err := s.categories.GetBySlug(ctx, categorySlug)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	count, err := s.articles.CountPublishedByCategory(ctx, cat.ID, now)
	if err != nil {
		return nil, err
	}
	p := paginate.New(count, s.articlePerPage).PageOrLast(page)
	articles, err := s.articles.ListPublishedByCategory(ctx, cat.ID, now, p.Limit, p.Offset)
	if err != nil {
		return nil, err
	}
	return &ArticlePage{Category: cat, Articles: articles, Page: p}, nil
}

// ListAll returns every article of the category, published or not.
func (s *articleService) ListAll(ctx context.Context, categorySlug string) ([]*domain.Article, error) {
	cat, err := s.categories.GetBySlug(ctx, categorySlug)
	if err != nil {
		return nil, err
	}
	return s.articles.ListByCategory(ctx, cat.ID)
}

func (s *articleService) ListByTag(ctx context.Context, tag string) ([]*domain.Article, error) {
	return s.articles.ListPublishedByTag(ctx, tag, time.Now().UTC())
}

func (s *articleService) Tags(ctx context.Context) ([]string, error) {
	return s.tags.List(ctx)
}

// Previous returns the nearest older published article, or nil.
func (s *articleService) Previous(ctx context.Context, a *domain.Article) (*domain.Article, error) {
	return noNeighbour(s.articles.PreviousPublished(ctx, a, time.Now().UTC()))
}

// Next returns the nearest newer published article, or nil.
func (s *articleService) Next(ctx context.Context, a *domain.Article) (*domain.Article, error) {
	return noNeighbour(s.articles.NextPublished(ctx, a, time.Now().UTC()))
}

func noNeighbour(a *domain.Article, err error) (*domain.Article, error) {
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	return a, err
}

func (s *articleService) SetTags(ctx context.Context, actor domain.Actor, slug string, tags []string) error {
	if !actor.Authenticated() {
		return ErrUnauthenticated
	}
	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		a, err := repository.NewSQLiteArticleRepo(tx).GetBySlug(ctx, slug)
		if err != nil {
			return err
		}
		return repository.NewSQLiteTagRepo(tx).SetArticleTags(ctx, a.ID, repository.NormalizeTags(tags))
	})
}

// Delete removes the article and its menu node. Only superusers may delete.
func (s *articleService) Delete(ctx context.Context, actor domain.Actor, slug string) (err error) {
	startedAt := time.Now()
	defer func() {
		observe(ctx, s.observer, "article.delete", startedAt,
			map[string]any{"slug": slug, "actor": actor.Username}, &err)
	}()

	if !actor.Authenticated() {
		return ErrUnauthenticated
	}
	if !actor.IsSuperuser {
		return fmt.Errorf("deleting article %q: %w", slug, ErrForbidden)
	}
	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txArticles := repository.NewSQLiteArticleRepo(tx)
		a, err := txArticles.GetBySlug(ctx, slug)
		if err != nil {
			return err
		}
		return txArticles.Delete(ctx, a.ID)
	})
}
