package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/cmscontent/internal/db"
	"github.com/alexanderramin/cmscontent/internal/domain"
	"github.com/alexanderramin/cmscontent/internal/metric"
	"github.com/alexanderramin/cmscontent/internal/paginate"
	"github.com/alexanderramin/cmscontent/internal/repository"
	"github.com/google/uuid"
)

type categoryService struct {
	sections        repository.SectionRepo
	categories      repository.CategoryRepo
	articles        repository.ArticleRepo
	uow             db.UnitOfWork
	categoryPerPage int
	articlePerPage  int
	metrics         *metric.Metrics
	observer        UseCaseObserver
}

func NewCategoryService(
	sections repository.SectionRepo,
	categories repository.CategoryRepo,
	articles repository.ArticleRepo,
	uow db.UnitOfWork,
	categoryPerPage, articlePerPage int,
	metrics *metric.Metrics,
	observers ...UseCaseObserver,
) CategoryService {
	if metrics == nil {
		metrics = metric.NoopMetrics()
	}
	return &categoryService{
		sections:        sections,
		categories:      categories,
		articles:        articles,
		uow:             uow,
		categoryPerPage: categoryPerPage,
		articlePerPage:  articlePerPage,
		metrics:         metrics,
		observer:        useCaseObserverOrNoop(observers),
	}
}

// Create stores c with a menu node under its section's node.
func (s *categoryService) Create(ctx context.Context, c *domain.Category) (err error) {
	startedAt := time.Now()
	fields := map[string]any{"slug": c.Slug}
	defer func() { observe(ctx, s.observer, "category.create", startedAt, fields, &err) }()

	if err := c.Validate(); err != nil {
		return err
	}
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	c.CreatedAt = now

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		sec, err := repository.NewSQLiteSectionRepo(tx).GetByID(ctx, c.SectionID)
		if err != nil {
			return fmt.Errorf("category section %s: %w", c.SectionID, err)
		}
		node, err := allocateNode(ctx, tx, domain.NodeCategory, &sec.MenuID, now)
		if err != nil {
			return err
		}
		c.MenuID = node.ID
		return repository.NewSQLiteCategoryRepo(tx).Create(ctx, c)
	})
	if err != nil {
		c.MenuID = 0
		return err
	}
	fields["menu_id"] = c.MenuID
	s.metrics.MenuNodesAllocated.Increment(string(domain.NodeCategory))
	return nil
}

func (s *categoryService) GetBySlug(ctx context.Context, slug string) (*domain.Category, error) {
	return s.categories.GetBySlug(ctx, slug)
}

// ListBySection returns one page of the section's categories. Out of range
// pages fall back to the last page.
func (s *categoryService) ListBySection(ctx context.Context, sectionSlug string, page int) (*CategoryPage, error) {
	sec, err := s.sections.GetBySlug(ctx, sectionSlug)
	if err != nil {
		return nil, err
	}
	count, err := s.categories.CountBySection(ctx, sec.ID)
	if err != nil {
		return nil, err
	}
	p := paginate.New(count, s.categoryPerPage).PageOrLast(page)
	cats, err := s.categories.ListBySection(ctx, sec.ID, p.Limit, p.Offset)
	if err != nil {
		return nil, err
	}
	return &CategoryPage{Section: sec, Categories: cats, Page: p}, nil
}

// Detail returns the category with one page of its published articles.
// Out of range pages fall back to the last page.
func (s *categoryService) Detail(ctx context.Context, slug string, page int) (*CategoryDetail, error) {
	cat, err := s.categories.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	sec, err := s.sections.GetByID(ctx, cat.SectionID)
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
	return &CategoryDetail{Category: cat, Section: sec, Articles: articles, Page: p}, nil
}

func (s *categoryService) Update(ctx context.Context, c *domain.Category) error {
	if err := c.Validate(); err != nil {
		return err
	}
	return s.categories.Update(ctx, c)
}

// Delete removes the category with its node and articles.
func (s *categoryService) Delete(ctx context.Context, slug string) (err error) {
	startedAt := time.Now()
	defer func() {
		observe(ctx, s.observer, "category.delete", startedAt, map[string]any{"slug": slug}, &err)
	}()

	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txCategories := repository.NewSQLiteCategoryRepo(tx)
		cat, err := txCategories.GetBySlug(ctx, slug)
		if err != nil {
			return err
		}
		return txCategories.Delete(ctx, cat.ID)
	})
}
