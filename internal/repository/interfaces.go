package repository

import (
	"context"
	"time"

	"github.com/alexanderramin/cmscontent/internal/domain"
)

type MenuNodeRepo interface {
	Create(ctx context.Context, n *domain.MenuNode) error
	GetByID(ctx context.Context, id int64) (*domain.MenuNode, error)
	ListChildren(ctx context.Context, parentID int64) ([]*domain.MenuNode, error)
	ListByKind(ctx context.Context, kind domain.NodeKind) ([]*domain.MenuNode, error)
	ListAll(ctx context.Context) ([]*domain.MenuNode, error)
	Delete(ctx context.Context, id int64) error
}

type MenuSequenceRepo interface {
	NextMenuID(ctx context.Context) (int64, error)
}

type SectionRepo interface {
	Create(ctx context.Context, s *domain.Section) error
	GetByID(ctx context.Context, id string) (*domain.Section, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Section, error)
	GetByMenuID(ctx context.Context, menuID int64) (*domain.Section, error)
	List(ctx context.Context) ([]*domain.Section, error)
	Update(ctx context.Context, s *domain.Section) error
	Delete(ctx context.Context, id string) error
}

type CategoryRepo interface {
	Create(ctx context.Context, c *domain.Category) error
	GetByID(ctx context.Context, id string) (*domain.Category, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Category, error)
	GetByMenuID(ctx context.Context, menuID int64) (*domain.Category, error)
	List(ctx context.Context) ([]*domain.Category, error)
	ListBySection(ctx context.Context, sectionID string, limit, offset int) ([]*domain.Category, error)
	CountBySection(ctx context.Context, sectionID string) (int, error)
	Update(ctx context.Context, c *domain.Category) error
	Delete(ctx context.Context, id string) error
}

// ArticleRepo stores articles. Methods named Published only return articles
// with status pub whose publish window contains now.
type ArticleRepo interface {
	Create(ctx context.Context, a *domain.Article) error
	GetByID(ctx context.Context, id string) (*domain.Article, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Article, error)
	GetByMenuID(ctx context.Context, menuID int64) (*domain.Article, error)
	GetPublishedBySlug(ctx context.Context, slug string, now time.Time) (*domain.Article, error)
	ListByCategory(ctx context.Context, categoryID string) ([]*domain.Article, error)
	ListPublished(ctx context.Context, now time.Time, limit int) ([]*domain.Article, error)
	ListPublishedByCategory(ctx context.Context, categoryID string, now time.Time, limit, offset int) ([]*domain.Article, error)
	CountPublishedByCategory(ctx context.Context, categoryID string, now time.Time) (int, error)
	ListPublishedByTag(ctx context.Context, tag string, now time.Time) ([]*domain.Article, error)
	PreviousPublished(ctx context.Context, a *domain.Article, now time.Time) (*domain.Article, error)
	NextPublished(ctx context.Context, a *domain.Article, now time.Time) (*domain.Article, error)
	IncrementHits(ctx context.Context, id string) (int, error)
	Update(ctx context.Context, a *domain.Article) error
	Delete(ctx context.Context, id string) error
}

type TagRepo interface {
	SetArticleTags(ctx context.Context, articleID string, tags []string) error
	ListByArticle(ctx context.Context, articleID string) ([]string, error)
	List(ctx context.Context) ([]string, error)
}

type CommentRepo interface {
	Create(ctx context.Context, c *domain.Comment) error
	GetByID(ctx context.Context, id string) (*domain.Comment, error)
	ListByArticle(ctx context.Context, articleID string, publicOnly bool) ([]*domain.Comment, error)
	SetPublic(ctx context.Context, id string, public bool) error
	AddFlag(ctx context.Context, f *domain.CommentFlag) error
	ListFlags(ctx context.Context, commentID string) ([]*domain.CommentFlag, error)
}
