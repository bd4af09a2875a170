package service

import (
	"context"
	"time"

	"github.com/alexanderramin/cmscontent/internal/domain"
	"github.com/alexanderramin/cmscontent/internal/paginate"
)

// MenuService is the menu node registry: it allocates node ids and maps
// nodes back to the content that owns them.
type MenuService interface {
	Allocate(ctx context.Context, kind domain.NodeKind, parentID *int64) (*domain.MenuNode, error)
	Get(ctx context.Context, id int64) (*domain.MenuNode, error)
	ListChildren(ctx context.Context, parentID int64) ([]*domain.MenuNode, error)
	ListByKind(ctx context.Context, kind domain.NodeKind) ([]*domain.MenuNode, error)
	ResolveEntry(ctx context.Context, node *domain.MenuNode) (*domain.MenuEntry, error)
	FindParent(nodes []*domain.NavNode, name string) *domain.NavNode
	Nodes(ctx context.Context) ([]*domain.NavNode, error)
	Tree(ctx context.Context) ([]*domain.MenuTreeNode, error)
}

type SectionService interface {
	Create(ctx context.Context, s *domain.Section) error
	GetBySlug(ctx context.Context, slug string) (*domain.Section, error)
	List(ctx context.Context) ([]*domain.Section, error)
	Detail(ctx context.Context, slug string) (*SectionDetail, error)
	Update(ctx context.Context, s *domain.Section) error
	Delete(ctx context.Context, slug string) error
}

type CategoryService interface {
	Create(ctx context.Context, c *domain.Category) error
	GetBySlug(ctx context.Context, slug string) (*domain.Category, error)
	ListBySection(ctx context.Context, sectionSlug string, page int) (*CategoryPage, error)
	Detail(ctx context.Context, slug string, page int) (*CategoryDetail, error)
	Update(ctx context.Context, c *domain.Category) error
	Delete(ctx context.Context, slug string) error
}

type ArticleService interface {
	Create(ctx context.Context, actor domain.Actor, in ArticleInput) (*domain.Article, error)
	Update(ctx context.Context, actor domain.Actor, a *domain.Article) error
	Get(ctx context.Context, slug string) (*domain.Article, error)
	Detail(ctx context.Context, slug string) (*ArticleDetail, error)
	Index(ctx context.Context) ([]*domain.Article, error)
	ListByCategory(ctx context.Context, categorySlug string, page int) (*ArticlePage, error)
	ListAll(ctx context.Context, categorySlug string) ([]*domain.Article, error)
	ListByTag(ctx context.Context, tag string) ([]*domain.Article, error)
	Tags(ctx context.Context) ([]string, error)
	Previous(ctx context.Context, a *domain.Article) (*domain.Article, error)
	Next(ctx context.Context, a *domain.Article) (*domain.Article, error)
	SetTags(ctx context.Context, actor domain.Actor, slug string, tags []string) error
	Delete(ctx context.Context, actor domain.Actor, slug string) error
}

type CommentService interface {
	Post(ctx context.Context, req CommentRequest) (*domain.Comment, error)
	ListPublic(ctx context.Context, articleSlug string) ([]*domain.Comment, error)
	ListAll(ctx context.Context, articleSlug string) ([]*domain.Comment, error)
}

// SectionDetail is a section with its categories.
type SectionDetail struct {
	Section    *domain.Section
	Categories []*domain.Category
}

// CategoryPage is one page of a section's categories.
type CategoryPage struct {
	Section    *domain.Section
	Categories []*domain.Category
	Page       paginate.Page
}

// CategoryDetail is a category, its section and one page of its published
// articles.
type CategoryDetail struct {
	Category *domain.Category
	Section  *domain.Section
	Articles []*domain.Article
	Page     paginate.Page
}

// ArticlePage is one page of published articles.
type ArticlePage struct {
	Category *domain.Category
	Articles []*domain.Article
	Page     paginate.Page
}

// ArticleInput carries the author-supplied fields of a new article.
// Zero publish fields take the article defaults.
type ArticleInput struct {
	Title        string
	Slug         string
	Content      string
	CategorySlug string
	Tags         []string
	PubStatus    domain.PubStatus
	PubStart     time.Time
	PubEnd       time.Time
}

// ArticleDetail is a published article with its context. Hits is the
// counter after this view was recorded.
type ArticleDetail struct {
	Article  *domain.Article
	Category *domain.Category
	Section  *domain.Section
	Tags     []string
	Hits     int
	Previous *domain.Article
	Next     *domain.Article
}

// CommentRequest is a reader comment as received from the client.
type CommentRequest struct {
	ArticleSlug string
	UserName    string
	Body        string
	UserIP      string
	UserAgent   string
	Referrer    string
}
