package testutil

import (
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/alexanderramin/cmscontent/internal/domain"
	"github.com/google/uuid"
)

var testSlugCounter atomic.Int64

func defaultSlug(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '_':
			b.WriteRune('-')
		}
	}
	n := testSlugCounter.Add(1)
	return fmt.Sprintf("%s-%d", strings.Trim(b.String(), "-"), n)
}

// Section options
type SectionOption func(*domain.Section)

func WithSectionSlug(slug string) SectionOption {
	return func(s *domain.Section) {
		s.Slug = slug
	}
}

func WithSectionMenuID(id int64) SectionOption {
	return func(s *domain.Section) {
		s.MenuID = id
	}
}

func NewTestSection(name string, opts ...SectionOption) *domain.Section {
	s := &domain.Section{
		ID:          uuid.New().String(),
		Name:        name,
		Slug:        defaultSlug(name),
		Description: name + " description",
		CreatedAt:   time.Now().UTC(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Category options
type CategoryOption func(*domain.Category)

func WithCategorySlug(slug string) CategoryOption {
	return func(c *domain.Category) {
		c.Slug = slug
	}
}

func WithCategoryMenuID(id int64) CategoryOption {
	return func(c *domain.Category) {
		c.MenuID = id
	}
}

func WithCategoryCreatedAt(t time.Time) CategoryOption {
	return func(c *domain.Category) {
		c.CreatedAt = t
	}
}

func NewTestCategory(sectionID, name string, opts ...CategoryOption) *domain.Category {
	c := &domain.Category{
		ID:          uuid.New().String(),
		Name:        name,
		Slug:        defaultSlug(name),
		SectionID:   sectionID,
		Description: name + " description",
		CreatedAt:   time.Now().UTC(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Article options
type ArticleOption func(*domain.Article)

func WithArticleSlug(slug string) ArticleOption {
	return func(a *domain.Article) {
		a.Slug = slug
	}
}

func WithArticleMenuID(id int64) ArticleOption {
	return func(a *domain.Article) {
		a.MenuID = id
	}
}

func WithArticleStatus(s domain.PubStatus) ArticleOption {
	return func(a *domain.Article) {
		a.PubStatus = s
	}
}

func WithArticleCreatedAt(t time.Time) ArticleOption {
	return func(a *domain.Article) {
		a.CreatedAt = t
		a.LastModifiedAt = t
	}
}

func WithPublishWindow(start, end time.Time) ArticleOption {
	return func(a *domain.Article) {
		a.PubStart = start
		a.PubEnd = end
	}
}

func WithAuthor(username string) ArticleOption {
	return func(a *domain.Article) {
		a.CreatedBy = username
		a.LastModifiedBy = username
	}
}

func WithTags(tags ...string) ArticleOption {
	return func(a *domain.Article) {
		a.Tags = tags
	}
}

// NewTestArticle returns a published article whose window opened a day ago.
func NewTestArticle(categoryID, title string, opts ...ArticleOption) *domain.Article {
	now := time.Now().UTC()
	a := &domain.Article{
		ID:             uuid.New().String(),
		Title:          title,
		Slug:           defaultSlug(title),
		Content:        "<p>" + title + " body</p>",
		CreatedBy:      "editor",
		CreatedAt:      now,
		LastModifiedBy: "editor",
		LastModifiedAt: now,
		CategoryID:     categoryID,
		PubStatus:      domain.PubPublished,
		Hits:           domain.DefaultHits,
		PubStart:       now.AddDate(0, 0, -1),
		PubEnd:         domain.DefaultPubEnd,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Comment options
type CommentOption func(*domain.Comment)

func WithCommentPublic(public bool) CommentOption {
	return func(c *domain.Comment) {
		c.IsPublic = public
	}
}

func WithCommentUser(name string) CommentOption {
	return func(c *domain.Comment) {
		c.UserName = name
	}
}

func NewTestComment(articleID, body string, opts ...CommentOption) *domain.Comment {
	c := &domain.Comment{
		ID:        uuid.New().String(),
		ArticleID: articleID,
		UserName:  "reader",
		Body:      body,
		UserIP:    "127.0.0.1",
		UserAgent: "test-agent",
		IsPublic:  true,
		CreatedAt: time.Now().UTC(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}
