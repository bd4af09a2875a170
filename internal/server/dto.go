package server

import (
	"time"

	"github.com/alexanderramin/cmscontent/internal/domain"
	"github.com/alexanderramin/cmscontent/internal/paginate"
	"github.com/alexanderramin/cmscontent/internal/richtext"
)

const excerptRunes = 200

type sectionJSON struct {
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
	Image       string `json:"image,omitempty"`
	MenuID      int64  `json:"menu_id"`
	URL         string `json:"url"`
}

type categoryJSON struct {
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
	Image       string `json:"image,omitempty"`
	MenuID      int64  `json:"menu_id"`
	URL         string `json:"url"`
}

type articleJSON struct {
	Title     string    `json:"title"`
	Slug      string    `json:"slug"`
	URL       string    `json:"url"`
	MenuID    int64     `json:"menu_id"`
	CreatedBy string    `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
	Excerpt   string    `json:"excerpt,omitempty"`
	Content   string    `json:"content,omitempty"`
	Hits      int       `json:"hits,omitempty"`
	Tags      []string  `json:"tags,omitempty"`
}

type pageJSON struct {
	Number      int  `json:"number"`
	NumPages    int  `json:"num_pages"`
	HasNext     bool `json:"has_next"`
	HasPrevious bool `json:"has_previous"`
}

type menuNodeJSON struct {
	ID       int64          `json:"id"`
	Kind     string         `json:"kind"`
	Title    string         `json:"title"`
	URL      string         `json:"url"`
	Children []menuNodeJSON `json:"children,omitempty"`
}

type menuEntryJSON struct {
	ID       int64  `json:"id"`
	ParentID *int64 `json:"parent_id"`
	Kind     string `json:"kind"`
	Label    string `json:"label"`
	URL      string `json:"url"`
	Entry    string `json:"entry"`
}

type commentJSON struct {
	ID        string    `json:"id"`
	UserName  string    `json:"user_name"`
	Body      string    `json:"body"`
	Public    bool      `json:"public"`
	CreatedAt time.Time `json:"created_at"`
}

func (a *API) toSectionJSON(s *domain.Section) sectionJSON {
	return sectionJSON{
		Name:        s.Name,
		Slug:        s.Slug,
		Description: s.Description,
		Image:       s.Image,
		MenuID:      s.MenuID,
		URL:         s.URL(a.RootURL),
	}
}

func (a *API) toCategoryJSON(c *domain.Category) categoryJSON {
	return categoryJSON{
		Name:        c.Name,
		Slug:        c.Slug,
		Description: c.Description,
		Image:       c.Image,
		MenuID:      c.MenuID,
		URL:         c.URL(a.RootURL),
	}
}

// toArticleJSON renders art; full includes the body, hits and tags instead
// of an excerpt.
func (a *API) toArticleJSON(art *domain.Article, full bool) articleJSON {
	out := articleJSON{
		Title:     art.Title,
		Slug:      art.Slug,
		URL:       art.URL(a.RootURL),
		MenuID:    art.MenuID,
		CreatedBy: art.CreatedBy,
		CreatedAt: art.CreatedAt,
	}
	if full {
		out.Content = art.Content
		out.Hits = art.Hits
		out.Tags = art.Tags
	} else {
		out.Excerpt = richtext.Excerpt(art.Content, excerptRunes)
	}
	return out
}

func (a *API) articleList(articles []*domain.Article) []articleJSON {
	out := make([]articleJSON, 0, len(articles))
	for _, art := range articles {
		out = append(out, a.toArticleJSON(art, false))
	}
	return out
}

func toPageJSON(p paginate.Page) pageJSON {
	return pageJSON{
		Number:      p.Number,
		NumPages:    p.NumPages,
		HasNext:     p.HasNext,
		HasPrevious: p.HasPrevious,
	}
}

func toMenuJSON(nodes []*domain.MenuTreeNode) []menuNodeJSON {
	out := make([]menuNodeJSON, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, menuNodeJSON{
			ID:       n.ID,
			Kind:     string(n.Kind),
			Title:    n.Title,
			URL:      n.URL,
			Children: toMenuJSON(n.Children),
		})
	}
	return out
}

func toCommentJSON(c *domain.Comment) commentJSON {
	return commentJSON{
		ID:        c.ID,
		UserName:  c.UserName,
		Body:      c.Body,
		Public:    c.IsPublic,
		CreatedAt: c.CreatedAt,
	}
}
