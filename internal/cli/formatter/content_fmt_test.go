package formatter

import (
	"regexp"
	"testing"
	"time"

	"github.com/alexanderramin/cmscontent/internal/domain"
	"github.com/alexanderramin/cmscontent/internal/paginate"
	"github.com/alexanderramin/cmscontent/internal/service"
	"github.com/stretchr/testify/assert"
)

var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*m`)

func stripANSI(s string) string {
	return ansiPattern.ReplaceAllString(s, "")
}

func ptr(v int64) *int64 { return &v }

func sampleArticle() *domain.Article {
	created := time.Date(2024, 5, 6, 9, 0, 0, 0, time.UTC)
	return &domain.Article{
		Title:          "Hello World",
		Slug:           "hello",
		Content:        "<p>First <b>post</b></p>",
		CreatedBy:      "editor",
		CreatedAt:      created,
		LastModifiedBy: "editor",
		LastModifiedAt: created,
		PubStatus:      domain.PubPublished,
		Hits:           3,
		PubStart:       created,
		PubEnd:         domain.DefaultPubEnd,
		MenuID:         3,
		Tags:           []string{"go", "news"},
	}
}

func TestFormatSectionList(t *testing.T) {
	out := stripANSI(FormatSectionList([]*domain.Section{
		{Name: "News", Slug: "news", MenuID: 1},
		{Name: "Sport", Slug: "sport", MenuID: 4},
	}, "/cms/"))

	assert.Contains(t, out, "SECTIONS")
	assert.Contains(t, out, "News")
	assert.Contains(t, out, "/cms/section/sport/")
}

func TestFormatSectionList_Empty(t *testing.T) {
	assert.Contains(t, stripANSI(FormatSectionList(nil, "/cms/")), "No sections yet.")
}

func TestFormatSectionDetail(t *testing.T) {
	out := stripANSI(FormatSectionDetail(&service.SectionDetail{
		Section:    &domain.Section{Name: "News", Slug: "news", Description: "All the news", MenuID: 1},
		Categories: []*domain.Category{{Name: "Local", Slug: "local", MenuID: 2}},
	}, "/cms/"))

	assert.Contains(t, out, "All the news")
	assert.Contains(t, out, "#1")
	assert.Contains(t, out, "Local")
	assert.Contains(t, out, "/cms/category/local/")
}

func TestFormatCategoryDetail_ShowsPager(t *testing.T) {
	out := stripANSI(FormatCategoryDetail(&service.CategoryDetail{
		Category: &domain.Category{Name: "Local", Slug: "local", MenuID: 2},
		Section:  &domain.Section{Name: "News"},
		Articles: []*domain.Article{sampleArticle()},
		Page:     paginate.New(5, 2).PageOrLast(2),
	}, "/cms/"))

	assert.Contains(t, out, "Hello World")
	assert.Contains(t, out, "Page 2 of 3")
	assert.Contains(t, out, "--page 1")
	assert.Contains(t, out, "--page 3")
}

func TestFormatPager_SinglePage(t *testing.T) {
	out := stripANSI(FormatPager(paginate.New(1, 10).PageOrLast(1)))
	assert.Equal(t, "Page 1 of 1\n", out)
}

func TestFormatArticleList_Excerpt(t *testing.T) {
	out := stripANSI(FormatArticleList([]*domain.Article{sampleArticle()}, "/cms/"))

	assert.Contains(t, out, "First post")
	assert.NotContains(t, out, "<p>")
	assert.Contains(t, out, "published")
}

func TestFormatArticleDetail(t *testing.T) {
	a := sampleArticle()
	out := stripANSI(FormatArticleDetail(a, &domain.Category{Name: "Local"}, "First **post**", "/cms/"))

	assert.Contains(t, out, "HELLO WORLD")
	assert.Contains(t, out, "Local")
	assert.Contains(t, out, "go, news")
	assert.Contains(t, out, "May 6, 2024 → Dec 31, 2030")
	assert.Contains(t, out, "/cms/article/2024/05/06/hello/")
	assert.Contains(t, out, "First **post**")
}

func TestFormatNeighbours(t *testing.T) {
	prev := &domain.Article{Title: "Older"}
	next := &domain.Article{Title: "Newer"}

	assert.Equal(t, "← Older  |  Newer →\n", stripANSI(FormatNeighbours(prev, next)))
	assert.Equal(t, "Newer →\n", stripANSI(FormatNeighbours(nil, next)))
	assert.Empty(t, FormatNeighbours(nil, nil))
}

func TestFormatMenuTree(t *testing.T) {
	nodes := []*domain.NavNode{
		{ID: 1, Kind: domain.NodeSection, Title: "News", URL: "/cms/section/news/"},
		{ID: 2, ParentID: ptr(1), Kind: domain.NodeCategory, Title: "Local", URL: "/cms/category/local/"},
		{ID: 3, ParentID: ptr(2), Kind: domain.NodeArticle, Title: "Hello", URL: "/cms/article/2024/05/06/hello/"},
		{ID: 4, Kind: domain.NodeSection, Title: "Sport", URL: "/cms/section/sport/"},
	}
	out := stripANSI(FormatMenuTree(domain.BuildMenuTree(nodes)))

	assert.Contains(t, out, "#1 News")
	assert.Contains(t, out, "└─ #2 Local")
	assert.Contains(t, out, "   └─ #3 Hello")
	assert.Contains(t, out, "#4 Sport")
	assert.Contains(t, out, "/cms/category/local/")
}

func TestFormatMenuTree_Empty(t *testing.T) {
	assert.Contains(t, stripANSI(FormatMenuTree(nil)), "Menu is empty.")
}

func TestFormatMenuEntry(t *testing.T) {
	root := &domain.MenuNode{ID: 1, Kind: domain.NodeSection}
	out := stripANSI(FormatMenuEntry(root, &domain.MenuEntry{
		NodeID: 1, Kind: domain.NodeSection, URL: "/cms/section/news/", Label: "News", Anchor: true,
	}))
	assert.Contains(t, out, "none (root)")
	assert.Contains(t, out, "<a href='/cms/section/news/'>News</a>")

	child := &domain.MenuNode{ID: 2, ParentID: ptr(1), Kind: domain.NodeCategory}
	out = stripANSI(FormatMenuEntry(child, &domain.MenuEntry{
		NodeID: 2, Kind: domain.NodeCategory, URL: "/cms/category/local/", Label: "Local",
	}))
	assert.Contains(t, out, "#1")
	assert.Contains(t, out, "/cms/category/local/")
	assert.NotContains(t, out, "<a href")
}

func TestFormatComments_MarksHidden(t *testing.T) {
	out := stripANSI(FormatComments([]*domain.Comment{
		{UserName: "ann", Body: "Nice", IsPublic: true, CreatedAt: time.Now()},
		{UserName: "bot", Body: "Buy now", IsPublic: false, CreatedAt: time.Now()},
	}))

	assert.Contains(t, out, "ann")
	assert.Contains(t, out, "bot [hidden]")
	assert.NotContains(t, out, "ann [hidden]")
}

func TestFormatTags(t *testing.T) {
	assert.Equal(t, "#go  #news\n", stripANSI(FormatTags([]string{"go", "news"})))
	assert.Contains(t, stripANSI(FormatTags(nil)), "No tags.")
}

func TestPublishWindowNote(t *testing.T) {
	now := time.Date(2026, 2, 7, 12, 0, 0, 0, time.UTC)

	open := stripANSI(publishWindowNote(now.AddDate(0, 0, -1), domain.DefaultPubEnd, now))
	assert.Equal(t, "Feb 6, 2026 → Dec 31, 2030", open)

	future := stripANSI(publishWindowNote(now.AddDate(0, 0, 3), domain.DefaultPubEnd, now))
	assert.Contains(t, future, "(opens in 3d)")

	closed := stripANSI(publishWindowNote(now.AddDate(0, 0, -30), now.AddDate(0, 0, -14), now))
	assert.Contains(t, closed, "(closed 2w ago)")
}
