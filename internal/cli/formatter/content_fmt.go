package formatter

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/alexanderramin/cmscontent/internal/domain"
	"github.com/alexanderramin/cmscontent/internal/paginate"
	"github.com/alexanderramin/cmscontent/internal/richtext"
	"github.com/alexanderramin/cmscontent/internal/service"
)

const (
	listExcerptRunes = 60
	listTitleRunes   = 48
)

// FormatSectionList renders sections as a table.
func FormatSectionList(sections []*domain.Section, rootURL string) string {
	if len(sections) == 0 {
		return Dim("No sections yet.") + "\n"
	}
	rows := make([][]string, 0, len(sections))
	for _, s := range sections {
		rows = append(rows, []string{
			StyleDim.Render(strconv.FormatInt(s.MenuID, 10)),
			Bold(s.Name),
			s.Slug,
			StyleBlue.Render(s.URL(rootURL)),
		})
	}
	return Header("Sections") + "\n" + RenderTable([]string{"MENU", "NAME", "SLUG", "URL"}, rows)
}

// FormatSectionDetail renders a section box followed by its categories.
func FormatSectionDetail(d *service.SectionDetail, rootURL string) string {
	s := d.Section
	fields := [][2]string{
		{"Slug", s.Slug},
		{"URL", StyleBlue.Render(s.URL(rootURL))},
		{"Menu node", fmt.Sprintf("#%d", s.MenuID)},
		{"Created", HumanDate(s.CreatedAt)},
	}
	if s.Image != "" {
		fields = append(fields, [2]string{"Image", s.Image})
	}
	var b strings.Builder
	b.WriteString(RenderBox(s.Name, s.Description+"\n\n"+strings.TrimRight(RenderFields(fields), "\n")))
	b.WriteString("\n\n")
	b.WriteString(FormatCategoryList(d.Categories, nil, rootURL))
	return b.String()
}

// FormatCategoryList renders categories as a table with an optional pager
// line.
func FormatCategoryList(cats []*domain.Category, page *paginate.Page, rootURL string) string {
	if len(cats) == 0 {
		return Dim("No categories.") + "\n"
	}
	rows := make([][]string, 0, len(cats))
	for _, c := range cats {
		rows = append(rows, []string{
			StyleDim.Render(strconv.FormatInt(c.MenuID, 10)),
			StylePurple.Render(c.Name),
			c.Slug,
			StyleBlue.Render(c.URL(rootURL)),
		})
	}
	out := Header("Categories") + "\n" + RenderTable([]string{"MENU", "NAME", "SLUG", "URL"}, rows)
	if page != nil {
		out += FormatPager(*page)
	}
	return out
}

// FormatCategoryDetail renders a category with one page of its articles.
func FormatCategoryDetail(d *service.CategoryDetail, rootURL string) string {
	c := d.Category
	fields := [][2]string{
		{"Section", d.Section.Name},
		{"Slug", c.Slug},
		{"URL", StyleBlue.Render(c.URL(rootURL))},
		{"Menu node", fmt.Sprintf("#%d", c.MenuID)},
	}
	var b strings.Builder
	b.WriteString(RenderBox(c.Name, c.Description+"\n\n"+strings.TrimRight(RenderFields(fields), "\n")))
	b.WriteString("\n\n")
	b.WriteString(FormatArticleList(d.Articles, rootURL))
	b.WriteString(FormatPager(d.Page))
	return b.String()
}

// FormatArticleList renders articles newest first with status and excerpt.
func FormatArticleList(articles []*domain.Article, rootURL string) string {
	if len(articles) == 0 {
		return Dim("No articles.") + "\n"
	}
	rows := make([][]string, 0, len(articles))
	for _, a := range articles {
		rows = append(rows, []string{
			HumanDate(a.CreatedAt),
			Bold(Truncate(a.Title, listTitleRunes)),
			a.Slug,
			PubStatusPill(a.PubStatus),
			Dim(richtext.Excerpt(a.Content, listExcerptRunes)),
		})
	}
	return Header("Articles") + "\n" + RenderTable([]string{"DATE", "TITLE", "SLUG", "STATUS", "EXCERPT"}, rows)
}

// FormatArticleDetail renders an article with its body as markdown.
func FormatArticleDetail(a *domain.Article, cat *domain.Category, body string, rootURL string) string {
	fields := [][2]string{
		{"Author", a.CreatedBy},
		{"Created", HumanDate(a.CreatedAt)},
		{"Modified", fmt.Sprintf("%s by %s", HumanTimestamp(a.LastModifiedAt), a.LastModifiedBy)},
		{"Status", PubStatusPill(a.PubStatus)},
		{"Window", publishWindowNote(a.PubStart, a.PubEnd, time.Now())},
		{"Hits", strconv.Itoa(a.Hits)},
		{"URL", StyleBlue.Render(a.URL(rootURL))},
	}
	if cat != nil {
		fields = append([][2]string{{"Category", cat.Name}}, fields...)
	}
	if len(a.Tags) > 0 {
		fields = append(fields, [2]string{"Tags", StylePurple.Render(strings.Join(a.Tags, ", "))})
	}
	return RenderBox(a.Title, strings.TrimRight(RenderFields(fields), "\n")) + "\n\n" + strings.TrimSpace(body) + "\n"
}

// publishWindowNote adds a relative hint when the window has not opened yet
// or has already closed.
func publishWindowNote(start, end, now time.Time) string {
	w := PublishWindow(start, end)
	switch {
	case start.After(now):
		return w + Dim(" (opens "+strings.ToLower(RelativeDateFrom(start, now))+")")
	case end.Before(now):
		return w + Dim(" (closed "+strings.ToLower(RelativeDateFrom(end, now))+")")
	}
	return w
}

// FormatNeighbours renders previous/next links under an article.
func FormatNeighbours(prev, next *domain.Article) string {
	var parts []string
	if prev != nil {
		parts = append(parts, Dim("← ")+prev.Title)
	}
	if next != nil {
		parts = append(parts, next.Title+Dim(" →"))
	}
	if len(parts) == 0 {
		return ""
	}
	return strings.Join(parts, Dim("  |  ")) + "\n"
}

// FormatPager renders "Page 2 of 5" with navigation hints.
func FormatPager(p paginate.Page) string {
	line := fmt.Sprintf("Page %d of %d", p.Number, p.NumPages)
	var hints []string
	if p.HasPrevious {
		hints = append(hints, fmt.Sprintf("--page %d", p.Number-1))
	}
	if p.HasNext {
		hints = append(hints, fmt.Sprintf("--page %d", p.Number+1))
	}
	if len(hints) > 0 {
		line += "  " + Dim("("+strings.Join(hints, ", ")+")")
	}
	return line + "\n"
}

// FormatMenuTree renders the navigation tree.
func FormatMenuTree(tree []*domain.MenuTreeNode) string {
	if len(tree) == 0 {
		return Dim("Menu is empty.") + "\n"
	}
	return Header("Menu") + "\n" + RenderTree(FlattenMenuTree(tree))
}

// FormatMenuEntry renders a resolved node.
func FormatMenuEntry(node *domain.MenuNode, entry *domain.MenuEntry) string {
	parent := "none (root)"
	if node.ParentID != nil {
		parent = fmt.Sprintf("#%d", *node.ParentID)
	}
	return RenderFields([][2]string{
		{"Node", fmt.Sprintf("#%d", node.ID)},
		{"Kind", KindColor(node.Kind).Render(string(node.Kind))},
		{"Parent", parent},
		{"Label", entry.Label},
		{"Entry", entry.String()},
	})
}

// FormatComments renders comments oldest first. Hidden comments are marked.
func FormatComments(comments []*domain.Comment) string {
	if len(comments) == 0 {
		return Dim("No comments.") + "\n"
	}
	var b strings.Builder
	b.WriteString(Header("Comments") + "\n")
	for _, c := range comments {
		who := Bold(c.UserName)
		if !c.IsPublic {
			who += " " + StyleRed.Render("[hidden]")
		}
		fmt.Fprintf(&b, "%s %s\n  %s\n", who, Dim(HumanTimestamp(c.CreatedAt)), c.Body)
	}
	return b.String()
}

// FormatTags renders a tag list.
func FormatTags(tags []string) string {
	if len(tags) == 0 {
		return Dim("No tags.") + "\n"
	}
	styled := make([]string, len(tags))
	for i, t := range tags {
		styled[i] = StylePurple.Render("#" + t)
	}
	return strings.Join(styled, "  ") + "\n"
}
