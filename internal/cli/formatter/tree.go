package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/cmscontent/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// TreeItem is one line of a tree display.
type TreeItem struct {
	Title  string
	ID     int64 // menu node id; 0 means don't display
	Kind   domain.NodeKind
	Level  int
	IsLast bool
	Detail string
}

const (
	treeBranch = "├─ "
	treeCorner = "└─ "
	treePipe   = "│  "
	treeSpace  = "   "
)

// FlattenMenuTree turns nested menu nodes into depth-first TreeItems.
func FlattenMenuTree(roots []*domain.MenuTreeNode) []TreeItem {
	var items []TreeItem
	var walk func(nodes []*domain.MenuTreeNode, level int)
	walk = func(nodes []*domain.MenuTreeNode, level int) {
		for i, n := range nodes {
			items = append(items, TreeItem{
				Title:  n.Title,
				ID:     n.ID,
				Kind:   n.Kind,
				Level:  level,
				IsLast: i == len(nodes)-1,
				Detail: n.URL,
			})
			walk(n.Children, level+1)
		}
	}
	walk(roots, 0)
	return items
}

// RenderTree renders TreeItems as an indented tree with box-drawing
// connectors. Detail badges are right-aligned.
func RenderTree(items []TreeItem) string {
	if len(items) == 0 {
		return ""
	}

	type lineInfo struct {
		content string
		badge   string
	}

	lines := make([]lineInfo, len(items))
	maxContentWidth := 0

	// open[l] reports whether the ancestor at level l still has siblings
	// below, which decides between a pipe and blank indent.
	var open []bool
	for idx, item := range items {
		if item.Level < len(open) {
			open = open[:item.Level]
		}
		var prefix string
		if item.Level > 0 {
			for i := 1; i < item.Level; i++ {
				if i < len(open) && open[i] {
					prefix += treePipe
				} else {
					prefix += treeSpace
				}
			}
			if item.IsLast {
				prefix += treeCorner
			} else {
				prefix += treeBranch
			}
		}
		for len(open) <= item.Level {
			open = append(open, false)
		}
		open[item.Level] = !item.IsLast

		title := KindColor(item.Kind).Render(item.Title)
		if item.ID > 0 {
			title = StyleDim.Render(fmt.Sprintf("#%d ", item.ID)) + title
		}

		content := prefix + title
		lines[idx].content = content
		if item.Detail != "" {
			lines[idx].badge = StyleBlue.Render(item.Detail)
		}
		if w := lipgloss.Width(content); w > maxContentWidth {
			maxContentWidth = w
		}
	}

	var b strings.Builder
	for _, li := range lines {
		if li.badge != "" {
			pad := maxContentWidth - lipgloss.Width(li.content)
			if pad < 0 {
				pad = 0
			}
			b.WriteString(li.content + strings.Repeat(" ", pad) + "  " + li.badge + "\n")
		} else {
			b.WriteString(li.content + "\n")
		}
	}
	return b.String()
}
