package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexanderramin/cmscontent/internal/cli/formatter"
	"github.com/alexanderramin/cmscontent/internal/domain"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// menuLoadedMsg carries the flattened menu tree.
type menuLoadedMsg struct {
	items []formatter.TreeItem
	err   error
}

// entryResolvedMsg carries the link of the selected node.
type entryResolvedMsg struct {
	node  *domain.MenuNode
	entry *domain.MenuEntry
	err   error
}

type menuBrowseKeyMap struct {
	Up      key.Binding
	Down    key.Binding
	Resolve key.Binding
	Quit    key.Binding
}

func defaultMenuBrowseKeys() menuBrowseKeyMap {
	return menuBrowseKeyMap{
		Up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Resolve: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "resolve")),
		Quit:    key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k menuBrowseKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Resolve, k.Quit}
}

// menuBrowseView lists menu nodes depth first; enter shows the link the
// highlighted node resolves to.
type menuBrowseView struct {
	ctx     context.Context
	app     *App
	keys    menuBrowseKeyMap
	items   []formatter.TreeItem
	cursor  int
	loading bool
	err     error

	resolved     *domain.MenuEntry
	resolvedNode *domain.MenuNode
	resolveErr   error
}

func newMenuBrowseView(ctx context.Context, app *App) *menuBrowseView {
	return &menuBrowseView{
		ctx:     ctx,
		app:     app,
		keys:    defaultMenuBrowseKeys(),
		loading: true,
	}
}

func (v *menuBrowseView) Init() tea.Cmd {
	return v.loadMenu()
}

func (v *menuBrowseView) loadMenu() tea.Cmd {
	ctx, app := v.ctx, v.app
	return func() tea.Msg {
		tree, err := app.Menu.Tree(ctx)
		if err != nil {
			return menuLoadedMsg{err: err}
		}
		return menuLoadedMsg{items: formatter.FlattenMenuTree(tree)}
	}
}

func (v *menuBrowseView) resolve(id int64) tea.Cmd {
	ctx, app := v.ctx, v.app
	return func() tea.Msg {
		node, err := app.Menu.Get(ctx, id)
		if err != nil {
			return entryResolvedMsg{err: err}
		}
		entry, err := app.Menu.ResolveEntry(ctx, node)
		return entryResolvedMsg{node: node, entry: entry, err: err}
	}
}

func (v *menuBrowseView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case menuLoadedMsg:
		v.loading = false
		v.err = msg.err
		v.items = msg.items
		return v, nil

	case entryResolvedMsg:
		v.resolvedNode, v.resolved, v.resolveErr = msg.node, msg.entry, msg.err
		return v, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, v.keys.Quit):
			return v, tea.Quit
		case key.Matches(msg, v.keys.Up):
			if v.cursor > 0 {
				v.cursor--
			}
		case key.Matches(msg, v.keys.Down):
			if v.cursor < len(v.items)-1 {
				v.cursor++
			}
		case key.Matches(msg, v.keys.Resolve):
			if v.cursor < len(v.items) {
				return v, v.resolve(v.items[v.cursor].ID)
			}
		}
	}
	return v, nil
}

func (v *menuBrowseView) View() string {
	if v.loading {
		return formatter.Dim("Loading menu...") + "\n"
	}
	if v.err != nil {
		return formatter.StyleRed.Render("Error: "+v.err.Error()) + "\n"
	}
	if len(v.items) == 0 {
		return formatter.Dim("Menu is empty.") + "\n" + v.helpLine()
	}

	var b strings.Builder
	b.WriteString(formatter.Header("Menu") + "\n")
	for i, item := range v.items {
		line := formatter.RenderTree([]formatter.TreeItem{{
			Title: item.Title,
			ID:    item.ID,
			Kind:  item.Kind,
		}})
		indent := strings.Repeat("  ", item.Level)
		marker := "  "
		if i == v.cursor {
			marker = formatter.StyleHeader.Render("▸ ")
		}
		b.WriteString(marker + indent + strings.TrimRight(line, "\n") + "\n")
	}

	b.WriteString("\n")
	switch {
	case v.resolveErr != nil:
		b.WriteString(formatter.StyleRed.Render("Error: "+v.resolveErr.Error()) + "\n")
	case v.resolved != nil:
		b.WriteString(formatter.FormatMenuEntry(v.resolvedNode, v.resolved))
	}
	b.WriteString(v.helpLine())
	return b.String()
}

func (v *menuBrowseView) helpLine() string {
	parts := make([]string, 0, 4)
	for _, kb := range v.keys.ShortHelp() {
		h := kb.Help()
		parts = append(parts, fmt.Sprintf("%s %s", h.Key, h.Desc))
	}
	return formatter.Dim(strings.Join(parts, " · ")) + "\n"
}
