package service

import (
	"context"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alexanderramin/cmscontent/internal/db"
	"github.com/alexanderramin/cmscontent/internal/domain"
	"github.com/alexanderramin/cmscontent/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMenuService_Allocate_SequentialIDsIncrease(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()

	var prev int64
	for i := 0; i < 5; i++ {
		n, err := env.menu.Allocate(ctx, domain.NodeSection, nil)
		require.NoError(t, err)
		assert.Greater(t, n.ID, prev)
		prev = n.ID
	}
	assert.Equal(t, int64(5), prev, "sequence starts at 1")
}

func TestMenuService_Allocate_ParentRules(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()

	root, err := env.menu.Allocate(ctx, domain.NodeSection, nil)
	require.NoError(t, err)
	assert.True(t, root.IsRoot())

	cat, err := env.menu.Allocate(ctx, domain.NodeCategory, &root.ID)
	require.NoError(t, err)
	require.NotNil(t, cat.ParentID)
	assert.Equal(t, root.ID, *cat.ParentID)

	missing := int64(9999)
	tests := []struct {
		name    string
		kind    domain.NodeKind
		parent  *int64
		wantErr error
	}{
		{"category without parent", domain.NodeCategory, nil, domain.ErrParentRequired},
		{"article without parent", domain.NodeArticle, nil, domain.ErrParentRequired},
		{"section with parent", domain.NodeSection, &root.ID, domain.ErrInvalidParent},
		{"category under category", domain.NodeCategory, &cat.ID, domain.ErrInvalidParent},
		{"article under section", domain.NodeArticle, &root.ID, domain.ErrInvalidParent},
		{"missing parent", domain.NodeCategory, &missing, domain.ErrInvalidParent},
		{"unknown kind", domain.NodeKind("page"), nil, domain.ErrInvalidKind},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := env.menu.Allocate(ctx, tt.kind, tt.parent)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, n)
		})
	}

	art, err := env.menu.Allocate(ctx, domain.NodeArticle, &cat.ID)
	require.NoError(t, err)
	assert.Equal(t, cat.ID+1, art.ID, "failed allocations must not consume ids")
}

func TestMenuService_Allocate_ReportsUseCase(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()

	_, err := env.menu.Allocate(ctx, domain.NodeCategory, nil)
	require.Error(t, err)

	ev, ok := env.observer.last("menu.allocate")
	require.True(t, ok)
	assert.False(t, ev.Success)
	assert.ErrorIs(t, ev.Err, domain.ErrParentRequired)
	assert.Equal(t, "category", ev.Fields["kind"])
}

func TestMenuService_DeletedIDsAreNotReused(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()

	a, err := env.menu.Allocate(ctx, domain.NodeSection, nil)
	require.NoError(t, err)
	b, err := env.menu.Allocate(ctx, domain.NodeSection, nil)
	require.NoError(t, err)

	require.NoError(t, env.nodes.Delete(ctx, b.ID))
	require.NoError(t, env.nodes.Delete(ctx, a.ID))

	c, err := env.menu.Allocate(ctx, domain.NodeSection, nil)
	require.NoError(t, err)
	assert.Greater(t, c.ID, b.ID)
}

func TestMenuService_ConcurrentAllocateUniqueIDs(t *testing.T) {
	database, err := db.OpenDB(filepath.Join(t.TempDir(), "menu.db"))
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	env := newTestEnvWithUoW(t, database, nil, nil)
	ctx := context.Background()

	const workers = 20
	var wg sync.WaitGroup
	ids := make(chan int64, workers)
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			var n *domain.MenuNode
			var err error
			for attempt := 0; attempt < 10; attempt++ {
				if n, err = env.menu.Allocate(ctx, domain.NodeSection, nil); err == nil {
					ids <- n.ID
					return
				}
				time.Sleep(time.Millisecond * time.Duration(1<<attempt))
			}
			errs <- err
		}()
	}
	wg.Wait()
	close(ids)
	close(errs)

	for err := range errs {
		t.Fatalf("allocation failed: %v", err)
	}
	seen := make(map[int64]bool, workers)
	for id := range ids {
		assert.False(t, seen[id], "duplicate id %d", id)
		seen[id] = true
	}
	assert.Len(t, seen, workers)
}

func TestMenuService_ResolveEntry(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()
	sec, cat, art := env.seedTree(t)

	t.Run("root node renders section anchor", func(t *testing.T) {
		node, err := env.menu.Get(ctx, sec.MenuID)
		require.NoError(t, err)
		entry, err := env.menu.ResolveEntry(ctx, node)
		require.NoError(t, err)
		s := entry.String()
		assert.Contains(t, s, sec.URL(testRootURL))
		assert.Contains(t, s, sec.Name)
		assert.True(t, strings.HasPrefix(s, "<a href="))
	})

	t.Run("category node renders category url", func(t *testing.T) {
		node, err := env.menu.Get(ctx, cat.MenuID)
		require.NoError(t, err)
		entry, err := env.menu.ResolveEntry(ctx, node)
		require.NoError(t, err)
		assert.Equal(t, cat.URL(testRootURL), entry.String())
	})

	t.Run("article node renders article url", func(t *testing.T) {
		node, err := env.menu.Get(ctx, art.MenuID)
		require.NoError(t, err)
		require.NotNil(t, node.ParentID)
		assert.Equal(t, cat.MenuID, *node.ParentID)

		entry, err := env.menu.ResolveEntry(ctx, node)
		require.NoError(t, err)
		assert.Equal(t, art.URL(testRootURL), entry.String())
		assert.Equal(t, domain.NodeArticle, entry.Kind)
	})

	t.Run("unowned node is not found", func(t *testing.T) {
		node, err := env.menu.Allocate(ctx, domain.NodeCategory, &sec.MenuID)
		require.NoError(t, err)
		_, err = env.menu.ResolveEntry(ctx, node)
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})
}

func TestMenuService_FindParent(t *testing.T) {
	env := newTestEnv(t, nil)

	assert.Nil(t, env.menu.FindParent(nil, "x"))
	assert.Nil(t, env.menu.FindParent([]*domain.NavNode{}, "x"))

	a := &domain.NavNode{ID: 1, Title: "A"}
	b := &domain.NavNode{ID: 2, Title: "B"}
	assert.Same(t, b, env.menu.FindParent([]*domain.NavNode{a, b}, "B"))
	assert.Nil(t, env.menu.FindParent([]*domain.NavNode{a, b}, "C"))
}

func TestMenuService_NodesAndTree(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()
	sec, cat, art := env.seedTree(t)

	_, err := env.articles.Create(ctx, editor, ArticleInput{
		Title:        "Draft",
		Slug:         "draft",
		Content:      "<p>wip</p>",
		CategorySlug: cat.Slug,
		PubStatus:    domain.PubDraft,
	})
	require.NoError(t, err)

	nodes, err := env.menu.Nodes(ctx)
	require.NoError(t, err)
	require.Len(t, nodes, 3, "drafts are left out of navigation")
	assert.Equal(t, domain.NodeSection, nodes[0].Kind)
	assert.Equal(t, domain.NodeCategory, nodes[1].Kind)
	assert.Equal(t, domain.NodeArticle, nodes[2].Kind)

	parent := art.ParentNode(nodes, cat)
	require.NotNil(t, parent)
	assert.Equal(t, cat.MenuID, parent.ID)

	tree, err := env.menu.Tree(ctx)
	require.NoError(t, err)
	require.Len(t, tree, 1)
	assert.Equal(t, sec.MenuID, tree[0].ID)
	require.Len(t, tree[0].Children, 1)
	require.Len(t, tree[0].Children[0].Children, 1)
	assert.Equal(t, art.MenuID, tree[0].Children[0].Children[0].ID)
}

func TestMenuService_ListChildrenAndKind(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()
	sec, cat, _ := env.seedTree(t)

	children, err := env.menu.ListChildren(ctx, sec.MenuID)
	require.NoError(t, err)
	require.Len(t, children, 1)
	assert.Equal(t, cat.MenuID, children[0].ID)

	sections, err := env.menu.ListByKind(ctx, domain.NodeSection)
	require.NoError(t, err)
	assert.Len(t, sections, 1)

	_, err = env.menu.ListByKind(ctx, "page")
	assert.ErrorIs(t, err, domain.ErrInvalidKind)
}
