package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/alexanderramin/cmscontent/internal/domain"
	"github.com/alexanderramin/cmscontent/internal/repository"
	"github.com/alexanderramin/cmscontent/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryService_CreateAllocatesChildNode(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()

	sec := testutil.NewTestSection("Guides")
	require.NoError(t, env.sections.Create(ctx, sec))
	cat := testutil.NewTestCategory(sec.ID, "Setup")
	require.NoError(t, env.categories.Create(ctx, cat))

	node, err := env.nodes.GetByID(ctx, cat.MenuID)
	require.NoError(t, err)
	assert.Equal(t, domain.NodeCategory, node.Kind)
	require.NotNil(t, node.ParentID)
	assert.Equal(t, sec.MenuID, *node.ParentID)
}

func TestCategoryService_CreateUnknownSection(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()

	err := env.categories.Create(ctx, testutil.NewTestCategory("no-such-section", "Orphan"))
	assert.ErrorIs(t, err, repository.ErrNotFound)

	nodes, err := env.nodes.ListAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, nodes)
}

func TestCategoryService_ListBySectionPaginates(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()

	sec := testutil.NewTestSection("Many")
	require.NoError(t, env.sections.Create(ctx, sec))
	for i := 0; i < 3; i++ {
		require.NoError(t, env.categories.Create(ctx, testutil.NewTestCategory(sec.ID, fmt.Sprintf("Cat %d", i))))
	}

	first, err := env.categories.ListBySection(ctx, sec.Slug, 1)
	require.NoError(t, err)
	assert.Len(t, first.Categories, 2)
	assert.Equal(t, 2, first.Page.NumPages)
	assert.True(t, first.Page.HasNext)

	last, err := env.categories.ListBySection(ctx, sec.Slug, 99)
	require.NoError(t, err)
	assert.Equal(t, 2, last.Page.Number)
	assert.Len(t, last.Categories, 1)
}

func TestCategoryService_DetailPageFallback(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()
	sec, cat, _ := env.seedTree(t)

	for i := 0; i < 2; i++ {
		_, err := env.articles.Create(ctx, editor, ArticleInput{
			Title:        fmt.Sprintf("Extra %d", i),
			Slug:         fmt.Sprintf("extra-%d", i),
			Content:      "<p>x</p>",
			CategorySlug: cat.Slug,
			PubStart:     yesterday(),
		})
		require.NoError(t, err)
	}

	tests := []struct {
		name     string
		page     int
		wantPage int
		wantLen  int
	}{
		{"first page", 1, 1, 2},
		{"second page", 2, 2, 1},
		{"past the end", 7, 2, 1},
		{"zero", 0, 2, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := env.categories.Detail(ctx, cat.Slug, tt.page)
			require.NoError(t, err)
			assert.Equal(t, sec.ID, d.Section.ID)
			assert.Equal(t, tt.wantPage, d.Page.Number)
			assert.Len(t, d.Articles, tt.wantLen)
		})
	}
}

func TestCategoryService_DetailEmptyCategory(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()

	sec := testutil.NewTestSection("Quiet")
	require.NoError(t, env.sections.Create(ctx, sec))
	cat := testutil.NewTestCategory(sec.ID, "Nothing yet")
	require.NoError(t, env.categories.Create(ctx, cat))

	d, err := env.categories.Detail(ctx, cat.Slug, 3)
	require.NoError(t, err)
	assert.Equal(t, 1, d.Page.Number)
	assert.Empty(t, d.Articles)
}

func TestCategoryService_DeleteRemovesArticles(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()
	sec, cat, art := env.seedTree(t)

	require.NoError(t, env.categories.Delete(ctx, cat.Slug))

	_, err := env.artRepo.GetByID(ctx, art.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	_, err = env.nodes.GetByID(ctx, art.MenuID)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	_, err = env.nodes.GetByID(ctx, sec.MenuID)
	assert.NoError(t, err, "section node survives")
}
