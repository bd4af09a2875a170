package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alexanderramin/cmscontent/internal/domain"
	"github.com/alexanderramin/cmscontent/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArticleService_CreateRequiresActor(t *testing.T) {
	env := newTestEnv(t, nil)
	_, cat, _ := env.seedTree(t)

	_, err := env.articles.Create(context.Background(), domain.Actor{}, ArticleInput{
		Title: "Anon", Slug: "anon", Content: "<p>x</p>", CategorySlug: cat.Slug,
	})
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestArticleService_CreateDefaultsAndNode(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()
	_, cat, _ := env.seedTree(t)

	a, err := env.articles.Create(ctx, editor, ArticleInput{
		Title:        "Fresh",
		Slug:         "fresh",
		Content:      `<p onclick="x()">Hi</p><script>alert(1)</script>`,
		CategorySlug: cat.Slug,
		Tags:         []string{" go ", "sqlite", "go"},
	})
	require.NoError(t, err)

	assert.Equal(t, domain.PubPublished, a.PubStatus)
	assert.Equal(t, domain.DefaultHits, a.Hits)
	assert.Equal(t, domain.DefaultPubEnd, a.PubEnd)
	assert.Equal(t, "editor", a.CreatedBy)
	assert.Equal(t, "editor", a.LastModifiedBy)
	assert.NotContains(t, a.Content, "script")
	assert.NotContains(t, a.Content, "onclick")
	assert.Equal(t, []string{"go", "sqlite"}, a.Tags)

	node, err := env.nodes.GetByID(ctx, a.MenuID)
	require.NoError(t, err)
	assert.Equal(t, domain.NodeArticle, node.Kind)
	require.NotNil(t, node.ParentID)
	assert.Equal(t, cat.MenuID, *node.ParentID)

	got, err := env.articles.Get(ctx, "fresh")
	require.NoError(t, err)
	assert.Equal(t, []string{"go", "sqlite"}, got.Tags)
}

func TestArticleService_CreateUnknownCategory(t *testing.T) {
	env := newTestEnv(t, nil)
	_, err := env.articles.Create(context.Background(), editor, ArticleInput{
		Title: "Lost", Slug: "lost", Content: "<p>x</p>", CategorySlug: "nope",
	})
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestArticleService_CreateInvalidWindow(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()
	_, cat, _ := env.seedTree(t)
	before, err := env.nodes.ListAll(ctx)
	require.NoError(t, err)

	now := time.Now().UTC()
	_, err = env.articles.Create(ctx, editor, ArticleInput{
		Title: "Backwards", Slug: "backwards", Content: "<p>x</p>", CategorySlug: cat.Slug,
		PubStart: now, PubEnd: now.Add(-time.Hour),
	})
	require.Error(t, err)

	after, err := env.nodes.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, after, len(before))
}

func TestArticleService_DetailIncrementsHits(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()
	sec, cat, art := env.seedTree(t)

	d, err := env.articles.Detail(ctx, art.Slug)
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultHits+1, d.Hits)
	assert.Equal(t, cat.ID, d.Category.ID)
	assert.Equal(t, sec.ID, d.Section.ID)
	assert.Nil(t, d.Previous)
	assert.Nil(t, d.Next)

	d, err = env.articles.Detail(ctx, art.Slug)
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultHits+2, d.Hits)
}

func TestArticleService_DetailHidesUnpublished(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()
	_, cat, _ := env.seedTree(t)

	tomorrow := time.Now().UTC().AddDate(0, 0, 1)
	tests := []struct {
		name string
		in   ArticleInput
	}{
		{"draft", ArticleInput{PubStatus: domain.PubDraft}},
		{"hidden", ArticleInput{PubStatus: domain.PubHidden}},
		{"not started", ArticleInput{PubStart: tomorrow}},
	}
	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := tt.in
			in.Title = tt.name
			in.Slug = fmt.Sprintf("unpublished-%d", i)
			in.Content = "<p>x</p>"
			in.CategorySlug = cat.Slug
			_, err := env.articles.Create(ctx, editor, in)
			require.NoError(t, err)

			_, err = env.articles.Detail(ctx, in.Slug)
			assert.ErrorIs(t, err, repository.ErrNotFound)
		})
	}
}

func TestArticleService_PreviousNext(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()
	_, cat, first := env.seedTree(t)

	second, err := env.articles.Create(ctx, editor, ArticleInput{
		Title: "Second", Slug: "second", Content: "<p>2</p>", CategorySlug: cat.Slug, PubStart: yesterday(),
	})
	require.NoError(t, err)
	_, err = env.articles.Create(ctx, editor, ArticleInput{
		Title: "Skipped", Slug: "skipped", Content: "<p>d</p>", CategorySlug: cat.Slug, PubStatus: domain.PubDraft,
	})
	require.NoError(t, err)
	third, err := env.articles.Create(ctx, editor, ArticleInput{
		Title: "Third", Slug: "third", Content: "<p>3</p>", CategorySlug: cat.Slug, PubStart: yesterday(),
	})
	require.NoError(t, err)

	d, err := env.articles.Detail(ctx, second.Slug)
	require.NoError(t, err)
	require.NotNil(t, d.Previous)
	require.NotNil(t, d.Next)
	assert.Equal(t, first.ID, d.Previous.ID)
	assert.Equal(t, third.ID, d.Next.ID, "drafts are skipped")

	prev, err := env.articles.Previous(ctx, first)
	require.NoError(t, err)
	assert.Nil(t, prev)
	next, err := env.articles.Next(ctx, third)
	require.NoError(t, err)
	assert.Nil(t, next)
}

func TestArticleService_IndexAndListings(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()
	_, cat, _ := env.seedTree(t)

	for i := 0; i < 11; i++ {
		_, err := env.articles.Create(ctx, editor, ArticleInput{
			Title:        fmt.Sprintf("Post %d", i),
			Slug:         fmt.Sprintf("post-%d", i),
			Content:      "<p>x</p>",
			CategorySlug: cat.Slug,
			PubStart:     yesterday(),
			Tags:         []string{"weekly"},
		})
		require.NoError(t, err)
	}

	index, err := env.articles.Index(ctx)
	require.NoError(t, err)
	require.Len(t, index, 10)
	assert.Equal(t, "post-10", index[0].Slug, "newest first")

	page, err := env.articles.ListByCategory(ctx, cat.Slug, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, page.Page.Number)
	assert.Len(t, page.Articles, 2)

	tagged, err := env.articles.ListByTag(ctx, "weekly")
	require.NoError(t, err)
	assert.Len(t, tagged, 11)

	tags, err := env.articles.Tags(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"weekly"}, tags)

	all, err := env.articles.ListAll(ctx, cat.Slug)
	require.NoError(t, err)
	assert.Len(t, all, 12)
}

func TestArticleService_Update(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()
	_, _, art := env.seedTree(t)

	art.Title = "Edited"
	art.Content = `<p>new</p><iframe src="x"></iframe>`
	art.Tags = []string{"changed"}
	reviewer := domain.Actor{Username: "reviewer"}
	require.NoError(t, env.articles.Update(ctx, reviewer, art))

	got, err := env.articles.Get(ctx, art.Slug)
	require.NoError(t, err)
	assert.Equal(t, "Edited", got.Title)
	assert.Equal(t, "reviewer", got.LastModifiedBy)
	assert.Equal(t, "editor", got.CreatedBy)
	assert.NotContains(t, got.Content, "iframe")
	assert.Equal(t, []string{"changed"}, got.Tags)

	assert.ErrorIs(t, env.articles.Update(ctx, domain.Actor{}, art), ErrUnauthenticated)
}

func TestArticleService_SetTags(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()
	_, _, art := env.seedTree(t)

	require.NoError(t, env.articles.SetTags(ctx, editor, art.Slug, []string{"b", "a"}))
	got, err := env.articles.Get(ctx, art.Slug)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, got.Tags)

	assert.ErrorIs(t, env.articles.SetTags(ctx, domain.Actor{}, art.Slug, nil), ErrUnauthenticated)
}

func TestArticleService_DeleteRequiresSuperuser(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()
	_, _, art := env.seedTree(t)

	assert.ErrorIs(t, env.articles.Delete(ctx, domain.Actor{}, art.Slug), ErrUnauthenticated)
	assert.ErrorIs(t, env.articles.Delete(ctx, editor, art.Slug), ErrForbidden)

	require.NoError(t, env.articles.Delete(ctx, admin, art.Slug))
	_, err := env.nodes.GetByID(ctx, art.MenuID)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	ev, ok := env.observer.last("article.delete")
	require.True(t, ok)
	assert.True(t, ev.Success)
	assert.Equal(t, "admin", ev.Fields["actor"])
}
