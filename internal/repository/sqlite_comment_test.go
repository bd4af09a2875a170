package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alexanderramin/cmscontent/internal/domain"
	"github.com/alexanderramin/cmscontent/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommentRepo_CreateAndList(t *testing.T) {
	database := testutil.NewTestDB(t)
	ctx := context.Background()
	repo := NewSQLiteCommentRepo(database)

	c := seedCategory(t, database, seedSection(t, database, "News"), "Local")
	a := seedArticle(t, database, c, "Story")

	visible := testutil.NewTestComment(a.ID, "Nice read")
	hidden := testutil.NewTestComment(a.ID, "Buy pills", testutil.WithCommentPublic(false))
	require.NoError(t, repo.Create(ctx, visible))
	require.NoError(t, repo.Create(ctx, hidden))

	public, err := repo.ListByArticle(ctx, a.ID, true)
	require.NoError(t, err)
	require.Len(t, public, 1)
	assert.Equal(t, visible.ID, public[0].ID)

	all, err := repo.ListByArticle(ctx, a.ID, false)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	got, err := repo.GetByID(ctx, hidden.ID)
	require.NoError(t, err)
	assert.False(t, got.IsPublic)
	assert.Equal(t, "127.0.0.1", got.UserIP)
}

func TestCommentRepo_SetPublicAndFlags(t *testing.T) {
	database := testutil.NewTestDB(t)
	ctx := context.Background()
	repo := NewSQLiteCommentRepo(database)

	c := seedCategory(t, database, seedSection(t, database, "News"), "Local")
	a := seedArticle(t, database, c, "Story")
	cm := testutil.NewTestComment(a.ID, "Spam spam")
	require.NoError(t, repo.Create(ctx, cm))

	require.NoError(t, repo.SetPublic(ctx, cm.ID, false))
	flag := &domain.CommentFlag{CommentID: cm.ID, User: a.CreatedBy, Flag: domain.FlagSpam, CreatedAt: time.Now()}
	require.NoError(t, repo.AddFlag(ctx, flag))
	require.NoError(t, repo.AddFlag(ctx, flag), "repeat flag is ignored")

	flags, err := repo.ListFlags(ctx, cm.ID)
	require.NoError(t, err)
	require.Len(t, flags, 1)
	assert.Equal(t, domain.FlagSpam, flags[0].Flag)
	assert.Equal(t, a.CreatedBy, flags[0].User)

	got, err := repo.GetByID(ctx, cm.ID)
	require.NoError(t, err)
	assert.False(t, got.IsPublic)

	assert.ErrorIs(t, repo.SetPublic(ctx, "missing", true), ErrNotFound)
}
