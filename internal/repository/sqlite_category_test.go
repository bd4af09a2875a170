package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alexanderramin/cmscontent/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryRepo_CreateAndLookup(t *testing.T) {
	database := testutil.NewTestDB(t)
	ctx := context.Background()
	repo := NewSQLiteCategoryRepo(database)

	s := seedSection(t, database, "News")
	c := seedCategory(t, database, s, "Local")

	bySlug, err := repo.GetBySlug(ctx, c.Slug)
	require.NoError(t, err)
	assert.Equal(t, c.ID, bySlug.ID)
	assert.Equal(t, s.ID, bySlug.SectionID)

	byMenu, err := repo.GetByMenuID(ctx, c.MenuID)
	require.NoError(t, err)
	assert.Equal(t, c.ID, byMenu.ID)

	_, err = repo.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCategoryRepo_ListBySectionPaged(t *testing.T) {
	database := testutil.NewTestDB(t)
	ctx := context.Background()
	repo := NewSQLiteCategoryRepo(database)

	s := seedSection(t, database, "News")
	other := seedSection(t, database, "Sport")
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		seedCategory(t, database, s, fmt.Sprintf("Cat %d", i),
			testutil.WithCategoryCreatedAt(base.Add(time.Duration(i)*time.Hour)))
	}
	seedCategory(t, database, other, "Football")

	count, err := repo.CountBySection(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, count)

	page1, err := repo.ListBySection(ctx, s.ID, 2, 0)
	require.NoError(t, err)
	require.Len(t, page1, 2)
	assert.Equal(t, "Cat 4", page1[0].Name)
	assert.Equal(t, "Cat 3", page1[1].Name)

	page3, err := repo.ListBySection(ctx, s.ID, 2, 4)
	require.NoError(t, err)
	require.Len(t, page3, 1)
	assert.Equal(t, "Cat 0", page3[0].Name)

	all, err := repo.ListBySection(ctx, s.ID, -1, 0)
	require.NoError(t, err)
	assert.Len(t, all, 5)
}

func TestCategoryRepo_Update(t *testing.T) {
	database := testutil.NewTestDB(t)
	ctx := context.Background()
	repo := NewSQLiteCategoryRepo(database)

	c := seedCategory(t, database, seedSection(t, database, "News"), "Local")
	c.Description = "Local news"
	require.NoError(t, repo.Update(ctx, c))

	got, err := repo.GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "Local news", got.Description)
}
