package repository

import (
	"context"
	"database/sql"
	"testing"

	"github.com/alexanderramin/cmscontent/internal/domain"
	"github.com/alexanderramin/cmscontent/internal/testutil"
	"github.com/stretchr/testify/require"
)

func seedSection(t *testing.T, database *sql.DB, name string) *domain.Section {
	t.Helper()
	menuID := testutil.NewTestMenuNode(t, database, domain.NodeSection, nil)
	s := testutil.NewTestSection(name, testutil.WithSectionMenuID(menuID))
	require.NoError(t, NewSQLiteSectionRepo(database).Create(context.Background(), s))
	return s
}

func seedCategory(t *testing.T, database *sql.DB, section *domain.Section, name string, opts ...testutil.CategoryOption) *domain.Category {
	t.Helper()
	menuID := testutil.NewTestMenuNode(t, database, domain.NodeCategory, &section.MenuID)
	opts = append([]testutil.CategoryOption{testutil.WithCategoryMenuID(menuID)}, opts...)
	c := testutil.NewTestCategory(section.ID, name, opts...)
	require.NoError(t, NewSQLiteCategoryRepo(database).Create(context.Background(), c))
	return c
}

func seedArticle(t *testing.T, database *sql.DB, category *domain.Category, title string, opts ...testutil.ArticleOption) *domain.Article {
	t.Helper()
	menuID := testutil.NewTestMenuNode(t, database, domain.NodeArticle, &category.MenuID)
	opts = append([]testutil.ArticleOption{testutil.WithArticleMenuID(menuID)}, opts...)
	a := testutil.NewTestArticle(category.ID, title, opts...)
	require.NoError(t, NewSQLiteArticleRepo(database).Create(context.Background(), a))
	return a
}
