package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/alexanderramin/cmscontent/internal/db"
	"github.com/alexanderramin/cmscontent/internal/domain"
)

// articleColumns is the canonical SELECT column list for articles.
const articleColumns = `id, title, slug, content, created_by, created_at,
		last_modified_by, last_modified_at, category_id, pub_status, hits,
		pub_start, pub_end, menu_id`

// publishedClause restricts a query to articles visible at the bound time.
// It takes the same timestamp twice.
const publishedClause = `pub_status = 'pub' AND pub_start <= ? AND pub_end >= ?`

const newestFirst = ` ORDER BY created_at DESC, menu_id DESC`

// SQLiteArticleRepo implements ArticleRepo using a SQLite database.
type SQLiteArticleRepo struct {
	db db.DBTX
}

// NewSQLiteArticleRepo creates a new SQLiteArticleRepo.
func NewSQLiteArticleRepo(conn db.DBTX) *SQLiteArticleRepo {
	return &SQLiteArticleRepo{db: conn}
}

func (r *SQLiteArticleRepo) Create(ctx context.Context, a *domain.Article) error {
	query := `INSERT INTO articles (id, title, slug, content, created_by, created_at,
		last_modified_by, last_modified_at, category_id, pub_status, hits,
		pub_start, pub_end, menu_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		a.ID,
		a.Title,
		a.Slug,
		a.Content,
		a.CreatedBy,
		formatTime(a.CreatedAt),
		a.LastModifiedBy,
		formatTime(a.LastModifiedAt),
		a.CategoryID,
		string(a.PubStatus),
		a.Hits,
		formatTime(a.PubStart),
		formatTime(a.PubEnd),
		a.MenuID,
	)
	return mapWriteErr("inserting article", err)
}

func (r *SQLiteArticleRepo) GetByID(ctx context.Context, id string) (*domain.Article, error) {
	query := `SELECT ` + articleColumns + ` FROM articles WHERE id = ?`
	return r.scanArticle(r.db.QueryRowContext(ctx, query, id))
}

func (r *SQLiteArticleRepo) GetBySlug(ctx context.Context, slug string) (*domain.Article, error) {
	query := `SELECT ` + articleColumns + ` FROM articles WHERE slug = ?`
	return r.scanArticle(r.db.QueryRowContext(ctx, query, slug))
}

func (r *SQLiteArticleRepo) GetByMenuID(ctx context.Context, menuID int64) (*domain.Article, error) {
	query := `SELECT ` + articleColumns + ` FROM articles WHERE menu_id = ?`
	return r.scanArticle(r.db.QueryRowContext(ctx, query, menuID))
}

func (r *SQLiteArticleRepo) GetPublishedBySlug(ctx context.Context, slug string, now time.Time) (*domain.Article, error) {
	ts := formatTime(now)
	query := `SELECT ` + articleColumns + ` FROM articles WHERE slug = ? AND ` + publishedClause
	return r.scanArticle(r.db.QueryRowContext(ctx, query, slug, ts, ts))
}

// ListByCategory returns every article of the category regardless of
// status.
func (r *SQLiteArticleRepo) ListByCategory(ctx context.Context, categoryID string) ([]*domain.Article, error) {
	query := `SELECT ` + articleColumns + ` FROM articles WHERE category_id = ?` + newestFirst
	return r.query(ctx, "listing articles by category", query, categoryID)
}

func (r *SQLiteArticleRepo) ListPublished(ctx context.Context, now time.Time, limit int) ([]*domain.Article, error) {
	ts := formatTime(now)
	query := `SELECT ` + articleColumns + ` FROM articles WHERE ` + publishedClause + newestFirst + ` LIMIT ?`
	return r.query(ctx, "listing published articles", query, ts, ts, limit)
}

func (r *SQLiteArticleRepo) ListPublishedByCategory(ctx context.Context, categoryID string, now time.Time, limit, offset int) ([]*domain.Article, error) {
	ts := formatTime(now)
	query := `SELECT ` + articleColumns + ` FROM articles WHERE category_id = ? AND ` + publishedClause +
		newestFirst + ` LIMIT ? OFFSET ?`
	return r.query(ctx, "listing published articles by category", query, categoryID, ts, ts, limit, offset)
}

func (r *SQLiteArticleRepo) CountPublishedByCategory(ctx context.Context, categoryID string, now time.Time) (int, error) {
	ts := formatTime(now)
	var n int
	query := `SELECT COUNT(*) FROM articles WHERE category_id = ? AND ` + publishedClause
	if err := r.db.QueryRowContext(ctx, query, categoryID, ts, ts).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting published articles: %w", err)
	}
	return n, nil
}

func (r *SQLiteArticleRepo) ListPublishedByTag(ctx context.Context, tag string, now time.Time) ([]*domain.Article, error) {
	ts := formatTime(now)
	query := `SELECT ` + articleColumns + ` FROM articles
		WHERE id IN (SELECT article_id FROM article_tags WHERE tag = ?) AND ` + publishedClause + newestFirst
	return r.query(ctx, "listing published articles by tag", query, tag, ts, ts)
}

// PreviousPublished returns the nearest published article created before a.
func (r *SQLiteArticleRepo) PreviousPublished(ctx context.Context, a *domain.Article, now time.Time) (*domain.Article, error) {
	ts := formatTime(now)
	query := `SELECT ` + articleColumns + ` FROM articles
		WHERE (created_at, menu_id) < (?, ?) AND ` + publishedClause + newestFirst + ` LIMIT 1`
	return r.scanArticle(r.db.QueryRowContext(ctx, query, formatTime(a.CreatedAt), a.MenuID, ts, ts))
}

// NextPublished returns the nearest published article created after a.
func (r *SQLiteArticleRepo) NextPublished(ctx context.Context, a *domain.Article, now time.Time) (*domain.Article, error) {
	ts := formatTime(now)
	query := `SELECT ` + articleColumns + ` FROM articles
		WHERE (created_at, menu_id) > (?, ?) AND ` + publishedClause + `
		ORDER BY created_at ASC, menu_id ASC LIMIT 1`
	return r.scanArticle(r.db.QueryRowContext(ctx, query, formatTime(a.CreatedAt), a.MenuID, ts, ts))
}

// IncrementHits bumps the counter in a single statement and returns the new
// value.
func (r *SQLiteArticleRepo) IncrementHits(ctx context.Context, id string) (int, error) {
	var hits int
	err := r.db.QueryRowContext(ctx,
		`UPDATE articles SET hits = hits + 1 WHERE id = ? RETURNING hits`, id).Scan(&hits)
	if err != nil {
		if err == sql.ErrNoRows {
			return 0, fmt.Errorf("article: %w", ErrNotFound)
		}
		return 0, fmt.Errorf("incrementing article hits: %w", err)
	}
	return hits, nil
}

// Update writes the editable fields. Hits are left alone so concurrent
// increments are not lost; category and node are fixed at creation.
func (r *SQLiteArticleRepo) Update(ctx context.Context, a *domain.Article) error {
	query := `UPDATE articles SET title = ?, slug = ?, content = ?, last_modified_by = ?,
		last_modified_at = ?, pub_status = ?, pub_start = ?, pub_end = ?
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		a.Title,
		a.Slug,
		a.Content,
		a.LastModifiedBy,
		formatTime(a.LastModifiedAt),
		string(a.PubStatus),
		formatTime(a.PubStart),
		formatTime(a.PubEnd),
		a.ID,
	)
	if err != nil {
		return mapWriteErr("updating article", err)
	}
	return requireAffected(res, "article")
}

func (r *SQLiteArticleRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM articles WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting article: %w", err)
	}
	return requireAffected(res, "article")
}

func (r *SQLiteArticleRepo) query(ctx context.Context, op, query string, args ...any) ([]*domain.Article, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var articles []*domain.Article
	for rows.Next() {
		a, err := scanArticleRow(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning article row: %w", err)
		}
		articles = append(articles, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating articles: %w", err)
	}
	return articles, nil
}

func (r *SQLiteArticleRepo) scanArticle(row *sql.Row) (*domain.Article, error) {
	a, err := scanArticleRow(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("article: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning article: %w", err)
	}
	return a, nil
}

func scanArticleRow(row rowScanner) (*domain.Article, error) {
	var a domain.Article
	var statusStr string
	var createdAtStr, modifiedAtStr, pubStartStr, pubEndStr string

	err := row.Scan(
		&a.ID, &a.Title, &a.Slug, &a.Content, &a.CreatedBy, &createdAtStr,
		&a.LastModifiedBy, &modifiedAtStr, &a.CategoryID, &statusStr, &a.Hits,
		&pubStartStr, &pubEndStr, &a.MenuID,
	)
	if err != nil {
		return nil, err
	}
	a.PubStatus = domain.PubStatus(statusStr)

	if a.CreatedAt, err = parseTime(createdAtStr, "created_at"); err != nil {
		return nil, err
	}
	if a.LastModifiedAt, err = parseTime(modifiedAtStr, "last_modified_at"); err != nil {
		return nil, err
	}
	if a.PubStart, err = parseTime(pubStartStr, "pub_start"); err != nil {
		return nil, err
	}
	if a.PubEnd, err = parseTime(pubEndStr, "pub_end"); err != nil {
		return nil, err
	}
	return &a, nil
}
