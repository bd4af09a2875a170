package repository

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/alexanderramin/cmscontent/internal/db"
)

// SQLiteTagRepo implements TagRepo using a SQLite database.
type SQLiteTagRepo struct {
	db db.DBTX
}

// NewSQLiteTagRepo creates a new SQLiteTagRepo.
func NewSQLiteTagRepo(conn db.DBTX) *SQLiteTagRepo {
	return &SQLiteTagRepo{db: conn}
}

// NormalizeTags trims, drops empties and de-duplicates tags, returning them
// sorted.
func NormalizeTags(tags []string) []string {
	seen := make(map[string]bool, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// SetArticleTags replaces the article's tag set. Run it inside a unit of
// work when combined with other writes.
func (r *SQLiteTagRepo) SetArticleTags(ctx context.Context, articleID string, tags []string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM article_tags WHERE article_id = ?`, articleID); err != nil {
		return fmt.Errorf("clearing article tags: %w", err)
	}
	for _, tag := range NormalizeTags(tags) {
		if _, err := r.db.ExecContext(ctx, `INSERT OR IGNORE INTO tags (name) VALUES (?)`, tag); err != nil {
			return fmt.Errorf("inserting tag %q: %w", tag, err)
		}
		if _, err := r.db.ExecContext(ctx,
			`INSERT INTO article_tags (article_id, tag) VALUES (?, ?)`, articleID, tag); err != nil {
			return fmt.Errorf("tagging article with %q: %w", tag, err)
		}
	}
	return nil
}

func (r *SQLiteTagRepo) ListByArticle(ctx context.Context, articleID string) ([]string, error) {
	return r.names(ctx, `SELECT tag FROM article_tags WHERE article_id = ? ORDER BY tag`, articleID)
}

// List returns every tag that is attached to at least one article.
func (r *SQLiteTagRepo) List(ctx context.Context) ([]string, error) {
	return r.names(ctx, `SELECT name FROM tags WHERE name IN (SELECT tag FROM article_tags) ORDER BY name`)
}

func (r *SQLiteTagRepo) names(ctx context.Context, query string, args ...any) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing tags: %w", err)
	}
	defer rows.Close()

	var tags []string
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, fmt.Errorf("scanning tag: %w", err)
		}
		tags = append(tags, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating tags: %w", err)
	}
	return tags, nil
}
