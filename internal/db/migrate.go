package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// MenuSequenceName is the menu_sequence row that hands out menu node ids.
const MenuSequenceName = "menu"

// Migrate runs all schema migrations. Safe to run repeatedly.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// ALTER TABLE statements re-run on every start.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	if err := migrateSeedMenuSequence(db); err != nil {
		return fmt.Errorf("seeding menu sequence: %w", err)
	}
	return nil
}

var migrations = []string{
	// Menu node ids come from menu_sequence, never from the rowid allocator,
	// so a deleted id is never handed out again.
	`CREATE TABLE IF NOT EXISTS menu_nodes (
		id         INTEGER PRIMARY KEY,
		parent_id  INTEGER REFERENCES menu_nodes(id) ON DELETE CASCADE,
		kind       TEXT NOT NULL
		           CHECK(kind IN ('section','category','article')),
		created_at TEXT NOT NULL,
		CHECK((kind = 'section') = (parent_id IS NULL))
	)`,

	`CREATE INDEX IF NOT EXISTS idx_menu_nodes_parent ON menu_nodes(parent_id)`,
	`CREATE INDEX IF NOT EXISTS idx_menu_nodes_kind ON menu_nodes(kind)`,

	`CREATE TABLE IF NOT EXISTS menu_sequence (
		name    TEXT PRIMARY KEY,
		next_id INTEGER NOT NULL CHECK(next_id > 0)
	)`,

	`CREATE TABLE IF NOT EXISTS sections (
		id          TEXT PRIMARY KEY,
		name        TEXT NOT NULL,
		slug        TEXT NOT NULL UNIQUE,
		description TEXT NOT NULL,
		menu_id     INTEGER NOT NULL UNIQUE REFERENCES menu_nodes(id) ON DELETE CASCADE,
		created_at  TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS categories (
		id          TEXT PRIMARY KEY,
		name        TEXT NOT NULL,
		slug        TEXT NOT NULL UNIQUE,
		section_id  TEXT NOT NULL REFERENCES sections(id) ON DELETE CASCADE,
		description TEXT NOT NULL,
		menu_id     INTEGER NOT NULL UNIQUE REFERENCES menu_nodes(id) ON DELETE CASCADE,
		created_at  TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_categories_section ON categories(section_id)`,

	`CREATE TABLE IF NOT EXISTS articles (
		id               TEXT PRIMARY KEY,
		title            TEXT NOT NULL,
		slug             TEXT NOT NULL UNIQUE,
		content          TEXT NOT NULL,
		created_by       TEXT NOT NULL,
		created_at       TEXT NOT NULL,
		last_modified_by TEXT NOT NULL,
		last_modified_at TEXT NOT NULL,
		category_id      TEXT NOT NULL REFERENCES categories(id) ON DELETE CASCADE,
		pub_status       TEXT NOT NULL DEFAULT 'pub'
		                 CHECK(pub_status IN ('pub','hid','dra','del')),
		hits             INTEGER NOT NULL DEFAULT 1,
		pub_start        TEXT NOT NULL,
		pub_end          TEXT NOT NULL,
		menu_id          INTEGER NOT NULL UNIQUE REFERENCES menu_nodes(id) ON DELETE CASCADE
	)`,

	`CREATE INDEX IF NOT EXISTS idx_articles_category ON articles(category_id)`,
	`CREATE INDEX IF NOT EXISTS idx_articles_published ON articles(pub_status, created_at)`,

	`CREATE TABLE IF NOT EXISTS tags (
		name TEXT PRIMARY KEY
	)`,

	`CREATE TABLE IF NOT EXISTS article_tags (
		article_id TEXT NOT NULL REFERENCES articles(id) ON DELETE CASCADE,
		tag        TEXT NOT NULL REFERENCES tags(name) ON DELETE CASCADE,
		PRIMARY KEY (article_id, tag)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_article_tags_tag ON article_tags(tag)`,

	`CREATE TABLE IF NOT EXISTS comments (
		id         TEXT PRIMARY KEY,
		article_id TEXT NOT NULL REFERENCES articles(id) ON DELETE CASCADE,
		user_name  TEXT NOT NULL,
		body       TEXT NOT NULL,
		user_ip    TEXT NOT NULL DEFAULT '',
		user_agent TEXT NOT NULL DEFAULT '',
		is_public  INTEGER NOT NULL DEFAULT 1,
		created_at TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_comments_article ON comments(article_id)`,

	`CREATE TABLE IF NOT EXISTS comment_flags (
		comment_id TEXT NOT NULL REFERENCES comments(id) ON DELETE CASCADE,
		flagged_by TEXT NOT NULL,
		flag       TEXT NOT NULL CHECK(flag IN ('spam')),
		created_at TEXT NOT NULL,
		PRIMARY KEY (comment_id, flagged_by, flag)
	)`,

	// Owners and nodes live and die together: deleting a node cascades to
	// its owner through menu_id, and deleting an owner removes its node.
	`CREATE TRIGGER IF NOT EXISTS trg_sections_drop_node AFTER DELETE ON sections
	BEGIN
		DELETE FROM menu_nodes WHERE id = OLD.menu_id;
	END`,
	`CREATE TRIGGER IF NOT EXISTS trg_categories_drop_node AFTER DELETE ON categories
	BEGIN
		DELETE FROM menu_nodes WHERE id = OLD.menu_id;
	END`,
	`CREATE TRIGGER IF NOT EXISTS trg_articles_drop_node AFTER DELETE ON articles
	BEGIN
		DELETE FROM menu_nodes WHERE id = OLD.menu_id;
	END`,

	// Image uploads on sections and categories.
	`ALTER TABLE sections ADD COLUMN image TEXT NOT NULL DEFAULT ''`,
	`ALTER TABLE categories ADD COLUMN image TEXT NOT NULL DEFAULT ''`,

	// Spam-check context sent along with comments.
	`ALTER TABLE comments ADD COLUMN referrer TEXT NOT NULL DEFAULT ''`,
}

// migrateSeedMenuSequence creates the menu sequence row, or raises it past
// any node id already present (e.g. rows imported from another instance).
func migrateSeedMenuSequence(db *sql.DB) error {
	ctx := context.Background()
	query := `INSERT INTO menu_sequence (name, next_id)
		SELECT ?, COALESCE(MAX(id), 0) + 1 FROM menu_nodes
		WHERE true
		ON CONFLICT(name) DO UPDATE
		SET next_id = MAX(menu_sequence.next_id, excluded.next_id)`
	if _, err := db.ExecContext(ctx, query, MenuSequenceName); err != nil {
		return fmt.Errorf("upserting menu sequence row: %w", err)
	}
	return nil
}
