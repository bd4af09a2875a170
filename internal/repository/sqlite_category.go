package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/alexanderramin/cmscontent/internal/db"
	"github.com/alexanderramin/cmscontent/internal/domain"
)

// categoryColumns is the canonical SELECT column list for categories.
const categoryColumns = `id, name, slug, section_id, description, image, menu_id, created_at`

// SQLiteCategoryRepo implements CategoryRepo using a SQLite database.
type SQLiteCategoryRepo struct {
	db db.DBTX
}

// NewSQLiteCategoryRepo creates a new SQLiteCategoryRepo.
func NewSQLiteCategoryRepo(conn db.DBTX) *SQLiteCategoryRepo {
	return &SQLiteCategoryRepo{db: conn}
}

func (r *SQLiteCategoryRepo) Create(ctx context.Context, c *domain.Category) error {
	query := `INSERT INTO categories (id, name, slug, section_id, description, image, menu_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		c.ID, c.Name, c.Slug, c.SectionID, c.Description, c.Image, c.MenuID, formatTime(c.CreatedAt))
	return mapWriteErr("inserting category", err)
}

func (r *SQLiteCategoryRepo) GetByID(ctx context.Context, id string) (*domain.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories WHERE id = ?`
	return r.scanCategory(r.db.QueryRowContext(ctx, query, id))
}

func (r *SQLiteCategoryRepo) GetBySlug(ctx context.Context, slug string) (*domain.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories WHERE slug = ?`
	return r.scanCategory(r.db.QueryRowContext(ctx, query, slug))
}

func (r *SQLiteCategoryRepo) GetByMenuID(ctx context.Context, menuID int64) (*domain.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories WHERE menu_id = ?`
	return r.scanCategory(r.db.QueryRowContext(ctx, query, menuID))
}

func (r *SQLiteCategoryRepo) List(ctx context.Context) ([]*domain.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories ORDER BY created_at DESC, menu_id DESC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing categories: %w", err)
	}
	defer rows.Close()
	return r.scanCategories(rows)
}

// ListBySection returns one page of the section's categories. A negative
// limit returns all of them.
func (r *SQLiteCategoryRepo) ListBySection(ctx context.Context, sectionID string, limit, offset int) ([]*domain.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories WHERE section_id = ?
		ORDER BY created_at DESC, menu_id DESC LIMIT ? OFFSET ?`
	rows, err := r.db.QueryContext(ctx, query, sectionID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("listing categories by section: %w", err)
	}
	defer rows.Close()
	return r.scanCategories(rows)
}

func (r *SQLiteCategoryRepo) CountBySection(ctx context.Context, sectionID string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM categories WHERE section_id = ?`, sectionID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting categories: %w", err)
	}
	return n, nil
}

// Update changes the editable fields. The owning section and node are
// fixed at creation.
func (r *SQLiteCategoryRepo) Update(ctx context.Context, c *domain.Category) error {
	query := `UPDATE categories SET name = ?, slug = ?, description = ?, image = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query, c.Name, c.Slug, c.Description, c.Image, c.ID)
	if err != nil {
		return mapWriteErr("updating category", err)
	}
	return requireAffected(res, "category")
}

func (r *SQLiteCategoryRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM categories WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting category: %w", err)
	}
	return requireAffected(res, "category")
}

func (r *SQLiteCategoryRepo) scanCategory(row *sql.Row) (*domain.Category, error) {
	c, err := scanCategoryRow(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("category: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning category: %w", err)
	}
	return c, nil
}

func (r *SQLiteCategoryRepo) scanCategories(rows *sql.Rows) ([]*domain.Category, error) {
	var cats []*domain.Category
	for rows.Next() {
		c, err := scanCategoryRow(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning category row: %w", err)
		}
		cats = append(cats, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating categories: %w", err)
	}
	return cats, nil
}

func scanCategoryRow(row rowScanner) (*domain.Category, error) {
	var c domain.Category
	var createdAtStr string
	err := row.Scan(&c.ID, &c.Name, &c.Slug, &c.SectionID, &c.Description, &c.Image, &c.MenuID, &createdAtStr)
	if err != nil {
		return nil, err
	}
	if c.CreatedAt, err = parseTime(createdAtStr, "created_at"); err != nil {
		return nil, err
	}
	return &c, nil
}
