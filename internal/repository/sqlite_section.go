package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/alexanderramin/cmscontent/internal/db"
	"github.com/alexanderramin/cmscontent/internal/domain"
)

// sectionColumns is the canonical SELECT column list for sections.
const sectionColumns = `id, name, slug, description, image, menu_id, created_at`

// SQLiteSectionRepo implements SectionRepo using a SQLite database.
type SQLiteSectionRepo struct {
	db db.DBTX
}

// NewSQLiteSectionRepo creates a new SQLiteSectionRepo.
func NewSQLiteSectionRepo(conn db.DBTX) *SQLiteSectionRepo {
	return &SQLiteSectionRepo{db: conn}
}

func (r *SQLiteSectionRepo) Create(ctx context.Context, s *domain.Section) error {
	query := `INSERT INTO sections (id, name, slug, description, image, menu_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		s.ID, s.Name, s.Slug, s.Description, s.Image, s.MenuID, formatTime(s.CreatedAt))
	return mapWriteErr("inserting section", err)
}

func (r *SQLiteSectionRepo) GetByID(ctx context.Context, id string) (*domain.Section, error) {
	query := `SELECT ` + sectionColumns + ` FROM sections WHERE id = ?`
	return r.scanSection(r.db.QueryRowContext(ctx, query, id))
}

func (r *SQLiteSectionRepo) GetBySlug(ctx context.Context, slug string) (*domain.Section, error) {
	query := `SELECT ` + sectionColumns + ` FROM sections WHERE slug = ?`
	return r.scanSection(r.db.QueryRowContext(ctx, query, slug))
}

func (r *SQLiteSectionRepo) GetByMenuID(ctx context.Context, menuID int64) (*domain.Section, error) {
	query := `SELECT ` + sectionColumns + ` FROM sections WHERE menu_id = ?`
	return r.scanSection(r.db.QueryRowContext(ctx, query, menuID))
}

func (r *SQLiteSectionRepo) List(ctx context.Context) ([]*domain.Section, error) {
	query := `SELECT ` + sectionColumns + ` FROM sections ORDER BY created_at DESC, menu_id DESC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing sections: %w", err)
	}
	defer rows.Close()

	var sections []*domain.Section
	for rows.Next() {
		s, err := scanSectionRow(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning section row: %w", err)
		}
		sections = append(sections, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating sections: %w", err)
	}
	return sections, nil
}

func (r *SQLiteSectionRepo) Update(ctx context.Context, s *domain.Section) error {
	query := `UPDATE sections SET name = ?, slug = ?, description = ?, image = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query, s.Name, s.Slug, s.Description, s.Image, s.ID)
	if err != nil {
		return mapWriteErr("updating section", err)
	}
	return requireAffected(res, "section")
}

// Delete removes the section; its node, categories and articles follow
// through cascades.
func (r *SQLiteSectionRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM sections WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting section: %w", err)
	}
	return requireAffected(res, "section")
}

func (r *SQLiteSectionRepo) scanSection(row *sql.Row) (*domain.Section, error) {
	s, err := scanSectionRow(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("section: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning section: %w", err)
	}
	return s, nil
}

func scanSectionRow(row rowScanner) (*domain.Section, error) {
	var s domain.Section
	var createdAtStr string
	if err := row.Scan(&s.ID, &s.Name, &s.Slug, &s.Description, &s.Image, &s.MenuID, &createdAtStr); err != nil {
		return nil, err
	}
	var err error
	if s.CreatedAt, err = parseTime(createdAtStr, "created_at"); err != nil {
		return nil, err
	}
	return &s, nil
}
