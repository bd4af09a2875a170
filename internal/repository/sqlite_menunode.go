package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/alexanderramin/cmscontent/internal/db"
	"github.com/alexanderramin/cmscontent/internal/domain"
)

// menuNodeColumns is the canonical SELECT column list for menu_nodes.
const menuNodeColumns = `id, parent_id, kind, created_at`

// SQLiteMenuNodeRepo implements MenuNodeRepo using a SQLite database.
type SQLiteMenuNodeRepo struct {
	db db.DBTX
}

// NewSQLiteMenuNodeRepo creates a new SQLiteMenuNodeRepo.
func NewSQLiteMenuNodeRepo(conn db.DBTX) *SQLiteMenuNodeRepo {
	return &SQLiteMenuNodeRepo{db: conn}
}

// Create inserts n with its preassigned id. A taken id reports ErrConflict;
// a parent that does not exist reports domain.ErrInvalidParent.
func (r *SQLiteMenuNodeRepo) Create(ctx context.Context, n *domain.MenuNode) error {
	query := `INSERT INTO menu_nodes (id, parent_id, kind, created_at) VALUES (?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		n.ID,
		nullableInt64(n.ParentID),
		string(n.Kind),
		formatTime(n.CreatedAt),
	)
	if err != nil {
		if db.IsForeignKeyViolation(err) {
			return fmt.Errorf("inserting menu node %d: %w", n.ID, domain.ErrInvalidParent)
		}
		return mapWriteErr(fmt.Sprintf("inserting menu node %d", n.ID), err)
	}
	return nil
}

func (r *SQLiteMenuNodeRepo) GetByID(ctx context.Context, id int64) (*domain.MenuNode, error) {
	query := `SELECT ` + menuNodeColumns + ` FROM menu_nodes WHERE id = ?`
	return r.scanNode(r.db.QueryRowContext(ctx, query, id))
}

func (r *SQLiteMenuNodeRepo) ListChildren(ctx context.Context, parentID int64) ([]*domain.MenuNode, error) {
	query := `SELECT ` + menuNodeColumns + ` FROM menu_nodes WHERE parent_id = ? ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query, parentID)
	if err != nil {
		return nil, fmt.Errorf("listing child menu nodes: %w", err)
	}
	defer rows.Close()
	return r.scanNodes(rows)
}

func (r *SQLiteMenuNodeRepo) ListByKind(ctx context.Context, kind domain.NodeKind) ([]*domain.MenuNode, error) {
	query := `SELECT ` + menuNodeColumns + ` FROM menu_nodes WHERE kind = ? ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query, string(kind))
	if err != nil {
		return nil, fmt.Errorf("listing %s menu nodes: %w", kind, err)
	}
	defer rows.Close()
	return r.scanNodes(rows)
}

func (r *SQLiteMenuNodeRepo) ListAll(ctx context.Context) ([]*domain.MenuNode, error) {
	query := `SELECT ` + menuNodeColumns + ` FROM menu_nodes ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing menu nodes: %w", err)
	}
	defer rows.Close()
	return r.scanNodes(rows)
}

// Delete removes the node, its descendants and every owner attached to
// them.
func (r *SQLiteMenuNodeRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM menu_nodes WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting menu node %d: %w", id, err)
	}
	return requireAffected(res, fmt.Sprintf("menu node %d", id))
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *SQLiteMenuNodeRepo) scanNode(row *sql.Row) (*domain.MenuNode, error) {
	n, err := r.scanInto(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("menu node: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning menu node: %w", err)
	}
	return n, nil
}

func (r *SQLiteMenuNodeRepo) scanNodes(rows *sql.Rows) ([]*domain.MenuNode, error) {
	var nodes []*domain.MenuNode
	for rows.Next() {
		n, err := r.scanInto(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning menu node row: %w", err)
		}
		nodes = append(nodes, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating menu nodes: %w", err)
	}
	return nodes, nil
}

func (r *SQLiteMenuNodeRepo) scanInto(s rowScanner) (*domain.MenuNode, error) {
	var n domain.MenuNode
	var parentID sql.NullInt64
	var kindStr, createdAtStr string
	if err := s.Scan(&n.ID, &parentID, &kindStr, &createdAtStr); err != nil {
		return nil, err
	}
	n.Kind = domain.NodeKind(kindStr)
	if parentID.Valid {
		p := parentID.Int64
		n.ParentID = &p
	}
	var err error
	if n.CreatedAt, err = parseTime(createdAtStr, "created_at"); err != nil {
		return nil, err
	}
	return &n, nil
}
