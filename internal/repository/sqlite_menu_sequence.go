package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/alexanderramin/cmscontent/internal/db"
)

// SQLiteMenuSequenceRepo hands out menu node ids from the menu_sequence
// table. The counter only moves forward, so ids of deleted nodes are never
// reused.
type SQLiteMenuSequenceRepo struct {
	db db.DBTX
}

// NewSQLiteMenuSequenceRepo creates a new SQLiteMenuSequenceRepo.
func NewSQLiteMenuSequenceRepo(conn db.DBTX) *SQLiteMenuSequenceRepo {
	return &SQLiteMenuSequenceRepo{db: conn}
}

// NextMenuID returns the next menu node id. Allocation is a single
// UPDATE ... RETURNING and is safe under concurrent writers.
func (r *SQLiteMenuSequenceRepo) NextMenuID(ctx context.Context) (int64, error) {
	seedQuery := `INSERT OR IGNORE INTO menu_sequence (name, next_id)
		SELECT ?, COALESCE(MAX(id), 0) + 1 FROM menu_nodes`
	if _, err := r.db.ExecContext(ctx, seedQuery, db.MenuSequenceName); err != nil {
		return 0, fmt.Errorf("seeding menu sequence: %w", err)
	}

	var next int64
	allocQuery := `UPDATE menu_sequence
		SET next_id = next_id + 1
		WHERE name = ?
		RETURNING next_id - 1`
	err := r.db.QueryRowContext(ctx, allocQuery, db.MenuSequenceName).Scan(&next)
	if err != nil {
		if err == sql.ErrNoRows {
			return 0, fmt.Errorf("menu sequence row missing: %w", ErrNotFound)
		}
		return 0, fmt.Errorf("allocating next menu id: %w", err)
	}
	return next, nil
}
