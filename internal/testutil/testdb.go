package testutil

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/alexanderramin/cmscontent/internal/db"
	"github.com/alexanderramin/cmscontent/internal/domain"
)

// NewTestDB creates an in-memory SQLite database with all migrations applied.
// The database is closed when the test completes.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()
	database, err := db.OpenDB(db.MemoryPath)
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() {
		database.Close()
	})
	return database
}

// NewTestUoW creates a UnitOfWork backed by the given test database.
func NewTestUoW(database *sql.DB) db.UnitOfWork {
	return db.NewSQLiteUnitOfWork(database)
}

// NewTestMenuNode inserts a menu node of the given kind, taking its id from
// the menu sequence so later allocations do not collide with it.
func NewTestMenuNode(t *testing.T, conn db.DBTX, kind domain.NodeKind, parentID *int64) int64 {
	t.Helper()
	ctx := context.Background()
	var id int64
	err := conn.QueryRowContext(ctx,
		`UPDATE menu_sequence SET next_id = next_id + 1 WHERE name = ? RETURNING next_id - 1`,
		db.MenuSequenceName).Scan(&id)
	if err != nil {
		t.Fatalf("allocating test menu id: %v", err)
	}
	var parent any
	if parentID != nil {
		parent = *parentID
	}
	_, err = conn.ExecContext(ctx,
		`INSERT INTO menu_nodes (id, parent_id, kind, created_at) VALUES (?, ?, ?, ?)`,
		id, parent, string(kind), time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		t.Fatalf("inserting test menu node: %v", err)
	}
	return id
}
