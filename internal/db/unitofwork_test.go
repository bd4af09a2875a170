package db_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/alexanderramin/cmscontent/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestUoW(t *testing.T) *db.SQLiteUnitOfWork {
	t.Helper()
	database, err := db.OpenDB(db.MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	return db.NewSQLiteUnitOfWork(database)
}

func insertSection(ctx context.Context, tx db.DBTX, id int64) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO menu_nodes (id, parent_id, kind, created_at) VALUES (?, NULL, 'section', '2025-01-01T00:00:00Z')`, id)
	return err
}

func nodeExists(t *testing.T, uow *db.SQLiteUnitOfWork, id int64) bool {
	t.Helper()
	var found bool
	err := uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		var n int
		if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM menu_nodes WHERE id = ?`, id).Scan(&n); err != nil {
			return err
		}
		found = n > 0
		return nil
	})
	require.NoError(t, err)
	return found
}

func TestWithinTx_CommitOnSuccess(t *testing.T) {
	uow := openTestUoW(t)

	err := uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		return insertSection(ctx, tx, 1)
	})
	require.NoError(t, err)
	assert.True(t, nodeExists(t, uow, 1))
}

func TestWithinTx_RollbackOnError(t *testing.T) {
	uow := openTestUoW(t)

	err := uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		if err := insertSection(ctx, tx, 2); err != nil {
			return err
		}
		return fmt.Errorf("deliberate failure")
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "deliberate failure")
	assert.False(t, nodeExists(t, uow, 2))
}

func TestWithinTx_RollbackOnPanic(t *testing.T) {
	uow := openTestUoW(t)

	assert.Panics(t, func() {
		_ = uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
			_ = insertSection(ctx, tx, 3)
			panic("boom")
		})
	})
	assert.False(t, nodeExists(t, uow, 3))
}

func TestIsUniqueViolation(t *testing.T) {
	uow := openTestUoW(t)

	err := uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		if err := insertSection(ctx, tx, 9); err != nil {
			return err
		}
		return insertSection(ctx, tx, 9)
	})
	require.Error(t, err)
	assert.True(t, db.IsUniqueViolation(err))
	assert.False(t, db.IsForeignKeyViolation(err))
	assert.False(t, db.IsUniqueViolation(nil))
}

func TestIsForeignKeyViolation(t *testing.T) {
	uow := openTestUoW(t)

	err := uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO menu_nodes (id, parent_id, kind, created_at) VALUES (5, 404, 'category', '2025-01-01T00:00:00Z')`)
		return err
	})
	require.Error(t, err)
	assert.True(t, db.IsForeignKeyViolation(err))
}
