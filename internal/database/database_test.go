package database

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, Migrate(context.Background(), db))
	return db
}

func TestMigrate_CreatesTables(t *testing.T) {
	db := newTestDB(t)

	for _, table := range []string{"users", "meals"} {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, table).Scan(&name)
		require.NoError(t, err, table)
		assert.Equal(t, table, name)
	}
}

func TestMigrate_Idempotent(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, Migrate(context.Background(), db))
}

func TestForeignKeysEnforced(t *testing.T) {
	db := newTestDB(t)

	_, err := db.Exec(`INSERT INTO meals (id, name, description, date, is_diet, user_id) VALUES ('m1', 'n', 'd', '2024-01-01', 1, 'ghost')`)
	assert.Error(t, err)

	// NULL owner passes the constraint.
	_, err = db.Exec(`INSERT INTO meals (id, name, description, date, is_diet, user_id) VALUES ('m2', 'n', 'd', '2024-01-01', 1, NULL)`)
	assert.NoError(t, err)
}

func TestEmailUnique(t *testing.T) {
	db := newTestDB(t)

	_, err := db.Exec(`INSERT INTO users (id, name, email, password) VALUES ('u1', 'a', 'a@example.com', 'x')`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO users (id, name, email, password) VALUES ('u2', 'b', 'a@example.com', 'x')`)
	assert.Error(t, err)
}

func TestWithTx_CommitAndRollback(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	err := WithTx(ctx, db, func(ctx context.Context, tx DBTX) error {
		_, err := tx.ExecContext(ctx, `INSERT INTO users (id, name, email, password) VALUES ('u1', 'a', 'a@example.com', 'x')`)
		return err
	})
	require.NoError(t, err)

	boom := errors.New("boom")
	err = WithTx(ctx, db, func(ctx context.Context, tx DBTX) error {
		if _, err := tx.ExecContext(ctx, `INSERT INTO users (id, name, email, password) VALUES ('u2', 'b', 'b@example.com', 'x')`); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	var count int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM users`).Scan(&count))
	assert.Equal(t, 1, count)
}

func TestWithTx_PanicRollsBack(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	assert.Panics(t, func() {
		_ = WithTx(ctx, db, func(ctx context.Context, tx DBTX) error {
			_, _ = tx.ExecContext(ctx, `INSERT INTO users (id, name, email, password) VALUES ('u1', 'a', 'a@example.com', 'x')`)
			panic("kaboom")
		})
	})

	var count int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM users`).Scan(&count))
	assert.Equal(t, 0, count)
}
