package services

import (
	"context"
	"database/sql"
	"testing"

	"github.com/isdelr/daily-diet-be/internal/database"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, database.Migrate(context.Background(), db))
	return db
}

func newTestUserService(t *testing.T, db *sql.DB) *UserService {
	t.Helper()
	return NewUserService(db, WithHashCost(bcrypt.MinCost))
}
