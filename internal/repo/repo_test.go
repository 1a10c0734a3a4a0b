package repo

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"go-gorm-library/internal/core/database"
	"go-gorm-library/pkg/utils"
)

func init() { utils.PasswordCost = bcrypt.MinCost }

var ctx = context.Background()

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.NewGorm(database.Opts{
		Driver:   "sqlite",
		DSN:      filepath.Join(t.TempDir(), "library.db"),
		LogLevel: "silent",
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() { _ = database.Close(db) })
	return db
}

func setupStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(setupTestDB(t))
}

func ptr[T any](v T) *T { return &v }
