package database_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/foodgram/backend/config"
	"github.com/pageza/foodgram/backend/internal/database"
	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/testhelpers"
)

func TestMigrationFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"0002_more.sql", "0001_init.sql", "0001_init_rollback.sql", "README.md"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("-- noop"), 0o600))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "0003_dir.sql"), 0o755))

	files, err := database.MigrationFiles(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"0001_init.sql", "0002_more.sql"}, files)

	assert.Equal(t, "0001", database.MigrationVersion("0001_init.sql"))
	assert.Equal(t, "0001_init_rollback.sql", database.RollbackFile("0001_init.sql"))
}

func TestNewSQLite(t *testing.T) {
	cfg := &config.Config{DBDriver: "sqlite", DBPath: filepath.Join(t.TempDir(), "foodgram.db")}

	db, err := database.New(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, database.RunMigrations(db.DB, ""))
	assert.NoError(t, db.HealthCheck(context.Background()))

	user := models.User{Email: "a@example.com", Username: "a", FirstName: "A", LastName: "A", PasswordHash: "x"}
	require.NoError(t, db.Create(&user).Error)
	assert.Equal(t, models.RoleUser, user.Role)
}

func TestNewUnsupportedDriver(t *testing.T) {
	_, err := database.New(&config.Config{DBDriver: "oracle"})
	assert.Error(t, err)
}

func TestRunMigrationsPostgres(t *testing.T) {
	db := testhelpers.SetupPostgresDB(t)

	var applied int64
	require.NoError(t, db.Table("schema_migrations").Count(&applied).Error)
	assert.EqualValues(t, 1, applied)

	// Second run is a no-op.
	require.NoError(t, database.RunMigrations(db, testhelpers.MigrationsDir(t)))
	require.NoError(t, db.Table("schema_migrations").Count(&applied).Error)
	assert.EqualValues(t, 1, applied)

	for _, table := range []string{"users", "tags", "ingredients", "recipes", "recipe_tags",
		"recipe_ingredients", "favorites", "shopping_carts", "subscriptions"} {
		assert.True(t, db.Migrator().HasTable(table), table)
	}
}
