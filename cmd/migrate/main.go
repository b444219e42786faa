package main

import (
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/lib/pq"

	"github.com/pageza/foodgram/backend/config"
	"github.com/pageza/foodgram/backend/internal/database"
	"github.com/pageza/foodgram/backend/internal/logging"
)

const createSchemaMigrations = `
CREATE TABLE IF NOT EXISTS schema_migrations (
	version VARCHAR(64) PRIMARY KEY,
	name VARCHAR(255) NOT NULL,
	applied_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT CURRENT_TIMESTAMP
)`

func main() {
	rollback := flag.Bool("rollback", false, "Rollback the last migration")
	status := flag.Bool("status", false, "List applied and pending migrations")
	dir := flag.String("dir", "", "Migrations directory (default MIGRATIONS_DIR or ./migrations)")
	flag.Parse()

	dsn := os.Getenv("DATABASE_URL")
	migrationsDir := *dir
	if dsn == "" || migrationsDir == "" {
		cfg, err := config.LoadConfig()
		if err != nil {
			logging.Fatal().Err(err).Msg("DATABASE_URL is not set and configuration could not be loaded")
		}
		if dsn == "" {
			dsn = fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
				cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBSSLMode)
		}
		if migrationsDir == "" {
			migrationsDir = cfg.MigrationsDir
		}
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to open database")
	}
	defer db.Close()

	if _, err := db.Exec(createSchemaMigrations); err != nil {
		logging.Fatal().Err(err).Msg("Failed to create schema_migrations table")
	}

	switch {
	case *rollback:
		err = rollbackLast(db, migrationsDir)
	case *status:
		err = printStatus(db, migrationsDir)
	default:
		err = applyPending(db, migrationsDir)
	}
	if err != nil {
		logging.Fatal().Err(err).Msg("Migration failed")
	}
}

func applied(db *sql.DB, version string) (bool, error) {
	var exists bool
	err := db.QueryRow("SELECT EXISTS (SELECT 1 FROM schema_migrations WHERE version = $1)", version).Scan(&exists)
	return exists, err
}

func applyPending(db *sql.DB, migrationsDir string) error {
	files, err := database.MigrationFiles(migrationsDir)
	if err != nil {
		return err
	}

	for _, name := range files {
		version := database.MigrationVersion(name)
		done, err := applied(db, version)
		if err != nil {
			return fmt.Errorf("failed to check migration status: %w", err)
		}
		if done {
			logging.Info().Str("migration", name).Msg("Migration already applied")
			continue
		}

		content, err := os.ReadFile(filepath.Join(migrationsDir, name))
		if err != nil {
			return fmt.Errorf("failed to read migration %s: %w", name, err)
		}

		tx, err := db.Begin()
		if err != nil {
			return fmt.Errorf("failed to start transaction: %w", err)
		}
		if _, err := tx.Exec(string(content)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to apply migration %s: %w", name, err)
		}
		if _, err := tx.Exec("INSERT INTO schema_migrations (version, name) VALUES ($1, $2)", version, name); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to record migration %s: %w", name, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit migration %s: %w", name, err)
		}
		logging.Info().Str("migration", name).Msg("Applied migration")
	}

	logging.Info().Msg("All migrations applied")
	return nil
}

func rollbackLast(db *sql.DB, migrationsDir string) error {
	var version, name string
	err := db.QueryRow(`
		SELECT version, name
		FROM schema_migrations
		ORDER BY applied_at DESC, version DESC
		LIMIT 1
	`).Scan(&version, &name)
	if errors.Is(err, sql.ErrNoRows) {
		return errors.New("no migrations to roll back")
	}
	if err != nil {
		return fmt.Errorf("failed to get last migration: %w", err)
	}

	path := filepath.Join(migrationsDir, database.RollbackFile(name))
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read rollback file %s: %w", path, err)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	if _, err := tx.Exec(string(content)); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("failed to execute rollback: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM schema_migrations WHERE version = $1", version); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("failed to remove migration record: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit rollback: %w", err)
	}

	logging.Info().Str("migration", name).Msg("Rolled back migration")
	return nil
}

func printStatus(db *sql.DB, migrationsDir string) error {
	files, err := database.MigrationFiles(migrationsDir)
	if err != nil {
		return err
	}
	for _, name := range files {
		done, err := applied(db, database.MigrationVersion(name))
		if err != nil {
			return err
		}
		state := "pending"
		if done {
			state = "applied"
		}
		fmt.Printf("%-8s %s\n", state, name)
	}
	return nil
}
