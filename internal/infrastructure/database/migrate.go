package database

import (
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

// ErrDirtyMigration is returned when a previous migration stopped half way.
var ErrDirtyMigration = errors.New("language table migration is dirty")

// RunMigrations brings the conversation_languages table up to date.
func RunMigrations(dsn string, migrationsPath string) error {
	source, err := sourceURL(migrationsPath)
	if err != nil {
		return err
	}
	m, err := migrate.New(source, dsn)
	if err != nil {
		return fmt.Errorf("migration init: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration up: %w", err)
	}

	version, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("migration version: %w", err)
	}
	if dirty {
		return fmt.Errorf("%w (version %d)", ErrDirtyMigration, version)
	}
	log.Printf("✅ Language table at migration version %d.", version)
	return nil
}

// sourceURL turns a directory (relative, absolute or already file://) into the
// golang-migrate file source URL.
func sourceURL(path string) (string, error) {
	if strings.HasPrefix(path, "file://") {
		return path, nil
	}
	if strings.TrimSpace(path) == "" {
		return "", errors.New("migrations path is empty")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve migrations path: %w", err)
	}
	return "file://" + filepath.ToSlash(abs), nil
}
