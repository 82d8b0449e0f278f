package database

import (
	"context"
	"fmt"
	"log"
	"strings"

	"translationbot/internal/infrastructure/memory"
	"translationbot/internal/ports/output"
)

const sqliteScheme = "sqlite://"

// OpenLanguageRepository picks the storage backend from dsn:
// postgres:// and postgresql:// use PostgreSQL (migrations are applied first),
// sqlite://path uses a SQLite file and an empty dsn keeps languages in memory.
// The returned func releases the backend.
func OpenLanguageRepository(ctx context.Context, dsn, migrationsPath string) (output.LanguageRepository, func(), error) {
	switch {
	case dsn == "":
		log.Println("⚠️ DATABASE_URL not set, conversation languages are kept in memory.")
		return memory.NewLanguageRepository(), func() {}, nil

	case strings.HasPrefix(dsn, sqliteScheme):
		repo, err := OpenSQLite(ctx, strings.TrimPrefix(dsn, sqliteScheme))
		if err != nil {
			return nil, nil, err
		}
		return repo, func() { _ = repo.Close() }, nil

	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		if err := RunMigrations(dsn, migrationsPath); err != nil {
			return nil, nil, err
		}
		pool, err := NewPool(ctx, dsn)
		if err != nil {
			return nil, nil, fmt.Errorf("connect postgres: %w", err)
		}
		return NewLanguageRepository(pool), pool.Close, nil

	default:
		return nil, nil, fmt.Errorf("unsupported database url scheme: %q", dsn)
	}
}
