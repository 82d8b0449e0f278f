package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"

	_ "github.com/mattn/go-sqlite3"

	"translationbot/internal/ports/output"
)

var _ output.LanguageRepository = (*SQLiteLanguageRepository)(nil)

const (
	sqliteSchema = `CREATE TABLE IF NOT EXISTS conversation_languages (
	conversation_key TEXT PRIMARY KEY,
	language         TEXT NOT NULL,
	updated_at       TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
)`

	sqliteFindLanguageSQL = `SELECT language FROM conversation_languages WHERE conversation_key = ?`

	sqliteSaveLanguageSQL = `INSERT INTO conversation_languages (conversation_key, language, updated_at)
VALUES (?, ?, CURRENT_TIMESTAMP)
ON CONFLICT (conversation_key) DO UPDATE SET language = excluded.language, updated_at = CURRENT_TIMESTAMP`
)

// SQLiteLanguageRepository implements output.LanguageRepository on a SQLite file,
// for single-host deployments without PostgreSQL.
type SQLiteLanguageRepository struct {
	db *sql.DB
}

// OpenSQLite opens (or creates) the database at path and ensures the schema exists.
func OpenSQLite(ctx context.Context, path string) (*SQLiteLanguageRepository, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// SQLite serializes writers; one connection avoids "database is locked".
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create sqlite schema: %w", err)
	}
	log.Printf("✅ SQLite database ready (%s).", path)
	return &SQLiteLanguageRepository{db: db}, nil
}

func (r *SQLiteLanguageRepository) Find(ctx context.Context, conversationKey string) (string, bool, error) {
	var lang string
	err := r.db.QueryRowContext(ctx, sqliteFindLanguageSQL, conversationKey).Scan(&lang)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get conversation language: %w", err)
	}
	return lang, true, nil
}

func (r *SQLiteLanguageRepository) Save(ctx context.Context, conversationKey, language string) error {
	if _, err := r.db.ExecContext(ctx, sqliteSaveLanguageSQL, conversationKey, language); err != nil {
		return fmt.Errorf("upsert conversation language: %w", err)
	}
	return nil
}

// Close releases the database file.
func (r *SQLiteLanguageRepository) Close() error {
	return r.db.Close()
}
