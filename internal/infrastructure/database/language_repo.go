package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"translationbot/internal/ports/output"
)

var _ output.LanguageRepository = (*LanguageRepository)(nil)

// DBTX is the subset of pgx shared by *pgxpool.Pool, *pgx.Conn and pgx.Tx.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const (
	findLanguageSQL = `SELECT language FROM conversation_languages WHERE conversation_key = $1`

	saveLanguageSQL = `INSERT INTO conversation_languages (conversation_key, language, updated_at)
VALUES ($1, $2, now())
ON CONFLICT (conversation_key) DO UPDATE SET language = EXCLUDED.language, updated_at = now()`
)

// LanguageRepository implements output.LanguageRepository on PostgreSQL.
type LanguageRepository struct {
	db DBTX
}

// NewLanguageRepository creates a LanguageRepository.
func NewLanguageRepository(db DBTX) *LanguageRepository {
	return &LanguageRepository{db: db}
}

func (r *LanguageRepository) Find(ctx context.Context, conversationKey string) (string, bool, error) {
	var lang string
	err := r.db.QueryRow(ctx, findLanguageSQL, conversationKey).Scan(&lang)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get conversation language: %w", err)
	}
	return lang, true, nil
}

func (r *LanguageRepository) Save(ctx context.Context, conversationKey, language string) error {
	if _, err := r.db.Exec(ctx, saveLanguageSQL, conversationKey, language); err != nil {
		return fmt.Errorf("upsert conversation language: %w", err)
	}
	return nil
}
