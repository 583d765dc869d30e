package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/ismo-hris/hris-backend-go/internal/pkg/database"
	"github.com/ismo-hris/hris-backend-go/internal/pkg/jwt"
)

type revokedTokenRepositoryImpl struct {
	db *database.DB
}

// NewRevokedTokenRepository keeps logged-out token ids in revoked_tokens.
func NewRevokedTokenRepository(db *database.DB) jwt.RevocationStore {
	return &revokedTokenRepositoryImpl{db: db}
}

func (j *revokedTokenRepositoryImpl) Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error {
	q := GetQuerier(ctx, j.db)
	query := `
		INSERT INTO revoked_tokens (token_id, expires_at)
		VALUES ($1, $2)
		ON CONFLICT (token_id) DO NOTHING
	`
	if _, err := q.Exec(ctx, query, tokenID, expiresAt.UTC()); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

func (j *revokedTokenRepositoryImpl) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	q := GetQuerier(ctx, j.db)

	var revoked bool
	err := q.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM revoked_tokens WHERE token_id = $1)`, tokenID).Scan(&revoked)
	return revoked, err
}

// Sweep drops entries whose token has expired on its own.
func (j *revokedTokenRepositoryImpl) Sweep(ctx context.Context, now time.Time) (int64, error) {
	q := GetQuerier(ctx, j.db)

	tag, err := q.Exec(ctx, `DELETE FROM revoked_tokens WHERE expires_at <= $1`, now.UTC())
	if err != nil {
		return 0, fmt.Errorf("sweep revoked tokens: %w", err)
	}
	return tag.RowsAffected(), nil
}
