package token

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"webhost-storefront/internal/db"
	"webhost-storefront/internal/domain"
)

type postgresRepo struct {
	pool db.Pool
}

func NewPostgres(pool db.Pool) Repository {
	return &postgresRepo{pool: pool}
}

func (r *postgresRepo) Replace(ctx context.Context, token Token) error {
	const q = `
INSERT INTO user_tokens (token_hash, user_id, kind, expires_at)
VALUES ($1, $2, $3, $4)
ON CONFLICT (user_id, kind) DO UPDATE
SET token_hash = EXCLUDED.token_hash,
    expires_at = EXCLUDED.expires_at,
    created_at = now()
`
	_, err := r.pool.Exec(ctx, q, token.Hash, token.UserID, token.Kind, token.ExpiresAt)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return domain.ErrAlreadyExists
		}
		return err
	}
	return nil
}

func (r *postgresRepo) GetForUser(ctx context.Context, userID, kind string) (*Token, error) {
	const q = `
SELECT token_hash, user_id::text, kind, expires_at, created_at
FROM user_tokens
WHERE user_id = $1 AND kind = $2
`
	var out Token
	if err := r.pool.QueryRow(ctx, q, userID, kind).Scan(
		&out.Hash,
		&out.UserID,
		&out.Kind,
		&out.ExpiresAt,
		&out.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &out, nil
}

func (r *postgresRepo) DeleteForUser(ctx context.Context, userID, kind string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM user_tokens WHERE user_id = $1 AND kind = $2`, userID, kind)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
