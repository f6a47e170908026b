package token

import (
	"context"
	"time"
)

// KindPasswordReset marks one-time password reset codes.
const KindPasswordReset = "password_reset"

// Token is a hashed single-use secret bound to a user.
type Token struct {
	Hash      string
	UserID    string
	Kind      string
	ExpiresAt time.Time
	CreatedAt time.Time
}

type Repository interface {
	// Replace stores token, dropping any earlier token of the same kind for the user.
	Replace(ctx context.Context, token Token) error
	GetForUser(ctx context.Context, userID, kind string) (*Token, error)
	DeleteForUser(ctx context.Context, userID, kind string) error
}
