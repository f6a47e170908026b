package auth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/sirupsen/logrus"

	"webhost-storefront/internal/domain"
	tokenrepo "webhost-storefront/internal/repository/token"
)

const codeDigits = 6

// resetCodes issues numeric one-time codes and keeps only their hashes.
type resetCodes struct {
	repo   tokenrepo.Repository
	ttl    time.Duration
	now    func() time.Time
	logger logrus.FieldLogger
}

func newResetCodes(repo tokenrepo.Repository, ttl time.Duration, logger logrus.FieldLogger) *resetCodes {
	return &resetCodes{repo: repo, ttl: ttl, now: time.Now, logger: logger}
}

// Issue stores a fresh code for userID, replacing any earlier one.
func (m *resetCodes) Issue(ctx context.Context, userID string) (string, error) {
	code, err := randomCode()
	if err != nil {
		return "", err
	}
	err = m.repo.Replace(ctx, tokenrepo.Token{
		Hash:      hashCode(code),
		UserID:    userID,
		Kind:      tokenrepo.KindPasswordReset,
		ExpiresAt: m.now().Add(m.ttl),
	})
	if err != nil {
		return "", err
	}
	return code, nil
}

// Verify checks code against the stored hash. Expired codes are deleted.
func (m *resetCodes) Verify(ctx context.Context, userID, code string) error {
	tok, err := m.repo.GetForUser(ctx, userID, tokenrepo.KindPasswordReset)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.Invalid("no password reset request found")
	}
	if err != nil {
		return err
	}
	if m.now().After(tok.ExpiresAt) {
		if err := m.repo.DeleteForUser(ctx, userID, tokenrepo.KindPasswordReset); err != nil {
			m.logger.WithError(err).WithField("user_id", userID).Warn("auth: delete expired reset code")
		}
		return domain.Invalid("reset code has expired")
	}
	if subtle.ConstantTimeCompare([]byte(tok.Hash), []byte(hashCode(code))) != 1 {
		return domain.Invalid("invalid reset code")
	}
	return nil
}

func (m *resetCodes) Consume(ctx context.Context, userID string) error {
	return m.repo.DeleteForUser(ctx, userID, tokenrepo.KindPasswordReset)
}

func randomCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		return "", fmt.Errorf("generate code: %w", err)
	}
	return fmt.Sprintf("%0*d", codeDigits, n.Int64()), nil
}

func hashCode(code string) string {
	sum := sha256.Sum256([]byte(code))
	return hex.EncodeToString(sum[:])
}
