package domainname

import (
	"context"
	"time"

	"webhost-storefront/internal/domain"
)

type Repository interface {
	Create(ctx context.Context, d domain.Domain) (*domain.Domain, error)
	GetByName(ctx context.Context, name string) (*domain.Domain, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Domain, error)
	// DeletePending removes a pending domain owned by userID; registered
	// domains are never deleted.
	DeletePending(ctx context.Context, id, userID string) error
	// ExpireBefore flips registered, non auto-renew domains whose expiry date
	// is before now to expired and returns how many changed.
	ExpireBefore(ctx context.Context, now time.Time) (int64, error)
}
