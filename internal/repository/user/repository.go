package user

import (
	"context"

	"webhost-storefront/internal/domain"
)

// ProfileUpdate lists the optional fields a user may change on their profile.
// Nil fields are left untouched.
type ProfileUpdate struct {
	Name         *string
	Email        *string
	Phone        *string
	PasswordHash *string
}

type Repository interface {
	Create(ctx context.Context, u domain.User) (*domain.User, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	UpdateProfile(ctx context.Context, id string, in ProfileUpdate) (*domain.User, error)
	SetPasswordHash(ctx context.Context, id, hash string) error
	SetRole(ctx context.Context, id string, role domain.Role) (*domain.User, error)
}
