package cart

import (
	"context"

	"webhost-storefront/internal/domain"
)

type Repository interface {
	// GetOrCreate returns the user's cart, creating an empty one on first use.
	GetOrCreate(ctx context.Context, userID string) (*domain.Cart, error)
	AddItem(ctx context.Context, userID string, item domain.CartItem) (*domain.Cart, error)
	// RemoveItem drops every item with the given item id and returns the
	// removed items together with the updated cart.
	RemoveItem(ctx context.Context, userID, itemID string) ([]domain.CartItem, *domain.Cart, error)
	Clear(ctx context.Context, userID string) error
}
