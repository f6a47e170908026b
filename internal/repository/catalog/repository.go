package catalog

import (
	"context"

	"webhost-storefront/internal/domain"
)

type HostingRepository interface {
	ListHosting(ctx context.Context) ([]domain.HostingPlan, error)
	GetHosting(ctx context.Context, id string) (*domain.HostingPlan, error)
	CreateHosting(ctx context.Context, p domain.HostingPlan) (*domain.HostingPlan, error)
	UpdateHosting(ctx context.Context, p domain.HostingPlan) (*domain.HostingPlan, error)
	DeleteHosting(ctx context.Context, id string) error
	UpsertHosting(ctx context.Context, p domain.HostingPlan) (*domain.HostingPlan, error)
}

type WordpressRepository interface {
	ListWordpress(ctx context.Context) ([]domain.WordpressPlan, error)
	GetWordpress(ctx context.Context, id string) (*domain.WordpressPlan, error)
	CreateWordpress(ctx context.Context, p domain.WordpressPlan) (*domain.WordpressPlan, error)
	UpdateWordpress(ctx context.Context, p domain.WordpressPlan) (*domain.WordpressPlan, error)
	DeleteWordpress(ctx context.Context, id string) error
	UpsertWordpress(ctx context.Context, p domain.WordpressPlan) (*domain.WordpressPlan, error)
}

type AddonRepository interface {
	ListAddons(ctx context.Context) ([]domain.Addon, error)
	GetAddon(ctx context.Context, id string) (*domain.Addon, error)
	CreateAddon(ctx context.Context, a domain.Addon) (*domain.Addon, error)
	UpdateAddon(ctx context.Context, a domain.Addon) (*domain.Addon, error)
	DeleteAddon(ctx context.Context, id string) error
	UpsertAddon(ctx context.Context, a domain.Addon) (*domain.Addon, error)
}

// Repository covers every plan table.
type Repository interface {
	HostingRepository
	WordpressRepository
	AddonRepository
}
