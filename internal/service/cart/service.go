package cart

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"webhost-storefront/internal/domain"
	"webhost-storefront/internal/logging"
	cartrepo "webhost-storefront/internal/repository/cart"
)

type Service struct {
	repo    cartrepo.Repository
	plans   planRepo
	domains domainRepo
	logger  logrus.FieldLogger
}

type planRepo interface {
	GetHosting(ctx context.Context, id string) (*domain.HostingPlan, error)
	GetWordpress(ctx context.Context, id string) (*domain.WordpressPlan, error)
	GetAddon(ctx context.Context, id string) (*domain.Addon, error)
}

type domainRepo interface {
	DeletePending(ctx context.Context, id, userID string) error
}

func New(repo cartrepo.Repository, plans planRepo, domains domainRepo, logger logrus.FieldLogger) *Service {
	return &Service{repo: repo, plans: plans, domains: domains, logger: logging.OrDiscard(logger)}
}

// Get returns the user's cart, creating an empty one on first access.
func (s *Service) Get(ctx context.Context, userID string) (*domain.Cart, error) {
	return s.repo.GetOrCreate(ctx, userID)
}

func (s *Service) AddHosting(ctx context.Context, userID, planID string) (*domain.Cart, error) {
	if !domain.ValidID(planID) {
		return nil, domain.Invalid("hosting plan not found")
	}
	p, err := s.plans.GetHosting(ctx, planID)
	if err != nil {
		return nil, notFoundAs(err, "hosting plan not found")
	}
	return s.repo.AddItem(ctx, userID, domain.CartItem{
		ItemType:     domain.ItemHosting,
		ItemID:       p.ID,
		Name:         p.Name,
		PriceCents:   p.PriceCents,
		BillingCycle: p.BillingCycle,
	})
}

func (s *Service) AddWordpress(ctx context.Context, userID, planID string) (*domain.Cart, error) {
	if !domain.ValidID(planID) {
		return nil, domain.Invalid("wordpress plan not found")
	}
	p, err := s.plans.GetWordpress(ctx, planID)
	if err != nil {
		return nil, notFoundAs(err, "wordpress plan not found")
	}
	return s.repo.AddItem(ctx, userID, domain.CartItem{
		ItemType:     domain.ItemWordpress,
		ItemID:       p.ID,
		Name:         p.Name,
		PriceCents:   p.PriceCents,
		BillingCycle: p.BillingCycle,
	})
}

func (s *Service) AddAddon(ctx context.Context, userID, addonID string) (*domain.Cart, error) {
	if !domain.ValidID(addonID) {
		return nil, domain.Invalid("addon not found")
	}
	a, err := s.plans.GetAddon(ctx, addonID)
	if err != nil {
		return nil, notFoundAs(err, "addon not found")
	}
	return s.repo.AddItem(ctx, userID, domain.CartItem{
		ItemType:     domain.ItemAddon,
		ItemID:       a.ID,
		Name:         a.Name,
		PriceCents:   a.PriceCents,
		BillingCycle: a.BillingCycle,
	})
}

// AddDomain puts a pending domain into the user's cart.
func (s *Service) AddDomain(ctx context.Context, userID string, d *domain.Domain) (*domain.Cart, error) {
	period := d.RegistrationPeriod
	if period <= 0 {
		period = 1
	}
	return s.repo.AddItem(ctx, userID, domain.CartItem{
		ItemType:           domain.ItemDomain,
		ItemID:             d.ID,
		Name:               d.Name,
		PriceCents:         d.PriceCents * int64(period),
		RegistrationPeriod: period,
	})
}

// RemoveItem drops every item with itemID. Removed domain items release the
// pending domain so the name can be searched and registered again.
func (s *Service) RemoveItem(ctx context.Context, userID, itemID string) (*domain.Cart, error) {
	if !domain.ValidID(itemID) {
		return nil, domain.Errorf(domain.ErrNotFound, "item not found in cart")
	}
	removed, cart, err := s.repo.RemoveItem(ctx, userID, itemID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.Errorf(domain.ErrNotFound, "item not found in cart")
	}
	if err != nil {
		return nil, err
	}

	for _, it := range removed {
		if it.ItemType != domain.ItemDomain {
			continue
		}
		if err := s.domains.DeletePending(ctx, it.ItemID, userID); err != nil && !errors.Is(err, domain.ErrNotFound) {
			s.logger.WithError(err).WithField("domain", it.Name).Warn("cart: release pending domain")
		}
	}
	return cart, nil
}

func (s *Service) Clear(ctx context.Context, userID string) error {
	return s.repo.Clear(ctx, userID)
}

func notFoundAs(err error, msg string) error {
	if errors.Is(err, domain.ErrNotFound) {
		return domain.Invalid("%s", msg)
	}
	return err
}
