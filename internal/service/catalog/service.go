package catalog

import (
	"context"
	"errors"
	"strings"

	"webhost-storefront/internal/domain"
	catalogrepo "webhost-storefront/internal/repository/catalog"
)

// Service exposes the hosting, WordPress and add-on catalog.
type Service struct {
	repo catalogrepo.Repository
}

var (
	errHostingNotFound   = domain.Errorf(domain.ErrNotFound, "hosting plan not found")
	errWordpressNotFound = domain.Errorf(domain.ErrNotFound, "wordpress plan not found")
	errAddonNotFound     = domain.Errorf(domain.ErrNotFound, "addon not found")
)

func New(repo catalogrepo.Repository) *Service {
	return &Service{repo: repo}
}

// storeErr gives repository errors a client-facing message.
func storeErr(err, notFound error, name string) error {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return notFound
	case errors.Is(err, domain.ErrAlreadyExists):
		return domain.Invalid("plan %q already exists", name)
	}
	return err
}

func (s *Service) ListHosting(ctx context.Context) ([]domain.HostingPlan, error) {
	return s.repo.ListHosting(ctx)
}

func (s *Service) GetHosting(ctx context.Context, id string) (*domain.HostingPlan, error) {
	if !domain.ValidID(id) {
		return nil, errHostingNotFound
	}
	got, err := s.repo.GetHosting(ctx, id)
	if err != nil {
		return nil, storeErr(err, errHostingNotFound, "")
	}
	return got, nil
}

func (s *Service) CreateHosting(ctx context.Context, p domain.HostingPlan) (*domain.HostingPlan, error) {
	if err := NormalizeHosting(&p); err != nil {
		return nil, err
	}
	created, err := s.repo.CreateHosting(ctx, p)
	if err != nil {
		return nil, storeErr(err, errHostingNotFound, p.Name)
	}
	return created, nil
}

// UpdateHosting replaces the plan stored under id.
func (s *Service) UpdateHosting(ctx context.Context, id string, p domain.HostingPlan) (*domain.HostingPlan, error) {
	if !domain.ValidID(id) {
		return nil, errHostingNotFound
	}
	if err := NormalizeHosting(&p); err != nil {
		return nil, err
	}
	p.ID = id
	updated, err := s.repo.UpdateHosting(ctx, p)
	if err != nil {
		return nil, storeErr(err, errHostingNotFound, p.Name)
	}
	return updated, nil
}

func (s *Service) DeleteHosting(ctx context.Context, id string) error {
	if !domain.ValidID(id) {
		return errHostingNotFound
	}
	return storeErr(s.repo.DeleteHosting(ctx, id), errHostingNotFound, "")
}

func (s *Service) ListWordpress(ctx context.Context) ([]domain.WordpressPlan, error) {
	return s.repo.ListWordpress(ctx)
}

func (s *Service) GetWordpress(ctx context.Context, id string) (*domain.WordpressPlan, error) {
	if !domain.ValidID(id) {
		return nil, errWordpressNotFound
	}
	got, err := s.repo.GetWordpress(ctx, id)
	if err != nil {
		return nil, storeErr(err, errWordpressNotFound, "")
	}
	return got, nil
}

func (s *Service) CreateWordpress(ctx context.Context, p domain.WordpressPlan) (*domain.WordpressPlan, error) {
	if err := NormalizeWordpress(&p); err != nil {
		return nil, err
	}
	created, err := s.repo.CreateWordpress(ctx, p)
	if err != nil {
		return nil, storeErr(err, errWordpressNotFound, p.Name)
	}
	return created, nil
}

func (s *Service) UpdateWordpress(ctx context.Context, id string, p domain.WordpressPlan) (*domain.WordpressPlan, error) {
	if !domain.ValidID(id) {
		return nil, errWordpressNotFound
	}
	if err := NormalizeWordpress(&p); err != nil {
		return nil, err
	}
	p.ID = id
	updated, err := s.repo.UpdateWordpress(ctx, p)
	if err != nil {
		return nil, storeErr(err, errWordpressNotFound, p.Name)
	}
	return updated, nil
}

func (s *Service) DeleteWordpress(ctx context.Context, id string) error {
	if !domain.ValidID(id) {
		return errWordpressNotFound
	}
	return storeErr(s.repo.DeleteWordpress(ctx, id), errWordpressNotFound, "")
}

func (s *Service) ListAddons(ctx context.Context) ([]domain.Addon, error) {
	return s.repo.ListAddons(ctx)
}

func (s *Service) GetAddon(ctx context.Context, id string) (*domain.Addon, error) {
	if !domain.ValidID(id) {
		return nil, errAddonNotFound
	}
	got, err := s.repo.GetAddon(ctx, id)
	if err != nil {
		return nil, storeErr(err, errAddonNotFound, "")
	}
	return got, nil
}

func (s *Service) CreateAddon(ctx context.Context, a domain.Addon) (*domain.Addon, error) {
	if err := NormalizeAddon(&a); err != nil {
		return nil, err
	}
	created, err := s.repo.CreateAddon(ctx, a)
	if err != nil {
		return nil, storeErr(err, errAddonNotFound, a.Name)
	}
	return created, nil
}

func (s *Service) UpdateAddon(ctx context.Context, id string, a domain.Addon) (*domain.Addon, error) {
	if !domain.ValidID(id) {
		return nil, errAddonNotFound
	}
	if err := NormalizeAddon(&a); err != nil {
		return nil, err
	}
	a.ID = id
	updated, err := s.repo.UpdateAddon(ctx, a)
	if err != nil {
		return nil, storeErr(err, errAddonNotFound, a.Name)
	}
	return updated, nil
}

func (s *Service) DeleteAddon(ctx context.Context, id string) error {
	if !domain.ValidID(id) {
		return errAddonNotFound
	}
	return storeErr(s.repo.DeleteAddon(ctx, id), errAddonNotFound, "")
}

// NormalizeHosting validates p and fills in defaults.
func NormalizeHosting(p *domain.HostingPlan) error {
	p.Name = strings.TrimSpace(p.Name)
	p.Description = strings.TrimSpace(p.Description)
	if err := validateBasics(p.Name, p.PriceCents); err != nil {
		return err
	}
	cycle, err := recurringCycle(p.BillingCycle)
	if err != nil {
		return err
	}
	p.BillingCycle = cycle
	p.Resources.SSLIncluded = orDefault(p.Resources.SSLIncluded, "Free")
	return nil
}

// NormalizeWordpress validates p and fills in defaults.
func NormalizeWordpress(p *domain.WordpressPlan) error {
	p.Name = strings.TrimSpace(p.Name)
	if err := validateBasics(p.Name, p.PriceCents); err != nil {
		return err
	}
	cycle, err := recurringCycle(p.BillingCycle)
	if err != nil {
		return err
	}
	p.BillingCycle = cycle
	r := &p.Resources
	r.SSLIncluded = orDefault(r.SSLIncluded, "Free")
	r.DailyBackups = orDefault(r.DailyBackups, "Free")
	r.ControlPanel = orDefault(r.ControlPanel, "Direct Admin")
	r.SiteBuilder = orDefault(r.SiteBuilder, "Free")
	r.Bandwidth = orDefault(r.Bandwidth, "Unlimited")
	return nil
}

// NormalizeAddon validates a and fills in defaults.
func NormalizeAddon(a *domain.Addon) error {
	a.Name = strings.TrimSpace(a.Name)
	a.Description = strings.TrimSpace(a.Description)
	if err := validateBasics(a.Name, a.PriceCents); err != nil {
		return err
	}
	switch a.BillingCycle {
	case "":
		a.BillingCycle = domain.BillingOneTime
	case domain.BillingMonthly, domain.BillingYearly, domain.BillingOneTime:
	default:
		return domain.Invalid("invalid billing cycle %q", a.BillingCycle)
	}
	switch a.Type {
	case "":
		a.Type = domain.AddonOther
	case domain.AddonAntivirus, domain.AddonBackup, domain.AddonOther:
	default:
		return domain.Invalid("invalid addon type %q", a.Type)
	}
	return nil
}

func validateBasics(name string, price int64) error {
	if name == "" {
		return domain.Invalid("name is required")
	}
	if price < 0 {
		return domain.Invalid("price must not be negative")
	}
	return nil
}

func recurringCycle(c domain.BillingCycle) (domain.BillingCycle, error) {
	switch c {
	case "":
		return domain.BillingMonthly, nil
	case domain.BillingMonthly, domain.BillingYearly:
		return c, nil
	}
	return "", domain.Invalid("invalid billing cycle %q", c)
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}
