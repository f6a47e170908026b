package registrar

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"webhost-storefront/internal/domain"
	"webhost-storefront/internal/logging"
	"webhost-storefront/internal/whois"
)

// ExtensionPrices lists the supported extensions and their yearly price in cents.
var ExtensionPrices = map[string]int64{
	".com": 10000,
	".net": 12000,
	".org": 13000,
}

// StatusLocallyRegistered is reported by Search for names already held here.
const StatusLocallyRegistered = "registered (local DB)"

type domainRepo interface {
	Create(ctx context.Context, d domain.Domain) (*domain.Domain, error)
	GetByName(ctx context.Context, name string) (*domain.Domain, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Domain, error)
	DeletePending(ctx context.Context, id, userID string) error
	ExpireBefore(ctx context.Context, now time.Time) (int64, error)
}

type cartAdder interface {
	AddDomain(ctx context.Context, userID string, d *domain.Domain) (*domain.Cart, error)
}

// Service searches and registers domain names.
type Service struct {
	domains domainRepo
	search  whois.Checker
	lookup  whois.Checker
	cart    cartAdder
	logger  logrus.FieldLogger
	now     func() time.Time
}

// New builds a Service. search answers availability queries and may be
// cached; lookup is consulted right before a registration and should not be.
func New(domains domainRepo, search, lookup whois.Checker, cart cartAdder, logger logrus.FieldLogger) *Service {
	return &Service{
		domains: domains,
		search:  search,
		lookup:  lookup,
		cart:    cart,
		logger:  logging.OrDiscard(logger),
		now:     time.Now,
	}
}

// Search reports whether name can be registered.
func (s *Service) Search(ctx context.Context, name string) (*domain.Availability, error) {
	name, _, err := parseName(name)
	if err != nil {
		return nil, err
	}

	_, err = s.domains.GetByName(ctx, name)
	if err == nil {
		return &domain.Availability{DomainName: name, Available: false, Status: StatusLocallyRegistered}, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	res, err := s.search.Check(ctx, name)
	if err != nil {
		return nil, domain.Upstream("whois", err)
	}
	return &domain.Availability{DomainName: name, Available: res.Available(), Status: res.Status}, nil
}

type RegisterResult struct {
	Message string         `json:"message"`
	Domain  *domain.Domain `json:"domain"`
	Cart    *domain.Cart   `json:"cart"`
}

// Register reserves name for userID as a pending domain and adds it to the
// user's cart. Checkout completes the registration.
func (s *Service) Register(ctx context.Context, userID, name string) (*RegisterResult, error) {
	name, ext, err := parseName(name)
	if err != nil {
		return nil, err
	}

	_, err = s.domains.GetByName(ctx, name)
	if err == nil {
		return nil, alreadyRegistered(name)
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	res, err := s.lookup.Check(ctx, name)
	if err != nil {
		return nil, domain.Upstream("whois", err)
	}
	if !res.Available() {
		return nil, alreadyRegistered(name)
	}

	owner := userID
	d, err := s.domains.Create(ctx, domain.Domain{
		Name:               name,
		PriceCents:         ExtensionPrices[ext],
		Status:             domain.DomainPending,
		UserID:             &owner,
		RegistrationPeriod: 1,
	})
	if errors.Is(err, domain.ErrAlreadyExists) {
		return nil, alreadyRegistered(name)
	}
	if err != nil {
		return nil, err
	}

	cart, err := s.cart.AddDomain(ctx, userID, d)
	if err != nil {
		if relErr := s.domains.DeletePending(ctx, d.ID, userID); relErr != nil {
			s.logger.WithError(relErr).WithField("domain", name).Warn("registrar: release after cart failure")
		}
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{"domain": name, "user_id": userID}).Info("registrar: domain reserved")
	return &RegisterResult{
		Message: fmt.Sprintf("Domain %q registered and added to cart successfully", name),
		Domain:  d,
		Cart:    cart,
	}, nil
}

func (s *Service) ListMine(ctx context.Context, userID string) ([]domain.Domain, error) {
	return s.domains.ListByUser(ctx, userID)
}

// ExpireDomains marks lapsed registrations as expired.
func (s *Service) ExpireDomains(ctx context.Context) (int64, error) {
	n, err := s.domains.ExpireBefore(ctx, s.now())
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.logger.WithField("count", n).Info("registrar: domains expired")
	}
	return n, nil
}

func alreadyRegistered(name string) error {
	return domain.Invalid("domain is already registered (%s)", name)
}

// parseName normalizes name and returns it with its extension.
func parseName(raw string) (string, string, error) {
	name := strings.ToLower(strings.TrimSpace(raw))
	if name == "" {
		return "", "", domain.Invalid("domain name is required")
	}
	dot := strings.LastIndexByte(name, '.')
	if dot <= 0 {
		return "", "", domain.Invalid("invalid domain name %q", name)
	}
	ext := name[dot:]
	if _, ok := ExtensionPrices[ext]; !ok {
		return "", "", domain.Invalid("extension %q is not supported", ext)
	}
	if len(name) > 253 {
		return "", "", domain.Invalid("invalid domain name %q", name)
	}
	for _, label := range strings.Split(name[:dot], ".") {
		if !validLabel(label) {
			return "", "", domain.Invalid("invalid domain name %q", name)
		}
	}
	return name, ext, nil
}

func validLabel(label string) bool {
	if len(label) == 0 || len(label) > 63 {
		return false
	}
	if label[0] == '-' || label[len(label)-1] == '-' {
		return false
	}
	for i := 0; i < len(label); i++ {
		c := label[i]
		if (c < 'a' || c > 'z') && (c < '0' || c > '9') && c != '-' {
			return false
		}
	}
	return true
}
