package seed

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"webhost-storefront/internal/domain"
	"webhost-storefront/internal/logging"
	catalogsvc "webhost-storefront/internal/service/catalog"
)

//go:embed catalog.yaml
var defaultCatalog []byte

// PlanWriter upserts catalog entries keyed by name.
type PlanWriter interface {
	UpsertHosting(ctx context.Context, p domain.HostingPlan) (*domain.HostingPlan, error)
	UpsertWordpress(ctx context.Context, p domain.WordpressPlan) (*domain.WordpressPlan, error)
	UpsertAddon(ctx context.Context, a domain.Addon) (*domain.Addon, error)
}

// Catalog is the YAML shape of a seed file.
type Catalog struct {
	Hosting   []hostingSeed   `yaml:"hosting"`
	Wordpress []wordpressSeed `yaml:"wordpress"`
	Addons    []addonSeed     `yaml:"addons"`
}

type hostingSeed struct {
	Name         string        `yaml:"name"`
	Description  string        `yaml:"description"`
	PriceCents   int64         `yaml:"priceCents"`
	BillingCycle string        `yaml:"billingCycle"`
	Resources    resourcesSeed `yaml:"resources"`
}

type wordpressSeed struct {
	Name         string        `yaml:"name"`
	PriceCents   int64         `yaml:"priceCents"`
	BillingCycle string        `yaml:"billingCycle"`
	Resources    resourcesSeed `yaml:"resources"`
}

// resourcesSeed covers both plan kinds; hosting ignores the WordPress extras.
type resourcesSeed struct {
	Storage         string `yaml:"storage"`
	Bandwidth       string `yaml:"bandwidth"`
	Databases       int    `yaml:"databases"`
	WebsitesAllowed int    `yaml:"websitesAllowed"`
	EmailAccounts   int    `yaml:"emailAccounts"`
	SSLIncluded     string `yaml:"sslIncluded"`
	DailyBackups    string `yaml:"dailyBackups"`
	ControlPanel    string `yaml:"controlPanel"`
	SiteBuilder     string `yaml:"siteBuilder"`
}

type addonSeed struct {
	Name         string `yaml:"name"`
	Description  string `yaml:"description"`
	PriceCents   int64  `yaml:"priceCents"`
	BillingCycle string `yaml:"billingCycle"`
	Type         string `yaml:"type"`
}

// Parse decodes a seed file. A nil or empty input selects the built-in catalog.
func Parse(data []byte) (*Catalog, error) {
	if len(data) == 0 {
		data = defaultCatalog
	}
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("decode seed catalog: %w", err)
	}
	return &c, nil
}

// Apply upserts every entry of c. It is idempotent because plans are keyed by name.
func Apply(ctx context.Context, plans PlanWriter, c *Catalog, logger logrus.FieldLogger) error {
	logger = logging.OrDiscard(logger)

	for _, h := range c.Hosting {
		p := domain.HostingPlan{
			Name:         h.Name,
			Description:  h.Description,
			PriceCents:   h.PriceCents,
			BillingCycle: domain.BillingCycle(h.BillingCycle),
			Resources: domain.HostingResources{
				Storage:         h.Resources.Storage,
				Bandwidth:       h.Resources.Bandwidth,
				Databases:       h.Resources.Databases,
				WebsitesAllowed: h.Resources.WebsitesAllowed,
				EmailAccounts:   h.Resources.EmailAccounts,
				SSLIncluded:     h.Resources.SSLIncluded,
			},
		}
		if err := catalogsvc.NormalizeHosting(&p); err != nil {
			return fmt.Errorf("hosting plan %q: %w", h.Name, err)
		}
		if _, err := plans.UpsertHosting(ctx, p); err != nil {
			return fmt.Errorf("upsert hosting plan %q: %w", p.Name, err)
		}
	}

	for _, w := range c.Wordpress {
		p := domain.WordpressPlan{
			Name:         w.Name,
			PriceCents:   w.PriceCents,
			BillingCycle: domain.BillingCycle(w.BillingCycle),
			Resources: domain.WordpressResources{
				Storage:         w.Resources.Storage,
				Bandwidth:       w.Resources.Bandwidth,
				Databases:       w.Resources.Databases,
				WebsitesAllowed: w.Resources.WebsitesAllowed,
				EmailAccounts:   w.Resources.EmailAccounts,
				SSLIncluded:     w.Resources.SSLIncluded,
				DailyBackups:    w.Resources.DailyBackups,
				ControlPanel:    w.Resources.ControlPanel,
				SiteBuilder:     w.Resources.SiteBuilder,
			},
		}
		if err := catalogsvc.NormalizeWordpress(&p); err != nil {
			return fmt.Errorf("wordpress plan %q: %w", w.Name, err)
		}
		if _, err := plans.UpsertWordpress(ctx, p); err != nil {
			return fmt.Errorf("upsert wordpress plan %q: %w", p.Name, err)
		}
	}

	for _, a := range c.Addons {
		addon := domain.Addon{
			Name:         a.Name,
			Description:  a.Description,
			PriceCents:   a.PriceCents,
			BillingCycle: domain.BillingCycle(a.BillingCycle),
			Type:         domain.AddonType(a.Type),
		}
		if err := catalogsvc.NormalizeAddon(&addon); err != nil {
			return fmt.Errorf("addon %q: %w", a.Name, err)
		}
		if _, err := plans.UpsertAddon(ctx, addon); err != nil {
			return fmt.Errorf("upsert addon %q: %w", addon.Name, err)
		}
	}

	logger.WithFields(logrus.Fields{
		"hosting":   len(c.Hosting),
		"wordpress": len(c.Wordpress),
		"addons":    len(c.Addons),
	}).Info("seed: catalog applied")
	return nil
}
