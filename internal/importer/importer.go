package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"webhost-storefront/internal/domain"
	"webhost-storefront/internal/logging"
	catalogsvc "webhost-storefront/internal/service/catalog"
)

// PlanWriter upserts catalog entries keyed by name.
type PlanWriter interface {
	UpsertHosting(ctx context.Context, p domain.HostingPlan) (*domain.HostingPlan, error)
	UpsertWordpress(ctx context.Context, p domain.WordpressPlan) (*domain.WordpressPlan, error)
	UpsertAddon(ctx context.Context, a domain.Addon) (*domain.Addon, error)
}

// Stats counts imported rows per kind.
type Stats struct {
	Hosting   int
	Wordpress int
	Addons    int
}

func (s Stats) Total() int { return s.Hosting + s.Wordpress + s.Addons }

// CSVImporter loads hosting, WordPress and addon plans from a CSV sheet.
// The "kind" column selects the target table; unused columns may be blank.
type CSVImporter struct {
	reader *csv.Reader
	plans  PlanWriter
	logger logrus.FieldLogger
}

func NewCSVImporter(r io.Reader, plans PlanWriter, logger logrus.FieldLogger) *CSVImporter {
	csvr := csv.NewReader(r)
	csvr.FieldsPerRecord = -1 // rows may have trailing commas
	csvr.TrimLeadingSpace = true
	return &CSVImporter{
		reader: csvr,
		plans:  plans,
		logger: logging.OrDiscard(logger),
	}
}

// Run parses every row and upserts it. It stops at the first invalid row.
func (i *CSVImporter) Run(ctx context.Context) (Stats, error) {
	var stats Stats

	headers, err := i.reader.Read()
	if err != nil {
		return stats, fmt.Errorf("read headers: %w", err)
	}
	index := headerIndex(headers)
	if _, ok := index["kind"]; !ok {
		return stats, errors.New("missing required column \"kind\"")
	}

	line := 1
	for {
		record, err := i.reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return stats, fmt.Errorf("read row: %w", err)
		}
		line++

		r := row{record: record, index: index}
		if r.blank() {
			continue
		}
		kind := strings.ToLower(r.get("kind"))
		if err := i.save(ctx, kind, r, &stats); err != nil {
			return stats, fmt.Errorf("line %d: %w", line, err)
		}
	}

	i.logger.WithFields(logrus.Fields{
		"hosting":   stats.Hosting,
		"wordpress": stats.Wordpress,
		"addons":    stats.Addons,
	}).Info("importer: plans imported")
	return stats, nil
}

func (i *CSVImporter) save(ctx context.Context, kind string, r row, stats *Stats) error {
	price, err := parseCents(r.get("price"))
	if err != nil {
		return err
	}

	switch kind {
	case "hosting":
		p := domain.HostingPlan{
			Name:         r.get("name"),
			Description:  r.get("description"),
			PriceCents:   price,
			BillingCycle: domain.BillingCycle(r.get("billing_cycle")),
			Resources: domain.HostingResources{
				Storage:         r.get("storage"),
				Bandwidth:       r.get("bandwidth"),
				Databases:       r.number("databases"),
				WebsitesAllowed: r.number("websites_allowed"),
				EmailAccounts:   r.number("email_accounts"),
				SSLIncluded:     r.get("ssl_included"),
			},
		}
		if err := catalogsvc.NormalizeHosting(&p); err != nil {
			return err
		}
		if _, err := i.plans.UpsertHosting(ctx, p); err != nil {
			return fmt.Errorf("upsert hosting plan %q: %w", p.Name, err)
		}
		stats.Hosting++
	case "wordpress":
		p := domain.WordpressPlan{
			Name:         r.get("name"),
			PriceCents:   price,
			BillingCycle: domain.BillingCycle(r.get("billing_cycle")),
			Resources: domain.WordpressResources{
				Storage:         r.get("storage"),
				Bandwidth:       r.get("bandwidth"),
				Databases:       r.number("databases"),
				WebsitesAllowed: r.number("websites_allowed"),
				EmailAccounts:   r.number("email_accounts"),
				SSLIncluded:     r.get("ssl_included"),
				DailyBackups:    r.get("daily_backups"),
				ControlPanel:    r.get("control_panel"),
				SiteBuilder:     r.get("site_builder"),
			},
		}
		if err := catalogsvc.NormalizeWordpress(&p); err != nil {
			return err
		}
		if _, err := i.plans.UpsertWordpress(ctx, p); err != nil {
			return fmt.Errorf("upsert wordpress plan %q: %w", p.Name, err)
		}
		stats.Wordpress++
	case "addon":
		a := domain.Addon{
			Name:         r.get("name"),
			Description:  r.get("description"),
			PriceCents:   price,
			BillingCycle: domain.BillingCycle(r.get("billing_cycle")),
			Type:         domain.AddonType(r.get("type")),
		}
		if err := catalogsvc.NormalizeAddon(&a); err != nil {
			return err
		}
		if _, err := i.plans.UpsertAddon(ctx, a); err != nil {
			return fmt.Errorf("upsert addon %q: %w", a.Name, err)
		}
		stats.Addons++
	default:
		return fmt.Errorf("unknown kind %q", kind)
	}
	return nil
}

type row struct {
	record []string
	index  map[string]int
}

func (r row) get(key string) string {
	pos, ok := r.index[key]
	if !ok || pos >= len(r.record) {
		return ""
	}
	return strings.TrimSpace(r.record[pos])
}

func (r row) number(key string) int {
	n, err := strconv.Atoi(r.get(key))
	if err != nil {
		return 0
	}
	return n
}

func (r row) blank() bool {
	for _, v := range r.record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

func headerIndex(headers []string) map[string]int {
	idx := make(map[string]int, len(headers))
	for i, h := range headers {
		idx[strings.ToLower(strings.TrimSpace(h))] = i
	}
	return idx
}

// parseCents reads a major-unit amount such as "99.99" or "120".
func parseCents(raw string) (int64, error) {
	if raw == "" {
		return 0, errors.New("price is required")
	}
	whole, frac, hasFrac := strings.Cut(raw, ".")
	units, err := strconv.ParseInt(whole, 10, 64)
	if err != nil || units < 0 {
		return 0, fmt.Errorf("invalid price %q", raw)
	}
	var cents int64
	if hasFrac {
		if len(frac) == 0 || len(frac) > 2 {
			return 0, fmt.Errorf("invalid price %q", raw)
		}
		if len(frac) == 1 {
			frac += "0"
		}
		cents, err = strconv.ParseInt(frac, 10, 64)
		if err != nil || cents < 0 {
			return 0, fmt.Errorf("invalid price %q", raw)
		}
	}
	return units*100 + cents, nil
}
