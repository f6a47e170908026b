package domainname

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"webhost-storefront/internal/db"
	"webhost-storefront/internal/domain"
)

const domainColumns = `id::text, name, price_cents, status, user_id::text, expiry_date, auto_renew, registration_period, created_at, updated_at`

type postgresRepo struct {
	pool db.Pool
}

func NewPostgres(pool db.Pool) Repository {
	return &postgresRepo{pool: pool}
}

func (r *postgresRepo) Create(ctx context.Context, d domain.Domain) (*domain.Domain, error) {
	period := d.RegistrationPeriod
	if period <= 0 {
		period = 1
	}
	q := `
INSERT INTO domains (name, price_cents, status, user_id, expiry_date, auto_renew, registration_period)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING ` + domainColumns
	out, err := scanDomain(r.pool.QueryRow(ctx, q,
		strings.ToLower(d.Name), d.PriceCents, string(d.Status), d.UserID, d.ExpiryDate, d.AutoRenew, period,
	))
	if err != nil {
		if db.IsUniqueViolation(err) {
			return nil, domain.ErrAlreadyExists
		}
		return nil, fmt.Errorf("insert domain: %w", err)
	}
	return out, nil
}

func (r *postgresRepo) GetByName(ctx context.Context, name string) (*domain.Domain, error) {
	q := `SELECT ` + domainColumns + ` FROM domains WHERE name = $1`
	return scanDomain(r.pool.QueryRow(ctx, q, strings.ToLower(name)))
}

func (r *postgresRepo) ListByUser(ctx context.Context, userID string) ([]domain.Domain, error) {
	q := `SELECT ` + domainColumns + ` FROM domains WHERE user_id = $1 ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, q, userID)
	if err != nil {
		return nil, fmt.Errorf("list domains: %w", err)
	}
	defer rows.Close()

	out := []domain.Domain{}
	for rows.Next() {
		d, err := scanDomain(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *d)
	}
	return out, rows.Err()
}

func (r *postgresRepo) DeletePending(ctx context.Context, id, userID string) error {
	cmd, err := r.pool.Exec(ctx, `
DELETE FROM domains
WHERE id = $1 AND user_id = $2 AND status = 'pending'
`, id, userID)
	if err != nil {
		return fmt.Errorf("delete pending domain: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) ExpireBefore(ctx context.Context, now time.Time) (int64, error) {
	cmd, err := r.pool.Exec(ctx, `
UPDATE domains
SET status = 'expired', updated_at = now()
WHERE status = 'registered' AND auto_renew = FALSE AND expiry_date < $1
`, now)
	if err != nil {
		return 0, fmt.Errorf("expire domains: %w", err)
	}
	return cmd.RowsAffected(), nil
}

func scanDomain(row pgx.Row) (*domain.Domain, error) {
	var d domain.Domain
	var status string
	err := row.Scan(
		&d.ID,
		&d.Name,
		&d.PriceCents,
		&status,
		&d.UserID,
		&d.ExpiryDate,
		&d.AutoRenew,
		&d.RegistrationPeriod,
		&d.CreatedAt,
		&d.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	d.Status = domain.DomainStatus(status)
	return &d, nil
}
