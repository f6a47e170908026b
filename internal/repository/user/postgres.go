package user

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/sirupsen/logrus"

	"webhost-storefront/internal/db"
	"webhost-storefront/internal/domain"
	"webhost-storefront/internal/logging"
)

const userColumns = `id::text, name, email, password_hash, role, phone, two_factor_enabled, created_at, updated_at`

type postgresRepo struct {
	pool   db.Pool
	logger logrus.FieldLogger
}

// NewPostgres returns a Repository backed by Postgres.
func NewPostgres(pool db.Pool, logger logrus.FieldLogger) Repository {
	return &postgresRepo{pool: pool, logger: logging.OrDiscard(logger)}
}

func (r *postgresRepo) Create(ctx context.Context, u domain.User) (*domain.User, error) {
	role := u.Role
	if role == "" {
		role = domain.RoleCustomer
	}
	q := `
INSERT INTO users (name, email, password_hash, role, phone)
VALUES ($1, $2, $3, $4, $5)
RETURNING ` + userColumns
	out, err := r.scanUser(r.pool.QueryRow(ctx, q, u.Name, strings.ToLower(u.Email), u.PasswordHash, string(role), u.Phone))
	if err != nil {
		if db.IsUniqueViolation(err) {
			return nil, domain.ErrAlreadyExists
		}
		return nil, err
	}
	return out, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	q := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return r.scanUser(r.pool.QueryRow(ctx, q, id))
}

func (r *postgresRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	q := `SELECT ` + userColumns + ` FROM users WHERE email = lower($1)`
	return r.scanUser(r.pool.QueryRow(ctx, q, strings.TrimSpace(email)))
}

func (r *postgresRepo) List(ctx context.Context) ([]domain.User, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	users := []domain.User{}
	for rows.Next() {
		u, err := r.scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

func (r *postgresRepo) UpdateProfile(ctx context.Context, id string, in ProfileUpdate) (*domain.User, error) {
	var email *string
	if in.Email != nil {
		lower := strings.ToLower(*in.Email)
		email = &lower
	}
	q := `
UPDATE users
SET name = COALESCE($2, name),
    email = COALESCE($3, email),
    phone = COALESCE($4, phone),
    password_hash = COALESCE($5, password_hash),
    updated_at = now()
WHERE id = $1
RETURNING ` + userColumns
	out, err := r.scanUser(r.pool.QueryRow(ctx, q, id, in.Name, email, in.Phone, in.PasswordHash))
	if err != nil {
		if db.IsUniqueViolation(err) {
			return nil, domain.ErrAlreadyExists
		}
		return nil, err
	}
	return out, nil
}

func (r *postgresRepo) SetPasswordHash(ctx context.Context, id, hash string) error {
	cmd, err := r.pool.Exec(ctx, `UPDATE users SET password_hash = $2, updated_at = now() WHERE id = $1`, id, hash)
	if err != nil {
		return fmt.Errorf("set password: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) SetRole(ctx context.Context, id string, role domain.Role) (*domain.User, error) {
	q := `UPDATE users SET role = $2, updated_at = now() WHERE id = $1 RETURNING ` + userColumns
	return r.scanUser(r.pool.QueryRow(ctx, q, id, string(role)))
}

func (r *postgresRepo) scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	var role string
	err := row.Scan(
		&u.ID,
		&u.Name,
		&u.Email,
		&u.PasswordHash,
		&role,
		&u.Phone,
		&u.TwoFactorEnabled,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		if !db.IsUniqueViolation(err) {
			r.logger.WithError(err).Error("user repo: scan")
		}
		return nil, err
	}
	u.Role = domain.Role(role)
	return &u, nil
}
