package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/sirupsen/logrus"

	"webhost-storefront/internal/db"
	"webhost-storefront/internal/domain"
	"webhost-storefront/internal/logging"
)

type postgresRepo struct {
	pool   db.Pool
	logger logrus.FieldLogger
}

func NewPostgres(pool db.Pool, logger logrus.FieldLogger) Repository {
	return &postgresRepo{pool: pool, logger: logging.OrDiscard(logger)}
}

// translate maps driver errors onto domain errors for single-row statements.
func translate(err error) error {
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return domain.ErrNotFound
	case db.IsUniqueViolation(err):
		return domain.ErrAlreadyExists
	}
	return err
}

func (r *postgresRepo) deleteFrom(ctx context.Context, table, id string) error {
	cmd, err := r.pool.Exec(ctx, fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, table), id)
	if err != nil {
		r.logger.WithError(err).WithField("table", table).Error("catalog repo: delete")
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	r.logger.WithFields(logrus.Fields{"table": table, "id": id}).Info("catalog repo: deleted")
	return nil
}
