package user

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"webhost-storefront/internal/domain"
	"webhost-storefront/internal/logging"
)

type userRepo interface {
	List(ctx context.Context) ([]domain.User, error)
	SetRole(ctx context.Context, id string, role domain.Role) (*domain.User, error)
}

// Service is the admin view of accounts.
type Service struct {
	repo   userRepo
	logger logrus.FieldLogger
}

func New(repo userRepo, logger logrus.FieldLogger) *Service {
	return &Service{repo: repo, logger: logging.OrDiscard(logger)}
}

func (s *Service) List(ctx context.Context) ([]domain.User, error) {
	return s.repo.List(ctx)
}

// UpdateRole grants role to the user with id.
func (s *Service) UpdateRole(ctx context.Context, id string, role domain.Role) (*domain.User, error) {
	if !role.Valid() {
		return nil, domain.Invalid("invalid role")
	}
	if !domain.ValidID(id) {
		return nil, domain.Errorf(domain.ErrNotFound, "user not found")
	}
	u, err := s.repo.SetRole(ctx, id, role)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.Errorf(domain.ErrNotFound, "user not found")
	}
	if err != nil {
		return nil, err
	}
	s.logger.WithFields(logrus.Fields{"user_id": id, "role": role}).Info("users: role changed")
	return u, nil
}
