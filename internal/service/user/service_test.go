package user

import (
	"context"
	"errors"
	"testing"

	"webhost-storefront/internal/domain"
)

const userID = "3b6f9a1c-5d2e-4f70-9a8b-1c2d3e4f5a6b"

type stubRepo struct {
	users    map[string]domain.User
	setCalls int
}

func (s *stubRepo) List(context.Context) ([]domain.User, error) {
	out := make([]domain.User, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, u)
	}
	return out, nil
}

func (s *stubRepo) SetRole(_ context.Context, id string, role domain.Role) (*domain.User, error) {
	s.setCalls++
	u, ok := s.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	u.Role = role
	s.users[id] = u
	return &u, nil
}

func TestUpdateRole(t *testing.T) {
	repo := &stubRepo{users: map[string]domain.User{userID: {ID: userID, Role: domain.RoleCustomer}}}
	svc := New(repo, nil)

	u, err := svc.UpdateRole(context.Background(), userID, domain.RoleSupport)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if u.Role != domain.RoleSupport {
		t.Fatalf("role = %q, want support", u.Role)
	}
}

func TestUpdateRoleInvalid(t *testing.T) {
	repo := &stubRepo{users: map[string]domain.User{}}
	svc := New(repo, nil)

	_, err := svc.UpdateRole(context.Background(), userID, "superuser")
	if !errors.Is(err, domain.ErrInvalidInput) || err.Error() != "invalid role" {
		t.Fatalf("expected invalid role, got %v", err)
	}
	if repo.setCalls != 0 {
		t.Fatalf("repository called for invalid role")
	}

	_, err = svc.UpdateRole(context.Background(), userID, domain.RoleAdmin)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
