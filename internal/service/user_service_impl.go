package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/teuprojeto/flowrev/internal/domain"
	"github.com/teuprojeto/flowrev/internal/repository"
)

type userService struct {
	users repository.UserRepo
}

func NewUserService(users repository.UserRepo) UserService {
	return &userService{users: users}
}

func (s *userService) Create(ctx context.Context, u *domain.User) error {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	if u.Role == "" {
		u.Role = domain.RoleAnalyst
	}
	if !domain.ValidRoles[string(u.Role)] {
		return fmt.Errorf("unknown role %q", u.Role)
	}
	u.CreatedAt = time.Now().UTC()
	return s.users.Create(ctx, u)
}

func (s *userService) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.users.GetByEmail(ctx, email)
}

func (s *userService) List(ctx context.Context) ([]*domain.User, error) {
	return s.users.List(ctx)
}

func (s *userService) GrantProduct(ctx context.Context, userID, productID string) error {
	return s.users.GrantProduct(ctx, userID, productID)
}

func (s *userService) RevokeProduct(ctx context.Context, userID, productID string) error {
	return s.users.RevokeProduct(ctx, userID, productID)
}
