package service

import (
	"context"

	"github.com/trimline/seatcase/internal/domain"
	"github.com/trimline/seatcase/internal/store"
	"github.com/trimline/seatcase/pkg/cryptox"
	"github.com/trimline/seatcase/pkg/idx"
)

// UserService covers the admin user-management surface.
type UserService struct {
	Store store.Store
}

// GetUserByID fetches a user by id.
func (s *UserService) GetUserByID(ctx context.Context, userID string) (domain.User, error) {
	return s.Store.Users().GetUserByID(ctx, userID)
}

// ListUsers returns all accounts, newest first.
func (s *UserService) ListUsers(ctx context.Context) ([]domain.User, error) {
	return s.Store.Users().ListUsers(ctx)
}

// CreateUser provisions a new account. Returns store.ErrAlreadyExists when
// the username is taken.
func (s *UserService) CreateUser(ctx context.Context, username, password string, role domain.Role) (domain.User, error) {
	hash, err := cryptox.HashPassword(password)
	if err != nil {
		return domain.User{}, err
	}

	user := domain.User{
		ID:           idx.New().String(),
		Username:     username,
		PasswordHash: hash,
		Role:         role,
	}
	if err := s.Store.Users().CreateUser(ctx, user); err != nil {
		return domain.User{}, err
	}
	return user, nil
}
