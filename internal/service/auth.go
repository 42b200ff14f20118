package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/trimline/seatcase/internal/domain"
	"github.com/trimline/seatcase/internal/store"
	"github.com/trimline/seatcase/pkg/cryptox"
	"github.com/trimline/seatcase/pkg/idx"
	"github.com/trimline/seatcase/pkg/slogx"
	"github.com/trimline/seatcase/pkg/tokenx"
)

// ErrInvalidCredentials covers both unknown usernames and wrong passwords.
// Callers must not distinguish the two, so usernames cannot be enumerated.
var ErrInvalidCredentials = errors.New("service: invalid credentials")

// AuthService owns login, the lazy bootstrap account, and password changes.
type AuthService struct {
	Store store.Store
	Codec *tokenx.Codec

	// BootstrapUsername/BootstrapPassword describe the admin account that
	// is provisioned lazily on the first login attempt if absent.
	BootstrapUsername string
	BootstrapPassword string
}

// Login verifies the credential pair and mints a session token. The
// bootstrap check runs unconditionally before verification and is
// idempotent.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, domain.Role, error) {
	if err := s.ensureBootstrap(ctx); err != nil {
		return "", "", err
	}

	user, err := s.Store.Users().GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", "", ErrInvalidCredentials
		}
		return "", "", err
	}

	if !cryptox.VerifyPassword(password, user.PasswordHash) {
		return "", "", ErrInvalidCredentials
	}

	token, err := s.Codec.Issue(tokenx.Subject{
		ID:       user.ID,
		Role:     user.Role.String(),
		Username: user.Username,
	})
	if err != nil {
		return "", "", err
	}

	return token, user.Role, nil
}

// ChangePassword replaces the caller's own credential after verifying the
// current password.
func (s *AuthService) ChangePassword(ctx context.Context, userID, current, next string) error {
	user, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		return err
	}

	if !cryptox.VerifyPassword(current, user.PasswordHash) {
		return ErrInvalidCredentials
	}

	hash, err := cryptox.HashPassword(next)
	if err != nil {
		return err
	}
	return s.Store.Users().UpdatePasswordHash(ctx, user.ID, hash)
}

// SetPassword replaces another user's credential without proof of the old
// one. Admin-only; the HTTP gate enforces that.
func (s *AuthService) SetPassword(ctx context.Context, userID, next string) error {
	hash, err := cryptox.HashPassword(next)
	if err != nil {
		return err
	}
	return s.Store.Users().UpdatePasswordHash(ctx, userID, hash)
}

// ensureBootstrap provisions the bootstrap admin account if it does not
// exist, and re-asserts its ADMIN role if it drifted. No-op otherwise.
func (s *AuthService) ensureBootstrap(ctx context.Context) error {
	l := slogx.FromContext(ctx)

	existing, err := s.Store.Users().GetUserByUsername(ctx, s.BootstrapUsername)
	switch {
	case err == nil:
		if existing.Role != domain.RoleAdmin {
			l.Warn("bootstrap account role drifted, restoring ADMIN",
				slog.String("user_id", existing.ID))
			return s.Store.Users().UpdateRole(ctx, existing.ID, domain.RoleAdmin)
		}
		return nil
	case errors.Is(err, store.ErrNotFound):
		// fall through to create
	default:
		return err
	}

	hash, err := cryptox.HashPassword(s.BootstrapPassword)
	if err != nil {
		return err
	}

	userID := idx.New().String()
	err = s.Store.Users().CreateUser(ctx, domain.User{
		ID:           userID,
		Username:     s.BootstrapUsername,
		PasswordHash: hash,
		Role:         domain.RoleAdmin,
	})
	if errors.Is(err, store.ErrAlreadyExists) {
		// Concurrent login got there first.
		return nil
	}
	if err != nil {
		return err
	}

	l.Info("bootstrap admin account created",
		slog.String("user_id", userID),
		slog.String("username", s.BootstrapUsername),
	)
	return nil
}
