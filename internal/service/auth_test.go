package service

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/trimline/seatcase/internal/domain"
	"github.com/trimline/seatcase/internal/store"
	"github.com/trimline/seatcase/internal/store/drivers/sqlite"
	"github.com/trimline/seatcase/pkg/tokenx"
)

func newTestAuthService(t *testing.T) (*AuthService, store.Store) {
	t.Helper()

	dsn := "file:" + filepath.Join(t.TempDir(), "seatcase_test.db")
	st, err := sqlite.NewStore(dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	codec, err := tokenx.New("test-secret", time.Hour)
	require.NoError(t, err)

	return &AuthService{
		Store:             st,
		Codec:             codec,
		BootstrapUsername: "admin",
		BootstrapPassword: "bootstrap-pass",
	}, st
}

func TestLogin_BootstrapOnFirstAttempt(t *testing.T) {
	svc, st := newTestAuthService(t)
	ctx := context.Background()

	// The bootstrap account does not exist until the first login attempt.
	empty, err := st.Users().IsEmpty(ctx)
	require.NoError(t, err)
	require.True(t, empty)

	token, role, err := svc.Login(ctx, "admin", "bootstrap-pass")
	require.NoError(t, err)
	require.Equal(t, domain.RoleAdmin, role)
	require.NotEmpty(t, token)

	claims, ok := svc.Codec.Verify(token)
	require.True(t, ok)
	require.Equal(t, "admin", claims.Username)
	require.Equal(t, "ADMIN", claims.Role)

	admin, err := st.Users().GetUserByUsername(ctx, "admin")
	require.NoError(t, err)
	require.Equal(t, claims.UserID, admin.ID)
}

func TestLogin_BootstrapIsIdempotent(t *testing.T) {
	svc, st := newTestAuthService(t)
	ctx := context.Background()

	_, _, err := svc.Login(ctx, "admin", "bootstrap-pass")
	require.NoError(t, err)
	first, err := st.Users().GetUserByUsername(ctx, "admin")
	require.NoError(t, err)

	_, _, err = svc.Login(ctx, "admin", "bootstrap-pass")
	require.NoError(t, err)
	second, err := st.Users().GetUserByUsername(ctx, "admin")
	require.NoError(t, err)

	require.Equal(t, first.ID, second.ID)
	require.Equal(t, first.PasswordHash, second.PasswordHash)

	users, err := st.Users().ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)
}

func TestLogin_BootstrapRoleReasserted(t *testing.T) {
	svc, st := newTestAuthService(t)
	ctx := context.Background()

	_, _, err := svc.Login(ctx, "admin", "bootstrap-pass")
	require.NoError(t, err)

	admin, err := st.Users().GetUserByUsername(ctx, "admin")
	require.NoError(t, err)
	require.NoError(t, st.Users().UpdateRole(ctx, admin.ID, domain.RoleUser))

	_, role, err := svc.Login(ctx, "admin", "bootstrap-pass")
	require.NoError(t, err)
	require.Equal(t, domain.RoleAdmin, role)

	admin, err = st.Users().GetUserByUsername(ctx, "admin")
	require.NoError(t, err)
	require.Equal(t, domain.RoleAdmin, admin.Role)
}

func TestLogin_UniformErrorForBadCredentials(t *testing.T) {
	svc, _ := newTestAuthService(t)
	ctx := context.Background()

	_, _, err := svc.Login(ctx, "admin", "wrong-pass")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	// An unknown username yields the same error as a wrong password.
	_, _, err = svc.Login(ctx, "nobody", "whatever")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestChangePassword(t *testing.T) {
	svc, st := newTestAuthService(t)
	ctx := context.Background()

	_, _, err := svc.Login(ctx, "admin", "bootstrap-pass")
	require.NoError(t, err)
	admin, err := st.Users().GetUserByUsername(ctx, "admin")
	require.NoError(t, err)

	err = svc.ChangePassword(ctx, admin.ID, "wrong-current", "new-pass")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	require.NoError(t, svc.ChangePassword(ctx, admin.ID, "bootstrap-pass", "new-pass"))

	_, _, err = svc.Login(ctx, "admin", "bootstrap-pass")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, role, err := svc.Login(ctx, "admin", "new-pass")
	require.NoError(t, err)
	require.Equal(t, domain.RoleAdmin, role)
}

func TestChangePassword_UnknownUser(t *testing.T) {
	svc, _ := newTestAuthService(t)

	err := svc.ChangePassword(context.Background(), "missing", "a", "b")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestSetPassword(t *testing.T) {
	svc, st := newTestAuthService(t)
	ctx := context.Background()

	users := &UserService{Store: st}
	created, err := users.CreateUser(ctx, "viewer", "old-pass", domain.RoleUser)
	require.NoError(t, err)

	// Admin reset does not need the old password.
	require.NoError(t, svc.SetPassword(ctx, created.ID, "reset-pass"))

	_, role, err := svc.Login(ctx, "viewer", "reset-pass")
	require.NoError(t, err)
	require.Equal(t, domain.RoleUser, role)
}
