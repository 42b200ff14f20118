package store

import (
	"context"
	"errors"

	"github.com/trimline/seatcase/internal/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite)
// implement this. It exposes sub-repositories to keep concerns tidy and
// testable.
type Store interface {
	Users() Users
	Cases() Cases
	Media() Media

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes fn within a transaction, rolling back if fn returns
	// an error and committing otherwise. Prefer this over Tx directly.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds
// Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Users interface {
	// GetUserByID returns a user by id.
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByUsername is used during login. Usernames are case-sensitive.
	GetUserByUsername(ctx context.Context, username string) (domain.User, error)

	// CreateUser inserts a new user (id is provided by the app via ULID).
	CreateUser(ctx context.Context, u domain.User) error

	// ListUsers returns all users, newest first.
	ListUsers(ctx context.Context) ([]domain.User, error)

	// UpdatePasswordHash replaces the stored credential and bumps updated_at.
	UpdatePasswordHash(ctx context.Context, userID, newHash string) error

	// UpdateRole sets the user's role and bumps updated_at.
	UpdateRole(ctx context.Context, userID string, role domain.Role) error

	// IsEmpty reports whether no users exist yet.
	IsEmpty(ctx context.Context) (bool, error)
}

type Cases interface {
	// GetCaseByID returns a case with its media ordered by kind/sort_order.
	GetCaseByID(ctx context.Context, id string) (domain.Case, error)

	// ListCases returns cases newest first, with media attached. When
	// publishedOnly is set, unpublished cases are omitted.
	ListCases(ctx context.Context, publishedOnly bool) ([]domain.Case, error)

	// CreateCase inserts a case row without its media.
	CreateCase(ctx context.Context, c domain.Case) error

	// UpdateCase applies the non-nil scalar fields of patch.
	UpdateCase(ctx context.Context, id string, patch domain.CasePatch) error

	// DeleteCase removes a case; media rows cascade per schema.
	DeleteCase(ctx context.Context, id string) error
}

type Media interface {
	// CreateMedia inserts one media row.
	CreateMedia(ctx context.Context, m domain.Media) error

	// ListMediaByCase returns a case's media ordered by sort_order.
	ListMediaByCase(ctx context.Context, caseID string) ([]domain.Media, error)

	// DeleteMediaByCase removes all media rows for a case. Used together
	// with CreateMedia inside a transaction to replace a media set.
	DeleteMediaByCase(ctx context.Context, caseID string) error
}
