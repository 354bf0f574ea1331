// Package store holds the persistence backends. Handlers only see the
// UserStore and ResourceStore interfaces; the default backend keeps
// everything in process memory, PostgreSQL and MongoDB swap in when
// configured.
package store

import (
	"context"

	"github.com/bothost-dev/backend/internal/models"
)

// UserStore defines the interface for account persistence.
type UserStore interface {
	// CreateUser inserts a new user. Fails with a conflict error when the
	// username or email is already taken.
	CreateUser(ctx context.Context, u *models.User) error
	// GetUserByID fails with a not-found error when the id is unknown.
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	// GetUserByIdentifier matches the identifier against username or email.
	GetUserByIdentifier(ctx context.Context, identifier string) (*models.User, error)
	// UpdateUser persists mutable fields (plan, coins, avatar, settings,
	// last login) of an existing user.
	UpdateUser(ctx context.Context, u *models.User) error
	CountUsers(ctx context.Context) (int, error)
}

// ResourceStore defines the interface for server and database persistence.
// Reads and deletes are always scoped by the owning user: a row belonging
// to someone else behaves as if it did not exist.
type ResourceStore interface {
	InsertServer(ctx context.Context, s *models.Server) error
	ListServersByOwner(ctx context.Context, ownerID string) ([]models.Server, error)
	GetServer(ctx context.Context, id, ownerID string) (*models.Server, error)
	DeleteServer(ctx context.Context, id, ownerID string) error
	CountServersByOwner(ctx context.Context, ownerID string) (int, error)
	CountServers(ctx context.Context) (int, error)

	// BeginTransition sets the transient status and bumps the server's
	// generation, returning the updated row. Fails with a not-found error
	// under the ownership rule above.
	BeginTransition(ctx context.Context, id, ownerID, transient string) (*models.Server, error)
	// SettleStatus moves the server to its terminal status, but only while
	// the given generation is still current. A superseded settle is a no-op,
	// not an error.
	SettleStatus(ctx context.Context, id string, generation int64, terminal string) error

	InsertDatabase(ctx context.Context, d *models.Database) error
	ListDatabasesByOwner(ctx context.Context, ownerID string) ([]models.Database, error)
}
