// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/lunchpicker/lunchpicker/internal/models"
)

var (
	// ErrNotFound is returned when a record does not exist (or is not visible to the caller).
	ErrNotFound = errors.New("not found")

	// ErrDuplicateCode is returned when a group's join code collides with an existing group.
	ErrDuplicateCode = errors.New("group code already in use")

	// ErrEmailExists is returned when a user's email is already registered.
	ErrEmailExists = errors.New("email already registered")

	// ErrVersionConflict is returned when a group was modified since it was read.
	ErrVersionConflict = errors.New("group was modified concurrently")
)

// UserStore persists user accounts.
type UserStore interface {
	// CreateUser inserts a new user. Returns ErrEmailExists on a duplicate email.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByEmail returns ErrNotFound if no user has the email.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// GetUserByID returns ErrNotFound if no user has the ID.
	GetUserByID(ctx context.Context, id string) (*models.User, error)

	// UpdateUserDisplayName changes a user's display name.
	UpdateUserDisplayName(ctx context.Context, id, displayName string) error
}

// GroupStore persists group aggregates as whole documents.
type GroupStore interface {
	// CreateGroup inserts a new group. Returns ErrDuplicateCode if the code is taken.
	CreateGroup(ctx context.Context, group *models.Group) error

	// GetGroup returns ErrNotFound if the group does not exist.
	GetGroup(ctx context.Context, id string) (*models.Group, error)

	// GetGroupByCode looks up a group by its (upper-case) join code.
	GetGroupByCode(ctx context.Context, code string) (*models.Group, error)

	// ListGroupsByMember returns every group userID belongs to, newest first.
	ListGroupsByMember(ctx context.Context, userID string) ([]*models.Group, error)

	// UpdateGroup replaces the stored group if its version still equals group.Version,
	// then increments group.Version. Returns ErrVersionConflict otherwise.
	UpdateGroup(ctx context.Context, group *models.Group) error

	// DeleteGroup removes the group and everything embedded in it.
	DeleteGroup(ctx context.Context, id string) error
}

// ExclusionStore persists per-user venue exclusions.
type ExclusionStore interface {
	// UpsertExclusion inserts or refreshes the exclusion keyed by (UserID, POIType, POIID).
	// On refresh the ID and CreatedAt of the existing record are kept and written back to e.
	UpsertExclusion(ctx context.Context, e *models.Exclusion) error

	// ListExclusions returns a user's exclusions, newest first.
	ListExclusions(ctx context.Context, userID string) ([]*models.Exclusion, error)

	// DeleteExclusion removes an exclusion owned by userID. Returns ErrNotFound otherwise.
	DeleteExclusion(ctx context.Context, id, userID string) error
}

// Store combines every persistence capability needed by the services.
// This abstraction allows swapping storage backends (SQLite, MongoDB)
// without changing the service layer.
type Store interface {
	UserStore
	GroupStore
	ExclusionStore

	// Close releases any resources held by the store.
	Close() error
}
