package repository

import (
	"context"
	"errors"

	"github.com/sanikant20/bookMandala-Server/internal/domain/entity"
)

var (
	// ErrNotFound is returned when no user matches the given id or filter.
	ErrNotFound = errors.New("user not found")
	// ErrDuplicateEmail is returned when an insert violates the unique email
	// index. It is the source of truth for registration conflicts.
	ErrDuplicateEmail = errors.New("email already registered")
)

// UserRepository defines the document-store operations consumed by the
// account service.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	// UpdateFields applies a partial $set built from the given fields and
	// returns the post-update document.
	UpdateFields(ctx context.Context, id string, fields map[string]any) (*entity.User, error)
	// UnsetAccessToken removes the stored token and returns the post-update
	// document.
	UnsetAccessToken(ctx context.Context, id string) (*entity.User, error)
	// SetAccessToken writes the token field directly, bypassing any
	// entity-level validation.
	SetAccessToken(ctx context.Context, id, token string) error
	// SetPassword replaces the stored hash directly, bypassing any
	// entity-level validation.
	SetPassword(ctx context.Context, id, hash string) error
}
