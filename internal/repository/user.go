package repository

import (
	"context"
	"errors"
	"time"

	"notevault/internal/domain"
)

var (
	// ErrNotFound is returned when no record matches the lookup.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicateEmail is returned when an insert violates the unique
	// email constraint.
	ErrDuplicateEmail = errors.New("email already registered")
)

// UserRepository defines persistence operations for User entities.
type UserRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)

	// UpdateDetails rewrites username and email for the given user.
	UpdateDetails(ctx context.Context, id, username, email string) error

	// UpdatePassword replaces the stored password hash.
	UpdatePassword(ctx context.Context, id, passwordHash string) error

	// SetResetToken stores the reset secret's hash and its expiry.
	SetResetToken(ctx context.Context, id, tokenHash string, expiresAt time.Time) error

	// ConsumeResetToken atomically looks up a user by non-expired reset
	// token hash and clears the hash and expiry. ErrNotFound covers both
	// an unknown hash and an expired one.
	ConsumeResetToken(ctx context.Context, tokenHash string, now time.Time) (*domain.User, error)

	// SetConfirmToken stores the email confirmation secret's hash.
	SetConfirmToken(ctx context.Context, id, tokenHash string) error

	// ConsumeConfirmToken atomically looks up a user by confirmation token
	// hash, marks the email confirmed and clears the hash.
	ConsumeConfirmToken(ctx context.Context, tokenHash string) (*domain.User, error)

	Delete(ctx context.Context, id string) error
}
