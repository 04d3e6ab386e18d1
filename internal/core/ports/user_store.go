package ports

import (
	"context"

	"github.com/pyconafrica/registration/internal/core/domain"
)

// UserStore is the persistence layer for user identities and credentials.
// Username and email lookups are case-insensitive.
type UserStore interface {
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	// Create persists a new user and returns it with its ID set.
	// It returns domain.ErrUserExists when the username is already taken.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	SetActive(ctx context.Context, username string, active bool) error
	UpdateProfile(ctx context.Context, userID string, profile domain.Profile) error
	UpdateAccount(ctx context.Context, userID string, update domain.AccountUpdate) error
	UpdatePassword(ctx context.Context, userID, passwordHash string) error
}
