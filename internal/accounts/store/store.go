package store

import (
	"context"
	"time"
)

// User is a registered account. PasswordHash is a bcrypt hash and never
// leaves the store layer in responses.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email,omitempty"`
	AvatarURL    string    `json:"avatar_url,omitempty"`
	Role         string    `json:"role"`
	PasswordHash []byte    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// UpdateInput carries profile changes. Nil fields are left untouched.
type UpdateInput struct {
	Username     *string
	Email        *string
	AvatarURL    *string
	PasswordHash []byte
}

// ResetToken is a single-use password reset grant. Hash is the SHA-256 of
// the token handed to the user; the plaintext is never stored.
type ResetToken struct {
	Hash      []byte
	UserID    string
	ExpiresAt time.Time
}

// Store defines the contract for account persistence.
type Store interface {
	// Create stores a new user. A taken username returns ErrConflict.
	Create(ctx context.Context, u User) (User, error)
	GetByID(ctx context.Context, id string) (User, error)
	GetByUsername(ctx context.Context, username string) (User, error)
	GetByEmail(ctx context.Context, email string) (User, error)
	// Update applies the non-nil fields. A username change that collides
	// returns ErrConflict.
	Update(ctx context.Context, id string, in UpdateInput) (User, error)
	// SaveResetToken stores a reset grant, replacing any earlier one for
	// the same user.
	SaveResetToken(ctx context.Context, t ResetToken) error
	// ConsumeResetToken redeems a grant by hash: it is removed whether or
	// not it has expired, and an expired or unknown hash returns
	// ErrUnauthenticated.
	ConsumeResetToken(ctx context.Context, hash []byte, now time.Time) (userID string, err error)
}
