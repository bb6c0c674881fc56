package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/example/shindora/internal/domain"
)

// PostgresStore persists accounts in the users and password_resets tables.
type PostgresStore struct {
	db *pgxpool.Pool
}

func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

const userColumns = `id, username, email, avatar_url, role, password_hash, created_at`

func (s *PostgresStore) Create(ctx context.Context, u User) (User, error) {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	err := s.db.QueryRow(ctx, `
		INSERT INTO users (id, username, email, avatar_url, role, password_hash)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`, u.ID, u.Username, u.Email, u.AvatarURL, u.Role, u.PasswordHash).Scan(&u.CreatedAt)
	if isUniqueViolation(err) {
		return User{}, fmt.Errorf("username %q taken: %w", u.Username, domain.ErrConflict)
	}
	if err != nil {
		return User{}, fmt.Errorf("insert user: %w", err)
	}
	return u, nil
}

func (s *PostgresStore) GetByID(ctx context.Context, id string) (User, error) {
	return s.getWhere(ctx, `id = $1`, id)
}

func (s *PostgresStore) GetByUsername(ctx context.Context, username string) (User, error) {
	return s.getWhere(ctx, `lower(username) = lower($1)`, username)
}

func (s *PostgresStore) GetByEmail(ctx context.Context, email string) (User, error) {
	return s.getWhere(ctx, `email <> '' AND lower(email) = lower($1)`, email)
}

func (s *PostgresStore) getWhere(ctx context.Context, cond string, arg any) (User, error) {
	var u User
	err := s.db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE `+cond, arg,
	).Scan(&u.ID, &u.Username, &u.Email, &u.AvatarURL, &u.Role, &u.PasswordHash, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, fmt.Errorf("user lookup: %w", domain.ErrNotFound)
	}
	if err != nil {
		return User{}, fmt.Errorf("load user: %w", err)
	}
	return u, nil
}

func (s *PostgresStore) Update(ctx context.Context, id string, in UpdateInput) (User, error) {
	u, err := s.GetByID(ctx, id)
	if err != nil {
		return User{}, err
	}
	if in.Username != nil {
		u.Username = *in.Username
	}
	if in.Email != nil {
		u.Email = *in.Email
	}
	if in.AvatarURL != nil {
		u.AvatarURL = *in.AvatarURL
	}
	if in.PasswordHash != nil {
		u.PasswordHash = in.PasswordHash
	}
	_, err = s.db.Exec(ctx, `
		UPDATE users
		SET username = $2, email = $3, avatar_url = $4, password_hash = $5
		WHERE id = $1
	`, id, u.Username, u.Email, u.AvatarURL, u.PasswordHash)
	if isUniqueViolation(err) {
		return User{}, fmt.Errorf("username %q taken: %w", u.Username, domain.ErrConflict)
	}
	if err != nil {
		return User{}, fmt.Errorf("update user: %w", err)
	}
	return u, nil
}

func (s *PostgresStore) SaveResetToken(ctx context.Context, t ResetToken) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO password_resets (user_id, token_hash, expires_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id) DO UPDATE
		SET token_hash = EXCLUDED.token_hash, expires_at = EXCLUDED.expires_at
	`, t.UserID, t.Hash, t.ExpiresAt)
	if err != nil {
		return fmt.Errorf("save reset token: %w", err)
	}
	return nil
}

func (s *PostgresStore) ConsumeResetToken(ctx context.Context, hash []byte, now time.Time) (string, error) {
	var userID string
	var expiresAt time.Time
	err := s.db.QueryRow(ctx, `
		DELETE FROM password_resets
		WHERE token_hash = $1
		RETURNING user_id, expires_at
	`, hash).Scan(&userID, &expiresAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", fmt.Errorf("reset token not recognized: %w", domain.ErrUnauthenticated)
	}
	if err != nil {
		return "", fmt.Errorf("consume reset token: %w", err)
	}
	if now.After(expiresAt) {
		return "", fmt.Errorf("reset token expired: %w", domain.ErrUnauthenticated)
	}
	return userID, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
