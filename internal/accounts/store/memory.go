package store

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/example/shindora/internal/domain"
)

// InMemoryStore keeps accounts in process memory.
type InMemoryStore struct {
	mu     sync.RWMutex
	users  map[string]User
	resets map[string]ResetToken // keyed by user id, one live grant per user
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		users:  make(map[string]User),
		resets: make(map[string]ResetToken),
	}
}

func (s *InMemoryStore) Create(ctx context.Context, u User) (User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if strings.EqualFold(existing.Username, u.Username) {
			return User{}, fmt.Errorf("username %q taken: %w", u.Username, domain.ErrConflict)
		}
	}
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	u.CreatedAt = time.Now().UTC()
	s.users[u.ID] = u
	return u, nil
}

func (s *InMemoryStore) GetByID(ctx context.Context, id string) (User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, exists := s.users[id]
	if !exists {
		return User{}, fmt.Errorf("user %q: %w", id, domain.ErrNotFound)
	}
	return u, nil
}

func (s *InMemoryStore) GetByUsername(ctx context.Context, username string) (User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if strings.EqualFold(u.Username, username) {
			return u, nil
		}
	}
	return User{}, fmt.Errorf("user %q: %w", username, domain.ErrNotFound)
}

func (s *InMemoryStore) GetByEmail(ctx context.Context, email string) (User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.Email != "" && strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return User{}, fmt.Errorf("no account for email: %w", domain.ErrNotFound)
}

func (s *InMemoryStore) Update(ctx context.Context, id string, in UpdateInput) (User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, exists := s.users[id]
	if !exists {
		return User{}, fmt.Errorf("user %q: %w", id, domain.ErrNotFound)
	}
	if in.Username != nil && !strings.EqualFold(*in.Username, u.Username) {
		for _, other := range s.users {
			if other.ID != id && strings.EqualFold(other.Username, *in.Username) {
				return User{}, fmt.Errorf("username %q taken: %w", *in.Username, domain.ErrConflict)
			}
		}
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
	s.users[id] = u
	return u, nil
}

func (s *InMemoryStore) SaveResetToken(ctx context.Context, t ResetToken) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.resets[t.UserID] = t
	return nil
}

func (s *InMemoryStore) ConsumeResetToken(ctx context.Context, hash []byte, now time.Time) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for userID, t := range s.resets {
		if !bytes.Equal(t.Hash, hash) {
			continue
		}
		delete(s.resets, userID)
		if now.After(t.ExpiresAt) {
			return "", fmt.Errorf("reset token expired: %w", domain.ErrUnauthenticated)
		}
		return userID, nil
	}
	return "", fmt.Errorf("reset token not recognized: %w", domain.ErrUnauthenticated)
}
