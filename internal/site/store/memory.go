package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/example/shindora/internal/domain"
)

// InMemoryStore keeps site configuration in process memory.
type InMemoryStore struct {
	mu       sync.RWMutex
	settings *Settings
	pages    map[string]Page
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{pages: make(map[string]Page)}
}

func (s *InMemoryStore) GetSettings(ctx context.Context) (Settings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.settings == nil {
		return DefaultSettings(), nil
	}
	return *s.settings, nil
}

func (s *InMemoryStore) UpdateSettings(ctx context.Context, in Settings) (Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	in.UpdatedAt = time.Now().UTC()
	s.settings = &in
	return in, nil
}

func (s *InMemoryStore) GetPage(ctx context.Context, name string) (Page, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, exists := s.pages[name]
	if !exists {
		return Page{}, fmt.Errorf("page %q: %w", name, domain.ErrNotFound)
	}
	return p, nil
}

func (s *InMemoryStore) UpsertPage(ctx context.Context, p Page) (Page, error) {
	if p.Name == "" {
		return Page{}, fmt.Errorf("page name is required: %w", domain.ErrInvalidArgument)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p.UpdatedAt = time.Now().UTC()
	s.pages[p.Name] = p
	return p, nil
}

func (s *InMemoryStore) ListPages(ctx context.Context) ([]Page, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Page, 0, len(s.pages))
	for _, p := range s.pages {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}
