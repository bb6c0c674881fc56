package store

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/example/shindora/internal/domain"
)

// InMemoryStore is the development and test implementation.
type InMemoryStore struct {
	mu         sync.RWMutex
	videos     map[string]Video
	categories map[string]Category
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		videos:     make(map[string]Video),
		categories: make(map[string]Category),
	}
}

func validateVideoInput(in VideoInput) error {
	if in.Title.IsEmpty() {
		return fmt.Errorf("%w: title is required", domain.ErrInvalidArgument)
	}
	if strings.TrimSpace(in.EmbedURL) == "" {
		return fmt.Errorf("%w: embed_url is required", domain.ErrInvalidArgument)
	}
	return nil
}

func (s *InMemoryStore) CreateVideo(_ context.Context, in VideoInput) (Video, error) {
	if err := validateVideoInput(in); err != nil {
		return Video{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	v := Video{
		ID:           uuid.NewString(),
		Title:        in.Title.Clone(),
		Description:  in.Description.Clone(),
		Category:     in.Category.Clone(),
		EmbedURL:     in.EmbedURL,
		Episode:      in.Episode,
		ThumbnailURL: in.ThumbnailURL,
		CreatedAt:    time.Now().UTC(),
	}
	s.videos[v.ID] = v
	return v, nil
}

func (s *InMemoryStore) UpdateVideo(_ context.Context, id string, in VideoInput) (Video, error) {
	if err := validateVideoInput(in); err != nil {
		return Video{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.videos[id]
	if !ok {
		return Video{}, domain.ErrNotFound
	}
	// Bilingual fields are replaced wholesale; views and created_at are kept.
	v.Title = in.Title.Clone()
	v.Description = in.Description.Clone()
	v.Category = in.Category.Clone()
	v.EmbedURL = in.EmbedURL
	v.Episode = in.Episode
	v.ThumbnailURL = in.ThumbnailURL
	s.videos[id] = v
	return v, nil
}

func (s *InMemoryStore) DeleteVideo(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.videos[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.videos, id)
	return nil
}

func (s *InMemoryStore) IncrementViews(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.videos[id]
	if !ok {
		return domain.ErrNotFound
	}
	v.Views++
	s.videos[id] = v
	return nil
}

func (s *InMemoryStore) GetVideo(_ context.Context, id string) (Video, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.videos[id]
	if !ok {
		return Video{}, domain.ErrNotFound
	}
	return v, nil
}

func (s *InMemoryStore) ListVideos(_ context.Context, f ListFilter) ([]Video, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	category := strings.TrimSpace(f.Category)
	if strings.EqualFold(category, "All") {
		category = ""
	}

	out := make([]Video, 0, len(s.videos))
	for _, v := range s.videos {
		if category != "" && !v.Category.Matches(category) {
			continue
		}
		if f.Search != "" && !v.Title.Contains(f.Search) {
			continue
		}
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (s *InMemoryStore) ResolveVideos(_ context.Context, ids []string) ([]Video, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Video, 0, len(ids))
	for _, id := range ids {
		if v, ok := s.videos[id]; ok {
			out = append(out, v)
		}
	}
	return out, nil
}

func (s *InMemoryStore) VideoExists(_ context.Context, id string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.videos[id]
	return ok, nil
}

func (s *InMemoryStore) CreateCategory(_ context.Context, in CategoryInput) (Category, error) {
	if in.Name.IsEmpty() {
		return Category{}, fmt.Errorf("%w: name is required", domain.ErrInvalidArgument)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	c := Category{
		ID:           uuid.NewString(),
		Name:         in.Name.Clone(),
		Color:        in.Color,
		ThumbnailURL: in.ThumbnailURL,
	}
	s.categories[c.ID] = c
	return c, nil
}

func (s *InMemoryStore) UpdateCategory(_ context.Context, id string, in CategoryInput) (Category, error) {
	if in.Name.IsEmpty() {
		return Category{}, fmt.Errorf("%w: name is required", domain.ErrInvalidArgument)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.categories[id]
	if !ok {
		return Category{}, domain.ErrNotFound
	}
	c.Name = in.Name.Clone()
	c.Color = in.Color
	c.ThumbnailURL = in.ThumbnailURL
	s.categories[id] = c
	return c, nil
}

func (s *InMemoryStore) DeleteCategory(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.categories[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.categories, id)
	return nil
}

func (s *InMemoryStore) ListCategories(_ context.Context) ([]Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Category, 0, len(s.categories))
	for _, c := range s.categories {
		// video_count is a display hint recomputed here, never stored.
		count := 0
		for _, v := range s.videos {
			if v.Category.Matches(c.Name.Resolve("en")) || v.Category.Matches(c.Name.Resolve("id")) {
				count++
			}
		}
		c.VideoCount = count
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Name.Resolve("en") < out[j].Name.Resolve("en")
	})
	return out, nil
}
