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

// InMemoryStore keeps playlists in process memory.
type InMemoryStore struct {
	mu        sync.RWMutex
	index     VideoIndex
	playlists map[string]Playlist
}

func NewInMemoryStore(index VideoIndex) *InMemoryStore {
	return &InMemoryStore{
		index:     index,
		playlists: make(map[string]Playlist),
	}
}

func (s *InMemoryStore) Create(ctx context.Context, ownerID string, in CreateInput) (Playlist, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return Playlist{}, fmt.Errorf("playlist name is required: %w", domain.ErrInvalidArgument)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p := Playlist{
		ID:           uuid.New().String(),
		UserID:       ownerID,
		Name:         name,
		Description:  in.Description,
		IsPublic:     in.IsPublic,
		VideoIDs:     []string{},
		ThumbnailURL: in.ThumbnailURL,
		CreatedAt:    time.Now().UTC(),
	}
	s.playlists[p.ID] = p
	return clonePlaylist(p), nil
}

func (s *InMemoryStore) Get(ctx context.Context, id, requesterID string) (Playlist, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, exists := s.playlists[id]
	if !exists {
		return Playlist{}, fmt.Errorf("playlist %q: %w", id, domain.ErrNotFound)
	}
	if !p.IsPublic && p.UserID != requesterID {
		return Playlist{}, fmt.Errorf("playlist %q: %w", id, domain.ErrNotFound)
	}
	return clonePlaylist(p), nil
}

func (s *InMemoryStore) List(ctx context.Context, filter ListFilter) ([]Playlist, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Playlist, 0, len(s.playlists))
	for _, p := range s.playlists {
		if filter.Owner != "" && p.UserID != filter.Owner {
			continue
		}
		if filter.PublicOnly && !p.IsPublic {
			continue
		}
		out = append(out, clonePlaylist(p))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *InMemoryStore) AddVideo(ctx context.Context, playlistID, videoID, requesterID string) (Playlist, error) {
	ok, err := s.index.VideoExists(ctx, videoID)
	if err != nil {
		return Playlist{}, fmt.Errorf("check video: %w", err)
	}
	if !ok {
		return Playlist{}, fmt.Errorf("video %q: %w", videoID, domain.ErrNotFound)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.ownedLocked(playlistID, requesterID)
	if err != nil {
		return Playlist{}, err
	}
	for _, id := range p.VideoIDs {
		if id == videoID {
			return clonePlaylist(p), nil
		}
	}
	p.VideoIDs = append(p.VideoIDs, videoID)
	s.playlists[p.ID] = p
	return clonePlaylist(p), nil
}

func (s *InMemoryStore) RemoveVideo(ctx context.Context, playlistID, videoID, requesterID string) (Playlist, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.ownedLocked(playlistID, requesterID)
	if err != nil {
		return Playlist{}, err
	}
	for i, id := range p.VideoIDs {
		if id == videoID {
			p.VideoIDs = append(p.VideoIDs[:i:i], p.VideoIDs[i+1:]...)
			break
		}
	}
	s.playlists[p.ID] = p
	return clonePlaylist(p), nil
}

func (s *InMemoryStore) Delete(ctx context.Context, playlistID, requesterID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.ownedLocked(playlistID, requesterID); err != nil {
		return err
	}
	delete(s.playlists, playlistID)
	return nil
}

// ownedLocked loads a playlist and enforces ownership. Callers hold s.mu.
func (s *InMemoryStore) ownedLocked(playlistID, requesterID string) (Playlist, error) {
	p, exists := s.playlists[playlistID]
	if !exists {
		return Playlist{}, fmt.Errorf("playlist %q: %w", playlistID, domain.ErrNotFound)
	}
	if p.UserID != requesterID {
		return Playlist{}, fmt.Errorf("playlist %q belongs to another user: %w", playlistID, domain.ErrForbidden)
	}
	return p, nil
}

func clonePlaylist(p Playlist) Playlist {
	out := p
	out.VideoIDs = append([]string(nil), p.VideoIDs...)
	if out.VideoIDs == nil {
		out.VideoIDs = []string{}
	}
	return out
}
