package store

import (
	"context"
	"sync"

	"github.com/example/shindora/internal/domain"
)

// InMemoryLedger is the development and test implementation. One mutex covers
// both sets, which is enough for per-(user,video) atomicity.
type InMemoryLedger struct {
	index VideoIndex

	mu         sync.RWMutex
	liked      map[string][]string // userID -> video ids, insertion order
	watchLater map[string][]string
}

func NewInMemoryLedger(index VideoIndex) *InMemoryLedger {
	return &InMemoryLedger{
		index:      index,
		liked:      make(map[string][]string),
		watchLater: make(map[string][]string),
	}
}

func (l *InMemoryLedger) Like(ctx context.Context, userID, videoID string) ([]string, error) {
	return l.add(ctx, l.liked, userID, videoID)
}

func (l *InMemoryLedger) Unlike(_ context.Context, userID, videoID string) ([]string, error) {
	return l.remove(l.liked, userID, videoID), nil
}

func (l *InMemoryLedger) AddWatchLater(ctx context.Context, userID, videoID string) ([]string, error) {
	return l.add(ctx, l.watchLater, userID, videoID)
}

func (l *InMemoryLedger) RemoveWatchLater(_ context.Context, userID, videoID string) ([]string, error) {
	return l.remove(l.watchLater, userID, videoID), nil
}

func (l *InMemoryLedger) LikedIDs(_ context.Context, userID string) ([]string, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]string{}, l.liked[userID]...), nil
}

func (l *InMemoryLedger) WatchLaterIDs(_ context.Context, userID string) ([]string, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]string{}, l.watchLater[userID]...), nil
}

// add verifies the video exists, then inserts it if absent. Adding an already
// present video is a no-op, not an error and not a duplicate.
func (l *InMemoryLedger) add(ctx context.Context, sets map[string][]string, userID, videoID string) ([]string, error) {
	ok, err := l.index.VideoExists(ctx, videoID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrNotFound
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	set := sets[userID]
	for _, id := range set {
		if id == videoID {
			return append([]string{}, set...), nil
		}
	}
	set = append(set, videoID)
	sets[userID] = set
	return append([]string{}, set...), nil
}

// remove is always safe, even for videos that were never added or no longer
// exist in the catalog.
func (l *InMemoryLedger) remove(sets map[string][]string, userID, videoID string) []string {
	l.mu.Lock()
	defer l.mu.Unlock()

	set := sets[userID]
	out := set[:0]
	for _, id := range set {
		if id != videoID {
			out = append(out, id)
		}
	}
	sets[userID] = out
	return append([]string{}, out...)
}
