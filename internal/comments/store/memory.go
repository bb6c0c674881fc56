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

// InMemoryStore keeps comments in process memory. Suitable for development
// and tests.
type InMemoryStore struct {
	mu       sync.RWMutex
	index    VideoIndex
	comments map[string]Comment
}

func NewInMemoryStore(index VideoIndex) *InMemoryStore {
	return &InMemoryStore{
		index:    index,
		comments: make(map[string]Comment),
	}
}

func (s *InMemoryStore) Post(ctx context.Context, p PostParams) (Comment, error) {
	text := strings.TrimSpace(p.Text)
	if text == "" {
		return Comment{}, fmt.Errorf("comment text is required: %w", domain.ErrInvalidArgument)
	}
	ok, err := s.index.VideoExists(ctx, p.VideoID)
	if err != nil {
		return Comment{}, fmt.Errorf("check video: %w", err)
	}
	if !ok {
		return Comment{}, fmt.Errorf("video %q: %w", p.VideoID, domain.ErrNotFound)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c := Comment{
		ID:        uuid.New().String(),
		VideoID:   p.VideoID,
		UserID:    p.Author.ID,
		Username:  p.Author.Username,
		Avatar:    p.Author.Avatar,
		Comment:   text,
		CreatedAt: time.Now().UTC(),
	}
	if parentID, isReply := p.Placement.ParentID(); isReply {
		parent, exists := s.comments[parentID]
		if !exists || parent.VideoID != p.VideoID {
			return Comment{}, fmt.Errorf("parent comment %q: %w", parentID, domain.ErrNotFound)
		}
		if parent.ParentID != nil {
			return Comment{}, fmt.Errorf("cannot reply to a reply: %w", domain.ErrInvalidArgument)
		}
		c.ParentID = &parentID
	}
	s.comments[c.ID] = c
	return c, nil
}

func (s *InMemoryStore) ListForVideo(ctx context.Context, videoID string) ([]ThreadNode, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var tops []Comment
	replies := make(map[string][]Comment)
	for _, c := range s.comments {
		if c.VideoID != videoID {
			continue
		}
		if c.ParentID == nil {
			tops = append(tops, c)
		} else {
			replies[*c.ParentID] = append(replies[*c.ParentID], c)
		}
	}
	sortComments(tops)

	nodes := make([]ThreadNode, 0, len(tops))
	for _, top := range tops {
		rs := replies[top.ID]
		sortComments(rs)
		if rs == nil {
			rs = []Comment{}
		}
		nodes = append(nodes, ThreadNode{Comment: top, Replies: rs})
	}
	return nodes, nil
}

func (s *InMemoryStore) Delete(ctx context.Context, commentID, requesterID string, isAdmin bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, exists := s.comments[commentID]
	if !exists {
		return fmt.Errorf("comment %q: %w", commentID, domain.ErrNotFound)
	}
	if !isAdmin && c.UserID != requesterID {
		return fmt.Errorf("comment %q belongs to another user: %w", commentID, domain.ErrForbidden)
	}
	delete(s.comments, commentID)
	if c.ParentID == nil {
		for id, other := range s.comments {
			if other.ParentID != nil && *other.ParentID == commentID {
				delete(s.comments, id)
			}
		}
	}
	return nil
}

func (s *InMemoryStore) DeleteForVideo(ctx context.Context, videoID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, c := range s.comments {
		if c.VideoID == videoID {
			delete(s.comments, id)
		}
	}
	return nil
}

func sortComments(cs []Comment) {
	sort.Slice(cs, func(i, j int) bool {
		if cs[i].CreatedAt.Equal(cs[j].CreatedAt) {
			return cs[i].ID < cs[j].ID
		}
		return cs[i].CreatedAt.Before(cs[j].CreatedAt)
	})
}
