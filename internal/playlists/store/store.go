package store

import (
	"context"
	"time"
)

// Playlist is a named, ordered collection of video references owned by one
// user. VideoIDs order defines the autoplay sequence.
type Playlist struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	Name         string    `json:"name"`
	Description  string    `json:"description,omitempty"`
	IsPublic     bool      `json:"is_public"`
	VideoIDs     []string  `json:"video_ids"`
	ThumbnailURL string    `json:"thumbnail_url,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// CreateInput carries the fields a user supplies when creating a playlist.
type CreateInput struct {
	Name         string
	Description  string
	IsPublic     bool
	ThumbnailURL string
}

// ListFilter narrows List. Zero value lists everything.
type ListFilter struct {
	Owner      string
	PublicOnly bool
}

// VideoIndex is the catalog existence check playlists need when adding
// videos.
type VideoIndex interface {
	VideoExists(ctx context.Context, id string) (bool, error)
}

// Store defines the contract for playlist persistence. All mutations after
// Create are owner-only and return ErrForbidden for anyone else.
type Store interface {
	Create(ctx context.Context, ownerID string, in CreateInput) (Playlist, error)
	// Get returns the playlist. Private playlists are visible to their
	// owner only; other requesters get ErrNotFound rather than ErrForbidden
	// so existence is not leaked.
	Get(ctx context.Context, id, requesterID string) (Playlist, error)
	List(ctx context.Context, filter ListFilter) ([]Playlist, error)
	// AddVideo appends the video to the end of the sequence. Adding a video
	// already present is a no-op, never a duplicate append.
	AddVideo(ctx context.Context, playlistID, videoID, requesterID string) (Playlist, error)
	// RemoveVideo removes the video if present. Removing an absent video
	// succeeds unchanged.
	RemoveVideo(ctx context.Context, playlistID, videoID, requesterID string) (Playlist, error)
	Delete(ctx context.Context, playlistID, requesterID string) error
}
