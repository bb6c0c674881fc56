package store

import (
	"context"
	"time"

	"github.com/example/shindora/internal/i18n"
)

// Video is the catalog representation of a single video.
// Views is an advisory counter incremented by a dedicated operation; catalog
// edits never touch it.
type Video struct {
	ID           string             `json:"id"`
	Title        i18n.BilingualText `json:"title"`
	Description  i18n.BilingualText `json:"description"`
	Category     i18n.BilingualText `json:"category"`
	EmbedURL     string             `json:"embed_url"`
	Episode      string             `json:"episode,omitempty"`
	ThumbnailURL string             `json:"thumbnail_url,omitempty"`
	Views        int64              `json:"views"`
	CreatedAt    time.Time          `json:"created_at"`
}

// Category is a descriptive grouping, not an enforced foreign key.
// VideoCount is a denormalized hint recomputed from the index on every list.
type Category struct {
	ID           string             `json:"id"`
	Name         i18n.BilingualText `json:"name"`
	Color        string             `json:"color"`
	ThumbnailURL string             `json:"thumbnail_url,omitempty"`
	VideoCount   int                `json:"video_count"`
}

// VideoInput carries admin-supplied video fields. Bilingual fields replace
// the stored value wholesale.
type VideoInput struct {
	Title        i18n.BilingualText `json:"title"`
	Description  i18n.BilingualText `json:"description"`
	Category     i18n.BilingualText `json:"category"`
	EmbedURL     string             `json:"embed_url"`
	Episode      string             `json:"episode"`
	ThumbnailURL string             `json:"thumbnail_url"`
}

type CategoryInput struct {
	Name         i18n.BilingualText `json:"name"`
	Color        string             `json:"color"`
	ThumbnailURL string             `json:"thumbnail_url"`
}

// ListFilter narrows ListVideos. Category matches either language of the
// video's category label ("" or "All" disables it); Search is a
// case-insensitive substring match over either language of the title.
type ListFilter struct {
	Category string
	Search   string
}

// Store defines all catalog persistence operations.
type Store interface {
	// Video writes (admin surface)
	CreateVideo(ctx context.Context, in VideoInput) (Video, error)
	UpdateVideo(ctx context.Context, id string, in VideoInput) (Video, error)
	DeleteVideo(ctx context.Context, id string) error
	IncrementViews(ctx context.Context, id string) error

	// Video reads
	GetVideo(ctx context.Context, id string) (Video, error)
	ListVideos(ctx context.Context, f ListFilter) ([]Video, error)
	// ResolveVideos maps ids to videos, preserving input order and silently
	// dropping ids that no longer resolve. Callers rely on this for the
	// no-cascade-delete contract.
	ResolveVideos(ctx context.Context, ids []string) ([]Video, error)
	VideoExists(ctx context.Context, id string) (bool, error)

	// Categories
	CreateCategory(ctx context.Context, in CategoryInput) (Category, error)
	UpdateCategory(ctx context.Context, id string, in CategoryInput) (Category, error)
	DeleteCategory(ctx context.Context, id string) error
	ListCategories(ctx context.Context) ([]Category, error)
}
