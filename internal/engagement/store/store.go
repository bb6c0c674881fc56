package store

import (
	"context"
)

// VideoIndex is the slice of the catalog the ledger needs: existence checks
// at like/save time. Deletion after the fact is tolerated; stale ids are
// filtered when listing.
type VideoIndex interface {
	VideoExists(ctx context.Context, id string) (bool, error)
}

// Ledger tracks each user's liked and watch-later sets. Every mutation is
// idempotent per (user, video) pair and returns the updated set so clients
// can render without a follow-up fetch. Only these operations write the sets.
type Ledger interface {
	Like(ctx context.Context, userID, videoID string) ([]string, error)
	Unlike(ctx context.Context, userID, videoID string) ([]string, error)
	AddWatchLater(ctx context.Context, userID, videoID string) ([]string, error)
	RemoveWatchLater(ctx context.Context, userID, videoID string) ([]string, error)

	LikedIDs(ctx context.Context, userID string) ([]string, error)
	WatchLaterIDs(ctx context.Context, userID string) ([]string, error)
}
