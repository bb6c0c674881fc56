package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	catalog "github.com/example/shindora/internal/catalog/store"
	"github.com/example/shindora/internal/domain"
	"github.com/example/shindora/internal/engagement/store"
	"github.com/example/shindora/internal/platform/api"
	"github.com/example/shindora/internal/platform/auth"
	"github.com/example/shindora/internal/platform/events"
	"github.com/example/shindora/internal/platform/httpserver"
)

// VideoResolver maps ledger ids onto catalog videos, dropping stale entries.
type VideoResolver interface {
	ResolveVideos(ctx context.Context, ids []string) ([]catalog.Video, error)
}

type likedResponse struct {
	LikedVideos []string `json:"liked_videos"`
}

type watchLaterResponse struct {
	WatchLater []string `json:"watch_later"`
}

func reqID(r *http.Request) string {
	return httpserver.RequestIDFromContext(r.Context())
}

func requesterID(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok || userID == "" {
		api.Unauthorized(w, "UNAUTHENTICATED", "authentication required", reqID(r))
		return "", false
	}
	return userID, true
}

func videoIDParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := strings.TrimSpace(chi.URLParam(r, "video_id"))
	if id == "" {
		api.BadRequest(w, "MISSING_ID", "video_id is required", reqID(r), nil)
		return "", false
	}
	return id, true
}

// Like handles POST /api/videos/{video_id}/like
// The mutation returns the updated membership so clients never re-fetch.
func Like(ledger store.Ledger, pub *events.Publisher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requesterID(w, r)
		if !ok {
			return
		}
		videoID, ok := videoIDParam(w, r)
		if !ok {
			return
		}
		set, err := ledger.Like(r.Context(), userID, videoID)
		if err != nil {
			domain.WriteHTTP(w, reqID(r), err)
			return
		}
		pub.Publish(events.SubjectVideoLiked, "video_liked", userID, map[string]any{"video_id": videoID})
		api.WriteJSON(w, http.StatusOK, likedResponse{LikedVideos: set})
	}
}

// Unlike handles DELETE /api/videos/{video_id}/like
func Unlike(ledger store.Ledger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requesterID(w, r)
		if !ok {
			return
		}
		videoID, ok := videoIDParam(w, r)
		if !ok {
			return
		}
		set, err := ledger.Unlike(r.Context(), userID, videoID)
		if err != nil {
			domain.WriteHTTP(w, reqID(r), err)
			return
		}
		api.WriteJSON(w, http.StatusOK, likedResponse{LikedVideos: set})
	}
}

// AddWatchLater handles POST /api/user/watch-later/{video_id}
func AddWatchLater(ledger store.Ledger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requesterID(w, r)
		if !ok {
			return
		}
		videoID, ok := videoIDParam(w, r)
		if !ok {
			return
		}
		set, err := ledger.AddWatchLater(r.Context(), userID, videoID)
		if err != nil {
			domain.WriteHTTP(w, reqID(r), err)
			return
		}
		api.WriteJSON(w, http.StatusOK, watchLaterResponse{WatchLater: set})
	}
}

// RemoveWatchLater handles DELETE /api/user/watch-later/{video_id}
func RemoveWatchLater(ledger store.Ledger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requesterID(w, r)
		if !ok {
			return
		}
		videoID, ok := videoIDParam(w, r)
		if !ok {
			return
		}
		set, err := ledger.RemoveWatchLater(r.Context(), userID, videoID)
		if err != nil {
			domain.WriteHTTP(w, reqID(r), err)
			return
		}
		api.WriteJSON(w, http.StatusOK, watchLaterResponse{WatchLater: set})
	}
}

// ListLiked handles GET /api/user/liked-videos
// Returns catalog-resolved videos; ids deleted from the catalog after being
// liked are dropped silently.
func ListLiked(ledger store.Ledger, resolver VideoResolver) http.HandlerFunc {
	return listResolved(ledger.LikedIDs, resolver)
}

// ListWatchLater handles GET /api/user/watch-later
func ListWatchLater(ledger store.Ledger, resolver VideoResolver) http.HandlerFunc {
	return listResolved(ledger.WatchLaterIDs, resolver)
}

func listResolved(ids func(context.Context, string) ([]string, error), resolver VideoResolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requesterID(w, r)
		if !ok {
			return
		}
		set, err := ids(r.Context(), userID)
		if err != nil {
			domain.WriteHTTP(w, reqID(r), err)
			return
		}
		videos, err := resolver.ResolveVideos(r.Context(), set)
		if err != nil {
			domain.WriteHTTP(w, reqID(r), err)
			return
		}
		api.WriteJSON(w, http.StatusOK, videos)
	}
}
