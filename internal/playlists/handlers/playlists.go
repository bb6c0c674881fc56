package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	catalog "github.com/example/shindora/internal/catalog/store"
	"github.com/example/shindora/internal/domain"
	"github.com/example/shindora/internal/platform/api"
	"github.com/example/shindora/internal/platform/auth"
	"github.com/example/shindora/internal/platform/events"
	"github.com/example/shindora/internal/platform/httpserver"
	"github.com/example/shindora/internal/playlists/store"
)

// VideoResolver maps playlist video ids onto catalog videos, skipping stale
// entries and preserving order.
type VideoResolver interface {
	ResolveVideos(ctx context.Context, ids []string) ([]catalog.Video, error)
}

type createPlaylistRequest struct {
	Name         string `json:"name"`
	Description  string `json:"description"`
	IsPublic     bool   `json:"is_public"`
	ThumbnailURL string `json:"thumbnail_url"`
}

// playlistResponse is a playlist plus its resolved videos.
type playlistResponse struct {
	store.Playlist
	Videos []catalog.Video `json:"videos"`
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

// optionalRequester returns the authenticated user id or "" for anonymous
// requests.
func optionalRequester(r *http.Request) string {
	userID, _ := auth.UserIDFromContext(r.Context())
	return userID
}

func playlistIDParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	if id == "" {
		api.BadRequest(w, "MISSING_ID", "playlist id is required", reqID(r), nil)
		return "", false
	}
	return id, true
}

// Create handles POST /api/playlists
func Create(ps store.Store, pub *events.Publisher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requesterID(w, r)
		if !ok {
			return
		}
		var req createPlaylistRequest
		if err := api.Decode(w, r, &req); err != nil {
			api.BadRequest(w, "INVALID_BODY", "invalid request body", reqID(r), nil)
			return
		}
		p, err := ps.Create(r.Context(), userID, store.CreateInput{
			Name:         req.Name,
			Description:  req.Description,
			IsPublic:     req.IsPublic,
			ThumbnailURL: req.ThumbnailURL,
		})
		if err != nil {
			domain.WriteHTTP(w, reqID(r), err)
			return
		}
		pub.Publish(events.SubjectPlaylistCreated, "playlist_created", userID, map[string]any{"playlist_id": p.ID})
		api.WriteJSON(w, http.StatusCreated, p)
	}
}

// Get handles GET /api/playlists/{id}
// Private playlists resolve only for their owner; the response includes the
// catalog-resolved videos in playlist order with stale ids skipped.
func Get(ps store.Store, resolver VideoResolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := playlistIDParam(w, r)
		if !ok {
			return
		}
		p, err := ps.Get(r.Context(), id, optionalRequester(r))
		if err != nil {
			domain.WriteHTTP(w, reqID(r), err)
			return
		}
		videos, err := resolver.ResolveVideos(r.Context(), p.VideoIDs)
		if err != nil {
			domain.WriteHTTP(w, reqID(r), err)
			return
		}
		api.WriteJSON(w, http.StatusOK, playlistResponse{Playlist: p, Videos: videos})
	}
}

// List handles GET /api/playlists?user_id=...
// Anonymous callers and callers asking about another user see public
// playlists only; asking about yourself includes private ones.
func List(ps store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		owner := strings.TrimSpace(r.URL.Query().Get("user_id"))
		filter := store.ListFilter{Owner: owner}
		if owner == "" || owner != optionalRequester(r) {
			filter.PublicOnly = true
		}
		out, err := ps.List(r.Context(), filter)
		if err != nil {
			domain.WriteHTTP(w, reqID(r), err)
			return
		}
		api.WriteJSON(w, http.StatusOK, out)
	}
}

// AddVideo handles POST /api/playlists/{id}/videos/{video_id}
func AddVideo(ps store.Store) http.HandlerFunc {
	return mutateVideo(ps.AddVideo)
}

// RemoveVideo handles DELETE /api/playlists/{id}/videos/{video_id}
func RemoveVideo(ps store.Store) http.HandlerFunc {
	return mutateVideo(ps.RemoveVideo)
}

func mutateVideo(op func(ctx context.Context, playlistID, videoID, requesterID string) (store.Playlist, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requesterID(w, r)
		if !ok {
			return
		}
		id, ok := playlistIDParam(w, r)
		if !ok {
			return
		}
		videoID := strings.TrimSpace(chi.URLParam(r, "video_id"))
		if videoID == "" {
			api.BadRequest(w, "MISSING_ID", "video_id is required", reqID(r), nil)
			return
		}
		p, err := op(r.Context(), id, videoID, userID)
		if err != nil {
			domain.WriteHTTP(w, reqID(r), err)
			return
		}
		api.WriteJSON(w, http.StatusOK, p)
	}
}

// Delete handles DELETE /api/playlists/{id}
func Delete(ps store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requesterID(w, r)
		if !ok {
			return
		}
		id, ok := playlistIDParam(w, r)
		if !ok {
			return
		}
		if err := ps.Delete(r.Context(), id, userID); err != nil {
			domain.WriteHTTP(w, reqID(r), err)
			return
		}
		api.WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
	}
}
