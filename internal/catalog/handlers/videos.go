package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/example/shindora/internal/catalog/store"
	"github.com/example/shindora/internal/domain"
	"github.com/example/shindora/internal/platform/api"
	"github.com/example/shindora/internal/platform/auth"
	"github.com/example/shindora/internal/platform/events"
	"github.com/example/shindora/internal/platform/httpserver"
	"github.com/example/shindora/internal/transcache"
)

func reqID(r *http.Request) string {
	return httpserver.RequestIDFromContext(r.Context())
}

// ListVideos handles GET /api/videos
func ListVideos(cs store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f := store.ListFilter{
			Category: strings.TrimSpace(r.URL.Query().Get("category")),
			Search:   strings.TrimSpace(r.URL.Query().Get("search")),
		}
		videos, err := cs.ListVideos(r.Context(), f)
		if err != nil {
			domain.WriteHTTP(w, reqID(r), err)
			return
		}
		api.WriteJSON(w, http.StatusOK, videos)
	}
}

// resolvedVideo carries the raw video plus its fields served in one
// requested language.
type resolvedVideo struct {
	store.Video
	Resolved struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		Category    string `json:"category"`
	} `json:"resolved"`
}

// GetVideo handles GET /api/videos/{video_id}
// With ?lang= the response carries the bilingual fields resolved into that
// language, consulting the translation cache for codes the value lacks.
func GetVideo(cs store.Store, tc transcache.Cache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(chi.URLParam(r, "video_id"))
		if id == "" {
			api.BadRequest(w, "MISSING_ID", "video_id is required", reqID(r), nil)
			return
		}
		v, err := cs.GetVideo(r.Context(), id)
		if err != nil {
			domain.WriteHTTP(w, reqID(r), err)
			return
		}
		lang := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("lang")))
		if lang == "" {
			api.WriteJSON(w, http.StatusOK, v)
			return
		}
		out := resolvedVideo{Video: v}
		out.Resolved.Title = resolveText(r.Context(), tc, lang, v.Title)
		out.Resolved.Description = resolveText(r.Context(), tc, lang, v.Description)
		out.Resolved.Category = resolveText(r.Context(), tc, lang, v.Category)
		api.WriteJSON(w, http.StatusOK, out)
	}
}

// IncrementView handles POST /api/videos/{video_id}/view
// The view counter is advisory; a failed increment is still a 404 so clients
// stop pinging deleted videos, but the event publish is fire-and-forget.
func IncrementView(cs store.Store, pub *events.Publisher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(chi.URLParam(r, "video_id"))
		if id == "" {
			api.BadRequest(w, "MISSING_ID", "video_id is required", reqID(r), nil)
			return
		}
		if err := cs.IncrementViews(r.Context(), id); err != nil {
			domain.WriteHTTP(w, reqID(r), err)
			return
		}
		userID, _ := auth.UserIDFromContext(r.Context())
		pub.Publish(events.SubjectVideoViewed, "video_viewed", userID, map[string]any{"video_id": id})
		api.WriteJSON(w, http.StatusOK, map[string]bool{"success": true})
	}
}

// CommentPurger removes all comments attached to a video. Satisfied by the
// comments store; the admin delete is the single cascade in the model.
type CommentPurger interface {
	DeleteForVideo(ctx context.Context, videoID string) error
}
