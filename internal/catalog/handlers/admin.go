package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/example/shindora/internal/catalog/store"
	"github.com/example/shindora/internal/domain"
	"github.com/example/shindora/internal/platform/api"
)

// AdminCreateVideo handles POST /api/admin/videos
func AdminCreateVideo(cs store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in store.VideoInput
		if err := api.Decode(w, r, &in); err != nil {
			api.BadRequest(w, "INVALID_JSON", "invalid JSON", reqID(r), nil)
			return
		}
		v, err := cs.CreateVideo(r.Context(), in)
		if err != nil {
			domain.WriteHTTP(w, reqID(r), err)
			return
		}
		api.WriteJSON(w, http.StatusCreated, v)
	}
}

// AdminUpdateVideo handles PUT /api/admin/videos/{video_id}
func AdminUpdateVideo(cs store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(chi.URLParam(r, "video_id"))
		if id == "" {
			api.BadRequest(w, "MISSING_ID", "video_id is required", reqID(r), nil)
			return
		}
		var in store.VideoInput
		if err := api.Decode(w, r, &in); err != nil {
			api.BadRequest(w, "INVALID_JSON", "invalid JSON", reqID(r), nil)
			return
		}
		v, err := cs.UpdateVideo(r.Context(), id, in)
		if err != nil {
			domain.WriteHTTP(w, reqID(r), err)
			return
		}
		api.WriteJSON(w, http.StatusOK, v)
	}
}

// AdminDeleteVideo handles DELETE /api/admin/videos/{video_id}
// The video's comments go with it; ledger and playlist references stay and
// are filtered out at read time.
func AdminDeleteVideo(cs store.Store, purger CommentPurger, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(chi.URLParam(r, "video_id"))
		if id == "" {
			api.BadRequest(w, "MISSING_ID", "video_id is required", reqID(r), nil)
			return
		}
		if err := cs.DeleteVideo(r.Context(), id); err != nil {
			domain.WriteHTTP(w, reqID(r), err)
			return
		}
		if purger != nil {
			if err := purger.DeleteForVideo(r.Context(), id); err != nil {
				log.Warn("purge comments after video delete", zap.String("video_id", id), zap.Error(err))
			}
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// ListCategories handles GET /api/categories
func ListCategories(cs store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cats, err := cs.ListCategories(r.Context())
		if err != nil {
			domain.WriteHTTP(w, reqID(r), err)
			return
		}
		api.WriteJSON(w, http.StatusOK, cats)
	}
}

// AdminCreateCategory handles POST /api/admin/categories
func AdminCreateCategory(cs store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in store.CategoryInput
		if err := api.Decode(w, r, &in); err != nil {
			api.BadRequest(w, "INVALID_JSON", "invalid JSON", reqID(r), nil)
			return
		}
		c, err := cs.CreateCategory(r.Context(), in)
		if err != nil {
			domain.WriteHTTP(w, reqID(r), err)
			return
		}
		api.WriteJSON(w, http.StatusCreated, c)
	}
}

// AdminUpdateCategory handles PUT /api/admin/categories/{category_id}
func AdminUpdateCategory(cs store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(chi.URLParam(r, "category_id"))
		if id == "" {
			api.BadRequest(w, "MISSING_ID", "category_id is required", reqID(r), nil)
			return
		}
		var in store.CategoryInput
		if err := api.Decode(w, r, &in); err != nil {
			api.BadRequest(w, "INVALID_JSON", "invalid JSON", reqID(r), nil)
			return
		}
		c, err := cs.UpdateCategory(r.Context(), id, in)
		if err != nil {
			domain.WriteHTTP(w, reqID(r), err)
			return
		}
		api.WriteJSON(w, http.StatusOK, c)
	}
}

// AdminDeleteCategory handles DELETE /api/admin/categories/{category_id}
func AdminDeleteCategory(cs store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(chi.URLParam(r, "category_id"))
		if id == "" {
			api.BadRequest(w, "MISSING_ID", "category_id is required", reqID(r), nil)
			return
		}
		if err := cs.DeleteCategory(r.Context(), id); err != nil {
			domain.WriteHTTP(w, reqID(r), err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
