package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/example/shindora/internal/domain"
	"github.com/example/shindora/internal/platform/api"
	"github.com/example/shindora/internal/platform/httpserver"
	"github.com/example/shindora/internal/site"
	"github.com/example/shindora/internal/site/store"
)

func reqID(r *http.Request) string {
	return httpserver.RequestIDFromContext(r.Context())
}

// GetSettings handles GET /api/settings
func GetSettings(ss store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, err := ss.GetSettings(r.Context())
		if err != nil {
			domain.WriteHTTP(w, reqID(r), err)
			return
		}
		api.WriteJSON(w, http.StatusOK, s)
	}
}

// UpdateSettings handles PUT /api/admin/settings
func UpdateSettings(ss store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in store.Settings
		if err := api.Decode(w, r, &in); err != nil {
			api.BadRequest(w, "INVALID_BODY", "invalid request body", reqID(r), nil)
			return
		}
		s, err := ss.UpdateSettings(r.Context(), in)
		if err != nil {
			domain.WriteHTTP(w, reqID(r), err)
			return
		}
		api.WriteJSON(w, http.StatusOK, s)
	}
}

// GetPage handles GET /api/pages/{name}
func GetPage(ss store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := strings.TrimSpace(chi.URLParam(r, "name"))
		if name == "" {
			api.BadRequest(w, "MISSING_NAME", "page name is required", reqID(r), nil)
			return
		}
		p, err := ss.GetPage(r.Context(), name)
		if err != nil {
			domain.WriteHTTP(w, reqID(r), err)
			return
		}
		api.WriteJSON(w, http.StatusOK, p)
	}
}

type upsertPageRequest struct {
	Title   map[string]string `json:"title"`
	Content map[string]string `json:"content"`
}

// UpsertPage handles PUT /api/admin/pages/{name}
func UpsertPage(ss store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := strings.TrimSpace(chi.URLParam(r, "name"))
		if name == "" {
			api.BadRequest(w, "MISSING_NAME", "page name is required", reqID(r), nil)
			return
		}
		var req upsertPageRequest
		if err := api.Decode(w, r, &req); err != nil {
			api.BadRequest(w, "INVALID_BODY", "invalid request body", reqID(r), nil)
			return
		}
		p, err := ss.UpsertPage(r.Context(), store.Page{
			Name:    name,
			Title:   req.Title,
			Content: req.Content,
		})
		if err != nil {
			domain.WriteHTTP(w, reqID(r), err)
			return
		}
		api.WriteJSON(w, http.StatusOK, p)
	}
}

// InitDefaults handles POST /api/admin/init-defaults
func InitDefaults(ss store.Store, cats site.CategorySeeder, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := site.InitDefaults(r.Context(), ss, cats, log); err != nil {
			domain.WriteHTTP(w, reqID(r), err)
			return
		}
		api.WriteJSON(w, http.StatusOK, map[string]string{"status": "defaults initialized"})
	}
}
