package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/example/shindora/internal/i18n"
	"github.com/example/shindora/internal/platform/api"
	"github.com/example/shindora/internal/transcache"
)

// resolveText serves a bilingual field in the requested language. When the
// value itself does not carry the code, the translation cache is consulted
// keyed by the English form; a miss falls back to the resolution chain.
func resolveText(ctx context.Context, tc transcache.Cache, lang string, value i18n.BilingualText) string {
	if direct, ok := value[lang]; ok && direct != "" {
		return direct
	}
	if tc != nil {
		source := value.Resolve(i18n.LangEnglish)
		if source != "" {
			if cached, hit, err := tc.Get(ctx, transcache.Key(lang, source)); err == nil && hit {
				return cached
			}
		}
	}
	return value.Resolve(lang)
}

type putTranslationRequest struct {
	Lang   string `json:"lang"`
	Source string `json:"source"`
	Text   string `json:"text"`
}

// AdminPutTranslation handles PUT /api/admin/translations
// Translations arrive from an offline pipeline; this endpoint is how they
// enter the cache.
func AdminPutTranslation(tc transcache.Cache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req putTranslationRequest
		if err := api.Decode(w, r, &req); err != nil {
			api.BadRequest(w, "INVALID_BODY", "invalid request body", reqID(r), nil)
			return
		}
		req.Lang = strings.ToLower(strings.TrimSpace(req.Lang))
		req.Source = strings.TrimSpace(req.Source)
		if req.Lang == "" || req.Source == "" || strings.TrimSpace(req.Text) == "" {
			api.BadRequest(w, "MISSING_FIELD", "lang, source and text are required", reqID(r), nil)
			return
		}
		if err := tc.Put(r.Context(), transcache.Key(req.Lang, req.Source), req.Text); err != nil {
			api.Internal(w, reqID(r))
			return
		}
		api.WriteJSON(w, http.StatusOK, map[string]string{"status": "stored"})
	}
}
