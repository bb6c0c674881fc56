package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/example/shindora/internal/catalog/store"
	"github.com/example/shindora/internal/i18n"
	"github.com/example/shindora/internal/transcache"
)

func setupReq(method, url string, body io.Reader, params map[string]string) *http.Request {
	req := httptest.NewRequest(method, url, body)
	rctx := chi.NewRouteContext()
	for k, v := range params {
		rctx.URLParams.Add(k, v)
	}
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func seedCatalog(t *testing.T) (*store.InMemoryStore, store.Video) {
	t.Helper()
	cs := store.NewInMemoryStore()
	v, err := cs.CreateVideo(context.Background(), store.VideoInput{
		Title:       i18n.New("Petualangan Dimulai", "The Adventure Begins"),
		Description: i18n.New("Episode pembuka", "Opening episode"),
		Category:    i18n.New("Aksi", "Action"),
		EmbedURL:    "https://player.example/ep1",
		Episode:     "Episode 1",
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	return cs, v
}

func TestListVideos_Filters(t *testing.T) {
	cs, _ := seedCatalog(t)
	if _, err := cs.CreateVideo(context.Background(), store.VideoInput{
		Title:    i18n.New("Komedi Malam", "Night Comedy"),
		Category: i18n.New("Komedi", "Comedy"),
		EmbedURL: "https://player.example/ep2",
	}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	list := func(query string) []store.Video {
		rr := httptest.NewRecorder()
		ListVideos(cs).ServeHTTP(rr, setupReq(http.MethodGet, "/api/videos"+query, nil, nil))
		if rr.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rr.Code)
		}
		var out []store.Video
		if err := json.NewDecoder(rr.Body).Decode(&out); err != nil {
			t.Fatalf("decode: %v", err)
		}
		return out
	}

	if got := list(""); len(got) != 2 {
		t.Fatalf("unfiltered: got %d, want 2", len(got))
	}
	if got := list("?category=Action"); len(got) != 1 {
		t.Fatalf("category filter: got %d, want 1", len(got))
	}
	if got := list("?category=All"); len(got) != 2 {
		t.Fatalf("category All: got %d, want 2", len(got))
	}
	// search matches either language
	if got := list("?search=petualangan"); len(got) != 1 {
		t.Fatalf("search id-language: got %d, want 1", len(got))
	}
	if got := list("?search=comedy"); len(got) != 1 {
		t.Fatalf("search en-language: got %d, want 1", len(got))
	}
}

func TestGetVideo(t *testing.T) {
	cs, v := seedCatalog(t)
	rr := httptest.NewRecorder()
	GetVideo(cs, nil).ServeHTTP(rr, setupReq(http.MethodGet, "/api/videos/"+v.ID, nil,
		map[string]string{"video_id": v.ID}))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var got store.Video
	if err := json.NewDecoder(rr.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.ID != v.ID {
		t.Fatalf("got %+v", got)
	}

	rr = httptest.NewRecorder()
	GetVideo(cs, nil).ServeHTTP(rr, setupReq(http.MethodGet, "/api/videos/nope", nil,
		map[string]string{"video_id": "nope"}))
	if rr.Code != http.StatusNotFound {
		t.Fatalf("unknown video: expected 404, got %d", rr.Code)
	}
}

func TestGetVideo_LangResolution(t *testing.T) {
	cs, v := seedCatalog(t)
	tc := transcache.NewMemoryCache()
	ctx := context.Background()

	get := func(lang string) resolvedVideo {
		rr := httptest.NewRecorder()
		GetVideo(cs, tc).ServeHTTP(rr, setupReq(http.MethodGet,
			"/api/videos/"+v.ID+"?lang="+lang, nil,
			map[string]string{"video_id": v.ID}))
		if rr.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rr.Code)
		}
		var out resolvedVideo
		if err := json.NewDecoder(rr.Body).Decode(&out); err != nil {
			t.Fatalf("decode: %v", err)
		}
		return out
	}

	if got := get("id"); got.Resolved.Title != "Petualangan Dimulai" {
		t.Fatalf("direct language: got %q", got.Resolved.Title)
	}
	// unknown code without a cached translation falls back to English
	if got := get("ja"); got.Resolved.Title != "The Adventure Begins" {
		t.Fatalf("fallback: got %q", got.Resolved.Title)
	}

	// a cached translation keyed by the English form takes over
	if err := tc.Put(ctx, transcache.Key("ja", "The Adventure Begins"), "冒険の始まり"); err != nil {
		t.Fatalf("put: %v", err)
	}
	if got := get("ja"); got.Resolved.Title != "冒険の始まり" {
		t.Fatalf("cached translation: got %q", got.Resolved.Title)
	}
}

func TestIncrementView(t *testing.T) {
	cs, v := seedCatalog(t)
	rr := httptest.NewRecorder()
	IncrementView(cs, nil).ServeHTTP(rr, setupReq(http.MethodPost,
		"/api/videos/"+v.ID+"/view", nil, map[string]string{"video_id": v.ID}))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	got, err := cs.GetVideo(context.Background(), v.ID)
	if err != nil {
		t.Fatalf("GetVideo: %v", err)
	}
	if got.Views != 1 {
		t.Fatalf("views = %d, want 1", got.Views)
	}

	rr = httptest.NewRecorder()
	IncrementView(cs, nil).ServeHTTP(rr, setupReq(http.MethodPost,
		"/api/videos/gone/view", nil, map[string]string{"video_id": "gone"}))
	if rr.Code != http.StatusNotFound {
		t.Fatalf("deleted video: expected 404, got %d", rr.Code)
	}
}
