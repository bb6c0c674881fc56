package store

import (
	"context"
	"errors"
	"testing"

	"github.com/example/shindora/internal/domain"
	"github.com/example/shindora/internal/i18n"
)

func TestSettingsDefaultUntilUpdated(t *testing.T) {
	s := NewInMemoryStore()
	ctx := context.Background()

	got, err := s.GetSettings(ctx)
	if err != nil {
		t.Fatalf("GetSettings: %v", err)
	}
	if got.SiteName != DefaultSettings().SiteName {
		t.Fatalf("expected defaults before first update, got %+v", got)
	}

	in := got
	in.SiteName = "My Site"
	in.Ad = AdSlot{Enabled: true, ImageURL: "https://example.com/ad.png", Title: i18n.New("Iklan", "Ad")}
	updated, err := s.UpdateSettings(ctx, in)
	if err != nil {
		t.Fatalf("UpdateSettings: %v", err)
	}
	if updated.UpdatedAt.IsZero() {
		t.Fatal("UpdatedAt must be stamped")
	}

	got, _ = s.GetSettings(ctx)
	if got.SiteName != "My Site" || !got.Ad.Enabled {
		t.Fatalf("update not persisted: %+v", got)
	}
}

func TestPages(t *testing.T) {
	s := NewInMemoryStore()
	ctx := context.Background()

	if _, err := s.GetPage(ctx, "about"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("missing page: err = %v, want ErrNotFound", err)
	}
	if _, err := s.UpsertPage(ctx, Page{Title: i18n.New("x", "y")}); !errors.Is(err, domain.ErrInvalidArgument) {
		t.Fatalf("nameless page: err = %v, want ErrInvalidArgument", err)
	}

	p, err := s.UpsertPage(ctx, Page{Name: "about", Title: i18n.New("Tentang", "About"), Content: i18n.New("Isi", "Body")})
	if err != nil {
		t.Fatalf("UpsertPage: %v", err)
	}
	if p.UpdatedAt.IsZero() {
		t.Fatal("UpdatedAt must be stamped")
	}

	// upsert replaces
	p.Content = i18n.New("Baru", "New")
	if _, err := s.UpsertPage(ctx, p); err != nil {
		t.Fatalf("UpsertPage replace: %v", err)
	}
	got, err := s.GetPage(ctx, "about")
	if err != nil {
		t.Fatalf("GetPage: %v", err)
	}
	if got.Content.Resolve(i18n.LangEnglish) != "New" {
		t.Fatalf("replace not applied: %+v", got)
	}

	pages, err := s.ListPages(ctx)
	if err != nil || len(pages) != 1 {
		t.Fatalf("ListPages: %v %d", err, len(pages))
	}
}

func TestInMemoryStoreImplementsStore(t *testing.T) {
	var _ Store = (*InMemoryStore)(nil)
	var _ Store = (*PostgresStore)(nil)
}
