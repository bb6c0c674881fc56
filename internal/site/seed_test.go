package site

import (
	"context"
	"testing"

	"go.uber.org/zap"

	catalog "github.com/example/shindora/internal/catalog/store"
	"github.com/example/shindora/internal/site/store"
)

func TestInitDefaultsIdempotent(t *testing.T) {
	cs := catalog.NewInMemoryStore()
	ss := store.NewInMemoryStore()
	ctx := context.Background()

	if err := InitDefaults(ctx, ss, cs, zap.NewNop()); err != nil {
		t.Fatalf("InitDefaults: %v", err)
	}
	cats, _ := cs.ListCategories(ctx)
	pages, _ := ss.ListPages(ctx)
	if len(cats) == 0 || len(pages) != 4 {
		t.Fatalf("seed incomplete: %d categories, %d pages", len(cats), len(pages))
	}

	if err := InitDefaults(ctx, ss, cs, zap.NewNop()); err != nil {
		t.Fatalf("second InitDefaults: %v", err)
	}
	cats2, _ := cs.ListCategories(ctx)
	pages2, _ := ss.ListPages(ctx)
	if len(cats2) != len(cats) || len(pages2) != len(pages) {
		t.Fatalf("reseed duplicated rows: %d categories, %d pages", len(cats2), len(pages2))
	}
}

func TestInitDefaultsKeepsEdits(t *testing.T) {
	cs := catalog.NewInMemoryStore()
	ss := store.NewInMemoryStore()
	ctx := context.Background()

	if err := InitDefaults(ctx, ss, cs, zap.NewNop()); err != nil {
		t.Fatalf("InitDefaults: %v", err)
	}
	p, err := ss.GetPage(ctx, "about")
	if err != nil {
		t.Fatalf("GetPage: %v", err)
	}
	p.Content = map[string]string{"en": "Edited"}
	if _, err := ss.UpsertPage(ctx, p); err != nil {
		t.Fatalf("UpsertPage: %v", err)
	}

	if err := InitDefaults(ctx, ss, cs, zap.NewNop()); err != nil {
		t.Fatalf("reseed: %v", err)
	}
	got, _ := ss.GetPage(ctx, "about")
	if got.Content.Resolve("en") != "Edited" {
		t.Fatalf("reseed overwrote an edited page: %+v", got)
	}
}
