// Package site seeds and serves site-wide configuration: the settings
// singleton and the bilingual static pages.
package site

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	catalog "github.com/example/shindora/internal/catalog/store"
	"github.com/example/shindora/internal/i18n"
	"github.com/example/shindora/internal/site/store"
)

// CategorySeeder is the slice of the catalog store the seeder needs.
type CategorySeeder interface {
	ListCategories(ctx context.Context) ([]catalog.Category, error)
	CreateCategory(ctx context.Context, in catalog.CategoryInput) (catalog.Category, error)
}

func defaultCategories() []catalog.CategoryInput {
	return []catalog.CategoryInput{
		{Name: i18n.New("Aksi", "Action"), Color: "#ef4444"},
		{Name: i18n.New("Petualangan", "Adventure"), Color: "#f97316"},
		{Name: i18n.New("Komedi", "Comedy"), Color: "#eab308"},
		{Name: i18n.New("Drama", "Drama"), Color: "#8b5cf6"},
		{Name: i18n.New("Fantasi", "Fantasy"), Color: "#06b6d4"},
		{Name: i18n.New("Romantis", "Romance"), Color: "#ec4899"},
	}
}

// InitDefaults seeds categories and static pages that do not exist yet.
// Safe to run on every startup and from the admin endpoint; existing rows
// are left alone.
func InitDefaults(ctx context.Context, ss store.Store, cats CategorySeeder, log *zap.Logger) error {
	existing, err := cats.ListCategories(ctx)
	if err != nil {
		return fmt.Errorf("list categories: %w", err)
	}
	if len(existing) == 0 {
		for _, in := range defaultCategories() {
			if _, err := cats.CreateCategory(ctx, in); err != nil {
				return fmt.Errorf("seed category: %w", err)
			}
		}
		log.Info("seeded default categories", zap.Int("count", len(defaultCategories())))
	}

	pages, err := ss.ListPages(ctx)
	if err != nil {
		return fmt.Errorf("list pages: %w", err)
	}
	have := make(map[string]bool, len(pages))
	for _, p := range pages {
		have[p.Name] = true
	}
	seeded := 0
	for _, p := range store.DefaultPages() {
		if have[p.Name] {
			continue
		}
		if _, err := ss.UpsertPage(ctx, p); err != nil {
			return fmt.Errorf("seed page %s: %w", p.Name, err)
		}
		seeded++
	}
	if seeded > 0 {
		log.Info("seeded default pages", zap.Int("count", seeded))
	}
	return nil
}
