package store

import (
	"context"
	"time"

	"github.com/example/shindora/internal/i18n"
)

// AdSlot is the single managed promotional slot rendered by the frontend.
type AdSlot struct {
	Enabled  bool               `json:"enabled"`
	ImageURL string             `json:"image_url,omitempty"`
	LinkURL  string             `json:"link_url,omitempty"`
	Title    i18n.BilingualText `json:"title,omitempty"`
}

// Settings is the site-wide configuration singleton.
type Settings struct {
	SiteName       string    `json:"site_name"`
	LogoURL        string    `json:"logo_url,omitempty"`
	PrimaryColor   string    `json:"primary_color"`
	SecondaryColor string    `json:"secondary_color"`
	Ad             AdSlot    `json:"ad"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Page is a bilingual static page keyed by its route name (about,
// disclaimer, privacy, terms).
type Page struct {
	Name      string             `json:"name"`
	Title     i18n.BilingualText `json:"title"`
	Content   i18n.BilingualText `json:"content"`
	UpdatedAt time.Time          `json:"updated_at"`
}

// Store defines the contract for site configuration persistence.
type Store interface {
	// GetSettings returns the singleton; before the first update it returns
	// the built-in defaults.
	GetSettings(ctx context.Context) (Settings, error)
	UpdateSettings(ctx context.Context, s Settings) (Settings, error)
	GetPage(ctx context.Context, name string) (Page, error)
	// UpsertPage creates or replaces the page under p.Name.
	UpsertPage(ctx context.Context, p Page) (Page, error)
	ListPages(ctx context.Context) ([]Page, error)
}
