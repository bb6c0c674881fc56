package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/example/shindora/internal/domain"
)

// PostgresStore persists the settings singleton and pages. Settings live in
// a one-row table keyed by a fixed id; the ad slot and bilingual fields are
// jsonb.
type PostgresStore struct {
	db *pgxpool.Pool
}

func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

const settingsRowID = 1

func (s *PostgresStore) GetSettings(ctx context.Context) (Settings, error) {
	var out Settings
	var ad []byte
	err := s.db.QueryRow(ctx, `
		SELECT site_name, logo_url, primary_color, secondary_color, ad, updated_at
		FROM site_settings WHERE id = $1
	`, settingsRowID).Scan(&out.SiteName, &out.LogoURL, &out.PrimaryColor, &out.SecondaryColor, &ad, &out.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return DefaultSettings(), nil
	}
	if err != nil {
		return Settings{}, fmt.Errorf("load settings: %w", err)
	}
	if err := json.Unmarshal(ad, &out.Ad); err != nil {
		return Settings{}, fmt.Errorf("decode ad slot: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) UpdateSettings(ctx context.Context, in Settings) (Settings, error) {
	ad, err := json.Marshal(in.Ad)
	if err != nil {
		return Settings{}, fmt.Errorf("encode ad slot: %w", err)
	}
	err = s.db.QueryRow(ctx, `
		INSERT INTO site_settings (id, site_name, logo_url, primary_color, secondary_color, ad, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, now())
		ON CONFLICT (id) DO UPDATE
		SET site_name = EXCLUDED.site_name,
		    logo_url = EXCLUDED.logo_url,
		    primary_color = EXCLUDED.primary_color,
		    secondary_color = EXCLUDED.secondary_color,
		    ad = EXCLUDED.ad,
		    updated_at = now()
		RETURNING updated_at
	`, settingsRowID, in.SiteName, in.LogoURL, in.PrimaryColor, in.SecondaryColor, ad).Scan(&in.UpdatedAt)
	if err != nil {
		return Settings{}, fmt.Errorf("update settings: %w", err)
	}
	return in, nil
}

func (s *PostgresStore) GetPage(ctx context.Context, name string) (Page, error) {
	row := s.db.QueryRow(ctx, `
		SELECT name, title, content, updated_at FROM pages WHERE name = $1
	`, name)
	p, err := scanPage(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Page{}, fmt.Errorf("page %q: %w", name, domain.ErrNotFound)
	}
	return p, err
}

func (s *PostgresStore) UpsertPage(ctx context.Context, p Page) (Page, error) {
	if p.Name == "" {
		return Page{}, fmt.Errorf("page name is required: %w", domain.ErrInvalidArgument)
	}
	title, err := json.Marshal(p.Title)
	if err != nil {
		return Page{}, fmt.Errorf("encode title: %w", err)
	}
	content, err := json.Marshal(p.Content)
	if err != nil {
		return Page{}, fmt.Errorf("encode content: %w", err)
	}
	err = s.db.QueryRow(ctx, `
		INSERT INTO pages (name, title, content, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (name) DO UPDATE
		SET title = EXCLUDED.title, content = EXCLUDED.content, updated_at = now()
		RETURNING updated_at
	`, p.Name, title, content).Scan(&p.UpdatedAt)
	if err != nil {
		return Page{}, fmt.Errorf("upsert page: %w", err)
	}
	return p, nil
}

func (s *PostgresStore) ListPages(ctx context.Context) ([]Page, error) {
	rows, err := s.db.Query(ctx, `SELECT name, title, content, updated_at FROM pages ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list pages: %w", err)
	}
	defer rows.Close()

	out := []Page{}
	for rows.Next() {
		p, err := scanPage(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPage(row rowScanner) (Page, error) {
	var p Page
	var title, content []byte
	if err := row.Scan(&p.Name, &title, &content, &p.UpdatedAt); err != nil {
		return Page{}, err
	}
	if err := json.Unmarshal(title, &p.Title); err != nil {
		return Page{}, fmt.Errorf("decode page title: %w", err)
	}
	if err := json.Unmarshal(content, &p.Content); err != nil {
		return Page{}, fmt.Errorf("decode page content: %w", err)
	}
	return p, nil
}
