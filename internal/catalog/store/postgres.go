package store

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/example/shindora/internal/domain"
	"github.com/example/shindora/internal/i18n"
)

// PostgresStore is the production Postgres-backed implementation.
// Bilingual fields are stored as jsonb objects keyed by language code.
type PostgresStore struct {
	db *pgxpool.Pool
}

func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

const videoColumns = `id, title, description, category, embed_url, episode, thumbnail_url, views, created_at`

func (s *PostgresStore) CreateVideo(ctx context.Context, in VideoInput) (Video, error) {
	if err := validateVideoInput(in); err != nil {
		return Video{}, err
	}
	title, _ := json.Marshal(in.Title)
	desc, _ := json.Marshal(in.Description)
	cat, _ := json.Marshal(in.Category)

	row := s.db.QueryRow(ctx, `
INSERT INTO videos (id, title, description, category, embed_url, episode, thumbnail_url, views, created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,0,$8)
RETURNING `+videoColumns,
		uuid.New(), title, desc, cat, in.EmbedURL, in.Episode, in.ThumbnailURL, time.Now().UTC())
	return scanVideo(row)
}

func (s *PostgresStore) UpdateVideo(ctx context.Context, id string, in VideoInput) (Video, error) {
	if err := validateVideoInput(in); err != nil {
		return Video{}, err
	}
	title, _ := json.Marshal(in.Title)
	desc, _ := json.Marshal(in.Description)
	cat, _ := json.Marshal(in.Category)

	// views and created_at are never written by edits.
	row := s.db.QueryRow(ctx, `
UPDATE videos
SET title=$2, description=$3, category=$4, embed_url=$5, episode=$6, thumbnail_url=$7
WHERE id=$1::uuid
RETURNING `+videoColumns,
		id, title, desc, cat, in.EmbedURL, in.Episode, in.ThumbnailURL)
	v, err := scanVideo(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Video{}, domain.ErrNotFound
		}
		return Video{}, err
	}
	return v, nil
}

func (s *PostgresStore) DeleteVideo(ctx context.Context, id string) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM videos WHERE id=$1::uuid`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (s *PostgresStore) IncrementViews(ctx context.Context, id string) error {
	tag, err := s.db.Exec(ctx, `UPDATE videos SET views = views + 1 WHERE id=$1::uuid`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (s *PostgresStore) GetVideo(ctx context.Context, id string) (Video, error) {
	row := s.db.QueryRow(ctx, `SELECT `+videoColumns+` FROM videos WHERE id=$1::uuid`, id)
	v, err := scanVideo(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Video{}, domain.ErrNotFound
		}
		return Video{}, err
	}
	return v, nil
}

func (s *PostgresStore) ListVideos(ctx context.Context, f ListFilter) ([]Video, error) {
	q := `SELECT ` + videoColumns + ` FROM videos`
	var conds []string
	var args []any

	category := strings.TrimSpace(f.Category)
	if category != "" && !strings.EqualFold(category, "All") {
		args = append(args, strings.ToLower(category))
		p := placeholder(len(args))
		conds = append(conds, `(lower(category->>'id') = `+p+` OR lower(category->>'en') = `+p+`)`)
	}
	if search := strings.TrimSpace(f.Search); search != "" {
		args = append(args, "%"+search+"%")
		p := placeholder(len(args))
		conds = append(conds, `(title->>'id' ILIKE `+p+` OR title->>'en' ILIKE `+p+`)`)
	}
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}
	q += " ORDER BY created_at DESC, id DESC"

	rows, err := s.db.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanVideos(rows)
}

func (s *PostgresStore) ResolveVideos(ctx context.Context, ids []string) ([]Video, error) {
	if len(ids) == 0 {
		return []Video{}, nil
	}
	rows, err := s.db.Query(ctx, `SELECT `+videoColumns+` FROM videos WHERE id = ANY($1::uuid[])`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	found, err := scanVideos(rows)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]Video, len(found))
	for _, v := range found {
		byID[v.ID] = v
	}
	// Preserve caller order; ids that no longer resolve are dropped.
	out := make([]Video, 0, len(ids))
	for _, id := range ids {
		if v, ok := byID[id]; ok {
			out = append(out, v)
		}
	}
	return out, nil
}

func (s *PostgresStore) VideoExists(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := s.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM videos WHERE id=$1::uuid)`, id).Scan(&exists)
	return exists, err
}

func (s *PostgresStore) CreateCategory(ctx context.Context, in CategoryInput) (Category, error) {
	if in.Name.IsEmpty() {
		return Category{}, domain.ErrInvalidArgument
	}
	name, _ := json.Marshal(in.Name)
	c := Category{ID: uuid.NewString(), Name: in.Name.Clone(), Color: in.Color, ThumbnailURL: in.ThumbnailURL}
	_, err := s.db.Exec(ctx,
		`INSERT INTO categories (id, name, color, thumbnail_url) VALUES ($1,$2,$3,$4)`,
		c.ID, name, in.Color, in.ThumbnailURL)
	if err != nil {
		return Category{}, err
	}
	return c, nil
}

func (s *PostgresStore) UpdateCategory(ctx context.Context, id string, in CategoryInput) (Category, error) {
	if in.Name.IsEmpty() {
		return Category{}, domain.ErrInvalidArgument
	}
	name, _ := json.Marshal(in.Name)
	tag, err := s.db.Exec(ctx,
		`UPDATE categories SET name=$2, color=$3, thumbnail_url=$4 WHERE id=$1::uuid`,
		id, name, in.Color, in.ThumbnailURL)
	if err != nil {
		return Category{}, err
	}
	if tag.RowsAffected() == 0 {
		return Category{}, domain.ErrNotFound
	}
	return Category{ID: id, Name: in.Name.Clone(), Color: in.Color, ThumbnailURL: in.ThumbnailURL}, nil
}

func (s *PostgresStore) DeleteCategory(ctx context.Context, id string) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM categories WHERE id=$1::uuid`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (s *PostgresStore) ListCategories(ctx context.Context) ([]Category, error) {
	// video_count is recomputed from the index per read; it is advisory only.
	rows, err := s.db.Query(ctx, `
SELECT c.id, c.name, c.color, c.thumbnail_url,
       (SELECT count(*) FROM videos v
        WHERE lower(v.category->>'id') = lower(c.name->>'id')
           OR lower(v.category->>'en') = lower(c.name->>'en')) AS video_count
FROM categories c
ORDER BY c.name->>'en' ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Category{}
	for rows.Next() {
		var c Category
		var nameJSON []byte
		if err := rows.Scan(&c.ID, &nameJSON, &c.Color, &c.ThumbnailURL, &c.VideoCount); err != nil {
			return nil, err
		}
		_ = json.Unmarshal(nameJSON, &c.Name)
		out = append(out, c)
	}
	return out, rows.Err()
}

// ── helpers ────────────────────────────────────────────────────────────────

type rowScanner interface {
	Scan(dest ...any) error
}

func scanVideo(row rowScanner) (Video, error) {
	var v Video
	var title, desc, cat []byte
	err := row.Scan(&v.ID, &title, &desc, &cat, &v.EmbedURL, &v.Episode, &v.ThumbnailURL, &v.Views, &v.CreatedAt)
	if err != nil {
		return Video{}, err
	}
	_ = json.Unmarshal(title, &v.Title)
	_ = json.Unmarshal(desc, &v.Description)
	_ = json.Unmarshal(cat, &v.Category)
	if v.Title == nil {
		v.Title = i18n.BilingualText{}
	}
	return v, nil
}

func scanVideos(rows pgx.Rows) ([]Video, error) {
	var out []Video
	for rows.Next() {
		v, err := scanVideo(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func placeholder(n int) string {
	return "$" + strconv.Itoa(n)
}
