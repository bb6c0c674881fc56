package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/example/shindora/internal/domain"
)

// PostgresStore persists playlists in the playlists table. The ordered video
// sequence lives in a text[] column, which makes the idempotent append and
// the positional remove single statements.
type PostgresStore struct {
	db    *pgxpool.Pool
	index VideoIndex
}

func NewPostgresStore(db *pgxpool.Pool, index VideoIndex) *PostgresStore {
	return &PostgresStore{db: db, index: index}
}

const playlistColumns = `id, user_id, name, description, is_public, video_ids, thumbnail_url, created_at`

func (s *PostgresStore) Create(ctx context.Context, ownerID string, in CreateInput) (Playlist, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return Playlist{}, fmt.Errorf("playlist name is required: %w", domain.ErrInvalidArgument)
	}

	p := Playlist{
		ID:           uuid.New().String(),
		UserID:       ownerID,
		Name:         name,
		Description:  in.Description,
		IsPublic:     in.IsPublic,
		VideoIDs:     []string{},
		ThumbnailURL: in.ThumbnailURL,
	}
	err := s.db.QueryRow(ctx, `
		INSERT INTO playlists (id, user_id, name, description, is_public, video_ids, thumbnail_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at
	`, p.ID, p.UserID, p.Name, p.Description, p.IsPublic, p.VideoIDs, p.ThumbnailURL).Scan(&p.CreatedAt)
	if err != nil {
		return Playlist{}, fmt.Errorf("insert playlist: %w", err)
	}
	return p, nil
}

func (s *PostgresStore) Get(ctx context.Context, id, requesterID string) (Playlist, error) {
	p, err := s.load(ctx, id)
	if err != nil {
		return Playlist{}, err
	}
	if !p.IsPublic && p.UserID != requesterID {
		return Playlist{}, fmt.Errorf("playlist %q: %w", id, domain.ErrNotFound)
	}
	return p, nil
}

func (s *PostgresStore) List(ctx context.Context, filter ListFilter) ([]Playlist, error) {
	query := `SELECT ` + playlistColumns + ` FROM playlists`
	var conds []string
	var args []any
	if filter.Owner != "" {
		args = append(args, filter.Owner)
		conds = append(conds, fmt.Sprintf("user_id = $%d", len(args)))
	}
	if filter.PublicOnly {
		conds = append(conds, "is_public")
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY created_at DESC, id DESC"

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list playlists: %w", err)
	}
	defer rows.Close()

	out := []Playlist{}
	for rows.Next() {
		p, err := scanPlaylist(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *PostgresStore) AddVideo(ctx context.Context, playlistID, videoID, requesterID string) (Playlist, error) {
	ok, err := s.index.VideoExists(ctx, videoID)
	if err != nil {
		return Playlist{}, fmt.Errorf("check video: %w", err)
	}
	if !ok {
		return Playlist{}, fmt.Errorf("video %q: %w", videoID, domain.ErrNotFound)
	}
	if err := s.requireOwner(ctx, playlistID, requesterID); err != nil {
		return Playlist{}, err
	}
	_, err = s.db.Exec(ctx, `
		UPDATE playlists
		SET video_ids = array_append(video_ids, $2)
		WHERE id = $1 AND NOT (video_ids @> ARRAY[$2])
	`, playlistID, videoID)
	if err != nil {
		return Playlist{}, fmt.Errorf("append video: %w", err)
	}
	return s.load(ctx, playlistID)
}

func (s *PostgresStore) RemoveVideo(ctx context.Context, playlistID, videoID, requesterID string) (Playlist, error) {
	if err := s.requireOwner(ctx, playlistID, requesterID); err != nil {
		return Playlist{}, err
	}
	_, err := s.db.Exec(ctx, `
		UPDATE playlists
		SET video_ids = array_remove(video_ids, $2)
		WHERE id = $1
	`, playlistID, videoID)
	if err != nil {
		return Playlist{}, fmt.Errorf("remove video: %w", err)
	}
	return s.load(ctx, playlistID)
}

func (s *PostgresStore) Delete(ctx context.Context, playlistID, requesterID string) error {
	if err := s.requireOwner(ctx, playlistID, requesterID); err != nil {
		return err
	}
	_, err := s.db.Exec(ctx, `DELETE FROM playlists WHERE id = $1`, playlistID)
	if err != nil {
		return fmt.Errorf("delete playlist: %w", err)
	}
	return nil
}

func (s *PostgresStore) requireOwner(ctx context.Context, playlistID, requesterID string) error {
	var ownerID string
	err := s.db.QueryRow(ctx, `SELECT user_id FROM playlists WHERE id = $1`, playlistID).Scan(&ownerID)
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("playlist %q: %w", playlistID, domain.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("load playlist: %w", err)
	}
	if ownerID != requesterID {
		return fmt.Errorf("playlist %q belongs to another user: %w", playlistID, domain.ErrForbidden)
	}
	return nil
}

func (s *PostgresStore) load(ctx context.Context, id string) (Playlist, error) {
	row := s.db.QueryRow(ctx, `SELECT `+playlistColumns+` FROM playlists WHERE id = $1`, id)
	p, err := scanPlaylist(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Playlist{}, fmt.Errorf("playlist %q: %w", id, domain.ErrNotFound)
	}
	return p, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPlaylist(row rowScanner) (Playlist, error) {
	var p Playlist
	err := row.Scan(&p.ID, &p.UserID, &p.Name, &p.Description, &p.IsPublic, &p.VideoIDs, &p.ThumbnailURL, &p.CreatedAt)
	if err != nil {
		return Playlist{}, err
	}
	if p.VideoIDs == nil {
		p.VideoIDs = []string{}
	}
	return p, nil
}
