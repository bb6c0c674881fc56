package store

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/example/shindora/internal/domain"
)

// PostgresLedger persists the two sets as join tables keyed by
// (user_id, video_id). ON CONFLICT DO NOTHING gives idempotence at the
// engine, so concurrent toggles serialize without duplicates.
type PostgresLedger struct {
	db    *pgxpool.Pool
	index VideoIndex
}

func NewPostgresLedger(db *pgxpool.Pool, index VideoIndex) *PostgresLedger {
	return &PostgresLedger{db: db, index: index}
}

func (l *PostgresLedger) Like(ctx context.Context, userID, videoID string) ([]string, error) {
	return l.add(ctx, "liked_videos", userID, videoID)
}

func (l *PostgresLedger) Unlike(ctx context.Context, userID, videoID string) ([]string, error) {
	return l.remove(ctx, "liked_videos", userID, videoID)
}

func (l *PostgresLedger) AddWatchLater(ctx context.Context, userID, videoID string) ([]string, error) {
	return l.add(ctx, "watch_later", userID, videoID)
}

func (l *PostgresLedger) RemoveWatchLater(ctx context.Context, userID, videoID string) ([]string, error) {
	return l.remove(ctx, "watch_later", userID, videoID)
}

func (l *PostgresLedger) LikedIDs(ctx context.Context, userID string) ([]string, error) {
	return l.ids(ctx, "liked_videos", userID)
}

func (l *PostgresLedger) WatchLaterIDs(ctx context.Context, userID string) ([]string, error) {
	return l.ids(ctx, "watch_later", userID)
}

// Table names are fixed constants above, never caller input.

func (l *PostgresLedger) add(ctx context.Context, table, userID, videoID string) ([]string, error) {
	ok, err := l.index.VideoExists(ctx, videoID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrNotFound
	}
	_, err = l.db.Exec(ctx,
		`INSERT INTO `+table+` (user_id, video_id, created_at) VALUES ($1,$2,$3)
		 ON CONFLICT (user_id, video_id) DO NOTHING`,
		userID, videoID, time.Now().UTC())
	if err != nil {
		return nil, err
	}
	return l.ids(ctx, table, userID)
}

func (l *PostgresLedger) remove(ctx context.Context, table, userID, videoID string) ([]string, error) {
	_, err := l.db.Exec(ctx,
		`DELETE FROM `+table+` WHERE user_id=$1 AND video_id=$2`, userID, videoID)
	if err != nil {
		return nil, err
	}
	return l.ids(ctx, table, userID)
}

func (l *PostgresLedger) ids(ctx context.Context, table, userID string) ([]string, error) {
	rows, err := l.db.Query(ctx,
		`SELECT video_id FROM `+table+` WHERE user_id=$1 ORDER BY created_at ASC, video_id ASC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}
