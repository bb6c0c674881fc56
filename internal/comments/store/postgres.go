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

// PostgresStore persists comments in the comments table.
type PostgresStore struct {
	db    *pgxpool.Pool
	index VideoIndex
}

func NewPostgresStore(db *pgxpool.Pool, index VideoIndex) *PostgresStore {
	return &PostgresStore{db: db, index: index}
}

const commentColumns = `id, video_id, user_id, username, avatar, body, parent_id, created_at`

func (s *PostgresStore) Post(ctx context.Context, p PostParams) (Comment, error) {
	text := strings.TrimSpace(p.Text)
	if text == "" {
		return Comment{}, fmt.Errorf("comment text is required: %w", domain.ErrInvalidArgument)
	}
	ok, err := s.index.VideoExists(ctx, p.VideoID)
	if err != nil {
		return Comment{}, fmt.Errorf("check video: %w", err)
	}
	if !ok {
		return Comment{}, fmt.Errorf("video %q: %w", p.VideoID, domain.ErrNotFound)
	}

	var parentID *string
	if pid, isReply := p.Placement.ParentID(); isReply {
		var parentParent *string
		err := s.db.QueryRow(ctx,
			`SELECT parent_id FROM comments WHERE id = $1 AND video_id = $2`,
			pid, p.VideoID,
		).Scan(&parentParent)
		if errors.Is(err, pgx.ErrNoRows) {
			return Comment{}, fmt.Errorf("parent comment %q: %w", pid, domain.ErrNotFound)
		}
		if err != nil {
			return Comment{}, fmt.Errorf("load parent comment: %w", err)
		}
		if parentParent != nil {
			return Comment{}, fmt.Errorf("cannot reply to a reply: %w", domain.ErrInvalidArgument)
		}
		parentID = &pid
	}

	c := Comment{
		ID:       uuid.New().String(),
		VideoID:  p.VideoID,
		UserID:   p.Author.ID,
		Username: p.Author.Username,
		Avatar:   p.Author.Avatar,
		Comment:  text,
		ParentID: parentID,
	}
	err = s.db.QueryRow(ctx, `
		INSERT INTO comments (id, video_id, user_id, username, avatar, body, parent_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at
	`, c.ID, c.VideoID, c.UserID, c.Username, c.Avatar, c.Comment, c.ParentID).Scan(&c.CreatedAt)
	if err != nil {
		return Comment{}, fmt.Errorf("insert comment: %w", err)
	}
	return c, nil
}

func (s *PostgresStore) ListForVideo(ctx context.Context, videoID string) ([]ThreadNode, error) {
	rows, err := s.db.Query(ctx, `
		SELECT `+commentColumns+`
		FROM comments
		WHERE video_id = $1
		ORDER BY created_at ASC, id ASC
	`, videoID)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	defer rows.Close()

	var tops []Comment
	replies := make(map[string][]Comment)
	for rows.Next() {
		var c Comment
		if err := rows.Scan(&c.ID, &c.VideoID, &c.UserID, &c.Username, &c.Avatar, &c.Comment, &c.ParentID, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		if c.ParentID == nil {
			tops = append(tops, c)
		} else {
			replies[*c.ParentID] = append(replies[*c.ParentID], c)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	nodes := make([]ThreadNode, 0, len(tops))
	for _, top := range tops {
		rs := replies[top.ID]
		if rs == nil {
			rs = []Comment{}
		}
		nodes = append(nodes, ThreadNode{Comment: top, Replies: rs})
	}
	return nodes, nil
}

func (s *PostgresStore) Delete(ctx context.Context, commentID, requesterID string, isAdmin bool) error {
	var userID string
	err := s.db.QueryRow(ctx,
		`SELECT user_id FROM comments WHERE id = $1`, commentID,
	).Scan(&userID)
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("comment %q: %w", commentID, domain.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("load comment: %w", err)
	}
	if !isAdmin && userID != requesterID {
		return fmt.Errorf("comment %q belongs to another user: %w", commentID, domain.ErrForbidden)
	}
	_, err = s.db.Exec(ctx,
		`DELETE FROM comments WHERE id = $1 OR parent_id = $1`, commentID)
	if err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}
	return nil
}

func (s *PostgresStore) DeleteForVideo(ctx context.Context, videoID string) error {
	_, err := s.db.Exec(ctx, `DELETE FROM comments WHERE video_id = $1`, videoID)
	if err != nil {
		return fmt.Errorf("delete comments for video: %w", err)
	}
	return nil
}
