package store

import (
	"context"
	"time"
)

// Comment is a single comment row. Username and Avatar are snapshots of the
// author at post time and do not update if the author later renames.
type Comment struct {
	ID        string    `json:"id"`
	VideoID   string    `json:"video_id"`
	UserID    string    `json:"user_id"`
	Username  string    `json:"username"`
	Avatar    string    `json:"avatar,omitempty"`
	Comment   string    `json:"comment"`
	ParentID  *string   `json:"parent_comment_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// ThreadNode is a top-level comment with its direct replies.
type ThreadNode struct {
	Comment Comment   `json:"comment"`
	Replies []Comment `json:"replies"`
}

// Placement says where a comment sits in its thread: top level, or a reply
// to a top-level comment. The zero value is top level. Replies to replies
// cannot be expressed, which keeps nesting depth capped at one by
// construction; the store still verifies the named parent is top level.
type Placement struct {
	parentID string
}

func TopLevel() Placement { return Placement{} }

func ReplyTo(parentID string) Placement { return Placement{parentID: parentID} }

// ParentID returns the reply target, if any.
func (p Placement) ParentID() (string, bool) {
	return p.parentID, p.parentID != ""
}

// Author identifies the poster. Username and Avatar are captured into the
// comment as-is.
type Author struct {
	ID       string
	Username string
	Avatar   string
}

// PostParams carries everything needed to create a comment.
type PostParams struct {
	VideoID   string
	Author    Author
	Text      string
	Placement Placement
}

// VideoIndex is the existence check comments need at post time.
type VideoIndex interface {
	VideoExists(ctx context.Context, id string) (bool, error)
}

// Store defines the contract for comment persistence.
type Store interface {
	// Post validates the text, the video and (for replies) the parent, then
	// stores the comment with a server-assigned id and timestamp.
	// Replying to a reply is rejected with ErrInvalidArgument.
	Post(ctx context.Context, p PostParams) (Comment, error)
	// ListForVideo returns the video's thread: top-level comments ascending
	// by created_at, each with its replies also ascending.
	ListForVideo(ctx context.Context, videoID string) ([]ThreadNode, error)
	// Delete removes a comment. Only the author or an admin may delete.
	// Deleting a top-level comment also deletes its replies; deleting a
	// reply removes only that reply.
	Delete(ctx context.Context, commentID, requesterID string, isAdmin bool) error
	// DeleteForVideo removes every comment on a video. Used by the admin
	// video delete.
	DeleteForVideo(ctx context.Context, videoID string) error
}
