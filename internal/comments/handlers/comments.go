package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/example/shindora/internal/comments/store"
	"github.com/example/shindora/internal/domain"
	"github.com/example/shindora/internal/platform/api"
	"github.com/example/shindora/internal/platform/auth"
	"github.com/example/shindora/internal/platform/events"
	"github.com/example/shindora/internal/platform/httpserver"
)

// Profiles resolves the posting user into the author snapshot stored on the
// comment.
type Profiles interface {
	Author(ctx context.Context, userID string) (store.Author, error)
}

type postCommentRequest struct {
	VideoID  string  `json:"video_id"`
	Comment  string  `json:"comment"`
	ParentID *string `json:"parent_comment_id,omitempty"`
}

func reqID(r *http.Request) string {
	return httpserver.RequestIDFromContext(r.Context())
}

func requesterID(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok || userID == "" {
		api.Unauthorized(w, "UNAUTHENTICATED", "authentication required", reqID(r))
		return "", false
	}
	return userID, true
}

// Post handles POST /api/comments
func Post(cs store.Store, profiles Profiles, pub *events.Publisher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requesterID(w, r)
		if !ok {
			return
		}
		var req postCommentRequest
		if err := api.Decode(w, r, &req); err != nil {
			api.BadRequest(w, "INVALID_BODY", "invalid request body", reqID(r), nil)
			return
		}
		if strings.TrimSpace(req.VideoID) == "" {
			api.BadRequest(w, "MISSING_ID", "video_id is required", reqID(r), nil)
			return
		}
		author, err := profiles.Author(r.Context(), userID)
		if err != nil {
			domain.WriteHTTP(w, reqID(r), err)
			return
		}
		placement := store.TopLevel()
		if req.ParentID != nil && *req.ParentID != "" {
			placement = store.ReplyTo(*req.ParentID)
		}
		c, err := cs.Post(r.Context(), store.PostParams{
			VideoID:   req.VideoID,
			Author:    author,
			Text:      req.Comment,
			Placement: placement,
		})
		if err != nil {
			domain.WriteHTTP(w, reqID(r), err)
			return
		}
		pub.Publish(events.SubjectCommentPosted, "comment_posted", userID, map[string]any{
			"video_id":   c.VideoID,
			"comment_id": c.ID,
		})
		api.WriteJSON(w, http.StatusCreated, c)
	}
}

// ListForVideo handles GET /api/comments/{video_id}
// The thread is public; no authentication required.
func ListForVideo(cs store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		videoID := strings.TrimSpace(chi.URLParam(r, "video_id"))
		if videoID == "" {
			api.BadRequest(w, "MISSING_ID", "video_id is required", reqID(r), nil)
			return
		}
		nodes, err := cs.ListForVideo(r.Context(), videoID)
		if err != nil {
			domain.WriteHTTP(w, reqID(r), err)
			return
		}
		api.WriteJSON(w, http.StatusOK, nodes)
	}
}

// Delete handles DELETE /api/comments/{comment_id}
func Delete(cs store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requesterID(w, r)
		if !ok {
			return
		}
		commentID := strings.TrimSpace(chi.URLParam(r, "comment_id"))
		if commentID == "" {
			api.BadRequest(w, "MISSING_ID", "comment_id is required", reqID(r), nil)
			return
		}
		if err := cs.Delete(r.Context(), commentID, userID, auth.IsAdmin(r.Context())); err != nil {
			domain.WriteHTTP(w, reqID(r), err)
			return
		}
		api.WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
	}
}
