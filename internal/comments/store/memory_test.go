package store

import (
	"context"
	"errors"
	"testing"

	catalogstore "github.com/example/shindora/internal/catalog/store"
	"github.com/example/shindora/internal/domain"
	"github.com/example/shindora/internal/i18n"
)

func seedVideo(t *testing.T, cs *catalogstore.InMemoryStore) catalogstore.Video {
	t.Helper()
	v, err := cs.CreateVideo(context.Background(), catalogstore.VideoInput{
		Title:    i18n.New("Judul", "Title"),
		EmbedURL: "https://example.com/embed/1",
	})
	if err != nil {
		t.Fatalf("CreateVideo: %v", err)
	}
	return v
}

func TestPostAndList(t *testing.T) {
	cs := catalogstore.NewInMemoryStore()
	s := NewInMemoryStore(cs)
	v := seedVideo(t, cs)
	ctx := context.Background()

	bob := Author{ID: "bob", Username: "bob"}
	carol := Author{ID: "carol", Username: "carol", Avatar: "https://example.com/carol.png"}

	top, err := s.Post(ctx, PostParams{VideoID: v.ID, Author: bob, Text: "  great episode  ", Placement: TopLevel()})
	if err != nil {
		t.Fatalf("Post top-level: %v", err)
	}
	if top.Comment != "great episode" {
		t.Fatalf("text not trimmed: %q", top.Comment)
	}
	if top.ParentID != nil {
		t.Fatalf("top-level comment has parent %v", *top.ParentID)
	}

	reply, err := s.Post(ctx, PostParams{VideoID: v.ID, Author: carol, Text: "agreed", Placement: ReplyTo(top.ID)})
	if err != nil {
		t.Fatalf("Post reply: %v", err)
	}
	if reply.ParentID == nil || *reply.ParentID != top.ID {
		t.Fatalf("reply parent = %v, want %s", reply.ParentID, top.ID)
	}
	if reply.Username != "carol" || reply.Avatar == "" {
		t.Fatalf("author snapshot not captured: %+v", reply)
	}

	nodes, err := s.ListForVideo(ctx, v.ID)
	if err != nil {
		t.Fatalf("ListForVideo: %v", err)
	}
	if len(nodes) != 1 {
		t.Fatalf("got %d top-level comments, want 1", len(nodes))
	}
	if nodes[0].Comment.ID != top.ID {
		t.Fatalf("top-level id = %s, want %s", nodes[0].Comment.ID, top.ID)
	}
	if len(nodes[0].Replies) != 1 || nodes[0].Replies[0].ID != reply.ID {
		t.Fatalf("replies = %+v, want the single reply", nodes[0].Replies)
	}
}

func TestPostValidation(t *testing.T) {
	cs := catalogstore.NewInMemoryStore()
	s := NewInMemoryStore(cs)
	v := seedVideo(t, cs)
	ctx := context.Background()
	author := Author{ID: "bob", Username: "bob"}

	if _, err := s.Post(ctx, PostParams{VideoID: v.ID, Author: author, Text: "   "}); !errors.Is(err, domain.ErrInvalidArgument) {
		t.Fatalf("blank text: err = %v, want ErrInvalidArgument", err)
	}
	if _, err := s.Post(ctx, PostParams{VideoID: "nope", Author: author, Text: "hi"}); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("unknown video: err = %v, want ErrNotFound", err)
	}
	if _, err := s.Post(ctx, PostParams{VideoID: v.ID, Author: author, Text: "hi", Placement: ReplyTo("missing")}); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("unknown parent: err = %v, want ErrNotFound", err)
	}
}

func TestReplyToReplyRejected(t *testing.T) {
	cs := catalogstore.NewInMemoryStore()
	s := NewInMemoryStore(cs)
	v := seedVideo(t, cs)
	ctx := context.Background()
	author := Author{ID: "bob", Username: "bob"}

	top, err := s.Post(ctx, PostParams{VideoID: v.ID, Author: author, Text: "top"})
	if err != nil {
		t.Fatalf("Post: %v", err)
	}
	reply, err := s.Post(ctx, PostParams{VideoID: v.ID, Author: author, Text: "reply", Placement: ReplyTo(top.ID)})
	if err != nil {
		t.Fatalf("Post reply: %v", err)
	}
	_, err = s.Post(ctx, PostParams{VideoID: v.ID, Author: author, Text: "deeper", Placement: ReplyTo(reply.ID)})
	if !errors.Is(err, domain.ErrInvalidArgument) {
		t.Fatalf("reply to reply: err = %v, want ErrInvalidArgument", err)
	}
}

func TestReplyParentMustBeOnSameVideo(t *testing.T) {
	cs := catalogstore.NewInMemoryStore()
	s := NewInMemoryStore(cs)
	v1 := seedVideo(t, cs)
	v2 := seedVideo(t, cs)
	ctx := context.Background()
	author := Author{ID: "bob", Username: "bob"}

	top, err := s.Post(ctx, PostParams{VideoID: v1.ID, Author: author, Text: "top"})
	if err != nil {
		t.Fatalf("Post: %v", err)
	}
	_, err = s.Post(ctx, PostParams{VideoID: v2.ID, Author: author, Text: "cross", Placement: ReplyTo(top.ID)})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("cross-video reply: err = %v, want ErrNotFound", err)
	}
}

func TestDeleteOwnership(t *testing.T) {
	cs := catalogstore.NewInMemoryStore()
	s := NewInMemoryStore(cs)
	v := seedVideo(t, cs)
	ctx := context.Background()

	c, err := s.Post(ctx, PostParams{VideoID: v.ID, Author: Author{ID: "bob", Username: "bob"}, Text: "mine"})
	if err != nil {
		t.Fatalf("Post: %v", err)
	}

	if err := s.Delete(ctx, c.ID, "carol", false); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("delete by non-owner: err = %v, want ErrForbidden", err)
	}
	if err := s.Delete(ctx, c.ID, "carol", true); err != nil {
		t.Fatalf("delete by admin: %v", err)
	}
	if err := s.Delete(ctx, c.ID, "bob", false); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("delete twice: err = %v, want ErrNotFound", err)
	}
}

func TestDeleteTopLevelCascadesReplies(t *testing.T) {
	cs := catalogstore.NewInMemoryStore()
	s := NewInMemoryStore(cs)
	v := seedVideo(t, cs)
	ctx := context.Background()
	bob := Author{ID: "bob", Username: "bob"}

	top, err := s.Post(ctx, PostParams{VideoID: v.ID, Author: bob, Text: "top"})
	if err != nil {
		t.Fatalf("Post: %v", err)
	}
	for i := 0; i < 3; i++ {
		if _, err := s.Post(ctx, PostParams{VideoID: v.ID, Author: bob, Text: "reply", Placement: ReplyTo(top.ID)}); err != nil {
			t.Fatalf("Post reply: %v", err)
		}
	}
	other, err := s.Post(ctx, PostParams{VideoID: v.ID, Author: bob, Text: "other thread"})
	if err != nil {
		t.Fatalf("Post: %v", err)
	}

	if err := s.Delete(ctx, top.ID, "bob", false); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	nodes, err := s.ListForVideo(ctx, v.ID)
	if err != nil {
		t.Fatalf("ListForVideo: %v", err)
	}
	if len(nodes) != 1 || nodes[0].Comment.ID != other.ID {
		t.Fatalf("after cascade got %+v, want only the other thread", nodes)
	}
}

func TestDeleteReplyKeepsParent(t *testing.T) {
	cs := catalogstore.NewInMemoryStore()
	s := NewInMemoryStore(cs)
	v := seedVideo(t, cs)
	ctx := context.Background()
	bob := Author{ID: "bob", Username: "bob"}

	top, _ := s.Post(ctx, PostParams{VideoID: v.ID, Author: bob, Text: "top"})
	reply, _ := s.Post(ctx, PostParams{VideoID: v.ID, Author: bob, Text: "reply", Placement: ReplyTo(top.ID)})

	if err := s.Delete(ctx, reply.ID, "bob", false); err != nil {
		t.Fatalf("Delete reply: %v", err)
	}
	nodes, err := s.ListForVideo(ctx, v.ID)
	if err != nil {
		t.Fatalf("ListForVideo: %v", err)
	}
	if len(nodes) != 1 || len(nodes[0].Replies) != 0 {
		t.Fatalf("got %+v, want the parent with no replies", nodes)
	}
}

func TestDeleteForVideo(t *testing.T) {
	cs := catalogstore.NewInMemoryStore()
	s := NewInMemoryStore(cs)
	v1 := seedVideo(t, cs)
	v2 := seedVideo(t, cs)
	ctx := context.Background()
	bob := Author{ID: "bob", Username: "bob"}

	top, _ := s.Post(ctx, PostParams{VideoID: v1.ID, Author: bob, Text: "top"})
	s.Post(ctx, PostParams{VideoID: v1.ID, Author: bob, Text: "reply", Placement: ReplyTo(top.ID)})
	s.Post(ctx, PostParams{VideoID: v2.ID, Author: bob, Text: "kept"})

	if err := s.DeleteForVideo(ctx, v1.ID); err != nil {
		t.Fatalf("DeleteForVideo: %v", err)
	}
	nodes, _ := s.ListForVideo(ctx, v1.ID)
	if len(nodes) != 0 {
		t.Fatalf("video 1 still has %d threads", len(nodes))
	}
	kept, _ := s.ListForVideo(ctx, v2.ID)
	if len(kept) != 1 {
		t.Fatalf("video 2 lost its comments")
	}
}

func TestInMemoryStoreImplementsStore(t *testing.T) {
	var _ Store = (*InMemoryStore)(nil)
	var _ Store = (*PostgresStore)(nil)
}
