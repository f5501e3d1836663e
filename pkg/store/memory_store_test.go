package store

import (
	"testing"
	"time"

	"emotioncare/pkg/domain"
)

func TestMoodEventsSortedByTimestampNotInsertionOrder(t *testing.T) {
	s := NewMemoryStore()
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	// Insert out of chronological order.
	for _, offset := range []time.Duration{2 * time.Hour, 0, time.Hour} {
		err := s.AppendMoodEvent(domain.MoodEvent{
			ID:        offset.String(),
			UserID:    "u1",
			Emotion:   domain.MoodNeutral,
			Source:    domain.SourceDetect,
			CreatedAt: base.Add(offset),
		})
		if err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	events, err := s.ListMoodEventsByUser("u1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(events) != 3 {
		t.Fatalf("expected 3 events, got %d", len(events))
	}
	for i := 1; i < len(events); i++ {
		if events[i].CreatedAt.Before(events[i-1].CreatedAt) {
			t.Fatalf("events not ascending at index %d: %v < %v", i, events[i].CreatedAt, events[i-1].CreatedAt)
		}
	}
}

func TestMoodEventsScopedToOwner(t *testing.T) {
	s := NewMemoryStore()
	now := time.Now().UTC()
	_ = s.AppendMoodEvent(domain.MoodEvent{ID: "a", UserID: "u1", Emotion: domain.MoodPositive, Source: domain.SourceChatbot, CreatedAt: now})
	_ = s.AppendMoodEvent(domain.MoodEvent{ID: "b", UserID: "u2", Emotion: domain.MoodNegative, Source: domain.SourceDetect, CreatedAt: now})

	events, err := s.ListMoodEventsByUser("u1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(events) != 1 || events[0].ID != "a" {
		t.Fatalf("expected only u1's event, got %#v", events)
	}
}

func TestAppendMoodEventRequiresOwner(t *testing.T) {
	s := NewMemoryStore()
	if err := s.AppendMoodEvent(domain.MoodEvent{ID: "x"}); err == nil {
		t.Fatalf("expected error for ownerless event")
	}
}

func TestUserRoundTrip(t *testing.T) {
	s := NewMemoryStore()
	u := domain.User{ID: "u1", Username: "dana", PasswordHash: "h", CreatedAt: time.Now().UTC()}
	if err := s.SaveUser(u); err != nil {
		t.Fatalf("save user: %v", err)
	}
	ok, err := s.HasUsername("dana")
	if err != nil || !ok {
		t.Fatalf("expected username to exist, ok=%v err=%v", ok, err)
	}
	got, found, err := s.GetUserByUsername("dana")
	if err != nil || !found || got.ID != "u1" {
		t.Fatalf("lookup by username failed: %+v found=%v err=%v", got, found, err)
	}
}

func TestPostLifecycle(t *testing.T) {
	s := NewMemoryStore()
	now := time.Now().UTC()
	for _, id := range []string{"p1", "p2"} {
		if err := s.SavePost(domain.Post{ID: id, UserID: "u1", Title: id, Content: "c", CreatedAt: now}); err != nil {
			t.Fatalf("save post: %v", err)
		}
		now = now.Add(time.Minute)
	}
	posts, err := s.ListPosts()
	if err != nil {
		t.Fatalf("list posts: %v", err)
	}
	if len(posts) != 2 || posts[0].ID != "p2" {
		t.Fatalf("expected newest-first listing, got %#v", posts)
	}
	if err := s.DeletePost("p1"); err != nil {
		t.Fatalf("delete post: %v", err)
	}
	if _, found, _ := s.GetPost("p1"); found {
		t.Fatalf("post should be gone")
	}
}
