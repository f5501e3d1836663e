package store

import "emotioncare/pkg/domain"

// Store defines persistence operations for users, posts, and mood events.
type Store interface {
	// users
	SaveUser(domain.User) error
	HasUsername(username string) (bool, error)
	GetUserByUsername(username string) (domain.User, bool, error)
	GetUserByID(id string) (domain.User, bool, error)

	// posts
	SavePost(domain.Post) error
	GetPost(id string) (domain.Post, bool, error)
	ListPosts() ([]domain.Post, error)
	DeletePost(id string) error

	// mood events: append-only, no update path. ListMoodEventsByUser
	// returns events in ascending CreatedAt order regardless of the
	// order they were inserted in.
	AppendMoodEvent(domain.MoodEvent) error
	ListMoodEventsByUser(userID string) ([]domain.MoodEvent, error)
}

// SessionStore persists session tokens.
type SessionStore interface {
	NewSession(userID string) (string, error)
	GetUserIDByToken(token string) (string, bool, error)
	DeleteSession(token string) error
}
