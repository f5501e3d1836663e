package store

import (
	"fmt"
	"sort"
	"sync"

	"emotioncare/pkg/domain"
)

// MemoryStore keeps all records in-process. Used by tests and local dev.
type MemoryStore struct {
	mu      sync.RWMutex
	users   map[string]domain.User
	byName  map[string]string // username -> user ID
	posts   map[string]domain.Post
	postIDs []string // insertion order
	moods   map[string][]domain.MoodEvent
}

// NewMemoryStore initializes an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:  make(map[string]domain.User),
		byName: make(map[string]string),
		posts:  make(map[string]domain.Post),
		moods:  make(map[string][]domain.MoodEvent),
	}
}

func (m *MemoryStore) SaveUser(u domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[u.ID] = u
	m.byName[u.Username] = u.ID
	return nil
}

func (m *MemoryStore) HasUsername(username string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.byName[username]
	return ok, nil
}

func (m *MemoryStore) GetUserByUsername(username string) (domain.User, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	id, ok := m.byName[username]
	if !ok {
		return domain.User{}, false, nil
	}
	u, ok := m.users[id]
	return u, ok, nil
}

func (m *MemoryStore) GetUserByID(id string) (domain.User, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[id]
	return u, ok, nil
}

func (m *MemoryStore) SavePost(p domain.Post) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.posts[p.ID]; !exists {
		m.postIDs = append(m.postIDs, p.ID)
	}
	m.posts[p.ID] = p
	return nil
}

func (m *MemoryStore) GetPost(id string) (domain.Post, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.posts[id]
	return p, ok, nil
}

func (m *MemoryStore) ListPosts() ([]domain.Post, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	res := make([]domain.Post, 0, len(m.postIDs))
	// newest first, matching the database store
	for i := len(m.postIDs) - 1; i >= 0; i-- {
		if p, ok := m.posts[m.postIDs[i]]; ok {
			res = append(res, p)
		}
	}
	return res, nil
}

func (m *MemoryStore) DeletePost(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.posts, id)
	filtered := m.postIDs[:0]
	for _, item := range m.postIDs {
		if item != id {
			filtered = append(filtered, item)
		}
	}
	m.postIDs = filtered
	return nil
}

func (m *MemoryStore) AppendMoodEvent(e domain.MoodEvent) error {
	if e.UserID == "" {
		return fmt.Errorf("mood event requires an owner")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.moods[e.UserID] = append(m.moods[e.UserID], e)
	return nil
}

func (m *MemoryStore) ListMoodEventsByUser(userID string) ([]domain.MoodEvent, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	events := make([]domain.MoodEvent, len(m.moods[userID]))
	copy(events, m.moods[userID])
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].CreatedAt.Before(events[j].CreatedAt)
	})
	return events, nil
}
