package store

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"emotioncare/pkg/domain"
)

// GormStore implements Store using GORM + Postgres.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore opens the DB and runs auto-migrations.
func NewGormStore(dsn string) (*GormStore, error) {
	gormLog := gormlogger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		gormlogger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{Logger: gormLog})
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if err := db.AutoMigrate(&UserModel{}, &PostModel{}, &MoodEventModel{}); err != nil {
		return nil, fmt.Errorf("auto migrate: %w", err)
	}
	return &GormStore{db: db}, nil
}

func (s *GormStore) SaveUser(u domain.User) error {
	if err := s.db.Save(userToModel(u)).Error; err != nil {
		return fmt.Errorf("save user: %w", err)
	}
	return nil
}

func (s *GormStore) HasUsername(username string) (bool, error) {
	var count int64
	if err := s.db.Model(&UserModel{}).Where("username = ?", username).Count(&count).Error; err != nil {
		return false, fmt.Errorf("count username: %w", err)
	}
	return count > 0, nil
}

func (s *GormStore) GetUserByUsername(username string) (domain.User, bool, error) {
	var m UserModel
	err := s.db.Where("username = ?", username).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.User{}, false, nil
	}
	if err != nil {
		return domain.User{}, false, fmt.Errorf("get user by username: %w", err)
	}
	return userFromModel(m), true, nil
}

func (s *GormStore) GetUserByID(id string) (domain.User, bool, error) {
	var m UserModel
	err := s.db.First(&m, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.User{}, false, nil
	}
	if err != nil {
		return domain.User{}, false, fmt.Errorf("get user: %w", err)
	}
	return userFromModel(m), true, nil
}

func (s *GormStore) SavePost(p domain.Post) error {
	if err := s.db.Save(postToModel(p)).Error; err != nil {
		return fmt.Errorf("save post: %w", err)
	}
	return nil
}

func (s *GormStore) GetPost(id string) (domain.Post, bool, error) {
	var m PostModel
	err := s.db.First(&m, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.Post{}, false, nil
	}
	if err != nil {
		return domain.Post{}, false, fmt.Errorf("get post: %w", err)
	}
	return postFromModel(m), true, nil
}

func (s *GormStore) ListPosts() ([]domain.Post, error) {
	var models []PostModel
	if err := s.db.Order("created_at DESC").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	posts := make([]domain.Post, 0, len(models))
	for _, m := range models {
		posts = append(posts, postFromModel(m))
	}
	return posts, nil
}

func (s *GormStore) DeletePost(id string) error {
	if err := s.db.Delete(&PostModel{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	return nil
}

func (s *GormStore) AppendMoodEvent(e domain.MoodEvent) error {
	if err := s.db.Create(moodEventToModel(e)).Error; err != nil {
		return fmt.Errorf("append mood event: %w", err)
	}
	return nil
}

func (s *GormStore) ListMoodEventsByUser(userID string) ([]domain.MoodEvent, error) {
	var models []MoodEventModel
	if err := s.db.Where("user_id = ?", userID).Order("created_at ASC").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("list mood events: %w", err)
	}
	events := make([]domain.MoodEvent, 0, len(models))
	for _, m := range models {
		events = append(events, moodEventFromModel(m))
	}
	return events, nil
}

func userToModel(u domain.User) UserModel {
	return UserModel{
		ID:           u.ID,
		Username:     u.Username,
		PasswordHash: u.PasswordHash,
		CreatedAt:    u.CreatedAt,
	}
}

func userFromModel(m UserModel) domain.User {
	return domain.User{
		ID:           m.ID,
		Username:     m.Username,
		PasswordHash: m.PasswordHash,
		CreatedAt:    m.CreatedAt,
	}
}

func postToModel(p domain.Post) PostModel {
	return PostModel{
		ID:        p.ID,
		UserID:    p.UserID,
		Title:     p.Title,
		Content:   p.Content,
		ImageKey:  p.ImageKey,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func postFromModel(m PostModel) domain.Post {
	return domain.Post{
		ID:        m.ID,
		UserID:    m.UserID,
		Title:     m.Title,
		Content:   m.Content,
		ImageKey:  m.ImageKey,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func moodEventToModel(e domain.MoodEvent) MoodEventModel {
	return MoodEventModel{
		ID:        e.ID,
		UserID:    e.UserID,
		Emotion:   string(e.Emotion),
		Source:    string(e.Source),
		CreatedAt: e.CreatedAt,
	}
}

func moodEventFromModel(m MoodEventModel) domain.MoodEvent {
	return domain.MoodEvent{
		ID:        m.ID,
		UserID:    m.UserID,
		Emotion:   domain.Mood(m.Emotion),
		Source:    domain.MoodSource(m.Source),
		CreatedAt: m.CreatedAt,
	}
}
