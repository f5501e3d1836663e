package app

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"emotioncare/internal/util"
	"emotioncare/pkg/ai"
	"emotioncare/pkg/domain"
	"emotioncare/pkg/mood"
	"emotioncare/pkg/resilience"
	"emotioncare/pkg/sentiment"
	"emotioncare/pkg/storage"
	"emotioncare/pkg/store"
	"emotioncare/pkg/vision"

	authpkg "emotioncare/pkg/auth"
)

const (
	chatSystemPrompt = "You are a supportive chatbot. Reply in a gentle, empathetic tone (1-2 short paragraphs)."

	// ChatFallbackReply is returned when the generation stage fails.
	ChatFallbackReply = "Chatbot service is temporarily unavailable."

	// MusicFallbackReply is returned when a recommendation cannot be generated.
	MusicFallbackReply = "Could not generate music suggestions."

	defaultMusicLanguage = "hindi"
)

// Config wires the application's collaborators. Store, Sessions, Estimator,
// Generator and Classifier are required; Uploads is optional best-effort
// retention for detect images.
type Config struct {
	Store      store.Store
	Sessions   store.SessionStore
	Estimator  sentiment.Estimator
	Generator  ai.TextGenerator
	Classifier vision.EmotionClassifier
	Uploads    storage.BlobStore
}

// App is the core application service composing the mood pipelines.
type App struct {
	store      store.Store
	sessions   store.SessionStore
	estimator  sentiment.Estimator
	generator  ai.TextGenerator
	classifier vision.EmotionClassifier
	uploads    storage.BlobStore
}

// New constructs the application.
func New(cfg Config) (*App, error) {
	if cfg.Store == nil {
		return nil, fmt.Errorf("store required")
	}
	if cfg.Sessions == nil {
		return nil, fmt.Errorf("session store required")
	}
	if cfg.Estimator == nil {
		return nil, fmt.Errorf("sentiment estimator required")
	}
	if cfg.Generator == nil {
		return nil, fmt.Errorf("text generator required")
	}
	if cfg.Classifier == nil {
		return nil, fmt.Errorf("emotion classifier required")
	}
	return &App{
		store:      cfg.Store,
		sessions:   cfg.Sessions,
		estimator:  cfg.Estimator,
		generator:  cfg.Generator,
		classifier: cfg.Classifier,
		uploads:    cfg.Uploads,
	}, nil
}

// Chat runs the two-stage chatbot pipeline. The sentiment and generation
// stages are isolated from each other: either may fail without affecting the
// other, and the reply shape is always complete. The only error returned is
// ErrMessageRequired.
func (a *App) Chat(ctx context.Context, user *domain.User, message string) (domain.ChatReply, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return domain.ChatReply{}, ErrMessageRequired
	}

	// Stage 1: local sentiment. Degrades to unknown, never blocks stage 2.
	emotion := resilience.Call("chat_sentiment", domain.MoodUnknown, func() (domain.Mood, error) {
		polarity, err := a.estimator.Estimate(message)
		if err != nil {
			return domain.MoodUnknown, err
		}
		return mood.FromPolarity(polarity), nil
	})
	tips := mood.Tips(emotion)

	// Stage 2: reply generation. Degrades to the fixed fallback string.
	userPrompt := fmt.Sprintf("The user said: %q.", message)
	reply := resilience.Call("chat_generate", ChatFallbackReply, func() (string, error) {
		text, err := a.generator.GenerateText(ctx, chatSystemPrompt, userPrompt)
		if err != nil {
			return "", err
		}
		text = strings.TrimSpace(text)
		if text == "" {
			return "", fmt.Errorf("empty reply from generator")
		}
		return text, nil
	})

	// Unknown moods keep the persisted enum closed: they are never stored.
	if user != nil && emotion != domain.MoodUnknown {
		a.saveMood(user.ID, emotion, domain.SourceChatbot)
	}

	return domain.ChatReply{
		BotReply: reply,
		Emotion:  emotion,
		Tips:     tips,
	}, nil
}

// Detect classifies a face image and appends a mood event for authenticated
// callers. Classifier failures become a structured failure result; a store
// failure after a successful classification is reported via Saved=false
// instead of failing the request.
func (a *App) Detect(ctx context.Context, user *domain.User, image []byte, filename string) domain.DetectResult {
	if a.uploads != nil {
		key := "uploads/" + util.NewID() + "-" + filename
		resilience.Do("detect_store_upload", func() error {
			return a.uploads.Put(ctx, key, bytes.NewReader(image), int64(len(image)), "application/octet-stream")
		})
	}

	cls, err := a.classifier.Classify(ctx, image)
	if err != nil {
		util.LoggerFromContext(ctx).Warn("classification failed", "err", err)
		return domain.DetectResult{Success: false, Error: err.Error()}
	}

	saved := false
	if user != nil {
		saved = a.saveMood(user.ID, mood.Normalize(cls.Dominant), domain.SourceDetect)
	}

	// The raw label goes back to the caller for display; only the
	// normalized mood was persisted.
	return domain.DetectResult{
		Success:    true,
		Emotion:    cls.Dominant,
		Confidence: cls.Confidence,
		Saved:      saved,
	}
}

// RecommendMusic asks the generator for song suggestions matching an emotion.
// Failures degrade to the fixed fallback string; the result is always usable.
func (a *App) RecommendMusic(ctx context.Context, emotion, language string) string {
	language = strings.TrimSpace(language)
	if language == "" {
		language = defaultMusicLanguage
	}
	userPrompt := fmt.Sprintf(
		"Suggest 3 %s songs for a person feeling %q. Give each song a one-line reason. Format using bullet points.",
		language, strings.TrimSpace(emotion),
	)
	return resilience.Call("music_generate", MusicFallbackReply, func() (string, error) {
		text, err := a.generator.GenerateText(ctx, "You are a music recommendation assistant.", userPrompt)
		if err != nil {
			return "", err
		}
		text = strings.TrimSpace(text)
		if text == "" {
			return "", fmt.Errorf("empty recommendation from generator")
		}
		return text, nil
	})
}

// MoodHistory lists the user's mood events in chronological order.
func (a *App) MoodHistory(user domain.User) ([]domain.MoodEvent, error) {
	events, err := a.store.ListMoodEventsByUser(user.ID)
	if err != nil {
		return nil, fmt.Errorf("list mood events: %w", err)
	}
	return events, nil
}

func (a *App) saveMood(userID string, emotion domain.Mood, source domain.MoodSource) bool {
	return resilience.Do("save_mood", func() error {
		return a.store.AppendMoodEvent(domain.MoodEvent{
			ID:        util.NewID(),
			UserID:    userID,
			Emotion:   emotion,
			Source:    source,
			CreatedAt: time.Now().UTC(),
		})
	})
}

// SignUp registers a new user and opens a session.
func (a *App) SignUp(username, password string) (domain.User, string, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return domain.User{}, "", ErrUsernamePasswordRequired
	}
	if err := authpkg.ValidatePassword(password); err != nil {
		return domain.User{}, "", err
	}
	exists, err := a.store.HasUsername(username)
	if err != nil {
		return domain.User{}, "", fmt.Errorf("check username: %w", err)
	}
	if exists {
		return domain.User{}, "", ErrUsernameTaken
	}
	hash, err := authpkg.HashPassword(password)
	if err != nil {
		return domain.User{}, "", fmt.Errorf("hash password: %w", err)
	}
	user := domain.User{
		ID:           util.NewID(),
		Username:     username,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}
	if err := a.store.SaveUser(user); err != nil {
		return domain.User{}, "", fmt.Errorf("save user: %w", err)
	}
	token, err := a.sessions.NewSession(user.ID)
	if err != nil {
		return domain.User{}, "", fmt.Errorf("open session: %w", err)
	}
	return user, token, nil
}

// Login validates credentials and opens a session.
func (a *App) Login(username, password string) (domain.User, string, error) {
	username = strings.TrimSpace(username)
	user, ok, err := a.store.GetUserByUsername(username)
	if err != nil {
		return domain.User{}, "", fmt.Errorf("fetch user: %w", err)
	}
	if !ok || !authpkg.CheckPassword(password, user.PasswordHash) {
		return domain.User{}, "", ErrInvalidCredentials
	}
	token, err := a.sessions.NewSession(user.ID)
	if err != nil {
		return domain.User{}, "", fmt.Errorf("open session: %w", err)
	}
	return user, token, nil
}

// Logout invalidates a session token.
func (a *App) Logout(token string) error {
	return a.sessions.DeleteSession(token)
}

// UserFromToken resolves a user from a session token.
func (a *App) UserFromToken(token string) (domain.User, bool) {
	uid, ok, err := a.sessions.GetUserIDByToken(token)
	if err != nil || !ok {
		return domain.User{}, false
	}
	user, found, err := a.store.GetUserByID(uid)
	if err != nil || !found {
		return domain.User{}, false
	}
	return user, true
}

// CreatePost stores a new post owned by the user.
func (a *App) CreatePost(user domain.User, title, content, imageKey string) (domain.Post, error) {
	title = strings.TrimSpace(title)
	content = strings.TrimSpace(content)
	if title == "" || content == "" {
		return domain.Post{}, ErrTitleContentRequired
	}
	now := time.Now().UTC()
	post := domain.Post{
		ID:        util.NewID(),
		UserID:    user.ID,
		Title:     title,
		Content:   content,
		ImageKey:  imageKey,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := a.store.SavePost(post); err != nil {
		return domain.Post{}, fmt.Errorf("save post: %w", err)
	}
	return post, nil
}

// ListPosts returns all posts, newest first.
func (a *App) ListPosts() ([]domain.Post, error) {
	posts, err := a.store.ListPosts()
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	return posts, nil
}

// GetPost fetches one post.
func (a *App) GetPost(id string) (domain.Post, error) {
	post, ok, err := a.store.GetPost(id)
	if err != nil {
		return domain.Post{}, fmt.Errorf("get post: %w", err)
	}
	if !ok {
		return domain.Post{}, ErrPostNotFound
	}
	return post, nil
}

// UpdatePost edits a post; only the owner may update it.
func (a *App) UpdatePost(user domain.User, id, title, content string) (domain.Post, error) {
	post, err := a.GetPost(id)
	if err != nil {
		return domain.Post{}, err
	}
	if post.UserID != user.ID {
		return domain.Post{}, ErrPostForbidden
	}
	title = strings.TrimSpace(title)
	content = strings.TrimSpace(content)
	if title == "" || content == "" {
		return domain.Post{}, ErrTitleContentRequired
	}
	post.Title = title
	post.Content = content
	post.UpdatedAt = time.Now().UTC()
	if err := a.store.SavePost(post); err != nil {
		return domain.Post{}, fmt.Errorf("save post: %w", err)
	}
	return post, nil
}

// DeletePost removes a post; only the owner may delete it.
func (a *App) DeletePost(user domain.User, id string) error {
	post, err := a.GetPost(id)
	if err != nil {
		return err
	}
	if post.UserID != user.ID {
		return ErrPostForbidden
	}
	if err := a.store.DeletePost(id); err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	return nil
}
