package domain

import "time"

// Mood is the canonical tri-state affect value used for persisted history.
type Mood string

const (
	MoodPositive Mood = "positive"
	MoodNeutral  Mood = "neutral"
	MoodNegative Mood = "negative"

	// MoodUnknown appears only in chatbot responses when the sentiment
	// stage fails. It is never persisted.
	MoodUnknown Mood = "unknown"
)

// MoodSource identifies which pipeline produced a mood event.
type MoodSource string

const (
	SourceDetect  MoodSource = "detect"
	SourceChatbot MoodSource = "chatbot"
)

type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

type Post struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	ImageKey  string    `json:"imageKey,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// MoodEvent is one observed affect sample. Events are append-only and
// immutable; Emotion always holds a canonical mood, never a raw label.
type MoodEvent struct {
	ID        string     `json:"id"`
	UserID    string     `json:"userId"`
	Emotion   Mood       `json:"emotion"`
	Source    MoodSource `json:"source"`
	CreatedAt time.Time  `json:"createdAt"`
}

// ChatReply is the chatbot response shape. It is always well-formed: a
// failed generation stage yields a fallback BotReply, a failed sentiment
// stage yields MoodUnknown with empty tips.
type ChatReply struct {
	BotReply string   `json:"bot_reply"`
	Emotion  Mood     `json:"emotion"`
	Tips     []string `json:"tips"`
}

// DetectResult is the detect response shape. Emotion carries the raw
// classifier label for display; the normalized mood is what gets stored.
type DetectResult struct {
	Success    bool    `json:"success"`
	Emotion    string  `json:"emotion,omitempty"`
	Confidence float64 `json:"confidence,omitempty"`
	Saved      bool    `json:"saved"`
	Error      string  `json:"error,omitempty"`
}
