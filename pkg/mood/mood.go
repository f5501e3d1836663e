package mood

import (
	"strings"

	"emotioncare/pkg/domain"
)

// Polarity thresholds for mapping sentiment scores to moods.
const (
	positiveThreshold = 0.2
	negativeThreshold = -0.2
)

// Normalize maps a raw classifier label to a canonical mood. It is pure and
// total: matching is case-insensitive and every unmapped label, including
// "neutral" and arbitrary input, falls back to neutral.
func Normalize(raw string) domain.Mood {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "happy", "surprise":
		return domain.MoodPositive
	case "sad", "angry", "fear", "disgust":
		return domain.MoodNegative
	default:
		return domain.MoodNeutral
	}
}

// FromPolarity maps a sentiment polarity in [-1, 1] to a mood.
func FromPolarity(polarity float64) domain.Mood {
	switch {
	case polarity > positiveThreshold:
		return domain.MoodPositive
	case polarity < negativeThreshold:
		return domain.MoodNegative
	default:
		return domain.MoodNeutral
	}
}

var tipsByMood = map[domain.Mood][]string{
	domain.MoodPositive: {
		"Keep doing things that make you happy!",
		"Enjoy the moment!",
	},
	domain.MoodNegative: {
		"It's okay to feel this way.",
		"Try talking with a friend.",
	},
	domain.MoodNeutral: {
		"I'm here if you want to share more.",
	},
}

// Tips returns the fixed tip set for a mood. Unknown moods get an empty,
// non-nil slice so the response shape stays stable.
func Tips(m domain.Mood) []string {
	tips, ok := tipsByMood[m]
	if !ok {
		return []string{}
	}
	out := make([]string, len(tips))
	copy(out, tips)
	return out
}
