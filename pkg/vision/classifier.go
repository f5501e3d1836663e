package vision

import "context"

// Classification is the raw output of an emotion classifier: the dominant
// label plus per-label confidence scores in percent.
type Classification struct {
	Dominant   string
	Confidence float64
	Scores     map[string]float64
}

// EmotionClassifier analyzes a face image and scores its emotions.
// Labels are provider-specific raw strings; normalization happens downstream.
type EmotionClassifier interface {
	Classify(ctx context.Context, image []byte) (Classification, error)
}
