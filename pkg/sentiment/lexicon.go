package sentiment

import (
	"errors"
	"strings"
	"unicode"
)

// ErrEmptyText is returned when there is nothing to score.
var ErrEmptyText = errors.New("sentiment: empty text")

// valence holds per-word polarity weights in [-1, 1]. The vocabulary is
// deliberately small; unknown words score zero and the document score is the
// mean over scored words, so short everyday messages land near neutral.
var valence = map[string]float64{
	"good":      0.7,
	"great":     0.8,
	"awesome":   0.9,
	"amazing":   0.9,
	"wonderful": 0.9,
	"fantastic": 0.9,
	"happy":     0.8,
	"glad":      0.7,
	"joy":       0.8,
	"love":      0.9,
	"loved":     0.9,
	"like":      0.4,
	"nice":      0.6,
	"better":    0.5,
	"best":      0.9,
	"excited":   0.8,
	"fun":       0.7,
	"calm":      0.3,
	"relaxed":   0.5,
	"proud":     0.7,
	"thanks":    0.5,
	"thankful":  0.7,
	"grateful":  0.8,
	"hope":      0.4,
	"hopeful":   0.6,

	"bad":        -0.7,
	"terrible":   -0.9,
	"horrible":   -0.9,
	"awful":      -0.9,
	"sad":        -0.8,
	"unhappy":    -0.8,
	"depressed":  -0.9,
	"depressing": -0.8,
	"angry":      -0.8,
	"mad":        -0.7,
	"hate":       -0.9,
	"hated":      -0.9,
	"worse":      -0.6,
	"worst":      -0.9,
	"anxious":    -0.7,
	"anxiety":    -0.7,
	"worried":    -0.6,
	"worry":      -0.5,
	"scared":     -0.7,
	"afraid":     -0.7,
	"fear":       -0.7,
	"lonely":     -0.8,
	"alone":      -0.4,
	"tired":      -0.4,
	"exhausted":  -0.6,
	"stressed":   -0.7,
	"stress":     -0.5,
	"hurt":       -0.7,
	"pain":       -0.6,
	"cry":        -0.7,
	"crying":     -0.7,
	"upset":      -0.7,
	"hopeless":   -0.9,
}

var negations = map[string]struct{}{
	"not":      {},
	"no":       {},
	"never":    {},
	"dont":     {},
	"don't":    {},
	"cant":     {},
	"can't":    {},
	"wont":     {},
	"won't":    {},
	"isnt":     {},
	"isn't":    {},
	"wasnt":    {},
	"wasn't":   {},
	"didnt":    {},
	"didn't":   {},
	"couldnt":  {},
	"couldn't": {},
}

var intensifiers = map[string]float64{
	"very":      1.4,
	"really":    1.3,
	"so":        1.2,
	"extremely": 1.6,
	"totally":   1.3,
	"quite":     1.1,
}

// LexiconEstimator is a local valence-lexicon scorer. It needs no network
// access, which makes it the always-available half of the chatbot pipeline.
type LexiconEstimator struct{}

// NewLexiconEstimator returns the local estimator.
func NewLexiconEstimator() *LexiconEstimator {
	return &LexiconEstimator{}
}

// Estimate scores text polarity as the mean word valence, with single-step
// negation flipping and intensifier scaling. The result is clamped to [-1, 1].
func (e *LexiconEstimator) Estimate(text string) (float64, error) {
	words := tokenize(text)
	if len(words) == 0 {
		return 0, ErrEmptyText
	}

	var sum float64
	var scored int
	negate := false
	boost := 1.0
	for _, w := range words {
		if _, ok := negations[w]; ok {
			negate = true
			continue
		}
		if factor, ok := intensifiers[w]; ok {
			boost = factor
			continue
		}
		score, ok := valence[w]
		if !ok {
			negate = false
			boost = 1.0
			continue
		}
		score *= boost
		if negate {
			score = -score
		}
		sum += score
		scored++
		negate = false
		boost = 1.0
	}
	if scored == 0 {
		return 0, nil
	}
	return clamp(sum/float64(scored), -1, 1), nil
}

func tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r) && r != '\''
	})
	out := fields[:0]
	for _, f := range fields {
		f = strings.Trim(f, "'")
		if f != "" {
			out = append(out, f)
		}
	}
	return out
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
