package vision

import (
	"math"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/rekognition/types"
)

func conf(v float32) *float32 { return &v }

func TestFromEmotionsPicksDominant(t *testing.T) {
	c, err := fromEmotions([]types.Emotion{
		{Type: types.EmotionNameCalm, Confidence: conf(10.2)},
		{Type: types.EmotionNameHappy, Confidence: conf(87.5)},
		{Type: types.EmotionNameSad, Confidence: conf(2.3)},
	})
	if err != nil {
		t.Fatalf("fromEmotions: %v", err)
	}
	if c.Dominant != "happy" {
		t.Fatalf("dominant = %q, want happy", c.Dominant)
	}
	if c.Confidence != 87.5 {
		t.Fatalf("confidence = %v, want 87.5", c.Confidence)
	}
	if c.Scores["calm"] != 10.2 || len(c.Scores) != 3 {
		t.Fatalf("unexpected scores: %#v", c.Scores)
	}
}

func TestFromEmotionsMapsProviderNames(t *testing.T) {
	cases := []struct {
		name types.EmotionName
		want string
	}{
		{types.EmotionNameSurprised, "surprise"},
		{types.EmotionNameDisgusted, "disgust"},
		{types.EmotionNameFear, "fear"},
		{types.EmotionNameAngry, "angry"},
	}
	for _, tc := range cases {
		c, err := fromEmotions([]types.Emotion{{Type: tc.name, Confidence: conf(99)}})
		if err != nil {
			t.Fatalf("fromEmotions(%s): %v", tc.name, err)
		}
		if c.Dominant != tc.want {
			t.Fatalf("dominant for %s = %q, want %q", tc.name, c.Dominant, tc.want)
		}
	}
}

func TestFromEmotionsCoercesNonFiniteConfidence(t *testing.T) {
	nan := float32(math.NaN())
	c, err := fromEmotions([]types.Emotion{
		{Type: types.EmotionNameHappy, Confidence: &nan},
	})
	if err != nil {
		t.Fatalf("fromEmotions: %v", err)
	}
	if c.Confidence != 0 {
		t.Fatalf("NaN confidence should coerce to 0, got %v", c.Confidence)
	}
}

func TestFromEmotionsMissingConfidence(t *testing.T) {
	c, err := fromEmotions([]types.Emotion{
		{Type: types.EmotionNameHappy},
	})
	if err != nil {
		t.Fatalf("fromEmotions: %v", err)
	}
	if c.Dominant != "happy" || c.Confidence != 0 {
		t.Fatalf("missing confidence should be present-but-unknown, got %+v", c)
	}
}

func TestFromEmotionsRejectsUnknownOnly(t *testing.T) {
	if _, err := fromEmotions([]types.Emotion{{Type: types.EmotionNameUnknown, Confidence: conf(50)}}); err == nil {
		t.Fatalf("expected error when no recognizable labels present")
	}
	if _, err := fromEmotions(nil); err == nil {
		t.Fatalf("expected error for empty emotion list")
	}
}
