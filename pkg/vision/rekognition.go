package vision

import (
	"context"
	"fmt"
	"math"
	"strings"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/rekognition"
	"github.com/aws/aws-sdk-go-v2/service/rekognition/types"
)

// maxImageBytes matches the Rekognition image-bytes limit.
const maxImageBytes = 5 << 20

// rekognitionLabels maps Rekognition emotion names onto the raw label
// vocabulary the mood normalizer understands.
var rekognitionLabels = map[types.EmotionName]string{
	types.EmotionNameHappy:     "happy",
	types.EmotionNameSurprised: "surprise",
	types.EmotionNameSad:       "sad",
	types.EmotionNameAngry:     "angry",
	types.EmotionNameFear:      "fear",
	types.EmotionNameDisgusted: "disgust",
	types.EmotionNameCalm:      "calm",
	types.EmotionNameConfused:  "confused",
}

// RekognitionClassifier implements EmotionClassifier with AWS Rekognition
// face analysis.
type RekognitionClassifier struct {
	client *rekognition.Client
}

// NewRekognitionClassifier loads the default AWS config for the region.
func NewRekognitionClassifier(ctx context.Context, region string) (*RekognitionClassifier, error) {
	region = strings.TrimSpace(region)
	if region == "" {
		return nil, fmt.Errorf("aws region required")
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return &RekognitionClassifier{client: rekognition.NewFromConfig(cfg)}, nil
}

// Classify runs DetectFaces with full attributes and extracts emotion scores
// for the first (most prominent) face.
func (r *RekognitionClassifier) Classify(ctx context.Context, image []byte) (Classification, error) {
	if len(image) == 0 {
		return Classification{}, fmt.Errorf("empty image")
	}
	if len(image) > maxImageBytes {
		return Classification{}, fmt.Errorf("image exceeds %d bytes", maxImageBytes)
	}
	out, err := r.client.DetectFaces(ctx, &rekognition.DetectFacesInput{
		Image:      &types.Image{Bytes: image},
		Attributes: []types.Attribute{types.AttributeAll},
	})
	if err != nil {
		return Classification{}, fmt.Errorf("detect faces: %w", err)
	}
	if len(out.FaceDetails) == 0 {
		return Classification{}, fmt.Errorf("no face detected")
	}
	return fromEmotions(out.FaceDetails[0].Emotions)
}

func fromEmotions(emotions []types.Emotion) (Classification, error) {
	if len(emotions) == 0 {
		return Classification{}, fmt.Errorf("no emotion scores returned")
	}
	result := Classification{Scores: make(map[string]float64, len(emotions))}
	best := math.Inf(-1)
	for _, e := range emotions {
		label, ok := rekognitionLabels[e.Type]
		if !ok {
			continue
		}
		score := finite(e.Confidence)
		result.Scores[label] = score
		if score > best {
			best = score
			result.Dominant = label
			result.Confidence = score
		}
	}
	if result.Dominant == "" {
		return Classification{}, fmt.Errorf("no recognizable emotion labels")
	}
	return result, nil
}

// finite coerces a provider confidence to a finite float64; missing or
// non-finite values become a present-but-unknown zero.
func finite(v *float32) float64 {
	if v == nil {
		return 0
	}
	f := float64(*v)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}
