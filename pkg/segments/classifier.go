package segments

import (
	"regexp"
	"strings"

	"github.com/clinscribe-ai/platform/pkg/common/models"
)

var sentencePattern = regexp.MustCompile(`[^.!?]+[.!?]*`)

// Classifier splits a transcript into sentence-boundary segments and labels
// each with a default relevance and a neutral emotion. It is stateless per
// call; order of segments follows the transcript. A model-backed classifier
// can be substituted later behind the same shape.
type Classifier struct{}

func NewClassifier() *Classifier {
	return &Classifier{}
}

func (c *Classifier) Classify(transcript string) []models.TranscriptSegment {
	if transcript == "" {
		return nil
	}

	var out []models.TranscriptSegment
	for _, raw := range sentencePattern.FindAllString(transcript, -1) {
		text := strings.TrimSpace(raw)
		if text == "" {
			continue
		}
		out = append(out, models.TranscriptSegment{
			Text:      text,
			Relevance: models.RelevanceClinicalCore,
			Emotion:   models.EmotionNeutral,
		})
	}
	return out
}
