package segments

import (
	"testing"

	"github.com/clinscribe-ai/platform/pkg/common/models"
)

func TestClassifySplitsSentences(t *testing.T) {
	c := NewClassifier()

	out := c.Classify("Patient has a headache. Blood pressure is normal! Any questions?")
	if len(out) != 3 {
		t.Fatalf("expected 3 segments, got %d", len(out))
	}
	if out[0].Text != "Patient has a headache." {
		t.Fatalf("unexpected first segment %q", out[0].Text)
	}
	for _, seg := range out {
		if seg.Relevance != models.RelevanceClinicalCore {
			t.Fatalf("expected CLINICAL_CORE default, got %s", seg.Relevance)
		}
		if seg.Emotion != models.EmotionNeutral {
			t.Fatalf("expected NEUTRAL default, got %s", seg.Emotion)
		}
	}
}

func TestClassifyEmptyTranscript(t *testing.T) {
	c := NewClassifier()
	if out := c.Classify(""); out != nil {
		t.Fatalf("expected nil for empty transcript, got %v", out)
	}
}

func TestClassifyWithoutTerminalPunctuation(t *testing.T) {
	c := NewClassifier()

	out := c.Classify("patient feels fine")
	if len(out) != 1 || out[0].Text != "patient feels fine" {
		t.Fatalf("expected one trailing segment, got %v", out)
	}
}
