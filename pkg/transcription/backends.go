package transcription

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/clinscribe-ai/platform/pkg/common/errs"
	"github.com/clinscribe-ai/platform/pkg/nlp"
)

// ASRBackend turns stored audio into transcript text.
type ASRBackend interface {
	Transcribe(ctx context.Context, audioRef, languageCode string) (string, error)
}

// TranslationBackend translates a transcript into a target language.
type TranslationBackend interface {
	Translate(ctx context.Context, text, sourceLanguage, targetLanguage string) (string, error)
}

// DemoASRBackend fabricates a deterministic transcript so the rest of the
// platform can run without a speech model.
type DemoASRBackend struct{}

func (DemoASRBackend) Transcribe(_ context.Context, audioRef, languageCode string) (string, error) {
	if languageCode == "" {
		languageCode = "en"
	}
	return fmt.Sprintf("Demo transcript for %s in %s.", audioRef, languageCode), nil
}

// DemoTranslationBackend tags text with the language pair instead of
// translating it.
type DemoTranslationBackend struct{}

func (DemoTranslationBackend) Translate(_ context.Context, text, sourceLanguage, targetLanguage string) (string, error) {
	if sourceLanguage == "" {
		sourceLanguage = "auto"
	}
	return fmt.Sprintf("[%s->%s] %s", sourceLanguage, targetLanguage, text), nil
}

// WhisperASRBackend calls a self-hosted Whisper-compatible HTTP service.
// Configuration problems surface at the first call, not at construction.
type WhisperASRBackend struct {
	baseURL string
	audio   AudioReader
	client  *http.Client
}

// AudioReader resolves an audio ref to its bytes.
type AudioReader interface {
	Read(ref string) ([]byte, error)
}

func NewWhisperASRBackend(baseURL string, audio AudioReader) *WhisperASRBackend {
	return &WhisperASRBackend{baseURL: baseURL, audio: audio, client: &http.Client{}}
}

func (b *WhisperASRBackend) Transcribe(ctx context.Context, audioRef, languageCode string) (string, error) {
	if b.baseURL == "" {
		return "", errs.NewMisconfig("whisper", "WHISPER_BASE_URL must be set to use the whisper backend")
	}

	data, err := b.audio.Read(audioRef)
	if err != nil {
		return "", fmt.Errorf("failed to read audio %s: %w", audioRef, err)
	}

	url := strings.TrimRight(b.baseURL, "/") + "/transcribe"
	if languageCode != "" {
		url += "?language=" + languageCode
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/octet-stream")

	resp, err := b.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("whisper returned status %d", resp.StatusCode)
	}

	var result struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("whisper response was not valid JSON: %w", err)
	}
	return result.Text, nil
}

// LLMTranslationBackend translates via the chat completions client.
type LLMTranslationBackend struct {
	llm *nlp.LLMClient
}

func NewLLMTranslationBackend(llm *nlp.LLMClient) *LLMTranslationBackend {
	return &LLMTranslationBackend{llm: llm}
}

func (b *LLMTranslationBackend) Translate(ctx context.Context, text, sourceLanguage, targetLanguage string) (string, error) {
	if sourceLanguage == "" {
		sourceLanguage = "the source language"
	}
	prompt := fmt.Sprintf("Translate the following clinical transcript from %s to %s. Respond with the translation only, no explanations.\n\n%s", sourceLanguage, targetLanguage, text)
	out, err := b.llm.Complete(ctx, prompt)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}
