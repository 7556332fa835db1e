package nlp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/clinscribe-ai/platform/pkg/common/errs"
	"github.com/clinscribe-ai/platform/pkg/common/logger"
	"github.com/clinscribe-ai/platform/pkg/common/models"
)

// LLMClient calls an OpenAI-compatible chat completions endpoint.
type LLMClient struct {
	APIKey    string
	BaseURL   string
	ModelName string
	client    *http.Client
}

func NewLLMClient(apiKey, baseURL, modelName string) *LLMClient {
	return &LLMClient{
		APIKey:    apiKey,
		BaseURL:   baseURL,
		ModelName: modelName,
		client:    &http.Client{},
	}
}

func (c *LLMClient) Complete(ctx context.Context, prompt string) (string, error) {
	if c.APIKey == "" {
		return "", errs.NewMisconfig("llm", "LLM_API_KEY must be set to use LLM-backed stages")
	}

	payload := map[string]interface{}{
		"model": c.ModelName,
		"messages": []map[string]string{
			{"role": "user", "content": prompt},
		},
		"temperature": 0.3,
	}

	payloadBytes, _ := json.Marshal(payload)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/chat/completions", bytes.NewBuffer(payloadBytes))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.APIKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return "", err
	}
	if len(result.Choices) == 0 {
		return "", fmt.Errorf("no response from LLM")
	}
	return result.Choices[0].Message.Content, nil
}

// LLMSOAPBackend generates SOAP notes via an LLM. A malformed model response
// falls back to the deterministic demo generator rather than failing the
// whole pipeline.
type LLMSOAPBackend struct {
	llm      *LLMClient
	fallback DemoSOAPBackend
}

func NewLLMSOAPBackend(llm *LLMClient) *LLMSOAPBackend {
	return &LLMSOAPBackend{llm: llm}
}

func (b *LLMSOAPBackend) Generate(ctx context.Context, text string, entities models.ClinicalEntities) (models.SOAPNote, error) {
	prompt := fmt.Sprintf(`You are a clinical documentation assistant. Given the following doctor-patient transcript, generate a concise SOAP note. Respond ONLY as compact JSON with keys "subjective", "objective", "assessment", and "plan". Do not include markdown or explanations.

Transcript:
%s
`, text)

	raw, err := b.llm.Complete(ctx, prompt)
	if err != nil {
		return models.SOAPNote{}, err
	}

	var parsed struct {
		Subjective string `json:"subjective"`
		Objective  string `json:"objective"`
		Assessment string `json:"assessment"`
		Plan       string `json:"plan"`
	}
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		logger.Log.WithError(err).Warn("LLM SOAP response was not valid JSON, using deterministic fallback")
		return b.fallback.Generate(ctx, text, entities)
	}

	note, _ := b.fallback.Generate(ctx, text, entities)
	if parsed.Subjective != "" {
		note.Subjective = parsed.Subjective
	}
	if parsed.Objective != "" {
		note.Objective = parsed.Objective
	}
	if parsed.Assessment != "" {
		note.Assessment = parsed.Assessment
	}
	if parsed.Plan != "" {
		note.Plan = parsed.Plan
	}
	return note, nil
}
