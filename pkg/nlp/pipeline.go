package nlp

import (
	"context"
	"fmt"
	"time"

	"github.com/clinscribe-ai/platform/pkg/common/models"
	"github.com/clinscribe-ai/platform/pkg/consent"
	"github.com/clinscribe-ai/platform/pkg/culture"
)

// Pipeline sequences consent evaluation, phrase normalization, NER, coding,
// and SOAP generation into one call. A failure in any stage fails the whole
// call; partial results are never returned as if complete.
type Pipeline struct {
	registry *Registry
	chain    *culture.Chain
	timeout  time.Duration
}

func NewPipeline(registry *Registry, chain *culture.Chain, backendTimeout time.Duration) *Pipeline {
	return &Pipeline{registry: registry, chain: chain, timeout: backendTimeout}
}

// Result carries the pipeline output. OriginalText is always preserved so
// callers can recover the pre-normalization transcript.
type Result struct {
	OriginalText   string                   `json:"original_text"`
	NormalizedText string                   `json:"normalized_text"`
	Entities       models.ClinicalEntities  `json:"entities"`
	SOAP           models.SOAPNote          `json:"soap_note"`
	Consent        consent.Context          `json:"consent"`
}

func (p *Pipeline) Process(ctx context.Context, transcript, tenantID string, patientMetadata map[string]interface{}) (*Result, error) {
	consentCtx := consent.Evaluate(ctx, tenantID, patientMetadata)

	text := transcript
	if consentCtx.CulturalAIAllowed {
		text = p.chain.Normalize(text, consentCtx)
	}

	var entities models.ClinicalEntities
	err := p.withTimeout(ctx, func(callCtx context.Context) error {
		var err error
		entities, err = p.registry.NER().Extract(callCtx, text)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("ner stage: %w", err)
	}

	err = p.withTimeout(ctx, func(callCtx context.Context) error {
		var err error
		entities, err = p.registry.Coding().Code(callCtx, entities)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("coding stage: %w", err)
	}

	var soap models.SOAPNote
	err = p.withTimeout(ctx, func(callCtx context.Context) error {
		var err error
		soap, err = p.registry.SOAP().Generate(callCtx, text, entities)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("soap stage: %w", err)
	}

	return &Result{
		OriginalText:   transcript,
		NormalizedText: text,
		Entities:       entities,
		SOAP:           soap,
		Consent:        consentCtx,
	}, nil
}

// withTimeout bounds a single backend call so a hung backend cannot block the
// request indefinitely.
func (p *Pipeline) withTimeout(ctx context.Context, call func(context.Context) error) error {
	if p.timeout <= 0 {
		return call(ctx)
	}
	callCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()
	return call(callCtx)
}
