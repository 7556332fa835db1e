package nlp

import (
	"strings"

	"github.com/clinscribe-ai/platform/pkg/common/config"
	"github.com/clinscribe-ai/platform/pkg/common/logger"
	"github.com/clinscribe-ai/platform/pkg/terminology"
)

// Registry resolves NER, coding, and SOAP backends from configuration keys.
// Unknown or unset keys resolve to deterministic, dependency-free defaults so
// the pipeline is always runnable offline. Backends needing an external
// model/service fail at first use, never at registry construction.
type Registry struct {
	ner    NERBackend
	coding CodingBackend
	soap   SOAPBackend
}

func NewRegistry(cfg *config.Config, catalog terminology.Catalog) *Registry {
	r := &Registry{}

	if !strings.EqualFold(cfg.NERBackend, "demo") {
		logger.Log.WithField("backend", cfg.NERBackend).Warn("Unknown NER backend, using demo")
	}
	r.ner = DemoNERBackend{}

	switch strings.ToLower(cfg.CodingBackend) {
	case "umls", "umlscoder":
		r.coding = NewUMLSCodingBackend(cfg.UMLSConceptsPath, cfg.UMLSMinSimilarity)
	default:
		if !strings.EqualFold(cfg.CodingBackend, "demo") {
			logger.Log.WithField("backend", cfg.CodingBackend).Warn("Unknown coding backend, using demo")
		}
		r.coding = NewDemoCodingBackend(catalog)
	}

	switch strings.ToLower(cfg.SOAPBackend) {
	case "llm":
		r.soap = NewLLMSOAPBackend(NewLLMClient(cfg.LLMAPIKey, cfg.LLMBaseURL, cfg.LLMModelName))
	default:
		if !strings.EqualFold(cfg.SOAPBackend, "demo") {
			logger.Log.WithField("backend", cfg.SOAPBackend).Warn("Unknown SOAP backend, using demo")
		}
		r.soap = DemoSOAPBackend{}
	}

	return r
}

func (r *Registry) NER() NERBackend       { return r.ner }
func (r *Registry) Coding() CodingBackend { return r.coding }
func (r *Registry) SOAP() SOAPBackend     { return r.soap }
