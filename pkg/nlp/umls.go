package nlp

import (
	"bufio"
	"context"
	"encoding/json"
	"os"
	"strings"
	"sync"

	"github.com/clinscribe-ai/platform/pkg/common/errs"
	"github.com/clinscribe-ai/platform/pkg/common/models"
)

type umlsConcept struct {
	Name   string
	Code   string
	System string
}

// UMLSCodingBackend assigns codes from a local UMLS-style concepts file (JSON
// array or JSONL) using fuzzy string matching. Concepts are loaded lazily on
// first use so an unconfigured backend never blocks startup.
type UMLSCodingBackend struct {
	path          string
	minSimilarity float64

	once     sync.Once
	concepts []umlsConcept
	loadErr  error
}

func NewUMLSCodingBackend(path string, minSimilarity float64) *UMLSCodingBackend {
	return &UMLSCodingBackend{path: path, minSimilarity: minSimilarity}
}

func (b *UMLSCodingBackend) load() error {
	b.once.Do(func() {
		if b.path == "" {
			b.loadErr = errs.NewMisconfig("umls-coding", "UMLS_CONCEPTS_PATH must point to a JSON or JSONL concepts file")
			return
		}
		file, err := os.Open(b.path)
		if err != nil {
			b.loadErr = errs.NewMisconfig("umls-coding", "concepts file "+b.path+" is not readable: "+err.Error())
			return
		}
		defer file.Close()

		reader := bufio.NewReader(file)
		first, err := reader.Peek(1)
		if err != nil {
			b.loadErr = errs.NewMisconfig("umls-coding", "concepts file "+b.path+" is empty")
			return
		}

		var raw []map[string]interface{}
		if first[0] == '[' {
			if err := json.NewDecoder(reader).Decode(&raw); err != nil {
				b.loadErr = errs.NewMisconfig("umls-coding", "concepts file is not valid JSON: "+err.Error())
				return
			}
		} else {
			scanner := bufio.NewScanner(reader)
			for scanner.Scan() {
				line := strings.TrimSpace(scanner.Text())
				if line == "" {
					continue
				}
				var obj map[string]interface{}
				if err := json.Unmarshal([]byte(line), &obj); err != nil {
					continue
				}
				raw = append(raw, obj)
			}
		}

		for _, obj := range raw {
			name := stringField(obj, "name", "description")
			if name == "" {
				continue
			}
			b.concepts = append(b.concepts, umlsConcept{
				Name:   name,
				Code:   stringField(obj, "code", "cui"),
				System: stringField(obj, "system", "codingSystem"),
			})
		}
		if len(b.concepts) == 0 {
			b.loadErr = errs.NewMisconfig("umls-coding", "no concepts loaded from "+b.path+"; check the file format")
		}
	})
	return b.loadErr
}

func (b *UMLSCodingBackend) Code(_ context.Context, entities models.ClinicalEntities) (models.ClinicalEntities, error) {
	if err := b.load(); err != nil {
		return models.ClinicalEntities{}, err
	}

	assign := func(bucket []models.ClinicalEntity) {
		for i := range bucket {
			if bucket[i].Code != "" || bucket[i].Text == "" {
				continue
			}
			if match, score := b.bestMatch(bucket[i].Text); match != nil && score >= b.minSimilarity {
				bucket[i].Code = match.Code
			}
		}
	}
	assign(entities.Diagnoses)
	assign(entities.Symptoms)
	assign(entities.Medications)
	return entities, nil
}

func (b *UMLSCodingBackend) bestMatch(text string) (*umlsConcept, float64) {
	var best *umlsConcept
	bestScore := 0.0
	source := strings.ToLower(text)
	for i := range b.concepts {
		score := bigramSimilarity(source, strings.ToLower(b.concepts[i].Name))
		if score > bestScore {
			bestScore = score
			best = &b.concepts[i]
		}
	}
	return best, bestScore
}

// bigramSimilarity is the Sorensen-Dice coefficient over character bigrams.
func bigramSimilarity(a, b string) float64 {
	if a == b {
		return 1
	}
	if len(a) < 2 || len(b) < 2 {
		return 0
	}
	counts := make(map[string]int)
	for i := 0; i < len(a)-1; i++ {
		counts[a[i:i+2]]++
	}
	overlap := 0
	for i := 0; i < len(b)-1; i++ {
		if counts[b[i:i+2]] > 0 {
			counts[b[i:i+2]]--
			overlap++
		}
	}
	return 2 * float64(overlap) / float64(len(a)+len(b)-2)
}

func stringField(obj map[string]interface{}, keys ...string) string {
	for _, key := range keys {
		if value, ok := obj[key].(string); ok && value != "" {
			return value
		}
	}
	return ""
}
