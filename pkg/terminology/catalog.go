package terminology

import (
	"fmt"
	"io/ioutil"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

type Concept struct {
	Display  string `yaml:"display" json:"display"`
	ICD10    string `yaml:"icd10" json:"icd10"`
	SNOMED   string `yaml:"snomed" json:"snomed"`
	Category string `yaml:"category" json:"category"`
}

// Catalog maps lowercase concept names to coded concepts. The demo coding
// backend uses it to assign codes without any external terminology service.
type Catalog struct {
	Concepts map[string]Concept `yaml:"concepts" json:"concepts"`
}

func Load(path string) (Catalog, error) {
	if path == "" {
		return DefaultCatalog(), nil
	}
	content, err := ioutil.ReadFile(filepath.Clean(path))
	if err != nil {
		return DefaultCatalog(), err
	}
	var cat Catalog
	if err := yaml.Unmarshal(content, &cat); err != nil {
		return Catalog{}, err
	}
	if len(cat.Concepts) == 0 {
		return Catalog{}, fmt.Errorf("terminology catalog empty")
	}
	return cat, nil
}

func (c Catalog) Lookup(key string) (Concept, bool) {
	if c.Concepts == nil {
		return Concept{}, false
	}
	concept, ok := c.Concepts[strings.ToLower(key)]
	if ok {
		return concept, true
	}
	for k, v := range c.Concepts {
		if strings.EqualFold(k, key) {
			return v, true
		}
	}
	return Concept{}, false
}

func DefaultCatalog() Catalog {
	return Catalog{Concepts: map[string]Concept{
		"diabetes": {
			Display:  "Type 2 diabetes mellitus",
			ICD10:    "E11",
			SNOMED:   "44054006",
			Category: "diagnosis",
		},
		"hypertension": {
			Display:  "Essential hypertension",
			ICD10:    "I10",
			SNOMED:   "59621000",
			Category: "diagnosis",
		},
		"fever": {
			Display:  "Fever, unspecified",
			ICD10:    "R50.9",
			SNOMED:   "386661006",
			Category: "symptom",
		},
	}}
}
