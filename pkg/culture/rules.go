package culture

import (
	"errors"
	"io/ioutil"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Rule maps a culturally-specific idiom to explicit clinical phrasing. Only
// exact (case-insensitive) matches are rewritten; there is no stemming or
// fuzzy matching, to avoid unintended semantic drift.
type Rule struct {
	Phrase      string `yaml:"phrase" json:"phrase"`
	Replacement string `yaml:"replacement" json:"replacement"`
}

type RuleSet struct {
	Name  string `yaml:"name" json:"name"`
	Rules []Rule `yaml:"rules" json:"rules"`
}

type RulesConfig struct {
	Sets []RuleSet `yaml:"sets" json:"sets"`
}

// LoadRules reads normalizer rule sets from a YAML file, falling back to the
// built-in defaults when no path is configured.
func LoadRules(path string) (RulesConfig, error) {
	if path == "" {
		return DefaultRules(), nil
	}
	content, err := ioutil.ReadFile(filepath.Clean(path))
	if err != nil {
		return DefaultRules(), err
	}

	var cfg RulesConfig
	if err := yaml.Unmarshal(content, &cfg); err != nil {
		return RulesConfig{}, err
	}
	if len(cfg.Sets) == 0 {
		return RulesConfig{}, errors.New("no normalizer rule sets configured")
	}
	return cfg, nil
}

// DefaultRules carries a deliberately small, conservative idiom table. In a
// real deployment these are curated per community/tenant and loaded from
// configuration.
func DefaultRules() RulesConfig {
	return RulesConfig{Sets: []RuleSet{
		{
			Name: "cultural",
			Rules: []Rule{
				{Phrase: "my blood is hot", Replacement: "my body feels hot, like I have a fever"},
				{Phrase: "my spirit is tired", Replacement: "I feel very tired and low in mood"},
				{Phrase: "the child is not active", Replacement: "the child is less active and less playful than usual"},
				{Phrase: "the sun is burning my blood", Replacement: "I feel extremely hot, like the sun is overheating my body"},
			},
		},
		{
			Name: "indigenous",
			Rules: []Rule{
				{Phrase: "my ancestors are calling", Replacement: "I feel a strong spiritual pull and emotional distress from my ancestors"},
			},
		},
	}}
}
