package culture

import (
	"regexp"

	"github.com/clinscribe-ai/platform/pkg/consent"
)

type compiledRule struct {
	re          *regexp.Regexp
	replacement string
}

// Normalizer rewrites idiomatic phrasing into explicit clinical phrasing. The
// goal is not to erase cultural language but to surface implicit clinical
// meaning for downstream models; callers keep the original transcript.
type Normalizer struct {
	name  string
	rules []compiledRule
}

func NewNormalizer(set RuleSet) *Normalizer {
	n := &Normalizer{name: set.Name}
	for _, rule := range set.Rules {
		if rule.Phrase == "" {
			continue
		}
		re := regexp.MustCompile("(?i)" + regexp.QuoteMeta(rule.Phrase))
		n.rules = append(n.rules, compiledRule{re: re, replacement: rule.Replacement})
	}
	return n
}

func (n *Normalizer) Name() string { return n.name }

// Normalize applies the rule set to text. When cultural AI features are not
// allowed by the consent context, the input is returned unchanged.
func (n *Normalizer) Normalize(text string, ctx consent.Context) string {
	if text == "" || !ctx.CulturalAIAllowed {
		return text
	}
	normalized := text
	for _, rule := range n.rules {
		normalized = rule.re.ReplaceAllString(normalized, rule.replacement)
	}
	return normalized
}

// Chain composes normalizers in registration order. Non-matching text is
// never removed or reordered.
type Chain struct {
	normalizers []*Normalizer
}

func NewChain(cfg RulesConfig) *Chain {
	chain := &Chain{}
	for _, set := range cfg.Sets {
		chain.normalizers = append(chain.normalizers, NewNormalizer(set))
	}
	return chain
}

func (c *Chain) Normalize(text string, ctx consent.Context) string {
	for _, n := range c.normalizers {
		text = n.Normalize(text, ctx)
	}
	return text
}
