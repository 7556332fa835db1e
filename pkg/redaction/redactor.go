package redaction

import (
	"regexp"
)

type compiledRule struct {
	rule Rule
	re   *regexp.Regexp
}

// Redactor masks direct identifiers (SSN, DOB, phone, email) in free text
// before it reaches logs or leaves the documentation path.
type Redactor struct {
	rules []compiledRule
}

func NewRedactor(cfg RulesConfig) (*Redactor, error) {
	var compiled []compiledRule
	for _, rule := range cfg.Rules {
		if !rule.Enabled {
			continue
		}
		re, err := regexp.Compile(rule.Pattern)
		if err != nil {
			return nil, err
		}
		compiled = append(compiled, compiledRule{rule: rule, re: re})
	}
	return &Redactor{rules: compiled}, nil
}

// Finding reports one matched identifier span.
type Finding struct {
	Start int    `json:"start"`
	End   int    `json:"end"`
	Type  string `json:"type"`
	Value string `json:"value"`
}

func (r *Redactor) Scan(text string) []Finding {
	if r == nil {
		return nil
	}
	var findings []Finding
	for _, rule := range r.rules {
		for _, match := range rule.re.FindAllStringIndex(text, -1) {
			findings = append(findings, Finding{
				Start: match[0],
				End:   match[1],
				Type:  rule.rule.Type,
				Value: text[match[0]:match[1]],
			})
		}
	}
	return findings
}

func (r *Redactor) Redact(text string) string {
	if r == nil {
		return text
	}
	masked := text
	for _, rule := range r.rules {
		masked = rule.re.ReplaceAllString(masked, rule.rule.Mask)
	}
	return masked
}

// RedactMap masks string values in a nested payload, returning a copy. Used
// on audit extras so identifiers never land in the audit trail.
func (r *Redactor) RedactMap(data map[string]interface{}) map[string]interface{} {
	if r == nil || data == nil {
		return data
	}
	out := make(map[string]interface{}, len(data))
	for key, value := range data {
		out[key] = r.redactValue(value)
	}
	return out
}

func (r *Redactor) redactValue(value interface{}) interface{} {
	switch v := value.(type) {
	case string:
		return r.Redact(v)
	case map[string]interface{}:
		return r.RedactMap(v)
	case []interface{}:
		out := make([]interface{}, len(v))
		for i, nested := range v {
			out[i] = r.redactValue(nested)
		}
		return out
	default:
		return value
	}
}
