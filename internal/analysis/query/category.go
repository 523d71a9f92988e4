// Package query infers a coarse topic from the user's own question. The topic only picks
// the placeholder shown when a reply had to be suppressed, so it never looks at the reply.
package query

import "strings"

// Category is the coarse topic of a user question.
type Category string

const (
	Employee     Category = "employee"
	Policy       Category = "policy"
	Organization Category = "organization"
	Default      Category = "default"
)

// rules are evaluated top to bottom; the first bucket with a hit wins.
var rules = []struct {
	category Category
	keywords []string
}{
	{Policy, []string{"policy"}},
	{Employee, []string{"employee", "department"}},
	{Organization, []string{"organization", "company"}},
}

var fallbacks = map[Category]string{
	Employee:     "I'm currently processing your employee-related question. Our system is analyzing the employee database to provide you with accurate information.",
	Policy:       "I'm reviewing the company policies to answer your question. Please bear with me as I search through our policy documents.",
	Organization: "I'm gathering organizational information to provide you with comprehensive details about the company structure.",
	Default:      "I'm processing your question and searching through our company data. Please wait while I compile the most relevant information for you.",
}

// Infer maps the user's outgoing text to a Category.
func Infer(text string) Category {
	normalized := strings.ToLower(text)
	for _, rule := range rules {
		for _, word := range rule.keywords {
			if strings.Contains(normalized, word) {
				return rule.category
			}
		}
	}
	return Default
}

// ParseCategory accepts any casing; unknown names map to Default.
func ParseCategory(raw string) Category {
	c := Category(strings.ToLower(strings.TrimSpace(raw)))
	if _, ok := fallbacks[c]; ok {
		return c
	}
	return Default
}

// Fallback returns the user-safe placeholder for c. It is total: values outside the
// known set get the Default text.
func Fallback(c Category) string {
	if msg, ok := fallbacks[ParseCategory(string(c))]; ok {
		return msg
	}
	return fallbacks[Default]
}
