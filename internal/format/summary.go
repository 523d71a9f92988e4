package format

import (
	"regexp"
	"strings"
)

// Summary flags coarse traits of a formatted reply.
type Summary struct {
	HasNumbers      bool `json:"hasNumbers"`
	HasList         bool `json:"hasList"`
	HasPolicy       bool `json:"hasPolicy"`
	HasEmployeeInfo bool `json:"hasEmployeeInfo"`
}

var (
	digitsRegex       = regexp.MustCompile(`\d+`)
	listLineRegex     = regexp.MustCompile(`(?m)^(?:[•*-]|\d+\.?)\s`)
	policyTermsRegex  = regexp.MustCompile(`(?i)policy|procedure|guideline`)
	peopleTermsRegex  = regexp.MustCompile(`(?i)employee|department|project`)
	employeeLineRegex = regexp.MustCompile(`Employee\s+([^(]+?)\s*\(ID:\s*([^)]+)\)`)
	policyLineRegex   = regexp.MustCompile(`Policy:\s*([^-]+?)\s*-`)
	projectLineRegex  = regexp.MustCompile(`Project\s+([^:]+):`)
)

// Summarize reports which kinds of content a reply carries.
func Summarize(text string) Summary {
	return Summary{
		HasNumbers:      digitsRegex.MatchString(text),
		HasList:         listLineRegex.MatchString(text),
		HasPolicy:       policyTermsRegex.MatchString(text),
		HasEmployeeInfo: peopleTermsRegex.MatchString(text),
	}
}

// Decorate prefixes well-known entity mentions with the callout glyphs the renderer
// highlights. Unknown query types leave the text untouched.
func Decorate(text, queryType string) string {
	switch strings.ToLower(strings.TrimSpace(queryType)) {
	case "employee", "department":
		return employeeLineRegex.ReplaceAllString(text, "👤 **$1** (ID: $2)")
	case "policy":
		return policyLineRegex.ReplaceAllString(text, "📋 **Policy:** $1 -")
	case "project":
		return projectLineRegex.ReplaceAllString(text, "📊 **Project $1:**")
	default:
		return text
	}
}
