// Package debug detects internal tool and orchestration traces that leaked into a
// backend reply instead of a clean answer.
package debug

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// Signature is one known leakage pattern.
type Signature struct {
	Name    string
	Pattern *regexp.Regexp
}

// Classifier matches replies against an ordered signature set. It is read-only after
// construction and safe for concurrent use.
type Classifier struct {
	signatures []Signature
}

// defaultPatterns lists the leakage observed from the multi-agent backend so far.
var defaultPatterns = []struct {
	name    string
	pattern string
}{
	{"tool-execution", `Tool\s+execution`},
	{"json-search-tool", `JSONSearchTool`},
	{"pdf-search-tool", `PDFSearchTool`},
	{"csv-search-tool", `CSVSearchTool`},
	{"crewai", `CrewAI`},
	{"agent-response", `Agent\s+response:`},
	{"debug-marker", `\[DEBUG\]`},
	{"tool-error", `Error\s+in\s+tool`},
}

var defaultClassifier = NewClassifier(DefaultSignatures())

// DefaultSignatures returns a fresh copy of the built-in signature set.
func DefaultSignatures() []Signature {
	sigs := make([]Signature, 0, len(defaultPatterns))
	for _, p := range defaultPatterns {
		sigs = append(sigs, Signature{Name: p.name, Pattern: regexp.MustCompile("(?i)" + p.pattern)})
	}
	return sigs
}

// Compile builds a case-insensitive signature from a raw pattern.
func Compile(name, pattern string) (Signature, error) {
	if strings.TrimSpace(pattern) == "" {
		return Signature{}, fmt.Errorf("signature %q: empty pattern", name)
	}
	re, err := regexp.Compile("(?i)" + pattern)
	if err != nil {
		return Signature{}, fmt.Errorf("signature %q: %w", name, err)
	}
	if name == "" {
		name = pattern
	}
	return Signature{Name: name, Pattern: re}, nil
}

// NewClassifier returns a classifier over sigs, checked in order. Signatures without a
// pattern are skipped.
func NewClassifier(sigs []Signature) *Classifier {
	kept := make([]Signature, 0, len(sigs))
	for _, s := range sigs {
		if s.Pattern == nil {
			continue
		}
		kept = append(kept, s)
	}
	return &Classifier{signatures: kept}
}

// Default returns the classifier built from DefaultSignatures.
func Default() *Classifier {
	return defaultClassifier
}

// Match returns the first signature found in text.
func (c *Classifier) Match(text string) (Signature, bool) {
	for _, s := range c.signatures {
		if s.Pattern.MatchString(text) {
			return s, true
		}
	}
	return Signature{}, false
}

// LooksLikeDebugOutput reports whether text matches any signature.
func (c *Classifier) LooksLikeDebugOutput(text string) bool {
	_, ok := c.Match(text)
	return ok
}

// Signatures returns a copy of the configured set.
func (c *Classifier) Signatures() []Signature {
	return append([]Signature(nil), c.signatures...)
}

// LooksLikeDebugOutput checks text against the built-in signatures.
func LooksLikeDebugOutput(text string) bool {
	return defaultClassifier.LooksLikeDebugOutput(text)
}

type signatureFile struct {
	Signatures []struct {
		Name    string `yaml:"name"`
		Pattern string `yaml:"pattern"`
	} `yaml:"signatures"`
	IncludeDefaults bool `yaml:"include_defaults"`
}

// LoadSignatures reads a YAML signature set:
//
//	include_defaults: true
//	signatures:
//	  - name: langchain
//	    pattern: 'AgentExecutor chain'
//
// With include_defaults the built-in set is checked first.
func LoadSignatures(path string) ([]Signature, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read signature file: %w", err)
	}
	return ParseSignatures(data)
}

// ParseSignatures decodes the YAML form accepted by LoadSignatures.
func ParseSignatures(data []byte) ([]Signature, error) {
	var file signatureFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse signature file: %w", err)
	}

	var sigs []Signature
	if file.IncludeDefaults {
		sigs = DefaultSignatures()
	}
	for _, entry := range file.Signatures {
		sig, err := Compile(entry.Name, entry.Pattern)
		if err != nil {
			return nil, err
		}
		sigs = append(sigs, sig)
	}
	if len(sigs) == 0 {
		return nil, fmt.Errorf("signature file defines no signatures")
	}
	return sigs, nil
}
