package nlp

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadLexiconFile reads a YAML lexicon of the form
//
//	paris:
//	  - members: [Paris, City of Light]
//	    hypernyms: [national capital]
//
// Keys are matched case-insensitively.
func LoadLexiconFile(path string) (StaticLexicon, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read lexicon: %w", err)
	}
	return ParseLexicon(data)
}

// ParseLexicon decodes YAML lexicon bytes, rejecting unknown fields.
func ParseLexicon(data []byte) (StaticLexicon, error) {
	var raw map[string][]Sense
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&raw); err != nil {
		return nil, fmt.Errorf("parse lexicon yaml: %w", err)
	}

	lex := make(StaticLexicon, len(raw))
	for word, senses := range raw {
		key := strings.ToLower(strings.TrimSpace(word))
		if key == "" {
			return nil, fmt.Errorf("parse lexicon yaml: empty headword")
		}
		lex[key] = append(lex[key], senses...)
	}
	return lex, nil
}
