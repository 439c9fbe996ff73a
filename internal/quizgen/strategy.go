package quizgen

import (
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/abhisek/textquiz/internal/nlp"
)

// PhraseStrategy picks one phrase from an annotated sentence. Strategies
// are chained: the first one that returns ok wins.
type PhraseStrategy interface {
	// Name returns a short identifier for logging, e.g. "first-entity".
	Name() string

	// Pick returns the chosen phrase, or ok=false when the sentence has
	// nothing this strategy can use.
	Pick(doc *nlp.Document) (phrase string, ok bool)
}

// pickPhrase runs strategies in order and returns the first hit along with
// the name of the strategy that produced it.
func pickPhrase(doc *nlp.Document, strategies []PhraseStrategy) (phrase, by string, ok bool) {
	for _, s := range strategies {
		if p, hit := s.Pick(doc); hit {
			return p, s.Name(), true
		}
	}
	return "", "", false
}

// FirstEntity picks the first named entity.
type FirstEntity struct{}

func (FirstEntity) Name() string { return "first-entity" }

func (FirstEntity) Pick(doc *nlp.Document) (string, bool) {
	if len(doc.Entities) == 0 {
		return "", false
	}
	text := strings.TrimSpace(doc.Entities[0].Text)
	return text, text != ""
}

// LongestNounChunk picks the longest noun chunk by character count; the
// earliest chunk wins ties.
type LongestNounChunk struct{}

func (LongestNounChunk) Name() string { return "longest-noun-chunk" }

func (LongestNounChunk) Pick(doc *nlp.Document) (string, bool) {
	chunks := make([]string, 0, len(doc.NounChunks))
	for _, c := range doc.NounChunks {
		chunks = append(chunks, strings.TrimSpace(c.Text))
	}
	slices.SortStableFunc(chunks, func(a, b string) int {
		return utf8.RuneCountInString(b) - utf8.RuneCountInString(a)
	})
	if len(chunks) == 0 || chunks[0] == "" {
		return "", false
	}
	return chunks[0], true
}

// FirstNounChunk picks the first noun chunk in sentence order.
type FirstNounChunk struct{}

func (FirstNounChunk) Name() string { return "first-noun-chunk" }

func (FirstNounChunk) Pick(doc *nlp.Document) (string, bool) {
	if len(doc.NounChunks) == 0 {
		return "", false
	}
	text := strings.TrimSpace(doc.NounChunks[0].Text)
	return text, text != ""
}

// FirstNoun picks the surface text of the first common or proper noun.
type FirstNoun struct{}

func (FirstNoun) Name() string { return "first-noun" }

func (FirstNoun) Pick(doc *nlp.Document) (string, bool) {
	for _, tok := range doc.Tokens {
		if tok.POS.IsNoun() && tok.Text != "" {
			return tok.Text, true
		}
	}
	return "", false
}
