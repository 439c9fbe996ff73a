package quizgen

import (
	"cmp"
	"slices"
	"strings"

	"github.com/abhisek/textquiz/internal/nlp"
)

// Preprocess derives the DocumentState from an annotated document. It is a
// pure function of doc and cfg.
func Preprocess(doc *nlp.Document, cfg Config) DocumentState {
	state := DocumentState{
		Sentences:  make([]string, 0, len(doc.Sentences)),
		NounChunks: make([]string, 0, len(doc.NounChunks)),
	}

	for _, s := range doc.Sentences {
		text := strings.TrimSpace(s.Text)
		if len(strings.Fields(text)) > cfg.MinSentenceWords {
			state.Sentences = append(state.Sentences, text)
		}
	}

	for _, c := range doc.NounChunks {
		state.NounChunks = append(state.NounChunks, c.Text)
	}

	state.Keywords = rankKeywords(doc.Tokens, cfg.MaxKeywords)
	return state
}

type keywordCount struct {
	lemma string
	count int
}

// rankKeywords counts lowercase lemmas of alphabetic, non-stopword nouns and
// returns the top max, most frequent first, ties by first occurrence.
func rankKeywords(tokens []nlp.Token, max int) []string {
	index := make(map[string]int)
	var counts []keywordCount

	for _, tok := range tokens {
		if !tok.IsAlpha || tok.IsStop || !tok.POS.IsNoun() {
			continue
		}
		lemma := strings.ToLower(tok.Lemma)
		if lemma == "" {
			continue
		}
		if i, ok := index[lemma]; ok {
			counts[i].count++
			continue
		}
		index[lemma] = len(counts)
		counts = append(counts, keywordCount{lemma: lemma, count: 1})
	}

	slices.SortStableFunc(counts, func(a, b keywordCount) int {
		return cmp.Compare(b.count, a.count)
	})

	if max >= 0 && len(counts) > max {
		counts = counts[:max]
	}

	keywords := make([]string, len(counts))
	for i, kc := range counts {
		keywords[i] = kc.lemma
	}
	return keywords
}
