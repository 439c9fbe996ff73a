package quizgen

import (
	"context"
	"strings"

	"github.com/abhisek/textquiz/internal/nlp"
)

// DistractorSource proposes document-derived wrong answers for a phrase.
type DistractorSource interface {
	// Candidates returns eligible candidates in preference order.
	Candidates(answer string, state DocumentState) []string
}

// KeywordSource offers ranked keywords not contained in the answer.
type KeywordSource struct{}

func (KeywordSource) Candidates(answer string, state DocumentState) []string {
	return notContainedIn(answer, state.Keywords)
}

// NounChunkSource offers document noun chunks not contained in the answer.
type NounChunkSource struct{}

func (NounChunkSource) Candidates(answer string, state DocumentState) []string {
	return notContainedIn(answer, state.NounChunks)
}

// notContainedIn keeps the items that are not a case-insensitive substring
// of answer.
func notContainedIn(answer string, items []string) []string {
	lower := strings.ToLower(answer)
	var out []string
	for _, it := range items {
		if strings.TrimSpace(it) == "" {
			continue
		}
		if !strings.Contains(lower, strings.ToLower(it)) {
			out = append(out, it)
		}
	}
	return out
}

// Synthesizer produces plausible wrong answers, preferring the lexicon's
// synonyms and hypernyms and falling back to document-derived sources.
type Synthesizer struct {
	lexicon   nlp.Lexicon
	category  nlp.Category
	fallbacks []DistractorSource
}

// NewSynthesizer creates a Synthesizer over lexicon with the given ordered
// fallback sources.
func NewSynthesizer(lexicon nlp.Lexicon, category nlp.Category, fallbacks []DistractorSource) *Synthesizer {
	if lexicon == nil {
		lexicon = nlp.EmptyLexicon{}
	}
	return &Synthesizer{lexicon: lexicon, category: category, fallbacks: fallbacks}
}

// Synthesize looks word up in the lexicon and returns up to count distinct
// synonyms and hypernyms, never word itself. Underscores become spaces.
func (s *Synthesizer) Synthesize(ctx context.Context, word string, count int) ([]string, error) {
	senses, err := s.lexicon.LookupSenses(ctx, word, s.category)
	if err != nil {
		return nil, &AnnotationError{Stage: "lexicon", Err: err}
	}

	set := newOrderedSet()
	add := func(name string) {
		name = strings.ReplaceAll(name, "_", " ")
		if strings.TrimSpace(name) == "" || strings.EqualFold(name, word) {
			return
		}
		set.add(name)
	}
	for _, sense := range senses {
		for _, m := range sense.Members {
			add(m)
		}
		for _, h := range sense.Hypernyms {
			add(h)
		}
	}

	return truncate(set.items, count), nil
}

// Distractors returns up to count wrong answers for answer. The first
// whitespace token of answer is the lexicon key. When the lexicon yields
// fewer than count, fallback sources fill in; the merged list is
// deduplicated in first-seen order. An empty result means no distractors
// are available.
func (s *Synthesizer) Distractors(ctx context.Context, answer string, state DocumentState, count int) ([]string, error) {
	fields := strings.Fields(answer)
	if len(fields) == 0 || count <= 0 {
		return nil, nil
	}
	key := strings.ToLower(fields[0])

	primary, err := s.Synthesize(ctx, key, count)
	if err != nil {
		return nil, err
	}
	if len(primary) >= count {
		return primary, nil
	}

	fallback := newOrderedSet()
	for _, src := range s.fallbacks {
		for _, c := range src.Candidates(answer, state) {
			if len(fallback.items) >= count {
				break
			}
			fallback.add(c)
		}
	}

	merged := newOrderedSet()
	for _, c := range append(primary, fallback.items...) {
		if strings.EqualFold(c, key) || strings.EqualFold(strings.TrimSpace(c), strings.TrimSpace(answer)) {
			continue
		}
		merged.add(c)
	}
	return truncate(merged.items, count), nil
}

type orderedSet struct {
	seen  map[string]struct{}
	items []string
}

func newOrderedSet() *orderedSet {
	return &orderedSet{seen: make(map[string]struct{})}
}

func (s *orderedSet) add(v string) {
	if _, ok := s.seen[v]; ok {
		return
	}
	s.seen[v] = struct{}{}
	s.items = append(s.items, v)
}

func truncate(items []string, n int) []string {
	if n >= 0 && len(items) > n {
		return items[:n]
	}
	return items
}
