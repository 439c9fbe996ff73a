package quizgen

import (
	"context"
	"strings"

	"github.com/abhisek/textquiz/internal/nlp"
)

// makeMCQ builds a fill-in-the-blank question from sentence. It returns nil
// without error when the sentence cannot carry a meaningful question.
func (g *Generator) makeMCQ(ctx context.Context, sentence string, sdoc *nlp.Document, state DocumentState) (*MCQ, error) {
	answer, by, ok := pickPhrase(sdoc, g.cfg.AnswerStrategies)
	if !ok || leadsSentence(answer, sentence) {
		return nil, nil
	}
	if !strings.Contains(sentence, answer) {
		return nil, nil
	}
	g.logger.Debug("mcq: answer %q from %s", answer, by)

	stem := strings.Replace(sentence, answer, g.cfg.Blank, 1)

	distractors, err := g.synth.Distractors(ctx, answer, state, g.cfg.MCQDistractors)
	if err != nil {
		return nil, err
	}

	set := newOrderedSet()
	for _, opt := range append([]string{answer}, distractors...) {
		opt = strings.TrimSpace(opt)
		if opt != "" {
			set.add(opt)
		}
	}
	options := set.items
	if len(options) < 2 {
		return nil, nil
	}

	g.rng.Shuffle(len(options), func(i, j int) {
		options[i], options[j] = options[j], options[i]
	})

	return &MCQ{Stem: stem, Options: options, Answer: answer}, nil
}

// leadsSentence reports whether answer, case-insensitively, is one of the
// first two whitespace tokens of sentence.
func leadsSentence(answer, sentence string) bool {
	words := strings.Fields(strings.ToLower(sentence))
	if len(words) > 2 {
		words = words[:2]
	}
	a := strings.ToLower(answer)
	for _, w := range words {
		if w == a {
			return true
		}
	}
	return false
}
