package quizgen

import (
	"context"
	"strings"

	"github.com/abhisek/textquiz/internal/nlp"
)

// makeTF builds a true/false statement from sentence. When falsification
// is impossible it degrades to the verbatim sentence as a true statement.
func (g *Generator) makeTF(ctx context.Context, sentence string, sdoc *nlp.Document, state DocumentState) (*TrueFalse, error) {
	verbatim := &TrueFalse{Statement: sentence, Truth: true}

	if g.rng.Float64() < g.cfg.FalseProbability {
		return verbatim, nil
	}

	target, by, ok := pickPhrase(sdoc, g.cfg.SwapStrategies)
	if !ok || !strings.Contains(sentence, target) {
		return verbatim, nil
	}
	g.logger.Debug("tf: swap target %q from %s", target, by)

	distractors, err := g.synth.Distractors(ctx, target, state, g.cfg.TFDistractors)
	if err != nil {
		return nil, err
	}
	if len(distractors) == 0 {
		return verbatim, nil
	}

	replacement := distractors[g.rng.IntN(len(distractors))]
	return &TrueFalse{
		Statement: strings.Replace(sentence, target, replacement, 1),
		Truth:     false,
	}, nil
}
