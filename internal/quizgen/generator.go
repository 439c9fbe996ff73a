package quizgen

import (
	"context"
	"strings"

	"github.com/abhisek/textquiz/internal/logging"
	"github.com/abhisek/textquiz/internal/nlp"
)

// DefaultNumQuestions is the quiz length used when the caller has no
// preference.
const DefaultNumQuestions = 10

// Generator turns free text into quizzes. The annotator and lexicon are
// shared read-only; a Generator is safe for concurrent use as long as its
// Rand is.
type Generator struct {
	annotator nlp.Annotator
	synth     *Synthesizer
	cfg       Config
	rng       Rand
	logger    *logging.Logger
}

// Option customizes a Generator.
type Option func(*Generator)

// WithRand injects the random source. Tests use it for determinism.
func WithRand(r Rand) Option {
	return func(g *Generator) { g.rng = r }
}

// WithLogger attaches a logger for debug traces.
func WithLogger(l *logging.Logger) Option {
	return func(g *Generator) { g.logger = l }
}

// New creates a Generator. A nil lexicon behaves as an empty one.
func New(annotator nlp.Annotator, lexicon nlp.Lexicon, cfg Config, opts ...Option) *Generator {
	g := &Generator{
		annotator: annotator,
		synth:     NewSynthesizer(lexicon, cfg.Category, cfg.FallbackSources),
		cfg:       cfg,
		rng:       globalRand{},
		logger:    logging.NewDiscard(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Preprocess annotates text once and derives its DocumentState.
func (g *Generator) Preprocess(ctx context.Context, text string) (DocumentState, error) {
	doc, err := g.annotator.Annotate(ctx, text)
	if err != nil {
		return DocumentState{}, &AnnotationError{Stage: "document", Err: err}
	}
	return Preprocess(doc, g.cfg), nil
}

// Distractors exposes the synthesizer for a single answer phrase.
func (g *Generator) Distractors(ctx context.Context, answer string, state DocumentState, count int) ([]string, error) {
	return g.synth.Distractors(ctx, answer, state, count)
}

// CreateQuiz generates at most numQuestions distinct questions from text.
// A text without usable sentences yields an empty quiz, not an error. Only
// annotator or lexicon failures are returned.
func (g *Generator) CreateQuiz(ctx context.Context, text string, numQuestions int) (Quiz, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyText
	}

	state, err := g.Preprocess(ctx, text)
	if err != nil {
		return nil, err
	}

	var candidates []Question
	annotated := make(map[string]*nlp.Document)
	for _, sentence := range state.Sentences {
		sdoc, ok := annotated[sentence]
		if !ok {
			sdoc, err = g.annotator.Annotate(ctx, sentence)
			if err != nil {
				return nil, &AnnotationError{Stage: "sentence", Err: err}
			}
			annotated[sentence] = sdoc
		}

		mcq, err := g.makeMCQ(ctx, sentence, sdoc, state)
		if err != nil {
			return nil, err
		}
		if mcq != nil {
			candidates = append(candidates, Question{MCQ: mcq})
		}

		if g.rng.Float64() < g.cfg.TFAttemptProbability {
			tf, err := g.makeTF(ctx, sentence, sdoc, state)
			if err != nil {
				return nil, err
			}
			candidates = append(candidates, Question{TF: tf})
		}
	}

	g.rng.Shuffle(len(candidates), func(i, j int) {
		candidates[i], candidates[j] = candidates[j], candidates[i]
	})

	quiz := selectDistinct(candidates, numQuestions)

	g.logger.Debug("quiz: sentences=%d candidates=%d kept=%d requested=%d",
		len(state.Sentences), len(candidates), len(quiz), numQuestions)

	return quiz, nil
}

// selectDistinct walks candidates in order, keeping those whose trimmed,
// lowercased text was not kept before, until max are kept.
func selectDistinct(candidates []Question, max int) Quiz {
	quiz := Quiz{}
	seen := make(map[string]struct{})
	for _, q := range candidates {
		if len(quiz) >= max {
			break
		}
		key := normalizeText(q.Text())
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		quiz = append(quiz, q)
	}
	return quiz
}

func normalizeText(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
