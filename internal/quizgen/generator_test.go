package quizgen

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/textquiz/internal/nlp"
)

func TestCreateQuiz_ParisFallsBackToDocumentDistractors(t *testing.T) {
	ann := nlp.NewStaticAnnotator(map[string]*nlp.Document{parisSentence: parisDoc()})
	lex := nlp.StaticLexicon{
		"city": {{Members: []string{"city", "metropolis", "urban_center"}}},
	}
	rng := &seqRand{rest: 0.99}

	g := New(ann, lex, DefaultConfig(), WithRand(rng))
	quiz, err := g.CreateQuiz(context.Background(), parisSentence, 10)
	require.NoError(t, err)
	require.Len(t, quiz, 1)

	mcq := quiz[0].MCQ
	require.NotNil(t, mcq)
	assert.Equal(t, "The tourists visited ______ during the summer.", mcq.Stem)
	assert.Equal(t, "Paris", mcq.Answer)
	assert.Equal(t, []string{"Paris", "tourist", "summer", "The tourists"}, mcq.Options)
}

func TestCreateQuiz_FalseProbabilityOneKeepsStatementsTrue(t *testing.T) {
	cfg := DefaultConfig()
	cfg.FalseProbability = 1.0
	cfg.TFAttemptProbability = 1.0

	for seed := uint64(0); seed < 20; seed++ {
		g := New(solarAnnotator(), solarLexicon(), cfg, WithRand(NewRand(seed)))
		quiz, err := g.CreateQuiz(context.Background(), solarText, 10)
		require.NoError(t, err)

		var tfs int
		for _, q := range quiz {
			if q.TF == nil {
				continue
			}
			tfs++
			assert.True(t, q.TF.Truth)
			assert.Contains(t, []string{solarS1, solarS2, solarS3}, q.TF.Statement)
		}
		assert.Equal(t, 3, tfs, "seed %d", seed)
	}
}

func TestCreateQuiz_ZeroQuestions(t *testing.T) {
	g := New(solarAnnotator(), solarLexicon(), DefaultConfig(), WithRand(NewRand(1)))
	quiz, err := g.CreateQuiz(context.Background(), solarText, 0)
	require.NoError(t, err)
	assert.Empty(t, quiz)

	data, err := json.Marshal(quiz)
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(data))
}

func TestCreateQuiz_NoLongSentences(t *testing.T) {
	text := "Hello there. Short one here."
	ann := nlp.NewStaticAnnotator(map[string]*nlp.Document{
		text: {Sentences: []nlp.Span{{Text: "Hello there."}, {Text: "Short one here."}}},
	})

	g := New(ann, nil, DefaultConfig())
	quiz, err := g.CreateQuiz(context.Background(), text, 10)
	require.NoError(t, err)
	assert.Empty(t, quiz)
	assert.Equal(t, []string{text}, ann.Calls)
}

func TestCreateQuiz_EmptyText(t *testing.T) {
	g := New(nlp.NewStaticAnnotator(nil), nil, DefaultConfig())
	_, err := g.CreateQuiz(context.Background(), "  \n\t", 5)
	assert.ErrorIs(t, err, ErrEmptyText)
}

func TestCreateQuiz_AnnotationErrors(t *testing.T) {
	t.Run("document", func(t *testing.T) {
		ann := nlp.NewStaticAnnotator(nil)
		ann.FailWith(errBoom)

		_, err := New(ann, nil, DefaultConfig()).CreateQuiz(context.Background(), solarText, 5)
		var aerr *AnnotationError
		require.ErrorAs(t, err, &aerr)
		assert.Equal(t, "document", aerr.Stage)
		assert.ErrorIs(t, err, errBoom)
	})

	t.Run("lexicon", func(t *testing.T) {
		g := New(solarAnnotator(), failingLexicon{err: errBoom}, DefaultConfig(), WithRand(&seqRand{rest: 0.99}))
		_, err := g.CreateQuiz(context.Background(), solarText, 5)
		var aerr *AnnotationError
		require.ErrorAs(t, err, &aerr)
		assert.Equal(t, "lexicon", aerr.Stage)
		assert.ErrorIs(t, err, errBoom)
	})
}

func TestCreateQuiz_DeduplicatesQuestionText(t *testing.T) {
	text := parisSentence + " " + parisSentence
	doc := parisDoc()
	whole := *doc
	whole.Sentences = []nlp.Span{{Text: parisSentence}, {Text: parisSentence}}

	ann := nlp.NewStaticAnnotator(map[string]*nlp.Document{text: &whole, parisSentence: doc})
	g := New(ann, nil, DefaultConfig(), WithRand(&seqRand{rest: 0.99}))

	quiz, err := g.CreateQuiz(context.Background(), text, 10)
	require.NoError(t, err)
	require.Len(t, quiz, 1)
	assert.Equal(t, TypeMCQ, quiz[0].Type())
	assert.Equal(t, []string{text, parisSentence}, ann.Calls)
}

func TestCreateQuiz_Properties(t *testing.T) {
	for seed := uint64(0); seed < 50; seed++ {
		for _, n := range []int{1, 2, 3, 10} {
			g := New(solarAnnotator(), solarLexicon(), DefaultConfig(), WithRand(NewRand(seed)))
			quiz, err := g.CreateQuiz(context.Background(), solarText, n)
			require.NoError(t, err)
			assert.LessOrEqual(t, len(quiz), n)

			seen := map[string]bool{}
			for _, q := range quiz {
				key := strings.ToLower(strings.TrimSpace(q.Text()))
				assert.False(t, seen[key], "duplicate question %q", q.Text())
				seen[key] = true

				if q.MCQ == nil {
					continue
				}
				assert.Contains(t, q.MCQ.Options, q.MCQ.Answer)
				assert.GreaterOrEqual(t, len(q.MCQ.Options), 2)
				assert.LessOrEqual(t, len(q.MCQ.Options), 4)

				distinct := map[string]bool{}
				for _, opt := range q.MCQ.Options {
					norm := strings.TrimSpace(opt)
					assert.False(t, distinct[norm], "duplicate option %q", opt)
					distinct[norm] = true
				}
			}

			data, err := json.Marshal(quiz)
			require.NoError(t, err)
			var wire []map[string]any
			require.NoError(t, json.Unmarshal(data, &wire))
			for _, w := range wire {
				if w["type"] == "tf" {
					assert.Contains(t, []any{"True", "False"}, w["answer"])
				}
			}
		}
	}
}

func TestCreateQuiz_SameSeedSameQuiz(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TFAttemptProbability = 1.0

	create := func() []byte {
		g := New(solarAnnotator(), solarLexicon(), cfg, WithRand(NewRand(42)))
		quiz, err := g.CreateQuiz(context.Background(), solarText, 10)
		require.NoError(t, err)
		require.NotEmpty(t, quiz)
		data, err := json.Marshal(quiz)
		require.NoError(t, err)
		return data
	}

	assert.Equal(t, string(create()), string(create()))
}

func TestCreateQuiz_ReusesAnnotatorPerSentence(t *testing.T) {
	ann := solarAnnotator()
	cfg := DefaultConfig()
	cfg.TFAttemptProbability = 1.0

	_, err := New(ann, solarLexicon(), cfg, WithRand(NewRand(3))).CreateQuiz(context.Background(), solarText, 10)
	require.NoError(t, err)
	assert.Equal(t, []string{solarText, solarS1, solarS2, solarS3}, ann.Calls)
}

func TestPreprocess_Deterministic(t *testing.T) {
	doc := &nlp.Document{
		Sentences: []nlp.Span{
			{Text: "  Too short here.  "},
			{Text: " Cats chase mice around the old barn. "},
		},
		NounChunks: []nlp.Span{{Text: "Cats"}, {Text: "mice"}, {Text: "the old barn"}, {Text: "Cats"}},
		Tokens: []nlp.Token{
			noun("Cats", "cat"), noun("mice", "mouse"), noun("barn", "barn"),
			noun("cat", "cat"), noun("Mouse", "Mouse"),
			{Text: "thing", Lemma: "thing", POS: nlp.POSNoun, IsAlpha: true, IsStop: true},
			{Text: "42", Lemma: "42", POS: nlp.POSNoun},
			{Text: "run", Lemma: "run", POS: nlp.POSVerb, IsAlpha: true},
		},
	}

	cfg := DefaultConfig()
	first := Preprocess(doc, cfg)
	assert.Equal(t, first, Preprocess(doc, cfg))

	assert.Equal(t, []string{"Cats chase mice around the old barn."}, first.Sentences)
	assert.Equal(t, []string{"Cats", "mice", "the old barn", "Cats"}, first.NounChunks)
	assert.Equal(t, []string{"cat", "mouse", "barn"}, first.Keywords)

	cfg.MaxKeywords = 1
	assert.Equal(t, []string{"cat"}, Preprocess(doc, cfg).Keywords)
}

func TestLeadsSentence(t *testing.T) {
	tests := []struct {
		answer   string
		sentence string
		want     bool
	}{
		{"Paris", "Paris is the capital of France.", true},
		{"is", "Paris is the capital of France.", true},
		{"france", "Paris is the capital of France.", false},
		{"The tourists", "The tourists visited Paris.", false},
		{"the", "The tourists visited Paris.", true},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, leadsSentence(tt.answer, tt.sentence), "%q in %q", tt.answer, tt.sentence)
	}
}
