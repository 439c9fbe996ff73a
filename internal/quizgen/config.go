package quizgen

import "github.com/abhisek/textquiz/internal/nlp"

// Config controls preprocessing thresholds, assembler sizes and the
// ordered strategy chains used by the Generator.
type Config struct {
	// MinSentenceWords excludes sentences with this many whitespace
	// delimited words or fewer.
	MinSentenceWords int

	// MaxKeywords caps the ranked keyword list.
	MaxKeywords int

	// MCQDistractors is the number of wrong options requested per MCQ.
	MCQDistractors int

	// TFDistractors is the number of replacement candidates requested when
	// falsifying a true/false statement.
	TFDistractors int

	// FalseProbability weights the true/false coin: a draw below it keeps
	// the sentence verbatim as a true statement, otherwise falsification is
	// attempted. 1.0 therefore yields only true statements.
	FalseProbability float64

	// TFAttemptProbability is the chance a true/false question is attempted
	// for a sentence, independently of the MCQ.
	TFAttemptProbability float64

	// Blank replaces the answer in an MCQ stem.
	Blank string

	// Category is the lexical category used for lexicon lookups.
	Category nlp.Category

	// AnswerStrategies pick the MCQ answer. First hit wins.
	AnswerStrategies []PhraseStrategy

	// SwapStrategies pick the phrase substituted when falsifying a
	// statement. First hit wins.
	SwapStrategies []PhraseStrategy

	// FallbackSources supply document-derived distractors when the
	// lexicon yields too few. They are consulted in order.
	FallbackSources []DistractorSource
}

// DefaultConfig returns the standard thresholds and strategy chains.
func DefaultConfig() Config {
	return Config{
		MinSentenceWords:     4,
		MaxKeywords:          50,
		MCQDistractors:       3,
		TFDistractors:        5,
		FalseProbability:     0.5,
		TFAttemptProbability: 0.5,
		Blank:                "______",
		Category:             nlp.CategoryNoun,
		AnswerStrategies: []PhraseStrategy{
			FirstEntity{},
			LongestNounChunk{},
			FirstNoun{},
		},
		SwapStrategies: []PhraseStrategy{
			FirstEntity{},
			FirstNounChunk{},
		},
		FallbackSources: []DistractorSource{
			KeywordSource{},
			NounChunkSource{},
		},
	}
}
