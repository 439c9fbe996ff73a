package quizgen

import (
	"context"
	"errors"

	"github.com/abhisek/textquiz/internal/nlp"
)

// seqRand replays fixed draws. Float64 falls back to rest once floats are
// used up, IntN to 0. Shuffle leaves the order unchanged.
type seqRand struct {
	floats []float64
	ints   []int
	rest   float64

	shuffles int
}

func (r *seqRand) Float64() float64 {
	if len(r.floats) == 0 {
		return r.rest
	}
	f := r.floats[0]
	r.floats = r.floats[1:]
	return f
}

func (r *seqRand) IntN(n int) int {
	if len(r.ints) == 0 {
		return 0
	}
	i := r.ints[0]
	r.ints = r.ints[1:]
	return i % n
}

func (r *seqRand) Shuffle(int, func(i, j int)) { r.shuffles++ }

type failingLexicon struct{ err error }

func (l failingLexicon) LookupSenses(context.Context, string, nlp.Category) ([]nlp.Sense, error) {
	return nil, l.err
}

var errBoom = errors.New("boom")

const parisSentence = "The tourists visited Paris during the summer."

func parisDoc() *nlp.Document {
	return &nlp.Document{
		Sentences:  []nlp.Span{{Text: parisSentence}},
		NounChunks: []nlp.Span{{Text: "The tourists"}, {Text: "Paris"}, {Text: "the summer"}},
		Entities:   []nlp.Span{{Text: "Paris", Label: "GPE"}},
		Tokens: []nlp.Token{
			{Text: "The", Lemma: "the", POS: nlp.POSDeterminer, IsAlpha: true, IsStop: true},
			{Text: "tourists", Lemma: "tourist", POS: nlp.POSNoun, IsAlpha: true},
			{Text: "visited", Lemma: "visit", POS: nlp.POSVerb, IsAlpha: true},
			{Text: "Paris", Lemma: "Paris", POS: nlp.POSProperNoun, IsAlpha: true},
			{Text: "during", Lemma: "during", POS: nlp.POSAdposition, IsAlpha: true, IsStop: true},
			{Text: "the", Lemma: "the", POS: nlp.POSDeterminer, IsAlpha: true, IsStop: true},
			{Text: "summer", Lemma: "summer", POS: nlp.POSNoun, IsAlpha: true},
			{Text: ".", Lemma: ".", POS: nlp.POSPunctuation},
		},
	}
}

// solarText is a three-sentence document with per-sentence annotations,
// used for property checks across many seeds.
const (
	solarS1   = "The Sun is a star at the center of the Solar System."
	solarS2   = "Jupiter is the largest planet in the Solar System."
	solarS3   = "Astronomers observe the outer planets with large telescopes."
	solarText = solarS1 + " " + solarS2 + " " + solarS3
)

func noun(text, lemma string) nlp.Token {
	return nlp.Token{Text: text, Lemma: lemma, POS: nlp.POSNoun, IsAlpha: true}
}

func propn(text string) nlp.Token {
	return nlp.Token{Text: text, Lemma: text, POS: nlp.POSProperNoun, IsAlpha: true}
}

func solarAnnotator() *nlp.StaticAnnotator {
	s1 := &nlp.Document{
		Sentences:  []nlp.Span{{Text: solarS1}},
		NounChunks: []nlp.Span{{Text: "The Sun"}, {Text: "a star"}, {Text: "the center"}, {Text: "the Solar System"}},
		Entities:   []nlp.Span{{Text: "the Solar System", Label: "LOC"}},
		Tokens:     []nlp.Token{propn("Sun"), noun("star", "star"), noun("center", "center"), propn("Solar"), propn("System")},
	}
	s2 := &nlp.Document{
		Sentences:  []nlp.Span{{Text: solarS2}},
		NounChunks: []nlp.Span{{Text: "Jupiter"}, {Text: "the largest planet"}, {Text: "the Solar System"}},
		Entities:   []nlp.Span{{Text: "Jupiter", Label: "LOC"}, {Text: "the Solar System", Label: "LOC"}},
		Tokens:     []nlp.Token{propn("Jupiter"), noun("planet", "planet"), propn("Solar"), propn("System")},
	}
	s3 := &nlp.Document{
		Sentences:  []nlp.Span{{Text: solarS3}},
		NounChunks: []nlp.Span{{Text: "Astronomers"}, {Text: "the outer planets"}, {Text: "large telescopes"}},
		Tokens:     []nlp.Token{noun("Astronomers", "astronomer"), noun("planets", "planet"), noun("telescopes", "telescope")},
	}

	whole := &nlp.Document{
		Sentences:  append(append(append([]nlp.Span{}, s1.Sentences...), s2.Sentences...), s3.Sentences...),
		NounChunks: append(append(append([]nlp.Span{}, s1.NounChunks...), s2.NounChunks...), s3.NounChunks...),
		Entities:   append(append([]nlp.Span{}, s1.Entities...), s2.Entities...),
		Tokens:     append(append(append([]nlp.Token{}, s1.Tokens...), s2.Tokens...), s3.Tokens...),
	}

	return nlp.NewStaticAnnotator(map[string]*nlp.Document{
		solarText: whole,
		solarS1:   s1,
		solarS2:   s2,
		solarS3:   s3,
	})
}

func solarLexicon() nlp.StaticLexicon {
	return nlp.StaticLexicon{
		"jupiter": {{Members: []string{"Jupiter", "Jove"}, Hypernyms: []string{"Roman_deity"}}},
		"sun":     {{Members: []string{"sun", "Sol"}, Hypernyms: []string{"star"}}},
	}
}
