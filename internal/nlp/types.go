package nlp

import "context"

// POS is a coarse universal part-of-speech tag (spaCy's pos_ inventory).
type POS string

const (
	POSNoun        POS = "NOUN"
	POSProperNoun  POS = "PROPN"
	POSVerb        POS = "VERB"
	POSAdjective   POS = "ADJ"
	POSAdverb      POS = "ADV"
	POSPronoun     POS = "PRON"
	POSDeterminer  POS = "DET"
	POSAdposition  POS = "ADP"
	POSNumeral     POS = "NUM"
	POSPunctuation POS = "PUNCT"
	POSOther       POS = "X"
)

// IsNoun reports whether p is a common or proper noun.
func (p POS) IsNoun() bool {
	return p == POSNoun || p == POSProperNoun
}

// Span is a contiguous piece of annotated text: a sentence, a noun chunk or
// a named entity. Label carries the entity type and is empty otherwise.
type Span struct {
	Text  string `json:"text"`
	Label string `json:"label,omitempty"`
}

// Token is a single annotated word.
type Token struct {
	Text    string `json:"text"`
	Lemma   string `json:"lemma"`
	POS     POS    `json:"pos"`
	IsAlpha bool   `json:"is_alpha"`
	IsStop  bool   `json:"is_stop"`
}

// Document is the immutable result of annotating one text. All slices are
// in document order.
type Document struct {
	Sentences  []Span  `json:"sentences"`
	NounChunks []Span  `json:"noun_chunks"`
	Entities   []Span  `json:"entities"`
	Tokens     []Token `json:"tokens"`
}

// Annotator runs a linguistic pipeline over raw text.
// Implementations must be safe for concurrent use.
type Annotator interface {
	Annotate(ctx context.Context, text string) (*Document, error)
}

// Category is a lexical category understood by a Lexicon.
type Category string

const (
	CategoryNoun      Category = "n"
	CategoryVerb      Category = "v"
	CategoryAdjective Category = "a"
)

// Sense is one meaning of a word in a lexical-semantic resource.
// Members are the phrases sharing the sense; Hypernyms are the member
// phrases of every direct hypernym sense. Multi-word entries may use
// underscores (WordNet style).
type Sense struct {
	Members   []string `json:"members" yaml:"members"`
	Hypernyms []string `json:"hypernyms" yaml:"hypernyms"`
}

// Lexicon is a lexical-semantic resource such as WordNet.
// Implementations must be safe for concurrent use.
type Lexicon interface {
	LookupSenses(ctx context.Context, word string, category Category) ([]Sense, error)
}

// Engine bundles an Annotator and a Lexicon loaded once per process.
type Engine interface {
	Annotator
	Lexicon
	Close() error
}
