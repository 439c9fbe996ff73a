// Package prose is a pure-Go nlp.Engine built on github.com/jdkato/prose.
// It needs no Python, at the cost of cruder noun chunks and lemmas than
// spaCy; synonyms come from a YAML lexicon instead of WordNet.
package prose

import (
	"context"
	_ "embed"
	"fmt"
	"strings"
	"unicode"

	proselib "github.com/jdkato/prose/v2"

	"github.com/abhisek/textquiz/internal/nlp"
)

//go:embed stopwords.txt
var stopwordsTxt string

var stopwords = func() map[string]bool {
	set := make(map[string]bool)
	for _, w := range strings.Fields(stopwordsTxt) {
		set[w] = true
	}
	return set
}()

// Engine annotates with prose and looks senses up in a Lexicon.
type Engine struct {
	lexicon nlp.Lexicon
}

// New returns an Engine. A nil lexicon knows no words.
func New(lexicon nlp.Lexicon) *Engine {
	if lexicon == nil {
		lexicon = nlp.EmptyLexicon{}
	}
	return &Engine{lexicon: lexicon}
}

// Open returns an Engine whose lexicon is read from a YAML file. An empty
// path yields an engine without a lexicon.
func Open(lexiconPath string) (*Engine, error) {
	if lexiconPath == "" {
		return New(nil), nil
	}
	lex, err := nlp.LoadLexiconFile(lexiconPath)
	if err != nil {
		return nil, err
	}
	return New(lex), nil
}

func (e *Engine) LookupSenses(ctx context.Context, word string, category nlp.Category) ([]nlp.Sense, error) {
	return e.lexicon.LookupSenses(ctx, word, category)
}

func (e *Engine) Close() error { return nil }

// Annotate segments, tags and chunks text.
func (e *Engine) Annotate(ctx context.Context, text string) (*nlp.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	pd, err := proselib.NewDocument(text)
	if err != nil {
		return nil, fmt.Errorf("prose: %w", err)
	}

	doc := &nlp.Document{
		Sentences:  []nlp.Span{},
		NounChunks: []nlp.Span{},
		Entities:   []nlp.Span{},
		Tokens:     []nlp.Token{},
	}
	for _, s := range pd.Sentences() {
		if t := strings.TrimSpace(s.Text); t != "" {
			doc.Sentences = append(doc.Sentences, nlp.Span{Text: t})
		}
	}

	toks := locate(text, pd.Tokens())
	for _, t := range toks {
		doc.Tokens = append(doc.Tokens, t.Token)
	}
	doc.NounChunks = nounChunks(text, toks)
	doc.Entities = entities(text, toks)
	return doc, nil
}

// located is a token with its byte offsets in the source text; start is
// -1 when the token text could not be found.
type located struct {
	nlp.Token
	tag        string
	label      string
	start, end int
}

func locate(text string, tokens []proselib.Token) []located {
	out := make([]located, 0, len(tokens))
	cursor := 0
	for _, t := range tokens {
		pos := penn(t.Tag)
		l := located{
			Token: nlp.Token{
				Text:    t.Text,
				Lemma:   lemma(t.Text, t.Tag),
				POS:     pos,
				IsAlpha: isAlpha(t.Text),
				IsStop:  stopwords[strings.ToLower(t.Text)],
			},
			tag:   t.Tag,
			label: t.Label,
			start: -1,
		}
		if i := strings.Index(text[cursor:], t.Text); i >= 0 {
			l.start = cursor + i
			l.end = l.start + len(t.Text)
			cursor = l.end
		}
		out = append(out, l)
	}
	return out
}

// nounChunks returns maximal runs of determiners, possessives, numbers,
// adjectives and nouns that end in a noun.
func nounChunks(text string, toks []located) []nlp.Span {
	var spans []nlp.Span
	i := 0
	for i < len(toks) {
		if !chunkable(toks[i].tag) || toks[i].start < 0 {
			i++
			continue
		}
		j := i
		lastNoun := -1
		for j < len(toks) && chunkable(toks[j].tag) && toks[j].start >= 0 {
			if toks[j].POS.IsNoun() {
				lastNoun = j
			}
			j++
		}
		if lastNoun >= 0 {
			spans = append(spans, nlp.Span{Text: text[toks[i].start:toks[lastNoun].end]})
		}
		i = j
	}
	return orEmpty(spans)
}

func chunkable(tag string) bool {
	switch tag {
	case "DT", "PDT", "PRP$", "CD":
		return true
	}
	return strings.HasPrefix(tag, "JJ") || strings.HasPrefix(tag, "NN")
}

// entities decodes the IOB labels prose puts on tokens ("B-GPE", "I-GPE").
func entities(text string, toks []located) []nlp.Span {
	var spans []nlp.Span
	for i := 0; i < len(toks); i++ {
		kind, ok := strings.CutPrefix(toks[i].label, "B-")
		if !ok || toks[i].start < 0 {
			continue
		}
		start, end := toks[i].start, toks[i].end
		for i+1 < len(toks) && toks[i+1].label == "I-"+kind && toks[i+1].start >= 0 {
			i++
			end = toks[i].end
		}
		spans = append(spans, nlp.Span{Text: text[start:end], Label: kind})
	}
	return orEmpty(spans)
}

func orEmpty(spans []nlp.Span) []nlp.Span {
	if spans == nil {
		return []nlp.Span{}
	}
	return spans
}

// penn maps Penn Treebank tags onto the universal tag set.
func penn(tag string) nlp.POS {
	switch {
	case tag == "NNP" || tag == "NNPS":
		return nlp.POSProperNoun
	case strings.HasPrefix(tag, "NN"):
		return nlp.POSNoun
	case strings.HasPrefix(tag, "VB") || tag == "MD":
		return nlp.POSVerb
	case strings.HasPrefix(tag, "JJ"):
		return nlp.POSAdjective
	case strings.HasPrefix(tag, "RB") || tag == "WRB":
		return nlp.POSAdverb
	case tag == "PRP" || tag == "PRP$" || tag == "WP" || tag == "WP$":
		return nlp.POSPronoun
	case tag == "DT" || tag == "PDT" || tag == "WDT":
		return nlp.POSDeterminer
	case tag == "IN" || tag == "TO":
		return nlp.POSAdposition
	case tag == "CD":
		return nlp.POSNumeral
	}
	for _, r := range tag {
		if unicode.IsLetter(r) {
			return nlp.POSOther
		}
	}
	return nlp.POSPunctuation
}

// lemma lowercases common nouns and strips regular plural endings.
// Proper nouns keep their case.
func lemma(word, tag string) string {
	switch tag {
	case "NNP", "NNPS":
		return word
	case "NNS":
		w := strings.ToLower(word)
		switch {
		case strings.HasSuffix(w, "ies") && len(w) > 4:
			return w[:len(w)-3] + "y"
		case strings.HasSuffix(w, "ches"), strings.HasSuffix(w, "shes"),
			strings.HasSuffix(w, "sses"), strings.HasSuffix(w, "xes"):
			return w[:len(w)-2]
		case strings.HasSuffix(w, "s") && !strings.HasSuffix(w, "ss"):
			return w[:len(w)-1]
		}
		return w
	}
	return strings.ToLower(word)
}

func isAlpha(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}

var _ nlp.Engine = (*Engine)(nil)
