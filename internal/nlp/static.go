package nlp

import (
	"context"
	"strings"
	"sync"
)

// StaticAnnotator returns frozen annotations keyed by exact input text.
// Unknown texts annotate to an empty Document. It records every call, in
// the manner of a mock provider, so tests can assert on annotation traffic.
type StaticAnnotator struct {
	mu    sync.Mutex
	docs  map[string]*Document
	err   error
	Calls []string
}

// NewStaticAnnotator creates a StaticAnnotator from text -> Document pairs.
func NewStaticAnnotator(docs map[string]*Document) *StaticAnnotator {
	if docs == nil {
		docs = make(map[string]*Document)
	}
	return &StaticAnnotator{docs: docs}
}

// Set registers (or replaces) the annotation for text.
func (a *StaticAnnotator) Set(text string, doc *Document) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.docs[text] = doc
}

// FailWith makes every subsequent Annotate call return err.
func (a *StaticAnnotator) FailWith(err error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.err = err
}

func (a *StaticAnnotator) Annotate(_ context.Context, text string) (*Document, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.Calls = append(a.Calls, text)
	if a.err != nil {
		return nil, a.err
	}
	if doc, ok := a.docs[text]; ok {
		return doc, nil
	}
	return &Document{}, nil
}

// StaticLexicon is an in-memory Lexicon keyed by lowercase word. Only the
// noun category is populated; lookups in other categories return nothing.
type StaticLexicon map[string][]Sense

func (l StaticLexicon) LookupSenses(_ context.Context, word string, category Category) ([]Sense, error) {
	if category != CategoryNoun {
		return nil, nil
	}
	return l[strings.ToLower(word)], nil
}

// EmptyLexicon knows no words. Distractors then come from the document.
type EmptyLexicon struct{}

func (EmptyLexicon) LookupSenses(context.Context, string, Category) ([]Sense, error) {
	return nil, nil
}

// StaticEngine combines a StaticAnnotator and a Lexicon into an Engine.
type StaticEngine struct {
	*StaticAnnotator
	Lexicon

	Closed bool
}

func (e *StaticEngine) Close() error {
	e.Closed = true
	return nil
}
