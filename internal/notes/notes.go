// Package notes turns study text into structured Markdown exam notes using
// an LLM, and renders them as HTML.
package notes

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/abhisek/textquiz/internal/llm"
)

var (
	// ErrNotConfigured is returned when no LLM provider is available.
	ErrNotConfigured = errors.New("API key is not configured.")

	// ErrEmptyText is returned for blank input.
	ErrEmptyText = errors.New("text is required")
)

const promptTemplate = `As an expert academic tutor, create a set of structured exam notes in Markdown format from the provided text. The notes must contain different sections with bullet pointed matter in them and also important extra points which are not in the provided text.

[Text to Process]
%s

[Generated Notes]`

// DefaultMaxTokens bounds the length of generated notes.
const DefaultMaxTokens = 4096

// Prompt builds the note-generation prompt for text.
func Prompt(text string) string {
	return fmt.Sprintf(promptTemplate, text)
}

// Service generates study notes.
type Service struct {
	provider  llm.Provider
	maxTokens int
	md        goldmark.Markdown
}

// New creates a Service. A nil provider yields a Service whose Generate
// always fails with ErrNotConfigured.
func New(provider llm.Provider, maxTokens int) *Service {
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}
	return &Service{
		provider:  provider,
		maxTokens: maxTokens,
		md:        goldmark.New(goldmark.WithExtensions(extension.GFM)),
	}
}

// Configured reports whether an LLM provider is wired in.
func (s *Service) Configured() bool {
	return s.provider != nil
}

// Generate returns Markdown notes for text, exactly as the model wrote
// them apart from surrounding whitespace and an enclosing code fence.
func (s *Service) Generate(ctx context.Context, text string) (string, error) {
	if s.provider == nil {
		return "", ErrNotConfigured
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrEmptyText
	}

	ctx = llm.WithPurpose(ctx, llm.PurposeNotes)
	resp, err := s.provider.Generate(ctx, llm.UserPrompt(Prompt(text), s.maxTokens))
	if err != nil {
		return "", err
	}
	return unfence(resp.Text), nil
}

// RenderHTML converts Markdown notes to an HTML fragment.
func (s *Service) RenderHTML(markdown string) (string, error) {
	var buf bytes.Buffer
	if err := s.md.Convert([]byte(markdown), &buf); err != nil {
		return "", fmt.Errorf("render notes: %w", err)
	}
	return buf.String(), nil
}

// unfence strips a ```markdown fence that wraps the whole reply.
func unfence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") || !strings.HasSuffix(s, "```") || len(s) < 6 {
		return s
	}
	body := strings.TrimSuffix(s, "```")
	nl := strings.IndexByte(body, '\n')
	if nl < 0 {
		return s
	}
	body = body[nl+1:]
	// A fence inside means the reply opens and closes with separate blocks.
	for _, line := range strings.Split(body, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			return s
		}
	}
	return strings.TrimSpace(body)
}
