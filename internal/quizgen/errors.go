package quizgen

import (
	"errors"
	"fmt"
)

// ErrEmptyText is returned when CreateQuiz receives blank input. Callers
// are expected to reject missing text before invoking the generator.
var ErrEmptyText = errors.New("text is required")

// AnnotationError wraps a failure of the linguistic annotator or the
// lexical resource. It always aborts the whole request.
type AnnotationError struct {
	// Stage is "document", "sentence" or "lexicon".
	Stage string
	Err   error
}

func (e *AnnotationError) Error() string {
	return fmt.Sprintf("annotation failed (%s): %v", e.Stage, e.Err)
}

func (e *AnnotationError) Unwrap() error { return e.Err }
