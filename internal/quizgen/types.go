package quizgen

import (
	"encoding/json"
	"fmt"
)

// DocumentState is the preprocessed view of one input text shared by every
// downstream step. It is never mutated after Preprocess returns.
type DocumentState struct {
	// Sentences holds trimmed sentences with more than MinSentenceWords words.
	Sentences []string

	// NounChunks holds every noun-chunk surface string in document order,
	// duplicates included.
	NounChunks []string

	// Keywords holds up to MaxKeywords lowercase noun lemmas, most frequent
	// first, ties in first-encountered order. No duplicates.
	Keywords []string
}

// QuestionType tags the variant carried by a Question.
type QuestionType string

const (
	TypeMCQ       QuestionType = "mcq"
	TypeTrueFalse QuestionType = "tf"
)

// MCQ is a fill-in-the-blank multiple-choice question.
type MCQ struct {
	// Stem is the sentence with the answer replaced by the blank marker.
	Stem string

	// Options are 2-4 distinct choices in randomized order.
	Options []string

	// Answer is the correct option; always a member of Options.
	Answer string
}

// TrueFalse is a statement the learner judges.
type TrueFalse struct {
	Statement string
	Truth     bool
}

// Question is a tagged union: exactly one of MCQ or TF is set.
type Question struct {
	MCQ *MCQ
	TF  *TrueFalse
}

// Type reports which variant q carries.
func (q Question) Type() QuestionType {
	if q.MCQ != nil {
		return TypeMCQ
	}
	return TypeTrueFalse
}

// Text returns the question stem or statement.
func (q Question) Text() string {
	switch {
	case q.MCQ != nil:
		return q.MCQ.Stem
	case q.TF != nil:
		return q.TF.Statement
	}
	return ""
}

// Quiz is an ordered list of questions produced by one CreateQuiz call.
type Quiz []Question

// wireQuestion is the JSON shape exchanged with clients.
type wireQuestion struct {
	Type     QuestionType `json:"type"`
	Question string       `json:"question"`
	Options  []string     `json:"options,omitempty"`
	Answer   string       `json:"answer"`
}

const (
	answerTrue  = "True"
	answerFalse = "False"
)

// MarshalJSON encodes q as {type, question, options, answer}. True/false
// answers are the strings "True" and "False".
func (q Question) MarshalJSON() ([]byte, error) {
	switch {
	case q.MCQ != nil:
		return json.Marshal(wireQuestion{
			Type:     TypeMCQ,
			Question: q.MCQ.Stem,
			Options:  q.MCQ.Options,
			Answer:   q.MCQ.Answer,
		})
	case q.TF != nil:
		answer := answerFalse
		if q.TF.Truth {
			answer = answerTrue
		}
		return json.Marshal(wireQuestion{
			Type:     TypeTrueFalse,
			Question: q.TF.Statement,
			Answer:   answer,
		})
	}
	return nil, fmt.Errorf("marshal question: no variant set")
}

// UnmarshalJSON decodes the wire shape produced by MarshalJSON.
func (q *Question) UnmarshalJSON(data []byte) error {
	var w wireQuestion
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	switch w.Type {
	case TypeMCQ:
		*q = Question{MCQ: &MCQ{Stem: w.Question, Options: w.Options, Answer: w.Answer}}
	case TypeTrueFalse:
		switch w.Answer {
		case answerTrue:
			*q = Question{TF: &TrueFalse{Statement: w.Question, Truth: true}}
		case answerFalse:
			*q = Question{TF: &TrueFalse{Statement: w.Question, Truth: false}}
		default:
			return fmt.Errorf("unmarshal question: tf answer must be %q or %q, got %q", answerTrue, answerFalse, w.Answer)
		}
	default:
		return fmt.Errorf("unmarshal question: unknown type %q", w.Type)
	}
	return nil
}

// MarshalJSON encodes a nil Quiz as an empty array rather than null.
func (qz Quiz) MarshalJSON() ([]byte, error) {
	if qz == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]Question(qz))
}
