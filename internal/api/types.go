package api

import (
	"time"

	"github.com/abhisek/textquiz/internal/quizgen"
	"github.com/abhisek/textquiz/internal/store"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

type GenerateQuizRequest struct {
	Text         string `json:"text"`
	NumQuestions int    `json:"num_questions,omitempty"`
}

type GenerateQuizResponse struct {
	Quiz quizgen.Quiz `json:"quiz"`
	ID   string       `json:"id,omitempty"`
}

type SummarizeRequest struct {
	Text string `json:"text"`
}

type SummarizeResponse struct {
	Notes string `json:"notes"`
}

type QuizSummary struct {
	ID            string    `json:"id"`
	CreatedAt     time.Time `json:"created_at"`
	NumRequested  int       `json:"num_requested"`
	QuestionCount int       `json:"question_count"`
	TextPreview   string    `json:"text_preview"`
}

type QuizDetail struct {
	QuizSummary
	Quiz quizgen.Quiz `json:"quiz"`
}

type QuizListResponse struct {
	Quizzes []QuizSummary `json:"quizzes"`
}

type HealthResponse struct {
	Status string `json:"status"`
	Engine string `json:"engine"`
	Notes  bool   `json:"notes"`
}

func summaryOf(rec store.QuizRecord) QuizSummary {
	return QuizSummary{
		ID:            rec.ID,
		CreatedAt:     rec.CreatedAt,
		NumRequested:  rec.NumRequested,
		QuestionCount: rec.QuestionCount,
		TextPreview:   rec.TextPreview,
	}
}
