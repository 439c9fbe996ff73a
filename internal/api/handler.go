package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/abhisek/textquiz/internal/app"
	"github.com/abhisek/textquiz/internal/logging"
	"github.com/abhisek/textquiz/internal/notes"
	"github.com/abhisek/textquiz/internal/quizgen"
	"github.com/abhisek/textquiz/internal/store"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
	healthTimeout    = 5 * time.Second
)

type pinger interface {
	Ping(ctx context.Context) error
}

type Handler struct {
	app    *app.App
	logger *logging.Logger
}

func NewHandler(a *app.App, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.NewDiscard()
	}
	return &Handler{app: a, logger: logger}
}

func (h *Handler) log(r *http.Request) *logging.Logger {
	return h.logger.WithRequest(RequestID(r.Context()))
}

func (h *Handler) HandleGenerateQuiz(w http.ResponseWriter, r *http.Request) {
	logger := h.log(r)

	var req GenerateQuizRequest
	if err := DecodeJSON(w, r, &req); err != nil {
		logger.Error("JSON decode error: %v", err)
		HandleError(w, err)
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		JSONError(w, http.StatusBadRequest, "Text is required to generate a quiz.")
		return
	}

	quiz, rec, err := h.app.CreateQuiz(r.Context(), req.Text, req.NumQuestions, true)
	if err != nil {
		if errors.Is(err, quizgen.ErrEmptyText) {
			JSONError(w, http.StatusBadRequest, "Text is required to generate a quiz.")
			return
		}
		logger.Error("generate quiz: %v", err)
		JSONError(w, http.StatusInternalServerError, "Failed to generate quiz: "+err.Error())
		return
	}

	resp := GenerateQuizResponse{Quiz: quiz}
	if rec != nil {
		resp.ID = rec.ID
	}
	logger.Info("generated quiz with %d questions", len(quiz))
	if err := JSONResponse(w, http.StatusOK, resp); err != nil {
		logger.Error("Error sending response: %v", err)
	}
}

func (h *Handler) HandleSummarize(w http.ResponseWriter, r *http.Request) {
	logger := h.log(r)

	var req SummarizeRequest
	if err := DecodeJSON(w, r, &req); err != nil {
		logger.Error("JSON decode error: %v", err)
		HandleError(w, err)
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		JSONError(w, http.StatusBadRequest, "Text is required.")
		return
	}

	text, err := h.app.Notes.Generate(r.Context(), req.Text)
	if err != nil {
		if errors.Is(err, notes.ErrEmptyText) {
			JSONError(w, http.StatusBadRequest, "Text is required.")
			return
		}
		logger.Error("generate notes: %v", err)
		JSONError(w, http.StatusInternalServerError, "Failed to generate notes: "+err.Error())
		return
	}
	if err := JSONResponse(w, http.StatusOK, SummarizeResponse{Notes: text}); err != nil {
		logger.Error("Error sending response: %v", err)
	}
}

func (h *Handler) HandleListQuizzes(w http.ResponseWriter, r *http.Request) {
	logger := h.log(r)

	limit := defaultListLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			JSONError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = min(n, maxListLimit)
	}

	recs, err := h.app.Store.QuizRepo().List(r.Context(), store.QueryOpts{Limit: limit})
	if err != nil {
		logger.Error("list quizzes: %v", err)
		HandleError(w, err)
		return
	}
	resp := QuizListResponse{Quizzes: make([]QuizSummary, 0, len(recs))}
	for _, rec := range recs {
		resp.Quizzes = append(resp.Quizzes, summaryOf(rec))
	}
	if err := JSONResponse(w, http.StatusOK, resp); err != nil {
		logger.Error("Error sending response: %v", err)
	}
}

func (h *Handler) HandleGetQuiz(w http.ResponseWriter, r *http.Request) {
	logger := h.log(r)

	rec, err := h.app.Store.QuizRepo().Get(r.Context(), r.PathValue("id"))
	if err != nil {
		logger.Error("get quiz: %v", err)
		HandleError(w, err)
		return
	}
	if rec == nil {
		JSONError(w, http.StatusNotFound, "Quiz not found.")
		return
	}
	if err := JSONResponse(w, http.StatusOK, QuizDetail{QuizSummary: summaryOf(*rec), Quiz: rec.Quiz}); err != nil {
		logger.Error("Error sending response: %v", err)
	}
}

func (h *Handler) HandleDeleteQuiz(w http.ResponseWriter, r *http.Request) {
	logger := h.log(r)

	found, err := h.app.Store.QuizRepo().Delete(r.Context(), r.PathValue("id"))
	if err != nil {
		logger.Error("delete quiz: %v", err)
		HandleError(w, err)
		return
	}
	if !found {
		JSONError(w, http.StatusNotFound, "Quiz not found.")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{Status: "ok", Engine: "ok", Notes: h.app.Notes.Configured()}
	status := http.StatusOK

	if p, ok := h.app.Engine.(pinger); ok {
		ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
		defer cancel()
		if err := p.Ping(ctx); err != nil {
			resp.Status = "degraded"
			resp.Engine = err.Error()
			status = http.StatusServiceUnavailable
		}
	}
	JSONResponse(w, status, resp)
}
