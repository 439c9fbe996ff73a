package api

import "net/http"

func RegisterRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /health", handler.HandleHealth)
	mux.HandleFunc("POST /api/generate-quiz", handler.HandleGenerateQuiz)
	mux.HandleFunc("POST /api/summarize", handler.HandleSummarize)
	mux.HandleFunc("GET /api/quizzes", handler.HandleListQuizzes)
	mux.HandleFunc("GET /api/quizzes/{id}", handler.HandleGetQuiz)
	mux.HandleFunc("DELETE /api/quizzes/{id}", handler.HandleDeleteQuiz)
}

// NewServer returns the routed handler wrapped in request-id, logging and
// CORS middleware.
func NewServer(handler *Handler, corsOrigins []string) http.Handler {
	mux := http.NewServeMux()
	RegisterRoutes(mux, handler)
	return WithRequestID(WithCORS(WithAccessLog(mux, handler.logger), corsOrigins))
}
