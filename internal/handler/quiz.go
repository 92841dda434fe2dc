package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/learnpath/platform/internal/service"
)

// QuizHandler handles quiz attempt submission.
type QuizHandler struct {
	quizSvc *service.QuizService
}

// NewQuizHandler creates a new QuizHandler.
func NewQuizHandler(quizSvc *service.QuizService) *QuizHandler {
	return &QuizHandler{quizSvc: quizSvc}
}

// SubmitAttempt handles POST /quizzes/{quizID}/attempts.
func (h *QuizHandler) SubmitAttempt(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromContext(r)
	if err != nil {
		RespondError(w, err)
		return
	}

	var input service.AttemptInput
	if err := DecodeJSON(r, &input); err != nil {
		RespondJSON(w, http.StatusBadRequest, map[string]string{
			"code":    "VALIDATION_ERROR",
			"message": "invalid request body",
		})
		return
	}

	result, err := h.quizSvc.RecordAttempt(r.Context(), userID, chi.URLParam(r, "quizID"), input)
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusCreated, result)
}
