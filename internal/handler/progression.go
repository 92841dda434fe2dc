package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/learnpath/platform/internal/progression"
)

// ProgressionHandler exposes the completion commands.
type ProgressionHandler struct {
	engine *progression.Engine
}

// NewProgressionHandler creates a new ProgressionHandler.
func NewProgressionHandler(engine *progression.Engine) *ProgressionHandler {
	return &ProgressionHandler{engine: engine}
}

// CompleteSubModule handles POST /tracks/{trackID}/modules/{moduleID}/sub-modules/{subModuleID}/complete.
func (h *ProgressionHandler) CompleteSubModule(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromContext(r)
	if err != nil {
		RespondError(w, err)
		return
	}

	result, err := h.engine.CompleteSubModule(r.Context(), userID,
		chi.URLParam(r, "trackID"),
		chi.URLParam(r, "moduleID"),
		chi.URLParam(r, "subModuleID"),
	)
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, result)
}

// CompleteModule handles POST /tracks/{trackID}/modules/{moduleID}/complete.
func (h *ProgressionHandler) CompleteModule(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromContext(r)
	if err != nil {
		RespondError(w, err)
		return
	}

	result, err := h.engine.CompleteModule(r.Context(), userID,
		chi.URLParam(r, "trackID"),
		chi.URLParam(r, "moduleID"),
	)
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, result)
}
