package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/learnpath/platform/internal/domain"
	"github.com/learnpath/platform/internal/progression"
	"github.com/learnpath/platform/internal/repository"
)

// RoadmapHandler serves the learner-facing track views.
type RoadmapHandler struct {
	tracks repository.TrackRepository
	engine *progression.Engine
	db     repository.DBTX
}

// NewRoadmapHandler creates a new RoadmapHandler.
func NewRoadmapHandler(tracks repository.TrackRepository, engine *progression.Engine, db repository.DBTX) *RoadmapHandler {
	return &RoadmapHandler{tracks: tracks, engine: engine, db: db}
}

// List handles GET /tracks.
func (h *RoadmapHandler) List(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.tracks.List(r.Context(), h.db)
	if err != nil {
		RespondError(w, domain.ErrInternal("list tracks", err))
		return
	}
	if summaries == nil {
		summaries = []domain.TrackSummary{}
	}
	RespondJSON(w, http.StatusOK, summaries)
}

// trackStateResponse is the resolved roadmap for one user and track.
type trackStateResponse struct {
	TrackID    string                              `json:"track_id"`
	EntryPoint string                              `json:"entry_point"`
	Modules    map[string]progression.ModuleStatus `json:"modules"`
}

// GetState handles GET /tracks/{trackID}/state — the per-module lock view.
func (h *RoadmapHandler) GetState(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromContext(r)
	if err != nil {
		RespondError(w, err)
		return
	}
	trackID := chi.URLParam(r, "trackID")

	states, err := h.engine.State(r.Context(), userID, trackID)
	if err != nil {
		RespondError(w, err)
		return
	}

	track, err := h.tracks.FindByID(r.Context(), h.db, trackID)
	if err != nil {
		RespondError(w, domain.ErrInternal("find track", err))
		return
	}
	if track == nil {
		RespondError(w, domain.ErrNotFound("track", trackID))
		return
	}

	RespondJSON(w, http.StatusOK, trackStateResponse{
		TrackID:    trackID,
		EntryPoint: track.EntryPointID(),
		Modules:    states,
	})
}
