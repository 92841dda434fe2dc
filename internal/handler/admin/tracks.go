package admin

import (
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/learnpath/platform/internal/domain"
	"github.com/learnpath/platform/internal/handler"
	"github.com/learnpath/platform/internal/repository"
	"github.com/learnpath/platform/internal/service"
)

// maxDocumentBytes bounds authoring request bodies.
const maxDocumentBytes = 1 << 20 // 1MB

// TrackAdminHandler handles admin track authoring.
type TrackAdminHandler struct {
	content *service.ContentService
	tracks  repository.TrackRepository
	db      repository.DBTX
}

// NewTrackAdminHandler creates a new TrackAdminHandler.
func NewTrackAdminHandler(content *service.ContentService, tracks repository.TrackRepository, db repository.DBTX) *TrackAdminHandler {
	return &TrackAdminHandler{content: content, tracks: tracks, db: db}
}

// ListTracks handles GET /admin/tracks.
func (h *TrackAdminHandler) ListTracks(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.tracks.List(r.Context(), h.db)
	if err != nil {
		handler.RespondError(w, domain.ErrInternal("list tracks", err))
		return
	}
	if summaries == nil {
		summaries = []domain.TrackSummary{}
	}
	handler.RespondJSON(w, http.StatusOK, summaries)
}

// GetTrack handles GET /admin/tracks/{trackID} — the full definition.
func (h *TrackAdminHandler) GetTrack(w http.ResponseWriter, r *http.Request) {
	trackID := chi.URLParam(r, "trackID")
	track, err := h.tracks.FindByID(r.Context(), h.db, trackID)
	if err != nil {
		handler.RespondError(w, domain.ErrInternal("find track", err))
		return
	}
	if track == nil {
		handler.RespondError(w, domain.ErrNotFound("track", trackID))
		return
	}
	handler.RespondJSON(w, http.StatusOK, track)
}

// PutTrack handles PUT /admin/tracks/{trackID} — validates and publishes a
// track definition.
func (h *TrackAdminHandler) PutTrack(w http.ResponseWriter, r *http.Request) {
	doc, err := io.ReadAll(io.LimitReader(r.Body, maxDocumentBytes))
	if err != nil {
		handler.RespondError(w, domain.ErrValidation("unreadable request body"))
		return
	}

	track, err := h.content.SaveTrack(r.Context(), chi.URLParam(r, "trackID"), doc)
	if err != nil {
		handler.RespondError(w, err)
		return
	}
	handler.RespondJSON(w, http.StatusOK, track)
}
