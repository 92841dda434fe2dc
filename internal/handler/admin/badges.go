package admin

import (
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/learnpath/platform/internal/domain"
	"github.com/learnpath/platform/internal/handler"
	"github.com/learnpath/platform/internal/service"
)

// BadgeAdminHandler handles admin badge authoring and manual grants.
type BadgeAdminHandler struct {
	content *service.ContentService
}

// NewBadgeAdminHandler creates a new BadgeAdminHandler.
func NewBadgeAdminHandler(content *service.ContentService) *BadgeAdminHandler {
	return &BadgeAdminHandler{content: content}
}

// PutBadge handles PUT /admin/badges/{badgeID}.
func (h *BadgeAdminHandler) PutBadge(w http.ResponseWriter, r *http.Request) {
	doc, err := io.ReadAll(io.LimitReader(r.Body, maxDocumentBytes))
	if err != nil {
		handler.RespondError(w, domain.ErrValidation("unreadable request body"))
		return
	}

	badge, err := h.content.SaveBadge(r.Context(), chi.URLParam(r, "badgeID"), doc)
	if err != nil {
		handler.RespondError(w, err)
		return
	}
	handler.RespondJSON(w, http.StatusOK, badge)
}

// GrantBadge handles POST /admin/users/{userID}/badges/{badgeID} — the manual
// award path. This is the only way a manual-criteria badge reaches a user.
func (h *BadgeAdminHandler) GrantBadge(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(chi.URLParam(r, "userID"))
	if err != nil {
		handler.RespondError(w, domain.ErrValidation("invalid user id"))
		return
	}

	user, err := h.content.GrantBadge(r.Context(), userID, chi.URLParam(r, "badgeID"))
	if err != nil {
		handler.RespondError(w, err)
		return
	}
	handler.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"user_id": user.ID,
		"badges":  user.Badges,
		"xp":      user.XP,
		"coins":   user.Coins,
	})
}
