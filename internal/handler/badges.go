package handler

import (
	"net/http"

	"github.com/learnpath/platform/internal/domain"
	"github.com/learnpath/platform/internal/repository"
)

// BadgeHandler serves badge catalog and earned-badge endpoints.
type BadgeHandler struct {
	badges repository.BadgeRepository
	users  repository.UserRepository
	db     repository.DBTX
}

// NewBadgeHandler creates a new BadgeHandler.
func NewBadgeHandler(badges repository.BadgeRepository, users repository.UserRepository, db repository.DBTX) *BadgeHandler {
	return &BadgeHandler{badges: badges, users: users, db: db}
}

// List handles GET /badges — the full catalog.
func (h *BadgeHandler) List(w http.ResponseWriter, r *http.Request) {
	defs, err := h.badges.List(r.Context(), h.db)
	if err != nil {
		RespondError(w, domain.ErrInternal("list badges", err))
		return
	}
	if defs == nil {
		defs = []domain.BadgeDef{}
	}
	RespondJSON(w, http.StatusOK, defs)
}

// MyBadges handles GET /users/me/badges — the catalog filtered to earned.
func (h *BadgeHandler) MyBadges(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromContext(r)
	if err != nil {
		RespondError(w, err)
		return
	}

	user, err := h.users.FindByID(r.Context(), h.db, userID)
	if err != nil {
		RespondError(w, domain.ErrInternal("find user", err))
		return
	}
	if user == nil {
		RespondError(w, domain.ErrNotFound("user", userID.String()))
		return
	}

	defs, err := h.badges.List(r.Context(), h.db)
	if err != nil {
		RespondError(w, domain.ErrInternal("list badges", err))
		return
	}

	earned := make([]domain.BadgeDef, 0, len(user.Badges))
	for i := range defs {
		if user.HasBadge(defs[i].ID) {
			earned = append(earned, defs[i])
		}
	}
	RespondJSON(w, http.StatusOK, earned)
}
