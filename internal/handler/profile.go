package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/learnpath/platform/internal/auth"
	"github.com/learnpath/platform/internal/domain"
	"github.com/learnpath/platform/internal/repository"
)

// ProfileHandler handles learner profile endpoints.
type ProfileHandler struct {
	users repository.UserRepository
	db    repository.DBTX
}

// NewProfileHandler creates a new ProfileHandler.
func NewProfileHandler(users repository.UserRepository, db repository.DBTX) *ProfileHandler {
	return &ProfileHandler{users: users, db: db}
}

// meResponse is the profile projection for GET /users/me.
type meResponse struct {
	UserID   uuid.UUID `json:"user_id"`
	Email    string    `json:"email"`
	XP       int64     `json:"xp"`
	Level    int       `json:"level"`
	Coins    int64     `json:"coins"`
	Streak   int       `json:"streak"`
	Badges   []string  `json:"badges"`
	PowerUps []string  `json:"power_ups"`
}

// GetMe handles GET /users/me.
func (h *ProfileHandler) GetMe(w http.ResponseWriter, r *http.Request) {
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

	RespondJSON(w, http.StatusOK, meResponse{
		UserID:   user.ID,
		Email:    user.Email,
		XP:       user.XP,
		Level:    user.Level(),
		Coins:    user.Coins,
		Streak:   user.Streak,
		Badges:   user.Badges,
		PowerUps: user.PowerUps,
	})
}

// userIDFromContext resolves the authenticated learner id from the JWT subject.
func userIDFromContext(r *http.Request) (uuid.UUID, error) {
	sub := auth.SubjectFromContext(r.Context())
	if sub == "" {
		return uuid.Nil, domain.ErrUnauthorized("no subject in context")
	}
	id, err := uuid.Parse(sub)
	if err != nil {
		return uuid.Nil, domain.ErrUnauthorized("invalid subject")
	}
	return id, nil
}
