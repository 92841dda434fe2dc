package domain

import (
	"math"
	"time"

	"github.com/google/uuid"
)

// User holds a learner account with cumulative gamification counters.
// Badges is append-only: a badge, once earned, is never revoked.
type User struct {
	ID            uuid.UUID  `json:"id"`
	Email         string     `json:"email"`
	PasswordHash  string     `json:"-"`
	XP            int64      `json:"xp"`
	Coins         int64      `json:"coins"`
	Streak        int        `json:"streak"`
	TotalAttempts int64      `json:"total_attempts"`
	TotalScore    int64      `json:"total_score"`
	FriendCount   int        `json:"friend_count"`
	Flags         []string   `json:"flags,omitempty"`
	Badges        []string   `json:"badges"`
	PowerUps      []string   `json:"power_ups,omitempty"`
	LastActiveAt  *time.Time `json:"last_active_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// Level derives the user's level from total XP with a sublinear curve:
// floor(sqrt(xp)/10) + 1, minimum 1.
func (u *User) Level() int {
	if u.XP <= 0 {
		return 1
	}
	return int(math.Floor(math.Sqrt(float64(u.XP))/10.0)) + 1
}

// HasBadge reports whether the badge is already in the earned set.
func (u *User) HasBadge(badgeID string) bool {
	return contains(u.Badges, badgeID)
}

// HasFlag reports whether the event flag has been set for the user.
func (u *User) HasFlag(flag CriterionType) bool {
	return contains(u.Flags, string(flag))
}

// SetFlag records an event flag. Returns false if already set.
func (u *User) SetFlag(flag CriterionType) bool {
	if u.HasFlag(flag) {
		return false
	}
	u.Flags = append(u.Flags, string(flag))
	return true
}

// UserStatsSnapshot is the read-only projection badge criteria evaluate
// against. It is rebuilt fresh before every evaluation from the user record
// and the track progress being mutated; it is never persisted.
type UserStatsSnapshot struct {
	TotalAttempts    int64
	TotalScore       int64
	Streak           int
	Level            int
	FriendCount      int
	Flags            map[CriterionType]bool
	CompletedModules map[string]bool
	CompletedTracks  map[string]bool
}

// QuizAttempt is one recorded quiz attempt. Scoring itself is external; the
// engine only consumes the resulting percentage.
type QuizAttempt struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"user_id"`
	QuizID      string    `json:"quiz_id"`
	Percentage  int       `json:"percentage"`
	DurationSec int       `json:"duration_sec,omitempty"`
	CompletedAt time.Time `json:"completed_at"`
}
