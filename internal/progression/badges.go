package progression

import (
	"log/slog"

	"github.com/learnpath/platform/internal/domain"
)

// EvaluateBadge checks whether every criterion of a badge holds against the
// snapshot. Badges with a manual criterion are never auto-earned, because
// manual criteria always evaluate false.
func EvaluateBadge(b *domain.BadgeDef, stats *domain.UserStatsSnapshot) bool {
	if len(b.Criteria) == 0 {
		return false
	}
	for _, c := range b.Criteria {
		if !EvaluateCriterion(c, stats) {
			return false
		}
	}
	return true
}

// ResolveNewBadges evaluates every badge definition against the snapshot and
// returns the ones the user newly qualifies for. Already-earned badges are
// skipped (earning is a one-time event per badge); malformed definitions are
// logged and skipped so one bad badge cannot block evaluation of the rest.
func ResolveNewBadges(defs []domain.BadgeDef, stats *domain.UserStatsSnapshot, user *domain.User, logger *slog.Logger) []domain.BadgeDef {
	var earned []domain.BadgeDef
	for i := range defs {
		b := &defs[i]
		if err := domain.ValidateBadge(b); err != nil {
			logger.Warn("skipping malformed badge definition", "badge_id", b.ID, "error", err)
			continue
		}
		if user.HasBadge(b.ID) {
			continue
		}
		if EvaluateBadge(b, stats) {
			earned = append(earned, *b)
		}
	}
	return earned
}

// BuildSnapshot derives the read-only stats projection badge criteria are
// evaluated against. The structural sets cover the track being mutated: a
// track is complete when every one of its modules is completed.
func BuildSnapshot(user *domain.User, track *domain.TrackDef, progress *domain.TrackProgress) *domain.UserStatsSnapshot {
	stats := &domain.UserStatsSnapshot{
		TotalAttempts:    user.TotalAttempts,
		TotalScore:       user.TotalScore,
		Streak:           user.Streak,
		Level:            user.Level(),
		FriendCount:      user.FriendCount,
		Flags:            make(map[domain.CriterionType]bool, len(user.Flags)),
		CompletedModules: make(map[string]bool, len(progress.CompletedModules)),
		CompletedTracks:  make(map[string]bool, 1),
	}
	for _, f := range user.Flags {
		stats.Flags[domain.CriterionType(f)] = true
	}
	for _, id := range progress.CompletedModules {
		stats.CompletedModules[id] = true
	}
	if len(track.Modules) > 0 && len(progress.CompletedModules) >= len(track.Modules) {
		complete := true
		for i := range track.Modules {
			if !stats.CompletedModules[track.Modules[i].ID] {
				complete = false
				break
			}
		}
		if complete {
			stats.CompletedTracks[track.ID] = true
		}
	}
	return stats
}
