package progression

import "github.com/learnpath/platform/internal/domain"

// EvaluateCriterion checks one criterion against a stats snapshot. Unknown
// criterion types and manual criteria evaluate false, so a malformed
// definition can never grant a badge.
func EvaluateCriterion(c domain.Criterion, stats *domain.UserStatsSnapshot) bool {
	switch c.Type {
	case domain.CriterionTotalAttempts:
		return c.Operator.Compare(stats.TotalAttempts, c.Threshold)
	case domain.CriterionTotalScore:
		return c.Operator.Compare(stats.TotalScore, c.Threshold)
	case domain.CriterionStreak:
		return c.Operator.Compare(int64(stats.Streak), c.Threshold)
	case domain.CriterionLevel:
		return c.Operator.Compare(int64(stats.Level), c.Threshold)
	case domain.CriterionFriendCount:
		return c.Operator.Compare(int64(stats.FriendCount), c.Threshold)
	case domain.CriterionPerfectScore, domain.CriterionSpeedDemon,
		domain.CriterionTournamentWin, domain.CriterionExamPass:
		return stats.Flags[c.Type]
	case domain.CriterionTrackCompletion:
		return stats.CompletedTracks[c.Target]
	case domain.CriterionModuleCompletion:
		return stats.CompletedModules[c.Target]
	case domain.CriterionManual:
		return false
	default:
		return false
	}
}
