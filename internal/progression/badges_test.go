package progression

import (
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/learnpath/platform/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func speedDemonBadge() domain.BadgeDef {
	return domain.BadgeDef{
		ID:     "speed-demon",
		Name:   "Speed Demon",
		Rarity: domain.RarityRare,
		Rewards: domain.BadgeRewards{XP: 50, Coins: 10},
		Criteria: []domain.Criterion{
			{Type: domain.CriterionTotalAttempts, Operator: domain.OpGTE, Threshold: 5},
		},
	}
}

func TestEvaluateBadge_SingleCriterion(t *testing.T) {
	badge := speedDemonBadge()

	stats := &domain.UserStatsSnapshot{TotalAttempts: 5}
	assert.True(t, EvaluateBadge(&badge, stats))

	stats.TotalAttempts = 4
	assert.False(t, EvaluateBadge(&badge, stats))
}

func TestEvaluateBadge_AllMustMatch(t *testing.T) {
	badge := domain.BadgeDef{
		ID:     "scholar",
		Name:   "Scholar",
		Rarity: domain.RarityEpic,
		Criteria: []domain.Criterion{
			{Type: domain.CriterionTotalAttempts, Operator: domain.OpGTE, Threshold: 5},
			{Type: domain.CriterionLevel, Operator: domain.OpGTE, Threshold: 2},
		},
	}

	tests := []struct {
		name     string
		attempts int64
		level    int
		want     bool
	}{
		{"neither holds", 4, 1, false},
		{"only attempts holds", 5, 1, false},
		{"only level holds", 4, 2, false},
		{"both hold", 5, 2, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stats := &domain.UserStatsSnapshot{TotalAttempts: tt.attempts, Level: tt.level}
			assert.Equal(t, tt.want, EvaluateBadge(&badge, stats))
		})
	}
}

func TestEvaluateBadge_NoCriteria(t *testing.T) {
	badge := domain.BadgeDef{ID: "empty", Name: "Empty", Rarity: domain.RarityCommon}
	assert.False(t, EvaluateBadge(&badge, snapshot()))
}

func TestEvaluateBadge_ManualBlocksAutoEarn(t *testing.T) {
	badge := domain.BadgeDef{
		ID:     "founders",
		Name:   "Founders",
		Rarity: domain.RarityLegendary,
		Criteria: []domain.Criterion{
			{Type: domain.CriterionTotalAttempts, Operator: domain.OpGTE, Threshold: 1},
			{Type: domain.CriterionManual},
		},
	}
	assert.False(t, EvaluateBadge(&badge, snapshot()))
}

func TestResolveNewBadges_SkipsEarnedAndMalformed(t *testing.T) {
	earned := speedDemonBadge()
	malformed := domain.BadgeDef{
		ID:     "broken",
		Name:   "Broken",
		Rarity: domain.RarityCommon,
		Criteria: []domain.Criterion{
			{Type: "nonsense"},
		},
	}
	eligible := domain.BadgeDef{
		ID:     "persistent",
		Name:   "Persistent",
		Rarity: domain.RarityCommon,
		Criteria: []domain.Criterion{
			{Type: domain.CriterionTotalAttempts, Operator: domain.OpGTE, Threshold: 1},
		},
	}

	user := &domain.User{ID: uuid.New(), Badges: []string{"speed-demon"}}
	stats := &domain.UserStatsSnapshot{TotalAttempts: 10}

	got := ResolveNewBadges([]domain.BadgeDef{earned, malformed, eligible}, stats, user, discardLogger())
	require.Len(t, got, 1)
	assert.Equal(t, "persistent", got[0].ID)
}

func TestResolveNewBadges_RepeatEvaluationEarnsOnce(t *testing.T) {
	badge := speedDemonBadge()
	user := &domain.User{ID: uuid.New()}
	stats := &domain.UserStatsSnapshot{TotalAttempts: 5}

	first := ResolveNewBadges([]domain.BadgeDef{badge}, stats, user, discardLogger())
	require.Len(t, first, 1)

	// The orchestrator appends earned badges before persisting; a second
	// evaluation against the updated user yields nothing.
	user.Badges = append(user.Badges, first[0].ID)
	second := ResolveNewBadges([]domain.BadgeDef{badge}, stats, user, discardLogger())
	assert.Empty(t, second)
}

func TestBuildSnapshot(t *testing.T) {
	user := &domain.User{
		ID:            uuid.New(),
		XP:            400,
		Streak:        7,
		TotalAttempts: 12,
		TotalScore:    900,
		FriendCount:   4,
		Flags:         []string{string(domain.CriterionPerfectScore)},
	}
	track := chainTrack()
	progress := emptyProgress(track.ID)
	progress.MarkModuleCompleted("a")

	stats := BuildSnapshot(user, track, progress)
	assert.Equal(t, int64(12), stats.TotalAttempts)
	assert.Equal(t, int64(900), stats.TotalScore)
	assert.Equal(t, 7, stats.Streak)
	assert.Equal(t, 3, stats.Level)
	assert.Equal(t, 4, stats.FriendCount)
	assert.True(t, stats.Flags[domain.CriterionPerfectScore])
	assert.True(t, stats.CompletedModules["a"])
	assert.False(t, stats.CompletedTracks[track.ID], "track incomplete")

	progress.MarkModuleCompleted("b")
	progress.MarkModuleCompleted("c")
	stats = BuildSnapshot(user, track, progress)
	assert.True(t, stats.CompletedTracks[track.ID], "all modules completed")
}
