package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/learnpath/platform/internal/domain"
	"github.com/learnpath/platform/internal/progression"
	"github.com/learnpath/platform/internal/repository"
)

// speedRunSeconds is the cutoff for the speed_demon flag: a passing attempt
// finished at or under this duration counts as a speed run.
const speedRunSeconds = 60

// QuizService records quiz attempts and maintains the per-user counters,
// flags and streak that badge criteria read.
type QuizService struct {
	pool     *pgxpool.Pool
	users    repository.UserRepository
	attempts repository.AttemptRepository
	badges   repository.BadgeRepository
	outbox   repository.OutboxRepository
	logger   *slog.Logger
	now      func() time.Time
}

// NewQuizService creates a new QuizService.
func NewQuizService(
	pool *pgxpool.Pool,
	users repository.UserRepository,
	attempts repository.AttemptRepository,
	badges repository.BadgeRepository,
	outbox repository.OutboxRepository,
	logger *slog.Logger,
) *QuizService {
	return &QuizService{
		pool:     pool,
		users:    users,
		attempts: attempts,
		badges:   badges,
		outbox:   outbox,
		logger:   logger,
		now:      time.Now,
	}
}

// AttemptInput holds the submitted attempt fields.
type AttemptInput struct {
	Percentage  int `json:"percentage"`
	DurationSec int `json:"duration_sec"`
}

// AttemptResult is returned after recording an attempt.
type AttemptResult struct {
	AttemptID uuid.UUID         `json:"attempt_id"`
	Passed    bool              `json:"passed"`
	Streak    int               `json:"streak"`
	NewBadges []domain.BadgeDef `json:"new_badges"`
}

// RecordAttempt persists a quiz attempt and updates the user's aggregate
// stats in one transaction. Attempts are append-only; best scores are derived
// at read time, so a worse retry never regresses progress.
func (s *QuizService) RecordAttempt(ctx context.Context, userID uuid.UUID, quizID string, input AttemptInput) (*AttemptResult, error) {
	if input.Percentage < 0 || input.Percentage > 100 {
		return nil, domain.ErrValidation("percentage must be between 0 and 100")
	}
	if input.DurationSec < 0 {
		return nil, domain.ErrValidation("duration_sec must not be negative")
	}
	if err := domain.ValidateSlug(quizID); err != nil {
		return nil, domain.ErrValidation("invalid quiz id: " + err.Error())
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, domain.ErrInternal("begin tx", err)
	}
	defer tx.Rollback(ctx)

	user, err := s.users.FindByID(ctx, tx, userID)
	if err != nil {
		return nil, domain.ErrInternal("find user", err)
	}
	if user == nil {
		return nil, domain.ErrNotFound("user", userID.String())
	}

	now := s.now()
	attempt := &domain.QuizAttempt{
		ID:          uuid.New(),
		UserID:      userID,
		QuizID:      quizID,
		Percentage:  input.Percentage,
		DurationSec: input.DurationSec,
		CompletedAt: now,
	}
	if err := s.attempts.Insert(ctx, tx, attempt); err != nil {
		return nil, domain.ErrInternal("insert attempt", err)
	}

	user.TotalAttempts++
	user.TotalScore += int64(input.Percentage)
	user.Streak = nextStreak(user.LastActiveAt, user.Streak, now)
	user.LastActiveAt = &now

	passed := input.Percentage >= domain.DefaultPassingScore
	if passed {
		user.SetFlag(domain.CriterionExamPass)
	}
	if input.Percentage == 100 {
		user.SetFlag(domain.CriterionPerfectScore)
	}
	if passed && input.DurationSec > 0 && input.DurationSec <= speedRunSeconds {
		user.SetFlag(domain.CriterionSpeedDemon)
	}

	newBadges, err := s.awardCounterBadges(ctx, tx, user)
	if err != nil {
		return nil, err
	}

	if err := s.users.UpdateStats(ctx, tx, user); err != nil {
		return nil, domain.ErrInternal("update user", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, domain.ErrInternal("commit tx", err)
	}

	s.logger.Info("quiz attempt recorded",
		"user_id", userID,
		"quiz_id", quizID,
		"percentage", input.Percentage,
		"passed", passed,
		"new_badges", len(newBadges),
	)

	return &AttemptResult{
		AttemptID: attempt.ID,
		Passed:    passed,
		Streak:    user.Streak,
		NewBadges: newBadges,
	}, nil
}

// awardCounterBadges evaluates counter and flag criteria after an attempt.
// Structural criteria see empty sets here; they are evaluated on the
// completion path where track context exists.
func (s *QuizService) awardCounterBadges(ctx context.Context, tx repository.DBTX, user *domain.User) ([]domain.BadgeDef, error) {
	defs, err := s.badges.List(ctx, tx)
	if err != nil {
		return nil, domain.ErrInternal("load badges", err)
	}

	stats := &domain.UserStatsSnapshot{
		TotalAttempts:    user.TotalAttempts,
		TotalScore:       user.TotalScore,
		Streak:           user.Streak,
		Level:            user.Level(),
		FriendCount:      user.FriendCount,
		Flags:            make(map[domain.CriterionType]bool, len(user.Flags)),
		CompletedModules: map[string]bool{},
		CompletedTracks:  map[string]bool{},
	}
	for _, f := range user.Flags {
		stats.Flags[domain.CriterionType(f)] = true
	}

	earned := progression.ResolveNewBadges(defs, stats, user, s.logger)
	for i := range earned {
		b := &earned[i]
		user.Badges = append(user.Badges, b.ID)
		user.XP += int64(b.Rewards.XP)
		user.Coins += b.Rewards.Coins
		user.PowerUps = append(user.PowerUps, b.Rewards.PowerUps...)
		if err := s.outbox.Insert(ctx, tx, domain.NewBadgeEarnedEvent(user.ID, b.ID, b.Rewards)); err != nil {
			return nil, domain.ErrInternal("insert badge event", err)
		}
	}
	return earned, nil
}

// nextStreak advances the daily activity streak: same-day activity keeps it,
// next-day activity extends it, a gap resets it to 1.
func nextStreak(lastActive *time.Time, streak int, now time.Time) int {
	if lastActive == nil {
		return 1
	}
	last := lastActive.Truncate(24 * time.Hour)
	today := now.Truncate(24 * time.Hour)
	switch int(today.Sub(last).Hours() / 24) {
	case 0:
		if streak < 1 {
			return 1
		}
		return streak
	case 1:
		return streak + 1
	default:
		return 1
	}
}
