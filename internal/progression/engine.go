package progression

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/learnpath/platform/internal/domain"
	"github.com/learnpath/platform/internal/repository"
)

// maxRetries bounds the read-modify-write retry loop on version conflicts.
const maxRetries = 3

// TxBeginner starts database transactions. *pgxpool.Pool satisfies it.
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Engine is the completion orchestrator: the only stateful boundary around
// the pure resolver and badge evaluation. Each completion command runs a
// full read-modify-write cycle inside one transaction; the progress save is
// a compare-and-swap on the record's version, and the whole cycle retries on
// conflict so concurrent completions for the same user and track serialize
// without losing updates.
type Engine struct {
	db       TxBeginner
	users    repository.UserRepository
	tracks   repository.TrackRepository
	progress repository.ProgressRepository
	badges   repository.BadgeRepository
	attempts repository.AttemptRepository
	outbox   repository.OutboxRepository
	logger   *slog.Logger
}

// NewEngine creates a completion orchestrator over the given repositories.
func NewEngine(
	db TxBeginner,
	users repository.UserRepository,
	tracks repository.TrackRepository,
	progress repository.ProgressRepository,
	badges repository.BadgeRepository,
	attempts repository.AttemptRepository,
	outbox repository.OutboxRepository,
	logger *slog.Logger,
) *Engine {
	return &Engine{
		db:       db,
		users:    users,
		tracks:   tracks,
		progress: progress,
		badges:   badges,
		attempts: attempts,
		outbox:   outbox,
		logger:   logger,
	}
}

// CompletionResult is the diff returned by a completion command.
type CompletionResult struct {
	Progress       *domain.TrackProgress `json:"progress"`
	NewBadges      []domain.BadgeDef     `json:"new_badges"`
	XPAwarded      int64                 `json:"xp_awarded"`
	CoinsAwarded   int64                 `json:"coins_awarded"`
	NewlyAvailable []string              `json:"newly_available,omitempty"`
	Idempotent     bool                  `json:"-"`
}

// State resolves the per-module view of a track for one user: the read-only
// entry point consumed by the roadmap UI.
func (e *Engine) State(ctx context.Context, userID uuid.UUID, trackID string) (map[string]ModuleStatus, error) {
	tx, err := e.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	track, err := e.loadTrack(ctx, tx, trackID)
	if err != nil {
		return nil, err
	}
	progress, err := e.progress.Find(ctx, tx, userID, trackID)
	if err != nil {
		return nil, fmt.Errorf("load progress: %w", err)
	}
	scores, err := e.attempts.BestScores(ctx, tx, userID, TrackQuizIDs(track))
	if err != nil {
		return nil, fmt.Errorf("load attempts: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return Resolve(track, progress, scores), nil
}

// retryOnConflict runs op until it succeeds, fails with a non-conflict
// error, or maxRetries attempts have been used.
func (e *Engine) retryOnConflict(ctx context.Context, op func(ctx context.Context) (*CompletionResult, error)) (*CompletionResult, error) {
	for attempt := 1; attempt <= maxRetries; attempt++ {
		result, err := op(ctx)
		if err == nil {
			return result, nil
		}
		if !errors.Is(err, repository.ErrVersionConflict) {
			return nil, err
		}
		e.logger.Debug("progress version conflict, retrying", "attempt", attempt)
	}
	return nil, domain.ErrConflict("concurrent progress update, please retry")
}

// loadTrack fetches a track definition or fails with NOT_FOUND.
func (e *Engine) loadTrack(ctx context.Context, db repository.DBTX, trackID string) (*domain.TrackDef, error) {
	track, err := e.tracks.FindByID(ctx, db, trackID)
	if err != nil {
		return nil, fmt.Errorf("load track: %w", err)
	}
	if track == nil {
		return nil, domain.ErrNotFound("track", trackID)
	}
	return track, nil
}

// loadUser fetches a user or fails with NOT_FOUND.
func (e *Engine) loadUser(ctx context.Context, db repository.DBTX, userID uuid.UUID) (*domain.User, error) {
	user, err := e.users.FindByID(ctx, db, userID)
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	if user == nil {
		return nil, domain.ErrNotFound("user", userID.String())
	}
	return user, nil
}

// loadProgress fetches the progress record, creating an empty one on first
// interaction with the track.
func (e *Engine) loadProgress(ctx context.Context, db repository.DBTX, userID uuid.UUID, trackID string) (*domain.TrackProgress, error) {
	progress, err := e.progress.Find(ctx, db, userID, trackID)
	if err != nil {
		return nil, fmt.Errorf("load progress: %w", err)
	}
	if progress == nil {
		progress = domain.NewTrackProgress(userID, trackID)
	}
	return progress, nil
}

// awardBadges evaluates all badge definitions against a fresh snapshot,
// applies rewards to the user, and writes one earned event per badge.
// Returns the badges newly earned and the coin delta applied.
func (e *Engine) awardBadges(ctx context.Context, tx pgx.Tx, user *domain.User, track *domain.TrackDef, progress *domain.TrackProgress) ([]domain.BadgeDef, int64, error) {
	defs, err := e.badges.List(ctx, tx)
	if err != nil {
		return nil, 0, fmt.Errorf("load badges: %w", err)
	}

	stats := BuildSnapshot(user, track, progress)
	earned := ResolveNewBadges(defs, stats, user, e.logger)

	var coins int64
	for i := range earned {
		b := &earned[i]
		user.Badges = append(user.Badges, b.ID)
		user.XP += int64(b.Rewards.XP)
		user.Coins += b.Rewards.Coins
		coins += b.Rewards.Coins
		user.PowerUps = append(user.PowerUps, b.Rewards.PowerUps...)
		if err := e.outbox.Insert(ctx, tx, domain.NewBadgeEarnedEvent(user.ID, b.ID, b.Rewards)); err != nil {
			return nil, 0, fmt.Errorf("insert badge event: %w", err)
		}
	}
	return earned, coins, nil
}
