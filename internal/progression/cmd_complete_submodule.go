package progression

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/learnpath/platform/internal/domain"
)

// CompleteSubModule marks a sub-module as completed for the user, awards its
// XP, evaluates badges against the updated stats, and persists everything in
// one transaction. Re-completing an already-completed sub-module is an
// idempotent no-op, not an error; completing a sub-module of a module that
// is not available fails with MODULE_LOCKED.
func (e *Engine) CompleteSubModule(ctx context.Context, userID uuid.UUID, trackID, moduleID, subModuleID string) (*CompletionResult, error) {
	return e.retryOnConflict(ctx, func(ctx context.Context) (*CompletionResult, error) {
		return e.completeSubModuleOnce(ctx, userID, trackID, moduleID, subModuleID)
	})
}

func (e *Engine) completeSubModuleOnce(ctx context.Context, userID uuid.UUID, trackID, moduleID, subModuleID string) (*CompletionResult, error) {
	tx, err := e.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	track, err := e.loadTrack(ctx, tx, trackID)
	if err != nil {
		return nil, err
	}
	module := track.Module(moduleID)
	if module == nil {
		return nil, domain.ErrNotFound("module", moduleID)
	}
	sub := module.SubModule(subModuleID)
	if sub == nil {
		return nil, domain.ErrNotFound("sub-module", subModuleID)
	}

	user, err := e.loadUser(ctx, tx, userID)
	if err != nil {
		return nil, err
	}
	progress, err := e.loadProgress(ctx, tx, userID, trackID)
	if err != nil {
		return nil, err
	}

	// Duplicate client retries and concurrent double-submits land here.
	if progress.SubModuleCompleted(moduleID, subModuleID) {
		return &CompletionResult{Progress: progress, Idempotent: true}, nil
	}

	scores, err := e.attempts.BestScores(ctx, tx, userID, TrackQuizIDs(track))
	if err != nil {
		return nil, fmt.Errorf("load attempts: %w", err)
	}
	if Resolve(track, progress, scores)[moduleID].State != StateAvailable {
		return nil, domain.ErrLocked(moduleID)
	}

	progress.MarkSubModuleCompleted(moduleID, subModuleID)
	xp := int64(sub.XPValue)
	user.XP += xp

	newBadges, coins, err := e.awardBadges(ctx, tx, user, track, progress)
	if err != nil {
		return nil, err
	}

	if err := e.outbox.Insert(ctx, tx, domain.NewSubModuleCompletedEvent(userID, trackID, moduleID, subModuleID, sub.XPValue)); err != nil {
		return nil, fmt.Errorf("insert completion event: %w", err)
	}
	if err := e.progress.Save(ctx, tx, progress); err != nil {
		return nil, err
	}
	if err := e.users.UpdateStats(ctx, tx, user); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}

	e.logger.Info("sub-module completed",
		"user_id", userID,
		"track_id", trackID,
		"module_id", moduleID,
		"sub_module_id", subModuleID,
		"xp", xp,
		"new_badges", len(newBadges),
	)

	return &CompletionResult{
		Progress:     progress,
		NewBadges:    newBadges,
		XPAwarded:    xp + badgeXP(newBadges),
		CoinsAwarded: coins,
	}, nil
}

func badgeXP(badges []domain.BadgeDef) int64 {
	var xp int64
	for i := range badges {
		xp += int64(badges[i].Rewards.XP)
	}
	return xp
}
