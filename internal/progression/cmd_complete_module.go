package progression

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/learnpath/platform/internal/domain"
)

// CompleteModule marks a module as completed for the user. Completion is
// always an explicit command: finishing every sub-item never completes a
// module implicitly, because completion issues rewards and must not fire
// from a read path.
//
// Beyond the sub-module flow, this command recomputes which other modules
// newly became available with this module as a satisfied prerequisite, and
// unconditionally grants the module's direct badge if it defines one.
func (e *Engine) CompleteModule(ctx context.Context, userID uuid.UUID, trackID, moduleID string) (*CompletionResult, error) {
	return e.retryOnConflict(ctx, func(ctx context.Context) (*CompletionResult, error) {
		return e.completeModuleOnce(ctx, userID, trackID, moduleID)
	})
}

func (e *Engine) completeModuleOnce(ctx context.Context, userID uuid.UUID, trackID, moduleID string) (*CompletionResult, error) {
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

	user, err := e.loadUser(ctx, tx, userID)
	if err != nil {
		return nil, err
	}
	progress, err := e.loadProgress(ctx, tx, userID, trackID)
	if err != nil {
		return nil, err
	}

	if progress.ModuleCompleted(moduleID) {
		return &CompletionResult{Progress: progress, Idempotent: true}, nil
	}

	scores, err := e.attempts.BestScores(ctx, tx, userID, TrackQuizIDs(track))
	if err != nil {
		return nil, fmt.Errorf("load attempts: %w", err)
	}
	before := Resolve(track, progress, scores)
	if before[moduleID].State != StateAvailable {
		return nil, domain.ErrLocked(moduleID)
	}

	progress.MarkModuleCompleted(moduleID)
	xp := int64(module.XPReward)
	user.XP += xp

	// Materialize the unlock set so downstream consumers see availability
	// without re-walking the graph.
	newlyAvailable := AvailableDiff(track, before, Resolve(track, progress, scores))
	for _, id := range newlyAvailable {
		progress.Unlock(id)
	}

	var coins int64
	directBadge, err := e.grantModuleBadge(ctx, tx, user, module)
	if err != nil {
		return nil, err
	}
	if directBadge != nil {
		coins += directBadge.Rewards.Coins
	}

	newBadges, badgeCoins, err := e.awardBadges(ctx, tx, user, track, progress)
	if err != nil {
		return nil, err
	}
	coins += badgeCoins
	if directBadge != nil {
		newBadges = append([]domain.BadgeDef{*directBadge}, newBadges...)
	}

	if err := e.outbox.Insert(ctx, tx, domain.NewModuleCompletedEvent(userID, trackID, moduleID, module.XPReward, newlyAvailable)); err != nil {
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

	e.logger.Info("module completed",
		"user_id", userID,
		"track_id", trackID,
		"module_id", moduleID,
		"xp", xp,
		"newly_available", newlyAvailable,
		"new_badges", len(newBadges),
	)

	return &CompletionResult{
		Progress:       progress,
		NewBadges:      newBadges,
		XPAwarded:      xp + badgeXP(newBadges),
		CoinsAwarded:   coins,
		NewlyAvailable: newlyAvailable,
	}, nil
}

// grantModuleBadge applies a module's direct badge grant, bypassing criteria
// evaluation. Skips silently if the user already has it; a dangling badge id
// is logged and skipped rather than failing the completion.
func (e *Engine) grantModuleBadge(ctx context.Context, tx pgx.Tx, user *domain.User, module *domain.ModuleDef) (*domain.BadgeDef, error) {
	if module.BadgeID == "" || user.HasBadge(module.BadgeID) {
		return nil, nil
	}
	badge, err := e.badges.FindByID(ctx, tx, module.BadgeID)
	if err != nil {
		return nil, fmt.Errorf("load module badge: %w", err)
	}
	if badge == nil {
		e.logger.Warn("module references unknown badge", "module_id", module.ID, "badge_id", module.BadgeID)
		return nil, nil
	}

	user.Badges = append(user.Badges, badge.ID)
	user.XP += int64(badge.Rewards.XP)
	user.Coins += badge.Rewards.Coins
	user.PowerUps = append(user.PowerUps, badge.Rewards.PowerUps...)
	if err := e.outbox.Insert(ctx, tx, domain.NewBadgeEarnedEvent(user.ID, badge.ID, badge.Rewards)); err != nil {
		return nil, fmt.Errorf("insert badge event: %w", err)
	}
	return badge, nil
}
