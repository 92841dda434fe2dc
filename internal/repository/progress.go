package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/learnpath/platform/internal/domain"
)

type progressRepo struct{}

// NewProgressRepository returns a pgx-backed ProgressRepository.
func NewProgressRepository() ProgressRepository {
	return &progressRepo{}
}

func (r *progressRepo) Find(ctx context.Context, db DBTX, userID uuid.UUID, trackID string) (*domain.TrackProgress, error) {
	var p domain.TrackProgress
	err := db.QueryRow(ctx, `
		SELECT user_id, track_id, completed_modules, unlocked_modules,
		       completed_sub_modules, version, updated_at
		FROM track_progress WHERE user_id = $1 AND track_id = $2`, userID, trackID).
		Scan(&p.UserID, &p.TrackID, &p.CompletedModules, &p.UnlockedModules,
			&p.CompletedSubModules, &p.Version, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan progress: %w", err)
	}
	return &p, nil
}

// Save performs the conditional write that gives the engine per-(user,track)
// serializability. Inserts race on the primary key; updates race on the
// version column. Either way a loser sees ErrVersionConflict and retries
// its whole read-modify-write cycle.
func (r *progressRepo) Save(ctx context.Context, db DBTX, progress *domain.TrackProgress) error {
	now := time.Now()

	if progress.Version == 0 {
		tag, err := db.Exec(ctx, `
			INSERT INTO track_progress
			  (user_id, track_id, completed_modules, unlocked_modules,
			   completed_sub_modules, version, updated_at)
			VALUES ($1, $2, $3, $4, $5, 1, $6)
			ON CONFLICT (user_id, track_id) DO NOTHING`,
			progress.UserID, progress.TrackID,
			textArray(progress.CompletedModules), textArray(progress.UnlockedModules),
			textArray(progress.CompletedSubModules), now,
		)
		if err != nil {
			return fmt.Errorf("insert progress: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return ErrVersionConflict
		}
		progress.Version = 1
		progress.UpdatedAt = now
		return nil
	}

	tag, err := db.Exec(ctx, `
		UPDATE track_progress
		SET completed_modules = $3, unlocked_modules = $4,
		    completed_sub_modules = $5, version = version + 1, updated_at = $6
		WHERE user_id = $1 AND track_id = $2 AND version = $7`,
		progress.UserID, progress.TrackID,
		textArray(progress.CompletedModules), textArray(progress.UnlockedModules),
		textArray(progress.CompletedSubModules), now, progress.Version,
	)
	if err != nil {
		return fmt.Errorf("update progress: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrVersionConflict
	}
	progress.Version++
	progress.UpdatedAt = now
	return nil
}
