package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/learnpath/platform/internal/domain"
)

// ErrVersionConflict is returned by ProgressRepository.Save when the stored
// record's version no longer matches the one that was read. Callers retry
// the whole read-modify-write cycle.
var ErrVersionConflict = errors.New("progress version conflict")

// DBTX abstracts pgx.Tx and pgxpool.Pool so repositories work with both.
type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

// UserRepository provides access to users.
type UserRepository interface {
	// FindByID returns a user by id, or nil if absent.
	FindByID(ctx context.Context, db DBTX, id uuid.UUID) (*domain.User, error)

	// FindByEmail returns a user by email, or nil if absent.
	FindByEmail(ctx context.Context, db DBTX, email string) (*domain.User, error)

	// Create inserts a new user.
	Create(ctx context.Context, db DBTX, user *domain.User) error

	// UpdateStats writes the mutable gamification columns: XP, coins,
	// streak, counters, flags, badges and power-ups.
	UpdateStats(ctx context.Context, db DBTX, user *domain.User) error
}

// TrackRepository provides access to authored track definitions.
type TrackRepository interface {
	// FindByID returns a track definition, or nil if absent.
	FindByID(ctx context.Context, db DBTX, id string) (*domain.TrackDef, error)

	// List returns summaries of all tracks.
	List(ctx context.Context, db DBTX) ([]domain.TrackSummary, error)

	// Save upserts a track definition.
	Save(ctx context.Context, db DBTX, track *domain.TrackDef) error
}

// ProgressRepository provides access to per-user track progress records.
type ProgressRepository interface {
	// Find returns the progress record, or nil on first interaction.
	Find(ctx context.Context, db DBTX, userID uuid.UUID, trackID string) (*domain.TrackProgress, error)

	// Save writes the record with a compare-and-swap on its version:
	// the write succeeds only if the stored version equals
	// progress.Version, and increments it. Returns ErrVersionConflict
	// otherwise. A record read as absent saves with version 0.
	Save(ctx context.Context, db DBTX, progress *domain.TrackProgress) error
}

// BadgeRepository provides access to authored badge definitions.
type BadgeRepository interface {
	// FindByID returns a badge definition, or nil if absent.
	FindByID(ctx context.Context, db DBTX, id string) (*domain.BadgeDef, error)

	// List returns all badge definitions.
	List(ctx context.Context, db DBTX) ([]domain.BadgeDef, error)

	// Save upserts a badge definition.
	Save(ctx context.Context, db DBTX, badge *domain.BadgeDef) error
}

// AttemptRepository provides access to recorded quiz attempts.
type AttemptRepository interface {
	// Insert records a quiz attempt.
	Insert(ctx context.Context, db DBTX, attempt *domain.QuizAttempt) error

	// BestScores returns the user's best percentage per quiz id. Quizzes
	// with no attempts are absent from the map.
	BestScores(ctx context.Context, db DBTX, userID uuid.UUID, quizIDs []string) (map[string]int, error)

	// ListByQuiz returns a user's attempts for one quiz, newest first.
	ListByQuiz(ctx context.Context, db DBTX, userID uuid.UUID, quizID string) ([]domain.QuizAttempt, error)
}

// OutboxRepository provides access to the event_outbox table.
type OutboxRepository interface {
	// Insert writes an outbox event (within the same transaction as the
	// state change it describes).
	Insert(ctx context.Context, db DBTX, draft domain.OutboxDraft) error

	// FetchUnpublishedRows returns pending events for pollers.
	FetchUnpublishedRows(ctx context.Context, db DBTX, limit int) ([]domain.OutboxRow, error)

	// MarkPublished removes published events.
	MarkPublished(ctx context.Context, db DBTX, ids []int64) error
}
