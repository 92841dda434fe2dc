package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/learnpath/platform/internal/domain"
)

type attemptRepo struct{}

// NewAttemptRepository returns a pgx-backed AttemptRepository.
func NewAttemptRepository() AttemptRepository {
	return &attemptRepo{}
}

func (r *attemptRepo) Insert(ctx context.Context, db DBTX, attempt *domain.QuizAttempt) error {
	_, err := db.Exec(ctx, `
		INSERT INTO quiz_attempts (id, user_id, quiz_id, percentage, duration_sec, completed_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		attempt.ID, attempt.UserID, attempt.QuizID, attempt.Percentage,
		attempt.DurationSec, attempt.CompletedAt,
	)
	if err != nil {
		return fmt.Errorf("insert attempt: %w", err)
	}
	return nil
}

func (r *attemptRepo) BestScores(ctx context.Context, db DBTX, userID uuid.UUID, quizIDs []string) (map[string]int, error) {
	scores := make(map[string]int, len(quizIDs))
	if len(quizIDs) == 0 {
		return scores, nil
	}

	rows, err := db.Query(ctx, `
		SELECT quiz_id, MAX(percentage)
		FROM quiz_attempts
		WHERE user_id = $1 AND quiz_id = ANY($2)
		GROUP BY quiz_id`, userID, quizIDs)
	if err != nil {
		return nil, fmt.Errorf("query best scores: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			quizID string
			best   int
		)
		if err := rows.Scan(&quizID, &best); err != nil {
			return nil, fmt.Errorf("scan best score: %w", err)
		}
		scores[quizID] = best
	}
	return scores, rows.Err()
}

func (r *attemptRepo) ListByQuiz(ctx context.Context, db DBTX, userID uuid.UUID, quizID string) ([]domain.QuizAttempt, error) {
	rows, err := db.Query(ctx, `
		SELECT id, user_id, quiz_id, percentage, duration_sec, completed_at
		FROM quiz_attempts
		WHERE user_id = $1 AND quiz_id = $2
		ORDER BY completed_at DESC`, userID, quizID)
	if err != nil {
		return nil, fmt.Errorf("list attempts: %w", err)
	}
	defer rows.Close()

	var out []domain.QuizAttempt
	for rows.Next() {
		var a domain.QuizAttempt
		if err := rows.Scan(&a.ID, &a.UserID, &a.QuizID, &a.Percentage, &a.DurationSec, &a.CompletedAt); err != nil {
			return nil, fmt.Errorf("scan attempt: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
