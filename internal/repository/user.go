package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/learnpath/platform/internal/domain"
)

type userRepo struct{}

// NewUserRepository returns a pgx-backed UserRepository.
func NewUserRepository() UserRepository {
	return &userRepo{}
}

const userColumns = `id, email, password_hash, xp, coins, streak, total_attempts, total_score,
	friend_count, flags, badges, power_ups, last_active_at, created_at, updated_at`

func (r *userRepo) FindByID(ctx context.Context, db DBTX, id uuid.UUID) (*domain.User, error) {
	row := db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return scanUser(row)
}

func (r *userRepo) FindByEmail(ctx context.Context, db DBTX, email string) (*domain.User, error) {
	row := db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	return scanUser(row)
}

func (r *userRepo) Create(ctx context.Context, db DBTX, user *domain.User) error {
	_, err := db.Exec(ctx, `
		INSERT INTO users (id, email, password_hash, xp, coins, streak, total_attempts, total_score,
		                   friend_count, flags, badges, power_ups, last_active_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
		user.ID, user.Email, user.PasswordHash, user.XP, user.Coins, user.Streak,
		user.TotalAttempts, user.TotalScore, user.FriendCount,
		textArray(user.Flags), textArray(user.Badges), textArray(user.PowerUps),
		user.LastActiveAt, user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *userRepo) UpdateStats(ctx context.Context, db DBTX, user *domain.User) error {
	tag, err := db.Exec(ctx, `
		UPDATE users
		SET xp = $2, coins = $3, streak = $4, total_attempts = $5, total_score = $6,
		    friend_count = $7, flags = $8, badges = $9, power_ups = $10,
		    last_active_at = $11, updated_at = now()
		WHERE id = $1`,
		user.ID, user.XP, user.Coins, user.Streak, user.TotalAttempts, user.TotalScore,
		user.FriendCount, textArray(user.Flags), textArray(user.Badges), textArray(user.PowerUps),
		user.LastActiveAt,
	)
	if err != nil {
		return fmt.Errorf("update user stats: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update user stats: user %s not found", user.ID)
	}
	return nil
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.XP, &u.Coins, &u.Streak,
		&u.TotalAttempts, &u.TotalScore, &u.FriendCount,
		&u.Flags, &u.Badges, &u.PowerUps, &u.LastActiveAt, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan user: %w", err)
	}
	return &u, nil
}

// textArray normalizes nil slices so text[] columns never store NULL.
func textArray(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
