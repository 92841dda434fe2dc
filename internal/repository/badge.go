package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/learnpath/platform/internal/domain"
)

type badgeRepo struct{}

// NewBadgeRepository returns a pgx-backed BadgeRepository. Like tracks,
// badge definitions are stored as JSONB documents.
func NewBadgeRepository() BadgeRepository {
	return &badgeRepo{}
}

func (r *badgeRepo) FindByID(ctx context.Context, db DBTX, id string) (*domain.BadgeDef, error) {
	var raw []byte
	err := db.QueryRow(ctx, `SELECT definition FROM badges WHERE id = $1`, id).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan badge: %w", err)
	}
	return decodeBadge(raw)
}

func (r *badgeRepo) List(ctx context.Context, db DBTX) ([]domain.BadgeDef, error) {
	rows, err := db.Query(ctx, `SELECT definition FROM badges ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list badges: %w", err)
	}
	defer rows.Close()

	var out []domain.BadgeDef
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan badge: %w", err)
		}
		badge, err := decodeBadge(raw)
		if err != nil {
			return nil, err
		}
		out = append(out, *badge)
	}
	return out, rows.Err()
}

func (r *badgeRepo) Save(ctx context.Context, db DBTX, badge *domain.BadgeDef) error {
	now := time.Now()
	if badge.CreatedAt.IsZero() {
		badge.CreatedAt = now
	}
	badge.UpdatedAt = now
	raw, err := json.Marshal(badge)
	if err != nil {
		return fmt.Errorf("encode badge: %w", err)
	}
	_, err = db.Exec(ctx, `
		INSERT INTO badges (id, definition, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE
		SET definition = EXCLUDED.definition, updated_at = EXCLUDED.updated_at`,
		badge.ID, raw, now,
	)
	if err != nil {
		return fmt.Errorf("save badge: %w", err)
	}
	return nil
}

func decodeBadge(raw []byte) (*domain.BadgeDef, error) {
	var badge domain.BadgeDef
	if err := json.Unmarshal(raw, &badge); err != nil {
		return nil, fmt.Errorf("decode badge: %w", err)
	}
	return &badge, nil
}
