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

type trackRepo struct{}

// NewTrackRepository returns a pgx-backed TrackRepository. The module graph
// is stored as a JSONB document: track definitions are authored wholesale
// and read wholesale, so a normalized module table would only add joins.
func NewTrackRepository() TrackRepository {
	return &trackRepo{}
}

func (r *trackRepo) FindByID(ctx context.Context, db DBTX, id string) (*domain.TrackDef, error) {
	var (
		track   domain.TrackDef
		modules []byte
	)
	err := db.QueryRow(ctx, `
		SELECT id, title, subject, modules, created_at, updated_at
		FROM tracks WHERE id = $1`, id).
		Scan(&track.ID, &track.Title, &track.Subject, &modules, &track.CreatedAt, &track.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan track: %w", err)
	}
	if err := json.Unmarshal(modules, &track.Modules); err != nil {
		return nil, fmt.Errorf("decode track modules: %w", err)
	}
	return &track, nil
}

func (r *trackRepo) List(ctx context.Context, db DBTX) ([]domain.TrackSummary, error) {
	rows, err := db.Query(ctx, `
		SELECT id, title, subject, jsonb_array_length(modules)
		FROM tracks ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list tracks: %w", err)
	}
	defer rows.Close()

	var out []domain.TrackSummary
	for rows.Next() {
		var s domain.TrackSummary
		if err := rows.Scan(&s.ID, &s.Title, &s.Subject, &s.ModuleCount); err != nil {
			return nil, fmt.Errorf("scan track summary: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *trackRepo) Save(ctx context.Context, db DBTX, track *domain.TrackDef) error {
	modules, err := json.Marshal(track.Modules)
	if err != nil {
		return fmt.Errorf("encode track modules: %w", err)
	}
	now := time.Now()
	_, err = db.Exec(ctx, `
		INSERT INTO tracks (id, title, subject, modules, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $5)
		ON CONFLICT (id) DO UPDATE
		SET title = EXCLUDED.title, subject = EXCLUDED.subject,
		    modules = EXCLUDED.modules, updated_at = EXCLUDED.updated_at`,
		track.ID, track.Title, track.Subject, modules, now,
	)
	if err != nil {
		return fmt.Errorf("save track: %w", err)
	}
	track.UpdatedAt = now
	return nil
}
