package repository

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/learnpath/platform/internal/domain"
	"github.com/redis/go-redis/v9"
)

const trackCacheTTL = 5 * time.Minute

// CachedTrackRepository is a read-through Redis cache over a
// TrackRepository. Track definitions are immutable during a single
// evaluation and change only on admin saves, so a short TTL plus explicit
// invalidation on save keeps readers off the database.
type CachedTrackRepository struct {
	inner  TrackRepository
	client *redis.Client
	logger *slog.Logger
}

// NewCachedTrackRepository wraps a TrackRepository with a Redis cache.
// A nil client disables caching and delegates every call.
func NewCachedTrackRepository(inner TrackRepository, client *redis.Client, logger *slog.Logger) *CachedTrackRepository {
	return &CachedTrackRepository{inner: inner, client: client, logger: logger}
}

func trackCacheKey(id string) string { return "lp:track:" + id }

func (r *CachedTrackRepository) FindByID(ctx context.Context, db DBTX, id string) (*domain.TrackDef, error) {
	if r.client != nil {
		raw, err := r.client.Get(ctx, trackCacheKey(id)).Bytes()
		if err == nil {
			var track domain.TrackDef
			if err := json.Unmarshal(raw, &track); err == nil {
				return &track, nil
			}
			// Corrupt entry: fall through to the database.
			r.client.Del(ctx, trackCacheKey(id))
		} else if !errors.Is(err, redis.Nil) {
			r.logger.Warn("track cache read failed", "track_id", id, "error", err)
		}
	}

	track, err := r.inner.FindByID(ctx, db, id)
	if err != nil || track == nil {
		return track, err
	}

	if r.client != nil {
		if raw, err := json.Marshal(track); err == nil {
			if err := r.client.Set(ctx, trackCacheKey(id), raw, trackCacheTTL).Err(); err != nil {
				r.logger.Warn("track cache write failed", "track_id", id, "error", err)
			}
		}
	}
	return track, nil
}

func (r *CachedTrackRepository) List(ctx context.Context, db DBTX) ([]domain.TrackSummary, error) {
	return r.inner.List(ctx, db)
}

func (r *CachedTrackRepository) Save(ctx context.Context, db DBTX, track *domain.TrackDef) error {
	if err := r.inner.Save(ctx, db, track); err != nil {
		return err
	}
	if r.client != nil {
		if err := r.client.Del(ctx, trackCacheKey(track.ID)).Err(); err != nil {
			r.logger.Warn("track cache invalidation failed", "track_id", track.ID, "error", err)
		}
	}
	return nil
}
