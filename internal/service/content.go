package service

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/learnpath/platform/internal/domain"
	"github.com/learnpath/platform/internal/repository"
	"github.com/xeipuuv/gojsonschema"
)

// trackSchema is the structural contract for admin-submitted track documents.
// Graph-level rules (acyclicity, known prerequisites) are checked afterwards
// by domain.ValidateTrack; the schema rejects malformed shapes early with
// field-level messages.
const trackSchema = `{
	"type": "object",
	"required": ["id", "title", "modules"],
	"properties": {
		"id": {"type": "string", "minLength": 1},
		"title": {"type": "string", "minLength": 1},
		"subject": {"type": "string"},
		"modules": {
			"type": "array",
			"minItems": 1,
			"items": {
				"type": "object",
				"required": ["id", "title", "level"],
				"properties": {
					"id": {"type": "string", "minLength": 1},
					"title": {"type": "string", "minLength": 1},
					"level": {"type": "integer", "minimum": 1},
					"entry_point": {"type": "boolean"},
					"prerequisites": {"type": "array", "items": {"type": "string"}},
					"sub_modules": {
						"type": "array",
						"items": {
							"type": "object",
							"required": ["id", "title"],
							"properties": {
								"id": {"type": "string", "minLength": 1},
								"title": {"type": "string", "minLength": 1},
								"xp_value": {"type": "integer", "minimum": 0}
							}
						}
					},
					"quiz_ids": {"type": "array", "items": {"type": "string"}},
					"xp_reward": {"type": "integer", "minimum": 0},
					"passing_score": {"type": "integer", "minimum": 0, "maximum": 100},
					"badge_id": {"type": "string"}
				}
			}
		}
	}
}`

const badgeSchema = `{
	"type": "object",
	"required": ["id", "name", "rarity", "criteria"],
	"properties": {
		"id": {"type": "string", "minLength": 1},
		"name": {"type": "string", "minLength": 1},
		"description": {"type": "string"},
		"rarity": {"enum": ["common", "rare", "epic", "legendary"]},
		"rewards": {
			"type": "object",
			"properties": {
				"xp": {"type": "integer", "minimum": 0},
				"coins": {"type": "integer", "minimum": 0},
				"power_ups": {"type": "array", "items": {"type": "string"}}
			}
		},
		"criteria": {
			"type": "array",
			"minItems": 1,
			"items": {
				"type": "object",
				"required": ["type"],
				"properties": {
					"type": {"type": "string", "minLength": 1},
					"operator": {"type": "string"},
					"threshold": {"type": "integer"},
					"target": {"type": "string"}
				}
			}
		}
	}
}`

// ContentService handles admin authoring of tracks and badges, plus manual
// badge grants.
type ContentService struct {
	pool   *pgxpool.Pool
	tracks repository.TrackRepository
	badges repository.BadgeRepository
	users  repository.UserRepository
	outbox repository.OutboxRepository
	logger *slog.Logger

	trackLoader gojsonschema.JSONLoader
	badgeLoader gojsonschema.JSONLoader
}

// NewContentService creates a new ContentService.
func NewContentService(
	pool *pgxpool.Pool,
	tracks repository.TrackRepository,
	badges repository.BadgeRepository,
	users repository.UserRepository,
	outbox repository.OutboxRepository,
	logger *slog.Logger,
) *ContentService {
	return &ContentService{
		pool:        pool,
		tracks:      tracks,
		badges:      badges,
		users:       users,
		outbox:      outbox,
		logger:      logger,
		trackLoader: gojsonschema.NewStringLoader(trackSchema),
		badgeLoader: gojsonschema.NewStringLoader(badgeSchema),
	}
}

// validateAgainstSchema runs a raw document through a JSON schema, collapsing
// all violations into one VALIDATION_ERROR message.
func validateAgainstSchema(schema gojsonschema.JSONLoader, doc []byte) error {
	result, err := gojsonschema.Validate(schema, gojsonschema.NewBytesLoader(doc))
	if err != nil {
		return domain.ErrValidation("invalid JSON document: " + err.Error())
	}
	if result.Valid() {
		return nil
	}
	msgs := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		msgs = append(msgs, desc.String())
	}
	return domain.ErrValidation(strings.Join(msgs, "; "))
}

// SaveTrack validates and upserts a track definition. The save and its
// published event commit in one transaction; the repository layer invalidates
// any cached copy.
func (s *ContentService) SaveTrack(ctx context.Context, trackID string, doc []byte) (*domain.TrackDef, error) {
	if err := validateAgainstSchema(s.trackLoader, doc); err != nil {
		return nil, err
	}

	var track domain.TrackDef
	if err := json.Unmarshal(doc, &track); err != nil {
		return nil, domain.ErrValidation("invalid track document: " + err.Error())
	}
	if track.ID != trackID {
		return nil, domain.ErrValidation("track id in body does not match URL")
	}
	if err := domain.ValidateTrack(&track); err != nil {
		return nil, err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, domain.ErrInternal("begin tx", err)
	}
	defer tx.Rollback(ctx)

	existing, err := s.tracks.FindByID(ctx, tx, trackID)
	if err != nil {
		return nil, domain.ErrInternal("find track", err)
	}
	now := time.Now()
	if existing != nil {
		track.CreatedAt = existing.CreatedAt
	} else {
		track.CreatedAt = now
	}
	track.UpdatedAt = now

	if err := s.tracks.Save(ctx, tx, &track); err != nil {
		return nil, domain.ErrInternal("save track", err)
	}
	if err := s.outbox.Insert(ctx, tx, domain.NewTrackPublishedEvent(track.ID, len(track.Modules))); err != nil {
		return nil, domain.ErrInternal("insert track event", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, domain.ErrInternal("commit tx", err)
	}

	s.logger.Info("track saved", "track_id", track.ID, "modules", len(track.Modules))
	return &track, nil
}

// SaveBadge validates and upserts a badge definition.
func (s *ContentService) SaveBadge(ctx context.Context, badgeID string, doc []byte) (*domain.BadgeDef, error) {
	if err := validateAgainstSchema(s.badgeLoader, doc); err != nil {
		return nil, err
	}

	var badge domain.BadgeDef
	if err := json.Unmarshal(doc, &badge); err != nil {
		return nil, domain.ErrValidation("invalid badge document: " + err.Error())
	}
	if badge.ID != badgeID {
		return nil, domain.ErrValidation("badge id in body does not match URL")
	}
	if err := domain.ValidateBadge(&badge); err != nil {
		return nil, err
	}

	if err := s.badges.Save(ctx, s.pool, &badge); err != nil {
		return nil, domain.ErrInternal("save badge", err)
	}

	s.logger.Info("badge saved", "badge_id", badge.ID, "criteria", len(badge.Criteria))
	return &badge, nil
}

// GrantBadge manually awards a badge to a user, applying its rewards. This is
// the only path that can award manual-criteria badges. Re-granting a badge
// the user already holds is a no-op.
func (s *ContentService) GrantBadge(ctx context.Context, userID uuid.UUID, badgeID string) (*domain.User, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, domain.ErrInternal("begin tx", err)
	}
	defer tx.Rollback(ctx)

	badge, err := s.badges.FindByID(ctx, tx, badgeID)
	if err != nil {
		return nil, domain.ErrInternal("find badge", err)
	}
	if badge == nil {
		return nil, domain.ErrNotFound("badge", badgeID)
	}

	user, err := s.users.FindByID(ctx, tx, userID)
	if err != nil {
		return nil, domain.ErrInternal("find user", err)
	}
	if user == nil {
		return nil, domain.ErrNotFound("user", userID.String())
	}
	if user.HasBadge(badgeID) {
		return user, nil
	}

	user.Badges = append(user.Badges, badge.ID)
	user.XP += int64(badge.Rewards.XP)
	user.Coins += badge.Rewards.Coins
	user.PowerUps = append(user.PowerUps, badge.Rewards.PowerUps...)

	if err := s.users.UpdateStats(ctx, tx, user); err != nil {
		return nil, domain.ErrInternal("update user", err)
	}
	if err := s.outbox.Insert(ctx, tx, domain.NewBadgeGrantedEvent(userID, badgeID, badge.Rewards)); err != nil {
		return nil, domain.ErrInternal("insert grant event", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, domain.ErrInternal("commit tx", err)
	}

	s.logger.Info("badge granted", "user_id", userID, "badge_id", badgeID)
	return user, nil
}
