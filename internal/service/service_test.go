package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xeipuuv/gojsonschema"
)

func TestNextStreak(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	yesterday := now.Add(-24 * time.Hour)
	lastWeek := now.Add(-7 * 24 * time.Hour)
	earlierToday := now.Add(-2 * time.Hour)

	tests := []struct {
		name       string
		lastActive *time.Time
		streak     int
		want       int
	}{
		{"first ever activity", nil, 0, 1},
		{"same day keeps streak", &earlierToday, 4, 4},
		{"same day with zero streak floors at one", &earlierToday, 0, 1},
		{"next day extends", &yesterday, 4, 5},
		{"gap resets", &lastWeek, 9, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, nextStreak(tt.lastActive, tt.streak, now))
		})
	}
}

func TestTrackSchemaValidation(t *testing.T) {
	loader := gojsonschema.NewStringLoader(trackSchema)

	t.Run("accepts well-formed track", func(t *testing.T) {
		doc := []byte(`{
			"id": "algebra",
			"title": "Algebra",
			"modules": [
				{"id": "intro", "title": "Intro", "level": 1, "entry_point": true,
				 "sub_modules": [{"id": "s1", "title": "Lesson", "xp_value": 10}],
				 "xp_reward": 100}
			]
		}`)
		require.NoError(t, validateAgainstSchema(loader, doc))
	})

	t.Run("rejects missing modules", func(t *testing.T) {
		doc := []byte(`{"id": "algebra", "title": "Algebra"}`)
		assert.Error(t, validateAgainstSchema(loader, doc))
	})

	t.Run("rejects empty modules array", func(t *testing.T) {
		doc := []byte(`{"id": "algebra", "title": "Algebra", "modules": []}`)
		assert.Error(t, validateAgainstSchema(loader, doc))
	})

	t.Run("rejects module without level", func(t *testing.T) {
		doc := []byte(`{"id": "a", "title": "A", "modules": [{"id": "m", "title": "M"}]}`)
		assert.Error(t, validateAgainstSchema(loader, doc))
	})

	t.Run("rejects passing score above 100", func(t *testing.T) {
		doc := []byte(`{"id": "a", "title": "A", "modules": [
			{"id": "m", "title": "M", "level": 1, "passing_score": 120}
		]}`)
		assert.Error(t, validateAgainstSchema(loader, doc))
	})

	t.Run("rejects malformed JSON", func(t *testing.T) {
		assert.Error(t, validateAgainstSchema(loader, []byte(`{broken`)))
	})
}

func TestBadgeSchemaValidation(t *testing.T) {
	loader := gojsonschema.NewStringLoader(badgeSchema)

	t.Run("accepts well-formed badge", func(t *testing.T) {
		doc := []byte(`{
			"id": "speed-demon",
			"name": "Speed Demon",
			"rarity": "rare",
			"rewards": {"xp": 50, "coins": 10},
			"criteria": [{"type": "total_attempts", "operator": ">=", "threshold": 5}]
		}`)
		require.NoError(t, validateAgainstSchema(loader, doc))
	})

	t.Run("rejects unknown rarity", func(t *testing.T) {
		doc := []byte(`{"id": "b", "name": "B", "rarity": "mythic",
			"criteria": [{"type": "manual"}]}`)
		assert.Error(t, validateAgainstSchema(loader, doc))
	})

	t.Run("rejects empty criteria", func(t *testing.T) {
		doc := []byte(`{"id": "b", "name": "B", "rarity": "common", "criteria": []}`)
		assert.Error(t, validateAgainstSchema(loader, doc))
	})
}
