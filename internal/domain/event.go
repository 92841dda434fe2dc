package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// EventType enumerates all domain event types.
type EventType string

const (
	EventUserCreated        EventType = "lp.user.created"
	EventSubModuleCompleted EventType = "lp.progress.submodule.completed"
	EventModuleCompleted    EventType = "lp.progress.module.completed"
	EventBadgeEarned        EventType = "lp.badge.earned"
	EventBadgeGranted       EventType = "lp.badge.granted"
	EventTrackPublished     EventType = "lp.track.published"
)

// AggregateType enumerates the aggregate root types for outbox events.
type AggregateType string

const (
	AggregateUser     AggregateType = "user"
	AggregateProgress AggregateType = "progress"
	AggregateBadge    AggregateType = "badge"
	AggregateTrack    AggregateType = "track"
)

// OutboxDraft is the payload written to the event_outbox table.
type OutboxDraft struct {
	EventID       uuid.UUID       `json:"event_id"`
	AggregateType AggregateType   `json:"aggregate_type"`
	AggregateID   string          `json:"aggregate_id"`
	EventType     EventType       `json:"event_type"`
	PartitionKey  string          `json:"partition_key"`
	Payload       json.RawMessage `json:"payload"`
	OccurredAt    time.Time       `json:"occurred_at"`
}

// OutboxRow is an outbox event together with its sequence id, as read back
// by pollers.
type OutboxRow struct {
	SeqID int64
	OutboxDraft
}
