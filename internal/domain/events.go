package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// NewUserCreatedEvent creates a user lifecycle event.
func NewUserCreatedEvent(userID uuid.UUID, email string) OutboxDraft {
	payload, _ := json.Marshal(map[string]string{
		"user_id": userID.String(),
		"email":   email,
	})
	return OutboxDraft{
		EventID:       uuid.New(),
		AggregateType: AggregateUser,
		AggregateID:   userID.String(),
		EventType:     EventUserCreated,
		PartitionKey:  userID.String(),
		Payload:       payload,
		OccurredAt:    time.Now(),
	}
}

// NewSubModuleCompletedEvent records a sub-module completion with the XP it
// awarded.
func NewSubModuleCompletedEvent(userID uuid.UUID, trackID, moduleID, subModuleID string, xp int) OutboxDraft {
	payload, _ := json.Marshal(map[string]interface{}{
		"user_id":       userID.String(),
		"track_id":      trackID,
		"module_id":     moduleID,
		"sub_module_id": subModuleID,
		"xp_awarded":    xp,
	})
	return OutboxDraft{
		EventID:       uuid.New(),
		AggregateType: AggregateProgress,
		AggregateID:   userID.String() + ":" + trackID,
		EventType:     EventSubModuleCompleted,
		PartitionKey:  userID.String(),
		Payload:       payload,
		OccurredAt:    time.Now(),
	}
}

// NewModuleCompletedEvent records a module completion, including modules that
// newly became available because this one is now a satisfied prerequisite.
func NewModuleCompletedEvent(userID uuid.UUID, trackID, moduleID string, xp int, newlyAvailable []string) OutboxDraft {
	payload, _ := json.Marshal(map[string]interface{}{
		"user_id":         userID.String(),
		"track_id":        trackID,
		"module_id":       moduleID,
		"xp_awarded":      xp,
		"newly_available": newlyAvailable,
	})
	return OutboxDraft{
		EventID:       uuid.New(),
		AggregateType: AggregateProgress,
		AggregateID:   userID.String() + ":" + trackID,
		EventType:     EventModuleCompleted,
		PartitionKey:  userID.String(),
		Payload:       payload,
		OccurredAt:    time.Now(),
	}
}

// NewBadgeEarnedEvent records a criteria-evaluated or module-granted badge.
// Manual admin grants use NewBadgeGrantedEvent instead.
func NewBadgeEarnedEvent(userID uuid.UUID, badgeID string, rewards BadgeRewards) OutboxDraft {
	return badgeEvent(userID, badgeID, rewards, EventBadgeEarned)
}

// NewBadgeGrantedEvent records an administrator-granted badge.
func NewBadgeGrantedEvent(userID uuid.UUID, badgeID string, rewards BadgeRewards) OutboxDraft {
	return badgeEvent(userID, badgeID, rewards, EventBadgeGranted)
}

func badgeEvent(userID uuid.UUID, badgeID string, rewards BadgeRewards, evtType EventType) OutboxDraft {
	payload, _ := json.Marshal(map[string]interface{}{
		"user_id":  userID.String(),
		"badge_id": badgeID,
		"rewards":  rewards,
	})
	return OutboxDraft{
		EventID:       uuid.New(),
		AggregateType: AggregateBadge,
		AggregateID:   badgeID,
		EventType:     evtType,
		PartitionKey:  userID.String(),
		Payload:       payload,
		OccurredAt:    time.Now(),
	}
}

// NewTrackPublishedEvent records an admin save of a track definition.
func NewTrackPublishedEvent(trackID string, moduleCount int) OutboxDraft {
	payload, _ := json.Marshal(map[string]interface{}{
		"track_id":     trackID,
		"module_count": moduleCount,
	})
	return OutboxDraft{
		EventID:       uuid.New(),
		AggregateType: AggregateTrack,
		AggregateID:   trackID,
		EventType:     EventTrackPublished,
		PartitionKey:  trackID,
		Payload:       payload,
		OccurredAt:    time.Now(),
	}
}
