package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// TrackProgress is a user's mutable progress record for one track. The
// completed/unlocked sets are append-only: no operation removes an entry.
// Version is the optimistic-concurrency token checked on save.
type TrackProgress struct {
	UserID              uuid.UUID `json:"user_id"`
	TrackID             string    `json:"track_id"`
	CompletedModules    []string  `json:"completed_modules"`
	UnlockedModules     []string  `json:"unlocked_modules"`
	CompletedSubModules []string  `json:"completed_sub_modules"`
	Version             int64     `json:"version"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// NewTrackProgress returns an empty progress record for a first interaction
// with a track.
func NewTrackProgress(userID uuid.UUID, trackID string) *TrackProgress {
	return &TrackProgress{
		UserID:    userID,
		TrackID:   trackID,
		UpdatedAt: time.Now(),
	}
}

// SubModuleKey encodes a (module, sub-module) pair as a single set element.
func SubModuleKey(moduleID, subModuleID string) string {
	return moduleID + "/" + subModuleID
}

// SplitSubModuleKey is the inverse of SubModuleKey.
func SplitSubModuleKey(key string) (moduleID, subModuleID string) {
	moduleID, subModuleID, _ = strings.Cut(key, "/")
	return
}

// ModuleCompleted reports whether the module is in the completed set.
func (p *TrackProgress) ModuleCompleted(moduleID string) bool {
	return contains(p.CompletedModules, moduleID)
}

// ModuleUnlocked reports whether the module was explicitly unlocked,
// independent of the prerequisite graph.
func (p *TrackProgress) ModuleUnlocked(moduleID string) bool {
	return contains(p.UnlockedModules, moduleID)
}

// SubModuleCompleted reports whether the (module, sub-module) pair is in the
// completed set.
func (p *TrackProgress) SubModuleCompleted(moduleID, subModuleID string) bool {
	return contains(p.CompletedSubModules, SubModuleKey(moduleID, subModuleID))
}

// MarkModuleCompleted adds the module to the completed set. Returns false if
// it was already present.
func (p *TrackProgress) MarkModuleCompleted(moduleID string) bool {
	if p.ModuleCompleted(moduleID) {
		return false
	}
	p.CompletedModules = append(p.CompletedModules, moduleID)
	return true
}

// MarkSubModuleCompleted adds the pair to the completed set. Returns false if
// it was already present.
func (p *TrackProgress) MarkSubModuleCompleted(moduleID, subModuleID string) bool {
	if p.SubModuleCompleted(moduleID, subModuleID) {
		return false
	}
	p.CompletedSubModules = append(p.CompletedSubModules, SubModuleKey(moduleID, subModuleID))
	return true
}

// Unlock adds the module to the unlocked set. Returns false if it was
// already present.
func (p *TrackProgress) Unlock(moduleID string) bool {
	if p.ModuleUnlocked(moduleID) {
		return false
	}
	p.UnlockedModules = append(p.UnlockedModules, moduleID)
	return true
}

func contains(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}
