package domain

import "time"

// DefaultPassingScore is the quiz pass threshold (percentage) used when a
// module does not set its own.
const DefaultPassingScore = 60

// SubModule is a lesson inside a module. Sub-modules have no lock state of
// their own; they inherit the parent module's.
type SubModule struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	XPValue int    `json:"xp_value"`
}

// ModuleDef is one node in a track's prerequisite graph.
type ModuleDef struct {
	ID            string      `json:"id"`
	Title         string      `json:"title"`
	Level         int         `json:"level"`
	EntryPoint    bool        `json:"entry_point,omitempty"`
	Prerequisites []string    `json:"prerequisites,omitempty"`
	SubModules    []SubModule `json:"sub_modules,omitempty"`
	QuizIDs       []string    `json:"quiz_ids,omitempty"`
	XPReward      int         `json:"xp_reward"`
	PassingScore  int         `json:"passing_score,omitempty"`
	BadgeID       string      `json:"badge_id,omitempty"`
}

// PassingThreshold returns the quiz pass percentage for this module.
func (m *ModuleDef) PassingThreshold() int {
	if m.PassingScore <= 0 {
		return DefaultPassingScore
	}
	return m.PassingScore
}

// SubModule returns the sub-module with the given id, or nil.
func (m *ModuleDef) SubModule(id string) *SubModule {
	for i := range m.SubModules {
		if m.SubModules[i].ID == id {
			return &m.SubModules[i]
		}
	}
	return nil
}

// TrackDef is the authored definition of a track: a named graph of modules
// for one subject. Immutable from the engine's point of view during a single
// evaluation.
type TrackDef struct {
	ID        string      `json:"id"`
	Title     string      `json:"title"`
	Subject   string      `json:"subject"`
	Modules   []ModuleDef `json:"modules"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// Module returns the module with the given id, or nil.
func (t *TrackDef) Module(id string) *ModuleDef {
	for i := range t.Modules {
		if t.Modules[i].ID == id {
			return &t.Modules[i]
		}
	}
	return nil
}

// EntryPointID returns the id of the track's entry-point module: the module
// with the explicit entry_point flag if one is set, otherwise the
// lowest-level module with no prerequisites (legacy data authored before the
// flag existed). Returns "" for an empty track.
func (t *TrackDef) EntryPointID() string {
	for i := range t.Modules {
		if t.Modules[i].EntryPoint {
			return t.Modules[i].ID
		}
	}
	best := ""
	bestLevel := 0
	for i := range t.Modules {
		m := &t.Modules[i]
		if len(m.Prerequisites) != 0 {
			continue
		}
		if best == "" || m.Level < bestLevel {
			best = m.ID
			bestLevel = m.Level
		}
	}
	return best
}

// TrackSummary is the list-view projection of a track.
type TrackSummary struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Subject     string `json:"subject"`
	ModuleCount int    `json:"module_count"`
}

// Summary returns the list-view projection of the track.
func (t *TrackDef) Summary() TrackSummary {
	return TrackSummary{ID: t.ID, Title: t.Title, Subject: t.Subject, ModuleCount: len(t.Modules)}
}
