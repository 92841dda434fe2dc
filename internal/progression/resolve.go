package progression

import "github.com/learnpath/platform/internal/domain"

// ModuleState is the lock state of a module for one user.
type ModuleState string

const (
	StateLocked    ModuleState = "locked"
	StateAvailable ModuleState = "available"
	StateCompleted ModuleState = "completed"
)

// ModuleStatus is the resolved per-module view: lock state plus completion
// percentage over the module's sub-items.
type ModuleStatus struct {
	State           ModuleState `json:"state"`
	ProgressPercent int         `json:"progress_percent"`
}

// Resolve computes the state of every module in a track for one user. It is
// a pure function of its inputs and safe to call repeatedly from read paths.
//
// A module is completed if it is in the progress record's completed set;
// available if it was explicitly unlocked, if all of its prerequisites are
// completed, or if it is the track's entry point; locked otherwise. A module
// with no prerequisites that is not the entry point stays locked until
// something unlocks it — vacuous prerequisite satisfaction does not apply.
//
// bestScores maps quiz id to the user's best recorded percentage; a quiz
// counts toward progress when the best score meets the module's passing
// threshold. progress may be nil (no interaction with the track yet).
func Resolve(track *domain.TrackDef, progress *domain.TrackProgress, bestScores map[string]int) map[string]ModuleStatus {
	if progress == nil {
		progress = &domain.TrackProgress{}
	}
	entry := track.EntryPointID()

	out := make(map[string]ModuleStatus, len(track.Modules))
	for i := range track.Modules {
		m := &track.Modules[i]
		out[m.ID] = ModuleStatus{
			State:           moduleState(m, progress, entry),
			ProgressPercent: progressPercent(m, progress, bestScores),
		}
	}
	return out
}

func moduleState(m *domain.ModuleDef, progress *domain.TrackProgress, entry string) ModuleState {
	if progress.ModuleCompleted(m.ID) {
		return StateCompleted
	}
	if progress.ModuleUnlocked(m.ID) || m.ID == entry {
		return StateAvailable
	}
	if len(m.Prerequisites) > 0 {
		satisfied := true
		for _, p := range m.Prerequisites {
			if !progress.ModuleCompleted(p) {
				satisfied = false
				break
			}
		}
		if satisfied {
			return StateAvailable
		}
	}
	return StateLocked
}

// progressPercent counts completed sub-items over the union of sub-modules
// and linked quizzes. A module with no sub-items reports 0.
func progressPercent(m *domain.ModuleDef, progress *domain.TrackProgress, bestScores map[string]int) int {
	total := len(m.SubModules) + len(m.QuizIDs)
	if total == 0 {
		return 0
	}

	done := 0
	for _, sm := range m.SubModules {
		if progress.SubModuleCompleted(m.ID, sm.ID) {
			done++
		}
	}
	threshold := m.PassingThreshold()
	for _, q := range m.QuizIDs {
		if bestScores[q] >= threshold {
			done++
		}
	}
	return done * 100 / total
}

// AvailableDiff returns the ids of modules that moved from locked to
// available between two resolutions, in track order.
func AvailableDiff(track *domain.TrackDef, before, after map[string]ModuleStatus) []string {
	var newly []string
	for i := range track.Modules {
		id := track.Modules[i].ID
		if before[id].State == StateLocked && after[id].State == StateAvailable {
			newly = append(newly, id)
		}
	}
	return newly
}

// TrackQuizIDs collects every quiz id referenced by the track's modules.
func TrackQuizIDs(track *domain.TrackDef) []string {
	var ids []string
	for i := range track.Modules {
		ids = append(ids, track.Modules[i].QuizIDs...)
	}
	return ids
}
