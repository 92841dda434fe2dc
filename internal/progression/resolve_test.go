package progression

import (
	"testing"

	"github.com/google/uuid"
	"github.com/learnpath/platform/internal/domain"
	"github.com/stretchr/testify/assert"
)

func chainTrack() *domain.TrackDef {
	return &domain.TrackDef{
		ID:    "algebra",
		Title: "Algebra",
		Modules: []domain.ModuleDef{
			{ID: "a", Title: "A", Level: 1, XPReward: 100},
			{ID: "b", Title: "B", Level: 2, Prerequisites: []string{"a"}, XPReward: 100},
			{ID: "c", Title: "C", Level: 3, Prerequisites: []string{"a", "b"}, XPReward: 100},
		},
	}
}

func emptyProgress(trackID string) *domain.TrackProgress {
	return domain.NewTrackProgress(uuid.New(), trackID)
}

func TestResolve_PrerequisiteChain(t *testing.T) {
	track := chainTrack()
	progress := emptyProgress("algebra")

	states := Resolve(track, progress, nil)
	assert.Equal(t, StateAvailable, states["a"].State)
	assert.Equal(t, StateLocked, states["b"].State)
	assert.Equal(t, StateLocked, states["c"].State)

	progress.MarkModuleCompleted("a")
	states = Resolve(track, progress, nil)
	assert.Equal(t, StateCompleted, states["a"].State)
	assert.Equal(t, StateAvailable, states["b"].State)
	assert.Equal(t, StateLocked, states["c"].State)

	progress.MarkModuleCompleted("b")
	states = Resolve(track, progress, nil)
	assert.Equal(t, StateAvailable, states["c"].State)
}

func TestResolve_NilProgress(t *testing.T) {
	states := Resolve(chainTrack(), nil, nil)
	assert.Equal(t, StateAvailable, states["a"].State)
	assert.Equal(t, StateLocked, states["b"].State)
}

// Two modules with no prerequisites: only the lowest-level one is the entry
// point; the other stays locked until unlocked or made the target of a
// completed prerequisite.
func TestResolve_OnlyEntryPointAvailableAmongEmptyPrereqs(t *testing.T) {
	track := &domain.TrackDef{
		ID:    "t",
		Title: "T",
		Modules: []domain.ModuleDef{
			{ID: "intro", Level: 1},
			{ID: "bonus", Level: 5},
		},
	}
	states := Resolve(track, emptyProgress("t"), nil)
	assert.Equal(t, StateAvailable, states["intro"].State)
	assert.Equal(t, StateLocked, states["bonus"].State)
}

func TestResolve_ExplicitEntryPointWins(t *testing.T) {
	track := &domain.TrackDef{
		ID:    "t",
		Title: "T",
		Modules: []domain.ModuleDef{
			{ID: "intro", Level: 1},
			{ID: "bonus", Level: 5, EntryPoint: true},
		},
	}
	states := Resolve(track, emptyProgress("t"), nil)
	assert.Equal(t, StateLocked, states["intro"].State)
	assert.Equal(t, StateAvailable, states["bonus"].State)
}

func TestResolve_UnlockedOverride(t *testing.T) {
	track := chainTrack()
	progress := emptyProgress("algebra")
	progress.Unlock("c")

	states := Resolve(track, progress, nil)
	assert.Equal(t, StateAvailable, states["c"].State)
	assert.Equal(t, StateLocked, states["b"].State)
}

func TestResolve_ProgressPercent(t *testing.T) {
	track := &domain.TrackDef{
		ID:    "t",
		Title: "T",
		Modules: []domain.ModuleDef{
			{
				ID:    "m",
				Level: 1,
				SubModules: []domain.SubModule{
					{ID: "s1", XPValue: 20},
					{ID: "s2", XPValue: 30},
				},
				QuizIDs:      []string{"q1", "q2"},
				PassingScore: 70,
			},
		},
	}
	progress := emptyProgress("t")

	states := Resolve(track, progress, nil)
	assert.Equal(t, 0, states["m"].ProgressPercent)

	progress.MarkSubModuleCompleted("m", "s1")
	states = Resolve(track, progress, map[string]int{"q1": 69})
	assert.Equal(t, 25, states["m"].ProgressPercent, "failed quiz does not count")

	states = Resolve(track, progress, map[string]int{"q1": 70})
	assert.Equal(t, 50, states["m"].ProgressPercent, "quiz at threshold counts")

	progress.MarkSubModuleCompleted("m", "s2")
	states = Resolve(track, progress, map[string]int{"q1": 70, "q2": 100})
	assert.Equal(t, 100, states["m"].ProgressPercent)

	// All sub-items done but the module was never explicitly completed:
	// it stays available. Completion never fires from a read path.
	assert.Equal(t, StateAvailable, states["m"].State)
}

func TestResolve_NoSubItemsIsZeroPercent(t *testing.T) {
	track := &domain.TrackDef{
		ID:      "t",
		Title:   "T",
		Modules: []domain.ModuleDef{{ID: "m", Level: 1}},
	}
	states := Resolve(track, emptyProgress("t"), nil)
	assert.Equal(t, 0, states["m"].ProgressPercent)
}

func TestResolve_IsDeterministic(t *testing.T) {
	track := chainTrack()
	progress := emptyProgress("algebra")
	progress.MarkModuleCompleted("a")

	first := Resolve(track, progress, nil)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Resolve(track, progress, nil))
	}
}

func TestAvailableDiff(t *testing.T) {
	track := chainTrack()
	progress := emptyProgress("algebra")

	before := Resolve(track, progress, nil)
	progress.MarkModuleCompleted("a")
	after := Resolve(track, progress, nil)

	assert.Equal(t, []string{"b"}, AvailableDiff(track, before, after))

	progress.MarkModuleCompleted("b")
	later := Resolve(track, progress, nil)
	assert.Equal(t, []string{"c"}, AvailableDiff(track, after, later))
}

func TestTrackQuizIDs(t *testing.T) {
	track := &domain.TrackDef{
		Modules: []domain.ModuleDef{
			{ID: "m1", QuizIDs: []string{"q1"}},
			{ID: "m2"},
			{ID: "m3", QuizIDs: []string{"q2", "q3"}},
		},
	}
	assert.Equal(t, []string{"q1", "q2", "q3"}, TrackQuizIDs(track))
}
