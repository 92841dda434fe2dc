package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Validator Tests ---

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		name    string
		email   string
		wantErr bool
	}{
		{"valid email", "user@example.com", false},
		{"valid email with dots", "first.last@example.co.uk", false},
		{"valid email with plus", "user+tag@example.com", false},
		{"empty string", "", true},
		{"no at sign", "userexample.com", true},
		{"no domain", "user@", true},
		{"no tld", "user@example", true},
		{"spaces", "user @example.com", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateEmail(tt.email)
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestValidateSlug(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		wantErr bool
	}{
		{"simple", "algebra", false},
		{"with dash", "algebra-basics", false},
		{"with digits", "unit-2", false},
		{"empty", "", true},
		{"uppercase", "Algebra", true},
		{"leading dash", "-algebra", true},
		{"spaces", "algebra basics", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSlug(tt.id)
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func validTrack() *TrackDef {
	return &TrackDef{
		ID:    "algebra",
		Title: "Algebra",
		Modules: []ModuleDef{
			{ID: "a", Title: "A", Level: 1, XPReward: 100},
			{ID: "b", Title: "B", Level: 2, Prerequisites: []string{"a"}, XPReward: 100},
			{ID: "c", Title: "C", Level: 3, Prerequisites: []string{"a", "b"}, XPReward: 100},
		},
	}
}

func TestValidateTrack(t *testing.T) {
	t.Run("valid DAG", func(t *testing.T) {
		require.NoError(t, ValidateTrack(validTrack()))
	})

	t.Run("missing title", func(t *testing.T) {
		tr := validTrack()
		tr.Title = ""
		require.Error(t, ValidateTrack(tr))
	})

	t.Run("no modules", func(t *testing.T) {
		tr := validTrack()
		tr.Modules = nil
		require.Error(t, ValidateTrack(tr))
	})

	t.Run("duplicate module id", func(t *testing.T) {
		tr := validTrack()
		tr.Modules = append(tr.Modules, ModuleDef{ID: "a", Title: "dup"})
		err := ValidateTrack(tr)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "duplicate module id")
	})

	t.Run("self loop", func(t *testing.T) {
		tr := validTrack()
		tr.Modules[0].Prerequisites = []string{"a"}
		err := ValidateTrack(tr)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "references itself")
	})

	t.Run("unknown prerequisite", func(t *testing.T) {
		tr := validTrack()
		tr.Modules[1].Prerequisites = []string{"zz"}
		err := ValidateTrack(tr)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown prerequisite")
	})

	t.Run("two-node cycle", func(t *testing.T) {
		tr := validTrack()
		tr.Modules[0].Prerequisites = []string{"b"}
		err := ValidateTrack(tr)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cycle")
	})

	t.Run("three-node cycle", func(t *testing.T) {
		tr := &TrackDef{
			ID:    "loop",
			Title: "Loop",
			Modules: []ModuleDef{
				{ID: "a", Title: "A", Prerequisites: []string{"c"}},
				{ID: "b", Title: "B", Prerequisites: []string{"a"}},
				{ID: "c", Title: "C", Prerequisites: []string{"b"}},
			},
		}
		err := ValidateTrack(tr)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cycle")
	})

	t.Run("multiple entry points rejected", func(t *testing.T) {
		tr := validTrack()
		tr.Modules[0].EntryPoint = true
		tr.Modules[1].EntryPoint = true
		require.Error(t, ValidateTrack(tr))
	})

	t.Run("duplicate sub-module id", func(t *testing.T) {
		tr := validTrack()
		tr.Modules[0].SubModules = []SubModule{
			{ID: "s1", Title: "S1", XPValue: 10},
			{ID: "s1", Title: "S1 again", XPValue: 10},
		}
		require.Error(t, ValidateTrack(tr))
	})

	t.Run("passing score out of range", func(t *testing.T) {
		tr := validTrack()
		tr.Modules[0].PassingScore = 120
		require.Error(t, ValidateTrack(tr))
	})
}

func TestValidateBadge(t *testing.T) {
	valid := func() *BadgeDef {
		return &BadgeDef{
			ID:     "speed-demon",
			Name:   "Speed Demon",
			Rarity: RarityRare,
			Criteria: []Criterion{
				{Type: CriterionTotalAttempts, Operator: OpGTE, Threshold: 5},
			},
		}
	}

	t.Run("valid", func(t *testing.T) {
		require.NoError(t, ValidateBadge(valid()))
	})

	t.Run("unknown criterion type", func(t *testing.T) {
		b := valid()
		b.Criteria[0].Type = "nonsense"
		err := ValidateBadge(b)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown type")
	})

	t.Run("invalid operator on counter", func(t *testing.T) {
		b := valid()
		b.Criteria[0].Operator = "=="
		require.Error(t, ValidateBadge(b))
	})

	t.Run("structural criterion without target", func(t *testing.T) {
		b := valid()
		b.Criteria = []Criterion{{Type: CriterionModuleCompletion}}
		require.Error(t, ValidateBadge(b))
	})

	t.Run("invalid rarity", func(t *testing.T) {
		b := valid()
		b.Rarity = "mythic"
		require.Error(t, ValidateBadge(b))
	})

	t.Run("no criteria", func(t *testing.T) {
		b := valid()
		b.Criteria = nil
		require.Error(t, ValidateBadge(b))
	})

	t.Run("manual criterion allowed", func(t *testing.T) {
		b := valid()
		b.Criteria = []Criterion{{Type: CriterionManual}}
		require.NoError(t, ValidateBadge(b))
		assert.True(t, b.ManualOnly())
	})
}

// --- Operator Tests ---

func TestOperatorCompare(t *testing.T) {
	tests := []struct {
		op        Operator
		value     int64
		threshold int64
		want      bool
	}{
		{OpGTE, 5, 5, true},
		{OpGTE, 4, 5, false},
		{OpGT, 6, 5, true},
		{OpGT, 5, 5, false},
		{OpEQ, 5, 5, true},
		{OpEQ, 4, 5, false},
		{OpLT, 4, 5, true},
		{OpLT, 5, 5, false},
		{OpLTE, 5, 5, true},
		{OpLTE, 6, 5, false},
		{Operator("=="), 5, 5, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.op), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.op.Compare(tt.value, tt.threshold))
		})
	}
}

// --- User Tests ---

func TestUserLevel(t *testing.T) {
	tests := []struct {
		xp    int64
		level int
	}{
		{0, 1},
		{-5, 1},
		{99, 1},
		{100, 2},
		{399, 2},
		{400, 3},
		{10000, 11},
	}

	for _, tt := range tests {
		u := &User{XP: tt.xp}
		assert.Equal(t, tt.level, u.Level(), "xp=%d", tt.xp)
	}
}

func TestUserFlags(t *testing.T) {
	u := &User{}
	assert.False(t, u.HasFlag(CriterionPerfectScore))
	assert.True(t, u.SetFlag(CriterionPerfectScore))
	assert.False(t, u.SetFlag(CriterionPerfectScore), "setting twice is a no-op")
	assert.True(t, u.HasFlag(CriterionPerfectScore))
}

// --- TrackProgress Tests ---

func TestTrackProgressSets(t *testing.T) {
	p := NewTrackProgress(uuid.New(), "algebra")

	assert.True(t, p.MarkSubModuleCompleted("a", "s1"))
	assert.False(t, p.MarkSubModuleCompleted("a", "s1"), "re-completion is a no-op")
	assert.True(t, p.SubModuleCompleted("a", "s1"))
	assert.False(t, p.SubModuleCompleted("a", "s2"))

	assert.True(t, p.MarkModuleCompleted("a"))
	assert.False(t, p.MarkModuleCompleted("a"))
	assert.True(t, p.ModuleCompleted("a"))

	assert.True(t, p.Unlock("b"))
	assert.False(t, p.Unlock("b"))
	assert.True(t, p.ModuleUnlocked("b"))

	assert.Len(t, p.CompletedSubModules, 1)
	assert.Len(t, p.CompletedModules, 1)
	assert.Len(t, p.UnlockedModules, 1)
}

func TestSubModuleKeyRoundTrip(t *testing.T) {
	key := SubModuleKey("algebra-1", "lesson-2")
	mod, sub := SplitSubModuleKey(key)
	assert.Equal(t, "algebra-1", mod)
	assert.Equal(t, "lesson-2", sub)
}

// --- TrackDef Tests ---

func TestEntryPointID(t *testing.T) {
	t.Run("explicit flag wins", func(t *testing.T) {
		tr := validTrack()
		tr.Modules[2].EntryPoint = true
		assert.Equal(t, "c", tr.EntryPointID())
	})

	t.Run("lowest level with empty prerequisites", func(t *testing.T) {
		tr := &TrackDef{
			ID:    "t",
			Title: "T",
			Modules: []ModuleDef{
				{ID: "x", Level: 3},
				{ID: "y", Level: 1},
				{ID: "z", Level: 2, Prerequisites: []string{"y"}},
			},
		}
		assert.Equal(t, "y", tr.EntryPointID())
	})

	t.Run("empty track", func(t *testing.T) {
		tr := &TrackDef{ID: "t", Title: "T"}
		assert.Equal(t, "", tr.EntryPointID())
	})
}

func TestPassingThreshold(t *testing.T) {
	m := &ModuleDef{}
	assert.Equal(t, DefaultPassingScore, m.PassingThreshold())
	m.PassingScore = 80
	assert.Equal(t, 80, m.PassingThreshold())
}
