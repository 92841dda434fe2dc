package domain

import "time"

// CriterionType discriminates the closed set of badge unlock criteria.
type CriterionType string

const (
	// Cumulative counters, compared against Threshold with Operator.
	CriterionTotalAttempts CriterionType = "total_attempts"
	CriterionTotalScore    CriterionType = "total_score"
	CriterionStreak        CriterionType = "streak"
	CriterionLevel         CriterionType = "level"
	CriterionFriendCount   CriterionType = "friend_count"

	// Event flags, earned once by user activity.
	CriterionPerfectScore  CriterionType = "perfect_score"
	CriterionSpeedDemon    CriterionType = "speed_demon"
	CriterionTournamentWin CriterionType = "tournament_win"
	CriterionExamPass      CriterionType = "exam_pass"

	// Structural flags, checked against the progress record; Target names
	// the track or module.
	CriterionTrackCompletion  CriterionType = "track_completion"
	CriterionModuleCompletion CriterionType = "module_completion"

	// Administrator-granted only, never auto-evaluated.
	CriterionManual CriterionType = "manual"
)

// IsValid returns true if the criterion type is a known type.
func (t CriterionType) IsValid() bool {
	switch t {
	case CriterionTotalAttempts, CriterionTotalScore, CriterionStreak,
		CriterionLevel, CriterionFriendCount,
		CriterionPerfectScore, CriterionSpeedDemon, CriterionTournamentWin, CriterionExamPass,
		CriterionTrackCompletion, CriterionModuleCompletion,
		CriterionManual:
		return true
	default:
		return false
	}
}

// Numeric returns true for counter criteria that use Operator and Threshold.
func (t CriterionType) Numeric() bool {
	switch t {
	case CriterionTotalAttempts, CriterionTotalScore, CriterionStreak,
		CriterionLevel, CriterionFriendCount:
		return true
	default:
		return false
	}
}

// Operator is a numeric comparison operator for counter criteria.
type Operator string

const (
	OpGTE Operator = ">="
	OpGT  Operator = ">"
	OpEQ  Operator = "="
	OpLT  Operator = "<"
	OpLTE Operator = "<="
)

// IsValid returns true if the operator is a known comparison.
func (o Operator) IsValid() bool {
	switch o {
	case OpGTE, OpGT, OpEQ, OpLT, OpLTE:
		return true
	default:
		return false
	}
}

// Compare applies the operator to (value, threshold).
func (o Operator) Compare(value, threshold int64) bool {
	switch o {
	case OpGTE:
		return value >= threshold
	case OpGT:
		return value > threshold
	case OpEQ:
		return value == threshold
	case OpLT:
		return value < threshold
	case OpLTE:
		return value <= threshold
	default:
		return false
	}
}

// Criterion is one testable condition of a badge. All of a badge's criteria
// must hold for it to be earned. Target carries the track or module id for
// structural criteria and is ignored otherwise.
type Criterion struct {
	Type      CriterionType `json:"type"`
	Operator  Operator      `json:"operator,omitempty"`
	Threshold int64         `json:"threshold,omitempty"`
	Target    string        `json:"target,omitempty"`
}

// Rarity classifies badges for display and reward scaling.
type Rarity string

const (
	RarityCommon    Rarity = "common"
	RarityRare      Rarity = "rare"
	RarityEpic      Rarity = "epic"
	RarityLegendary Rarity = "legendary"
)

// IsValid returns true if the rarity is a known tier.
func (r Rarity) IsValid() bool {
	switch r {
	case RarityCommon, RarityRare, RarityEpic, RarityLegendary:
		return true
	default:
		return false
	}
}

// BadgeRewards is what a badge pays out when earned.
type BadgeRewards struct {
	XP       int      `json:"xp"`
	Coins    int64    `json:"coins"`
	PowerUps []string `json:"power_ups,omitempty"`
}

// BadgeDef is an authored badge definition. Criteria combine with logical
// AND; a badge containing a manual criterion can only be granted by an
// administrator.
type BadgeDef struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description,omitempty"`
	Rarity      Rarity       `json:"rarity"`
	Rewards     BadgeRewards `json:"rewards"`
	Criteria    []Criterion  `json:"criteria"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// ManualOnly returns true if the badge has a manual criterion and is
// therefore excluded from automatic evaluation.
func (b *BadgeDef) ManualOnly() bool {
	for _, c := range b.Criteria {
		if c.Type == CriterionManual {
			return true
		}
	}
	return false
}
