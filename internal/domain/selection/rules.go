package selection

import "slices"

const (
	BaseScore        = 100.0
	SelectionPenalty = 30.0
	AcceptanceCap    = 80.0
	AcceptanceWeight = 0.5

	MinLevel = 1
	MaxLevel = 5
)

// AcceptanceRate returns accepted/invited as a percentage.
// A candidate without invitations has a rate of zero.
func AcceptanceRate(c Candidate) float64 {
	if c.InvitedCount <= 0 {
		return 0
	}
	return float64(c.AcceptedCount) / float64(c.InvitedCount) * 100
}

// Score is the fairness score used to rank candidates. Every previous
// selection costs SelectionPenalty points and acceptance reliability adds
// up to AcceptanceCap*AcceptanceWeight points.
func Score(c Candidate) float64 {
	rate := min(AcceptanceRate(c), AcceptanceCap)
	return BaseScore - float64(c.SelectedCount)*SelectionPenalty + rate*AcceptanceWeight
}

// LevelBands maps a team strength to the player levels preferred for it.
// Strengths without an explicit entry use Fallback.
type LevelBands struct {
	ByStrength map[int][]int
	Fallback   []int
}

func DefaultLevelBands() LevelBands {
	return LevelBands{
		ByStrength: map[int][]int{
			1: {4, 5},
			2: {2, 3, 4},
		},
		Fallback: []int{1, 2},
	}
}

func (b LevelBands) Levels(strength int) []int {
	if levels, ok := b.ByStrength[strength]; ok {
		return levels
	}
	return b.Fallback
}

func (b LevelBands) Preferred(strength, level int) bool {
	return slices.Contains(b.Levels(strength), level)
}

func (b LevelBands) IsZero() bool {
	return len(b.ByStrength) == 0 && len(b.Fallback) == 0
}
