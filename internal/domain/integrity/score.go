package integrity

const (
	TierExcellent = "Excellent"
	TierGood      = "Good"
	TierRisk      = "Risk"
)

const (
	maxScore         = 100
	violationPenalty = 10
)

// Score drops ten points per violation and never goes below zero.
func Score(violations int) int {
	if violations < 0 {
		violations = 0
	}
	return max(0, maxScore-violationPenalty*violations)
}

func Tier(score int) string {
	switch {
	case score >= 90:
		return TierExcellent
	case score >= 70:
		return TierGood
	default:
		return TierRisk
	}
}
