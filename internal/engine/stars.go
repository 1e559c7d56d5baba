package engine

import "github.com/shopspring/decimal"

// Star thresholds as score/target ratios. Decimal keeps ratios such as
// 1.2 exact, so a score of exactly 120 on a 100 target earns two stars.
var (
	threeStarRatio = decimal.RequireFromString("1.5")
	twoStarRatio   = decimal.RequireFromString("1.2")
	oneStarRatio   = decimal.NewFromInt(1)
)

// Stars rates a victory by its score-to-target ratio:
// >= 1.5 three stars, >= 1.2 two, >= 1.0 one, otherwise none.
// A level without a positive target rates three stars.
func Stars(score, target int) int {
	if target <= 0 {
		return 3
	}
	s := decimal.NewFromInt(int64(score))
	t := decimal.NewFromInt(int64(target))
	switch {
	case s.GreaterThanOrEqual(t.Mul(threeStarRatio)):
		return 3
	case s.GreaterThanOrEqual(t.Mul(twoStarRatio)):
		return 2
	case s.GreaterThanOrEqual(t.Mul(oneStarRatio)):
		return 1
	default:
		return 0
	}
}
