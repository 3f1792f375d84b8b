package risk

import "math"

// Tier 风险等级
type Tier string

const (
	TierLow      Tier = "LOW"
	TierMedium   Tier = "MEDIUM"
	TierHigh     Tier = "HIGH"
	TierVeryHigh Tier = "VERY_HIGH"
)

// severity 用于比较等级高低, 数值越大风险越高
var severity = map[Tier]int{
	TierLow:      0,
	TierMedium:   1,
	TierHigh:     2,
	TierVeryHigh: 3,
}

// Severity returns a comparable rank for a tier, higher means riskier.
func (t Tier) Severity() int {
	return severity[t]
}

// Classify maps market metrics to a risk tier. It is a pure function:
// liquidity ratio is volume/marketCap, volatility is |priceChange24hPct|,
// and the first matching rule wins. Boundary values (ratio exactly 0.05,
// 0.10, 0.15; volatility exactly 20, 30, 50) fall into the lower tier
// because all comparisons are strict.
//
// A non-positive market cap cannot produce a liquidity ratio; such coins
// are treated as maximally risky rather than rejected, so one cap-less
// record never poisons a whole page of results.
func Classify(volume, marketCap, priceChange24hPct float64) Tier {
	if marketCap <= 0 {
		return TierVeryHigh
	}

	liquidityRatio := volume / marketCap
	volatility := math.Abs(priceChange24hPct)

	switch {
	case liquidityRatio < 0.05 || volatility > 50:
		return TierVeryHigh
	case liquidityRatio < 0.10 || volatility > 30:
		return TierHigh
	case liquidityRatio < 0.15 || volatility > 20:
		return TierMedium
	default:
		return TierLow
	}
}
