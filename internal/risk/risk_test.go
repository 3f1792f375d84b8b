package risk

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name        string
		volume      float64
		marketCap   float64
		priceChange float64
		expected    Tier
	}{
		{
			name:        "deep liquidity calm market",
			volume:      20,
			marketCap:   100,
			priceChange: 5,
			expected:    TierLow,
		},
		{
			name:        "thin liquidity",
			volume:      4,
			marketCap:   100,
			priceChange: 1,
			expected:    TierVeryHigh,
		},
		{
			name:        "extreme volatility",
			volume:      50,
			marketCap:   100,
			priceChange: 80,
			expected:    TierVeryHigh,
		},
		{
			name:        "negative change counts as volatility",
			volume:      50,
			marketCap:   100,
			priceChange: -80,
			expected:    TierVeryHigh,
		},
		{
			name:        "moderately thin liquidity",
			volume:      7,
			marketCap:   100,
			priceChange: 1,
			expected:    TierHigh,
		},
		{
			name:        "elevated volatility",
			volume:      50,
			marketCap:   100,
			priceChange: 35,
			expected:    TierHigh,
		},
		{
			name:        "borderline liquidity",
			volume:      12,
			marketCap:   100,
			priceChange: 1,
			expected:    TierMedium,
		},
		{
			name:        "mild volatility",
			volume:      50,
			marketCap:   100,
			priceChange: 25,
			expected:    TierMedium,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Classify(tt.volume, tt.marketCap, tt.priceChange))
		})
	}
}

// 边界值全部落入较低等级 (比较均为严格比较)
func TestClassify_Boundaries(t *testing.T) {
	tests := []struct {
		name        string
		volume      float64
		marketCap   float64
		priceChange float64
		expected    Tier
	}{
		{name: "ratio exactly 0.05", volume: 5, marketCap: 100, priceChange: 0, expected: TierHigh},
		{name: "ratio exactly 0.10", volume: 10, marketCap: 100, priceChange: 0, expected: TierMedium},
		{name: "ratio exactly 0.15", volume: 15, marketCap: 100, priceChange: 0, expected: TierLow},
		{name: "volatility exactly 50", volume: 50, marketCap: 100, priceChange: 50, expected: TierHigh},
		{name: "volatility exactly 30", volume: 50, marketCap: 100, priceChange: 30, expected: TierMedium},
		{name: "volatility exactly 20", volume: 50, marketCap: 100, priceChange: 20, expected: TierLow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Classify(tt.volume, tt.marketCap, tt.priceChange))
		})
	}
}

func TestClassify_ZeroMarketCap(t *testing.T) {
	// 市值为0不允许除法, 按最高风险处理
	assert.Equal(t, TierVeryHigh, Classify(1000, 0, 0))
	assert.Equal(t, TierVeryHigh, Classify(1000, -1, 0))
}

// 波动率增加或流动性比率下降时, 风险等级单调不降
func TestClassify_Monotonic(t *testing.T) {
	const marketCap = 100.0

	prev := Classify(100, marketCap, 0)
	for _, volatility := range []float64{0, 10, 20.5, 25, 30.5, 40, 50.5, 90} {
		tier := Classify(100, marketCap, volatility)
		assert.GreaterOrEqual(t, tier.Severity(), prev.Severity(),
			"severity dropped at volatility %.1f", volatility)
		prev = tier
	}

	prev = Classify(100, marketCap, 0)
	for _, volume := range []float64{100, 20, 14, 12, 9, 7, 4, 1} {
		tier := Classify(volume, marketCap, 0)
		assert.GreaterOrEqual(t, tier.Severity(), prev.Severity(),
			"severity dropped at volume %.1f", volume)
		prev = tier
	}
}
