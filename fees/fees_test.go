package fees

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func testConfig() FeeConfig {
	return FeeConfig{
		LowBps:              60,
		MediumBps:           45,
		HighBps:             30,
		VolumeThreshold1Usd: decimal.NewFromInt(10000),
		VolumeThreshold2Usd: decimal.NewFromInt(100000),
		TokenPrecision:      8,
	}
}

func TestQuoteExactSum(t *testing.T) {
	cfg := testConfig()

	quote := Quote(decimal.NewFromInt(500), decimal.Zero, cfg)
	assert.Equal(t, "3", quote.Fee.String())
	assert.Equal(t, "497", quote.Net.String())
	assert.Equal(t, int64(60), quote.Bps)
}

func TestQuoteSumHoldsAcrossAmounts(t *testing.T) {
	cfg := testConfig()

	for _, raw := range []string{"1", "100", "500", "50000", "0.00000001", "123.45678901"} {
		amount, err := decimal.NewFromString(raw)
		assert.NoError(t, err)

		quote := Quote(amount, decimal.Zero, cfg)
		assert.True(t, quote.Fee.Add(quote.Net).Equal(amount), "fee %s + net %s != %s", quote.Fee, quote.Net, amount)
	}
}

func TestQuoteTruncatesFee(t *testing.T) {
	cfg := testConfig()
	cfg.TokenPrecision = 2

	// 999.99 * 60 / 10000 = 5.99994, truncated down, never rounded up
	quote := Quote(decimal.RequireFromString("999.99"), decimal.Zero, cfg)
	assert.Equal(t, "5.99", quote.Fee.String())
	assert.Equal(t, "994", quote.Net.String())
	assert.True(t, quote.Fee.Add(quote.Net).Equal(quote.Amount))
}

func TestQuoteTierSelection(t *testing.T) {
	cfg := testConfig()

	cases := []struct {
		volume string
		tier   VolumeTier
		bps    int64
	}{
		{"0", TierLow, 60},
		{"9999.99", TierLow, 60},
		{"10000", TierMedium, 45}, // boundary already belongs to the cheaper tier
		{"50000", TierMedium, 45},
		{"99999.99", TierMedium, 45},
		{"100000", TierHigh, 30},
		{"5000000", TierHigh, 30},
	}

	for _, tc := range cases {
		quote := Quote(decimal.NewFromInt(1000), decimal.RequireFromString(tc.volume), cfg)
		assert.Equal(t, tc.tier, quote.Tier, "volume %s", tc.volume)
		assert.Equal(t, tc.bps, quote.Bps, "volume %s", tc.volume)
	}
}

func TestQuoteZeroAmount(t *testing.T) {
	quote := Quote(decimal.Zero, decimal.Zero, testConfig())
	assert.True(t, quote.Fee.IsZero())
	assert.True(t, quote.Net.IsZero())
}

func TestQuoteEndToEndExample(t *testing.T) {
	quote := Quote(decimal.NewFromInt(1000), decimal.Zero, testConfig())
	assert.Equal(t, "6", quote.Fee.String())
	assert.Equal(t, "994", quote.Net.String())
}

func TestTierString(t *testing.T) {
	assert.Equal(t, "low", TierLow.String())
	assert.Equal(t, "medium", TierMedium.String())
	assert.Equal(t, "high", TierHigh.String())
}
