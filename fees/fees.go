// Package fees computes the protocol fee for a bridging operation from a
// volume-tiered schedule. Quoting is pure; the same quote is used for the
// UI preview and as the authoritative value sizing the submitted transfer.
package fees

import (
	"github.com/shopspring/decimal"
)

type VolumeTier int

const (
	TierLow VolumeTier = iota
	TierMedium
	TierHigh
)

func (t VolumeTier) String() string {
	switch t {
	case TierMedium:
		return "medium"
	case TierHigh:
		return "high"
	}
	return "low"
}

// FeeConfig invariants are the config owner's responsibility:
// HighBps <= MediumBps <= LowBps and Threshold1 < Threshold2.
type FeeConfig struct {
	LowBps              int64
	MediumBps           int64
	HighBps             int64
	VolumeThreshold1Usd decimal.Decimal
	VolumeThreshold2Usd decimal.Decimal
	TokenPrecision      int32
}

type FeeQuote struct {
	Fee    decimal.Decimal
	Net    decimal.Decimal
	Bps    int64
	Tier   VolumeTier
	Amount decimal.Decimal
}

var bpsDenominator = decimal.NewFromInt(10000)

// Quote maps (amount, rolling monthly volume) to a fee and the net amount
// delivered. The fee is truncated, not rounded, to the token precision so
// that Fee + Net always equals Amount exactly. Volume exactly at a threshold
// already belongs to the cheaper tier.
func Quote(amount, monthlyVolumeUsd decimal.Decimal, cfg FeeConfig) FeeQuote {
	tier := TierHigh
	bps := cfg.HighBps
	if monthlyVolumeUsd.LessThan(cfg.VolumeThreshold1Usd) {
		tier = TierLow
		bps = cfg.LowBps
	} else if monthlyVolumeUsd.LessThan(cfg.VolumeThreshold2Usd) {
		tier = TierMedium
		bps = cfg.MediumBps
	}

	fee := amount.Mul(decimal.NewFromInt(bps)).Div(bpsDenominator).Truncate(cfg.TokenPrecision)

	return FeeQuote{
		Fee:    fee,
		Net:    amount.Sub(fee),
		Bps:    bps,
		Tier:   tier,
		Amount: amount,
	}
}
