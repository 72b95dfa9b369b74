package handlers

import (
	"net/http"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"golunesbridge/fees"
)

// Quote previews the fee for an amount. The same schedule sizes the real
// transfer later, so the preview cannot drift from the charged fee.
func (h *Handler) Quote(w http.ResponseWriter, r *http.Request) {
	amount, err := decimal.NewFromString(r.URL.Query().Get("amount"))
	if err != nil || !amount.IsPositive() {
		responseJSON(w, &APIResponse{
			Status:  "error",
			Field:   "amount",
			Message: "No amount or invalid amount provided",
		}, http.StatusBadRequest)
		return
	}

	quote := fees.Quote(amount, h.monthlyVolume(r), h.feeCfg)

	responseJSON(w, &APIQuoteResponse{
		Status:    "ok",
		FeeBps:    quote.Bps,
		FeeAmount: quote.Fee.String(),
		NetAmount: quote.Net.String(),
		Tier:      quote.Tier.String(),
	}, http.StatusOK)
}

// monthlyVolume prefers the chain's tax manager and falls back to the local
// roll-up when the chain query fails.
func (h *Handler) monthlyVolume(r *http.Request) decimal.Decimal {
	volume, err := h.solana.GetMonthlyVolumeUsd(r.Context())
	if err == nil {
		return volume
	}
	log.Printf("error reading on-chain monthly volume: %s", err.Error())

	if h.store != nil {
		volume, err = h.store.GetMonthlyVolumeUsd()
		if err == nil {
			return volume
		}
		log.Printf("error reading mirrored monthly volume: %s", err.Error())
	}

	return decimal.Zero
}
