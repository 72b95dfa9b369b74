package bridge

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"golunesbridge/allowance"
	"golunesbridge/bridgeapi"
	"golunesbridge/chains"
	"golunesbridge/config"
	"golunesbridge/fees"
	"golunesbridge/types"
)

type InitiatorConfig struct {
	Fees                  fees.FeeConfig
	SolanaTokenMint       string
	SolanaCustody         string
	LunesTokenContract    string
	LunesFeeTokenContract string
	// FeeCollector is the contract pre-authorized to move both tokens on
	// the redemption path.
	FeeCollector string
}

type InitiateRequest struct {
	Direction  types.Direction
	Amount     string
	SourceAddr string
	DestAddr   string
}

// Initiator builds and submits the on-chain leg of a bridge operation and
// registers the resulting intent with the coordination service. The
// on-chain leg always completes first; registration without a signature is
// never attempted.
type Initiator struct {
	solana chains.ChainClient
	lunes  chains.ChainClient
	api    bridgeapi.Client
	gate   *allowance.Gate
	store  Store
	cfg    InitiatorConfig
}

func NewInitiator(solana, lunes chains.ChainClient, api bridgeapi.Client, gate *allowance.Gate, store Store, cfg InitiatorConfig) *Initiator {
	return &Initiator{
		solana: solana,
		lunes:  lunes,
		api:    api,
		gate:   gate,
		store:  store,
		cfg:    cfg,
	}
}

func (i *Initiator) sourceClient(direction types.Direction) chains.ChainClient {
	if direction == types.DirectionRedemption {
		return i.lunes
	}
	return i.solana
}

// Initiate checks preconditions in a fixed order (first failure wins),
// submits the transfer or burn, then registers the intent. If registration
// fails after the on-chain leg succeeded, the returned error carries the
// source signature so the caller can retry registration without
// re-submitting on-chain.
func (i *Initiator) Initiate(ctx context.Context, req InitiateRequest) (*types.BridgeTransaction, error) {
	amount, err := i.parseAmount(req.Amount)
	if err != nil {
		return nil, err
	}

	if err := chains.ValidateAddress(req.Direction.SourceChain(), req.SourceAddr); err != nil {
		return nil, &types.BridgeError{Kind: types.ErrInvalidAddress, Field: "sourceAddress", Message: "source address is not valid for its chain"}
	}
	if err := chains.ValidateAddress(req.Direction.DestChain(), req.DestAddr); err != nil {
		return nil, &types.BridgeError{Kind: types.ErrInvalidAddress, Field: "destinationAddress", Message: "destination address is not valid for its chain"}
	}

	client := i.sourceClient(req.Direction)

	// queried fresh on every call, a pause can happen at any time
	paused, err := client.IsContractPaused(ctx)
	if err != nil {
		return nil, fmt.Errorf("error checking bridge contract state: %w", err)
	}
	if paused {
		return nil, types.NewBridgeError(types.ErrContractPaused, "bridge contract is paused")
	}

	healthy, err := i.api.GetHealth(ctx)
	if err != nil || !healthy {
		return nil, types.NewBridgeError(types.ErrBridgeUnavailable, "bridge service is not reachable")
	}

	quote := fees.Quote(amount, i.monthlyVolume(ctx, client), i.cfg.Fees)

	if req.Direction == types.DirectionRedemption {
		if err := i.checkAllowances(ctx, req.SourceAddr, amount, quote.Fee); err != nil {
			return nil, err
		}
	}

	var signature string
	if req.Direction == types.DirectionRedemption {
		// burn the net amount, the fee is collected through the
		// pre-approved allowances
		signature, err = i.lunes.Burn(ctx, quote.Net, req.DestAddr)
	} else {
		signature, err = i.solana.Transfer(ctx, req.SourceAddr, i.cfg.SolanaCustody, i.cfg.SolanaTokenMint, amount)
	}
	if err != nil {
		return nil, fmt.Errorf("error submitting source-chain transaction: %w", err)
	}

	id, err := i.api.CreateTransaction(ctx, bridgeapi.CreateRequest{
		SourceChain:     req.Direction.SourceChain(),
		DestChain:       req.Direction.DestChain(),
		Amount:          amount,
		Fee:             quote.Fee,
		SourceAddress:   req.SourceAddr,
		DestAddress:     req.DestAddr,
		SourceSignature: signature,
	})
	if err != nil {
		log.Printf("error registering bridge intent (source signature %s): %s", signature, err.Error())
		return nil, &types.BridgeError{
			Kind:      types.ErrRegistrationFailed,
			Message:   "on-chain transfer succeeded but bridge registration failed",
			Signature: signature,
			Cause:     err,
		}
	}

	tx := &types.BridgeTransaction{
		ID:              id,
		SourceChain:     req.Direction.SourceChain(),
		DestChain:       req.Direction.DestChain(),
		Amount:          amount,
		Fee:             quote.Fee,
		SourceAddress:   req.SourceAddr,
		DestAddress:     req.DestAddr,
		Status:          types.StatusPending,
		SourceSignature: signature,
		TsCreated:       time.Now().Unix(),
	}

	if i.store != nil {
		if err := i.store.SaveTransaction(tx); err != nil {
			log.Printf("error mirroring bridge transaction %s: %s", tx.ID, err.Error())
		}
		if err := i.store.AddMonthlyVolumeUsd(amount); err != nil {
			log.Printf("error rolling up monthly volume: %s", err.Error())
		}
	}

	i.notifyCreated(tx)

	return tx, nil
}

func (i *Initiator) parseAmount(raw string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Zero, &types.BridgeError{Kind: types.ErrInvalidAmount, Field: "amount", Message: "amount is not a valid decimal number"}
	}
	if !amount.IsPositive() {
		return decimal.Zero, &types.BridgeError{Kind: types.ErrInvalidAmount, Field: "amount", Message: "amount must be greater than zero"}
	}
	if !amount.Equal(amount.Truncate(i.cfg.Fees.TokenPrecision)) {
		return decimal.Zero, &types.BridgeError{
			Kind:    types.ErrInvalidAmount,
			Field:   "amount",
			Message: fmt.Sprintf("amount has more than %d decimal places", i.cfg.Fees.TokenPrecision),
		}
	}
	return amount, nil
}

// monthlyVolume errs toward the most expensive tier when the chain query
// fails, a quote must never undercharge on stale data.
func (i *Initiator) monthlyVolume(ctx context.Context, client chains.ChainClient) decimal.Decimal {
	volume, err := client.GetMonthlyVolumeUsd(ctx)
	if err != nil {
		log.Printf("error reading monthly volume, assuming low tier: %s", err.Error())
		return decimal.Zero
	}
	return volume
}

func (i *Initiator) checkAllowances(ctx context.Context, owner string, amount, fee decimal.Decimal) error {
	states, err := i.gate.Check(ctx, owner, i.cfg.FeeCollector, []allowance.Requirement{
		{Token: i.cfg.LunesTokenContract, MinAmount: amount},
		{Token: i.cfg.LunesFeeTokenContract, MinAmount: fee},
	})
	if err != nil {
		return fmt.Errorf("error checking allowances: %w", err)
	}

	if !allowance.Satisfied(states) {
		var missing []string
		for token, st := range states {
			if !st.Approved {
				missing = append(missing, token)
			}
		}
		return &types.BridgeError{
			Kind:    types.ErrApprovalRequired,
			Field:   "allowance",
			Message: fmt.Sprintf("approval required for: %s", strings.Join(missing, ", ")),
		}
	}
	return nil
}

// notifyCreated is best-effort telemetry; failure is logged, never surfaced.
func (i *Initiator) notifyCreated(tx *types.BridgeTransaction) {
	payload := map[string]interface{}{
		"transactionId":   tx.ID,
		"sourceChain":     int(tx.SourceChain),
		"amount":          tx.Amount.String(),
		"sourceSignature": tx.SourceSignature,
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := i.api.SendWebhookNotification(ctx, config.WEBHOOK_EVENT_CREATED, payload); err != nil {
			log.Printf("error sending webhook notification for tx %s: %s", tx.ID, err.Error())
		}
	}()
}
