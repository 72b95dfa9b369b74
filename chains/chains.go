// Package chains defines the chain-client contract the bridge core calls
// through, plus per-chain address format checks. Concrete clients live in
// SOLRPC and LunesRPC; tests substitute fakes.
package chains

import (
	"context"

	"github.com/shopspring/decimal"

	"golunesbridge/types"
)

// Receipt of a submitted approval transaction.
type Receipt struct {
	Signature string
	Block     string
}

type ChainClient interface {
	GetBalance(ctx context.Context, address, token string) (decimal.Decimal, error)
	// Transfer moves tokens out of the bridge user's account, returns the
	// on-chain transaction reference.
	Transfer(ctx context.Context, from, to, token string, amount decimal.Decimal) (string, error)
	// Burn destroys wrapped tokens, releasing the original asset on the
	// other side once relayed.
	Burn(ctx context.Context, amount decimal.Decimal, destAddress string) (string, error)
	GetAllowance(ctx context.Context, token, owner, spender string) (decimal.Decimal, error)
	Approve(ctx context.Context, token, owner, spender string, amount decimal.Decimal) (*Receipt, error)
	IsContractPaused(ctx context.Context) (bool, error)
	GetMonthlyVolumeUsd(ctx context.Context) (decimal.Decimal, error)
}

// ValidateAddress checks the chain-native format of an address.
func ValidateAddress(chain types.ChainType, address string) error {
	if chain == types.CHAINKEY_LUNES {
		return ValidateLunesAddress(address)
	}
	return ValidateSolanaAddress(address)
}
