package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// it is assumed Solana mainnet is id 0
// Lunes mainnet id 1

type ChainType int

const CHAINKEY_SOLANA ChainType = 0
const CHAINKEY_LUNES ChainType = 1

// Direction of a bridge operation. Deposit locks the token on Solana and
// mints the wrapped token on Lunes; redemption burns the wrapped token on
// Lunes to release the original asset back on Solana.
type Direction int

const (
	DirectionDeposit Direction = iota
	DirectionRedemption
)

func (d Direction) String() string {
	if d == DirectionRedemption {
		return "redemption"
	}
	return "deposit"
}

func (d Direction) SourceChain() ChainType {
	if d == DirectionRedemption {
		return CHAINKEY_LUNES
	}
	return CHAINKEY_SOLANA
}

func (d Direction) DestChain() ChainType {
	if d == DirectionRedemption {
		return CHAINKEY_SOLANA
	}
	return CHAINKEY_LUNES
}

func ParseDirection(s string) (Direction, bool) {
	switch s {
	case "deposit":
		return DirectionDeposit, true
	case "redemption":
		return DirectionRedemption, true
	}
	return 0, false
}

// Transaction status as reported by the bridge coordination service.
// completed and failed are terminal, a record never leaves them.
type TxStatus string

const (
	StatusPending    TxStatus = "pending"
	StatusProcessing TxStatus = "processing"
	StatusCompleted  TxStatus = "completed"
	StatusFailed     TxStatus = "failed"
)

func (s TxStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

func (s TxStatus) Valid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusCompleted, StatusFailed:
		return true
	}
	return false
}

// BridgeTransaction is a single cross-chain transfer intent having a status.
// The ID is allocated by the bridge coordination service; the source
// signature is produced locally before the record ever exists remotely.
type BridgeTransaction struct {
	ID              string
	SourceChain     ChainType
	DestChain       ChainType
	Amount          decimal.Decimal // amount in the source token's human units
	Fee             decimal.Decimal
	SourceAddress   string
	DestAddress     string
	Status          TxStatus
	SourceSignature string // transaction where funds left the user's account
	Message         string // messages that help to track processing/errors
	TsCreated       int64
	TsCompleted     int64 // set only on transition into a terminal status
}

func (tx *BridgeTransaction) MarkTerminal(now time.Time) {
	if tx.TsCompleted == 0 && tx.Status.Terminal() {
		tx.TsCompleted = now.Unix()
	}
}
