package bridge

import (
	"github.com/shopspring/decimal"

	"golunesbridge/types"
)

// Store mirrors transaction records locally. Persistence is optional for
// the core, a nil Store disables it.
type Store interface {
	SaveTransaction(tx *types.BridgeTransaction) error
	ChangeTransactionStatus(tx *types.BridgeTransaction, prev types.TxStatus) error
	AddMonthlyVolumeUsd(amount decimal.Decimal) error
}
