// Package bridgeapi is the client for the remote bridge coordination
// service that custodies and relays funds. The core only ever talks to it
// through the Client interface so tests can substitute fakes.
package bridgeapi

import (
	"context"

	"github.com/shopspring/decimal"

	"golunesbridge/types"
)

type CreateRequest struct {
	SourceChain     types.ChainType
	DestChain       types.ChainType
	Amount          decimal.Decimal
	Fee             decimal.Decimal
	SourceAddress   string
	DestAddress     string
	SourceSignature string
}

type Client interface {
	// CreateTransaction registers a transfer intent; the service allocates
	// the transaction id and starts it at status pending.
	CreateTransaction(ctx context.Context, req CreateRequest) (string, error)
	GetTransaction(ctx context.Context, id string) (*types.BridgeTransaction, error)
	// SendWebhookNotification is best-effort telemetry, callers must treat
	// failure as non-fatal.
	SendWebhookNotification(ctx context.Context, eventType string, payload interface{}) error
	GetHealth(ctx context.Context) (bool, error)
}

// PushSubscriber is the optional push-channel upgrade. When a subscription
// succeeds it fully replaces polling for that id, it is never a second
// source of truth next to the poll loop.
type PushSubscriber interface {
	// SubscribeTransaction streams records for one id until stop is called
	// or the server closes the stream. The channel is closed on teardown.
	SubscribeTransaction(ctx context.Context, id string) (<-chan *types.BridgeTransaction, func(), error)
}
