package bridge

import (
	"context"
	"fmt"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"golunesbridge/chains"
	"golunesbridge/types"
)

// UIState is the user-visible lifecycle of one bridge attempt.
type UIState string

const (
	UIStateIdle       UIState = "idle"
	UIStateProcessing UIState = "processing"
	UIStateSuccess    UIState = "success"
	UIStateError      UIState = "error"
	// approval_required asks the user to act, it is not a failure
	UIStateApprovalRequired UIState = "approval_required"
)

// StateCallback receives every state transition with a display-safe message.
type StateCallback func(state UIState, message string)

const failedDiagnostic = "the bridge reported the transaction as failed"

// Orchestrator is the top-level coordinator: it rate-limits, validates,
// initiates, then hands the transaction id to the tracker and relays status
// back as UI state.
type Orchestrator struct {
	initiator *Initiator
	tracker   *Tracker
	limiter   *RateLimiter
	devMode   bool

	mu      sync.Mutex
	state   UIState
	onState StateCallback
}

func NewOrchestrator(initiator *Initiator, tracker *Tracker, limiter *RateLimiter, devMode bool) *Orchestrator {
	return &Orchestrator{
		initiator: initiator,
		tracker:   tracker,
		limiter:   limiter,
		devMode:   devMode,
		state:     UIStateIdle,
	}
}

// SetStateCallback registers the UI state listener.
func (o *Orchestrator) SetStateCallback(cb StateCallback) {
	o.mu.Lock()
	o.onState = cb
	o.mu.Unlock()
}

func (o *Orchestrator) State() UIState {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

func (o *Orchestrator) setState(state UIState, message string) {
	o.mu.Lock()
	o.state = state
	cb := o.onState
	o.mu.Unlock()
	if cb != nil {
		cb(state, message)
	}
}

// Execute runs one bridge attempt. The client-side rate limit is checked
// before anything else and trips without contacting any remote system. On
// success tracking starts immediately and further outcomes arrive only
// through the state callback, never as an error from here.
func (o *Orchestrator) Execute(ctx context.Context, direction types.Direction, amount, sourceAddr, destAddr string) (*types.BridgeTransaction, error) {
	if ok, retryAfter := o.limiter.Allow(); !ok {
		err := &types.BridgeError{
			Kind:       types.ErrRateLimited,
			Message:    fmt.Sprintf("too many bridge attempts, retry in %s", retryAfter.Round(time.Second)),
			RetryAfter: retryAfter,
		}
		o.setState(UIStateError, UserMessage(err, o.devMode))
		return nil, err
	}

	if err := chains.ValidateAddress(direction.SourceChain(), sourceAddr); err != nil {
		berr := &types.BridgeError{Kind: types.ErrInvalidAddress, Field: "sourceAddress", Message: "source wallet address is malformed"}
		o.setState(UIStateError, UserMessage(berr, o.devMode))
		return nil, berr
	}
	if err := chains.ValidateAddress(direction.DestChain(), destAddr); err != nil {
		berr := &types.BridgeError{Kind: types.ErrInvalidAddress, Field: "destinationAddress", Message: "destination wallet address is malformed"}
		o.setState(UIStateError, UserMessage(berr, o.devMode))
		return nil, berr
	}

	tx, err := o.initiator.Initiate(ctx, InitiateRequest{
		Direction:  direction,
		Amount:     amount,
		SourceAddr: sourceAddr,
		DestAddr:   destAddr,
	})
	if err != nil {
		log.Printf("error initiating %s of %s: %s", direction, amount, err.Error())
		state := UIStateError
		if types.IsKind(err, types.ErrApprovalRequired) {
			state = UIStateApprovalRequired
		}
		o.setState(state, UserMessage(err, o.devMode))
		return nil, err
	}

	o.setState(UIStateProcessing, "")
	o.tracker.StartTracking(tx.ID, o.relayUpdate)

	return tx, nil
}

// relayUpdate maps tracker observations onto UI state: completed becomes
// success, failed becomes error with a fixed diagnostic, anything in flight
// stays processing.
func (o *Orchestrator) relayUpdate(record *types.BridgeTransaction) {
	switch record.Status {
	case types.StatusCompleted:
		o.setState(UIStateSuccess, "")
	case types.StatusFailed:
		o.setState(UIStateError, failedDiagnostic)
	default:
		o.setState(UIStateProcessing, "")
	}
}

// Close cancels every tracking session the orchestrator owns.
func (o *Orchestrator) Close() {
	o.tracker.StopAll()
}
