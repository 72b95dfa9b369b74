package types

import (
	"errors"
	"fmt"
	"time"
)

type ErrKind string

const (
	ErrInvalidAmount      ErrKind = "invalid_amount"
	ErrInvalidAddress     ErrKind = "invalid_address"
	ErrContractPaused     ErrKind = "contract_paused"
	ErrBridgeUnavailable  ErrKind = "bridge_unavailable"
	ErrApprovalRequired   ErrKind = "approval_required"
	ErrApprovalRejected   ErrKind = "approval_rejected"
	ErrRegistrationFailed ErrKind = "registration_failed"
	ErrRateLimited        ErrKind = "rate_limited"
	ErrTransactionFailed  ErrKind = "transaction_failed"
	ErrBadResponse        ErrKind = "bad_response"
)

// BridgeError is the error surface of the bridge core. RegistrationFailed
// carries the already-obtained source signature so the on-chain leg is never
// silently repeated; RateLimited carries the time until the window resets.
type BridgeError struct {
	Kind       ErrKind
	Message    string
	Field      string
	Signature  string
	RetryAfter time.Duration
	Cause      error
}

func (e *BridgeError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %s", e.Kind, e.Message, e.Cause.Error())
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *BridgeError) Unwrap() error {
	return e.Cause
}

func NewBridgeError(kind ErrKind, msg string) *BridgeError {
	return &BridgeError{Kind: kind, Message: msg}
}

func WrapBridgeError(kind ErrKind, msg string, cause error) *BridgeError {
	return &BridgeError{Kind: kind, Message: msg, Cause: cause}
}

// IsKind reports whether err is (or wraps) a BridgeError of the given kind.
func IsKind(err error, kind ErrKind) bool {
	var be *BridgeError
	if errors.As(err, &be) {
		return be.Kind == kind
	}
	return false
}

// AsBridgeError returns the wrapped BridgeError, or nil.
func AsBridgeError(err error) *BridgeError {
	var be *BridgeError
	if errors.As(err, &be) {
		return be
	}
	return nil
}
