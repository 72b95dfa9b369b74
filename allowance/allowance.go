// Package allowance gates the redemption path: burning requires the fee
// collector to be pre-authorized to move both the bridged token and the
// fee token out of the user's account. The deposit path never consults it.
package allowance

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"golunesbridge/chains"
	"golunesbridge/types"
)

type Requirement struct {
	Token     string
	MinAmount decimal.Decimal
}

// State is a snapshot of one (token, owner, spender) allowance against its
// requirement. Approved never assumes monotonicity of the on-chain value;
// a re-check can observe it revoked or consumed below the requirement.
type State struct {
	Token    string
	Required decimal.Decimal
	Current  decimal.Decimal
	Approved bool
}

type Gate struct {
	client chains.ChainClient
}

func NewGate(client chains.ChainClient) *Gate {
	return &Gate{client: client}
}

// Check reads current on-chain allowances and evaluates each requirement.
// It never mutates chain state.
func (g *Gate) Check(ctx context.Context, owner, spender string, reqs []Requirement) (map[string]State, error) {
	states := make(map[string]State, len(reqs))
	for _, req := range reqs {
		current, err := g.client.GetAllowance(ctx, req.Token, owner, spender)
		if err != nil {
			return nil, fmt.Errorf("error reading allowance for token %s: %w", req.Token, err)
		}
		states[req.Token] = State{
			Token:    req.Token,
			Required: req.MinAmount,
			Current:  current,
			Approved: current.GreaterThanOrEqual(req.MinAmount),
		}
	}
	return states, nil
}

// Satisfied reports whether every requirement in a Check result is approved.
func Satisfied(states map[string]State) bool {
	for _, st := range states {
		if !st.Approved {
			return false
		}
	}
	return true
}

// Approve submits a single approval transaction. Approval is a deliberate
// user action, so a failed or declined submission is not retried here.
func (g *Gate) Approve(ctx context.Context, owner, spender, token string, amount decimal.Decimal) (*chains.Receipt, error) {
	receipt, err := g.client.Approve(ctx, token, owner, spender, amount)
	if err != nil {
		log.Printf("error submitting approval for token %s: %s", token, err.Error())
		return nil, types.WrapBridgeError(types.ErrApprovalRejected, "approval transaction was rejected", err)
	}
	return receipt, nil
}
