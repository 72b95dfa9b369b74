package bridge

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"golunesbridge/allowance"
	"golunesbridge/types"
)

type stateLog struct {
	mu       sync.Mutex
	states   []UIState
	messages []string
}

func (l *stateLog) callback(state UIState, message string) {
	l.mu.Lock()
	l.states = append(l.states, state)
	l.messages = append(l.messages, message)
	l.mu.Unlock()
}

func (l *stateLog) snapshot() []UIState {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]UIState(nil), l.states...)
}

func (l *stateLog) lastMessage() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.messages) == 0 {
		return ""
	}
	return l.messages[len(l.messages)-1]
}

func newTestOrchestrator(sol, lunes *spyChain, api *fakeAPI, limiter *RateLimiter) (*Orchestrator, *stateLog) {
	ini := NewInitiator(sol, lunes, api, allowance.NewGate(lunes), nil, testInitiatorConfig())
	tracker := NewTracker(api, nil, 10*time.Millisecond, 0, false)
	if limiter == nil {
		limiter = NewRateLimiter(100, time.Minute)
	}
	orch := NewOrchestrator(ini, tracker, limiter, false)
	states := &stateLog{}
	orch.SetStateCallback(states.callback)
	return orch, states
}

func TestExecuteDepositEndToEnd(t *testing.T) {
	sol := newSpyChain()
	api := newFakeAPI()
	api.records = []*types.BridgeTransaction{
		record("tx-1", types.StatusPending),
		record("tx-1", types.StatusProcessing),
		record("tx-1", types.StatusCompleted),
	}
	orch, states := newTestOrchestrator(sol, newSpyChain(), api, nil)
	defer orch.Close()

	tx, err := orch.Execute(context.Background(), types.DirectionDeposit, "1000", testSolAddr, testLunesAddr)
	require.NoError(t, err)
	assert.Equal(t, "tx-1", tx.ID)
	assert.Equal(t, "6", tx.Fee.String())

	require.Eventually(t, func() bool {
		return orch.State() == UIStateSuccess
	}, time.Second, 10*time.Millisecond)

	seen := states.snapshot()
	require.NotEmpty(t, seen)
	assert.Equal(t, UIStateProcessing, seen[0])
	assert.Equal(t, UIStateSuccess, seen[len(seen)-1])
}

func TestExecuteFailedTransactionReportsError(t *testing.T) {
	api := newFakeAPI()
	api.records = []*types.BridgeTransaction{
		record("tx-1", types.StatusPending),
		record("tx-1", types.StatusFailed),
	}
	orch, states := newTestOrchestrator(newSpyChain(), newSpyChain(), api, nil)
	defer orch.Close()

	_, err := orch.Execute(context.Background(), types.DirectionDeposit, "1000", testSolAddr, testLunesAddr)
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return orch.State() == UIStateError
	}, time.Second, 10*time.Millisecond)
	assert.Equal(t, failedDiagnostic, states.lastMessage())
}

func TestExecuteRateLimitTripsBeforeAnyWork(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	limiter := NewRateLimiterWithClock(3, 5*time.Minute, func() time.Time { return now })

	sol := newSpyChain()
	api := newFakeAPI()
	orch, _ := newTestOrchestrator(sol, newSpyChain(), api, limiter)
	defer orch.Close()

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		_, err := orch.Execute(ctx, types.DirectionDeposit, "10", testSolAddr, testLunesAddr)
		require.NoError(t, err, "attempt %d", i+1)
	}

	transfersBefore := sol.transferCalls
	_, err := orch.Execute(ctx, types.DirectionDeposit, "10", testSolAddr, testLunesAddr)
	require.Error(t, err)

	be := types.AsBridgeError(err)
	require.NotNil(t, be)
	assert.Equal(t, types.ErrRateLimited, be.Kind)
	assert.Equal(t, 5*time.Minute, be.RetryAfter)
	// the denied attempt never reached the chain
	assert.Equal(t, transfersBefore, sol.transferCalls)

	now = now.Add(5*time.Minute + time.Second)
	_, err = orch.Execute(ctx, types.DirectionDeposit, "10", testSolAddr, testLunesAddr)
	assert.NoError(t, err)
}

func TestExecuteApprovalRequiredIsNotAnError(t *testing.T) {
	lunes := newSpyChain() // nothing approved yet
	orch, states := newTestOrchestrator(newSpyChain(), lunes, newFakeAPI(), nil)
	defer orch.Close()

	_, err := orch.Execute(context.Background(), types.DirectionRedemption, "1000", testLunesAddr, testSolDest)
	require.Error(t, err)
	assert.True(t, types.IsKind(err, types.ErrApprovalRequired))
	assert.Equal(t, UIStateApprovalRequired, orch.State())

	seen := states.snapshot()
	require.NotEmpty(t, seen)
	assert.Equal(t, UIStateApprovalRequired, seen[len(seen)-1])
}

func TestExecuteValidatesWalletsBeforeInitiating(t *testing.T) {
	sol := newSpyChain()
	orch, states := newTestOrchestrator(sol, newSpyChain(), newFakeAPI(), nil)
	defer orch.Close()

	_, err := orch.Execute(context.Background(), types.DirectionDeposit, "10", "garbage", testLunesAddr)
	require.Error(t, err)
	assert.True(t, types.IsKind(err, types.ErrInvalidAddress))
	assert.Equal(t, 0, sol.transferCalls)
	assert.Equal(t, UIStateError, orch.State())

	seen := states.snapshot()
	require.NotEmpty(t, seen)
	assert.Equal(t, UIStateError, seen[len(seen)-1])
}

func TestExecuteRestartReplacesTrackingSession(t *testing.T) {
	api := newFakeAPI()
	orch, _ := newTestOrchestrator(newSpyChain(), newSpyChain(), api, nil)
	defer orch.Close()

	ctx := context.Background()
	tx, err := orch.Execute(ctx, types.DirectionDeposit, "10", testSolAddr, testLunesAddr)
	require.NoError(t, err)

	// a second attempt for the same id supersedes the first session
	tx2, err := orch.Execute(ctx, types.DirectionDeposit, "10", testSolAddr, testLunesAddr)
	require.NoError(t, err)
	require.Equal(t, tx.ID, tx2.ID)

	assert.True(t, orch.tracker.IsTracking(tx.ID))
	orch.Close()
	assert.False(t, orch.tracker.IsTracking(tx.ID))
}
