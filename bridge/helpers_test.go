package bridge

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/shopspring/decimal"

	"golunesbridge/bridgeapi"
	"golunesbridge/chains"
	"golunesbridge/fees"
	"golunesbridge/types"
)

const (
	testSolAddr   = "11111111111111111111111111111111"
	testCustody   = "So11111111111111111111111111111111111111112"
	testMint      = "4k3Dyjzvzp8eMZWUXbBCjEvwSkkk59S5iCNLY3QrkX6R"
	testLunesAddr = "5GrwvaEF5zXb26Fz9rcQpDWS57CtERHpNehXCPcNoHGKutQY"
	testSolDest   = "TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA"

	testToken    = "5FHneW46xGXgs5mUiveU4sbTyGBzmstUspZC92UhjJM694ty"
	testFeeToken = "5DAAnrj7VHTznn2AWBemMuyBwZWs6FNFjdyVXUeYum3PTXFy"
)

func testFeeConfig() fees.FeeConfig {
	return fees.FeeConfig{
		LowBps:              60,
		MediumBps:           45,
		HighBps:             30,
		VolumeThreshold1Usd: decimal.NewFromInt(10000),
		VolumeThreshold2Usd: decimal.NewFromInt(100000),
		TokenPrecision:      8,
	}
}

func testInitiatorConfig() InitiatorConfig {
	return InitiatorConfig{
		Fees:                  testFeeConfig(),
		SolanaTokenMint:       testMint,
		SolanaCustody:         testCustody,
		LunesTokenContract:    testToken,
		LunesFeeTokenContract: testFeeToken,
		FeeCollector:          testLunesAddr,
	}
}

// spyChain records every call so tests can assert what was, and was not,
// submitted on-chain.
type spyChain struct {
	mu         sync.Mutex
	paused     bool
	pausedErr  error
	allowances map[string]decimal.Decimal
	volume     decimal.Decimal
	volumeErr  error

	burnErr     error
	transferErr error

	burnCalls     int
	transferCalls int
	allowReads    int

	lastBurnAmount     decimal.Decimal
	lastTransferAmount decimal.Decimal
}

func newSpyChain() *spyChain {
	return &spyChain{allowances: map[string]decimal.Decimal{}}
}

func (f *spyChain) GetBalance(ctx context.Context, address, token string) (decimal.Decimal, error) {
	return decimal.Zero, nil
}

func (f *spyChain) Transfer(ctx context.Context, from, to, token string, amount decimal.Decimal) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.transferCalls++
	f.lastTransferAmount = amount
	if f.transferErr != nil {
		return "", f.transferErr
	}
	return "sig-transfer-1", nil
}

func (f *spyChain) Burn(ctx context.Context, amount decimal.Decimal, destAddress string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.burnCalls++
	f.lastBurnAmount = amount
	if f.burnErr != nil {
		return "", f.burnErr
	}
	return "sig-burn-1", nil
}

func (f *spyChain) GetAllowance(ctx context.Context, token, owner, spender string) (decimal.Decimal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.allowReads++
	return f.allowances[token], nil
}

func (f *spyChain) Approve(ctx context.Context, token, owner, spender string, amount decimal.Decimal) (*chains.Receipt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.allowances[token] = amount
	return &chains.Receipt{Signature: "sig-approve-1"}, nil
}

func (f *spyChain) IsContractPaused(ctx context.Context) (bool, error) {
	return f.paused, f.pausedErr
}

func (f *spyChain) GetMonthlyVolumeUsd(ctx context.Context) (decimal.Decimal, error) {
	return f.volume, f.volumeErr
}

// fakeAPI is a scriptable bridge coordination service.
type fakeAPI struct {
	mu sync.Mutex

	healthy   bool
	healthErr error

	createID  string
	createErr error
	created   []bridgeapi.CreateRequest

	records   []*types.BridgeTransaction // returned in order, last repeats
	fetchErrs int                        // first N fetches fail
	fetchDly  time.Duration

	fetches     int64
	inflight    int64
	maxInflight int64

	webhookErr   error
	webhookCalls int64
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{healthy: true, createID: "tx-1"}
}

func (f *fakeAPI) CreateTransaction(ctx context.Context, req bridgeapi.CreateRequest) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return "", f.createErr
	}
	f.created = append(f.created, req)
	return f.createID, nil
}

func (f *fakeAPI) GetTransaction(ctx context.Context, id string) (*types.BridgeTransaction, error) {
	cur := atomic.AddInt64(&f.inflight, 1)
	for {
		max := atomic.LoadInt64(&f.maxInflight)
		if cur <= max || atomic.CompareAndSwapInt64(&f.maxInflight, max, cur) {
			break
		}
	}
	defer atomic.AddInt64(&f.inflight, -1)

	if f.fetchDly > 0 {
		time.Sleep(f.fetchDly)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetches++
	if f.fetchErrs > 0 {
		f.fetchErrs--
		return nil, context.DeadlineExceeded
	}
	if len(f.records) == 0 {
		return &types.BridgeTransaction{ID: id, Status: types.StatusPending}, nil
	}
	record := f.records[0]
	if len(f.records) > 1 {
		f.records = f.records[1:]
	}
	copied := *record
	return &copied, nil
}

func (f *fakeAPI) fetchCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int(f.fetches)
}

func (f *fakeAPI) SendWebhookNotification(ctx context.Context, eventType string, payload interface{}) error {
	atomic.AddInt64(&f.webhookCalls, 1)
	return f.webhookErr
}

func (f *fakeAPI) GetHealth(ctx context.Context) (bool, error) {
	return f.healthy, f.healthErr
}

func record(id string, status types.TxStatus) *types.BridgeTransaction {
	return &types.BridgeTransaction{
		ID:     id,
		Status: status,
		Amount: decimal.NewFromInt(1000),
	}
}
