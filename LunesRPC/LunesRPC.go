package LunesRPC

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/ybbus/jsonrpc"

	"golunesbridge/chains"
	"golunesbridge/config"
)

// Client wraps the bridge RPC module of a Lunes (Substrate) node. The node
// holds the custodial wallet, so token calls go through wallet-style RPC
// methods rather than locally signed extrinsics.
type Client struct {
	rpc jsonrpc.RPCClient
}

func NewClient() *Client {
	return &Client{
		rpc: jsonrpc.NewClient(fmt.Sprintf("http://%s:%d", config.Config.Lunes.Host, config.Config.Lunes.Port)),
	}
}

func (c *Client) call(method string, params ...interface{}) (*jsonrpc.RPCResponse, error) {
	resp, err := c.rpc.Call(method, params...)
	if err != nil {
		return nil, err
	}
	if resp.Error != nil {
		return nil, fmt.Errorf("%s RPC error %d: %s", method, resp.Error.Code, resp.Error.Message)
	}
	return resp, nil
}

func (c *Client) callDecimal(method string, params ...interface{}) (decimal.Decimal, error) {
	resp, err := c.call(method, params...)
	if err != nil {
		return decimal.Zero, err
	}
	raw, err := resp.GetString()
	if err != nil {
		return decimal.Zero, err
	}
	return decimal.NewFromString(raw)
}

func (c *Client) callHash(method string, params ...interface{}) (string, error) {
	resp, err := c.call(method, params...)
	if err != nil {
		return "", err
	}
	hash, err := resp.GetString()
	if err != nil {
		return "", err
	}
	if hash == "" {
		return "", errors.New("node returned empty transaction hash")
	}
	return hash, nil
}

func (c *Client) GetBalance(ctx context.Context, address, token string) (decimal.Decimal, error) {
	return c.callDecimal("bridge_tokenBalance", token, address)
}

func (c *Client) Transfer(ctx context.Context, from, to, token string, amount decimal.Decimal) (string, error) {
	return c.callHash("bridge_tokenTransfer", token, from, to, amount.String())
}

func (c *Client) Burn(ctx context.Context, amount decimal.Decimal, destAddress string) (string, error) {
	return c.callHash("bridge_burn", config.Config.Lunes.TokenContract, config.Config.Lunes.WalletAddress, amount.String(), destAddress)
}

func (c *Client) GetAllowance(ctx context.Context, token, owner, spender string) (decimal.Decimal, error) {
	return c.callDecimal("bridge_tokenAllowance", token, owner, spender)
}

func (c *Client) Approve(ctx context.Context, token, owner, spender string, amount decimal.Decimal) (*chains.Receipt, error) {
	hash, err := c.callHash("bridge_tokenApprove", token, owner, spender, amount.String())
	if err != nil {
		return nil, err
	}
	return &chains.Receipt{Signature: hash}, nil
}

func (c *Client) IsContractPaused(ctx context.Context) (bool, error) {
	resp, err := c.call("bridge_isPaused", config.Config.Lunes.TokenContract)
	if err != nil {
		return false, err
	}
	return resp.GetBool()
}

func (c *Client) GetMonthlyVolumeUsd(ctx context.Context) (decimal.Decimal, error) {
	return c.callDecimal("bridge_monthlyVolumeUsd", config.Config.Lunes.WalletAddress)
}
