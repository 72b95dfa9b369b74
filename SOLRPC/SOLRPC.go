package SOLRPC

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/token"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"golunesbridge/chains"
	"golunesbridge/config"
	"golunesbridge/types"
)

// WithClient runs f against the configured RPC endpoints in order until one
// of them answers.
func WithClient[T any](f func(client *rpc.Client) (T, error)) (res T, err error) {
	for _, url := range config.Config.Solana.RPCList {
		client := rpc.New(url)
		res, err = f(client)
		if err == nil {
			return
		}
		log.Println(fmt.Sprintf("Error calling %s: %s", url, err.Error()))
	}
	return
}

// Client is the Solana side of the bridge. Deposits transfer the token into
// custody; allowance calls are not part of this chain's path.
type Client struct {
	decimals int32
}

func NewClient() *Client {
	return &Client{decimals: config.Chains[int(types.CHAINKEY_SOLANA)].Decimals}
}

func (c *Client) GetBalance(ctx context.Context, address, tokenMint string) (decimal.Decimal, error) {
	owner, err := solana.PublicKeyFromBase58(address)
	if err != nil {
		return decimal.Zero, err
	}
	mint, err := solana.PublicKeyFromBase58(tokenMint)
	if err != nil {
		return decimal.Zero, err
	}

	ata, _, err := solana.FindAssociatedTokenAddress(owner, mint)
	if err != nil {
		return decimal.Zero, err
	}

	out, err := WithClient(func(client *rpc.Client) (*rpc.GetTokenAccountBalanceResult, error) {
		return client.GetTokenAccountBalance(ctx, ata, rpc.CommitmentFinalized)
	})
	if err != nil {
		return decimal.Zero, err
	}
	if out == nil || out.Value == nil {
		return decimal.Zero, errors.New("empty token balance response")
	}

	return decimal.NewFromString(out.Value.UiAmountString)
}

// Transfer moves tokens from the user's associated token account into the
// destination account. The bridge wallet signs as the delegate authority
// over the source account.
func (c *Client) Transfer(ctx context.Context, from, to, tokenMint string, amount decimal.Decimal) (string, error) {
	source, err := solana.PublicKeyFromBase58(from)
	if err != nil {
		return "", fmt.Errorf("error parsing source address: %s", err)
	}
	mint, err := solana.PublicKeyFromBase58(tokenMint)
	if err != nil {
		return "", err
	}
	dest, err := solana.PublicKeyFromBase58(to)
	if err != nil {
		return "", err
	}

	wallet, err := solana.PrivateKeyFromBase58(config.Config.Solana.WalletKey)
	if err != nil {
		return "", fmt.Errorf("error instantiating wallet key: %s", err)
	}
	authority := wallet.PublicKey()

	sourceATA, _, err := solana.FindAssociatedTokenAddress(source, mint)
	if err != nil {
		return "", err
	}
	destATA, _, err := solana.FindAssociatedTokenAddress(dest, mint)
	if err != nil {
		return "", err
	}

	baseUnits := amount.Shift(c.decimals).BigInt().Uint64()

	sig, err := WithClient(func(client *rpc.Client) (solana.Signature, error) {
		recent, err := client.GetLatestBlockhash(ctx, rpc.CommitmentFinalized)
		if err != nil {
			return solana.Signature{}, err
		}

		instr := token.NewTransferCheckedInstruction(
			baseUnits,
			uint8(c.decimals),
			sourceATA,
			mint,
			destATA,
			authority,
			nil,
		).Build()

		tx, err := solana.NewTransaction(
			[]solana.Instruction{instr},
			recent.Value.Blockhash,
			solana.TransactionPayer(authority),
		)
		if err != nil {
			return solana.Signature{}, err
		}

		_, err = tx.Sign(func(key solana.PublicKey) *solana.PrivateKey {
			if key.Equals(authority) {
				return &wallet
			}
			return nil
		})
		if err != nil {
			return solana.Signature{}, err
		}

		return client.SendTransaction(ctx, tx)
	})
	if err != nil {
		return "", err
	}

	return sig.String(), nil
}

// Burn is a redemption-path call, it never happens on the deposit chain.
func (c *Client) Burn(ctx context.Context, amount decimal.Decimal, destAddress string) (string, error) {
	return "", errors.New("burn is not supported on the Solana side")
}

func (c *Client) GetAllowance(ctx context.Context, tokenMint, owner, spender string) (decimal.Decimal, error) {
	return decimal.Zero, errors.New("allowances are not part of the deposit path")
}

func (c *Client) Approve(ctx context.Context, tokenMint, owner, spender string, amount decimal.Decimal) (*chains.Receipt, error) {
	return nil, errors.New("allowances are not part of the deposit path")
}

func (c *Client) IsContractPaused(ctx context.Context) (bool, error) {
	pause, err := solana.PublicKeyFromBase58(config.Config.Solana.PauseAccount)
	if err != nil {
		return false, err
	}

	out, err := WithClient(func(client *rpc.Client) (*rpc.GetAccountInfoResult, error) {
		return client.GetAccountInfo(ctx, pause)
	})
	if err != nil {
		return false, err
	}
	if out == nil || out.Value == nil {
		return false, errors.New("empty pause account response")
	}

	data := out.Value.Data.GetBinary()
	return len(data) > 0 && data[0] == 1, nil
}

// GetMonthlyVolumeUsd reads the tax manager's volume account: a
// little-endian uint64 of USD cents for the current period.
func (c *Client) GetMonthlyVolumeUsd(ctx context.Context) (decimal.Decimal, error) {
	volume, err := solana.PublicKeyFromBase58(config.Config.Solana.VolumeAccount)
	if err != nil {
		return decimal.Zero, err
	}

	out, err := WithClient(func(client *rpc.Client) (*rpc.GetAccountInfoResult, error) {
		return client.GetAccountInfo(ctx, volume)
	})
	if err != nil {
		return decimal.Zero, err
	}
	if out == nil || out.Value == nil {
		return decimal.Zero, errors.New("empty volume account response")
	}

	data := out.Value.Data.GetBinary()
	if len(data) < 8 {
		return decimal.Zero, errors.New("volume account data too short")
	}

	cents := binary.LittleEndian.Uint64(data[:8])
	return decimal.NewFromInt(int64(cents)).Div(decimal.NewFromInt(100)), nil
}
