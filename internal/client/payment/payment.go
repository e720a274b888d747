// Package payment settles the share fee on chain before a share request is
// stored.
package payment

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/dmitrijs2005/cryptopass/internal/common"
)

// BypassTxHash is recorded on share requests created with payments off.
const BypassTxHash = "dev-mode-no-payment"

// Payer transfers amount wei from one address to another and returns the
// hash of a confirmed transaction.
type Payer interface {
	Pay(ctx context.Context, from, to string, amount *big.Int) (string, error)
}

// Bypass is the Payer used when payments are disabled.
type Bypass struct{}

func (Bypass) Pay(context.Context, string, string, *big.Int) (string, error) {
	return BypassTxHash, nil
}

// ParseWei parses a decimal wei amount.
func ParseWei(s string) (*big.Int, error) {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok || v.Sign() < 0 {
		return nil, fmt.Errorf("invalid wei amount %q", s)
	}
	return v, nil
}

type rpcCaller interface {
	Call(ctx context.Context, out any, method string, params ...any) error
}

type transaction struct {
	From  string `json:"from"`
	To    string `json:"to"`
	Value string `json:"value"`
}

type receipt struct {
	Status string `json:"status"`
}

var errReceiptPending = errors.New("receipt pending")

// RPCPayer sends the fee through the wallet's JSON-RPC endpoint and waits
// for the receipt.
type RPCPayer struct {
	rpc         rpcCaller
	pollInitial time.Duration
	pollMax     time.Duration
	maxElapsed  time.Duration
}

func NewRPCPayer(rpc rpcCaller) *RPCPayer {
	return &RPCPayer{
		rpc:         rpc,
		pollInitial: 500 * time.Millisecond,
		pollMax:     5 * time.Second,
		maxElapsed:  2 * time.Minute,
	}
}

// Pay sends eth_sendTransaction and polls eth_getTransactionReceipt until
// the transaction is mined. A reverted transaction or a receipt that never
// shows up yields common.ErrPaymentFailed.
func (p *RPCPayer) Pay(ctx context.Context, from, to string, amount *big.Int) (string, error) {
	var txHash string
	tx := transaction{From: from, To: to, Value: "0x" + amount.Text(16)}
	if err := p.rpc.Call(ctx, &txHash, "eth_sendTransaction", tx); err != nil {
		return "", fmt.Errorf("%w: send transaction: %w", common.ErrPaymentFailed, err)
	}
	if txHash == "" {
		return "", fmt.Errorf("%w: empty transaction hash", common.ErrPaymentFailed)
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = p.pollInitial
	b.MaxInterval = p.pollMax

	rcpt, err := backoff.Retry(ctx, func() (*receipt, error) {
		var r *receipt
		if err := p.rpc.Call(ctx, &r, "eth_getTransactionReceipt", txHash); err != nil {
			return nil, err
		}
		if r == nil {
			return nil, errReceiptPending
		}
		return r, nil
	}, backoff.WithBackOff(b), backoff.WithMaxElapsedTime(p.maxElapsed))
	if err != nil {
		return "", fmt.Errorf("%w: transaction %s: %w", common.ErrPaymentFailed, txHash, err)
	}

	if rcpt.Status != "0x1" {
		return "", fmt.Errorf("%w: transaction %s reverted", common.ErrPaymentFailed, txHash)
	}
	return txHash, nil
}
