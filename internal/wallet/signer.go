package wallet

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/cryptopass/internal/netx"
)

var ErrNoAccounts = errors.New("wallet returned no accounts")

// Signer is the external wallet.
type Signer interface {
	RequestAccounts(ctx context.Context) (string, error)
	PersonalSign(ctx context.Context, message, address string) (string, error)
}

type rpcCaller interface {
	Call(ctx context.Context, out any, method string, params ...any) error
}

// RPCSigner asks a JSON-RPC wallet endpoint (eth_requestAccounts /
// personal_sign) for the account and signatures.
type RPCSigner struct {
	rpc rpcCaller
}

func NewRPCSigner(rpc *netx.RPCClient) *RPCSigner {
	return &RPCSigner{rpc: rpc}
}

func (s *RPCSigner) RequestAccounts(ctx context.Context) (string, error) {
	var accounts []string
	if err := s.rpc.Call(ctx, &accounts, "eth_requestAccounts"); err != nil {
		return "", fmt.Errorf("request accounts: %w", err)
	}
	if len(accounts) == 0 {
		return "", ErrNoAccounts
	}
	return accounts[0], nil
}

// PersonalSign sends the message as plain UTF-8 text; the wallet applies the
// EIP-191 prefix itself.
func (s *RPCSigner) PersonalSign(ctx context.Context, message, address string) (string, error) {
	var sig string
	if err := s.rpc.Call(ctx, &sig, "personal_sign", message, address); err != nil {
		return "", fmt.Errorf("personal_sign: %w", err)
	}
	return sig, nil
}

// DevSigner is a local stand-in for a wallet. The same passphrase always
// yields the same address and signatures, so vaults written with it can be
// read back later. It must not be used for real funds or real data.
type DevSigner struct {
	secret  [32]byte
	address string
}

func NewDevSigner(passphrase string) *DevSigner {
	secret := sha256.Sum256([]byte("cryptopass-dev-wallet:" + passphrase))
	addr := sha256.Sum256(secret[:])
	return &DevSigner{
		secret:  secret,
		address: "0x" + hex.EncodeToString(addr[:20]),
	}
}

func (s *DevSigner) RequestAccounts(context.Context) (string, error) {
	return s.address, nil
}

func (s *DevSigner) PersonalSign(_ context.Context, message, address string) (string, error) {
	if !strings.EqualFold(address, s.address) {
		return "", fmt.Errorf("dev signer: unknown account %s", address)
	}
	mac := hmac.New(sha256.New, s.secret[:])
	mac.Write([]byte(message))
	return "0x" + hex.EncodeToString(mac.Sum(nil)), nil
}
