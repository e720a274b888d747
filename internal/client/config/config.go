package config

import (
	"os"
	"time"
)

// Signer modes.
const (
	SignerDev = "dev"
	SignerRPC = "rpc"
)

// DefaultShareFeeWei is 0.0001 ETH.
const DefaultShareFeeWei = "100000000000000"

// Config holds runtime settings for the CryptoPass client and extension.
//
// Fields:
//   - ServerEndpointAddr: host:port of the document store gRPC endpoint.
//   - ReconnectInterval: how often the client probes server reachability.
//   - BridgeAddr: host:port the extension listens on for bridge messages.
//   - BridgeAllowedOrigins: websocket origins the extension accepts.
//   - DataDir: directory for the SQLite database and the bbolt cache.
//   - PaymentsEnabled: whether sharing requires an on-chain fee.
//   - ShareFeeWei: fee in wei, decimal string.
//   - FeeRecipient: fee destination; empty pays the share recipient.
//   - EthRPCURL: Ethereum JSON-RPC endpoint for the rpc signer and payments.
//   - SignerMode: dev (local passphrase) or rpc.
//   - AutoLockMinutes: idle minutes before the key is dropped; 0 disables.
type Config struct {
	ServerEndpointAddr   string
	ReconnectInterval    time.Duration
	BridgeAddr           string
	BridgeAllowedOrigins []string
	DataDir              string
	PaymentsEnabled      bool
	ShareFeeWei          string
	FeeRecipient         string
	EthRPCURL            string
	SignerMode           string
	AutoLockMinutes      int
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerEndpointAddr = "127.0.0.1:50051"
	c.ReconnectInterval = 3 * time.Second
	c.BridgeAddr = "127.0.0.1:7420"
	c.BridgeAllowedOrigins = nil
	c.DataDir = ".cryptopass"
	c.PaymentsEnabled = false
	c.ShareFeeWei = DefaultShareFeeWei
	c.FeeRecipient = ""
	c.EthRPCURL = "http://127.0.0.1:8545"
	c.SignerMode = SignerDev
	c.AutoLockMinutes = 15
}

// AutoLock returns the idle timeout as a duration.
func (c *Config) AutoLock() time.Duration {
	return time.Duration(c.AutoLockMinutes) * time.Minute
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// a config file (if present) and command-line flags (if present).
func LoadConfig() *Config {
	return LoadConfigFrom(os.Args[1:])
}

// LoadConfigFrom is LoadConfig over an explicit argument list.
func LoadConfigFrom(args []string) *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseFile(cfg, args)
	parseFlags(cfg, args)
	return cfg
}
