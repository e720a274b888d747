package config

import (
	"encoding/json"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/dmitrijs2005/cryptopass/internal/flagx"
	"github.com/dmitrijs2005/cryptopass/internal/timex"
)

// FileConfig is the on-disk shape of the client configuration. Pointer
// fields distinguish "absent" from an explicit false or zero.
type FileConfig struct {
	ServerEndpointAddr   string         `json:"server_endpoint_addr" toml:"server_endpoint_addr"`
	ReconnectInterval    timex.Duration `json:"reconnect_interval" toml:"reconnect_interval"`
	BridgeAddr           string         `json:"bridge_addr" toml:"bridge_addr"`
	BridgeAllowedOrigins []string       `json:"bridge_allowed_origins" toml:"bridge_allowed_origins"`
	DataDir              string         `json:"data_dir" toml:"data_dir"`
	PaymentsEnabled      *bool          `json:"payments_enabled" toml:"payments_enabled"`
	ShareFeeWei          string         `json:"share_fee_wei" toml:"share_fee_wei"`
	FeeRecipient         string         `json:"fee_recipient" toml:"fee_recipient"`
	EthRPCURL            string         `json:"eth_rpc_url" toml:"eth_rpc_url"`
	SignerMode           string         `json:"signer_mode" toml:"signer_mode"`
	AutoLockMinutes      *int           `json:"auto_lock_minutes" toml:"auto_lock_minutes"`
}

// parseFile overlays values from the file named by -c / -config. Panics on
// unreadable or invalid files.
func parseFile(cfg *Config, args []string) {
	path := flagx.ConfigFileFlag(args)
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	fc := &FileConfig{}
	switch flagx.ConfigFormat(path) {
	case flagx.FormatTOML:
		if _, err := toml.Decode(string(data), fc); err != nil {
			panic(err)
		}
	default:
		if err := json.Unmarshal(data, fc); err != nil {
			panic(err)
		}
	}

	fc.applyTo(cfg)
}

func (fc *FileConfig) applyTo(cfg *Config) {
	setString(&cfg.ServerEndpointAddr, fc.ServerEndpointAddr)
	if fc.ReconnectInterval.Duration > 0 {
		cfg.ReconnectInterval = fc.ReconnectInterval.Duration
	}
	setString(&cfg.BridgeAddr, fc.BridgeAddr)
	if len(fc.BridgeAllowedOrigins) > 0 {
		cfg.BridgeAllowedOrigins = append([]string(nil), fc.BridgeAllowedOrigins...)
	}
	setString(&cfg.DataDir, fc.DataDir)
	if fc.PaymentsEnabled != nil {
		cfg.PaymentsEnabled = *fc.PaymentsEnabled
	}
	setString(&cfg.ShareFeeWei, fc.ShareFeeWei)
	setString(&cfg.FeeRecipient, fc.FeeRecipient)
	setString(&cfg.EthRPCURL, fc.EthRPCURL)
	setString(&cfg.SignerMode, fc.SignerMode)
	if fc.AutoLockMinutes != nil {
		cfg.AutoLockMinutes = *fc.AutoLockMinutes
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
