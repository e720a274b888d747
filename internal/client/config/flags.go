package config

import (
	"flag"
	"strings"
	"time"

	"github.com/dmitrijs2005/cryptopass/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   address and port of the backend server
//	-i int      reconnect interval (in seconds)
//	-bridge     bridge listen/dial address
//	-origins    comma-separated websocket origins accepted by the bridge
//	-data       data directory
//	-pay        require on-chain payment for shares
//	-fee        share fee in wei
//	-recipient  fee recipient address
//	-rpc        Ethereum JSON-RPC URL
//	-signer     dev or rpc
//	-lock int   auto-lock after this many idle minutes
//
// Arguments for other components are filtered out with flagx.FilterArgs.
func parseFlags(cfg *Config, args []string) {
	args = flagx.FilterArgs(args, []string{"-a", "-i", "-bridge", "-origins", "-data", "-pay", "-fee", "-recipient", "-rpc", "-signer", "-lock"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerEndpointAddr, "a", cfg.ServerEndpointAddr, "address and port to access server")
	reconnectInterval := fs.Int("i", int(cfg.ReconnectInterval.Seconds()), "reconnect interval (in seconds)")
	fs.StringVar(&cfg.BridgeAddr, "bridge", cfg.BridgeAddr, "bridge address")
	origins := fs.String("origins", strings.Join(cfg.BridgeAllowedOrigins, ","), "allowed bridge origins")
	fs.StringVar(&cfg.DataDir, "data", cfg.DataDir, "data directory")
	fs.BoolVar(&cfg.PaymentsEnabled, "pay", cfg.PaymentsEnabled, "require payment for shares")
	fs.StringVar(&cfg.ShareFeeWei, "fee", cfg.ShareFeeWei, "share fee in wei")
	fs.StringVar(&cfg.FeeRecipient, "recipient", cfg.FeeRecipient, "fee recipient")
	fs.StringVar(&cfg.EthRPCURL, "rpc", cfg.EthRPCURL, "ethereum JSON-RPC URL")
	fs.StringVar(&cfg.SignerMode, "signer", cfg.SignerMode, "signer mode (dev|rpc)")
	fs.IntVar(&cfg.AutoLockMinutes, "lock", cfg.AutoLockMinutes, "auto-lock (in minutes)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "i":
			cfg.ReconnectInterval = time.Duration(*reconnectInterval) * time.Second
		case "origins":
			cfg.BridgeAllowedOrigins = splitList(*origins)
		}
	})
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
