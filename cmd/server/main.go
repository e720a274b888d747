// Command server runs the CryptoPass document store: the gRPC API for
// encrypted vault documents and share requests, plus /metrics and /healthz.
package main

import (
	"context"
	"log"

	"github.com/dmitrijs2005/cryptopass/internal/server"
	"github.com/dmitrijs2005/cryptopass/internal/server/config"
)

func main() {
	ctx := context.Background()

	app, err := server.NewApp(ctx, config.LoadConfig())
	if err != nil {
		log.Fatalf("cryptopass server: %v", err)
	}

	app.Run(ctx)
}
