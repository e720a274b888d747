package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/cryptopass/internal/client/config"
	"github.com/dmitrijs2005/cryptopass/internal/client/extension"
	"github.com/dmitrijs2005/cryptopass/internal/logging"
)

// With "list" as the last argument the cached vault is printed and the
// program exits; otherwise it serves the bridge.
func main() {

	ctx := context.Background()
	cfg := config.LoadConfig()
	logger, err := logging.New(os.Stderr, logging.Options{})
	if err != nil {
		log.Fatalf("%v", err)
	}

	app, err := extension.NewApp(cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
		return
	}

	if n := len(os.Args); n > 1 && os.Args[n-1] == "list" {
		defer app.Close()
		if err := app.PrintVault(os.Stdout); err != nil {
			log.Printf("%v", err)
		}
		return
	}

	if err := app.Run(ctx); err != nil {
		log.Printf("%v", err)
	}

}
