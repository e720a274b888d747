package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/cryptopass/internal/client/cli"
	"github.com/dmitrijs2005/cryptopass/internal/client/config"
	"github.com/dmitrijs2005/cryptopass/internal/logging"
)

func main() {

	ctx := context.Background()
	cfg := config.LoadConfig()
	// The REPL owns stdout; only problems go to stderr.
	logger, err := logging.New(os.Stderr, logging.Options{Level: "warn"})
	if err != nil {
		log.Fatalf("%v", err)
	}

	app, err := cli.NewApp(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
		return
	}

	app.Run(ctx)

}
