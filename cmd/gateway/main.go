package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/postpromo/internal/config"
	"github.com/dmitrijs2005/postpromo/internal/gateway"
)

func main() {

	ctx := context.Background()

	if err := config.LoadDotEnv(); err != nil {
		log.Printf("%v", err)
	}

	cfg, err := config.LoadGateway(os.Args[1:])
	if err != nil {
		log.Printf("%v", err)
		os.Exit(2)
	}

	app, err := gateway.NewApp(ctx, cfg)
	if err != nil {
		log.Printf("%v", err)
		os.Exit(1)
	}

	app.Run(ctx)

}
