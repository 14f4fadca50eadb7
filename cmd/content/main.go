package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/postpromo/internal/config"
	"github.com/dmitrijs2005/postpromo/internal/content"
)

func main() {

	ctx := context.Background()

	if err := config.LoadDotEnv(); err != nil {
		log.Printf("%v", err)
	}

	cfg, err := config.LoadContent(os.Args[1:])
	if err != nil {
		log.Printf("%v", err)
		os.Exit(2)
	}

	app, err := content.NewApp(ctx, cfg)
	if err != nil {
		log.Printf("%v", err)
		os.Exit(1)
	}

	app.Run(ctx)

}
