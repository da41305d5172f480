package main

import (
	"context"
	"log"

	"github.com/dmitrijs2005/jobboard/internal/devapi"
	"github.com/dmitrijs2005/jobboard/internal/devapi/config"
)

func main() {

	ctx := context.Background()
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("%v", err)
	}

	app, err := devapi.NewApp(cfg)
	if err != nil {
		log.Fatalf("%v", err)
	}

	if err := app.Run(ctx); err != nil {
		log.Fatalf("%v", err)
	}

}
