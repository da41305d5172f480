package main

import (
	"context"
	"log"

	"github.com/common-nighthawk/go-figure"

	"github.com/dmitrijs2005/jobboard/internal/client/cli"
	"github.com/dmitrijs2005/jobboard/internal/client/config"
)

const appname = "JobBoard"

func main() {

	figure.NewFigure(appname, "cybermedium", true).Print()

	ctx := context.Background()
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("%v", err)
	}

	app := cli.NewApp(cfg)
	if err := app.Run(ctx); err != nil {
		log.Fatalf("%v", err)
	}

}
