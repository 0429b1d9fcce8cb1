package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"perkbot/internal/core"
	"perkbot/plugins/sheep"
	"perkbot/plugins/system"
)

func main() {
	var cfgPath string
	flag.StringVar(&cfgPath, "config", "./config.yaml", "path to config file (yaml or json)")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	app, err := core.NewApp(cfgPath)
	if err != nil {
		fmt.Println("fatal:", err)
		os.Exit(1)
	}

	app.Plugins().Register(
		sheep.New(),
		system.New(),
	)

	if err := app.Start(ctx); err != nil {
		fmt.Println("fatal start:", err)
		os.Exit(1)
	}

	reason := core.StopSignal
	select {
	case <-ctx.Done():
	case <-app.Done():
		if app.Err() != nil {
			reason = core.StopFatalError
		}
	}

	sctx, scancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer scancel()
	if err := app.Stop(sctx, reason); err != nil {
		fmt.Println("shutdown:", err)
		os.Exit(1)
	}
}
