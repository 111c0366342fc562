// Command userctl is the terminal client of the user directory server.
//
//	userctl -s http://localhost:3000 -t 5s
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/term"

	"github.com/patric-chuzhbe/userdir/internal/client"
	"github.com/patric-chuzhbe/userdir/internal/client/cli"
	"github.com/patric-chuzhbe/userdir/internal/config"
	"github.com/patric-chuzhbe/userdir/internal/logger"
)

func main() {
	cfg, err := config.NewClient()
	if err != nil {
		panic(err)
	}

	if err := logger.Init(cfg.LogLevel); err != nil {
		panic(err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	api := client.NewAPIClient(cfg.ServerURL, cfg.RequestTimeout)
	state := client.NewState(api, cli.PrintNotifier(os.Stdout))
	interactive := term.IsTerminal(int(os.Stdin.Fd()))

	cli.NewApp(state, os.Stdin, os.Stdout, interactive).Run(ctx)
}
