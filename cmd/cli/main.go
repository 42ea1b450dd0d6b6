package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"todoTracker/internal/cli"
	"todoTracker/internal/client"
	"todoTracker/internal/config"

	"github.com/spf13/pflag"
)

func main() {
	fs := pflag.NewFlagSet("todo-cli", pflag.ExitOnError)
	config.ClientFlags(fs)
	_ = fs.Parse(os.Args[1:])

	cfg, err := config.LoadClient(fs)
	if err != nil {
		fmt.Fprintf(os.Stderr, "загрузка конфигурации: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	menu := cli.NewMenu(client.New(cfg.APIURL, cfg.Timeout), os.Stdin, os.Stdout)
	if err := menu.Run(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
