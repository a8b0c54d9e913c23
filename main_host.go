//go:build !tinygo

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"hyperhue/app"
	"hyperhue/hal"
	"hyperhue/internal/buildinfo"
	"hyperhue/internal/config"
)

func main() {
	flags := config.NewFlags(flag.CommandLine)
	version := flag.Bool("version", false, "Print version and exit.")
	flag.Parse()

	if *version {
		fmt.Println(buildinfo.String())
		return
	}

	cfg, err := flags.Resolve(os.Getenv)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log := hal.NewLogger(os.Stdout)
	if err := app.RunHost(ctx, cfg.HostOptions(), log); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
