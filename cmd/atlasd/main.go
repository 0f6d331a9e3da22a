package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	atlasdcmd "github.com/marlowe-games/cartograph/internal/cmd/atlasd"
	"github.com/marlowe-games/cartograph/internal/platform/config"
)

// main starts the atlas MCP server on stdio.
func main() {
	cfg, err := atlasdcmd.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		config.Exitf("parse flags: %v", err)
	}
	log.SetPrefix("[ATLAS] ")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := atlasdcmd.Run(ctx, cfg); err != nil {
		log.Fatalf("failed to serve atlas: %v", err)
	}
}
