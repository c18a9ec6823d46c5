package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"pokedoke/internal/bootstrap"
	"pokedoke/internal/config"
	"pokedoke/internal/logger"
	"pokedoke/internal/mcpserver"
)

func main() {
	envFile := flag.String("env", ".env", "dotenv file to read before POKEDOKE_* variables")
	flag.Parse()

	cfg, err := config.Load(*envFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	// stdout carries the protocol, so diagnostics only go to the log file.
	if cfg.LogFile != "" {
		closer, err := logger.Init(cfg.LogFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening log file: %v\n", err)
			os.Exit(1)
		}
		defer closer.Close()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.New(ctx, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer app.Close()

	server := mcpserver.NewServer(mcpserver.Config{
		ServerName:    "pokedoke",
		ServerVersion: "1.0.0",
	}, app.Repository)

	if err := server.Start(ctx); err != nil && ctx.Err() == nil {
		fmt.Fprintf(os.Stderr, "MCP server stopped: %v\n", err)
	}
}
