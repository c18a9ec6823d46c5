package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"pokedoke/internal/bootstrap"
	"pokedoke/internal/config"
	"pokedoke/internal/logger"
	"pokedoke/internal/repository"
	"pokedoke/internal/viewstate"
	"pokedoke/ui/console"
	"pokedoke/ui/tui"
)

func main() {
	envFile := flag.String("env", ".env", "dotenv file to read before POKEDOKE_* variables")
	printName := flag.String("print", "", "print one Pokémon to stdout instead of starting the TUI")
	listOnly := flag.Bool("list", false, "print the first page of the Pokédex to stdout")
	apiURL := flag.String("api", "", "override the PokeAPI base URL")
	dbDriver := flag.String("db", "", "override the cache driver (duckdb, sqlite3, postgres, none)")
	flag.Parse()

	cfg, err := config.Load(*envFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if *apiURL != "" {
		cfg = cfg.WithAPIBaseURL(*apiURL)
	}
	switch *dbDriver {
	case "":
	case "none":
		cfg = cfg.WithStore("", "")
	default:
		cfg = cfg.WithStore(*dbDriver, os.Getenv(config.EnvDBDSN))
	}

	if cfg.LogFile != "" {
		closer, err := logger.Init(cfg.LogFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening log file: %v\n", err)
			os.Exit(1)
		}
		defer closer.Close()
	}

	ctx := context.Background()
	app, err := bootstrap.New(ctx, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer app.Close()

	if err := run(ctx, app, *printName, *listOnly); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		app.Close()
		os.Exit(1)
	}
}

func run(ctx context.Context, app *bootstrap.App, printName string, listOnly bool) error {
	switch {
	case printName != "":
		final := repository.Last(app.Repository.FetchDetail(ctx, printName))
		d, ok := final.Data()
		if !ok {
			return stateError(final)
		}
		return console.PrintDetail(os.Stdout, d)

	case listOnly:
		final := repository.Last(app.Repository.FetchSummaries(ctx))
		list, ok := final.Data()
		if !ok {
			return stateError(final)
		}
		return console.PrintList(os.Stdout, list)
	}

	if err := app.StartWarmer(ctx); err != nil {
		return err
	}
	return tui.Start(app.Repository, app.Images)
}

func stateError[T any](s viewstate.State[T]) error {
	if msg, ok := s.Message(); ok {
		return fmt.Errorf("%s", msg)
	}
	return fmt.Errorf("request did not finish")
}
