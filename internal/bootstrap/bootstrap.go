// Package bootstrap wires config into the client, cache and repository shared
// by the TUI and the MCP server.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"pokedoke/internal/config"
	"pokedoke/internal/database"
	"pokedoke/internal/database/relational"
	"pokedoke/internal/imageloader"
	"pokedoke/internal/logger"
	"pokedoke/internal/pokeapi"
	"pokedoke/internal/repository"
)

// App holds the long-lived collaborators. Close releases them.
type App struct {
	Config     config.Config
	API        *pokeapi.Client
	Store      *relational.Store // nil when caching is disabled
	Repository *repository.Repository
	Images     *imageloader.Loader
	Warmer     *database.Warmer // nil unless prefetching into a cache

	closers []func() error
}

// New builds the App. A cache that cannot be opened is logged and skipped so
// the client still works online.
func New(ctx context.Context, cfg config.Config) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	a := &App{Config: cfg}

	opts := []pokeapi.Option{pokeapi.WithTimeout(cfg.HTTPTimeout)}
	if cfg.SpriteURL != "" {
		opts = append(opts, pokeapi.WithSpriteURLFormat(cfg.SpriteURL))
	}
	a.API = pokeapi.NewClient(cfg.APIBaseURL, opts...)
	a.Images = imageloader.New(&http.Client{Timeout: cfg.HTTPTimeout})

	var cache repository.Cache
	if cfg.CacheEnabled() {
		store, err := openStore(ctx, cfg)
		if err != nil {
			logger.Debug.Printf("cache disabled: %v", err)
		} else {
			a.Store = store
			a.closers = append(a.closers, store.Close)
			cache = store
		}
	}

	a.Repository = repository.New(a.API, cache, cfg.PageSize)

	if cfg.Prefetch && a.Store != nil {
		w, err := database.NewWarmer(a.Repository, cfg.PageSize)
		if err != nil {
			a.Close()
			return nil, err
		}
		a.Warmer = w
	}
	return a, nil
}

func openStore(ctx context.Context, cfg config.Config) (*relational.Store, error) {
	client, err := relational.Open(cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		return nil, fmt.Errorf("open %s cache: %w", cfg.DBDriver, err)
	}
	store := relational.NewStore(client)
	if err := store.Migrate(ctx); err != nil {
		store.Close()
		return nil, fmt.Errorf("migrate %s cache: %w", cfg.DBDriver, err)
	}
	return store, nil
}

// StartWarmer begins background prefetching when it is configured.
func (a *App) StartWarmer(ctx context.Context) error {
	if a.Warmer == nil {
		return nil
	}
	if err := a.Warmer.Start(ctx); err != nil {
		return err
	}
	a.closers = append(a.closers, func() error {
		a.Warmer.Stop()
		return nil
	})
	return nil
}

// Close releases everything New opened.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
