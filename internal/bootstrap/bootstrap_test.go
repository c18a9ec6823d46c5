package bootstrap

import (
	"context"
	"testing"

	"pokedoke/internal/config"
	"pokedoke/internal/pokeapi/pokeapitest"
	"pokedoke/internal/repository"
	"pokedoke/internal/viewstate"
)

func TestNewWiresCacheAndAPI(t *testing.T) {
	fake := pokeapitest.NewServer(pokeapitest.Kanto())
	defer fake.Close()

	cfg := config.DefaultConfig().
		WithAPIBaseURL(fake.APIURL()).
		WithStore("sqlite3", ":memory:").
		WithPageSize(3)
	cfg.SpriteURL = fake.SpriteURLFormat()

	app, err := New(context.Background(), cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer app.Close()

	if app.Store == nil {
		t.Fatal("expected a cache store")
	}

	got := repository.Last(app.Repository.FetchSummaries(context.Background()))
	list, ok := got.Data()
	if !ok || len(list) != 3 {
		t.Fatalf("expected 3 summaries, got %v", got)
	}

	// The second read is served from the cache.
	before := fake.Requests.Load()
	got = repository.Last(app.Repository.FetchSummaries(context.Background()))
	if got.Kind() != viewstate.KindSuccess || fake.Requests.Load() != before {
		t.Errorf("expected a cache hit, requests %d -> %d", before, fake.Requests.Load())
	}
}

func TestNewWithoutCache(t *testing.T) {
	cfg := config.DefaultConfig().WithStore("", "")
	app, err := New(context.Background(), cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if app.Store != nil {
		t.Error("cache should be disabled")
	}
	if err := app.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	if _, err := New(context.Background(), config.DefaultConfig().WithPageSize(0)); err == nil {
		t.Error("expected validation error")
	}
}

func TestWarmerOnlyWithCache(t *testing.T) {
	fake := pokeapitest.NewServer(pokeapitest.Kanto())
	defer fake.Close()

	cfg := config.DefaultConfig().WithAPIBaseURL(fake.APIURL()).WithStore("", "")
	cfg.Prefetch = true
	app, err := New(context.Background(), cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if app.Warmer != nil {
		t.Error("prefetch without a cache should not create a warmer")
	}
	if err := app.StartWarmer(context.Background()); err != nil {
		t.Errorf("StartWarmer without warmer: %v", err)
	}
	app.Close()

	cfg = cfg.WithStore("sqlite3", ":memory:")
	app, err = New(context.Background(), cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer app.Close()
	if app.Warmer == nil {
		t.Fatal("expected a warmer")
	}
	if n, err := app.Warmer.PullOnce(context.Background()); err != nil || n != 5 {
		t.Errorf("PullOnce = %d, %v; want 5 details", n, err)
	}
}
