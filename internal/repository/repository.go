// Package repository is the data source for the screens. Every fetch is
// exposed as a stream that emits Loading once, then exactly one terminal
// state, then closes.
package repository

import (
	"context"
	"errors"

	"pokedoke/internal/logger"
	"pokedoke/internal/model"
	"pokedoke/internal/pokeapi"
	"pokedoke/internal/viewstate"
)

// API is the remote source.
type API interface {
	ListPokemon(ctx context.Context, limit, offset int) ([]model.PokemonSummary, error)
	GetPokemon(ctx context.Context, name string) (model.PokemonDetail, error)
}

// Cache is the local source. Misses are reported by an empty list or by
// an error from GetDetail.
type Cache interface {
	ListSummaries(ctx context.Context, limit, offset int) ([]model.PokemonSummary, error)
	UpsertSummaries(ctx context.Context, summaries []model.PokemonSummary) error
	GetDetail(ctx context.Context, name string) (model.PokemonDetail, error)
	UpsertDetail(ctx context.Context, d model.PokemonDetail) error
}

// Repository serves cache hits first and falls back to the API.
type Repository struct {
	api      API
	cache    Cache
	pageSize int
}

// New creates a repository. cache may be nil for network-only operation.
func New(api API, cache Cache, pageSize int) *Repository {
	if pageSize <= 0 {
		pageSize = 60
	}
	return &Repository{api: api, cache: cache, pageSize: pageSize}
}

// FetchSummaries streams the first page of summaries.
func (r *Repository) FetchSummaries(ctx context.Context) <-chan viewstate.State[[]model.PokemonSummary] {
	return stream(ctx, func(ctx context.Context) ([]model.PokemonSummary, error) {
		return r.Summaries(ctx, r.pageSize, 0)
	})
}

// FetchDetail streams the detail of name.
func (r *Repository) FetchDetail(ctx context.Context, name string) <-chan viewstate.State[model.PokemonDetail] {
	return stream(ctx, func(ctx context.Context) (model.PokemonDetail, error) {
		return r.Detail(ctx, name)
	})
}

// Summaries returns one page, cache first. Only a full page counts as a
// hit; a shorter cached page may be the remnant of a smaller request.
func (r *Repository) Summaries(ctx context.Context, limit, offset int) ([]model.PokemonSummary, error) {
	if r.cache != nil {
		cached, err := r.cache.ListSummaries(ctx, limit, offset)
		switch {
		case err != nil:
			logger.Debug.Printf("summary cache read failed: %v", err)
		case len(cached) == limit:
			return cached, nil
		case len(cached) > 0:
			logger.Debug.Printf("summary cache holds %d of %d at offset %d, refetching", len(cached), limit, offset)
		}
	}

	summaries, err := r.api.ListPokemon(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	if r.cache != nil {
		if err := r.cache.UpsertSummaries(ctx, summaries); err != nil {
			logger.Debug.Printf("summary cache write failed: %v", err)
		}
	}
	return summaries, nil
}

// Detail returns one detail record, cache first.
func (r *Repository) Detail(ctx context.Context, name string) (model.PokemonDetail, error) {
	if r.cache != nil {
		cached, err := r.cache.GetDetail(ctx, name)
		if err == nil {
			return cached, nil
		}
		logger.Debug.Printf("detail cache miss for %q: %v", name, err)
	}

	detail, err := r.api.GetPokemon(ctx, name)
	if err != nil {
		return model.PokemonDetail{}, err
	}
	if r.cache != nil {
		if err := r.cache.UpsertDetail(ctx, detail); err != nil {
			logger.Debug.Printf("detail cache write failed: %v", err)
		}
	}
	return detail, nil
}

// Last drains a stream and returns its terminal state. A stream closed
// before reaching one yields Loading.
func Last[T any](states <-chan viewstate.State[T]) viewstate.State[T] {
	last := viewstate.Loading[T]()
	for s := range states {
		last = s
	}
	return last
}

func stream[T any](ctx context.Context, fetch func(context.Context) (T, error)) <-chan viewstate.State[T] {
	out := make(chan viewstate.State[T], 2)
	out <- viewstate.Loading[T]()

	go func() {
		defer close(out)
		data, err := fetch(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			out <- viewstate.Error[T](errorMessage(err))
			return
		}
		out <- viewstate.Success(data)
	}()
	return out
}

// errorMessage passes FetchError text through unmodified.
func errorMessage(err error) string {
	var fe *pokeapi.FetchError
	if errors.As(err, &fe) {
		return fe.Message
	}
	return err.Error()
}
