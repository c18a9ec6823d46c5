package database

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"pokedoke/internal/logger"
	"pokedoke/internal/model"
)

const (
	defaultRefreshInterval = 30 * time.Minute
	defaultWorkers         = 4
)

// Source reads through the cache, storing whatever it fetches.
type Source interface {
	Summaries(ctx context.Context, limit, offset int) ([]model.PokemonSummary, error)
	Detail(ctx context.Context, name string) (model.PokemonDetail, error)
}

// Warmer prefetches the details behind the first list page so that opening
// a card is served from the cache.
type Warmer struct {
	source   Source
	pageSize int
	workers  int
	interval time.Duration

	mu      sync.Mutex
	cancel  context.CancelFunc
	running bool
	wg      sync.WaitGroup
}

// WarmerOption configures a Warmer.
type WarmerOption func(*Warmer)

// WithWorkers caps concurrent detail fetches.
func WithWorkers(n int) WarmerOption {
	return func(w *Warmer) {
		if n > 0 {
			w.workers = n
		}
	}
}

// WithInterval sets how often the page is refreshed after the first pass.
func WithInterval(d time.Duration) WarmerOption {
	return func(w *Warmer) {
		if d > 0 {
			w.interval = d
		}
	}
}

// NewWarmer creates a new warmer instance.
func NewWarmer(source Source, pageSize int, opts ...WarmerOption) (*Warmer, error) {
	if source == nil {
		return nil, errors.New("source is required")
	}
	if pageSize <= 0 {
		return nil, fmt.Errorf("invalid page size %d", pageSize)
	}
	w := &Warmer{
		source:   source,
		pageSize: pageSize,
		workers:  defaultWorkers,
		interval: defaultRefreshInterval,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Start runs one pass immediately and then one per interval.
func (w *Warmer) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return errors.New("warmer already running")
	}
	ctx, cancel := context.WithCancel(ctx)
	w.cancel = cancel
	w.running = true
	w.wg.Add(1)
	w.mu.Unlock()

	go w.loop(ctx)
	return nil
}

// Stop cancels in-flight fetches and waits for the loop to exit.
func (w *Warmer) Stop() {
	w.mu.Lock()
	cancel := w.cancel
	w.cancel = nil
	w.running = false
	w.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	w.wg.Wait()
}

// PullOnce executes a single warm-up pass and returns how many details
// were fetched successfully.
func (w *Warmer) PullOnce(ctx context.Context) (int, error) {
	return w.execute(ctx)
}

func (w *Warmer) loop(ctx context.Context) {
	defer w.wg.Done()
	w.run(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.run(ctx)
		}
	}
}

func (w *Warmer) run(ctx context.Context) {
	n, err := w.execute(ctx)
	if err != nil && ctx.Err() == nil {
		logger.Debug.Printf("cache warm-up: %d fetched, errors: %v", n, err)
		return
	}
	logger.Debug.Printf("cache warm-up: %d details fetched", n)
}

func (w *Warmer) execute(ctx context.Context) (int, error) {
	list, err := w.source.Summaries(ctx, w.pageSize, 0)
	if err != nil {
		return 0, fmt.Errorf("list summaries: %w", err)
	}

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
		done int
	)
	sem := make(chan struct{}, w.workers)

	for _, p := range list {
		select {
		case <-ctx.Done():
			wg.Wait()
			return done, ctx.Err()
		case sem <- struct{}{}:
		}

		wg.Add(1)
		go func(name string) {
			defer wg.Done()
			defer func() { <-sem }()

			_, err := w.source.Detail(ctx, name)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", name, err))
				return
			}
			done++
		}(p.Name)
	}
	wg.Wait()
	return done, errors.Join(errs...)
}
