// Package imageloader fetches and decodes sprites and runs post-processing
// hooks on the decoded result.
package imageloader

import (
	"context"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF decoder
	_ "image/jpeg" // Register JPEG decoder
	_ "image/png"  // Register PNG decoder
	"io"
	"net/http"
	"sync"
	"time"
)

const maxImageBytes = 8 << 20

// Hook runs once on every successfully decoded image.
type Hook func(image.Image)

// Loader downloads images over HTTP and keeps decoded results in memory.
type Loader struct {
	http *http.Client

	mu    sync.Mutex
	cache map[string]image.Image
}

// New creates a loader. A nil client uses one with a 10s timeout.
func New(hc *http.Client) *Loader {
	if hc == nil {
		hc = &http.Client{Timeout: 10 * time.Second}
	}
	return &Loader{http: hc, cache: make(map[string]image.Image)}
}

// Load returns the decoded image at url and runs hooks on it. Cached images
// are not downloaded again but hooks still run.
func (l *Loader) Load(ctx context.Context, url string, hooks ...Hook) (image.Image, error) {
	img, err := l.fetch(ctx, url)
	if err != nil {
		return nil, err
	}
	for _, h := range hooks {
		if h != nil {
			h(img)
		}
	}
	return img, nil
}

func (l *Loader) fetch(ctx context.Context, url string) (image.Image, error) {
	l.mu.Lock()
	img, ok := l.cache[url]
	l.mu.Unlock()
	if ok {
		return img, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("image request: %w", err)
	}
	res, err := l.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("image download: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("image download %s: status %d", url, res.StatusCode)
	}

	img, _, err = image.Decode(io.LimitReader(res.Body, maxImageBytes))
	if err != nil {
		return nil, fmt.Errorf("image decode: %w", err)
	}

	l.mu.Lock()
	l.cache[url] = img
	l.mu.Unlock()
	return img, nil
}
