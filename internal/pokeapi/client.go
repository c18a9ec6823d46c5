// Package pokeapi is a small HTTP client for the PokeAPI list and detail
// endpoints.
package pokeapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"pokedoke/internal/model"
)

// DefaultBaseURL is the public PokeAPI root.
const DefaultBaseURL = "https://pokeapi.co/api/v2"

// maxBodyBytes caps how much of a response is read.
const maxBodyBytes = 4 << 20

// FetchError is the only error kind surfaced to the user. Message is shown
// verbatim.
type FetchError struct {
	Message    string
	StatusCode int // 0 for transport failures
	Err        error
}

func (e *FetchError) Error() string {
	return e.Message
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Client talks to a PokeAPI-compatible server.
type Client struct {
	baseURL      string
	spriteFormat string
	timeout      time.Duration
	http         *http.Client
}

// Option configures the client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client. A nil client keeps
// the default.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithSpriteURLFormat overrides the sprite URL pattern. The format receives
// the Pokédex number as its only %d verb.
func WithSpriteURLFormat(format string) Option {
	return func(c *Client) {
		c.spriteFormat = format
	}
}

// WithTimeout sets the per-request timeout. It applies to a copy of the
// HTTP client, so a client passed to WithHTTPClient is left untouched.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// NewClient creates a client rooted at baseURL. An empty baseURL uses
// DefaultBaseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL:      strings.TrimRight(baseURL, "/"),
		spriteFormat: model.ArtworkURLFormat,
		http:         &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	if c.timeout > 0 {
		hc := *c.http
		hc.Timeout = c.timeout
		c.http = &hc
	}
	return c
}

// BaseURL returns the API root.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// ============================================================================
// WIRE TYPES
// ============================================================================

type namedResource struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

type listResponse struct {
	Count   int             `json:"count"`
	Next    *string         `json:"next"`
	Results []namedResource `json:"results"`
}

type typeSlot struct {
	Slot int           `json:"slot"`
	Type namedResource `json:"type"`
}

type statEntry struct {
	BaseStat int           `json:"base_stat"`
	Stat     namedResource `json:"stat"`
}

type detailResponse struct {
	ID             int         `json:"id"`
	Name           string      `json:"name"`
	Height         int         `json:"height"`
	Weight         int         `json:"weight"`
	BaseExperience int         `json:"base_experience"`
	Types          []typeSlot  `json:"types"`
	Stats          []statEntry `json:"stats"`
}

func (r detailResponse) toModel() model.PokemonDetail {
	d := model.PokemonDetail{
		ID:         r.ID,
		Name:       r.Name,
		Height:     r.Height,
		Weight:     r.Weight,
		Experience: r.BaseExperience,
	}
	for _, s := range r.Stats {
		switch s.Stat.Name {
		case "hp":
			d.HP = s.BaseStat
		case "attack":
			d.Attack = s.BaseStat
		case "defense":
			d.Defense = s.BaseStat
		case "speed":
			d.Speed = s.BaseStat
		}
	}

	slots := append([]typeSlot(nil), r.Types...)
	sort.SliceStable(slots, func(i, j int) bool { return slots[i].Slot < slots[j].Slot })
	for _, t := range slots {
		d.Types = append(d.Types, model.Type(t.Type.Name))
	}
	return d
}

// ============================================================================
// ENDPOINTS
// ============================================================================

// ListPokemon returns one page of summaries.
func (c *Client) ListPokemon(ctx context.Context, limit, offset int) ([]model.PokemonSummary, error) {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(limit))
	q.Set("offset", strconv.Itoa(offset))

	var resp listResponse
	if err := c.getJSON(ctx, "/pokemon?"+q.Encode(), &resp); err != nil {
		return nil, err
	}

	summaries := make([]model.PokemonSummary, 0, len(resp.Results))
	for _, r := range resp.Results {
		id, err := model.IDFromResourceURL(r.URL)
		if err != nil {
			return nil, &FetchError{Message: "malformed pokemon list", Err: err}
		}
		summaries = append(summaries, model.PokemonSummary{
			ID:       id,
			Name:     r.Name,
			ImageURL: fmt.Sprintf(c.spriteFormat, id),
		})
	}
	return summaries, nil
}

// GetPokemon returns the detail record for name.
func (c *Client) GetPokemon(ctx context.Context, name string) (model.PokemonDetail, error) {
	key := model.NormalizeName(name)
	if key == "" {
		return model.PokemonDetail{}, &FetchError{Message: "pokemon name is empty"}
	}

	var resp detailResponse
	if err := c.getJSON(ctx, "/pokemon/"+url.PathEscape(key), &resp); err != nil {
		return model.PokemonDetail{}, err
	}
	return resp.toModel(), nil
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return &FetchError{Message: "invalid request", Err: err}
	}
	req.Header.Set("Accept", "application/json")

	res, err := c.http.Do(req)
	if err != nil {
		return &FetchError{Message: fmt.Sprintf("network error: %v", err), Err: err}
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(res.Body, maxBodyBytes))
		msg := http.StatusText(res.StatusCode)
		if res.StatusCode == http.StatusNotFound {
			msg = "pokemon not found"
		}
		return &FetchError{
			Message:    msg,
			StatusCode: res.StatusCode,
			Err:        fmt.Errorf("GET %s: status %d", path, res.StatusCode),
		}
	}

	if err := json.NewDecoder(io.LimitReader(res.Body, maxBodyBytes)).Decode(out); err != nil {
		return &FetchError{Message: "unexpected response from server", Err: fmt.Errorf("decode %s: %w", path, err)}
	}
	return nil
}
