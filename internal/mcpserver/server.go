package mcpserver

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"pokedoke/internal/anim"
	"pokedoke/internal/model"
	"pokedoke/internal/repository"
	"pokedoke/internal/viewstate"
)

const (
	defaultLimit = 20
	maxLimit     = 200
)

// Source is the part of the repository the tools read from.
type Source interface {
	Summaries(ctx context.Context, limit, offset int) ([]model.PokemonSummary, error)
	FetchDetail(ctx context.Context, name string) <-chan viewstate.State[model.PokemonDetail]
}

// Server wraps the MCP server with Pokédex lookups.
type Server struct {
	mcpServer *mcp.Server
	source    Source
}

// Config holds configuration for the MCP server.
type Config struct {
	ServerName    string
	ServerVersion string
}

// NewServer creates a new MCP server instance.
func NewServer(cfg Config, source Source) *Server {
	impl := &mcp.Implementation{
		Name:    cfg.ServerName,
		Version: cfg.ServerVersion,
	}
	s := &Server{
		mcpServer: mcp.NewServer(impl, nil),
		source:    source,
	}
	s.registerTools()
	return s
}

// ListArgs defines the input for list_pokemon tool.
type ListArgs struct {
	Limit  int `json:"limit,omitempty" jsonschema:"number of entries to return, default 20, at most 200"`
	Offset int `json:"offset,omitempty" jsonschema:"index of the first entry"`
}

type Entry struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	ImageURL string `json:"image_url"`
}

// ListResult wraps one page of the Pokédex.
type ListResult struct {
	Pokemon []Entry `json:"pokemon" jsonschema:"one page of the national Pokédex"`
}

// DetailArgs defines the input for get_pokemon tool.
type DetailArgs struct {
	Name string `json:"name" jsonschema:"Pokémon name, case insensitive"`
}

type StatEntry struct {
	Label    string  `json:"label"`
	Value    int     `json:"value"`
	Max      int     `json:"max"`
	Fraction float64 `json:"fraction"`
}

// DetailResult is one Pokémon as shown on the detail screen.
type DetailResult struct {
	ID     int         `json:"id"`
	Name   string      `json:"name"`
	Height string      `json:"height"`
	Weight string      `json:"weight"`
	Types  []string    `json:"types"`
	Band   [2]string   `json:"band" jsonschema:"header background colors"`
	Stats  []StatEntry `json:"stats"`
}

// registerTools registers all available MCP tools.
func (s *Server) registerTools() {
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_pokemon",
		Description: "List Pokémon from the national Pokédex in order. Returns id, name and official artwork url for each entry.",
	}, s.handleListPokemon)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_pokemon",
		Description: "Get one Pokémon by name: types, height, weight and base stats with their fraction of the display ceiling.",
	}, s.handleGetPokemon)
}

func (s *Server) handleListPokemon(ctx context.Context, _ *mcp.CallToolRequest, args ListArgs) (*mcp.CallToolResult, ListResult, error) {
	limit := args.Limit
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	if args.Offset < 0 {
		return nil, ListResult{}, fmt.Errorf("invalid offset: %d", args.Offset)
	}

	list, err := s.source.Summaries(ctx, limit, args.Offset)
	if err != nil {
		return nil, ListResult{}, fmt.Errorf("failed to list pokemon: %w", err)
	}

	result := ListResult{Pokemon: make([]Entry, 0, len(list))}
	for _, p := range list {
		result.Pokemon = append(result.Pokemon, Entry{ID: p.ID, Name: p.Name, ImageURL: p.ImageURL})
	}
	return nil, result, nil
}

func (s *Server) handleGetPokemon(ctx context.Context, _ *mcp.CallToolRequest, args DetailArgs) (*mcp.CallToolResult, DetailResult, error) {
	name := model.NormalizeName(args.Name)
	if name == "" {
		return nil, DetailResult{}, errors.New("name is required")
	}

	final := repository.Last(s.source.FetchDetail(ctx, name))
	if d, ok := final.Data(); ok {
		return nil, toDetailResult(d), nil
	}
	if message, ok := final.Message(); ok {
		return nil, DetailResult{}, errors.New(message)
	}
	if err := ctx.Err(); err != nil {
		return nil, DetailResult{}, fmt.Errorf("lookup of %q interrupted: %w", name, err)
	}
	return nil, DetailResult{}, fmt.Errorf("lookup of %q ended without a result", name)
}

func toDetailResult(d model.PokemonDetail) DetailResult {
	r := DetailResult{
		ID:     d.ID,
		Name:   d.Name,
		Height: d.HeightString(),
		Weight: d.WeightString(),
		Types:  d.TypeNames(),
		Band:   model.BackgroundBand(d.Types),
	}
	for _, st := range d.Stats() {
		f, _ := anim.Fraction(st.Value, st.Max)
		r.Stats = append(r.Stats, StatEntry{Label: st.Label, Value: st.Value, Max: st.Max, Fraction: f})
	}
	return r
}

// Start starts the MCP server using stdio transport.
func (s *Server) Start(ctx context.Context) error {
	fmt.Fprintf(os.Stderr, "Starting Pokédoke MCP Server on stdio...\n")
	transport := &mcp.StdioTransport{}
	return s.mcpServer.Run(ctx, transport)
}
