package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"pokedoke/internal/mcpserver"
	"pokedoke/internal/model"
	"pokedoke/ui/console"
)

// command is one line of the dex shell.
type command struct {
	name    string
	usage   string
	summary string
	parse   func(sh *shell, fields []string) (request, error)
}

// request is what a parsed line asks for. An empty tool means the shell
// handles it locally.
type request struct {
	tool  string
	args  map[string]any
	quit  bool
	help  bool
	tools bool
}

var errUnknownCommand = errors.New("unknown command, try /help")

var commands = []command{
	{"/dex", "/dex [limit] [offset]", "page through the national Pokédex", parseDex},
	{"/next", "/next", "show the page after the last one", parseNext},
	{"/prev", "/prev", "show the page before the last one", parsePrev},
	{"/mon", "/mon <name>", "show types, size and base stats", parseMon},
	{"/tools", "/tools", "list the tools the server exposes", func(*shell, []string) (request, error) { return request{tools: true}, nil }},
	{"/help", "/help", "show this table", func(*shell, []string) (request, error) { return request{help: true}, nil }},
	{"/quit", "/quit", "leave the shell", func(*shell, []string) (request, error) { return request{quit: true}, nil }},
}

// shell keeps the paging cursor between lines.
type shell struct {
	limit  int
	offset int
}

func newShell() *shell {
	return &shell{limit: 20}
}

// parse turns one input line into a request. A bare word is a Pokémon name.
func (sh *shell) parse(input string) (request, error) {
	fields := strings.Fields(input)
	if len(fields) == 0 {
		return request{}, nil
	}
	if !strings.HasPrefix(fields[0], "/") {
		return parseMon(sh, append([]string{"/mon"}, fields...))
	}
	for _, c := range commands {
		if c.name == fields[0] || (c.name == "/quit" && fields[0] == "/exit") {
			return c.parse(sh, fields)
		}
	}
	return request{}, errUnknownCommand
}

func parseDex(sh *shell, fields []string) (request, error) {
	limit, offset := sh.limit, 0
	for i, dst := range []*int{&limit, &offset} {
		if i+1 >= len(fields) {
			break
		}
		n, err := strconv.Atoi(fields[i+1])
		if err != nil || n < 0 {
			return request{}, fmt.Errorf("%s must be a non-negative number, got %q", []string{"limit", "offset"}[i], fields[i+1])
		}
		*dst = n
	}
	if limit == 0 {
		return request{}, errors.New("limit must be at least 1")
	}
	sh.limit, sh.offset = limit, offset
	return sh.page(), nil
}

func parseNext(sh *shell, _ []string) (request, error) {
	sh.offset += sh.limit
	return sh.page(), nil
}

func parsePrev(sh *shell, _ []string) (request, error) {
	if sh.offset == 0 {
		return request{}, errors.New("already at the first page")
	}
	sh.offset -= sh.limit
	if sh.offset < 0 {
		sh.offset = 0
	}
	return sh.page(), nil
}

func parseMon(_ *shell, fields []string) (request, error) {
	if len(fields) < 2 {
		return request{}, errors.New("usage: /mon <name>")
	}
	name := model.NormalizeName(strings.Join(fields[1:], "-"))
	return request{tool: "get_pokemon", args: map[string]any{"name": name}}, nil
}

func (sh *shell) page() request {
	return request{tool: "list_pokemon", args: map[string]any{"limit": sh.limit, "offset": sh.offset}}
}

func printHelp(w io.Writer) {
	fmt.Fprintln(w, "Commands:")
	for _, c := range commands {
		fmt.Fprintf(w, "  %-22s %s\n", c.usage, c.summary)
	}
	fmt.Fprintf(w, "  %-22s %s\n", "<name>", "same as /mon <name>")
	fmt.Fprintln(w)
}

func main() {
	flag.Parse()
	args := flag.Args()

	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "Usage: mcp-client <server-command> [<args>]")
		fmt.Fprintln(os.Stderr, "Example: mcp-client ./pokedoke-mcp -env .env")
		os.Exit(2)
	}

	ctx := context.Background()

	transport := &mcp.CommandTransport{Command: exec.Command(args[0], args[1:]...)}
	client := mcp.NewClient(&mcp.Implementation{
		Name:    "pokedoke-dex-shell",
		Version: "1.0.0",
	}, nil)

	session, err := client.Connect(ctx, transport, nil)
	if err != nil {
		log.Fatalf("Failed to reach the Pokédex server: %v", err)
	}
	defer session.Close()

	fmt.Println("Pokédex shell ready. Type a Pokémon name or /help.")
	fmt.Println()

	sh := newShell()
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("dex> ")
		if !scanner.Scan() {
			break
		}
		req, err := sh.parse(scanner.Text())
		switch {
		case err != nil:
			fmt.Printf("%v\n\n", err)
		case req.quit:
			return
		case req.help:
			printHelp(os.Stdout)
		case req.tools:
			listTools(ctx, session)
		case req.tool != "":
			callTool(ctx, session, req)
		}
	}

	if err := scanner.Err(); err != nil {
		log.Printf("Scanner error: %v", err)
	}
}

func listTools(ctx context.Context, session *mcp.ClientSession) {
	for tool, err := range session.Tools(ctx, nil) {
		if err != nil {
			log.Printf("Error listing tools: %v", err)
			return
		}
		fmt.Printf("  %-14s %s\n", tool.Name, tool.Description)
	}
	fmt.Println()
}

func callTool(ctx context.Context, session *mcp.ClientSession, req request) {
	result, err := session.CallTool(ctx, &mcp.CallToolParams{
		Name:      req.tool,
		Arguments: req.args,
	})
	if err != nil {
		log.Printf("Error calling %s: %v", req.tool, err)
		return
	}
	if err := printResult(os.Stdout, req.tool, result); err != nil {
		log.Printf("Error printing %s: %v", req.tool, err)
	}
}

// printResult renders a tool result the way the terminal report does.
func printResult(w io.Writer, tool string, result *mcp.CallToolResult) error {
	if result.IsError {
		for _, content := range result.Content {
			if text, ok := content.(*mcp.TextContent); ok {
				fmt.Fprintf(w, "lookup failed: %s\n\n", text.Text)
			}
		}
		return nil
	}

	switch tool {
	case "list_pokemon":
		var page mcpserver.ListResult
		if err := decodeStructured(result, &page); err != nil {
			return err
		}
		list := make([]model.PokemonSummary, 0, len(page.Pokemon))
		for _, e := range page.Pokemon {
			list = append(list, model.PokemonSummary{ID: e.ID, Name: e.Name, ImageURL: e.ImageURL})
		}
		return console.PrintList(w, list)
	case "get_pokemon":
		var d mcpserver.DetailResult
		if err := decodeStructured(result, &d); err != nil {
			return err
		}
		_, err := io.WriteString(w, detailText(d))
		return err
	}
	return fmt.Errorf("no renderer for %s", tool)
}

// decodeStructured reads the structured output, falling back to the JSON
// text block servers send alongside it.
func decodeStructured(result *mcp.CallToolResult, dst any) error {
	if result.StructuredContent != nil {
		raw, err := json.Marshal(result.StructuredContent)
		if err != nil {
			return err
		}
		return json.Unmarshal(raw, dst)
	}
	for _, content := range result.Content {
		if text, ok := content.(*mcp.TextContent); ok {
			return json.Unmarshal([]byte(text.Text), dst)
		}
	}
	return errors.New("empty tool result")
}

func detailText(d mcpserver.DetailResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "#%03d %s  [%s]\n", d.ID, strings.ToUpper(d.Name), strings.Join(d.Types, "/"))
	fmt.Fprintf(&b, "height %s  weight %s\n", d.Height, d.Weight)
	for _, s := range d.Stats {
		filled := min(max(int(s.Fraction*20+0.5), 0), 20)
		fmt.Fprintf(&b, "  %-4s %s%s %4d/%d\n", s.Label, strings.Repeat("█", filled), strings.Repeat("·", 20-filled), s.Value, s.Max)
	}
	b.WriteString("\n")
	return b.String()
}
