package main

import (
	"bytes"
	"reflect"
	"strings"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func TestShellParse(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    request
		wantErr bool
	}{
		{"bare name", "Pikachu", request{tool: "get_pokemon", args: map[string]any{"name": "pikachu"}}, false},
		{"two word name", "/mon Mr Mime", request{tool: "get_pokemon", args: map[string]any{"name": "mr-mime"}}, false},
		{"mon without name", "/mon", request{}, true},
		{"dex defaults", "/dex", request{tool: "list_pokemon", args: map[string]any{"limit": 20, "offset": 0}}, false},
		{"dex with paging", "/dex 10 30", request{tool: "list_pokemon", args: map[string]any{"limit": 10, "offset": 30}}, false},
		{"dex bad limit", "/dex ten", request{}, true},
		{"dex zero limit", "/dex 0", request{}, true},
		{"dex negative offset", "/dex 5 -1", request{}, true},
		{"tools", "/tools", request{tools: true}, false},
		{"help", "/help", request{help: true}, false},
		{"quit", "/quit", request{quit: true}, false},
		{"exit alias", "/exit", request{quit: true}, false},
		{"blank line", "   ", request{}, false},
		{"unknown", "/evolve", request{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := newShell().parse(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parse(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("parse(%q) = %+v; want %+v", tt.input, got, tt.want)
			}
		})
	}
}

func TestShellPaging(t *testing.T) {
	sh := newShell()
	steps := []struct {
		input      string
		wantOffset int
		wantErr    bool
	}{
		{"/prev", 0, true},
		{"/dex 10 0", 0, false},
		{"/next", 10, false},
		{"/next", 20, false},
		{"/prev", 10, false},
		{"/dex 10 5", 5, false},
		{"/prev", 0, false},
	}
	for _, st := range steps {
		req, err := sh.parse(st.input)
		if (err != nil) != st.wantErr {
			t.Fatalf("%s: error = %v, wantErr %v", st.input, err, st.wantErr)
		}
		if st.wantErr {
			continue
		}
		if req.args["offset"] != st.wantOffset {
			t.Errorf("%s: offset = %v; want %d", st.input, req.args["offset"], st.wantOffset)
		}
	}
}

func TestHelpListsEveryCommand(t *testing.T) {
	var buf bytes.Buffer
	printHelp(&buf)
	for _, c := range commands {
		if !strings.Contains(buf.String(), c.usage) {
			t.Errorf("help is missing %q", c.usage)
		}
	}
}

func TestPrintDetailResult(t *testing.T) {
	result := &mcp.CallToolResult{StructuredContent: map[string]any{
		"id":     25,
		"name":   "pikachu",
		"height": "0.4 m",
		"weight": "6.0 kg",
		"types":  []any{"electric"},
		"stats": []any{
			map[string]any{"label": "HP", "value": 35, "max": 300, "fraction": 35.0 / 300},
			map[string]any{"label": "SPD", "value": 90, "max": 300, "fraction": 0.3},
		},
	}}

	var buf bytes.Buffer
	if err := printResult(&buf, "get_pokemon", result); err != nil {
		t.Fatalf("printResult: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"#025 PIKACHU", "[electric]", "0.4 m", "6.0 kg", "  35/300", "  90/300"} {
		if !strings.Contains(out, want) {
			t.Errorf("detail output missing %q:\n%s", want, out)
		}
	}
}

func TestPrintErrorResult(t *testing.T) {
	result := &mcp.CallToolResult{IsError: true, Content: []mcp.Content{&mcp.TextContent{Text: "pokemon not found"}}}

	var buf bytes.Buffer
	if err := printResult(&buf, "get_pokemon", result); err != nil {
		t.Fatalf("printResult: %v", err)
	}
	if !strings.Contains(buf.String(), "lookup failed: pokemon not found") {
		t.Errorf("unexpected output %q", buf.String())
	}
}

func TestDecodeFallsBackToText(t *testing.T) {
	result := &mcp.CallToolResult{Content: []mcp.Content{&mcp.TextContent{Text: `{"pokemon":[{"id":1,"name":"bulbasaur","image_url":"u"}]}`}}}

	var buf bytes.Buffer
	if err := printResult(&buf, "list_pokemon", result); err != nil {
		t.Fatalf("printResult: %v", err)
	}
	if !strings.Contains(strings.ToLower(buf.String()), "bulbasaur") {
		t.Errorf("list output missing bulbasaur:\n%s", buf.String())
	}
}
