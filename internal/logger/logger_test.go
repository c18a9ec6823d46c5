package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestInitWritesToFile(t *testing.T) {
	old := Debug
	defer func() { Debug = old }()

	path := filepath.Join(t.TempDir(), "debug.log")
	closer, err := Init(path)
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	Debug.Printf("cache miss for %q", "pikachu")
	closer.Close()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `cache miss for "pikachu"`) {
		t.Errorf("log file missing entry: %q", data)
	}
}

func TestInitEmptyKeepsDiscard(t *testing.T) {
	old := Debug
	defer func() { Debug = old }()

	closer, err := Init("")
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	if err := closer.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
	if Debug != old {
		t.Error("empty filename should not replace the logger")
	}
}
