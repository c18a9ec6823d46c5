// Package logger provides the debug log. The terminal belongs to the TUI, so
// output goes to a file.
package logger

import (
	"io"
	"log"
	"os"
)

// Debug is the global debug logger. It discards until Init is called.
var Debug = log.New(io.Discard, "", 0)

// Init points Debug at filename. An empty filename keeps the discard logger.
// The returned closer must be closed on shutdown.
func Init(filename string) (io.Closer, error) {
	if filename == "" {
		return io.NopCloser(nil), nil
	}
	f, err := os.OpenFile(filename, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0o666)
	if err != nil {
		return nil, err
	}
	Debug = log.New(f, "", log.LstdFlags|log.Lshortfile)
	Debug.Println("Logger initialized")
	return f, nil
}
