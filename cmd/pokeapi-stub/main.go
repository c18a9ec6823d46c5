// Command pokeapi-stub serves a small offline PokeAPI for local runs:
//
//	POKEDOKE_API_URL=http://localhost:8099/api/v2 \
//	POKEDOKE_SPRITE_URL=http://localhost:8099/sprites/%d.png pokedoke
package main

import (
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"pokedoke/internal/pokeapi/pokeapitest"
)

func main() {
	addr := flag.String("addr", "", "listen address (default :$PORT or :8099)")
	flag.Parse()

	if *addr == "" {
		port := os.Getenv("PORT")
		if port == "" {
			port = "8099"
		}
		*addr = ":" + port
	}

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Mount("/", pokeapitest.Handler(pokeapitest.Kanto(), ""))

	fmt.Fprintf(os.Stderr, "PokeAPI stub listening on %s\n", *addr)
	log.Fatal(http.ListenAndServe(*addr, r))
}
