// Package pokeapitest serves a PokeAPI-compatible fake backed by fixtures.
// It is used by tests and by the local stub command.
package pokeapitest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/go-chi/chi/v5"
	colorful "github.com/lucasb-eyer/go-colorful"

	"pokedoke/internal/model"
)

// SpritePath is the route pattern sprites are served from.
const SpritePath = "/sprites/%d.png"

// Fixtures is the data a fake server serves.
type Fixtures struct {
	Pokemon []model.PokemonDetail
}

// Kanto returns a handful of real first-generation records.
func Kanto() Fixtures {
	return Fixtures{Pokemon: []model.PokemonDetail{
		{ID: 1, Name: "bulbasaur", Height: 7, Weight: 69, HP: 45, Attack: 49, Defense: 49, Speed: 45, Experience: 64, Types: []model.Type{"grass", "poison"}},
		{ID: 2, Name: "ivysaur", Height: 10, Weight: 130, HP: 60, Attack: 62, Defense: 63, Speed: 60, Experience: 142, Types: []model.Type{"grass", "poison"}},
		{ID: 4, Name: "charmander", Height: 6, Weight: 85, HP: 39, Attack: 52, Defense: 43, Speed: 65, Experience: 62, Types: []model.Type{"fire"}},
		{ID: 7, Name: "squirtle", Height: 5, Weight: 90, HP: 44, Attack: 48, Defense: 65, Speed: 43, Experience: 63, Types: []model.Type{"water"}},
		{ID: 25, Name: "pikachu", Height: 4, Weight: 60, HP: 35, Attack: 55, Defense: 40, Speed: 90, Experience: 112, Types: []model.Type{"electric"}},
	}}
}

// Server is a running fake.
type Server struct {
	*httptest.Server
	Requests atomic.Int64
}

// NewServer starts a fake on a loopback port. Close it when done.
func NewServer(fx Fixtures) *Server {
	s := &Server{}
	inner := Handler(fx, "")
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.Requests.Add(1)
		inner.ServeHTTP(w, r)
	}))
	return s
}

// APIURL is the base URL to hand to pokeapi.NewClient.
func (s *Server) APIURL() string {
	return s.URL + "/api/v2"
}

// SpriteURLFormat is the sprite pattern to hand to pokeapi.WithSpriteURLFormat.
func (s *Server) SpriteURLFormat() string {
	return s.URL + SpritePath
}

// Handler returns the chi router. publicURL is the externally visible root
// used in resource links; empty means derive it from each request.
func Handler(fx Fixtures, publicURL string) http.Handler {
	byName := make(map[string]model.PokemonDetail, len(fx.Pokemon))
	byID := make(map[int]model.PokemonDetail, len(fx.Pokemon))
	for _, p := range fx.Pokemon {
		byName[p.Name] = p
		byID[p.ID] = p
	}

	root := func(r *http.Request) string {
		if publicURL != "" {
			return strings.TrimRight(publicURL, "/")
		}
		return "http://" + r.Host
	}

	r := chi.NewRouter()

	r.Route("/api/v2", func(r chi.Router) {
		r.Get("/pokemon", func(w http.ResponseWriter, req *http.Request) {
			limit := intParam(req, "limit", 20)
			offset := intParam(req, "offset", 0)

			results := []map[string]string{}
			for i := offset; i < len(fx.Pokemon) && i < offset+limit; i++ {
				p := fx.Pokemon[i]
				results = append(results, map[string]string{
					"name": p.Name,
					"url":  fmt.Sprintf("%s/api/v2/pokemon/%d/", root(req), p.ID),
				})
			}
			writeJSON(w, map[string]any{
				"count":   len(fx.Pokemon),
				"next":    nil,
				"results": results,
			})
		})

		r.Get("/pokemon/{name}", func(w http.ResponseWriter, req *http.Request) {
			key := chi.URLParam(req, "name")
			p, ok := byName[key]
			if !ok {
				if id, err := strconv.Atoi(key); err == nil {
					p, ok = byID[id]
				}
			}
			if !ok {
				http.Error(w, "Not Found", http.StatusNotFound)
				return
			}
			writeJSON(w, detailJSON(p))
		})
	})

	r.Get("/sprites/{file}", func(w http.ResponseWriter, req *http.Request) {
		id, err := strconv.Atoi(strings.TrimSuffix(chi.URLParam(req, "file"), ".png"))
		p, ok := byID[id]
		if err != nil || !ok {
			http.NotFound(w, req)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		_ = png.Encode(w, Sprite(p, 48))
	})

	return r
}

// Sprite draws a square with a transparent margin filled with the first type
// color of p.
func Sprite(p model.PokemonDetail, size int) image.Image {
	fill := color.NRGBA{A: 255}
	if len(p.Types) > 0 {
		c := p.Types[0].Color()
		r, g, b := c.Clamped().RGB255()
		fill = color.NRGBA{R: r, G: g, B: b, A: 255}
	}
	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	margin := size / 6
	for y := margin; y < size-margin; y++ {
		for x := margin; x < size-margin; x++ {
			img.SetNRGBA(x, y, fill)
		}
	}
	return img
}

// SpriteColor is the color a Sprite of p is filled with.
func SpriteColor(p model.PokemonDetail) colorful.Color {
	if len(p.Types) == 0 {
		return colorful.Color{}
	}
	return p.Types[0].Color()
}

// EncodePNG is a convenience for tests serving custom images.
func EncodePNG(img image.Image) []byte {
	var buf bytes.Buffer
	_ = png.Encode(&buf, img)
	return buf.Bytes()
}

func detailJSON(p model.PokemonDetail) map[string]any {
	types := make([]map[string]any, len(p.Types))
	for i, t := range p.Types {
		types[i] = map[string]any{
			"slot": i + 1,
			"type": map[string]string{"name": string(t), "url": ""},
		}
	}
	stat := func(name string, v int) map[string]any {
		return map[string]any{"base_stat": v, "effort": 0, "stat": map[string]string{"name": name, "url": ""}}
	}
	return map[string]any{
		"id":              p.ID,
		"name":            p.Name,
		"height":          p.Height,
		"weight":          p.Weight,
		"base_experience": p.Experience,
		"types":           types,
		"stats": []map[string]any{
			stat("hp", p.HP),
			stat("attack", p.Attack),
			stat("defense", p.Defense),
			stat("special-attack", 0),
			stat("special-defense", 0),
			stat("speed", p.Speed),
		},
	}
}

func intParam(r *http.Request, key string, def int) int {
	v, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil || v < 0 {
		return def
	}
	return v
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
