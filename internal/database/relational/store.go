package relational

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"pokedoke/internal/model"
)

// ErrNotFound is returned when a lookup misses the cache.
var ErrNotFound = errors.New("relational: not found")

// =============================================================================
// SCHEMA SQL
// =============================================================================

var schema = []string{
	`CREATE TABLE IF NOT EXISTS pokemon (
  id          BIGINT PRIMARY KEY,
  name        VARCHAR NOT NULL,
  image_url   VARCHAR NOT NULL,
  fetched_at  TIMESTAMP NOT NULL
)`,
	`CREATE TABLE IF NOT EXISTS pokemon_info (
  name        VARCHAR PRIMARY KEY,
  id          BIGINT NOT NULL,
  height      INTEGER,
  weight      INTEGER,
  hp          INTEGER,
  attack      INTEGER,
  defense     INTEGER,
  speed       INTEGER,
  experience  INTEGER,
  types       VARCHAR,
  fetched_at  TIMESTAMP NOT NULL
)`,
}

// =============================================================================
// STORE
// =============================================================================

// Store persists fetched records so later visits are served without network.
type Store struct {
	db     *sql.DB
	driver string
	now    func() time.Time
}

// NewStore wraps an opened client.
func NewStore(c *Client) *Store {
	return &Store{db: c.DB(), driver: c.Driver(), now: time.Now}
}

func (s *Store) q(query string) string {
	return rebind(s.driver, query)
}

// Migrate creates the schema if needed.
func (s *Store) Migrate(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

// UpsertSummaries writes a page of summaries in one transaction.
func (s *Store) UpsertSummaries(ctx context.Context, summaries []model.PokemonSummary) error {
	if len(summaries) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, s.q(`
		INSERT INTO pokemon (id, name, image_url, fetched_at) VALUES (?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
		  name = excluded.name,
		  image_url = excluded.image_url,
		  fetched_at = excluded.fetched_at`))
	if err != nil {
		return fmt.Errorf("prepare summary upsert: %w", err)
	}
	defer stmt.Close()

	now := s.now().UTC()
	for _, p := range summaries {
		if _, err := stmt.ExecContext(ctx, int64(p.ID), p.Name, p.ImageURL, now); err != nil {
			return fmt.Errorf("upsert summary %d: %w", p.ID, err)
		}
	}
	return tx.Commit()
}

// ListSummaries returns cached summaries ordered by id.
func (s *Store) ListSummaries(ctx context.Context, limit, offset int) ([]model.PokemonSummary, error) {
	rows, err := s.db.QueryContext(ctx, s.q(`
		SELECT id, name, image_url FROM pokemon
		ORDER BY id
		LIMIT ? OFFSET ?`), limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list summaries: %w", err)
	}
	defer rows.Close()

	var out []model.PokemonSummary
	for rows.Next() {
		var id int64
		var p model.PokemonSummary
		if err := rows.Scan(&id, &p.Name, &p.ImageURL); err != nil {
			return nil, fmt.Errorf("scan summary: %w", err)
		}
		p.ID = int(id)
		out = append(out, p)
	}
	return out, rows.Err()
}

// UpsertDetail writes one detail record keyed by its name.
func (s *Store) UpsertDetail(ctx context.Context, d model.PokemonDetail) error {
	_, err := s.db.ExecContext(ctx, s.q(`
		INSERT INTO pokemon_info (name, id, height, weight, hp, attack, defense, speed, experience, types, fetched_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (name) DO UPDATE SET
		  id = excluded.id,
		  height = excluded.height,
		  weight = excluded.weight,
		  hp = excluded.hp,
		  attack = excluded.attack,
		  defense = excluded.defense,
		  speed = excluded.speed,
		  experience = excluded.experience,
		  types = excluded.types,
		  fetched_at = excluded.fetched_at`),
		model.NormalizeName(d.Name), int64(d.ID), d.Height, d.Weight,
		d.HP, d.Attack, d.Defense, d.Speed, d.Experience,
		strings.Join(d.TypeNames(), ","), s.now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("upsert detail %s: %w", d.Name, err)
	}
	return nil
}

// GetDetail returns the cached detail for name or ErrNotFound.
func (s *Store) GetDetail(ctx context.Context, name string) (model.PokemonDetail, error) {
	var (
		d     model.PokemonDetail
		id    int64
		types sql.NullString
	)
	err := s.db.QueryRowContext(ctx, s.q(`
		SELECT name, id, height, weight, hp, attack, defense, speed, experience, types
		FROM pokemon_info WHERE name = ?`), model.NormalizeName(name)).
		Scan(&d.Name, &id, &d.Height, &d.Weight, &d.HP, &d.Attack, &d.Defense, &d.Speed, &d.Experience, &types)
	if errors.Is(err, sql.ErrNoRows) {
		return model.PokemonDetail{}, ErrNotFound
	}
	if err != nil {
		return model.PokemonDetail{}, fmt.Errorf("get detail %s: %w", name, err)
	}

	d.ID = int(id)
	if types.Valid && types.String != "" {
		for _, t := range strings.Split(types.String, ",") {
			d.Types = append(d.Types, model.Type(t))
		}
	}
	return d, nil
}

// Close releases database resources.
func (s *Store) Close() error {
	return s.db.Close()
}
