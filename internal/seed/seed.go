// Package seed loads catalog fixtures and writes them to the store.
package seed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"rebelbot/internal/models"
	"rebelbot/internal/repositories"
)

type Catalog struct {
	Resources []models.Resource `yaml:"resources"`
	Events    []models.Event    `yaml:"events"`
	Clubs     []models.Club     `yaml:"clubs"`
}

type Counts struct {
	Resources int
	Events    int
	Clubs     int
}

// Parse decodes a fixture file. Unknown keys are rejected.
func Parse(r io.Reader) (*Catalog, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var c Catalog
	if err := dec.Decode(&c); err != nil {
		if errors.Is(err, io.EOF) {
			return &c, nil
		}
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	return &c, nil
}

// catalogNamespace scopes the name-based ids given to records without one.
var catalogNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://rebelbot/catalog"))

// Normalize checks required fields and gives records without an id a stable one
// derived from their kind and name, so seeding the same file twice upserts.
// Timestamps are left to the repositories.
func (c *Catalog) Normalize() error {
	for i := range c.Resources {
		r := &c.Resources[i]
		if strings.TrimSpace(r.Title) == "" {
			return fmt.Errorf("resource %d: title is required", i)
		}
		r.ID = ensureID(r.ID, "resource", r.Title)
		if r.Tags == nil {
			r.Tags = []string{}
		}
	}
	for i := range c.Events {
		e := &c.Events[i]
		if strings.TrimSpace(e.Title) == "" {
			return fmt.Errorf("event %d: title is required", i)
		}
		if e.StartTime.IsZero() {
			return fmt.Errorf("event %q: start_time is required", e.Title)
		}
		if e.EndTime != nil && e.EndTime.Before(e.StartTime) {
			return fmt.Errorf("event %q: end_time before start_time", e.Title)
		}
		e.ID = ensureID(e.ID, "event", e.Title, e.StartTime.UTC().Format(time.RFC3339))
		if e.Tags == nil {
			e.Tags = []string{}
		}
	}
	for i := range c.Clubs {
		cl := &c.Clubs[i]
		if strings.TrimSpace(cl.Name) == "" {
			return fmt.Errorf("club %d: name is required", i)
		}
		cl.ID = ensureID(cl.ID, "club", cl.Name)
		if cl.Tags == nil {
			cl.Tags = []string{}
		}
	}
	return nil
}

func ensureID(id, kind string, key ...string) string {
	if id = strings.TrimSpace(id); id != "" {
		return id
	}
	name := kind
	for _, k := range key {
		name += "/" + strings.ToLower(strings.TrimSpace(k))
	}
	return uuid.NewSHA1(catalogNamespace, []byte(name)).String()
}

type Repositories struct {
	Resources repositories.ResourceRepository
	Events    repositories.EventRepository
	Clubs     repositories.ClubRepository
}

// Apply upserts every record and stops at the first failure.
func (c *Catalog) Apply(ctx context.Context, repos Repositories) (Counts, error) {
	var n Counts
	for i := range c.Resources {
		if err := repos.Resources.Upsert(ctx, &c.Resources[i]); err != nil {
			return n, fmt.Errorf("upsert resource %s: %w", c.Resources[i].ID, err)
		}
		n.Resources++
	}
	for i := range c.Events {
		if err := repos.Events.Upsert(ctx, &c.Events[i]); err != nil {
			return n, fmt.Errorf("upsert event %s: %w", c.Events[i].ID, err)
		}
		n.Events++
	}
	for i := range c.Clubs {
		if err := repos.Clubs.Upsert(ctx, &c.Clubs[i]); err != nil {
			return n, fmt.Errorf("upsert club %s: %w", c.Clubs[i].ID, err)
		}
		n.Clubs++
	}
	log.Info().Int("resources", n.Resources).Int("events", n.Events).Int("clubs", n.Clubs).Msg("Catalog seeded")
	return n, nil
}
