// Package catalog loads the destination catalogue: immutable reference
// data read once at process start. There is no mutation API; editing the
// catalogue means editing the YAML and redeploying.
package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/traviworld/editorial/internal/models"
)

// Destination is one catalogue entry.
type Destination struct {
	Name     string   `json:"name"     yaml:"name"`
	Slug     string   `json:"slug"     yaml:"slug"`
	Country  string   `json:"country"  yaml:"country"`
	Region   string   `json:"region"   yaml:"region"`
	Summary  string   `json:"summary"  yaml:"summary"`
	Keywords []string `json:"keywords" yaml:"keywords"`
}

// Catalog holds the loaded destinations in file order.
type Catalog struct {
	destinations []Destination
	bySlug       map[string]int
}

type catalogFile struct {
	Destinations []Destination `yaml:"destinations"`
}

// Load reads and validates the catalogue from a YAML file.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}

	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse catalog file: %w", err)
	}

	catalog := &Catalog{
		destinations: file.Destinations,
		bySlug:       make(map[string]int, len(file.Destinations)),
	}

	for i, dest := range file.Destinations {
		if dest.Name == "" {
			return nil, fmt.Errorf("catalog entry %d: name is required", i)
		}
		if !models.ValidSlug(dest.Slug) {
			return nil, fmt.Errorf("catalog entry %q: invalid slug %q", dest.Name, dest.Slug)
		}
		if _, dup := catalog.bySlug[dest.Slug]; dup {
			return nil, fmt.Errorf("catalog entry %q: duplicate slug %q", dest.Name, dest.Slug)
		}
		catalog.bySlug[dest.Slug] = i
	}

	return catalog, nil
}

// All returns the destinations in catalogue order. The slice is a copy;
// callers cannot mutate the catalogue through it.
func (c *Catalog) All() []Destination {
	out := make([]Destination, len(c.destinations))
	copy(out, c.destinations)
	return out
}

// BySlug looks up a destination by its slug.
func (c *Catalog) BySlug(slug string) (Destination, bool) {
	i, ok := c.bySlug[slug]
	if !ok {
		return Destination{}, false
	}
	return c.destinations[i], true
}

// Keywords maps each destination slug to its match terms: the destination
// name plus its configured keywords. Feeds the auto-tagger.
func (c *Catalog) Keywords() map[string][]string {
	out := make(map[string][]string, len(c.destinations))
	for _, dest := range c.destinations {
		terms := make([]string, 0, len(dest.Keywords)+1)
		terms = append(terms, dest.Name)
		terms = append(terms, dest.Keywords...)
		out[dest.Slug] = terms
	}
	return out
}

// Len returns the number of destinations.
func (c *Catalog) Len() int {
	return len(c.destinations)
}
