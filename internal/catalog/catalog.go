package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"lovelottery/internal/models"
)

//go:embed default.yaml
var defaultYAML []byte

// ErrInvalidCatalog is returned when a catalog document fails validation.
var ErrInvalidCatalog = errors.New("invalid catalog")

// Catalog is the read-only reference data a lottery is built from.
type Catalog struct {
	Prizes  []models.Entry `yaml:"prizes"`
	Fillers []models.Entry `yaml:"fillers"`
	Poems   []string       `yaml:"poems"`
}

// Default returns the built-in catalog: three prizes, two filler slots and the quote pool.
func Default() (*Catalog, error) {
	return Parse(defaultYAML)
}

// Load reads a catalog from path. An empty path yields the built-in catalog.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default()
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}
	c, err := Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	return c, nil
}

// Parse decodes and validates a YAML catalog document.
func Parse(raw []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCatalog, err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks ids are unique and every entry sits in the right list.
func (c *Catalog) Validate() error {
	if len(c.Prizes) == 0 {
		return fmt.Errorf("%w: no prizes", ErrInvalidCatalog)
	}
	if len(c.Poems) == 0 {
		return fmt.Errorf("%w: no poems", ErrInvalidCatalog)
	}

	seen := make(map[string]bool, len(c.Prizes)+len(c.Fillers))
	check := func(e models.Entry, want models.Kind) error {
		if e.ID == "" {
			return fmt.Errorf("%w: entry %q has no id", ErrInvalidCatalog, e.Name)
		}
		if seen[e.ID] {
			return fmt.Errorf("%w: duplicate id %q", ErrInvalidCatalog, e.ID)
		}
		seen[e.ID] = true
		if e.Type != want {
			return fmt.Errorf("%w: entry %q has type %q, want %q", ErrInvalidCatalog, e.ID, e.Type, want)
		}
		return nil
	}
	for _, p := range c.Prizes {
		if err := check(p, models.KindPrize); err != nil {
			return err
		}
	}
	for _, f := range c.Fillers {
		if err := check(f, models.KindPoem); err != nil {
			return err
		}
	}
	return nil
}

// Slots returns prizes followed by fillers, the unshuffled draw sequence.
func (c *Catalog) Slots() []models.Entry {
	slots := make([]models.Entry, 0, len(c.Prizes)+len(c.Fillers))
	slots = append(slots, c.Prizes...)
	return append(slots, c.Fillers...)
}
