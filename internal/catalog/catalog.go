// internal/catalog/catalog.go
package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/jason-s-yu/landgrab/internal/models"
	"gopkg.in/yaml.v3"
)

//go:embed cards.yaml
var defaultCards []byte

// ErrInvalidTemplate is returned when a catalog file contains a template that cannot be used.
var ErrInvalidTemplate = errors.New("invalid card template")

// catalogFile is the top-level YAML structure of a catalog file.
type catalogFile struct {
	Cards []models.CardTemplate `yaml:"cards"`
}

// Catalog is a read-only mapping from template id to template.
// It is safe for concurrent use because nothing mutates it after construction.
type Catalog struct {
	templates map[string]models.CardTemplate
	ids       []string
}

// New builds a catalog from the given templates, validating each one.
func New(templates ...models.CardTemplate) (*Catalog, error) {
	c := &Catalog{templates: make(map[string]models.CardTemplate, len(templates))}
	for _, t := range templates {
		if t.TemplateID == "" {
			return nil, fmt.Errorf("%w: missing templateId", ErrInvalidTemplate)
		}
		if !t.Type.Valid() {
			return nil, fmt.Errorf("%w: %s has unknown type %q", ErrInvalidTemplate, t.TemplateID, t.Type)
		}
		if t.Cost < 0 {
			return nil, fmt.Errorf("%w: %s has negative cost", ErrInvalidTemplate, t.TemplateID)
		}
		if _, dup := c.templates[t.TemplateID]; dup {
			return nil, fmt.Errorf("%w: duplicate templateId %s", ErrInvalidTemplate, t.TemplateID)
		}
		c.templates[t.TemplateID] = t
		c.ids = append(c.ids, t.TemplateID)
	}
	sort.Strings(c.ids)
	return c, nil
}

// Parse decodes a YAML catalog document.
func Parse(data []byte) (*Catalog, error) {
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse catalog YAML: %w", err)
	}
	return New(f.Cards...)
}

// Load reads a catalog from path, or returns the embedded default catalog when path is empty.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}
	return Parse(data)
}

// Default returns the built-in four-card catalog.
func Default() (*Catalog, error) {
	return Parse(defaultCards)
}

// Get looks up a template by id.
func (c *Catalog) Get(templateID string) (models.CardTemplate, bool) {
	t, ok := c.templates[templateID]
	return t, ok
}

// IDs returns every template id in sorted order.
func (c *Catalog) IDs() []string {
	out := make([]string, len(c.ids))
	copy(out, c.ids)
	return out
}

// All returns every template, sorted by id.
func (c *Catalog) All() []models.CardTemplate {
	out := make([]models.CardTemplate, 0, len(c.ids))
	for _, id := range c.ids {
		out = append(out, c.templates[id])
	}
	return out
}

// Len returns the number of templates.
func (c *Catalog) Len() int {
	return len(c.ids)
}
