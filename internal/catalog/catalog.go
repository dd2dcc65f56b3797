// Package catalog holds the store's expected state: the taxonomy and the collection
// definitions the health monitor reconciles live collections against.
package catalog

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/oilslickpad/storeops/internal/domain"
	"github.com/oilslickpad/storeops/internal/tags"
	"github.com/oilslickpad/storeops/internal/taxonomy"
)

// Definition is the expected configuration of one smart collection.
// MaxProducts of 0 disables the absolute ceiling; Unscoped collections are allowed to
// match the whole catalog.
type Definition struct {
	Handle      string        `yaml:"handle" json:"handle"`
	Title       string        `yaml:"title" json:"title"`
	Rules       []domain.Rule `yaml:"rules" json:"rules"`
	Disjunctive bool          `yaml:"disjunctive" json:"disjunctive"`
	SortOrder   string        `yaml:"sort_order" json:"sortOrder"`
	MinProducts int           `yaml:"min_products,omitempty" json:"minProducts,omitempty"`
	MaxProducts int           `yaml:"max_products,omitempty" json:"maxProducts,omitempty"`
	Unscoped    bool          `yaml:"unscoped,omitempty" json:"unscoped,omitempty"`
	Menu        string        `yaml:"menu,omitempty" json:"menu,omitempty"`
	Position    *int          `yaml:"position,omitempty" json:"position,omitempty"`
}

// Catalog is the loaded expected state. It is not mutated after Load.
type Catalog struct {
	Taxonomy    *taxonomy.Taxonomy
	Collections []Definition
}

// Definition returns the collection definition for a handle
func (c *Catalog) Definition(handle string) (Definition, bool) {
	for _, d := range c.Collections {
		if d.Handle == handle {
			return d, true
		}
	}
	return Definition{}, false
}

// Handles returns every defined handle in table order
func (c *Catalog) Handles() []string {
	out := make([]string, 0, len(c.Collections))
	for _, d := range c.Collections {
		out = append(out, d.Handle)
	}
	return out
}

// file is the YAML layout. Absent sections keep the defaults.
type file struct {
	Families    []taxonomy.Family   `yaml:"families"`
	Values      map[string][]string `yaml:"values"`
	Collections []Definition        `yaml:"collections"`
}

// Default returns the built-in catalog
func Default() *Catalog {
	return &Catalog{
		Taxonomy:    taxonomy.Default(),
		Collections: DefaultCollections(),
	}
}

// Load reads a YAML catalog. An empty path returns the defaults. Families replace
// the default family table, values replace the listed namespaces, and collections
// replace the definitions table.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog %s: %w", path, err)
	}
	return Parse(data)
}

// Parse builds a catalog from YAML bytes
func Parse(data []byte) (*Catalog, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}

	families := taxonomy.DefaultFamilies
	if len(f.Families) > 0 {
		families = f.Families
	}
	values := make(map[tags.Namespace][]string, len(taxonomy.DefaultValues))
	for ns, v := range taxonomy.DefaultValues {
		values[ns] = v
	}
	for ns, v := range f.Values {
		values[tags.Namespace(strings.ToLower(ns))] = v
	}
	tax, err := taxonomy.New(families, values)
	if err != nil {
		return nil, fmt.Errorf("invalid taxonomy: %w", err)
	}

	collections := DefaultCollections()
	if len(f.Collections) > 0 {
		collections = f.Collections
	}
	if err := validate(collections); err != nil {
		return nil, err
	}
	return &Catalog{Taxonomy: tax, Collections: collections}, nil
}

func validate(defs []Definition) error {
	seen := make(map[string]bool, len(defs))
	for _, d := range defs {
		if d.Handle == "" {
			return fmt.Errorf("collection definition without handle")
		}
		if seen[d.Handle] {
			return fmt.Errorf("collection %q defined twice", d.Handle)
		}
		seen[d.Handle] = true
		if len(d.Rules) == 0 {
			return fmt.Errorf("collection %q has no rules", d.Handle)
		}
		for _, r := range d.Rules {
			if r.Column == "" || r.Relation == "" {
				return fmt.Errorf("collection %q has an incomplete rule", d.Handle)
			}
		}
		if d.MaxProducts > 0 && d.MinProducts > d.MaxProducts {
			return fmt.Errorf("collection %q has min_products above max_products", d.Handle)
		}
	}
	return nil
}
