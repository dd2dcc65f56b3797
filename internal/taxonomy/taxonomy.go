// Package taxonomy holds the store's tag vocabulary: which families exist, the
// pillar and use each family implies, and the valid values of every namespace.
//
// A Taxonomy is built once per run and never mutated; callers share the pointer.
package taxonomy

import (
	"fmt"
	"sort"
	"strings"

	"github.com/oilslickpad/storeops/internal/tags"
)

// Family is the definition of one family tag value
type Family struct {
	Name      string   `yaml:"name" json:"name"`
	Pillar    string   `yaml:"pillar" json:"pillar"`
	Use       string   `yaml:"use,omitempty" json:"use,omitempty"`
	Materials []string `yaml:"materials,omitempty" json:"materials,omitempty"`
}

// Taxonomy is an immutable lookup over families and namespace values
type Taxonomy struct {
	families []Family
	byName   map[string]Family
	values   map[tags.Namespace]map[string]struct{}
}

// New validates the family table and builds the lookup. Family names, pillars and
// uses are added to their namespaces automatically; values lists the rest.
func New(families []Family, values map[tags.Namespace][]string) (*Taxonomy, error) {
	t := &Taxonomy{
		byName: make(map[string]Family, len(families)),
		values: make(map[tags.Namespace]map[string]struct{}, len(tags.Known)),
	}
	for _, ns := range tags.Known {
		t.values[ns] = map[string]struct{}{}
	}
	for ns, vals := range values {
		if _, ok := t.values[ns]; !ok {
			return nil, fmt.Errorf("unknown namespace %q", ns)
		}
		for _, v := range vals {
			t.values[ns][normalize(v)] = struct{}{}
		}
	}

	for _, f := range families {
		name := normalize(f.Name)
		if name == "" {
			return nil, fmt.Errorf("family with empty name")
		}
		if f.Pillar == "" {
			return nil, fmt.Errorf("family %q has no pillar", f.Name)
		}
		if _, dup := t.byName[name]; dup {
			return nil, fmt.Errorf("family %q defined twice", f.Name)
		}
		def := Family{
			Name:      name,
			Pillar:    normalize(f.Pillar),
			Use:       normalize(f.Use),
			Materials: make([]string, 0, len(f.Materials)),
		}
		for _, m := range f.Materials {
			m = normalize(m)
			def.Materials = append(def.Materials, m)
			t.values[tags.NamespaceMaterial][m] = struct{}{}
		}
		t.byName[name] = def
		t.families = append(t.families, def)

		t.values[tags.NamespaceFamily][name] = struct{}{}
		t.values[tags.NamespacePillar][def.Pillar] = struct{}{}
		if def.Use != "" {
			t.values[tags.NamespaceUse][def.Use] = struct{}{}
		}
	}
	return t, nil
}

// MustNew is New for static tables known to be valid
func MustNew(families []Family, values map[tags.Namespace][]string) *Taxonomy {
	t, err := New(families, values)
	if err != nil {
		panic(err)
	}
	return t
}

// FamilyDefinition returns the definition of a family, if it exists
func (t *Taxonomy) FamilyDefinition(name string) (Family, bool) {
	f, ok := t.byName[normalize(name)]
	return f, ok
}

// IsValidValue reports whether value is part of the namespace's vocabulary
func (t *Taxonomy) IsValidValue(ns tags.Namespace, value string) bool {
	vals, ok := t.values[ns]
	if !ok {
		return false
	}
	_, ok = vals[normalize(value)]
	return ok
}

// KnownNamespaces returns the namespaces the taxonomy validates
func (t *Taxonomy) KnownNamespaces() []tags.Namespace {
	out := make([]tags.Namespace, len(tags.Known))
	copy(out, tags.Known)
	return out
}

// IsKnownNamespace reports whether ns is validated by the taxonomy
func (t *Taxonomy) IsKnownNamespace(ns tags.Namespace) bool {
	_, ok := t.values[ns]
	return ok
}

// Values returns a namespace's vocabulary, sorted
func (t *Taxonomy) Values(ns tags.Namespace) []string {
	vals := t.values[ns]
	out := make([]string, 0, len(vals))
	for v := range vals {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// Families returns the family definitions in declaration order
func (t *Taxonomy) Families() []Family {
	out := make([]Family, len(t.families))
	copy(out, t.families)
	return out
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
