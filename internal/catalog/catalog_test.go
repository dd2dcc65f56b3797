package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oilslickpad/storeops/internal/domain"
	"github.com/oilslickpad/storeops/internal/tags"
)

func TestDefault_QuartzBangers(t *testing.T) {
	c := Default()

	d, ok := c.Definition("quartz-bangers")
	require.True(t, ok)
	assert.False(t, d.Disjunctive)
	assert.Equal(t, []domain.Rule{
		{Column: "vendor", Relation: "equals", Condition: "What You Need"},
		{Column: "tag", Relation: "equals", Condition: "family:banger"},
		{Column: "tag", Relation: "equals", Condition: "material:quartz"},
	}, d.Rules)
}

func TestDefault_TableIsValid(t *testing.T) {
	c := Default()
	require.NoError(t, validate(c.Collections))

	for _, d := range c.Collections {
		for _, r := range d.Rules {
			if r.Column != "tag" {
				continue
			}
			tag := tags.ParseTag(r.Condition)
			assert.True(t, c.Taxonomy.IsValidValue(tag.Namespace, tag.Value), "%s: %s", d.Handle, r.Condition)
		}
	}
}

func TestDefaultCollections_ReturnsCopy(t *testing.T) {
	a := DefaultCollections()
	a[0].Rules[0].Condition = "changed"
	b := DefaultCollections()
	assert.NotEqual(t, "changed", b[0].Rules[0].Condition)
}

func TestLoad_EmptyPathIsDefault(t *testing.T) {
	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default().Handles(), c.Handles())
}

func TestLoad_OverridesCollectionsAndValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	data := `
values:
  brand: [acme]
collections:
  - handle: acme
    title: Acme
    rules:
      - column: vendor
        relation: equals
        condition: Acme
    sort_order: alpha-asc
    min_products: 2
    menu: main-menu
    position: 1
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	c, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, []string{"acme"}, c.Handles())

	d, _ := c.Definition("acme")
	assert.Equal(t, "alpha-asc", d.SortOrder)
	assert.Equal(t, 2, d.MinProducts)
	require.NotNil(t, d.Position)
	assert.Equal(t, 1, *d.Position)

	assert.True(t, c.Taxonomy.IsValidValue(tags.NamespaceBrand, "acme"))
	assert.False(t, c.Taxonomy.IsValidValue(tags.NamespaceBrand, "raw"))
	// families were not overridden
	_, ok := c.Taxonomy.FamilyDefinition("glass-bong")
	assert.True(t, ok)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"bad yaml", "collections: [\n"},
		{"duplicate handle", "collections:\n  - {handle: a, rules: [{column: tag, relation: equals, condition: x}]}\n  - {handle: a, rules: [{column: tag, relation: equals, condition: x}]}\n"},
		{"no rules", "collections:\n  - {handle: a}\n"},
		{"unknown namespace", "values:\n  colour: [red]\n"},
		{"family without pillar", "families:\n  - {name: widget}\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
