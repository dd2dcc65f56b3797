package taxonomy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oilslickpad/storeops/internal/tags"
)

func TestDefault_FamilyDefinition(t *testing.T) {
	tax := Default()

	f, ok := tax.FamilyDefinition("nectar-collector")
	require.True(t, ok)
	assert.Equal(t, PillarSmokeshopDevice, f.Pillar)
	assert.Equal(t, UseDabbing, f.Use)
	assert.Contains(t, f.Materials, "silicone")

	f, ok = tax.FamilyDefinition("Apparel")
	require.True(t, ok)
	assert.Empty(t, f.Use)

	_, ok = tax.FamilyDefinition("not-a-family")
	assert.False(t, ok)
}

func TestDefault_EveryFamilyHasAPillar(t *testing.T) {
	tax := Default()
	for _, f := range tax.Families() {
		assert.NotEmpty(t, f.Pillar, f.Name)
		assert.True(t, tax.IsValidValue(tags.NamespacePillar, f.Pillar), f.Name)
		if f.Use != "" {
			assert.True(t, tax.IsValidValue(tags.NamespaceUse, f.Use), f.Name)
		}
	}
}

func TestIsValidValue(t *testing.T) {
	tax := Default()
	assert.True(t, tax.IsValidValue(tags.NamespaceFamily, "glass-bong"))
	assert.True(t, tax.IsValidValue(tags.NamespaceMaterial, "Quartz"))
	assert.True(t, tax.IsValidValue(tags.NamespaceBrand, "cloud-yhs"))
	assert.False(t, tax.IsValidValue(tags.NamespaceFamily, "bong"))
	assert.False(t, tax.IsValidValue(tags.Namespace("vendor"), "anything"))
}

func TestKnownNamespaces(t *testing.T) {
	tax := Default()
	assert.Equal(t, tags.Known, tax.KnownNamespaces())
	assert.True(t, tax.IsKnownNamespace(tags.NamespaceStyle))
	assert.False(t, tax.IsKnownNamespace(tags.Unnamespaced))
}

func TestNew_Rejects(t *testing.T) {
	_, err := New([]Family{{Name: "x"}}, nil)
	assert.Error(t, err)

	_, err = New([]Family{{Name: "x", Pillar: "p"}, {Name: "X", Pillar: "p"}}, nil)
	assert.Error(t, err)

	_, err = New(nil, map[tags.Namespace][]string{"vendor": {"a"}})
	assert.Error(t, err)
}

func TestFamilies_DeclarationOrder(t *testing.T) {
	tax := MustNew([]Family{{Name: "b", Pillar: "p"}, {Name: "a", Pillar: "p"}}, nil)
	fams := tax.Families()
	require.Len(t, fams, 2)
	assert.Equal(t, "b", fams[0].Name)
	assert.Equal(t, "a", fams[1].Name)
}
