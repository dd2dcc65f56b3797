package classify

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oilslickpad/storeops/internal/domain"
)

func findIssue(issues []domain.Issue, code string) (domain.Issue, bool) {
	for _, i := range issues {
		if i.Code == code {
			return i, true
		}
	}
	return domain.Issue{}, false
}

func TestValidate_NoTags(t *testing.T) {
	c := newTestClassifier(t)

	issues := c.Validate(domain.Product{ID: 7, Title: "Mystery Item"})
	require.Len(t, issues, 1)
	assert.Equal(t, "NO_TAGS", issues[0].Code)
	assert.Equal(t, domain.SeverityCritical, issues[0].Severity)
	assert.Equal(t, "7", issues[0].Subject)
	assert.Nil(t, issues[0].Fix)
}

func TestValidate_WrongFamilyNectar(t *testing.T) {
	c := newTestClassifier(t)
	p := domain.Product{ID: 1, Title: "Silicone Nectar Collector Kit", Tags: []string{"family:flower-bowl"}}

	issue, ok := findIssue(c.Validate(p), "WRONG_FAMILY_NECTAR")
	require.True(t, ok)
	assert.Equal(t, domain.SeverityCritical, issue.Severity)
	want := &domain.TagFix{Remove: []string{"family:flower-bowl"}, Add: []string{"family:nectar-collector"}}
	if diff := cmp.Diff(want, issue.Fix); diff != "" {
		t.Errorf("fix mismatch (-want +got):\n%s", diff)
	}

	conv := c.Converge(p)
	assert.Contains(t, conv.After, "family:nectar-collector")
	assert.NotContains(t, conv.After, "family:flower-bowl")
	assert.True(t, conv.Changed())
}

func TestValidate_MissingFamilySuggestsFromTitle(t *testing.T) {
	c := newTestClassifier(t)
	p := domain.Product{Title: "Glass Bong 10in", Tags: []string{"pillar:smokeshop-device"}}

	issue, ok := findIssue(c.Validate(p), "MISSING_FAMILY")
	require.True(t, ok)
	assert.Equal(t, domain.SeverityHigh, issue.Severity)
	assert.Equal(t, "glass-bong", issue.Details["suggested"])
	require.NotNil(t, issue.Fix)
	assert.Equal(t, []string{"family:glass-bong", "use:flower-smoking"}, issue.Fix.Add)
}

func TestValidate_MultipleFamilies(t *testing.T) {
	c := newTestClassifier(t)

	issue, ok := findIssue(c.Validate(domain.Product{
		Title: "Thing",
		Tags:  []string{"family:glass-bong", "family:glass-rig"},
	}), "CONFLICTING_FAMILIES")
	require.True(t, ok)
	assert.Equal(t, domain.SeverityHigh, issue.Severity)
	assert.Nil(t, issue.Fix)

	issue, ok = findIssue(c.Validate(domain.Product{
		Title: "Thing",
		Tags:  []string{"family:glass-bong", "family:bubbler"},
	}), "REDUNDANT_FAMILIES")
	require.True(t, ok)
	assert.Equal(t, domain.SeverityLow, issue.Severity)
}

func TestValidate_InvalidValueSuggestion(t *testing.T) {
	c := newTestClassifier(t)

	issues := c.Validate(domain.Product{
		Title: "Bong",
		Tags:  []string{"family:glas-bong", "pillar:smokeshop-device", "use:flower-smoking"},
	})
	require.Len(t, issues, 1)
	assert.Equal(t, "INVALID_FAMILY", issues[0].Code)
	assert.Equal(t, domain.SeverityMedium, issues[0].Severity)
	assert.Equal(t, "glass-bong", issues[0].Details["suggestion"])
	assert.Equal(t, &domain.TagFix{Remove: []string{"family:glas-bong"}, Add: []string{"family:glass-bong"}}, issues[0].Fix)

	issue, ok := findIssue(c.Validate(domain.Product{
		Title: "Papers",
		Tags:  []string{"family:rolling-paper", "pillar:accessory", "use:rolling", "brand:zigzag"},
	}), "INVALID_BRAND")
	require.True(t, ok)
	assert.Equal(t, domain.SeverityLow, issue.Severity)
	assert.Equal(t, "zig-zag", issue.Details["suggestion"])
}

func TestValidate_ImpliedMismatches(t *testing.T) {
	c := newTestClassifier(t)

	issues := c.Validate(domain.Product{
		Title: "Quartz Banger",
		Tags:  []string{"family:banger", "pillar:smokeshop-device", "use:dabbing", "material:quartz"},
	})
	require.Len(t, issues, 1)
	assert.Equal(t, "PILLAR_MISMATCH", issues[0].Code)
	assert.Equal(t, domain.SeverityHigh, issues[0].Severity)
	assert.Equal(t, &domain.TagFix{Remove: []string{"pillar:smokeshop-device"}, Add: []string{"pillar:accessory"}}, issues[0].Fix)

	issues = c.Validate(domain.Product{
		Title: "Torch",
		Tags:  []string{"family:torch", "pillar:accessory", "use:flower-smoking"},
	})
	require.Len(t, issues, 1)
	assert.Equal(t, "USE_MISMATCH", issues[0].Code)
	assert.Equal(t, &domain.TagFix{Remove: []string{"use:flower-smoking"}, Add: []string{"use:dabbing"}}, issues[0].Fix)
}

func TestValidate_MissingMaterial(t *testing.T) {
	c := newTestClassifier(t)

	issue, ok := findIssue(c.Validate(domain.Product{
		Title: "Quartz Banger",
		Tags:  []string{"family:banger", "pillar:accessory", "use:dabbing"},
	}), "MISSING_MATERIAL")
	require.True(t, ok)
	assert.Equal(t, domain.SeverityMedium, issue.Severity)
	assert.Equal(t, []string{"material:quartz"}, issue.Fix.Add)
}

func TestConverge_SiliconeConeSettlesInTwoPasses(t *testing.T) {
	c := newTestClassifier(t)
	p := domain.Product{
		Title: "Silicone Hand Pipe",
		Tags:  []string{"family:rolling-paper", "pillar:accessory", "use:rolling", "material:silicone"},
	}

	issue, ok := findIssue(c.Validate(p), "SILICONE_CONE_AS_ROLLING_PAPER")
	require.True(t, ok)
	assert.Equal(t, []string{"family:spoon-pipe"}, issue.Fix.Add)

	conv := c.Converge(p)
	assert.Equal(t, 2, conv.Passes)
	assert.Equal(t, []string{"family:spoon-pipe", "material:silicone", "pillar:smokeshop-device"}, conv.After)
}

func TestConverge_SecondRunIsNoop(t *testing.T) {
	c := newTestClassifier(t)
	p := domain.Product{
		Title: "Silicone Nectar Collector Kit",
		Tags:  []string{"family:flower-bowl", "pillar:accessory", "use:flower-smoking"},
	}

	first := c.Converge(p)
	require.True(t, first.Changed())

	p.Tags = first.After
	second := c.Converge(p)
	assert.False(t, second.Changed())
	assert.Zero(t, second.Passes)
	assert.Empty(t, second.Applied)
}
